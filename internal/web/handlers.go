package web

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"faunatodo/internal/client"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleIndex(c *gin.Context) {
	tasks, err := s.tasks.ListTasks(c.Request.Context())
	if err != nil {
		// The page only shows a generic message; the cause goes to the log.
		s.renderError(c, err, client.ErrNoData.Error())
		return
	}

	c.HTML(http.StatusOK, "index.html", gin.H{
		"title": pageTitle,
		"tasks": tasks,
	})
}

func (s *Server) handleCreate(c *gin.Context) {
	if _, err := s.tasks.CreateTask(c.Request.Context(), c.PostForm("title")); err != nil {
		s.renderError(c, err, err.Error())
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) handleToggle(c *gin.Context) {
	completed, err := strconv.ParseBool(c.DefaultPostForm("completed", "false"))
	if err != nil {
		c.HTML(http.StatusBadRequest, "error.html", gin.H{
			"title": pageTitle,
			"error": "completed must be true or false",
		})
		return
	}

	_, err = s.tasks.CompleteTask(c.Request.Context(), c.Param("id"), c.PostForm("title"), completed)
	if err != nil {
		s.renderError(c, err, err.Error())
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) handleRename(c *gin.Context) {
	if _, err := s.tasks.RenameTask(c.Request.Context(), c.Param("id"), c.PostForm("title")); err != nil {
		s.renderError(c, err, err.Error())
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) handleDelete(c *gin.Context) {
	if _, err := s.tasks.DeleteTask(c.Request.Context(), c.Param("id")); err != nil {
		s.renderError(c, err, err.Error())
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// renderError logs err and renders the error page showing message.
func (s *Server) renderError(c *gin.Context, err error, message string) {
	s.logger.Error("page request failed", "path", c.Request.URL.Path, "err", err, "request_id", c.GetString(requestIDKey))
	c.HTML(http.StatusInternalServerError, "error.html", gin.H{
		"title": pageTitle,
		"error": message,
	})
}
