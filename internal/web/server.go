// Package web serves the to-do page and the Fauna proxy route from one gin
// router.
package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"faunatodo/internal/client"
	"faunatodo/internal/logging"
	"faunatodo/internal/proxy"
	"faunatodo/internal/service"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	pageTitle       = "Task list | faunatodo"
	shutdownTimeout = 5 * time.Second

	// selfURL addresses the proxy route when the page talks to its own router.
	selfURL = "http://faunatodo.local" + proxy.Route
)

// Options configures a Server.
type Options struct {
	Proxy  proxy.Options
	Logger *log.Logger

	// Tasks backs the page. Nil means a client.Store that reaches the proxy
	// route of this server in-process.
	Tasks service.Service
}

// Server is the faunatodo web server.
type Server struct {
	router *gin.Engine
	tasks  service.Service
	logger *log.Logger
}

// NewServer builds the router.
func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	if opts.Proxy.Logger == nil {
		opts.Proxy.Logger = logger
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestID(), requestLogger(logger))
	router.SetHTMLTemplate(template.Must(template.ParseFS(templateFS, "templates/*.html")))

	s := &Server{router: router, tasks: opts.Tasks, logger: logger}
	if s.tasks == nil {
		tr := client.NewHTTPTransport(selfURL, client.HandlerClient(router))
		s.tasks = client.NewStore(tr, client.WithLogger(logger))
	}

	proxy.New(opts.Proxy).Register(router)

	router.GET("/healthz", s.handleHealth)
	router.GET("/", s.handleIndex)
	router.POST("/tasks", s.handleCreate)
	router.POST("/tasks/:id/toggle", s.handleToggle)
	router.POST("/tasks/:id/rename", s.handleRename)
	router.POST("/tasks/:id/delete", s.handleDelete)

	return s
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
