// Package memfauna serves an in-memory stand-in for the Fauna GraphQL
// endpoint, limited to the Task collection the app uses. It is meant for
// local development and tests.
package memfauna

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/graphql-go/graphql"

	"faunatodo/internal/service"
)

// firstID mimics the width of Fauna document ids.
const firstID int64 = 318204858362233000

// ErrNotFound is the error Fauna reports for a missing document.
var ErrNotFound = errors.New("instance not found")

type gqlRequest struct {
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables"`
	OperationName string         `json:"operationName"`
}

type errorResponse struct {
	Errors []map[string]string `json:"errors"`
}

// Server is an http.Handler executing GraphQL against an in-memory list.
type Server struct {
	mu     sync.Mutex
	tasks  []service.Task
	nextID int64
	secret string
	calls  []string

	schema graphql.Schema
}

// Option configures a Server.
type Option func(*Server)

// WithSecret requires "Authorization: Bearer <secret>" on every request.
func WithSecret(secret string) Option {
	return func(s *Server) { s.secret = secret }
}

// New creates an empty server.
func New(opts ...Option) (*Server, error) {
	s := &Server{nextID: firstID}
	for _, opt := range opts {
		opt(s)
	}
	schema, err := s.buildSchema()
	if err != nil {
		return nil, err
	}
	s.schema = schema
	return s, nil
}

// Seed appends tasks with fresh ids and returns them.
func (s *Server) Seed(titles ...string) []service.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []service.Task
	for _, title := range titles {
		out = append(out, s.insertLocked(title, false))
	}
	return out
}

// Tasks returns a copy of the stored tasks.
func (s *Server) Tasks() []service.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]service.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Calls returns the query documents received so far.
func (s *Server) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.calls))
	copy(out, s.calls)
	return out
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if s.secret != "" && r.Header.Get("Authorization") != "Bearer "+s.secret {
		writeJSON(w, http.StatusUnauthorized, errorResponse{
			Errors: []map[string]string{{"message": "Invalid database secret."}},
		})
		return
	}

	var req gqlRequest
	switch r.Method {
	case http.MethodGet:
		req.Query = r.URL.Query().Get("query")
	case http.MethodPost:
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{
				Errors: []map[string]string{{"message": "Invalid JSON body: " + err.Error()}},
			})
			return
		}
	default:
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{
			Errors: []map[string]string{{"message": "Method not allowed"}},
		})
		return
	}

	s.mu.Lock()
	s.calls = append(s.calls, req.Query)
	s.mu.Unlock()

	result := graphql.Do(graphql.Params{
		Schema:         s.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        r.Context(),
	})
	writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) insertLocked(title string, completed bool) service.Task {
	t := service.Task{ID: strconv.FormatInt(s.nextID, 10), Title: title, Completed: completed}
	s.nextID++
	s.tasks = append(s.tasks, t)
	return t
}

func (s *Server) indexLocked(id string) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (s *Server) all() []any {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]any, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = taskMap(t)
	}
	return out
}

func (s *Server) find(id string) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return nil, nil
	}
	return taskMap(s.tasks[i]), nil
}

func (s *Server) create(data map[string]any) (any, error) {
	title, _ := data["title"].(string)
	completed, _ := data["completed"].(bool)

	s.mu.Lock()
	defer s.mu.Unlock()
	return taskMap(s.insertLocked(title, completed)), nil
}

// update replaces title and, when present, completed.
func (s *Server) update(id string, data map[string]any) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	if title, ok := data["title"].(string); ok {
		s.tasks[i].Title = title
	}
	if completed, ok := data["completed"].(bool); ok {
		s.tasks[i].Completed = completed
	}
	return taskMap(s.tasks[i]), nil
}

func (s *Server) remove(id string) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	t := s.tasks[i]
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	return taskMap(t), nil
}

func taskMap(t service.Task) map[string]any {
	return map[string]any{
		"_id":       t.ID,
		"title":     t.Title,
		"completed": t.Completed,
	}
}
