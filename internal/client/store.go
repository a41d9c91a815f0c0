// Package client is the client data layer: it keeps the last known task list,
// sends queries and mutations through the proxy endpoint and reconciles the
// list after each confirmed result.
package client

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"faunatodo/internal/logging"
	"faunatodo/internal/service"
)

// ErrNoData is returned when the list query answers without allTasks.
var ErrNoData = errors.New("error while fetching data")

// Store caches the task list. It implements service.Service.
//
// The list only changes after a confirmed response. Concurrent mutations are
// applied in completion order; the last one wins.
type Store struct {
	transport Transport
	logger    *log.Logger
	group     singleflight.Group

	mu    sync.RWMutex
	tasks []service.Task
}

var _ service.Service = (*Store)(nil)

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) StoreOption {
	return func(s *Store) { s.logger = l }
}

// NewStore creates an empty Store on top of t.
func NewStore(t Transport, opts ...StoreOption) *Store {
	s := &Store{transport: t, logger: logging.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Seed replaces the cached list with an initial snapshot.
func (s *Store) Seed(tasks []service.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = clone(tasks)
}

// Snapshot returns a copy of the cached list.
func (s *Store) Snapshot() []service.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.tasks)
}

// Revalidate fetches the list and replaces the cache wholesale. Concurrent
// calls share one request. The shared request outlives a caller whose ctx
// ends first; that caller alone returns ctx.Err().
func (s *Store) Revalidate(ctx context.Context) ([]service.Task, error) {
	fetchCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan(AllTasksQuery, func() (any, error) {
		return s.fetch(fetchCtx)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		s.logger.Debug("list fetch abandoned", "err", ctx.Err())
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		s.logger.Debug("list fetch failed", "err", res.Err)
		return nil, res.Err
	}
	tasks := res.Val.([]service.Task)
	s.logger.Debug("list fetched", "count", len(tasks), "shared", res.Shared)
	return clone(tasks), nil
}

func (s *Store) fetch(ctx context.Context) ([]service.Task, error) {
	var data allTasksData
	if err := s.transport.Do(ctx, AllTasksQuery, nil, &data); err != nil {
		return nil, err
	}
	if data.AllTasks == nil {
		return nil, ErrNoData
	}
	tasks := data.AllTasks.Data
	if tasks == nil {
		tasks = []service.Task{}
	}
	s.Seed(tasks)
	return tasks, nil
}

// ListTasks implements service.Service.
func (s *Store) ListTasks(ctx context.Context) ([]service.Task, error) {
	return s.Revalidate(ctx)
}

// CreateTask implements service.Service.
func (s *Store) CreateTask(ctx context.Context, title string) (service.Task, error) {
	var data createTaskData
	err := s.transport.Do(ctx, CreateTaskMutation, map[string]any{
		"title":     title,
		"completed": false,
	}, &data)
	if err != nil {
		return service.Task{}, err
	}
	if data.CreateTask == nil {
		return service.Task{}, fmt.Errorf("createTask returned no task")
	}
	s.apply(service.Operation{Kind: service.OpCreate}, *data.CreateTask)
	return *data.CreateTask, nil
}

// DeleteTask implements service.Service. The remote call is made even when
// id is not in the cache.
func (s *Store) DeleteTask(ctx context.Context, id string) (service.Task, error) {
	var data deleteTaskData
	if err := s.transport.Do(ctx, DeleteTaskMutation, map[string]any{"id": id}, &data); err != nil {
		return service.Task{}, err
	}
	result := service.Task{ID: id}
	if data.DeleteTask != nil {
		result = *data.DeleteTask
	}
	s.apply(service.Operation{Kind: service.OpDelete, ID: id}, result)
	return result, nil
}

// CompleteTask implements service.Service.
func (s *Store) CompleteTask(ctx context.Context, id, title string, completed bool) (service.Task, error) {
	var data updateTaskData
	err := s.transport.Do(ctx, UpdateTaskMutation, map[string]any{
		"id":        id,
		"title":     title,
		"completed": !completed,
	}, &data)
	if err != nil {
		return service.Task{}, err
	}
	if data.UpdateTask == nil {
		return service.Task{}, fmt.Errorf("updateTask returned no task for %s", id)
	}
	s.apply(service.Operation{Kind: service.OpComplete, ID: id}, *data.UpdateTask)
	return *data.UpdateTask, nil
}

// RenameTask implements service.Service.
func (s *Store) RenameTask(ctx context.Context, id, title string) (service.Task, error) {
	var data updateTaskData
	err := s.transport.Do(ctx, RenameTaskMutation, map[string]any{
		"id":    id,
		"title": title,
	}, &data)
	if err != nil {
		return service.Task{}, err
	}
	if data.UpdateTask == nil {
		return service.Task{}, fmt.Errorf("updateTask returned no task for %s", id)
	}
	s.apply(service.Operation{Kind: service.OpRename, ID: id}, *data.UpdateTask)
	return *data.UpdateTask, nil
}

func (s *Store) apply(op service.Operation, result service.Task) {
	s.mu.Lock()
	s.tasks = service.Reconcile(s.tasks, op, result)
	n := len(s.tasks)
	s.mu.Unlock()
	s.logger.Debug("reconciled", "op", op.Kind, "id", result.ID, "count", n)
}

func clone(tasks []service.Task) []service.Task {
	if tasks == nil {
		return nil
	}
	out := make([]service.Task, len(tasks))
	copy(out, tasks)
	return out
}
