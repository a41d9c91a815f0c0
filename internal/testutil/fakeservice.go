// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"faunatodo/internal/service"
)

// ErrNotFound is returned when a task is not found.
var ErrNotFound = errors.New("instance not found")

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu     sync.RWMutex
	tasks  []service.Task
	nextID int
	calls  []string

	// Error injection for testing
	ListTasksErr    error
	CreateTaskErr   error
	DeleteTaskErr   error
	CompleteTaskErr error
	RenameTaskErr   error
}

var _ service.Service = (*FakeService)(nil)

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{nextID: 1}
}

// AddTask adds a task and returns it.
func (f *FakeService) AddTask(title string, completed bool) service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.insertLocked(title, completed)
}

// Tasks returns a copy of the stored tasks.
func (f *FakeService) Tasks() []service.Task {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]service.Task, len(f.tasks))
	copy(out, f.tasks)
	return out
}

// Calls returns the names of the operations invoked so far.
func (f *FakeService) Calls() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context) ([]service.Task, error) {
	f.record("list")
	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}
	return f.Tasks(), nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, title string) (service.Task, error) {
	f.record("create")
	if f.CreateTaskErr != nil {
		return service.Task{}, f.CreateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.insertLocked(title, false), nil
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id string) (service.Task, error) {
	f.record("delete")
	if f.DeleteTaskErr != nil {
		return service.Task{}, f.DeleteTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	i := f.indexLocked(id)
	if i < 0 {
		return service.Task{}, ErrNotFound
	}
	t := f.tasks[i]
	f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
	return t, nil
}

// CompleteTask implements service.Service.
func (f *FakeService) CompleteTask(ctx context.Context, id, title string, completed bool) (service.Task, error) {
	f.record("complete")
	if f.CompleteTaskErr != nil {
		return service.Task{}, f.CompleteTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	i := f.indexLocked(id)
	if i < 0 {
		return service.Task{}, ErrNotFound
	}
	f.tasks[i].Title = title
	f.tasks[i].Completed = !completed
	return f.tasks[i], nil
}

// RenameTask implements service.Service.
func (f *FakeService) RenameTask(ctx context.Context, id, title string) (service.Task, error) {
	f.record("rename")
	if f.RenameTaskErr != nil {
		return service.Task{}, f.RenameTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	i := f.indexLocked(id)
	if i < 0 {
		return service.Task{}, ErrNotFound
	}
	f.tasks[i].Title = title
	return f.tasks[i], nil
}

func (f *FakeService) record(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, op)
}

func (f *FakeService) insertLocked(title string, completed bool) service.Task {
	t := service.Task{ID: strconv.Itoa(f.nextID), Title: title, Completed: completed}
	f.nextID++
	f.tasks = append(f.tasks, t)
	return t
}

func (f *FakeService) indexLocked(id string) int {
	for i, t := range f.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
