// Package service defines the task model and the operations every task
// backend exposes to the presentation layers.
package service

import "context"

// Service defines the task operations used by the CLI, the TUI and the web
// page. Implementations keep a local copy of the list and reconcile it after
// each confirmed mutation.
type Service interface {
	// ListTasks fetches the full list in remote order and replaces the
	// local copy.
	ListTasks(ctx context.Context) ([]Task, error)

	// CreateTask creates an uncompleted task and returns it with its new ID.
	CreateTask(ctx context.Context, title string) (Task, error)

	// DeleteTask deletes a task by ID.
	DeleteTask(ctx context.Context, id string) (Task, error)

	// CompleteTask flips completed relative to the caller-known state:
	// the remote receives !completed. title is required by the schema.
	CompleteTask(ctx context.Context, id, title string, completed bool) (Task, error)

	// RenameTask changes the title only.
	RenameTask(ctx context.Context, id, title string) (Task, error)
}
