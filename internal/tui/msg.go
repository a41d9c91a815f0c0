package tui

import "faunatodo/internal/service"

// Msg is the interface for all TUI messages.
//
//sumtype:decl
type Msg interface {
	sealed()
}

// MsgTasksLoaded is sent when the list has been fetched.
type MsgTasksLoaded struct {
	Tasks []service.Task
	Err   error
}

func (MsgTasksLoaded) sealed() {}

// MsgTaskMutated is sent when a mutation has been answered.
type MsgTaskMutated struct {
	Op     service.Operation
	Result service.Task
	Err    error
}

func (MsgTaskMutated) sealed() {}
