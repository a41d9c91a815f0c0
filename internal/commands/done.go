package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"faunatodo/internal/config"
	"faunatodo/internal/exitcode"
	"faunatodo/internal/service"
)

func init() {
	Register(&DoneCmd{})
	Register(&UndoCmd{})
}

// DoneCmd implements the done command.
type DoneCmd struct{}

func (c *DoneCmd) Name() string       { return "done" }
func (c *DoneCmd) Aliases() []string  { return nil }
func (c *DoneCmd) Synopsis() string   { return "Mark a task completed" }
func (c *DoneCmd) Usage() string      { return "faunatodo done <n>" }
func (c *DoneCmd) NeedsBackend() bool { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	return runSetCompleted(ctx, cfg, svc, true, args, out, errOut)
}

// UndoCmd implements the undo command.
type UndoCmd struct{}

func (c *UndoCmd) Name() string       { return "undo" }
func (c *UndoCmd) Aliases() []string  { return nil }
func (c *UndoCmd) Synopsis() string   { return "Mark a completed task as to do" }
func (c *UndoCmd) Usage() string      { return "faunatodo undo <n>" }
func (c *UndoCmd) NeedsBackend() bool { return true }

func (c *UndoCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *UndoCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	return runSetCompleted(ctx, cfg, svc, false, args, out, errOut)
}

// runSetCompleted re-reads the list and flips the task only when it is not
// already in the wanted state. The backend operation itself is a toggle.
func runSetCompleted(ctx context.Context, cfg *config.Config, svc service.Service, want bool, args []string, out, errOut io.Writer) int {
	num, rest, err := ParseTaskRef(args)
	if err != nil {
		return reportRefError(errOut, err)
	}
	if len(rest) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", rest[0])
		return exitcode.UserError
	}

	tasks, err := svc.ListTasks(ctx)
	if err != nil {
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}
	found, err := lookupTasks(tasks, num)
	if err != nil {
		return reportRefError(errOut, err)
	}
	task := found[0]

	if task.Completed == want {
		if want {
			fmt.Fprintf(errOut, "error: task already completed: %d\n", num)
		} else {
			fmt.Fprintf(errOut, "error: task not completed: %d\n", num)
		}
		return exitcode.UserError
	}

	if _, err := svc.CompleteTask(ctx, task.ID, task.Title, task.Completed); err != nil {
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
