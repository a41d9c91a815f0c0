package commands_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"faunatodo/internal/commands"
	"faunatodo/internal/config"
	"faunatodo/internal/exitcode"
	"faunatodo/internal/testutil"
)

// runCommand is a helper to run a command with FakeService.
func runCommand(t *testing.T, cmd commands.Command, svc *testutil.FakeService, args []string, quiet bool) (stdout, stderr string, code int) {
	t.Helper()

	var outBuf, errBuf bytes.Buffer

	cfg := &config.Config{
		Dir:   t.TempDir(),
		Quiet: quiet,
	}

	ctx := context.Background()
	if svc == nil {
		code = cmd.Run(ctx, cfg, nil, args, &outBuf, &errBuf)
	} else {
		code = cmd.Run(ctx, cfg, svc, args, &outBuf, &errBuf)
	}
	return outBuf.String(), errBuf.String(), code
}

func seeded() *testutil.FakeService {
	svc := testutil.NewFakeService()
	svc.AddTask("Buy milk", false)
	svc.AddTask("Walk dog", true)
	svc.AddTask("Call mom", false)
	return svc
}

func TestVersionCommand(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.VersionCmd{}, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "faunatodo 0.1.0\n" {
		t.Errorf("expected version output, got %q", stdout)
	}
}

func TestHelpCommand(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.HelpCmd{}, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	testutil.Golden(t, "help", stdout)
}

func TestListCommand(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, seeded(), nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	testutil.Golden(t, "list", stdout)
}

func TestListCommand_OpenKeepsPositions(t *testing.T) {
	cmd := &commands.ListCmd{}
	cmd.SetOpen(true)

	stdout, _, code := runCommand(t, cmd, seeded(), nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	testutil.Golden(t, "list_open", stdout)
}

func TestListCommand_Empty(t *testing.T) {
	tests := []struct {
		name  string
		quiet bool
		want  string
	}{
		{"normal", false, "no tasks found\n"},
		{"quiet", true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, code := runCommand(t, &commands.ListCmd{}, testutil.NewFakeService(), nil, tt.quiet)
			if code != exitcode.Success {
				t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
			}
			if stdout != tt.want {
				t.Errorf("expected %q, got %q", tt.want, stdout)
			}
		})
	}
}

func TestListCommand_UnexpectedArg(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.ListCmd{}, seeded(), []string{"extra"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: unexpected argument: extra\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestListCommand_BackendError(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.ListTasksErr = errors.New("fetch failed with status 500")

	_, stderr, code := runCommand(t, &commands.ListCmd{}, svc, nil, false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if stderr != "error: backend error: fetch failed with status 500\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestAddCommand(t *testing.T) {
	svc := testutil.NewFakeService()

	stdout, stderr, code := runCommand(t, &commands.AddCmd{}, svc, []string{"Buy", "oat", "milk"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}
	tasks := svc.Tasks()
	if len(tasks) != 1 || tasks[0].Title != "Buy oat milk" || tasks[0].Completed {
		t.Errorf("unexpected tasks %+v", tasks)
	}
}

func TestAddCommand_Quiet(t *testing.T) {
	stdout, _, code := runCommand(t, &commands.AddCmd{}, testutil.NewFakeService(), []string{"x"}, true)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout in quiet mode, got %q", stdout)
	}
}

func TestAddCommand_TitleRequired(t *testing.T) {
	for _, args := range [][]string{nil, {"  "}} {
		svc := testutil.NewFakeService()
		_, stderr, code := runCommand(t, &commands.AddCmd{}, svc, args, false)

		if code != exitcode.UserError {
			t.Errorf("%q: expected exit code %d, got %d", args, exitcode.UserError, code)
		}
		if stderr != "error: title required\n" {
			t.Errorf("%q: unexpected stderr %q", args, stderr)
		}
		if len(svc.Calls()) != 0 {
			t.Errorf("%q: expected no backend calls, got %v", args, svc.Calls())
		}
	}
}

func TestAddCommand_BackendError(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.CreateTaskErr = errors.New("boom")

	_, stderr, code := runCommand(t, &commands.AddCmd{}, svc, []string{"x"}, false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if stderr != "error: backend error: boom\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDoneCommand(t *testing.T) {
	svc := seeded()

	stdout, stderr, code := runCommand(t, &commands.DoneCmd{}, svc, []string{"3"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}
	if !svc.Tasks()[2].Completed {
		t.Error("expected task 3 to be completed")
	}
}

func TestDoneCommand_AlreadyCompleted(t *testing.T) {
	svc := seeded()

	_, stderr, code := runCommand(t, &commands.DoneCmd{}, svc, []string{"2"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: task already completed: 2\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	for _, call := range svc.Calls() {
		if call == "complete" {
			t.Error("expected no complete call")
		}
	}
}

func TestUndoCommand(t *testing.T) {
	svc := seeded()

	stdout, _, code := runCommand(t, &commands.UndoCmd{}, svc, []string{"2"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}
	if svc.Tasks()[1].Completed {
		t.Error("expected task 2 to be open")
	}
}

func TestUndoCommand_NotCompleted(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.UndoCmd{}, seeded(), []string{"1"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: task not completed: 1\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDoneCommand_RefErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing", nil, "error: task reference required\n"},
		{"not a number", []string{"abc"}, "error: invalid task reference: abc\n"},
		{"zero", []string{"0"}, "error: task number out of range: 0\n"},
		{"past end", []string{"4"}, "error: task number out of range: 4\n"},
		{"extra arg", []string{"1", "2"}, "error: unexpected argument: 2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, stderr, code := runCommand(t, &commands.DoneCmd{}, seeded(), tt.args, false)
			if code != exitcode.UserError {
				t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
			}
			if stderr != tt.want {
				t.Errorf("expected %q, got %q", tt.want, stderr)
			}
		})
	}
}

func TestDoneCommand_BackendError(t *testing.T) {
	svc := seeded()
	svc.CompleteTaskErr = testutil.ErrNotFound

	_, stderr, code := runCommand(t, &commands.DoneCmd{}, svc, []string{"1"}, false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if stderr != "error: backend error: instance not found\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestRenameCommand(t *testing.T) {
	svc := seeded()

	stdout, stderr, code := runCommand(t, &commands.RenameCmd{}, svc, []string{"1", "Buy", "oat", "milk"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}
	got := svc.Tasks()[0]
	if got.Title != "Buy oat milk" || got.Completed {
		t.Errorf("unexpected task %+v", got)
	}
}

func TestRenameCommand_TitleRequired(t *testing.T) {
	svc := seeded()

	_, stderr, code := runCommand(t, &commands.RenameCmd{}, svc, []string{"1"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: title required\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if len(svc.Calls()) != 0 {
		t.Errorf("expected no backend calls, got %v", svc.Calls())
	}
}

func TestRmCommand(t *testing.T) {
	svc := seeded()

	stdout, stderr, code := runCommand(t, &commands.RmCmd{}, svc, []string{"1", "3"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}
	tasks := svc.Tasks()
	if len(tasks) != 1 || tasks[0].Title != "Walk dog" {
		t.Errorf("unexpected tasks %+v", tasks)
	}
}

func TestRmCommand_DuplicateNumbers(t *testing.T) {
	svc := seeded()

	_, stderr, code := runCommand(t, &commands.RmCmd{}, svc, []string{"2", "2"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	deletes := 0
	for _, call := range svc.Calls() {
		if call == "delete" {
			deletes++
		}
	}
	if deletes != 1 {
		t.Errorf("expected one delete, got %d", deletes)
	}
}

func TestRmCommand_OutOfRangeDeletesNothing(t *testing.T) {
	svc := seeded()

	_, stderr, code := runCommand(t, &commands.RmCmd{}, svc, []string{"1", "9"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: task number out of range: 9\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if len(svc.Tasks()) != 3 {
		t.Errorf("expected no deletion, got %+v", svc.Tasks())
	}
}

func TestRmCommand_BackendError(t *testing.T) {
	svc := seeded()
	svc.DeleteTaskErr = errors.New("fetch failed with status 500: instance not found")

	_, stderr, code := runCommand(t, &commands.RmCmd{}, svc, []string{"1"}, false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if stderr != "error: backend error: fetch failed with status 500: instance not found\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestRegistry_FindByAlias(t *testing.T) {
	aliases := map[string]string{
		"ls":     "list",
		"create": "add",
		"mv":     "rename",
		"delete": "rm",
	}
	for alias, name := range aliases {
		cmd, ok := commands.DefaultRegistry.Find(alias)
		if !ok {
			t.Errorf("alias %q not registered", alias)
			continue
		}
		if cmd.Name() != name {
			t.Errorf("alias %q resolved to %q, want %q", alias, cmd.Name(), name)
		}
	}
}

func TestRegistry_RejectsTakenNames(t *testing.T) {
	r := commands.NewRegistry()
	if err := r.Register(&commands.RmCmd{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := r.Register(&commands.ListCmd{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := r.Register(&commands.RmCmd{})
	if !errors.Is(err, commands.ErrDuplicateCommand) {
		t.Errorf("expected ErrDuplicateCommand, got %v", err)
	}
	if got := len(r.All()); got != 2 {
		t.Errorf("expected 2 commands, got %d", got)
	}
	if got := commands.DisplayName(&commands.RmCmd{}); got != "rm, delete" {
		t.Errorf("unexpected display name %q", got)
	}
}
