// Package tui is the interactive terminal view of the task list.
package tui

import (
	"context"
	"io"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"faunatodo/internal/service"
)

// Mode represents the current UI mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeAdd
	ModeRename
)

// Model is the task list TUI model. It keeps its own copy of the list and
// reconciles it after each confirmed mutation.
type Model struct {
	ctx context.Context
	svc service.Service

	tasks []service.Task
	err   error

	keys   KeyMap
	styles Styles
	input  textinput.Model

	cursor  int
	pending int
	width   int
	mode    Mode
	loading bool

	// loaded is set by the first successful fetch. Until then only refresh
	// and quit are accepted.
	loaded bool
}

// New creates a model backed by svc.
func New(ctx context.Context, svc service.Service) *Model {
	ti := textinput.New()
	ti.CharLimit = 500

	return &Model{
		ctx:     ctx,
		svc:     svc,
		keys:    DefaultKeyMap(),
		styles:  DefaultStyles(),
		input:   ti,
		mode:    ModeNormal,
		loading: true,
	}
}

// Run starts the program on the given terminal streams and blocks until the
// user quits or ctx is done.
func Run(ctx context.Context, svc service.Service, in io.Reader, out io.Writer) error {
	p := tea.NewProgram(New(ctx, svc),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)
	_, err := p.Run()
	return err
}

// Tasks returns the model's copy of the list.
func (m *Model) Tasks() []service.Task {
	return m.tasks
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return m.loadTasks()
}

func (m *Model) loadTasks() tea.Cmd {
	return func() tea.Msg {
		tasks, err := m.svc.ListTasks(m.ctx)
		return MsgTasksLoaded{Tasks: tasks, Err: err}
	}
}

// mutate runs fn as a command and reports the confirmed result for op.
func (m *Model) mutate(op service.Operation, fn func(ctx context.Context) (service.Task, error)) tea.Cmd {
	m.pending++
	return func() tea.Msg {
		result, err := fn(m.ctx)
		return MsgTaskMutated{Op: op, Result: result, Err: err}
	}
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.mode != ModeNormal {
			return m.handleInputKey(msg)
		}
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-8, 10)
		return m, nil

	case MsgTasksLoaded:
		m.loading = false
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.err = nil
		m.loaded = true
		m.tasks = msg.Tasks
		m.clampCursor()
		return m, nil

	case MsgTaskMutated:
		if m.pending > 0 {
			m.pending--
		}
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.err = nil
		m.tasks = service.Reconcile(m.tasks, msg.Op, msg.Result)
		m.clampCursor()
		return m, nil
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.tasks)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		m.loading = true
		return m, m.loadTasks()
	}

	if !m.loaded {
		return m, nil
	}

	if key.Matches(msg, m.keys.Add) {
		return m, m.startInput(ModeAdd, "")
	}

	task, ok := m.selected()
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Toggle):
		op := service.Operation{Kind: service.OpComplete, ID: task.ID}
		return m, m.mutate(op, func(ctx context.Context) (service.Task, error) {
			return m.svc.CompleteTask(ctx, task.ID, task.Title, task.Completed)
		})

	case key.Matches(msg, m.keys.Delete):
		op := service.Operation{Kind: service.OpDelete, ID: task.ID}
		return m, m.mutate(op, func(ctx context.Context) (service.Task, error) {
			return m.svc.DeleteTask(ctx, task.ID)
		})

	case key.Matches(msg, m.keys.Rename):
		return m, m.startInput(ModeRename, task.Title)
	}

	return m, nil
}

func (m *Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.stopInput()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		title := m.input.Value()
		mode := m.mode
		m.stopInput()
		if title == "" {
			return m, nil
		}
		return m, m.submit(mode, title)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) submit(mode Mode, title string) tea.Cmd {
	if mode == ModeAdd {
		return m.mutate(service.Operation{Kind: service.OpCreate}, func(ctx context.Context) (service.Task, error) {
			return m.svc.CreateTask(ctx, title)
		})
	}

	task, ok := m.selected()
	if !ok {
		return nil
	}
	op := service.Operation{Kind: service.OpRename, ID: task.ID}
	return m.mutate(op, func(ctx context.Context) (service.Task, error) {
		return m.svc.RenameTask(ctx, task.ID, title)
	})
}

func (m *Model) startInput(mode Mode, value string) tea.Cmd {
	m.mode = mode
	m.input.Reset()
	m.input.SetValue(value)
	m.input.CursorEnd()
	if mode == ModeAdd {
		m.input.Placeholder = "New task"
	} else {
		m.input.Placeholder = "Title"
	}
	return m.input.Focus()
}

func (m *Model) stopInput() {
	m.mode = ModeNormal
	m.input.Blur()
	m.input.Reset()
}

func (m *Model) selected() (service.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.tasks) {
		return service.Task{}, false
	}
	return m.tasks[m.cursor], true
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.tasks) {
		m.cursor = len(m.tasks) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}
