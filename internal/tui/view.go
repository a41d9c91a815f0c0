package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// View renders the model.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("Task list"))
	b.WriteString("\n")

	switch {
	case m.loading && m.tasks == nil:
		b.WriteString(m.styles.Loading.Render("Loading..."))
		b.WriteString("\n")
	case len(m.tasks) == 0 && m.err == nil:
		b.WriteString(m.styles.Empty.Render("No tasks."))
		b.WriteString("\n")
	default:
		for i, t := range m.tasks {
			b.WriteString(m.renderTask(i == m.cursor, t.Title, t.Completed))
			b.WriteString("\n")
		}
	}

	if m.mode != ModeNormal {
		b.WriteString(m.styles.Input.Render(m.input.View()))
		b.WriteString("\n")
	}

	if m.pending > 0 {
		b.WriteString(m.styles.Loading.Render("Saving..."))
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString(m.styles.Error.Render("error: " + m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString(m.renderHelp())
	return b.String()
}

func (m *Model) renderTask(selected bool, title string, completed bool) string {
	box := "[ ]"
	if completed {
		box = m.styles.Done.Render("[x]")
	}
	line := fmt.Sprintf("%s %s", box, title)
	if selected {
		return m.styles.Selected.Render(line)
	}
	return m.styles.Normal.Render(line)
}

func (m *Model) renderHelp() string {
	var bindings []key.Binding
	switch {
	case m.mode != ModeNormal:
		bindings = m.keys.inputHelp()
	case !m.loaded:
		bindings = m.keys.unloadedHelp()
	default:
		bindings = m.keys.normalHelp()
	}
	parts := make([]string, 0, len(bindings))
	for _, kb := range bindings {
		parts = append(parts, helpEntry(kb))
	}
	return m.styles.Help.Render(strings.Join(parts, " • "))
}

func helpEntry(kb key.Binding) string {
	h := kb.Help()
	return h.Key + " " + h.Desc
}
