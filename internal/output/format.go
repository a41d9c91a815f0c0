// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"faunatodo/internal/service"
)

const (
	// ListSeparator is the separator line for list sections.
	ListSeparator = "------------"
)

// FormatTask formats a numbered task line.
// Format: "{N:>4}  [x] {TITLE}\n", with "[ ]" for open tasks.
func FormatTask(w io.Writer, num int, task service.Task) {
	mark := " "
	if task.Completed {
		mark = "x"
	}
	fmt.Fprintf(w, "%4d  [%s] %s\n", num, mark, normalizeTitle(task.Title))
}

// FormatTitle formats a numbered title without completion state.
func FormatTitle(w io.Writer, num int, title string) {
	fmt.Fprintf(w, "%4d  %s\n", num, normalizeTitle(title))
}

// FormatListHeader formats a list section header.
func FormatListHeader(w io.Writer, title string) {
	fmt.Fprintln(w, ListSeparator)
	fmt.Fprintln(w, normalizeTitle(title))
	fmt.Fprintln(w, ListSeparator)
}

// normalizeTitle normalizes a title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
