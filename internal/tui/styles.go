package tui

import "github.com/charmbracelet/lipgloss"

// Colors used in the TUI.
var (
	ColorPrimary = lipgloss.Color("#7C3AED") // Purple
	ColorSuccess = lipgloss.Color("#10B981") // Green
	ColorError   = lipgloss.Color("#EF4444") // Red
	ColorMuted   = lipgloss.Color("#9CA3AF") // Light gray
)

// Styles holds the styles for the TUI.
type Styles struct {
	Title    lipgloss.Style
	Selected lipgloss.Style
	Normal   lipgloss.Style
	Done     lipgloss.Style
	Empty    lipgloss.Style
	Loading  lipgloss.Style
	Input    lipgloss.Style
	Error    lipgloss.Style
	Help     lipgloss.Style
}

// DefaultStyles returns the default styles.
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			MarginBottom(1),
		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(ColorPrimary).
			Padding(0, 1),
		Normal: lipgloss.NewStyle().
			Padding(0, 1),
		Done: lipgloss.NewStyle().
			Foreground(ColorSuccess),
		Empty: lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true),
		Loading: lipgloss.NewStyle().
			Foreground(ColorMuted),
		Input: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(0, 1),
		Error: lipgloss.NewStyle().
			Foreground(ColorError),
		Help: lipgloss.NewStyle().
			Foreground(ColorMuted).
			MarginTop(1),
	}
}
