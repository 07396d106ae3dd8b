package terminal

import (
	"breathe/internal/ui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Styles contains the lipgloss styles for the terminal host.
type Styles struct {
	Title     lipgloss.Style
	Countdown lipgloss.Style
	Phase     lipgloss.Style
	Seconds   lipgloss.Style
	Filled    lipgloss.Style
	Empty     lipgloss.Style
	Paused    lipgloss.Style
	Error     lipgloss.Style
	App       lipgloss.Style
}

// NewStyles derives terminal styles from a resolved palette.
func NewStyles(palette theme.Palette) Styles {
	accent := lipgloss.Color(theme.Hex(palette.Accent))
	text := lipgloss.Color(theme.Hex(palette.Text))
	muted := lipgloss.Color(theme.Hex(palette.Muted))

	return Styles{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(text),
		Countdown: lipgloss.NewStyle().Bold(true).Foreground(accent).Padding(1, 4),
		Phase:     lipgloss.NewStyle().Bold(true).Foreground(text),
		Seconds:   lipgloss.NewStyle().Foreground(muted),
		Filled:    lipgloss.NewStyle().Foreground(accent),
		Empty:     lipgloss.NewStyle().Foreground(muted),
		Paused:    lipgloss.NewStyle().Italic(true).Foreground(muted),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("#e53935")),
		App:       lipgloss.NewStyle().Padding(1, 2),
	}
}
