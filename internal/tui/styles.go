// Package tui provides the Bubble Tea prompts and the progress bar used by
// the ninebynine command.
package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Color palette.
var (
	primaryColor   = lipgloss.Color("#7C3AED") // Purple
	successColor   = lipgloss.Color("#10B981") // Green
	warningColor   = lipgloss.Color("#F59E0B") // Amber
	mutedColor     = lipgloss.Color("#6B7280") // Gray
	highlightColor = lipgloss.Color("#3B82F6") // Blue
)

// Styles for TUI components.
var (
	// TitleStyle for prompt titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	// CursorStyle for the row under the cursor.
	CursorStyle = lipgloss.NewStyle().
			Foreground(highlightColor).
			Bold(true)

	// CheckedStyle for picked rows.
	CheckedStyle = lipgloss.NewStyle().
			Foreground(successColor)

	// ItemStyle for other rows.
	ItemStyle = lipgloss.NewStyle()

	// StatusStyle for the progress status line.
	StatusStyle = lipgloss.NewStyle().
			Foreground(warningColor)

	// HelpStyle for help text.
	HelpStyle = lipgloss.NewStyle().
			Foreground(mutedColor)
)

// DisableColors renders every style without ANSI colors.
func DisableColors() {
	lipgloss.SetColorProfile(termenv.Ascii)
}
