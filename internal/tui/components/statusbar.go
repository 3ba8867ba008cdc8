package components

import (
	"github.com/fireledger/fireledger/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// RenderStatusBar renders the bottom status bar: key hints on the left and
// data info on the right. message, when set, replaces the hints.
func RenderStatusBar(width int, hints, info, message string, refreshing bool) string {
	t := theme.Active

	base := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	accent := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)

	left := base.Render(" " + hints)
	if message != "" {
		left = accent.Render(" " + message)
	}

	right := info
	if refreshing {
		right = "refreshing… " + right
	}
	right = base.Render(right + " ")

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}
	fill := lipgloss.NewStyle().Background(t.Surface).Width(padding).Render("")

	return lipgloss.NewStyle().Width(width).MaxWidth(width).Render(left + fill + right)
}
