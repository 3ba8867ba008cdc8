package components

import (
	"math"
	"strings"

	"github.com/fireledger/fireledger/internal/cli"
	"github.com/fireledger/fireledger/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// ColorForProgress returns red/orange/yellow/green as a 0-100 target
// percentage fills up.
func ColorForProgress(pct float64) lipgloss.Color {
	t := theme.Active
	switch {
	case pct >= 100:
		return t.GreenBright
	case pct >= 75:
		return t.Green
	case pct >= 50:
		return t.Yellow
	case pct >= 25:
		return t.Orange
	default:
		return t.Red
	}
}

// ProgressBar renders a 0-100 percentage as a filled bar with its label.
// NaN renders an empty bar labelled n/a.
func ProgressBar(pct float64, width int) string {
	t := theme.Active
	label := cli.FormatPercent(pct)

	frac := 0.0
	if !math.IsNaN(pct) {
		frac = math.Max(0, math.Min(pct/100, 1))
	}
	if width < 4 {
		width = 4
	}

	bar := progress.New(
		progress.WithSolidFill(string(ColorForProgress(pct))),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	space := lipgloss.NewStyle().Background(t.Surface)
	labelStyle := lipgloss.NewStyle().Foreground(ColorForProgress(pct)).Background(t.Surface).Bold(true)
	if math.IsNaN(pct) {
		labelStyle = labelStyle.Foreground(t.TextDim)
	}
	return bar.ViewAs(frac) + space.Render(" ") + labelStyle.Render(label)
}

// LabeledBar renders "label  [bar] pct" with the label padded to labelW.
func LabeledBar(label string, pct float64, labelW, barW int) string {
	t := theme.Active
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	return labelStyle.Render(padRight(label, labelW)) + " " + ProgressBar(pct, barW)
}

func padRight(s string, w int) string {
	if gap := w - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}
