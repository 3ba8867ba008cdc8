package tui

import (
	"fmt"
	"strings"

	"github.com/fireledger/fireledger/internal/cli"
	"github.com/fireledger/fireledger/internal/model"
	"github.com/fireledger/fireledger/internal/tui/components"
	"github.com/fireledger/fireledger/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderGoalsTab(cw, h int) string {
	t := theme.Active
	goals := a.data.Goals
	inner := components.CardInnerWidth(cw)

	if len(goals) == 0 {
		dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
		return components.ContentCard("Goals", dim.Render("No goals yet. Add one with `fireledger goals add`."), cw)
	}

	nameStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true)
	selStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceHover).Bold(true)
	metaStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	// Two lines per goal plus a spacer.
	perGoal := 3
	visible := max(1, (h-listOverhead)/perGoal)
	start := 0
	if a.goalsCursor >= visible {
		start = a.goalsCursor - visible + 1
	}
	end := min(len(goals), start+visible)

	var b strings.Builder
	for i := start; i < end; i++ {
		g := goals[i]
		if i > start {
			b.WriteString("\n\n")
		}
		style := nameStyle
		if i == a.goalsCursor {
			style = selStyle
		}
		b.WriteString(style.Render(truncStr(g.Name, inner/2)))
		b.WriteString(metaStyle.Render(fmt.Sprintf("  %s · %s · %s", goalType(g), g.Priority, g.Status)))
		b.WriteString("\n")

		amounts := fmt.Sprintf("%s / %s", cli.FormatCompact(g.CurrentAmount), cli.FormatCompact(g.TargetAmount))
		if !g.TargetDate.IsZero() {
			amounts += " by " + g.TargetDate.String()
		}
		barW := max(10, inner-lipgloss.Width(amounts)-12)
		b.WriteString(components.ProgressBar(g.Progress(), barW))
		b.WriteString(metaStyle.Render("  " + amounts))
	}

	var saved, target float64
	for _, g := range goals {
		saved += g.CurrentAmount
		target += g.TargetAmount
	}
	title := fmt.Sprintf("Goals (%d) · %s of %s saved", len(goals), cli.FormatCompact(saved), cli.FormatCompact(target))
	return components.ContentCard(title, b.String(), cw)
}

func goalType(g model.SavingsGoal) string {
	if g.Type == "" {
		return "General"
	}
	return g.Type
}
