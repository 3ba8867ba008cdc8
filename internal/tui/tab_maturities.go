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

func (a App) renderMaturitiesTab(cw int) string {
	t := theme.Active
	due := a.report.Maturities
	today := model.DateOf(a.opts.Now())
	until := today.AddMonths(a.horizon)

	var principal, maturity float64
	for _, r := range due {
		principal += r.Amount
		maturity += r.MaturityAmount
	}

	var b strings.Builder
	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Window", Value: fmt.Sprintf("%d months", a.horizon), Delta: fmt.Sprintf("%s → %s", today, until)},
		{Label: "Maturing", Value: cli.FormatCount(len(due))},
		{Label: "Payout", Value: cli.FormatAmount(maturity), Delta: cli.FormatSignedAmount(maturity - principal), Tone: components.ToneOf(maturity - principal)},
	}, cw))
	b.WriteString("\n")

	headerStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	soonStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	inner := components.CardInnerWidth(cw)
	const dateW, inW, catW, amtW = 10, 8, 9, 14
	nameW := max(8, inner-dateW-inW-catW-2*amtW-5)

	var list strings.Builder
	list.WriteString(headerStyle.Render(fmt.Sprintf("%-*s %*s %-*s %-*s %*s %*s",
		dateW, "Matures", inW, "In", nameW, "Name", catW, "Category", amtW, "Invested", amtW, "Payout")))
	for _, r := range due {
		days := int(r.EndDate.Time().Sub(today.Time()).Hours() / 24)
		line := fmt.Sprintf("%-*s %*s %-*s %-*s %*s %*s",
			dateW, r.EndDate.String(),
			inW, fmt.Sprintf("%dd", days),
			nameW, truncStr(r.Name, nameW),
			catW, truncStr(string(r.Category), catW),
			amtW, cli.FormatAmount(r.Amount),
			amtW, cli.FormatAmount(r.MaturityAmount))
		list.WriteString("\n")
		if days <= 30 {
			list.WriteString(soonStyle.Render(line))
		} else {
			list.WriteString(rowStyle.Render(line))
		}
	}
	if len(due) == 0 {
		list.WriteString("\n")
		list.WriteString(dimStyle.Render("Nothing matures in this window. Press + to look further ahead."))
	}

	b.WriteString(components.ContentCard("Upcoming Maturities", list.String(), cw))
	return b.String()
}
