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

func (a App) renderOverviewTab(cw int) string {
	t := theme.Active
	s := a.report.Summary
	var b strings.Builder

	roi := "ROI n/a"
	if s.HasROI() {
		roi = "ROI " + cli.FormatPercent(s.ROIPercent)
	}
	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Invested", Value: cli.FormatAmount(s.TotalPrincipal), Delta: cli.FormatCount(len(a.data.Records)) + " records"},
		{Label: "At maturity", Value: cli.FormatAmount(s.TotalMaturity), Delta: cli.FormatPercent(s.ProgressPercent) + " invested"},
		{Label: "Interest", Value: cli.FormatSignedAmount(s.TotalInterest), Delta: roi, Tone: components.ToneOf(s.TotalInterest)},
		{Label: fmt.Sprintf("Due in %dm", a.horizon), Value: cli.FormatCount(len(a.report.Maturities)), Delta: dueTotal(a.report.Maturities)},
	}, cw))
	b.WriteString("\n")

	halves := components.LayoutRow(cw, 2)
	if a.isCompactLayout() {
		halves = []int{cw, cw}
	}

	// Category totals
	inner := components.CardInnerWidth(halves[0])
	nameW := 10
	amtW := 14
	barW := max(4, inner-nameW-2*amtW-3)
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	maxPrincipal := 0.0
	for _, e := range a.report.Categories.Entries() {
		if e.Category != model.AllCategory {
			maxPrincipal = max(maxPrincipal, e.Totals.Principal)
		}
	}
	var cat strings.Builder
	cat.WriteString(labelStyle.Render(fmt.Sprintf("%-*s %*s %*s", nameW, "Category", amtW, "Principal", amtW, "Interest")))
	for i, e := range a.report.Categories.Entries() {
		if e.Category == model.AllCategory {
			continue
		}
		if e.Totals.Principal == 0 && e.Totals.Maturity == 0 {
			continue
		}
		var bar string
		if maxPrincipal > 0 && e.Totals.Principal > 0 {
			bar = strings.Repeat("█", max(1, int(e.Totals.Principal/maxPrincipal*float64(barW))))
		}
		cat.WriteString("\n")
		cat.WriteString(valueStyle.Render(fmt.Sprintf("%-*s %*s %*s ", nameW, e.Category,
			amtW, cli.FormatCompact(e.Totals.Principal), amtW, cli.FormatCompact(e.Totals.Interest()))))
		cat.WriteString(lipgloss.NewStyle().Foreground(t.Series(i)).Background(t.Surface).Render(bar))
	}
	if maxPrincipal == 0 {
		cat.WriteString("\n")
		cat.WriteString(labelStyle.Render("No savings recorded yet. Press s then a to add one."))
	}
	catCard := components.ContentCard("By Category", cat.String(), halves[0])

	// FIRE snapshot
	o := a.report.Overview
	p := a.report.Projection
	var fire strings.Builder
	fire.WriteString(components.LabeledBar("Net worth", o.ProgressPct, 12, components.CardInnerWidth(halves[1])-22))
	fire.WriteString("\n")
	fire.WriteString(labelStyle.Render("Projected  ") + valueStyle.Render(cli.FormatAmount(p.ProjectedAmount)))
	fire.WriteString("\n")
	fire.WriteString(labelStyle.Render("Horizon    ") + valueStyle.Render(cli.FormatYears(p.YearsToRetirement)))
	fire.WriteString("\n")
	fire.WriteString(labelStyle.Render("Trend      ") + components.Sparkline(p.YearlySamples(), t.Accent))
	fireCard := components.ContentCard("FIRE", fire.String(), halves[1])

	if a.isCompactLayout() {
		b.WriteString(catCard)
		b.WriteString("\n")
		b.WriteString(fireCard)
	} else {
		b.WriteString(components.CardRow([]string{catCard, fireCard}))
	}
	return b.String()
}

func dueTotal(due []model.SavingsRecord) string {
	if len(due) == 0 {
		return "nothing due"
	}
	var sum float64
	for _, r := range due {
		sum += r.MaturityAmount
	}
	return cli.FormatCompact(sum) + " maturing"
}
