package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fireledger/fireledger/internal/cli"
	"github.com/fireledger/fireledger/internal/tui/components"
	"github.com/fireledger/fireledger/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderFireTab(cw int) string {
	t := theme.Active
	p := a.data.Profile
	o := a.report.Overview
	proj := a.report.Projection
	var b strings.Builder

	gap := proj.ProjectedAmount - p.TargetRetirementAmount
	gapLabel := "short of target"
	if gap >= 0 {
		gapLabel = "above target"
	}
	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Retire in", Value: cli.FormatYears(proj.YearsToRetirement), Delta: fmt.Sprintf("age %d → %d", p.CurrentAge, p.TargetRetirementAge)},
		{Label: "Projected", Value: cli.FormatCompact(proj.ProjectedAmount), Delta: cli.FormatCompact(gap) + " " + gapLabel, Tone: components.ToneOf(gap)},
		{Label: "Target", Value: cli.FormatCompact(p.TargetRetirementAmount), Delta: cli.FormatPercent(o.ProgressPct) + " there"},
		{Label: "FIRE number", Value: cli.FormatCompact(o.FireNumber), Delta: cli.FormatPercent(p.SafeWithdrawalRate) + " withdrawal"},
	}, cw))
	b.WriteString("\n")

	yearly := proj.YearlySamples()
	labels := make([]string, len(yearly))
	for i := range yearly {
		labels[i] = strconv.Itoa(p.CurrentAge + i)
	}
	chartH := 10
	if a.isCompactLayout() {
		chartH = 7
	}
	b.WriteString(components.ContentCard(
		fmt.Sprintf("Net Worth by Age (%s return)", cli.FormatPercent(p.ExpectedReturnRate)),
		components.BarChart(yearly, labels, t.Blue, components.CardInnerWidth(cw), chartH),
		cw,
	))
	b.WriteString("\n")

	halves := components.LayoutRow(cw, 2)
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	row := func(label, value string) string {
		return labelStyle.Render(fmt.Sprintf("%-16s", label)) + valueStyle.Render(value)
	}

	surplusStyle := lipgloss.NewStyle().Background(t.Surface).Foreground(t.Green)
	if o.MonthlySurplus < 0 {
		surplusStyle = surplusStyle.Foreground(t.Red)
	}
	flow := strings.Join([]string{
		row("Income", cli.FormatAmount(o.MonthlyIncome)),
		row("  passive", cli.FormatAmount(o.PassiveIncome)),
		row("Expenses", cli.FormatAmount(o.MonthlyExpenses)),
		row("  essential", cli.FormatAmount(o.EssentialExpenses)),
		labelStyle.Render(fmt.Sprintf("%-16s", "Surplus")) + surplusStyle.Render(cli.FormatSignedAmount(o.MonthlySurplus)),
	}, "\n")

	barW := max(8, components.CardInnerWidth(halves[1])-28)
	savingsTargetPct := 0.0
	if p.MonthlySavingsTarget > 0 {
		savingsTargetPct = p.CurrentMonthlySavings / p.MonthlySavingsTarget * 100
	}
	plan := strings.Join([]string{
		row("Monthly savings", cli.FormatAmount(p.CurrentMonthlySavings)),
		components.LabeledBar("vs target", savingsTargetPct, 16, barW),
		components.LabeledBar("Savings rate", o.SavingsRatePct, 16, barW),
		row("Inflation", cli.FormatPercent(p.InflationRate)),
	}, "\n")

	flowCard := components.ContentCard("Monthly Cash Flow", flow, halves[0])
	planCard := components.ContentCard("Plan", plan, halves[1])
	if a.isCompactLayout() {
		b.WriteString(flowCard)
		b.WriteString("\n")
		b.WriteString(planCard)
	} else {
		b.WriteString(components.CardRow([]string{flowCard, planCard}))
	}
	return b.String()
}
