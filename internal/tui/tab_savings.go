package tui

import (
	"fmt"
	"strings"

	"github.com/fireledger/fireledger/internal/cli"
	"github.com/fireledger/fireledger/internal/tui/components"
	"github.com/fireledger/fireledger/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

const listOverhead = 4 // card border, title and header rows

func (a App) renderSavingsTab(cw, h int) string {
	t := theme.Active

	listW := cw
	var detailW int
	if !a.isCompactLayout() {
		widths := components.LayoutRow(cw, 3)
		listW = widths[0] + widths[1]
		detailW = widths[2]
	}
	inner := components.CardInnerWidth(listW)

	headerStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceHover).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	const catW, amtW, dateW = 9, 14, 10
	nameW := max(8, inner-catW-2*amtW-dateW-4)

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-*s %-*s %*s %*s %*s",
		nameW, "Name", catW, "Category", amtW, "Principal", amtW, "Maturity", dateW, "Matures")))

	visibleRows := max(1, h-listOverhead)
	start := 0
	if a.savingsCursor >= visibleRows {
		start = a.savingsCursor - visibleRows + 1
	}
	end := min(len(a.visible), start+visibleRows)

	for row := start; row < end; row++ {
		r := a.data.Records[a.visible[row]]
		line := fmt.Sprintf("%-*s %-*s %*s %*s %*s",
			nameW, truncStr(r.Name, nameW),
			catW, truncStr(string(r.Category), catW),
			amtW, cli.FormatAmount(r.Amount),
			amtW, cli.FormatAmount(r.MaturityAmount),
			dateW, r.EndDate.String())
		b.WriteString("\n")
		if row == a.savingsCursor {
			b.WriteString(selStyle.Width(inner).Render(line))
		} else {
			b.WriteString(rowStyle.Render(line))
		}
	}
	if len(a.visible) == 0 {
		b.WriteString("\n")
		if a.query != "" {
			b.WriteString(dimStyle.Render(fmt.Sprintf("No records match %q. Esc clears the filter.", a.query)))
		} else {
			b.WriteString(dimStyle.Render("No savings records. Press a to add one."))
		}
	}

	title := fmt.Sprintf("Savings (%d)", len(a.visible))
	if a.query != "" {
		title = fmt.Sprintf("Savings matching %q (%d of %d)", a.query, len(a.visible), len(a.data.Records))
	}
	list := components.ContentCard(title, b.String(), listW)

	if detailW == 0 {
		return list
	}
	return components.CardRow([]string{list, a.renderRecordDetail(detailW)})
}

func (a App) renderRecordDetail(w int) string {
	t := theme.Active
	idx, ok := a.selectedRecordIndex()
	if !ok {
		return components.ContentCard("Details", "", w)
	}
	r := a.data.Records[idx]

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	inner := components.CardInnerWidth(w)

	field := func(label, value string) string {
		return labelStyle.Render(fmt.Sprintf("%-10s", label)) + valueStyle.Render(truncStr(value, inner-10))
	}

	interestStyle := lipgloss.NewStyle().Background(t.Surface).Foreground(t.Green)
	if r.Interest() < 0 {
		interestStyle = interestStyle.Foreground(t.Red)
	}

	lines := []string{
		field("Name", r.Name),
		field("Category", string(r.Category)),
		field("Invested", cli.FormatAmount(r.Amount)),
		field("Maturity", cli.FormatAmount(r.MaturityAmount)),
		labelStyle.Render(fmt.Sprintf("%-10s", "Interest")) + interestStyle.Render(cli.FormatSignedAmount(r.Interest())),
		field("Start", r.StartDate.String()),
		field("End", r.EndDate.String()),
	}
	if r.Attachment != "" {
		lines = append(lines, field("File", string(r.Attachment)))
	}
	if r.Comments != "" {
		lines = append(lines, "", valueStyle.Width(inner).Render(r.Comments))
	}
	return components.ContentCard(fmt.Sprintf("Record %d", idx), strings.Join(lines, "\n"), w)
}
