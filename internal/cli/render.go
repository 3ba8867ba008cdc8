package cli

import (
	"fmt"
	"math"
	"strings"

	"github.com/fireledger/fireledger/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Table represents a bordered text table for CLI output.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// separatorRow marks a horizontal rule inside Rows.
const separatorRow = "---"

// Separator returns a row that renders as a horizontal rule.
func Separator() []string { return []string{separatorRow} }

func titleStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(theme.Active.TextPrimary).Align(lipgloss.Center)
}

func headerStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(theme.Active.Accent)
}

func mutedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.Active.TextMuted)
}

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Active.Border).
		Width(55).
		Align(lipgloss.Center).
		Padding(0, 1)

	return border.Render(titleStyle().Render(title))
}

// RenderTable renders a bordered table. The first column is left-aligned,
// the rest right-aligned. Separator rows render as a dotted rule.
func RenderTable(t Table) string {
	if len(t.Rows) == 0 && len(t.Headers) == 0 {
		return ""
	}

	cellStyle := lipgloss.NewStyle().Padding(0, 1).Foreground(theme.Active.TextPrimary)
	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Active.TextDim)).
		BorderRow(false).
		Headers(t.Headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := cellStyle
			if row == table.HeaderRow {
				return headerStyle().Padding(0, 1)
			}
			if col > 0 {
				s = s.Align(lipgloss.Right)
			}
			return s
		})

	// lipgloss tables have no inline rules.
	rows := make([][]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		if len(row) == 1 && row[0] == separatorRow {
			rows = append(rows, ruleRow(len(t.Headers)))
			continue
		}
		rows = append(rows, row)
	}
	tbl.Rows(rows...)

	var b strings.Builder
	if t.Title != "" {
		b.WriteString("  ")
		b.WriteString(headerStyle().Render(t.Title))
		b.WriteString("\n")
	}
	b.WriteString(tbl.Render())
	b.WriteString("\n")
	return b.String()
}

func ruleRow(cols int) []string {
	row := make([]string, cols)
	for i := range row {
		row[i] = "·"
	}
	return row
}

// RenderProgressBar renders a bar for a 0-100 percentage. Values outside
// the range are clamped; NaN renders an empty bar labelled n/a.
func RenderProgressBar(pct float64, width int) string {
	label := FormatPercent(pct)
	if math.IsNaN(pct) {
		pct = 0
	}
	frac := math.Max(0, math.Min(pct/100, 1))
	filled := int(frac * float64(width))

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("[%s] %s", mutedStyle().Render(bar), label)
}

// RenderSparkline generates a unicode block sparkline from a series of values.
// The lowest value maps to the shortest block.
func RenderSparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	span := hi - lo

	var b strings.Builder
	for _, v := range values {
		idx := 0
		if span > 0 {
			idx = int((v - lo) / span * float64(len(blocks)-1))
		}
		idx = max(0, min(idx, len(blocks)-1))
		b.WriteRune(blocks[idx])
	}

	return b.String()
}

// RenderHorizontalBar renders a bar proportional to value/maxValue.
func RenderHorizontalBar(value, maxValue float64, maxWidth int) string {
	if maxValue <= 0 || value <= 0 {
		return ""
	}
	barLen := int(value / maxValue * float64(maxWidth))
	barLen = max(0, min(barLen, maxWidth))
	return lipgloss.NewStyle().Foreground(theme.Active.Accent).Render(strings.Repeat("█", barLen))
}
