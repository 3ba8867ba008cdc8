package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/fireledger/fireledger/internal/cli"
	"github.com/fireledger/fireledger/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

var eighths = []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders a unicode sparkline scaled between the series minimum
// and maximum, so slow growth on a large base stays visible.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active
	style := lipgloss.NewStyle().Foreground(color).Background(t.Surface)
	return style.Render(cli.RenderSparkline(values))
}

// BarChart renders a vertical bar chart with an amount-labelled Y axis and
// optional X labels (one per value). Negative and non-finite values draw as
// empty bars.
// Charts too small to be legible fall back to a sparkline.
func BarChart(values []float64, labels []string, color lipgloss.Color, width, height int) string {
	if len(values) == 0 {
		return ""
	}
	if width < 15 || height < 3 {
		return Sparkline(values, color)
	}
	t := theme.Active

	peak := 0.0
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		peak = math.Max(peak, v)
	}
	ceiling := niceCeiling(peak)

	yLabelW := max(4, lipgloss.Width(formatChartLabel(ceiling))+1)
	plotW := max(5, width-yLabelW-1)

	values, labels = downsample(values, labels, (plotW+1)/3)
	n := len(values)
	barW := min(6, max(2, (plotW-(n-1))/n))
	axisLen := n*barW + (n - 1)

	axis := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	bar := lipgloss.NewStyle().Foreground(color).Background(t.Surface)
	top := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)
	blank := lipgloss.NewStyle().Background(t.Surface)

	var b strings.Builder
	for row := height; row >= 1; row-- {
		rowTop := ceiling * float64(row) / float64(height)
		rowBottom := ceiling * float64(row-1) / float64(height)

		label := ""
		switch row {
		case height:
			label = formatChartLabel(ceiling)
		case (height + 1) / 2:
			label = formatChartLabel(rowTop)
		}
		b.WriteString(axis.Render(fmt.Sprintf("%*s│", yLabelW, label)))

		style := bar
		if float64(row)/float64(height) > 0.8 {
			style = top
		}
		for i, v := range values {
			if i > 0 {
				b.WriteString(blank.Render(" "))
			}
			switch {
			case v >= rowTop:
				b.WriteString(style.Render(strings.Repeat("█", barW)))
			case v > rowBottom:
				idx := int((v - rowBottom) / (rowTop - rowBottom) * 8)
				idx = max(1, min(idx, 8))
				b.WriteString(style.Render(strings.Repeat(string(eighths[idx]), barW)))
			default:
				b.WriteString(blank.Render(strings.Repeat(" ", barW)))
			}
		}
		b.WriteString("\n")
	}
	b.WriteString(axis.Render(fmt.Sprintf("%*s└%s", yLabelW, "0", strings.Repeat("─", axisLen))))

	if len(labels) == n {
		b.WriteString("\n")
		b.WriteString(blank.Render(strings.Repeat(" ", yLabelW+1)))
		b.WriteString(axis.Render(xAxisLabels(labels, barW, axisLen)))
	}
	return b.String()
}

// downsample picks at most limit evenly spaced points, keeping both ends.
func downsample(values []float64, labels []string, limit int) ([]float64, []string) {
	n := len(values)
	if limit < 2 || n <= limit {
		return values, labels
	}
	outV := make([]float64, limit)
	var outL []string
	if len(labels) == n {
		outL = make([]string, limit)
	}
	for i := range outV {
		src := i * (n - 1) / (limit - 1)
		outV[i] = values[src]
		if outL != nil {
			outL[i] = labels[src]
		}
	}
	return outV, outL
}

// xAxisLabels places labels under their bars, skipping any that would overlap.
func xAxisLabels(labels []string, barW, axisLen int) string {
	buf := []rune(strings.Repeat(" ", axisLen))
	lastEnd := -1
	for i, lbl := range labels {
		pos := i * (barW + 1)
		r := []rune(lbl)
		if pos <= lastEnd || pos+len(r) > axisLen {
			continue
		}
		copy(buf[pos:], r)
		lastEnd = pos + len(r)
	}
	return strings.TrimRight(string(buf), " ")
}

// niceCeiling rounds v up to 1, 2 or 5 times a power of ten.
func niceCeiling(v float64) float64 {
	if v <= 0 {
		return 1
	}
	base := math.Pow(10, math.Floor(math.Log10(v)))
	for _, m := range []float64{1, 2, 5, 10} {
		if v <= m*base {
			return m * base
		}
	}
	return 10 * base
}

// formatChartLabel renders an axis tick as a compact amount without the
// currency symbol, e.g. 2500000 -> "2.5M".
func formatChartLabel(v float64) string {
	return strings.TrimPrefix(cli.FormatCompact(v), cli.Currency)
}
