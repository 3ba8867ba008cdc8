package components

import (
	"math"
	"strings"
	"testing"

	"github.com/fireledger/fireledger/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	// Force TrueColor output so ANSI codes are generated in tests
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestLayoutRow(t *testing.T) {
	assert.Equal(t, []int{4, 3, 3}, LayoutRow(10, 3))
	assert.Nil(t, LayoutRow(10, 0))

	sum := 0
	for _, w := range LayoutRow(121, 4) {
		sum += w
	}
	assert.Equal(t, 121, sum)
}

func TestCardRowPadsShortCards(t *testing.T) {
	theme.SetActive("flexoki-dark")

	short := ContentCard("Short", "Content", 22)
	tall := ContentCard("Tall", "1\n2\n3\n4\n5", 22)
	require.Less(t, lipgloss.Height(short), lipgloss.Height(tall))

	joined := CardRow([]string{tall, short})
	lines := strings.Split(joined, "\n")
	assert.Len(t, lines, lipgloss.Height(tall))
	for i, line := range lines {
		assert.Equal(t, 44, lipgloss.Width(line), "line %d", i)
	}
}

func TestMetricCardRowWidth(t *testing.T) {
	row := MetricCardRow([]Metric{
		{Label: "Principal", Value: "₹1,000"},
		{Label: "Interest", Value: "₹100", Delta: "+10%", Tone: TonePositive},
		{Label: "ROI", Value: "n/a"},
	}, 90)
	for _, line := range strings.Split(row, "\n") {
		assert.Equal(t, 90, lipgloss.Width(line))
	}
	assert.Empty(t, MetricCardRow(nil, 90))
}

func TestToneOf(t *testing.T) {
	assert.Equal(t, TonePositive, ToneOf(1))
	assert.Equal(t, ToneNegative, ToneOf(-0.01))
	assert.Equal(t, ToneNeutral, ToneOf(0))
}

func TestTabVisualWidthMatchesRender(t *testing.T) {
	for i, tab := range Tabs {
		for _, active := range []bool{true, false} {
			assert.Equal(t, lipgloss.Width(renderTab(tab, active)), TabVisualWidth(tab, active), "tab %d active=%v", i, active)
		}
	}
	assert.Equal(t, 7, TabVisualWidth(Tab{Name: "Xy", Key: 'z', KeyPos: -1}, false))
}

func TestTabIdxByKey(t *testing.T) {
	assert.Equal(t, 0, TabIdxByKey('o'))
	assert.Equal(t, 3, TabIdxByKey('f'))
	assert.Equal(t, -1, TabIdxByKey('z'))
}

func TestRenderTabBarFillsWidth(t *testing.T) {
	bar := RenderTabBar(1, 100)
	assert.Equal(t, 1, lipgloss.Height(bar))
	assert.Equal(t, 100, lipgloss.Width(bar))
}

func TestRenderStatusBarWidth(t *testing.T) {
	bar := RenderStatusBar(80, "[?]help  [q]uit", "3 records", "", true)
	assert.Equal(t, 80, lipgloss.Width(bar))
	assert.Contains(t, bar, "refreshing")
}

func TestProgressBar(t *testing.T) {
	assert.Contains(t, ProgressBar(50, 10), "50.00%")
	assert.Contains(t, ProgressBar(math.NaN(), 10), "n/a")
	assert.Contains(t, ProgressBar(250, 10), "250.00%")
	assert.Equal(t, theme.Active.Red, ColorForProgress(10))
	assert.Equal(t, theme.Active.GreenBright, ColorForProgress(100))
}

func TestBarChart(t *testing.T) {
	values := []float64{100, 200, 400, 800}
	labels := []string{"30", "31", "32", "33"}
	chart := BarChart(values, labels, theme.Active.Blue, 40, 6)

	lines := strings.Split(chart, "\n")
	assert.Len(t, lines, 6+2) // rows, axis, labels
	assert.Contains(t, chart, "1K")
	assert.Contains(t, lines[len(lines)-1], "30")

	assert.Equal(t, "", BarChart(nil, nil, theme.Active.Blue, 40, 6))
	assert.Equal(t, 1, lipgloss.Height(BarChart(values, nil, theme.Active.Blue, 10, 6)))
}

func TestBarChartIgnoresNonFiniteValues(t *testing.T) {
	values := []float64{100, math.NaN(), 800, math.Inf(1)}
	chart := BarChart(values, nil, theme.Active.Blue, 40, 6)

	assert.Len(t, strings.Split(chart, "\n"), 6+1)
	assert.Contains(t, chart, "1K")
}

func TestNiceCeiling(t *testing.T) {
	assert.Equal(t, 1.0, niceCeiling(0))
	assert.Equal(t, 1000.0, niceCeiling(800))
	assert.Equal(t, 2000.0, niceCeiling(1200))
	assert.Equal(t, 5e6, niceCeiling(2.5e6))
}

func TestDownsampleKeepsEnds(t *testing.T) {
	v := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	l := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}
	ov, ol := downsample(v, l, 4)
	require.Len(t, ov, 4)
	assert.Equal(t, 0.0, ov[0])
	assert.Equal(t, 9.0, ov[3])
	assert.Equal(t, []string{"a", "d", "g", "j"}, ol)
}
