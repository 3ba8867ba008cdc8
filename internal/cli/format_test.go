package cli

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "₹0.00"},
		{1234567.5, "₹1,234,567.50"},
		{-2000, "-₹2,000.00"},
		{math.NaN(), "n/a"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatAmount(tt.in), "FormatAmount(%v)", tt.in)
	}
}

func TestFormatCompact(t *testing.T) {
	assert.Equal(t, "₹950.00", FormatCompact(950))
	assert.Equal(t, "₹2.5M", FormatCompact(2_500_000))
	assert.Equal(t, "-₹1.2K", FormatCompact(-1200))
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "13.33%", FormatPercent(40.0/300*100))
	assert.Equal(t, "0.00%", FormatPercent(0))
	assert.Equal(t, "n/a", FormatPercent(math.NaN()))
}

func TestFormatYears(t *testing.T) {
	assert.Equal(t, "20 years", FormatYears(20))
	assert.Equal(t, "1 year", FormatYears(1))
	assert.Equal(t, "goal age reached", FormatYears(0))
	assert.Equal(t, "goal age reached", FormatYears(-3))
}

func TestFormatCount(t *testing.T) {
	assert.Equal(t, "1,234,567", FormatCount(1234567))
	assert.Equal(t, "12", FormatCount(12))
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"10000", 10000},
		{" 12,500.75 ", 12500.75},
		{"₹1,000", 1000},
		{"0.1", 0.1},
		{"99.999", 100},
		{"-250", -250},
	}
	for _, tt := range tests {
		got, err := ParseAmount(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, bad := range []string{"", "abc", "1.2.3"} {
		_, err := ParseAmount(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseRate(t *testing.T) {
	got, err := ParseRate("7.5%")
	require.NoError(t, err)
	assert.Equal(t, 7.5, got)

	_, err = ParseRate("seven")
	assert.Error(t, err)
}

func TestRenderSparkline(t *testing.T) {
	assert.Equal(t, "", RenderSparkline(nil))
	assert.Equal(t, "▁▁▁", RenderSparkline([]float64{5, 5, 5}))

	line := RenderSparkline([]float64{1, 2, 3, 4, 5, 6, 7, 8})
	assert.Equal(t, "▁▂▃▄▅▆▇█", line)
}

func TestRenderProgressBar(t *testing.T) {
	bar := RenderProgressBar(50, 10)
	assert.Contains(t, bar, "50.00%")
	assert.Equal(t, 5, strings.Count(bar, "█"))

	over := RenderProgressBar(250, 4)
	assert.Equal(t, 4, strings.Count(over, "█"))

	nan := RenderProgressBar(math.NaN(), 4)
	assert.Contains(t, nan, "n/a")
	assert.Equal(t, 0, strings.Count(nan, "█"))
}

func TestRenderTable(t *testing.T) {
	out := RenderTable(Table{
		Title:   "Categories",
		Headers: []string{"Category", "Principal"},
		Rows: [][]string{
			{"FD", "₹10,000.00"},
			Separator(),
			{"ALL", "₹10,000.00"},
		},
	})
	assert.Contains(t, out, "Categories")
	assert.Contains(t, out, "FD")
	assert.Contains(t, out, "ALL")
	assert.Contains(t, out, "·")
	assert.NotContains(t, out, "---")

	assert.Empty(t, RenderTable(Table{}))
}
