// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
)

// Currency is prefixed to formatted amounts. Set once from config at startup.
var Currency = "₹"

// FormatAmount formats a money value with separators and two decimals,
// e.g. 1234567.5 -> "₹1,234,567.50".
func FormatAmount(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	if v < 0 {
		return "-" + Currency + humanize.FormatFloat("#,###.##", -v)
	}
	return Currency + humanize.FormatFloat("#,###.##", v)
}

// FormatCompact formats large amounts with SI suffixes, e.g. 2500000 -> "₹2.5M".
func FormatCompact(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	abs := math.Abs(v)
	if abs < 1000 {
		return FormatAmount(v)
	}
	value, prefix := humanize.ComputeSI(abs)
	s := Currency + humanize.FtoaWithDigits(value, 1) + strings.ToUpper(prefix)
	if v < 0 {
		return "-" + s
	}
	return s
}

// FormatPercent formats a percentage value (already scaled to 0-100).
// NaN renders as "n/a" so undefined ratios are never shown as a number.
func FormatPercent(pct float64) string {
	if math.IsNaN(pct) || math.IsInf(pct, 0) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f%%", pct)
}

// FormatSignedAmount prefixes gains with "+".
func FormatSignedAmount(v float64) string {
	if v > 0 {
		return "+" + FormatAmount(v)
	}
	return FormatAmount(v)
}

// FormatYears renders the years left to retirement, or a reached marker.
func FormatYears(years int) string {
	switch {
	case years <= 0:
		return "goal age reached"
	case years == 1:
		return "1 year"
	default:
		return fmt.Sprintf("%d years", years)
	}
}

// FormatCount adds comma separators to an integer, e.g. 1234567 -> "1,234,567".
func FormatCount(n int) string {
	return humanize.Comma(int64(n))
}
