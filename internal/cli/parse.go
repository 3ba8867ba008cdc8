package cli

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount parses a user-entered money value. Separators, a leading
// currency symbol and surrounding spaces are ignored. The result is rounded
// to two decimal places.
func ParseAmount(s string) (float64, error) {
	clean := strings.TrimSpace(s)
	clean = strings.TrimPrefix(clean, Currency)
	clean = strings.ReplaceAll(clean, ",", "")
	clean = strings.ReplaceAll(clean, "_", "")
	clean = strings.TrimSpace(clean)
	if clean == "" {
		return 0, fmt.Errorf("empty amount")
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	f, _ := d.Round(2).Float64()
	return f, nil
}

// ParseRate parses a percentage like "7", "7.5" or "7.5%".
func ParseRate(s string) (float64, error) {
	clean := strings.TrimSuffix(strings.TrimSpace(s), "%")
	d, err := decimal.NewFromString(strings.TrimSpace(clean))
	if err != nil {
		return 0, fmt.Errorf("invalid rate %q: %w", s, err)
	}
	f, _ := d.Float64()
	return f, nil
}
