package model

import "math"

// CategoryTotals holds summed amounts for one category (or ALL).
type CategoryTotals struct {
	Principal float64 `json:"principal"`
	Maturity  float64 `json:"maturity"`
}

// Interest is maturity minus principal. Negative values are valid.
func (t CategoryTotals) Interest() float64 {
	return t.Maturity - t.Principal
}

// CategoryEntry pairs a label with its totals.
type CategoryEntry struct {
	Category Category       `json:"category"`
	Totals   CategoryTotals `json:"totals"`
}

// CategoryBreakdown is an ordered mapping from category label to totals.
// ALL comes first, then categories in declaration order. Every category is
// present even when no record uses it.
type CategoryBreakdown struct {
	entries []CategoryEntry
	index   map[Category]int
}

// NewCategoryBreakdown builds a zeroed breakdown with ALL first and then
// the given categories in order.
func NewCategoryBreakdown(categories []Category) *CategoryBreakdown {
	b := &CategoryBreakdown{
		entries: make([]CategoryEntry, 0, len(categories)+1),
		index:   make(map[Category]int, len(categories)+1),
	}
	b.entries = append(b.entries, CategoryEntry{Category: AllCategory})
	b.index[AllCategory] = 0
	for _, c := range categories {
		if _, dup := b.index[c]; dup {
			continue
		}
		b.index[c] = len(b.entries)
		b.entries = append(b.entries, CategoryEntry{Category: c})
	}
	return b
}

// Add accumulates amounts into category c. c must already be present.
func (b *CategoryBreakdown) Add(c Category, principal, maturity float64) {
	i := b.index[c]
	b.entries[i].Totals.Principal += principal
	b.entries[i].Totals.Maturity += maturity
}

// SetAll overwrites the ALL aggregate.
func (b *CategoryBreakdown) SetAll(t CategoryTotals) {
	b.entries[0].Totals = t
}

// Get returns the totals for c.
func (b *CategoryBreakdown) Get(c Category) (CategoryTotals, bool) {
	i, ok := b.index[c]
	if !ok {
		return CategoryTotals{}, false
	}
	return b.entries[i].Totals, true
}

// Has reports whether c is a key of the breakdown.
func (b *CategoryBreakdown) Has(c Category) bool {
	_, ok := b.index[c]
	return ok
}

// All returns the synthetic aggregate.
func (b *CategoryBreakdown) All() CategoryTotals {
	return b.entries[0].Totals
}

// Keys returns labels in iteration order (ALL first).
func (b *CategoryBreakdown) Keys() []Category {
	keys := make([]Category, len(b.entries))
	for i, e := range b.entries {
		keys[i] = e.Category
	}
	return keys
}

// Entries returns a copy of the ordered entries.
func (b *CategoryBreakdown) Entries() []CategoryEntry {
	out := make([]CategoryEntry, len(b.entries))
	copy(out, b.entries)
	return out
}

// Len returns the number of entries including ALL.
func (b *CategoryBreakdown) Len() int { return len(b.entries) }

// PortfolioSummary is the overall view of all savings records.
type PortfolioSummary struct {
	TotalPrincipal  float64
	TotalMaturity   float64
	TotalInterest   float64
	ProgressPercent float64 // principal / maturity * 100, 0 when maturity is 0
	ROIPercent      float64 // interest / principal * 100, NaN when principal is 0
}

// HasROI reports whether ROIPercent is a real number.
func (s PortfolioSummary) HasROI() bool {
	return !math.IsNaN(s.ROIPercent)
}

// CategoryShare is a category's slice of the overall principal.
type CategoryShare struct {
	Category     Category `json:"category"`
	Principal    float64  `json:"principal"`
	SharePercent float64  `json:"share_percent"`
}

// ProjectionResult is the month-by-month net-worth trajectory.
type ProjectionResult struct {
	MonthlyBalances   []float64
	YearsToRetirement int // may be zero or negative when the target age has passed
	ProjectedAmount   float64
}

// YearlySamples returns every twelfth balance starting with the first one.
func (p ProjectionResult) YearlySamples() []float64 {
	var out []float64
	for i := 0; i < len(p.MonthlyBalances); i += 12 {
		out = append(out, p.MonthlyBalances[i])
	}
	return out
}

// GoalReached reports whether the plan has no years left to run.
func (p ProjectionResult) GoalReached() bool {
	return p.YearsToRetirement <= 0
}

// FireOverview summarizes the monthly cash flow behind the FIRE plan.
// Ratios with a zero denominator are NaN.
type FireOverview struct {
	MonthlyIncome     float64
	PassiveIncome     float64
	MonthlyExpenses   float64
	EssentialExpenses float64
	MonthlySurplus    float64
	SavingsRatePct    float64
	ProgressPct       float64
	FireNumber        float64
}
