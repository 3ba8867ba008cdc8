// Package pipeline loads savings data and derives portfolio and retirement metrics.
package pipeline

import (
	"math"
	"sort"
	"strings"

	"github.com/fireledger/fireledger/internal/model"
)

// ComputeCategoryTotals sums principal and maturity per category. Every
// category in categories gets an entry even with no records, records with a
// missing or unknown category count toward Others, and the ALL aggregate is
// placed first.
func ComputeCategoryTotals(records []model.SavingsRecord, categories []model.Category) *model.CategoryBreakdown {
	cats := categories
	if !containsCategory(cats, model.CategoryOthers) {
		cats = append(append([]model.Category(nil), categories...), model.CategoryOthers)
	}
	breakdown := model.NewCategoryBreakdown(cats)

	for _, r := range records {
		breakdown.Add(resolveCategory(breakdown, r.Category), r.Amount, r.MaturityAmount)
	}

	var all model.CategoryTotals
	for _, c := range breakdown.Keys() {
		if c == model.AllCategory {
			continue
		}
		t, _ := breakdown.Get(c)
		all.Principal += t.Principal
		all.Maturity += t.Maturity
	}
	breakdown.SetAll(all)

	return breakdown
}

// ComputePortfolioSummary computes overall totals, progress and ROI.
// ROI is NaN when total principal is zero since 0% is a legitimate return.
func ComputePortfolioSummary(records []model.SavingsRecord) model.PortfolioSummary {
	var s model.PortfolioSummary
	for _, r := range records {
		s.TotalPrincipal += r.Amount
		s.TotalMaturity += r.MaturityAmount
	}
	s.TotalInterest = s.TotalMaturity - s.TotalPrincipal

	if s.TotalMaturity != 0 {
		s.ProgressPercent = s.TotalPrincipal / s.TotalMaturity * 100
	}

	if s.TotalPrincipal != 0 {
		s.ROIPercent = s.TotalInterest / s.TotalPrincipal * 100
	} else {
		s.ROIPercent = math.NaN()
	}

	return s
}

// ComputeUpcomingMaturities returns records whose end date falls within
// [ref, ref+horizonMonths], earliest first. Equal dates keep input order.
func ComputeUpcomingMaturities(records []model.SavingsRecord, ref model.Date, horizonMonths int) []model.SavingsRecord {
	limit := ref.AddMonths(horizonMonths)

	result := make([]model.SavingsRecord, 0)
	for _, r := range records {
		end := r.EndDate
		if end.IsZero() {
			continue
		}
		if end.Before(ref) || end.After(limit) {
			continue
		}
		result = append(result, r)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].EndDate.Before(result[j].EndDate)
	})

	return result
}

// ComputeDistribution returns each category's share of the overall principal,
// largest first. Shares are all zero when the total principal is zero.
func ComputeDistribution(records []model.SavingsRecord, categories []model.Category) []model.CategoryShare {
	breakdown := ComputeCategoryTotals(records, categories)
	total := breakdown.All().Principal

	shares := make([]model.CategoryShare, 0, breakdown.Len()-1)
	for _, e := range breakdown.Entries() {
		if e.Category == model.AllCategory {
			continue
		}
		share := model.CategoryShare{Category: e.Category, Principal: e.Totals.Principal}
		if total != 0 {
			share.SharePercent = e.Totals.Principal / total * 100
		}
		shares = append(shares, share)
	}

	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].SharePercent > shares[j].SharePercent
	})

	return shares
}

// FilterByCategory returns records in the given category, after the same
// Others fallback the aggregation applies. Empty and ALL match everything.
func FilterByCategory(records []model.SavingsRecord, category model.Category) []model.SavingsRecord {
	if category == "" || category == model.AllCategory {
		return records
	}
	var result []model.SavingsRecord
	for _, r := range records {
		if MatchesCategory(r, category) {
			result = append(result, r)
		}
	}
	return result
}

// MatchesCategory reports whether r falls under category. Unknown labels on
// either side count as Others; empty and ALL match every record.
func MatchesCategory(r model.SavingsRecord, category model.Category) bool {
	if category == "" || category == model.AllCategory {
		return true
	}
	if !category.Valid() {
		category = model.CategoryOthers
	}
	c := r.Category
	if !c.Valid() {
		c = model.CategoryOthers
	}
	return c == category
}

// FilterByName returns records whose name contains the substring.
func FilterByName(records []model.SavingsRecord, name string) []model.SavingsRecord {
	if name == "" {
		return records
	}
	var result []model.SavingsRecord
	for _, r := range records {
		if MatchesName(r, name) {
			result = append(result, r)
		}
	}
	return result
}

// MatchesName reports whether the record name contains name, ignoring case.
func MatchesName(r model.SavingsRecord, name string) bool {
	return name == "" || containsIgnoreCase(r.Name, name)
}

func resolveCategory(b *model.CategoryBreakdown, c model.Category) model.Category {
	if c == "" || c == model.AllCategory || !b.Has(c) {
		return model.CategoryOthers
	}
	return c
}

func containsCategory(cats []model.Category, c model.Category) bool {
	for _, x := range cats {
		if x == c {
			return true
		}
	}
	return false
}

func containsIgnoreCase(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
