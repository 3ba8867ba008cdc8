package pipeline

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/fireledger/fireledger/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(name string, cat model.Category, amount, maturity float64, end string) model.SavingsRecord {
	r := model.SavingsRecord{Name: name, Category: cat, Amount: amount, MaturityAmount: maturity}
	if end != "" {
		r.EndDate = model.MustParseDate(end)
	}
	return r
}

func TestComputeCategoryTotals_Scenario(t *testing.T) {
	records := []model.SavingsRecord{
		rec("bank fd", model.CategoryFD, 10000, 12000, ""),
		rec("index fund", model.CategoryMF, 5000, 5000, ""),
	}

	got := ComputeCategoryTotals(records, model.Categories)

	all := got.All()
	assert.Equal(t, 15000.0, all.Principal)
	assert.Equal(t, 17000.0, all.Maturity)
	assert.Equal(t, 2000.0, all.Interest())

	fd, ok := got.Get(model.CategoryFD)
	require.True(t, ok)
	assert.Equal(t, model.CategoryTotals{Principal: 10000, Maturity: 12000}, fd)

	ppf, ok := got.Get(model.CategoryPPF)
	require.True(t, ok)
	assert.Equal(t, model.CategoryTotals{}, ppf)
}

func TestComputeCategoryTotals_OrderAllFirst(t *testing.T) {
	got := ComputeCategoryTotals(nil, model.Categories)

	want := append([]model.Category{model.AllCategory}, model.Categories...)
	assert.Equal(t, want, got.Keys())
}

func TestComputeCategoryTotals_Empty(t *testing.T) {
	got := ComputeCategoryTotals([]model.SavingsRecord{}, model.Categories)

	require.Equal(t, len(model.Categories)+1, got.Len())
	for _, e := range got.Entries() {
		assert.Equal(t, model.CategoryTotals{}, e.Totals, "category %s", e.Category)
	}
}

func TestComputeCategoryTotals_UnknownFallsBackToOthers(t *testing.T) {
	records := []model.SavingsRecord{
		rec("mystery", "Crypto", 100, 150, ""),
		rec("blank", "", 50, 40, ""),
		rec("sneaky", model.AllCategory, 10, 10, ""),
		rec("plain", model.CategoryOthers, 1, 2, ""),
	}

	got := ComputeCategoryTotals(records, model.Categories)

	others, _ := got.Get(model.CategoryOthers)
	assert.Equal(t, 161.0, others.Principal)
	assert.Equal(t, 202.0, others.Maturity)
	assert.False(t, got.Has("Crypto"))
	assert.Equal(t, others, got.All())
}

func TestComputeCategoryTotals_AllEqualsSumOfCategories(t *testing.T) {
	records := []model.SavingsRecord{
		rec("a", model.CategoryFD, 1200.5, 1300, ""),
		rec("b", model.CategoryPPF, 700, 900.25, ""),
		rec("c", model.CategoryNPS, -50, 0, ""),
		rec("d", model.CategoryCash, 0, 0, ""),
		rec("e", "weird", 33, 30, ""),
		rec("f", model.CategoryFD, 99, 101, ""),
	}

	got := ComputeCategoryTotals(records, model.Categories)

	var principal, maturity float64
	for _, c := range model.Categories {
		ct, ok := got.Get(c)
		require.True(t, ok)
		principal += ct.Principal
		maturity += ct.Maturity
	}
	assert.Equal(t, principal, got.All().Principal)
	assert.Equal(t, maturity, got.All().Maturity)
}

func TestComputeCategoryTotals_Idempotent(t *testing.T) {
	records := []model.SavingsRecord{
		rec("a", model.CategoryFD, 1, 2, ""),
		rec("b", model.CategoryMF, 3, 4, ""),
	}

	first, err := json.Marshal(ComputeCategoryTotals(records, model.Categories).Entries())
	require.NoError(t, err)
	second, err := json.Marshal(ComputeCategoryTotals(records, model.Categories).Entries())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestComputeCategoryTotals_OthersAddedWhenMissing(t *testing.T) {
	cats := []model.Category{model.CategoryFD}
	got := ComputeCategoryTotals([]model.SavingsRecord{rec("x", model.CategoryMF, 5, 6, "")}, cats)

	assert.Equal(t, []model.Category{model.AllCategory, model.CategoryFD, model.CategoryOthers}, got.Keys())
	others, _ := got.Get(model.CategoryOthers)
	assert.Equal(t, 5.0, others.Principal)
	assert.Equal(t, []model.Category{model.CategoryFD}, cats, "caller slice must not be modified")
}

func TestComputePortfolioSummary(t *testing.T) {
	records := []model.SavingsRecord{
		rec("bank fd", model.CategoryFD, 10000, 12000, ""),
		rec("index fund", model.CategoryMF, 5000, 5000, ""),
	}

	s := ComputePortfolioSummary(records)

	assert.Equal(t, 15000.0, s.TotalPrincipal)
	assert.Equal(t, 17000.0, s.TotalMaturity)
	assert.Equal(t, 2000.0, s.TotalInterest)
	assert.InDelta(t, 88.235, s.ProgressPercent, 0.001)
	assert.InDelta(t, 13.333, s.ROIPercent, 0.001)
	assert.True(t, s.HasROI())
}

func TestComputePortfolioSummary_ZeroDenominators(t *testing.T) {
	tests := []struct {
		name    string
		records []model.SavingsRecord
	}{
		{"empty", nil},
		{"zero principal and interest", []model.SavingsRecord{rec("z", model.CategoryFD, 0, 0, "")}},
		{"zero principal with interest", []model.SavingsRecord{rec("gift", model.CategoryCash, 0, 500, "")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ComputePortfolioSummary(tt.records)
			assert.True(t, math.IsNaN(s.ROIPercent), "ROI = %v, want NaN", s.ROIPercent)
			assert.False(t, s.HasROI())
		})
	}

	assert.Equal(t, 0.0, ComputePortfolioSummary(nil).ProgressPercent)
}

func TestComputePortfolioSummary_ZeroROIIsReal(t *testing.T) {
	s := ComputePortfolioSummary([]model.SavingsRecord{rec("flat", model.CategoryCash, 100, 100, "")})
	assert.True(t, s.HasROI())
	assert.Equal(t, 0.0, s.ROIPercent)
	assert.Equal(t, 100.0, s.ProgressPercent)
}

func TestComputePortfolioSummary_NegativeInterest(t *testing.T) {
	s := ComputePortfolioSummary([]model.SavingsRecord{rec("loss", model.CategoryMF, 1000, 800, "")})
	assert.Equal(t, -200.0, s.TotalInterest)
	assert.Equal(t, -20.0, s.ROIPercent)
}

func TestComputeUpcomingMaturities(t *testing.T) {
	ref := model.NewDate(2025, 1, 15)
	records := []model.SavingsRecord{
		rec("past", model.CategoryFD, 1, 1, "2025-01-14"),
		rec("late", model.CategoryFD, 1, 1, "2025-03-20"),
		rec("today", model.CategoryFD, 1, 1, "2025-01-15"),
		rec("edge", model.CategoryFD, 1, 1, "2025-04-15"),
		rec("beyond", model.CategoryFD, 1, 1, "2025-04-16"),
		rec("tie-1", model.CategoryMF, 1, 1, "2025-02-01"),
		rec("no-date", model.CategoryMF, 1, 1, ""),
		rec("tie-2", model.CategoryPPF, 1, 1, "2025-02-01"),
	}

	got := ComputeUpcomingMaturities(records, ref, 3)

	var names []string
	for _, r := range got {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"today", "tie-1", "tie-2", "late", "edge"}, names)

	limit := ref.AddMonths(3)
	for i, r := range got {
		assert.False(t, r.EndDate.Before(ref))
		assert.False(t, r.EndDate.After(limit))
		if i > 0 {
			assert.False(t, r.EndDate.Before(got[i-1].EndDate), "not sorted at %d", i)
		}
	}
}

func TestComputeUpcomingMaturities_MonthOverflow(t *testing.T) {
	ref := model.NewDate(2025, 11, 30)
	records := []model.SavingsRecord{
		rec("march-2", model.CategoryFD, 1, 1, "2026-03-02"),
		rec("march-3", model.CategoryFD, 1, 1, "2026-03-03"),
	}

	got := ComputeUpcomingMaturities(records, ref, 3)

	require.Len(t, got, 1)
	assert.Equal(t, "march-2", got[0].Name)
}

func TestComputeUpcomingMaturities_Empty(t *testing.T) {
	got := ComputeUpcomingMaturities(nil, model.NewDate(2025, 1, 1), 3)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestComputeDistribution(t *testing.T) {
	records := []model.SavingsRecord{
		rec("a", model.CategoryFD, 300, 330, ""),
		rec("b", model.CategoryMF, 600, 700, ""),
		rec("c", model.CategoryPPF, 100, 180, ""),
	}

	got := ComputeDistribution(records, model.Categories)

	require.Len(t, got, len(model.Categories))
	assert.Equal(t, model.CategoryMF, got[0].Category)
	assert.InDelta(t, 60.0, got[0].SharePercent, 1e-9)
	assert.Equal(t, model.CategoryFD, got[1].Category)
	assert.Equal(t, model.CategoryPPF, got[2].Category)

	var sum float64
	for _, s := range got {
		sum += s.SharePercent
	}
	assert.InDelta(t, 100.0, sum, 1e-9)

	// zero-share categories keep declaration order after the non-zero ones
	assert.Equal(t, model.CategoryInsurance, got[3].Category)
	assert.Equal(t, model.CategoryOthers, got[len(got)-1].Category)
}

func TestComputeDistribution_ZeroPrincipal(t *testing.T) {
	for _, s := range ComputeDistribution(nil, model.Categories) {
		assert.Equal(t, 0.0, s.SharePercent)
	}
}

func TestFilterByCategory(t *testing.T) {
	records := []model.SavingsRecord{
		rec("a", model.CategoryFD, 1, 1, ""),
		rec("b", "Bonds", 1, 1, ""),
		rec("c", model.CategoryOthers, 1, 1, ""),
	}

	assert.Len(t, FilterByCategory(records, model.CategoryFD), 1)
	assert.Len(t, FilterByCategory(records, model.CategoryOthers), 2)
	assert.Len(t, FilterByCategory(records, ""), 3)
	assert.Len(t, FilterByCategory(records, model.AllCategory), 3)
	assert.Len(t, FilterByCategory(records, "Crypto"), 2)
	assert.True(t, MatchesCategory(records[1], model.CategoryOthers))
	assert.False(t, MatchesCategory(records[0], model.CategoryMF))
}

func TestFilterByName(t *testing.T) {
	records := []model.SavingsRecord{
		rec("HDFC FD", model.CategoryFD, 1, 1, ""),
		rec("SBI fd", model.CategoryFD, 1, 1, ""),
		rec("Nifty index", model.CategoryMF, 1, 1, ""),
	}

	assert.Len(t, FilterByName(records, "fd"), 2)
	assert.Len(t, FilterByName(records, ""), 3)
	assert.True(t, MatchesName(records[1], "SBI"))
	assert.False(t, MatchesName(records[2], "fd"))
}
