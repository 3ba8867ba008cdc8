package pipeline

import (
	"math"
	"testing"

	"github.com/fireledger/fireledger/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthlyRate(t *testing.T) {
	r := MonthlyRate(7)
	assert.InDelta(t, 0.0056541453, r, 1e-9)
	// twelve compounding steps recover the annual rate
	assert.InDelta(t, 1.07, math.Pow(1+r, 12), 1e-12)
	assert.Equal(t, 0.0, MonthlyRate(0))
}

func TestProject_ZeroPeriods(t *testing.T) {
	p := model.FireGoalProfile{
		CurrentAge:            30,
		TargetRetirementAge:   30,
		CurrentNetWorth:       100000,
		CurrentMonthlySavings: 1000,
		ExpectedReturnRate:    7,
	}

	got := Project(p)

	require.Len(t, got.MonthlyBalances, 1)
	want := 100000*(1+(math.Pow(1.07, 1.0/12)-1)) + 1000
	assert.Equal(t, want, got.MonthlyBalances[0])
	assert.Equal(t, want, got.ProjectedAmount)
	assert.Equal(t, 0, got.YearsToRetirement)
	assert.True(t, got.GoalReached())
}

func TestProject_TargetBelowCurrentAge(t *testing.T) {
	p := model.FireGoalProfile{
		CurrentAge:            55,
		TargetRetirementAge:   50,
		CurrentNetWorth:       1000,
		CurrentMonthlySavings: 10,
	}

	got := Project(p)

	require.Len(t, got.MonthlyBalances, 1)
	assert.Equal(t, 1010.0, got.ProjectedAmount)
	assert.Equal(t, -5, got.YearsToRetirement)
	assert.True(t, got.GoalReached())
}

func TestProject_ZeroReturnIsLinear(t *testing.T) {
	p := model.FireGoalProfile{
		CurrentAge:            40,
		TargetRetirementAge:   42,
		CurrentNetWorth:       5000,
		CurrentMonthlySavings: 250,
		ExpectedReturnRate:    0,
	}

	got := Project(p)

	periods := 24
	require.Len(t, got.MonthlyBalances, periods+1)
	for i, b := range got.MonthlyBalances {
		assert.Equal(t, 5000+float64(i+1)*250, b, "sample %d", i)
	}
	// the final sample is one step past the last period boundary
	assert.Equal(t, 5000+float64(periods+1)*250, got.ProjectedAmount)
	assert.Equal(t, 2, got.YearsToRetirement)
}

func TestProject_FirstSampleHasOneStepApplied(t *testing.T) {
	p := model.DefaultFireGoalProfile()

	got := Project(p)

	rate := MonthlyRate(p.ExpectedReturnRate)
	assert.Equal(t, p.CurrentNetWorth*(1+rate)+p.CurrentMonthlySavings, got.MonthlyBalances[0])
	assert.Len(t, got.MonthlyBalances, 20*12+1)
	assert.Equal(t, 20, got.YearsToRetirement)
	assert.Equal(t, got.MonthlyBalances[len(got.MonthlyBalances)-1], got.ProjectedAmount)
}

func TestProject_NegativeReturnCompoundsLosses(t *testing.T) {
	p := model.FireGoalProfile{
		CurrentAge:          30,
		TargetRetirementAge: 31,
		CurrentNetWorth:     1000,
		ExpectedReturnRate:  -10,
	}

	got := Project(p)

	for i := 1; i < len(got.MonthlyBalances); i++ {
		assert.Less(t, got.MonthlyBalances[i], got.MonthlyBalances[i-1])
	}
	// after 12 steps the balance lost 10%, the 13th step compounds once more
	assert.InDelta(t, 900.0, got.MonthlyBalances[11], 1e-9)
}

func TestProjectionResult_YearlySamples(t *testing.T) {
	p := model.FireGoalProfile{
		CurrentAge:            30,
		TargetRetirementAge:   33,
		CurrentMonthlySavings: 1,
	}

	got := Project(p).YearlySamples()

	assert.Equal(t, []float64{1, 13, 25, 37}, got)
}

func TestOverview(t *testing.T) {
	p := model.FireGoalProfile{
		CurrentNetWorth:        250000,
		TargetRetirementAmount: 1000000,
		CurrentMonthlySavings:  3000,
		SafeWithdrawalRate:     4,
		IncomeSources: []model.IncomeSource{
			{Source: "Salary", Amount: 9000, Frequency: model.Monthly},
			{Source: "Rent", Amount: 12000, Frequency: model.Annually, IsPassive: true},
		},
		MonthlyExpenses: []model.MonthlyExpense{
			{Category: "Housing", Amount: 2000, IsEssential: true},
			{Category: "Entertainment", Amount: 500},
		},
	}

	o := Overview(p)

	assert.Equal(t, 10000.0, o.MonthlyIncome)
	assert.Equal(t, 1000.0, o.PassiveIncome)
	assert.Equal(t, 2500.0, o.MonthlyExpenses)
	assert.Equal(t, 2000.0, o.EssentialExpenses)
	assert.Equal(t, 7500.0, o.MonthlySurplus)
	assert.Equal(t, 30.0, o.SavingsRatePct)
	assert.Equal(t, 25.0, o.ProgressPct)
	assert.InDelta(t, 750000.0, o.FireNumber, 1e-6)
}

func TestOverview_ZeroDenominators(t *testing.T) {
	o := Overview(model.FireGoalProfile{CurrentMonthlySavings: 100})

	assert.True(t, math.IsNaN(o.SavingsRatePct))
	assert.True(t, math.IsNaN(o.ProgressPct))
	assert.True(t, math.IsNaN(o.FireNumber))
}
