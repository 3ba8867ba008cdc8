package pipeline

import (
	"math"

	"github.com/fireledger/fireledger/internal/model"
)

// MonthlyRate converts an annual percentage return into the equivalent
// compounded monthly rate: (1 + r/100)^(1/12) - 1.
func MonthlyRate(annualPercent float64) float64 {
	return math.Pow(1+annualPercent/100, 1.0/12) - 1
}

// Project simulates monthly compounding of net worth until the target age.
// It produces periods+1 samples where periods is max(0, years)*12, and the
// first sample already has one month of growth and savings applied. A target
// age at or below the current age yields a single sample, not an error.
func Project(p model.FireGoalProfile) model.ProjectionResult {
	years := p.TargetRetirementAge - p.CurrentAge
	periods := years * 12
	if periods < 0 {
		periods = 0
	}

	rate := MonthlyRate(p.ExpectedReturnRate)
	balances := make([]float64, 0, periods+1)
	balance := p.CurrentNetWorth
	for i := 0; i <= periods; i++ {
		balance = balance*(1+rate) + p.CurrentMonthlySavings
		balances = append(balances, balance)
	}

	return model.ProjectionResult{
		MonthlyBalances:   balances,
		YearsToRetirement: years,
		ProjectedAmount:   balances[len(balances)-1],
	}
}

// Overview summarizes income, expenses and progress for the FIRE plan.
func Overview(p model.FireGoalProfile) model.FireOverview {
	var o model.FireOverview

	for _, s := range p.IncomeSources {
		m := s.MonthlyAmount()
		o.MonthlyIncome += m
		if s.IsPassive {
			o.PassiveIncome += m
		}
	}
	for _, e := range p.MonthlyExpenses {
		o.MonthlyExpenses += e.Amount
		if e.IsEssential {
			o.EssentialExpenses += e.Amount
		}
	}
	o.MonthlySurplus = o.MonthlyIncome - o.MonthlyExpenses

	o.SavingsRatePct = ratio(p.CurrentMonthlySavings, o.MonthlyIncome)
	o.ProgressPct = ratio(p.CurrentNetWorth, p.TargetRetirementAmount)
	o.FireNumber = math.NaN()
	if p.SafeWithdrawalRate != 0 {
		o.FireNumber = o.MonthlyExpenses * 12 / (p.SafeWithdrawalRate / 100)
	}

	return o
}

// ratio returns num/den*100, NaN when den is zero.
func ratio(num, den float64) float64 {
	if den == 0 {
		return math.NaN()
	}
	return num / den * 100
}
