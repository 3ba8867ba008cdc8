package model

// Frequency is how often an income source pays out.
type Frequency string

const (
	Monthly  Frequency = "Monthly"
	Annually Frequency = "Annually"
)

// IncomeSource is one stream of income in the FIRE plan.
type IncomeSource struct {
	Source    string    `json:"source"`
	Amount    float64   `json:"amount"`
	Frequency Frequency `json:"frequency"`
	IsPassive bool      `json:"isPassive"`
}

// MonthlyAmount normalizes the source to a per-month figure. Anything not
// paid Monthly, including an unrecognized frequency, is read as annual.
func (s IncomeSource) MonthlyAmount() float64 {
	if s.Frequency == Monthly {
		return s.Amount
	}
	return s.Amount / 12
}

// ExpenseCategories is the fixed set of monthly expense labels.
var ExpenseCategories = []string{
	"Housing",
	"Transportation",
	"Food",
	"Healthcare",
	"Insurance",
	"Utilities",
	"Entertainment",
	"Shopping",
	"Investments",
	"Others",
}

// MonthlyExpense is one recurring monthly cost.
type MonthlyExpense struct {
	Category    string  `json:"category"`
	Amount      float64 `json:"amount"`
	IsEssential bool    `json:"isEssential"`
}

// FireGoalProfile is the single user-wide retirement plan. Rates are
// percentages: 7 means 7%.
type FireGoalProfile struct {
	TargetRetirementAge    int              `json:"targetRetirementAge"`
	CurrentAge             int              `json:"currentAge"`
	TargetRetirementAmount float64          `json:"targetRetirementAmount"`
	CurrentNetWorth        float64          `json:"currentNetWorth"`
	MonthlySavingsTarget   float64          `json:"monthlySavingsTarget"`
	CurrentMonthlySavings  float64          `json:"currentMonthlySavings"`
	IncomeSources          []IncomeSource   `json:"incomeSources"`
	MonthlyExpenses        []MonthlyExpense `json:"monthlyExpenses"`
	ExpectedReturnRate     float64          `json:"expectedReturnRate"`
	InflationRate          float64          `json:"inflationRate"`
	SafeWithdrawalRate     float64          `json:"safeWithdrawalRate"`
}

// DefaultFireGoalProfile is served when no profile has ever been saved.
func DefaultFireGoalProfile() FireGoalProfile {
	return FireGoalProfile{
		TargetRetirementAge:    50,
		CurrentAge:             30,
		TargetRetirementAmount: 2000000,
		CurrentNetWorth:        500000,
		MonthlySavingsTarget:   5000,
		CurrentMonthlySavings:  4000,
		IncomeSources: []IncomeSource{
			{Source: "Salary", Amount: 10000, Frequency: Monthly, IsPassive: false},
		},
		MonthlyExpenses: []MonthlyExpense{
			{Category: "Housing", Amount: 2000, IsEssential: true},
			{Category: "Food", Amount: 800, IsEssential: true},
		},
		ExpectedReturnRate: 7,
		InflationRate:      3,
		SafeWithdrawalRate: 4,
	}
}
