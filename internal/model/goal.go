package model

// GoalStatus tracks where a savings goal stands.
type GoalStatus string

const (
	GoalInProgress GoalStatus = "In Progress"
	GoalCompleted  GoalStatus = "Completed"
	GoalOnHold     GoalStatus = "On Hold"
)

// GoalPriority ranks savings goals.
type GoalPriority string

const (
	PriorityHigh   GoalPriority = "High"
	PriorityMedium GoalPriority = "Medium"
	PriorityLow    GoalPriority = "Low"
)

// SavingsGoal is a named target amount the user saves toward.
type SavingsGoal struct {
	Name          string       `json:"goalName"`
	Type          string       `json:"goalType"`
	TargetAmount  float64      `json:"targetAmount"`
	CurrentAmount float64      `json:"currentAmount"`
	StartDate     Date         `json:"startDate"`
	TargetDate    Date         `json:"targetDate"`
	Status        GoalStatus   `json:"status"`
	Priority      GoalPriority `json:"priority"`
}

// Progress returns current/target as a percentage, 0 for a zero target.
func (g SavingsGoal) Progress() float64 {
	if g.TargetAmount == 0 {
		return 0
	}
	return g.CurrentAmount / g.TargetAmount * 100
}
