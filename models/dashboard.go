package models

// DashboardSummary is the payload of GET /api/dashboard: all-time totals,
// current-month figures, and the derived analytics the dashboard page renders.
type DashboardSummary struct {
	TotalIncome      float64            `json:"totalIncome"`
	TotalExpenses    float64            `json:"totalExpenses"`
	Balance          float64            `json:"balance"`
	MonthIncome      float64            `json:"monthIncome"`
	MonthExpenses    float64            `json:"monthExpenses"`
	SavingsRate      float64            `json:"savingsRate"`
	ExpenseBreakdown map[string]float64 `json:"expense_breakdown"`
	BudgetAlerts     []BudgetAlert      `json:"budget_alerts"`
	SavingsGoals     []SavingsGoal      `json:"savings_goals"`
	Month            string             `json:"month"`
}

// MonthlyPoint is one entry of the 12-month trend series.
type MonthlyPoint struct {
	Label    string  `json:"month"`      // short month name, e.g. "Jan"
	Month    string  `json:"year_month"` // YYYY-MM
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Balance  float64 `json:"balance"`
}
