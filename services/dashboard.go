package services

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"fintrack/models"
)

// DashboardService computes the dashboard summary and the 12-month trend for
// a user. The arithmetic lives in pure functions over query results so the
// aggregation rules can be tested without a database.
type DashboardService struct {
	db *sql.DB
}

// NewDashboardService creates a DashboardService.
func NewDashboardService(db *sql.DB) *DashboardService {
	return &DashboardService{db: db}
}

// Summary builds the full dashboard payload: all-time totals, current-month
// figures, category breakdown, budget alerts, and savings goals.
func (s *DashboardService) Summary(ctx context.Context, userID int64, now time.Time) (*models.DashboardSummary, error) {
	transactions, err := s.userTransactions(ctx, userID)
	if err != nil {
		return nil, err
	}

	month := now.Format(models.MonthFormat)
	budgets, err := s.userBudgets(ctx, userID, month)
	if err != nil {
		return nil, err
	}
	goals, err := s.userGoals(ctx, userID)
	if err != nil {
		return nil, err
	}

	totalIncome, totalExpenses := Totals(transactions)
	monthIncome, monthExpenses := MonthTotals(transactions, month)

	return &models.DashboardSummary{
		TotalIncome:      totalIncome,
		TotalExpenses:    totalExpenses,
		Balance:          totalIncome - totalExpenses,
		MonthIncome:      monthIncome,
		MonthExpenses:    monthExpenses,
		SavingsRate:      SavingsRate(monthIncome, monthExpenses),
		ExpenseBreakdown: ExpenseBreakdown(transactions, month),
		BudgetAlerts:     BudgetAlerts(budgets, transactions, month),
		SavingsGoals:     goals,
		Month:            month,
	}, nil
}

// MonthlyTrend returns income and expense totals for the 12 calendar months
// ending at the month containing now, oldest first.
func (s *DashboardService) MonthlyTrend(ctx context.Context, userID int64, now time.Time) ([]models.MonthlyPoint, error) {
	transactions, err := s.userTransactions(ctx, userID)
	if err != nil {
		return nil, err
	}
	return Trend(transactions, now), nil
}

func (s *DashboardService) userTransactions(ctx context.Context, userID int64) ([]models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, type, category, amount, description, date
		FROM transactions
		WHERE user_id = ?
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.Type, &t.Category, &t.Amount, &t.Description, &t.Date); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

func (s *DashboardService) userBudgets(ctx context.Context, userID int64, month string) ([]models.Budget, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, category, spending_limit, month, alert_threshold
		FROM budgets
		WHERE user_id = ? AND month = ?
	`, userID, month)
	if err != nil {
		return nil, fmt.Errorf("failed to query budgets: %w", err)
	}
	defer rows.Close()

	var budgets []models.Budget
	for rows.Next() {
		var b models.Budget
		if err := rows.Scan(&b.ID, &b.UserID, &b.Category, &b.Limit, &b.Month, &b.AlertThreshold); err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

func (s *DashboardService) userGoals(ctx context.Context, userID int64) ([]models.SavingsGoal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, name, target, current, deadline, priority
		FROM savings_goals
		WHERE user_id = ?
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query savings goals: %w", err)
	}
	defer rows.Close()

	goals := []models.SavingsGoal{}
	for rows.Next() {
		var g models.SavingsGoal
		var deadline sql.NullTime
		if err := rows.Scan(&g.ID, &g.UserID, &g.Name, &g.Target, &g.Current, &deadline, &g.Priority); err != nil {
			return nil, fmt.Errorf("failed to scan savings goal: %w", err)
		}
		if deadline.Valid {
			g.Deadline = &deadline.Time
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

// Totals sums all-time income and expense amounts.
func Totals(transactions []models.Transaction) (income, expenses float64) {
	for _, t := range transactions {
		switch t.Type {
		case models.TransactionIncome:
			income += t.Amount
		case models.TransactionExpense:
			expenses += t.Amount
		}
	}
	return income, expenses
}

// MonthTotals sums income and expense amounts for transactions in the given
// YYYY-MM calendar month.
func MonthTotals(transactions []models.Transaction, month string) (income, expenses float64) {
	for _, t := range transactions {
		if t.Month() != month {
			continue
		}
		switch t.Type {
		case models.TransactionIncome:
			income += t.Amount
		case models.TransactionExpense:
			expenses += t.Amount
		}
	}
	return income, expenses
}

// SavingsRate is (income - expenses) / income as a percentage rounded to one
// decimal, or 0 when there is no income.
func SavingsRate(income, expenses float64) float64 {
	if income <= 0 {
		return 0
	}
	return round1((income - expenses) / income * 100)
}

// ExpenseBreakdown maps category to summed expense amount for the month.
func ExpenseBreakdown(transactions []models.Transaction, month string) map[string]float64 {
	breakdown := make(map[string]float64)
	for _, t := range transactions {
		if t.Type == models.TransactionExpense && t.Month() == month {
			breakdown[t.Category] += t.Amount
		}
	}
	return breakdown
}

// BudgetAlerts returns an alert for every budget whose spending in the month
// reached its alert threshold. Spending past the limit is tagged "over",
// anything at or above the threshold but within the limit "warning". A zero
// limit counts as 0% spent.
func BudgetAlerts(budgets []models.Budget, transactions []models.Transaction, month string) []models.BudgetAlert {
	alerts := []models.BudgetAlert{}
	for _, b := range budgets {
		var spent float64
		for _, t := range transactions {
			if t.Type == models.TransactionExpense && t.Category == b.Category && t.Month() == month {
				spent += t.Amount
			}
		}

		var percentage float64
		if b.Limit > 0 {
			percentage = spent / b.Limit * 100
		}
		if percentage < b.AlertThreshold {
			continue
		}

		status := "warning"
		if percentage > 100 {
			status = "over"
		}
		alerts = append(alerts, models.BudgetAlert{
			Category:   b.Category,
			Spent:      spent,
			Limit:      b.Limit,
			Percentage: percentage,
			Status:     status,
		})
	}
	return alerts
}

// Trend buckets transactions into the 12 calendar months ending at the month
// containing now, oldest first. True calendar months are used rather than
// 30-day offsets, so January 31 and February 1 land in different buckets.
func Trend(transactions []models.Transaction, now time.Time) []models.MonthlyPoint {
	anchor := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	points := make([]models.MonthlyPoint, 0, 12)
	for i := 11; i >= 0; i-- {
		m := anchor.AddDate(0, -i, 0)
		month := m.Format(models.MonthFormat)
		income, expenses := MonthTotals(transactions, month)
		points = append(points, models.MonthlyPoint{
			Label:    m.Format("Jan"),
			Month:    month,
			Income:   income,
			Expenses: expenses,
			Balance:  income - expenses,
		})
	}
	return points
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
