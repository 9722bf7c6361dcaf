package models

// DefaultAlertThreshold is the percentage of a budget's limit at which an
// alert is raised when the budget doesn't specify its own threshold.
const DefaultAlertThreshold = 80

// Budget is a per-category monthly spending limit. At most one budget exists
// per (user, category); posting the same category again updates it in place.
type Budget struct {
	ID             int64   `json:"id"`
	UserID         int64   `json:"-"`
	Category       string  `json:"category"`
	Limit          float64 `json:"limit"`
	Month          string  `json:"month"`
	AlertThreshold float64 `json:"alert_threshold"`
}

// BudgetAlert flags a budget whose spending reached its alert threshold.
type BudgetAlert struct {
	Category   string  `json:"category"`
	Spent      float64 `json:"spent"`
	Limit      float64 `json:"limit"`
	Percentage float64 `json:"percentage"`
	Status     string  `json:"status"` // "warning" or "over"
}
