package models

import (
	"encoding/json"
	"time"
)

// Transaction types.
const (
	TransactionIncome  = "income"
	TransactionExpense = "expense"
)

// DateFormat is the wire format for transaction dates.
const DateFormat = "2006-01-02 15:04"

// MonthFormat is the YYYY-MM key used for monthly bucketing.
const MonthFormat = "2006-01"

// Transaction is a single money movement owned by a user.
type Transaction struct {
	ID                 int64     `json:"id"`
	UserID             int64     `json:"-"`
	Type               string    `json:"type"`
	Category           string    `json:"category"`
	Amount             float64   `json:"amount"`
	Description        string    `json:"description"`
	Date               time.Time `json:"-"`
	IsRecurring        bool      `json:"is_recurring"`
	RecurringFrequency string    `json:"recurring_frequency,omitempty"`
}

// Month returns the YYYY-MM bucket the transaction falls into.
func (t Transaction) Month() string {
	return t.Date.Format(MonthFormat)
}

// MarshalJSON serializes the date as a human-readable YYYY-MM-DD HH:MM string.
func (t Transaction) MarshalJSON() ([]byte, error) {
	type alias Transaction
	return json.Marshal(struct {
		alias
		Date string `json:"date"`
	}{
		alias: alias(t),
		Date:  t.Date.Format(DateFormat),
	})
}
