package models

import (
	"encoding/json"
	"math"
	"time"
)

// Goal priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// DeadlineFormat is the wire format for goal deadlines.
const DeadlineFormat = "2006-01-02"

// SavingsGoal is a savings target owned by a user.
type SavingsGoal struct {
	ID       int64      `json:"id"`
	UserID   int64      `json:"-"`
	Name     string     `json:"name"`
	Target   float64    `json:"target"`
	Current  float64    `json:"current"`
	Deadline *time.Time `json:"-"`
	Priority string     `json:"priority"`
}

// Progress returns the saved percentage, rounded to one decimal. A zero
// target yields 0 rather than dividing by zero. Current may exceed the
// target, so progress past 100 is possible.
func (g SavingsGoal) Progress() float64 {
	if g.Target <= 0 {
		return 0
	}
	return math.Round(g.Current/g.Target*1000) / 10
}

// DaysLeft returns the whole days until the deadline, negative once it has
// passed, or nil when no deadline is set. The count floors, so a deadline a
// few hours gone already reads -1 rather than 0.
func (g SavingsGoal) DaysLeft(now time.Time) *int {
	if g.Deadline == nil {
		return nil
	}
	days := int(math.Floor(g.Deadline.Sub(now).Hours() / 24))
	return &days
}

// MarshalJSON adds the derived progress, days_left, and formatted deadline
// fields the API exposes alongside the stored columns.
func (g SavingsGoal) MarshalJSON() ([]byte, error) {
	type alias SavingsGoal
	out := struct {
		alias
		Deadline *string `json:"deadline"`
		Progress float64 `json:"progress"`
		DaysLeft *int    `json:"days_left"`
	}{
		alias:    alias(g),
		Progress: g.Progress(),
		DaysLeft: g.DaysLeft(time.Now()),
	}
	if g.Deadline != nil {
		d := g.Deadline.Format(DeadlineFormat)
		out.Deadline = &d
	}
	return json.Marshal(out)
}
