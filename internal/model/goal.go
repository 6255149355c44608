package model

import (
	"time"
)

const (
	GoalStatusActive    = "active"
	GoalStatusCompleted = "completed"
)

// GoalPeriods is the closed set of cadence tags a goal may carry. This
// is a different set from story periods: goals can be quarterly, and
// there is no "all".
var GoalPeriods = map[string]bool{
	"daily":     true,
	"weekly":    true,
	"monthly":   true,
	"quarterly": true,
	"yearly":    true,
}

type Goal struct {
	ID          string     `db:"id"`
	UserID      string     `db:"user_id"`
	Title       string     `db:"title"`
	Period      string     `db:"period"`
	Status      string     `db:"status"`
	StartDate   time.Time  `db:"start_date"`
	Deadline    time.Time  `db:"deadline"`
	CompletedAt *time.Time `db:"completed_at"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}
