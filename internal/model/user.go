package model

import (
	"time"
)

// DailyGenerationLimit is the fixed maximum number of successful story
// generations permitted per user per calendar day.
const DailyGenerationLimit = 10

type User struct {
	ID           string  `db:"id"`
	Email        string  `db:"email"`
	PasswordHash *string `db:"password_hash"`

	// Story generation quota. The counter resets on the first successful
	// generation of a new calendar day; the day column exists so the
	// reset-or-increment decision can happen inside a single UPDATE.
	DailyGenerationCount int        `db:"daily_generation_count"`
	LastGenerationAt     *time.Time `db:"last_generation_at"`
	LastGenerationDay    *string    `db:"last_generation_day"`

	CreatedAt time.Time `db:"created_at"`
}

func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}
