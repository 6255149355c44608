package model

import "time"

type Profile struct {
	ID              string    `db:"id"`
	UserID          string    `db:"user_id"`
	Name            string    `db:"name"`
	Role            string    `db:"role"`
	Industry        string    `db:"industry"`
	ExperienceYears int       `db:"experience_years"`
	Skills          string    `db:"skills"`       // comma-separated
	CareerGoals     string    `db:"career_goals"` // stated aspirations, free text
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}
