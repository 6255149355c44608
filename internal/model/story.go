package model

import "time"

// Story is the cached AI-generated narrative for a (user, period) pair.
// One row per pair; content and updated_at are overwritten in place on
// every regeneration, and the row is never deleted.
type Story struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Period    string    `db:"period"`
	Content   string    `db:"content"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// GenerationID returns the dedup key identifying this exact generation
// instance. Regenerating bumps updated_at and therefore yields a new
// key, which unlocks exactly one more share into the feed.
func (s *Story) GenerationID() string {
	return s.UpdatedAt.UTC().Format(time.RFC3339Nano)
}
