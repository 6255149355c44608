package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/pathwise/pathwise/internal/model"
)

var (
	ErrStoryNotFound = errors.New("story not found")
)

type StoryRepository interface {
	ByUserAndPeriod(userID, period string) (*model.Story, error)
	Upsert(story *model.Story) error
}

type storyRepository struct {
	db *sqlx.DB
}

func NewStoryRepository(db *sqlx.DB) StoryRepository {
	return &storyRepository{db: db}
}

func (r *storyRepository) ByUserAndPeriod(userID, period string) (*model.Story, error) {
	story := &model.Story{}
	query := `SELECT * FROM stories WHERE user_id = $1 AND period = $2`

	err := r.db.Get(story, query, userID, period)
	if err == sql.ErrNoRows {
		return nil, ErrStoryNotFound
	}

	return story, err
}

// Upsert creates the cache row on first generation and overwrites
// content and updated_at on every regeneration. The UNIQUE(user_id,
// period) constraint keeps this to exactly one row per pair; a
// concurrent double-write degrades to last-writer-wins, which is fine
// for a cache.
func (r *storyRepository) Upsert(story *model.Story) error {
	query := `INSERT INTO stories (id, user_id, period, content, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          ON CONFLICT (user_id, period)
	          DO UPDATE SET content = excluded.content, updated_at = excluded.updated_at`

	_, err := r.db.Exec(query,
		story.ID,
		story.UserID,
		story.Period,
		story.Content,
		story.CreatedAt,
		story.UpdatedAt,
	)

	return err
}
