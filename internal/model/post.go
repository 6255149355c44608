package model

import "time"

const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
)

type Post struct {
	ID       string `db:"id"`
	AuthorID string `db:"author_id"`
	Title    string `db:"title"`
	Content  string `db:"content"`
	Status   string `db:"status"`

	// Set only when the post is the feed mirror of a generated story.
	// At most one published post exists per (author, generation id).
	StoryGenerationID *string `db:"story_generation_id"`
	StoryPeriod       *string `db:"story_period"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (p *Post) IsStoryMirror() bool {
	return p.StoryGenerationID != nil && *p.StoryGenerationID != ""
}
