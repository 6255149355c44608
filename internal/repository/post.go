package repository

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pathwise/pathwise/internal/model"
)

var (
	ErrPostNotFound      = errors.New("post not found")
	ErrDuplicateStoryRef = errors.New("story generation already mirrored")
)

type PostRepository interface {
	Create(post *model.Post) error
	ByID(postID string) (*model.Post, error)
	PostsByAuthor(authorID string) ([]*model.Post, error)
	PublishedSince(authorID string, since time.Time) ([]*model.Post, error)
	Feed(limit, offset int) ([]*model.Post, error)
	HasStoryMirror(authorID, generationID string) (bool, error)
	Publish(authorID, postID string) error
	Delete(authorID, postID string) error
}

type postRepository struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(post *model.Post) error {
	query := `INSERT INTO posts (id, author_id, title, content, status, story_generation_id, story_period, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.Exec(query,
		post.ID,
		post.AuthorID,
		post.Title,
		post.Content,
		post.Status,
		post.StoryGenerationID,
		post.StoryPeriod,
		post.CreatedAt,
		post.UpdatedAt,
	)

	if err != nil {
		// The partial unique index on (author_id, story_generation_id)
		// closes the race between concurrent share requests; a violation
		// means this generation is already mirrored.
		errStr := err.Error()
		if strings.Contains(errStr, "UNIQUE constraint failed") || strings.Contains(errStr, "duplicate key value") {
			return ErrDuplicateStoryRef
		}
		return err
	}

	return nil
}

func (r *postRepository) ByID(postID string) (*model.Post, error) {
	post := &model.Post{}
	query := `SELECT * FROM posts WHERE id = $1`

	err := r.db.Get(post, query, postID)
	if err == sql.ErrNoRows {
		return nil, ErrPostNotFound
	}

	return post, err
}

func (r *postRepository) PostsByAuthor(authorID string) ([]*model.Post, error) {
	var posts []*model.Post
	query := `SELECT * FROM posts WHERE author_id = $1 ORDER BY created_at DESC`

	err := r.db.Select(&posts, query, authorID)
	if err != nil {
		return nil, err
	}

	return posts, nil
}

// PublishedSince lists an author's published posts created on or after
// the boundary, oldest first. This is the generation-context window.
func (r *postRepository) PublishedSince(authorID string, since time.Time) ([]*model.Post, error) {
	var posts []*model.Post
	query := `SELECT * FROM posts
	          WHERE author_id = $1 AND status = $2 AND created_at >= $3
	          ORDER BY created_at ASC`

	err := r.db.Select(&posts, query, authorID, model.PostStatusPublished, since)
	if err != nil {
		return nil, err
	}

	return posts, nil
}

func (r *postRepository) Feed(limit, offset int) ([]*model.Post, error) {
	var posts []*model.Post
	query := `SELECT * FROM posts WHERE status = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	err := r.db.Select(&posts, query, model.PostStatusPublished, limit, offset)
	if err != nil {
		return nil, err
	}

	return posts, nil
}

func (r *postRepository) HasStoryMirror(authorID, generationID string) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM posts WHERE author_id = $1 AND story_generation_id = $2`

	err := r.db.QueryRow(query, authorID, generationID).Scan(&count)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *postRepository) Publish(authorID, postID string) error {
	query := `UPDATE posts SET status = $1, updated_at = $2 WHERE id = $3 AND author_id = $4`

	result, err := r.db.Exec(query, model.PostStatusPublished, time.Now(), postID, authorID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrPostNotFound
	}

	return nil
}

func (r *postRepository) Delete(authorID, postID string) error {
	query := `DELETE FROM posts WHERE id = $1 AND author_id = $2`
	result, err := r.db.Exec(query, postID, authorID)

	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrPostNotFound
	}

	return nil
}
