package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pathwise/pathwise/internal/model"
	"github.com/pathwise/pathwise/internal/repository"
	"github.com/pathwise/pathwise/internal/sanitize"
)

var (
	ErrTitleRequired   = errors.New("title is required")
	ErrContentRequired = errors.New("content is required")
)

type PostService struct {
	repo     repository.PostRepository
	pageSize int
}

func NewPostService(repo repository.PostRepository, pageSize int) *PostService {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &PostService{
		repo:     repo,
		pageSize: pageSize,
	}
}

func (s *PostService) Create(authorID, title, content string, publish bool) (*model.Post, error) {
	title = sanitize.Title(title)
	content = sanitize.Text(content, sanitize.MaxStoryLen)

	if title == "" {
		return nil, ErrTitleRequired
	}
	if content == "" {
		return nil, ErrContentRequired
	}

	status := model.PostStatusDraft
	if publish {
		status = model.PostStatusPublished
	}

	now := time.Now()
	post := &model.Post{
		ID:        uuid.New().String(),
		AuthorID:  authorID,
		Title:     title,
		Content:   content,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.repo.Create(post)
	if err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	return post, nil
}

func (s *PostService) ByID(postID string) (*model.Post, error) {
	return s.repo.ByID(postID)
}

func (s *PostService) PostsByAuthor(authorID string) ([]*model.Post, error) {
	return s.repo.PostsByAuthor(authorID)
}

func (s *PostService) Feed(page int) ([]*model.Post, error) {
	if page < 1 {
		page = 1
	}
	return s.repo.Feed(s.pageSize, (page-1)*s.pageSize)
}

func (s *PostService) Publish(authorID, postID string) error {
	return s.repo.Publish(authorID, postID)
}

func (s *PostService) Delete(authorID, postID string) error {
	return s.repo.Delete(authorID, postID)
}
