package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pathwise/pathwise/internal/model"
	"github.com/pathwise/pathwise/internal/repository"
	"github.com/pathwise/pathwise/internal/sanitize"
)

var (
	ErrInvalidGoalPeriod    = errors.New("invalid goal period")
	ErrInvalidDeadline      = errors.New("deadline must be after the start date")
	ErrGoalAlreadyCompleted = errors.New("goal already completed")
)

type GoalService struct {
	repo repository.GoalRepository
}

func NewGoalService(repo repository.GoalRepository) *GoalService {
	return &GoalService{
		repo: repo,
	}
}

func (s *GoalService) Create(userID, title, goalPeriod string, deadline time.Time) (*model.Goal, error) {
	title = sanitize.Title(title)
	if title == "" {
		return nil, errors.New("title is required")
	}

	goalPeriod = strings.ToLower(strings.TrimSpace(goalPeriod))
	if !model.GoalPeriods[goalPeriod] {
		return nil, ErrInvalidGoalPeriod
	}

	now := time.Now()
	if !deadline.After(now) {
		return nil, ErrInvalidDeadline
	}

	goal := &model.Goal{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     title,
		Period:    goalPeriod,
		Status:    model.GoalStatusActive,
		StartDate: now,
		Deadline:  deadline,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.repo.Create(goal)
	if err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	return goal, nil
}

func (s *GoalService) ByID(userID, goalID string) (*model.Goal, error) {
	return s.repo.ByID(userID, goalID)
}

// ActiveGoals lists a user's active goals, newest start first. This is
// the set included in story generation context.
func (s *GoalService) ActiveGoals(userID string) ([]*model.Goal, error) {
	return s.repo.ByStatus(userID, model.GoalStatusActive)
}

// VisibleGoals applies the ownership rule: the owner sees everything,
// everyone else sees only completed goals.
func (s *GoalService) VisibleGoals(requesterID, targetUserID string) ([]*model.Goal, error) {
	if requesterID == targetUserID {
		return s.repo.Goals(targetUserID)
	}
	return s.repo.ByStatus(targetUserID, model.GoalStatusCompleted)
}

func (s *GoalService) Complete(userID, goalID string) (*model.Goal, error) {
	goal, err := s.repo.ByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	if goal.Status == model.GoalStatusCompleted {
		return nil, ErrGoalAlreadyCompleted
	}

	now := time.Now()
	goal.Status = model.GoalStatusCompleted
	goal.CompletedAt = &now
	goal.UpdatedAt = now

	err = s.repo.Update(goal)
	if err != nil {
		return nil, err
	}

	return goal, nil
}

func (s *GoalService) Delete(userID, goalID string) error {
	// Verify ownership
	_, err := s.repo.ByID(userID, goalID)
	if err != nil {
		return err
	}

	return s.repo.Delete(userID, goalID)
}
