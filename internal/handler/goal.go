package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/pathwise/pathwise/internal/ctxkeys"
	"github.com/pathwise/pathwise/internal/model"
	"github.com/pathwise/pathwise/internal/repository"
	"github.com/pathwise/pathwise/internal/service"
)

type GoalHandler struct {
	goalService *service.GoalService
}

func NewGoalHandler(goalService *service.GoalService) *GoalHandler {
	return &GoalHandler{
		goalService: goalService,
	}
}

type goalResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Period      string     `json:"period"`
	Status      string     `json:"status"`
	StartDate   time.Time  `json:"start_date"`
	Deadline    time.Time  `json:"deadline"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func goalJSON(g *model.Goal) goalResponse {
	return goalResponse{
		ID:          g.ID,
		Title:       g.Title,
		Period:      g.Period,
		Status:      g.Status,
		StartDate:   g.StartDate,
		Deadline:    g.Deadline,
		CompletedAt: g.CompletedAt,
	}
}

func goalsJSON(goals []*model.Goal) []goalResponse {
	out := make([]goalResponse, 0, len(goals))
	for _, g := range goals {
		out = append(out, goalJSON(g))
	}
	return out
}

type createGoalRequest struct {
	Title    string    `json:"title"`
	Period   string    `json:"period"`
	Deadline time.Time `json:"deadline"`
}

func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req createGoalRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
		return
	}

	goal, err := h.goalService.Create(user.ID, req.Title, req.Period, req.Deadline)
	if err != nil {
		if errors.Is(err, service.ErrInvalidGoalPeriod) || errors.Is(err, service.ErrInvalidDeadline) {
			writeError(w, http.StatusBadRequest, "INVALID_GOAL", err.Error())
			return
		}
		slog.Error("failed to create goal", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "failed to create goal")
		return
	}

	writeJSON(w, http.StatusCreated, goalJSON(goal))
}

// ListForUser applies the visibility rule: owners see all their goals,
// everyone else sees only completed ones.
func (h *GoalHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	targetID := r.PathValue("id")

	requesterID := ""
	if user := ctxkeys.User(r.Context()); user != nil {
		requesterID = user.ID
	}

	goals, err := h.goalService.VisibleGoals(requesterID, targetID)
	if err != nil {
		slog.Error("failed to list goals", "error", err, "target_id", targetID)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "failed to list goals")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"goals": goalsJSON(goals)})
}

func (h *GoalHandler) Complete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	goalID := r.PathValue("id")

	goal, err := h.goalService.Complete(user.ID, goalID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrGoalNotFound):
			writeError(w, http.StatusNotFound, "GOAL_NOT_FOUND", "goal not found")
		case errors.Is(err, service.ErrGoalAlreadyCompleted):
			writeError(w, http.StatusConflict, "ALREADY_COMPLETED", "goal is already completed")
		default:
			slog.Error("failed to complete goal", "error", err, "user_id", user.ID, "goal_id", goalID)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "failed to complete goal")
		}
		return
	}

	writeJSON(w, http.StatusOK, goalJSON(goal))
}

func (h *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	goalID := r.PathValue("id")

	err := h.goalService.Delete(user.ID, goalID)
	if err != nil {
		if errors.Is(err, repository.ErrGoalNotFound) {
			writeError(w, http.StatusNotFound, "GOAL_NOT_FOUND", "goal not found")
			return
		}
		slog.Error("failed to delete goal", "error", err, "user_id", user.ID, "goal_id", goalID)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "failed to delete goal")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
