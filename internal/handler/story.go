package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/pathwise/pathwise/internal/ai"
	"github.com/pathwise/pathwise/internal/ctxkeys"
	"github.com/pathwise/pathwise/internal/markdown"
	"github.com/pathwise/pathwise/internal/model"
	"github.com/pathwise/pathwise/internal/period"
	"github.com/pathwise/pathwise/internal/prompt"
	"github.com/pathwise/pathwise/internal/service"
)

type StoryHandler struct {
	storyService *service.StoryService
	renderer     *markdown.Renderer
}

func NewStoryHandler(storyService *service.StoryService) *StoryHandler {
	return &StoryHandler{
		storyService: storyService,
		renderer:     markdown.NewRenderer(),
	}
}

type storyResponse struct {
	Period    string    `json:"period"`
	Content   string    `json:"content"`
	HTML      string    `json:"html,omitempty"`
	Stale     bool      `json:"stale"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (h *StoryHandler) storyJSON(story *model.Story, stale bool, renderHTML bool) storyResponse {
	resp := storyResponse{
		Period:    story.Period,
		Content:   story.Content,
		Stale:     stale,
		UpdatedAt: story.UpdatedAt,
	}

	if renderHTML {
		html, err := h.renderer.Render([]byte(story.Content))
		if err != nil {
			slog.Warn("failed to render story html", "error", err)
		} else {
			resp.HTML = string(html)
		}
	}

	return resp
}

// Cached returns the caller's cached story for a period, with its
// staleness flag. A missing story is not an error; the client uses it
// to offer first-time generation.
func (h *StoryHandler) Cached(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	story, stale, err := h.storyService.CachedStory(user.ID, r.PathValue("period"))
	if err != nil {
		if errors.Is(err, period.ErrInvalidPeriod) {
			writeError(w, http.StatusBadRequest, "INVALID_PERIOD", "unknown period")
			return
		}
		slog.Error("failed to load cached story", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "failed to load story")
		return
	}

	if story == nil {
		writeJSON(w, http.StatusOK, map[string]any{"story": nil})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"story": h.storyJSON(story, stale, r.URL.Query().Get("format") == "html"),
	})
}

func (h *StoryHandler) Generate(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	tone := r.URL.Query().Get("tone")
	if tone == "" {
		tone = string(prompt.ToneMedium)
	}

	story, err := h.storyService.Generate(r.Context(), user.ID, r.PathValue("period"), tone)
	if err != nil {
		switch {
		case errors.Is(err, period.ErrInvalidPeriod):
			writeError(w, http.StatusBadRequest, "INVALID_PERIOD", "unknown period")
		case errors.Is(err, prompt.ErrInvalidTone):
			writeError(w, http.StatusBadRequest, "INVALID_TONE", "unknown tone")
		case errors.Is(err, service.ErrRateLimitExceeded):
			writeError(w, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "daily generation limit reached, try again tomorrow")
		case errors.Is(err, service.ErrNoPosts):
			writeError(w, http.StatusUnprocessableEntity, "NO_POSTS", "write a post in this period first")
		case errors.Is(err, ai.ErrGenerationFailed):
			slog.Error("story generation failed", "error", err, "user_id", user.ID)
			writeError(w, http.StatusBadGateway, "GENERATION_FAILED", "story generation failed, try again")
		default:
			slog.Error("story generation failed", "error", err, "user_id", user.ID)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "story generation failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"story": h.storyJSON(story, false, false),
	})
}

func (h *StoryHandler) Share(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	post, err := h.storyService.ShareToFeed(user.ID, r.PathValue("period"))
	if err != nil {
		switch {
		case errors.Is(err, period.ErrInvalidPeriod):
			writeError(w, http.StatusBadRequest, "INVALID_PERIOD", "unknown period")
		case errors.Is(err, service.ErrStoryNotFound):
			writeError(w, http.StatusNotFound, "STORY_NOT_FOUND", "generate a story first")
		case errors.Is(err, service.ErrAlreadyShared):
			writeError(w, http.StatusConflict, "ALREADY_SHARED", "this story generation is already in the feed")
		default:
			slog.Error("failed to share story", "error", err, "user_id", user.ID)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "failed to share story")
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"post_id": post.ID})
}

// Public returns any user's cached story. No ownership restriction:
// stories are public once generated.
func (h *StoryHandler) Public(w http.ResponseWriter, r *http.Request) {
	story, stale, err := h.storyService.PublicStory(r.PathValue("id"), r.PathValue("period"))
	if err != nil {
		if errors.Is(err, period.ErrInvalidPeriod) {
			writeError(w, http.StatusBadRequest, "INVALID_PERIOD", "unknown period")
			return
		}
		slog.Error("failed to load public story", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "failed to load story")
		return
	}

	if story == nil {
		writeJSON(w, http.StatusOK, map[string]any{"story": nil})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"story": h.storyJSON(story, stale, r.URL.Query().Get("format") == "html"),
	})
}
