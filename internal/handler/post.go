package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/pathwise/pathwise/internal/ctxkeys"
	"github.com/pathwise/pathwise/internal/model"
	"github.com/pathwise/pathwise/internal/repository"
	"github.com/pathwise/pathwise/internal/service"
)

type PostHandler struct {
	postService *service.PostService
}

func NewPostHandler(postService *service.PostService) *PostHandler {
	return &PostHandler{
		postService: postService,
	}
}

type postResponse struct {
	ID          string    `json:"id"`
	AuthorID    string    `json:"author_id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Status      string    `json:"status"`
	StoryPeriod string    `json:"story_period,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func postJSON(p *model.Post) postResponse {
	resp := postResponse{
		ID:        p.ID,
		AuthorID:  p.AuthorID,
		Title:     p.Title,
		Content:   p.Content,
		Status:    p.Status,
		CreatedAt: p.CreatedAt,
	}
	if p.StoryPeriod != nil {
		resp.StoryPeriod = *p.StoryPeriod
	}
	return resp
}

func postsJSON(posts []*model.Post) []postResponse {
	out := make([]postResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, postJSON(p))
	}
	return out
}

type createPostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Publish bool   `json:"publish"`
}

func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req createPostRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
		return
	}

	post, err := h.postService.Create(user.ID, req.Title, req.Content, req.Publish)
	if err != nil {
		if errors.Is(err, service.ErrTitleRequired) || errors.Is(err, service.ErrContentRequired) {
			writeError(w, http.StatusBadRequest, "INVALID_POST", err.Error())
			return
		}
		slog.Error("failed to create post", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "failed to create post")
		return
	}

	writeJSON(w, http.StatusCreated, postJSON(post))
}

func (h *PostHandler) ListOwn(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	posts, err := h.postService.PostsByAuthor(user.ID)
	if err != nil {
		slog.Error("failed to list posts", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "failed to list posts")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"posts": postsJSON(posts)})
}

func (h *PostHandler) Feed(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))

	posts, err := h.postService.Feed(page)
	if err != nil {
		slog.Error("failed to load feed", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "failed to load feed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"posts": postsJSON(posts)})
}

func (h *PostHandler) Publish(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	postID := r.PathValue("id")

	err := h.postService.Publish(user.ID, postID)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			writeError(w, http.StatusNotFound, "POST_NOT_FOUND", "post not found")
			return
		}
		slog.Error("failed to publish post", "error", err, "user_id", user.ID, "post_id", postID)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "failed to publish post")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "published"})
}

func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	postID := r.PathValue("id")

	err := h.postService.Delete(user.ID, postID)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			writeError(w, http.StatusNotFound, "POST_NOT_FOUND", "post not found")
			return
		}
		slog.Error("failed to delete post", "error", err, "user_id", user.ID, "post_id", postID)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "failed to delete post")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
