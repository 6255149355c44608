package routes

import (
	"net/http"

	"github.com/pathwise/pathwise/internal/app"
	"github.com/pathwise/pathwise/internal/handler"
	"github.com/pathwise/pathwise/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	auth := handler.NewAuthHandler(app.AuthService)
	profile := handler.NewProfileHandler(app.ProfileService)
	goal := handler.NewGoalHandler(app.GoalService)
	post := handler.NewPostHandler(app.PostService)
	story := handler.NewStoryHandler(app.StoryService)
	account := handler.NewAccountHandler(app.UserService, app.AuthService)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Auth (rate limited per IP)
	rateLimiter := middleware.RateLimitAuth()
	mux.HandleFunc("POST /api/auth/signup", rateLimiter(middleware.RequireGuest(auth.Signup)))
	mux.HandleFunc("POST /api/auth/login", rateLimiter(middleware.RequireGuest(auth.Login)))
	mux.HandleFunc("POST /api/auth/logout", auth.Logout)
	mux.HandleFunc("GET /api/auth/csrf", auth.CSRFToken)

	// Public feed and public stories/goals
	mux.HandleFunc("GET /api/feed", post.Feed)
	mux.HandleFunc("GET /api/users/{id}/story/{period}", story.Public)
	mux.HandleFunc("GET /api/users/{id}/goals", goal.ListForUser)

	// ============================================================================
	// PROTECTED ROUTES
	// ============================================================================

	// Profile and account
	mux.HandleFunc("GET /api/profile", middleware.RequireAuth(profile.Show))
	mux.HandleFunc("PUT /api/profile", middleware.RequireAuth(profile.Update))
	mux.HandleFunc("DELETE /api/account", middleware.RequireAuth(account.Delete))

	// Posts
	mux.HandleFunc("POST /api/posts", middleware.RequireAuth(post.Create))
	mux.HandleFunc("GET /api/posts", middleware.RequireAuth(post.ListOwn))
	mux.HandleFunc("POST /api/posts/{id}/publish", middleware.RequireAuth(post.Publish))
	mux.HandleFunc("DELETE /api/posts/{id}", middleware.RequireAuth(post.Delete))

	// Goals
	mux.HandleFunc("POST /api/goals", middleware.RequireAuth(goal.Create))
	mux.HandleFunc("POST /api/goals/{id}/complete", middleware.RequireAuth(goal.Complete))
	mux.HandleFunc("DELETE /api/goals/{id}", middleware.RequireAuth(goal.Delete))

	// Stories
	mux.HandleFunc("GET /api/stories/{period}", middleware.RequireAuth(story.Cached))
	mux.HandleFunc("POST /api/stories/{period}/generate", middleware.RequireAuth(story.Generate))
	mux.HandleFunc("POST /api/stories/{period}/share", middleware.RequireAuth(story.Share))

	// Global middleware (order matters):
	// 1. Config - expose sanitized config in ctx
	// 2. RequestLogging
	// 3. CSRFProtection - the proof gate on every mutating request
	// 4. AuthMiddleware - resolve current identity
	// 5. WithURLPath
	return middleware.Chain(mux,
		middleware.Config(app.Cfg),
		middleware.RequestLogging,
		middleware.CSRFProtection,
		middleware.AuthMiddleware(app.AuthService, app.UserService, app.ProfileService),
		middleware.WithURLPath,
	)
}
