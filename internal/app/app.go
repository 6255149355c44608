package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pathwise/pathwise/internal/ai"
	"github.com/pathwise/pathwise/internal/config"
	"github.com/pathwise/pathwise/internal/db"
	"github.com/pathwise/pathwise/internal/repository"
	"github.com/pathwise/pathwise/internal/service"
)

type App struct {
	Cfg            *config.Config
	DB             *sqlx.DB
	AuthService    *service.AuthService
	UserService    *service.UserService
	ProfileService *service.ProfileService
	GoalService    *service.GoalService
	PostService    *service.PostService
	StoryService   *service.StoryService
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	profileRepository := repository.NewProfileRepository(database)
	goalRepository := repository.NewGoalRepository(database)
	postRepository := repository.NewPostRepository(database)
	storyRepository := repository.NewStoryRepository(database)

	// Services
	authService := service.NewAuthService(
		userRepository,
		profileRepository,
		cfg.JWTSecret,
		cfg.IsProduction(),
		cfg.JWTExpiry,
	)
	userService := service.NewUserService(userRepository)
	profileService := service.NewProfileService(profileRepository)
	goalService := service.NewGoalService(goalRepository)
	postService := service.NewPostService(postRepository, cfg.FeedPageSize)

	generator := ai.NewOpenAIGenerator(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	storyService := service.NewStoryService(
		storyRepository,
		postRepository,
		goalRepository,
		userRepository,
		profileRepository,
		generator,
	)

	return &App{
		Cfg:            cfg,
		DB:             database,
		AuthService:    authService,
		UserService:    userService,
		ProfileService: profileService,
		GoalService:    goalService,
		PostService:    postService,
		StoryService:   storyService,
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
