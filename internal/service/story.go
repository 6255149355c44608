package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pathwise/pathwise/internal/ai"
	"github.com/pathwise/pathwise/internal/model"
	"github.com/pathwise/pathwise/internal/period"
	"github.com/pathwise/pathwise/internal/prompt"
	"github.com/pathwise/pathwise/internal/repository"
	"github.com/pathwise/pathwise/internal/sanitize"
)

var (
	ErrNoPosts           = errors.New("no posts in the selected period")
	ErrRateLimitExceeded = errors.New("daily generation limit reached")
	ErrAlreadyShared     = errors.New("story generation already shared")
	ErrStoryNotFound     = errors.New("story not found")
)

// StoryService orchestrates story generation: quota, context
// aggregation, prompt composition, the model call, the cache upsert,
// and mirroring a cached story into the public feed.
type StoryService struct {
	storyRepo   repository.StoryRepository
	postRepo    repository.PostRepository
	goalRepo    repository.GoalRepository
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	generator   ai.Generator

	now func() time.Time
}

func NewStoryService(
	storyRepo repository.StoryRepository,
	postRepo repository.PostRepository,
	goalRepo repository.GoalRepository,
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
	generator ai.Generator,
) *StoryService {
	return &StoryService{
		storyRepo:   storyRepo,
		postRepo:    postRepo,
		goalRepo:    goalRepo,
		userRepo:    userRepo,
		profileRepo: profileRepo,
		generator:   generator,
		now:         time.Now,
	}
}

// CachedStory resolves the period tag and returns the cached story for
// (user, period) with its staleness flag, or nil if none was ever
// generated. Staleness is advisory; the caller decides whether to offer
// regeneration.
func (s *StoryService) CachedStory(userID, rawPeriod string) (*model.Story, bool, error) {
	p, err := period.Parse(rawPeriod)
	if err != nil {
		return nil, false, err
	}

	story, err := s.storyRepo.ByUserAndPeriod(userID, string(p))
	if err != nil {
		if errors.Is(err, repository.ErrStoryNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}

	return story, p.Stale(story.UpdatedAt, s.now()), nil
}

// Generate runs the full pipeline for one story generation request.
//
// The quota is consumed before the post-window check, so an
// empty-window request still burns a slot. Deliberate: the quota exists
// to bound model spend per user per day, and an attacker probing empty
// windows should run into the same ceiling.
func (s *StoryService) Generate(ctx context.Context, userID, rawPeriod, rawTone string) (*model.Story, error) {
	p, err := period.Parse(rawPeriod)
	if err != nil {
		return nil, err
	}

	tone, err := prompt.ParseTone(rawTone)
	if err != nil {
		return nil, err
	}

	now := s.now()

	err = s.userRepo.ConsumeGenerationQuota(userID, now)
	if err != nil {
		if errors.Is(err, repository.ErrQuotaExceeded) {
			return nil, ErrRateLimitExceeded
		}
		return nil, fmt.Errorf("failed to consume quota: %w", err)
	}

	pctx, err := s.buildContext(userID, p, now)
	if err != nil {
		return nil, err
	}

	rendered, err := prompt.Compose(tone, pctx)
	if err != nil {
		return nil, err
	}

	content, err := s.generator.Generate(ctx, rendered.System, rendered.User)
	if err != nil {
		return nil, err
	}

	story := &model.Story{
		ID:        uuid.New().String(),
		UserID:    userID,
		Period:    string(p),
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.storyRepo.Upsert(story)
	if err != nil {
		return nil, fmt.Errorf("failed to cache story: %w", err)
	}

	slog.Info("story generated", "user_id", userID, "period", p, "tone", tone)

	return story, nil
}

// buildContext aggregates profile, in-window published posts, and
// active goals into sanitized, model-ready text blocks. Pure read.
func (s *StoryService) buildContext(userID string, p period.Period, now time.Time) (prompt.Context, error) {
	user, err := s.userRepo.ByID(userID)
	if err != nil {
		return prompt.Context{}, fmt.Errorf("failed to get user: %w", err)
	}

	since := p.WindowStart(now, user.CreatedAt)

	posts, err := s.postRepo.PublishedSince(userID, since)
	if err != nil {
		return prompt.Context{}, fmt.Errorf("failed to get posts: %w", err)
	}
	if len(posts) == 0 {
		return prompt.Context{}, ErrNoPosts
	}

	profile, err := s.profileRepo.ByUserID(userID)
	if err != nil {
		return prompt.Context{}, fmt.Errorf("failed to get profile: %w", err)
	}

	goals, err := s.goalRepo.ByStatus(userID, model.GoalStatusActive)
	if err != nil {
		return prompt.Context{}, fmt.Errorf("failed to get goals: %w", err)
	}

	return prompt.Context{
		Profile: formatProfile(profile),
		Goals:   formatGoals(goals),
		Posts:   formatPosts(posts),
	}, nil
}

func formatProfile(profile *model.Profile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", sanitize.Title(profile.Name))
	if profile.Role != "" {
		fmt.Fprintf(&b, "Role: %s\n", sanitize.Title(profile.Role))
	}
	if profile.Industry != "" {
		fmt.Fprintf(&b, "Industry: %s\n", sanitize.Title(profile.Industry))
	}
	if profile.ExperienceYears > 0 {
		fmt.Fprintf(&b, "Experience: %d years\n", profile.ExperienceYears)
	}
	if profile.Skills != "" {
		fmt.Fprintf(&b, "Skills: %s\n", sanitize.Text(profile.Skills, sanitize.MaxProfileLen))
	}
	if profile.CareerGoals != "" {
		fmt.Fprintf(&b, "Stated goals: %s\n", sanitize.Text(profile.CareerGoals, sanitize.MaxProfileLen))
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatGoals(goals []*model.Goal) string {
	if len(goals) == 0 {
		return ""
	}

	var b strings.Builder
	for _, g := range goals {
		fmt.Fprintf(&b, "- %s (%s, started %s, deadline %s)\n",
			sanitize.Title(g.Title),
			g.Period,
			g.StartDate.Format("2006-01-02"),
			g.Deadline.Format("2006-01-02"),
		)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatPosts(posts []*model.Post) string {
	var b strings.Builder
	for _, p := range posts {
		fmt.Fprintf(&b, "### %s — %s\n%s\n\n",
			p.CreatedAt.Format("2006-01-02"),
			sanitize.Title(p.Title),
			sanitize.Text(p.Content, sanitize.MaxPostLen),
		)
	}
	return strings.TrimRight(b.String(), "\n")
}

// ShareToFeed mirrors the current cached story for (user, period) into
// the public feed as a published post, at most once per generation
// instance. The dedup key is the story's updated_at timestamp, so
// regenerating unlocks exactly one more share.
func (s *StoryService) ShareToFeed(userID, rawPeriod string) (*model.Post, error) {
	p, err := period.Parse(rawPeriod)
	if err != nil {
		return nil, err
	}

	story, err := s.storyRepo.ByUserAndPeriod(userID, string(p))
	if err != nil {
		if errors.Is(err, repository.ErrStoryNotFound) {
			return nil, ErrStoryNotFound
		}
		return nil, err
	}

	generationID := story.GenerationID()

	shared, err := s.postRepo.HasStoryMirror(userID, generationID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing share: %w", err)
	}
	if shared {
		return nil, ErrAlreadyShared
	}

	storyPeriod := string(p)
	now := s.now()
	post := &model.Post{
		ID:                uuid.New().String(),
		AuthorID:          userID,
		Title:             fmt.Sprintf("My %s Growth Story", p.Label()),
		Content:           sanitize.Text(story.Content, sanitize.MaxStoryLen),
		Status:            model.PostStatusPublished,
		StoryGenerationID: &generationID,
		StoryPeriod:       &storyPeriod,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	err = s.postRepo.Create(post)
	if err != nil {
		// Concurrent share of the same generation loses the race at the
		// unique index and gets the same answer as the existence check.
		if errors.Is(err, repository.ErrDuplicateStoryRef) {
			return nil, ErrAlreadyShared
		}
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	slog.Info("story shared to feed", "user_id", userID, "period", p, "post_id", post.ID)

	return post, nil
}

// PublicStory returns any user's cached story for a period. Stories are
// public once generated; there is no ownership restriction here.
func (s *StoryService) PublicStory(targetUserID, rawPeriod string) (*model.Story, bool, error) {
	return s.CachedStory(targetUserID, rawPeriod)
}
