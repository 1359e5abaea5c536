package services

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/sceneflix/sceneflix/internal/models"
)

const (
	DefaultTrendingLimit = 5
	DefaultCategoryLimit = 10
	DefaultSearchLimit   = 20

	// TrendingNowRailSize caps the composed "Trending Now" rail.
	TrendingNowRailSize = 10
)

// CatalogService fetches and merges event collections. Every read collapses
// gateway failures to an empty (or absent) result after logging, so the
// caller always has a definite state to render.
type CatalogService struct {
	repo   models.CatalogRepo
	logger *slog.Logger
}

func NewCatalogService(repo models.CatalogRepo, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		repo:   repo,
		logger: logger,
	}
}

// railResult keeps a fetch outcome intact internally; the error is collapsed
// only at the read boundary.
type railResult struct {
	events []models.Event
	err    error
}

func (cs *CatalogService) collapse(op string, res railResult) []models.Event {
	if res.err != nil {
		cs.logger.Error("catalog fetch failed", "op", op, "error", res.err)
		return []models.Event{}
	}
	if res.events == nil {
		return []models.Event{}
	}
	return res.events
}

func (cs *CatalogService) GetTrending(ctx context.Context, limit int) []models.Event {
	if limit <= 0 {
		limit = DefaultTrendingLimit
	}
	events, err := cs.repo.GetTrending(ctx, limit)
	return cs.collapse("trending", railResult{events: events, err: err})
}

func (cs *CatalogService) GetByCategory(ctx context.Context, slug string, limit int) []models.Event {
	if limit <= 0 {
		limit = DefaultCategoryLimit
	}
	events, err := cs.repo.GetByCategory(ctx, slug, limit)
	return cs.collapse("category "+slug, railResult{events: events, err: err})
}

// GetByID returns the event with full detail, or nil when it is missing or
// the fetch failed.
func (cs *CatalogService) GetByID(ctx context.Context, id uuid.UUID) *models.Event {
	event, err := cs.repo.GetByID(ctx, id)
	if err != nil {
		cs.logger.Error("catalog fetch failed", "op", "event by id", "event_id", id, "error", err)
		return nil
	}
	return event
}

func (cs *CatalogService) Search(ctx context.Context, query string, limit int) []models.Event {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	events, err := cs.repo.Search(ctx, query, limit)
	return cs.collapse("search", railResult{events: events, err: err})
}

// HomeView is the landing-page payload: a hero event plus the source rails
// and the composed "Trending Now" rail.
type HomeView struct {
	Hero        *models.Event  `json:"hero,omitempty"`
	Trending    []models.Event `json:"trending"`
	Primary     []models.Event `json:"primary"`
	Secondary   []models.Event `json:"secondary"`
	TrendingNow []models.Event `json:"trending_now"`
}

// FetchHome issues the trending and two category fetches concurrently and
// joins them. Each fetch degrades to empty independently; a failure in one
// never cancels the others. A nil return means the consumer's context was
// torn down and the late results were discarded.
func (cs *CatalogService) FetchHome(ctx context.Context, primarySlug, secondarySlug string) *HomeView {
	var (
		wg                           sync.WaitGroup
		trending, primary, secondary railResult
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		trending.events, trending.err = cs.repo.GetTrending(ctx, DefaultTrendingLimit)
	}()
	go func() {
		defer wg.Done()
		primary.events, primary.err = cs.repo.GetByCategory(ctx, primarySlug, DefaultCategoryLimit)
	}()
	go func() {
		defer wg.Done()
		secondary.events, secondary.err = cs.repo.GetByCategory(ctx, secondarySlug, DefaultCategoryLimit)
	}()
	wg.Wait()

	if ctx.Err() != nil {
		cs.logger.Debug("home fetch discarded, consumer gone", "error", ctx.Err())
		return nil
	}

	view := &HomeView{
		Trending:  cs.collapse("trending", trending),
		Primary:   cs.collapse("category "+primarySlug, primary),
		Secondary: cs.collapse("category "+secondarySlug, secondary),
	}
	if len(view.Trending) > 0 {
		view.Hero = &view.Trending[0]
	}
	view.TrendingNow = BuildTrendingNowRail(view.Primary, view.Secondary)
	return view
}

// BuildTrendingNowRail concatenates two category results and truncates to the
// rail size. It does not deduplicate across sources: a rail is a view, not a
// storage construct, and the same event may legitimately appear in both.
func BuildTrendingNowRail(a, b []models.Event) []models.Event {
	merged := make([]models.Event, 0, len(a)+len(b))
	merged = append(merged, a...)
	merged = append(merged, b...)
	if len(merged) > TrendingNowRailSize {
		merged = merged[:TrendingNowRailSize]
	}
	return merged
}
