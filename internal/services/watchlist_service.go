package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/sceneflix/sceneflix/internal/models"
)

// WatchlistKey is the single namespaced key the whole collection lives under.
const WatchlistKey = "sceneflix_bookmarks"

// WatchlistMedium is the persistent local storage the watchlist writes
// through to.
type WatchlistMedium interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}

// WatchlistService keeps the visitor's favorited events: a deduplicated,
// insertion-ordered set of event snapshots keyed by event id. Every mutation
// reads, modifies, and rewrites the whole serialized collection before
// returning. Storage failures degrade to a no-op with a logged error rather
// than surfacing to the caller.
type WatchlistService struct {
	medium WatchlistMedium
	logger *slog.Logger

	mu sync.Mutex
}

func NewWatchlistService(medium WatchlistMedium, logger *slog.Logger) *WatchlistService {
	return &WatchlistService{
		medium: medium,
		logger: logger,
	}
}

// List returns the persisted collection in insertion order. Deserialization
// or storage failures fail soft: an empty list, never an error.
func (ws *WatchlistService) List(ctx context.Context) []models.Event {
	raw, err := ws.medium.Get(ctx, WatchlistKey)
	if err != nil {
		ws.logger.Error("failed to read watchlist", "error", err)
		return []models.Event{}
	}
	if len(raw) == 0 {
		return []models.Event{}
	}

	var events []models.Event
	if err := json.Unmarshal(raw, &events); err != nil {
		ws.logger.Error("failed to decode watchlist, treating as empty", "error", err)
		return []models.Event{}
	}
	return events
}

func (ws *WatchlistService) Contains(ctx context.Context, eventID uuid.UUID) bool {
	for _, e := range ws.List(ctx) {
		if e.ID == eventID {
			return true
		}
	}
	return false
}

// Add appends the event snapshot unless its id is already present.
func (ws *WatchlistService) Add(ctx context.Context, event models.Event) {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	events := ws.List(ctx)
	for _, e := range events {
		if e.ID == event.ID {
			return
		}
	}
	ws.persist(ctx, append(events, event))
}

// Remove drops the entry with the given id; absent ids are a no-op.
func (ws *WatchlistService) Remove(ctx context.Context, eventID uuid.UUID) {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	events := ws.List(ctx)
	filtered := events[:0]
	for _, e := range events {
		if e.ID != eventID {
			filtered = append(filtered, e)
		}
	}
	if len(filtered) == len(events) {
		return
	}
	ws.persist(ctx, filtered)
}

// Toggle flips membership and reports the new state: true when the event was
// added, false when it was removed. This is the entry point for the
// favorite control, so add and remove stay mutually exclusive per id.
func (ws *WatchlistService) Toggle(ctx context.Context, event models.Event) bool {
	if ws.Contains(ctx, event.ID) {
		ws.Remove(ctx, event.ID)
		return false
	}
	ws.Add(ctx, event)
	return true
}

// persist writes the whole serialized collection in one shot; readers never
// observe a partial write.
func (ws *WatchlistService) persist(ctx context.Context, events []models.Event) {
	raw, err := json.Marshal(events)
	if err != nil {
		ws.logger.Error("failed to encode watchlist", "error", err)
		return
	}
	if err := ws.medium.Put(ctx, WatchlistKey, raw); err != nil {
		// Availability over durability: the in-memory view may now be
		// stale relative to storage.
		ws.logger.Error("failed to persist watchlist", "error", err)
	}
}
