package models

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Column lists mirror what the web client asks PostgREST for: event rows
// joined with their venue and category sub-objects.
const (
	eventRailColumns = "*, venue:venues(name,city), category:categories(name,slug)"
	// categories!inner makes the category filter an inner join so rows
	// without a matching category are excluded, not returned with NULLs.
	eventCategoryColumns = "*, venue:venues(name,city), category:categories!inner(name,slug)"
	eventDetailColumns   = "*, venue:venues(*), category:categories(*)"
)

type CatalogRepo interface {
	GetTrending(ctx context.Context, limit int) ([]Event, error)
	GetByCategory(ctx context.Context, slug string, limit int) ([]Event, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Event, error)
	Search(ctx context.Context, query string, limit int) ([]Event, error)
}

func decodeEvents(raw []byte) ([]Event, error) {
	var events []Event
	if err := json.Unmarshal(raw, &events); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event rows: %v", err)
	}
	return events, nil
}

func (su *SupabaseRepo) GetTrending(ctx context.Context, limit int) ([]Event, error) {
	raw, _, err := su.supabaseClient.From(EventsTable).
		Select(eventRailColumns, "", false).
		Eq("is_trending", "true").
		Limit(limit, "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get trending events: %v", err)
	}
	return decodeEvents(raw)
}

func (su *SupabaseRepo) GetByCategory(ctx context.Context, slug string, limit int) ([]Event, error) {
	raw, _, err := su.supabaseClient.From(EventsTable).
		Select(eventCategoryColumns, "", false).
		Eq("category.slug", slug).
		Limit(limit, "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get events for category %q: %v", slug, err)
	}
	return decodeEvents(raw)
}

// GetByID returns the event with full venue/category detail, or nil when no
// row matches.
func (su *SupabaseRepo) GetByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	raw, _, err := su.supabaseClient.From(EventsTable).
		Select(eventDetailColumns, "", false).
		Eq("id", id.String()).
		Limit(1, "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get event %s: %v", id, err)
	}

	// Supabase returns an array even for single results
	events, err := decodeEvents(raw)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, nil
	}
	return &events[0], nil
}

func (su *SupabaseRepo) Search(ctx context.Context, query string, limit int) ([]Event, error) {
	raw, _, err := su.supabaseClient.From(EventsTable).
		Select(eventRailColumns, "", false).
		Ilike("title", "%"+query+"%").
		Limit(limit, "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to search events: %v", err)
	}
	return decodeEvents(raw)
}
