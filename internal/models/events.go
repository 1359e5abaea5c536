package models

import (
	"time"

	"github.com/google/uuid"
)

type Venue struct {
	Name string `json:"name"`
	City string `json:"city"`
}

type Category struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Event is immutable from the client's point of view: rows are never mutated
// locally, only replaced wholesale by a re-fetch.
type Event struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`       // e.g., "Warehouse Sessions Vol. 4"
	Description string     `json:"description"` // e.g., "An all-night techno marathon"
	StartTime   time.Time  `json:"start_time"`  // e.g., "2026-10-01T21:00:00Z"
	EndTime     *time.Time `json:"end_time,omitempty"`
	PriceStart  float64    `json:"price_start"` // whole display-currency units
	CoverImage  string     `json:"cover_image"`
	HeroImage   string     `json:"hero_image,omitempty"`
	Venue       *Venue     `json:"venue,omitempty"`
	Category    *Category  `json:"category,omitempty"`
	IsTrending  bool       `json:"is_trending"`
}
