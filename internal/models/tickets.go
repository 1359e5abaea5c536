package models

import "github.com/google/uuid"

// DefaultTicketType is the offering pre-selected at checkout when the event
// publishes one.
const DefaultTicketType = "GA"

// Ticket is one purchasable price/type tier of an event.
type Ticket struct {
	ID      uuid.UUID `json:"id"`
	EventID uuid.UUID `json:"event_id"`
	Type    string    `json:"type"`  // free-form label, e.g. "GA", "VIP"
	Price   float64   `json:"price"` // whole display-currency units
}
