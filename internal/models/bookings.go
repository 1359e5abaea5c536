package models

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

// Booking is the durable result of a confirmed checkout. The gateway owns the
// record once created; the client keeps only a read-through cache of rows it
// has fetched.
type Booking struct {
	ID         uuid.UUID     `json:"id"`
	UserID     uuid.UUID     `json:"user_id"`
	EventID    uuid.UUID     `json:"event_id"`
	TicketID   uuid.UUID     `json:"ticket_id"`
	Quantity   int           `json:"quantity"`
	TotalPrice float64       `json:"total_price"`
	Status     BookingStatus `json:"status"`
	CreatedAt  time.Time     `json:"created_at"`
	Event      *Event        `json:"event,omitempty"`
}
