package models

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/supabase-community/postgrest-go"
)

const bookingColumns = "*, event:events(*)"

type BookingRepo interface {
	CreateBooking(ctx context.Context, booking *Booking, accessToken string) (*Booking, error)
	GetBooking(ctx context.Context, id uuid.UUID, accessToken string) (*Booking, error)
	ListUserBookings(ctx context.Context, userID uuid.UUID, accessToken string) ([]Booking, error)
	UpdateBookingStatus(ctx context.Context, id uuid.UUID, status BookingStatus, accessToken string) error
	GetEventTickets(ctx context.Context, eventID uuid.UUID) ([]Ticket, error)
}

func (su *SupabaseRepo) CreateBooking(ctx context.Context, booking *Booking, accessToken string) (*Booking, error) {
	client, err := su.clientFor(accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create authenticated client: %v", err)
	}

	row := map[string]interface{}{
		"user_id":     booking.UserID,
		"event_id":    booking.EventID,
		"ticket_id":   booking.TicketID,
		"quantity":    booking.Quantity,
		"total_price": booking.TotalPrice,
		"status":      booking.Status,
	}

	raw, count, err := client.From(BookingsTable).
		Insert(row, false, "", "", "exact").
		Execute()
	if err != nil {
		return nil, err
	}

	var created []Booking
	if err := json.Unmarshal(raw, &created); err != nil {
		return nil, fmt.Errorf("failed to unmarshal created booking: %v", err)
	}
	if count == 0 || len(created) == 0 {
		return nil, fmt.Errorf("no booking data returned after insert")
	}
	return &created[0], nil
}

// GetBooking returns the booking with its event joined in, or nil when no row
// matches.
func (su *SupabaseRepo) GetBooking(ctx context.Context, id uuid.UUID, accessToken string) (*Booking, error) {
	client, err := su.clientFor(accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create authenticated client: %v", err)
	}

	raw, _, err := client.From(BookingsTable).
		Select(bookingColumns, "", false).
		Eq("id", id.String()).
		Limit(1, "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get booking %s: %v", id, err)
	}

	var bookings []Booking
	if err := json.Unmarshal(raw, &bookings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal booking rows: %v", err)
	}
	if len(bookings) == 0 {
		return nil, nil
	}
	return &bookings[0], nil
}

func (su *SupabaseRepo) ListUserBookings(ctx context.Context, userID uuid.UUID, accessToken string) ([]Booking, error) {
	client, err := su.clientFor(accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create authenticated client: %v", err)
	}

	raw, _, err := client.From(BookingsTable).
		Select(bookingColumns, "", false).
		Eq("user_id", userID.String()).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %v", err)
	}

	var bookings []Booking
	if err := json.Unmarshal(raw, &bookings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal booking rows: %v", err)
	}
	return bookings, nil
}

func (su *SupabaseRepo) UpdateBookingStatus(ctx context.Context, id uuid.UUID, status BookingStatus, accessToken string) error {
	client, err := su.clientFor(accessToken)
	if err != nil {
		return fmt.Errorf("failed to create authenticated client: %v", err)
	}

	_, count, err := client.From(BookingsTable).
		Update(map[string]interface{}{"status": status}, "", "exact").
		Eq("id", id.String()).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to update booking status: %v", err)
	}
	if count == 0 {
		return fmt.Errorf("no booking found to update")
	}
	return nil
}

func (su *SupabaseRepo) GetEventTickets(ctx context.Context, eventID uuid.UUID) ([]Ticket, error) {
	raw, _, err := su.supabaseClient.From(TicketsTable).
		Select("*", "", false).
		Eq("event_id", eventID.String()).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get tickets for event %s: %v", eventID, err)
	}

	var tickets []Ticket
	if err := json.Unmarshal(raw, &tickets); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ticket rows: %v", err)
	}
	return tickets, nil
}
