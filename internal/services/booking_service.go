package services

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/sceneflix/sceneflix/internal/models"
)

// BookingService is the read surface over booking records plus the cancel
// mutation. Fetched records land in a read-through cache; the gateway stays
// the owner of the data.
type BookingService struct {
	repo    models.BookingRepo
	session sessionSource
	logger  *slog.Logger

	mu    sync.RWMutex
	cache map[uuid.UUID]models.Booking
}

func NewBookingService(repo models.BookingRepo, session sessionSource, logger *slog.Logger) *BookingService {
	return &BookingService{
		repo:    repo,
		session: session,
		logger:  logger,
		cache:   make(map[uuid.UUID]models.Booking),
	}
}

// EventTickets lists the ticket offerings of an event; empty on any fetch
// error.
func (bs *BookingService) EventTickets(ctx context.Context, eventID uuid.UUID) []models.Ticket {
	tickets, err := bs.repo.GetEventTickets(ctx, eventID)
	if err != nil {
		bs.logger.Error("failed to fetch event tickets", "event_id", eventID, "error", err)
		return []models.Ticket{}
	}
	if tickets == nil {
		return []models.Ticket{}
	}
	return tickets
}

// MyBookings lists the current user's bookings newest first. Gateway errors
// collapse to an empty list; a missing session is the caller's error.
func (bs *BookingService) MyBookings(ctx context.Context) ([]models.Booking, error) {
	session, ok := bs.session.Current()
	if !ok {
		return nil, models.ErrNotAuthenticated
	}

	bookings, err := bs.repo.ListUserBookings(ctx, session.User.ID, session.AccessToken)
	if err != nil {
		bs.logger.Error("failed to list bookings", "user_id", session.User.ID, "error", err)
		return []models.Booking{}, nil
	}

	bs.mu.Lock()
	for _, b := range bookings {
		bs.cache[b.ID] = b
	}
	bs.mu.Unlock()
	return bookings, nil
}

// GetBooking reads through the cache: cached records are served locally,
// misses are fetched and cached. A nil booking means not found.
func (bs *BookingService) GetBooking(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	session, ok := bs.session.Current()
	if !ok {
		return nil, models.ErrNotAuthenticated
	}

	bs.mu.RLock()
	cached, hit := bs.cache[id]
	bs.mu.RUnlock()
	if hit {
		return &cached, nil
	}

	booking, err := bs.repo.GetBooking(ctx, id, session.AccessToken)
	if err != nil {
		bs.logger.Error("failed to fetch booking", "booking_id", id, "error", err)
		return nil, nil
	}
	if booking == nil {
		return nil, nil
	}

	bs.mu.Lock()
	bs.cache[booking.ID] = *booking
	bs.mu.Unlock()
	return booking, nil
}

// CancelBooking flips the record's status to cancelled at the gateway and in
// the cache.
func (bs *BookingService) CancelBooking(ctx context.Context, id uuid.UUID) error {
	session, ok := bs.session.Current()
	if !ok {
		return models.ErrNotAuthenticated
	}

	if err := bs.repo.UpdateBookingStatus(ctx, id, models.BookingCancelled, session.AccessToken); err != nil {
		return &models.GatewayError{Op: "booking cancel", Err: err}
	}

	bs.mu.Lock()
	if cached, ok := bs.cache[id]; ok {
		cached.Status = models.BookingCancelled
		bs.cache[id] = cached
	}
	bs.mu.Unlock()
	return nil
}
