package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/sceneflix/sceneflix/internal/models"
)

type FlowState int

const (
	FlowSelecting FlowState = iota
	FlowConfirming
	FlowConfirmed
	FlowFailed
)

func (s FlowState) String() string {
	switch s {
	case FlowConfirming:
		return "confirming"
	case FlowConfirmed:
		return "confirmed"
	case FlowFailed:
		return "failed"
	default:
		return "selecting"
	}
}

var (
	ErrConfirmInProgress = errors.New("booking confirmation already in progress")
	ErrFlowAbandoned     = errors.New("booking flow was abandoned")
)

// sessionSource is the read-only view of the auth state machine the booking
// flow gates on.
type sessionSource interface {
	Current() (*models.Session, bool)
}

// BookingFlow is a single checkout attempt: a short-lived state machine
// constructed fresh per attempt, so a confirmed flow can never be confirmed
// again. There is no transition from Confirmed back to Confirming; a new
// attempt requires a new flow.
type BookingFlow struct {
	session   sessionSource
	repo      models.BookingRepo
	logger    *slog.Logger
	event     models.Event
	offerings []models.Ticket

	mu         sync.Mutex
	state      FlowState
	ticketType string
	quantity   int
	record     *models.Booking
	lastErr    error
	abandoned  bool
}

// NewBookingFlow is the authentication entry guard: without an active
// session no draft is created and ErrNotAuthenticated is returned.
func NewBookingFlow(session sessionSource, repo models.BookingRepo, logger *slog.Logger, event models.Event, offerings []models.Ticket) (*BookingFlow, error) {
	if _, ok := session.Current(); !ok {
		return nil, models.ErrNotAuthenticated
	}

	f := &BookingFlow{
		session:   session,
		repo:      repo,
		logger:    logger,
		event:     event,
		offerings: offerings,
		state:     FlowSelecting,
		quantity:  1,
	}
	// With no offerings the selection stays blank; Confirm will refuse.
	if len(offerings) > 0 {
		f.ticketType = offerings[0].Type
		for _, t := range offerings {
			if t.Type == models.DefaultTicketType {
				f.ticketType = t.Type
				break
			}
		}
	}
	return f, nil
}

func (f *BookingFlow) SelectTicketType(ticketType string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ticketType = ticketType
}

// SetQuantity clamps to a minimum of 1.
func (f *BookingFlow) SetQuantity(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if n < 1 {
		n = 1
	}
	f.quantity = n
}

func (f *BookingFlow) IncrementQuantity() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.quantity++
}

// DecrementQuantity is a no-op at 1.
func (f *BookingFlow) DecrementQuantity() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.quantity > 1 {
		f.quantity--
	}
}

func (f *BookingFlow) TicketType() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ticketType
}

func (f *BookingFlow) Quantity() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.quantity
}

func (f *BookingFlow) State() FlowState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *BookingFlow) Record() *models.Booking {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.record
}

func (f *BookingFlow) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}

func (f *BookingFlow) offering() (*models.Ticket, bool) {
	for i := range f.offerings {
		if f.offerings[i].Type == f.ticketType {
			return &f.offerings[i], true
		}
	}
	return nil, false
}

// UnitPrice returns the selected offering's price; false when no offering
// matches the selected type.
func (f *BookingFlow) UnitPrice() (float64, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.offering()
	if !ok {
		return 0, false
	}
	return t.Price, true
}

// TotalPrice is recomputed from the current selection on every call; stale
// totals cannot be observed.
func (f *BookingFlow) TotalPrice() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.offering()
	if !ok {
		return 0
	}
	return t.Price * float64(f.quantity)
}

// Abandon marks the attempt as no longer relevant (e.g. the consumer
// navigated away); a pending Confirm result will be discarded.
func (f *BookingFlow) Abandon() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.abandoned = true
}

// Confirm drives Selecting (or Failed, on a user-initiated retry) through
// Confirming into Confirmed or Failed. Calling it again after Confirmed
// returns the existing record without touching the gateway. The lock is
// released around the gateway call so Abandon and State stay responsive
// while the request is in flight.
func (f *BookingFlow) Confirm(ctx context.Context) (*models.Booking, error) {
	f.mu.Lock()

	switch f.state {
	case FlowConfirmed:
		record := f.record
		f.mu.Unlock()
		return record, nil
	case FlowConfirming:
		f.mu.Unlock()
		return nil, ErrConfirmInProgress
	}
	if f.abandoned {
		f.mu.Unlock()
		return nil, ErrFlowAbandoned
	}

	session, ok := f.session.Current()
	if !ok {
		f.mu.Unlock()
		return nil, models.ErrNotAuthenticated
	}

	offering, ok := f.offering()
	if !ok {
		// A zero total inferred from a missing offering must never be
		// booked silently.
		err := &models.TicketUnavailableError{
			EventID:    f.event.ID.String(),
			TicketType: f.ticketType,
		}
		f.mu.Unlock()
		return nil, err
	}

	f.state = FlowConfirming
	draft := &models.Booking{
		UserID:     session.User.ID,
		EventID:    f.event.ID,
		TicketID:   offering.ID,
		Quantity:   f.quantity,
		TotalPrice: offering.Price * float64(f.quantity),
		Status:     models.BookingConfirmed,
	}
	f.mu.Unlock()

	created, err := f.repo.CreateBooking(ctx, draft, session.AccessToken)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		gw := &models.GatewayError{Op: "booking confirm", Err: err}
		f.state = FlowFailed
		f.lastErr = gw
		f.logger.Error("booking confirmation failed", "event_id", f.event.ID, "error", err)
		return nil, gw
	}

	f.state = FlowConfirmed
	f.record = created
	f.lastErr = nil
	f.logger.Info("booking confirmed",
		"booking_id", created.ID,
		"event_id", f.event.ID,
		"quantity", draft.Quantity,
		"total_price", created.TotalPrice,
	)

	if f.abandoned || ctx.Err() != nil {
		// The booking exists remotely, but the consumer is gone: keep the
		// record for idempotence and discard the visible result.
		f.logger.Warn("late booking confirmation discarded", "booking_id", created.ID)
		return nil, ErrFlowAbandoned
	}
	return created, nil
}
