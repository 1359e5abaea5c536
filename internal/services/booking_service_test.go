package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/sceneflix/sceneflix/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventTicketsErrorCollapsesToEmpty(t *testing.T) {
	repo := &mockBookingRepo{ticketsErr: errors.New("gateway down")}
	bs := NewBookingService(repo, authedStub(), testLogger())

	got := bs.EventTickets(context.Background(), uuid.New())

	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestMyBookingsRequiresAuthentication(t *testing.T) {
	repo := &mockBookingRepo{}
	bs := NewBookingService(repo, &stubSession{}, testLogger())

	_, err := bs.MyBookings(context.Background())

	assert.ErrorIs(t, err, models.ErrNotAuthenticated)
	assert.Equal(t, 0, repo.listCalls)
}

func TestMyBookingsGatewayErrorCollapsesToEmpty(t *testing.T) {
	repo := &mockBookingRepo{listErr: errors.New("gateway down")}
	bs := NewBookingService(repo, authedStub(), testLogger())

	got, err := bs.MyBookings(context.Background())

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGetBookingServedFromCacheAfterList(t *testing.T) {
	booking := models.Booking{ID: uuid.New(), Status: models.BookingConfirmed, Quantity: 2}
	repo := &mockBookingRepo{bookings: []models.Booking{booking}}
	bs := NewBookingService(repo, authedStub(), testLogger())

	_, err := bs.MyBookings(context.Background())
	require.NoError(t, err)

	got, err := bs.GetBooking(context.Background(), booking.ID)

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, booking.ID, got.ID)
	assert.Equal(t, 0, repo.getCalls)
}

func TestGetBookingMissFetchesAndCaches(t *testing.T) {
	booking := &models.Booking{ID: uuid.New(), Status: models.BookingConfirmed}
	repo := &mockBookingRepo{booking: booking}
	bs := NewBookingService(repo, authedStub(), testLogger())

	first, err := bs.GetBooking(context.Background(), booking.ID)
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, 1, repo.getCalls)

	second, err := bs.GetBooking(context.Background(), booking.ID)
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Equal(t, 1, repo.getCalls)
}

func TestGetBookingNotFoundReturnsNil(t *testing.T) {
	repo := &mockBookingRepo{booking: nil}
	bs := NewBookingService(repo, authedStub(), testLogger())

	got, err := bs.GetBooking(context.Background(), uuid.New())

	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCancelBookingUpdatesCache(t *testing.T) {
	booking := models.Booking{ID: uuid.New(), Status: models.BookingConfirmed}
	repo := &mockBookingRepo{bookings: []models.Booking{booking}}
	bs := NewBookingService(repo, authedStub(), testLogger())
	_, err := bs.MyBookings(context.Background())
	require.NoError(t, err)

	require.NoError(t, bs.CancelBooking(context.Background(), booking.ID))

	assert.Equal(t, 1, repo.statusCalls)
	got, err := bs.GetBooking(context.Background(), booking.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, models.BookingCancelled, got.Status)
}

func TestCancelBookingGatewayFailure(t *testing.T) {
	repo := &mockBookingRepo{statusErr: errors.New("update refused")}
	bs := NewBookingService(repo, authedStub(), testLogger())

	err := bs.CancelBooking(context.Background(), uuid.New())

	var gw *models.GatewayError
	assert.ErrorAs(t, err, &gw)
}

func TestCancelBookingRequiresAuthentication(t *testing.T) {
	repo := &mockBookingRepo{}
	bs := NewBookingService(repo, &stubSession{}, testLogger())

	err := bs.CancelBooking(context.Background(), uuid.New())

	assert.ErrorIs(t, err, models.ErrNotAuthenticated)
	assert.Equal(t, 0, repo.statusCalls)
}
