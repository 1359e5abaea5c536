package services

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/sceneflix/sceneflix/internal/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testEvent(title string) models.Event {
	return models.Event{ID: uuid.New(), Title: title}
}

// mockIdentityRepo records call counts so tests can assert that validation
// failures never reach the gateway.
type mockIdentityRepo struct {
	signUpCalls  int
	signInCalls  int
	refreshCalls int
	signOutCalls int
	profileCalls int
	insertCalls  int
	updateCalls  int

	signUpResult  *models.AuthResult
	signUpErr     error
	signInResult  *models.AuthResult
	signInErr     error
	refreshResult *models.AuthResult
	refreshErr    error
	signOutErr    error
	profile       *models.UserProfile
	profileErr    error
	insertErr     error
	updated       *models.UserProfile
	updateErr     error
}

func (m *mockIdentityRepo) SignUp(ctx context.Context, email, password, fullName string) (*models.AuthResult, error) {
	m.signUpCalls++
	return m.signUpResult, m.signUpErr
}

func (m *mockIdentityRepo) SignIn(ctx context.Context, email, password string) (*models.AuthResult, error) {
	m.signInCalls++
	return m.signInResult, m.signInErr
}

func (m *mockIdentityRepo) RefreshSession(ctx context.Context, refreshToken string) (*models.AuthResult, error) {
	m.refreshCalls++
	return m.refreshResult, m.refreshErr
}

func (m *mockIdentityRepo) SignOut(ctx context.Context, accessToken string) error {
	m.signOutCalls++
	return m.signOutErr
}

func (m *mockIdentityRepo) RequestPasswordReset(ctx context.Context, email string) error {
	return nil
}

func (m *mockIdentityRepo) UpdatePassword(ctx context.Context, accessToken, newPassword string) error {
	return nil
}

func (m *mockIdentityRepo) GetProfile(ctx context.Context, id uuid.UUID, accessToken string) (*models.UserProfile, error) {
	m.profileCalls++
	return m.profile, m.profileErr
}

func (m *mockIdentityRepo) InsertProfile(ctx context.Context, profile *models.UserProfile, accessToken string) error {
	m.insertCalls++
	return m.insertErr
}

func (m *mockIdentityRepo) UpdateProfile(ctx context.Context, fields map[string]interface{}, id uuid.UUID, accessToken string) (*models.UserProfile, error) {
	m.updateCalls++
	return m.updated, m.updateErr
}

type mockCatalogRepo struct {
	trending    []models.Event
	trendingErr error
	byCategory  map[string][]models.Event
	categoryErr error
	event       *models.Event
	eventErr    error
	results     []models.Event
	searchErr   error
}

func (m *mockCatalogRepo) GetTrending(ctx context.Context, limit int) ([]models.Event, error) {
	return m.trending, m.trendingErr
}

func (m *mockCatalogRepo) GetByCategory(ctx context.Context, slug string, limit int) ([]models.Event, error) {
	return m.byCategory[slug], m.categoryErr
}

func (m *mockCatalogRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	return m.event, m.eventErr
}

func (m *mockCatalogRepo) Search(ctx context.Context, query string, limit int) ([]models.Event, error) {
	return m.results, m.searchErr
}

type mockBookingRepo struct {
	createCalls int
	getCalls    int
	listCalls   int
	statusCalls int

	createErr  error
	tickets    []models.Ticket
	ticketsErr error
	bookings   []models.Booking
	listErr    error
	booking    *models.Booking
	getErr     error
	statusErr  error
}

func (m *mockBookingRepo) CreateBooking(ctx context.Context, booking *models.Booking, accessToken string) (*models.Booking, error) {
	m.createCalls++
	if m.createErr != nil {
		return nil, m.createErr
	}
	created := *booking
	created.ID = uuid.New()
	return &created, nil
}

func (m *mockBookingRepo) GetBooking(ctx context.Context, id uuid.UUID, accessToken string) (*models.Booking, error) {
	m.getCalls++
	return m.booking, m.getErr
}

func (m *mockBookingRepo) ListUserBookings(ctx context.Context, userID uuid.UUID, accessToken string) ([]models.Booking, error) {
	m.listCalls++
	return m.bookings, m.listErr
}

func (m *mockBookingRepo) UpdateBookingStatus(ctx context.Context, id uuid.UUID, status models.BookingStatus, accessToken string) error {
	m.statusCalls++
	return m.statusErr
}

func (m *mockBookingRepo) GetEventTickets(ctx context.Context, eventID uuid.UUID) ([]models.Ticket, error) {
	return m.tickets, m.ticketsErr
}

// stubSession is a fixed session source for gating tests.
type stubSession struct {
	session *models.Session
}

func (s *stubSession) Current() (*models.Session, bool) {
	if s.session == nil {
		return nil, false
	}
	return s.session, true
}

func authedStub() *stubSession {
	return &stubSession{session: &models.Session{
		User:        models.UserProfile{ID: uuid.New(), Email: "visitor@example.com"},
		AccessToken: "token",
	}}
}

// memMedium is an in-memory watchlist medium with injectable failures.
type memMedium struct {
	data     map[string][]byte
	getErr   error
	putErr   error
	putCalls int
}

func newMemMedium() *memMedium {
	return &memMedium{data: make(map[string][]byte)}
}

func (m *memMedium) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.data[key], nil
}

func (m *memMedium) Put(ctx context.Context, key string, value []byte) error {
	m.putCalls++
	if m.putErr != nil {
		return m.putErr
	}
	m.data[key] = value
	return nil
}
