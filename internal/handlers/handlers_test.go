package handlers

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sceneflix/sceneflix/internal/helpers"
	"github.com/sceneflix/sceneflix/internal/models"
	"github.com/sceneflix/sceneflix/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// injectClaims stands in for the auth middleware.
func injectClaims(claims *helpers.EnhancedClaims) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user", claims)
		c.Next()
	}
}

type stubSession struct {
	session *models.Session
}

func (s *stubSession) Current() (*models.Session, bool) {
	if s.session == nil {
		return nil, false
	}
	return s.session, true
}

type stubBookingRepo struct {
	booking     *models.Booking
	statusCalls int
}

func (r *stubBookingRepo) CreateBooking(ctx context.Context, booking *models.Booking, accessToken string) (*models.Booking, error) {
	return booking, nil
}

func (r *stubBookingRepo) GetBooking(ctx context.Context, id uuid.UUID, accessToken string) (*models.Booking, error) {
	return r.booking, nil
}

func (r *stubBookingRepo) ListUserBookings(ctx context.Context, userID uuid.UUID, accessToken string) ([]models.Booking, error) {
	return nil, nil
}

func (r *stubBookingRepo) UpdateBookingStatus(ctx context.Context, id uuid.UUID, status models.BookingStatus, accessToken string) error {
	r.statusCalls++
	return nil
}

func (r *stubBookingRepo) GetEventTickets(ctx context.Context, eventID uuid.UUID) ([]models.Ticket, error) {
	return nil, nil
}

type stubIdentityRepo struct{}

func (stubIdentityRepo) SignUp(ctx context.Context, email, password, fullName string) (*models.AuthResult, error) {
	return nil, nil
}

func (stubIdentityRepo) SignIn(ctx context.Context, email, password string) (*models.AuthResult, error) {
	return nil, nil
}

func (stubIdentityRepo) RefreshSession(ctx context.Context, refreshToken string) (*models.AuthResult, error) {
	return nil, nil
}

func (stubIdentityRepo) SignOut(ctx context.Context, accessToken string) error { return nil }

func (stubIdentityRepo) RequestPasswordReset(ctx context.Context, email string) error { return nil }

func (stubIdentityRepo) UpdatePassword(ctx context.Context, accessToken, newPassword string) error {
	return nil
}

func (stubIdentityRepo) GetProfile(ctx context.Context, id uuid.UUID, accessToken string) (*models.UserProfile, error) {
	return nil, nil
}

func (stubIdentityRepo) InsertProfile(ctx context.Context, profile *models.UserProfile, accessToken string) error {
	return nil
}

func (stubIdentityRepo) UpdateProfile(ctx context.Context, fields map[string]interface{}, id uuid.UUID, accessToken string) (*models.UserProfile, error) {
	return nil, nil
}

func bookingServiceFor(repo *stubBookingRepo) *services.BookingService {
	session := &stubSession{session: &models.Session{
		User:        models.UserProfile{ID: uuid.New()},
		AccessToken: "token",
	}}
	return services.NewBookingService(repo, session, testLogger())
}

func serve(r *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestProfileAnswersWithRequestClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ss := services.NewSessionService(stubIdentityRepo{}, testLogger())
	claims := &helpers.EnhancedClaims{
		UserID:   uuid.New().String(),
		Email:    "visitor@example.com",
		FullName: "Visitor",
	}

	r := gin.New()
	r.GET("/profile", injectClaims(claims), Profile(ss))
	w := serve(r, http.MethodGet, "/profile")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Visitor")
	// Empty role is reported as guest, never blank.
	assert.Contains(t, w.Body.String(), `"role":"guest"`)
}

func TestProfileWithoutClaimsIsUnauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ss := services.NewSessionService(stubIdentityRepo{}, testLogger())

	r := gin.New()
	r.GET("/profile", Profile(ss))
	w := serve(r, http.MethodGet, "/profile")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetBookingForbiddenForOtherUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	booking := &models.Booking{ID: uuid.New(), UserID: uuid.New()}
	repo := &stubBookingRepo{booking: booking}
	claims := &helpers.EnhancedClaims{UserID: uuid.New().String(), Role: "user"}

	r := gin.New()
	r.GET("/bookings/:id", injectClaims(claims), GetBooking(bookingServiceFor(repo)))
	w := serve(r, http.MethodGet, "/bookings/"+booking.ID.String())

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGetBookingAllowsOwner(t *testing.T) {
	gin.SetMode(gin.TestMode)
	owner := uuid.New()
	booking := &models.Booking{ID: uuid.New(), UserID: owner}
	repo := &stubBookingRepo{booking: booking}
	claims := &helpers.EnhancedClaims{UserID: owner.String(), Role: "user"}

	r := gin.New()
	r.GET("/bookings/:id", injectClaims(claims), GetBooking(bookingServiceFor(repo)))
	w := serve(r, http.MethodGet, "/bookings/"+booking.ID.String())

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetBookingAllowsOrganizer(t *testing.T) {
	gin.SetMode(gin.TestMode)
	booking := &models.Booking{ID: uuid.New(), UserID: uuid.New()}
	repo := &stubBookingRepo{booking: booking}
	claims := &helpers.EnhancedClaims{UserID: uuid.New().String(), Role: "organizer"}

	r := gin.New()
	r.GET("/bookings/:id", injectClaims(claims), GetBooking(bookingServiceFor(repo)))
	w := serve(r, http.MethodGet, "/bookings/"+booking.ID.String())

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCancelBookingForbiddenForOtherUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	booking := &models.Booking{ID: uuid.New(), UserID: uuid.New()}
	repo := &stubBookingRepo{booking: booking}
	claims := &helpers.EnhancedClaims{UserID: uuid.New().String(), Role: "user"}

	r := gin.New()
	r.POST("/bookings/:id/cancel", injectClaims(claims), CancelBooking(bookingServiceFor(repo)))
	w := serve(r, http.MethodPost, "/bookings/"+booking.ID.String()+"/cancel")

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, 0, repo.statusCalls)
}

func TestCancelBookingAllowsOwner(t *testing.T) {
	gin.SetMode(gin.TestMode)
	owner := uuid.New()
	booking := &models.Booking{ID: uuid.New(), UserID: owner}
	repo := &stubBookingRepo{booking: booking}
	claims := &helpers.EnhancedClaims{UserID: owner.String(), Role: "user"}

	r := gin.New()
	r.POST("/bookings/:id/cancel", injectClaims(claims), CancelBooking(bookingServiceFor(repo)))
	w := serve(r, http.MethodPost, "/bookings/"+booking.ID.String()+"/cancel")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, repo.statusCalls)
}
