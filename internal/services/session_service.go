package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/sceneflix/sceneflix/internal/models"
)

type SessionState int

const (
	// SessionUnknown holds until the first restore attempt resolves.
	SessionUnknown SessionState = iota
	SessionAnonymous
	SessionAuthenticated
)

func (s SessionState) String() string {
	switch s {
	case SessionAnonymous:
		return "anonymous"
	case SessionAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// SessionListener receives the new session on every transition. A nil session
// means the machine moved to Anonymous.
type SessionListener func(session *models.Session)

// Subscription is a cancelable registration; after Unsubscribe the listener
// is never invoked again.
type Subscription struct {
	svc *SessionService
	id  int
}

func (s *Subscription) Unsubscribe() {
	s.svc.lmu.Lock()
	defer s.svc.lmu.Unlock()
	for i, l := range s.svc.listeners {
		if l.id == s.id {
			s.svc.listeners = append(s.svc.listeners[:i], s.svc.listeners[i+1:]...)
			return
		}
	}
}

type listener struct {
	id int
	fn SessionListener
}

// SessionService is the process-wide auth state machine. It is the single
// writer of the session; everything else reads through Current/State.
type SessionService struct {
	repo   models.IdentityRepo
	logger *slog.Logger

	mu      sync.RWMutex
	state   SessionState
	session *models.Session
	loading bool

	lmu       sync.Mutex
	listeners []listener
	nextID    int
}

func NewSessionService(repo models.IdentityRepo, logger *slog.Logger) *SessionService {
	return &SessionService{
		repo:    repo,
		logger:  logger,
		state:   SessionUnknown,
		loading: true,
	}
}

func (ss *SessionService) State() SessionState {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return ss.state
}

// Loading reports whether the initial restore is still unresolved. It flips
// to false exactly once, on the first transition out of SessionUnknown.
func (ss *SessionService) Loading() bool {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return ss.loading
}

// Current returns the active session, if any.
func (ss *SessionService) Current() (*models.Session, bool) {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	if ss.state != SessionAuthenticated || ss.session == nil {
		return nil, false
	}
	return ss.session, true
}

// Subscribe registers a listener notified synchronously on every transition
// into Authenticated or Anonymous. Listeners must not call Subscribe or
// Unsubscribe from inside the callback.
func (ss *SessionService) Subscribe(fn SessionListener) *Subscription {
	ss.lmu.Lock()
	defer ss.lmu.Unlock()
	ss.nextID++
	ss.listeners = append(ss.listeners, listener{id: ss.nextID, fn: fn})
	return &Subscription{svc: ss, id: ss.nextID}
}

func (ss *SessionService) transition(state SessionState, session *models.Session) {
	ss.mu.Lock()
	ss.state = state
	ss.session = session
	ss.loading = false
	ss.mu.Unlock()

	// Holding lmu during the callbacks guarantees nothing fires after
	// Unsubscribe returns.
	ss.lmu.Lock()
	defer ss.lmu.Unlock()
	for _, l := range ss.listeners {
		l.fn(session)
	}
}

// buildSession assembles a Session from an identity result plus the profile
// row. A gateway error aborts; a missing profile row falls back to the
// identity's id and email.
func (ss *SessionService) buildSession(ctx context.Context, res *models.AuthResult) (*models.Session, error) {
	profile, err := ss.repo.GetProfile(ctx, res.UserID, res.AccessToken)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		profile = &models.UserProfile{ID: res.UserID, Email: res.Email}
	}
	return &models.Session{
		User:         *profile,
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		ExpiresIn:    res.ExpiresIn,
	}, nil
}

// Restore resolves the initial state from a previously persisted refresh
// token. It never returns an error: any failure resolves to Anonymous so the
// rest of the app is not blocked.
func (ss *SessionService) Restore(ctx context.Context, refreshToken string) {
	if refreshToken == "" {
		ss.transition(SessionAnonymous, nil)
		return
	}

	res, err := ss.repo.RefreshSession(ctx, refreshToken)
	if err != nil {
		ss.logger.Warn("session restore failed", "error", err)
		ss.transition(SessionAnonymous, nil)
		return
	}

	session, err := ss.buildSession(ctx, res)
	if err != nil {
		ss.logger.Warn("session restore failed fetching profile", "error", err)
		ss.transition(SessionAnonymous, nil)
		return
	}

	ss.logger.Info("session restored", "user_id", session.User.ID)
	ss.transition(SessionAuthenticated, session)
}

// Login authenticates with email and password. On failure the machine stays
// in its prior state; the session is set only after both the credential check
// and the profile fetch succeed.
func (ss *SessionService) Login(ctx context.Context, email, password string) (*models.Session, error) {
	if err := models.Validate.Var(email, "required,email"); err != nil {
		return nil, &models.ValidationError{Field: "email", Reason: "a valid email address is required"}
	}
	if err := models.Validate.Var(password, "required"); err != nil {
		return nil, &models.ValidationError{Field: "password", Reason: "password must not be empty"}
	}

	res, err := ss.repo.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}

	session, err := ss.buildSession(ctx, res)
	if err != nil {
		return nil, err
	}

	ss.transition(SessionAuthenticated, session)
	return session, nil
}

// SignupOutcome distinguishes an immediately usable identity from one that
// still needs external confirmation.
type SignupOutcome struct {
	Session           *models.Session
	NeedsConfirmation bool
}

func (ss *SessionService) Signup(ctx context.Context, email, password, confirmPassword, fullName string) (*SignupOutcome, error) {
	if err := models.Validate.Var(fullName, "required"); err != nil {
		return nil, &models.ValidationError{Field: "full_name", Reason: "full name is required"}
	}
	if err := models.Validate.Var(email, "required,email"); err != nil {
		return nil, &models.ValidationError{Field: "email", Reason: "a valid email address is required"}
	}
	if err := models.Validate.Var(password, "required,min=6"); err != nil {
		return nil, &models.ValidationError{Field: "password", Reason: "password must be at least 6 characters"}
	}
	if password != confirmPassword {
		return nil, &models.ValidationError{Field: "confirm_password", Reason: "passwords do not match"}
	}

	res, err := ss.repo.SignUp(ctx, email, password, fullName)
	if err != nil {
		return nil, err
	}

	profile := &models.UserProfile{
		ID:       res.UserID,
		Email:    res.Email,
		FullName: fullName,
		Role:     models.RoleUser,
	}
	if err := ss.repo.InsertProfile(ctx, profile, res.AccessToken); err != nil {
		// buildSession falls back to id + email when the row is missing,
		// so a failed insert is not fatal.
		ss.logger.Warn("profile insert failed after signup", "user_id", res.UserID, "error", err)
	}

	if res.NeedsConfirmation {
		return &SignupOutcome{NeedsConfirmation: true}, nil
	}

	session, err := ss.buildSession(ctx, res)
	if err != nil {
		return nil, err
	}
	ss.transition(SessionAuthenticated, session)
	return &SignupOutcome{Session: session}, nil
}

// Logout invalidates the remote session and unconditionally transitions to
// Anonymous; a failed remote call never leaves a stale local identity.
func (ss *SessionService) Logout(ctx context.Context) {
	ss.mu.RLock()
	session := ss.session
	ss.mu.RUnlock()

	if session != nil && session.AccessToken != "" {
		if err := ss.repo.SignOut(ctx, session.AccessToken); err != nil {
			ss.logger.Warn("remote sign-out failed, clearing local session anyway", "error", err)
		}
	}
	ss.transition(SessionAnonymous, nil)
}

// UpdateProfile applies a partial update, then re-fetches and replaces the
// in-memory profile wholesale so it never diverges from the source of truth.
func (ss *SessionService) UpdateProfile(ctx context.Context, fields map[string]interface{}) (*models.UserProfile, error) {
	session, ok := ss.Current()
	if !ok {
		return nil, models.ErrNotAuthenticated
	}
	if len(fields) == 0 {
		return nil, &models.ValidationError{Field: "fields", Reason: "no fields to update"}
	}

	fields["updated_at"] = time.Now()
	if _, err := ss.repo.UpdateProfile(ctx, fields, session.User.ID, session.AccessToken); err != nil {
		return nil, err
	}

	fresh, err := ss.repo.GetProfile(ctx, session.User.ID, session.AccessToken)
	if err != nil {
		return nil, err
	}
	if fresh == nil {
		fresh = &models.UserProfile{ID: session.User.ID, Email: session.User.Email}
	}

	updated := *session
	updated.User = *fresh
	ss.transition(SessionAuthenticated, &updated)
	return fresh, nil
}

func (ss *SessionService) RequestPasswordReset(ctx context.Context, email string) error {
	if err := models.Validate.Var(email, "required,email"); err != nil {
		return &models.ValidationError{Field: "email", Reason: "a valid email address is required"}
	}
	return ss.repo.RequestPasswordReset(ctx, email)
}

func (ss *SessionService) UpdatePassword(ctx context.Context, newPassword string) error {
	session, ok := ss.Current()
	if !ok {
		return models.ErrNotAuthenticated
	}
	if err := models.Validate.Var(newPassword, "required,min=6"); err != nil {
		return &models.ValidationError{Field: "password", Reason: "password must be at least 6 characters"}
	}
	return ss.repo.UpdatePassword(ctx, session.AccessToken, newPassword)
}
