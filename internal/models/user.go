package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser      = "user"
	RoleOrganizer = "organizer"
)

// UserProfile is the user_profiles row keyed by the identity provider's id.
type UserProfile struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	Role      string    `json:"role,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// Session is the process-wide authenticated identity. At most one exists at a
// time; only the session service mutates it.
type Session struct {
	User         UserProfile `json:"user"`
	AccessToken  string      `json:"-"`
	RefreshToken string      `json:"-"`
	ExpiresIn    int         `json:"-"`
}

// AuthResult is the normalized outcome of an identity-provider call
// (signup, password sign-in, or token refresh).
type AuthResult struct {
	UserID       uuid.UUID
	Email        string
	AccessToken  string
	RefreshToken string
	ExpiresIn    int
	// NeedsConfirmation is set when the identity was created but requires
	// external confirmation (email verification) before it can sign in.
	NeedsConfirmation bool
}
