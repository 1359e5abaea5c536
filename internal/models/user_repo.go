package models

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/supabase-community/gotrue-go/types"
)

// IdentityRepo covers the identity provider plus the user_profiles table it
// feeds. The session state machine is its only consumer.
type IdentityRepo interface {
	SignUp(ctx context.Context, email, password, fullName string) (*AuthResult, error)
	SignIn(ctx context.Context, email, password string) (*AuthResult, error)
	RefreshSession(ctx context.Context, refreshToken string) (*AuthResult, error)
	SignOut(ctx context.Context, accessToken string) error
	RequestPasswordReset(ctx context.Context, email string) error
	UpdatePassword(ctx context.Context, accessToken, newPassword string) error
	GetProfile(ctx context.Context, id uuid.UUID, accessToken string) (*UserProfile, error)
	InsertProfile(ctx context.Context, profile *UserProfile, accessToken string) error
	UpdateProfile(ctx context.Context, fields map[string]interface{}, id uuid.UUID, accessToken string) (*UserProfile, error)
}

// classifyAuthError maps gotrue's stringly-typed failures onto the error
// taxonomy so the caller can distinguish "not confirmed" from bad credentials.
func classifyAuthError(err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "Invalid login credentials"):
		return &AuthenticationError{Reason: AuthReasonInvalidCredentials, Err: err}
	case strings.Contains(msg, "Email not confirmed"):
		return &AuthenticationError{Reason: AuthReasonEmailNotConfirmed, Err: err}
	case strings.Contains(msg, "already registered"), strings.Contains(msg, "already Registered"):
		return &AuthenticationError{Reason: AuthReasonEmailInUse, Err: err}
	default:
		return &AuthenticationError{Reason: AuthReasonUnknown, Err: err}
	}
}

func (su *SupabaseRepo) SignUp(ctx context.Context, email, password, fullName string) (*AuthResult, error) {
	res, err := su.supabaseClient.Auth.Signup(types.SignupRequest{
		Email:    email,
		Password: password,
		Data: map[string]interface{}{
			"full_name": fullName,
		},
	})
	if err != nil {
		return nil, classifyAuthError(err)
	}

	out := &AuthResult{
		UserID: res.ID,
		Email:  res.Email,
	}
	if res.AccessToken == "" {
		// Autoconfirm is off: the identity exists but can't sign in until
		// the email is verified.
		out.NeedsConfirmation = true
		return out, nil
	}
	out.AccessToken = res.AccessToken
	out.RefreshToken = res.RefreshToken
	out.ExpiresIn = res.ExpiresIn
	return out, nil
}

func (su *SupabaseRepo) SignIn(ctx context.Context, email, password string) (*AuthResult, error) {
	res, err := su.supabaseClient.Auth.SignInWithEmailPassword(email, password)
	if err != nil {
		return nil, classifyAuthError(err)
	}
	return &AuthResult{
		UserID:       res.User.ID,
		Email:        res.User.Email,
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		ExpiresIn:    res.ExpiresIn,
	}, nil
}

func (su *SupabaseRepo) RefreshSession(ctx context.Context, refreshToken string) (*AuthResult, error) {
	res, err := su.supabaseClient.Auth.RefreshToken(refreshToken)
	if err != nil {
		return nil, &GatewayError{Op: "session refresh", Err: err}
	}
	return &AuthResult{
		UserID:       res.User.ID,
		Email:        res.User.Email,
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		ExpiresIn:    res.ExpiresIn,
	}, nil
}

func (su *SupabaseRepo) SignOut(ctx context.Context, accessToken string) error {
	if err := su.supabaseClient.Auth.WithToken(accessToken).Logout(); err != nil {
		return &GatewayError{Op: "sign out", Err: err}
	}
	return nil
}

func (su *SupabaseRepo) RequestPasswordReset(ctx context.Context, email string) error {
	if err := su.supabaseClient.Auth.Recover(types.RecoverRequest{Email: email}); err != nil {
		return &GatewayError{Op: "password reset", Err: err}
	}
	return nil
}

func (su *SupabaseRepo) UpdatePassword(ctx context.Context, accessToken, newPassword string) error {
	_, err := su.supabaseClient.Auth.WithToken(accessToken).UpdateUser(types.UpdateUserRequest{
		Password: &newPassword,
	})
	if err != nil {
		return &GatewayError{Op: "password update", Err: err}
	}
	return nil
}

// GetProfile returns the user_profiles row for id, or nil when none exists.
func (su *SupabaseRepo) GetProfile(ctx context.Context, id uuid.UUID, accessToken string) (*UserProfile, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("invalid UUID")
	}

	client, err := su.clientFor(accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create authenticated client: %v", err)
	}

	raw, _, err := client.From(ProfilesTable).
		Select("id,email,full_name,phone,avatar_url,role,created_at,updated_at", "", false).
		Eq("id", id.String()).
		Execute()
	if err != nil {
		return nil, &GatewayError{Op: "profile fetch", Err: err}
	}

	// Supabase returns an array even for single results
	var profiles []UserProfile
	if err := json.Unmarshal(raw, &profiles); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile rows: %v", err)
	}
	if len(profiles) == 0 {
		return nil, nil
	}
	return &profiles[0], nil
}

func (su *SupabaseRepo) InsertProfile(ctx context.Context, profile *UserProfile, accessToken string) error {
	client, err := su.clientFor(accessToken)
	if err != nil {
		return fmt.Errorf("failed to create authenticated client: %v", err)
	}

	row := map[string]interface{}{
		"id":        profile.ID,
		"email":     profile.Email,
		"full_name": profile.FullName,
		"role":      profile.Role,
	}
	if _, _, err := client.From(ProfilesTable).Insert(row, false, "", "", "exact").Execute(); err != nil {
		return &GatewayError{Op: "profile insert", Err: err}
	}
	return nil
}

func (su *SupabaseRepo) UpdateProfile(ctx context.Context, fields map[string]interface{}, id uuid.UUID, accessToken string) (*UserProfile, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("invalid UUID")
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}

	client, err := su.clientFor(accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create authenticated client: %v", err)
	}

	raw, count, err := client.From(ProfilesTable).
		Update(fields, "", "exact").
		Eq("id", id.String()).
		Execute()
	if err != nil {
		return nil, &GatewayError{Op: "profile update", Err: err}
	}
	if count == 0 {
		return nil, fmt.Errorf("no profile found to update")
	}

	var updated []UserProfile
	if err := json.Unmarshal(raw, &updated); err != nil {
		return nil, fmt.Errorf("failed to unmarshal updated profile: %v", err)
	}
	if len(updated) == 0 {
		return nil, fmt.Errorf("no profile data returned after update")
	}
	return &updated[0], nil
}
