package models

import (
	"errors"
	"fmt"
)

// ErrNotAuthenticated gates operations that require an active session.
var ErrNotAuthenticated = errors.New("not authenticated")

// ValidationError reports input rejected before any network call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

type AuthReason string

const (
	AuthReasonInvalidCredentials AuthReason = "invalid_credentials"
	AuthReasonEmailNotConfirmed  AuthReason = "email_not_confirmed"
	AuthReasonEmailInUse         AuthReason = "email_in_use"
	AuthReasonUnknown            AuthReason = "unknown"
)

// AuthenticationError is a credential or identity failure reported by the
// identity provider, classified into a stable reason.
type AuthenticationError struct {
	Reason AuthReason
	Err    error
}

func (e *AuthenticationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("authentication failed (%s): %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("authentication failed (%s)", e.Reason)
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// GatewayError wraps a failed remote data gateway call with the operation
// that issued it.
type GatewayError struct {
	Op  string
	Err error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway error during %s: %v", e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error { return e.Err }

// TicketUnavailableError means the selected ticket type has no offering for
// the event, so no price exists to book against.
type TicketUnavailableError struct {
	EventID    string
	TicketType string
}

func (e *TicketUnavailableError) Error() string {
	return fmt.Sprintf("no %q ticket offering for event %s", e.TicketType, e.EventID)
}
