// ABOUTME: Error taxonomy shared by the storefront core
// ABOUTME: Classifies failures so views can pick a notice and a recovery path

package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a storefront failure
type Kind int

const (
	// SessionInvalid means the token is missing, malformed, or expired
	SessionInvalid Kind = iota + 1
	// Unauthorized means the session is valid but its role is insufficient
	Unauthorized
	// SelectionConflict means a slot of a different duration type was picked
	SelectionConflict
	// LeadTimeViolation means a same-day cancellation inside the lead-time window
	LeadTimeViolation
	// NetworkFailure means the booking service could not be reached
	NetworkFailure
	// ServiceError means the booking service rejected the request
	ServiceError
	// DecodeFailure means a session token could not be decoded
	DecodeFailure
)

// String returns the name of the kind
func (k Kind) String() string {
	switch k {
	case SessionInvalid:
		return "session_invalid"
	case Unauthorized:
		return "unauthorized"
	case SelectionConflict:
		return "selection_conflict"
	case LeadTimeViolation:
		return "lead_time_violation"
	case NetworkFailure:
		return "network_failure"
	case ServiceError:
		return "service_error"
	case DecodeFailure:
		return "decode_failure"
	default:
		return "unknown"
	}
}

// Error is a classified failure with a user-facing message
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

// New creates a classified error
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap classifies an underlying error
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil && e.Msg != "" {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error of the same kind, so errors.Is(err, apperr.New(kind, "")) works
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind of the first classified error in err's chain, or 0
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// Message returns the user-facing message of a classified error, falling back to err.Error()
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Msg != "" {
		return e.Msg
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// IsSessionError reports whether err should send the user back to log in.
// Decode failures are handled exactly like invalid sessions.
func IsSessionError(err error) bool {
	k := KindOf(err)
	return k == SessionInvalid || k == DecodeFailure
}

// Retryable reports whether the same action may succeed if tried again
func Retryable(err error) bool {
	k := KindOf(err)
	return k == NetworkFailure || k == ServiceError
}
