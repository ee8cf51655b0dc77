package domain

import "errors"

var (
	ErrAuthenticationMissing  = errors.New("authentication missing")
	ErrAuthenticationInvalid  = errors.New("authentication invalid")
	ErrValidation             = errors.New("validation error")
	ErrNotFound               = errors.New("not found")
	ErrConflict               = errors.New("conflict")
	ErrRelayTargetUnavailable = errors.New("relay target unavailable")
)

// Reason returns a machine-readable reason for the error kinds above.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrAuthenticationMissing):
		return "authentication_missing"
	case errors.Is(err, ErrAuthenticationInvalid):
		return "authentication_invalid"
	case errors.Is(err, ErrValidation):
		return "validation_error"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrRelayTargetUnavailable):
		return "relay_target_unavailable"
	default:
		return "internal_error"
	}
}
