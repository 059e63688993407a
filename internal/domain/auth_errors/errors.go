package auth_errors

import (
	"errors"
)

// Kinds of failure a submission handler can end in. Every kind is reported to
// the user the same way: one error notice and a redirect.
var (
	// ErrAuthenticationFailed indicates wrong or unknown credentials.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrValidationFailed indicates malformed input such as a bad email
	// address or empty and mismatched passwords.
	ErrValidationFailed = errors.New("validation failed")

	// ErrConflict indicates a registration for an email address that is
	// already present in the system.
	ErrConflict = errors.New("account already exists")

	// ErrTokenInvalid indicates that a password reset key is missing,
	// expired, already used, or was never valid.
	ErrTokenInvalid = errors.New("invalid or expired password reset token")

	// ErrProvider covers any other failure surfaced by the identity provider.
	ErrProvider = errors.New("identity provider failure")
)

// Error is a classified failure carrying the message shown to the user.
type Error struct {
	Kind    error
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

func newError(kind error, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// Authentication reports rejected credentials.
func Authentication(message string) error {
	return newError(ErrAuthenticationFailed, message, nil)
}

// Validation reports malformed input.
func Validation(message string) error {
	return newError(ErrValidationFailed, message, nil)
}

// Conflict reports an already registered account.
func Conflict(message string) error {
	return newError(ErrConflict, message, nil)
}

// TokenInvalid reports an unusable reset key.
func TokenInvalid(message string) error {
	return newError(ErrTokenInvalid, message, nil)
}

// Provider wraps an unexpected failure of the identity backend.
func Provider(message string, cause error) error {
	return newError(ErrProvider, message, cause)
}

// KindOf classifies err. Unclassified errors are provider failures.
func KindOf(err error) error {
	for _, kind := range []error{ErrAuthenticationFailed, ErrValidationFailed, ErrConflict, ErrTokenInvalid, ErrProvider} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return ErrProvider
}

// Message returns the user-facing text of err, or fallback when err carries
// none.
func Message(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return fallback
}
