package domain

import "errors"

// Sentinel errors for the account domain. The HTTP layer maps each one to a
// deterministic status code; services return them unwrapped or wrapped with
// %w so callers can test with errors.Is.
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrUserExists           = errors.New("user already exists")
	ErrInvalidCredentials   = errors.New("Invalid username/password supplied")
	ErrOldPasswordIncorrect = errors.New("Old password is incorrect")
	ErrAccessDenied         = errors.New("access denied")
	ErrMalformedToken       = errors.New("malformed token")
	ErrTooManyAttempts      = errors.New("too many failed login attempts")
)

// AccessDeniedError carries a caller-facing reason while still matching
// ErrAccessDenied under errors.Is.
type AccessDeniedError struct {
	Reason string
}

func (e *AccessDeniedError) Error() string { return e.Reason }

func (e *AccessDeniedError) Is(target error) bool { return target == ErrAccessDenied }
