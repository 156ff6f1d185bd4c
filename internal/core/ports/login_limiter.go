package ports

import "context"

// LoginLimiter throttles repeated failed logins per username.
type LoginLimiter interface {
	// Allow returns domain.ErrTooManyAttempts when the username is currently
	// blocked. Infrastructure failures are reported as-is; callers decide
	// whether to fail open.
	Allow(ctx context.Context, username string) error

	RecordFailure(ctx context.Context, username string) error

	// Reset clears the failure counter after a successful login.
	Reset(ctx context.Context, username string) error
}
