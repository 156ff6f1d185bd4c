package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/micellaneous/accounts-api/internal/core/domain"
)

const (
	defaultMaxAttempts = 10
	defaultWindow      = 15 * time.Minute
)

// LoginLimiter throttles repeated failed logins per username, backed by a
// Redis counter with a sliding expiry.
// Key format: login_attempts:<username>
type LoginLimiter struct {
	client      *redis.Client
	maxAttempts int
	window      time.Duration
}

// NewLoginLimiter creates a LoginLimiter wrapping the given Redis client.
// Non-positive maxAttempts or window select the defaults.
func NewLoginLimiter(client *redis.Client, maxAttempts int, window time.Duration) *LoginLimiter {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	if window <= 0 {
		window = defaultWindow
	}
	return &LoginLimiter{client: client, maxAttempts: maxAttempts, window: window}
}

// Allow returns domain.ErrTooManyAttempts when the username has reached the
// failure limit inside the current window.
func (l *LoginLimiter) Allow(ctx context.Context, username string) error {
	n, err := l.client.Get(ctx, l.key(username)).Int()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return fmt.Errorf("login limiter check: %w", err)
	}
	if n >= l.maxAttempts {
		return domain.ErrTooManyAttempts
	}
	return nil
}

// RecordFailure bumps the failure counter and refreshes the window expiry.
func (l *LoginLimiter) RecordFailure(ctx context.Context, username string) error {
	key := l.key(username)
	pipe := l.client.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("login limiter record: %w", err)
	}
	return nil
}

// Reset clears the failure counter after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, username string) error {
	if err := l.client.Del(ctx, l.key(username)).Err(); err != nil {
		return fmt.Errorf("login limiter reset: %w", err)
	}
	return nil
}

func (l *LoginLimiter) key(username string) string {
	return "login_attempts:" + username
}
