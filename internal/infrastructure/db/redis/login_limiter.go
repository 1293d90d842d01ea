package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultMaxAttempts = 10
	DefaultWindow      = 15 * time.Minute
)

// LoginLimiter counts failed logins per email in fixed windows.
// Key format: login_attempts:<email>
type LoginLimiter struct {
	client      redis.Cmdable
	maxAttempts int
	window      time.Duration
}

// NewLoginLimiter returns a limiter allowing maxAttempts failures per window.
// Non-positive values fall back to the defaults.
func NewLoginLimiter(client redis.Cmdable, maxAttempts int, window time.Duration) *LoginLimiter {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &LoginLimiter{client: client, maxAttempts: maxAttempts, window: window}
}

// Allowed reports whether another attempt may be made for key.
func (l *LoginLimiter) Allowed(ctx context.Context, key string) (bool, error) {
	raw, err := l.client.Get(ctx, l.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("login limiter get: %w", err)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return false, fmt.Errorf("login limiter parse %q: %w", raw, err)
	}
	return n < l.maxAttempts, nil
}

// Fail records a failed attempt. The window starts with the first failure.
func (l *LoginLimiter) Fail(ctx context.Context, key string) error {
	k := l.key(key)
	pipe := l.client.TxPipeline()
	pipe.Incr(ctx, k)
	pipe.ExpireNX(ctx, k, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("login limiter incr: %w", err)
	}
	return nil
}

// Reset clears the failure count after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, key string) error {
	if err := l.client.Del(ctx, l.key(key)).Err(); err != nil {
		return fmt.Errorf("login limiter reset: %w", err)
	}
	return nil
}

func (l *LoginLimiter) key(email string) string {
	return "login_attempts:" + email
}
