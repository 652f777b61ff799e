package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultMaxAttempts = 5
	defaultWindow      = 15 * time.Minute
)

// LoginGuard throttles failed login attempts per username, backed by Redis.
// Key format: login_attempts:<username_lower>. The counter expires after the
// window, so a lockout clears itself without intervention.
type LoginGuard struct {
	client      *redis.Client
	maxAttempts int
	window      time.Duration
}

// NewLoginGuard creates a LoginGuard wrapping the given Redis client.
// Non-positive maxAttempts or window fall back to the defaults.
func NewLoginGuard(client *redis.Client, maxAttempts int, window time.Duration) *LoginGuard {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	if window <= 0 {
		window = defaultWindow
	}
	return &LoginGuard{client: client, maxAttempts: maxAttempts, window: window}
}

// Blocked reports whether the username has exhausted its attempt budget.
func (g *LoginGuard) Blocked(ctx context.Context, username string) (bool, error) {
	n, err := g.client.Get(ctx, g.key(username)).Int()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("login guard check: %w", err)
	}
	return n >= g.maxAttempts, nil
}

// Failed records one failed attempt and refreshes the expiry window.
func (g *LoginGuard) Failed(ctx context.Context, username string) error {
	key := g.key(username)
	pipe := g.client.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, g.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("login guard record: %w", err)
	}
	return nil
}

// Reset clears the counter after a successful login.
func (g *LoginGuard) Reset(ctx context.Context, username string) error {
	return g.client.Del(ctx, g.key(username)).Err()
}

func (g *LoginGuard) key(username string) string {
	return "login_attempts:" + strings.ToLower(username)
}
