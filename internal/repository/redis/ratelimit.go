package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// rateLimitWindow is the fixed counting window
const rateLimitWindow = time.Minute

// Decision is the outcome of one rate limit check
type Decision struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// RateLimiter enforces a per-user fixed-window limit for one scope. Scopes
// count independently, so chat turns have their own budget separate from any
// other limited surface.
type RateLimiter struct {
	client *Client
	scope  string
	limit  int64
}

// NewRateLimiter creates a limiter for a scope. The effective limit per
// window is perMinute plus burst headroom.
func NewRateLimiter(client *Client, scope string, perMinute, burst int) *RateLimiter {
	return &RateLimiter{
		client: client,
		scope:  scope,
		limit:  int64(perMinute + burst),
	}
}

// Allow counts one request for the user and reports whether it fits the
// window. The reset time comes from the key's TTL, so the window tracks the
// user's first request rather than wall-clock minute boundaries.
func (r *RateLimiter) Allow(ctx context.Context, userID uuid.UUID) (Decision, error) {
	key := r.key(userID)

	pipe := r.client.rdb.Pipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, rateLimitWindow)
	ttl := pipe.PTTL(ctx, key)

	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return Decision{}, fmt.Errorf("failed to execute rate limit check: %w", err)
	}

	count := incr.Val()
	remaining := r.limit - count
	if remaining < 0 {
		remaining = 0
	}

	return Decision{
		Allowed:   count <= r.limit,
		Remaining: int(remaining),
		ResetAt:   time.Now().Add(ttl.Val()),
	}, nil
}

// Reset clears the user's counter for this scope
func (r *RateLimiter) Reset(ctx context.Context, userID uuid.UUID) error {
	return r.client.rdb.Del(ctx, r.key(userID)).Err()
}

func (r *RateLimiter) key(userID uuid.UUID) string {
	return fmt.Sprintf("ratelimit:%s:%s", r.scope, userID)
}
