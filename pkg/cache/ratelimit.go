package cache

import (
	"context"
	"fmt"
	"time"

	"support-directory/pkg/apperr"

	"github.com/redis/go-redis/v9"
)

const rateLimitPrefix = "ratelimit:"

// RateLimiter is a fixed-window counter kept in redis. Each key may be hit
// limit times per window.
type RateLimiter struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
}

func NewRateLimiter(rdb *redis.Client, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{rdb: rdb, limit: limit, window: window}
}

// Allow records one hit for key. Past the limit it returns the time left in
// the window and a CodeRateLimited error.
func (l *RateLimiter) Allow(ctx context.Context, key string) (time.Duration, error) {
	if l.limit <= 0 {
		return 0, nil
	}

	k := rateLimitPrefix + key
	var (
		hits *redis.IntCmd
		ttl  *redis.DurationCmd
	)
	_, err := l.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		hits = pipe.Incr(ctx, k)
		pipe.ExpireNX(ctx, k, l.window)
		ttl = pipe.TTL(ctx, k)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("rate limit %s: %w", key, err)
	}

	if hits.Val() > int64(l.limit) {
		retry := ttl.Val()
		if retry <= 0 {
			retry = l.window
		}
		return retry, apperr.New(apperr.CodeRateLimited, "Too many attempts, try again later")
	}
	return 0, nil
}
