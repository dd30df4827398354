package redis

import (
	"context"
	"fmt"
	"time"
)

// RateLimiter считает запросы по ключу в фиксированных окнах,
// общих для всех экземпляров сервера.
type RateLimiter struct {
	cache  *Cache
	limit  int
	window time.Duration
}

// NewRateLimiter allows limit requests per window per key.
func NewRateLimiter(cache *Cache, limit int, window time.Duration) *RateLimiter {
	if window <= 0 {
		window = TTLRateLimitWindow
	}
	return &RateLimiter{cache: cache, limit: limit, window: window}
}

// Allow records one request for key and reports whether it is within the limit.
func (r *RateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	bucket := time.Now().UnixNano() / int64(r.window)
	k := fmt.Sprintf("%s%s:%d", PrefixRateLimit, key, bucket)

	pipe := r.cache.Client().TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.Expire(ctx, k, r.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("rate limit: %w", err)
	}
	return incr.Val() <= int64(r.limit), nil
}
