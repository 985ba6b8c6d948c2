package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// RateLimiter caps attempts per key over a rolling window measured
// from the first attempt.
type RateLimiter interface {
	// Allow atomically increments the counter for key and reports
	// whether the attempt is within limit. The increment and the
	// window start are one operation against the backing store.
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)

	// Reset clears the counter, used after a successful verification.
	Reset(ctx context.Context, key string) error
}

// CounterStore is the atomic increment-with-expiry primitive the
// limiter runs on.
type CounterStore interface {
	IncrementWithExpiry(ctx context.Context, key string, window time.Duration) (int64, error)
	Delete(ctx context.Context, key string) error
}

type rateLimiter struct {
	store   CounterStore
	enabled bool
	logger  *zap.Logger
}

func NewRateLimiter(store CounterStore, enabled bool, logger *zap.Logger) RateLimiter {
	return &rateLimiter{
		store:   store,
		enabled: enabled,
		logger:  logger.Named("rate_limiter"),
	}
}

func (r *rateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if !r.enabled {
		return true, nil
	}

	count, err := r.store.IncrementWithExpiry(ctx, key, window)
	if err != nil {
		// Counter failures are transient system errors; surface them
		// rather than silently failing open.
		return false, err
	}

	if count > int64(limit) {
		r.logger.Warn("rate limit exceeded",
			zap.String("key", key),
			zap.Int64("count", count),
			zap.Int("limit", limit),
		)
		return false, nil
	}
	return true, nil
}

func (r *rateLimiter) Reset(ctx context.Context, key string) error {
	if !r.enabled {
		return nil
	}
	return r.store.Delete(ctx, key)
}

var _ RateLimiter = (*rateLimiter)(nil)
