// Package ratelimiter throttles calls to metered external APIs.
package ratelimiter

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Limiter blocks until one more call is allowed.
type Limiter interface {
	Wait(ctx context.Context) error
}

// RateLimiter allows at most limit calls per interval, counted in fixed windows.
type RateLimiter struct {
	mu        sync.Mutex
	limit     int
	interval  time.Duration
	count     int
	lastReset time.Time
	now       func() time.Time
}

// NewRateLimiter creates a RateLimiter whose first window starts now.
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:     limit,
		interval:  interval,
		lastReset: time.Now(),
		now:       time.Now,
	}
}

// reserve counts one call and returns how long the caller must wait before making it.
func (rl *RateLimiter) reserve() time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	// Each elapsed window releases limit calls; calls pushed forward stay counted.
	for now.Sub(rl.lastReset) >= rl.interval {
		rl.lastReset = rl.lastReset.Add(rl.interval)
		rl.count = max(0, rl.count-rl.limit)
	}
	// Calls over the limit are pushed into the next windows.
	window := rl.count / rl.limit
	rl.count++
	if window == 0 {
		return 0
	}
	return rl.lastReset.Add(time.Duration(window) * rl.interval).Sub(now)
}

// Wait blocks until the call fits in a window, or until ctx is done.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	delay := rl.reserve()
	if delay <= 0 {
		return nil
	}
	slog.Debug("rate limit reached", "limit", rl.limit, "interval", rl.interval, "wait", delay)

	t := time.NewTimer(delay)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
