package ratelimiter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(limit int, interval time.Duration, clock *time.Time) *RateLimiter {
	rl := NewRateLimiter(limit, interval)
	rl.lastReset = *clock
	rl.now = func() time.Time { return *clock }
	return rl
}

func TestRateLimiter_Reserve(t *testing.T) {
	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := newTestLimiter(2, time.Minute, &clock)

	assert.Zero(t, rl.reserve())
	assert.Zero(t, rl.reserve())

	clock = clock.Add(20 * time.Second)
	assert.Equal(t, 40*time.Second, rl.reserve())
	assert.Equal(t, 40*time.Second, rl.reserve())
	assert.Equal(t, 100*time.Second, rl.reserve())

	// The call pushed into the third window still counts there.
	clock = clock.Add(2 * time.Minute)
	assert.Zero(t, rl.reserve())
	assert.Equal(t, 40*time.Second, rl.reserve())
}

func TestRateLimiter_WaitHonoursContext(t *testing.T) {
	rl := NewRateLimiter(1, time.Hour)
	require.NoError(t, rl.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, rl.Wait(ctx), context.DeadlineExceeded)
}
