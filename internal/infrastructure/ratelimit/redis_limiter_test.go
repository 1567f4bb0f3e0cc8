package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisLimiter(t *testing.T, perMinute int) (*RedisLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisLimiter(client, perMinute), mr
}

func TestRedisLimiterWindow(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2024, 5, 1, 12, 0, 20, 0, time.UTC)

	limiter, mr := newTestRedisLimiter(t, 2)
	limiter.now = func() time.Time { return clock }

	for i := 0; i < 2; i++ {
		allowed, _, err := limiter.Allow(ctx, "user:a")
		require.NoError(t, err)
		assert.True(t, allowed)
	}

	allowed, retryAfter, err := limiter.Allow(ctx, "user:a")
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, 40*time.Second, retryAfter)

	key := "ratelimit:user:a:1714564800"
	count, err := mr.Get(key)
	require.NoError(t, err)
	assert.Equal(t, "3", count)
	assert.Equal(t, time.Minute+5*time.Second, mr.TTL(key))

	allowed, _, err = limiter.Allow(ctx, "user:b")
	require.NoError(t, err)
	assert.True(t, allowed, "keys are counted separately")

	clock = clock.Add(45 * time.Second)
	allowed, retryAfter, err = limiter.Allow(ctx, "user:a")
	require.NoError(t, err)
	assert.True(t, allowed, "a new minute starts a new window")
	assert.Zero(t, retryAfter)
}

func TestRedisLimiterUnavailable(t *testing.T) {
	limiter, mr := newTestRedisLimiter(t, 2)
	mr.Close()

	allowed, _, err := limiter.Allow(context.Background(), "user:a")
	assert.Error(t, err)
	assert.False(t, allowed)
}
