package ratelimit_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jeffleon2/draftea-settlement-service/internal/ratelimit"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimiter(t *testing.T, max int) (*ratelimit.Limiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return ratelimit.NewLimiter(client, "redeem", max, time.Minute), mr
}

func TestAllow_WithinLimit(t *testing.T) {
	limiter, _ := newLimiter(t, 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := limiter.Allow(ctx, "recipient-1")
		require.NoError(t, err)
		assert.True(t, ok)
	}

	ok, err := limiter.Allow(ctx, "recipient-1")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = limiter.Allow(ctx, "recipient-2")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAllow_WindowResets(t *testing.T) {
	limiter, mr := newLimiter(t, 1)
	ctx := context.Background()

	ok, err := limiter.Allow(ctx, "recipient-1")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = limiter.Allow(ctx, "recipient-1")
	require.NoError(t, err)
	require.False(t, ok)

	mr.FastForward(2 * time.Minute)

	ok, err = limiter.Allow(ctx, "recipient-1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAllow_DisabledWhenMaxIsZero(t *testing.T) {
	limiter, _ := newLimiter(t, 0)

	ok, err := limiter.Allow(context.Background(), "anyone")

	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAllow_SetsMissingWindow(t *testing.T) {
	limiter, mr := newLimiter(t, 1)
	ctx := context.Background()
	require.NoError(t, mr.Set("redeem:recipient-1", "5"))

	ok, err := limiter.Allow(ctx, "recipient-1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, time.Minute, mr.TTL("redeem:recipient-1"))

	mr.FastForward(2 * time.Minute)

	ok, err = limiter.Allow(ctx, "recipient-1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAllow_KeepsWindowOnLaterAttempts(t *testing.T) {
	limiter, mr := newLimiter(t, 5)
	ctx := context.Background()

	_, err := limiter.Allow(ctx, "recipient-1")
	require.NoError(t, err)
	mr.FastForward(40 * time.Second)

	_, err = limiter.Allow(ctx, "recipient-1")
	require.NoError(t, err)
	assert.Equal(t, 20*time.Second, mr.TTL("redeem:recipient-1"))
}
