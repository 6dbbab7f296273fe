package gateway_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jeffleon2/draftea-settlement-service/internal/gateway"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch_FirstAttempt(t *testing.T) {
	calls := 0
	src := gateway.SourceFunc(func(ctx context.Context, id string) (map[string]string, error) {
		calls++
		return map[string]string{"buyer_id": "buyer-1"}, nil
	})

	md, err := gateway.NewFetcher(src, time.Second, time.Millisecond).Fetch(context.Background(), "pi_1")

	require.NoError(t, err)
	assert.Equal(t, "buyer-1", md["buyer_id"])
	assert.Equal(t, 1, calls)
}

func TestFetch_RetriesOnce(t *testing.T) {
	calls := 0
	src := gateway.SourceFunc(func(ctx context.Context, id string) (map[string]string, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("connection reset")
		}
		return map[string]string{"buyer_id": "buyer-1"}, nil
	})

	md, err := gateway.NewFetcher(src, time.Second, time.Millisecond).Fetch(context.Background(), "pi_1")

	require.NoError(t, err)
	assert.Equal(t, "buyer-1", md["buyer_id"])
	assert.Equal(t, 2, calls)
}

func TestFetch_GivesUpAfterSecondFailure(t *testing.T) {
	calls := 0
	src := gateway.SourceFunc(func(ctx context.Context, id string) (map[string]string, error) {
		calls++
		return nil, errors.New("503")
	})

	_, err := gateway.NewFetcher(src, time.Second, time.Millisecond).Fetch(context.Background(), "pi_1")

	assert.ErrorIs(t, err, gateway.ErrUnavailable)
	assert.Equal(t, 2, calls)
}

func TestFetch_EachCallIsBounded(t *testing.T) {
	src := gateway.SourceFunc(func(ctx context.Context, id string) (map[string]string, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})

	start := time.Now()
	_, err := gateway.NewFetcher(src, 20*time.Millisecond, time.Millisecond).Fetch(context.Background(), "pi_1")

	assert.ErrorIs(t, err, gateway.ErrUnavailable)
	assert.Less(t, time.Since(start), time.Second)
}

func TestFetch_NoReference(t *testing.T) {
	src := gateway.SourceFunc(func(ctx context.Context, id string) (map[string]string, error) {
		t.Fatal("source must not be called")
		return nil, nil
	})

	_, err := gateway.NewFetcher(src, time.Second, 0).Fetch(context.Background(), "")

	assert.ErrorIs(t, err, gateway.ErrNoReference)
}
