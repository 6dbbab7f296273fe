// Package ratelimit caps attempts per key in fixed windows backed by Redis.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Limiter struct {
	client *redis.Client
	prefix string
	max    int64
	window time.Duration
}

func NewLimiter(client *redis.Client, prefix string, max int, window time.Duration) *Limiter {
	return &Limiter{client: client, prefix: prefix, max: int64(max), window: window}
}

// Allow counts one attempt for key and reports whether it is within the
// limit. The window starts with the first attempt. The counter and its expiry
// are written in one MULTI block and the expiry is set on any key still
// missing one, so a counter never outlives its window.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	if l.max <= 0 {
		return true, nil
	}
	k := l.prefix + ":" + key

	var incr *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, k)
		pipe.ExpireNX(ctx, k, l.window)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("rate limit %s: %w", k, err)
	}
	return incr.Val() <= l.max, nil
}
