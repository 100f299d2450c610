package rate

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestNoLimiter(t *testing.T) {
	var l Limiter = NoLimiter{}

	for i := 0; i < 1000; i++ {
		allowed, err := l.Allow("rpc")
		require.NoError(t, err)
		require.True(t, allowed)
	}
	assert.NoError(t, l.Wait(context.Background(), "rpc"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, l.Wait(ctx, "rpc"), context.Canceled)
}

func TestLocalLimiter_Allow(t *testing.T) {
	for _, tc := range []struct {
		limit   rate.Limit
		allowed int
	}{
		{limit: 2, allowed: 2},
		{limit: 5, allowed: 5},
		{limit: 0.5, allowed: 1},
	} {
		l := NewLocalRateLimiter(tc.limit)

		// Keys draw from independent buckets.
		for _, key := range []string{"a", "b"} {
			for i := 0; i < tc.allowed; i++ {
				allowed, err := l.Allow(key)
				require.NoError(t, err)
				assert.True(t, allowed, "limit=%v key=%s attempt=%d", tc.limit, key, i)
			}

			allowed, err := l.Allow(key)
			require.NoError(t, err)
			assert.False(t, allowed, "limit=%v key=%s", tc.limit, key)
		}
	}
}

func TestLocalLimiter_Wait(t *testing.T) {
	l := NewLocalRateLimiter(10)

	for i := 0; i < 10; i++ {
		require.NoError(t, l.Wait(context.Background(), "rpc"))
	}

	// The bucket is drained, so the next token is ~100ms away.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.Error(t, l.Wait(ctx, "rpc"))

	assert.NoError(t, l.Wait(context.Background(), "rpc"))
}

func TestLocalLimiter_ConcurrentKeys(t *testing.T) {
	l := NewLocalRateLimiter(1)

	var wg sync.WaitGroup
	allowed := make([]bool, 16)
	for i := range allowed {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			allowed[i], _ = l.Allow("shared")
		}(i)
	}
	wg.Wait()

	var count int
	for _, ok := range allowed {
		if ok {
			count++
		}
	}
	assert.Equal(t, 1, count)
}
