// Package rate throttles outgoing RPC traffic.
package rate

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

// Limiter throttles operations per key.
type Limiter interface {
	// Allow reports whether an operation for key may happen now.
	Allow(key string) (bool, error)

	// Wait blocks until an operation for key may happen, or ctx is done.
	Wait(ctx context.Context, key string) error
}

// LocalLimiter keeps one token bucket per key in memory. The burst equals the
// per second rate, with a floor of one.
type LocalLimiter struct {
	limit rate.Limit
	burst int

	buckets sync.Map
}

// NewLocalRateLimiter returns an in memory limiter.
func NewLocalRateLimiter(limit rate.Limit) *LocalLimiter {
	burst := int(limit)
	if burst < 1 {
		burst = 1
	}
	return &LocalLimiter{limit: limit, burst: burst}
}

func (l *LocalLimiter) Allow(key string) (bool, error) {
	return l.bucket(key).Allow(), nil
}

func (l *LocalLimiter) Wait(ctx context.Context, key string) error {
	return errors.Wrapf(l.bucket(key).Wait(ctx), "rate limit wait for %s", key)
}

func (l *LocalLimiter) bucket(key string) *rate.Limiter {
	if existing, ok := l.buckets.Load(key); ok {
		return existing.(*rate.Limiter)
	}
	actual, _ := l.buckets.LoadOrStore(key, rate.NewLimiter(l.limit, l.burst))
	return actual.(*rate.Limiter)
}

// NoLimiter never limits operations.
type NoLimiter struct{}

func (NoLimiter) Allow(string) (bool, error) {
	return true, nil
}

// Wait only fails once ctx is done.
func (NoLimiter) Wait(ctx context.Context, _ string) error {
	return ctx.Err()
}
