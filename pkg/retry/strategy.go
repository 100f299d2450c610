package retry

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/code-payments/governance-client/pkg/retry/backoff"
)

// Strategy decides whether another attempt should follow a failed one.
// attempts counts the attempts made so far, starting at 1.
type Strategy func(attempts uint, err error) bool

// Limit stops after maxAttempts attempts.
func Limit(maxAttempts uint) Strategy {
	return func(attempts uint, _ error) bool {
		return attempts < maxAttempts
	}
}

// RetriableErrors only allows another attempt when err matches one of the
// provided errors, including through wrapping.
func RetriableErrors(retriable ...error) Strategy {
	return func(_ uint, err error) bool {
		for _, target := range retriable {
			if errors.Is(err, target) {
				return true
			}
		}
		return false
	}
}

// Context stops once ctx is done. Place it ahead of any backoff.
func Context(ctx context.Context) Strategy {
	return func(uint, error) bool {
		return ctx.Err() == nil
	}
}

// Backoff sleeps for the delay given by strategy, capped at maxDelay, and
// always allows another attempt.
func Backoff(strategy backoff.Strategy, maxDelay time.Duration) Strategy {
	return func(attempts uint, _ error) bool {
		sleeperImpl.Sleep(capped(strategy(attempts), maxDelay))
		return true
	}
}

// BackoffWithJitter behaves like Backoff but moves the capped delay by up to
// jitter (a fraction of the delay) in either direction.
func BackoffWithJitter(strategy backoff.Strategy, maxDelay time.Duration, jitter float64) Strategy {
	return func(attempts uint, _ error) bool {
		delay := capped(strategy(attempts), maxDelay)
		offset := (rand.Float64()*2 - 1) * jitter
		sleeperImpl.Sleep(time.Duration(float64(delay) * (1 + offset)))
		return true
	}
}

func capped(delay, maxDelay time.Duration) time.Duration {
	if delay > maxDelay {
		return maxDelay
	}
	return delay
}

type sleeper interface {
	Sleep(time.Duration)
}

type timeSleeper struct{}

func (timeSleeper) Sleep(d time.Duration) { time.Sleep(d) }

var sleeperImpl sleeper = timeSleeper{}
