package retry

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/code-payments/governance-client/pkg/retry/backoff"
)

func TestLimit(t *testing.T) {
	s := Limit(2)
	assert.True(t, s(1, errors.New("x")))
	assert.False(t, s(2, errors.New("x")))
}

func TestRetriableErrors(t *testing.T) {
	errRateLimited := errors.New("rate limited")
	errUnavailable := errors.New("unavailable")

	s := RetriableErrors(errRateLimited, errUnavailable)
	assert.True(t, s(1, errRateLimited))
	assert.True(t, s(1, errors.Wrap(errUnavailable, "getAccountInfo")))
	assert.False(t, s(1, errors.New("invalid params")))
}

func TestContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	s := Context(ctx)
	assert.True(t, s(1, errors.New("x")))

	cancel()
	assert.False(t, s(2, errors.New("x")))

	var calls int
	attempts, err := Retry(
		func() error {
			calls++
			return errors.New("x")
		},
		Context(ctx),
	)
	assert.Error(t, err)
	assert.EqualValues(t, 1, attempts)
	assert.Equal(t, 1, calls)
}

func TestBackoff_Capped(t *testing.T) {
	sl := withRecordingSleeper(t)

	s := Backoff(backoff.BinaryExponential(time.Second), 3*time.Second)
	for attempt := uint(1); attempt <= 4; attempt++ {
		assert.True(t, s(attempt, errors.New("x")))
	}
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 3 * time.Second, 3 * time.Second}, sl.slept)
}

func TestBackoffWithJitter(t *testing.T) {
	sl := withRecordingSleeper(t)

	s := BackoffWithJitter(backoff.Constant(time.Second), 10*time.Second, 0.1)
	for attempt := uint(1); attempt <= 50; attempt++ {
		assert.True(t, s(attempt, errors.New("x")))
	}

	for _, d := range sl.slept {
		assert.GreaterOrEqual(t, d, 900*time.Millisecond)
		assert.LessOrEqual(t, d, 1100*time.Millisecond)
	}

	sl.slept = nil
	s = BackoffWithJitter(backoff.Constant(time.Minute), 2*time.Second, 0.5)
	s(1, errors.New("x"))
	assert.GreaterOrEqual(t, sl.slept[0], time.Second)
	assert.LessOrEqual(t, sl.slept[0], 3*time.Second)
}
