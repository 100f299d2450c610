package retry

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/code-payments/governance-client/pkg/retry/backoff"
)

type recordingSleeper struct {
	slept []time.Duration
}

func (s *recordingSleeper) Sleep(d time.Duration) {
	s.slept = append(s.slept, d)
}

func withRecordingSleeper(t *testing.T) *recordingSleeper {
	s := &recordingSleeper{}
	previous := sleeperImpl
	sleeperImpl = s
	t.Cleanup(func() { sleeperImpl = previous })
	return s
}

func TestRetry_SucceedsEventually(t *testing.T) {
	s := withRecordingSleeper(t)

	var calls int
	attempts, err := Retry(
		func() error {
			calls++
			if calls < 3 {
				return errors.New("not yet")
			}
			return nil
		},
		Limit(5),
		Backoff(backoff.Constant(time.Millisecond), time.Second),
	)
	assert.NoError(t, err)
	assert.EqualValues(t, 3, attempts)
	assert.Equal(t, []time.Duration{time.Millisecond, time.Millisecond}, s.slept)
}

func TestRetry_ReturnsLastError(t *testing.T) {
	withRecordingSleeper(t)

	var calls int
	attempts, err := Retry(
		func() error {
			calls++
			return errors.Errorf("attempt %d", calls)
		},
		Limit(3),
	)
	assert.EqualError(t, err, "attempt 3")
	assert.EqualValues(t, 3, attempts)
}

func TestRetrier(t *testing.T) {
	withRecordingSleeper(t)

	errTransient := errors.New("transient")
	r := NewRetrier(RetriableErrors(errTransient), Limit(4))

	attempts, err := r.Retry(func() error { return nil })
	assert.NoError(t, err)
	assert.EqualValues(t, 1, attempts)

	attempts, err = r.Retry(func() error { return errors.New("fatal") })
	assert.EqualError(t, err, "fatal")
	assert.EqualValues(t, 1, attempts)

	attempts, err = r.Retry(func() error { return errors.Wrap(errTransient, "rpc") })
	assert.True(t, errors.Is(err, errTransient))
	assert.EqualValues(t, 4, attempts)
}

func TestTimeSleeper(t *testing.T) {
	start := time.Now()
	_, err := Retry(
		func() error { return errors.New("fail") },
		Limit(2),
		Backoff(backoff.Constant(100*time.Millisecond), time.Second),
	)
	assert.Error(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond)
}
