// Package backoff computes the delay between retry attempts.
package backoff

import (
	"math"
	"time"
)

// Strategy maps an attempt number, starting at 1, to a delay.
type Strategy func(attempts uint) time.Duration

// Constant waits the same interval after every attempt.
func Constant(interval time.Duration) Strategy {
	return func(uint) time.Duration {
		return interval
	}
}

// BinaryExponential doubles the delay after every attempt, starting from
// base. Delays that overflow saturate at the maximum duration.
func BinaryExponential(base time.Duration) Strategy {
	return func(attempts uint) time.Duration {
		if attempts == 0 {
			return base
		}

		scaled := float64(base) * math.Pow(2, float64(attempts-1))
		if scaled >= math.MaxInt64 {
			return math.MaxInt64
		}
		return time.Duration(scaled)
	}
}
