// Package config exposes typed, dynamically sourced configuration values.
package config

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var (
	// ErrNoValue is returned by a source that has nothing set.
	ErrNoValue = errors.New("config: no value set")

	// ErrShutdown is returned by a source used after Shutdown.
	ErrShutdown = errors.New("config: shutdown")
)

// Config is an untyped configuration source.
type Config interface {
	// Get returns the current raw value, or ErrNoValue.
	Get(ctx context.Context) (interface{}, error)

	// Shutdown releases any resources held by the source.
	Shutdown()
}

// Value is a configuration value of type T. Get never fails and falls back to
// the last good value. GetSafe surfaces source or conversion errors.
type Value[T any] interface {
	Get(ctx context.Context) T
	GetSafe(ctx context.Context) (T, error)
	Shutdown()
}

type (
	Bool     = Value[bool]
	Uint64   = Value[uint64]
	Duration = Value[time.Duration]
)
