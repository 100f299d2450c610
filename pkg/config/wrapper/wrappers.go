// Package wrapper converts untyped config sources into typed values with a
// default.
package wrapper

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/code-payments/governance-client/pkg/config"
)

// ErrUnsupportedConversion is returned when the source yields a type the
// wrapper cannot convert.
var ErrUnsupportedConversion = errors.New("config: unsupported source value type")

type convertFunc[T any] func(raw interface{}) (T, error)

type typed[T any] struct {
	source       config.Config
	defaultValue T
	convert      convertFunc[T]

	mu   sync.RWMutex
	last T
}

func newTyped[T any](source config.Config, defaultValue T, convert convertFunc[T]) *typed[T] {
	return &typed[T]{
		source:       source,
		defaultValue: defaultValue,
		convert:      convert,
		last:         defaultValue,
	}
}

// GetSafe returns the source value, the default when the source has none, or
// the last good value alongside the error that prevented a refresh.
func (c *typed[T]) GetSafe(ctx context.Context) (T, error) {
	raw, err := c.source.Get(ctx)
	if errors.Is(err, config.ErrNoValue) {
		c.store(c.defaultValue)
		return c.defaultValue, nil
	}
	if err != nil {
		return c.load(), err
	}

	value, err := c.convert(raw)
	if err != nil {
		return c.load(), err
	}

	c.store(value)
	return value, nil
}

func (c *typed[T]) Get(ctx context.Context) T {
	value, _ := c.GetSafe(ctx)
	return value
}

func (c *typed[T]) Shutdown() {
	c.source.Shutdown()
}

func (c *typed[T]) load() T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.last
}

func (c *typed[T]) store(value T) {
	c.mu.Lock()
	c.last = value
	c.mu.Unlock()
}

// NewBoolConfig accepts bool values or raw bytes parsed by strconv.ParseBool.
func NewBoolConfig(source config.Config, defaultValue bool) config.Bool {
	return newTyped(source, defaultValue, func(raw interface{}) (bool, error) {
		switch v := raw.(type) {
		case bool:
			return v, nil
		case []byte:
			return strconv.ParseBool(string(v))
		}
		return false, ErrUnsupportedConversion
	})
}

// NewUint64Config accepts uint64 or uint values, or base 10 raw bytes.
func NewUint64Config(source config.Config, defaultValue uint64) config.Uint64 {
	return newTyped(source, defaultValue, func(raw interface{}) (uint64, error) {
		switch v := raw.(type) {
		case uint64:
			return v, nil
		case uint:
			return uint64(v), nil
		case []byte:
			return strconv.ParseUint(string(v), 10, 64)
		}
		return 0, ErrUnsupportedConversion
	})
}

// NewDurationConfig accepts time.Duration values or raw bytes in
// time.ParseDuration format.
func NewDurationConfig(source config.Config, defaultValue time.Duration) config.Duration {
	return newTyped(source, defaultValue, func(raw interface{}) (time.Duration, error) {
		switch v := raw.(type) {
		case time.Duration:
			return v, nil
		case []byte:
			return time.ParseDuration(string(v))
		}
		return 0, ErrUnsupportedConversion
	})
}
