// Package memory provides a mutable in-process config source for tests and
// programmatic overrides.
package memory

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/code-payments/governance-client/pkg/config"
)

// ErrInduced is returned by Get while errors are being induced.
var ErrInduced = errors.New("memory config: induced error")

// Config holds a single value. A nil value reads as ErrNoValue.
type Config struct {
	mu       sync.RWMutex
	value    interface{}
	induced  bool
	shutdown bool
}

func NewConfig(value interface{}) *Config {
	return &Config{value: value}
}

func (c *Config) Get(_ context.Context) (interface{}, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch {
	case c.shutdown:
		return nil, config.ErrShutdown
	case c.induced:
		return nil, ErrInduced
	case c.value == nil:
		return nil, config.ErrNoValue
	}
	return c.value, nil
}

func (c *Config) Shutdown() {
	c.mu.Lock()
	c.shutdown = true
	c.mu.Unlock()
}

// SetValue replaces the held value. Passing nil clears it.
func (c *Config) SetValue(value interface{}) {
	c.mu.Lock()
	c.value = value
	c.mu.Unlock()
}

// InduceErrors toggles whether Get fails with ErrInduced.
func (c *Config) InduceErrors(enabled bool) {
	c.mu.Lock()
	c.induced = enabled
	c.mu.Unlock()
}
