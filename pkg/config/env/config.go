// Package env sources config values from the process environment.
package env

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/code-payments/governance-client/pkg/config"
	"github.com/code-payments/governance-client/pkg/config/wrapper"
)

type source struct {
	raw string
}

// NewConfig snapshots the environment variable key (upper-cased) at
// construction time. An empty variable is treated as unset.
func NewConfig(key string) config.Config {
	return &source{raw: os.Getenv(strings.ToUpper(key))}
}

func (s *source) Get(_ context.Context) (interface{}, error) {
	if s.raw == "" {
		return nil, config.ErrNoValue
	}
	return []byte(s.raw), nil
}

func (s *source) Shutdown() {}

func NewBoolConfig(key string, defaultValue bool) config.Bool {
	return wrapper.NewBoolConfig(NewConfig(key), defaultValue)
}

func NewUint64Config(key string, defaultValue uint64) config.Uint64 {
	return wrapper.NewUint64Config(NewConfig(key), defaultValue)
}

func NewDurationConfig(key string, defaultValue time.Duration) config.Duration {
	return wrapper.NewDurationConfig(NewConfig(key), defaultValue)
}
