package transaction

import (
	"time"

	"github.com/code-payments/governance-client/pkg/config"
	"github.com/code-payments/governance-client/pkg/config/env"
	"github.com/code-payments/governance-client/pkg/config/memory"
	"github.com/code-payments/governance-client/pkg/config/wrapper"
	"github.com/code-payments/governance-client/pkg/solana"
)

const (
	envConfigPrefix = "GOVERNANCE_TRANSACTION_"

	ConfirmTimeoutConfigEnvName = envConfigPrefix + "CONFIRM_TIMEOUT"
	defaultConfirmTimeout       = 60 * time.Second

	PollIntervalConfigEnvName = envConfigPrefix + "POLL_INTERVAL"
	defaultPollInterval       = solana.PollRate
)

type conf struct {
	confirmTimeout config.Duration
	pollInterval   config.Duration
}

// ConfigProvider defines how config values are pulled
type ConfigProvider func() *conf

// WithEnvConfigs returns configuration pulled from environment variables
func WithEnvConfigs() ConfigProvider {
	return func() *conf {
		return &conf{
			confirmTimeout: env.NewDurationConfig(ConfirmTimeoutConfigEnvName, defaultConfirmTimeout),
			pollInterval:   env.NewDurationConfig(PollIntervalConfigEnvName, defaultPollInterval),
		}
	}
}

type testOverrides struct {
	confirmTimeout time.Duration
	pollInterval   time.Duration
}

func withManualTestOverrides(overrides *testOverrides) ConfigProvider {
	return func() *conf {
		return &conf{
			confirmTimeout: wrapper.NewDurationConfig(memory.NewConfig(overrides.confirmTimeout), defaultConfirmTimeout),
			pollInterval:   wrapper.NewDurationConfig(memory.NewConfig(overrides.pollInterval), defaultPollInterval),
		}
	}
}
