package scenario

import (
	"time"

	"github.com/code-payments/governance-client/pkg/config"
	"github.com/code-payments/governance-client/pkg/config/env"
	"github.com/code-payments/governance-client/pkg/config/memory"
	"github.com/code-payments/governance-client/pkg/config/wrapper"
)

const (
	envConfigPrefix = "GOVERNANCE_SCENARIO_"

	// AirdropLamportsConfigEnvName is the amount requested for the payer
	// before the run. Zero disables the airdrop, which only local ledgers
	// and devnet serve.
	AirdropLamportsConfigEnvName = envConfigPrefix + "AIRDROP_LAMPORTS"
	defaultAirdropLamports       = 0

	// CutoffOffsetConfigEnvName is how long after the escrow's lockup
	// started the redeemer's cutoff date is placed.
	CutoffOffsetConfigEnvName = envConfigPrefix + "CUTOFF_OFFSET"
	defaultCutoffOffset       = time.Second

	ClockTimeoutConfigEnvName = envConfigPrefix + "CLOCK_TIMEOUT"
	defaultClockTimeout       = 30 * time.Second

	ClockPollIntervalConfigEnvName = envConfigPrefix + "CLOCK_POLL_INTERVAL"
	defaultClockPollInterval       = 500 * time.Millisecond

	// MemoEnabledConfigEnvName tags every transaction with the run id and
	// step through the memo program.
	MemoEnabledConfigEnvName = envConfigPrefix + "MEMO_ENABLED"
	defaultMemoEnabled       = true
)

type conf struct {
	airdropLamports   config.Uint64
	cutoffOffset      config.Duration
	clockTimeout      config.Duration
	clockPollInterval config.Duration
	memoEnabled       config.Bool
}

// ConfigProvider defines how config values are pulled
type ConfigProvider func() *conf

// WithEnvConfigs returns configuration pulled from environment variables
func WithEnvConfigs() ConfigProvider {
	return func() *conf {
		return &conf{
			airdropLamports:   env.NewUint64Config(AirdropLamportsConfigEnvName, defaultAirdropLamports),
			cutoffOffset:      env.NewDurationConfig(CutoffOffsetConfigEnvName, defaultCutoffOffset),
			clockTimeout:      env.NewDurationConfig(ClockTimeoutConfigEnvName, defaultClockTimeout),
			clockPollInterval: env.NewDurationConfig(ClockPollIntervalConfigEnvName, defaultClockPollInterval),
			memoEnabled:       env.NewBoolConfig(MemoEnabledConfigEnvName, defaultMemoEnabled),
		}
	}
}

type testOverrides struct {
	airdropLamports   uint64
	cutoffOffset      time.Duration
	clockTimeout      time.Duration
	clockPollInterval time.Duration
	disableMemo       bool
}

func withManualTestOverrides(overrides *testOverrides) ConfigProvider {
	return func() *conf {
		return &conf{
			airdropLamports:   wrapper.NewUint64Config(memory.NewConfig(overrides.airdropLamports), defaultAirdropLamports),
			cutoffOffset:      wrapper.NewDurationConfig(memory.NewConfig(overrides.cutoffOffset), defaultCutoffOffset),
			clockTimeout:      wrapper.NewDurationConfig(memory.NewConfig(overrides.clockTimeout), defaultClockTimeout),
			clockPollInterval: wrapper.NewDurationConfig(memory.NewConfig(overrides.clockPollInterval), defaultClockPollInterval),
			memoEnabled:       wrapper.NewBoolConfig(memory.NewConfig(!overrides.disableMemo), defaultMemoEnabled),
		}
	}
}
