package app

import (
	"github.com/mr-tron/base58"
	"github.com/spf13/viper"

	"github.com/code-payments/governance-client/pkg/solana"
	"github.com/code-payments/governance-client/pkg/solana/governor"
	"github.com/code-payments/governance-client/pkg/solana/lockedvoter"
	"github.com/code-payments/governance-client/pkg/solana/smartwallet"
)

// BaseConfig contains the configuration for the scenario harness.
type BaseConfig struct {
	LogLevel string `mapstructure:"log_level"`

	AppName string `mapstructure:"app_name"`

	RPCEndpoint string `mapstructure:"rpc_endpoint"`

	// RPCRequestsPerSecond throttles the RPC client. Zero disables
	// throttling.
	RPCRequestsPerSecond float64 `mapstructure:"rpc_requests_per_second"`

	SmartWalletProgram string `mapstructure:"smart_wallet_program"`
	GovernorProgram    string `mapstructure:"governor_program"`
	LockedVoterProgram string `mapstructure:"locked_voter_program"`

	// PayerKeypairPath is a JSON keypair file, as written by solana-keygen.
	// When empty, a fresh payer is generated, which only works against
	// ledgers that serve airdrops.
	PayerKeypairPath string `mapstructure:"payer_keypair_path"`

	// Metrics configuration across many providers
	NewRelicLicenseKey string `mapstructure:"new_relic_license_key"`
}

var defaultConfig = BaseConfig{
	LogLevel: "info",

	AppName: "governance-scenario",

	RPCEndpoint: string(solana.EnvironmentDev),

	SmartWalletProgram: base58.Encode(smartwallet.PROGRAM_ID),
	GovernorProgram:    base58.Encode(governor.PROGRAM_ID),
	LockedVoterProgram: base58.Encode(lockedvoter.PROGRAM_ID),
}

func bindEnv(v *viper.Viper) {
	_ = v.BindEnv("log_level", "LOG_LEVEL")

	_ = v.BindEnv("app_name", "APP_NAME")

	_ = v.BindEnv("rpc_endpoint", "RPC_ENDPOINT")
	_ = v.BindEnv("rpc_requests_per_second", "RPC_REQUESTS_PER_SECOND")

	_ = v.BindEnv("smart_wallet_program", "SMART_WALLET_PROGRAM")
	_ = v.BindEnv("governor_program", "GOVERNOR_PROGRAM")
	_ = v.BindEnv("locked_voter_program", "LOCKED_VOTER_PROGRAM")

	_ = v.BindEnv("payer_keypair_path", "PAYER_KEYPAIR_PATH")

	_ = v.BindEnv("new_relic_license_key", "NEW_RELIC_LICENSE_KEY")
}
