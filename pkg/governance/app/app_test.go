package app

import (
	"crypto/ed25519"
	"os"
	"path/filepath"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/governance-client/pkg/solana"
	"github.com/code-payments/governance-client/pkg/solana/lockedvoter"
	"github.com/code-payments/governance-client/pkg/testutil"
)

var configEnvNames = []string{
	"LOG_LEVEL",
	"APP_NAME",
	"RPC_ENDPOINT",
	"RPC_REQUESTS_PER_SECOND",
	"SMART_WALLET_PROGRAM",
	"GOVERNOR_PROGRAM",
	"LOCKED_VOTER_PROGRAM",
	"PAYER_KEYPAIR_PATH",
	"NEW_RELIC_LICENSE_KEY",
}

// clearEnv unsets every config variable for the duration of the test, so a
// dotenv file is free to set them.
func clearEnv(t *testing.T) {
	for _, name := range configEnvNames {
		name := name
		if value, ok := os.LookupEnv(name); ok {
			require.NoError(t, os.Unsetenv(name))
			t.Cleanup(func() { os.Setenv(name, value) })
		} else {
			t.Cleanup(func() { os.Unsetenv(name) })
		}
	}
}

func writeFile(t *testing.T, name, contents string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	missing := filepath.Join(t.TempDir(), "missing")
	config, err := LoadConfig(missing+".env", missing+".yaml")
	require.NoError(t, err)

	assert.Equal(t, defaultConfig, config)
	assert.Equal(t, "info", config.LogLevel)
	assert.Equal(t, "governance-scenario", config.AppName)
	assert.Equal(t, string(solana.EnvironmentDev), config.RPCEndpoint)
	assert.Equal(t, "8tAhS8CX7if6tQWAqUSK1kebGbU1WCH3jBwafq2bifMw", config.LockedVoterProgram)
	assert.Equal(t, "EAY5qg4uiooRaTGGZNNTGiSuQPubjsaWuV6m2KkjiskU", config.GovernorProgram)
	assert.Empty(t, config.PayerKeypairPath)
	assert.Zero(t, config.RPCRequestsPerSecond)
}

func TestLoadConfig_Sources(t *testing.T) {
	clearEnv(t)

	configPath := writeFile(t, "config.yaml", `
log_level: debug
rpc_endpoint: http://127.0.0.1:8899
rpc_requests_per_second: 5
governor_program: 11111111111111111111111111111111
`)
	envPath := writeFile(t, ".env", `
APP_NAME=from-dotenv
RPC_ENDPOINT=http://localhost:8899
`)

	// Variables already in the environment win over the dotenv file
	t.Setenv("LOG_LEVEL", "warn")

	config, err := LoadConfig(envPath, configPath)
	require.NoError(t, err)

	assert.Equal(t, "warn", config.LogLevel)
	assert.Equal(t, "from-dotenv", config.AppName)
	assert.Equal(t, "http://localhost:8899", config.RPCEndpoint)
	assert.EqualValues(t, 5, config.RPCRequestsPerSecond)
	assert.Equal(t, "11111111111111111111111111111111", config.GovernorProgram)
	assert.Equal(t, defaultConfig.LockedVoterProgram, config.LockedVoterProgram)
}

func TestLoadConfig_Invalid(t *testing.T) {
	clearEnv(t)

	for _, tc := range []struct {
		name     string
		contents string
	}{
		{name: "malformed", contents: "rpc_endpoint: [unterminated"},
		{name: "negative rate", contents: "rpc_requests_per_second: -1"},
		{name: "empty endpoint", contents: `rpc_endpoint: ""`},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadConfig("", writeFile(t, "config.yaml", tc.contents))
			assert.Error(t, err)
		})
	}
}

func TestNewMetricsProvider_Disabled(t *testing.T) {
	app, err := NewMetricsProvider(defaultConfig)
	require.NoError(t, err)
	assert.Nil(t, app)
}

func TestNewSession(t *testing.T) {
	key, path := testutil.WriteSolanaKeypairFile(t)

	lockedVoter := testutil.NewRandomAccount(t)

	config := defaultConfig
	config.PayerKeypairPath = path
	config.LockedVoterProgram = lockedVoter.PublicKey().ToBase58()
	config.RPCRequestsPerSecond = 10

	session, err := NewSession(config)
	require.NoError(t, err)

	assert.EqualValues(t, key.Public().(ed25519.PublicKey), session.Payer.ToBytes())
	assert.EqualValues(t, lockedVoter.ToBytes(), session.LockedVoter.ID)
	assert.EqualValues(t, base58.Encode(session.Governor.ID), defaultConfig.GovernorProgram)
	assert.NotEqual(t, lockedvoter.PROGRAM_ID, session.LockedVoter.ID)
}

func TestNewSession_GeneratedPayer(t *testing.T) {
	first, err := NewSession(defaultConfig)
	require.NoError(t, err)
	second, err := NewSession(defaultConfig)
	require.NoError(t, err)

	assert.True(t, first.Payer.CanSign())
	assert.NotEqual(t, first.Payer.ToBytes(), second.Payer.ToBytes())
}

func TestNewSession_Invalid(t *testing.T) {
	config := defaultConfig
	config.SmartWalletProgram = "not-base58!"
	_, err := NewSession(config)
	assert.Error(t, err)

	config = defaultConfig
	config.PayerKeypairPath = filepath.Join(t.TempDir(), "missing.json")
	_, err = NewSession(config)
	assert.Error(t, err)

	config = defaultConfig
	config.PayerKeypairPath = writeFile(t, "payer.json", `{"secret": "nope"}`)
	_, err = NewSession(config)
	assert.Error(t, err)
}
