package testutil

import (
	"crypto/ed25519"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/code-payments/governance-client/pkg/governance/common"
)

// NewRandomAccount returns a fresh signing account.
func NewRandomAccount(t *testing.T) *common.Account {
	account, err := common.NewRandomAccount()
	require.NoError(t, err)
	return account
}

// WriteSolanaKeypairFile generates a keypair and writes it in the Solana CLI
// format (a JSON array of the 64 private key bytes) under t.TempDir.
func WriteSolanaKeypairFile(t *testing.T) (ed25519.PrivateKey, string) {
	_, key, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	values := make([]int, len(key))
	for i, b := range key {
		values[i] = int(b)
	}
	encoded, err := json.Marshal(values)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "keypair.json")
	require.NoError(t, os.WriteFile(path, encoded, 0600))
	return key, path
}

// GenerateSolanaKeys returns n random public keys.
func GenerateSolanaKeys(t *testing.T, n int) []ed25519.PublicKey {
	keys := make([]ed25519.PublicKey, n)
	for i := 0; i < n; i++ {
		p, _, err := ed25519.GenerateKey(nil)
		require.NoError(t, err)
		keys[i] = p
	}
	return keys
}
