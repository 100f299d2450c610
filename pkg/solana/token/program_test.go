package token

import (
	"crypto/ed25519"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/governance-client/pkg/solana/system"
)

func TestInitializeMint(t *testing.T) {
	keys := generateKeys(t, 3)

	ixn := InitializeMint(keys[0], keys[1], nil, 6)
	assert.EqualValues(t, ProgramKey, ixn.Program)

	require.Len(t, ixn.Data, 35)
	assert.EqualValues(t, CommandInitializeMint, ixn.Data[0])
	assert.EqualValues(t, 6, ixn.Data[1])
	assert.EqualValues(t, keys[1], ixn.Data[2:34])
	assert.Zero(t, ixn.Data[34])

	require.Len(t, ixn.Accounts, 2)
	assert.EqualValues(t, keys[0], ixn.Accounts[0].PublicKey)
	assert.True(t, ixn.Accounts[0].IsWritable)
	assert.Empty(t, ixn.Signers())
	assert.EqualValues(t, system.RentSysVar, ixn.Accounts[1].PublicKey)

	ixn = InitializeMint(keys[0], keys[1], keys[2], 9)
	require.Len(t, ixn.Data, 67)
	assert.EqualValues(t, 1, ixn.Data[34])
	assert.EqualValues(t, keys[2], ixn.Data[35:])
}

func TestMintTo(t *testing.T) {
	keys := generateKeys(t, 3)

	ixn := MintTo(keys[0], keys[1], keys[2], 10_000_000_000)

	require.Len(t, ixn.Data, 9)
	assert.EqualValues(t, 7, ixn.Data[0])
	assert.EqualValues(t, 10_000_000_000, binary.LittleEndian.Uint64(ixn.Data[1:]))

	require.Len(t, ixn.Accounts, 3)
	assert.True(t, ixn.Accounts[0].IsWritable)
	assert.True(t, ixn.Accounts[1].IsWritable)
	assert.False(t, ixn.Accounts[2].IsWritable)
	assert.Equal(t, []ed25519.PublicKey{keys[2]}, ixn.Signers())
}

func generateKeys(t *testing.T, amount int) []ed25519.PublicKey {
	keys := make([]ed25519.PublicKey, amount)
	for i := range keys {
		pub, _, err := ed25519.GenerateKey(nil)
		require.NoError(t, err)
		keys[i] = pub
	}
	return keys
}
