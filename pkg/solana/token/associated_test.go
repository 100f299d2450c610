package token

import (
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/governance-client/pkg/solana"
	"github.com/code-payments/governance-client/pkg/solana/system"
)

func TestGetAssociatedAccount(t *testing.T) {
	// Reference derivation from the spl-associated-token-account crate.
	wallet := solana.MustPublicKeyFromBase58("4uQeVj5tqViQh7yWWGStvkEG1Zmhx6uasJtWCJziofM")
	mint := solana.MustPublicKeyFromBase58("8opHzTAnfzRpPEx21XtnrVTX28YQuCpAjcn1PczScKh")

	actual, err := GetAssociatedAccount(wallet, mint)
	require.NoError(t, err)
	assert.Equal(t, "H7MQwEzt97tUJryocn3qaEoy2ymWstwyEk1i9Yv3EmuZ", base58.Encode(actual))
}

func TestGetAssociatedAccount_OffCurveOwner(t *testing.T) {
	keys := generateKeys(t, 2)

	owner, err := solana.FindProgramAddress(keys[0], []byte("Escrow"))
	require.NoError(t, err)
	require.False(t, solana.IsOnCurve(owner))

	addr, err := GetAssociatedAccount(owner, keys[1])
	require.NoError(t, err)
	assert.Len(t, addr, 32)
}

func TestCreateAssociatedTokenAccountIdempotent(t *testing.T) {
	keys := generateKeys(t, 3)
	payer, wallet, mint := keys[0], keys[1], keys[2]

	expectedAddr, err := GetAssociatedAccount(wallet, mint)
	require.NoError(t, err)

	ixn, addr, err := CreateAssociatedTokenAccountIdempotent(payer, wallet, mint)
	require.NoError(t, err)
	assert.EqualValues(t, expectedAddr, addr)
	assert.EqualValues(t, AssociatedTokenAccountProgramKey, ixn.Program)
	assert.Equal(t, []byte{1}, ixn.Data)

	expected := []solana.AccountMeta{
		solana.NewAccountMeta(payer, true),
		solana.NewAccountMeta(addr, false),
		solana.NewReadonlyAccountMeta(wallet, false),
		solana.NewReadonlyAccountMeta(mint, false),
		solana.NewReadonlyAccountMeta(system.ProgramKey[:], false),
		solana.NewReadonlyAccountMeta(ProgramKey, false),
		solana.NewReadonlyAccountMeta(system.RentSysVar, false),
	}
	require.Len(t, ixn.Accounts, len(expected))
	for i, meta := range expected {
		assert.EqualValues(t, meta.PublicKey, ixn.Accounts[i].PublicKey, "account %d", i)
		assert.Equal(t, meta.IsSigner, ixn.Accounts[i].IsSigner, "account %d", i)
		assert.Equal(t, meta.IsWritable, ixn.Accounts[i].IsWritable, "account %d", i)
	}
}
