package tokens

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ybbus/jsonrpc"

	"github.com/code-payments/governance-client/pkg/governance/common"
	"github.com/code-payments/governance-client/pkg/solana"
	"github.com/code-payments/governance-client/pkg/solana/system"
	"github.com/code-payments/governance-client/pkg/solana/token"
	"github.com/code-payments/governance-client/pkg/testutil"
)

type testEnv struct {
	server      *testutil.RPCServer
	provisioner *Provisioner
	payer       *common.Account
	mint        *common.Account
}

func setup(t *testing.T) testEnv {
	server := testutil.NewRPCServer(t)
	payer := testutil.NewRandomAccount(t)

	return testEnv{
		server:      server,
		provisioner: NewProvisioner(server.Client(), payer),
		payer:       payer,
		mint:        testutil.NewRandomAccount(t),
	}
}

func TestGetOrCreate_Missing(t *testing.T) {
	env := setup(t)
	owner := testutil.NewRandomAccount(t)

	ata, ixn, err := env.provisioner.GetOrCreate(context.Background(), env.mint, owner, false)
	require.NoError(t, err)
	require.NotNil(t, ixn)

	expected, err := token.GetAssociatedAccount(owner.ToBytes(), env.mint.ToBytes())
	require.NoError(t, err)
	assert.EqualValues(t, expected, ata.ToBytes())

	assert.EqualValues(t, token.AssociatedTokenAccountProgramKey, ixn.Program)
	assert.EqualValues(t, env.payer.ToBytes(), ixn.Accounts[0].PublicKey)
	assert.EqualValues(t, expected, ixn.Accounts[1].PublicKey)
	assert.EqualValues(t, owner.ToBytes(), ixn.Accounts[2].PublicKey)
	assert.EqualValues(t, env.mint.ToBytes(), ixn.Accounts[3].PublicKey)
}

func TestGetOrCreate_Existing(t *testing.T) {
	env := setup(t)
	owner := testutil.NewRandomAccount(t)

	ata, err := env.provisioner.Address(env.mint, owner)
	require.NoError(t, err)

	account := token.Account{
		Mint:   env.mint.ToBytes(),
		Owner:  owner.ToBytes(),
		Amount: 10,
		State:  token.AccountStateInitialized,
	}
	env.server.SetAccount(ata.ToBytes(), token.ProgramKey, account.Marshal())

	actual, ixn, err := env.provisioner.GetOrCreate(context.Background(), env.mint, owner, false)
	require.NoError(t, err)
	assert.Nil(t, ixn)
	assert.Equal(t, ata.PublicKey().ToBase58(), actual.PublicKey().ToBase58())
}

func TestGetOrCreate_InvalidExisting(t *testing.T) {
	env := setup(t)
	owner := testutil.NewRandomAccount(t)

	ata, err := env.provisioner.Address(env.mint, owner)
	require.NoError(t, err)

	// Wrong owning program
	env.server.SetAccount(ata.ToBytes(), system.ProgramKey[:], make([]byte, token.AccountSize))
	_, _, err = env.provisioner.GetOrCreate(context.Background(), env.mint, owner, false)
	assert.Equal(t, token.ErrInvalidTokenAccount, err)

	// Wrong mint
	account := token.Account{
		Mint:  testutil.NewRandomAccount(t).ToBytes(),
		Owner: owner.ToBytes(),
		State: token.AccountStateInitialized,
	}
	env.server.SetAccount(ata.ToBytes(), token.ProgramKey, account.Marshal())
	_, _, err = env.provisioner.GetOrCreate(context.Background(), env.mint, owner, false)
	assert.Equal(t, token.ErrInvalidTokenAccount, err)

	// Truncated
	env.server.SetAccount(ata.ToBytes(), token.ProgramKey, account.Marshal()[:64])
	_, _, err = env.provisioner.GetOrCreate(context.Background(), env.mint, owner, false)
	assert.Equal(t, token.ErrInvalidTokenAccount, err)
}

func TestGetOrCreate_OffCurveOwner(t *testing.T) {
	env := setup(t)

	// An associated token account is itself a program address
	offCurve, err := testutil.NewRandomAccount(t).ToAssociatedTokenAccount(env.mint)
	require.NoError(t, err)
	require.False(t, offCurve.IsOnCurve())

	_, _, err = env.provisioner.GetOrCreate(context.Background(), env.mint, offCurve, false)
	testutil.AssertInvalidArgument(t, err, "owner")
	assert.Zero(t, env.server.Calls("getAccountInfo"))

	_, ixn, err := env.provisioner.GetOrCreate(context.Background(), env.mint, offCurve, true)
	require.NoError(t, err)
	assert.NotNil(t, ixn)
}

func TestBalance(t *testing.T) {
	env := setup(t)
	account := testutil.NewRandomAccount(t)

	env.server.Handle("getTokenAccountBalance", func(params []json.RawMessage) (interface{}, *jsonrpc.RPCError) {
		var address string
		env.server.UnmarshalParam(params, 0, &address)
		assert.Equal(t, account.PublicKey().ToBase58(), address)

		return map[string]interface{}{
			"context": map[string]interface{}{"slot": 7},
			"value": map[string]interface{}{
				"amount":   "1234",
				"decimals": 6,
			},
		}, nil
	})

	balance, err := env.provisioner.Balance(context.Background(), account)
	require.NoError(t, err)
	assert.EqualValues(t, 1234, balance)
}

func TestCreateMint(t *testing.T) {
	env := setup(t)
	authority := testutil.NewRandomAccount(t)

	env.server.Handle("getMinimumBalanceForRentExemption", func(params []json.RawMessage) (interface{}, *jsonrpc.RPCError) {
		var size uint64
		env.server.UnmarshalParam(params, 0, &size)
		assert.EqualValues(t, token.MintAccountSize, size)
		return 1461600, nil
	})

	ixns, err := env.provisioner.CreateMint(context.Background(), env.mint, authority, 6)
	require.NoError(t, err)
	require.Len(t, ixns, 2)

	assert.EqualValues(t, system.ProgramKey[:], ixns[0].Program)
	assert.EqualValues(t, env.payer.ToBytes(), ixns[0].Accounts[0].PublicKey)
	assert.EqualValues(t, env.mint.ToBytes(), ixns[0].Accounts[1].PublicKey)
	assert.True(t, ixns[0].Accounts[1].IsSigner)

	assert.EqualValues(t, token.ProgramKey, ixns[1].Program)
	assert.EqualValues(t, env.mint.ToBytes(), ixns[1].Accounts[0].PublicKey)
	assert.EqualValues(t, 6, ixns[1].Data[1])
	assert.EqualValues(t, authority.ToBytes(), ixns[1].Data[2:34])

	minted := env.provisioner.MintTo(env.mint, testutil.NewRandomAccount(t), authority, 500)
	assert.EqualValues(t, token.ProgramKey, minted.Program)
	assert.EqualValues(t, authority.ToBytes(), minted.Accounts[2].PublicKey)
}

func TestGetMint(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	_, err := env.provisioner.GetMint(ctx, env.mint)
	assert.True(t, errors.Is(err, solana.ErrNoAccountInfo))

	mint := token.Mint{
		MintAuthority: env.payer.ToBytes(),
		Supply:        1_000_000,
		Decimals:      6,
		IsInitialized: true,
	}
	env.server.SetAccount(env.mint.ToBytes(), token.ProgramKey, mint.Marshal())

	actual, err := env.provisioner.GetMint(ctx, env.mint)
	require.NoError(t, err)
	assert.Equal(t, mint, *actual)

	mint.IsInitialized = false
	env.server.SetAccount(env.mint.ToBytes(), token.ProgramKey, mint.Marshal())
	_, err = env.provisioner.GetMint(ctx, env.mint)
	assert.Equal(t, token.ErrInvalidMint, err)

	env.server.SetAccount(env.mint.ToBytes(), system.ProgramKey[:], make([]byte, token.MintAccountSize))
	_, err = env.provisioner.GetMint(ctx, env.mint)
	assert.Equal(t, token.ErrInvalidMint, err)
}
