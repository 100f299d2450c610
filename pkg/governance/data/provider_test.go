package data

import (
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ybbus/jsonrpc"

	"github.com/code-payments/governance-client/pkg/governance/common"
	"github.com/code-payments/governance-client/pkg/solana/governor"
	"github.com/code-payments/governance-client/pkg/solana/lockedvoter"
	"github.com/code-payments/governance-client/pkg/solana/smartwallet"
	"github.com/code-payments/governance-client/pkg/solana/system"
	"github.com/code-payments/governance-client/pkg/testutil"
)

const (
	week = 7 * 24 * 60 * 60
	year = 52 * week
)

type testEnv struct {
	server   *testutil.RPCServer
	session  *common.Session
	provider *Provider
}

func setup(t *testing.T) testEnv {
	server := testutil.NewRPCServer(t)

	session, err := common.NewSession(server.Client(), testutil.NewRandomAccount(t), common.Programs{})
	require.NoError(t, err)

	return testEnv{
		server:   server,
		session:  session,
		provider: NewProvider(session),
	}
}

func (e testEnv) setClock(unixTimestamp int64) {
	clock := system.Clock{Slot: 100, UnixTimestamp: unixTimestamp}
	e.server.SetAccount(system.ClockSysVar, system.ClockSysVar, clock.Marshal())
}

func testLocker(t *testing.T) *lockedvoter.LockerAccount {
	return &lockedvoter.LockerAccount{
		Base:         testutil.NewRandomAccount(t).ToBytes(),
		Bump:         254,
		TokenMint:    testutil.NewRandomAccount(t).ToBytes(),
		LockedSupply: 1000,
		Governor:     testutil.NewRandomAccount(t).ToBytes(),
		Params: lockedvoter.LockerParams{
			MaxStakeVoteMultiplier:     10,
			MinStakeDuration:           week,
			MaxStakeDuration:           year,
			ProposalActivationMinVotes: 2000,
		},
	}
}

func TestGetAccounts(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	walletAddress := testutil.NewRandomAccount(t)
	wallet := &smartwallet.SmartWalletAccount{
		Base:      testutil.NewRandomAccount(t).ToBytes(),
		Bump:      255,
		Threshold: 1,
		Owners:    []ed25519.PublicKey{testutil.NewRandomAccount(t).ToBytes()},
	}
	env.server.SetAccount(walletAddress.ToBytes(), env.session.SmartWallet.ID, wallet.Marshal())

	governorAddress := testutil.NewRandomAccount(t)
	gov := &governor.GovernorAccount{
		Base:        testutil.NewRandomAccount(t).ToBytes(),
		Bump:        253,
		Electorate:  testutil.NewRandomAccount(t).ToBytes(),
		SmartWallet: walletAddress.ToBytes(),
	}
	env.server.SetAccount(governorAddress.ToBytes(), env.session.Governor.ID, gov.Marshal())

	escrowAddress := testutil.NewRandomAccount(t)
	escrow := &lockedvoter.EscrowAccount{
		Locker:          testutil.NewRandomAccount(t).ToBytes(),
		Owner:           testutil.NewRandomAccount(t).ToBytes(),
		Bump:            252,
		Tokens:          testutil.NewRandomAccount(t).ToBytes(),
		Amount:          500,
		EscrowStartedAt: 10,
		EscrowEndsAt:    20,
		VoteDelegate:    testutil.NewRandomAccount(t).ToBytes(),
	}
	env.server.SetAccount(escrowAddress.ToBytes(), env.session.LockedVoter.ID, escrow.Marshal())

	actualWallet, err := env.provider.GetSmartWallet(ctx, walletAddress)
	require.NoError(t, err)
	assert.Equal(t, wallet.Owners, actualWallet.Owners)
	assert.EqualValues(t, 1, actualWallet.Threshold)

	actualGovernor, err := env.provider.GetGovernor(ctx, governorAddress)
	require.NoError(t, err)
	assert.EqualValues(t, walletAddress.ToBytes(), actualGovernor.SmartWallet)

	actualEscrow, err := env.provider.GetEscrow(ctx, escrowAddress)
	require.NoError(t, err)
	assert.Equal(t, escrow, actualEscrow)

	// Decoding as the wrong type fails the discriminator check
	_, err = env.provider.GetRedeemer(ctx, escrowAddress)
	assert.Equal(t, lockedvoter.ErrInvalidAccountData, err)

	// Owned by the wrong program
	_, err = env.provider.GetGovernor(ctx, walletAddress)
	assert.Error(t, err)

	_, err = env.provider.GetBlacklist(ctx, testutil.NewRandomAccount(t))
	assert.Equal(t, ErrAccountNotFound, err)
}

func TestGetLocker_Cached(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	address := testutil.NewRandomAccount(t)
	locker := testLocker(t)
	env.server.SetAccount(address.ToBytes(), env.session.LockedVoter.ID, locker.Marshal())

	actual, err := env.provider.GetLocker(ctx, address)
	require.NoError(t, err)
	assert.Equal(t, locker, actual)

	// Mutating a returned value doesn't leak into the cache
	actual.Params.MaxStakeVoteMultiplier = 1

	cached, err := env.provider.GetLocker(ctx, address)
	require.NoError(t, err)
	assert.EqualValues(t, 10, cached.Params.MaxStakeVoteMultiplier)
	assert.Equal(t, 1, env.server.Calls("getAccountInfo"))

	locker.Params.MaxStakeVoteMultiplier = 5
	env.server.SetAccount(address.ToBytes(), env.session.LockedVoter.ID, locker.Marshal())

	env.provider.InvalidateLocker(address)

	refreshed, err := env.provider.GetLocker(ctx, address)
	require.NoError(t, err)
	assert.EqualValues(t, 5, refreshed.Params.MaxStakeVoteMultiplier)
	assert.Equal(t, 2, env.server.Calls("getAccountInfo"))
}

func TestGetLocker_NotFoundNotCached(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	address := testutil.NewRandomAccount(t)

	_, err := env.provider.GetLocker(ctx, address)
	assert.Equal(t, ErrAccountNotFound, err)

	env.server.SetAccount(address.ToBytes(), env.session.LockedVoter.ID, testLocker(t).Marshal())

	_, err = env.provider.GetLocker(ctx, address)
	assert.NoError(t, err)
}

func TestGetClock(t *testing.T) {
	env := setup(t)

	_, err := env.provider.GetClock(context.Background())
	assert.Error(t, err)

	env.setClock(1_700_000_000)

	clock, err := env.provider.GetClock(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1_700_000_000, clock.UnixTimestamp)
	assert.EqualValues(t, 100, clock.Slot)
}

func TestGetVotingPower(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	lockerAddress := testutil.NewRandomAccount(t)
	env.server.SetAccount(lockerAddress.ToBytes(), env.session.LockedVoter.ID, testLocker(t).Marshal())

	start := int64(1_700_000_000)
	escrowAddress := testutil.NewRandomAccount(t)
	escrow := &lockedvoter.EscrowAccount{
		Locker:          lockerAddress.ToBytes(),
		Owner:           testutil.NewRandomAccount(t).ToBytes(),
		Tokens:          testutil.NewRandomAccount(t).ToBytes(),
		Amount:          1000_000_000,
		EscrowStartedAt: start,
		EscrowEndsAt:    start + year,
	}
	env.server.SetAccount(escrowAddress.ToBytes(), env.session.LockedVoter.ID, escrow.Marshal())

	env.setClock(start)
	power, err := env.provider.GetVotingPower(ctx, escrowAddress)
	require.NoError(t, err)
	assert.Equal(t, "10000000000", power.String())

	env.setClock(start + year)
	power, err = env.provider.GetVotingPower(ctx, escrowAddress)
	require.NoError(t, err)
	assert.Zero(t, power.Sign())
}

func TestGetEscrowsByLocker(t *testing.T) {
	env := setup(t)

	locker := testutil.NewRandomAccount(t)
	escrowAddress := testutil.NewRandomAccount(t)
	escrow := &lockedvoter.EscrowAccount{
		Locker: locker.ToBytes(),
		Owner:  testutil.NewRandomAccount(t).ToBytes(),
		Tokens: testutil.NewRandomAccount(t).ToBytes(),
		Amount: 42,

		VoteDelegate: testutil.NewRandomAccount(t).ToBytes(),
	}
	blacklist := &lockedvoter.BlacklistAccount{
		Locker: locker.ToBytes(),
		Escrow: escrowAddress.ToBytes(),
	}

	account := func(address *common.Account, data []byte) map[string]interface{} {
		return map[string]interface{}{
			"pubkey": address.PublicKey().ToBase58(),
			"account": map[string]interface{}{
				"lamports":   1,
				"owner":      base58.Encode(env.session.LockedVoter.ID),
				"data":       []string{base64.StdEncoding.EncodeToString(data), "base64"},
				"executable": false,
				"rentEpoch":  0,
			},
		}
	}

	env.server.Handle("getProgramAccounts", func(params []json.RawMessage) (interface{}, *jsonrpc.RPCError) {
		var program string
		env.server.UnmarshalParam(params, 0, &program)
		assert.Equal(t, base58.Encode(env.session.LockedVoter.ID), program)

		var config struct {
			Filters []struct {
				Memcmp struct {
					Offset int    `json:"offset"`
					Bytes  string `json:"bytes"`
				} `json:"memcmp"`
			} `json:"filters"`
		}
		env.server.UnmarshalParam(params, 1, &config)
		require.Len(t, config.Filters, 1)
		assert.Equal(t, 8, config.Filters[0].Memcmp.Offset)
		assert.Equal(t, locker.PublicKey().ToBase58(), config.Filters[0].Memcmp.Bytes)

		return []interface{}{
			account(escrowAddress, escrow.Marshal()),
			account(testutil.NewRandomAccount(t), blacklist.Marshal()),
		}, nil
	})

	escrows, err := env.provider.GetEscrowsByLocker(context.Background(), locker)
	require.NoError(t, err)
	require.Len(t, escrows, 1)
	assert.Equal(t, escrow, escrows[escrowAddress.PublicKey().ToBase58()])
}
