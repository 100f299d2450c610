package lockedvoter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockerAccount_RoundTrip(t *testing.T) {
	expected := &LockerAccount{
		Base:         testBase,
		Bump:         254,
		TokenMint:    testMint,
		LockedSupply: 3_000_000_000,
		Governor:     testOwner2,
		Params: LockerParams{
			WhitelistEnabled:           true,
			MaxStakeVoteMultiplier:     10,
			MinStakeDuration:           1,
			MaxStakeDuration:           31_449_600,
			ProposalActivationMinVotes: 42,
		},
	}

	data := expected.Marshal()
	require.Len(t, data, LockerAccountSize)

	var actual LockerAccount
	require.NoError(t, actual.Unmarshal(data))
	assert.Equal(t, expected, &actual)
}

func TestEscrowAccount_RoundTrip(t *testing.T) {
	expected := &EscrowAccount{
		Locker:          testLocker,
		Owner:           testOwner,
		Bump:            254,
		Tokens:          testBase,
		Amount:          1_000_000_000,
		EscrowStartedAt: 1_700_000_000,
		EscrowEndsAt:    1_700_000_010,
		VoteDelegate:    testOwner,
	}

	data := expected.Marshal()
	require.Len(t, data, EscrowAccountSize)

	var actual EscrowAccount
	require.NoError(t, actual.Unmarshal(data))
	assert.Equal(t, expected, &actual)
}

func TestRedeemerAccount_RoundTrip(t *testing.T) {
	expected := &RedeemerAccount{
		Locker:         testLocker,
		Admin:          testOwner,
		PendingAdmin:   testOwner2,
		ReceiptMint:    testMint,
		Status:         RedeemerStatusActive,
		RedemptionRate: 10,
		Treasury:       testBase,
		CutoffDate:     1_700_000_001,
		Amount:         500,
		Bump:           254,
	}

	data := expected.Marshal()
	require.Len(t, data, RedeemerAccountSize)

	var actual RedeemerAccount
	require.NoError(t, actual.Unmarshal(data))
	assert.Equal(t, expected, &actual)
	assert.True(t, actual.HasPendingAdmin())
	assert.Equal(t, "active", actual.Status.String())
}

func TestRedeemerAccount_NoPendingAdmin(t *testing.T) {
	data := (&RedeemerAccount{Locker: testLocker, Admin: testOwner}).Marshal()

	var actual RedeemerAccount
	require.NoError(t, actual.Unmarshal(data))
	assert.False(t, actual.HasPendingAdmin())
	assert.Equal(t, RedeemerStatusPaused, actual.Status)
}

func TestBlacklistAccount_RoundTrip(t *testing.T) {
	expected := &BlacklistAccount{
		Locker:    testLocker,
		Escrow:    testEscrow,
		Owner:     testOwner,
		Timestamp: 1_700_000_100,
	}

	data := expected.Marshal()
	require.Len(t, data, BlacklistAccountSize)

	var actual BlacklistAccount
	require.NoError(t, actual.Unmarshal(data))
	assert.Equal(t, expected, &actual)
}

func TestWhitelistEntryAccount_RoundTrip(t *testing.T) {
	expected := &WhitelistEntryAccount{
		Bump:      255,
		Locker:    testLocker,
		ProgramID: testExecutable,
		Owner:     testOwner,
	}

	data := expected.Marshal()
	require.Len(t, data, WhitelistEntryAccountSize)

	var actual WhitelistEntryAccount
	require.NoError(t, actual.Unmarshal(data))
	assert.Equal(t, expected, &actual)
}

func TestAccounts_InvalidData(t *testing.T) {
	for _, tc := range []struct {
		name      string
		data      []byte
		unmarshal func([]byte) error
	}{
		{"locker", (&LockerAccount{}).Marshal(), new(LockerAccount).Unmarshal},
		{"escrow", (&EscrowAccount{}).Marshal(), new(EscrowAccount).Unmarshal},
		{"redeemer", (&RedeemerAccount{}).Marshal(), new(RedeemerAccount).Unmarshal},
		{"blacklist", (&BlacklistAccount{}).Marshal(), new(BlacklistAccount).Unmarshal},
		{"whitelist_entry", (&WhitelistEntryAccount{}).Marshal(), new(WhitelistEntryAccount).Unmarshal},
	} {
		t.Run(tc.name, func(t *testing.T) {
			require.NoError(t, tc.unmarshal(tc.data))

			assert.Equal(t, ErrInvalidAccountData, tc.unmarshal(nil))
			assert.Equal(t, ErrInvalidAccountData, tc.unmarshal(tc.data[:len(tc.data)-1]))

			wrongDiscriminator := append([]byte{}, tc.data...)
			wrongDiscriminator[0] ^= 0xff
			assert.Equal(t, ErrInvalidAccountData, tc.unmarshal(wrongDiscriminator))
		})
	}

	// A blacklist is never mistaken for an escrow even with enough bytes.
	data := make([]byte, EscrowAccountSize)
	copy(data, (&BlacklistAccount{Locker: testLocker}).Marshal())
	assert.Equal(t, ErrInvalidAccountData, new(EscrowAccount).Unmarshal(data))
}
