package system

import (
	"crypto/ed25519"
	"encoding/binary"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/governance-client/pkg/solana"
)

func TestCreateAccount(t *testing.T) {
	keys := generateKeys(t, 3)

	instruction := CreateAccount(keys[0], keys[1], keys[2], 12345, 67890)

	command := make([]byte, 4)
	lamports := make([]byte, 8)
	binary.LittleEndian.PutUint64(lamports, 12345)
	size := make([]byte, 8)
	binary.LittleEndian.PutUint64(size, 67890)

	assert.Equal(t, command, instruction.Data[0:4])
	assert.Equal(t, lamports, instruction.Data[4:12])
	assert.Equal(t, size, instruction.Data[12:20])
	assert.Equal(t, []byte(keys[2]), instruction.Data[20:52])

	require.Len(t, instruction.Accounts, 2)
	assert.True(t, instruction.Accounts[0].IsSigner)
	assert.True(t, instruction.Accounts[1].IsSigner)
	assert.Equal(t, []ed25519.PublicKey{keys[0], keys[1]}, instruction.Signers())

	var tx solana.Transaction
	require.NoError(t, tx.Unmarshal(solana.NewTransaction(keys[0], instruction).Marshal()))
	assert.EqualValues(t, 2, tx.Message.Header.NumSignatures)
}

func TestTransfer(t *testing.T) {
	keys := generateKeys(t, 2)

	instruction := Transfer(keys[0], keys[1], 1_000_000_000)
	assert.EqualValues(t, ProgramKey[:], instruction.Program)

	require.Len(t, instruction.Data, 12)
	assert.EqualValues(t, commandTransfer, binary.LittleEndian.Uint32(instruction.Data))
	assert.EqualValues(t, 1_000_000_000, binary.LittleEndian.Uint64(instruction.Data[4:]))

	require.Len(t, instruction.Accounts, 2)
	assert.True(t, instruction.Accounts[0].IsSigner)
	assert.True(t, instruction.Accounts[0].IsWritable)
	assert.False(t, instruction.Accounts[1].IsSigner)
	assert.True(t, instruction.Accounts[1].IsWritable)
}

func TestSysVars(t *testing.T) {
	assert.Equal(t, "SysvarRent111111111111111111111111111111111", base58.Encode(RentSysVar))
	assert.Equal(t, "SysvarC1ock11111111111111111111111111111111", base58.Encode(ClockSysVar))
	assert.Equal(t, "Sysvar1nstructions1111111111111111111111111", base58.Encode(InstructionsSysVar))
	assert.EqualValues(t, ProgramKey[:], SystemAccount)
}

func TestClock(t *testing.T) {
	clock := Clock{
		Slot:                1234,
		EpochStartTimestamp: 1_700_000_000,
		Epoch:               5,
		LeaderScheduleEpoch: 6,
		UnixTimestamp:       1_700_000_400,
	}

	var actual Clock
	require.NoError(t, actual.Unmarshal(clock.Marshal()))
	assert.Equal(t, clock, actual)
	assert.EqualValues(t, 1_700_000_400, actual.Time().Unix())

	assert.Equal(t, ErrInvalidClockAccountSize, actual.Unmarshal(make([]byte, ClockAccountSize-1)))
}

func generateKeys(t *testing.T, amount int) []ed25519.PublicKey {
	keys := make([]ed25519.PublicKey, amount)

	for i := 0; i < amount; i++ {
		pub, _, err := ed25519.GenerateKey(nil)
		require.NoError(t, err)

		keys[i] = pub
	}

	return keys
}
