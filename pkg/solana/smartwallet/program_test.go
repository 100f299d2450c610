package smartwallet

import (
	"crypto/ed25519"
	"testing"

	"github.com/mr-tron/base58/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/governance-client/pkg/solana"
	"github.com/code-payments/governance-client/pkg/solana/anchor"
	"github.com/code-payments/governance-client/pkg/solana/system"
)

var (
	testBase  = solana.MustPublicKeyFromBase58("Ef37CudiH2EeQegAn9gGUjKrGCwf5ksMzXnSAPpWtv17")
	testOwner = solana.MustPublicKeyFromBase58("67vHA8qZGCJKw1UNGUJZME4MwEWDRGWzp7MGvsut43A8")
)

func TestDiscriminators(t *testing.T) {
	assert.Equal(t, anchor.InstructionDiscriminator("create_smart_wallet"), createSmartWalletInstructionDiscriminator)
	assert.Equal(t, anchor.AccountDiscriminator("SmartWallet"), smartWalletAccountDiscriminator)
}

func TestNew(t *testing.T) {
	assert.EqualValues(t, PROGRAM_ID, New(nil).ID)

	custom := solana.MustPublicKeyFromBase58("8tAhS8CX7if6tQWAqUSK1kebGbU1WCH3jBwafq2bifMw")
	assert.EqualValues(t, custom, New(custom).ID)
}

func TestGetSmartWalletAddress(t *testing.T) {
	address, bump, err := New(nil).GetSmartWalletAddress(&GetSmartWalletAddressArgs{
		Base: testBase,
	})
	require.NoError(t, err)
	assert.Equal(t, "7aRaKgz5cQMsuBDzghWFNaaMZd3XZ4V5nrzncm9XPwLo", base58.Encode(address))
	assert.EqualValues(t, 252, bump)
}

func TestNewCreateSmartWalletInstruction(t *testing.T) {
	p := New(nil)
	smartWallet, bump, err := p.GetSmartWalletAddress(&GetSmartWalletAddressArgs{Base: testBase})
	require.NoError(t, err)

	owners := []ed25519.PublicKey{testOwner, testBase}
	ixn := p.NewCreateSmartWalletInstruction(
		&CreateSmartWalletInstructionAccounts{
			Base:        testBase,
			SmartWallet: smartWallet,
			Payer:       testOwner,
		},
		&CreateSmartWalletInstructionArgs{
			Bump:         bump,
			MaxOwners:    5,
			Owners:       owners,
			Threshold:    1,
			MinimumDelay: 0,
		},
	)

	assert.EqualValues(t, PROGRAM_ID, ixn.Program)
	require.Len(t, ixn.Data, 8+1+1+4+64+8+8)
	assert.Equal(t, createSmartWalletInstructionDiscriminator, ixn.Data[:8])
	assert.Equal(t, bump, ixn.Data[8])
	assert.EqualValues(t, 5, ixn.Data[9])
	assert.Equal(t, []byte{2, 0, 0, 0}, ixn.Data[10:14])
	assert.EqualValues(t, testOwner, ixn.Data[14:46])
	assert.EqualValues(t, testBase, ixn.Data[46:78])
	assert.Equal(t, []byte{1, 0, 0, 0, 0, 0, 0, 0}, ixn.Data[78:86])
	assert.Equal(t, make([]byte, 8), ixn.Data[86:])

	require.Len(t, ixn.Accounts, 4)
	assert.Equal(t, solana.NewReadonlyAccountMeta(testBase, true), ixn.Accounts[0])
	assert.Equal(t, solana.NewAccountMeta(smartWallet, false), ixn.Accounts[1])
	assert.Equal(t, solana.NewAccountMeta(testOwner, true), ixn.Accounts[2])
	assert.EqualValues(t, system.ProgramKey[:], ixn.Accounts[3].PublicKey)

	assert.Equal(t, []ed25519.PublicKey{testBase, testOwner}, ixn.Signers())
}

func TestSmartWalletAccount(t *testing.T) {
	expected := SmartWalletAccount{
		Base:            testBase,
		Bump:            252,
		Threshold:       2,
		MinimumDelay:    60,
		GracePeriod:     3600,
		OwnerSetSeqno:   1,
		NumTransactions: 7,
		Owners:          []ed25519.PublicKey{testOwner, testBase},
	}

	data := expected.Marshal()
	assert.Len(t, data, MinSmartWalletAccountSize+64)

	var actual SmartWalletAccount
	require.NoError(t, actual.Unmarshal(data))
	assert.Equal(t, expected, actual)

	// Truncated owners vector
	assert.Equal(t, ErrInvalidAccountData, actual.Unmarshal(data[:len(data)-1]))
	assert.Equal(t, ErrInvalidAccountData, actual.Unmarshal(data[:MinSmartWalletAccountSize-1]))

	data[0] ^= 0xff
	assert.Equal(t, ErrInvalidAccountData, actual.Unmarshal(data))
}
