package smartwallet

import (
	"crypto/ed25519"

	"github.com/code-payments/governance-client/pkg/solana/anchor"
	"github.com/code-payments/governance-client/pkg/solana/binary"
)

// MinSmartWalletAccountSize is the size of a smart wallet with no owners.
const MinSmartWalletAccountSize = (anchor.DiscriminatorSize +
	32 + // base
	1 + // bump
	8 + // threshold
	8 + // minimum_delay
	8 + // grace_period
	4 + // owner_set_seqno
	8 + // num_transactions
	binary.BorshVecPrefixSize + // owners
	16*8) // reserved

type SmartWalletAccount struct {
	Base            ed25519.PublicKey
	Bump            uint8
	Threshold       uint64
	MinimumDelay    int64
	GracePeriod     int64
	OwnerSetSeqno   uint32
	NumTransactions uint64
	Owners          []ed25519.PublicKey
}

func (obj *SmartWalletAccount) Marshal() []byte {
	data := make([]byte, MinSmartWalletAccountSize+len(obj.Owners)*ed25519.PublicKeySize)

	var offset int

	anchor.PutDiscriminator(data, smartWalletAccountDiscriminator, &offset)
	binary.PutKey32(data[offset:], obj.Base, &offset)
	binary.PutUint8(data[offset:], obj.Bump, &offset)
	binary.PutUint64(data[offset:], obj.Threshold, &offset)
	binary.PutInt64(data[offset:], obj.MinimumDelay, &offset)
	binary.PutInt64(data[offset:], obj.GracePeriod, &offset)
	binary.PutUint32(data[offset:], obj.OwnerSetSeqno, &offset)
	binary.PutUint64(data[offset:], obj.NumTransactions, &offset)
	binary.PutKey32Vec(data[offset:], obj.Owners, &offset)

	return data
}

func (obj *SmartWalletAccount) Unmarshal(data []byte) error {
	if len(data) < MinSmartWalletAccountSize {
		return ErrInvalidAccountData
	}

	if !anchor.HasDiscriminator(data, smartWalletAccountDiscriminator) {
		return ErrInvalidAccountData
	}
	offset := anchor.DiscriminatorSize

	binary.GetKey32(data[offset:], &obj.Base, &offset)
	binary.GetUint8(data[offset:], &obj.Bump, &offset)
	binary.GetUint64(data[offset:], &obj.Threshold, &offset)
	binary.GetInt64(data[offset:], &obj.MinimumDelay, &offset)
	binary.GetInt64(data[offset:], &obj.GracePeriod, &offset)
	binary.GetUint32(data[offset:], &obj.OwnerSetSeqno, &offset)
	binary.GetUint64(data[offset:], &obj.NumTransactions, &offset)

	numOwners := binary.GetKey32VecLen(data[offset:])
	if len(data) < MinSmartWalletAccountSize+numOwners*ed25519.PublicKeySize {
		return ErrInvalidAccountData
	}
	binary.GetKey32Vec(data[offset:], &obj.Owners, &offset)

	return nil
}
