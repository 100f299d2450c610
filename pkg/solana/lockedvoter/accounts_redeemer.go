package lockedvoter

import (
	"crypto/ed25519"

	"github.com/code-payments/governance-client/pkg/solana/anchor"
	"github.com/code-payments/governance-client/pkg/solana/binary"
)

const RedeemerAccountSize = (anchor.DiscriminatorSize +
	32 + // locker
	32 + // admin
	32 + // pending_admin
	32 + // receipt_mint
	1 + // status
	8 + // redemption_rate
	32 + // treasury
	8 + // cutoff_date
	8 + // amount
	1) // bump

type RedeemerAccount struct {
	Locker         ed25519.PublicKey
	Admin          ed25519.PublicKey
	PendingAdmin   ed25519.PublicKey
	ReceiptMint    ed25519.PublicKey
	Status         RedeemerStatus
	RedemptionRate uint64
	Treasury       ed25519.PublicKey
	CutoffDate     int64
	Amount         uint64
	Bump           uint8
}

// HasPendingAdmin reports whether an admin handoff is waiting to be accepted.
func (obj *RedeemerAccount) HasPendingAdmin() bool {
	for _, b := range obj.PendingAdmin {
		if b != 0 {
			return true
		}
	}
	return false
}

func (obj *RedeemerAccount) Marshal() []byte {
	data := make([]byte, RedeemerAccountSize)

	var offset int

	anchor.PutDiscriminator(data, redeemerAccountDiscriminator, &offset)
	binary.PutKey32(data[offset:], obj.Locker, &offset)
	binary.PutKey32(data[offset:], obj.Admin, &offset)
	binary.PutKey32(data[offset:], obj.PendingAdmin, &offset)
	binary.PutKey32(data[offset:], obj.ReceiptMint, &offset)
	binary.PutUint8(data[offset:], uint8(obj.Status), &offset)
	binary.PutUint64(data[offset:], obj.RedemptionRate, &offset)
	binary.PutKey32(data[offset:], obj.Treasury, &offset)
	binary.PutInt64(data[offset:], obj.CutoffDate, &offset)
	binary.PutUint64(data[offset:], obj.Amount, &offset)
	binary.PutUint8(data[offset:], obj.Bump, &offset)

	return data
}

func (obj *RedeemerAccount) Unmarshal(data []byte) error {
	if len(data) < RedeemerAccountSize {
		return ErrInvalidAccountData
	}

	if !anchor.HasDiscriminator(data, redeemerAccountDiscriminator) {
		return ErrInvalidAccountData
	}
	offset := anchor.DiscriminatorSize

	var status uint8
	binary.GetKey32(data[offset:], &obj.Locker, &offset)
	binary.GetKey32(data[offset:], &obj.Admin, &offset)
	binary.GetKey32(data[offset:], &obj.PendingAdmin, &offset)
	binary.GetKey32(data[offset:], &obj.ReceiptMint, &offset)
	binary.GetUint8(data[offset:], &status, &offset)
	binary.GetUint64(data[offset:], &obj.RedemptionRate, &offset)
	binary.GetKey32(data[offset:], &obj.Treasury, &offset)
	binary.GetInt64(data[offset:], &obj.CutoffDate, &offset)
	binary.GetUint64(data[offset:], &obj.Amount, &offset)
	binary.GetUint8(data[offset:], &obj.Bump, &offset)
	obj.Status = RedeemerStatus(status)

	return nil
}
