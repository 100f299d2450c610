package lockedvoter

import (
	"crypto/ed25519"

	"github.com/code-payments/governance-client/pkg/solana/anchor"
	"github.com/code-payments/governance-client/pkg/solana/binary"
)

const EscrowAccountSize = (anchor.DiscriminatorSize +
	32 + // locker
	32 + // owner
	1 + // bump
	32 + // tokens
	8 + // amount
	8 + // escrow_started_at
	8 + // escrow_ends_at
	32) // vote_delegate

type EscrowAccount struct {
	Locker          ed25519.PublicKey
	Owner           ed25519.PublicKey
	Bump            uint8
	Tokens          ed25519.PublicKey
	Amount          uint64
	EscrowStartedAt int64
	EscrowEndsAt    int64
	VoteDelegate    ed25519.PublicKey
}

func (obj *EscrowAccount) Marshal() []byte {
	data := make([]byte, EscrowAccountSize)

	var offset int

	anchor.PutDiscriminator(data, escrowAccountDiscriminator, &offset)
	binary.PutKey32(data[offset:], obj.Locker, &offset)
	binary.PutKey32(data[offset:], obj.Owner, &offset)
	binary.PutUint8(data[offset:], obj.Bump, &offset)
	binary.PutKey32(data[offset:], obj.Tokens, &offset)
	binary.PutUint64(data[offset:], obj.Amount, &offset)
	binary.PutInt64(data[offset:], obj.EscrowStartedAt, &offset)
	binary.PutInt64(data[offset:], obj.EscrowEndsAt, &offset)
	binary.PutKey32(data[offset:], obj.VoteDelegate, &offset)

	return data
}

func (obj *EscrowAccount) Unmarshal(data []byte) error {
	if len(data) < EscrowAccountSize {
		return ErrInvalidAccountData
	}

	if !anchor.HasDiscriminator(data, escrowAccountDiscriminator) {
		return ErrInvalidAccountData
	}
	offset := anchor.DiscriminatorSize

	binary.GetKey32(data[offset:], &obj.Locker, &offset)
	binary.GetKey32(data[offset:], &obj.Owner, &offset)
	binary.GetUint8(data[offset:], &obj.Bump, &offset)
	binary.GetKey32(data[offset:], &obj.Tokens, &offset)
	binary.GetUint64(data[offset:], &obj.Amount, &offset)
	binary.GetInt64(data[offset:], &obj.EscrowStartedAt, &offset)
	binary.GetInt64(data[offset:], &obj.EscrowEndsAt, &offset)
	binary.GetKey32(data[offset:], &obj.VoteDelegate, &offset)

	return nil
}
