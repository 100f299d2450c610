package lockedvoter

import (
	"crypto/ed25519"

	"github.com/code-payments/governance-client/pkg/solana/anchor"
	"github.com/code-payments/governance-client/pkg/solana/binary"
)

const BlacklistAccountSize = (anchor.DiscriminatorSize +
	32 + // locker
	32 + // escrow
	32 + // owner
	8) // timestamp

type BlacklistAccount struct {
	Locker    ed25519.PublicKey
	Escrow    ed25519.PublicKey
	Owner     ed25519.PublicKey
	Timestamp int64
}

func (obj *BlacklistAccount) Marshal() []byte {
	data := make([]byte, BlacklistAccountSize)

	var offset int

	anchor.PutDiscriminator(data, blacklistAccountDiscriminator, &offset)
	binary.PutKey32(data[offset:], obj.Locker, &offset)
	binary.PutKey32(data[offset:], obj.Escrow, &offset)
	binary.PutKey32(data[offset:], obj.Owner, &offset)
	binary.PutInt64(data[offset:], obj.Timestamp, &offset)

	return data
}

func (obj *BlacklistAccount) Unmarshal(data []byte) error {
	if len(data) < BlacklistAccountSize {
		return ErrInvalidAccountData
	}

	if !anchor.HasDiscriminator(data, blacklistAccountDiscriminator) {
		return ErrInvalidAccountData
	}
	offset := anchor.DiscriminatorSize

	binary.GetKey32(data[offset:], &obj.Locker, &offset)
	binary.GetKey32(data[offset:], &obj.Escrow, &offset)
	binary.GetKey32(data[offset:], &obj.Owner, &offset)
	binary.GetInt64(data[offset:], &obj.Timestamp, &offset)

	return nil
}

const WhitelistEntryAccountSize = (anchor.DiscriminatorSize +
	1 + // bump
	32 + // locker
	32 + // program_id
	32) // owner

type WhitelistEntryAccount struct {
	Bump      uint8
	Locker    ed25519.PublicKey
	ProgramID ed25519.PublicKey
	Owner     ed25519.PublicKey
}

func (obj *WhitelistEntryAccount) Marshal() []byte {
	data := make([]byte, WhitelistEntryAccountSize)

	var offset int

	anchor.PutDiscriminator(data, whitelistEntryAccountDiscriminator, &offset)
	binary.PutUint8(data[offset:], obj.Bump, &offset)
	binary.PutKey32(data[offset:], obj.Locker, &offset)
	binary.PutKey32(data[offset:], obj.ProgramID, &offset)
	binary.PutKey32(data[offset:], obj.Owner, &offset)

	return data
}

func (obj *WhitelistEntryAccount) Unmarshal(data []byte) error {
	if len(data) < WhitelistEntryAccountSize {
		return ErrInvalidAccountData
	}

	if !anchor.HasDiscriminator(data, whitelistEntryAccountDiscriminator) {
		return ErrInvalidAccountData
	}
	offset := anchor.DiscriminatorSize

	binary.GetUint8(data[offset:], &obj.Bump, &offset)
	binary.GetKey32(data[offset:], &obj.Locker, &offset)
	binary.GetKey32(data[offset:], &obj.ProgramID, &offset)
	binary.GetKey32(data[offset:], &obj.Owner, &offset)

	return nil
}
