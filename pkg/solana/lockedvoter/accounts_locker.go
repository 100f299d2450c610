package lockedvoter

import (
	"crypto/ed25519"

	"github.com/code-payments/governance-client/pkg/solana/anchor"
	"github.com/code-payments/governance-client/pkg/solana/binary"
)

const LockerAccountSize = (anchor.DiscriminatorSize +
	32 + // base
	1 + // bump
	32 + // token_mint
	8 + // locked_supply
	32 + // governor
	LockerParamsSize) // params

type LockerAccount struct {
	Base         ed25519.PublicKey
	Bump         uint8
	TokenMint    ed25519.PublicKey
	LockedSupply uint64
	Governor     ed25519.PublicKey
	Params       LockerParams
}

func (obj *LockerAccount) Marshal() []byte {
	data := make([]byte, LockerAccountSize)

	var offset int

	anchor.PutDiscriminator(data, lockerAccountDiscriminator, &offset)
	binary.PutKey32(data[offset:], obj.Base, &offset)
	binary.PutUint8(data[offset:], obj.Bump, &offset)
	binary.PutKey32(data[offset:], obj.TokenMint, &offset)
	binary.PutUint64(data[offset:], obj.LockedSupply, &offset)
	binary.PutKey32(data[offset:], obj.Governor, &offset)
	putLockerParams(data, obj.Params, &offset)

	return data
}

func (obj *LockerAccount) Unmarshal(data []byte) error {
	if len(data) < LockerAccountSize {
		return ErrInvalidAccountData
	}

	if !anchor.HasDiscriminator(data, lockerAccountDiscriminator) {
		return ErrInvalidAccountData
	}
	offset := anchor.DiscriminatorSize

	binary.GetKey32(data[offset:], &obj.Base, &offset)
	binary.GetUint8(data[offset:], &obj.Bump, &offset)
	binary.GetKey32(data[offset:], &obj.TokenMint, &offset)
	binary.GetUint64(data[offset:], &obj.LockedSupply, &offset)
	binary.GetKey32(data[offset:], &obj.Governor, &offset)
	getLockerParams(data, &obj.Params, &offset)

	return nil
}
