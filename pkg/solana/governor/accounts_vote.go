package governor

import (
	"crypto/ed25519"

	"github.com/code-payments/governance-client/pkg/solana/anchor"
	"github.com/code-payments/governance-client/pkg/solana/binary"
)

const VoteAccountSize = (anchor.DiscriminatorSize +
	32 + // proposal
	32 + // voter
	1 + // bump
	1 + // side
	8) // weight

type VoteAccount struct {
	Proposal ed25519.PublicKey
	Voter    ed25519.PublicKey
	Bump     uint8
	Side     VoteSide
	Weight   uint64
}

func (obj *VoteAccount) Marshal() []byte {
	data := make([]byte, VoteAccountSize)

	var offset int

	anchor.PutDiscriminator(data, voteAccountDiscriminator, &offset)
	binary.PutKey32(data[offset:], obj.Proposal, &offset)
	binary.PutKey32(data[offset:], obj.Voter, &offset)
	binary.PutUint8(data[offset:], obj.Bump, &offset)
	binary.PutUint8(data[offset:], uint8(obj.Side), &offset)
	binary.PutUint64(data[offset:], obj.Weight, &offset)

	return data
}

func (obj *VoteAccount) Unmarshal(data []byte) error {
	if len(data) < VoteAccountSize {
		return ErrInvalidAccountData
	}

	if !anchor.HasDiscriminator(data, voteAccountDiscriminator) {
		return ErrInvalidAccountData
	}
	offset := anchor.DiscriminatorSize

	var side uint8
	binary.GetKey32(data[offset:], &obj.Proposal, &offset)
	binary.GetKey32(data[offset:], &obj.Voter, &offset)
	binary.GetUint8(data[offset:], &obj.Bump, &offset)
	binary.GetUint8(data[offset:], &side, &offset)
	binary.GetUint64(data[offset:], &obj.Weight, &offset)
	obj.Side = VoteSide(side)

	return nil
}
