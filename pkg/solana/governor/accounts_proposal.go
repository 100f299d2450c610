package governor

import (
	"crypto/ed25519"

	"github.com/code-payments/governance-client/pkg/solana/anchor"
	"github.com/code-payments/governance-client/pkg/solana/binary"
)

// MinProposalAccountSize is the size of a proposal with no instructions.
const MinProposalAccountSize = (anchor.DiscriminatorSize +
	32 + // governor
	8 + // index
	1 + // bump
	32 + // proposer
	8 + // quorum_votes
	8 + // for_votes
	8 + // against_votes
	8 + // abstain_votes
	8 + // canceled_at
	8 + // created_at
	8 + // activated_at
	8 + // voting_ends_at
	8 + // queued_at
	32 + // queued_transaction
	binary.BorshVecPrefixSize) // instructions

type ProposalAccount struct {
	Governor          ed25519.PublicKey
	Index             uint64
	Bump              uint8
	Proposer          ed25519.PublicKey
	QuorumVotes       uint64
	ForVotes          uint64
	AgainstVotes      uint64
	AbstainVotes      uint64
	CanceledAt        int64
	CreatedAt         int64
	ActivatedAt       int64
	VotingEndsAt      int64
	QueuedAt          int64
	QueuedTransaction ed25519.PublicKey
	Instructions      []ProposalInstruction
}

func (obj *ProposalAccount) Marshal() []byte {
	data := make([]byte, MinProposalAccountSize-binary.BorshVecPrefixSize+proposalInstructionsSize(obj.Instructions))

	var offset int

	anchor.PutDiscriminator(data, proposalAccountDiscriminator, &offset)
	binary.PutKey32(data[offset:], obj.Governor, &offset)
	binary.PutUint64(data[offset:], obj.Index, &offset)
	binary.PutUint8(data[offset:], obj.Bump, &offset)
	binary.PutKey32(data[offset:], obj.Proposer, &offset)
	binary.PutUint64(data[offset:], obj.QuorumVotes, &offset)
	binary.PutUint64(data[offset:], obj.ForVotes, &offset)
	binary.PutUint64(data[offset:], obj.AgainstVotes, &offset)
	binary.PutUint64(data[offset:], obj.AbstainVotes, &offset)
	binary.PutInt64(data[offset:], obj.CanceledAt, &offset)
	binary.PutInt64(data[offset:], obj.CreatedAt, &offset)
	binary.PutInt64(data[offset:], obj.ActivatedAt, &offset)
	binary.PutInt64(data[offset:], obj.VotingEndsAt, &offset)
	binary.PutInt64(data[offset:], obj.QueuedAt, &offset)
	binary.PutKey32(data[offset:], obj.QueuedTransaction, &offset)
	putProposalInstructions(data, obj.Instructions, &offset)

	return data
}

func (obj *ProposalAccount) Unmarshal(data []byte) error {
	if len(data) < MinProposalAccountSize {
		return ErrInvalidAccountData
	}

	if !anchor.HasDiscriminator(data, proposalAccountDiscriminator) {
		return ErrInvalidAccountData
	}
	offset := anchor.DiscriminatorSize

	binary.GetKey32(data[offset:], &obj.Governor, &offset)
	binary.GetUint64(data[offset:], &obj.Index, &offset)
	binary.GetUint8(data[offset:], &obj.Bump, &offset)
	binary.GetKey32(data[offset:], &obj.Proposer, &offset)
	binary.GetUint64(data[offset:], &obj.QuorumVotes, &offset)
	binary.GetUint64(data[offset:], &obj.ForVotes, &offset)
	binary.GetUint64(data[offset:], &obj.AgainstVotes, &offset)
	binary.GetUint64(data[offset:], &obj.AbstainVotes, &offset)
	binary.GetInt64(data[offset:], &obj.CanceledAt, &offset)
	binary.GetInt64(data[offset:], &obj.CreatedAt, &offset)
	binary.GetInt64(data[offset:], &obj.ActivatedAt, &offset)
	binary.GetInt64(data[offset:], &obj.VotingEndsAt, &offset)
	binary.GetInt64(data[offset:], &obj.QueuedAt, &offset)
	binary.GetKey32(data[offset:], &obj.QueuedTransaction, &offset)

	if !getProposalInstructions(data, &obj.Instructions, &offset) {
		return ErrInvalidAccountData
	}

	return nil
}
