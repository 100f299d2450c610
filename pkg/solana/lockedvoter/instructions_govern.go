package lockedvoter

import (
	"crypto/ed25519"

	"github.com/code-payments/governance-client/pkg/solana"
	"github.com/code-payments/governance-client/pkg/solana/anchor"
	"github.com/code-payments/governance-client/pkg/solana/binary"
)

type ActivateProposalInstructionAccounts struct {
	Locker        ed25519.PublicKey
	Governor      ed25519.PublicKey
	Proposal      ed25519.PublicKey
	Escrow        ed25519.PublicKey
	EscrowOwner   ed25519.PublicKey
	GovernProgram ed25519.PublicKey
}

// NewActivateProposalInstruction activates a governor proposal through the
// locker, using the escrow's voting power as the activation threshold.
func (p *Program) NewActivateProposalInstruction(
	accounts *ActivateProposalInstructionAccounts,
) solana.Instruction {
	return solana.NewInstruction(
		p.ID,
		discriminatorOnly(activateProposalInstructionDiscriminator),
		solana.NewReadonlyAccountMeta(accounts.Locker, false),
		solana.NewReadonlyAccountMeta(accounts.Governor, false),
		solana.NewAccountMeta(accounts.Proposal, false),
		solana.NewReadonlyAccountMeta(accounts.Escrow, false),
		solana.NewReadonlyAccountMeta(accounts.EscrowOwner, true),
		solana.NewReadonlyAccountMeta(accounts.GovernProgram, false),
	)
}

type CastVoteInstructionArgs struct {
	Side uint8
}

type CastVoteInstructionAccounts struct {
	Locker        ed25519.PublicKey
	Escrow        ed25519.PublicKey
	VoteDelegate  ed25519.PublicKey
	Proposal      ed25519.PublicKey
	Vote          ed25519.PublicKey
	Governor      ed25519.PublicKey
	GovernProgram ed25519.PublicKey
}

func (p *Program) NewCastVoteInstruction(
	accounts *CastVoteInstructionAccounts,
	args *CastVoteInstructionArgs,
) solana.Instruction {
	var offset int

	data := make([]byte, anchor.DiscriminatorSize+1)

	anchor.PutDiscriminator(data, castVoteInstructionDiscriminator, &offset)
	binary.PutUint8(data[offset:], args.Side, &offset)

	return solana.NewInstruction(
		p.ID,
		data,
		solana.NewReadonlyAccountMeta(accounts.Locker, false),
		solana.NewReadonlyAccountMeta(accounts.Escrow, false),
		solana.NewReadonlyAccountMeta(accounts.VoteDelegate, true),
		solana.NewAccountMeta(accounts.Proposal, false),
		solana.NewAccountMeta(accounts.Vote, false),
		solana.NewReadonlyAccountMeta(accounts.Governor, false),
		solana.NewReadonlyAccountMeta(accounts.GovernProgram, false),
	)
}
