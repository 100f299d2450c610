package governor

import (
	"crypto/ed25519"

	"github.com/code-payments/governance-client/pkg/solana"
	"github.com/code-payments/governance-client/pkg/solana/anchor"
	"github.com/code-payments/governance-client/pkg/solana/binary"
	"github.com/code-payments/governance-client/pkg/solana/system"
)

type CreateProposalInstructionArgs struct {
	Bump         uint8
	Instructions []ProposalInstruction
}

type CreateProposalInstructionAccounts struct {
	Governor ed25519.PublicKey
	Proposal ed25519.PublicKey
	Proposer ed25519.PublicKey
	Payer    ed25519.PublicKey
}

func (p *Program) NewCreateProposalInstruction(
	accounts *CreateProposalInstructionAccounts,
	args *CreateProposalInstructionArgs,
) solana.Instruction {
	var offset int

	data := make([]byte,
		anchor.DiscriminatorSize+
			1+ // bump
			proposalInstructionsSize(args.Instructions))

	anchor.PutDiscriminator(data, createProposalInstructionDiscriminator, &offset)
	binary.PutUint8(data[offset:], args.Bump, &offset)
	putProposalInstructions(data, args.Instructions, &offset)

	return solana.NewInstruction(
		p.ID,
		data,
		solana.NewAccountMeta(accounts.Governor, false),
		solana.NewAccountMeta(accounts.Proposal, false),
		solana.NewReadonlyAccountMeta(accounts.Proposer, true),
		solana.NewAccountMeta(accounts.Payer, true),
		solana.NewReadonlyAccountMeta(system.ProgramKey[:], false),
	)
}
