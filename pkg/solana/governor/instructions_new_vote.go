package governor

import (
	"crypto/ed25519"

	"github.com/code-payments/governance-client/pkg/solana"
	"github.com/code-payments/governance-client/pkg/solana/anchor"
	"github.com/code-payments/governance-client/pkg/solana/binary"
	"github.com/code-payments/governance-client/pkg/solana/system"
)

const (
	NewVoteInstructionArgsSize = (1 + // bump
		32) // voter
)

type NewVoteInstructionArgs struct {
	Bump  uint8
	Voter ed25519.PublicKey
}

type NewVoteInstructionAccounts struct {
	Proposal ed25519.PublicKey
	Vote     ed25519.PublicKey
	Payer    ed25519.PublicKey
}

func (p *Program) NewNewVoteInstruction(
	accounts *NewVoteInstructionAccounts,
	args *NewVoteInstructionArgs,
) solana.Instruction {
	var offset int

	data := make([]byte, anchor.DiscriminatorSize+NewVoteInstructionArgsSize)

	anchor.PutDiscriminator(data, newVoteInstructionDiscriminator, &offset)
	binary.PutUint8(data[offset:], args.Bump, &offset)
	binary.PutKey32(data[offset:], args.Voter, &offset)

	return solana.NewInstruction(
		p.ID,
		data,
		solana.NewReadonlyAccountMeta(accounts.Proposal, false),
		solana.NewAccountMeta(accounts.Vote, false),
		solana.NewAccountMeta(accounts.Payer, true),
		solana.NewReadonlyAccountMeta(system.ProgramKey[:], false),
	)
}
