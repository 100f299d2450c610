package governor

import (
	"crypto/ed25519"

	"github.com/code-payments/governance-client/pkg/solana"
	"github.com/code-payments/governance-client/pkg/solana/anchor"
	"github.com/code-payments/governance-client/pkg/solana/binary"
	"github.com/code-payments/governance-client/pkg/solana/system"
)

const (
	CreateGovernorInstructionArgsSize = (1 + // bump
		32 + // electorate
		GovernanceParametersSize) // params
)

type CreateGovernorInstructionArgs struct {
	Bump       uint8
	Electorate ed25519.PublicKey
	Params     GovernanceParameters
}

type CreateGovernorInstructionAccounts struct {
	Base        ed25519.PublicKey
	Governor    ed25519.PublicKey
	SmartWallet ed25519.PublicKey
	Payer       ed25519.PublicKey
}

func (p *Program) NewCreateGovernorInstruction(
	accounts *CreateGovernorInstructionAccounts,
	args *CreateGovernorInstructionArgs,
) solana.Instruction {
	var offset int

	data := make([]byte, anchor.DiscriminatorSize+CreateGovernorInstructionArgsSize)

	anchor.PutDiscriminator(data, createGovernorInstructionDiscriminator, &offset)
	binary.PutUint8(data[offset:], args.Bump, &offset)
	binary.PutKey32(data[offset:], args.Electorate, &offset)
	putGovernanceParameters(data, args.Params, &offset)

	return solana.NewInstruction(
		p.ID,
		data,
		solana.NewReadonlyAccountMeta(accounts.Base, true),
		solana.NewAccountMeta(accounts.Governor, false),
		solana.NewReadonlyAccountMeta(accounts.SmartWallet, false),
		solana.NewAccountMeta(accounts.Payer, true),
		solana.NewReadonlyAccountMeta(system.ProgramKey[:], false),
	)
}
