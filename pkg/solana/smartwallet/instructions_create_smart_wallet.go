package smartwallet

import (
	"crypto/ed25519"

	"github.com/code-payments/governance-client/pkg/solana"
	"github.com/code-payments/governance-client/pkg/solana/anchor"
	"github.com/code-payments/governance-client/pkg/solana/binary"
	"github.com/code-payments/governance-client/pkg/solana/system"
)

type CreateSmartWalletInstructionArgs struct {
	Bump         uint8
	MaxOwners    uint8
	Owners       []ed25519.PublicKey
	Threshold    uint64
	MinimumDelay int64
}

type CreateSmartWalletInstructionAccounts struct {
	Base        ed25519.PublicKey
	SmartWallet ed25519.PublicKey
	Payer       ed25519.PublicKey
}

func (p *Program) NewCreateSmartWalletInstruction(
	accounts *CreateSmartWalletInstructionAccounts,
	args *CreateSmartWalletInstructionArgs,
) solana.Instruction {
	var offset int

	// Serialize instruction arguments
	data := make([]byte,
		anchor.DiscriminatorSize+
			1+ // bump
			1+ // max_owners
			binary.BorshVecPrefixSize+len(args.Owners)*ed25519.PublicKeySize+
			8+ // threshold
			8) // minimum_delay

	anchor.PutDiscriminator(data, createSmartWalletInstructionDiscriminator, &offset)
	binary.PutUint8(data[offset:], args.Bump, &offset)
	binary.PutUint8(data[offset:], args.MaxOwners, &offset)
	binary.PutKey32Vec(data[offset:], args.Owners, &offset)
	binary.PutUint64(data[offset:], args.Threshold, &offset)
	binary.PutInt64(data[offset:], args.MinimumDelay, &offset)

	return solana.NewInstruction(
		p.ID,
		data,
		solana.NewReadonlyAccountMeta(accounts.Base, true),
		solana.NewAccountMeta(accounts.SmartWallet, false),
		solana.NewAccountMeta(accounts.Payer, true),
		solana.NewReadonlyAccountMeta(system.ProgramKey[:], false),
	)
}
