package lockedvoter

import (
	"crypto/ed25519"

	"github.com/code-payments/governance-client/pkg/solana"
	"github.com/code-payments/governance-client/pkg/solana/anchor"
	"github.com/code-payments/governance-client/pkg/solana/binary"
	"github.com/code-payments/governance-client/pkg/solana/token"
)

const AddRewardInstructionArgsSize = (8 + // amount
	8 + // start_ts
	8) // end_ts

type AddRewardInstructionArgs struct {
	Amount  uint64
	StartTs int64
	EndTs   int64
}

type AddRewardInstructionAccounts struct {
	Locker      ed25519.PublicKey
	RewardVault ed25519.PublicKey
	RewardMint  ed25519.PublicKey
	From        ed25519.PublicKey
	Admin       ed25519.PublicKey
}

func (p *Program) NewAddRewardInstruction(
	accounts *AddRewardInstructionAccounts,
	args *AddRewardInstructionArgs,
) solana.Instruction {
	var offset int

	data := make([]byte, anchor.DiscriminatorSize+AddRewardInstructionArgsSize)

	anchor.PutDiscriminator(data, addRewardInstructionDiscriminator, &offset)
	binary.PutUint64(data[offset:], args.Amount, &offset)
	binary.PutInt64(data[offset:], args.StartTs, &offset)
	binary.PutInt64(data[offset:], args.EndTs, &offset)

	return solana.NewInstruction(
		p.ID,
		data,
		solana.NewAccountMeta(accounts.Locker, false),
		solana.NewAccountMeta(accounts.RewardVault, false),
		solana.NewReadonlyAccountMeta(accounts.RewardMint, false),
		solana.NewAccountMeta(accounts.From, false),
		solana.NewReadonlyAccountMeta(accounts.Admin, true),
		solana.NewReadonlyAccountMeta(token.ProgramKey, false),
	)
}

type ClaimRewardsInstructionAccounts struct {
	Locker      ed25519.PublicKey
	Escrow      ed25519.PublicKey
	RewardVault ed25519.PublicKey
	RewardMint  ed25519.PublicKey
	To          ed25519.PublicKey
	Owner       ed25519.PublicKey
}

func (p *Program) NewClaimRewardsInstruction(
	accounts *ClaimRewardsInstructionAccounts,
) solana.Instruction {
	return solana.NewInstruction(
		p.ID,
		discriminatorOnly(claimRewardsInstructionDiscriminator),
		solana.NewReadonlyAccountMeta(accounts.Locker, false),
		solana.NewReadonlyAccountMeta(accounts.Escrow, false),
		solana.NewAccountMeta(accounts.RewardVault, false),
		solana.NewReadonlyAccountMeta(accounts.RewardMint, false),
		solana.NewAccountMeta(accounts.To, false),
		solana.NewReadonlyAccountMeta(accounts.Owner, true),
		solana.NewReadonlyAccountMeta(token.ProgramKey, false),
	)
}
