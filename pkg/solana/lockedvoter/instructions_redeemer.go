package lockedvoter

import (
	"crypto/ed25519"

	"github.com/code-payments/governance-client/pkg/solana"
	"github.com/code-payments/governance-client/pkg/solana/anchor"
	"github.com/code-payments/governance-client/pkg/solana/binary"
	"github.com/code-payments/governance-client/pkg/solana/system"
	"github.com/code-payments/governance-client/pkg/solana/token"
)

const CreateRedeemerInstructionArgsSize = (8 + // redemption_rate
	8 + // cutoff_date
	1) // bump

type CreateRedeemerInstructionArgs struct {
	RedemptionRate uint64
	CutoffDate     int64
	Bump           uint8
}

type CreateRedeemerInstructionAccounts struct {
	Locker               ed25519.PublicKey
	Redeemer             ed25519.PublicKey
	ReceiptMint          ed25519.PublicKey
	TreasuryTokenAccount ed25519.PublicKey
	Payer                ed25519.PublicKey
	ProgramData          ed25519.PublicKey
}

// NewCreateRedeemerInstruction creates a redeemer administered by the payer,
// who must also be the program's upgrade authority. The cutoff date must be
// in the past when the instruction executes.
func (p *Program) NewCreateRedeemerInstruction(
	accounts *CreateRedeemerInstructionAccounts,
	args *CreateRedeemerInstructionArgs,
) solana.Instruction {
	var offset int

	data := make([]byte, anchor.DiscriminatorSize+CreateRedeemerInstructionArgsSize)

	anchor.PutDiscriminator(data, createRedeemerInstructionDiscriminator, &offset)
	binary.PutUint64(data[offset:], args.RedemptionRate, &offset)
	binary.PutInt64(data[offset:], args.CutoffDate, &offset)
	binary.PutUint8(data[offset:], args.Bump, &offset)

	return solana.NewInstruction(
		p.ID,
		data,
		solana.NewReadonlyAccountMeta(accounts.Locker, false),
		solana.NewAccountMeta(accounts.Redeemer, false),
		solana.NewReadonlyAccountMeta(accounts.ReceiptMint, false),
		solana.NewAccountMeta(accounts.TreasuryTokenAccount, false),
		solana.NewAccountMeta(accounts.Payer, true),
		solana.NewReadonlyAccountMeta(p.ID, false),
		solana.NewReadonlyAccountMeta(accounts.ProgramData, false),
		solana.NewReadonlyAccountMeta(system.ProgramKey[:], false),
	)
}

type AddFundsInstructionArgs struct {
	Amount uint64
}

type AddFundsInstructionAccounts struct {
	Locker                 ed25519.PublicKey
	Redeemer               ed25519.PublicKey
	RedeemerReceiptAccount ed25519.PublicKey
	SourceTokenAccount     ed25519.PublicKey
	Payer                  ed25519.PublicKey
}

func (p *Program) NewAddFundsInstruction(
	accounts *AddFundsInstructionAccounts,
	args *AddFundsInstructionArgs,
) solana.Instruction {
	var offset int

	data := make([]byte, anchor.DiscriminatorSize+8)

	anchor.PutDiscriminator(data, addFundsInstructionDiscriminator, &offset)
	binary.PutUint64(data[offset:], args.Amount, &offset)

	return solana.NewInstruction(
		p.ID,
		data,
		solana.NewReadonlyAccountMeta(accounts.Locker, false),
		solana.NewAccountMeta(accounts.Redeemer, false),
		solana.NewAccountMeta(accounts.RedeemerReceiptAccount, false),
		solana.NewAccountMeta(accounts.SourceTokenAccount, false),
		solana.NewAccountMeta(accounts.Payer, true),
		solana.NewReadonlyAccountMeta(token.ProgramKey, false),
	)
}

type RemoveAllFundsInstructionAccounts struct {
	Locker                  ed25519.PublicKey
	Redeemer                ed25519.PublicKey
	RedeemerReceiptAccount  ed25519.PublicKey
	DestinationTokenAccount ed25519.PublicKey
	Payer                   ed25519.PublicKey
}

func (p *Program) NewRemoveAllFundsInstruction(
	accounts *RemoveAllFundsInstructionAccounts,
) solana.Instruction {
	return solana.NewInstruction(
		p.ID,
		discriminatorOnly(removeAllFundsInstructionDiscriminator),
		solana.NewReadonlyAccountMeta(accounts.Locker, false),
		solana.NewAccountMeta(accounts.Redeemer, false),
		solana.NewAccountMeta(accounts.RedeemerReceiptAccount, false),
		solana.NewAccountMeta(accounts.DestinationTokenAccount, false),
		solana.NewAccountMeta(accounts.Payer, true),
		solana.NewReadonlyAccountMeta(token.ProgramKey, false),
	)
}

type UpdateTreasuryInstructionAccounts struct {
	Locker      ed25519.PublicKey
	Redeemer    ed25519.PublicKey
	NewTreasury ed25519.PublicKey
	Payer       ed25519.PublicKey
}

func (p *Program) NewUpdateTreasuryInstruction(
	accounts *UpdateTreasuryInstructionAccounts,
) solana.Instruction {
	return solana.NewInstruction(
		p.ID,
		discriminatorOnly(updateTreasuryInstructionDiscriminator),
		solana.NewReadonlyAccountMeta(accounts.Locker, false),
		solana.NewAccountMeta(accounts.Redeemer, false),
		solana.NewReadonlyAccountMeta(accounts.NewTreasury, false),
		solana.NewReadonlyAccountMeta(accounts.Payer, true),
	)
}

type UpdateRedemptionRateInstructionArgs struct {
	NewRate uint64
}

type RedeemerAdminInstructionAccounts struct {
	Locker   ed25519.PublicKey
	Redeemer ed25519.PublicKey
	Payer    ed25519.PublicKey
}

func (p *Program) NewUpdateRedemptionRateInstruction(
	accounts *RedeemerAdminInstructionAccounts,
	args *UpdateRedemptionRateInstructionArgs,
) solana.Instruction {
	var offset int

	data := make([]byte, anchor.DiscriminatorSize+8)

	anchor.PutDiscriminator(data, updateRedemptionRateInstructionDiscriminator, &offset)
	binary.PutUint64(data[offset:], args.NewRate, &offset)

	return solana.NewInstruction(
		p.ID,
		data,
		solana.NewReadonlyAccountMeta(accounts.Locker, false),
		solana.NewAccountMeta(accounts.Redeemer, false),
		solana.NewReadonlyAccountMeta(accounts.Payer, true),
	)
}

type ToggleRedeemerInstructionArgs struct {
	ToggleTo RedeemerStatus
}

func (p *Program) NewToggleRedeemerInstruction(
	accounts *RedeemerAdminInstructionAccounts,
	args *ToggleRedeemerInstructionArgs,
) solana.Instruction {
	var offset int

	data := make([]byte, anchor.DiscriminatorSize+1)

	anchor.PutDiscriminator(data, toggleRedeemerInstructionDiscriminator, &offset)
	binary.PutUint8(data[offset:], uint8(args.ToggleTo), &offset)

	return solana.NewInstruction(
		p.ID,
		data,
		solana.NewReadonlyAccountMeta(accounts.Locker, false),
		solana.NewAccountMeta(accounts.Redeemer, false),
		solana.NewReadonlyAccountMeta(accounts.Payer, true),
	)
}

type UpdateRedeemerAdminInstructionAccounts struct {
	Locker       ed25519.PublicKey
	Redeemer     ed25519.PublicKey
	CurrentAdmin ed25519.PublicKey
	NewAdmin     ed25519.PublicKey
}

func (p *Program) NewUpdateRedeemerAdminInstruction(
	accounts *UpdateRedeemerAdminInstructionAccounts,
) solana.Instruction {
	return solana.NewInstruction(
		p.ID,
		discriminatorOnly(updateRedeemerAdminInstructionDiscriminator),
		solana.NewReadonlyAccountMeta(accounts.Locker, false),
		solana.NewAccountMeta(accounts.Redeemer, false),
		solana.NewReadonlyAccountMeta(accounts.CurrentAdmin, true),
		solana.NewReadonlyAccountMeta(accounts.NewAdmin, false),
	)
}

type AcceptRedeemerAdminInstructionAccounts struct {
	Locker       ed25519.PublicKey
	Redeemer     ed25519.PublicKey
	PendingAdmin ed25519.PublicKey
}

func (p *Program) NewAcceptRedeemerAdminInstruction(
	accounts *AcceptRedeemerAdminInstructionAccounts,
) solana.Instruction {
	return solana.NewInstruction(
		p.ID,
		discriminatorOnly(acceptRedeemerAdminInstructionDiscriminator),
		solana.NewReadonlyAccountMeta(accounts.Locker, false),
		solana.NewAccountMeta(accounts.Redeemer, false),
		solana.NewReadonlyAccountMeta(accounts.PendingAdmin, true),
	)
}
