package lockedvoter

import (
	"crypto/ed25519"

	"github.com/code-payments/governance-client/pkg/solana"
	"github.com/code-payments/governance-client/pkg/solana/system"
	"github.com/code-payments/governance-client/pkg/solana/token"
)

type BlacklistEntryInstructionAccounts struct {
	Locker    ed25519.PublicKey
	Redeemer  ed25519.PublicKey
	Escrow    ed25519.PublicKey
	Blacklist ed25519.PublicKey
	Payer     ed25519.PublicKey
}

// NewAddBlacklistEntryInstruction creates the escrow's blacklist account,
// which blocks instant withdrawal for as long as it exists.
func (p *Program) NewAddBlacklistEntryInstruction(
	accounts *BlacklistEntryInstructionAccounts,
) solana.Instruction {
	return solana.NewInstruction(
		p.ID,
		discriminatorOnly(addBlacklistEntryInstructionDiscriminator),
		solana.NewReadonlyAccountMeta(accounts.Locker, false),
		solana.NewReadonlyAccountMeta(accounts.Redeemer, false),
		solana.NewReadonlyAccountMeta(accounts.Escrow, false),
		solana.NewAccountMeta(accounts.Blacklist, false),
		solana.NewAccountMeta(accounts.Payer, true),
		solana.NewReadonlyAccountMeta(system.ProgramKey[:], false),
		solana.NewReadonlyAccountMeta(system.ClockSysVar, false),
	)
}

func (p *Program) NewRemoveBlacklistEntryInstruction(
	accounts *BlacklistEntryInstructionAccounts,
) solana.Instruction {
	return solana.NewInstruction(
		p.ID,
		discriminatorOnly(removeBlacklistEntryInstructionDiscriminator),
		solana.NewReadonlyAccountMeta(accounts.Locker, false),
		solana.NewReadonlyAccountMeta(accounts.Redeemer, false),
		solana.NewReadonlyAccountMeta(accounts.Escrow, false),
		solana.NewAccountMeta(accounts.Blacklist, false),
		solana.NewAccountMeta(accounts.Payer, true),
		solana.NewReadonlyAccountMeta(system.ProgramKey[:], false),
	)
}

type InstantWithdrawInstructionAccounts struct {
	Locker                 ed25519.PublicKey
	Redeemer               ed25519.PublicKey
	Escrow                 ed25519.PublicKey
	Blacklist              ed25519.PublicKey
	ReceiptMint            ed25519.PublicKey
	RedeemerReceiptAccount ed25519.PublicKey
	EscrowTokens           ed25519.PublicKey
	TreasuryTokenAccount   ed25519.PublicKey
	UserReceipt            ed25519.PublicKey
	Payer                  ed25519.PublicKey
}

// NewInstantWithdrawInstruction moves the escrow's tokens to the treasury in
// exchange for receipt tokens. It initializes the escrow's blacklist account,
// so it succeeds at most once per escrow.
func (p *Program) NewInstantWithdrawInstruction(
	accounts *InstantWithdrawInstructionAccounts,
) solana.Instruction {
	return solana.NewInstruction(
		p.ID,
		discriminatorOnly(instantWithdrawInstructionDiscriminator),
		solana.NewAccountMeta(accounts.Locker, false),
		solana.NewAccountMeta(accounts.Redeemer, false),
		solana.NewAccountMeta(accounts.Escrow, false),
		solana.NewAccountMeta(accounts.Blacklist, false),
		solana.NewAccountMeta(accounts.ReceiptMint, false),
		solana.NewAccountMeta(accounts.RedeemerReceiptAccount, false),
		solana.NewAccountMeta(accounts.EscrowTokens, false),
		solana.NewAccountMeta(accounts.TreasuryTokenAccount, false),
		solana.NewAccountMeta(accounts.UserReceipt, false),
		solana.NewAccountMeta(accounts.Payer, true),
		solana.NewReadonlyAccountMeta(token.ProgramKey, false),
		solana.NewReadonlyAccountMeta(system.ClockSysVar, false),
		solana.NewReadonlyAccountMeta(system.ProgramKey[:], false),
	)
}
