package lockedvoter

import (
	"crypto/ed25519"

	"github.com/code-payments/governance-client/pkg/solana"
	"github.com/code-payments/governance-client/pkg/solana/anchor"
	"github.com/code-payments/governance-client/pkg/solana/binary"
	"github.com/code-payments/governance-client/pkg/solana/system"
	"github.com/code-payments/governance-client/pkg/solana/token"
)

type NewEscrowInstructionArgs struct {
	Bump uint8
}

type NewEscrowInstructionAccounts struct {
	Locker      ed25519.PublicKey
	Escrow      ed25519.PublicKey
	EscrowOwner ed25519.PublicKey
	Payer       ed25519.PublicKey
}

func (p *Program) NewNewEscrowInstruction(
	accounts *NewEscrowInstructionAccounts,
	args *NewEscrowInstructionArgs,
) solana.Instruction {
	var offset int

	data := make([]byte, anchor.DiscriminatorSize+1)

	anchor.PutDiscriminator(data, newEscrowInstructionDiscriminator, &offset)
	binary.PutUint8(data[offset:], args.Bump, &offset)

	return solana.NewInstruction(
		p.ID,
		data,
		solana.NewReadonlyAccountMeta(accounts.Locker, false),
		solana.NewAccountMeta(accounts.Escrow, false),
		solana.NewReadonlyAccountMeta(accounts.EscrowOwner, false),
		solana.NewAccountMeta(accounts.Payer, true),
		solana.NewReadonlyAccountMeta(system.ProgramKey[:], false),
	)
}

const LockInstructionArgsSize = (8 + // amount
	8) // duration

type LockInstructionArgs struct {
	Amount   uint64
	Duration int64
}

type LockInstructionAccounts struct {
	Locker       ed25519.PublicKey
	Escrow       ed25519.PublicKey
	EscrowTokens ed25519.PublicKey
	EscrowOwner  ed25519.PublicKey
	SourceTokens ed25519.PublicKey
}

func (a *LockInstructionAccounts) metas() []solana.AccountMeta {
	return []solana.AccountMeta{
		solana.NewAccountMeta(a.Locker, false),
		solana.NewAccountMeta(a.Escrow, false),
		solana.NewAccountMeta(a.EscrowTokens, false),
		solana.NewReadonlyAccountMeta(a.EscrowOwner, true),
		solana.NewAccountMeta(a.SourceTokens, false),
		solana.NewReadonlyAccountMeta(token.ProgramKey, false),
	}
}

func lockData(discriminator []byte, args *LockInstructionArgs) []byte {
	var offset int

	data := make([]byte, anchor.DiscriminatorSize+LockInstructionArgsSize)

	anchor.PutDiscriminator(data, discriminator, &offset)
	binary.PutUint64(data[offset:], args.Amount, &offset)
	binary.PutInt64(data[offset:], args.Duration, &offset)

	return data
}

// NewLockPermissionlessInstruction locks tokens into an escrow of a locker
// without a CPI whitelist.
func (p *Program) NewLockPermissionlessInstruction(
	accounts *LockInstructionAccounts,
	args *LockInstructionArgs,
) solana.Instruction {
	return solana.NewInstruction(
		p.ID,
		lockData(lockPermissionlessInstructionDiscriminator, args),
		accounts.metas()...,
	)
}

// NewLockWithWhitelistInstruction locks tokens into an escrow of a locker
// with the whitelist enabled. The program inspects the instructions sysvar
// to check the caller.
func (p *Program) NewLockWithWhitelistInstruction(
	accounts *LockInstructionAccounts,
	args *LockInstructionArgs,
) solana.Instruction {
	metas := append(accounts.metas(), solana.NewReadonlyAccountMeta(system.InstructionsSysVar, false))

	return solana.NewInstruction(
		p.ID,
		lockData(lockWithWhitelistInstructionDiscriminator, args),
		metas...,
	)
}

// NewLockInstruction is the deprecated lock entry point. Whitelisted lockers
// expect the instructions sysvar and optional whitelist entry as remaining
// accounts.
func (p *Program) NewLockInstruction(
	accounts *LockInstructionAccounts,
	args *LockInstructionArgs,
	remaining ...solana.AccountMeta,
) solana.Instruction {
	metas := append(accounts.metas(), remaining...)

	return solana.NewInstruction(
		p.ID,
		lockData(lockInstructionDiscriminator, args),
		metas...,
	)
}

type ExtendLockDurationInstructionArgs struct {
	Duration int64
}

type ExtendLockDurationInstructionAccounts struct {
	Locker ed25519.PublicKey
	Escrow ed25519.PublicKey
	Owner  ed25519.PublicKey
}

func (p *Program) NewExtendLockDurationInstruction(
	accounts *ExtendLockDurationInstructionAccounts,
	args *ExtendLockDurationInstructionArgs,
) solana.Instruction {
	var offset int

	data := make([]byte, anchor.DiscriminatorSize+8)

	anchor.PutDiscriminator(data, extendLockDurationInstructionDiscriminator, &offset)
	binary.PutInt64(data[offset:], args.Duration, &offset)

	return solana.NewInstruction(
		p.ID,
		data,
		solana.NewReadonlyAccountMeta(accounts.Locker, false),
		solana.NewAccountMeta(accounts.Escrow, false),
		solana.NewReadonlyAccountMeta(accounts.Owner, true),
	)
}

type ExitInstructionAccounts struct {
	Locker            ed25519.PublicKey
	Escrow            ed25519.PublicKey
	EscrowOwner       ed25519.PublicKey
	EscrowTokens      ed25519.PublicKey
	DestinationTokens ed25519.PublicKey
	Payer             ed25519.PublicKey
}

// NewExitInstruction withdraws every token in an escrow. The program rejects
// it until the escrow's lock has ended.
func (p *Program) NewExitInstruction(
	accounts *ExitInstructionAccounts,
) solana.Instruction {
	return solana.NewInstruction(
		p.ID,
		discriminatorOnly(exitInstructionDiscriminator),
		solana.NewAccountMeta(accounts.Locker, false),
		solana.NewAccountMeta(accounts.Escrow, false),
		solana.NewReadonlyAccountMeta(accounts.EscrowOwner, true),
		solana.NewAccountMeta(accounts.EscrowTokens, false),
		solana.NewAccountMeta(accounts.DestinationTokens, false),
		solana.NewAccountMeta(accounts.Payer, true),
		solana.NewReadonlyAccountMeta(token.ProgramKey, false),
	)
}

type SetVoteDelegateInstructionArgs struct {
	NewDelegate ed25519.PublicKey
}

type SetVoteDelegateInstructionAccounts struct {
	Escrow      ed25519.PublicKey
	EscrowOwner ed25519.PublicKey
}

func (p *Program) NewSetVoteDelegateInstruction(
	accounts *SetVoteDelegateInstructionAccounts,
	args *SetVoteDelegateInstructionArgs,
) solana.Instruction {
	var offset int

	data := make([]byte, anchor.DiscriminatorSize+32)

	anchor.PutDiscriminator(data, setVoteDelegateInstructionDiscriminator, &offset)
	binary.PutKey32(data[offset:], args.NewDelegate, &offset)

	return solana.NewInstruction(
		p.ID,
		data,
		solana.NewAccountMeta(accounts.Escrow, false),
		solana.NewReadonlyAccountMeta(accounts.EscrowOwner, true),
	)
}
