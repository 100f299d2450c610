package lockedvoter

import (
	"crypto/ed25519"

	"github.com/code-payments/governance-client/pkg/solana"
	"github.com/code-payments/governance-client/pkg/solana/anchor"
	"github.com/code-payments/governance-client/pkg/solana/binary"
	"github.com/code-payments/governance-client/pkg/solana/system"
)

type NewLockerInstructionArgs struct {
	Bump   uint8
	Params LockerParams
}

type NewLockerInstructionAccounts struct {
	Base      ed25519.PublicKey
	Locker    ed25519.PublicKey
	TokenMint ed25519.PublicKey
	Governor  ed25519.PublicKey
	Payer     ed25519.PublicKey
}

func (p *Program) NewNewLockerInstruction(
	accounts *NewLockerInstructionAccounts,
	args *NewLockerInstructionArgs,
) solana.Instruction {
	var offset int

	data := make([]byte, anchor.DiscriminatorSize+1+LockerParamsSize)

	anchor.PutDiscriminator(data, newLockerInstructionDiscriminator, &offset)
	binary.PutUint8(data[offset:], args.Bump, &offset)
	putLockerParams(data, args.Params, &offset)

	return solana.NewInstruction(
		p.ID,
		data,
		solana.NewReadonlyAccountMeta(accounts.Base, true),
		solana.NewAccountMeta(accounts.Locker, false),
		solana.NewReadonlyAccountMeta(accounts.TokenMint, false),
		solana.NewReadonlyAccountMeta(accounts.Governor, false),
		solana.NewAccountMeta(accounts.Payer, true),
		solana.NewReadonlyAccountMeta(system.ProgramKey[:], false),
	)
}

type SetLockerParamsInstructionArgs struct {
	Params LockerParams
}

type SetLockerParamsInstructionAccounts struct {
	Locker      ed25519.PublicKey
	Governor    ed25519.PublicKey
	SmartWallet ed25519.PublicKey
}

// NewSetLockerParamsInstruction must be executed by the governor's smart
// wallet, so it is normally wrapped in a proposal.
func (p *Program) NewSetLockerParamsInstruction(
	accounts *SetLockerParamsInstructionAccounts,
	args *SetLockerParamsInstructionArgs,
) solana.Instruction {
	var offset int

	data := make([]byte, anchor.DiscriminatorSize+LockerParamsSize)

	anchor.PutDiscriminator(data, setLockerParamsInstructionDiscriminator, &offset)
	putLockerParams(data, args.Params, &offset)

	return solana.NewInstruction(
		p.ID,
		data,
		solana.NewAccountMeta(accounts.Locker, false),
		solana.NewReadonlyAccountMeta(accounts.Governor, false),
		solana.NewReadonlyAccountMeta(accounts.SmartWallet, true),
	)
}

type ApproveProgramLockPrivilegeInstructionArgs struct {
	Bump uint8
}

type ApproveProgramLockPrivilegeInstructionAccounts struct {
	Locker           ed25519.PublicKey
	WhitelistEntry   ed25519.PublicKey
	Governor         ed25519.PublicKey
	SmartWallet      ed25519.PublicKey
	ExecutableID     ed25519.PublicKey
	WhitelistedOwner ed25519.PublicKey
	Payer            ed25519.PublicKey
}

func (p *Program) NewApproveProgramLockPrivilegeInstruction(
	accounts *ApproveProgramLockPrivilegeInstructionAccounts,
	args *ApproveProgramLockPrivilegeInstructionArgs,
) solana.Instruction {
	var offset int

	data := make([]byte, anchor.DiscriminatorSize+1)

	anchor.PutDiscriminator(data, approveProgramLockPrivilegeInstructionDiscriminator, &offset)
	binary.PutUint8(data[offset:], args.Bump, &offset)

	return solana.NewInstruction(
		p.ID,
		data,
		solana.NewReadonlyAccountMeta(accounts.Locker, false),
		solana.NewAccountMeta(accounts.WhitelistEntry, false),
		solana.NewReadonlyAccountMeta(accounts.Governor, false),
		solana.NewReadonlyAccountMeta(accounts.SmartWallet, true),
		solana.NewReadonlyAccountMeta(accounts.ExecutableID, false),
		solana.NewReadonlyAccountMeta(accounts.WhitelistedOwner, false),
		solana.NewAccountMeta(accounts.Payer, true),
		solana.NewReadonlyAccountMeta(system.ProgramKey[:], false),
	)
}

type RevokeProgramLockPrivilegeInstructionAccounts struct {
	Locker         ed25519.PublicKey
	WhitelistEntry ed25519.PublicKey
	Governor       ed25519.PublicKey
	SmartWallet    ed25519.PublicKey
	Payer          ed25519.PublicKey
}

func (p *Program) NewRevokeProgramLockPrivilegeInstruction(
	accounts *RevokeProgramLockPrivilegeInstructionAccounts,
) solana.Instruction {
	return solana.NewInstruction(
		p.ID,
		discriminatorOnly(revokeProgramLockPrivilegeInstructionDiscriminator),
		solana.NewReadonlyAccountMeta(accounts.Locker, false),
		solana.NewAccountMeta(accounts.WhitelistEntry, false),
		solana.NewReadonlyAccountMeta(accounts.Governor, false),
		solana.NewReadonlyAccountMeta(accounts.SmartWallet, true),
		solana.NewAccountMeta(accounts.Payer, true),
	)
}

func discriminatorOnly(discriminator []byte) []byte {
	data := make([]byte, anchor.DiscriminatorSize)
	copy(data, discriminator)
	return data
}
