package lockedvoter

import (
	"crypto/ed25519"

	"github.com/code-payments/governance-client/pkg/solana"
)

var (
	LockerPrefix         = []byte("Locker")
	EscrowPrefix         = []byte("Escrow")
	RedeemerPrefix       = []byte("Redeemer")
	BlacklistPrefix      = []byte("Blacklist")
	WhitelistEntryPrefix = []byte("LockerWhitelistEntry")
	RewardVaultPrefix    = []byte("reward_vault")
	LockerVaultPrefix    = []byte("vault")
)

type GetLockerAddressArgs struct {
	Base ed25519.PublicKey
}

func (p *Program) GetLockerAddress(args *GetLockerAddressArgs) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		p.ID,
		LockerPrefix,
		args.Base,
	)
}

type GetEscrowAddressArgs struct {
	Locker ed25519.PublicKey
	Owner  ed25519.PublicKey
}

func (p *Program) GetEscrowAddress(args *GetEscrowAddressArgs) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		p.ID,
		EscrowPrefix,
		args.Locker,
		args.Owner,
	)
}

type GetRedeemerAddressArgs struct {
	Locker      ed25519.PublicKey
	ReceiptMint ed25519.PublicKey
}

func (p *Program) GetRedeemerAddress(args *GetRedeemerAddressArgs) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		p.ID,
		RedeemerPrefix,
		args.Locker,
		args.ReceiptMint,
	)
}

type GetBlacklistAddressArgs struct {
	Locker ed25519.PublicKey
	Escrow ed25519.PublicKey
}

func (p *Program) GetBlacklistAddress(args *GetBlacklistAddressArgs) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		p.ID,
		BlacklistPrefix,
		args.Locker,
		args.Escrow,
	)
}

type GetWhitelistEntryAddressArgs struct {
	Locker     ed25519.PublicKey
	Executable ed25519.PublicKey
	Owner      ed25519.PublicKey
}

func (p *Program) GetWhitelistEntryAddress(args *GetWhitelistEntryAddressArgs) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		p.ID,
		WhitelistEntryPrefix,
		args.Locker,
		args.Executable,
		args.Owner,
	)
}

type GetRewardVaultAddressArgs struct {
	RewardMint ed25519.PublicKey
}

func (p *Program) GetRewardVaultAddress(args *GetRewardVaultAddressArgs) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		p.ID,
		RewardVaultPrefix,
		args.RewardMint,
	)
}

type GetLockerVaultAddressArgs struct {
	Locker ed25519.PublicKey
}

func (p *Program) GetLockerVaultAddress(args *GetLockerVaultAddressArgs) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		p.ID,
		LockerVaultPrefix,
		args.Locker,
	)
}

// GetProgramDataAddress returns the upgradeable loader's program data account
// for this deployment.
func (p *Program) GetProgramDataAddress() (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		BPF_LOADER_UPGRADEABLE_ID,
		p.ID,
	)
}
