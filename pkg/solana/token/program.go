// Package token builds SPL token program instructions and decodes its
// account layouts.
package token

import (
	"crypto/ed25519"
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/code-payments/governance-client/pkg/solana"
	"github.com/code-payments/governance-client/pkg/solana/system"
)

// ProgramKey is TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA.
var ProgramKey = ed25519.PublicKey{6, 221, 246, 225, 215, 101, 161, 147, 217, 203, 225, 70, 206, 235, 121, 172, 28, 180, 133, 237, 95, 91, 55, 145, 58, 140, 245, 133, 126, 255, 0, 169}

var (
	// ErrInvalidTokenAccount means the address holds something other than an
	// initialized token account of the expected mint.
	ErrInvalidTokenAccount = errors.New("invalid token account")
	// ErrInvalidMint means the address holds something other than an
	// initialized mint.
	ErrInvalidMint = errors.New("invalid mint")
)

type Command byte

const (
	CommandInitializeMint Command = 0
	CommandMintTo         Command = 7
)

// InitializeMint sets up a freshly allocated mint account. A nil freeze
// authority leaves the mint without one.
//
// Accounts: [writable] mint, [] rent sysvar.
func InitializeMint(mint, mintAuthority, freezeAuthority ed25519.PublicKey, decimals byte) solana.Instruction {
	data := append([]byte{byte(CommandInitializeMint), decimals}, mintAuthority...)
	if len(freezeAuthority) == 0 {
		data = append(data, 0)
	} else {
		data = append(append(data, 1), freezeAuthority...)
	}

	return solana.NewInstruction(
		ProgramKey,
		data,
		solana.NewAccountMeta(mint, false),
		solana.NewReadonlyAccountMeta(system.RentSysVar, false),
	)
}

// MintTo issues amount new tokens into dest.
//
// Accounts: [writable] mint, [writable] destination, [signer] mint authority.
func MintTo(mint, dest, mintAuthority ed25519.PublicKey, amount uint64) solana.Instruction {
	data := binary.LittleEndian.AppendUint64([]byte{byte(CommandMintTo)}, amount)

	return solana.NewInstruction(
		ProgramKey,
		data,
		solana.NewAccountMeta(mint, false),
		solana.NewAccountMeta(dest, false),
		solana.NewReadonlyAccountMeta(mintAuthority, true),
	)
}
