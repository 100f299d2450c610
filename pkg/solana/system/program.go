// Package system builds system program instructions and decodes the sysvars
// the governance programs read.
package system

import (
	"crypto/ed25519"
	"encoding/binary"

	"github.com/code-payments/governance-client/pkg/solana"
)

// ProgramKey is 11111111111111111111111111111111.
var ProgramKey [32]byte

const (
	commandCreateAccount uint32 = 0
	commandTransfer      uint32 = 2
)

// CreateAccount allocates size bytes at address, owned by owner and funded
// with lamports. Both funder and address sign.
func CreateAccount(funder, address, owner ed25519.PublicKey, lamports, size uint64) solana.Instruction {
	data := binary.LittleEndian.AppendUint32(nil, commandCreateAccount)
	data = binary.LittleEndian.AppendUint64(data, lamports)
	data = binary.LittleEndian.AppendUint64(data, size)
	data = append(data, owner...)

	return solana.NewInstruction(
		ProgramKey[:],
		data,
		solana.NewAccountMeta(funder, true),
		solana.NewAccountMeta(address, true),
	)
}

// Transfer moves lamports between system owned accounts. from signs.
func Transfer(from, to ed25519.PublicKey, lamports uint64) solana.Instruction {
	data := binary.LittleEndian.AppendUint32(nil, commandTransfer)
	data = binary.LittleEndian.AppendUint64(data, lamports)

	return solana.NewInstruction(
		ProgramKey[:],
		data,
		solana.NewAccountMeta(from, true),
		solana.NewAccountMeta(to, false),
	)
}
