package solana

import (
	"bytes"
	"crypto/ed25519"
	"fmt"

	"github.com/mr-tron/base58"
)

// AccountMeta is an account referenced by an instruction, together with the
// access the instruction needs.
type AccountMeta struct {
	PublicKey  ed25519.PublicKey
	IsSigner   bool
	IsWritable bool

	isPayer   bool
	isProgram bool
}

func NewAccountMeta(pub ed25519.PublicKey, isSigner bool) AccountMeta {
	return AccountMeta{PublicKey: pub, IsSigner: isSigner, IsWritable: true}
}

func NewReadonlyAccountMeta(pub ed25519.PublicKey, isSigner bool) AccountMeta {
	return AccountMeta{PublicKey: pub, IsSigner: isSigner}
}

func (m AccountMeta) String() string {
	return fmt.Sprintf("%s(signer=%t, writable=%t)", base58.Encode(m.PublicKey), m.IsSigner, m.IsWritable)
}

// before orders accounts the way a legacy message lays them out: the payer,
// then non-program accounts ahead of invoked programs, signers ahead of
// non-signers, writable ahead of readonly, and finally by key.
func (m AccountMeta) before(other AccountMeta) bool {
	switch {
	case m.isPayer != other.isPayer:
		return m.isPayer
	case m.isProgram != other.isProgram:
		return other.isProgram
	case m.IsSigner != other.IsSigner:
		return m.IsSigner
	case m.IsWritable != other.IsWritable:
		return m.IsWritable
	}
	return bytes.Compare(m.PublicKey, other.PublicKey) < 0
}

// merge widens m with the access other requests for the same key. Program
// status is taken from the first reference only.
func (m *AccountMeta) merge(other AccountMeta) {
	m.IsSigner = m.IsSigner || other.IsSigner
	m.IsWritable = m.IsWritable || other.IsWritable
	m.isPayer = m.isPayer || other.isPayer
}

type Instruction struct {
	Program  ed25519.PublicKey
	Accounts []AccountMeta
	Data     []byte
}

func NewInstruction(program ed25519.PublicKey, data []byte, accounts ...AccountMeta) Instruction {
	return Instruction{
		Program:  program,
		Data:     data,
		Accounts: accounts,
	}
}

// Signers returns the distinct accounts the instruction needs signatures
// from, in first reference order.
func (i Instruction) Signers() []ed25519.PublicKey {
	var signers []ed25519.PublicKey
	for _, account := range i.Accounts {
		if account.IsSigner && indexOf(signers, account.PublicKey) < 0 {
			signers = append(signers, account.PublicKey)
		}
	}
	return signers
}

// CompiledInstruction refers to its program and accounts by index into the
// message account list.
type CompiledInstruction struct {
	ProgramIndex byte
	Accounts     []byte
	Data         []byte
}
