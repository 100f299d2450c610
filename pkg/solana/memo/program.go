package memo

import (
	"bytes"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/code-payments/governance-client/pkg/solana"
)

// ProgramKey is the SPL memo program, which every cluster and the local test
// validator ship with.
var ProgramKey = solana.MustPublicKeyFromBase58("Memo1UhkJRfHyvLMcVucJwxXeuD728EqVDDwQDxFMNo")

// MaxLength keeps a memo well inside the transaction size limit.
const MaxLength = 256

var ErrInvalidMemo = errors.New("memo must be valid utf-8 of at most 256 bytes")

// Instruction returns a memo instruction carrying data. The program rejects
// data that isn't valid UTF-8.
//
// Reference: https://github.com/solana-labs/solana-program-library/blob/master/memo/program/src/entrypoint.rs
func Instruction(data string) (solana.Instruction, error) {
	if len(data) > MaxLength || !utf8.ValidString(data) {
		return solana.Instruction{}, ErrInvalidMemo
	}

	return solana.NewInstruction(ProgramKey, []byte(data)), nil
}

// Find returns the data of the first memo instruction in m.
func Find(m solana.Message) (string, bool) {
	for _, i := range m.Instructions {
		if int(i.ProgramIndex) >= len(m.Accounts) {
			continue
		}
		if bytes.Equal(m.Accounts[i.ProgramIndex], ProgramKey) {
			return string(i.Data), true
		}
	}
	return "", false
}
