// Package smartwallet is a client for the Goki smart wallet (multisig) program.
package smartwallet

import (
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/code-payments/governance-client/pkg/solana"
)

var (
	ErrInvalidAccountData = errors.New("unexpected account data")
)

// PROGRAM_ID is the mainnet deployment of the smart wallet program.
var PROGRAM_ID = solana.MustPublicKeyFromBase58("GokivDYuQXPZCWRkwMhdH2h91KpDQXBEmpgBgs55bnpH")

var (
	createSmartWalletInstructionDiscriminator = []byte{129, 39, 235, 18, 132, 68, 203, 19}

	smartWalletAccountDiscriminator = []byte{67, 59, 220, 179, 41, 10, 60, 177}
)

// Program binds address derivation and instruction building to one
// deployment of the smart wallet program.
type Program struct {
	ID ed25519.PublicKey
}

// New returns a Program for the given program id, falling back to
// PROGRAM_ID when id is empty.
func New(id ed25519.PublicKey) *Program {
	if len(id) == 0 {
		id = PROGRAM_ID
	}
	return &Program{ID: id}
}
