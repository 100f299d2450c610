package system

import (
	"crypto/ed25519"

	"github.com/code-payments/governance-client/pkg/solana"
)

// https://explorer.solana.com/address/11111111111111111111111111111111
var SystemAccount ed25519.PublicKey

// RentSysVar points to the system variable "Rent"
//
// Source: https://github.com/solana-labs/solana/blob/f02a78d8fff2dd7297dc6ce6eb5a68a3002f5359/sdk/src/sysvar/rent.rs#L11
var RentSysVar ed25519.PublicKey

// ClockSysVar points to the system variable "Clock"
//
// Source: https://github.com/solana-labs/solana/blob/f02a78d8fff2dd7297dc6ce6eb5a68a3002f5359/sdk/program/src/sysvar/clock.rs#L7
var ClockSysVar ed25519.PublicKey

// InstructionsSysVar points to the system variable "Instructions", which the
// governance programs use to introspect the executing transaction.
var InstructionsSysVar ed25519.PublicKey

func init() {
	RentSysVar = solana.MustPublicKeyFromBase58("SysvarRent111111111111111111111111111111111")
	ClockSysVar = solana.MustPublicKeyFromBase58("SysvarC1ock11111111111111111111111111111111")
	InstructionsSysVar = solana.MustPublicKeyFromBase58("Sysvar1nstructions1111111111111111111111111")
	SystemAccount = solana.MustPublicKeyFromBase58("11111111111111111111111111111111")
}
