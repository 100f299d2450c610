package computebudget

import (
	"crypto/ed25519"
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/code-payments/governance-client/pkg/solana"
)

// ComputeBudget111111111111111111111111111111
var ProgramKey = ed25519.PublicKey{3, 6, 70, 111, 229, 33, 23, 50, 255, 236, 173, 186, 114, 195, 155, 231, 188, 140, 229, 187, 197, 247, 18, 107, 44, 67, 155, 58, 64, 0, 0, 0}

// Instruction tags 0 (RequestUnits) and 1 (RequestHeapFrame) are never built.
const (
	tagSetComputeUnitLimit byte = 2
	tagSetComputeUnitPrice byte = 3
)

// MaxComputeUnitLimit is the largest compute budget a transaction may request.
const MaxComputeUnitLimit = 1_400_000

var ErrInvalidInstructionData = errors.New("invalid compute budget instruction data")

// SetComputeUnitLimit caps the compute units the transaction may consume.
func SetComputeUnitLimit(limit uint32) solana.Instruction {
	return solana.NewInstruction(
		ProgramKey,
		binary.LittleEndian.AppendUint32([]byte{tagSetComputeUnitLimit}, limit),
	)
}

// SetComputeUnitPrice sets the priority fee in micro-lamports per compute unit.
func SetComputeUnitPrice(microLamports uint64) solana.Instruction {
	return solana.NewInstruction(
		ProgramKey,
		binary.LittleEndian.AppendUint64([]byte{tagSetComputeUnitPrice}, microLamports),
	)
}

// WithBudget prepends budget instructions to ixns. A zero limit or price
// leaves the cluster default in place for that parameter. Limits above
// MaxComputeUnitLimit are clamped.
func WithBudget(limit uint32, price uint64, ixns ...solana.Instruction) []solana.Instruction {
	budget := make([]solana.Instruction, 0, 2+len(ixns))
	if limit > MaxComputeUnitLimit {
		limit = MaxComputeUnitLimit
	}
	if limit > 0 {
		budget = append(budget, SetComputeUnitLimit(limit))
	}
	if price > 0 {
		budget = append(budget, SetComputeUnitPrice(price))
	}
	return append(budget, ixns...)
}

func ParseSetComputeUnitLimitIxnData(data []byte) (uint32, error) {
	payload, err := payloadFor(data, tagSetComputeUnitLimit, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(payload), nil
}

func ParseSetComputeUnitPriceIxnData(data []byte) (uint64, error) {
	payload, err := payloadFor(data, tagSetComputeUnitPrice, 8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(payload), nil
}

func payloadFor(data []byte, tag byte, size int) ([]byte, error) {
	if len(data) != 1+size || data[0] != tag {
		return nil, ErrInvalidInstructionData
	}
	return data[1:], nil
}
