// Package votingpower computes the vote weight of a locked-voter escrow.
package votingpower

import (
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/code-payments/governance-client/pkg/solana/lockedvoter"
)

// Calculate returns the voting power of escrow at unix time now.
//
// Power decays linearly with the remaining lockup: an escrow locked for at
// least the maximum stake duration votes with amount * multiplier, and one
// whose lockup has ended votes with nothing. The result is truncated the
// same way the program truncates it.
func Calculate(escrow *lockedvoter.EscrowAccount, params lockedvoter.LockerParams, now int64) *big.Int {
	if escrow == nil || escrow.EscrowStartedAt == 0 {
		return new(big.Int)
	}
	if now < escrow.EscrowStartedAt || now >= escrow.EscrowEndsAt {
		return new(big.Int)
	}
	if params.MaxStakeDuration == 0 {
		return new(big.Int)
	}

	remaining := new(big.Int).SetUint64(uint64(escrow.EscrowEndsAt - now))
	maxDuration := new(big.Int).SetUint64(params.MaxStakeDuration)
	if remaining.Cmp(maxDuration) > 0 {
		remaining = maxDuration
	}

	power := new(big.Int).SetUint64(escrow.Amount)
	power.Mul(power, big.NewInt(int64(params.MaxStakeVoteMultiplier)))
	power.Mul(power, remaining)
	return power.Quo(power, maxDuration)
}

// Display scales a raw power value down by the token's decimals.
func Display(power *big.Int, decimals uint8) decimal.Decimal {
	if power == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(power, -int32(decimals))
}

// Float64 is Display as a float, suitable only for logging and output.
func Float64(power *big.Int, decimals uint8) float64 {
	f, _ := Display(power, decimals).Float64()
	return f
}
