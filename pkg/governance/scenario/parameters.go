package scenario

import (
	"math/big"
	"time"

	"github.com/code-payments/governance-client/pkg/governance/common"
	"github.com/code-payments/governance-client/pkg/solana/governor"
	"github.com/code-payments/governance-client/pkg/solana/lockedvoter"
)

const week = 7 * 24 * time.Hour

// Parameters are the values the lifecycle runs with. Token amounts are raw
// (already scaled by Decimals).
type Parameters struct {
	Decimals   uint8
	MintAmount *big.Int

	LockAmount   *big.Int
	LockDuration time.Duration

	Locker lockedvoter.LockerParams

	Governance governor.GovernanceParameters

	RedemptionRate        uint64
	UpdatedRedemptionRate uint64
	RedeemerFunds         *big.Int

	// AdminFundingLamports is sent to the incoming redeemer admin, which pays
	// rent for the blacklist entries it creates.
	AdminFundingLamports uint64
}

func wholeTokens(whole, decimals int64) *big.Int {
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(decimals), nil)
	return new(big.Int).Mul(big.NewInt(whole), scale)
}

// DefaultParameters returns the standard lifecycle: 1000 tokens locked for
// 52 weeks against a 10x multiplier, redeemed at a rate of 10.
func DefaultParameters() Parameters {
	return Parameters{
		Decimals:   6,
		MintAmount: wholeTokens(1000, 6),

		LockAmount:   wholeTokens(1000, 6),
		LockDuration: 52 * week,

		Locker: lockedvoter.LockerParams{
			WhitelistEnabled:           true,
			MaxStakeVoteMultiplier:     10,
			MinStakeDuration:           uint64((week).Seconds()),
			MaxStakeDuration:           uint64((52 * week).Seconds()),
			ProposalActivationMinVotes: wholeTokens(2000, 6).Uint64(),
		},

		Governance: governor.GovernanceParameters{
			QuorumVotes: 10,
		},

		RedemptionRate:        10,
		UpdatedRedemptionRate: 20,
		RedeemerFunds:         wholeTokens(1000, 6),

		AdminFundingLamports: 10_000_000,
	}
}

// amounts are the parameters' token amounts in their on-chain width.
type amounts struct {
	mint          uint64
	lock          uint64
	lockDuration  int64
	redeemerFunds uint64
}

func (p Parameters) amounts() (*amounts, error) {
	mint, err := common.ToUint64("mint_amount", p.MintAmount)
	if err != nil {
		return nil, err
	}

	lock, err := common.ToUint64("lock_amount", p.LockAmount)
	if err != nil {
		return nil, err
	}
	if lock > mint {
		return nil, common.NewInvalidArgumentError("lock_amount", "exceeds mint_amount")
	}

	funds, err := common.ToUint64("redeemer_funds", p.RedeemerFunds)
	if err != nil {
		return nil, err
	}
	if funds > mint {
		return nil, common.NewInvalidArgumentError("redeemer_funds", "exceeds mint_amount")
	}

	if p.LockDuration < time.Second {
		return nil, common.NewInvalidArgumentError("lock_duration", "must be at least one second")
	}
	if p.RedemptionRate == 0 || p.UpdatedRedemptionRate == 0 {
		return nil, common.NewInvalidArgumentError("redemption_rate", "must be non-zero")
	}

	return &amounts{
		mint:          mint,
		lock:          lock,
		lockDuration:  int64(p.LockDuration.Seconds()),
		redeemerFunds: funds,
	}, nil
}
