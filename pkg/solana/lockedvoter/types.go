package lockedvoter

import (
	"github.com/code-payments/governance-client/pkg/solana/binary"
)

const LockerParamsSize = (1 + // whitelist_enabled
	1 + // max_stake_vote_multiplier
	8 + // min_stake_duration
	8 + // max_stake_duration
	8) // proposal_activation_min_votes

type LockerParams struct {
	WhitelistEnabled           bool
	MaxStakeVoteMultiplier     uint8
	MinStakeDuration           uint64
	MaxStakeDuration           uint64
	ProposalActivationMinVotes uint64
}

func putLockerParams(dst []byte, v LockerParams, offset *int) {
	binary.PutBool(dst[*offset:], v.WhitelistEnabled, offset)
	binary.PutUint8(dst[*offset:], v.MaxStakeVoteMultiplier, offset)
	binary.PutUint64(dst[*offset:], v.MinStakeDuration, offset)
	binary.PutUint64(dst[*offset:], v.MaxStakeDuration, offset)
	binary.PutUint64(dst[*offset:], v.ProposalActivationMinVotes, offset)
}

func getLockerParams(src []byte, dst *LockerParams, offset *int) {
	binary.GetBool(src[*offset:], &dst.WhitelistEnabled, offset)
	binary.GetUint8(src[*offset:], &dst.MaxStakeVoteMultiplier, offset)
	binary.GetUint64(src[*offset:], &dst.MinStakeDuration, offset)
	binary.GetUint64(src[*offset:], &dst.MaxStakeDuration, offset)
	binary.GetUint64(src[*offset:], &dst.ProposalActivationMinVotes, offset)
}

type RedeemerStatus uint8

const (
	RedeemerStatusPaused RedeemerStatus = iota
	RedeemerStatusActive
)

func (s RedeemerStatus) String() string {
	switch s {
	case RedeemerStatusPaused:
		return "paused"
	case RedeemerStatusActive:
		return "active"
	}
	return "unknown"
}
