package scenario

import (
	"math/big"

	"github.com/code-payments/governance-client/pkg/governance/common"
	"github.com/code-payments/governance-client/pkg/solana"
)

// State is everything the lifecycle has created so far. Each step receives
// the state left by its predecessor and returns it extended.
type State struct {
	RunID string

	GovernanceMint *common.Account
	ReceiptMint    *common.Account

	// The payer's token accounts for each mint
	GovernanceTokens *common.Account
	ReceiptTokens    *common.Account

	Base        *common.Account
	SmartWallet *common.Account
	Governor    *common.Account
	Locker      *common.Account

	Escrow       *common.Account
	EscrowTokens *common.Account
	VotingPower  *big.Int

	Redeemer       *common.Account
	RedeemerTokens *common.Account
	RedeemerAdmin  *common.Account
	Treasury       *common.Account
	Blacklist      *common.Account

	// Receipt tokens the payer got from instant withdrawal
	Redeemed uint64

	Signatures []solana.Signature
}

func (s State) withSignature(sig solana.Signature) State {
	s.Signatures = append(append([]solana.Signature(nil), s.Signatures...), sig)
	return s
}
