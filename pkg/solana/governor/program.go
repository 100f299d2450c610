// Package governor is a client for the Tribeca governor program.
package governor

import (
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/code-payments/governance-client/pkg/solana"
)

var (
	ErrInvalidAccountData = errors.New("unexpected account data")
)

var PROGRAM_ID = solana.MustPublicKeyFromBase58("EAY5qg4uiooRaTGGZNNTGiSuQPubjsaWuV6m2KkjiskU")

var (
	createGovernorInstructionDiscriminator = []byte{103, 30, 78, 252, 28, 128, 40, 3}
	createProposalInstructionDiscriminator = []byte{132, 116, 68, 174, 216, 160, 198, 22}
	newVoteInstructionDiscriminator        = []byte{163, 108, 157, 189, 140, 80, 13, 143}

	governorAccountDiscriminator = []byte{37, 136, 44, 80, 68, 85, 213, 178}
	proposalAccountDiscriminator = []byte{26, 94, 189, 187, 116, 136, 53, 33}
	voteAccountDiscriminator     = []byte{96, 91, 104, 57, 145, 35, 172, 155}
)

// VoteSide values stored in a Vote and passed to cast_vote.
type VoteSide uint8

const (
	VoteSidePending VoteSide = iota
	VoteSideAgainst
	VoteSideFor
	VoteSideAbstain
)

func (s VoteSide) String() string {
	switch s {
	case VoteSidePending:
		return "pending"
	case VoteSideAgainst:
		return "against"
	case VoteSideFor:
		return "for"
	case VoteSideAbstain:
		return "abstain"
	}
	return "unknown"
}

// ErrorCode is a custom program error returned by the governor.
type ErrorCode uint32

const (
	ErrInvalidVoteSide ErrorCode = iota + 6000
	ErrGovernorNotFound
	ErrVotingDelayNotMet
	ErrProposalNotDraft
	ErrProposalNotActive
)

var errorMessages = map[ErrorCode]string{
	ErrInvalidVoteSide:   "Invalid vote side.",
	ErrGovernorNotFound:  "The owner of the smart wallet doesn't match with current.",
	ErrVotingDelayNotMet: "The proposal cannot be activated since it has not yet passed the voting delay.",
	ErrProposalNotDraft:  "Only drafts can be canceled.",
	ErrProposalNotActive: "The proposal must be active.",
}

func (e ErrorCode) Error() string {
	if msg, ok := errorMessages[e]; ok {
		return msg
	}
	return "unknown governor error"
}

// Program binds address derivation and instruction building to one
// deployment of the governor program.
type Program struct {
	ID ed25519.PublicKey
}

func New(id ed25519.PublicKey) *Program {
	if len(id) == 0 {
		id = PROGRAM_ID
	}
	return &Program{ID: id}
}
