package governor

import (
	"crypto/ed25519"
	"encoding/binary"

	"github.com/code-payments/governance-client/pkg/solana"
)

var (
	GovernorPrefix = []byte("TribecaGovernor")
	ProposalPrefix = []byte("TribecaProposal")
	VotePrefix     = []byte("TribecaVote")
)

type GetGovernorAddressArgs struct {
	Base ed25519.PublicKey
}

func (p *Program) GetGovernorAddress(args *GetGovernorAddressArgs) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		p.ID,
		GovernorPrefix,
		args.Base,
	)
}

type GetProposalAddressArgs struct {
	Governor ed25519.PublicKey
	Index    uint64
}

func (p *Program) GetProposalAddress(args *GetProposalAddressArgs) (ed25519.PublicKey, uint8, error) {
	index := make([]byte, 8)
	binary.LittleEndian.PutUint64(index, args.Index)

	return solana.FindProgramAddressAndBump(
		p.ID,
		ProposalPrefix,
		args.Governor,
		index,
	)
}

type GetVoteAddressArgs struct {
	Proposal ed25519.PublicKey
	Voter    ed25519.PublicKey
}

func (p *Program) GetVoteAddress(args *GetVoteAddressArgs) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		p.ID,
		VotePrefix,
		args.Proposal,
		args.Voter,
	)
}
