package governor

import (
	"crypto/ed25519"

	"github.com/code-payments/governance-client/pkg/solana/anchor"
	"github.com/code-payments/governance-client/pkg/solana/binary"
)

const GovernorAccountSize = (anchor.DiscriminatorSize +
	32 + // base
	1 + // bump
	8 + // proposal_count
	32 + // electorate
	32 + // smart_wallet
	GovernanceParametersSize) // params

type GovernorAccount struct {
	Base          ed25519.PublicKey
	Bump          uint8
	ProposalCount uint64
	Electorate    ed25519.PublicKey
	SmartWallet   ed25519.PublicKey
	Params        GovernanceParameters
}

func (obj *GovernorAccount) Marshal() []byte {
	data := make([]byte, GovernorAccountSize)

	var offset int

	anchor.PutDiscriminator(data, governorAccountDiscriminator, &offset)
	binary.PutKey32(data[offset:], obj.Base, &offset)
	binary.PutUint8(data[offset:], obj.Bump, &offset)
	binary.PutUint64(data[offset:], obj.ProposalCount, &offset)
	binary.PutKey32(data[offset:], obj.Electorate, &offset)
	binary.PutKey32(data[offset:], obj.SmartWallet, &offset)
	putGovernanceParameters(data, obj.Params, &offset)

	return data
}

// Unmarshal accepts trailing bytes, since the program may allocate more
// space than the current layout uses.
func (obj *GovernorAccount) Unmarshal(data []byte) error {
	if len(data) < GovernorAccountSize {
		return ErrInvalidAccountData
	}

	if !anchor.HasDiscriminator(data, governorAccountDiscriminator) {
		return ErrInvalidAccountData
	}
	offset := anchor.DiscriminatorSize

	binary.GetKey32(data[offset:], &obj.Base, &offset)
	binary.GetUint8(data[offset:], &obj.Bump, &offset)
	binary.GetUint64(data[offset:], &obj.ProposalCount, &offset)
	binary.GetKey32(data[offset:], &obj.Electorate, &offset)
	binary.GetKey32(data[offset:], &obj.SmartWallet, &offset)
	getGovernanceParameters(data, &obj.Params, &offset)

	return nil
}
