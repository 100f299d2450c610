package governor

import (
	"crypto/ed25519"

	"github.com/code-payments/governance-client/pkg/solana/binary"
)

const GovernanceParametersSize = (8 + // voting_delay
	8 + // voting_period
	8 + // quorum_votes
	8) // timelock_delay_seconds

type GovernanceParameters struct {
	VotingDelay          uint64
	VotingPeriod         uint64
	QuorumVotes          uint64
	TimelockDelaySeconds int64
}

func putGovernanceParameters(dst []byte, v GovernanceParameters, offset *int) {
	binary.PutUint64(dst[*offset:], v.VotingDelay, offset)
	binary.PutUint64(dst[*offset:], v.VotingPeriod, offset)
	binary.PutUint64(dst[*offset:], v.QuorumVotes, offset)
	binary.PutInt64(dst[*offset:], v.TimelockDelaySeconds, offset)
}

func getGovernanceParameters(src []byte, dst *GovernanceParameters, offset *int) {
	binary.GetUint64(src[*offset:], &dst.VotingDelay, offset)
	binary.GetUint64(src[*offset:], &dst.VotingPeriod, offset)
	binary.GetUint64(src[*offset:], &dst.QuorumVotes, offset)
	binary.GetInt64(src[*offset:], &dst.TimelockDelaySeconds, offset)
}

// ProposalAccountMeta mirrors solana.AccountMeta inside a stored proposal.
type ProposalAccountMeta struct {
	PublicKey  ed25519.PublicKey
	IsSigner   bool
	IsWritable bool
}

// ProposalInstruction is an instruction the smart wallet executes once a
// proposal passes and is queued.
type ProposalInstruction struct {
	ProgramID ed25519.PublicKey
	Keys      []ProposalAccountMeta
	Data      []byte
}

const proposalAccountMetaSize = 32 + 1 + 1

func (i ProposalInstruction) size() int {
	return 32 + // program_id
		binary.BorshVecPrefixSize + len(i.Keys)*proposalAccountMetaSize + // keys
		binary.BorshVecPrefixSize + len(i.Data) // data
}

func proposalInstructionsSize(ixns []ProposalInstruction) int {
	size := binary.BorshVecPrefixSize
	for _, ixn := range ixns {
		size += ixn.size()
	}
	return size
}

func putProposalInstructions(dst []byte, v []ProposalInstruction, offset *int) {
	binary.PutUint32(dst[*offset:], uint32(len(v)), offset)
	for _, ixn := range v {
		binary.PutKey32(dst[*offset:], ixn.ProgramID, offset)
		binary.PutUint32(dst[*offset:], uint32(len(ixn.Keys)), offset)
		for _, key := range ixn.Keys {
			binary.PutKey32(dst[*offset:], key.PublicKey, offset)
			binary.PutBool(dst[*offset:], key.IsSigner, offset)
			binary.PutBool(dst[*offset:], key.IsWritable, offset)
		}
		binary.PutBytesVec(dst[*offset:], ixn.Data, offset)
	}
}

// getProposalInstructions reads a Vec<ProposalInstruction>, reporting false
// if src is too short for the lengths it declares.
func getProposalInstructions(src []byte, dst *[]ProposalInstruction, offset *int) bool {
	remaining := func(n int) bool { return len(src)-*offset >= n }

	if !remaining(binary.BorshVecPrefixSize) {
		return false
	}
	var count uint32
	binary.GetUint32(src[*offset:], &count, offset)

	var res []ProposalInstruction
	for i := uint32(0); i < count; i++ {
		var ixn ProposalInstruction

		if !remaining(32 + binary.BorshVecPrefixSize) {
			return false
		}
		binary.GetKey32(src[*offset:], &ixn.ProgramID, offset)

		var numKeys uint32
		binary.GetUint32(src[*offset:], &numKeys, offset)
		if !remaining(int(numKeys) * proposalAccountMetaSize) {
			return false
		}
		for j := uint32(0); j < numKeys; j++ {
			var key ProposalAccountMeta
			binary.GetKey32(src[*offset:], &key.PublicKey, offset)
			binary.GetBool(src[*offset:], &key.IsSigner, offset)
			binary.GetBool(src[*offset:], &key.IsWritable, offset)
			ixn.Keys = append(ixn.Keys, key)
		}

		if !remaining(binary.BorshVecPrefixSize) {
			return false
		}
		var dataLen uint32
		binary.GetUint32(src[*offset:], &dataLen, offset)
		if !remaining(int(dataLen)) {
			return false
		}
		ixn.Data = make([]byte, dataLen)
		copy(ixn.Data, src[*offset:])
		*offset += int(dataLen)

		res = append(res, ixn)
	}

	*dst = res
	return true
}
