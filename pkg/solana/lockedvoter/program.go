// Package lockedvoter is a client for the locked-voter program: lockers,
// vote escrows, and the redeemer extension with its blacklist.
package lockedvoter

import (
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/code-payments/governance-client/pkg/solana"
)

var (
	ErrInvalidAccountData = errors.New("unexpected account data")
)

var PROGRAM_ID = solana.MustPublicKeyFromBase58("8tAhS8CX7if6tQWAqUSK1kebGbU1WCH3jBwafq2bifMw")

// BPF_LOADER_UPGRADEABLE_ID owns the program data account create_redeemer
// checks the upgrade authority against.
var BPF_LOADER_UPGRADEABLE_ID = solana.MustPublicKeyFromBase58("BPFLoaderUpgradeab1e11111111111111111111111")

var (
	newLockerInstructionDiscriminator                   = []byte{177, 133, 32, 90, 229, 216, 131, 47}
	newEscrowInstructionDiscriminator                   = []byte{216, 182, 143, 11, 220, 38, 86, 185}
	lockInstructionDiscriminator                        = []byte{21, 19, 208, 43, 237, 62, 255, 87}
	lockWithWhitelistInstructionDiscriminator           = []byte{138, 141, 28, 193, 7, 211, 181, 69}
	lockPermissionlessInstructionDiscriminator          = []byte{146, 106, 208, 36, 187, 241, 122, 2}
	extendLockDurationInstructionDiscriminator          = []byte{177, 105, 196, 129, 153, 137, 136, 230}
	exitInstructionDiscriminator                        = []byte{234, 32, 12, 71, 126, 5, 219, 160}
	activateProposalInstructionDiscriminator            = []byte{90, 186, 203, 234, 70, 185, 191, 21}
	castVoteInstructionDiscriminator                    = []byte{20, 212, 15, 189, 69, 180, 69, 151}
	setVoteDelegateInstructionDiscriminator             = []byte{46, 236, 241, 243, 251, 108, 156, 12}
	setLockerParamsInstructionDiscriminator             = []byte{106, 39, 132, 84, 254, 77, 161, 169}
	approveProgramLockPrivilegeInstructionDiscriminator = []byte{75, 202, 1, 4, 122, 110, 102, 148}
	revokeProgramLockPrivilegeInstructionDiscriminator  = []byte{170, 151, 7, 88, 194, 86, 245, 112}
	instantWithdrawInstructionDiscriminator             = []byte{171, 49, 145, 176, 48, 101, 112, 162}
	createRedeemerInstructionDiscriminator              = []byte{137, 228, 81, 63, 209, 33, 131, 195}
	updateRedeemerAdminInstructionDiscriminator         = []byte{255, 76, 155, 86, 174, 181, 160, 23}
	acceptRedeemerAdminInstructionDiscriminator         = []byte{157, 64, 94, 70, 59, 145, 34, 221}
	updateTreasuryInstructionDiscriminator              = []byte{60, 16, 243, 66, 96, 59, 254, 131}
	addBlacklistEntryInstructionDiscriminator           = []byte{56, 19, 245, 87, 160, 166, 66, 140}
	removeBlacklistEntryInstructionDiscriminator        = []byte{132, 199, 209, 126, 114, 99, 69, 70}
	addFundsInstructionDiscriminator                    = []byte{132, 237, 76, 57, 80, 10, 179, 138}
	removeAllFundsInstructionDiscriminator              = []byte{219, 199, 172, 64, 166, 229, 137, 132}
	toggleRedeemerInstructionDiscriminator              = []byte{196, 163, 149, 215, 214, 205, 22, 15}
	updateRedemptionRateInstructionDiscriminator        = []byte{201, 11, 226, 110, 192, 77, 0, 36}
	addRewardInstructionDiscriminator                   = []byte{4, 114, 188, 164, 149, 249, 198, 237}
	claimRewardsInstructionDiscriminator                = []byte{4, 144, 132, 71, 116, 23, 151, 80}

	lockerAccountDiscriminator         = []byte{74, 246, 6, 113, 249, 228, 75, 169}
	escrowAccountDiscriminator         = []byte{31, 213, 123, 187, 186, 22, 218, 155}
	redeemerAccountDiscriminator       = []byte{67, 2, 23, 69, 187, 187, 71, 26}
	blacklistAccountDiscriminator      = []byte{131, 9, 212, 250, 58, 186, 247, 3}
	whitelistEntryAccountDiscriminator = []byte{128, 245, 238, 138, 226, 48, 216, 63}
)

// Program binds address derivation and instruction building to one
// deployment of the locked-voter program.
type Program struct {
	ID ed25519.PublicKey
}

func New(id ed25519.PublicKey) *Program {
	if len(id) == 0 {
		id = PROGRAM_ID
	}
	return &Program{ID: id}
}
