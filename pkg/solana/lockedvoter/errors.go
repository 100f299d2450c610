package lockedvoter

import "strings"

// Anchor numbers each error enum from 6000, so the locker errors and the
// redeemer errors share custom codes. Program logs are the only way to tell
// them apart; ErrorMessages returns every candidate for a code.
const customErrorOffset = 6000

type ErrorCode uint32

const (
	ErrProgramNotWhitelisted ErrorCode = iota + customErrorOffset
	ErrLockupDurationTooShort
	ErrLockupDurationTooLong
	ErrRefreshCannotShorten
	ErrEscrowNotEnded
	ErrMustProvideWhitelist
	ErrEscrowOwnerNotWhitelisted
	ErrMustCallLockWithWhitelistEntry
	ErrMustCallLockPermissionless
)

var errorCodeMessages = map[ErrorCode]string{
	ErrProgramNotWhitelisted:          "CPI caller not whitelisted to invoke lock instruction.",
	ErrLockupDurationTooShort:         "Lockup duration must at least be the min stake duration.",
	ErrLockupDurationTooLong:          "Lockup duration must at most be the max stake duration.",
	ErrRefreshCannotShorten:           "A voting escrow refresh cannot shorten the escrow time remaining.",
	ErrEscrowNotEnded:                 "Escrow has not ended.",
	ErrMustProvideWhitelist:           "Program whitelist enabled; please provide whitelist entry and instructions sysvar or use the 'lock_with_whitelist' instruction.",
	ErrEscrowOwnerNotWhitelisted:      "CPI caller not whitelisted for escrow owner to invoke lock instruction.",
	ErrMustCallLockWithWhitelistEntry: "Must call `lock_with_whitelist_entry` to lock via CPI.",
	ErrMustCallLockPermissionless:     "Must call `lock_permissionless` since this DAO does not have a CPI whitelist.",
}

func (e ErrorCode) Error() string {
	if msg, ok := errorCodeMessages[e]; ok {
		return msg
	}
	return "unknown locked voter error"
}

type RedeemerErrorCode uint32

const (
	ErrInvalidTokenAccount RedeemerErrorCode = iota + customErrorOffset
	ErrInsufficientFunds
	ErrUnauthorized
	ErrOperationFailed
	ErrRedeemerNotActive
	ErrEscrowEmpty
	ErrEscrowBlacklisted
	ErrEscrowTooRecent
	ErrInvalidRedemptionRate
	ErrRedemptionRateSameAsPrevious
)

var redeemerErrorCodeMessages = map[RedeemerErrorCode]string{
	ErrInvalidTokenAccount:          "Invalid token account.",
	ErrInsufficientFunds:            "Insufficient funds.",
	ErrUnauthorized:                 "Unauthorized action.",
	ErrOperationFailed:              "Operation failed.",
	ErrRedeemerNotActive:            "Redeemer is not active.",
	ErrEscrowEmpty:                  "Escrow is empty.",
	ErrEscrowBlacklisted:            "Escrow account blacklisted.",
	ErrEscrowTooRecent:              "This escrow is too recent to be redeemed.",
	ErrInvalidRedemptionRate:        "Redemption rate must be greater than 0.",
	ErrRedemptionRateSameAsPrevious: "Redemption rate must be different from the previous rate.",
}

func (e RedeemerErrorCode) Error() string {
	if msg, ok := redeemerErrorCodeMessages[e]; ok {
		return msg
	}
	return "unknown redeemer error"
}

// ErrorMessages returns the messages the program may have meant by a custom
// error code, locker errors first.
func ErrorMessages(code uint32) []string {
	var res []string
	if msg, ok := errorCodeMessages[ErrorCode(code)]; ok {
		res = append(res, msg)
	}
	if msg, ok := redeemerErrorCodeMessages[RedeemerErrorCode(code)]; ok {
		res = append(res, msg)
	}
	return res
}

// IsEscrowNotEnded reports whether a rejection message is the one returned
// by exit while the lock is still running.
func IsEscrowNotEnded(message string) bool {
	return strings.Contains(message, strings.TrimSuffix(ErrEscrowNotEnded.Error(), "."))
}
