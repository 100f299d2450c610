package lockedvoter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCodes(t *testing.T) {
	assert.EqualValues(t, 6000, ErrProgramNotWhitelisted)
	assert.EqualValues(t, 6004, ErrEscrowNotEnded)
	assert.EqualValues(t, 6008, ErrMustCallLockPermissionless)

	assert.EqualValues(t, 6000, ErrInvalidTokenAccount)
	assert.EqualValues(t, 6006, ErrEscrowBlacklisted)
	assert.EqualValues(t, 6009, ErrRedemptionRateSameAsPrevious)

	assert.Equal(t, "Escrow has not ended.", ErrEscrowNotEnded.Error())
	assert.Equal(t, "Escrow account blacklisted.", ErrEscrowBlacklisted.Error())
	assert.Equal(t, "unknown locked voter error", ErrorCode(7000).Error())
	assert.Equal(t, "unknown redeemer error", RedeemerErrorCode(7000).Error())
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, []string{"Escrow has not ended.", "Redeemer is not active."}, ErrorMessages(6004))
	assert.Equal(t, []string{"Redemption rate must be different from the previous rate."}, ErrorMessages(6009))
	assert.Empty(t, ErrorMessages(42))
}

func TestIsEscrowNotEnded(t *testing.T) {
	assert.True(t, IsEscrowNotEnded("Escrow has not ended."))
	assert.True(t, IsEscrowNotEnded("AnchorError occurred. Error Code: EscrowNotEnded. Error Number: 6004. Error Message: Escrow has not ended.."))
	assert.False(t, IsEscrowNotEnded("Escrow account blacklisted."))
	assert.False(t, IsEscrowNotEnded(""))
}
