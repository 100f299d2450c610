package common

import (
	"fmt"
	"math/big"
)

// InvalidArgumentError is a local construction error. Nothing was sent to the
// ledger when one is returned.
type InvalidArgumentError struct {
	Field  string
	Reason string
}

func NewInvalidArgumentError(field, reason string) *InvalidArgumentError {
	return &InvalidArgumentError{
		Field:  field,
		Reason: reason,
	}
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

var maxUint64 = new(big.Int).SetUint64(^uint64(0))

// ToUint64 narrows an amount to the u64 the programs take on the wire.
func ToUint64(field string, amount *big.Int) (uint64, error) {
	if amount == nil {
		return 0, NewInvalidArgumentError(field, "amount is required")
	}
	if amount.Sign() < 0 {
		return 0, NewInvalidArgumentError(field, "amount is negative")
	}
	if amount.Cmp(maxUint64) > 0 {
		return 0, NewInvalidArgumentError(field, "amount exceeds u64")
	}
	return amount.Uint64(), nil
}

// ToInt64 narrows a duration or timestamp to the i64 the programs take on
// the wire.
func ToInt64(field string, value *big.Int) (int64, error) {
	if value == nil {
		return 0, NewInvalidArgumentError(field, "value is required")
	}
	if !value.IsInt64() {
		return 0, NewInvalidArgumentError(field, "value exceeds i64")
	}
	return value.Int64(), nil
}
