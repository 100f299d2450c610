package testutil

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/governance-client/pkg/governance/common"
)

// AssertInvalidArgument verifies that err is a local construction error for
// the provided field.
func AssertInvalidArgument(t *testing.T, err error, field string) {
	require.Error(t, err)

	var argErr *common.InvalidArgumentError
	require.True(t, errors.As(err, &argErr), "expected an invalid argument error, got %v", err)
	assert.Equal(t, field, argErr.Field)
}
