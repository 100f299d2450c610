package solana

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ybbus/jsonrpc"
)

func TestParse(t *testing.T) {
	d := json.NewDecoder(bytes.NewBufferString(`{"InstructionError":[2,{"Custom":3}]}`))

	var raw interface{}
	assert.NoError(t, d.Decode(&raw))

	e, err := ParseTransactionError(raw)
	assert.NoError(t, err)

	assert.Equal(t, TransactionErrorInstructionError, e.ErrorKey())
	assert.NotNil(t, e.InstructionError())
	assert.Equal(t, 2, e.InstructionError().Index)
	assert.Equal(t, InstructionErrorCustom, e.InstructionError().ErrorKey())
	assert.NotNil(t, e.InstructionError().CustomError())
	assert.Equal(t, CustomError(3), *e.InstructionError().CustomError())

	d = json.NewDecoder(bytes.NewBufferString(`{"InstructionError":[0,"InvalidArgument"]}`))
	assert.NoError(t, d.Decode(&raw))

	e, err = ParseTransactionError(raw)
	assert.NoError(t, err)

	assert.Equal(t, TransactionErrorInstructionError, e.ErrorKey())
	assert.NotNil(t, e.InstructionError())
	assert.Equal(t, 0, e.InstructionError().Index)
	assert.Equal(t, InstructionErrorInvalidArgument, e.InstructionError().ErrorKey())

	d = json.NewDecoder(bytes.NewBufferString(`"DuplicateSignature"`))
	assert.NoError(t, d.Decode(&raw))

	e, err = ParseTransactionError(raw)
	assert.NoError(t, err)

	assert.Equal(t, TransactionErrorDuplicateSignature, e.ErrorKey())
	assert.Nil(t, e.InstructionError())
}

func TestParse_Malformed(t *testing.T) {
	for _, raw := range []interface{}{
		map[string]interface{}{"InstructionError": []interface{}{json.Number("0")}},
		map[string]interface{}{"InstructionError": []interface{}{"x", "InvalidArgument"}},
		map[string]interface{}{"InstructionError": []interface{}{json.Number("0"), map[string]interface{}{"Custom": "abc"}}},
		map[string]interface{}{"A": nil, "B": nil},
	} {
		_, err := ParseTransactionError(raw)
		assert.Error(t, err, "%v", raw)
	}

	_, err := ParseTransactionError(42)
	assert.Error(t, err)

	e, err := ParseTransactionError(nil)
	assert.NoError(t, err)
	assert.Nil(t, e)
}

func TestErrorStrings(t *testing.T) {
	e, err := ParseTransactionError(map[string]interface{}{
		"InstructionError": []interface{}{json.Number("1"), map[string]interface{}{"Custom": json.Number("6004")}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Error processing Instruction 1: custom program error: 0x1774", e.Error())

	e, err = ParseTransactionError("BlockhashNotFound")
	require.NoError(t, err)
	assert.Equal(t, TransactionErrorBlockhashNotFound, e.ErrorKey())
	assert.Equal(t, "BlockhashNotFound", e.Error())

	preflight := &PreflightError{Message: "Transaction simulation failed", Err: e}
	assert.Equal(t, "Transaction simulation failed: BlockhashNotFound", preflight.Error())
	assert.True(t, errors.Is(preflight, preflight.Err))
}

func TestParseJSONNumber(t *testing.T) {
	tc := []interface{}{
		"1",
		1.0,
		json.Number("1"),
	}
	for i, c := range tc {
		v, err := parseJSONNumber(c)
		assert.NoError(t, err)
		assert.Equal(t, 1, v, i)
	}
}

func TestParseRPCErrorLogs(t *testing.T) {
	assert.Nil(t, ParseRPCErrorLogs(nil))
	assert.Nil(t, ParseRPCErrorLogs(&jsonrpc.RPCError{Data: "unexpected"}))

	rpcErr := &jsonrpc.RPCError{
		Code:    -32002,
		Message: "Transaction simulation failed",
		Data: map[string]interface{}{
			"err":  map[string]interface{}{"InstructionError": []interface{}{json.Number("0"), map[string]interface{}{"Custom": json.Number("6002")}}},
			"logs": []interface{}{"Program log: Instruction: Exit", 5, "Program log: done"},
		},
	}
	assert.Equal(t, []string{"Program log: Instruction: Exit", "Program log: done"}, ParseRPCErrorLogs(rpcErr))

	txErr, err := ParseRPCError(rpcErr)
	assert.NoError(t, err)
	assert.Equal(t, CustomError(6002), *txErr.InstructionError().CustomError())
}

func TestProgramErrorMessage(t *testing.T) {
	for _, tc := range []struct {
		logs     []string
		expected string
	}{
		{
			logs: []string{
				"Program 8tAhS8CX7if6tQWAqUSK1kebGbU1WCH3jBwafq2bifMw invoke [1]",
				"Program log: Instruction: Exit",
				"Program log: AnchorError thrown in programs/locked-voter/src/instructions/exit.rs:29. Error Code: EscrowNotEnded. Error Number: 6002. Error Message: Escrow has not ended..",
				"Program 8tAhS8CX7if6tQWAqUSK1kebGbU1WCH3jBwafq2bifMw failed: custom program error: 0x1772",
			},
			expected: "Escrow has not ended.",
		},
		{
			logs: []string{
				"Program log: Error: Redeemer is currently paused",
				"Program 8tAhS8CX7if6tQWAqUSK1kebGbU1WCH3jBwafq2bifMw failed: custom program error: 0x1774",
			},
			expected: "Redeemer is currently paused",
		},
		{
			logs: []string{
				"Program 11111111111111111111111111111111 invoke [2]",
				"Allocate: account Address { address: FHPqjtSHrJEAKkeinNb2cukREXZEhRom8hXzJ6uiVGf4, base: None } already in use",
				"Program 11111111111111111111111111111111 failed: custom program error: 0x0",
			},
			expected: "Allocate: account Address { address: FHPqjtSHrJEAKkeinNb2cukREXZEhRom8hXzJ6uiVGf4, base: None } already in use",
		},
		{
			logs: []string{
				"Program Tokenkeg invoke [1]",
				"Program Tokenkeg failed: insufficient funds",
			},
			expected: "insufficient funds",
		},
		{
			logs:     []string{"Program log: ok"},
			expected: "",
		},
	} {
		assert.Equal(t, tc.expected, ProgramErrorMessage(tc.logs))
	}
}
