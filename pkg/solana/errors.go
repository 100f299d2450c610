package solana

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/ybbus/jsonrpc"
)

// TransactionErrorKey names a transaction level failure, as reported in the
// "err" field of RPC responses.
type TransactionErrorKey string

const (
	TransactionErrorInstructionError        TransactionErrorKey = "InstructionError"
	TransactionErrorAccountNotFound         TransactionErrorKey = "AccountNotFound"
	TransactionErrorInsufficientFundsForFee TransactionErrorKey = "InsufficientFundsForFee"
	TransactionErrorDuplicateSignature      TransactionErrorKey = "DuplicateSignature"
	TransactionErrorBlockhashNotFound       TransactionErrorKey = "BlockhashNotFound"
	TransactionErrorSignatureFailure        TransactionErrorKey = "SignatureFailure"
)

// InstructionErrorKey names the failure of a single instruction.
type InstructionErrorKey string

const (
	InstructionErrorCustom                    InstructionErrorKey = "Custom"
	InstructionErrorInvalidArgument           InstructionErrorKey = "InvalidArgument"
	InstructionErrorInvalidAccountData        InstructionErrorKey = "InvalidAccountData"
	InstructionErrorInsufficientFunds         InstructionErrorKey = "InsufficientFunds"
	InstructionErrorMissingRequiredSignature  InstructionErrorKey = "MissingRequiredSignature"
	InstructionErrorAccountAlreadyInitialized InstructionErrorKey = "AccountAlreadyInitialized"
)

// CustomError is a program defined error code. Anchor programs start their
// own codes at 6000.
type CustomError int

func (c CustomError) Error() string {
	return fmt.Sprintf("custom program error: %#x", int(c))
}

// InstructionError is the failure of the instruction at Index.
type InstructionError struct {
	Index int
	Err   error
}

func (i InstructionError) Error() string {
	return fmt.Sprintf("Error processing Instruction %d: %v", i.Index, i.Err)
}

func (i InstructionError) ErrorKey() InstructionErrorKey {
	switch i.Err.(type) {
	case nil:
		return ""
	case CustomError:
		return InstructionErrorCustom
	}
	return InstructionErrorKey(i.Err.Error())
}

// CustomError returns the program error code, or nil for builtin errors.
func (i InstructionError) CustomError() *CustomError {
	if code, ok := i.Err.(CustomError); ok {
		return &code
	}
	return nil
}

// TransactionError is a decoded "err" value.
type TransactionError struct {
	key         TransactionErrorKey
	instruction *InstructionError
}

func (t TransactionError) Error() string {
	if t.instruction != nil {
		return t.instruction.Error()
	}
	return string(t.key)
}

func (t TransactionError) ErrorKey() TransactionErrorKey {
	return t.key
}

// InstructionError is set when the key is TransactionErrorInstructionError.
func (t TransactionError) InstructionError() *InstructionError {
	return t.instruction
}

// ParseTransactionError decodes the "err" value found in transaction metadata,
// signature statuses and preflight failures. It accepts either a bare key or
// a single entry object, such as {"InstructionError":[0,{"Custom":6000}]}.
func ParseTransactionError(raw interface{}) (*TransactionError, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		return &TransactionError{key: TransactionErrorKey(v)}, nil
	case map[string]interface{}:
		key, value, err := singleEntry(v)
		if err != nil {
			return &TransactionError{key: "unhandled transaction error"}, err
		}

		txErr := &TransactionError{key: TransactionErrorKey(key)}
		if txErr.key != TransactionErrorInstructionError {
			return txErr, nil
		}

		ixnErr, err := parseInstructionError(value)
		if err != nil {
			return txErr, errors.Wrap(err, "failed to parse instruction error")
		}
		txErr.instruction = ixnErr
		return txErr, nil
	}
	return nil, errors.Errorf("unhandled error type %T", raw)
}

func parseInstructionError(raw interface{}) (*InstructionError, error) {
	tuple, ok := raw.([]interface{})
	if !ok || len(tuple) != 2 {
		return nil, errors.New("instruction error must be an [index, error] tuple")
	}

	index, err := parseJSONNumber(tuple[0])
	if err != nil {
		return nil, err
	}
	ixnErr := &InstructionError{Index: index}

	switch v := tuple[1].(type) {
	case string:
		ixnErr.Err = errors.New(v)
	case map[string]interface{}:
		key, value, err := singleEntry(v)
		if err != nil {
			return nil, err
		}
		if InstructionErrorKey(key) != InstructionErrorCustom {
			ixnErr.Err = errors.New(key)
			break
		}

		code, err := parseJSONNumber(value)
		if err != nil {
			return nil, errors.Wrap(err, "invalid custom error code")
		}
		ixnErr.Err = CustomError(code)
	default:
		return nil, errors.Errorf("unhandled instruction error type %T", v)
	}

	return ixnErr, nil
}

func singleEntry(m map[string]interface{}) (string, interface{}, error) {
	if len(m) != 1 {
		return "", nil, errors.Errorf("expected a single entry object, got %d entries", len(m))
	}
	var key string
	var value interface{}
	for key, value = range m {
	}
	return key, value, nil
}

func parseJSONNumber(v interface{}) (int, error) {
	switch n := v.(type) {
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, errors.Errorf("non integer value %v", v)
		}
		return int(i), nil
	case float64:
		return int(n), nil
	case string:
		i, err := strconv.Atoi(n)
		if err != nil {
			return 0, errors.Errorf("non numeric value %q", n)
		}
		return i, nil
	}
	return 0, errors.Errorf("non numeric value %v", v)
}

// ParseRPCError extracts the transaction error attached to a failed
// sendTransaction or simulateTransaction call.
func ParseRPCError(err *jsonrpc.RPCError) (*TransactionError, error) {
	if err == nil {
		return nil, nil
	}

	data, ok := err.Data.(map[string]interface{})
	if !ok {
		return nil, errors.New("rpc error data is not an object")
	}
	return ParseTransactionError(data["err"])
}

// ParseRPCErrorLogs extracts the program logs attached to a failed preflight
// simulation, if any.
func ParseRPCErrorLogs(err *jsonrpc.RPCError) []string {
	if err == nil {
		return nil
	}

	data, ok := err.Data.(map[string]interface{})
	if !ok {
		return nil
	}
	raw, ok := data["logs"].([]interface{})
	if !ok {
		return nil
	}

	logs := make([]string, 0, len(raw))
	for _, entry := range raw {
		if line, ok := entry.(string); ok {
			logs = append(logs, line)
		}
	}
	return logs
}

// PreflightError is returned when the node rejects a transaction during its
// preflight simulation.
type PreflightError struct {
	Message string
	Err     *TransactionError
	Logs    []string
}

func (e *PreflightError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.Message, e.Err.Error())
	}
	return e.Message
}

func (e *PreflightError) Unwrap() error {
	if e.Err == nil {
		return nil
	}
	return e.Err
}

const (
	anchorErrorMessageMarker = "Error Message: "
	programLogErrorMarker    = "Program log: Error: "
	programFailedMarker      = " failed: "
	accountInUseMarker       = "already in use"
)

// ProgramErrorMessage returns the most specific human readable rejection reason
// found in a transaction's log messages, or an empty string if there is none.
//
// Anchor error tables of different programs share the same custom code range,
// so the logged message is the only reliable way to tell them apart.
func ProgramErrorMessage(logs []string) string {
	for _, line := range logs {
		if idx := strings.Index(line, anchorErrorMessageMarker); idx >= 0 {
			// Anchor appends a period to the already punctuated message
			return strings.TrimSuffix(line[idx+len(anchorErrorMessageMarker):], ".")
		}
	}

	for _, line := range logs {
		if strings.HasPrefix(line, programLogErrorMarker) {
			return strings.TrimPrefix(line, programLogErrorMarker)
		}
	}

	for _, line := range logs {
		if strings.Contains(line, accountInUseMarker) {
			return strings.TrimPrefix(line, "Program log: ")
		}
	}

	for i := len(logs) - 1; i >= 0; i-- {
		if idx := strings.Index(logs[i], programFailedMarker); idx >= 0 {
			return logs[i][idx+len(programFailedMarker):]
		}
	}

	return ""
}
