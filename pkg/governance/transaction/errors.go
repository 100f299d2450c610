package transaction

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/code-payments/governance-client/pkg/solana"
)

var (
	ErrNoInstructions      = errors.New("no instructions provided")
	ErrMissingSigner       = errors.New("missing required signer")
	ErrConfirmationTimeout = errors.New("timed out waiting for confirmation")
)

// RemoteRejection is returned when a transaction reached the ledger, either
// through preflight simulation or execution, and was rejected there.
type RemoteRejection struct {
	Signature solana.Signature

	// Err is the decoded transaction error. It can be nil when the node
	// rejected the transaction without a structured error.
	Err *solana.TransactionError

	// Logs are the program log lines of the failed simulation or execution.
	Logs []string

	// Message is the program's own error message, as found in Logs.
	Message string
}

func newRemoteRejection(sig solana.Signature, txErr *solana.TransactionError, logs []string, fallback string) *RemoteRejection {
	message := solana.ProgramErrorMessage(logs)
	if message == "" && txErr != nil {
		message = txErr.Error()
	}
	if message == "" {
		message = fallback
	}

	return &RemoteRejection{
		Signature: sig,
		Err:       txErr,
		Logs:      logs,
		Message:   message,
	}
}

func (r *RemoteRejection) Error() string {
	return fmt.Sprintf("transaction rejected: %s", r.Message)
}

func (r *RemoteRejection) Unwrap() error {
	if r.Err == nil {
		return nil
	}
	return r.Err
}

// InstructionIndex returns the index of the failed instruction, or -1 when
// the failure wasn't attributed to one.
func (r *RemoteRejection) InstructionIndex() int {
	if r.Err == nil || r.Err.InstructionError() == nil {
		return -1
	}
	return r.Err.InstructionError().Index
}

// CustomCode returns the program defined error code, if any.
func (r *RemoteRejection) CustomCode() (solana.CustomError, bool) {
	if r.Err == nil || r.Err.InstructionError() == nil {
		return 0, false
	}

	code := r.Err.InstructionError().CustomError()
	if code == nil {
		return 0, false
	}
	return *code, true
}

// IsRemoteRejection reports whether err is, or wraps, a RemoteRejection.
func IsRemoteRejection(err error) (*RemoteRejection, bool) {
	var rejection *RemoteRejection
	if errors.As(err, &rejection) {
		return rejection, true
	}
	return nil, false
}
