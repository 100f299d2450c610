// Package transaction assembles governance instructions into signed
// transactions, submits them and waits for confirmation.
package transaction

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"fmt"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/code-payments/governance-client/pkg/governance/common"
	"github.com/code-payments/governance-client/pkg/metrics"
	"github.com/code-payments/governance-client/pkg/retry"
	"github.com/code-payments/governance-client/pkg/retry/backoff"
	"github.com/code-payments/governance-client/pkg/solana"
	"github.com/code-payments/governance-client/pkg/solana/computebudget"
)

const metricsStructName = "transaction.assembler"

// Result is a confirmed transaction.
type Result struct {
	Signature solana.Signature
	Slot      uint64
}

func (r *Result) String() string {
	return base58.Encode(r.Signature[:])
}

type Option func(a *Assembler)

// WithComputeBudget prepends compute budget instructions to every
// transaction. A zero value leaves the cluster default in place.
func WithComputeBudget(unitLimit uint32, unitPrice uint64) Option {
	return func(a *Assembler) {
		a.computeUnitLimit = unitLimit
		a.computeUnitPrice = unitPrice
	}
}

type Assembler struct {
	log    *logrus.Entry
	conf   *conf
	client solana.Client

	computeUnitLimit uint32
	computeUnitPrice uint64
}

func NewAssembler(client solana.Client, configProvider ConfigProvider, opts ...Option) *Assembler {
	a := &Assembler{
		log:    logrus.StandardLogger().WithField("type", "governance/transaction"),
		conf:   configProvider(),
		client: client,
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Submit signs the instructions into a single transaction paid for by payer,
// sends it and blocks until the network confirms it.
//
// The instructions execute atomically in order. A rejection by the network,
// during preflight or execution, is returned as a *RemoteRejection. Nothing is
// resubmitted. If ctx is done before confirmation the transaction may still
// land.
func (a *Assembler) Submit(ctx context.Context, payer *common.Account, signers []*common.Account, ixns ...solana.Instruction) (*Result, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "Submit")
	defer tracer.End()

	result, err := a.submit(ctx, payer, signers, ixns)
	if err != nil {
		tracer.OnError(err)
	}
	return result, err
}

func (a *Assembler) submit(ctx context.Context, payer *common.Account, signers []*common.Account, ixns []solana.Instruction) (*Result, error) {
	log := a.log.WithField("method", "Submit")

	if len(ixns) == 0 {
		return nil, ErrNoInstructions
	}
	if payer == nil || !payer.CanSign() {
		return nil, errors.Wrap(ErrMissingSigner, "payer cannot sign")
	}
	if err := checkAccountKeys(ixns); err != nil {
		return nil, err
	}

	txn := solana.NewTransaction(
		payer.ToBytes(),
		computebudget.WithBudget(a.computeUnitLimit, a.computeUnitPrice, ixns...)...,
	)

	keys, err := signingKeys(&txn, append([]*common.Account{payer}, signers...))
	if err != nil {
		return nil, err
	}

	blockhash, err := a.client.GetLatestBlockhash(ctx, solana.CommitmentConfirmed)
	if err != nil {
		return nil, errors.Wrap(err, "error getting latest blockhash")
	}
	txn.SetBlockhash(blockhash)

	if err := txn.Sign(keys...); err != nil {
		return nil, errors.Wrap(err, "error signing transaction")
	}

	sig := txn.Signatures[0]
	log = log.WithField("signature", base58.Encode(sig[:]))

	_, err = a.client.SubmitTransaction(ctx, txn, solana.CommitmentConfirmed)
	if err != nil {
		var preflightErr *solana.PreflightError
		if errors.As(err, &preflightErr) {
			rejection := newRemoteRejection(sig, preflightErr.Err, preflightErr.Logs, preflightErr.Message)
			log.WithField("reason", rejection.Message).Debug("transaction rejected in preflight")
			return nil, rejection
		}
		return nil, errors.Wrap(err, "error submitting transaction")
	}

	log.Debug("transaction submitted, waiting for confirmation")

	status, err := a.waitForConfirmation(ctx, sig)
	if err != nil {
		return nil, err
	}

	if status.ErrorResult != nil {
		rejection := newRemoteRejection(sig, status.ErrorResult, a.getLogs(ctx, sig), "")
		log.WithField("reason", rejection.Message).Debug("transaction failed on chain")
		return nil, rejection
	}

	log.WithField("slot", status.Slot).Debug("transaction confirmed")

	return &Result{
		Signature: sig,
		Slot:      status.Slot,
	}, nil
}

// Confirm waits for a transaction submitted elsewhere, such as an airdrop, to
// be confirmed.
func (a *Assembler) Confirm(ctx context.Context, sig solana.Signature) (*Result, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "Confirm")
	defer tracer.End()

	status, err := a.waitForConfirmation(ctx, sig)
	if err != nil {
		tracer.OnError(err)
		return nil, err
	}

	if status.ErrorResult != nil {
		rejection := newRemoteRejection(sig, status.ErrorResult, a.getLogs(ctx, sig), "")
		tracer.OnError(rejection)
		return nil, rejection
	}

	return &Result{
		Signature: sig,
		Slot:      status.Slot,
	}, nil
}

// waitForConfirmation polls the signature until it is confirmed or has
// failed, bounded by ctx and the configured confirm timeout.
func (a *Assembler) waitForConfirmation(ctx context.Context, sig solana.Signature) (*solana.SignatureStatus, error) {
	pollCtx, cancel := context.WithTimeout(ctx, a.conf.confirmTimeout.Get(ctx))
	defer cancel()

	interval := a.conf.pollInterval.Get(ctx)

	var status *solana.SignatureStatus
	_, err := retry.Retry(
		func() error {
			s, err := a.client.GetSignatureStatus(pollCtx, sig, solana.CommitmentConfirmed)
			if err != nil {
				return err
			}

			status = s
			return nil
		},
		retry.Context(pollCtx),
		retry.Backoff(backoff.Constant(interval), interval),
	)
	if err == nil {
		return status, nil
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if pollCtx.Err() != nil {
		return nil, ErrConfirmationTimeout
	}
	return nil, errors.Wrap(err, "error getting signature status")
}

// getLogs fetches the log messages of a landed transaction. The rejection is
// still reported if they can't be fetched.
func (a *Assembler) getLogs(ctx context.Context, sig solana.Signature) []string {
	txn, err := a.client.GetTransaction(ctx, sig, solana.CommitmentConfirmed)
	if err != nil {
		a.log.WithError(err).WithField("signature", base58.Encode(sig[:])).Warn("failed to get failed transaction logs")
		return nil
	}

	if txn.Meta == nil {
		return nil
	}
	return txn.Meta.LogMessages
}

// signingKeys picks the private keys of the transaction's required signers
// out of accounts. Accounts the transaction doesn't need are ignored.
func signingKeys(txn *solana.Transaction, accounts []*common.Account) ([]ed25519.PrivateKey, error) {
	var keys []ed25519.PrivateKey
	var missing []string

	for _, required := range txn.RequiredSigners() {
		var found bool
		for _, account := range accounts {
			if account == nil || !account.CanSign() || !bytes.Equal(account.ToBytes(), required) {
				continue
			}

			key, err := account.SigningKey()
			if err != nil {
				return nil, err
			}
			keys = append(keys, key)
			found = true
			break
		}

		if !found {
			missing = append(missing, base58.Encode(required))
		}
	}

	if len(missing) > 0 {
		return nil, errors.Wrapf(ErrMissingSigner, "%v", missing)
	}
	return keys, nil
}

// checkAccountKeys rejects instructions carrying an unset or malformed key.
// Compiled as is, an empty key would resolve to the system program.
func checkAccountKeys(ixns []solana.Instruction) error {
	for i, ixn := range ixns {
		if len(ixn.Program) != ed25519.PublicKeySize {
			return common.NewInvalidArgumentError(
				fmt.Sprintf("instructions[%d].program", i),
				fmt.Sprintf("public key must be %d bytes, got %d", ed25519.PublicKeySize, len(ixn.Program)),
			)
		}

		for j, account := range ixn.Accounts {
			if len(account.PublicKey) != ed25519.PublicKeySize {
				return common.NewInvalidArgumentError(
					fmt.Sprintf("instructions[%d].accounts[%d]", i, j),
					fmt.Sprintf("public key must be %d bytes, got %d (program %s)", ed25519.PublicKeySize, len(account.PublicKey), base58.Encode(ixn.Program)),
				)
			}
		}
	}
	return nil
}
