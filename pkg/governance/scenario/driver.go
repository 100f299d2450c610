// Package scenario drives the full governance lifecycle against a live
// ledger: token setup, wallet and governor creation, locking, and every
// redeemer administration path.
package scenario

import (
	"context"
	"crypto/ed25519"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/code-payments/governance-client/pkg/governance/common"
	"github.com/code-payments/governance-client/pkg/governance/data"
	"github.com/code-payments/governance-client/pkg/governance/tokens"
	"github.com/code-payments/governance-client/pkg/governance/transaction"
	"github.com/code-payments/governance-client/pkg/metrics"
	"github.com/code-payments/governance-client/pkg/retry"
	"github.com/code-payments/governance-client/pkg/retry/backoff"
	"github.com/code-payments/governance-client/pkg/solana"
	"github.com/code-payments/governance-client/pkg/solana/memo"
)

const (
	memoPrefix = "governance-scenario"

	scenarioStepEventName        = "GovernanceScenarioStep"
	scenarioStepMetricPrefix     = "Custom/GovernanceScenario/Step"
	scenarioSignaturesMetricName = "Custom/GovernanceScenario/Signatures"
)

var (
	ErrUnexpectedSuccess = errors.New("transaction succeeded but was expected to be rejected")
	ErrStateMismatch     = errors.New("on-chain state does not match")
)

// Step is one stage of the lifecycle.
type Step struct {
	Name string
	Run  func(ctx context.Context, state State) (State, error)
}

type Driver struct {
	log     *logrus.Entry
	conf    *conf
	params  Parameters
	amounts *amounts

	session   *common.Session
	assembler *transaction.Assembler
	tokens    *tokens.Provisioner
	data      *data.Provider
}

func NewDriver(
	session *common.Session,
	assembler *transaction.Assembler,
	params Parameters,
	configProvider ConfigProvider,
) (*Driver, error) {
	amounts, err := params.amounts()
	if err != nil {
		return nil, err
	}

	return &Driver{
		log:       logrus.StandardLogger().WithField("type", "governance/scenario"),
		conf:      configProvider(),
		params:    params,
		amounts:   amounts,
		session:   session,
		assembler: assembler,
		tokens:    tokens.NewProvisioner(session.Client, session.Payer),
		data:      data.NewProvider(session),
	}, nil
}

// Steps returns the lifecycle in execution order.
func (d *Driver) Steps() []Step {
	return []Step{
		{Name: "create_mints", Run: d.createMints},
		{Name: "create_smart_wallet_and_governor", Run: d.createSmartWalletAndGovernor},
		{Name: "create_locker", Run: d.createLocker},
		{Name: "create_escrow", Run: d.createEscrow},
		{Name: "lock_tokens", Run: d.lockTokens},
		{Name: "early_exit", Run: d.earlyExit},
		{Name: "create_redeemer", Run: d.createRedeemer},
		{Name: "add_funds", Run: d.addFunds},
		{Name: "toggle_redeemer", Run: d.toggleRedeemer},
		{Name: "update_rate_and_treasury", Run: d.updateRateAndTreasury},
		{Name: "redeemer_admin_handoff", Run: d.redeemerAdminHandoff},
		{Name: "blacklist_entry", Run: d.blacklistEntry},
		{Name: "instant_withdraw", Run: d.instantWithdraw},
		{Name: "remove_all_funds", Run: d.removeAllFunds},
	}
}

// Run executes every step in order, stopping at the first failure. The
// returned state reflects whatever completed.
func (d *Driver) Run(ctx context.Context) (State, error) {
	state := State{
		RunID: uuid.New().String(),
	}

	log := d.log.WithFields(logrus.Fields{
		"method": "Run",
		"run_id": state.RunID,
		"payer":  d.session.Payer.PublicKey().ToBase58(),
	})

	ctx, txn := metrics.StartTransaction(ctx, "scenario")
	if txn != nil {
		defer txn.End()
	}

	if err := d.airdrop(ctx); err != nil {
		return state, errors.Wrap(err, "error funding payer")
	}

	for _, step := range d.Steps() {
		start := time.Now()
		log := log.WithField("step", step.Name)

		next, err := step.Run(ctx, state)
		elapsed := time.Since(start)
		recordStep(ctx, state.RunID, step.Name, elapsed, err)
		if err != nil {
			log.WithError(err).Warn("step failed")
			return state, errors.Wrapf(err, "step %s failed", step.Name)
		}

		state = next
		log.WithField("duration", elapsed).Info("step completed")
	}

	metrics.RecordCount(ctx, scenarioSignaturesMetricName, uint64(len(state.Signatures)))
	return state, nil
}

func recordStep(ctx context.Context, runID, step string, elapsed time.Duration, err error) {
	metrics.RecordDuration(ctx, fmt.Sprintf("%s/%s", scenarioStepMetricPrefix, step), elapsed)

	event := map[string]interface{}{
		"run_id":      runID,
		"step":        step,
		"duration_ms": elapsed.Milliseconds(),
		"success":     err == nil,
	}
	if err != nil {
		event["error"] = err.Error()
	}
	metrics.RecordEvent(ctx, scenarioStepEventName, event)
}

func (d *Driver) airdrop(ctx context.Context) error {
	lamports := d.conf.airdropLamports.Get(ctx)
	if lamports == 0 {
		return nil
	}

	sig, err := d.session.Client.RequestAirdrop(ctx, d.session.Payer.ToBytes(), lamports, solana.CommitmentConfirmed)
	if err != nil {
		return errors.Wrap(err, "error requesting airdrop")
	}

	if _, err := d.assembler.Confirm(ctx, sig); err != nil {
		return err
	}

	balance, err := d.session.Client.GetBalance(ctx, d.session.Payer.ToBytes(), solana.CommitmentConfirmed)
	if err != nil {
		return errors.Wrap(err, "error getting payer balance")
	}
	if balance < lamports {
		return errors.Errorf("payer balance %d is below the airdropped %d lamports", balance, lamports)
	}

	d.log.WithFields(logrus.Fields{
		"payer":    d.session.Payer.String(),
		"lamports": balance,
	}).Info("payer funded")
	return nil
}

// submit sends ixns paid for by the session payer, recording the signature
// on state.
func (d *Driver) submit(ctx context.Context, state State, step string, signers []*common.Account, ixns ...solana.Instruction) (State, error) {
	ixns, err := d.tag(ctx, state, step, ixns)
	if err != nil {
		return state, err
	}

	result, err := d.assembler.Submit(ctx, d.session.Payer, signers, ixns...)
	if err != nil {
		return state, err
	}

	d.log.WithFields(logrus.Fields{
		"step":      step,
		"run_id":    state.RunID,
		"signature": result.String(),
		"slot":      result.Slot,
	}).Debug("transaction confirmed")

	return state.withSignature(result.Signature), nil
}

// expectRejection submits ixns and succeeds only if the ledger rejects them
// with a message containing reason. An empty reason accepts any rejection.
func (d *Driver) expectRejection(ctx context.Context, state State, step, reason string, signers []*common.Account, ixns ...solana.Instruction) error {
	ixns, err := d.tag(ctx, state, step, ixns)
	if err != nil {
		return err
	}

	result, err := d.assembler.Submit(ctx, d.session.Payer, signers, ixns...)
	if err == nil {
		return errors.Wrapf(ErrUnexpectedSuccess, "signature %s", result.String())
	}

	rejection, ok := transaction.IsRemoteRejection(err)
	if !ok {
		return err
	}
	if !strings.Contains(rejection.Message, reason) {
		return errors.Errorf("expected rejection containing %q, got %q", reason, rejection.Message)
	}

	d.log.WithFields(logrus.Fields{
		"step":      step,
		"run_id":    state.RunID,
		"signature": base58.Encode(rejection.Signature[:]),
		"reason":    rejection.Message,
	}).Debug("transaction rejected as expected")

	return nil
}

// tag appends a memo naming the run and step. It goes last so the step's
// instruction indexes are unchanged.
func (d *Driver) tag(ctx context.Context, state State, step string, ixns []solana.Instruction) ([]solana.Instruction, error) {
	if !d.conf.memoEnabled.Get(ctx) || len(ixns) == 0 {
		return ixns, nil
	}

	ixn, err := memo.Instruction(fmt.Sprintf("%s:%s:%s", memoPrefix, state.RunID, step))
	if err != nil {
		return nil, err
	}

	return append(append([]solana.Instruction(nil), ixns...), ixn), nil
}

// waitForClock blocks until the cluster clock is past unixTimestamp.
func (d *Driver) waitForClock(ctx context.Context, unixTimestamp int64) error {
	timeout := d.conf.clockTimeout.Get(ctx)
	interval := d.conf.clockPollInterval.Get(ctx)

	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	_, err := retry.Retry(
		func() error {
			clock, err := d.data.GetClock(waitCtx)
			if err != nil {
				return err
			}
			if clock.UnixTimestamp <= unixTimestamp {
				return errors.Errorf("cluster time %d not past %d", clock.UnixTimestamp, unixTimestamp)
			}
			return nil
		},
		retry.Context(waitCtx),
		retry.Backoff(backoff.Constant(interval), interval),
	)
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

func mismatch(format string, args ...interface{}) error {
	return errors.Wrapf(ErrStateMismatch, format, args...)
}

// derived turns an address derivation result into an account.
func derived(address ed25519.PublicKey, bump uint8, err error) (*common.Account, uint8, error) {
	if err != nil {
		return nil, 0, err
	}

	account, err := common.NewAccountFromPublicKeyBytes(address)
	if err != nil {
		return nil, 0, err
	}
	return account, bump, nil
}
