package solana

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"strconv"
	"time"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/ybbus/jsonrpc"

	"github.com/code-payments/governance-client/pkg/metrics"
	"github.com/code-payments/governance-client/pkg/rate"
	"github.com/code-payments/governance-client/pkg/retry"
	"github.com/code-payments/governance-client/pkg/retry/backoff"
)

const (
	// todo: we can retrieve these from the Syscall account
	//       but they're unlikely to change.
	ticksPerSec  = 160
	ticksPerSlot = 64
	slotsPerSec  = ticksPerSec / ticksPerSlot

	// PollRate is the rate at which blocks should be polled at.
	PollRate = (time.Second / slotsPerSec) / 2

	// Reference: https://github.com/solana-labs/solana/blob/71e9958e061493d7545bd28d4ac7a85aaed6ffbb/client/src/rpc_custom_error.rs#L11
	rpcNodeUnhealthyCode = -32005

	invalidParamCode = -32602

	metricsStructName = "solana.client"
	rateLimitKey      = "rpc"
)

type Commitment struct {
	Commitment string `json:"commitment"`
}

const (
	confirmationStatusProcessed = "processed"
	confirmationStatusConfirmed = "confirmed"
	confirmationStatusFinalized = "finalized"
)

var (
	CommitmentProcessed = Commitment{Commitment: confirmationStatusProcessed}
	CommitmentConfirmed = Commitment{Commitment: confirmationStatusConfirmed}
	CommitmentFinalized = Commitment{Commitment: confirmationStatusFinalized}
)

var (
	ErrNoAccountInfo     = errors.New("no account info")
	ErrSignatureNotFound = errors.New("signature not found")
	ErrNoBalance         = errors.New("no balance")
)

// AccountInfo contains the Solana account information (not to be confused with a TokenAccount)
type AccountInfo struct {
	Data       []byte
	Owner      ed25519.PublicKey
	Lamports   uint64
	Executable bool
}

// KeyedAccount is an AccountInfo along with its address.
type KeyedAccount struct {
	PublicKey ed25519.PublicKey
	Account   AccountInfo
}

type SignatureStatus struct {
	Slot        uint64
	ErrorResult *TransactionError

	// Confirmations will be nil if the transaction has been rooted.
	Confirmations      *int
	ConfirmationStatus string
}

func (s SignatureStatus) Confirmed() bool {
	if s.Finalized() {
		return true
	}

	if s.ConfirmationStatus == confirmationStatusConfirmed {
		return true
	}

	return *s.Confirmations >= 1
}

func (s SignatureStatus) Finalized() bool {
	return s.Confirmations == nil || s.ConfirmationStatus == confirmationStatusFinalized
}

type TokenAmount struct {
	Amount   string `json:"amount"`   // example: "49801500000",
	Decimals uint64 `json:"decimals"` // example: 5,
}

type TransactionMeta struct {
	Err          interface{} `json:"err"`
	Fee          uint64      `json:"fee"`
	PreBalances  []uint64    `json:"preBalances"`
	PostBalances []uint64    `json:"postBalances"`
	LogMessages  []string    `json:"logMessages"`
	ComputeUnits *uint64     `json:"computeUnitsConsumed"`
}

type ConfirmedTransaction struct {
	Slot        uint64
	BlockTime   *time.Time
	Transaction Transaction
	Err         *TransactionError
	Meta        *TransactionMeta
}

// MemcmpFilter matches program accounts whose data contains Bytes at Offset.
type MemcmpFilter struct {
	Offset uint
	Bytes  []byte
}

// Client provides an interaction with the Solana JSON RPC API.
//
// Reference: https://docs.solana.com/apps/jsonrpc-api
type Client interface {
	GetAccountInfo(context.Context, ed25519.PublicKey, Commitment) (AccountInfo, error)
	GetBalance(context.Context, ed25519.PublicKey, Commitment) (uint64, error)
	GetLatestBlockhash(context.Context, Commitment) (Blockhash, error)
	GetMinimumBalanceForRentExemption(ctx context.Context, size uint64) (lamports uint64, err error)
	GetProgramAccounts(ctx context.Context, program ed25519.PublicKey, commitment Commitment, filters ...MemcmpFilter) ([]KeyedAccount, error)
	GetSignatureStatus(context.Context, Signature, Commitment) (*SignatureStatus, error)
	GetSignatureStatuses(context.Context, []Signature) ([]*SignatureStatus, error)
	GetSlot(context.Context, Commitment) (uint64, error)
	GetTokenAccountBalance(context.Context, ed25519.PublicKey, Commitment) (uint64, uint64, error)
	GetTransaction(context.Context, Signature, Commitment) (ConfirmedTransaction, error)
	RequestAirdrop(context.Context, ed25519.PublicKey, uint64, Commitment) (Signature, error)
	SubmitTransaction(context.Context, Transaction, Commitment) (Signature, error)
}

var (
	errRateLimited  = errors.New("rate limited")
	errServiceError = errors.New("service error")
)

type rpcResponse struct {
	Context struct {
		Slot int64 `json:"slot"`
	} `json:"context"`
	Value interface{} `json:"value"`
}

type client struct {
	log     *logrus.Entry
	client  jsonrpc.RPCClient
	limiter rate.Limiter
	retrier func(ctx context.Context) retry.Retrier
}

// Option configures a Client.
type Option func(c *clientOptions)

type clientOptions struct {
	rpcOpts *jsonrpc.RPCClientOpts
	limiter rate.Limiter
}

// WithRPCOptions configures the underlying JSON-RPC transport.
func WithRPCOptions(opts *jsonrpc.RPCClientOpts) Option {
	return func(c *clientOptions) {
		c.rpcOpts = opts
	}
}

// WithRateLimiter throttles outgoing requests. Requests wait for the limiter
// rather than fail. A nil limiter leaves requests unthrottled.
func WithRateLimiter(limiter rate.Limiter) Option {
	return func(c *clientOptions) {
		if limiter == nil {
			c.limiter = rate.NoLimiter{}
			return
		}
		c.limiter = limiter
	}
}

// New returns a client using the specified endpoint.
func New(endpoint string, opts ...Option) Client {
	options := &clientOptions{
		limiter: rate.NoLimiter{},
	}
	for _, o := range opts {
		o(options)
	}

	return &client{
		log:     logrus.StandardLogger().WithField("type", "solana/client"),
		client:  jsonrpc.NewClientWithOpts(endpoint, options.rpcOpts),
		limiter: options.limiter,
		retrier: func(ctx context.Context) retry.Retrier {
			return retry.NewRetrier(
				retry.RetriableErrors(errRateLimited, errServiceError),
				retry.Limit(3),
				retry.Context(ctx),
				retry.BackoffWithJitter(backoff.BinaryExponential(time.Second), 10*time.Second, 0.1),
			)
		},
	}
}

func (c *client) call(ctx context.Context, out interface{}, method string, params ...interface{}) error {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, method)
	defer tracer.End()

	_, err := c.retrier(ctx).Retry(func() error {
		if err := c.limiter.Wait(ctx, rateLimitKey); err != nil {
			return err
		}

		err := c.client.CallFor(out, method, params...)
		if err == nil {
			return nil
		}

		return c.handleRpcError(method, err)
	})

	tracer.OnError(err)
	return err
}

func (c *client) handleRpcError(method string, err error) error {
	if httpErr, ok := err.(*jsonrpc.HTTPError); ok {
		if httpErr.Code == 429 {
			c.log.WithField("method", method).Warn("rate limited")
			return errRateLimited
		}
		if httpErr.Code >= 500 {
			return errServiceError
		}
		return err
	}

	rpcErr, ok := err.(*jsonrpc.RPCError)
	if !ok {
		return err
	}
	if rpcErr.Code == 429 {
		c.log.WithField("method", method).Warn("rate limited")
		return errRateLimited
	}
	if rpcErr.Code >= 500 || rpcErr.Code == rpcNodeUnhealthyCode {
		c.log.WithField("method", method).WithError(rpcErr).Warn("service error")
		return errServiceError
	}

	return err
}

func (c *client) GetMinimumBalanceForRentExemption(ctx context.Context, dataSize uint64) (lamports uint64, err error) {
	if err := c.call(ctx, &lamports, "getMinimumBalanceForRentExemption", dataSize); err != nil {
		return 0, errors.Wrapf(err, "getMinimumBalanceForRentExemption() failed to send request")
	}

	return lamports, nil
}

func (c *client) GetSlot(ctx context.Context, commitment Commitment) (slot uint64, err error) {
	// note: we have to wrap the commitment in an []interface{} otherwise the
	//       solana RPC node complains. Technically this is a violation of the
	//       JSON RPC v2.0 spec.
	if err := c.call(ctx, &slot, "getSlot", []interface{}{commitment}); err != nil {
		return 0, errors.Wrapf(err, "getSlot() failed to send request")
	}

	return slot, nil
}

// GetLatestBlockhash always queries the node. Blockhashes are not cached
// since resubmitting an identical message under a reused blockhash yields
// the same signature, which the node drops as already processed.
func (c *client) GetLatestBlockhash(ctx context.Context, commitment Commitment) (hash Blockhash, err error) {
	type response struct {
		Value struct {
			Blockhash string `json:"blockhash"`
		} `json:"value"`
	}

	var resp response
	if err := c.call(ctx, &resp, "getLatestBlockhash", []interface{}{commitment}); err != nil {
		return hash, errors.Wrapf(err, "getLatestBlockhash() failed to send request")
	}

	hashBytes, err := base58.Decode(resp.Value.Blockhash)
	if err != nil {
		return hash, errors.Wrap(err, "invalid base58 encoded hash in response")
	}
	if len(hashBytes) != len(hash) {
		return hash, errors.Errorf("invalid blockhash length %d", len(hashBytes))
	}

	copy(hash[:], hashBytes)
	return hash, nil
}

func (c *client) GetTransaction(ctx context.Context, sig Signature, commitment Commitment) (ConfirmedTransaction, error) {
	type rpcResponse struct {
		Slot        uint64           `json:"slot"`
		BlockTime   *int64           `json:"blockTime"`
		Transaction []string         `json:"transaction"` // [val, encoding]
		Meta        *TransactionMeta `json:"meta"`
	}

	config := struct {
		Commitment string `json:"commitment"`
		Encoding   string `json:"encoding"`
	}{
		Commitment: commitment.Commitment,
		Encoding:   "base64",
	}

	var resp *rpcResponse
	if err := c.call(ctx, &resp, "getTransaction", base58.Encode(sig[:]), config); err != nil {
		return ConfirmedTransaction{}, errors.Wrap(err, "getTransaction() failed to send request")
	}

	if resp == nil {
		return ConfirmedTransaction{}, ErrSignatureNotFound
	}

	txn := ConfirmedTransaction{
		Slot: resp.Slot,
		Meta: resp.Meta,
	}

	if resp.BlockTime != nil {
		txTime := time.Unix(*resp.BlockTime, 0)
		txn.BlockTime = &txTime
	}

	if len(resp.Transaction) == 0 {
		return txn, errors.New("missing transaction in response")
	}

	var err error
	rawTxn, err := base64.StdEncoding.DecodeString(resp.Transaction[0])
	if err != nil {
		return txn, errors.Wrap(err, "failed to decode transaction")
	}
	if err := txn.Transaction.Unmarshal(rawTxn); err != nil {
		return txn, errors.Wrap(err, "failed to unmarshal transaction")
	}

	if resp.Meta != nil {
		txn.Err, err = ParseTransactionError(resp.Meta.Err)
		if err != nil {
			return txn, errors.Wrap(err, "failed to parse transaction result")
		}
	}

	return txn, nil
}

func (c *client) GetBalance(ctx context.Context, account ed25519.PublicKey, commitment Commitment) (uint64, error) {
	var resp rpcResponse
	if err := c.call(ctx, &resp, "getBalance", base58.Encode(account[:]), commitment); err != nil {
		jsonRPCErr, ok := err.(*jsonrpc.RPCError)
		if ok && jsonRPCErr.Code == invalidParamCode {
			return 0, ErrNoBalance
		}

		return 0, errors.Wrapf(err, "getBalance() failed to send request")
	}

	if balance, ok := resp.Value.(float64); ok {
		return uint64(balance), nil
	}

	return 0, errors.Errorf("invalid value in response")
}

// GetTokenAccountBalance returns the raw token amount held by account along
// with the slot the balance was observed at.
func (c *client) GetTokenAccountBalance(ctx context.Context, account ed25519.PublicKey, commitment Commitment) (uint64, uint64, error) {
	var resp struct {
		Context struct {
			Slot int64 `json:"slot"`
		} `json:"context"`
		Value TokenAmount `json:"value"`
	}
	if err := c.call(ctx, &resp, "getTokenAccountBalance", base58.Encode(account[:]), commitment); err != nil {
		jsonRPCErr, ok := err.(*jsonrpc.RPCError)
		if ok && jsonRPCErr.Code == invalidParamCode {
			return 0, 0, ErrNoBalance
		}

		return 0, 0, errors.Wrapf(err, "getTokenAccountBalance() failed to send request")
	}

	quarks, err := strconv.ParseUint(resp.Value.Amount, 10, 64)
	if err != nil {
		return 0, 0, errors.Errorf("invalid value in response")
	}

	return quarks, uint64(resp.Context.Slot), nil
}

// SubmitTransaction sends the transaction with preflight simulation at the
// provided commitment. A preflight rejection is returned as a *PreflightError
// carrying the simulation logs.
func (c *client) SubmitTransaction(ctx context.Context, txn Transaction, commitment Commitment) (Signature, error) {
	sig := txn.Signatures[0]
	txnBytes := txn.Marshal()
	if len(txnBytes) > MaxTransactionSize {
		return sig, ErrTransactionTooLarge
	}

	config := struct {
		SkipPreflight       bool   `json:"skipPreflight"`
		PreflightCommitment string `json:"preflightCommitment"`
		Encoding            string `json:"encoding"`
	}{
		SkipPreflight:       false,
		PreflightCommitment: commitment.Commitment,
		Encoding:            "base64",
	}

	var sigStr string
	err := c.call(ctx, &sigStr, "sendTransaction", base64.StdEncoding.EncodeToString(txnBytes), config)
	if err != nil {
		jsonRPCErr, ok := err.(*jsonrpc.RPCError)
		if !ok {
			return sig, errors.Wrapf(err, "sendTransaction() failed to send request")
		}

		txResult, parseErr := ParseRPCError(jsonRPCErr)
		if parseErr != nil {
			c.log.WithError(parseErr).Debug("failed to parse preflight error")
		}

		return sig, &PreflightError{
			Message: jsonRPCErr.Message,
			Err:     txResult,
			Logs:    ParseRPCErrorLogs(jsonRPCErr),
		}
	}

	if sigStr != base58.Encode(sig[:]) {
		c.log.WithFields(logrus.Fields{
			"expected": base58.Encode(sig[:]),
			"actual":   sigStr,
		}).Warn("node returned an unexpected signature")
	}

	return sig, nil
}

func (c *client) GetAccountInfo(ctx context.Context, account ed25519.PublicKey, commitment Commitment) (accountInfo AccountInfo, err error) {
	type rpcResponse struct {
		Value *rawAccount `json:"value"`
	}

	rpcConfig := struct {
		Commitment string `json:"commitment"`
		Encoding   string `json:"encoding"`
	}{
		Commitment: commitment.Commitment,
		Encoding:   "base64",
	}

	var resp rpcResponse
	if err := c.call(ctx, &resp, "getAccountInfo", base58.Encode(account[:]), rpcConfig); err != nil {
		return accountInfo, errors.Wrap(err, "getAccountInfo() failed to send request")
	}

	if resp.Value == nil {
		return accountInfo, ErrNoAccountInfo
	}

	return resp.Value.decode()
}

func (c *client) GetProgramAccounts(ctx context.Context, program ed25519.PublicKey, commitment Commitment, filters ...MemcmpFilter) ([]KeyedAccount, error) {
	type memcmp struct {
		Offset uint   `json:"offset"`
		Bytes  string `json:"bytes"`
	}
	type filter struct {
		Memcmp memcmp `json:"memcmp"`
	}

	rpcFilters := make([]filter, len(filters))
	for i, f := range filters {
		rpcFilters[i] = filter{
			Memcmp: memcmp{
				Offset: f.Offset,
				Bytes:  base58.Encode(f.Bytes),
			},
		}
	}

	rpcConfig := struct {
		Commitment string   `json:"commitment"`
		Encoding   string   `json:"encoding"`
		Filters    []filter `json:"filters,omitempty"`
	}{
		Commitment: commitment.Commitment,
		Encoding:   "base64",
		Filters:    rpcFilters,
	}

	var resp []struct {
		PublicKey string     `json:"pubkey"`
		Account   rawAccount `json:"account"`
	}
	if err := c.call(ctx, &resp, "getProgramAccounts", base58.Encode(program), rpcConfig); err != nil {
		return nil, errors.Wrap(err, "getProgramAccounts() failed to send request")
	}

	accounts := make([]KeyedAccount, 0, len(resp))
	for _, entry := range resp {
		key, err := PublicKeyFromBase58(entry.PublicKey)
		if err != nil {
			return nil, err
		}

		info, err := entry.Account.decode()
		if err != nil {
			return nil, errors.Wrapf(err, "invalid account %s", entry.PublicKey)
		}

		accounts = append(accounts, KeyedAccount{
			PublicKey: key,
			Account:   info,
		})
	}

	return accounts, nil
}

func (c *client) RequestAirdrop(ctx context.Context, account ed25519.PublicKey, lamports uint64, commitment Commitment) (Signature, error) {
	var sigStr string
	if err := c.call(ctx, &sigStr, "requestAirdrop", base58.Encode(account[:]), lamports, commitment); err != nil {
		return Signature{}, errors.Wrapf(err, "requestAirdrop() failed to send request")
	}

	sig, err := signatureFromBase58(sigStr)
	if err != nil {
		return Signature{}, err
	}

	if sig == (Signature{}) {
		return Signature{}, errors.New("empty signature returned")
	}

	return sig, nil
}

func (c *client) GetSignatureStatus(ctx context.Context, sig Signature, commitment Commitment) (*SignatureStatus, error) {
	statuses, err := c.GetSignatureStatuses(ctx, []Signature{sig})
	if err != nil {
		return nil, err
	}

	if len(statuses) == 0 || statuses[0] == nil {
		return nil, ErrSignatureNotFound
	}

	status := statuses[0]
	switch commitment {
	case CommitmentFinalized:
		if !status.Finalized() {
			return status, ErrSignatureNotFound
		}
	case CommitmentConfirmed:
		if status.ErrorResult == nil && !status.Confirmed() {
			return status, ErrSignatureNotFound
		}
	}

	return status, nil
}

func (c *client) GetSignatureStatuses(ctx context.Context, sigs []Signature) ([]*SignatureStatus, error) {
	b58Sigs := make([]string, len(sigs))
	for i := range sigs {
		b58Sigs[i] = base58.Encode(sigs[i][:])
	}

	req := struct {
		SearchTransactionHistory bool `json:"searchTransactionHistory"`
	}{
		SearchTransactionHistory: true,
	}

	type signatureStatus struct {
		Slot               uint64          `json:"slot"`
		Confirmations      *int            `json:"confirmations"`
		ConfirmationStatus string          `json:"confirmationStatus"`
		Err                json.RawMessage `json:"err"`
	}

	type rpcResp struct {
		Context struct {
			Slot int `json:"slot"`
		} `json:"context"`
		Value []*signatureStatus `json:"value"`
	}

	var resp rpcResp
	if err := c.call(ctx, &resp, "getSignatureStatuses", b58Sigs, req); err != nil {
		return nil, errors.Wrap(err, "getSignatureStatuses() failed to send request")
	}

	statuses := make([]*SignatureStatus, len(sigs))
	for i, v := range resp.Value {
		if v == nil || i >= len(statuses) {
			continue
		}

		statuses[i] = &SignatureStatus{}
		statuses[i].Confirmations = v.Confirmations
		statuses[i].ConfirmationStatus = v.ConfirmationStatus
		statuses[i].Slot = v.Slot

		if len(v.Err) > 0 && !bytes.Equal(v.Err, []byte("null")) {
			var txError interface{}
			d := json.NewDecoder(bytes.NewBuffer(v.Err))
			d.UseNumber()
			if err := d.Decode(&txError); err != nil {
				return nil, errors.Wrap(err, "failed to parse transaction result")
			}

			var err error
			statuses[i].ErrorResult, err = ParseTransactionError(txError)
			if err != nil {
				return nil, errors.Wrap(err, "failed to parse transaction result")
			}
		}
	}

	return statuses, nil
}

type rawAccount struct {
	Lamports   uint64   `json:"lamports"`
	Owner      string   `json:"owner"`
	Data       []string `json:"data"`
	Executable bool     `json:"executable"`
}

func (r rawAccount) decode() (info AccountInfo, err error) {
	info.Owner, err = base58.Decode(r.Owner)
	if err != nil {
		return info, errors.Wrap(err, "invalid base58 encoded owner")
	}

	if len(r.Data) == 0 {
		return info, errors.New("missing account data")
	}

	info.Data, err = base64.StdEncoding.DecodeString(r.Data[0])
	if err != nil {
		return info, errors.Wrap(err, "invalid base64 encoded data")
	}

	info.Lamports = r.Lamports
	info.Executable = r.Executable
	return info, nil
}

func signatureFromBase58(value string) (sig Signature, err error) {
	sigBytes, err := base58.Decode(value)
	if err != nil {
		return sig, errors.Wrap(err, "invalid signature in response")
	}
	if len(sigBytes) != len(sig) {
		return sig, errors.Errorf("invalid signature length %d", len(sigBytes))
	}

	copy(sig[:], sigBytes)
	return sig, nil
}
