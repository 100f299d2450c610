// Package data reads and decodes the governance programs' on-chain state.
package data

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"math/big"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/code-payments/governance-client/pkg/cache"
	"github.com/code-payments/governance-client/pkg/governance/common"
	"github.com/code-payments/governance-client/pkg/governance/votingpower"
	"github.com/code-payments/governance-client/pkg/metrics"
	"github.com/code-payments/governance-client/pkg/solana"
	"github.com/code-payments/governance-client/pkg/solana/governor"
	"github.com/code-payments/governance-client/pkg/solana/lockedvoter"
	"github.com/code-payments/governance-client/pkg/solana/smartwallet"
	"github.com/code-payments/governance-client/pkg/solana/system"
)

const (
	metricsStructName = "data.provider"

	lockerCacheBudget = 128
)

var (
	ErrAccountNotFound = errors.New("account not found")
)

// Provider reads governance accounts over RPC at confirmed commitment.
//
// Lockers are cached since their parameters only change through governance.
// Callers that change a locker must call InvalidateLocker.
type Provider struct {
	log     *logrus.Entry
	session *common.Session

	lockers cache.Cache
}

func NewProvider(session *common.Session) *Provider {
	return &Provider{
		log:     logrus.StandardLogger().WithField("type", "governance/data"),
		session: session,
		lockers: cache.NewCache(lockerCacheBudget),
	}
}

func (p *Provider) GetSmartWallet(ctx context.Context, address *common.Account) (*smartwallet.SmartWalletAccount, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "GetSmartWallet")
	defer tracer.End()

	var account smartwallet.SmartWalletAccount
	err := p.load(ctx, address, p.session.SmartWallet.ID, account.Unmarshal)
	if err != nil {
		tracer.OnError(err)
		return nil, err
	}
	return &account, nil
}

func (p *Provider) GetGovernor(ctx context.Context, address *common.Account) (*governor.GovernorAccount, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "GetGovernor")
	defer tracer.End()

	var account governor.GovernorAccount
	err := p.load(ctx, address, p.session.Governor.ID, account.Unmarshal)
	if err != nil {
		tracer.OnError(err)
		return nil, err
	}
	return &account, nil
}

func (p *Provider) GetProposal(ctx context.Context, address *common.Account) (*governor.ProposalAccount, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "GetProposal")
	defer tracer.End()

	var account governor.ProposalAccount
	err := p.load(ctx, address, p.session.Governor.ID, account.Unmarshal)
	if err != nil {
		tracer.OnError(err)
		return nil, err
	}
	return &account, nil
}

func (p *Provider) GetVote(ctx context.Context, address *common.Account) (*governor.VoteAccount, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "GetVote")
	defer tracer.End()

	var account governor.VoteAccount
	err := p.load(ctx, address, p.session.Governor.ID, account.Unmarshal)
	if err != nil {
		tracer.OnError(err)
		return nil, err
	}
	return &account, nil
}

// GetLocker returns the locker, from cache when possible.
func (p *Provider) GetLocker(ctx context.Context, address *common.Account) (*lockedvoter.LockerAccount, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "GetLocker")
	defer tracer.End()

	key := address.PublicKey().ToBase58()
	if cached, ok := p.lockers.Retrieve(key); ok {
		cloned := *cached.(*lockedvoter.LockerAccount)
		return &cloned, nil
	}

	var account lockedvoter.LockerAccount
	err := p.load(ctx, address, p.session.LockedVoter.ID, account.Unmarshal)
	if err != nil {
		tracer.OnError(err)
		return nil, err
	}

	cloned := account
	if err := p.lockers.Insert(key, &cloned, 1); err != nil && err != cache.ErrKeyExists {
		p.log.WithError(err).WithField("locker", key).Warn("failed to cache locker")
	}
	return &account, nil
}

// InvalidateLocker drops a cached locker so the next read goes to the network.
func (p *Provider) InvalidateLocker(address *common.Account) {
	p.lockers.Invalidate(address.PublicKey().ToBase58())
}

func (p *Provider) GetEscrow(ctx context.Context, address *common.Account) (*lockedvoter.EscrowAccount, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "GetEscrow")
	defer tracer.End()

	var account lockedvoter.EscrowAccount
	err := p.load(ctx, address, p.session.LockedVoter.ID, account.Unmarshal)
	if err != nil {
		tracer.OnError(err)
		return nil, err
	}
	return &account, nil
}

// GetEscrowsByLocker returns every escrow opened against locker, keyed by
// escrow address.
func (p *Provider) GetEscrowsByLocker(ctx context.Context, locker *common.Account) (map[string]*lockedvoter.EscrowAccount, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "GetEscrowsByLocker")
	defer tracer.End()

	// The locker is the first field after the discriminator
	keyed, err := p.session.Client.GetProgramAccounts(ctx, p.session.LockedVoter.ID, solana.CommitmentConfirmed, solana.MemcmpFilter{
		Offset: 8,
		Bytes:  locker.ToBytes(),
	})
	if err != nil {
		tracer.OnError(err)
		return nil, errors.Wrap(err, "error getting program accounts")
	}

	escrows := make(map[string]*lockedvoter.EscrowAccount)
	for _, item := range keyed {
		var escrow lockedvoter.EscrowAccount
		if err := escrow.Unmarshal(item.Account.Data); err != nil {
			// Redeemers and blacklists also start with the locker
			continue
		}
		escrows[base58.Encode(item.PublicKey)] = &escrow
	}
	return escrows, nil
}

func (p *Provider) GetRedeemer(ctx context.Context, address *common.Account) (*lockedvoter.RedeemerAccount, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "GetRedeemer")
	defer tracer.End()

	var account lockedvoter.RedeemerAccount
	err := p.load(ctx, address, p.session.LockedVoter.ID, account.Unmarshal)
	if err != nil {
		tracer.OnError(err)
		return nil, err
	}
	return &account, nil
}

func (p *Provider) GetBlacklist(ctx context.Context, address *common.Account) (*lockedvoter.BlacklistAccount, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "GetBlacklist")
	defer tracer.End()

	var account lockedvoter.BlacklistAccount
	err := p.load(ctx, address, p.session.LockedVoter.ID, account.Unmarshal)
	if err != nil {
		tracer.OnError(err)
		return nil, err
	}
	return &account, nil
}

func (p *Provider) GetWhitelistEntry(ctx context.Context, address *common.Account) (*lockedvoter.WhitelistEntryAccount, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "GetWhitelistEntry")
	defer tracer.End()

	var account lockedvoter.WhitelistEntryAccount
	err := p.load(ctx, address, p.session.LockedVoter.ID, account.Unmarshal)
	if err != nil {
		tracer.OnError(err)
		return nil, err
	}
	return &account, nil
}

// GetClock returns the cluster clock, which is what programs compare lockup
// and cutoff times against.
func (p *Provider) GetClock(ctx context.Context) (*system.Clock, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "GetClock")
	defer tracer.End()

	info, err := p.session.Client.GetAccountInfo(ctx, system.ClockSysVar, solana.CommitmentConfirmed)
	if err != nil {
		tracer.OnError(err)
		return nil, errors.Wrap(err, "error getting clock sysvar")
	}

	var clock system.Clock
	if err := clock.Unmarshal(info.Data); err != nil {
		tracer.OnError(err)
		return nil, err
	}
	return &clock, nil
}

// GetVotingPower returns the escrow's voting power at the cluster's current
// time.
func (p *Provider) GetVotingPower(ctx context.Context, escrowAddress *common.Account) (*big.Int, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "GetVotingPower")
	defer tracer.End()

	escrow, err := p.GetEscrow(ctx, escrowAddress)
	if err != nil {
		return nil, err
	}

	lockerAddress, err := common.NewAccountFromPublicKeyBytes(escrow.Locker)
	if err != nil {
		return nil, err
	}
	locker, err := p.GetLocker(ctx, lockerAddress)
	if err != nil {
		return nil, err
	}

	clock, err := p.GetClock(ctx)
	if err != nil {
		return nil, err
	}

	return votingpower.Calculate(escrow, locker.Params, clock.UnixTimestamp), nil
}

func (p *Provider) load(ctx context.Context, address *common.Account, owner ed25519.PublicKey, unmarshal func([]byte) error) error {
	info, err := p.session.Client.GetAccountInfo(ctx, address.ToBytes(), solana.CommitmentConfirmed)
	if err == solana.ErrNoAccountInfo {
		return ErrAccountNotFound
	} else if err != nil {
		return errors.Wrapf(err, "error getting account %s", address.PublicKey().ToBase58())
	}

	if !bytes.Equal(info.Owner, owner) {
		return errors.Errorf("account %s is owned by %s", address.PublicKey().ToBase58(), base58.Encode(info.Owner))
	}

	return unmarshal(info.Data)
}
