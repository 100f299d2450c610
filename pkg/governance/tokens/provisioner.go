// Package tokens provisions the SPL token accounts governance instructions
// read from and write to.
package tokens

import (
	"bytes"
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/code-payments/governance-client/pkg/governance/common"
	"github.com/code-payments/governance-client/pkg/metrics"
	"github.com/code-payments/governance-client/pkg/solana"
	"github.com/code-payments/governance-client/pkg/solana/system"
	"github.com/code-payments/governance-client/pkg/solana/token"
)

const metricsStructName = "tokens.provisioner"

// Provisioner resolves associated token accounts, returning the instruction
// that creates a missing one for the caller to prepend to its transaction.
type Provisioner struct {
	log    *logrus.Entry
	client solana.Client
	payer  *common.Account
}

func NewProvisioner(client solana.Client, payer *common.Account) *Provisioner {
	return &Provisioner{
		log:    logrus.StandardLogger().WithField("type", "governance/tokens"),
		client: client,
		payer:  payer,
	}
}

// Address derives the associated token account without touching the network.
func (p *Provisioner) Address(mint, owner *common.Account) (*common.Account, error) {
	return owner.ToAssociatedTokenAccount(mint)
}

// GetOrCreate returns the owner's associated token account for mint. When the
// account doesn't exist yet, the returned instruction creates it; otherwise
// the instruction is nil. Program addresses such as escrows and redeemers
// own token accounts too, so off curve owners are accepted when
// allowOffCurve is set.
func (p *Provisioner) GetOrCreate(ctx context.Context, mint, owner *common.Account, allowOffCurve bool) (*common.Account, *solana.Instruction, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "GetOrCreate")
	defer tracer.End()

	log := p.log.WithFields(logrus.Fields{
		"method": "GetOrCreate",
		"mint":   mint.String(),
		"owner":  owner.String(),
	})

	if !allowOffCurve && !owner.IsOnCurve() {
		return nil, nil, common.NewInvalidArgumentError("owner", "owner is off curve")
	}

	ata, err := p.Address(mint, owner)
	if err != nil {
		return nil, nil, err
	}

	info, err := p.client.GetAccountInfo(ctx, ata.ToBytes(), solana.CommitmentConfirmed)
	switch err {
	case nil:
		if !bytes.Equal(info.Owner, token.ProgramKey) {
			return nil, nil, token.ErrInvalidTokenAccount
		}

		var account token.Account
		if !account.Unmarshal(info.Data) || !bytes.Equal(account.Mint, mint.ToBytes()) {
			return nil, nil, token.ErrInvalidTokenAccount
		}

		return ata, nil, nil
	case solana.ErrNoAccountInfo:
		log.WithField("ata", ata.String()).Debug("associated token account missing, creating")

		ixn, _, err := token.CreateAssociatedTokenAccountIdempotent(p.payer.ToBytes(), owner.ToBytes(), mint.ToBytes())
		if err != nil {
			return nil, nil, err
		}
		return ata, &ixn, nil
	default:
		tracer.OnError(err)
		return nil, nil, errors.Wrap(err, "error getting token account")
	}
}

// Balance returns the raw token amount held by a token account.
func (p *Provisioner) Balance(ctx context.Context, account *common.Account) (uint64, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "Balance")
	defer tracer.End()

	quarks, _, err := p.client.GetTokenAccountBalance(ctx, account.ToBytes(), solana.CommitmentConfirmed)
	if err != nil {
		tracer.OnError(err)
		return 0, errors.Wrapf(err, "error getting balance of %s", account.String())
	}
	return quarks, nil
}

// GetMint returns the decoded state of an initialized mint.
func (p *Provisioner) GetMint(ctx context.Context, mint *common.Account) (*token.Mint, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "GetMint")
	defer tracer.End()

	info, err := p.client.GetAccountInfo(ctx, mint.ToBytes(), solana.CommitmentConfirmed)
	if err != nil {
		tracer.OnError(err)
		return nil, errors.Wrapf(err, "error getting mint %s", mint.String())
	}
	if !bytes.Equal(info.Owner, token.ProgramKey) {
		return nil, token.ErrInvalidMint
	}

	var state token.Mint
	if !state.Unmarshal(info.Data) || !state.IsInitialized {
		return nil, token.ErrInvalidMint
	}
	return &state, nil
}

// CreateMint returns the instructions that allocate and initialize a new mint
// under authority. The mint account must sign the transaction.
func (p *Provisioner) CreateMint(ctx context.Context, mint, authority *common.Account, decimals byte) ([]solana.Instruction, error) {
	lamports, err := p.client.GetMinimumBalanceForRentExemption(ctx, token.MintAccountSize)
	if err != nil {
		return nil, errors.Wrap(err, "error getting mint rent exemption")
	}

	return []solana.Instruction{
		system.CreateAccount(p.payer.ToBytes(), mint.ToBytes(), token.ProgramKey, lamports, token.MintAccountSize),
		token.InitializeMint(mint.ToBytes(), authority.ToBytes(), nil, decimals),
	}, nil
}

// MintTo returns the instruction minting amount into destination. The mint
// authority must sign.
func (p *Provisioner) MintTo(mint, destination, authority *common.Account, amount uint64) solana.Instruction {
	return token.MintTo(mint.ToBytes(), destination.ToBytes(), authority.ToBytes(), amount)
}
