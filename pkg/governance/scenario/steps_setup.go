package scenario

import (
	"bytes"
	"context"
	"crypto/ed25519"

	"github.com/mr-tron/base58"
	"github.com/shopspring/decimal"

	"github.com/code-payments/governance-client/pkg/governance/common"
	"github.com/code-payments/governance-client/pkg/governance/votingpower"
	"github.com/code-payments/governance-client/pkg/solana"
	"github.com/code-payments/governance-client/pkg/solana/governor"
	"github.com/code-payments/governance-client/pkg/solana/lockedvoter"
	"github.com/code-payments/governance-client/pkg/solana/smartwallet"
)

const (
	maxSmartWalletOwners = 5

	escrowNotEndedReason = "Escrow has not ended"
)

// createMints creates the governance and receipt mints, both under the payer's
// authority, and mints the payer a balance of each.
func (d *Driver) createMints(ctx context.Context, state State) (State, error) {
	payer := d.session.Payer

	governanceMint, err := common.NewRandomAccount()
	if err != nil {
		return state, err
	}
	receiptMint, err := common.NewRandomAccount()
	if err != nil {
		return state, err
	}

	var ixns []solana.Instruction
	var holders []*common.Account
	for _, mint := range []*common.Account{governanceMint, receiptMint} {
		create, err := d.tokens.CreateMint(ctx, mint, payer, d.params.Decimals)
		if err != nil {
			return state, err
		}

		holder, createHolder, err := d.tokens.GetOrCreate(ctx, mint, payer, false)
		if err != nil {
			return state, err
		}

		ixns = append(ixns, create...)
		if createHolder != nil {
			ixns = append(ixns, *createHolder)
		}
		ixns = append(ixns, d.tokens.MintTo(mint, holder, payer, d.amounts.mint))
		holders = append(holders, holder)
	}

	state, err = d.submit(ctx, state, "create_mints", []*common.Account{governanceMint, receiptMint}, ixns...)
	if err != nil {
		return state, err
	}

	for i, mint := range []*common.Account{governanceMint, receiptMint} {
		info, err := d.tokens.GetMint(ctx, mint)
		if err != nil {
			return state, err
		}
		if info.Decimals != d.params.Decimals || info.Supply != d.amounts.mint || !bytes.Equal(info.MintAuthority, payer.ToBytes()) {
			return state, mismatch("mint %s has decimals %d and supply %d", mint, info.Decimals, info.Supply)
		}

		balance, err := d.tokens.Balance(ctx, holders[i])
		if err != nil {
			return state, err
		}
		if balance != d.amounts.mint {
			return state, mismatch("balance of %s is %d, expected %d", holders[i], balance, d.amounts.mint)
		}
	}

	state.GovernanceMint = governanceMint
	state.ReceiptMint = receiptMint
	state.GovernanceTokens = holders[0]
	state.ReceiptTokens = holders[1]
	return state, nil
}

// createSmartWalletAndGovernor creates both in one transaction. The wallet
// must exist before the governor that references it, so its instruction
// comes first. The locker doesn't exist yet, but its address is already
// fixed by the shared base key, so it is the governor's electorate.
func (d *Driver) createSmartWalletAndGovernor(ctx context.Context, state State) (State, error) {
	payer := d.session.Payer

	base, err := common.NewRandomAccount()
	if err != nil {
		return state, err
	}

	smartWallet, smartWalletBump, err := derived(d.session.SmartWallet.GetSmartWalletAddress(&smartwallet.GetSmartWalletAddressArgs{
		Base: base.ToBytes(),
	}))
	if err != nil {
		return state, err
	}

	gov, governorBump, err := derived(d.session.Governor.GetGovernorAddress(&governor.GetGovernorAddressArgs{
		Base: base.ToBytes(),
	}))
	if err != nil {
		return state, err
	}

	locker, _, err := derived(d.session.LockedVoter.GetLockerAddress(&lockedvoter.GetLockerAddressArgs{
		Base: base.ToBytes(),
	}))
	if err != nil {
		return state, err
	}

	createSmartWallet := d.session.SmartWallet.NewCreateSmartWalletInstruction(
		&smartwallet.CreateSmartWalletInstructionAccounts{
			Base:        base.ToBytes(),
			SmartWallet: smartWallet.ToBytes(),
			Payer:       payer.ToBytes(),
		},
		&smartwallet.CreateSmartWalletInstructionArgs{
			Bump:      smartWalletBump,
			MaxOwners: maxSmartWalletOwners,
			Owners: []ed25519.PublicKey{
				payer.ToBytes(),
				gov.ToBytes(),
			},
			Threshold:    1,
			MinimumDelay: 0,
		},
	)

	createGovernor := d.session.Governor.NewCreateGovernorInstruction(
		&governor.CreateGovernorInstructionAccounts{
			Base:        base.ToBytes(),
			Governor:    gov.ToBytes(),
			SmartWallet: smartWallet.ToBytes(),
			Payer:       payer.ToBytes(),
		},
		&governor.CreateGovernorInstructionArgs{
			Bump:       governorBump,
			Electorate: locker.ToBytes(),
			Params:     d.params.Governance,
		},
	)

	state, err = d.submit(ctx, state, "create_smart_wallet_and_governor", []*common.Account{base}, createSmartWallet, createGovernor)
	if err != nil {
		return state, err
	}

	wallet, err := d.data.GetSmartWallet(ctx, smartWallet)
	if err != nil {
		return state, err
	}
	if wallet.Threshold != 1 || len(wallet.Owners) != 2 {
		return state, mismatch("smart wallet has threshold %d and %d owners", wallet.Threshold, len(wallet.Owners))
	}

	governorAccount, err := d.data.GetGovernor(ctx, gov)
	if err != nil {
		return state, err
	}
	if !bytes.Equal(governorAccount.SmartWallet, smartWallet.ToBytes()) {
		return state, mismatch("governor smart wallet is %s", base58.Encode(governorAccount.SmartWallet))
	}
	if !bytes.Equal(governorAccount.Electorate, locker.ToBytes()) {
		return state, mismatch("governor electorate is %s", base58.Encode(governorAccount.Electorate))
	}

	state.Base = base
	state.SmartWallet = smartWallet
	state.Governor = gov
	return state, nil
}

func (d *Driver) createLocker(ctx context.Context, state State) (State, error) {
	locker, lockerBump, err := derived(d.session.LockedVoter.GetLockerAddress(&lockedvoter.GetLockerAddressArgs{
		Base: state.Base.ToBytes(),
	}))
	if err != nil {
		return state, err
	}

	ixn := d.session.LockedVoter.NewNewLockerInstruction(
		&lockedvoter.NewLockerInstructionAccounts{
			Base:      state.Base.ToBytes(),
			Locker:    locker.ToBytes(),
			TokenMint: state.GovernanceMint.ToBytes(),
			Governor:  state.Governor.ToBytes(),
			Payer:     d.session.Payer.ToBytes(),
		},
		&lockedvoter.NewLockerInstructionArgs{
			Bump:   lockerBump,
			Params: d.params.Locker,
		},
	)

	state, err = d.submit(ctx, state, "create_locker", []*common.Account{state.Base}, ixn)
	if err != nil {
		return state, err
	}

	account, err := d.data.GetLocker(ctx, locker)
	if err != nil {
		return state, err
	}
	if account.Params != d.params.Locker {
		return state, mismatch("locker params are %+v", account.Params)
	}
	if !bytes.Equal(account.TokenMint, state.GovernanceMint.ToBytes()) {
		return state, mismatch("locker mint is %s", base58.Encode(account.TokenMint))
	}

	state.Locker = locker
	return state, nil
}

func (d *Driver) createEscrow(ctx context.Context, state State) (State, error) {
	owner := d.session.Payer

	escrow, escrowBump, err := derived(d.session.LockedVoter.GetEscrowAddress(&lockedvoter.GetEscrowAddressArgs{
		Locker: state.Locker.ToBytes(),
		Owner:  owner.ToBytes(),
	}))
	if err != nil {
		return state, err
	}

	ixn := d.session.LockedVoter.NewNewEscrowInstruction(
		&lockedvoter.NewEscrowInstructionAccounts{
			Locker:      state.Locker.ToBytes(),
			Escrow:      escrow.ToBytes(),
			EscrowOwner: owner.ToBytes(),
			Payer:       d.session.Payer.ToBytes(),
		},
		&lockedvoter.NewEscrowInstructionArgs{
			Bump: escrowBump,
		},
	)

	state, err = d.submit(ctx, state, "create_escrow", nil, ixn)
	if err != nil {
		return state, err
	}

	account, err := d.data.GetEscrow(ctx, escrow)
	if err != nil {
		return state, err
	}
	if account.Amount != 0 || !bytes.Equal(account.Owner, owner.ToBytes()) {
		return state, mismatch("new escrow holds %d", account.Amount)
	}

	state.Escrow = escrow
	return state, nil
}

// lockTokens locks the payer's governance tokens and checks the resulting
// voting power against the full lockup value.
func (d *Driver) lockTokens(ctx context.Context, state State) (State, error) {
	escrowTokens, createEscrowTokens, err := d.tokens.GetOrCreate(ctx, state.GovernanceMint, state.Escrow, true)
	if err != nil {
		return state, err
	}

	var ixns []solana.Instruction
	if createEscrowTokens != nil {
		ixns = append(ixns, *createEscrowTokens)
	}

	// The whitelist only restricts locks made through CPI; a top level lock
	// is always allowed.
	ixns = append(ixns, d.session.LockedVoter.NewLockWithWhitelistInstruction(
		&lockedvoter.LockInstructionAccounts{
			Locker:       state.Locker.ToBytes(),
			Escrow:       state.Escrow.ToBytes(),
			EscrowTokens: escrowTokens.ToBytes(),
			EscrowOwner:  d.session.Payer.ToBytes(),
			SourceTokens: state.GovernanceTokens.ToBytes(),
		},
		&lockedvoter.LockInstructionArgs{
			Amount:   d.amounts.lock,
			Duration: d.amounts.lockDuration,
		},
	))

	state, err = d.submit(ctx, state, "lock_tokens", nil, ixns...)
	if err != nil {
		return state, err
	}

	escrow, err := d.data.GetEscrow(ctx, state.Escrow)
	if err != nil {
		return state, err
	}
	if escrow.Amount != d.amounts.lock {
		return state, mismatch("escrow holds %d, expected %d", escrow.Amount, d.amounts.lock)
	}

	power, err := d.data.GetVotingPower(ctx, state.Escrow)
	if err != nil {
		return state, err
	}

	expected := d.expectedVotingPower()
	actual := votingpower.Display(power, d.params.Decimals)
	if !actual.Round(0).Equal(expected) {
		return state, mismatch("voting power is %s, expected about %s", actual, expected)
	}

	d.log.WithField("run_id", state.RunID).WithField("voting_power", actual.String()).Info("tokens locked")

	state.EscrowTokens = escrowTokens
	state.VotingPower = power
	return state, nil
}

// expectedVotingPower is the display value of a lock at the parameters'
// amount and duration, evaluated at the moment of locking.
func (d *Driver) expectedVotingPower() decimal.Decimal {
	maxDuration := int64(d.params.Locker.MaxStakeDuration)
	duration := d.amounts.lockDuration
	if duration > maxDuration {
		duration = maxDuration
	}

	escrow := &lockedvoter.EscrowAccount{
		Amount:          d.amounts.lock,
		EscrowStartedAt: 1,
		EscrowEndsAt:    1 + duration,
	}
	power := votingpower.Calculate(escrow, d.params.Locker, 1)
	return votingpower.Display(power, d.params.Decimals).Round(0)
}

// earlyExit attempts to withdraw before the lockup ends, which must fail and
// leave the escrow untouched.
func (d *Driver) earlyExit(ctx context.Context, state State) (State, error) {
	before, err := d.data.GetEscrow(ctx, state.Escrow)
	if err != nil {
		return state, err
	}

	ixn := d.session.LockedVoter.NewExitInstruction(&lockedvoter.ExitInstructionAccounts{
		Locker:            state.Locker.ToBytes(),
		Escrow:            state.Escrow.ToBytes(),
		EscrowOwner:       d.session.Payer.ToBytes(),
		EscrowTokens:      state.EscrowTokens.ToBytes(),
		DestinationTokens: state.GovernanceTokens.ToBytes(),
		Payer:             d.session.Payer.ToBytes(),
	})

	if err := d.expectRejection(ctx, state, "early_exit", escrowNotEndedReason, nil, ixn); err != nil {
		return state, err
	}

	after, err := d.data.GetEscrow(ctx, state.Escrow)
	if err != nil {
		return state, err
	}
	if after.Amount != before.Amount || after.EscrowEndsAt != before.EscrowEndsAt {
		return state, mismatch("escrow changed by a rejected exit")
	}

	return state, nil
}
