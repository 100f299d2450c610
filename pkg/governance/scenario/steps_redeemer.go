package scenario

import (
	"bytes"
	"context"
	"time"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"

	"github.com/code-payments/governance-client/pkg/governance/common"
	"github.com/code-payments/governance-client/pkg/governance/data"
	"github.com/code-payments/governance-client/pkg/solana"
	"github.com/code-payments/governance-client/pkg/solana/lockedvoter"
	"github.com/code-payments/governance-client/pkg/solana/system"
)

const (
	alreadyInUseReason = "already in use"
)

// createRedeemer creates the redeemer once the cluster clock has passed the
// cutoff. The cutoff sits just after the escrow's lockup start so the escrow
// stays eligible for instant withdrawal. The treasury is the smart wallet's
// governance token account.
func (d *Driver) createRedeemer(ctx context.Context, state State) (State, error) {
	payer := d.session.Payer

	escrow, err := d.data.GetEscrow(ctx, state.Escrow)
	if err != nil {
		return state, err
	}
	if escrow.EscrowStartedAt == 0 {
		return state, mismatch("escrow %s has no lockup", state.Escrow)
	}

	offset := int64(d.conf.cutoffOffset.Get(ctx) / time.Second)
	if offset < 1 {
		offset = 1
	}
	cutoff := escrow.EscrowStartedAt + offset

	if err := d.waitForClock(ctx, cutoff); err != nil {
		return state, errors.Wrap(err, "error waiting for cutoff")
	}

	treasury, createTreasury, err := d.tokens.GetOrCreate(ctx, state.GovernanceMint, state.SmartWallet, true)
	if err != nil {
		return state, err
	}

	redeemer, redeemerBump, err := derived(d.session.LockedVoter.GetRedeemerAddress(&lockedvoter.GetRedeemerAddressArgs{
		Locker:      state.Locker.ToBytes(),
		ReceiptMint: state.ReceiptMint.ToBytes(),
	}))
	if err != nil {
		return state, err
	}

	programData, _, err := derived(d.session.LockedVoter.GetProgramDataAddress())
	if err != nil {
		return state, err
	}

	var ixns []solana.Instruction
	if createTreasury != nil {
		ixns = append(ixns, *createTreasury)
	}
	ixns = append(ixns, d.session.LockedVoter.NewCreateRedeemerInstruction(
		&lockedvoter.CreateRedeemerInstructionAccounts{
			Locker:               state.Locker.ToBytes(),
			Redeemer:             redeemer.ToBytes(),
			ReceiptMint:          state.ReceiptMint.ToBytes(),
			TreasuryTokenAccount: treasury.ToBytes(),
			Payer:                payer.ToBytes(),
			ProgramData:          programData.ToBytes(),
		},
		&lockedvoter.CreateRedeemerInstructionArgs{
			RedemptionRate: d.params.RedemptionRate,
			CutoffDate:     cutoff,
			Bump:           redeemerBump,
		},
	))

	state, err = d.submit(ctx, state, "create_redeemer", nil, ixns...)
	if err != nil {
		return state, err
	}

	account, err := d.data.GetRedeemer(ctx, redeemer)
	if err != nil {
		return state, err
	}
	switch {
	case account.Status != lockedvoter.RedeemerStatusActive:
		return state, mismatch("new redeemer is %s", account.Status)
	case !bytes.Equal(account.Admin, payer.ToBytes()):
		return state, mismatch("redeemer admin is %s", base58.Encode(account.Admin))
	case account.RedemptionRate != d.params.RedemptionRate:
		return state, mismatch("redemption rate is %d, expected %d", account.RedemptionRate, d.params.RedemptionRate)
	case account.CutoffDate != cutoff:
		return state, mismatch("cutoff date is %d, expected %d", account.CutoffDate, cutoff)
	case !bytes.Equal(account.Treasury, treasury.ToBytes()):
		return state, mismatch("treasury is %s", base58.Encode(account.Treasury))
	}

	state.Redeemer = redeemer
	state.RedeemerAdmin = payer
	state.Treasury = treasury
	return state, nil
}

// addFunds moves receipt tokens from the admin into the redeemer's pool.
func (d *Driver) addFunds(ctx context.Context, state State) (State, error) {
	redeemerTokens, createRedeemerTokens, err := d.tokens.GetOrCreate(ctx, state.ReceiptMint, state.Redeemer, true)
	if err != nil {
		return state, err
	}

	var ixns []solana.Instruction
	if createRedeemerTokens != nil {
		ixns = append(ixns, *createRedeemerTokens)
	}
	ixns = append(ixns, d.session.LockedVoter.NewAddFundsInstruction(
		&lockedvoter.AddFundsInstructionAccounts{
			Locker:                 state.Locker.ToBytes(),
			Redeemer:               state.Redeemer.ToBytes(),
			RedeemerReceiptAccount: redeemerTokens.ToBytes(),
			SourceTokenAccount:     state.ReceiptTokens.ToBytes(),
			Payer:                  state.RedeemerAdmin.ToBytes(),
		},
		&lockedvoter.AddFundsInstructionArgs{
			Amount: d.amounts.redeemerFunds,
		},
	))

	state, err = d.submit(ctx, state, "add_funds", []*common.Account{state.RedeemerAdmin}, ixns...)
	if err != nil {
		return state, err
	}

	account, err := d.data.GetRedeemer(ctx, state.Redeemer)
	if err != nil {
		return state, err
	}
	if account.Amount != d.amounts.redeemerFunds {
		return state, mismatch("redeemer holds %d, expected %d", account.Amount, d.amounts.redeemerFunds)
	}

	balance, err := d.tokens.Balance(ctx, redeemerTokens)
	if err != nil {
		return state, err
	}
	if balance != account.Amount {
		return state, mismatch("redeemer token balance is %d, tracked amount is %d", balance, account.Amount)
	}

	state.RedeemerTokens = redeemerTokens
	return state, nil
}

// toggleRedeemer pauses the redeemer and then reactivates it.
func (d *Driver) toggleRedeemer(ctx context.Context, state State) (State, error) {
	for _, status := range []lockedvoter.RedeemerStatus{
		lockedvoter.RedeemerStatusPaused,
		lockedvoter.RedeemerStatusActive,
	} {
		ixn := d.session.LockedVoter.NewToggleRedeemerInstruction(
			d.redeemerAdminAccounts(state),
			&lockedvoter.ToggleRedeemerInstructionArgs{
				ToggleTo: status,
			},
		)

		var err error
		state, err = d.submit(ctx, state, "toggle_redeemer", []*common.Account{state.RedeemerAdmin}, ixn)
		if err != nil {
			return state, err
		}

		account, err := d.data.GetRedeemer(ctx, state.Redeemer)
		if err != nil {
			return state, err
		}
		if account.Status != status {
			return state, mismatch("redeemer is %s, expected %s", account.Status, status)
		}
	}

	return state, nil
}

// updateRateAndTreasury changes the redemption rate and points the treasury
// at a fresh token account in a single transaction.
func (d *Driver) updateRateAndTreasury(ctx context.Context, state State) (State, error) {
	treasuryOwner, err := common.NewRandomAccount()
	if err != nil {
		return state, err
	}

	treasury, createTreasury, err := d.tokens.GetOrCreate(ctx, state.GovernanceMint, treasuryOwner, false)
	if err != nil {
		return state, err
	}

	var ixns []solana.Instruction
	if createTreasury != nil {
		ixns = append(ixns, *createTreasury)
	}
	ixns = append(ixns,
		d.session.LockedVoter.NewUpdateRedemptionRateInstruction(
			d.redeemerAdminAccounts(state),
			&lockedvoter.UpdateRedemptionRateInstructionArgs{
				NewRate: d.params.UpdatedRedemptionRate,
			},
		),
		d.session.LockedVoter.NewUpdateTreasuryInstruction(
			&lockedvoter.UpdateTreasuryInstructionAccounts{
				Locker:      state.Locker.ToBytes(),
				Redeemer:    state.Redeemer.ToBytes(),
				NewTreasury: treasury.ToBytes(),
				Payer:       state.RedeemerAdmin.ToBytes(),
			},
		),
	)

	state, err = d.submit(ctx, state, "update_rate_and_treasury", []*common.Account{state.RedeemerAdmin}, ixns...)
	if err != nil {
		return state, err
	}

	account, err := d.data.GetRedeemer(ctx, state.Redeemer)
	if err != nil {
		return state, err
	}
	if account.RedemptionRate != d.params.UpdatedRedemptionRate {
		return state, mismatch("redemption rate is %d, expected %d", account.RedemptionRate, d.params.UpdatedRedemptionRate)
	}
	if !bytes.Equal(account.Treasury, treasury.ToBytes()) {
		return state, mismatch("treasury is %s, expected %s", base58.Encode(account.Treasury), treasury)
	}

	state.Treasury = treasury
	return state, nil
}

// redeemerAdminHandoff hands the redeemer to a new admin. Deployments differ
// on whether the update is immediate or needs the new admin to accept, so
// the outcome is read back before deciding. Either way the previous admin
// must not be able to accept afterwards.
func (d *Driver) redeemerAdminHandoff(ctx context.Context, state State) (State, error) {
	previousAdmin := state.RedeemerAdmin

	newAdmin, err := common.NewRandomAccount()
	if err != nil {
		return state, err
	}

	var ixns []solana.Instruction
	if d.params.AdminFundingLamports > 0 {
		ixns = append(ixns, system.Transfer(d.session.Payer.ToBytes(), newAdmin.ToBytes(), d.params.AdminFundingLamports))
	}
	ixns = append(ixns, d.session.LockedVoter.NewUpdateRedeemerAdminInstruction(
		&lockedvoter.UpdateRedeemerAdminInstructionAccounts{
			Locker:       state.Locker.ToBytes(),
			Redeemer:     state.Redeemer.ToBytes(),
			CurrentAdmin: previousAdmin.ToBytes(),
			NewAdmin:     newAdmin.ToBytes(),
		},
	))

	state, err = d.submit(ctx, state, "redeemer_admin_handoff", []*common.Account{previousAdmin}, ixns...)
	if err != nil {
		return state, err
	}

	account, err := d.data.GetRedeemer(ctx, state.Redeemer)
	if err != nil {
		return state, err
	}

	switch {
	case account.HasPendingAdmin() && bytes.Equal(account.PendingAdmin, newAdmin.ToBytes()):
		accept := d.session.LockedVoter.NewAcceptRedeemerAdminInstruction(
			&lockedvoter.AcceptRedeemerAdminInstructionAccounts{
				Locker:       state.Locker.ToBytes(),
				Redeemer:     state.Redeemer.ToBytes(),
				PendingAdmin: newAdmin.ToBytes(),
			},
		)

		state, err = d.submit(ctx, state, "redeemer_admin_handoff", []*common.Account{newAdmin}, accept)
		if err != nil {
			return state, err
		}
	case bytes.Equal(account.Admin, newAdmin.ToBytes()):
		d.log.WithField("run_id", state.RunID).Debug("redeemer admin updated without acceptance")
	default:
		return state, mismatch("redeemer admin is %s after update", base58.Encode(account.Admin))
	}

	staleAccept := d.session.LockedVoter.NewAcceptRedeemerAdminInstruction(
		&lockedvoter.AcceptRedeemerAdminInstructionAccounts{
			Locker:       state.Locker.ToBytes(),
			Redeemer:     state.Redeemer.ToBytes(),
			PendingAdmin: previousAdmin.ToBytes(),
		},
	)
	if err := d.expectRejection(ctx, state, "redeemer_admin_handoff", "", []*common.Account{previousAdmin}, staleAccept); err != nil {
		return state, err
	}

	account, err = d.data.GetRedeemer(ctx, state.Redeemer)
	if err != nil {
		return state, err
	}
	if !bytes.Equal(account.Admin, newAdmin.ToBytes()) {
		return state, mismatch("redeemer admin is %s, expected %s", base58.Encode(account.Admin), newAdmin)
	}
	if account.HasPendingAdmin() {
		return state, mismatch("redeemer still has pending admin %s", base58.Encode(account.PendingAdmin))
	}

	state.RedeemerAdmin = newAdmin
	return state, nil
}

// blacklistEntry adds the payer's escrow to the blacklist and removes it
// again, leaving it eligible for instant withdrawal.
func (d *Driver) blacklistEntry(ctx context.Context, state State) (State, error) {
	blacklist, _, err := derived(d.session.LockedVoter.GetBlacklistAddress(&lockedvoter.GetBlacklistAddressArgs{
		Locker: state.Locker.ToBytes(),
		Escrow: state.Escrow.ToBytes(),
	}))
	if err != nil {
		return state, err
	}

	accounts := &lockedvoter.BlacklistEntryInstructionAccounts{
		Locker:    state.Locker.ToBytes(),
		Redeemer:  state.Redeemer.ToBytes(),
		Escrow:    state.Escrow.ToBytes(),
		Blacklist: blacklist.ToBytes(),
		Payer:     state.RedeemerAdmin.ToBytes(),
	}

	state, err = d.submit(ctx, state, "blacklist_entry", []*common.Account{state.RedeemerAdmin}, d.session.LockedVoter.NewAddBlacklistEntryInstruction(accounts))
	if err != nil {
		return state, err
	}

	entry, err := d.data.GetBlacklist(ctx, blacklist)
	if err != nil {
		return state, err
	}
	if !bytes.Equal(entry.Escrow, state.Escrow.ToBytes()) || !bytes.Equal(entry.Owner, d.session.Payer.ToBytes()) {
		return state, mismatch("blacklist entry is for escrow %s", base58.Encode(entry.Escrow))
	}

	state, err = d.submit(ctx, state, "blacklist_entry", []*common.Account{state.RedeemerAdmin}, d.session.LockedVoter.NewRemoveBlacklistEntryInstruction(accounts))
	if err != nil {
		return state, err
	}

	_, err = d.data.GetBlacklist(ctx, blacklist)
	if err == nil {
		return state, mismatch("blacklist entry %s still exists", blacklist)
	} else if err != data.ErrAccountNotFound {
		return state, err
	}

	return state, nil
}

// instantWithdraw redeems the payer's escrow for receipt tokens. A second
// attempt must fail because the first one blacklisted the escrow.
func (d *Driver) instantWithdraw(ctx context.Context, state State) (State, error) {
	payer := d.session.Payer

	blacklist, _, err := derived(d.session.LockedVoter.GetBlacklistAddress(&lockedvoter.GetBlacklistAddressArgs{
		Locker: state.Locker.ToBytes(),
		Escrow: state.Escrow.ToBytes(),
	}))
	if err != nil {
		return state, err
	}

	before, err := d.data.GetRedeemer(ctx, state.Redeemer)
	if err != nil {
		return state, err
	}
	balanceBefore, err := d.tokens.Balance(ctx, state.ReceiptTokens)
	if err != nil {
		return state, err
	}

	ixn := d.session.LockedVoter.NewInstantWithdrawInstruction(&lockedvoter.InstantWithdrawInstructionAccounts{
		Locker:                 state.Locker.ToBytes(),
		Redeemer:               state.Redeemer.ToBytes(),
		Escrow:                 state.Escrow.ToBytes(),
		Blacklist:              blacklist.ToBytes(),
		ReceiptMint:            state.ReceiptMint.ToBytes(),
		RedeemerReceiptAccount: state.RedeemerTokens.ToBytes(),
		EscrowTokens:           state.EscrowTokens.ToBytes(),
		TreasuryTokenAccount:   state.Treasury.ToBytes(),
		UserReceipt:            state.ReceiptTokens.ToBytes(),
		Payer:                  payer.ToBytes(),
	})

	state, err = d.submit(ctx, state, "instant_withdraw", nil, ixn)
	if err != nil {
		return state, err
	}

	after, err := d.data.GetRedeemer(ctx, state.Redeemer)
	if err != nil {
		return state, err
	}
	balanceAfter, err := d.tokens.Balance(ctx, state.ReceiptTokens)
	if err != nil {
		return state, err
	}

	if after.Amount >= before.Amount {
		return state, mismatch("redeemer holds %d after withdrawal, %d before", after.Amount, before.Amount)
	}
	redeemed := before.Amount - after.Amount
	if balanceAfter-balanceBefore != redeemed {
		return state, mismatch("payer received %d receipt tokens, redeemer paid %d", balanceAfter-balanceBefore, redeemed)
	}

	escrow, err := d.data.GetEscrow(ctx, state.Escrow)
	if err != nil {
		return state, err
	}
	if escrow.Amount != 0 {
		return state, mismatch("escrow holds %d after withdrawal", escrow.Amount)
	}

	if _, err := d.data.GetBlacklist(ctx, blacklist); err != nil {
		return state, errors.Wrap(err, "error loading blacklist entry")
	}

	if err := d.expectRejection(ctx, state, "instant_withdraw_repeat", alreadyInUseReason, nil, ixn); err != nil {
		return state, err
	}

	final, err := d.data.GetRedeemer(ctx, state.Redeemer)
	if err != nil {
		return state, err
	}
	if final.Amount != after.Amount {
		return state, mismatch("redeemer changed by a rejected withdrawal")
	}

	d.log.WithField("run_id", state.RunID).WithField("redeemed", redeemed).Info("escrow redeemed")

	state.Blacklist = blacklist
	state.Redeemed = redeemed
	return state, nil
}

// removeAllFunds drains what is left in the redeemer to the current admin.
func (d *Driver) removeAllFunds(ctx context.Context, state State) (State, error) {
	admin := state.RedeemerAdmin

	destination, createDestination, err := d.tokens.GetOrCreate(ctx, state.ReceiptMint, admin, false)
	if err != nil {
		return state, err
	}

	before, err := d.data.GetRedeemer(ctx, state.Redeemer)
	if err != nil {
		return state, err
	}

	var ixns []solana.Instruction
	if createDestination != nil {
		ixns = append(ixns, *createDestination)
	}
	ixns = append(ixns, d.session.LockedVoter.NewRemoveAllFundsInstruction(
		&lockedvoter.RemoveAllFundsInstructionAccounts{
			Locker:                  state.Locker.ToBytes(),
			Redeemer:                state.Redeemer.ToBytes(),
			RedeemerReceiptAccount:  state.RedeemerTokens.ToBytes(),
			DestinationTokenAccount: destination.ToBytes(),
			Payer:                   admin.ToBytes(),
		},
	))

	state, err = d.submit(ctx, state, "remove_all_funds", []*common.Account{admin}, ixns...)
	if err != nil {
		return state, err
	}

	after, err := d.data.GetRedeemer(ctx, state.Redeemer)
	if err != nil {
		return state, err
	}
	if after.Amount != 0 {
		return state, mismatch("redeemer holds %d after removal", after.Amount)
	}

	balance, err := d.tokens.Balance(ctx, destination)
	if err != nil {
		return state, err
	}
	if balance != before.Amount {
		return state, mismatch("admin received %d, redeemer held %d", balance, before.Amount)
	}

	return state, nil
}

func (d *Driver) redeemerAdminAccounts(state State) *lockedvoter.RedeemerAdminInstructionAccounts {
	return &lockedvoter.RedeemerAdminInstructionAccounts{
		Locker:   state.Locker.ToBytes(),
		Redeemer: state.Redeemer.ToBytes(),
		Payer:    state.RedeemerAdmin.ToBytes(),
	}
}
