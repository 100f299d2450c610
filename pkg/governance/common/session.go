package common

import (
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/code-payments/governance-client/pkg/solana"
	"github.com/code-payments/governance-client/pkg/solana/governor"
	"github.com/code-payments/governance-client/pkg/solana/lockedvoter"
	"github.com/code-payments/governance-client/pkg/solana/smartwallet"
)

// Session is the explicit context every component works against: the RPC
// endpoint, the program deployments and the fee payer.
type Session struct {
	Client solana.Client
	Payer  *Account

	SmartWallet *smartwallet.Program
	Governor    *governor.Program
	LockedVoter *lockedvoter.Program
}

// Programs holds the program ids of a deployment. Empty ids default to the
// mainnet deployments.
type Programs struct {
	SmartWallet *Account
	Governor    *Account
	LockedVoter *Account
}

func NewSession(client solana.Client, payer *Account, programs Programs) (*Session, error) {
	if client == nil {
		return nil, errors.New("client is required")
	}
	if err := payer.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid payer")
	}
	if !payer.CanSign() {
		return nil, errors.New("payer must have a private key")
	}

	return &Session{
		Client:      client,
		Payer:       payer,
		SmartWallet: smartwallet.New(programID(programs.SmartWallet)),
		Governor:    governor.New(programID(programs.Governor)),
		LockedVoter: lockedvoter.New(programID(programs.LockedVoter)),
	}, nil
}

func programID(account *Account) ed25519.PublicKey {
	if account == nil {
		return nil
	}
	return account.ToBytes()
}
