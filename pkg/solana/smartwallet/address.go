package smartwallet

import (
	"crypto/ed25519"

	"github.com/code-payments/governance-client/pkg/solana"
)

var (
	SmartWalletPrefix = []byte("GokiSmartWallet")
)

type GetSmartWalletAddressArgs struct {
	Base ed25519.PublicKey
}

func (p *Program) GetSmartWalletAddress(args *GetSmartWalletAddressArgs) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		p.ID,
		SmartWalletPrefix,
		args.Base,
	)
}
