package common

import (
	"bytes"
	"crypto/ed25519"
	"encoding/json"
	"os"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"

	"github.com/code-payments/governance-client/pkg/solana"
	"github.com/code-payments/governance-client/pkg/solana/token"
)

// Key is a raw 32 byte public key.
type Key []byte

func (k Key) ToBytes() []byte {
	return k
}

func (k Key) ToBase58() string {
	return base58.Encode(k)
}

// Account is an address on the ledger. It can sign only when constructed from
// a private key.
type Account struct {
	public  ed25519.PublicKey
	private ed25519.PrivateKey
	encoded string
}

func NewAccountFromPublicKeyBytes(publicKey []byte) (*Account, error) {
	if len(publicKey) != ed25519.PublicKeySize {
		return nil, errors.Errorf("public key must be %d bytes, got %d", ed25519.PublicKeySize, len(publicKey))
	}

	public := make(ed25519.PublicKey, ed25519.PublicKeySize)
	copy(public, publicKey)
	return &Account{public: public, encoded: base58.Encode(public)}, nil
}

func NewAccountFromPublicKeyString(publicKey string) (*Account, error) {
	decoded, err := base58.Decode(publicKey)
	if err != nil {
		return nil, errors.Wrap(err, "error decoding public key as base58")
	}
	return NewAccountFromPublicKeyBytes(decoded)
}

func NewAccountFromPrivateKeyBytes(privateKey []byte) (*Account, error) {
	if len(privateKey) != ed25519.PrivateKeySize {
		return nil, errors.Errorf("private key must be %d bytes, got %d", ed25519.PrivateKeySize, len(privateKey))
	}

	private := make(ed25519.PrivateKey, ed25519.PrivateKeySize)
	copy(private, privateKey)

	account, err := NewAccountFromPublicKeyBytes(private.Public().(ed25519.PublicKey))
	if err != nil {
		return nil, err
	}
	account.private = private

	if err := account.Validate(); err != nil {
		return nil, err
	}
	return account, nil
}

func NewAccountFromPrivateKeyString(privateKey string) (*Account, error) {
	decoded, err := base58.Decode(privateKey)
	if err != nil {
		return nil, errors.Wrap(err, "error decoding private key as base58")
	}
	return NewAccountFromPrivateKeyBytes(decoded)
}

// NewAccountFromKeypairFile loads a keypair file in the Solana CLI format: a
// JSON array holding the 64 private key bytes.
func NewAccountFromKeypairFile(path string) (*Account, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading keypair file %s", path)
	}

	var ints []int
	if err := json.Unmarshal(raw, &ints); err != nil {
		return nil, errors.Wrap(err, "keypair file must contain a json array of bytes")
	}

	values := make([]byte, len(ints))
	for i, v := range ints {
		if v < 0 || v > 255 {
			return nil, errors.Errorf("invalid keypair byte %d", v)
		}
		values[i] = byte(v)
	}

	return NewAccountFromPrivateKeyBytes(values)
}

func NewRandomAccount() (*Account, error) {
	_, private, err := ed25519.GenerateKey(nil)
	if err != nil {
		return nil, errors.Wrap(err, "error generating private key")
	}
	return NewAccountFromPrivateKeyBytes(private)
}

func (a *Account) PublicKey() Key {
	return Key(a.public)
}

// ToBytes returns the raw public key, the form instruction builders take.
func (a *Account) ToBytes() ed25519.PublicKey {
	return a.public
}

// CanSign reports whether the private key is available.
func (a *Account) CanSign() bool {
	return a.private != nil
}

func (a *Account) Sign(message []byte) ([]byte, error) {
	if a.private == nil {
		return nil, errors.New("private key not available")
	}
	return ed25519.Sign(a.private, message), nil
}

// SigningKey returns the private key in the form transactions are signed with.
func (a *Account) SigningKey() (ed25519.PrivateKey, error) {
	if a.private == nil {
		return nil, errors.New("private key not available")
	}
	return a.private, nil
}

func (a *Account) ToAssociatedTokenAccount(mint *Account) (*Account, error) {
	if err := a.Validate(); err != nil {
		return nil, errors.Wrap(err, "error validating owner account")
	}

	ata, err := token.GetAssociatedAccount(a.public, mint.ToBytes())
	if err != nil {
		return nil, err
	}
	return NewAccountFromPublicKeyBytes(ata)
}

func (a *Account) IsOnCurve() bool {
	return solana.IsOnCurve(a.public)
}

func (a *Account) Validate() error {
	if a == nil {
		return errors.New("account is nil")
	}
	if len(a.public) != ed25519.PublicKeySize {
		return errors.New("public key has invalid length")
	}
	if a.private == nil {
		return nil
	}
	if !bytes.Equal(a.private.Public().(ed25519.PublicKey), a.public) {
		return errors.New("private key doesn't map to public key")
	}
	return nil
}

func (a *Account) String() string {
	return a.encoded
}
