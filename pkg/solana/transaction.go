package solana

import (
	"bytes"
	"crypto/ed25519"
	"crypto/sha256"
	"sort"

	"github.com/mr-tron/base58/base58"
	"github.com/pkg/errors"
)

// MaxTransactionSize is the largest serialized transaction that fits in a
// single packet.
const MaxTransactionSize = 1232

var ErrTransactionTooLarge = errors.New("transaction exceeds max transaction size")

type Signature [ed25519.SignatureSize]byte
type Blockhash [sha256.Size]byte

type Header struct {
	NumSignatures     byte
	NumReadonlySigned byte
	NumReadOnly       byte
}

// Message is a legacy transaction message.
type Message struct {
	Header          Header
	Accounts        []ed25519.PublicKey
	RecentBlockhash Blockhash
	Instructions    []CompiledInstruction
}

type Transaction struct {
	Signatures []Signature
	Message    Message
}

// NewTransaction compiles the instructions into an unsigned legacy transaction
// with payer as the fee payer and first signer.
func NewTransaction(payer ed25519.PublicKey, instructions ...Instruction) Transaction {
	metas := collectAccounts(payer, instructions)

	var m Message
	keys := make([]ed25519.PublicKey, len(metas))
	m.Accounts = make([]ed25519.PublicKey, len(metas))
	for i, meta := range metas {
		keys[i] = meta.PublicKey
		m.Accounts[i] = meta.PublicKey
		if len(meta.PublicKey) == 0 {
			m.Accounts[i] = make(ed25519.PublicKey, ed25519.PublicKeySize)
		}

		switch {
		case meta.IsSigner && !meta.IsWritable:
			m.Header.NumSignatures++
			m.Header.NumReadonlySigned++
		case meta.IsSigner:
			m.Header.NumSignatures++
		case !meta.IsWritable:
			m.Header.NumReadOnly++
		}
	}

	m.Instructions = make([]CompiledInstruction, len(instructions))
	for i, ixn := range instructions {
		compiled := CompiledInstruction{
			ProgramIndex: byte(indexOf(keys, ixn.Program)),
			Data:         ixn.Data,
		}
		for _, account := range ixn.Accounts {
			compiled.Accounts = append(compiled.Accounts, byte(indexOf(keys, account.PublicKey)))
		}
		m.Instructions[i] = compiled
	}

	return Transaction{
		Signatures: make([]Signature, m.Header.NumSignatures),
		Message:    m,
	}
}

// collectAccounts returns every distinct account referenced by the payer and
// instructions, with merged access, in message order.
func collectAccounts(payer ed25519.PublicKey, instructions []Instruction) []AccountMeta {
	metas := []AccountMeta{{PublicKey: payer, IsSigner: true, IsWritable: true, isPayer: true}}
	add := func(meta AccountMeta) {
		for i := range metas {
			if bytes.Equal(metas[i].PublicKey, meta.PublicKey) {
				metas[i].merge(meta)
				return
			}
		}
		metas = append(metas, meta)
	}

	for _, ixn := range instructions {
		add(AccountMeta{PublicKey: ixn.Program, isProgram: true})
		for _, account := range ixn.Accounts {
			add(account)
		}
	}

	sort.SliceStable(metas, func(i, j int) bool {
		return metas[i].before(metas[j])
	})
	return metas
}

func (t *Transaction) Signature() []byte {
	return t.Signatures[0][:]
}

// RequiredSigners returns the accounts whose signatures the message requires,
// in signature slot order.
func (t *Transaction) RequiredSigners() []ed25519.PublicKey {
	return t.Message.Accounts[:t.Message.Header.NumSignatures]
}

// MissingSigners returns the required signers that have not signed yet.
func (t *Transaction) MissingSigners() []ed25519.PublicKey {
	var empty Signature
	var missing []ed25519.PublicKey
	for i, signer := range t.RequiredSigners() {
		if t.Signatures[i] == empty {
			missing = append(missing, signer)
		}
	}
	return missing
}

func (t *Transaction) SetBlockhash(bh Blockhash) {
	t.Message.RecentBlockhash = bh
}

// Sign fills the signature slot of each key. Every key must belong to a
// required signer.
func (t *Transaction) Sign(signers ...ed25519.PrivateKey) error {
	message := t.Message.Marshal()

	for _, key := range signers {
		pub := key.Public().(ed25519.PublicKey)

		slot := indexOf(t.RequiredSigners(), pub)
		if slot < 0 {
			if indexOf(t.Message.Accounts, pub) < 0 {
				return errors.Errorf("signing account %s is not in the account list", base58.Encode(pub))
			}
			return errors.Errorf("signing account %s is not in the list of signers", base58.Encode(pub))
		}

		copy(t.Signatures[slot][:], ed25519.Sign(key, message))
	}

	return nil
}

// Verify checks every signature slot against the message.
func (t *Transaction) Verify() error {
	message := t.Message.Marshal()
	for i, signer := range t.RequiredSigners() {
		if !ed25519.Verify(signer, message, t.Signatures[i][:]) {
			return errors.Errorf("invalid signature for %s", base58.Encode(signer))
		}
	}
	return nil
}

func indexOf(keys []ed25519.PublicKey, key ed25519.PublicKey) int {
	for i, k := range keys {
		if bytes.Equal(k, key) {
			return i
		}
	}
	return -1
}
