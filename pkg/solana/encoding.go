package solana

import (
	"bytes"
	"crypto/ed25519"
	"io"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"

	"github.com/code-payments/governance-client/pkg/solana/shortvec"
)

func (s Signature) ToBase58() string {
	return base58.Encode(s[:])
}

// Marshal encodes t in the legacy wire format. Lengths are bounded by the
// packet size, so encoding cannot fail for transactions built by this
// package.
func (t Transaction) Marshal() []byte {
	out, _ := shortvec.AppendLen(nil, len(t.Signatures))
	for _, sig := range t.Signatures {
		out = append(out, sig[:]...)
	}
	return append(out, t.Message.Marshal()...)
}

func (t *Transaction) Unmarshal(b []byte) error {
	r := bytes.NewReader(b)

	count, err := shortvec.DecodeLen(r)
	if err != nil {
		return errors.Wrap(err, "failed to read signature count")
	}

	t.Signatures = make([]Signature, count)
	for i := range t.Signatures {
		if _, err := io.ReadFull(r, t.Signatures[i][:]); err != nil {
			return errors.Wrapf(err, "failed to read signature %d", i)
		}
	}

	return t.Message.Unmarshal(b[len(b)-r.Len():])
}

func (m Message) Marshal() []byte {
	out := []byte{m.Header.NumSignatures, m.Header.NumReadonlySigned, m.Header.NumReadOnly}

	out, _ = shortvec.AppendLen(out, len(m.Accounts))
	for _, account := range m.Accounts {
		out = append(out, account...)
	}

	out = append(out, m.RecentBlockhash[:]...)

	out, _ = shortvec.AppendLen(out, len(m.Instructions))
	for _, ixn := range m.Instructions {
		out = append(out, ixn.ProgramIndex)
		out, _ = shortvec.AppendLen(out, len(ixn.Accounts))
		out = append(out, ixn.Accounts...)
		out, _ = shortvec.AppendLen(out, len(ixn.Data))
		out = append(out, ixn.Data...)
	}

	return out
}

// Unmarshal decodes a legacy message. Versioned messages, flagged by the high
// bit of the first byte, are rejected.
func (m *Message) Unmarshal(b []byte) error {
	if len(b) < 3 {
		return errors.New("message header truncated")
	}
	if b[0]&0x80 != 0 {
		return errors.New("versioned messages not supported")
	}

	m.Header = Header{
		NumSignatures:     b[0],
		NumReadonlySigned: b[1],
		NumReadOnly:       b[2],
	}
	r := bytes.NewReader(b[3:])

	accountCount, err := shortvec.DecodeLen(r)
	if err != nil {
		return errors.Wrap(err, "failed to read account count")
	}
	m.Accounts = make([]ed25519.PublicKey, accountCount)
	for i := range m.Accounts {
		m.Accounts[i] = make(ed25519.PublicKey, ed25519.PublicKeySize)
		if _, err := io.ReadFull(r, m.Accounts[i]); err != nil {
			return errors.Wrapf(err, "failed to read account %d", i)
		}
	}

	if _, err := io.ReadFull(r, m.RecentBlockhash[:]); err != nil {
		return errors.Wrap(err, "failed to read recent blockhash")
	}

	ixnCount, err := shortvec.DecodeLen(r)
	if err != nil {
		return errors.Wrap(err, "failed to read instruction count")
	}
	m.Instructions = make([]CompiledInstruction, ixnCount)
	for i := range m.Instructions {
		ixn, err := readCompiledInstruction(r, len(m.Accounts))
		if err != nil {
			return errors.Wrapf(err, "instruction %d", i)
		}
		m.Instructions[i] = ixn
	}

	return nil
}

func readCompiledInstruction(r *bytes.Reader, accountCount int) (ixn CompiledInstruction, err error) {
	if ixn.ProgramIndex, err = r.ReadByte(); err != nil {
		return ixn, errors.Wrap(err, "failed to read program index")
	}
	if int(ixn.ProgramIndex) >= accountCount {
		return ixn, errors.Errorf("program index %d out of range", ixn.ProgramIndex)
	}

	if ixn.Accounts, err = readLengthPrefixed(r); err != nil {
		return ixn, errors.Wrap(err, "failed to read account indexes")
	}
	for _, index := range ixn.Accounts {
		if int(index) >= accountCount {
			return ixn, errors.Errorf("account index %d out of range", index)
		}
	}

	if ixn.Data, err = readLengthPrefixed(r); err != nil {
		return ixn, errors.Wrap(err, "failed to read data")
	}
	return ixn, nil
}

func readLengthPrefixed(r *bytes.Reader) ([]byte, error) {
	n, err := shortvec.DecodeLen(r)
	if err != nil {
		return nil, err
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return b, nil
}
