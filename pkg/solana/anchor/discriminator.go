// Package anchor contains the framing shared by Anchor programs: 8 byte
// instruction and account discriminators in front of Borsh encoded data.
package anchor

import (
	"bytes"
	"crypto/sha256"
)

const DiscriminatorSize = 8

// InstructionDiscriminator returns the selector Anchor prefixes to the data
// of the instruction with the given snake_case method name.
func InstructionDiscriminator(name string) []byte {
	return hashPrefix("global:" + name)
}

// AccountDiscriminator returns the prefix Anchor writes at the start of an
// account of the given CamelCase type name.
func AccountDiscriminator(name string) []byte {
	return hashPrefix("account:" + name)
}

func hashPrefix(preimage string) []byte {
	h := sha256.Sum256([]byte(preimage))
	res := make([]byte, DiscriminatorSize)
	copy(res, h[:DiscriminatorSize])
	return res
}

func PutDiscriminator(dst []byte, discriminator []byte, offset *int) {
	copy(dst[*offset:], discriminator)
	*offset += DiscriminatorSize
}

func GetDiscriminator(src []byte, dst *[]byte, offset *int) {
	*dst = make([]byte, DiscriminatorSize)
	copy(*dst, src[*offset:])
	*offset += DiscriminatorSize
}

// HasDiscriminator reports whether data is at least a discriminator long and
// starts with the expected one.
func HasDiscriminator(data []byte, discriminator []byte) bool {
	if len(data) < DiscriminatorSize {
		return false
	}
	return bytes.Equal(data[:DiscriminatorSize], discriminator)
}
