package shortvec

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendLen_KnownEncodings(t *testing.T) {
	for _, tc := range []struct {
		n       int
		encoded []byte
	}{
		{0x0, []byte{0x0}},
		{0x7f, []byte{0x7f}},
		{0x80, []byte{0x80, 0x01}},
		{0xff, []byte{0xff, 0x01}},
		{0x100, []byte{0x80, 0x02}},
		{0x3fff, []byte{0xff, 0x7f}},
		{0x4000, []byte{0x80, 0x80, 0x01}},
		{0xffff, []byte{0xff, 0xff, 0x03}},
	} {
		actual, err := AppendLen(nil, tc.n)
		require.NoError(t, err)
		assert.Equal(t, tc.encoded, actual, "n=%d", tc.n)

		decoded, err := DecodeLen(bytes.NewReader(tc.encoded))
		require.NoError(t, err)
		assert.Equal(t, tc.n, decoded)
	}
}

func TestAppendLen_Appends(t *testing.T) {
	actual, err := AppendLen([]byte{0xaa}, 0x80)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xaa, 0x80, 0x01}, actual)
}

func TestRoundTrip(t *testing.T) {
	for n := 0; n <= math.MaxUint16; n += 97 {
		encoded, err := AppendLen(nil, n)
		require.NoError(t, err)

		decoded, err := DecodeLen(bytes.NewReader(encoded))
		require.NoError(t, err)
		require.Equal(t, n, decoded)
	}
}

func TestInvalid(t *testing.T) {
	_, err := AppendLen(nil, math.MaxUint16+1)
	assert.Equal(t, ErrTooLong, err)

	_, err = AppendLen(nil, -1)
	assert.Equal(t, ErrTooLong, err)

	// Four continuation bytes
	_, err = DecodeLen(bytes.NewReader([]byte{0x80, 0x80, 0x80, 0x01}))
	assert.Error(t, err)

	// Three bytes decoding past u16
	_, err = DecodeLen(bytes.NewReader([]byte{0xff, 0xff, 0x7f}))
	assert.Equal(t, ErrTooLong, err)

	_, err = DecodeLen(bytes.NewReader([]byte{0x80}))
	assert.Error(t, err)
}
