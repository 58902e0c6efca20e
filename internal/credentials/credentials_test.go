package credentials

import (
	"encoding/hex"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPubkey = "86248e64705987236ec3c41f6a81d96f98e7b85e842a1d71405b216fa75a9917512f3c94c85779a9729c927ea2aa9ed1"

func TestEncode_BLS(t *testing.T) {
	pub, err := hex.DecodeString(testPubkey)
	require.NoError(t, err)

	creds, err := Encode(pub)
	require.NoError(t, err)
	assert.Equal(t, "00bd0b5a34de5fb17df08410b5e615dda87caf4fb72d0aac91ce5e52fc6aa8de", hex.EncodeToString(creds[:]))
	assert.Equal(t, BLSPrefix, creds[0])

	// pure function
	again, err := Encode(pub)
	require.NoError(t, err)
	assert.Equal(t, creds, again)

	assert.True(t, MatchesBLSPubkey(creds[:], pub))
	pub[0] ^= 0x1
	assert.False(t, MatchesBLSPubkey(creds[:], pub))
}

func TestEncode_Address(t *testing.T) {
	addr, err := hex.DecodeString("3434343434343434343434343434343434343434")
	require.NoError(t, err)

	creds, err := Encode(addr)
	require.NoError(t, err)
	assert.Equal(t, "0100000000000000000000003434343434343434343434343434343434343434", hex.EncodeToString(creds[:]))
	assert.Equal(t, ExecutionAddressPrefix, Prefix(creds[:]))
}

func TestEncode_VariantSelection(t *testing.T) {
	for i := 0; i < 8; i++ {
		pub := make([]byte, 48)
		pub[i] = byte(i + 1)
		creds, err := Encode(pub)
		require.NoError(t, err)
		assert.Equal(t, byte(0x00), creds[0])

		addr := make([]byte, 20)
		addr[i] = byte(i + 1)
		creds, err = Encode(addr)
		require.NoError(t, err)
		assert.Equal(t, byte(0x01), creds[0])
	}

	for _, size := range []int{0, 19, 21, 32, 47, 49} {
		_, err := Encode(make([]byte, size))
		assert.True(t, errors.Is(err, ErrInvalidWithdrawalKey), "size %d", size)
	}
}
