package credentials

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/umbracle/stakekit/internal/proto"
)

// ErrInvalidWithdrawalKey is returned when the withdrawal key is neither a
// BLS public key nor an execution address
var ErrInvalidWithdrawalKey = errors.New("invalid withdrawal key")

const (
	// BLSPrefix marks credentials derived from a BLS withdrawal key
	BLSPrefix byte = 0x00

	// ExecutionAddressPrefix marks credentials that withdraw to an execution address
	ExecutionAddressPrefix byte = 0x01
)

// Encode builds the withdrawal credentials for a 48 byte BLS public key or
// a 20 byte execution address
func Encode(key []byte) ([32]byte, error) {
	switch len(key) {
	case proto.PubkeyLength:
		return FromBLSPubkey(key), nil
	case proto.AddressLength:
		return FromAddress(key), nil
	default:
		return [32]byte{}, fmt.Errorf("%w: expected %d or %d bytes but found %d", ErrInvalidWithdrawalKey, proto.PubkeyLength, proto.AddressLength, len(key))
	}
}

// FromBLSPubkey returns 0x00 || sha256(pubkey)[1:]
func FromBLSPubkey(pubkey []byte) (creds [32]byte) {
	hash := sha256.Sum256(pubkey)
	copy(creds[:], hash[:])
	creds[0] = BLSPrefix
	return
}

// FromAddress returns 0x01 || 0x00 * 11 || address
func FromAddress(addr []byte) (creds [32]byte) {
	creds[0] = ExecutionAddressPrefix
	copy(creds[12:], addr)
	return
}

// Prefix returns the type of the credentials
func Prefix(creds []byte) byte {
	if len(creds) == 0 {
		return 0
	}
	return creds[0]
}

// MatchesBLSPubkey reports whether creds were derived from the given BLS key
func MatchesBLSPubkey(creds []byte, pubkey []byte) bool {
	if len(creds) != 32 || len(pubkey) != proto.PubkeyLength {
		return false
	}
	expected := FromBLSPubkey(pubkey)
	return bytes.Equal(creds, expected[:])
}
