package codec

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidEncoding is returned when a value cannot be coerced into a byte vector
var ErrInvalidEncoding = errors.New("invalid encoding")

// Decode coerces a hex string (with or without the 0x prefix) or a raw
// byte slice into bytes. Byte slices are returned unchanged.
func Decode(v interface{}) ([]byte, error) {
	switch obj := v.(type) {
	case []byte:
		return obj, nil
	case string:
		buf, err := hex.DecodeString(strings.TrimPrefix(obj, "0x"))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
		}
		return buf, nil
	default:
		return nil, fmt.Errorf("%w: unsupported type %T", ErrInvalidEncoding, v)
	}
}

// DecodeFixed decodes v and checks that the result is exactly size bytes long
func DecodeFixed(v interface{}, size int) ([]byte, error) {
	buf, err := Decode(v)
	if err != nil {
		return nil, err
	}
	if len(buf) != size {
		return nil, fmt.Errorf("%w: expected %d bytes but found %d", ErrInvalidEncoding, size, len(buf))
	}
	return buf, nil
}

// Encode returns the hex form of b without prefix, the way deposit data files store it
func Encode(b []byte) string {
	return hex.EncodeToString(b)
}

// Encode0x returns the 0x prefixed hex form of b
func Encode0x(b []byte) string {
	return "0x" + hex.EncodeToString(b)
}
