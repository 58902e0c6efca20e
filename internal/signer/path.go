package signer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidPath is returned for key paths that are not of the form m/a/b/...
var ErrInvalidPath = errors.New("invalid key path")

const (
	// Purpose is the first index of every EIP-2334 path
	Purpose = 12381

	// CoinType is the coin type of the consensus layer
	CoinType = 3600
)

// ValidatorPath returns the signing key path of validator i
func ValidatorPath(i uint32) string {
	return fmt.Sprintf("m/%d/%d/%d/0/0", Purpose, CoinType, i)
}

// WithdrawalPath returns the withdrawal key path of validator i
func WithdrawalPath(i uint32) string {
	return fmt.Sprintf("m/%d/%d/%d/0", Purpose, CoinType, i)
}

// ParsePath splits a key path into its child indices
func ParsePath(path string) ([]uint32, error) {
	parts := strings.Split(path, "/")
	if parts[0] != "m" {
		return nil, fmt.Errorf("%w: '%s' does not start with m", ErrInvalidPath, path)
	}
	if len(parts) < 2 {
		return nil, fmt.Errorf("%w: '%s' has no child indices", ErrInvalidPath, path)
	}

	indices := []uint32{}
	for _, part := range parts[1:] {
		num, err := strconv.ParseUint(part, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: '%s' is not a valid index in '%s'", ErrInvalidPath, part, path)
		}
		indices = append(indices, uint32(num))
	}
	if indices[0] != Purpose {
		return nil, fmt.Errorf("%w: purpose must be %d in '%s'", ErrInvalidPath, Purpose, path)
	}
	return indices, nil
}
