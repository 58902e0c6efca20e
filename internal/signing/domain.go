package signing

import (
	"errors"
	"fmt"

	"github.com/umbracle/stakekit/internal/codec"
	"github.com/umbracle/stakekit/internal/proto"
)

var (
	// ErrInvalidNetworkInfo is returned when the fork version or the genesis
	// validators root of a network have the wrong size
	ErrInvalidNetworkInfo = errors.New("invalid network info")

	// ErrInvalidObjectRoot is returned when the root to sign is not 32 bytes
	ErrInvalidObjectRoot = errors.New("invalid object root")
)

// DomainType distinguishes the kind of message being signed
type DomainType [4]byte

var (
	DomainDeposit              = DomainType{0x03, 0x00, 0x00, 0x00}
	DomainVoluntaryExit        = DomainType{0x04, 0x00, 0x00, 0x00}
	DomainBLSToExecutionChange = DomainType{0x0A, 0x00, 0x00, 0x00}
)

func (d DomainType) String() string {
	return codec.Encode0x(d[:])
}

// ComputeDomain returns domain_type || hash_tree_root(ForkData)[:28]
func ComputeDomain(domainType DomainType, forkVersion, genesisValidatorsRoot []byte) ([32]byte, error) {
	if len(forkVersion) != proto.ForkVersionLength {
		return [32]byte{}, fmt.Errorf("%w: fork version must be %d bytes but found %d", ErrInvalidNetworkInfo, proto.ForkVersionLength, len(forkVersion))
	}
	if len(genesisValidatorsRoot) != proto.RootLength {
		return [32]byte{}, fmt.Errorf("%w: genesis validators root must be %d bytes but found %d", ErrInvalidNetworkInfo, proto.RootLength, len(genesisValidatorsRoot))
	}

	forkData := &proto.ForkData{
		CurrentVersion:        forkVersion,
		GenesisValidatorsRoot: genesisValidatorsRoot,
	}
	forkDataRoot, err := forkData.HashTreeRoot()
	if err != nil {
		return [32]byte{}, err
	}

	var domain [32]byte
	copy(domain[:4], domainType[:])
	copy(domain[4:], forkDataRoot[:28])
	return domain, nil
}

// ComputeSigningRoot returns the root of the SigningData of an object root
// and a domain. This is the value the signer signs.
func ComputeSigningRoot(objectRoot []byte, domain [32]byte) ([32]byte, error) {
	if len(objectRoot) != proto.RootLength {
		return [32]byte{}, fmt.Errorf("%w: expected %d bytes but found %d", ErrInvalidObjectRoot, proto.RootLength, len(objectRoot))
	}
	signingData := &proto.SigningData{
		ObjectRoot: objectRoot,
		Domain:     domain[:],
	}
	return signingData.HashTreeRoot()
}

// SigningRoot computes the signing root of obj under domain
func SigningRoot(obj proto.HashRoot, domain [32]byte) ([32]byte, error) {
	root, err := obj.HashTreeRoot()
	if err != nil {
		return [32]byte{}, err
	}
	return ComputeSigningRoot(root[:], domain)
}
