package deposit

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/umbracle/stakekit/internal/proto"
)

var (
	// ErrMissingParameter is returned when a required option is not set
	ErrMissingParameter = errors.New("missing parameter")

	// ErrSignerMismatch is returned when the signer answers with a key or
	// signature other than the one requested
	ErrSignerMismatch = errors.New("signer mismatch")

	// ErrInvalidAmount is returned when the deposit amount is zero or does not fit in 64 bits
	ErrInvalidAmount = errors.New("invalid amount")
)

// Signature is the answer of a signer to a signing request
type Signature struct {
	// Signature is the compressed BLS G2 signature
	Signature []byte

	// PublicKey is the compressed BLS G1 key that produced the signature
	PublicKey []byte
}

// Signer holds the validator keys. Messages are signed over BLS12-381 with
// the proof of possession ciphersuite used by the consensus layer.
type Signer interface {
	// PublicKey resolves the BLS public key at the given key path
	PublicKey(ctx context.Context, path string) ([]byte, error)

	// Sign signs a 32 bytes signing root with the key at the given path
	Sign(ctx context.Context, path string, root [32]byte) (*Signature, error)
}

// KeystoreExporter is implemented by signers that can export the key at a
// path as an encrypted keystore
type KeystoreExporter interface {
	ExportKeystore(ctx context.Context, path string, iterations int) (string, error)
}

// ParentPath returns the path one level up. The withdrawal key of a validator
// is the parent of its signing key (m/12381/3600/i/0/0 -> m/12381/3600/i/0).
func ParentPath(path string) (string, error) {
	indx := strings.LastIndex(path, "/")
	if indx <= 0 {
		return "", fmt.Errorf("%w: cannot derive a withdrawal path from '%s'", ErrMissingParameter, path)
	}
	return path[:indx], nil
}

func resolvePublicKey(ctx context.Context, signer Signer, path string) ([]byte, error) {
	pub, err := signer.PublicKey(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve public key at %s: %v", path, err)
	}
	if len(pub) != proto.PubkeyLength {
		return nil, fmt.Errorf("%w: public key at %s is %d bytes", ErrSignerMismatch, path, len(pub))
	}
	return pub, nil
}

func sign(ctx context.Context, signer Signer, path string, root [32]byte, pub []byte) ([]byte, error) {
	sig, err := signer.Sign(ctx, path, root)
	if err != nil {
		return nil, fmt.Errorf("failed to sign at %s: %v", path, err)
	}
	if !bytes.Equal(sig.PublicKey, pub) {
		return nil, fmt.Errorf("%w: expected key %x but the signer used %x", ErrSignerMismatch, pub, sig.PublicKey)
	}
	if len(sig.Signature) != proto.SignatureLength {
		return nil, fmt.Errorf("%w: signature is %d bytes", ErrSignerMismatch, len(sig.Signature))
	}
	return sig.Signature, nil
}
