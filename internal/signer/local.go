package signer

import (
	"context"
	"fmt"

	blst "github.com/supranational/blst/bindings/go"
	"github.com/tyler-smith/go-bip39"
	"github.com/umbracle/stakekit/internal/deposit"
)

// dst is the proof of possession ciphersuite of the consensus layer
var dst = []byte("BLS_SIG_BLS12381G2_XMD:SHA-256_SSWU_RO_POP_")

// Local is a software signer that derives its keys (EIP-2333) from a seed
type Local struct {
	master           *blst.SecretKey
	keystorePassword string
}

// NewLocal creates a signer from a seed of at least 32 bytes
func NewLocal(seed []byte) (*Local, error) {
	if len(seed) < 32 {
		return nil, fmt.Errorf("seed must be at least 32 bytes but found %d", len(seed))
	}
	master := blst.DeriveMasterEip2333(seed)
	if master == nil {
		return nil, fmt.Errorf("failed to derive master key")
	}
	return &Local{master: master}, nil
}

// NewLocalFromMnemonic creates a signer from a bip39 mnemonic
func NewLocalFromMnemonic(mnemonic, passphrase string) (*Local, error) {
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, passphrase)
	if err != nil {
		return nil, fmt.Errorf("invalid mnemonic: %v", err)
	}
	return NewLocal(seed)
}

// NewMnemonic generates a random 24 words mnemonic
func NewMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(256)
	if err != nil {
		return "", err
	}
	return bip39.NewMnemonic(entropy)
}

// WithKeystorePassword sets the password used to encrypt exported keystores
func (l *Local) WithKeystorePassword(password string) *Local {
	l.keystorePassword = password
	return l
}

func (l *Local) derive(path string) (*blst.SecretKey, error) {
	indices, err := ParsePath(path)
	if err != nil {
		return nil, err
	}
	key := l.master
	for _, indx := range indices {
		key = key.DeriveChildEip2333(indx)
	}
	return key, nil
}

// PublicKey implements the deposit.Signer interface
func (l *Local) PublicKey(ctx context.Context, path string) ([]byte, error) {
	key, err := l.derive(path)
	if err != nil {
		return nil, err
	}
	return new(blst.P1Affine).From(key).Compress(), nil
}

// Sign implements the deposit.Signer interface
func (l *Local) Sign(ctx context.Context, path string, root [32]byte) (*deposit.Signature, error) {
	key, err := l.derive(path)
	if err != nil {
		return nil, err
	}
	sig := new(blst.P2Affine).Sign(key, root[:], dst)
	if sig == nil {
		return nil, fmt.Errorf("failed to sign")
	}
	res := &deposit.Signature{
		Signature: sig.Compress(),
		PublicKey: new(blst.P1Affine).From(key).Compress(),
	}
	return res, nil
}

// ExportKeystore implements the deposit.KeystoreExporter interface. Keystores
// are always encrypted with DefaultIterations.
func (l *Local) ExportKeystore(ctx context.Context, path string, iterations int) (string, error) {
	if iterations != DefaultIterations {
		return "", fmt.Errorf("keystore iterations must be %d but found %d", DefaultIterations, iterations)
	}
	if l.keystorePassword == "" {
		return "", fmt.Errorf("no keystore password set")
	}
	key, err := l.derive(path)
	if err != nil {
		return "", err
	}
	pub := new(blst.P1Affine).From(key).Compress()

	keystore, err := EncryptKeystore(key.Serialize(), l.keystorePassword, &KeystoreOpts{
		Path:   path,
		Pubkey: pub,
	})
	if err != nil {
		return "", err
	}
	return string(keystore), nil
}

// Verify checks a BLS signature of msg by pubkey
func Verify(pubkey, msg, signature []byte) bool {
	pk := new(blst.P1Affine).Uncompress(pubkey)
	if pk == nil {
		return false
	}
	sig := new(blst.P2Affine).Uncompress(signature)
	if sig == nil {
		return false
	}
	return sig.Verify(true, pk, true, msg, dst)
}
