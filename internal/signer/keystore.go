package signer

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-uuid"
	keystorev4 "github.com/wealdtech/go-eth2-wallet-encryptor-keystorev4"
	"github.com/umbracle/stakekit/internal/codec"
	"golang.org/x/text/unicode/norm"
)

// ErrDecryptKeystore is returned when the secret of a keystore cannot be
// recovered, either because of a wrong password or a corrupt keystore
var ErrDecryptKeystore = errors.New("failed to decrypt keystore")

// DefaultIterations is the pbkdf2 cost (2^18) of the exported keystores
const DefaultIterations = 262144

// KeystoreOpts are the non secret fields of an exported keystore
type KeystoreOpts struct {
	Path        string
	Pubkey      []byte
	Description string
}

type keystore struct {
	Crypto      map[string]interface{} `json:"crypto"`
	Description string                 `json:"description"`
	Pubkey      string                 `json:"pubkey"`
	Path        string                 `json:"path"`
	UUID        string                 `json:"uuid"`
	Version     uint                   `json:"version"`
}

// EncryptKeystore encrypts a secret into an EIP-2335 keystore using pbkdf2
func EncryptKeystore(secret []byte, password string, opts *KeystoreOpts) ([]byte, error) {
	if opts == nil {
		opts = &KeystoreOpts{}
	}

	encryptor := keystorev4.New(keystorev4.WithCipher("pbkdf2"))
	crypto, err := encryptor.Encrypt(secret, normalizePassword(password))
	if err != nil {
		return nil, err
	}

	id, err := uuid.GenerateUUID()
	if err != nil {
		return nil, err
	}

	k := &keystore{
		Crypto:      crypto,
		Description: opts.Description,
		Pubkey:      codec.Encode(opts.Pubkey),
		Path:        opts.Path,
		UUID:        id,
		Version:     encryptor.Version(),
	}
	return json.Marshal(k)
}

// DecryptKeystore returns the secret of an EIP-2335 keystore. Both the
// pbkdf2 and the scrypt kdf are supported.
func DecryptKeystore(data []byte, password string) ([]byte, error) {
	var k keystore
	if err := json.Unmarshal(data, &k); err != nil {
		return nil, err
	}

	encryptor := keystorev4.New()
	if k.Version != encryptor.Version() {
		return nil, fmt.Errorf("keystore version %d not supported", k.Version)
	}
	if k.Crypto == nil {
		return nil, fmt.Errorf("keystore crypto section not found")
	}

	secret, err := encryptor.Decrypt(k.Crypto, normalizePassword(password))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecryptKeystore, err)
	}
	return secret, nil
}

// normalizePassword applies NFKD and removes the control codes
func normalizePassword(password string) string {
	password = norm.NFKD.String(password)
	return strings.Map(func(r rune) rune {
		if r < 0x20 || (r >= 0x7f && r <= 0x9f) {
			return -1
		}
		return r
	}, password)
}
