package deposit

import (
	"context"
	"encoding/hex"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	testDepositPath    = "m/12381/3600/0/0/0"
	testWithdrawalPath = "m/12381/3600/0/0"

	testDepositPubkey    = "a99a76ed7796f7be22d5b7e85deeb7c5677e88e511e0b337618f8c4eb61349b4bf2d153f649f7b53359fe8b94a38e44c"
	testWithdrawalPubkey = "86248e64705987236ec3c41f6a81d96f98e7b85e842a1d71405b216fa75a9917512f3c94c85779a9729c927ea2aa9ed1"
	testAddress          = "3434343434343434343434343434343434343434"
)

type signRequest struct {
	path string
	root [32]byte
}

// mockSigner returns fixed keys and a fixed signature for every request
type mockSigner struct {
	lock     sync.Mutex
	keys     map[string][]byte
	requests []signRequest

	// signWith, if set, is returned as the signing key
	signWith []byte
	// signature, if set, replaces the default signature
	signature []byte
	// keystore is returned by ExportKeystore
	keystore string
}

func newMockSigner(t *testing.T) *mockSigner {
	return &mockSigner{
		keys: map[string][]byte{
			testDepositPath:    mustDecode(t, testDepositPubkey),
			testWithdrawalPath: mustDecode(t, testWithdrawalPubkey),
		},
		keystore: `{"version": 4}`,
	}
}

func (m *mockSigner) PublicKey(ctx context.Context, path string) ([]byte, error) {
	pub, ok := m.keys[path]
	if !ok {
		return nil, fmt.Errorf("key %s not found", path)
	}
	return pub, nil
}

func (m *mockSigner) Sign(ctx context.Context, path string, root [32]byte) (*Signature, error) {
	m.lock.Lock()
	m.requests = append(m.requests, signRequest{path: path, root: root})
	m.lock.Unlock()

	pub, err := m.PublicKey(ctx, path)
	if err != nil {
		return nil, err
	}
	if m.signWith != nil {
		pub = m.signWith
	}
	sig := m.signature
	if sig == nil {
		sig = testSignature()
	}
	return &Signature{Signature: sig, PublicKey: pub}, nil
}

func (m *mockSigner) ExportKeystore(ctx context.Context, path string, iterations int) (string, error) {
	if _, ok := m.keys[path]; !ok {
		return "", fmt.Errorf("key %s not found", path)
	}
	return m.keystore, nil
}

// plainSigner hides the keystore export of the mock signer
type plainSigner struct {
	Signer
}

func testSignature() []byte {
	sig := make([]byte, 96)
	for i := range sig {
		sig[i] = byte(i)
	}
	return sig
}

func mustDecode(t *testing.T, str string) []byte {
	buf, err := hex.DecodeString(str)
	require.NoError(t, err)
	return buf
}

func uint64P(i uint64) *uint64 {
	return &i
}
