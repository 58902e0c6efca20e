package proto

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeHex(t *testing.T, str string) []byte {
	buf, err := hex.DecodeString(str)
	require.NoError(t, err)
	return buf
}

func rootHex(t *testing.T, obj HashRoot) string {
	root, err := obj.HashTreeRoot()
	require.NoError(t, err)
	return hex.EncodeToString(root[:])
}

var (
	testPubkey = "a99a76ed7796f7be22d5b7e85deeb7c5677e88e511e0b337618f8c4eb61349b4bf2d153f649f7b53359fe8b94a38e44c"
	testCreds  = "00fad2a6bfb0e7f1f0f45460944fbd8dfa7f37da06a4d13b3983cc90bb46963b"
)

func TestDepositMessage_Root(t *testing.T) {
	msg := &DepositMessage{
		Pubkey:                decodeHex(t, testPubkey),
		WithdrawalCredentials: decodeHex(t, testCreds),
		Amount:                32000000000,
	}
	assert.Equal(t, "139b510ea7f2788ab82da1f427d6cbe1db147c15a053db738ad5500cd83754a6", rootHex(t, msg))
}

func TestDepositData_Root(t *testing.T) {
	sig := make([]byte, SignatureLength)
	for i := range sig {
		sig[i] = byte(i)
	}
	data := &DepositData{
		Pubkey:                decodeHex(t, testPubkey),
		WithdrawalCredentials: decodeHex(t, testCreds),
		Amount:                32000000000,
		Signature:             sig,
	}
	assert.Equal(t, "ebc89cb4a0c05fa4a653f8e6ba89af2d29f190ed246c60c84199e2446f810855", rootHex(t, data))

	// the message of the data hashes as the deposit message
	assert.Equal(t, "139b510ea7f2788ab82da1f427d6cbe1db147c15a053db738ad5500cd83754a6", rootHex(t, data.Message()))
}

func TestForkData_Root(t *testing.T) {
	fork := &ForkData{
		CurrentVersion:        make([]byte, ForkVersionLength),
		GenesisValidatorsRoot: make([]byte, RootLength),
	}
	assert.Equal(t, "f5a5fd42d16a20302798ef6ed309979b43003d2320d9f0e8ea9831a92759fb4b", rootHex(t, fork))
}

func TestBLSToExecutionChange_Root(t *testing.T) {
	change := &BLSToExecutionChange{
		ValidatorIndex:     123,
		FromBLSPubkey:      decodeHex(t, "86248e64705987236ec3c41f6a81d96f98e7b85e842a1d71405b216fa75a9917512f3c94c85779a9729c927ea2aa9ed1"),
		ToExecutionAddress: decodeHex(t, "3434343434343434343434343434343434343434"),
	}
	assert.Equal(t, "cd1becc1e55f924c960d7cc849381c4e7128ae8340c3c2817b97d4242c469db0", rootHex(t, change))
}

func TestContainers_WrongLength(t *testing.T) {
	msg := &DepositMessage{
		Pubkey:                make([]byte, 47),
		WithdrawalCredentials: make([]byte, 32),
	}
	_, err := msg.HashTreeRoot()
	assert.Error(t, err)
}
