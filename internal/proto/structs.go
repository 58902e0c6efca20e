package proto

import (
	"github.com/umbracle/stakekit/internal/merkle"
)

const (
	// PubkeyLength is the size of a compressed BLS public key
	PubkeyLength = 48

	// SignatureLength is the size of a compressed BLS signature
	SignatureLength = 96

	// RootLength is the size of a hash tree root
	RootLength = 32

	// ForkVersionLength is the size of a fork version
	ForkVersionLength = 4

	// AddressLength is the size of an execution layer address
	AddressLength = 20
)

var (
	depositMessageSchema = merkle.NewSchema("DepositMessage",
		merkle.Bytes("pubkey", PubkeyLength),
		merkle.Bytes("withdrawal_credentials", RootLength),
		merkle.Uint64("amount"),
	)

	depositDataSchema = merkle.NewSchema("DepositData",
		merkle.Bytes("pubkey", PubkeyLength),
		merkle.Bytes("withdrawal_credentials", RootLength),
		merkle.Uint64("amount"),
		merkle.Bytes("signature", SignatureLength),
	)

	forkDataSchema = merkle.NewSchema("ForkData",
		merkle.Bytes("current_version", ForkVersionLength),
		merkle.Bytes("genesis_validators_root", RootLength),
	)

	signingDataSchema = merkle.NewSchema("SigningData",
		merkle.Bytes("object_root", RootLength),
		merkle.Bytes("domain", RootLength),
	)

	blsToExecutionChangeSchema = merkle.NewSchema("BLSToExecutionChange",
		merkle.Uint64("validator_index"),
		merkle.Bytes("from_bls_pubkey", PubkeyLength),
		merkle.Bytes("to_execution_address", AddressLength),
	)
)

type DepositData struct {
	Pubkey                []byte
	WithdrawalCredentials []byte
	Amount                uint64
	Signature             []byte
}

func (d *DepositData) HashTreeRoot() ([32]byte, error) {
	return depositDataSchema.HashTreeRoot(d.Pubkey, d.WithdrawalCredentials, d.Amount, d.Signature)
}

// Message returns the unsigned part of the deposit
func (d *DepositData) Message() *DepositMessage {
	return &DepositMessage{
		Pubkey:                d.Pubkey,
		WithdrawalCredentials: d.WithdrawalCredentials,
		Amount:                d.Amount,
	}
}

type DepositMessage struct {
	Pubkey                []byte
	WithdrawalCredentials []byte
	Amount                uint64
}

func (d *DepositMessage) HashTreeRoot() ([32]byte, error) {
	return depositMessageSchema.HashTreeRoot(d.Pubkey, d.WithdrawalCredentials, d.Amount)
}

type SigningData struct {
	ObjectRoot []byte
	Domain     []byte
}

func (s *SigningData) HashTreeRoot() ([32]byte, error) {
	return signingDataSchema.HashTreeRoot(s.ObjectRoot, s.Domain)
}

type ForkData struct {
	CurrentVersion        []byte
	GenesisValidatorsRoot []byte
}

func (f *ForkData) HashTreeRoot() ([32]byte, error) {
	return forkDataSchema.HashTreeRoot(f.CurrentVersion, f.GenesisValidatorsRoot)
}

// BLSToExecutionChange moves the withdrawal credentials of a validator
// from a BLS key to an execution address
type BLSToExecutionChange struct {
	ValidatorIndex     uint64
	FromBLSPubkey      []byte
	ToExecutionAddress []byte
}

func (b *BLSToExecutionChange) HashTreeRoot() ([32]byte, error) {
	return blsToExecutionChangeSchema.HashTreeRoot(b.ValidatorIndex, b.FromBLSPubkey, b.ToExecutionAddress)
}

// HashRoot is an object with a hash tree root
type HashRoot interface {
	HashTreeRoot() ([32]byte, error)
}
