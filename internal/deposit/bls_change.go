package deposit

import (
	"context"
	"fmt"
	"strconv"

	"github.com/umbracle/stakekit/internal/codec"
	"github.com/umbracle/stakekit/internal/proto"
	"github.com/umbracle/stakekit/internal/signing"
)

// SignedBLSChange is a signed BLS to execution change in the format used by
// the staking cli. Hex fields are 0x prefixed.
type SignedBLSChange struct {
	Message   *BLSChangeMessage  `json:"message"`
	Signature string             `json:"signature"`
	Metadata  *BLSChangeMetadata `json:"metadata"`
}

type BLSChangeMessage struct {
	ValidatorIndex     string `json:"validator_index"`
	FromBLSPubkey      string `json:"from_bls_pubkey"`
	ToExecutionAddress string `json:"to_execution_address"`
}

type BLSChangeMetadata struct {
	NetworkName           string `json:"network_name"`
	GenesisValidatorsRoot string `json:"genesis_validators_root"`
	DepositCliVersion     string `json:"deposit_cli_version"`
}

// BuildBLSChange signs a change of the withdrawal credentials of a validator
// from the BLS key at config.Path to an execution address
func BuildBLSChange(ctx context.Context, signer Signer, config *BLSChangeConfig) (*SignedBLSChange, error) {
	if config.ExecutionAddress == "" {
		return nil, fmt.Errorf("%w: execution address", ErrMissingParameter)
	}
	if config.ValidatorIndex == nil {
		return nil, fmt.Errorf("%w: validator index", ErrMissingParameter)
	}
	if config.Path == "" {
		return nil, fmt.Errorf("%w: withdrawal key path", ErrMissingParameter)
	}

	address, err := codec.DecodeFixed(config.ExecutionAddress, proto.AddressLength)
	if err != nil {
		return nil, fmt.Errorf("execution address: %w", err)
	}

	network := orNetwork(config.Network)
	if err := network.Validate(); err != nil {
		return nil, err
	}
	logger := orLogger(config.Logger).With("path", config.Path, "network", network.Name)

	pubkey, err := resolvePublicKey(ctx, signer, config.Path)
	if err != nil {
		return nil, err
	}

	msg := &proto.BLSToExecutionChange{
		ValidatorIndex:     *config.ValidatorIndex,
		FromBLSPubkey:      pubkey,
		ToExecutionAddress: address,
	}
	msgRoot, err := msg.HashTreeRoot()
	if err != nil {
		return nil, err
	}

	domain, err := network.Domain(signing.DomainBLSToExecutionChange)
	if err != nil {
		return nil, err
	}
	signingRoot, err := signing.ComputeSigningRoot(msgRoot[:], domain)
	if err != nil {
		return nil, err
	}
	logger.Debug("signing bls to execution change", "index", msg.ValidatorIndex, "message-root", codec.Encode0x(msgRoot[:]), "signing-root", codec.Encode0x(signingRoot[:]))

	signature, err := sign(ctx, signer, config.Path, signingRoot, pubkey)
	if err != nil {
		return nil, err
	}

	change := &SignedBLSChange{
		Message: &BLSChangeMessage{
			ValidatorIndex:     strconv.FormatUint(msg.ValidatorIndex, 10),
			FromBLSPubkey:      codec.Encode0x(pubkey),
			ToExecutionAddress: codec.Encode0x(address),
		},
		Signature: codec.Encode0x(signature),
		Metadata: &BLSChangeMetadata{
			NetworkName:           network.Name,
			GenesisValidatorsRoot: codec.Encode0x(network.GenesisValidatorsRoot),
			DepositCliVersion:     orVersion(config.Version),
		},
	}

	logger.Info("bls to execution change built", "index", msg.ValidatorIndex, "address", change.Message.ToExecutionAddress)
	return change, nil
}

// Change decodes the unsigned message
func (s *SignedBLSChange) Change() (*proto.BLSToExecutionChange, error) {
	if s.Message == nil {
		return nil, fmt.Errorf("%w: message", ErrMissingParameter)
	}
	index, err := strconv.ParseUint(s.Message.ValidatorIndex, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("validator index: %v", err)
	}
	pubkey, err := codec.DecodeFixed(s.Message.FromBLSPubkey, proto.PubkeyLength)
	if err != nil {
		return nil, fmt.Errorf("from bls pubkey: %w", err)
	}
	address, err := codec.DecodeFixed(s.Message.ToExecutionAddress, proto.AddressLength)
	if err != nil {
		return nil, fmt.Errorf("to execution address: %w", err)
	}
	change := &proto.BLSToExecutionChange{
		ValidatorIndex:     index,
		FromBLSPubkey:      pubkey,
		ToExecutionAddress: address,
	}
	return change, nil
}

// MessageRoot returns the hash tree root of the unsigned message
func (s *SignedBLSChange) MessageRoot() ([32]byte, error) {
	change, err := s.Change()
	if err != nil {
		return [32]byte{}, err
	}
	return change.HashTreeRoot()
}
