package deposit

import (
	"context"
	"fmt"

	"github.com/umbracle/stakekit/internal/codec"
	"github.com/umbracle/stakekit/internal/credentials"
	"github.com/umbracle/stakekit/internal/proto"
	"github.com/umbracle/stakekit/internal/signing"
)

// DepositRecord is a signed deposit in the format of the deposit_data files
// consumed by the launchpad and the staking cli. Hex fields have no prefix.
type DepositRecord struct {
	Pubkey                string `json:"pubkey"`
	WithdrawalCredentials string `json:"withdrawal_credentials"`
	Amount                uint64 `json:"amount"`
	Signature             string `json:"signature"`
	DepositMessageRoot    string `json:"deposit_message_root"`
	DepositDataRoot       string `json:"deposit_data_root"`
	ForkVersion           string `json:"fork_version"`
	NetworkName           string `json:"network_name"`
	DepositCliVersion     string `json:"deposit_cli_version"`

	// Keystore is the encrypted signing key, only set if requested
	Keystore string `json:"-"`
}

// BuildDeposit resolves the keys of the validator, signs the deposit message
// and returns the deposit record
func BuildDeposit(ctx context.Context, signer Signer, config *DepositConfig) (*DepositRecord, error) {
	if config.Path == "" {
		return nil, fmt.Errorf("%w: deposit key path", ErrMissingParameter)
	}

	amount := config.Amount
	if amount == nil {
		amount = DefaultDepositConfig().Amount
	}
	if amount.IsZero() || !amount.IsUint64() {
		return nil, fmt.Errorf("%w: %s Gwei must be over 0 and below 2^64", ErrInvalidAmount, amount.Dec())
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

	var withdrawalKey []byte
	if config.WithdrawalKey != "" {
		if withdrawalKey, err = codec.Decode(config.WithdrawalKey); err != nil {
			return nil, err
		}
	} else {
		withdrawalPath := config.WithdrawalPath
		if withdrawalPath == "" {
			if withdrawalPath, err = ParentPath(config.Path); err != nil {
				return nil, err
			}
		}
		if withdrawalKey, err = resolvePublicKey(ctx, signer, withdrawalPath); err != nil {
			return nil, err
		}
		logger.Debug("withdrawal key resolved", "withdrawal-path", withdrawalPath)
	}

	creds, err := credentials.Encode(withdrawalKey)
	if err != nil {
		return nil, err
	}

	msg := &proto.DepositMessage{
		Pubkey:                pubkey,
		WithdrawalCredentials: creds[:],
		Amount:                amount.Uint64(),
	}
	msgRoot, err := msg.HashTreeRoot()
	if err != nil {
		return nil, err
	}

	domain, err := network.Domain(signing.DomainDeposit)
	if err != nil {
		return nil, err
	}
	signingRoot, err := signing.ComputeSigningRoot(msgRoot[:], domain)
	if err != nil {
		return nil, err
	}
	logger.Debug("signing deposit", "message-root", codec.Encode0x(msgRoot[:]), "signing-root", codec.Encode0x(signingRoot[:]))

	signature, err := sign(ctx, signer, config.Path, signingRoot, pubkey)
	if err != nil {
		return nil, err
	}

	data := &proto.DepositData{
		Pubkey:                msg.Pubkey,
		WithdrawalCredentials: msg.WithdrawalCredentials,
		Amount:                msg.Amount,
		Signature:             signature,
	}
	dataRoot, err := data.HashTreeRoot()
	if err != nil {
		return nil, err
	}

	record := &DepositRecord{
		Pubkey:                codec.Encode(pubkey),
		WithdrawalCredentials: codec.Encode(creds[:]),
		Amount:                msg.Amount,
		Signature:             codec.Encode(signature),
		DepositMessageRoot:    codec.Encode(msgRoot[:]),
		DepositDataRoot:       codec.Encode(dataRoot[:]),
		ForkVersion:           codec.Encode(network.ForkVersion),
		NetworkName:           network.Name,
		DepositCliVersion:     orVersion(config.Version),
	}

	if config.KeystoreIterations > 0 {
		exporter, ok := signer.(KeystoreExporter)
		if !ok {
			return nil, fmt.Errorf("signer cannot export keystores")
		}
		keystore, err := exporter.ExportKeystore(ctx, config.Path, config.KeystoreIterations)
		if err != nil {
			return nil, fmt.Errorf("failed to export keystore: %v", err)
		}
		record.Keystore = keystore
	}

	logger.Info("deposit built", "pubkey", record.Pubkey, "deposit-data-root", record.DepositDataRoot)
	return record, nil
}

// Data decodes the record into the deposit data container
func (d *DepositRecord) Data() (*proto.DepositData, error) {
	pubkey, err := codec.DecodeFixed(d.Pubkey, proto.PubkeyLength)
	if err != nil {
		return nil, fmt.Errorf("pubkey: %w", err)
	}
	creds, err := codec.DecodeFixed(d.WithdrawalCredentials, proto.RootLength)
	if err != nil {
		return nil, fmt.Errorf("withdrawal credentials: %w", err)
	}
	signature, err := codec.DecodeFixed(d.Signature, proto.SignatureLength)
	if err != nil {
		return nil, fmt.Errorf("signature: %w", err)
	}
	data := &proto.DepositData{
		Pubkey:                pubkey,
		WithdrawalCredentials: creds,
		Amount:                d.Amount,
		Signature:             signature,
	}
	return data, nil
}

// Verify recomputes the message and data roots of the record
func (d *DepositRecord) Verify() error {
	data, err := d.Data()
	if err != nil {
		return err
	}
	msgRoot, err := data.Message().HashTreeRoot()
	if err != nil {
		return err
	}
	if codec.Encode(msgRoot[:]) != d.DepositMessageRoot {
		return fmt.Errorf("deposit message root mismatch: expected %x", msgRoot)
	}
	dataRoot, err := data.HashTreeRoot()
	if err != nil {
		return err
	}
	if codec.Encode(dataRoot[:]) != d.DepositDataRoot {
		return fmt.Errorf("deposit data root mismatch: expected %x", dataRoot)
	}
	return nil
}
