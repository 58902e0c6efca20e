package signer

import (
	"fmt"

	"github.com/umbracle/stakekit/internal/codec"
	"github.com/umbracle/stakekit/internal/deposit"
	"github.com/umbracle/stakekit/internal/proto"
	"github.com/umbracle/stakekit/internal/signing"
)

// VerifyDeposit checks the roots and the signature of a deposit record
// signed for the given network
func VerifyDeposit(record *deposit.DepositRecord, network *signing.Network) error {
	if err := record.Verify(); err != nil {
		return err
	}
	data, err := record.Data()
	if err != nil {
		return err
	}
	domain, err := network.Domain(signing.DomainDeposit)
	if err != nil {
		return err
	}
	return verifyObject(data.Message(), domain, data.Pubkey, data.Signature)
}

// VerifyBLSChange checks the signature of a bls to execution change
// signed for the given network
func VerifyBLSChange(change *deposit.SignedBLSChange, network *signing.Network) error {
	msg, err := change.Change()
	if err != nil {
		return err
	}
	signature, err := codec.DecodeFixed(change.Signature, proto.SignatureLength)
	if err != nil {
		return fmt.Errorf("signature: %w", err)
	}
	domain, err := network.Domain(signing.DomainBLSToExecutionChange)
	if err != nil {
		return err
	}
	return verifyObject(msg, domain, msg.FromBLSPubkey, signature)
}

func verifyObject(obj proto.HashRoot, domain [32]byte, pubkey, signature []byte) error {
	root, err := signing.SigningRoot(obj, domain)
	if err != nil {
		return err
	}
	if !Verify(pubkey, root[:], signature) {
		return fmt.Errorf("invalid signature for pubkey %s", codec.Encode0x(pubkey))
	}
	return nil
}
