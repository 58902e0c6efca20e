package eth1

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/umbracle/ethgo"
	"github.com/umbracle/ethgo/contract"
	"github.com/umbracle/ethgo/jsonrpc"
	"github.com/umbracle/ethgo/keystore"
	"github.com/umbracle/ethgo/wallet"
	"github.com/umbracle/stakekit/internal/codec"
	"github.com/umbracle/stakekit/internal/deposit"
	"github.com/umbracle/stakekit/internal/proto"
)

// DepositSender submits deposit records to the deposit contract
type DepositSender struct {
	logger   hclog.Logger
	client   *jsonrpc.Client
	key      ethgo.Key
	contract *contract.Contract
}

// NewDepositSender creates a sender that pays the deposits with key
func NewDepositSender(logger hclog.Logger, endpoint string, depositContract []byte, key ethgo.Key) (*DepositSender, error) {
	if len(depositContract) != proto.AddressLength {
		return nil, fmt.Errorf("deposit contract must be %d bytes but found %d", proto.AddressLength, len(depositContract))
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	provider, err := jsonrpc.NewClient(endpoint)
	if err != nil {
		return nil, err
	}

	addr := ethgo.BytesToAddress(depositContract)
	sender := &DepositSender{
		logger:   logger.Named("eth1").With("contract", addr.String()),
		client:   provider,
		key:      key,
		contract: contract.NewContract(addr, deposit.DepositABI, contract.WithSender(key), contract.WithJsonRPC(provider.Eth())),
	}
	return sender, nil
}

// Owner returns the account that pays the deposits
func (d *DepositSender) Owner() ethgo.Address {
	return d.key.Address()
}

// Close closes the connection with the node
func (d *DepositSender) Close() error {
	return d.client.Close()
}

// Deposit sends the record to the deposit contract and waits for the receipt
func (d *DepositSender) Deposit(record *deposit.DepositRecord) (*ethgo.Receipt, error) {
	args, err := depositArgs(record)
	if err != nil {
		return nil, err
	}

	txn, err := d.contract.Txn("deposit", args...)
	if err != nil {
		return nil, err
	}
	txn.WithOpts(&contract.TxnOpts{Value: ethgo.Gwei(record.Amount)})

	if err := txn.Do(); err != nil {
		return nil, fmt.Errorf("failed to send deposit %s: %v", record.Pubkey, err)
	}
	receipt, err := txn.Wait()
	if err != nil {
		return nil, err
	}
	if receipt.Status != 1 {
		return nil, fmt.Errorf("deposit %s reverted in txn %s", record.Pubkey, receipt.TransactionHash)
	}

	d.logger.Info("deposit sent", "pubkey", record.Pubkey, "hash", receipt.TransactionHash, "block", receipt.BlockNumber)
	return receipt, nil
}

// depositArgs are the arguments of the deposit call after checking the roots
func depositArgs(record *deposit.DepositRecord) ([]interface{}, error) {
	if err := record.Verify(); err != nil {
		return nil, err
	}
	data, err := record.Data()
	if err != nil {
		return nil, err
	}
	root, err := codec.DecodeFixed(record.DepositDataRoot, proto.RootLength)
	if err != nil {
		return nil, fmt.Errorf("deposit data root: %w", err)
	}
	var dataRoot [32]byte
	copy(dataRoot[:], root)

	return deposit.DepositArgs(data, dataRoot), nil
}

// ReadKey decrypts an execution layer key from a V3 keystore file
func ReadKey(path string, password string) (*wallet.Key, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read keystore: %v", err)
	}
	privKey, err := keystore.DecryptV3(data, strings.TrimSpace(password))
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt keystore: %v", err)
	}
	return wallet.NewWalletFromPrivKey(privKey)
}
