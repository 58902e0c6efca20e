package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/umbracle/ethgo"
	"github.com/umbracle/stakekit/internal/codec"
	"github.com/umbracle/stakekit/internal/credentials"
	"github.com/umbracle/stakekit/internal/deposit"
	"github.com/umbracle/stakekit/internal/http"
	"github.com/umbracle/stakekit/internal/proto"
	"github.com/umbracle/stakekit/internal/signer"
	"github.com/umbracle/stakekit/internal/signing"
)

// BLSChangeCommand is the command to move the withdrawals of a validator to an execution address
type BLSChangeCommand struct {
	*Meta

	mnemonic mnemonicFlags

	keyIndex         uint64
	validatorIndex   string
	executionAddress string
	beaconNode       string
	outputDir        string
}

// Help implements the cli.Command interface
func (c *BLSChangeCommand) Help() string {
	return `Usage: stakekit bls-change [options]

  Sign the change of the withdrawal credentials of a validator from its
  bls withdrawal key to an execution address. If a beacon node is given
  the genesis is read from the node and the current credentials of the
  validator are checked before signing.`
}

// Synopsis implements the cli.Command interface
func (c *BLSChangeCommand) Synopsis() string {
	return "Sign a bls to execution change"
}

// Run implements the cli.Command interface
func (c *BLSChangeCommand) Run(args []string) int {
	flags := c.FlagSet("bls-change")
	c.mnemonic.register(flags)

	flags.Uint64Var(&c.keyIndex, "key-index", 0, "Index of the validator key in the mnemonic")
	flags.StringVar(&c.validatorIndex, "validator-index", "", "Index of the validator in the beacon chain")
	flags.StringVar(&c.executionAddress, "execution-address", "", "Execution address for the withdrawals")
	flags.StringVar(&c.beaconNode, "beacon-node", "", "Http address of a beacon node")
	flags.StringVar(&c.outputDir, "output-dir", ".", "Directory to write the files")

	if err := flags.Parse(args); err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	if c.validatorIndex == "" {
		c.UI.Error("validator-index is required")
		return 1
	}
	index, err := strconv.ParseUint(c.validatorIndex, 10, 64)
	if err != nil {
		c.UI.Error(fmt.Sprintf("invalid validator index '%s'", c.validatorIndex))
		return 1
	}
	if c.keyIndex >= 1<<32 {
		c.UI.Error("key-index out of range")
		return 1
	}

	logger := c.Logger("bls-change")

	var network *signing.Network
	if c.beaconNode != "" {
		network, err = c.beaconNetwork(logger)
	} else {
		network, err = c.Network()
	}
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	local, err := c.mnemonic.signer(c.UI)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	path := signer.WithdrawalPath(uint32(c.keyIndex))

	if c.beaconNode != "" {
		pubkey, err := local.PublicKey(context.Background(), path)
		if err != nil {
			c.UI.Error(err.Error())
			return 1
		}
		if err := checkCredentials(http.NewHttpClient(c.beaconNode), c.validatorIndex, pubkey); err != nil {
			c.UI.Error(err.Error())
			return 1
		}
	}

	config := &deposit.BLSChangeConfig{
		Path:             path,
		ExecutionAddress: c.executionAddress,
		ValidatorIndex:   &index,
		Network:          network,
		Logger:           logger,
	}
	change, err := deposit.BuildBLSChange(context.Background(), local, config)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	if err := signer.VerifyBLSChange(change, network); err != nil {
		c.UI.Error(fmt.Sprintf("failed to verify bls change: %v", err))
		return 1
	}

	data, err := json.Marshal([]*deposit.SignedBLSChange{change})
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	file := filepath.Join(c.outputDir, fmt.Sprintf("bls_to_execution_change-%d.json", time.Now().Unix()))
	if err := writeFile(file, data); err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	c.UI.Output(formatKV([]string{
		fmt.Sprintf("Network|%s", network.Name),
		fmt.Sprintf("Validator index|%d", index),
		fmt.Sprintf("From bls pubkey|%s", change.Message.FromBLSPubkey),
		fmt.Sprintf("To execution address|%s", ethgo.HexToAddress(change.Message.ToExecutionAddress).String()),
		fmt.Sprintf("File|%s", file),
	}))
	return 0
}

// beaconNetwork reads the network info from the genesis of the beacon node
func (c *BLSChangeCommand) beaconNetwork(logger hclog.Logger) (*signing.Network, error) {
	clt := http.NewHttpClient(c.beaconNode)

	syncing, err := clt.Syncing()
	if err != nil {
		return nil, fmt.Errorf("failed to query beacon node: %v", err)
	}
	if syncing.IsSyncing {
		logger.Warn("beacon node is syncing, validator state may be stale", "sync-distance", syncing.SyncDistance)
	}

	genesis, err := clt.Genesis()
	if err != nil {
		return nil, fmt.Errorf("failed to query genesis: %v", err)
	}
	network, err := genesis.Network(c.network)
	if err != nil {
		return nil, err
	}

	// the selected network must be the chain of the node
	if known, err := c.Network(); err == nil {
		if !bytes.Equal(known.GenesisValidatorsRoot, network.GenesisValidatorsRoot) {
			return nil, fmt.Errorf("beacon node is not in network '%s'", c.network)
		}
	}
	return network, nil
}

// checkCredentials checks that the validator still has bls credentials of the given key
func checkCredentials(clt *http.HttpClient, validatorIndex string, pubkey []byte) error {
	val, err := clt.Validator(validatorIndex)
	if err != nil {
		return fmt.Errorf("failed to query validator %s: %v", validatorIndex, err)
	}
	creds, err := codec.DecodeFixed(val.Validator.WithdrawalCredentials, proto.RootLength)
	if err != nil {
		return fmt.Errorf("validator %s withdrawal credentials: %w", validatorIndex, err)
	}
	if credentials.Prefix(creds) != credentials.BLSPrefix {
		return fmt.Errorf("validator %s does not have bls withdrawal credentials", validatorIndex)
	}
	if !credentials.MatchesBLSPubkey(creds, pubkey) {
		return fmt.Errorf("validator %s withdrawal credentials do not match key %s", validatorIndex, codec.Encode0x(pubkey))
	}
	return nil
}
