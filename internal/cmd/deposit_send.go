package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/umbracle/stakekit/internal/codec"
	"github.com/umbracle/stakekit/internal/deposit"
	"github.com/umbracle/stakekit/internal/eth1"
	"github.com/umbracle/stakekit/internal/proto"
	"github.com/umbracle/stakekit/internal/signer"
)

// DepositSendCommand is the command to send the deposits of a deposit file to the deposit contract
type DepositSendCommand struct {
	*Meta

	file            string
	endpoint        string
	keyFile         string
	keyPasswordFile string
	depositContract string
}

// Help implements the cli.Command interface
func (c *DepositSendCommand) Help() string {
	return `Usage: stakekit deposit send -file <deposit_data.json> -key-file <keystore.json> [options]

  Verify a deposit_data file and send each deposit to the deposit contract
  of the network. The deposits are paid by the account in the V3 keystore.`
}

// Synopsis implements the cli.Command interface
func (c *DepositSendCommand) Synopsis() string {
	return "Send the deposits of a deposit file"
}

// Run implements the cli.Command interface
func (c *DepositSendCommand) Run(args []string) int {
	flags := c.FlagSet("deposit send")
	flags.StringVar(&c.file, "file", "", "Deposit data file")
	flags.StringVar(&c.endpoint, "endpoint", "http://localhost:8545", "Json rpc endpoint of the execution node")
	flags.StringVar(&c.keyFile, "key-file", "", "V3 keystore of the account that pays the deposits")
	flags.StringVar(&c.keyPasswordFile, "key-password-file", "", "File with the keystore password, prompted if empty")
	flags.StringVar(&c.depositContract, "deposit-contract", "", "Address of the deposit contract, defaults to the one of the network")

	if err := flags.Parse(args); err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	if c.file == "" || c.keyFile == "" {
		c.UI.Error("file and key-file are required")
		return 1
	}

	network, err := c.Network()
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	network = network.ForDeposit()

	contractAddr := network.DepositContract
	if c.depositContract != "" {
		if contractAddr, err = codec.DecodeFixed(c.depositContract, proto.AddressLength); err != nil {
			c.UI.Error(fmt.Sprintf("invalid deposit contract: %v", err))
			return 1
		}
	}
	if contractAddr == nil {
		c.UI.Error(fmt.Sprintf("network '%s' has no deposit contract", network.Name))
		return 1
	}

	data, err := os.ReadFile(c.file)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	var records []*deposit.DepositRecord
	if err := json.Unmarshal(data, &records); err != nil {
		c.UI.Error(fmt.Sprintf("failed to decode deposit file: %v", err))
		return 1
	}

	// check every deposit before sending any
	for i, record := range records {
		if record.NetworkName != network.Name {
			c.UI.Error(fmt.Sprintf("deposit %d is for network '%s'", i, record.NetworkName))
			return 1
		}
		if err := signer.VerifyDeposit(record, network); err != nil {
			c.UI.Error(fmt.Sprintf("deposit %d is not valid: %v", i, err))
			return 1
		}
	}

	password, err := readSecret(c.UI, c.keyPasswordFile, "Keystore password:")
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	key, err := eth1.ReadKey(c.keyFile, password)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	sender, err := eth1.NewDepositSender(c.Logger("deposit"), c.endpoint, contractAddr, key)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	defer sender.Close()

	rows := []string{"Pubkey|Txn hash|Block"}
	for _, record := range records {
		receipt, err := sender.Deposit(record)
		if err != nil {
			c.UI.Error(err.Error())
			return 1
		}
		rows = append(rows, fmt.Sprintf("%s|%s|%d", record.Pubkey, receipt.TransactionHash, receipt.BlockNumber))
	}

	c.UI.Output(formatKV([]string{
		fmt.Sprintf("Network|%s", network.Name),
		fmt.Sprintf("Owner|%s", sender.Owner()),
		fmt.Sprintf("Num deposits|%d", len(records)),
	}))
	c.UI.Output("")
	c.UI.Output(formatList(rows))
	return 0
}
