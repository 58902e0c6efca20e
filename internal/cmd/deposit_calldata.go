package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/umbracle/stakekit/internal/codec"
	"github.com/umbracle/stakekit/internal/deposit"
	"github.com/umbracle/stakekit/internal/signer"
)

// DepositCalldataCommand is the command to print the deposit contract call data of a deposit file
type DepositCalldataCommand struct {
	*Meta

	file string
}

// Help implements the cli.Command interface
func (c *DepositCalldataCommand) Help() string {
	return `Usage: stakekit deposit calldata -file <deposit_data.json>

  Verify a deposit_data file and print the call data of the deposit
  contract for each deposit.`
}

// Synopsis implements the cli.Command interface
func (c *DepositCalldataCommand) Synopsis() string {
	return "Print the deposit contract call data of a deposit file"
}

// Run implements the cli.Command interface
func (c *DepositCalldataCommand) Run(args []string) int {
	flags := c.FlagSet("deposit calldata")
	flags.StringVar(&c.file, "file", "", "Deposit data file")

	if err := flags.Parse(args); err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	if c.file == "" {
		c.UI.Error("file is required")
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

	networks, err := c.Networks()
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	for i, record := range records {
		// the signature is only checked for known networks
		if network, ok := networks[record.NetworkName]; ok {
			err = signer.VerifyDeposit(record, network.ForDeposit())
		} else {
			err = record.Verify()
		}
		if err != nil {
			c.UI.Error(fmt.Sprintf("deposit %d is not valid: %v", i, err))
			return 1
		}

		callData, err := record.CallData()
		if err != nil {
			c.UI.Error(err.Error())
			return 1
		}
		if i != 0 {
			c.UI.Output("")
		}
		c.UI.Output(formatKV([]string{
			fmt.Sprintf("Pubkey|%s", record.Pubkey),
			fmt.Sprintf("Amount|%d", record.Amount),
			fmt.Sprintf("Deposit data root|%s", record.DepositDataRoot),
			fmt.Sprintf("Call data|%s", codec.Encode0x(callData)),
		}))
	}
	return 0
}
