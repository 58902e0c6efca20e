package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/holiman/uint256"
	"github.com/umbracle/stakekit/internal/deposit"
	"github.com/umbracle/stakekit/internal/signer"
)

// DepositCreateCommand is the command to create the deposits of a range of validators
type DepositCreateCommand struct {
	*Meta

	mnemonic mnemonicFlags

	numValidators        uint64
	startIndex           uint64
	amount               string
	withdrawalAddress    string
	keystore             bool
	keystorePasswordFile string
	outputDir            string
}

// Help implements the cli.Command interface
func (c *DepositCreateCommand) Help() string {
	return `Usage: stakekit deposit create [options]

  Derive the validator keys from a mnemonic and write the signed deposits
  to a deposit_data file.`
}

// Synopsis implements the cli.Command interface
func (c *DepositCreateCommand) Synopsis() string {
	return "Create the deposit data of validators"
}

// Run implements the cli.Command interface
func (c *DepositCreateCommand) Run(args []string) int {
	flags := c.FlagSet("deposit create")
	c.mnemonic.register(flags)

	flags.Uint64Var(&c.numValidators, "num-validators", 1, "Number of validators")
	flags.Uint64Var(&c.startIndex, "start-index", 0, "Index of the first validator key")
	flags.StringVar(&c.amount, "amount", fmt.Sprintf("%d", deposit.MinGweiAmount), "Amount to deposit per validator in Gwei")
	flags.StringVar(&c.withdrawalAddress, "withdrawal-address", "", "Execution address for the withdrawals, the bls withdrawal key is used if empty")
	flags.BoolVar(&c.keystore, "keystore", false, "Write the encrypted keystores of the validators")
	flags.StringVar(&c.keystorePasswordFile, "keystore-password-file", "", "File with the keystore password, prompted if empty")
	flags.StringVar(&c.outputDir, "output-dir", ".", "Directory to write the files")

	if err := flags.Parse(args); err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	if c.numValidators == 0 {
		c.UI.Error("num-validators must be at least 1")
		return 1
	}
	if c.startIndex >= 1<<32 || c.numValidators > 1<<32-c.startIndex {
		c.UI.Error("validator indexes out of range")
		return 1
	}
	amount, err := uint256.FromDecimal(c.amount)
	if err != nil {
		c.UI.Error(fmt.Sprintf("invalid amount '%s': %v", c.amount, err))
		return 1
	}

	network, err := c.Network()
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	// deposits are verified without the validators root
	network = network.ForDeposit()

	local, err := c.mnemonic.signer(c.UI)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	iterations := 0
	if c.keystore {
		password, err := readSecret(c.UI, c.keystorePasswordFile, "Keystore password:")
		if err != nil {
			c.UI.Error(err.Error())
			return 1
		}
		local.WithKeystorePassword(password)
		iterations = signer.DefaultIterations
	}

	logger := c.Logger("deposit")
	now := time.Now().Unix()

	records := []*deposit.DepositRecord{}
	keystores := []string{}
	for i := c.startIndex; i < c.startIndex+c.numValidators; i++ {
		path := signer.ValidatorPath(uint32(i))

		config := &deposit.DepositConfig{
			Path:               path,
			WithdrawalKey:      c.withdrawalAddress,
			Amount:             amount,
			Network:            network,
			KeystoreIterations: iterations,
			Logger:             logger,
		}
		record, err := deposit.BuildDeposit(context.Background(), local, config)
		if err != nil {
			c.UI.Error(fmt.Sprintf("failed to create deposit %s: %v", path, err))
			return 1
		}
		if err := signer.VerifyDeposit(record, network); err != nil {
			c.UI.Error(fmt.Sprintf("failed to verify deposit %s: %v", path, err))
			return 1
		}
		records = append(records, record)

		if record.Keystore != "" {
			name := fmt.Sprintf("keystore-%s-%d.json", strings.ReplaceAll(path, "/", "_"), now)
			if err := writeFile(filepath.Join(c.outputDir, name), []byte(record.Keystore)); err != nil {
				c.UI.Error(err.Error())
				return 1
			}
			keystores = append(keystores, name)
		}
	}

	data, err := json.Marshal(records)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	depositFile := filepath.Join(c.outputDir, fmt.Sprintf("deposit_data-%d.json", now))
	if err := writeFile(depositFile, data); err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	c.UI.Output(formatKV([]string{
		fmt.Sprintf("Network|%s", network.Name),
		fmt.Sprintf("Deposit file|%s", depositFile),
		fmt.Sprintf("Num validators|%d", len(records)),
		fmt.Sprintf("Num keystores|%d", len(keystores)),
	}))
	c.UI.Output("")
	c.UI.Output(formatRecords(records))
	return 0
}

func formatRecords(records []*deposit.DepositRecord) string {
	if len(records) == 0 {
		return "No deposits found"
	}

	rows := make([]string, len(records)+1)
	rows[0] = "Pubkey|Amount|Withdrawal credentials|Deposit data root"
	for i, r := range records {
		rows[i+1] = fmt.Sprintf("%s|%d|%s|%s",
			r.Pubkey,
			r.Amount,
			r.WithdrawalCredentials,
			r.DepositDataRoot,
		)
	}
	return formatList(rows)
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %v", path, err)
	}
	return nil
}
