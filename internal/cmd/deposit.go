package cmd

import (
	"github.com/mitchellh/cli"
)

// DepositCommand is the parent command of the deposit subcommands
type DepositCommand struct {
	UI cli.Ui
}

// Help implements the cli.Command interface
func (c *DepositCommand) Help() string {
	return `Usage: stakekit deposit <subcommand>

  Create and inspect validator deposits.`
}

// Synopsis implements the cli.Command interface
func (c *DepositCommand) Synopsis() string {
	return "Create and inspect validator deposits"
}

// Run implements the cli.Command interface
func (c *DepositCommand) Run(args []string) int {
	return cli.RunResultHelp
}
