package cmd

import (
	"github.com/mitchellh/cli"
)

// Version is set at build time
var Version = "v0.1.0"

// VersionCommand is the command to show the version of the binary
type VersionCommand struct {
	UI cli.Ui
}

// Help implements the cli.Command interface
func (c *VersionCommand) Help() string {
	return "Usage: stakekit version"
}

// Synopsis implements the cli.Command interface
func (c *VersionCommand) Synopsis() string {
	return "Show the version"
}

// Run implements the cli.Command interface
func (c *VersionCommand) Run(args []string) int {
	c.UI.Output(Version)
	return 0
}
