package cmd

import (
	"fmt"

	"github.com/umbracle/stakekit/internal/codec"
	"github.com/umbracle/stakekit/internal/signing"
)

// NetworkListCommand is the command to list the known networks
type NetworkListCommand struct {
	*Meta
}

// Help implements the cli.Command interface
func (c *NetworkListCommand) Help() string {
	return `Usage: stakekit network list [options]

  List the built-in networks and the ones in the network config file.`
}

// Synopsis implements the cli.Command interface
func (c *NetworkListCommand) Synopsis() string {
	return "List the known networks"
}

// Run implements the cli.Command interface
func (c *NetworkListCommand) Run(args []string) int {
	flags := c.FlagSet("network list")

	if err := flags.Parse(args); err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	networks, err := c.Networks()
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	c.UI.Output(formatNetworks(networks))
	return 0
}

func formatNetworks(networks map[string]*signing.Network) string {
	if len(networks) == 0 {
		return "No networks found"
	}

	names := sortedNames(networks)
	rows := make([]string, len(names)+1)
	rows[0] = "Name|Genesis fork version|Genesis validators root"
	for i, name := range names {
		n := networks[name]
		rows[i+1] = fmt.Sprintf("%s|%s|%s",
			n.Name,
			codec.Encode0x(n.ForkVersion),
			codec.Encode0x(n.GenesisValidatorsRoot),
		)
	}
	return formatList(rows)
}
