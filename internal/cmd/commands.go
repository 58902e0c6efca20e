package cmd

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/ryanuber/columnize"
	"github.com/umbracle/stakekit/internal/signer"
	"github.com/umbracle/stakekit/internal/signing"
)

// Commands returns the cli commands
func Commands() map[string]cli.CommandFactory {
	ui := &cli.BasicUi{
		Reader:      os.Stdin,
		Writer:      os.Stdout,
		ErrorWriter: os.Stderr,
	}

	meta := &Meta{
		UI: ui,
	}

	return map[string]cli.CommandFactory{
		"deposit": func() (cli.Command, error) {
			return &DepositCommand{
				UI: ui,
			}, nil
		},
		"deposit create": func() (cli.Command, error) {
			return &DepositCreateCommand{
				Meta: meta,
			}, nil
		},
		"deposit calldata": func() (cli.Command, error) {
			return &DepositCalldataCommand{
				Meta: meta,
			}, nil
		},
		"deposit send": func() (cli.Command, error) {
			return &DepositSendCommand{
				Meta: meta,
			}, nil
		},
		"bls-change": func() (cli.Command, error) {
			return &BLSChangeCommand{
				Meta: meta,
			}, nil
		},
		"network list": func() (cli.Command, error) {
			return &NetworkListCommand{
				Meta: meta,
			}, nil
		},
		"version": func() (cli.Command, error) {
			return &VersionCommand{
				UI: ui,
			}, nil
		},
	}
}

type Meta struct {
	UI cli.Ui

	logLevel      string
	network       string
	networkConfig string
}

func (m *Meta) FlagSet(n string) *flag.FlagSet {
	f := flag.NewFlagSet(n, flag.ContinueOnError)
	f.StringVar(&m.logLevel, "log-level", "info", "Level of the logs")
	f.StringVar(&m.network, "network", "mainnet", "Name of the network")
	f.StringVar(&m.networkConfig, "network-config", "", "Yaml file with additional networks")
	return f
}

// Logger returns the logger of the command
func (m *Meta) Logger(name string) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:   name,
		Level:  hclog.LevelFromString(m.logLevel),
		Output: os.Stderr,
	})
}

// Networks returns the built-in networks plus the ones in the network config file
func (m *Meta) Networks() (map[string]*signing.Network, error) {
	networks := signing.Networks()
	if m.networkConfig == "" {
		return networks, nil
	}

	f, err := os.Open(m.networkConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to open network config: %v", err)
	}
	defer f.Close()

	custom, err := signing.ReadNetworks(f)
	if err != nil {
		return nil, err
	}
	for name, network := range custom {
		networks[name] = network
	}
	return networks, nil
}

// Network returns the network selected with the network flag
func (m *Meta) Network() (*signing.Network, error) {
	networks, err := m.Networks()
	if err != nil {
		return nil, err
	}
	network, ok := networks[m.network]
	if !ok {
		return nil, fmt.Errorf("network '%s' not found, use one of: %s", m.network, strings.Join(sortedNames(networks), ", "))
	}
	return network, nil
}

// mnemonicFlags are the flags to open the local signer
type mnemonicFlags struct {
	mnemonicFile string
	passphrase   string
}

func (f *mnemonicFlags) register(flags *flag.FlagSet) {
	flags.StringVar(&f.mnemonicFile, "mnemonic-file", "", "File with the bip39 mnemonic, prompted if empty")
	flags.StringVar(&f.passphrase, "mnemonic-passphrase", "", "Optional bip39 passphrase")
}

func (f *mnemonicFlags) signer(ui cli.Ui) (*signer.Local, error) {
	mnemonic, err := readSecret(ui, f.mnemonicFile, "Mnemonic:")
	if err != nil {
		return nil, err
	}
	return signer.NewLocalFromMnemonic(mnemonic, f.passphrase)
}

// readSecret reads a secret from a file or asks for it if the file is empty
func readSecret(ui cli.Ui, file string, query string) (string, error) {
	var secret string
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %v", file, err)
		}
		secret = string(data)
	} else {
		res, err := ui.AskSecret(query)
		if err != nil {
			return "", err
		}
		secret = res
	}
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return "", fmt.Errorf("empty secret")
	}
	return secret, nil
}

func sortedNames(networks map[string]*signing.Network) []string {
	names := []string{}
	for name := range networks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func formatList(in []string) string {
	columnConf := columnize.DefaultConfig()
	columnConf.Empty = "<none>"
	return columnize.Format(in, columnConf)
}

func formatKV(in []string) string {
	columnConf := columnize.DefaultConfig()
	columnConf.Empty = "<none>"
	columnConf.Glue = " = "
	return columnize.Format(in, columnConf)
}
