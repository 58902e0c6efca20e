package signing

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"sort"

	"github.com/umbracle/stakekit/internal/codec"
	"github.com/umbracle/stakekit/internal/proto"
	"gopkg.in/yaml.v3"
)

var (
	//go:embed fixtures/networks.yaml
	networksYaml []byte
)

// Network binds signed messages to a chain
type Network struct {
	Name                  string
	ForkVersion           []byte
	GenesisValidatorsRoot []byte

	// DepositContract is the address of the deposit contract in the
	// execution layer, nil if unknown
	DepositContract []byte
}

// MainnetGenesis is the network info used when none is provided. Deposits are
// fork agnostic and always use the genesis fork version with a zero root.
func MainnetGenesis() *Network {
	return &Network{
		Name:                  "mainnet",
		ForkVersion:           make([]byte, proto.ForkVersionLength),
		GenesisValidatorsRoot: make([]byte, proto.RootLength),
	}
}

// Validate checks the size of the fork version and validators root
func (n *Network) Validate() error {
	if len(n.ForkVersion) != proto.ForkVersionLength {
		return fmt.Errorf("%w: fork version must be %d bytes but found %d", ErrInvalidNetworkInfo, proto.ForkVersionLength, len(n.ForkVersion))
	}
	if len(n.GenesisValidatorsRoot) != proto.RootLength {
		return fmt.Errorf("%w: genesis validators root must be %d bytes but found %d", ErrInvalidNetworkInfo, proto.RootLength, len(n.GenesisValidatorsRoot))
	}
	return nil
}

// Domain computes the domain of the given type for this network
func (n *Network) Domain(domainType DomainType) ([32]byte, error) {
	return ComputeDomain(domainType, n.ForkVersion, n.GenesisValidatorsRoot)
}

// ForDeposit returns a copy of the network with a zero validators root,
// which is the context in which deposit signatures are verified.
func (n *Network) ForDeposit() *Network {
	return &Network{
		Name:                  n.Name,
		ForkVersion:           append([]byte{}, n.ForkVersion...),
		GenesisValidatorsRoot: make([]byte, proto.RootLength),
		DepositContract:       n.DepositContract,
	}
}

type networkEntry struct {
	Name                  string `yaml:"name"`
	GenesisForkVersion    string `yaml:"genesis_fork_version"`
	GenesisValidatorsRoot string `yaml:"genesis_validators_root"`
	DepositContract       string `yaml:"deposit_contract"`
}

// ReadNetworks parses a yaml list of networks
func ReadNetworks(r io.Reader) (map[string]*Network, error) {
	var entries []*networkEntry
	if err := yaml.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to decode networks: %v", err)
	}

	networks := map[string]*Network{}
	for _, entry := range entries {
		if entry.Name == "" {
			return nil, fmt.Errorf("network without name")
		}
		forkVersion, err := codec.DecodeFixed(entry.GenesisForkVersion, proto.ForkVersionLength)
		if err != nil {
			return nil, fmt.Errorf("network %s: fork version: %w", entry.Name, err)
		}
		root, err := codec.DecodeFixed(entry.GenesisValidatorsRoot, proto.RootLength)
		if err != nil {
			return nil, fmt.Errorf("network %s: genesis validators root: %w", entry.Name, err)
		}
		network := &Network{
			Name:                  entry.Name,
			ForkVersion:           forkVersion,
			GenesisValidatorsRoot: root,
		}
		if entry.DepositContract != "" {
			if network.DepositContract, err = codec.DecodeFixed(entry.DepositContract, proto.AddressLength); err != nil {
				return nil, fmt.Errorf("network %s: deposit contract: %w", entry.Name, err)
			}
		}
		networks[entry.Name] = network
	}
	return networks, nil
}

// Networks returns the built-in networks
func Networks() map[string]*Network {
	networks, err := ReadNetworks(bytes.NewReader(networksYaml))
	if err != nil {
		panic(fmt.Sprintf("BUG: failed to load built-in networks: %v", err))
	}
	return networks
}

// LookupNetwork returns a built-in network by name
func LookupNetwork(name string) (*Network, bool) {
	network, ok := Networks()[name]
	return network, ok
}

// NetworkNames returns the sorted names of the built-in networks
func NetworkNames() []string {
	names := []string{}
	for name := range Networks() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
