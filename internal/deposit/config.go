package deposit

import (
	"github.com/hashicorp/go-hclog"
	"github.com/holiman/uint256"
	"github.com/umbracle/stakekit/internal/signing"
)

const (
	// DefaultVersion is the deposit_cli_version written in the records.
	// Tooling that consumes deposit files checks this value.
	DefaultVersion = "2.7.0"

	// MinGweiAmount is the deposit required to activate a validator
	MinGweiAmount = 32000000000
)

// DepositConfig are the options to build a deposit
type DepositConfig struct {
	// Path is the key path of the validator signing key (required)
	Path string

	// WithdrawalKey is a hex encoded BLS public key or execution address used
	// for the withdrawal credentials. When empty the BLS key at WithdrawalPath
	// is used.
	WithdrawalKey string

	// WithdrawalPath is the key path of the BLS withdrawal key. Defaults
	// to the parent of Path.
	WithdrawalPath string

	// Amount is the deposit in Gwei. Defaults to MinGweiAmount.
	Amount *uint256.Int

	// Network defaults to the mainnet genesis. The domain is computed with the
	// validators root as given, and the deposit contract checks signatures
	// against a zero root, so presets must be passed through ForDeposit().
	Network *signing.Network

	// Version is the version tag of the output. Defaults to DefaultVersion.
	Version string

	// KeystoreIterations, if set, also exports the signing key as an
	// encrypted keystore with this many kdf iterations.
	KeystoreIterations int

	Logger hclog.Logger
}

// DefaultDepositConfig returns a deposit config for the first validator key
func DefaultDepositConfig() *DepositConfig {
	return &DepositConfig{
		Path:    "m/12381/3600/0/0/0",
		Amount:  uint256.NewInt(MinGweiAmount),
		Network: signing.MainnetGenesis(),
		Version: DefaultVersion,
	}
}

// BLSChangeConfig are the options to build a BLS to execution change
type BLSChangeConfig struct {
	// Path is the key path of the current BLS withdrawal key (required)
	Path string

	// ExecutionAddress is the hex encoded address that receives the withdrawals (required)
	ExecutionAddress string

	// ValidatorIndex is the index of the validator on the beacon chain (required)
	ValidatorIndex *uint64

	// Network defaults to the mainnet genesis.
	Network *signing.Network

	// Version is the version tag of the output. Defaults to DefaultVersion.
	Version string

	Logger hclog.Logger
}

func orNetwork(n *signing.Network) *signing.Network {
	if n == nil {
		return signing.MainnetGenesis()
	}
	return n
}

func orVersion(v string) string {
	if v == "" {
		return DefaultVersion
	}
	return v
}

func orLogger(l hclog.Logger) hclog.Logger {
	if l == nil {
		return hclog.NewNullLogger()
	}
	return l
}
