package signing

import (
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeHex(t *testing.T, str string) []byte {
	buf, err := hex.DecodeString(strings.TrimPrefix(str, "0x"))
	require.NoError(t, err)
	return buf
}

func TestComputeDomain_MainnetDeposit(t *testing.T) {
	domain, err := MainnetGenesis().Domain(DomainDeposit)
	require.NoError(t, err)
	assert.Equal(t, "03000000f5a5fd42d16a20302798ef6ed309979b43003d2320d9f0e8ea9831a9", hex.EncodeToString(domain[:]))
}

func TestComputeDomain_MainnetBLSToExecutionChange(t *testing.T) {
	mainnet, ok := LookupNetwork("mainnet")
	require.True(t, ok)

	domain, err := mainnet.Domain(DomainBLSToExecutionChange)
	require.NoError(t, err)
	assert.Equal(t, "0a000000b5303f2ad2010d699a76c8e62350947421a3e4a979779642cfdb0f66", hex.EncodeToString(domain[:]))
}

func TestComputeDomain_Separation(t *testing.T) {
	network := MainnetGenesis()

	types := []DomainType{DomainDeposit, DomainVoluntaryExit, DomainBLSToExecutionChange}
	domains := [][32]byte{}
	for _, typ := range types {
		domain, err := network.Domain(typ)
		require.NoError(t, err)
		assert.Equal(t, typ[:], domain[:4])
		domains = append(domains, domain)
	}

	for i := 0; i < len(domains); i++ {
		for j := i + 1; j < len(domains); j++ {
			assert.NotEqual(t, domains[i], domains[j])
			// same fork data, so only the domain type differs
			assert.Equal(t, domains[i][4:], domains[j][4:])
		}
	}
}

func TestComputeDomain_InvalidNetwork(t *testing.T) {
	_, err := ComputeDomain(DomainDeposit, make([]byte, 3), make([]byte, 32))
	assert.True(t, errors.Is(err, ErrInvalidNetworkInfo))

	_, err = ComputeDomain(DomainDeposit, make([]byte, 4), make([]byte, 31))
	assert.True(t, errors.Is(err, ErrInvalidNetworkInfo))

	n := &Network{Name: "bad", ForkVersion: make([]byte, 5), GenesisValidatorsRoot: make([]byte, 32)}
	assert.True(t, errors.Is(n.Validate(), ErrInvalidNetworkInfo))
	assert.NoError(t, MainnetGenesis().Validate())
}

func TestComputeSigningRoot(t *testing.T) {
	domain, err := MainnetGenesis().Domain(DomainDeposit)
	require.NoError(t, err)

	msgRoot := decodeHex(t, "139b510ea7f2788ab82da1f427d6cbe1db147c15a053db738ad5500cd83754a6")
	root, err := ComputeSigningRoot(msgRoot, domain)
	require.NoError(t, err)
	assert.Equal(t, "ddd8883f4b4ef567801cf85501c1015d7bb8f64bf151b8c187876e147dbef4bb", hex.EncodeToString(root[:]))

	_, err = ComputeSigningRoot(msgRoot[:31], domain)
	assert.True(t, errors.Is(err, ErrInvalidObjectRoot))

	_, err = ComputeSigningRoot(append(msgRoot, 0x1), domain)
	assert.True(t, errors.Is(err, ErrInvalidObjectRoot))
}

func TestNetwork_ForDeposit(t *testing.T) {
	sepolia, ok := LookupNetwork("sepolia")
	require.True(t, ok)

	dep := sepolia.ForDeposit()
	assert.Equal(t, "sepolia", dep.Name)
	assert.Equal(t, sepolia.ForkVersion, dep.ForkVersion)
	assert.Equal(t, make([]byte, 32), dep.GenesisValidatorsRoot)

	// the original is untouched
	assert.NotEqual(t, make([]byte, 32), sepolia.GenesisValidatorsRoot)

	mainnet, ok := LookupNetwork("mainnet")
	require.True(t, ok)
	deposit := mainnet.ForDeposit()
	assert.Equal(t, MainnetGenesis().ForkVersion, deposit.ForkVersion)
	assert.Equal(t, MainnetGenesis().GenesisValidatorsRoot, deposit.GenesisValidatorsRoot)
	assert.Equal(t, "00000000219ab540356cbb839cbe05303d7705fa", hex.EncodeToString(deposit.DepositContract))
}

func TestNetworks_BuiltIn(t *testing.T) {
	assert.Equal(t, []string{"holesky", "mainnet", "sepolia"}, NetworkNames())

	for _, n := range Networks() {
		assert.NoError(t, n.Validate())
	}

	_, ok := LookupNetwork("unknown")
	assert.False(t, ok)
}

func TestReadNetworks(t *testing.T) {
	input := `
- name: devnet
  genesis_fork_version: "0x10000038"
  genesis_validators_root: "0x0000000000000000000000000000000000000000000000000000000000000001"
`
	networks, err := ReadNetworks(strings.NewReader(input))
	require.NoError(t, err)
	require.Contains(t, networks, "devnet")
	assert.Equal(t, []byte{0x10, 0x0, 0x0, 0x38}, networks["devnet"].ForkVersion)
	assert.Nil(t, networks["devnet"].DepositContract)

	cases := []string{
		// wrong fork version
		`- {name: a, genesis_fork_version: "0x00", genesis_validators_root: "0x0000000000000000000000000000000000000000000000000000000000000000"}`,
		// missing name
		`- {genesis_fork_version: "0x00000000", genesis_validators_root: "0x0000000000000000000000000000000000000000000000000000000000000000"}`,
		// wrong deposit contract
		`- {name: a, genesis_fork_version: "0x00000000", genesis_validators_root: "0x0000000000000000000000000000000000000000000000000000000000000000", deposit_contract: "0x1234"}`,
		// not a list
		`name: a`,
	}
	for _, c := range cases {
		_, err := ReadNetworks(strings.NewReader(c))
		assert.Error(t, err, c)
	}
}
