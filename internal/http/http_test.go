package http

import (
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/umbracle/stakekit/internal/signing"
)

func newTestServer(t *testing.T, routes map[string]string) *HttpClient {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp, ok := routes[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"code":404,"message":"Validator not found"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(resp))
	}))
	t.Cleanup(srv.Close)

	return NewHttpClient(srv.URL + "/")
}

func TestHttp_Genesis(t *testing.T) {
	clt := newTestServer(t, map[string]string{
		"/eth/v1/beacon/genesis": `{"data":{"genesis_time":"1606824023","genesis_validators_root":"0x4b363db94e286120d76eb905340fdd4e54bfe9f06bf33ff6cf5ad27f511bfe95","genesis_fork_version":"0x00000000"}}`,
	})

	genesis, err := clt.Genesis()
	require.NoError(t, err)
	assert.Equal(t, "1606824023", genesis.GenesisTime)

	network, err := genesis.Network("mainnet")
	require.NoError(t, err)
	require.NoError(t, network.Validate())

	mainnet, ok := signing.LookupNetwork("mainnet")
	require.True(t, ok)
	assert.Equal(t, mainnet.ForkVersion, network.ForkVersion)
	assert.Equal(t, mainnet.GenesisValidatorsRoot, network.GenesisValidatorsRoot)

	domain, err := network.Domain(signing.DomainBLSToExecutionChange)
	require.NoError(t, err)
	assert.Equal(t, "0a000000b5303f2ad2010d699a76c8e62350947421a3e4a979779642cfdb0f66", hex.EncodeToString(domain[:]))
}

func TestHttp_GenesisInvalid(t *testing.T) {
	clt := newTestServer(t, map[string]string{
		"/eth/v1/beacon/genesis": `{"data":{"genesis_validators_root":"0x4b36","genesis_fork_version":"0x00000000"}}`,
	})

	genesis, err := clt.Genesis()
	require.NoError(t, err)

	_, err = genesis.Network("mainnet")
	assert.Error(t, err)
}

func TestHttp_Validator(t *testing.T) {
	clt := newTestServer(t, map[string]string{
		"/eth/v1/beacon/states/head/validators/123": `{"execution_optimistic":false,"data":{"index":"123","balance":"32000000000","status":"active_ongoing","validator":{"pubkey":"0x86248e64705987236ec3c41f6a81d96f98e7b85e842a1d71405b216fa75a9917512f3c94c85779a9729c927ea2aa9ed1","withdrawal_credentials":"0x00bd0b5a34de5fb17df08410b5e615dda87caf4fb72d0aac91ce5e52fc6aa8de","effective_balance":"32000000000","slashed":false}}}`,
	})

	val, err := clt.Validator("123")
	require.NoError(t, err)
	assert.Equal(t, "123", val.Index)
	assert.Equal(t, "active_ongoing", val.Status)
	assert.Equal(t, "0x00bd0b5a34de5fb17df08410b5e615dda87caf4fb72d0aac91ce5e52fc6aa8de", val.Validator.WithdrawalCredentials)
	assert.False(t, val.Validator.Slashed)

	_, err = clt.Validator("124")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Validator not found")
}

func TestHttp_Syncing(t *testing.T) {
	clt := newTestServer(t, map[string]string{
		"/eth/v1/node/syncing": `{"data":{"head_slot":"100","sync_distance":"2","is_syncing":true,"is_optimistic":false}}`,
	})

	syncing, err := clt.Syncing()
	require.NoError(t, err)
	assert.True(t, syncing.IsSyncing)
	assert.Equal(t, "2", syncing.SyncDistance)
}

func TestHttp_NoData(t *testing.T) {
	clt := newTestServer(t, map[string]string{
		"/eth/v1/node/syncing": `{}`,
	})

	_, err := clt.Syncing()
	assert.Error(t, err)
}

func TestHttp_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// the node never answers
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	clt := NewHttpClient(srv.URL)
	assert.Equal(t, DefaultTimeout, clt.client.Timeout)

	clt.client.Timeout = 100 * time.Millisecond

	start := time.Now()
	_, err := clt.Genesis()
	require.Error(t, err)
	assert.True(t, time.Since(start) < 5*time.Second)
}
