package http

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"strings"
	"time"

	"github.com/umbracle/stakekit/internal/codec"
	"github.com/umbracle/stakekit/internal/proto"
	"github.com/umbracle/stakekit/internal/signing"
)

// DefaultTimeout is the time limit of a request to the beacon node
const DefaultTimeout = 30 * time.Second

// HttpClient is a client of the beacon node http api
type HttpClient struct {
	addr   string
	client *http.Client
}

// NewHttpClient creates a new http client
func NewHttpClient(addr string) *HttpClient {
	return &HttpClient{
		addr:   strings.TrimSuffix(addr, "/"),
		client: &http.Client{Timeout: DefaultTimeout},
	}
}

func (h *HttpClient) get(url string, objResp interface{}) error {
	fullURL := h.addr + url

	resp, err := h.client.Get(fullURL)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Code    int
			Message string
		}
		if err := json.Unmarshal(data, &apiErr); err == nil && apiErr.Message != "" {
			return fmt.Errorf("request %s failed (%d): %s", url, resp.StatusCode, apiErr.Message)
		}
		return fmt.Errorf("request %s failed with status %d", url, resp.StatusCode)
	}

	var obj struct {
		Data json.RawMessage
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	if len(obj.Data) == 0 {
		return fmt.Errorf("request %s returned no data", url)
	}

	if err := json.Unmarshal(obj.Data, &objResp); err != nil {
		return err
	}
	return nil
}

type Genesis struct {
	GenesisTime           string `json:"genesis_time"`
	GenesisValidatorsRoot string `json:"genesis_validators_root"`
	GenesisForkVersion    string `json:"genesis_fork_version"`
}

// Genesis returns the genesis of the chain followed by the node
func (h *HttpClient) Genesis() (*Genesis, error) {
	var out *Genesis
	err := h.get("/eth/v1/beacon/genesis", &out)
	return out, err
}

// Network returns the network info of the genesis. The name is only a label.
func (g *Genesis) Network(name string) (*signing.Network, error) {
	forkVersion, err := codec.DecodeFixed(g.GenesisForkVersion, proto.ForkVersionLength)
	if err != nil {
		return nil, fmt.Errorf("genesis fork version: %w", err)
	}
	root, err := codec.DecodeFixed(g.GenesisValidatorsRoot, proto.RootLength)
	if err != nil {
		return nil, fmt.Errorf("genesis validators root: %w", err)
	}
	network := &signing.Network{
		Name:                  name,
		ForkVersion:           forkVersion,
		GenesisValidatorsRoot: root,
	}
	return network, nil
}

type Validator struct {
	Index     string         `json:"index"`
	Balance   string         `json:"balance"`
	Status    string         `json:"status"`
	Validator *ValidatorInfo `json:"validator"`
}

type ValidatorInfo struct {
	Pubkey                string `json:"pubkey"`
	WithdrawalCredentials string `json:"withdrawal_credentials"`
	EffectiveBalance      string `json:"effective_balance"`
	Slashed               bool   `json:"slashed"`
}

// Validator returns the validator at the head state by index or public key
func (h *HttpClient) Validator(id string) (*Validator, error) {
	var out *Validator
	err := h.get("/eth/v1/beacon/states/head/validators/"+id, &out)
	if err != nil {
		return nil, err
	}
	if out.Validator == nil {
		return nil, fmt.Errorf("validator %s has no info", id)
	}
	return out, nil
}

type Syncing struct {
	HeadSlot     string `json:"head_slot"`
	SyncDistance string `json:"sync_distance"`
	IsSyncing    bool   `json:"is_syncing"`
	IsOptimistic bool   `json:"is_optimistic"`
}

// Syncing returns the sync status of the node
func (h *HttpClient) Syncing() (*Syncing, error) {
	var out *Syncing
	err := h.get("/eth/v1/node/syncing", &out)
	return out, err
}
