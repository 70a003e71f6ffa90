package nodeconfig

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"

	"github.com/chainlaunch/rolluplaunch/pkg/rollup"
)

// RollupAddresses is the core-contract section of the chain info entry.
type RollupAddresses struct {
	Bridge                 common.Address `json:"bridge"`
	Inbox                  common.Address `json:"inbox"`
	SequencerInbox         common.Address `json:"sequencer-inbox"`
	Rollup                 common.Address `json:"rollup"`
	NativeToken            common.Address `json:"native-token"`
	UpgradeExecutor        common.Address `json:"upgrade-executor"`
	ValidatorUtils         common.Address `json:"validator-utils"`
	ValidatorWalletCreator common.Address `json:"validator-wallet-creator"`
}

// ChainInfo is one entry of the chain registry the node reads at startup.
type ChainInfo struct {
	ChainID     uint64          `json:"chain-id"`
	ChainName   string          `json:"chain-name"`
	ChainConfig json.RawMessage `json:"chain-config"`
	Rollup      RollupAddresses `json:"rollup"`
}

type connectionConfig struct {
	URL string `json:"url"`
}

type parentChainConfig struct {
	ID         uint64           `json:"id"`
	Connection connectionConfig `json:"connection"`
}

type chainSection struct {
	ID       uint64 `json:"id"`
	Name     string `json:"name"`
	InfoJSON string `json:"info-json"`
}

type walletConfig struct {
	PrivateKey string `json:"private-key"`
}

type batchPosterConfig struct {
	Enable            bool         `json:"enable"`
	ParentChainWallet walletConfig `json:"parent-chain-wallet"`
}

type stakerConfig struct {
	Enable            bool         `json:"enable"`
	Strategy          string       `json:"strategy"`
	ParentChainWallet walletConfig `json:"parent-chain-wallet"`
}

type nodeSection struct {
	BatchPoster batchPosterConfig `json:"batch-poster"`
	Staker      stakerConfig      `json:"staker"`
}

type httpSection struct {
	Addr string   `json:"addr"`
	Port int      `json:"port"`
	API  []string `json:"api"`
}

// NodeConfig is the persisted node configuration artifact. It is written
// exactly once per successful deployment and never mutated afterward.
type NodeConfig struct {
	Chain       chainSection      `json:"chain"`
	ParentChain parentChainConfig `json:"parent-chain"`
	HTTP        httpSection       `json:"http"`
	Node        nodeSection       `json:"node"`
}

// PrepareNodeConfig assembles the artifact from the derived deployment
// material. The chain-config document is embedded verbatim so the file
// reflects exactly what was deployed.
func PrepareNodeConfig(derived *Derived) (*NodeConfig, error) {
	chainID := derived.ChainConfig.ChainID.Uint64()

	info := []ChainInfo{{
		ChainID:     chainID,
		ChainName:   fmt.Sprintf("rollup-%d", chainID),
		ChainConfig: json.RawMessage(derived.ChainConfigDoc),
		Rollup: RollupAddresses{
			Bridge:                 derived.CoreContracts.Bridge,
			Inbox:                  derived.CoreContracts.Inbox,
			SequencerInbox:         derived.CoreContracts.SequencerInbox,
			Rollup:                 derived.CoreContracts.Rollup,
			NativeToken:            derived.CoreContracts.NativeToken,
			UpgradeExecutor:        derived.CoreContracts.UpgradeExecutor,
			ValidatorUtils:         derived.CoreContracts.ValidatorUtils,
			ValidatorWalletCreator: derived.CoreContracts.ValidatorWalletCreator,
		},
	}}

	infoJSON, err := json.Marshal(info)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal chain info: %w", err)
	}

	return &NodeConfig{
		Chain: chainSection{
			ID:       chainID,
			Name:     info[0].ChainName,
			InfoJSON: string(infoJSON),
		},
		ParentChain: parentChainConfig{
			ID:         derived.Network.ParentChainID,
			Connection: connectionConfig{URL: derived.Network.ParentChainRPC},
		},
		HTTP: httpSection{
			Addr: "0.0.0.0",
			Port: 8449,
			API:  []string{"eth", "net", "web3", "arb", "debug"},
		},
		Node: nodeSection{
			BatchPoster: batchPosterConfig{
				Enable:            true,
				ParentChainWallet: walletConfig{PrivateKey: derived.Keys.BatchPosterPrivateKey},
			},
			Staker: stakerConfig{
				Enable:            true,
				Strategy:          "MakeNodes",
				ParentChainWallet: walletConfig{PrivateKey: derived.Keys.ValidatorPrivateKey},
			},
		},
	}, nil
}

// Write persists the artifact with operator-only permissions, the keys are
// embedded in it.
func (c *NodeConfig) Write(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal node config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write node config artifact: %w", err)
	}
	return nil
}

// ReadArtifact loads a persisted node configuration.
func ReadArtifact(path string) (*NodeConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read node config artifact: %w", err)
	}
	var cfg NodeConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse node config artifact: %w", err)
	}
	return &cfg, nil
}

// ChainConfig extracts the embedded chain configuration document. Callers
// use it for display only; the artifact stays the source of truth.
func (c *NodeConfig) ChainConfig() (*rollup.ChainConfig, error) {
	var info []ChainInfo
	if err := json.Unmarshal([]byte(c.Chain.InfoJSON), &info); err != nil {
		return nil, fmt.Errorf("failed to parse chain info: %w", err)
	}
	if len(info) == 0 {
		return nil, fmt.Errorf("artifact carries no chain info")
	}
	return rollup.UnmarshalChainConfig(string(info[0].ChainConfig))
}
