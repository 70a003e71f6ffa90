package rollup

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// ArbitrumParams is the rollup-specific extension of the chain
// configuration document embedded in the creation transaction.
type ArbitrumParams struct {
	EnableArbOS               bool           `json:"EnableArbOS"`
	AllowDebugPrecompiles     bool           `json:"AllowDebugPrecompiles"`
	DataAvailabilityCommittee bool           `json:"DataAvailabilityCommittee"`
	InitialArbOSVersion       uint64         `json:"InitialArbOSVersion"`
	InitialChainOwner         common.Address `json:"InitialChainOwner"`
	GenesisBlockNum           uint64         `json:"GenesisBlockNum"`
}

// CliqueParams mirrors the clique section the child chain genesis expects.
type CliqueParams struct {
	Period uint64 `json:"period"`
	Epoch  uint64 `json:"epoch"`
}

// ChainConfig is the protocol-parameter document for the child chain. It is
// serialized to JSON and carried inside the rollup-creation calldata, which
// makes the on-chain copy the source of truth.
type ChainConfig struct {
	ChainID             *big.Int       `json:"chainId"`
	HomesteadBlock      uint64         `json:"homesteadBlock"`
	DAOForkBlock        *uint64        `json:"daoForkBlock"`
	DAOForkSupport      bool           `json:"daoForkSupport"`
	EIP150Block         uint64         `json:"eip150Block"`
	EIP155Block         uint64         `json:"eip155Block"`
	EIP158Block         uint64         `json:"eip158Block"`
	ByzantiumBlock      uint64         `json:"byzantiumBlock"`
	ConstantinopleBlock uint64         `json:"constantinopleBlock"`
	PetersburgBlock     uint64         `json:"petersburgBlock"`
	IstanbulBlock       uint64         `json:"istanbulBlock"`
	MuirGlacierBlock    uint64         `json:"muirGlacierBlock"`
	BerlinBlock         uint64         `json:"berlinBlock"`
	LondonBlock         uint64         `json:"londonBlock"`
	Clique              CliqueParams   `json:"clique"`
	Arbitrum            ArbitrumParams `json:"arbitrum"`
}

// ChainConfigParams are the operator-chosen knobs of PrepareChainConfig;
// everything else is defaulted.
type ChainConfigParams struct {
	ChainID                   uint64
	InitialChainOwner         common.Address
	DataAvailabilityCommittee bool
}

// PrepareChainConfig builds the chain configuration document for a new
// child chain.
func PrepareChainConfig(params ChainConfigParams) *ChainConfig {
	return &ChainConfig{
		ChainID:        new(big.Int).SetUint64(params.ChainID),
		DAOForkSupport: true,
		Clique: CliqueParams{
			Period: 0,
			Epoch:  0,
		},
		Arbitrum: ArbitrumParams{
			EnableArbOS:               true,
			AllowDebugPrecompiles:     false,
			DataAvailabilityCommittee: params.DataAvailabilityCommittee,
			InitialArbOSVersion:       32,
			InitialChainOwner:         params.InitialChainOwner,
			GenesisBlockNum:           0,
		},
	}
}

// Marshal renders the document exactly as it goes on-chain.
func (c *ChainConfig) Marshal() (string, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to marshal chain config: %w", err)
	}
	return string(data), nil
}

// UnmarshalChainConfig parses a chain configuration document recovered from
// calldata.
func UnmarshalChainConfig(doc string) (*ChainConfig, error) {
	var cfg ChainConfig
	if err := json.Unmarshal([]byte(doc), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse chain config document: %w", err)
	}
	if cfg.ChainID == nil {
		return nil, fmt.Errorf("chain config document has no chainId")
	}
	return &cfg, nil
}

// SuggestChainID picks a random child chain id well clear of registered
// networks. The operator can always pass an explicit one instead.
func SuggestChainID() (uint64, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(400_000_000))
	if err != nil {
		return 0, fmt.Errorf("failed to draw random chain id: %w", err)
	}
	return 100_000_000 + n.Uint64(), nil
}
