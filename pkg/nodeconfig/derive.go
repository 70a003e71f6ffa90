package nodeconfig

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/chainlaunch/rolluplaunch/pkg/chain"
	apperrors "github.com/chainlaunch/rolluplaunch/pkg/errors"
	"github.com/chainlaunch/rolluplaunch/pkg/logger"
	"github.com/chainlaunch/rolluplaunch/pkg/rollup"
)

// OperatorKeys are the private keys the derived node configuration embeds.
type OperatorKeys struct {
	BatchPosterPrivateKey string
	ValidatorPrivateKey   string
}

// NetworkParams identify the base chain the node will settle on.
type NetworkParams struct {
	ParentChainID  uint64
	ParentChainRPC string
}

// Derived is the assembled node configuration material: the chain
// configuration exactly as deployed, the core contracts the factory
// instantiated, the operator keys, and the base-chain connection.
type Derived struct {
	ChainConfigDoc string
	ChainConfig    *rollup.ChainConfig
	CoreContracts  *rollup.CoreContracts
	Keys           OperatorKeys
	Network        NetworkParams
}

// Deriver re-parses a confirmed rollup-creation transaction to recover the
// configuration that actually went on-chain.
type Deriver struct {
	logger *logger.Logger
	client chain.Client
}

func NewDeriver(client chain.Client, log *logger.Logger) *Deriver {
	return &Deriver{
		logger: log.With("component", "config_deriver"),
		client: client,
	}
}

// Derive runs two independent extraction passes that must both succeed:
// the transaction's calldata yields the chain-configuration document that
// was submitted (not a locally cached copy), and the receipt's event logs
// yield the core-contract addresses the factory actually instantiated (not
// predicted ones). A shape mismatch signals a wrong hash or an unsupported
// factory version and never produces a partial configuration.
func (d *Deriver) Derive(ctx context.Context, txHash common.Hash, keys OperatorKeys, network NetworkParams) (*Derived, error) {
	tx, err := d.client.TransactionByHash(ctx, txHash)
	if err != nil {
		return nil, apperrors.NewDecodingError("failed to fetch creation transaction", err, map[string]interface{}{
			"tx": txHash.Hex(),
		})
	}

	params, err := rollup.UnpackCreateRollup(tx.Data())
	if err != nil {
		return nil, apperrors.NewDecodingError(
			"transaction is not a rollup creation of a supported factory version", err,
			map[string]interface{}{"tx": txHash.Hex()},
		)
	}

	chainConfig, err := rollup.UnmarshalChainConfig(params.Config.ChainConfig)
	if err != nil {
		return nil, apperrors.NewDecodingError("embedded chain config document is malformed", err, map[string]interface{}{
			"tx": txHash.Hex(),
		})
	}

	receipt, err := d.client.TransactionReceipt(ctx, txHash)
	if err != nil {
		return nil, apperrors.NewDecodingError("failed to fetch creation receipt", err, map[string]interface{}{
			"tx": txHash.Hex(),
		})
	}

	contracts, err := rollup.ParseRollupCreated(receipt)
	if err != nil {
		return nil, apperrors.NewDecodingError(
			"receipt does not carry a RollupCreated event of a supported factory version", err,
			map[string]interface{}{"tx": txHash.Hex()},
		)
	}

	d.logger.Info("Derived chain configuration from creation transaction",
		"tx", txHash.Hex(),
		"chainId", chainConfig.ChainID.Uint64(),
		"rollup", contracts.Rollup.Hex(),
	)

	return &Derived{
		ChainConfigDoc: params.Config.ChainConfig,
		ChainConfig:    chainConfig,
		CoreContracts:  contracts,
		Keys:           keys,
		Network:        network,
	}, nil
}
