package rollup

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/chainlaunch/rolluplaunch/pkg/chain"
	apperrors "github.com/chainlaunch/rolluplaunch/pkg/errors"
	"github.com/chainlaunch/rolluplaunch/pkg/logger"
)

// DeploymentResult is the durable outcome of a rollup-creation submission.
// Once the base chain confirms the transaction it cannot be undone.
type DeploymentResult struct {
	TransactionHash common.Hash
	Confirmed       bool
}

// Deployer submits the rollup-creation transaction to the factory.
type Deployer struct {
	logger  *logger.Logger
	client  chain.Client
	factory common.Address
}

func NewDeployer(client chain.Client, factory common.Address, log *logger.Logger) *Deployer {
	return &Deployer{
		logger:  log.With("component", "rollup_deployer"),
		client:  client,
		factory: factory,
	}
}

// Deploy materializes the factory parameters from the plan and submits a
// single creation transaction. The call is atomic from the caller's point
// of view: it returns a confirmed hash or a deployment error, never a
// partial success. A failed attempt cannot be resubmitted with the same
// identity; the caller restarts with a fresh chain id.
func (d *Deployer) Deploy(ctx context.Context, plan *DeploymentPlan, validators []common.Address, batchPoster common.Address) (*DeploymentResult, error) {
	params, err := PrepareDeploymentParams(plan, validators, batchPoster)
	if err != nil {
		return nil, apperrors.NewDeploymentError("invalid deployment parameters", err, map[string]interface{}{
			"chainId": plan.ChainID,
		})
	}

	calldata, err := PackCreateRollup(params)
	if err != nil {
		return nil, apperrors.NewDeploymentError("failed to encode creation transaction", err, map[string]interface{}{
			"chainId": plan.ChainID,
		})
	}

	d.logger.Info("Submitting rollup creation transaction",
		"chainId", plan.ChainID,
		"factory", d.factory.Hex(),
		"validators", len(validators),
	)

	hash, err := d.client.SendContractTx(ctx, d.factory, big.NewInt(0), calldata)
	if err != nil {
		return nil, apperrors.NewDeploymentError("rollup creation transaction failed", err, map[string]interface{}{
			"chainId": plan.ChainID,
			"factory": d.factory.Hex(),
		})
	}

	d.logger.Info("Rollup creation confirmed", "tx", hash.Hex())
	return &DeploymentResult{TransactionHash: hash, Confirmed: true}, nil
}
