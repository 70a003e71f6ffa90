package orchestrator

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"

	"github.com/chainlaunch/rolluplaunch/pkg/accounts"
	"github.com/chainlaunch/rolluplaunch/pkg/chain"
	apperrors "github.com/chainlaunch/rolluplaunch/pkg/errors"
	"github.com/chainlaunch/rolluplaunch/pkg/funding"
	"github.com/chainlaunch/rolluplaunch/pkg/logger"
	"github.com/chainlaunch/rolluplaunch/pkg/nodeconfig"
	"github.com/chainlaunch/rolluplaunch/pkg/rollup"
)

// Params fix one deployment attempt. ChainID and BaseStake do not change
// within an attempt; a failed run is restarted with a fresh chain id.
type Params struct {
	ChainID                   uint64
	BaseStake                 *big.Int
	FundingAmount             *big.Int
	Network                   nodeconfig.NetworkParams
	ArtifactPath              string
	DataAvailabilityCommittee bool
}

// Result is the outcome of a successful run.
type Result struct {
	RunID           string
	ChainID         uint64
	TransactionHash common.Hash
	ArtifactPath    string
}

// RunRecorder persists run lifecycle events. The orchestrator treats it as
// best-effort bookkeeping: recording failures are logged, not fatal.
type RunRecorder interface {
	RunStarted(ctx context.Context, runID string, chainID uint64) error
	RunStateChanged(ctx context.Context, runID string, state State) error
	RunSucceeded(ctx context.Context, runID string, txHash string, artifactPath string) error
	RunFailed(ctx context.Context, runID string, message string) error
}

// Orchestrator sequences the deployment pipeline. One instance per deployer
// account at a time: concurrent runs against the same deployer would fight
// over its transaction nonce.
type Orchestrator struct {
	logger      *logger.Logger
	client      chain.Client
	provisioner *accounts.Provisioner
	funder      *funding.Funder
	deployer    *rollup.Deployer
	deriver     *nodeconfig.Deriver
	reporter    ProgressReporter
	recorder    RunRecorder
}

func New(client chain.Client, factory common.Address, reporter ProgressReporter, recorder RunRecorder, log *logger.Logger) *Orchestrator {
	return &Orchestrator{
		logger:      log.With("component", "orchestrator"),
		client:      client,
		provisioner: accounts.NewProvisioner(log),
		funder:      funding.NewFunder(client, log),
		deployer:    rollup.NewDeployer(client, factory, log),
		deriver:     nodeconfig.NewDeriver(client, log),
		reporter:    reporter,
		recorder:    recorder,
	}
}

// Run executes Idle → CheckBalance → Provision → Fund → Deploy →
// DeriveConfig → Persist → Done. No state is re-entrant: once funding or
// deployment has begun, a failed run cannot be resumed, because confirmed
// transfers and submissions are durable and are not compensated.
func (o *Orchestrator) Run(ctx context.Context, params Params) (*Result, error) {
	runID := uuid.New().String()
	o.logger.Info("Starting deployment run", "runID", runID, "chainId", params.ChainID)

	if o.recorder != nil {
		if err := o.recorder.RunStarted(ctx, runID, params.ChainID); err != nil {
			o.logger.Warn("Failed to record run start", "runID", runID, "error", err)
		}
	}
	o.transition(ctx, runID, StateIdle, fmt.Sprintf("deployment run for chain %d", params.ChainID))

	plan, err := rollup.NewDeploymentPlan(params.ChainID, o.client.Sender(), params.BaseStake, params.DataAvailabilityCommittee)
	if err != nil {
		return nil, o.fail(ctx, runID, apperrors.NewValidationError(err.Error(), nil))
	}

	// CheckBalance: the only state allowed to fail with zero on-chain
	// side effects.
	o.transition(ctx, runID, StateCheckBalance, "verifying deployer balance")
	requirement := funding.ComputeRequirement(params.BaseStake, params.FundingAmount, len(accounts.DefaultRoles))
	balance, err := o.client.BalanceAt(ctx, o.client.Sender())
	if err != nil {
		return nil, o.fail(ctx, runID, apperrors.NewPreconditionError("failed to query deployer balance", map[string]interface{}{
			"error": err.Error(),
		}))
	}
	if !requirement.Satisfied(balance) {
		return nil, o.fail(ctx, runID, apperrors.NewPreconditionError("deployer balance below funding requirement", map[string]interface{}{
			"deployer": o.client.Sender().Hex(),
			"balance":  chain.FormatEther(balance),
			"required": chain.FormatEther(requirement.TotalRequired),
		}))
	}

	o.transition(ctx, runID, StateProvision, "generating operator accounts")
	operators, err := o.provisioner.Provision(accounts.DefaultRoles)
	if err != nil {
		return nil, o.fail(ctx, runID, apperrors.NewInternalError("operator key generation failed", err, nil))
	}
	validators := accounts.Validators(operators)
	batchPoster, err := accounts.BatchPoster(operators)
	if err != nil {
		return nil, o.fail(ctx, runID, apperrors.NewInternalError("operator provisioning incomplete", err, nil))
	}

	o.transition(ctx, runID, StateFund, "funding operator accounts")
	if err := o.funder.FundAccounts(ctx, operators, params.FundingAmount); err != nil {
		return nil, o.fail(ctx, runID, err)
	}

	o.transition(ctx, runID, StateDeploy, "submitting rollup creation transaction")
	deployment, err := o.deployer.Deploy(ctx, plan, validators, batchPoster.Address)
	if err != nil {
		return nil, o.fail(ctx, runID, err)
	}

	o.transition(ctx, runID, StateDeriveConfig, "deriving node configuration from chain")
	derived, err := o.deriver.Derive(ctx, deployment.TransactionHash, nodeconfig.OperatorKeys{
		BatchPosterPrivateKey: batchPoster.PrivateKey,
		ValidatorPrivateKey:   operators[0].PrivateKey,
	}, params.Network)
	if err != nil {
		return nil, o.fail(ctx, runID, err)
	}

	o.transition(ctx, runID, StatePersist, "writing node configuration artifact")
	nodeCfg, err := nodeconfig.PrepareNodeConfig(derived)
	if err != nil {
		return nil, o.fail(ctx, runID, apperrors.NewInternalError("failed to assemble node configuration", err, nil))
	}
	if err := nodeCfg.Write(params.ArtifactPath); err != nil {
		return nil, o.fail(ctx, runID, apperrors.NewInternalError("failed to persist node configuration", err, nil))
	}

	// Read the artifact back for the final report; the file, not the
	// in-memory copy, is what operators will run the node from.
	persisted, err := nodeconfig.ReadArtifact(params.ArtifactPath)
	if err != nil {
		return nil, o.fail(ctx, runID, apperrors.NewInternalError("failed to read back node configuration", err, nil))
	}
	chainCfg, err := persisted.ChainConfig()
	if err != nil {
		return nil, o.fail(ctx, runID, apperrors.NewInternalError("persisted artifact is unreadable", err, nil))
	}

	if o.recorder != nil {
		if err := o.recorder.RunSucceeded(ctx, runID, deployment.TransactionHash.Hex(), params.ArtifactPath); err != nil {
			o.logger.Warn("Failed to record run success", "runID", runID, "error", err)
		}
	}
	o.transition(ctx, runID, StateDone, fmt.Sprintf("chain %d deployed, node config at %s", chainCfg.ChainID.Uint64(), params.ArtifactPath))

	return &Result{
		RunID:           runID,
		ChainID:         chainCfg.ChainID.Uint64(),
		TransactionHash: deployment.TransactionHash,
		ArtifactPath:    params.ArtifactPath,
	}, nil
}

func (o *Orchestrator) transition(ctx context.Context, runID string, state State, message string) {
	o.logger.Info("Pipeline transition", "runID", runID, "state", state, "msg", message)
	if o.reporter != nil {
		o.reporter.ReportState(StateUpdate{RunID: runID, State: state, Message: message})
	}
	if o.recorder != nil && state != StateIdle {
		if err := o.recorder.RunStateChanged(ctx, runID, state); err != nil {
			o.logger.Warn("Failed to record state change", "runID", runID, "state", state, "error", err)
		}
	}
}

func (o *Orchestrator) fail(ctx context.Context, runID string, err error) error {
	o.logger.Error("Deployment run failed", "runID", runID, "error", err)
	if o.reporter != nil {
		o.reporter.ReportState(StateUpdate{RunID: runID, State: StateFailed, Message: err.Error(), Err: err})
	}
	if o.recorder != nil {
		if recErr := o.recorder.RunFailed(ctx, runID, err.Error()); recErr != nil {
			o.logger.Warn("Failed to record run failure", "runID", runID, "error", recErr)
		}
	}
	return err
}
