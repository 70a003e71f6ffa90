package orchestrator

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"

	"github.com/chainlaunch/rolluplaunch/pkg/chain"
	"github.com/chainlaunch/rolluplaunch/pkg/chain/chaintest"
	apperrors "github.com/chainlaunch/rolluplaunch/pkg/errors"
	"github.com/chainlaunch/rolluplaunch/pkg/logger"
	"github.com/chainlaunch/rolluplaunch/pkg/nodeconfig"
	"github.com/chainlaunch/rolluplaunch/pkg/rollup"
)

func addr(b byte) common.Address {
	var a common.Address
	a[19] = b
	return a
}

// attachRollupCreated wires the fixture client to emit a RollupCreated
// event for every contract transaction, the way the factory would.
func attachRollupCreated(t *testing.T, client *chaintest.Client) {
	t.Helper()
	event := rollup.FactoryABI().Events["RollupCreated"]
	data, err := event.Inputs.NonIndexed().Pack(
		addr(13), addr(14), addr(15), addr(16), addr(17),
		addr(18), addr(19), addr(20), addr(21), addr(22),
	)
	require.NoError(t, err)

	client.OnContractTx = func(hash common.Hash, _ []byte) {
		client.Receipts[hash] = &types.Receipt{
			Status: types.ReceiptStatusSuccessful,
			TxHash: hash,
			Logs: []*types.Log{{
				Topics: []common.Hash{
					event.ID,
					common.BytesToHash(addr(11).Bytes()),
					common.BytesToHash(addr(12).Bytes()),
				},
				Data: data,
			}},
		}
	}
}

func testParams(t *testing.T) Params {
	t.Helper()
	baseStake, err := chain.ParseEther("0.00001")
	require.NoError(t, err)
	fundingAmount, err := chain.ParseEther("0.001")
	require.NoError(t, err)

	return Params{
		ChainID:       412346,
		BaseStake:     baseStake,
		FundingAmount: fundingAmount,
		Network: nodeconfig.NetworkParams{
			ParentChainID:  1337,
			ParentChainRPC: "http://localhost:8545",
		},
		ArtifactPath: filepath.Join(t.TempDir(), "nodeConfig.json"),
	}
}

func TestRunEndToEnd(t *testing.T) {
	deployer := addr(0xff)
	client := chaintest.NewClient(deployer)
	attachRollupCreated(t, client)

	balance, err := chain.ParseEther("0.005")
	require.NoError(t, err)
	client.Balances[deployer] = balance

	reporter := NewInMemoryProgressReporter()
	orch := New(client, addr(0xfc), reporter, nil, logger.NewDefault())

	result, err := orch.Run(context.Background(), testParams(t))
	require.NoError(t, err)

	// Three operator accounts funded with 0.001 each, in order.
	require.Len(t, client.Transfers, 3)
	fundingAmount, _ := chain.ParseEther("0.001")
	for _, tr := range client.Transfers {
		require.Zero(t, tr.Amount.Cmp(fundingAmount))
	}

	// Exactly one deployment submission.
	require.Len(t, client.ContractCalls, 1)

	// The derived configuration reports the requested chain id.
	require.Equal(t, uint64(412346), result.ChainID)

	// The artifact exists and embeds the deployed chain config.
	persisted, err := nodeconfig.ReadArtifact(result.ArtifactPath)
	require.NoError(t, err)
	chainCfg, err := persisted.ChainConfig()
	require.NoError(t, err)
	require.Equal(t, uint64(412346), chainCfg.ChainID.Uint64())

	state, ok := reporter.Current(result.RunID)
	require.True(t, ok)
	require.Equal(t, StateDone, state)

	wantOrder := []State{
		StateIdle, StateCheckBalance, StateProvision, StateFund,
		StateDeploy, StateDeriveConfig, StatePersist, StateDone,
	}
	history := reporter.History(result.RunID)
	require.Len(t, history, len(wantOrder))
	for i, update := range history {
		require.Equal(t, wantOrder[i], update.State)
	}
}

func TestRunAbortsOnInsufficientBalance(t *testing.T) {
	deployer := addr(0xff)
	client := chaintest.NewClient(deployer)
	attachRollupCreated(t, client)
	// Deployer balance stays zero.

	reporter := NewInMemoryProgressReporter()
	orch := New(client, addr(0xfc), reporter, nil, logger.NewDefault())

	params := testParams(t)
	_, err := orch.Run(context.Background(), params)
	require.Error(t, err)
	require.True(t, apperrors.IsType(err, apperrors.PreconditionError))

	// Zero on-chain side effects and no artifact.
	require.Empty(t, client.Transfers)
	require.Empty(t, client.ContractCalls)
	_, err = nodeconfig.ReadArtifact(params.ArtifactPath)
	require.Error(t, err)
}

func TestRunAbortsMidFunding(t *testing.T) {
	deployer := addr(0xff)
	client := chaintest.NewClient(deployer)
	attachRollupCreated(t, client)

	balance, err := chain.ParseEther("0.005")
	require.NoError(t, err)
	client.Balances[deployer] = balance
	client.FailTransferAt = 1

	orch := New(client, addr(0xfc), NewInMemoryProgressReporter(), nil, logger.NewDefault())

	_, err = orch.Run(context.Background(), testParams(t))
	require.Error(t, err)
	require.True(t, apperrors.IsType(err, apperrors.FundingError))

	// The first transfer went through; nothing after the failure did, and
	// no deployment was submitted.
	require.Len(t, client.Transfers, 1)
	require.Empty(t, client.ContractCalls)
}

func TestRunFailsOnDeploymentError(t *testing.T) {
	deployer := addr(0xff)
	client := chaintest.NewClient(deployer)
	attachRollupCreated(t, client)

	balance, err := chain.ParseEther("0.005")
	require.NoError(t, err)
	client.Balances[deployer] = balance
	client.ContractTxErr = context.DeadlineExceeded

	reporter := NewInMemoryProgressReporter()
	orch := New(client, addr(0xfc), reporter, nil, logger.NewDefault())

	_, err = orch.Run(context.Background(), testParams(t))
	require.Error(t, err)
	require.True(t, apperrors.IsType(err, apperrors.DeploymentError))
}

func TestRequirementUsesDeployerMargin(t *testing.T) {
	// Balance covers the three transfers and the base stake but not the
	// deployer's own gas margin; the run must not start.
	deployer := addr(0xff)
	client := chaintest.NewClient(deployer)
	attachRollupCreated(t, client)

	balance, err := chain.ParseEther("0.00301")
	require.NoError(t, err)
	client.Balances[deployer] = balance

	orch := New(client, addr(0xfc), NewInMemoryProgressReporter(), nil, logger.NewDefault())

	_, err = orch.Run(context.Background(), testParams(t))
	require.Error(t, err)
	require.True(t, apperrors.IsType(err, apperrors.PreconditionError))
	require.Empty(t, client.Transfers)
}
