package nodeconfig

import (
	"context"
	"math/big"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"

	"github.com/chainlaunch/rolluplaunch/pkg/chain/chaintest"
	apperrors "github.com/chainlaunch/rolluplaunch/pkg/errors"
	"github.com/chainlaunch/rolluplaunch/pkg/logger"
	"github.com/chainlaunch/rolluplaunch/pkg/rollup"
)

func addr(b byte) common.Address {
	var a common.Address
	a[19] = b
	return a
}

var testKeys = OperatorKeys{
	BatchPosterPrivateKey: "b0b0",
	ValidatorPrivateKey:   "a1a1",
}

var testNetwork = NetworkParams{
	ParentChainID:  1337,
	ParentChainRPC: "http://localhost:8545",
}

// submitCreation pushes a real createRollup transaction through the fixture
// client and attaches the factory's RollupCreated event to its receipt.
func submitCreation(t *testing.T, client *chaintest.Client, chainID uint64) (common.Hash, *rollup.DeploymentPlan) {
	t.Helper()

	plan, err := rollup.NewDeploymentPlan(chainID, addr(0xaa), big.NewInt(10_000_000_000_000), false)
	require.NoError(t, err)

	params, err := rollup.PrepareDeploymentParams(plan, []common.Address{addr(1), addr(2)}, addr(3))
	require.NoError(t, err)

	calldata, err := rollup.PackCreateRollup(params)
	require.NoError(t, err)

	hash, err := client.SendContractTx(context.Background(), addr(0xfc), big.NewInt(0), calldata)
	require.NoError(t, err)

	event := rollup.FactoryABI().Events["RollupCreated"]
	data, err := event.Inputs.NonIndexed().Pack(
		addr(13), addr(14), addr(15), addr(16), addr(17),
		addr(18), addr(19), addr(20), addr(21), addr(22),
	)
	require.NoError(t, err)

	client.Receipts[hash] = &types.Receipt{
		Status: types.ReceiptStatusSuccessful,
		TxHash: hash,
		Logs: []*types.Log{
			{Topics: []common.Hash{common.HexToHash("0x01")}},
			{
				Topics: []common.Hash{
					event.ID,
					common.BytesToHash(addr(11).Bytes()),
					common.BytesToHash(addr(12).Bytes()),
				},
				Data: data,
			},
		},
	}

	return hash, plan
}

func TestDeriveRecoversDeployedConfiguration(t *testing.T) {
	client := chaintest.NewClient(addr(0xff))
	hash, plan := submitCreation(t, client, 412346)

	deriver := NewDeriver(client, logger.NewDefault())
	derived, err := deriver.Derive(context.Background(), hash, testKeys, testNetwork)
	require.NoError(t, err)

	// The recovered document is byte-identical to the submitted one.
	require.Equal(t, plan.ChainConfigDoc, derived.ChainConfigDoc)
	require.Equal(t, uint64(412346), derived.ChainConfig.ChainID.Uint64())

	require.Equal(t, addr(11), derived.CoreContracts.Rollup)
	require.Equal(t, addr(12), derived.CoreContracts.NativeToken)
	require.Equal(t, addr(13), derived.CoreContracts.Inbox)
	require.Equal(t, addr(20), derived.CoreContracts.SequencerInbox)
	require.Equal(t, addr(21), derived.CoreContracts.Bridge)

	require.Equal(t, testKeys, derived.Keys)
	require.Equal(t, testNetwork, derived.Network)
}

func TestDeriveRejectsForeignTransaction(t *testing.T) {
	client := chaintest.NewClient(addr(0xff))
	hash, err := client.SendContractTx(context.Background(), addr(0xfc), big.NewInt(0), []byte{0x01, 0x02, 0x03, 0x04})
	require.NoError(t, err)

	deriver := NewDeriver(client, logger.NewDefault())
	_, err = deriver.Derive(context.Background(), hash, testKeys, testNetwork)
	require.Error(t, err)
	require.True(t, apperrors.IsType(err, apperrors.DecodingError))
}

func TestDeriveRejectsReceiptWithoutEvent(t *testing.T) {
	client := chaintest.NewClient(addr(0xff))
	hash, _ := submitCreation(t, client, 412346)

	// Strip the factory event from the receipt.
	client.Receipts[hash] = &types.Receipt{Status: types.ReceiptStatusSuccessful, TxHash: hash}

	deriver := NewDeriver(client, logger.NewDefault())
	_, err := deriver.Derive(context.Background(), hash, testKeys, testNetwork)
	require.Error(t, err)
	require.True(t, apperrors.IsType(err, apperrors.DecodingError))
}

func TestDeriveUnknownHash(t *testing.T) {
	client := chaintest.NewClient(addr(0xff))

	deriver := NewDeriver(client, logger.NewDefault())
	_, err := deriver.Derive(context.Background(), common.HexToHash("0xbeef"), testKeys, testNetwork)
	require.Error(t, err)
	require.True(t, apperrors.IsType(err, apperrors.DecodingError))
}

func TestPrepareAndPersistNodeConfig(t *testing.T) {
	client := chaintest.NewClient(addr(0xff))
	hash, _ := submitCreation(t, client, 412346)

	deriver := NewDeriver(client, logger.NewDefault())
	derived, err := deriver.Derive(context.Background(), hash, testKeys, testNetwork)
	require.NoError(t, err)

	cfg, err := PrepareNodeConfig(derived)
	require.NoError(t, err)

	require.Equal(t, uint64(412346), cfg.Chain.ID)
	require.Equal(t, uint64(1337), cfg.ParentChain.ID)
	require.Equal(t, "http://localhost:8545", cfg.ParentChain.Connection.URL)
	require.True(t, cfg.Node.BatchPoster.Enable)
	require.Equal(t, "b0b0", cfg.Node.BatchPoster.ParentChainWallet.PrivateKey)
	require.Equal(t, "a1a1", cfg.Node.Staker.ParentChainWallet.PrivateKey)

	path := filepath.Join(t.TempDir(), "nodeConfig.json")
	require.NoError(t, cfg.Write(path))

	loaded, err := ReadArtifact(path)
	require.NoError(t, err)

	chainCfg, err := loaded.ChainConfig()
	require.NoError(t, err)
	require.Equal(t, uint64(412346), chainCfg.ChainID.Uint64())
}
