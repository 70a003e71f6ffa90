package rollup

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Deployment parameter defaults. These track the factory version pinned in
// FactoryAddress and only change together with it.
var (
	defaultWasmModuleRoot            = [32]byte(common.HexToHash("0x8b104a2e80ac6165dc58b9048de12f301d70b02a0ab51396c22b4b4b802a16a4"))
	defaultMaxDataSize               = big.NewInt(104857)
	defaultMaxFeePerGasForRetryables = big.NewInt(100_000_000) // 0.1 gwei
	defaultConfirmPeriodBlocks       = uint64(150)
)

// DeploymentPlan fixes the operator-chosen inputs of one deployment
// attempt. ChainID and BaseStake never change within an attempt; a failed
// run restarts with a fresh plan.
type DeploymentPlan struct {
	ChainID        uint64
	OwnerAddress   common.Address
	BaseStake      *big.Int
	ChainConfigDoc string
}

// NewDeploymentPlan materializes the chain configuration document and fixes
// it together with the chain id and base stake.
func NewDeploymentPlan(chainID uint64, owner common.Address, baseStake *big.Int, dac bool) (*DeploymentPlan, error) {
	if chainID == 0 {
		return nil, fmt.Errorf("chain id is required")
	}
	if baseStake == nil || baseStake.Sign() <= 0 {
		return nil, fmt.Errorf("base stake must be positive")
	}

	doc, err := PrepareChainConfig(ChainConfigParams{
		ChainID:                   chainID,
		InitialChainOwner:         owner,
		DataAvailabilityCommittee: dac,
	}).Marshal()
	if err != nil {
		return nil, err
	}

	return &DeploymentPlan{
		ChainID:        chainID,
		OwnerAddress:   owner,
		BaseStake:      baseStake,
		ChainConfigDoc: doc,
	}, nil
}

// PrepareDeploymentParams builds the factory argument tuple from a plan and
// the operator set.
func PrepareDeploymentParams(plan *DeploymentPlan, validators []common.Address, batchPoster common.Address) (*DeploymentParams, error) {
	if len(validators) == 0 {
		return nil, fmt.Errorf("at least one validator is required")
	}
	if batchPoster == (common.Address{}) {
		return nil, fmt.Errorf("batch poster address is required")
	}

	return &DeploymentParams{
		Config: RollupConfig{
			ConfirmPeriodBlocks:      defaultConfirmPeriodBlocks,
			ExtraChallengeTimeBlocks: 0,
			StakeToken:               common.Address{},
			BaseStake:                plan.BaseStake,
			WasmModuleRoot:           defaultWasmModuleRoot,
			Owner:                    plan.OwnerAddress,
			LoserStakeEscrow:         common.Address{},
			ChainId:                  new(big.Int).SetUint64(plan.ChainID),
			ChainConfig:              plan.ChainConfigDoc,
			GenesisBlockNum:          0,
			SequencerInboxMaxTimeVariation: MaxTimeVariation{
				DelayBlocks:   big.NewInt(5760),
				FutureBlocks:  big.NewInt(48),
				DelaySeconds:  big.NewInt(86400),
				FutureSeconds: big.NewInt(3600),
			},
		},
		BatchPoster:               batchPoster,
		Validators:                validators,
		MaxDataSize:               defaultMaxDataSize,
		NativeToken:               common.Address{},
		DeployFactoriesToL2:       false,
		MaxFeePerGasForRetryables: defaultMaxFeePerGasForRetryables,
	}, nil
}
