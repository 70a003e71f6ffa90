package rollup

import (
	"bytes"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// rollupCreatorABI is the subset of the rollup factory interface this tool
// interacts with: the creation entrypoint and the event announcing the core
// contracts it instantiated.
const rollupCreatorABI = `[
  {
    "type": "function",
    "name": "createRollup",
    "stateMutability": "payable",
    "inputs": [
      {
        "name": "deployment",
        "type": "tuple",
        "components": [
          {
            "name": "config",
            "type": "tuple",
            "components": [
              {"name": "confirmPeriodBlocks", "type": "uint64"},
              {"name": "extraChallengeTimeBlocks", "type": "uint64"},
              {"name": "stakeToken", "type": "address"},
              {"name": "baseStake", "type": "uint256"},
              {"name": "wasmModuleRoot", "type": "bytes32"},
              {"name": "owner", "type": "address"},
              {"name": "loserStakeEscrow", "type": "address"},
              {"name": "chainId", "type": "uint256"},
              {"name": "chainConfig", "type": "string"},
              {"name": "genesisBlockNum", "type": "uint64"},
              {
                "name": "sequencerInboxMaxTimeVariation",
                "type": "tuple",
                "components": [
                  {"name": "delayBlocks", "type": "uint256"},
                  {"name": "futureBlocks", "type": "uint256"},
                  {"name": "delaySeconds", "type": "uint256"},
                  {"name": "futureSeconds", "type": "uint256"}
                ]
              }
            ]
          },
          {"name": "batchPoster", "type": "address"},
          {"name": "validators", "type": "address[]"},
          {"name": "maxDataSize", "type": "uint256"},
          {"name": "nativeToken", "type": "address"},
          {"name": "deployFactoriesToL2", "type": "bool"},
          {"name": "maxFeePerGasForRetryables", "type": "uint256"}
        ]
      }
    ],
    "outputs": []
  },
  {
    "type": "event",
    "name": "RollupCreated",
    "inputs": [
      {"name": "rollupAddress", "type": "address", "indexed": true},
      {"name": "nativeToken", "type": "address", "indexed": true},
      {"name": "inboxAddress", "type": "address", "indexed": false},
      {"name": "outbox", "type": "address", "indexed": false},
      {"name": "rollupEventInbox", "type": "address", "indexed": false},
      {"name": "challengeManager", "type": "address", "indexed": false},
      {"name": "adminProxy", "type": "address", "indexed": false},
      {"name": "sequencerInbox", "type": "address", "indexed": false},
      {"name": "bridge", "type": "address", "indexed": false},
      {"name": "upgradeExecutor", "type": "address", "indexed": false},
      {"name": "validatorUtils", "type": "address", "indexed": false},
      {"name": "validatorWalletCreator", "type": "address", "indexed": false}
    ]
  }
]`

var factoryABI abi.ABI

func init() {
	parsed, err := abi.JSON(strings.NewReader(rollupCreatorABI))
	if err != nil {
		panic(fmt.Sprintf("invalid rollup creator ABI: %v", err))
	}
	factoryABI = parsed
}

// FactoryABI exposes the parsed factory interface, mainly so tests can
// build receipt fixtures with the real event layout.
func FactoryABI() abi.ABI {
	return factoryABI
}

// MaxTimeVariation bounds how far the sequencer inbox may reorder batches.
type MaxTimeVariation struct {
	DelayBlocks   *big.Int
	FutureBlocks  *big.Int
	DelaySeconds  *big.Int
	FutureSeconds *big.Int
}

// RollupConfig is the factory's Config tuple.
type RollupConfig struct {
	ConfirmPeriodBlocks            uint64
	ExtraChallengeTimeBlocks       uint64
	StakeToken                     common.Address
	BaseStake                      *big.Int
	WasmModuleRoot                 [32]byte
	Owner                          common.Address
	LoserStakeEscrow               common.Address
	ChainId                        *big.Int
	ChainConfig                    string
	GenesisBlockNum                uint64
	SequencerInboxMaxTimeVariation MaxTimeVariation
}

// DeploymentParams is the full createRollup argument tuple.
type DeploymentParams struct {
	Config                    RollupConfig
	BatchPoster               common.Address
	Validators                []common.Address
	MaxDataSize               *big.Int
	NativeToken               common.Address
	DeployFactoriesToL2       bool
	MaxFeePerGasForRetryables *big.Int
}

// CoreContracts are the base-chain contracts instantiated for one rollup,
// labeled by role.
type CoreContracts struct {
	Rollup                 common.Address `json:"rollup"`
	NativeToken            common.Address `json:"nativeToken"`
	Inbox                  common.Address `json:"inbox"`
	Outbox                 common.Address `json:"outbox"`
	RollupEventInbox       common.Address `json:"rollupEventInbox"`
	ChallengeManager       common.Address `json:"challengeManager"`
	AdminProxy             common.Address `json:"adminProxy"`
	SequencerInbox         common.Address `json:"sequencerInbox"`
	Bridge                 common.Address `json:"bridge"`
	UpgradeExecutor        common.Address `json:"upgradeExecutor"`
	ValidatorUtils         common.Address `json:"validatorUtils"`
	ValidatorWalletCreator common.Address `json:"validatorWalletCreator"`
}

// rollupCreatedEvent matches the non-indexed portion of RollupCreated.
type rollupCreatedEvent struct {
	InboxAddress           common.Address
	Outbox                 common.Address
	RollupEventInbox       common.Address
	ChallengeManager       common.Address
	AdminProxy             common.Address
	SequencerInbox         common.Address
	Bridge                 common.Address
	UpgradeExecutor        common.Address
	ValidatorUtils         common.Address
	ValidatorWalletCreator common.Address
}

// PackCreateRollup encodes the createRollup calldata.
func PackCreateRollup(params *DeploymentParams) ([]byte, error) {
	data, err := factoryABI.Pack("createRollup", *params)
	if err != nil {
		return nil, fmt.Errorf("failed to encode createRollup calldata: %w", err)
	}
	return data, nil
}

// UnpackCreateRollup decodes createRollup calldata back into deployment
// parameters. A selector or layout mismatch means the transaction is not a
// rollup creation of a supported factory version.
func UnpackCreateRollup(calldata []byte) (*DeploymentParams, error) {
	method := factoryABI.Methods["createRollup"]
	if len(calldata) < 4 || !bytes.Equal(calldata[:4], method.ID) {
		return nil, fmt.Errorf("calldata does not start with the createRollup selector")
	}

	values, err := method.Inputs.Unpack(calldata[4:])
	if err != nil {
		return nil, fmt.Errorf("failed to decode createRollup calldata: %w", err)
	}
	if len(values) != 1 {
		return nil, fmt.Errorf("unexpected createRollup argument count: %d", len(values))
	}

	out := abi.ConvertType(values[0], new(DeploymentParams)).(*DeploymentParams)
	return out, nil
}

// ParseRollupCreated extracts the core-contract addresses from a receipt.
// The event is located by its topic regardless of log position; only the
// logs of the factory emitting the known shape are considered.
func ParseRollupCreated(receipt *types.Receipt) (*CoreContracts, error) {
	event := factoryABI.Events["RollupCreated"]

	for _, lg := range receipt.Logs {
		if len(lg.Topics) != 3 || lg.Topics[0] != event.ID {
			continue
		}

		var decoded rollupCreatedEvent
		if err := factoryABI.UnpackIntoInterface(&decoded, "RollupCreated", lg.Data); err != nil {
			return nil, fmt.Errorf("failed to decode RollupCreated event: %w", err)
		}

		return &CoreContracts{
			Rollup:                 common.BytesToAddress(lg.Topics[1].Bytes()),
			NativeToken:            common.BytesToAddress(lg.Topics[2].Bytes()),
			Inbox:                  decoded.InboxAddress,
			Outbox:                 decoded.Outbox,
			RollupEventInbox:       decoded.RollupEventInbox,
			ChallengeManager:       decoded.ChallengeManager,
			AdminProxy:             decoded.AdminProxy,
			SequencerInbox:         decoded.SequencerInbox,
			Bridge:                 decoded.Bridge,
			UpgradeExecutor:        decoded.UpgradeExecutor,
			ValidatorUtils:         decoded.ValidatorUtils,
			ValidatorWalletCreator: decoded.ValidatorWalletCreator,
		}, nil
	}

	return nil, fmt.Errorf("receipt carries no RollupCreated event")
}
