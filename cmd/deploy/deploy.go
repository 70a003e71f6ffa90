package deploy

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/chainlaunch/rolluplaunch/pkg/chain"
	"github.com/chainlaunch/rolluplaunch/pkg/config"
	"github.com/chainlaunch/rolluplaunch/pkg/db"
	"github.com/chainlaunch/rolluplaunch/pkg/deployments"
	"github.com/chainlaunch/rolluplaunch/pkg/logger"
	"github.com/chainlaunch/rolluplaunch/pkg/nodeconfig"
	"github.com/chainlaunch/rolluplaunch/pkg/orchestrator"
	"github.com/chainlaunch/rolluplaunch/pkg/rollup"
)

var (
	configPath    string
	rpcURL        string
	chainID       uint64
	parentChainID uint64
	factoryAddr   string
	baseStake     string
	fundingAmount string
	dacEnabled    bool
	artifactOut   string
	dataPath      string
)

// consoleReporter prints pipeline transitions as they happen.
type consoleReporter struct {
	logger *logger.Logger
}

func (r *consoleReporter) ReportState(update orchestrator.StateUpdate) {
	if update.Err != nil {
		r.logger.Error("Deployment state", "state", string(update.State), "error", update.Err)
		return
	}
	r.logger.Info("Deployment state", "state", string(update.State), "message", update.Message)
}

func buildConfig() (*config.DeployConfig, error) {
	if configPath != "" {
		return config.LoadDeployConfig(configPath)
	}
	return &config.DeployConfig{
		ChainID:                   chainID,
		ParentChainID:             parentChainID,
		ParentChainRPC:            rpcURL,
		FactoryAddress:            factoryAddr,
		BaseStake:                 baseStake,
		FundingAmount:             fundingAmount,
		DataAvailabilityCommittee: dacEnabled,
	}, nil
}

func run(cmd *cobra.Command, log *logger.Logger) error {
	ctx := cmd.Context()

	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	deployerKey := os.Getenv("DEPLOYER_PRIVATE_KEY")
	if deployerKey == "" {
		return fmt.Errorf("DEPLOYER_PRIVATE_KEY environment variable is required")
	}

	if !common.IsHexAddress(cfg.FactoryAddress) {
		return fmt.Errorf("invalid factory address: %s", cfg.FactoryAddress)
	}

	// A failed run is never resumed; each attempt gets a fresh chain id
	// unless the operator pinned one.
	id := cfg.ChainID
	if id == 0 {
		id, err = rollup.SuggestChainID()
		if err != nil {
			return fmt.Errorf("failed to suggest chain id: %w", err)
		}
		log.Info("Using suggested chain id", "chainId", id)
	}

	stake, err := chain.ParseEther(cfg.BaseStake)
	if err != nil {
		return fmt.Errorf("invalid baseStake: %w", err)
	}
	perAccount, err := chain.ParseEther(cfg.FundingAmount)
	if err != nil {
		return fmt.Errorf("invalid fundingAmount: %w", err)
	}

	if dataPath == "" {
		dataPath, err = config.DefaultDataPath()
		if err != nil {
			return err
		}
	}
	configService := config.NewConfigService(dataPath)

	dbPath, err := configService.GetDatabasePath()
	if err != nil {
		return err
	}
	database, err := db.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()
	if err := db.RunMigrations(database); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	recorder := deployments.NewService(db.New(database), log)

	out := artifactOut
	if out == "" {
		artifactsPath, err := configService.GetArtifactsPath()
		if err != nil {
			return err
		}
		out = filepath.Join(artifactsPath, fmt.Sprintf("nodeConfig-%d.json", id))
	}

	client, err := chain.Dial(ctx, cfg.ParentChainRPC, deployerKey, log)
	if err != nil {
		return err
	}

	orch := orchestrator.New(
		client,
		common.HexToAddress(cfg.FactoryAddress),
		&consoleReporter{logger: log},
		recorder,
		log,
	)

	result, err := orch.Run(ctx, orchestrator.Params{
		ChainID:       id,
		BaseStake:     stake,
		FundingAmount: perAccount,
		Network: nodeconfig.NetworkParams{
			ParentChainID:  cfg.ParentChainID,
			ParentChainRPC: cfg.ParentChainRPC,
		},
		ArtifactPath:              out,
		DataAvailabilityCommittee: cfg.DataAvailabilityCommittee,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Deployment succeeded\n")
	fmt.Printf("Run ID: %s\n", result.RunID)
	fmt.Printf("Chain ID: %d\n", result.ChainID)
	fmt.Printf("Transaction: %s\n", result.TransactionHash.Hex())
	fmt.Printf("Node config: %s\n", result.ArtifactPath)
	return nil
}

// Command returns the deploy command
func Command(log *logger.Logger) *cobra.Command {
	deployCmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy a rollup chain",
		Long: `Provision operator keys, fund them from the deployer account, submit the
rollup creation transaction to the factory and write the node configuration
artifact. The deployer key is read from DEPLOYER_PRIVATE_KEY.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, log)
		},
	}

	deployCmd.Flags().StringVar(&configPath, "config", "", "Path to a YAML deploy configuration (overrides the other flags)")
	deployCmd.Flags().StringVar(&rpcURL, "rpc", "", "Parent chain RPC endpoint")
	deployCmd.Flags().Uint64Var(&chainID, "chain-id", 0, "Chain id for the new rollup (suggested when omitted)")
	deployCmd.Flags().Uint64Var(&parentChainID, "parent-chain-id", 0, "Chain id of the parent chain")
	deployCmd.Flags().StringVar(&factoryAddr, "factory", "", "Address of the rollup creator factory contract")
	deployCmd.Flags().StringVar(&baseStake, "base-stake", "0.0001", "Validator base stake in ether")
	deployCmd.Flags().StringVar(&fundingAmount, "funding-amount", "0.001", "Amount in ether transferred to each operator account")
	deployCmd.Flags().BoolVar(&dacEnabled, "dac", false, "Enable the data availability committee (AnyTrust)")
	deployCmd.Flags().StringVar(&artifactOut, "out", "", "Path for the node configuration artifact")
	deployCmd.Flags().StringVar(&dataPath, "data", "", "Data directory (defaults to ~/.rolluplaunch)")

	return deployCmd
}
