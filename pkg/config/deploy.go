package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DeployConfig holds the operator-supplied parameters for one rollup
// deployment run. Amounts are decimal strings in native units (ether).
type DeployConfig struct {
	ChainID                   uint64 `yaml:"chainId"`
	ParentChainID             uint64 `yaml:"parentChainId"`
	ParentChainRPC            string `yaml:"parentChainRpc"`
	FactoryAddress            string `yaml:"factoryAddress"`
	BaseStake                 string `yaml:"baseStake"`
	FundingAmount             string `yaml:"fundingAmount"`
	DataAvailabilityCommittee bool   `yaml:"dataAvailabilityCommittee"`
}

// LoadDeployConfig reads a deployment configuration from a YAML file.
func LoadDeployConfig(path string) (*DeployConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read deploy config: %w", err)
	}

	var cfg DeployConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse deploy config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the fields required before a run can start.
func (c *DeployConfig) Validate() error {
	if c.ParentChainRPC == "" {
		return fmt.Errorf("parentChainRpc is required")
	}
	if c.ParentChainID == 0 {
		return fmt.Errorf("parentChainId is required")
	}
	if c.FactoryAddress == "" {
		return fmt.Errorf("factoryAddress is required")
	}
	if c.BaseStake == "" {
		return fmt.Errorf("baseStake is required")
	}
	if c.FundingAmount == "" {
		return fmt.Errorf("fundingAmount is required")
	}
	return nil
}
