/*
Copyright © 2025 ChainLaunch <dviejo@chainlaunch.dev>
*/
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/chainlaunch/rolluplaunch/cmd/deploy"
	"github.com/chainlaunch/rolluplaunch/cmd/deployments"
	"github.com/chainlaunch/rolluplaunch/cmd/keys"
	"github.com/chainlaunch/rolluplaunch/cmd/serve"
	"github.com/chainlaunch/rolluplaunch/cmd/version"
	"github.com/chainlaunch/rolluplaunch/pkg/logger"
)

func NewRootCmd() *cobra.Command {
	logger := logger.NewDefault()
	rootCmd := &cobra.Command{
		Use:   "rolluplaunch",
		Short: "A rollup chain deployment orchestrator",
		Long:  `rolluplaunch provisions operator keys, funds them, deploys a rollup chain through an on-chain factory and derives the node configuration.`,
	}

	rootCmd.AddCommand(deploy.Command(logger))
	rootCmd.AddCommand(keys.Command(logger))
	rootCmd.AddCommand(deployments.Command(logger))
	rootCmd.AddCommand(serve.Command(logger))
	rootCmd.AddCommand(version.NewVersionCmd())
	return rootCmd
}
