package keys

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chainlaunch/rolluplaunch/pkg/accounts"
	"github.com/chainlaunch/rolluplaunch/pkg/logger"
)

var outputPath string

type keyfileEntry struct {
	Role       string `json:"role"`
	Address    string `json:"address"`
	PrivateKey string `json:"privateKey"`
}

// Command returns the keys command
func Command(log *logger.Logger) *cobra.Command {
	keysCmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage operator keys",
	}

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a fresh operator account set",
		Long: `Generate two validator accounts and one batch poster account. Keys are
printed once and not stored anywhere unless --out is given; the caller
owns them.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			provisioner := accounts.NewProvisioner(log)
			provisioned, err := provisioner.Provision(accounts.DefaultRoles)
			if err != nil {
				return err
			}

			for _, account := range provisioned {
				fmt.Printf("%-13s %s %s\n", account.Role, account.Address.Hex(), account.PrivateKey)
			}

			if outputPath == "" {
				return nil
			}
			entries := make([]keyfileEntry, 0, len(provisioned))
			for _, account := range provisioned {
				entries = append(entries, keyfileEntry{
					Role:       string(account.Role),
					Address:    account.Address.Hex(),
					PrivateKey: account.PrivateKey,
				})
			}
			data, err := json.MarshalIndent(entries, "", "  ")
			if err != nil {
				return err
			}
			if err := os.WriteFile(outputPath, data, 0600); err != nil {
				return fmt.Errorf("failed to write keyfile: %w", err)
			}
			fmt.Printf("Keyfile written to %s\n", outputPath)
			return nil
		},
	}
	generateCmd.Flags().StringVar(&outputPath, "out", "", "Write the generated accounts to a JSON keyfile")

	keysCmd.AddCommand(generateCmd)
	return keysCmd
}
