package deployments

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chainlaunch/rolluplaunch/pkg/config"
	"github.com/chainlaunch/rolluplaunch/pkg/db"
	deploymentsservice "github.com/chainlaunch/rolluplaunch/pkg/deployments"
	"github.com/chainlaunch/rolluplaunch/pkg/logger"
)

var dataPath string

func openService(log *logger.Logger) (*deploymentsservice.Service, func(), error) {
	path := dataPath
	var err error
	if path == "" {
		path, err = config.DefaultDataPath()
		if err != nil {
			return nil, nil, err
		}
	}
	dbPath, err := config.NewConfigService(path).GetDatabasePath()
	if err != nil {
		return nil, nil, err
	}
	database, err := db.Open(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.RunMigrations(database); err != nil {
		database.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	service := deploymentsservice.NewService(db.New(database), log)
	return service, func() { database.Close() }, nil
}

// Command returns the deployments command
func Command(log *logger.Logger) *cobra.Command {
	deploymentsCmd := &cobra.Command{
		Use:   "deployments",
		Short: "Inspect recorded deployment runs",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded deployment runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			service, closeDB, err := openService(log)
			if err != nil {
				return err
			}
			defer closeDB()

			runs, err := service.List(cmd.Context())
			if err != nil {
				return err
			}

			if len(runs) == 0 {
				fmt.Println("No deployment runs recorded")
				return nil
			}
			for _, run := range runs {
				fmt.Printf("%s  chain=%d  status=%s  state=%s  %s\n",
					run.ID, run.ChainID, run.Status, run.State,
					run.CreatedAt.Format("2006-01-02 15:04:05"))
			}
			return nil
		},
	}

	getCmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one deployment run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, closeDB, err := openService(log)
			if err != nil {
				return err
			}
			defer closeDB()

			run, err := service.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Printf("ID: %s\n", run.ID)
			fmt.Printf("Chain ID: %d\n", run.ChainID)
			fmt.Printf("Status: %s\n", run.Status)
			fmt.Printf("State: %s\n", run.State)
			if run.TxHash.Valid {
				fmt.Printf("Transaction: %s\n", run.TxHash.String)
			}
			if run.ArtifactPath.Valid {
				fmt.Printf("Node config: %s\n", run.ArtifactPath.String)
			}
			if run.Message.Valid {
				fmt.Printf("Message: %s\n", run.Message.String)
			}
			return nil
		},
	}

	deploymentsCmd.AddCommand(listCmd)
	deploymentsCmd.AddCommand(getCmd)

	deploymentsCmd.PersistentFlags().StringVar(&dataPath, "data", "", "Data directory (defaults to ~/.rolluplaunch)")
	return deploymentsCmd
}
