package serve

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/cobra"

	"github.com/chainlaunch/rolluplaunch/pkg/accounts"
	accountshttp "github.com/chainlaunch/rolluplaunch/pkg/accounts/http"
	"github.com/chainlaunch/rolluplaunch/pkg/config"
	"github.com/chainlaunch/rolluplaunch/pkg/db"
	"github.com/chainlaunch/rolluplaunch/pkg/deployments"
	deploymentshttp "github.com/chainlaunch/rolluplaunch/pkg/deployments/http"
	"github.com/chainlaunch/rolluplaunch/pkg/logger"
	"github.com/chainlaunch/rolluplaunch/pkg/nodes"
	nodeshttp "github.com/chainlaunch/rolluplaunch/pkg/nodes/http"
)

var (
	port     int
	dataPath string
)

func newRouter(deploymentsService *deployments.Service, registry *nodes.Registry, provisioner *accounts.Provisioner) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api/v1", func(r chi.Router) {
		deploymentshttp.NewHandler(deploymentsService).RegisterRoutes(r)
		nodeshttp.NewHandler(registry).RegisterRoutes(r)
		accountshttp.NewKeysHandler(provisioner).RegisterRoutes(r)
	})

	return r
}

// Command returns the serve command
func Command(log *logger.Logger) *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long: `Start the HTTP API server on the specified port.
For example:
  rolluplaunch serve --port 8100`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := dataPath
			var err error
			if path == "" {
				path, err = config.DefaultDataPath()
				if err != nil {
					return err
				}
			}
			configService := config.NewConfigService(path)

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

			deploymentsService := deployments.NewService(db.New(database), log)
			registry := nodes.NewRegistry(log)
			provisioner := accounts.NewProvisioner(log)

			router := newRouter(deploymentsService, registry, provisioner)

			addr := fmt.Sprintf(":%d", port)
			log.Info("Starting server", "addr", addr, "database", dbPath)
			return http.ListenAndServe(addr, router)
		},
	}

	serveCmd.Flags().IntVar(&port, "port", 8100, "Port to run the server on")
	serveCmd.Flags().StringVar(&dataPath, "data", "", "Data directory (defaults to ~/.rolluplaunch)")
	return serveCmd
}
