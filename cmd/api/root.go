package main

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"go-todo-lists/internal/config"
	"go-todo-lists/internal/database"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "todo-api",
		Short: "Multi-user to-do list server",
		Long: `Serves the to-do list web application.

Configuration is read from flags, environment variables and an optional .env
file, in that order of precedence. Running without a subcommand starts the server.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("addr", ":8080", "address to listen on")
	flags.String("app-env", "development", "application environment (development|production)")
	flags.String("db-driver", database.DriverSQLite, "database driver (mysql|sqlite)")
	flags.String("db-dsn", "", "database DSN (built from DB_* variables for mysql when empty)")

	rootCmd.AddCommand(newServeCmd(), newMigrateCmd(), newSeedCmd())
	return rootCmd
}

// loadConfig は設定を読み込んで検証します。
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.InsecureSecret {
		log.Printf("WARNING: SECRET_KEY is not set; sessions are signed with the insecure default key")
	}
	return cfg, nil
}

// openDatabase は接続してマイグレーションを適用します。
func openDatabase(ctx context.Context, cfg *config.Config) (*database.DB, error) {
	db, err := database.Open(ctx, cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Println("Database migrations completed")
	return db, nil
}
