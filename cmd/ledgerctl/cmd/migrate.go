package cmd

import (
	"fmt"
	"log/slog"

	"github.com/SscSPs/ledger_engine/internal/platform/config"
	"github.com/SscSPs/ledger_engine/pkg/database"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if cfg.DatabaseURL == "" {
			return fmt.Errorf("PGSQL_URL is not set")
		}
		return database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, slog.Default())
	},
}
