package cmd

import (
	"fmt"

	"github.com/psds-microservice/repair-service/internal/config"
	"github.com/psds-microservice/repair-service/internal/database"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations (postgres only)",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE:  runMigrateUp,
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd)
}

func runMigrateUp(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()
	if cfg.StoreDriver != config.StorePostgres {
		return fmt.Errorf("migrate: STORE_DRIVER=%s has no migrations", cfg.StoreDriver)
	}
	if err := database.MigrateUp(cmd.Context(), cfg.DatabaseURL(), log); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
