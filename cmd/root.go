package cmd

import (
	"fmt"

	"github.com/psds-microservice/repair-service/internal/config"
	"github.com/psds-microservice/repair-service/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:          "repair-service",
	Short:        "Repair shop API: orders, technicians, admin account",
	RunE:         runAPI,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(apiCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(bootstrapAdminCmd)
	rootCmd.AddCommand(exportOrdersCmd)
}

// setup загружает конфигурацию и строит логгер; общий для всех команд.
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}
	log, err := logger.New(cfg.LogLevel, cfg.AppEnv)
	if err != nil {
		return nil, nil, fmt.Errorf("logger: %w", err)
	}
	return cfg, log, nil
}
