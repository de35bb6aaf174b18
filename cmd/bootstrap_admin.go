package cmd

import (
	"fmt"

	"github.com/psds-microservice/repair-service/internal/application"
	"github.com/psds-microservice/repair-service/internal/service"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var bootstrapAdminCmd = &cobra.Command{
	Use:   "bootstrap-admin",
	Short: "Create the default admin account if no admin exists",
	RunE:  runBootstrapAdmin,
}

func runBootstrapAdmin(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()
	st, err := application.OpenStore(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer st.Close()

	a, created, err := service.NewAdminService(st, log).Bootstrap(cmd.Context())
	if err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	if created {
		log.Info("bootstrap-admin: created", zap.String("email", a.Email))
		return nil
	}
	log.Info("bootstrap-admin: admin already exists, nothing to do",
		zap.String("admin_id", a.ID), zap.String("email", a.Email))
	return nil
}
