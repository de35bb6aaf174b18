package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/psds-microservice/repair-service/internal/application"
	"github.com/psds-microservice/repair-service/internal/orderid"
	"github.com/psds-microservice/repair-service/internal/service"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var exportOrdersCmd = &cobra.Command{
	Use:   "export-orders",
	Short: "Write all orders to an xlsx file",
	RunE:  runExportOrders,
}

var exportOut string

func init() {
	exportOrdersCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default orders_<date>.xlsx)")
}

func runExportOrders(cmd *cobra.Command, args []string) error {
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

	out := exportOut
	if out == "" {
		out = fmt.Sprintf("orders_%s.xlsx", time.Now().Format("20060102_150405"))
	}
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create %s: %w", out, err)
	}
	defer f.Close()

	orders := service.NewOrderService(st, orderid.NewGenerator(), nil, log)
	n, err := orders.ExportXLSX(cmd.Context(), f)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	log.Info("export-orders: done", zap.String("file", out), zap.Int("orders", n))
	return nil
}
