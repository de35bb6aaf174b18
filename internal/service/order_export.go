package service

import (
	"context"
	"fmt"
	"io"

	"github.com/psds-microservice/repair-service/internal/model"
	"github.com/psds-microservice/repair-service/internal/store"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "Orders"

var exportHeaders = []interface{}{
	"ID", "Customer", "Phone", "Service", "Price", "Status",
	"Technician", "Scheduled", "Description", "Failure reason", "Created", "Updated",
}

// ExportXLSX пишет все заказы (от новых к старым) в xlsx-книгу.
func (s *OrderService) ExportXLSX(ctx context.Context, w io.Writer) (int, error) {
	orders, err := s.store.ListOrders(ctx, store.OrderFilter{})
	if err != nil {
		return 0, err
	}
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return 0, err
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeaders); err != nil {
		return 0, err
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = f.SetCellStyle(exportSheet, "A1", "L1", style)
	}
	for i := range orders {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return 0, err
		}
		row := exportRow(&orders[i])
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return 0, fmt.Errorf("row %d: %w", i+2, err)
		}
	}
	_ = f.SetColWidth(exportSheet, "B", "B", 25)
	_ = f.SetColWidth(exportSheet, "I", "J", 40)
	_ = f.SetColWidth(exportSheet, "K", "L", 20)
	if err := f.Write(w); err != nil {
		return 0, err
	}
	return len(orders), nil
}

func exportRow(o *model.Order) []interface{} {
	const dateFmt = "2006-01-02 15:04"
	scheduled := ""
	if o.ScheduledTime != nil {
		scheduled = fmt.Sprintf("%02d:%02d", o.ScheduledTime.Hour, o.ScheduledTime.Minute)
	}
	return []interface{}{
		o.ID, o.CustomerName, o.CustomerPhone, o.ServiceType, o.PriceOrZero(), string(o.Status),
		o.Technician, scheduled, o.Description, o.FailureReason,
		o.CreatedAt.Format(dateFmt), o.UpdatedAt.Format(dateFmt),
	}
}
