package printing

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"tailor-console/internal/core"
)

var xlsxHeaders = []string{
	"ID", "Customer", "Phone", "Status", "Delivery date",
	"Total", "Advance", "Received", "Balance",
}

// ExportDeliveryXLSX writes the delivery rows to an xlsx workbook with
// a totals row at the bottom. Amounts are written as floats so the
// spreadsheet can aggregate them.
func ExportDeliveryXLSX(path string, rows []core.DeliveryRow) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Deliveries"
	f.SetSheetName("Sheet1", sheet)

	for col, header := range xlsxHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return err
		}
	}

	for i, row := range rows {
		values := []any{
			row.DisplayID(),
			row.CustomerName,
			row.CustomerPhone,
			string(row.Status),
			row.DeliveryDate.Format("2006-01-02"),
			row.TotalAmount.InexactFloat64(),
			row.AdvanceAmount.InexactFloat64(),
			row.ReceivedAmount.InexactFloat64(),
			row.BalanceAmount.InexactFloat64(),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}

	totals := core.GrandTotals(rows)
	totalRow := len(rows) + 2
	totalValues := map[int]any{
		1: fmt.Sprintf("%d orders", len(rows)),
		6: totals.Total.InexactFloat64(),
		7: totals.Advance.InexactFloat64(),
		8: totals.Received.InexactFloat64(),
		9: totals.Balance.InexactFloat64(),
	}
	for col, v := range totalValues {
		cell, err := excelize.CoordinatesToCellName(col, totalRow)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(sheet, "A", "E", 18); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "F", "I", 12); err != nil {
		return err
	}
	return f.SaveAs(path)
}
