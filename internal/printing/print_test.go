package printing_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"tailor-console/internal/core"
	"tailor-console/internal/printing"
)

func sampleRows() []core.DeliveryRow {
	dec := decimal.RequireFromString
	return []core.DeliveryRow{
		{JobOrder: core.JobOrder{
			ID: 7, CustomerName: "Sarah Johnson", Status: core.StatusPending,
			DeliveryDate: time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC),
			TotalAmount:  dec("450.00"), AdvanceAmount: dec("150.00"),
			ReceivedAmount: dec("100.00"), BalanceAmount: dec("200.00"),
		}},
		{JobOrder: core.JobOrder{
			ID: 9, CustomerName: "Mike Chen", Status: core.StatusCompleted,
			DeliveryDate: time.Date(2024, 3, 16, 14, 0, 0, 0, time.UTC),
			TotalAmount:  dec("280.50"), BalanceAmount: dec("280.50"),
			IsBlocked:    true,
		}},
	}
}

func TestSaveDeliveryReport(t *testing.T) {
	rows := sampleRows()
	path, err := printing.SaveDeliveryReport(printing.DeliveryReport{
		Title:       "Monthly Delivery Report",
		CompanyName: "Golden Thread Tailoring",
		GeneratedAt: time.Date(2024, 3, 20, 9, 0, 0, 0, time.UTC),
		Rows:        rows,
		Totals:      core.GrandTotals(rows),
	})
	if err != nil {
		t.Fatalf("SaveDeliveryReport: %v", err)
	}
	t.Cleanup(func() { os.Remove(path) })

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	html := string(raw)

	for _, want := range []string{
		"Monthly Delivery Report",
		"Golden Thread Tailoring",
		"DEL-7",
		"DEL-9",
		"Sarah Johnson",
		"730.50", // grand total
		`class="blocked"`,
		"window.print()",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestExportDeliveryXLSX(t *testing.T) {
	rows := sampleRows()
	path := filepath.Join(t.TempDir(), "deliveries.xlsx")

	if err := printing.ExportDeliveryXLSX(path, rows); err != nil {
		t.Fatalf("ExportDeliveryXLSX: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	got, err := f.GetCellValue("Deliveries", "A2")
	if err != nil {
		t.Fatalf("GetCellValue: %v", err)
	}
	if got != "DEL-7" {
		t.Errorf("A2 = %q, want DEL-7", got)
	}

	total, err := f.GetCellValue("Deliveries", "F4")
	if err != nil {
		t.Fatalf("GetCellValue: %v", err)
	}
	if total != "730.5" {
		t.Errorf("totals cell = %q, want 730.5", total)
	}
}
