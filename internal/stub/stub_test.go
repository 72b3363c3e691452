package stub_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"tailor-console/internal/api"
	"tailor-console/internal/core"
	"tailor-console/internal/stub"
)

func newClient(t *testing.T) *api.Client {
	t.Helper()
	srv := httptest.NewServer(stub.New(stub.Options{Quiet: true}))
	t.Cleanup(srv.Close)

	client := api.New(api.Config{BaseURL: srv.URL, Store: &api.MemoryTokenStore{}})
	if _, err := client.Auth.Login(context.Background(), "admin@tailor.local", "admin"); err != nil {
		t.Fatalf("login: %v", err)
	}
	return client
}

func rowByCustomer(t *testing.T, rows []core.DeliveryRow, name string) core.DeliveryRow {
	t.Helper()
	for _, r := range rows {
		if r.CustomerName == name {
			return r
		}
	}
	t.Fatalf("no row for customer %q in %d rows", name, len(rows))
	return core.DeliveryRow{}
}

func TestDeliveriesDefaultViewHidesBlocked(t *testing.T) {
	client := newClient(t)
	ctx := context.Background()

	rows, err := client.JobOrders.Deliveries(ctx, api.DeliveryFilter{})
	if err != nil {
		t.Fatalf("deliveries: %v", err)
	}
	for _, r := range rows {
		if r.IsBlocked {
			t.Errorf("blocked row %s in unblocked view", r.DisplayID())
		}
	}

	blocked, err := client.JobOrders.Deliveries(ctx, api.DeliveryFilter{Blocked: api.BlockedOnly})
	if err != nil {
		t.Fatalf("blocked deliveries: %v", err)
	}
	if len(blocked) == 0 {
		t.Fatal("expected seeded blocked rows")
	}
}

// Toggling the block flag moves the row between the unblocked and
// blocked views on the next fetch.
func TestToggleBlockMovesRowBetweenViews(t *testing.T) {
	client := newClient(t)
	ctx := context.Background()

	rows, err := client.JobOrders.Deliveries(ctx, api.DeliveryFilter{})
	if err != nil {
		t.Fatalf("deliveries: %v", err)
	}
	target := rowByCustomer(t, rows, "Sarah Johnson")

	updated, err := client.JobOrders.ToggleBlock(ctx, target.ID)
	if err != nil {
		t.Fatalf("toggle block: %v", err)
	}
	if !updated.IsBlocked {
		t.Fatal("row should be blocked after toggle")
	}

	rows, err = client.JobOrders.Deliveries(ctx, api.DeliveryFilter{})
	if err != nil {
		t.Fatalf("deliveries after toggle: %v", err)
	}
	for _, r := range rows {
		if r.ID == target.ID {
			t.Error("blocked row still visible in unblocked view")
		}
	}

	blocked, err := client.JobOrders.Deliveries(ctx, api.DeliveryFilter{Blocked: api.BlockedOnly})
	if err != nil {
		t.Fatalf("blocked view: %v", err)
	}
	found := false
	for _, r := range blocked {
		if r.ID == target.ID {
			found = true
		}
	}
	if !found {
		t.Error("toggled row missing from blocked view")
	}
}

func TestUpdateDeliveryRecomputesBalance(t *testing.T) {
	client := newClient(t)
	ctx := context.Background()

	rows, err := client.JobOrders.Deliveries(ctx, api.DeliveryFilter{})
	if err != nil {
		t.Fatalf("deliveries: %v", err)
	}
	// total 450.00, advance 150.00
	target := rowByCustomer(t, rows, "Sarah Johnson")

	updated, err := client.JobOrders.UpdateDelivery(ctx, target.ID,
		decimal.RequireFromString("100.00"), target.Status)
	if err != nil {
		t.Fatalf("update delivery: %v", err)
	}

	wantBalance := decimal.RequireFromString("200.00")
	if !updated.BalanceAmount.Equal(wantBalance) {
		t.Errorf("balance = %s, want %s", updated.BalanceAmount, wantBalance)
	}
	if !updated.ReceivedAmount.Equal(decimal.RequireFromString("100.00")) {
		t.Errorf("received = %s, want 100.00", updated.ReceivedAmount)
	}
}

// A date-only reschedule keeps the original time of day when the caller
// goes through MergeDeliveryDate.
func TestSchedulePreservesTimeOfDay(t *testing.T) {
	client := newClient(t)
	ctx := context.Background()

	rows, err := client.JobOrders.Deliveries(ctx, api.DeliveryFilter{})
	if err != nil {
		t.Fatalf("deliveries: %v", err)
	}
	target := rowByCustomer(t, rows, "Sarah Johnson")

	when, err := core.MergeDeliveryDate(target.DeliveryDate, "2028-12-01")
	if err != nil {
		t.Fatalf("merge date: %v", err)
	}
	updated, err := client.JobOrders.ScheduleDelivery(ctx, target.ID, when)
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}

	y, m, d := updated.DeliveryDate.Date()
	if y != 2028 || m != time.December || d != 1 {
		t.Errorf("date = %v, want 2028-12-01", updated.DeliveryDate)
	}
	wantH, wantM, wantS := target.DeliveryDate.Clock()
	gotH, gotM, gotS := updated.DeliveryDate.Clock()
	if gotH != wantH || gotM != wantM || gotS != wantS {
		t.Errorf("time of day = %02d:%02d:%02d, want %02d:%02d:%02d",
			gotH, gotM, gotS, wantH, wantM, wantS)
	}
}

func TestUpdateStatusTransitions(t *testing.T) {
	client := newClient(t)
	ctx := context.Background()

	rows, err := client.JobOrders.Deliveries(ctx, api.DeliveryFilter{})
	if err != nil {
		t.Fatalf("deliveries: %v", err)
	}
	target := rows[0]

	updated, err := client.JobOrders.UpdateStatus(ctx, target.ID, core.StatusDelivered)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if updated.Status != core.StatusDelivered {
		t.Errorf("status = %s", updated.Status)
	}
}

func TestSearchAndStatusFilters(t *testing.T) {
	client := newClient(t)
	ctx := context.Background()

	rows, err := client.JobOrders.Deliveries(ctx, api.DeliveryFilter{Search: "sarah"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(rows) != 1 || rows[0].CustomerName != "Sarah Johnson" {
		t.Errorf("search result = %+v", rows)
	}

	rows, err = client.JobOrders.Deliveries(ctx, api.DeliveryFilter{Status: core.StatusInProgress})
	if err != nil {
		t.Fatalf("status filter: %v", err)
	}
	for _, r := range rows {
		if r.Status != core.StatusInProgress {
			t.Errorf("unexpected status %s", r.Status)
		}
	}
}

// The reports view loads the receipt summary on every entry, so the
// stub has to serve it for the whole date range and for a window that
// excludes everything.
func TestReceiptSummary(t *testing.T) {
	client := newClient(t)
	ctx := context.Background()

	rows, err := client.JobOrders.Deliveries(ctx, api.DeliveryFilter{})
	if err != nil {
		t.Fatalf("deliveries: %v", err)
	}
	for _, amount := range []string{"40.00", "60.00"} {
		_, err := client.Receipts.Create(ctx, api.CreateReceiptRequest{
			ReceiptDate:   time.Now(),
			ReceiptAmount: decimal.RequireFromString(amount),
			JobOrder:      rows[0].ID,
		})
		if err != nil {
			t.Fatalf("create receipt: %v", err)
		}
	}

	sum, err := client.Receipts.Summary(ctx, time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.Count != 2 {
		t.Errorf("count = %d, want 2", sum.Count)
	}
	if !sum.TotalAmount.Equal(decimal.RequireFromString("100.00")) {
		t.Errorf("total = %s, want 100.00", sum.TotalAmount)
	}

	// a window in the past matches nothing
	from := time.Now().AddDate(-1, 0, 0)
	to := from.AddDate(0, 0, 1)
	sum, err = client.Receipts.Summary(ctx, from, to)
	if err != nil {
		t.Fatalf("summary with range: %v", err)
	}
	if sum.Count != 0 || !sum.TotalAmount.IsZero() {
		t.Errorf("past window summary = %+v, want empty", sum)
	}
}

func TestSetDefaultCompanyConflicts(t *testing.T) {
	client := newClient(t)
	ctx := context.Background()

	// Company 1 is seeded as default, so promoting company 2 conflicts.
	_, err := client.Companies.SetDefault(ctx, 2)
	if err == nil {
		t.Fatal("expected conflict")
	}
	var apiErr *api.Error
	if !errors.As(err, &apiErr) || !apiErr.IsConflict() {
		t.Errorf("err = %v, want conflict", err)
	}
}

func TestCreateReceiptValidatesJobOrder(t *testing.T) {
	client := newClient(t)
	ctx := context.Background()

	_, err := client.Receipts.Create(ctx, api.CreateReceiptRequest{
		ReceiptDate:   time.Now(),
		ReceiptAmount: decimal.RequireFromString("50.00"),
		JobOrder:      9999,
	})
	if err == nil {
		t.Fatal("expected validation error")
	}
	var apiErr *api.Error
	if !errors.As(err, &apiErr) || !apiErr.IsValidation() {
		t.Errorf("err = %v, want field validation error", err)
	}

	rows, err := client.JobOrders.Deliveries(ctx, api.DeliveryFilter{})
	if err != nil {
		t.Fatalf("deliveries: %v", err)
	}
	receipt, err := client.Receipts.Create(ctx, api.CreateReceiptRequest{
		ReceiptDate:   time.Now(),
		ReceiptAmount: decimal.RequireFromString("50.00"),
		Remarks:       "advance top-up",
		JobOrder:      rows[0].ID,
	})
	if err != nil {
		t.Fatalf("create receipt: %v", err)
	}
	if receipt.ReceiptID == "" {
		t.Error("receipt id not assigned")
	}
}
