package core_test

import (
	"testing"
	"time"

	"tailor-console/internal/core"

	"github.com/shopspring/decimal"
)

func TestMergeDeliveryDate_PreservesTimeOfDay(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Dubai")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	original := time.Date(2024, 1, 25, 14, 35, 52, 0, loc)

	merged, err := core.MergeDeliveryDate(original, "2024-03-02")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if merged.Year() != 2024 || merged.Month() != time.March || merged.Day() != 2 {
		t.Errorf("date component not replaced: got %v", merged)
	}
	if merged.Hour() != 14 || merged.Minute() != 35 || merged.Second() != 52 {
		t.Errorf("time of day changed: got %v", merged)
	}
	if merged.Location() != loc {
		t.Errorf("location changed: got %v", merged.Location())
	}
}

func TestMergeDeliveryDate_RoundTrip(t *testing.T) {
	original, _ := time.Parse(time.RFC3339, "2024-01-25T09:30:15Z")

	// Replacing the date with the original's own date must be a no-op.
	merged, err := core.MergeDeliveryDate(original, original.Format("2006-01-02"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !merged.Equal(original) {
		t.Errorf("round trip changed the timestamp: %v != %v", merged, original)
	}
}

func TestMergeDeliveryDate_InvalidInput(t *testing.T) {
	if _, err := core.MergeDeliveryDate(time.Now(), "25/01/2024"); err == nil {
		t.Error("expected error for non-ISO date, got nil")
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"150.755", "150.755"},
		{" 42.50 ", "42.5"},
		{"0", "0"},
		{"abc", "0"},
		{"", "0"},
		{"12,5", "0"},
	}
	for _, tt := range tests {
		got := core.ParseAmount(tt.in)
		if got.String() != tt.want {
			t.Errorf("ParseAmount(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestGrandTotals(t *testing.T) {
	rows := []core.DeliveryRow{
		{JobOrder: core.JobOrder{
			TotalAmount:    decimal.RequireFromString("100.50"),
			AdvanceAmount:  decimal.RequireFromString("40"),
			ReceivedAmount: decimal.RequireFromString("10.25"),
			BalanceAmount:  decimal.RequireFromString("50.25"),
		}},
		{JobOrder: core.JobOrder{
			TotalAmount:   decimal.RequireFromString("99.50"),
			BalanceAmount: decimal.RequireFromString("99.50"),
			// Advance and Received left at their zero values, which
			// must count as 0 in the fold.
		}},
	}

	totals := core.GrandTotals(rows)
	if got := totals.Total.String(); got != "200" {
		t.Errorf("total = %s, want 200", got)
	}
	if got := totals.Advance.String(); got != "40" {
		t.Errorf("advance = %s, want 40", got)
	}
	if got := totals.Received.String(); got != "10.25" {
		t.Errorf("received = %s, want 10.25", got)
	}
	if got := totals.Balance.String(); got != "149.75" {
		t.Errorf("balance = %s, want 149.75", got)
	}
}

func TestGrandTotals_Empty(t *testing.T) {
	totals := core.GrandTotals(nil)
	if !totals.Total.IsZero() || !totals.Balance.IsZero() {
		t.Errorf("empty fold should be all zero, got %+v", totals)
	}
}

func TestDeliveryRow_MatchesSearch(t *testing.T) {
	row := core.DeliveryRow{JobOrder: core.JobOrder{
		ID:             17,
		JobOrderNumber: "JO-2024-0017",
		CustomerName:   "Sarah Johnson",
	}}

	tests := []struct {
		query string
		want  bool
	}{
		{"", true},
		{"sarah", true},
		{"JOHNSON", true},
		{"del-17", true},
		{"jo-2024", true},
		{"nobody", false},
	}
	for _, tt := range tests {
		if got := row.MatchesSearch(tt.query); got != tt.want {
			t.Errorf("MatchesSearch(%q) = %v, want %v", tt.query, got, tt.want)
		}
	}
}

func TestFilterRows(t *testing.T) {
	rows := []core.DeliveryRow{
		{JobOrder: core.JobOrder{ID: 1, CustomerName: "Sarah Johnson"}},
		{JobOrder: core.JobOrder{ID: 2, CustomerName: "Mike Chen"}},
	}
	out := core.FilterRows(rows, "mike")
	if len(out) != 1 || out[0].ID != 2 {
		t.Errorf("expected only row 2, got %+v", out)
	}
	if got := core.FilterRows(rows, ""); len(got) != 2 {
		t.Errorf("empty query must keep all rows, got %d", len(got))
	}
}

func TestEditSession_SingleCellInvariant(t *testing.T) {
	var s core.EditSession
	if s.Active() {
		t.Fatal("zero session must be idle")
	}

	s.Begin(1, core.FieldReceivedAmount, "10")
	if !s.Is(1, core.FieldReceivedAmount) {
		t.Error("expected row 1 received_amount to be editing")
	}

	// Opening a second cell replaces the first; the two are never
	// editing at the same time.
	s.Begin(2, core.FieldStatus, "pending")
	if s.Is(1, core.FieldReceivedAmount) {
		t.Error("previous edit still active after opening a new cell")
	}
	if !s.Is(2, core.FieldStatus) {
		t.Error("new edit not active")
	}

	s.Cancel()
	if s.Active() {
		t.Error("session still active after cancel")
	}
	if s.Draft() != "" {
		t.Errorf("draft survived cancel: %q", s.Draft())
	}
}

func TestPreviewBalance(t *testing.T) {
	got := core.PreviewBalance(
		decimal.RequireFromString("500"),
		decimal.RequireFromString("200"),
		decimal.RequireFromString("150.755"),
	)
	if got.String() != "149.245" {
		t.Errorf("preview balance = %s, want 149.245", got)
	}
}
