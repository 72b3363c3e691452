package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DeliveryRow is the delivery view's projection of a job order. The
// embedded JobOrder.ID is the only identifier used for mutation calls;
// DisplayID and JobOrderNumber are display/search keys only.
type DeliveryRow struct {
	JobOrder
}

// DisplayID returns the human-facing delivery identifier.
func (r DeliveryRow) DisplayID() string {
	return fmt.Sprintf("DEL-%d", r.ID)
}

// MatchesSearch reports whether the row matches a free-text query over
// customer name, display id, and job order number. An empty query
// matches everything.
func (r DeliveryRow) MatchesSearch(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(r.CustomerName), q) ||
		strings.Contains(strings.ToLower(r.DisplayID()), q) ||
		strings.Contains(strings.ToLower(r.JobOrderNumber), q)
}

// FilterRows applies the client-side free-text search on top of the
// server-filtered row set.
func FilterRows(rows []DeliveryRow, query string) []DeliveryRow {
	if strings.TrimSpace(query) == "" {
		return rows
	}
	out := make([]DeliveryRow, 0, len(rows))
	for _, r := range rows {
		if r.MatchesSearch(query) {
			out = append(out, r)
		}
	}
	return out
}

// MergeDeliveryDate replaces only the calendar date of a delivery
// timestamp, keeping the original hour/minute/second/nanosecond and
// location. newDate must be in YYYY-MM-DD form.
func MergeDeliveryDate(original time.Time, newDate string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", newDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid delivery date %q: %w", newDate, err)
	}
	return time.Date(
		d.Year(), d.Month(), d.Day(),
		original.Hour(), original.Minute(), original.Second(), original.Nanosecond(),
		original.Location(),
	), nil
}

// ParseAmount coerces a drafted amount string to a decimal, defaulting
// to zero when the input does not parse.
func ParseAmount(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Totals is the grand-total footer row: a pure fold over the currently
// visible rows, never fetched independently.
type Totals struct {
	Total    decimal.Decimal
	Advance  decimal.Decimal
	Received decimal.Decimal
	Balance  decimal.Decimal
}

func GrandTotals(rows []DeliveryRow) Totals {
	var t Totals
	for _, r := range rows {
		t.Total = t.Total.Add(r.TotalAmount)
		t.Advance = t.Advance.Add(r.AdvanceAmount)
		t.Received = t.Received.Add(r.ReceivedAmount)
		t.Balance = t.Balance.Add(r.BalanceAmount)
	}
	return t
}

// PreviewBalance computes the display-only "new balance" shown while
// drafting a received amount. It is never sent to the backend, which
// recomputes the balance authoritatively.
func PreviewBalance(total, advance, received decimal.Decimal) decimal.Decimal {
	return total.Sub(advance).Sub(received)
}

// EditField names a cell the inline editor can open.
type EditField string

const (
	FieldReceivedAmount EditField = "received_amount"
	FieldDeliveryDate   EditField = "delivery_date"
	FieldStatus         EditField = "status"
)

// EditSession tracks the single in-progress inline cell edit. A zero
// value is idle; beginning a new edit replaces any previous one, so at
// most one {row, field} pair is ever editing.
type EditSession struct {
	rowID int
	field EditField
	draft string
}

func (s *EditSession) Begin(rowID int, field EditField, initial string) {
	s.rowID = rowID
	s.field = field
	s.draft = initial
}

// Cancel discards the draft and returns the session to idle.
func (s *EditSession) Cancel() {
	*s = EditSession{}
}

func (s *EditSession) Active() bool { return s.field != "" }

// Is reports whether the given cell is the one being edited.
func (s *EditSession) Is(rowID int, field EditField) bool {
	return s.Active() && s.rowID == rowID && s.field == field
}

func (s *EditSession) RowID() int       { return s.rowID }
func (s *EditSession) Field() EditField { return s.field }
func (s *EditSession) Draft() string    { return s.draft }

func (s *EditSession) SetDraft(v string) { s.draft = v }
