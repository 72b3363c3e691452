package tui

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"tailor-console/internal/api"
	"tailor-console/internal/core"
)

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func sampleRows() []core.DeliveryRow {
	dec := decimal.RequireFromString
	return []core.DeliveryRow{
		{JobOrder: core.JobOrder{
			ID: 1, CustomerName: "Sarah Johnson", Status: core.StatusPending,
			DeliveryDate:   time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC),
			TotalAmount:    dec("450.00"),
			AdvanceAmount:  dec("150.00"),
			ReceivedAmount: dec("100.00"),
			BalanceAmount:  dec("200.00"),
		}},
		{JobOrder: core.JobOrder{
			ID: 2, CustomerName: "Mike Chen", Status: core.StatusInProgress,
			DeliveryDate:  time.Date(2024, 3, 16, 14, 0, 0, 0, time.UTC),
			TotalAmount:   dec("280.50"),
			BalanceAmount: dec("280.50"),
		}},
	}
}

// testModel builds a deliveries-view model against a live test server
// and reports how many requests reached it.
func testModel(t *testing.T, handler http.HandlerFunc) (Model, *atomic.Int64) {
	t.Helper()
	requests := &atomic.Int64{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	m := New(api.Config{BaseURL: srv.URL, Store: &api.MemoryTokenStore{}})
	m.view = viewDeliveries
	m.rows = sampleRows()
	return m, requests
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return model, cmd
}

func TestEscapeAbandonsEditWithoutRequest(t *testing.T) {
	m, requests := testModel(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	m, _ = update(t, m, keyRune('a'))
	if !m.edit.Is(1, core.FieldReceivedAmount) {
		t.Fatal("amount edit should be active on the cursor row")
	}

	for _, r := range "200" {
		m, _ = update(t, m, keyRune(r))
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	if m.edit.Active() {
		t.Error("edit session still active after escape")
	}
	if got := requests.Load(); got != 0 {
		t.Errorf("%d requests issued, want 0", got)
	}
	// the abandoned draft must not leak into the next session
	m, _ = update(t, m, keyRune('a'))
	if got := m.editInput.Value(); got != "100.00" {
		t.Errorf("next edit draft = %q, want the row value 100.00", got)
	}
}

func TestOnlyOneEditSessionAtATime(t *testing.T) {
	m, _ := testModel(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	m, _ = update(t, m, keyRune('a'))
	if !m.edit.Is(1, core.FieldReceivedAmount) {
		t.Fatal("expected amount edit on row 1")
	}

	// Escape, move to the second row, open a status edit: the first
	// session must be gone.
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = update(t, m, keyRune('s'))

	if m.edit.Is(1, core.FieldReceivedAmount) {
		t.Error("stale amount session survived")
	}
	if !m.edit.Is(2, core.FieldStatus) {
		t.Error("status edit not active on row 2")
	}
}

func TestStatusEditCyclesWithoutRequests(t *testing.T) {
	m, requests := testModel(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	m, _ = update(t, m, keyRune('s'))
	if m.edit.Draft() != string(core.StatusPending) {
		t.Fatalf("draft = %q, want current status", m.edit.Draft())
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if m.edit.Draft() != string(core.StatusInProgress) {
		t.Errorf("draft = %q after cycle, want in_progress", m.edit.Draft())
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	if m.edit.Draft() != string(core.StatusPending) {
		t.Errorf("draft = %q after cycle back, want pending", m.edit.Draft())
	}
	if got := requests.Load(); got != 0 {
		t.Errorf("%d requests issued while cycling, want 0", got)
	}
}

func TestFailedSaveShowsFieldBanner(t *testing.T) {
	m, _ := testModel(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"boom"}`))
	})

	m, _ = update(t, m, keyRune('a'))
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter should submit the edit")
	}
	if m.edit.Active() {
		t.Error("edit session should close on submit")
	}

	msg := cmd()
	m, _ = update(t, m, msg)

	if !strings.HasPrefix(m.errBanner, "Failed to update received_amount") {
		t.Errorf("banner = %q, want Failed to update received_amount prefix", m.errBanner)
	}
}

func TestSuccessfulSaveRefetches(t *testing.T) {
	m, requests := testModel(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodPost {
			w.Write([]byte(`{"id":1}`))
			return
		}
		w.Write([]byte(`[]`))
	})

	m, _ = update(t, m, keyRune('a'))
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	msg := cmd()
	saved, ok := msg.(deliverySavedMsg)
	if !ok {
		t.Fatalf("msg = %T, want deliverySavedMsg", msg)
	}
	if saved.field != core.FieldReceivedAmount {
		t.Errorf("field = %q", saved.field)
	}

	// the saved message triggers a list and stats reload plus a
	// notice naming the saved row
	before := requests.Load()
	_, cmd = update(t, m, msg)
	if cmd == nil {
		t.Fatal("saved message should trigger reload commands")
	}
	msgs := exec(cmd)
	if requests.Load() < before+2 {
		t.Errorf("expected list and stats reload, got %d new requests", requests.Load()-before)
	}
	notice := ""
	for _, got := range msgs {
		if n, ok := got.(notifyMsg); ok {
			notice = n.text
		}
	}
	if !strings.Contains(notice, "received_amount") || !strings.Contains(notice, "DEL-1") {
		t.Errorf("notice = %q, want the field and row id", notice)
	}
}

// exec runs a command tree synchronously, following batches, and
// returns every message produced.
func exec(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, c := range batch {
			msgs = append(msgs, exec(c)...)
		}
		return msgs
	}
	return []tea.Msg{msg}
}

func TestFilterChangeReloadsListAndStats(t *testing.T) {
	m, requests := testModel(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	for _, key := range []tea.KeyMsg{keyRune('f'), keyRune('F'), keyRune('t')} {
		before := requests.Load()
		var cmd tea.Cmd
		m, cmd = update(t, m, key)
		if cmd == nil {
			t.Fatalf("key %q: expected reload commands", key.String())
		}
		exec(cmd)
		if got := requests.Load() - before; got != 2 {
			t.Errorf("key %q: %d requests, want list + stats", key.String(), got)
		}
	}
}

func TestForcedLogoutModal(t *testing.T) {
	m, _ := testModel(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	m, _ = update(t, m, sessionExpiredMsg{})
	if !m.forcedLogout {
		t.Fatal("expected forced logout state")
	}
	if !strings.Contains(m.View(), "Session expired") {
		t.Error("view should show the session-expired modal")
	}

	m, _ = update(t, m, keyRune('x'))
	if m.forcedLogout {
		t.Error("any key should dismiss the modal")
	}
	if m.view != viewLogin {
		t.Error("dismissing the modal should land on login")
	}
}
