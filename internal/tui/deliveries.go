package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"tailor-console/internal/api"
	"tailor-console/internal/core"
)

// statusFilters is the cycle order for the status filter key. Empty
// string means "all" and is omitted from the request.
var statusFilters = []core.DeliveryStatus{
	"", core.StatusPending, core.StatusInProgress, core.StatusCompleted, core.StatusDelivered,
}

var blockedFilters = []api.BlockedFilter{api.Unblocked, api.BlockedOnly, api.BlockedAll}

// ── Commands ────────────────────────────────────────────────────────────────

func (m Model) loadDeliveries() tea.Cmd {
	filter := m.filter
	return func() tea.Msg {
		ctx, cancel := reqCtx()
		defer cancel()
		rows, err := m.client.JobOrders.Deliveries(ctx, filter)
		if err != nil {
			return errorMsg{err}
		}
		return deliveriesMsg{rows: rows}
	}
}

func (m Model) loadStats() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := reqCtx()
		defer cancel()
		stats, err := m.client.JobOrders.Stats(ctx)
		if err != nil {
			return errorMsg{err}
		}
		return statsMsg{stats: stats}
	}
}

// saveEdit submits the active edit session. Each field goes to its own
// endpoint; the session itself is closed by the caller.
func (m Model) saveEdit(row core.DeliveryRow, field core.EditField, draft string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := reqCtx()
		defer cancel()

		var (
			updated *core.DeliveryRow
			err     error
		)
		switch field {
		case core.FieldReceivedAmount:
			amount := core.ParseAmount(draft)
			updated, err = m.client.JobOrders.UpdateDelivery(ctx, row.ID, amount, row.Status)
		case core.FieldDeliveryDate:
			var when time.Time
			when, err = core.MergeDeliveryDate(row.DeliveryDate, draft)
			if err == nil {
				updated, err = m.client.JobOrders.ScheduleDelivery(ctx, row.ID, when)
			}
		case core.FieldStatus:
			updated, err = m.client.JobOrders.UpdateStatus(ctx, row.ID, core.DeliveryStatus(draft))
		}
		if err != nil {
			return errorMsg{err: fmt.Errorf("Failed to update %s: %w", field, err)}
		}
		return deliverySavedMsg{row: updated, field: field}
	}
}

func (m Model) toggleBlock(id int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := reqCtx()
		defer cancel()
		updated, err := m.client.JobOrders.ToggleBlock(ctx, id)
		if err != nil {
			return errorMsg{err}
		}
		return deliverySavedMsg{row: updated, field: ""}
	}
}

// ── Update ──────────────────────────────────────────────────────────────────

func (m Model) updateDeliveries(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case deliveriesMsg:
		m.loading = false
		// the search term is both sent to the backend and applied
		// locally, so stale server results never leak past the filter
		m.rows = core.FilterRows(msg.rows, m.filter.Search)
		if m.cursor >= len(m.rows) {
			m.cursor = max(0, len(m.rows)-1)
		}
		return m, nil

	case statsMsg:
		m.stats = msg.stats
		return m, nil

	case deliverySavedMsg:
		m.loading = true
		m.errBanner = ""
		cmds := []tea.Cmd{m.loadDeliveries(), m.loadStats()}
		if msg.field != "" {
			text := "Saved " + string(msg.field)
			if msg.row != nil {
				text += " for " + msg.row.DisplayID()
			}
			cmds = append(cmds, func() tea.Msg {
				return notifyMsg{text: text}
			})
		}
		return m, tea.Batch(cmds...)
	}

	if m.modal.open {
		return m.updateEditModal(msg)
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.searchMode {
		return m.updateSearch(key)
	}
	if m.edit.Active() {
		return m.updateInlineEdit(key)
	}
	return m.updateDeliveryKeys(key)
}

func (m Model) updateSearch(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "enter":
		m.searchMode = false
		m.search.Blur()
		m.filter.Search = strings.TrimSpace(m.search.Value())
		m.loading = true
		return m, tea.Batch(m.loadDeliveries(), m.loadStats())
	case "esc":
		m.searchMode = false
		m.search.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(key)
	return m, cmd
}

// updateInlineEdit handles keys while a cell edit is active. Escape
// abandons the draft without any request.
func (m Model) updateInlineEdit(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	row, ok := m.rowByID(m.edit.RowID())
	if !ok {
		m.edit.Cancel()
		return m, nil
	}

	switch key.String() {
	case "esc":
		m.edit.Cancel()
		return m, nil

	case "enter":
		field := m.edit.Field()
		draft := m.edit.Draft()
		if field != core.FieldStatus {
			draft = m.editInput.Value()
		}
		m.edit.Cancel()
		m.editInput.Blur()
		m.loading = true
		return m, m.saveEdit(row, field, draft)

	case "left", "right", "up", "down":
		if m.edit.Field() == core.FieldStatus {
			delta := 1
			if key.String() == "left" || key.String() == "up" {
				delta = len(core.AllStatuses) - 1
			}
			m.statusIdx = (m.statusIdx + delta) % len(core.AllStatuses)
			m.edit.SetDraft(string(core.AllStatuses[m.statusIdx]))
			return m, nil
		}
	}

	if m.edit.Field() == core.FieldStatus {
		return m, nil
	}
	var cmd tea.Cmd
	m.editInput, cmd = m.editInput.Update(key)
	return m, cmd
}

func (m Model) updateDeliveryKeys(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "q", "esc":
		return m, m.switchTo(viewDashboard)

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}

	case "/":
		m.searchMode = true
		m.search.SetValue(m.filter.Search)
		m.search.Focus()
		return m, nil

	case "f":
		m.filter.Status = nextStatusFilter(m.filter.Status)
		m.loading = true
		return m, tea.Batch(m.loadDeliveries(), m.loadStats())

	case "F":
		m.filter.Blocked = nextBlockedFilter(m.filter.Blocked)
		m.loading = true
		return m, tea.Batch(m.loadDeliveries(), m.loadStats())

	case "t":
		// toggle between today-only (the default) and all dates
		if m.filter.From.IsZero() {
			today := time.Now()
			m.filter.From, m.filter.To = today, today
		} else {
			m.filter.From, m.filter.To = time.Time{}, time.Time{}
		}
		m.loading = true
		return m, tea.Batch(m.loadDeliveries(), m.loadStats())

	case "R":
		m.loading = true
		return m, tea.Batch(m.loadDeliveries(), m.loadStats())

	case "a":
		if row, ok := m.currentRow(); ok {
			// the editor opens on exactly what the cell shows
			m.beginEdit(row, core.FieldReceivedAmount, row.ReceivedAmount.StringFixed(2))
		}
	case "d":
		if row, ok := m.currentRow(); ok {
			m.beginEdit(row, core.FieldDeliveryDate, row.DeliveryDate.Format("2006-01-02"))
		}
	case "s":
		if row, ok := m.currentRow(); ok {
			m.beginEdit(row, core.FieldStatus, string(row.Status))
		}

	case "e":
		if row, ok := m.currentRow(); ok {
			m.openEditModal(row)
		}
		return m, nil

	case "b":
		if row, ok := m.currentRow(); ok {
			m.loading = true
			return m, m.toggleBlock(row.ID)
		}
	}
	return m, nil
}

// beginEdit opens a single-cell edit session, replacing any session
// already open on another cell.
func (m *Model) beginEdit(row core.DeliveryRow, field core.EditField, initial string) {
	m.edit.Begin(row.ID, field, initial)
	m.errBanner = ""
	if field == core.FieldStatus {
		m.statusIdx = 0
		for i, s := range core.AllStatuses {
			if s == row.Status {
				m.statusIdx = i
				break
			}
		}
		return
	}
	m.editInput.SetValue(initial)
	m.editInput.CursorEnd()
	m.editInput.Focus()
}

func (m Model) currentRow() (core.DeliveryRow, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return core.DeliveryRow{}, false
	}
	return m.rows[m.cursor], true
}

func (m Model) rowByID(id int) (core.DeliveryRow, bool) {
	for _, r := range m.rows {
		if r.ID == id {
			return r, true
		}
	}
	return core.DeliveryRow{}, false
}

func nextStatusFilter(current core.DeliveryStatus) core.DeliveryStatus {
	for i, s := range statusFilters {
		if s == current {
			return statusFilters[(i+1)%len(statusFilters)]
		}
	}
	return statusFilters[0]
}

func nextBlockedFilter(current api.BlockedFilter) api.BlockedFilter {
	for i, b := range blockedFilters {
		if b == current {
			return blockedFilters[(i+1)%len(blockedFilters)]
		}
	}
	return blockedFilters[0]
}

// ── View ────────────────────────────────────────────────────────────────────

func (m Model) renderDeliveries() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(" Deliveries ") + "\n\n")
	b.WriteString(m.renderStatsBadges() + "\n")
	b.WriteString(m.renderFilterLine() + "\n\n")

	if m.errBanner != "" {
		b.WriteString("  " + errorStyle.Render(m.errBanner) + "\n\n")
	}

	if m.loading && len(m.rows) == 0 {
		b.WriteString("  Loading...\n")
	} else if len(m.rows) == 0 {
		b.WriteString("  No deliveries match the current filters.\n")
	} else {
		b.WriteString(m.renderDeliveryTable())
	}

	b.WriteString("\n" + m.renderTotalsFooter())
	b.WriteString(helpStyle.Render("\n a: amount • d: date • s: status • e: edit • b: block • /: search • f/F: filters • t: today/all • R: reload • esc: back"))

	if m.modal.open {
		return b.String() + "\n\n" + m.renderEditModal()
	}
	return b.String()
}

func (m Model) renderStatsBadges() string {
	if m.stats == nil {
		return ""
	}
	s := m.stats
	parts := []string{
		badgeStyle.Render(fmt.Sprintf("total %d", s.TotalOrders)),
		badgeStyle.Render(fmt.Sprintf("pending %d", s.Pending)),
		badgeStyle.Render(fmt.Sprintf("in progress %d", s.InProgress)),
		badgeStyle.Render(fmt.Sprintf("completed %d", s.Completed)),
		badgeStyle.Render(fmt.Sprintf("delivered %d", s.Delivered)),
	}
	return " " + strings.Join(parts, "")
}

func (m Model) renderFilterLine() string {
	status := string(m.filter.Status)
	if status == "" {
		status = "all"
	}
	blocked := "unblocked"
	switch m.filter.Blocked {
	case api.BlockedOnly:
		blocked = "blocked"
	case api.BlockedAll:
		blocked = "all"
	}
	dates := "all dates"
	if !m.filter.From.IsZero() {
		dates = m.filter.From.Format("2006-01-02")
		if !m.filter.To.Equal(m.filter.From) {
			dates += " → " + m.filter.To.Format("2006-01-02")
		}
	}
	line := fmt.Sprintf("  status: %s • show: %s • %s", status, blocked, dates)
	if m.searchMode {
		line += " • search: " + m.search.View()
	} else if m.filter.Search != "" {
		line += " • search: " + m.filter.Search
	}
	return helpStyle.Render(line)
}

func (m Model) renderDeliveryTable() string {
	var b strings.Builder
	b.WriteString(helpStyle.Render(fmt.Sprintf("  %-10s %-20s %-12s %-12s %10s %10s %10s %10s\n",
		"ID", "Customer", "Status", "Date", "Total", "Advance", "Received", "Balance")))

	for i, row := range m.rows {
		line := fmt.Sprintf("  %-10s %-20s %-12s %-12s %10s %10s %10s %10s",
			row.DisplayID(),
			truncate(row.CustomerName, 20),
			m.cellStatus(row),
			m.cellDate(row),
			row.TotalAmount.StringFixed(2),
			row.AdvanceAmount.StringFixed(2),
			m.cellReceived(row),
			row.BalanceAmount.StringFixed(2),
		)
		switch {
		case i == m.cursor:
			line = selectedStyle.Render(line)
		case row.IsBlocked:
			line = blockedStyle.Render(line)
		}
		if row.IsBlocked {
			line += blockedStyle.Render(" ⛔")
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (m Model) cellReceived(row core.DeliveryRow) string {
	if m.edit.Is(row.ID, core.FieldReceivedAmount) {
		return editStyle.Render(m.editInput.View())
	}
	return row.ReceivedAmount.StringFixed(2)
}

func (m Model) cellDate(row core.DeliveryRow) string {
	if m.edit.Is(row.ID, core.FieldDeliveryDate) {
		return editStyle.Render(m.editInput.View())
	}
	return row.DeliveryDate.Format("2006-01-02")
}

func (m Model) cellStatus(row core.DeliveryRow) string {
	if m.edit.Is(row.ID, core.FieldStatus) {
		return editStyle.Render("◂ " + m.edit.Draft() + " ▸")
	}
	return statusColor(string(row.Status)).Render(string(row.Status))
}

func (m Model) renderTotalsFooter() string {
	t := core.GrandTotals(m.rows)
	return footerStyle.Render(fmt.Sprintf("  %d orders   total %s   advance %s   received %s   balance %s",
		len(m.rows),
		t.Total.StringFixed(2),
		t.Advance.StringFixed(2),
		t.Received.StringFixed(2),
		t.Balance.StringFixed(2)))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
