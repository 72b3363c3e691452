package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"tailor-console/internal/core"
)

// modalState is the combined delivery edit form: received amount plus
// status in one submit, with a live balance preview.
type modalState struct {
	open      bool
	row       core.DeliveryRow
	amount    textinput.Model
	statusIdx int
	focus     int // 0 amount, 1 status
}

func (m *Model) openEditModal(row core.DeliveryRow) {
	amount := textinput.New()
	amount.CharLimit = 32
	amount.SetValue(row.ReceivedAmount.StringFixed(2))
	amount.CursorEnd()
	amount.Focus()

	idx := 0
	for i, s := range core.AllStatuses {
		if s == row.Status {
			idx = i
			break
		}
	}

	m.edit.Cancel()
	m.errBanner = ""
	m.modal = modalState{
		open:      true,
		row:       row,
		amount:    amount,
		statusIdx: idx,
	}
}

func (m Model) submitModal() tea.Cmd {
	row := m.modal.row
	amount := core.ParseAmount(m.modal.amount.Value())
	status := core.AllStatuses[m.modal.statusIdx]
	return func() tea.Msg {
		ctx, cancel := reqCtx()
		defer cancel()
		updated, err := m.client.JobOrders.UpdateDelivery(ctx, row.ID, amount, status)
		if err != nil {
			return errorMsg{err: fmt.Errorf("Failed to update delivery: %w", err)}
		}
		return deliverySavedMsg{row: updated, field: core.FieldReceivedAmount}
	}
}

func (m Model) updateEditModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "esc":
		m.modal.open = false
		return m, nil

	case "tab", "shift+tab":
		m.modal.focus = (m.modal.focus + 1) % 2
		if m.modal.focus == 0 {
			m.modal.amount.Focus()
		} else {
			m.modal.amount.Blur()
		}
		return m, nil

	case "enter":
		m.modal.open = false
		m.loading = true
		return m, m.submitModal()

	case "left", "right":
		if m.modal.focus == 1 {
			delta := 1
			if key.String() == "left" {
				delta = len(core.AllStatuses) - 1
			}
			m.modal.statusIdx = (m.modal.statusIdx + delta) % len(core.AllStatuses)
			return m, nil
		}
	}

	if m.modal.focus == 0 {
		var cmd tea.Cmd
		m.modal.amount, cmd = m.modal.amount.Update(key)
		return m, cmd
	}
	return m, nil
}

func (m Model) renderEditModal() string {
	row := m.modal.row
	preview := core.PreviewBalance(
		row.TotalAmount,
		row.AdvanceAmount,
		core.ParseAmount(m.modal.amount.Value()),
	)

	var b strings.Builder
	b.WriteString(titleStyle.Render(" Edit "+row.DisplayID()) + "\n\n")
	b.WriteString(fmt.Sprintf("  Customer: %s\n", row.CustomerName))
	b.WriteString(fmt.Sprintf("  Total: %s   Advance: %s\n\n",
		row.TotalAmount.StringFixed(2), row.AdvanceAmount.StringFixed(2)))

	b.WriteString("  Received on delivery:\n  " + m.modal.amount.View() + "\n\n")

	status := string(core.AllStatuses[m.modal.statusIdx])
	marker := "  Status: "
	if m.modal.focus == 1 {
		marker += editStyle.Render("◂ " + status + " ▸")
	} else {
		marker += statusColor(status).Render(status)
	}
	b.WriteString(marker + "\n\n")

	b.WriteString(fmt.Sprintf("  Balance after save: %s\n", preview.StringFixed(2)))
	b.WriteString(helpStyle.Render("\n  tab: switch field • enter: save • esc: cancel"))
	return boxStyle.Render(b.String())
}
