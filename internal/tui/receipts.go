package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"tailor-console/internal/api"
	"tailor-console/internal/core"
)

// receiptForm collects a new receipt: job order id, amount, remarks.
type receiptForm struct {
	inputs [3]textinput.Model
	focus  int
}

func newReceiptForm() *receiptForm {
	order := textinput.New()
	order.Placeholder = "job order id"
	order.CharLimit = 12
	order.Focus()

	amount := textinput.New()
	amount.Placeholder = "amount"
	amount.CharLimit = 16

	remarks := textinput.New()
	remarks.Placeholder = "remarks (optional)"
	remarks.CharLimit = 120

	return &receiptForm{inputs: [3]textinput.Model{order, amount, remarks}}
}

func (m Model) loadReceipts() tea.Cmd {
	todayOnly := m.receiptsToday
	return func() tea.Msg {
		ctx, cancel := reqCtx()
		defer cancel()
		var (
			rows []core.Receipt
			err  error
		)
		if todayOnly {
			rows, err = m.client.Receipts.Today(ctx)
		} else {
			rows, err = m.client.Receipts.List(ctx, nil)
		}
		if err != nil {
			return errorMsg{err}
		}
		return receiptsMsg{rows: rows}
	}
}

func (m Model) createReceipt(form *receiptForm) tea.Cmd {
	orderID, convErr := strconv.Atoi(strings.TrimSpace(form.inputs[0].Value()))
	req := api.CreateReceiptRequest{
		ReceiptDate:   time.Now(),
		ReceiptAmount: core.ParseAmount(form.inputs[1].Value()),
		Remarks:       strings.TrimSpace(form.inputs[2].Value()),
		JobOrder:      orderID,
	}
	return func() tea.Msg {
		if convErr != nil {
			return errorMsg{err: fmt.Errorf("job order id must be a number")}
		}
		ctx, cancel := reqCtx()
		defer cancel()
		receipt, err := m.client.Receipts.Create(ctx, req)
		if err != nil {
			return errorMsg{err}
		}
		return receiptCreatedMsg{receipt: receipt}
	}
}

func (m Model) updateReceipts(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case receiptsMsg:
		m.loading = false
		m.receipts = msg.rows
		if m.receiptCursor >= len(m.receipts) {
			m.receiptCursor = max(0, len(m.receipts)-1)
		}
		return m, nil

	case receiptCreatedMsg:
		m.receiptForm = nil
		m.loading = true
		return m, tea.Batch(m.loadReceipts(), func() tea.Msg {
			return notifyMsg{text: "Receipt " + msg.receipt.ReceiptID + " recorded"}
		})
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.receiptForm != nil {
		return m.updateReceiptForm(key)
	}

	switch key.String() {
	case "q", "esc":
		return m, m.switchTo(viewDashboard)
	case "up", "k":
		if m.receiptCursor > 0 {
			m.receiptCursor--
		}
	case "down", "j":
		if m.receiptCursor < len(m.receipts)-1 {
			m.receiptCursor++
		}
	case "n":
		m.receiptForm = newReceiptForm()
		m.errBanner = ""
	case "T":
		m.receiptsToday = !m.receiptsToday
		m.loading = true
		return m, m.loadReceipts()
	case "t":
		if m.receiptCursor < len(m.receipts) {
			id := m.receipts[m.receiptCursor].ID
			m.loading = true
			return m, func() tea.Msg {
				ctx, cancel := reqCtx()
				defer cancel()
				if _, err := m.client.Receipts.ToggleStatus(ctx, id); err != nil {
					return errorMsg{err}
				}
				rows, err := m.client.Receipts.List(ctx, nil)
				if err != nil {
					return errorMsg{err}
				}
				return receiptsMsg{rows: rows}
			}
		}
	case "R":
		m.loading = true
		return m, m.loadReceipts()
	}
	return m, nil
}

func (m Model) updateReceiptForm(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	form := m.receiptForm
	switch key.String() {
	case "esc":
		m.receiptForm = nil
		return m, nil
	case "tab", "down":
		form.inputs[form.focus].Blur()
		form.focus = (form.focus + 1) % len(form.inputs)
		form.inputs[form.focus].Focus()
		return m, nil
	case "shift+tab", "up":
		form.inputs[form.focus].Blur()
		form.focus = (form.focus + len(form.inputs) - 1) % len(form.inputs)
		form.inputs[form.focus].Focus()
		return m, nil
	case "enter":
		if form.focus < len(form.inputs)-1 {
			form.inputs[form.focus].Blur()
			form.focus++
			form.inputs[form.focus].Focus()
			return m, nil
		}
		m.loading = true
		return m, m.createReceipt(form)
	}

	var cmd tea.Cmd
	form.inputs[form.focus], cmd = form.inputs[form.focus].Update(key)
	return m, cmd
}

func (m Model) renderReceipts() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(" Receipts ") + "\n\n")

	if m.errBanner != "" {
		b.WriteString("  " + errorStyle.Render(m.errBanner) + "\n\n")
	}

	if m.receiptForm != nil {
		return b.String() + m.renderReceiptForm()
	}

	if m.loading && len(m.receipts) == 0 {
		b.WriteString("  Loading...\n")
	} else if len(m.receipts) == 0 {
		b.WriteString("  No receipts recorded.\n")
	} else {
		b.WriteString(helpStyle.Render(fmt.Sprintf("  %-12s %-12s %10s  %s\n", "Receipt", "Date", "Amount", "Remarks")))
		for i, r := range m.receipts {
			line := fmt.Sprintf("  %-12s %-12s %10s  %s",
				r.ReceiptID,
				r.ReceiptDate.Format("2006-01-02"),
				r.ReceiptAmount.StringFixed(2),
				truncate(r.Remarks, 30))
			if !r.IsActive {
				line += " (void)"
			}
			if i == m.receiptCursor {
				line = selectedStyle.Render(line)
			}
			b.WriteString(line + "\n")
		}
	}

	if m.receiptsToday {
		b.WriteString(helpStyle.Render("\n showing today only"))
	}
	b.WriteString(helpStyle.Render("\n n: new receipt • t: toggle void • T: today/all • R: reload • esc: back"))
	return b.String()
}

func (m Model) renderReceiptForm() string {
	form := m.receiptForm
	var b strings.Builder
	b.WriteString("  New receipt\n\n")
	labels := []string{"Job order id:", "Amount:", "Remarks:"}
	for i, input := range form.inputs {
		b.WriteString("  " + labels[i] + "\n  " + input.View() + "\n\n")
	}
	b.WriteString(helpStyle.Render("  enter: save • tab: next field • esc: cancel"))
	return boxStyle.Render(b.String())
}
