package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"tailor-console/internal/api"
	"tailor-console/internal/core"
	"tailor-console/internal/printing"
)

const reportPageSize = 15

// loadReport fetches every delivery for the current month, blocked
// included, plus the receipt totals for the same range.
func (m Model) loadReport() tea.Cmd {
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	to := from.AddDate(0, 1, -1)
	filter := api.DeliveryFilter{Blocked: api.BlockedAll, From: from, To: to}

	return func() tea.Msg {
		ctx, cancel := reqCtx()
		defer cancel()
		rows, err := m.client.JobOrders.Deliveries(ctx, filter)
		if err != nil {
			return errorMsg{err}
		}
		summary, err := m.client.Receipts.Summary(ctx, from, to)
		if err != nil {
			return errorMsg{err}
		}
		return reportMsg{rows: rows, summary: summary}
	}
}

func (m Model) printReport() tea.Cmd {
	rows := m.reportRows
	return func() tea.Msg {
		path, err := printing.SaveDeliveryReport(printing.DeliveryReport{
			Title:       "Monthly Delivery Report",
			GeneratedAt: time.Now(),
			Rows:        rows,
			Totals:      core.GrandTotals(rows),
		})
		if err != nil {
			return errorMsg{err}
		}
		if err := printing.OpenForPrinting(path); err != nil {
			return errorMsg{err}
		}
		return printDoneMsg{path: path}
	}
}

func (m Model) exportReport() tea.Cmd {
	rows := m.reportRows
	return func() tea.Msg {
		path := fmt.Sprintf("deliveries-%s.xlsx", time.Now().Format("20060102-150405"))
		if err := printing.ExportDeliveryXLSX(path, rows); err != nil {
			return errorMsg{err}
		}
		return exportDoneMsg{path: path}
	}
}

func (m Model) updateReports(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case reportMsg:
		m.loading = false
		m.reportRows = msg.rows
		m.reportSummary = msg.summary
		return m, nil

	case printDoneMsg:
		return m, func() tea.Msg {
			return notifyMsg{text: "Report written to " + msg.path}
		}

	case exportDoneMsg:
		return m, func() tea.Msg {
			return notifyMsg{text: "Exported " + msg.path}
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc":
			return m, m.switchTo(viewDashboard)
		case "left", "h":
			if m.reportPage > 0 {
				m.reportPage--
			}
		case "right", "l":
			if (m.reportPage+1)*reportPageSize < len(m.reportRows) {
				m.reportPage++
			}
		case "p":
			return m, m.printReport()
		case "x":
			return m, m.exportReport()
		case "R":
			m.loading = true
			return m, m.loadReport()
		}
	}
	return m, nil
}

func (m Model) renderReports() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(" Reports ") + "\n\n")

	if m.errBanner != "" {
		b.WriteString("  " + errorStyle.Render(m.errBanner) + "\n\n")
	}
	if m.loading && len(m.reportRows) == 0 {
		b.WriteString("  Loading...\n")
		return b.String()
	}

	if m.reportSummary != nil {
		b.WriteString(fmt.Sprintf("  Receipts this month: %d totalling %s\n\n",
			m.reportSummary.Count, m.reportSummary.TotalAmount.StringFixed(2)))
	}

	start := m.reportPage * reportPageSize
	end := min(start+reportPageSize, len(m.reportRows))
	if start >= end {
		b.WriteString("  No deliveries this month.\n")
	} else {
		b.WriteString(helpStyle.Render(fmt.Sprintf("  %-10s %-20s %-12s %10s %10s\n",
			"ID", "Customer", "Status", "Total", "Balance")))
		for _, row := range m.reportRows[start:end] {
			b.WriteString(fmt.Sprintf("  %-10s %-20s %-12s %10s %10s\n",
				row.DisplayID(),
				truncate(row.CustomerName, 20),
				row.Status,
				row.TotalAmount.StringFixed(2),
				row.BalanceAmount.StringFixed(2)))
		}
		pages := (len(m.reportRows) + reportPageSize - 1) / reportPageSize
		b.WriteString(helpStyle.Render(fmt.Sprintf("\n  page %d/%d", m.reportPage+1, pages)))
	}

	t := core.GrandTotals(m.reportRows)
	b.WriteString(footerStyle.Render(fmt.Sprintf("\n  total %s   received %s   balance %s",
		t.Total.StringFixed(2), t.Received.StringFixed(2), t.Balance.StringFixed(2))))
	b.WriteString(helpStyle.Render("\n p: print • x: export xlsx • ←/→: page • R: reload • esc: back"))
	return b.String()
}
