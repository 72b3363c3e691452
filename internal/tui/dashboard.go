package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"tailor-console/internal/core"
)

func (m Model) loadDashboard() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := reqCtx()
		defer cancel()

		stats, err := m.client.JobOrders.Stats(ctx)
		if err != nil {
			return errorMsg{err}
		}
		recent, err := m.client.JobOrders.Recent(ctx, 5)
		if err != nil {
			return errorMsg{err}
		}
		today, err := m.client.Receipts.Today(ctx)
		if err != nil {
			return errorMsg{err}
		}
		return dashboardMsg{stats: stats, recent: recent, today: today}
	}
}

func (m Model) logout() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := reqCtx()
		defer cancel()
		if err := m.client.Auth.Logout(ctx); err != nil {
			return errorMsg{err}
		}
		return loggedOutMsg{}
	}
}

func (m Model) updateDashboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardMsg:
		m.loading = false
		m.stats = msg.stats
		m.recent = msg.recent
		m.today = msg.today
		return m, nil

	case loggedOutMsg:
		m.user = nil
		m.view = viewLogin
		m.initLoginForm()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "d", "1":
			return m, m.switchTo(viewDeliveries)
		case "r", "2":
			return m, m.switchTo(viewReceipts)
		case "p", "3":
			return m, m.switchTo(viewReports)
		case "R":
			m.loading = true
			return m, m.loadDashboard()
		case "L":
			return m, m.logout()
		case "q":
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Model) renderDashboard() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(" Tailor Console ") + "\n\n")
	if m.user != nil {
		b.WriteString(helpStyle.Render("  signed in as "+m.user.Email) + "\n\n")
	}

	if m.errBanner != "" {
		b.WriteString("  " + errorStyle.Render(m.errBanner) + "\n\n")
	}
	if m.loading {
		b.WriteString("  Loading...\n")
		return b.String()
	}

	if m.stats != nil {
		s := m.stats
		b.WriteString(boxStyle.Render(fmt.Sprintf(
			"Orders: %d\nPending: %d  In progress: %d\nCompleted: %d  Delivered: %d\nRevenue: %s  Outstanding: %s",
			s.TotalOrders, s.Pending, s.InProgress, s.Completed, s.Delivered,
			s.TotalRevenue.StringFixed(2), s.TotalBalance.StringFixed(2))) + "\n\n")
	}

	if len(m.recent) > 0 {
		b.WriteString("  Recent orders\n")
		for _, o := range m.recent {
			b.WriteString(fmt.Sprintf("   %-14s %-20s %s %10s\n",
				o.JobOrderNumber,
				truncate(o.CustomerName, 20),
				statusColor(string(o.Status)).Render(fmt.Sprintf("%-12s", o.Status)),
				o.TotalAmount.StringFixed(2)))
		}
		b.WriteString("\n")
	}

	b.WriteString(fmt.Sprintf("  Receipts today: %d (%s)\n", len(m.today), todayTotal(m.today)))
	b.WriteString(helpStyle.Render("\n  d: deliveries • r: receipts • p: reports • R: reload • L: logout • q: quit"))
	return b.String()
}

func todayTotal(receipts []core.Receipt) string {
	total := core.Totals{}
	for _, r := range receipts {
		total.Received = total.Received.Add(r.ReceiptAmount)
	}
	return total.Received.StringFixed(2)
}
