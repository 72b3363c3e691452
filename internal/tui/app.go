// Package tui is the interactive terminal console: login, dashboard,
// delivery management with inline editing, receipts and reports.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"tailor-console/internal/api"
	"tailor-console/internal/core"
)

type view int

const (
	viewLogin view = iota
	viewDashboard
	viewDeliveries
	viewReceipts
	viewReports
)

// requestTimeout bounds every API call issued from the console.
const requestTimeout = 15 * time.Second

// ── Messages ────────────────────────────────────────────────────────────────

type errorMsg struct{ err error }

type sessionExpiredMsg struct{}

type loggedInMsg struct{ user *core.User }

type loggedOutMsg struct{}

type deliveriesMsg struct{ rows []core.DeliveryRow }

type statsMsg struct{ stats *core.Stats }

type deliverySavedMsg struct {
	row   *core.DeliveryRow
	field core.EditField
}

type receiptsMsg struct{ rows []core.Receipt }

type receiptCreatedMsg struct{ receipt *core.Receipt }

type dashboardMsg struct {
	stats  *core.Stats
	recent []core.JobOrder
	today  []core.Receipt
}

type reportMsg struct {
	rows    []core.DeliveryRow
	summary *api.ReceiptSummary
}

type exportDoneMsg struct{ path string }

type printDoneMsg struct{ path string }

type notifyMsg struct{ text string }

type clearNotifyMsg struct{ seq int }

// ── Model ───────────────────────────────────────────────────────────────────

// Model is the root bubbletea model. One instance drives every view;
// per-view state and handlers live in the view's own file.
type Model struct {
	client *api.Client
	expiry chan struct{}

	view    view
	width   int
	height  int
	loading bool

	// transient banner state
	errBanner    string
	notice       string
	noticeSeq    int
	forcedLogout bool

	user *core.User

	// login
	loginInputs [2]textinput.Model
	loginFocus  int

	// deliveries
	rows       []core.DeliveryRow
	stats      *core.Stats
	cursor     int
	filter     api.DeliveryFilter
	searchMode bool
	search     textinput.Model
	edit       core.EditSession
	editInput  textinput.Model
	statusIdx  int

	// edit modal
	modal modalState

	// receipts
	receipts      []core.Receipt
	receiptCursor int
	receiptsToday bool
	receiptForm   *receiptForm

	// dashboard
	recent []core.JobOrder
	today  []core.Receipt

	// reports
	reportRows    []core.DeliveryRow
	reportSummary *api.ReceiptSummary
	reportPage    int
}

// New builds the root model and wires the session-expiry channel into
// the client transport.
func New(cfg api.Config) Model {
	expiry := make(chan struct{}, 1)
	cfg.Notifier = api.ExpiryFunc(func() {
		select {
		case expiry <- struct{}{}:
		default:
		}
	})
	client := api.New(cfg)

	m := Model{
		client: client,
		expiry: expiry,
		view:   viewLogin,
	}
	// delivery view opens on today's deliveries
	today := time.Now()
	m.filter = api.DeliveryFilter{From: today, To: today}
	m.initLoginForm()
	m.search = textinput.New()
	m.search.Placeholder = "customer or order number"
	m.search.CharLimit = 64
	m.editInput = textinput.New()
	m.editInput.CharLimit = 32

	if client.Auth.HasSession() {
		m.view = viewDashboard
		m.loading = true
	}
	return m
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.waitForExpiry(), textinput.Blink}
	if m.view == viewDashboard {
		cmds = append(cmds, m.loadDashboard())
	}
	return tea.Batch(cmds...)
}

// waitForExpiry blocks on the transport's expiry signal and converts it
// into a message. Re-armed after every delivery.
func (m Model) waitForExpiry() tea.Cmd {
	return func() tea.Msg {
		<-m.expiry
		return sessionExpiredMsg{}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case sessionExpiredMsg:
		m.forcedLogout = true
		m.user = nil
		return m, m.waitForExpiry()

	case errorMsg:
		m.loading = false
		m.errBanner = msg.err.Error()
		return m, nil

	case notifyMsg:
		m.notice = msg.text
		m.noticeSeq++
		seq := m.noticeSeq
		return m, tea.Tick(3*time.Second, func(time.Time) tea.Msg {
			return clearNotifyMsg{seq: seq}
		})

	case clearNotifyMsg:
		if msg.seq == m.noticeSeq {
			m.notice = ""
		}
		return m, nil

	case tea.KeyMsg:
		if m.forcedLogout {
			// any key acknowledges the forced logout and returns to login
			m.forcedLogout = false
			m.view = viewLogin
			m.initLoginForm()
			return m, nil
		}
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		}
	}

	switch m.view {
	case viewLogin:
		return m.updateLogin(msg)
	case viewDashboard:
		return m.updateDashboard(msg)
	case viewDeliveries:
		return m.updateDeliveries(msg)
	case viewReceipts:
		return m.updateReceipts(msg)
	case viewReports:
		return m.updateReports(msg)
	}
	return m, nil
}

func (m Model) View() string {
	if m.forcedLogout {
		return boxStyle.Render(
			errorStyle.Render("Session expired") +
				"\n\nYour session has expired. Please log in again." +
				helpStyle.Render("\n\npress any key to continue"))
	}

	var body string
	switch m.view {
	case viewLogin:
		body = m.renderLogin()
	case viewDashboard:
		body = m.renderDashboard()
	case viewDeliveries:
		body = m.renderDeliveries()
	case viewReceipts:
		body = m.renderReceipts()
	case viewReports:
		body = m.renderReports()
	}

	if m.notice != "" {
		body += "\n" + noticeStyle.Render("✓ "+m.notice)
	}
	return body
}

// switchTo changes the active view and fires its initial load.
func (m *Model) switchTo(v view) tea.Cmd {
	m.view = v
	m.errBanner = ""
	m.loading = true
	switch v {
	case viewDashboard:
		return m.loadDashboard()
	case viewDeliveries:
		return tea.Batch(m.loadDeliveries(), m.loadStats())
	case viewReceipts:
		return m.loadReceipts()
	case viewReports:
		m.reportPage = 0
		return m.loadReport()
	}
	m.loading = false
	return nil
}

func reqCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}
