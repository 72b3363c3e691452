package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) initLoginForm() {
	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 128
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.CharLimit = 128

	m.loginInputs = [2]textinput.Model{email, password}
	m.loginFocus = 0
}

func (m Model) submitLogin() tea.Cmd {
	email := strings.TrimSpace(m.loginInputs[0].Value())
	password := m.loginInputs[1].Value()
	return func() tea.Msg {
		ctx, cancel := reqCtx()
		defer cancel()
		session, err := m.client.Auth.Login(ctx, email, password)
		if err != nil {
			return errorMsg{err}
		}
		user := session.User
		return loggedInMsg{user: &user}
	}
}

func (m Model) updateLogin(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loggedInMsg:
		m.loading = false
		m.errBanner = ""
		m.user = msg.user
		return m, m.switchTo(viewDashboard)

	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "shift+tab", "up", "down":
			m.loginInputs[m.loginFocus].Blur()
			m.loginFocus = (m.loginFocus + 1) % 2
			m.loginInputs[m.loginFocus].Focus()
			return m, nil
		case "enter":
			if m.loginFocus == 0 {
				m.loginInputs[0].Blur()
				m.loginFocus = 1
				m.loginInputs[1].Focus()
				return m, nil
			}
			m.loading = true
			m.errBanner = ""
			return m, m.submitLogin()
		}
	}

	var cmd tea.Cmd
	m.loginInputs[m.loginFocus], cmd = m.loginInputs[m.loginFocus].Update(msg)
	return m, cmd
}

func (m Model) renderLogin() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(" Tailor Console ") + "\n\n")
	b.WriteString("  Email:\n  " + m.loginInputs[0].View() + "\n\n")
	b.WriteString("  Password:\n  " + m.loginInputs[1].View() + "\n")

	if m.loading {
		b.WriteString("\n  Signing in...\n")
	}
	if m.errBanner != "" {
		b.WriteString("\n  " + errorStyle.Render(m.errBanner) + "\n")
	}
	b.WriteString(helpStyle.Render("\n  enter: sign in • ctrl+c: quit"))
	return boxStyle.Render(b.String())
}
