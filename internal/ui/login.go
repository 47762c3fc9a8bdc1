package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// handleInputKey processes keys while a login field has focus. Printable
// keys go to the field, so only control keys act as commands here.
func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.blurInputs()
		return m, nil
	case key.Matches(msg, m.keys.Tab):
		return m, m.cycleView()
	case key.Matches(msg, m.keys.PlexAlways):
		m.blurInputs()
		return m, m.startPlex()
	case key.Matches(msg, m.keys.Submit):
		if m.focus == 0 {
			return m, m.focusInput(1)
		}
		m.blurInputs()
		return m, m.submit()
	case msg.Type == tea.KeyUp || msg.Type == tea.KeyShiftTab:
		return m, m.focusInput(0)
	case msg.Type == tea.KeyDown:
		return m, m.focusInput(1)
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// handleLoginKey processes keys on the login view with no field focused.
func (m Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Plex), key.Matches(msg, m.keys.PlexAlways):
		return m, m.startPlex()
	case key.Matches(msg, m.keys.Escape):
		m.login.Cancel()
		return m, nil
	case key.Matches(msg, m.keys.Submit), key.Matches(msg, m.keys.Down):
		return m, m.focusInput(0)
	}
	return m, nil
}

func (m Model) submit() tea.Cmd {
	email, password := m.inputs[0].Value(), m.inputs[1].Value()
	return m.run("login", func(ctx context.Context) error {
		return m.login.Submit(ctx, email, password)
	})
}

func (m Model) startPlex() tea.Cmd {
	return m.run("plex login", m.login.StartPlex)
}

func (m *Model) focusInput(i int) tea.Cmd {
	m.blurInputs()
	m.focus = i
	return m.inputs[i].Focus()
}

func (m *Model) blurInputs() {
	m.focus = -1
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
}

func (m *Model) updateFocusedInput(msg tea.Msg) tea.Cmd {
	if m.currentView != ViewLogin || m.focus < 0 {
		return nil
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return cmd
}

func (m Model) renderLogin() string {
	styles := m.theme.Styles()
	st := m.login.State()

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Sign in to Overseerr"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(m.serverURL))
	b.WriteString("\n\n")
	for _, in := range m.inputs {
		b.WriteString(in.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch {
	case st.AuthURL != "":
		b.WriteString(styles.AccentText.Render("Approve this sign-in in your browser:"))
		b.WriteString("\n")
		b.WriteString(styles.Text.Render(st.AuthURL))
		b.WriteString("\n")
		b.WriteString(styles.MutedText.Render("PIN " + st.PinCode + " · waiting for Plex… (esc to cancel)"))
	case st.IsLoading():
		b.WriteString(styles.WarningText.Render("Signing in…"))
	case st.IsError():
		b.WriteString(styles.DangerText.Render(st.Message))
	case st.IsSuccess():
		b.WriteString(styles.SuccessText.Render("Signed in as " + st.Data.DisplayName()))
	default:
		b.WriteString(styles.MutedText.Render("enter: sign in · ctrl+p / p: sign in with Plex"))
	}

	panel := styles.Panel.
		BorderForeground(lipgloss.Color(m.theme.BorderFocus)).
		Width(min(72, max(m.width-4, 20))).
		Render(b.String())
	return lipgloss.Place(m.width, m.contentHeight(), lipgloss.Center, lipgloss.Center, panel)
}
