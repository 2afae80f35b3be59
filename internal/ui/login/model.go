package login

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/mailpilot/internal/auth"
	"github.com/nhle/mailpilot/internal/theme"
)

// TokenMsg is emitted once a bearer credential has been obtained.
type TokenMsg struct {
	Token string
}

// redirectMsg carries the outcome of waiting on the loopback listener.
type redirectMsg struct {
	token string
	err   error
}

// Model is the sign-in screen. It shows the backend login URL, listens on
// the loopback redirect address and accepts a pasted redirect URL or token.
type Model struct {
	loginURL  string
	addr      string
	input     textinput.Model
	listening bool
	cancel    context.CancelFunc
	errText   string
	width     int
	height    int
}

// New creates a new sign-in screen.
func New(loginURL, redirectAddr string, width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = "paste the redirect URL or token"
	ti.Prompt = "> "
	ti.EchoMode = textinput.EchoNormal
	ti.Width = width - 8

	return Model{
		loginURL: loginURL,
		addr:     redirectAddr,
		input:    ti,
		width:    width,
		height:   height,
	}
}

// Start focuses the input and begins listening for the browser redirect.
func (m *Model) Start() tea.Cmd {
	m.Stop()
	m.errText = ""
	m.input.Reset()
	return tea.Batch(m.input.Focus(), m.listen())
}

// listen binds the loopback redirect address. A listener that cannot bind
// is reported and pasting still works.
func (m *Model) listen() tea.Cmd {
	if m.addr == "" {
		return nil
	}
	l, err := auth.Listen(m.addr)
	if err != nil {
		m.errText = fmt.Sprintf("Could not listen for the sign-in redirect: %v", err)
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.listening = true
	return func() tea.Msg {
		token, err := l.Wait(ctx)
		return redirectMsg{token: token, err: err}
	}
}

// Stop releases the loopback listener, if any.
func (m *Model) Stop() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.listening = false
}

// Update handles messages for the sign-in screen.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case redirectMsg:
		m.listening = false
		m.cancel = nil
		if msg.err != nil {
			if !errors.Is(msg.err, context.Canceled) {
				m.errText = msg.err.Error()
			}
			return m, nil
		}
		return m, tokenCmd(msg.token)

	case tea.KeyMsg:
		if msg.String() == "enter" {
			token, err := parseInput(m.input.Value())
			if err != nil {
				m.errText = err.Error()
				return m, nil
			}
			m.Stop()
			m.input.Reset()
			return m, tokenCmd(token)
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func tokenCmd(token string) tea.Cmd {
	return func() tea.Msg { return TokenMsg{Token: token} }
}

// parseInput accepts either the full redirect URL or the bare token.
func parseInput(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.New("nothing entered")
	}
	if strings.Contains(raw, "://") {
		return auth.TokenFromRedirect(raw)
	}
	return raw, nil
}

// View renders the sign-in screen.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	lines := []string{
		titleStyle.Render("Sign in"),
		"Open this address in your browser and sign in with Google:",
		"",
		theme.AccentStyle.Render(m.loginURL),
		"",
	}
	if m.listening {
		lines = append(lines, theme.DimmedStyle.Render(
			fmt.Sprintf("Waiting for the redirect on %s ...", m.addr)))
	}
	lines = append(lines,
		"Or paste the address you were redirected to:",
		m.input.View(),
	)
	if m.errText != "" {
		lines = append(lines, "", theme.ErrorStyle.Render(m.errText))
	}

	return theme.DetailPanelStyle.
		Width(m.width - 4).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// SetSize updates the sign-in screen dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 8
}
