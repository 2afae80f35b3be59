package draft

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/mailpilot/internal/dashboard"
	"github.com/nhle/mailpilot/internal/keys"
	"github.com/nhle/mailpilot/internal/mailutil"
	"github.com/nhle/mailpilot/internal/theme"
)

// CloseMsg signals the parent to close the draft editor.
type CloseMsg struct{}

// EditedMsg carries the editor contents after the user changed them.
type EditedMsg struct {
	Text string
}

// SendMsg asks the parent to send the reply.
type SendMsg struct {
	Body string
}

// RegenerateMsg asks the parent to request a fresh draft.
type RegenerateMsg struct{}

// Model is the reply editor.
type Model struct {
	input textarea.Model
	keys  *keys.KeyMap
	state dashboard.State

	// pending holds local edits not yet echoed back by the controller,
	// oldest first.
	pending []string

	width  int
	height int
}

// New creates a new draft editor model.
func New(k *keys.KeyMap, width, height int) Model {
	ta := textarea.New()
	ta.Placeholder = "Write your reply..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetWidth(width - 6)
	ta.SetHeight(editorHeight(height))

	return Model{
		input:  ta,
		keys:   k,
		width:  width,
		height: height,
	}
}

func editorHeight(height int) int {
	h := height - 10 // header lines + borders + footer
	if h < 3 {
		h = 3
	}
	return h
}

// Init returns the initial command for the editor.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// SetState syncs the editor with a dashboard snapshot. Snapshots that echo
// one of our own edits are skipped, since the editor is already ahead of
// them; only text the controller produced replaces the editor contents.
func (m *Model) SetState(s dashboard.State) {
	m.state = s
	text := s.Draft.Text

	if !s.Draft.Open {
		m.pending = nil
		if m.input.Value() != "" {
			m.input.Reset()
		}
		return
	}

	for i, p := range m.pending {
		if p == text {
			m.pending = m.pending[i:]
			return
		}
	}
	m.pending = nil
	if text != m.input.Value() {
		m.input.SetValue(text)
	}
}

// Focus gives keyboard focus to the editor.
func (m *Model) Focus() tea.Cmd {
	return m.input.Focus()
}

// busy reports whether the editor is locked by an in-flight request.
func (m Model) busy() bool {
	return m.state.Loading.Drafting || m.state.Loading.Sending
}

// Update handles messages for the draft editor.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg {
				return CloseMsg{}
			}

		case key.Matches(msg, m.keys.Send):
			body := m.input.Value()
			if m.busy() || body == "" {
				return m, nil
			}
			return m, func() tea.Msg {
				return SendMsg{Body: body}
			}

		case key.Matches(msg, m.keys.Regenerate):
			if m.busy() || m.state.Draft.Prompt == "" {
				return m, nil
			}
			return m, func() tea.Msg {
				return RegenerateMsg{}
			}
		}

		if m.busy() {
			return m, nil
		}

		before := m.input.Value()
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		after := m.input.Value()
		if after == before {
			return m, cmd
		}
		m.pending = append(m.pending, after)
		return m, tea.Batch(cmd, func() tea.Msg {
			return EditedMsg{Text: after}
		})
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the draft editor.
func (m Model) View() string {
	var lines []string

	lines = append(lines, theme.TitleStyle.Render("Reply"))
	if sel := m.state.Selected; sel != nil {
		lines = append(lines,
			fmt.Sprintf("%s %s", theme.DimmedStyle.Render("To:"), mailutil.ReplyRecipient(sel.Sender)),
			fmt.Sprintf("%s %s", theme.DimmedStyle.Render("Subject:"), mailutil.ReplySubject(sel.Subject)),
		)
	}

	sepStyle := lipgloss.NewStyle().Foreground(theme.ColorSubtle)
	lines = append(lines, sepStyle.Render(strings.Repeat("─", max(min(m.width-8, 80), 1))))
	lines = append(lines, m.input.View())

	switch {
	case m.state.Loading.Drafting:
		lines = append(lines, theme.DimmedStyle.Render("Drafting..."))
	case m.state.Loading.Sending:
		lines = append(lines, theme.DimmedStyle.Render("Sending..."))
	case m.state.Inline.Draft != "":
		lines = append(lines, theme.ErrorStyle.Render(m.state.Inline.Draft))
	default:
		lines = append(lines, theme.HelpStyle.Render("ctrl+s send | ctrl+r regenerate | esc discard"))
	}

	return theme.DetailPanelStyle.
		Width(m.width - 4).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// SetSize updates the editor dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.SetWidth(width - 6)
	m.input.SetHeight(editorHeight(height))
}
