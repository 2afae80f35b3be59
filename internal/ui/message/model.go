package message

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/mailpilot/internal/dashboard"
	"github.com/nhle/mailpilot/internal/keys"
	"github.com/nhle/mailpilot/internal/mailutil"
	"github.com/nhle/mailpilot/internal/model"
	"github.com/nhle/mailpilot/internal/theme"
)

// BackMsg signals the parent to navigate back to the inbox.
type BackMsg struct{}

// SummarizeMsg asks the parent to request an AI summary.
type SummarizeMsg struct {
	Target     dashboard.TargetKind
	Attachment model.Attachment
}

// ReplyMsg asks the parent to open the draft reply editor.
type ReplyMsg struct{}

// EventMsg asks the parent to open the calendar event picker.
type EventMsg struct{}

// Model is the message and analysis pane.
type Model struct {
	state      dashboard.State
	shownID    string
	attachment int
	viewport   viewport.Model
	keys       *keys.KeyMap
	width      int
	height     int
}

// New creates a new message view model.
func New(k *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, height-2)
	vp.Style = lipgloss.NewStyle()

	return Model{
		viewport: vp,
		keys:     k,
		width:    width,
		height:   height,
	}
}

// SetState re-renders the pane from a dashboard snapshot. The scroll
// position resets only when a different message arrives.
func (m *Model) SetState(s dashboard.State) {
	m.state = s

	id := ""
	if s.Selected != nil {
		id = s.Selected.ID
	}
	if id != m.shownID {
		m.shownID = id
		m.attachment = 0
		m.viewport.SetContent(m.renderContent())
		m.viewport.GotoTop()
		return
	}
	if n := m.attachmentCount(); m.attachment >= n {
		m.attachment = 0
	}
	m.viewport.SetContent(m.renderContent())
}

// SelectedAttachment returns the attachment under the cursor.
func (m Model) SelectedAttachment() (model.Attachment, bool) {
	if m.state.Selected == nil || m.attachment >= len(m.state.Selected.Attachments) {
		return model.Attachment{}, false
	}
	return m.state.Selected.Attachments[m.attachment], true
}

func (m Model) attachmentCount() int {
	if m.state.Selected == nil {
		return 0
	}
	return len(m.state.Selected.Attachments)
}

// Update handles messages for the message view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg {
				return BackMsg{}
			}

		case key.Matches(msg, m.keys.Summarize):
			if m.state.Selected != nil {
				return m, func() tea.Msg {
					return SummarizeMsg{Target: dashboard.TargetBody}
				}
			}

		case key.Matches(msg, m.keys.SummarizeThread):
			if m.state.Selected != nil && m.state.Selected.ThreadID != "" {
				return m, func() tea.Msg {
					return SummarizeMsg{Target: dashboard.TargetThread}
				}
			}

		case key.Matches(msg, m.keys.SummarizeAttachment):
			if att, ok := m.SelectedAttachment(); ok {
				return m, func() tea.Msg {
					return SummarizeMsg{Target: dashboard.TargetAttachment, Attachment: att}
				}
			}

		case key.Matches(msg, m.keys.NextAttachment):
			if n := m.attachmentCount(); n > 0 {
				m.attachment = (m.attachment + 1) % n
				m.viewport.SetContent(m.renderContent())
			}
			return m, nil

		case key.Matches(msg, m.keys.Reply):
			if m.state.Selected != nil {
				return m, func() tea.Msg {
					return ReplyMsg{}
				}
			}

		case key.Matches(msg, m.keys.Event):
			if m.state.Selected != nil && !m.state.Loading.EventCreating {
				return m, func() tea.Msg {
					return EventMsg{}
				}
			}
		}
	}

	// Delegate to viewport for scrolling (j/k, up/down, pgup/pgdn)
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the message view.
func (m Model) View() string {
	placeholder := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	if m.state.Selected == nil {
		switch {
		case m.state.Loading.MessageContent:
			return placeholder.Render("Loading message...")
		case m.state.Inline.Message != "":
			return placeholder.Render(theme.ErrorStyle.Render(m.state.Inline.Message))
		default:
			return placeholder.Render("No message selected")
		}
	}

	return m.viewport.View()
}

// renderContent builds the message, attachments and analysis sections.
func (m Model) renderContent() string {
	msg := m.state.Selected
	if msg == nil {
		return ""
	}

	var sections []string
	width := min(m.width-4, 100)
	if width < 20 {
		width = 20
	}
	wrap := lipgloss.NewStyle().Width(width)

	subject := msg.Subject
	if strings.TrimSpace(subject) == "" {
		subject = "(no subject)"
	}
	sections = append(sections, theme.TitleStyle.Render(subject))
	sections = append(sections, fmt.Sprintf("%s %s",
		theme.DimmedStyle.Render("From:"),
		theme.AccentStyle.Render(msg.Sender),
	))

	separator := lipgloss.NewStyle().
		Foreground(theme.ColorSubtle).
		Render(strings.Repeat("─", width))
	sections = append(sections, separator, "")

	body := mailutil.BodyText(msg.Body)
	if body == "" {
		body = lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Italic(true).
			Render("No content")
	}
	sections = append(sections, wrap.Render(body))

	if len(msg.Attachments) > 0 {
		sections = append(sections, "", separator, "")
		sections = append(sections, theme.TitleStyle.Render(
			fmt.Sprintf("Attachments (%d)", len(msg.Attachments)),
		))
		for i, att := range msg.Attachments {
			line := fmt.Sprintf("  %s  %s", att.Filename, theme.DimmedStyle.Render(att.MimeType))
			if i == m.attachment {
				line = theme.SelectedItemStyle.Render(line)
			}
			sections = append(sections, line)
		}
	}

	sections = append(sections, "", separator, "")
	sections = append(sections, m.renderAnalysis(width)...)

	if m.state.EventLink != "" {
		sections = append(sections, "", fmt.Sprintf("%s %s",
			theme.DimmedStyle.Render("Event:"),
			theme.SuccessStyle.Render(m.state.EventLink),
		))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderAnalysis renders the AI pane: progress, error or result.
func (m Model) renderAnalysis(width int) []string {
	header := theme.AccentStyle.Render("AI Analysis")
	wrap := lipgloss.NewStyle().Width(width)

	if m.state.Loading.Summarizing {
		return []string{header, theme.DimmedStyle.Render("Summarizing...")}
	}
	if m.state.Inline.Analysis != "" {
		return []string{header, theme.ErrorStyle.Render(m.state.Inline.Analysis)}
	}

	a := m.state.Analysis
	if a == nil {
		return []string{header, theme.HelpStyle.Render("Press s to summarize this message.")}
	}

	lines := []string{header}
	if a.Error {
		lines = append(lines, theme.ErrorStyle.Render(a.Summary))
		return lines
	}
	lines = append(lines, wrap.Render(a.Summary))

	if len(a.ActionItems) > 0 {
		lines = append(lines, "", theme.TitleStyle.Render("Action items"))
		for _, item := range a.ActionItems {
			lines = append(lines, wrap.Render("  • "+item))
		}
	}
	if len(a.KeyDates) > 0 {
		lines = append(lines, "", theme.TitleStyle.Render("Key dates"))
		for _, d := range a.KeyDates {
			lines = append(lines, "  • "+d)
		}
	}
	return lines
}

// SetSize updates the message view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
	m.viewport.SetContent(m.renderContent())
}
