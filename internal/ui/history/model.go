package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/mailpilot/internal/keys"
	"github.com/nhle/mailpilot/internal/model"
	"github.com/nhle/mailpilot/internal/store"
	"github.com/nhle/mailpilot/internal/theme"
)

// Limit is the number of notifications shown.
const Limit = 50

// CloseMsg signals the parent to close the history view.
type CloseMsg struct{}

// LoadedMsg carries the history read from the store.
type LoadedMsg struct {
	Notifications []model.Notification
	Analyses      []store.AnalysisRecord
	Err           error
}

// Reader is the part of the history store this view needs.
type Reader interface {
	RecentNotifications(ctx context.Context, limit int) ([]model.Notification, error)
	MarkNotificationsRead(ctx context.Context) error
	AnalysesForMessage(ctx context.Context, messageID string) ([]store.AnalysisRecord, error)
}

// Model is the notification history view.
type Model struct {
	reader        Reader
	keys          *keys.KeyMap
	notifications []model.Notification
	analyses      []store.AnalysisRecord
	messageID     string
	selectedIdx   int
	loading       bool
	errText       string
	width         int
	height        int
}

// New creates a new history view. reader may be nil when history is disabled.
func New(r Reader, k *keys.KeyMap, width, height int) Model {
	return Model{
		reader: r,
		keys:   k,
		width:  width,
		height: height,
	}
}

// Enabled reports whether a history store is attached.
func (m Model) Enabled() bool {
	return m.reader != nil
}

// Load reads recent notifications, and past analyses for messageID when it
// is set, then marks every notification read.
func (m *Model) Load(messageID string) tea.Cmd {
	m.messageID = messageID
	m.loading = true
	m.errText = ""
	r := m.reader
	if r == nil {
		return func() tea.Msg { return LoadedMsg{} }
	}
	return func() tea.Msg {
		ctx := context.Background()
		notes, err := r.RecentNotifications(ctx, Limit)
		if err != nil {
			return LoadedMsg{Err: err}
		}
		var analyses []store.AnalysisRecord
		if messageID != "" {
			analyses, err = r.AnalysesForMessage(ctx, messageID)
			if err != nil {
				return LoadedMsg{Notifications: notes, Err: err}
			}
		}
		if err := r.MarkNotificationsRead(ctx); err != nil {
			return LoadedMsg{Notifications: notes, Analyses: analyses, Err: err}
		}
		return LoadedMsg{Notifications: notes, Analyses: analyses}
	}
}

// Update handles messages for the history view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LoadedMsg:
		m.loading = false
		m.notifications = msg.Notifications
		m.analyses = msg.Analyses
		if msg.Err != nil {
			m.errText = fmt.Sprintf("Error: %v", msg.Err)
		}
		if m.selectedIdx >= len(m.notifications) {
			m.selectedIdx = max(len(m.notifications)-1, 0)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg { return CloseMsg{} }
		case key.Matches(msg, m.keys.Down):
			if m.selectedIdx < len(m.notifications)-1 {
				m.selectedIdx++
			}
		case key.Matches(msg, m.keys.Up):
			if m.selectedIdx > 0 {
				m.selectedIdx--
			}
		}
	}
	return m, nil
}

// View renders the history view.
func (m Model) View() string {
	placeholder := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	switch {
	case m.reader == nil:
		return placeholder.Render("History is disabled.\n\nSet history.enabled in the config file to keep it.")
	case m.loading:
		return placeholder.Render("Loading history...")
	}

	var lines []string
	lines = append(lines, theme.TitleStyle.Render("Notifications"))
	if m.errText != "" {
		lines = append(lines, theme.ErrorStyle.Render(m.errText))
	}
	if len(m.notifications) == 0 {
		lines = append(lines, theme.DimmedStyle.Render("Nothing yet."))
	}
	for i, n := range m.notifications {
		marker := " "
		if !n.Read {
			marker = lipgloss.NewStyle().Foreground(theme.ColorBlue).Render("•")
		}
		line := fmt.Sprintf("%s %s  %s",
			marker,
			theme.NotificationStyle(string(n.Kind)).UnsetPadding().Render(n.Message),
			theme.DimmedStyle.Render(relativeTime(n.CreatedAt)),
		)
		if i == m.selectedIdx {
			line = theme.SelectedItemStyle.Render(line)
		} else {
			line = theme.ListItemStyle.Render(line)
		}
		lines = append(lines, line)
	}

	if m.messageID != "" {
		lines = append(lines, "", theme.TitleStyle.Render("Earlier analyses of this message"))
		if len(m.analyses) == 0 {
			lines = append(lines, theme.DimmedStyle.Render("None recorded."))
		}
		wrap := lipgloss.NewStyle().Width(max(m.width-8, 20))
		for _, a := range m.analyses {
			label := a.Analysis.Kind.String()
			if a.Analysis.Error {
				label = "failed"
			}
			lines = append(lines, theme.DimmedStyle.Render(fmt.Sprintf("%s, %s", relativeTime(a.CreatedAt), label)))
			lines = append(lines, wrap.Render("  "+firstLine(a.Analysis.Summary)))
		}
	}

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(strings.Join(lines, "\n"))
}

// SetSize updates the history view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return line
}

// relativeTime returns a human-friendly relative time string.
func relativeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return t.Local().Format("Jan 02")
	}
}
