package inbox

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/mailpilot/internal/keys"
	"github.com/nhle/mailpilot/internal/model"
	"github.com/nhle/mailpilot/internal/theme"
)

// SelectedMessageMsg is sent when a user opens a message from the list.
type SelectedMessageMsg struct {
	ID string
}

// Model is the inbox list view component.
type Model struct {
	list        list.Model
	keys        *keys.KeyMap
	emails      []model.EmailHeader
	opened      *string
	query       string
	searchMode  bool
	searchInput textinput.Model
	loading     bool
	errText     string
	width       int
	height      int
}

// New creates a new inbox list model.
func New(k *keys.KeyMap, width, height int) Model {
	opened := new(string)
	delegate := ItemDelegate{opened: opened}
	l := list.New([]list.Item{}, delegate, width, height-2)
	l.Title = "Inbox"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	si := textinput.New()
	si.Placeholder = "search inbox..."
	si.Prompt = "/ "
	si.Width = width - 4

	return Model{
		list:        l,
		keys:        k,
		opened:      opened,
		searchInput: si,
		width:       width,
		height:      height,
	}
}

// SetEmails replaces the inbox contents, keeping the active search.
func (m *Model) SetEmails(emails []model.EmailHeader) tea.Cmd {
	m.emails = emails
	return m.applyFilter()
}

// SetLoading toggles the loading placeholder shown for an empty inbox.
func (m *Model) SetLoading(loading bool) {
	m.loading = loading
}

// SetError sets the inline error shown above the list.
func (m *Model) SetError(text string) {
	m.errText = text
}

// SetOpened marks the message currently shown in the message pane.
func (m *Model) SetOpened(id string) {
	*m.opened = id
}

// Searching reports whether the search input has focus.
func (m Model) Searching() bool {
	return m.searchMode
}

// Len returns the number of visible rows.
func (m Model) Len() int {
	return len(m.list.Items())
}

// Update handles messages for the inbox view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if m.searchMode {
			return m.handleSearchKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleSearchKeys processes key input while in search mode.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchMode = false
		m.query = strings.TrimSpace(m.searchInput.Value())
		cmd := m.applyFilter()
		return m, cmd

	case "esc":
		m.searchMode = false
		m.searchInput.Reset()
		m.query = ""
		cmd := m.applyFilter()
		return m, cmd
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// handleNormalKeys processes key input in normal (non-search) mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		item, ok := m.list.SelectedItem().(EmailItem)
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg {
			return SelectedMessageMsg{ID: item.Header.ID}
		}

	case msg.String() == "/":
		m.searchMode = true
		m.searchInput.Reset()
		cmd := m.searchInput.Focus()
		return m, cmd
	}

	// Delegate to the list for navigation keys (up/down/pgup/pgdn)
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// applyFilter rebuilds the list items from the inbox and the search query.
func (m *Model) applyFilter() tea.Cmd {
	query := strings.ToLower(m.query)
	items := make([]list.Item, 0, len(m.emails))
	for _, h := range m.emails {
		item := EmailItem{Header: h}
		if query != "" && !strings.Contains(strings.ToLower(item.FilterValue()), query) {
			continue
		}
		items = append(items, item)
	}
	return m.list.SetItems(items)
}

// View renders the inbox view.
func (m Model) View() string {
	var top string
	if m.errText != "" {
		top = theme.ErrorStyle.Padding(0, 1).Render(m.errText)
	}
	if m.searchMode {
		top = lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Padding(0, 1).
			Render(m.searchInput.View())
	}

	body := m.list.View()
	if len(m.list.Items()) == 0 {
		body = m.renderEmptyState()
	}

	if top == "" {
		return body
	}
	return lipgloss.JoinVertical(lipgloss.Left, top, body)
}

// renderEmptyState shows guidance text when no messages are visible.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height-1).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	switch {
	case m.loading:
		return style.Render("Loading inbox...")
	case m.query != "":
		return style.Render("No matching messages.\nPress / then esc to clear the search.")
	case m.errText != "":
		return style.Render("Press r to try again.")
	default:
		return style.Render("Your inbox is empty.\n\nPress r to refresh.")
	}
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
	m.searchInput.Width = width - 4
}
