package command

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/mailpilot/internal/theme"
)

// CommandMsg is emitted when the user executes a command.
type CommandMsg string

// Entry describes a palette command for completion and help.
type Entry struct {
	Name string
	Args string
	Help string
}

// Commands lists the palette commands in display order.
var Commands = []Entry{
	{Name: "refresh", Help: "reload the inbox"},
	{Name: "summarize", Help: "summarize the open message"},
	{Name: "thread", Help: "summarize the open conversation"},
	{Name: "reply", Help: "draft a reply to the open message"},
	{Name: "draft", Args: "<instructions>", Help: "draft a reply from your own prompt"},
	{Name: "event", Args: "<when>", Help: "create a calendar event for the open message"},
	{Name: "persona", Help: "edit your writing persona"},
	{Name: "history", Help: "show past notifications"},
	{Name: "dismiss", Help: "hide the current notification"},
	{Name: "logout", Help: "sign out and forget the stored credential"},
	{Name: "quit", Help: "exit"},
}

// Parse splits a command line into its name and argument text.
func Parse(line string) (name, args string) {
	line = strings.TrimSpace(line)
	name, args, _ = strings.Cut(line, " ")
	return strings.ToLower(name), strings.TrimSpace(args)
}

// Model is the command palette view.
type Model struct {
	input  textinput.Model
	width  int
	height int
}

// New creates a new command palette model.
func New(width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = "type a command..."
	ti.Prompt = ": "
	ti.ShowSuggestions = true
	ti.Focus()
	ti.Width = width - 6

	names := make([]string, len(Commands))
	for i, c := range Commands {
		names[i] = c.Name
	}
	ti.SetSuggestions(names)

	return Model{
		input:  ti,
		width:  width,
		height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the command palette.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			cmd := strings.TrimSpace(m.input.Value())
			m.input.Reset()
			if cmd != "" {
				return m, func() tea.Msg {
					return CommandMsg(cmd)
				}
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the command palette.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	title := titleStyle.Render("Command Palette")
	input := m.input.View()
	hint := theme.HelpStyle.Render("tab completes | enter runs | esc closes")

	content := lipgloss.JoinVertical(lipgloss.Left, title, input, "", hint)

	return theme.DetailPanelStyle.
		Width(m.width - 4).
		Render(content)
}

// SetSize updates the command palette dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 6
}

// Focus gives keyboard focus to the text input.
func (m *Model) Focus() tea.Cmd {
	return m.input.Focus()
}
