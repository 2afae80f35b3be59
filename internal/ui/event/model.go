package event

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/mailpilot/internal/theme"
)

// CreateMsg is dispatched with the date phrase the user picked.
type CreateMsg struct {
	DateText string
}

// CancelMsg is dispatched when the user abandons the picker.
type CancelMsg struct{}

// otherOption is the select value that reveals the free-text input.
const otherOption = "\x00other"

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	choice string
	custom string
}

// Model is the calendar event date picker. It offers the key dates found
// by the last analysis plus a free-text fallback.
type Model struct {
	form      *huh.Form
	fb        *formBindings
	subject   string
	submitted bool
	width     int
	height    int
}

// New creates a new event picker model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// Start initializes the picker for a message subject and its key dates.
func (m *Model) Start(subject string, keyDates []string) tea.Cmd {
	m.subject = subject
	m.fb.choice = ""
	m.fb.custom = ""
	m.submitted = false
	m.form = m.buildForm(keyDates)
	return m.form.Init()
}

// Update handles messages for the event picker.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil || m.submitted {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.submitted = true
		date := m.selectedDate()
		return m, func() tea.Msg { return CreateMsg{DateText: date} }
	}
	if m.form.State == huh.StateAborted {
		m.submitted = true
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// selectedDate returns the picked key date or the typed phrase.
func (m Model) selectedDate() string {
	if m.fb.choice == otherOption || m.fb.choice == "" {
		return strings.TrimSpace(m.fb.custom)
	}
	return m.fb.choice
}

// View renders the event picker.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	title := titleStyle.Render(fmt.Sprintf("New event: %s", m.subject))

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(title + "\n" + m.form.View())
}

// SetSize updates the picker dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm(keyDates []string) *huh.Form {
	custom := huh.NewInput().
		Title("When?").
		Placeholder("e.g. next Tuesday at 3pm").
		Value(&m.fb.custom).
		Validate(validateRequired)

	if len(keyDates) == 0 {
		m.fb.choice = otherOption
		return huh.NewForm(huh.NewGroup(custom)).
			WithWidth(m.formWidth())
	}

	opts := make([]huh.Option[string], 0, len(keyDates)+1)
	for _, d := range keyDates {
		opts = append(opts, huh.NewOption(d, d))
	}
	opts = append(opts, huh.NewOption("Other...", otherOption))
	m.fb.choice = keyDates[0]

	fb := m.fb
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Pick a date from the message").
				Options(opts...).
				Value(&m.fb.choice),
		),
		huh.NewGroup(custom).
			WithHideFunc(func() bool { return fb.choice != otherOption }),
	).WithWidth(m.formWidth())
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func validateRequired(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("a date is required")
	}
	return nil
}
