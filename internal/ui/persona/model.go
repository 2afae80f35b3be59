package persona

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/mailpilot/internal/theme"
)

// SaveMsg is dispatched when the user submits the persona form.
type SaveMsg struct {
	Text string
}

// CancelMsg is dispatched when the user abandons the persona form.
type CancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	persona string
}

// Model is the writing-persona settings form.
type Model struct {
	form      *huh.Form
	fb        *formBindings
	submitted bool
	saving    bool
	width     int
	height    int
}

// New creates a new persona form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// Start initializes the form with the given persona text.
func (m *Model) Start(text string) tea.Cmd {
	m.fb.persona = text
	m.submitted = false
	m.saving = false
	m.form = m.buildForm()
	return m.form.Init()
}

// SetSaving reflects the save request state. A save that settles while
// the form is still shown failed, so the form reopens with the submitted
// text.
func (m *Model) SetSaving(saving bool) tea.Cmd {
	wasSaving := m.saving
	m.saving = saving
	if wasSaving && !saving && m.submitted {
		return m.Start(m.fb.persona)
	}
	return nil
}

// Update handles messages for the persona form.
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
		text := m.fb.persona
		return m, func() tea.Msg { return SaveMsg{Text: text} }
	}
	if m.form.State == huh.StateAborted {
		m.submitted = true
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the persona form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render("Writing Persona") + "\n" + m.form.View()
	if m.saving {
		content += "\n" + theme.DimmedStyle.Render("Saving...")
	}

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	if m.form != nil {
		m.form = m.form.WithWidth(m.formWidth()).WithHeight(m.formHeight())
	}
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("How should drafted replies sound?").
				Description("Describe your tone, sign-off and anything replies should always mention.").
				Placeholder("Friendly but brief. Sign off with my first name.").
				CharLimit(4000).
				Lines(8).
				Value(&m.fb.persona),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
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

func (m Model) formHeight() int {
	h := m.height - 6
	if h < 10 {
		h = 10
	}
	return h
}
