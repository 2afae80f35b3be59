package draft

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/mailpilot/internal/dashboard"
	"github.com/nhle/mailpilot/internal/keys"
	"github.com/nhle/mailpilot/internal/model"
)

func openDraft(text string) dashboard.State {
	return dashboard.State{
		SelectedID: "m1",
		Selected: &model.EmailContent{
			EmailHeader: model.EmailHeader{ID: "m1", Subject: "Lunch", Sender: "Bob <bob@example.com>"},
		},
		Draft: model.DraftState{Open: true, Text: text, Prompt: "prompt"},
	}
}

func typeRune(t *testing.T, m Model, r rune) (Model, string) {
	t.Helper()

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	require.NotNil(t, cmd)
	return m, editedText(t, cmd())
}

// editedText digs the EditedMsg out of a possibly batched command result.
func editedText(t *testing.T, msg tea.Msg) string {
	t.Helper()

	switch msg := msg.(type) {
	case EditedMsg:
		return msg.Text
	case tea.BatchMsg:
		for _, c := range msg {
			if c == nil {
				continue
			}
			if e, ok := c().(EditedMsg); ok {
				return e.Text
			}
		}
	}
	t.Fatalf("no EditedMsg in %T", msg)
	return ""
}

func TestSetState_LoadsControllerText(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 24)
	m.SetState(openDraft("Friday works."))

	assert.Equal(t, "Friday works.", m.input.Value())
}

func TestSetState_LateEchoDoesNotRewriteEditor(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 24)
	m.SetState(openDraft("Hi"))
	m.Focus()

	m, first := typeRune(t, m, '!')
	m, second := typeRune(t, m, '!')
	assert.Equal(t, "Hi!", first)
	assert.Equal(t, "Hi!!", second)

	m.SetState(openDraft(first))
	assert.Equal(t, "Hi!!", m.input.Value(), "an older echo must not overwrite newer typing")

	m.SetState(openDraft(first))
	assert.Equal(t, "Hi!!", m.input.Value(), "a repeated echo is skipped too")

	m.SetState(openDraft(second))
	assert.Equal(t, "Hi!!", m.input.Value())

	m, third := typeRune(t, m, '?')
	assert.Equal(t, "Hi!!?", third)
	assert.Equal(t, "Hi!!?", m.input.Value())
}

func TestSetState_ControllerTextReplacesEdits(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 24)
	m.SetState(openDraft("Hi"))
	m.Focus()
	m, _ = typeRune(t, m, '!')

	m.SetState(openDraft(dashboard.DraftPlaceholder))
	assert.Equal(t, dashboard.DraftPlaceholder, m.input.Value())

	m.SetState(dashboard.State{})
	assert.Empty(t, m.input.Value())
}

func TestSend_RejectsOnlyEmptyBody(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 24)
	m.SetState(openDraft(""))

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.Nil(t, cmd)

	m.SetState(openDraft("Thanks!"))
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)
	assert.Equal(t, SendMsg{Body: "Thanks!"}, cmd())
}
