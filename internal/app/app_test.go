package app

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/mailpilot/internal/dashboard"
	"github.com/nhle/mailpilot/internal/model"
	appsync "github.com/nhle/mailpilot/internal/sync"
	"github.com/nhle/mailpilot/internal/ui/draft"
	"github.com/nhle/mailpilot/internal/ui/inbox"
	"github.com/nhle/mailpilot/internal/ui/login"
	"github.com/nhle/mailpilot/internal/ui/message"
)

// fakeDashboard records the commands the UI issues.
type fakeDashboard struct {
	updates chan dashboard.State
	calls   []string
	args    []string
	closed  bool
}

func newFakeDashboard() *fakeDashboard {
	return &fakeDashboard{updates: make(chan dashboard.State, 1)}
}

func (f *fakeDashboard) record(name string, arg string) {
	f.calls = append(f.calls, name)
	f.args = append(f.args, arg)
}

func (f *fakeDashboard) State() dashboard.State { return dashboard.State{} }
func (f *fakeDashboard) Updates() <-chan dashboard.State { return f.updates }
func (f *fakeDashboard) Close() { f.closed = true }
func (f *fakeDashboard) ResolveSession(c string) { f.record("ResolveSession", c) }
func (f *fakeDashboard) LoadInbox() { f.record("LoadInbox", "") }
func (f *fakeDashboard) SelectMessage(id string) { f.record("SelectMessage", id) }
func (f *fakeDashboard) SummarizeBody() { f.record("SummarizeBody", "") }
func (f *fakeDashboard) SummarizeThread() { f.record("SummarizeThread", "") }
func (f *fakeDashboard) OpenDraftReply() { f.record("OpenDraftReply", "") }
func (f *fakeDashboard) GenerateDraft(p string) { f.record("GenerateDraft", p) }
func (f *fakeDashboard) RegenerateDraft() { f.record("RegenerateDraft", "") }
func (f *fakeDashboard) EditDraft(t string) { f.record("EditDraft", t) }
func (f *fakeDashboard) CloseDraft() { f.record("CloseDraft", "") }
func (f *fakeDashboard) SendReply(b string) { f.record("SendReply", b) }
func (f *fakeDashboard) CreateCalendarEvent(d string) { f.record("CreateCalendarEvent", d) }
func (f *fakeDashboard) OpenSettings() { f.record("OpenSettings", "") }
func (f *fakeDashboard) CloseSettings() { f.record("CloseSettings", "") }
func (f *fakeDashboard) SavePersona(t string) { f.record("SavePersona", t) }
func (f *fakeDashboard) Logout() { f.record("Logout", "") }
func (f *fakeDashboard) DismissNotification() { f.record("DismissNotification", "") }
func (f *fakeDashboard) SummarizeAttachment(a model.Attachment) {
	f.record("SummarizeAttachment", a.ID)
}

func (f *fakeDashboard) last() string {
	if len(f.calls) == 0 {
		return ""
	}
	return f.calls[len(f.calls)-1]
}

// newTestModel returns a sized model and the dashboards it created, in
// creation order.
func newTestModel(t *testing.T) (Model, *[]*fakeDashboard) {
	t.Helper()
	created := &[]*fakeDashboard{}
	m := New(Options{
		NewDashboard: func() Dashboard {
			d := newFakeDashboard()
			*created = append(*created, d)
			return d
		},
		LoginURL: "http://backend/auth/google",
	})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return next.(Model), created
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func push(t *testing.T, m Model, s dashboard.State) Model {
	t.Helper()
	m, _ = update(t, m, stateMsg{gen: m.generation, msg: appsync.StateMsg{State: s}})
	return m
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func signedInState() dashboard.State {
	return dashboard.State{
		Session: &model.Session{User: model.User{DisplayName: "Alice Smith"}, Token: "tok"},
		Inbox: []model.EmailHeader{
			{ID: "m1", Subject: "Lunch", Sender: "Bob <bob@example.com>", Snippet: "Friday?"},
		},
	}
}

func openState() dashboard.State {
	s := signedInState()
	s.SelectedID = "m1"
	s.Selected = &model.EmailContent{
		EmailHeader: s.Inbox[0],
		Body:        "<p>Lunch on Friday?</p>",
		Attachments: []model.Attachment{{ID: "a1", Filename: "menu.pdf"}},
	}
	return s
}

func TestInit_ResolvesWithExplicitCredential(t *testing.T) {
	created := &[]*fakeDashboard{}
	m := New(Options{
		NewDashboard: func() Dashboard {
			d := newFakeDashboard()
			*created = append(*created, d)
			return d
		},
		Credential: "cli-token",
	})

	cmd := m.Init()
	require.NotNil(t, cmd)
	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok)
	batch[0]()

	require.Len(t, *created, 1)
	assert.Equal(t, []string{"ResolveSession"}, (*created)[0].calls)
	assert.Equal(t, []string{"cli-token"}, (*created)[0].args)
}

func TestStateSnapshot_SignedOutShowsLogin(t *testing.T) {
	m, _ := newTestModel(t)

	m = push(t, m, dashboard.State{Navigation: dashboard.NavLogin})

	assert.Equal(t, ViewLogin, m.currentView)
	assert.Contains(t, m.View(), "Sign in")
}

func TestStateSnapshot_StaleGenerationIgnored(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = update(t, m, stateMsg{gen: m.generation + 1, msg: appsync.StateMsg{State: signedInState()}})

	assert.Nil(t, m.state.Session)
}

func TestSignIn_ReplacesController(t *testing.T) {
	m, created := newTestModel(t)
	m = push(t, m, dashboard.State{Navigation: dashboard.NavLogin})

	m, cmd := update(t, m, login.TokenMsg{Token: "fresh"})
	require.NotNil(t, cmd)

	require.Len(t, *created, 2)
	assert.Equal(t, 1, m.generation)
	assert.Equal(t, ViewInbox, m.currentView)

	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok)
	batch[0]()
	batch[1]()
	assert.True(t, (*created)[0].closed)
	assert.Equal(t, []string{"ResolveSession"}, (*created)[1].calls)
	assert.Equal(t, []string{"fresh"}, (*created)[1].args)
}

func TestInboxKeys(t *testing.T) {
	m, created := newTestModel(t)
	dash := (*created)[0]
	m = push(t, m, signedInState())

	m, _ = update(t, m, keyRunes("r"))
	assert.Equal(t, "LoadInbox", dash.last())

	m, _ = update(t, m, keyRunes("p"))
	assert.Equal(t, "OpenSettings", dash.last())

	m, _ = update(t, m, inbox.SelectedMessageMsg{ID: "m1"})
	assert.Equal(t, "SelectMessage", dash.last())
	assert.Equal(t, ViewMessage, m.currentView)
}

func TestMessageActions(t *testing.T) {
	m, created := newTestModel(t)
	dash := (*created)[0]
	m = push(t, m, openState())
	m.currentView = ViewMessage

	m, _ = update(t, m, message.SummarizeMsg{Target: dashboard.TargetBody})
	assert.Equal(t, "SummarizeBody", dash.last())

	m, _ = update(t, m, message.SummarizeMsg{
		Target:     dashboard.TargetAttachment,
		Attachment: model.Attachment{ID: "a1"},
	})
	assert.Equal(t, "SummarizeAttachment", dash.last())
	assert.Equal(t, "a1", dash.args[len(dash.args)-1])

	m, _ = update(t, m, message.ReplyMsg{})
	assert.Equal(t, "OpenDraftReply", dash.last())

	_, _ = update(t, m, message.EventMsg{})
}

func TestDraftFollowsState(t *testing.T) {
	m, created := newTestModel(t)
	dash := (*created)[0]
	s := openState()
	m = push(t, m, s)
	m.currentView = ViewMessage

	s.Draft = model.DraftState{Open: true, Text: "Hi Bob", Prompt: "p"}
	m = push(t, m, s)
	assert.Equal(t, ViewDraft, m.currentView)

	m, _ = update(t, m, draft.SendMsg{Body: "Hi Bob"})
	assert.Equal(t, "SendReply", dash.last())

	s.Draft = model.DraftState{}
	m = push(t, m, s)
	assert.Equal(t, ViewMessage, m.currentView)
}

func TestSettingsFollowState(t *testing.T) {
	m, _ := newTestModel(t)
	s := signedInState()
	m = push(t, m, s)

	s.SettingsOpen = true
	s.PersonaDraft = "Be brief."
	m = push(t, m, s)
	assert.Equal(t, ViewPersona, m.currentView)

	s.SettingsOpen = false
	s.PersonaDraft = ""
	m = push(t, m, s)
	assert.Equal(t, ViewInbox, m.currentView)
}

func TestNotificationShownInStatusBar(t *testing.T) {
	m, created := newTestModel(t)
	s := signedInState()
	s.Notification = &model.Notification{ID: "n1", Kind: model.NotificationSuccess, Message: "Email sent successfully!"}
	m = push(t, m, s)

	assert.Contains(t, m.View(), "Email sent successfully!")

	_, _ = update(t, m, keyRunes("x"))
	assert.Equal(t, "DismissNotification", (*created)[0].last())
}

func TestCommandPalette(t *testing.T) {
	m, created := newTestModel(t)
	dash := (*created)[0]
	m = push(t, m, openState())

	cmd := m.executeCommand("draft decline politely")
	assert.Nil(t, cmd)
	assert.Equal(t, "GenerateDraft", dash.last())
	assert.Equal(t, "decline politely", dash.args[len(dash.args)-1])

	m.executeCommand("event next Friday at noon")
	assert.Equal(t, "CreateCalendarEvent", dash.last())

	m.executeCommand("logout")
	assert.Equal(t, "Logout", dash.last())
}

func TestQuitOnlyFromInbox(t *testing.T) {
	m, _ := newTestModel(t)
	m = push(t, m, openState())

	m.currentView = ViewMessage
	_, cmd := update(t, m, keyRunes("q"))
	if cmd != nil {
		assert.NotEqual(t, tea.Quit(), cmd())
	}

	m.currentView = ViewInbox
	_, cmd = update(t, m, keyRunes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestHeaderShowsUserAndActivity(t *testing.T) {
	m, _ := newTestModel(t)
	s := signedInState()
	s.Loading.Summarizing = true
	m = push(t, m, s)

	assert.Contains(t, m.headerTitle(), "Alice Smith")
	assert.Contains(t, m.activity(), "summarizing")
}
