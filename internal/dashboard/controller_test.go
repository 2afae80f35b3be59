package dashboard_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nhle/mailpilot/internal/api"
	"github.com/nhle/mailpilot/internal/credential"
	"github.com/nhle/mailpilot/internal/dashboard"
	"github.com/nhle/mailpilot/internal/model"
	"github.com/nhle/mailpilot/tests/testutil"
)

const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

var (
	alice = model.User{DisplayName: "Alice Smith", Email: "alice@x.com"}
	inbox = []model.EmailHeader{{ID: "1", Subject: "Hi", Sender: "Jane Doe <jane@x.com>", ThreadID: "t1"}}
	hello = &model.EmailContent{EmailHeader: inbox[0], Body: "Hello"}
)

func newController(t *testing.T, backend *testutil.MockBackend, creds credential.Store, opts ...dashboard.Option) *dashboard.Controller {
	t.Helper()
	c := dashboard.New(backend, creds, opts...)
	t.Cleanup(c.Close)
	return c
}

func eventually(t *testing.T, c *dashboard.Controller, cond func(dashboard.State) bool, msg string) dashboard.State {
	t.Helper()
	var last dashboard.State
	require.Eventually(t, func() bool {
		last = c.State()
		return cond(last)
	}, waitFor, tick, msg)
	return last
}

// signIn resolves a session and waits for the first inbox to land.
func signIn(t *testing.T, c *dashboard.Controller) {
	t.Helper()
	c.ResolveSession("tok")
	eventually(t, c, func(s dashboard.State) bool {
		return s.Session != nil && !s.Loading.Inbox && len(s.Inbox) > 0
	}, "session and inbox")
}

func TestController_ResolveSessionRunsOnce(t *testing.T) {
	backend := &testutil.MockBackend{}
	backend.SignedIn(alice, "Concise.", inbox)
	creds := credential.NewMemory("")
	c := newController(t, backend, creds)

	c.ResolveSession("tok")
	c.ResolveSession("tok")
	c.ResolveSession("")

	s := eventually(t, c, func(s dashboard.State) bool {
		return s.Session != nil && s.Persona != "" && len(s.Inbox) == 1
	}, "session resolved")

	assert.Equal(t, "Alice Smith", s.Session.User.DisplayName)
	assert.Equal(t, "Concise.", s.Persona)
	assert.Equal(t, "tok", backend.Token())
	backend.AssertNumberOfCalls(t, "Me", 1)

	stored, err := creds.Get()
	require.NoError(t, err)
	assert.Equal(t, "tok", stored)
}

func TestController_ResolveSessionUsesStoredCredential(t *testing.T) {
	backend := &testutil.MockBackend{}
	backend.SignedIn(alice, "", inbox)
	c := newController(t, backend, credential.NewMemory("stored-token"))

	c.ResolveSession("")
	eventually(t, c, func(s dashboard.State) bool { return s.Session != nil }, "session")
	assert.Equal(t, "stored-token", backend.Token())
}

func TestController_NoCredentialNavigatesToLogin(t *testing.T) {
	backend := &testutil.MockBackend{}
	c := newController(t, backend, credential.NewMemory(""))

	c.ResolveSession("")
	s := eventually(t, c, func(s dashboard.State) bool { return s.Navigation == dashboard.NavLogin }, "login navigation")

	assert.Nil(t, s.Session)
	backend.AssertNotCalled(t, "Me")
}

func TestController_RejectedCredentialIsPurged(t *testing.T) {
	backend := &testutil.MockBackend{}
	backend.On("Me").Return(nil, &api.AuthError{Err: &api.Error{Status: 401, Detail: "Invalid token"}}).Once()
	creds := credential.NewMemory("expired")
	c := newController(t, backend, creds)

	c.ResolveSession("")
	eventually(t, c, func(s dashboard.State) bool { return s.Navigation == dashboard.NavLogin }, "login navigation")

	require.Eventually(t, func() bool {
		_, err := creds.Get()
		return errors.Is(err, credential.ErrNotFound)
	}, waitFor, tick)
}

func TestController_SummarizeStructuredResponse(t *testing.T) {
	backend := &testutil.MockBackend{}
	backend.SignedIn(alice, "", inbox)
	backend.On("Email", "1").Return(hello, nil).Once()
	backend.On("SummarizeText", "Hello").
		Return(`{"summary":"Short","action_items":["Reply"],"key_dates":[]}`, nil).Once()

	history := testutil.NewTestStore(t)
	c := newController(t, backend, credential.NewMemory(""), dashboard.WithRecorder(history))
	signIn(t, c)

	c.SelectMessage("1")
	eventually(t, c, func(s dashboard.State) bool { return s.Selected != nil }, "message loaded")

	c.SummarizeBody()
	s := eventually(t, c, func(s dashboard.State) bool { return s.Analysis != nil }, "analysis")

	assert.Equal(t, model.AIAnalysis{
		Summary:     "Short",
		ActionItems: []string{"Reply"},
		KeyDates:    []string{},
		Kind:        model.AnalysisStructured,
	}, *s.Analysis)
	assert.False(t, s.Loading.Summarizing)

	require.Eventually(t, func() bool {
		recs, err := history.AnalysesForMessage(context.Background(), "1")
		return err == nil && len(recs) == 1
	}, waitFor, tick, "analysis recorded")
}

func TestController_StaleMessageNeverOverwritesNewerSelection(t *testing.T) {
	twoInbox := append([]model.EmailHeader{}, inbox...)
	twoInbox = append(twoInbox, model.EmailHeader{ID: "2", Subject: "Lunch", Sender: "bob@x.com"})

	release := make(chan time.Time)
	staleReturned := make(chan struct{})
	backend := &testutil.MockBackend{}
	backend.SignedIn(alice, "", twoInbox)
	backend.On("Email", "1").Return(hello, nil).
		WaitUntil(release).
		Run(func(mock.Arguments) { close(staleReturned) }).
		Once()
	backend.On("Email", "2").Return(&model.EmailContent{EmailHeader: twoInbox[1], Body: "Lunch?"}, nil).Once()

	c := newController(t, backend, credential.NewMemory(""))
	signIn(t, c)

	c.SelectMessage("1")
	c.SelectMessage("2")
	eventually(t, c, func(s dashboard.State) bool { return s.Selected != nil }, "message 2 loaded")

	close(release)
	select {
	case <-staleReturned:
	case <-time.After(waitFor):
		t.Fatal("stale request never returned")
	}

	assert.Never(t, func() bool {
		s := c.State()
		return s.Selected == nil || s.Selected.ID != "2" || s.Loading.MessageContent
	}, 200*time.Millisecond, tick, "stale content overwrote the newer selection")
	backend.AssertExpectations(t)
}

func TestController_SendSuccessNotifiesAndExpires(t *testing.T) {
	backend := &testutil.MockBackend{}
	backend.SignedIn(alice, "", inbox)
	backend.On("Email", "1").Return(hello, nil).Once()
	backend.On("GenerateReply", mock.AnythingOfType("string")).Return("Friday works.", nil).Once()
	backend.On("Send", api.SendRequest{To: "jane@x.com", Subject: "Re: Hi", Body: "Friday works."}).Return(nil).Once()

	history := testutil.NewTestStore(t)
	c := newController(t, backend, credential.NewMemory(""),
		dashboard.WithRecorder(history),
		dashboard.WithNotificationTTL(150*time.Millisecond))
	signIn(t, c)

	c.SelectMessage("1")
	eventually(t, c, func(s dashboard.State) bool { return s.Selected != nil }, "message loaded")
	c.OpenDraftReply()
	s := eventually(t, c, func(s dashboard.State) bool { return !s.Loading.Drafting && s.Draft.Text == "Friday works." }, "draft")

	c.SendReply(s.Draft.Text)
	s = eventually(t, c, func(s dashboard.State) bool { return s.Notification != nil }, "notification")
	assert.Equal(t, model.NotificationSuccess, s.Notification.Kind)
	assert.Equal(t, dashboard.SendSucceededMessage, s.Notification.Message)
	assert.False(t, s.Draft.Open)

	eventually(t, c, func(s dashboard.State) bool { return s.Notification == nil }, "notification expired")

	var notes []model.Notification
	require.Eventually(t, func() bool {
		var err error
		notes, err = history.RecentNotifications(context.Background(), 0)
		return err == nil && len(notes) == 1
	}, waitFor, tick, "notification recorded")
	assert.Equal(t, dashboard.SendSucceededMessage, notes[0].Message)
	assert.NotEqual(t, s.Notification.ID, notes[0].ID)
}

func TestController_SendFailureKeepsDraft(t *testing.T) {
	backend := &testutil.MockBackend{}
	backend.SignedIn(alice, "", inbox)
	backend.On("Email", "1").Return(hello, nil).Once()
	backend.On("GenerateReply", mock.AnythingOfType("string")).Return("Friday works.", nil).Once()
	backend.On("Send", mock.Anything).Return(&api.Error{Status: 502, Detail: "Gmail unavailable"}).Once()

	c := newController(t, backend, credential.NewMemory(""))
	signIn(t, c)

	c.SelectMessage("1")
	eventually(t, c, func(s dashboard.State) bool { return s.Selected != nil }, "message loaded")
	c.OpenDraftReply()
	eventually(t, c, func(s dashboard.State) bool { return s.Draft.Text == "Friday works." }, "draft")
	c.EditDraft("Friday works for me.")
	c.SendReply("Friday works for me.")

	s := eventually(t, c, func(s dashboard.State) bool { return s.Notification != nil }, "notification")
	assert.Equal(t, model.NotificationError, s.Notification.Kind)
	assert.Contains(t, s.Notification.Message, "Gmail unavailable")
	assert.True(t, s.Draft.Open)
	assert.Equal(t, "Friday works for me.", s.Draft.Text)
	assert.False(t, s.Loading.Sending)
}

func TestController_LogoutClearsCredential(t *testing.T) {
	backend := &testutil.MockBackend{}
	backend.SignedIn(alice, "", inbox)
	creds := credential.NewMemory("")
	c := newController(t, backend, creds)
	signIn(t, c)

	c.Logout()
	eventually(t, c, func(s dashboard.State) bool { return s.Navigation == dashboard.NavLogin }, "login navigation")
	require.Eventually(t, func() bool {
		_, err := creds.Get()
		return errors.Is(err, credential.ErrNotFound)
	}, waitFor, tick)
}

func TestController_UpdatesDeliverSnapshots(t *testing.T) {
	backend := &testutil.MockBackend{}
	c := dashboard.New(backend, credential.NewMemory(""))

	c.ResolveSession("")
	var last dashboard.State
	timeout := time.After(waitFor)
	for last.Navigation != dashboard.NavLogin {
		select {
		case s, ok := <-c.Updates():
			require.True(t, ok)
			last = s
		case <-timeout:
			t.Fatal("no login navigation snapshot")
		}
	}

	c.Close()
	for range c.Updates() {
	}
}

func TestController_CloseWaitsForInFlightRequests(t *testing.T) {
	backend := &testutil.MockBackend{}
	backend.On("Me").Return(&alice, nil).WaitUntil(time.After(50 * time.Millisecond)).Maybe()
	c := dashboard.New(backend, credential.NewMemory("tok"))

	c.ResolveSession("")
	c.Close()
	c.Close()

	// Dispatch after Close must not block.
	c.Dispatch(dashboard.LoadInbox{})
	assert.Nil(t, c.State().Session)
}
