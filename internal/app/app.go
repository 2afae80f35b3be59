package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/mailpilot/internal/dashboard"
	"github.com/nhle/mailpilot/internal/keys"
	"github.com/nhle/mailpilot/internal/model"
	appsync "github.com/nhle/mailpilot/internal/sync"
	"github.com/nhle/mailpilot/internal/ui"
	"github.com/nhle/mailpilot/internal/ui/command"
	"github.com/nhle/mailpilot/internal/ui/draft"
	"github.com/nhle/mailpilot/internal/ui/event"
	helpview "github.com/nhle/mailpilot/internal/ui/help"
	"github.com/nhle/mailpilot/internal/ui/history"
	"github.com/nhle/mailpilot/internal/ui/inbox"
	"github.com/nhle/mailpilot/internal/ui/login"
	"github.com/nhle/mailpilot/internal/ui/message"
	"github.com/nhle/mailpilot/internal/ui/persona"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewInbox ViewState = iota
	ViewMessage
	ViewDraft
	ViewPersona
	ViewEvent
	ViewHistory
	ViewHelp
	ViewCommand
	ViewLogin
)

// Dashboard is the controller surface the UI drives.
// *dashboard.Controller satisfies it.
type Dashboard interface {
	State() dashboard.State
	Updates() <-chan dashboard.State
	Close()

	ResolveSession(credential string)
	LoadInbox()
	SelectMessage(id string)
	SummarizeBody()
	SummarizeAttachment(att model.Attachment)
	SummarizeThread()
	OpenDraftReply()
	GenerateDraft(prompt string)
	RegenerateDraft()
	EditDraft(text string)
	CloseDraft()
	SendReply(body string)
	CreateCalendarEvent(dateText string)
	OpenSettings()
	CloseSettings()
	SavePersona(text string)
	Logout()
	DismissNotification()
}

var _ Dashboard = (*dashboard.Controller)(nil)

// Options configures the root model.
type Options struct {
	// NewDashboard starts a controller. It is called once at startup and
	// again after every sign-in, since a controller resolves its session
	// only once.
	NewDashboard func() Dashboard

	// Credential is an explicit token to resolve the first session with.
	// Empty means use the stored credential.
	Credential string

	// History backs the history view. Nil disables it.
	History history.Reader

	LoginURL     string
	RedirectAddr string
}

// stateMsg tags a subscription message with the controller generation it
// came from, so messages from a replaced controller are dropped.
type stateMsg struct {
	gen int
	msg tea.Msg
}

// Model is the root Bubble Tea model that routes between views and drives
// the dashboard controller.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	keys         *keys.KeyMap
	opts         Options

	dash       Dashboard
	sub        appsync.Subscription
	generation int
	state      dashboard.State

	spinner     spinner.Model
	inboxView   inbox.Model
	messageView message.Model
	draftView   draft.Model
	personaView persona.Model
	eventView   event.Model
	historyView history.Model
	helpView    helpview.Model
	commandView command.Model
	loginView   login.Model

	ready       bool
	unreadCount int
}

// New creates the root application model and starts the first controller.
func New(opts Options) Model {
	k := keys.DefaultKeyMap()
	dash := opts.NewDashboard()

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot

	return Model{
		currentView: ViewInbox,
		keys:        k,
		opts:        opts,
		dash:        dash,
		sub:         appsync.Subscribe(dash),
		spinner:     sp,
		inboxView:   inbox.New(k, 80, 24),
		messageView: message.New(k, 80, 24),
		draftView:   draft.New(k, 80, 24),
		personaView: persona.New(80, 24),
		eventView:   event.New(80, 24),
		historyView: history.New(opts.History, k, 80, 24),
		helpView:    helpview.New(k, 80, 24),
		commandView: command.New(80, 24),
		loginView:   login.New(opts.LoginURL, opts.RedirectAddr, 80, 24),
	}
}

// Init resolves the session and starts listening for state snapshots.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.resolveSession(m.opts.Credential),
		m.waitForState(),
	)
}

// Close stops the current controller. Call it after the program exits.
func (m Model) Close() {
	m.loginView.Stop()
	if m.dash != nil {
		m.dash.Close()
	}
}

func (m Model) resolveSession(credential string) tea.Cmd {
	d := m.dash
	return func() tea.Msg {
		d.ResolveSession(credential)
		return nil
	}
}

// waitForState waits for the next snapshot of the current controller.
func (m Model) waitForState() tea.Cmd {
	gen := m.generation
	wait := m.sub.WaitForNextState()
	return func() tea.Msg {
		return stateMsg{gen: gen, msg: wait()}
	}
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		contentWidth := m.layout.ContentWidth()
		contentHeight := m.layout.ContentHeight()
		m.inboxView.SetSize(contentWidth, contentHeight)
		m.messageView.SetSize(contentWidth, contentHeight)
		m.draftView.SetSize(contentWidth, contentHeight)
		m.personaView.SetSize(contentWidth, contentHeight)
		m.eventView.SetSize(contentWidth, contentHeight)
		m.historyView.SetSize(contentWidth, contentHeight)
		m.helpView.SetSize(contentWidth, contentHeight)
		m.commandView.SetSize(contentWidth, contentHeight)
		m.loginView.SetSize(contentWidth, contentHeight)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case stateMsg:
		if msg.gen != m.generation {
			return m, nil
		}
		st, ok := msg.msg.(appsync.StateMsg)
		if !ok {
			// The controller was closed; nothing more will arrive.
			return m, nil
		}
		cmd := m.applyState(st.State)
		return m, tea.Batch(cmd, m.waitForState())

	case spinner.TickMsg:
		if !m.state.Loading.Any() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case login.TokenMsg:
		cmd := m.signIn(msg.Token)
		return m, cmd

	case inbox.SelectedMessageMsg:
		m.dash.SelectMessage(msg.ID)
		m.currentView = ViewMessage
		return m, nil

	case message.BackMsg:
		m.currentView = ViewInbox
		return m, nil

	case message.SummarizeMsg:
		switch msg.Target {
		case dashboard.TargetAttachment:
			m.dash.SummarizeAttachment(msg.Attachment)
		case dashboard.TargetThread:
			m.dash.SummarizeThread()
		default:
			m.dash.SummarizeBody()
		}
		return m, nil

	case message.ReplyMsg:
		m.dash.OpenDraftReply()
		return m, nil

	case message.EventMsg:
		cmd := m.openEventPicker()
		return m, cmd

	case event.CreateMsg:
		m.dash.CreateCalendarEvent(msg.DateText)
		m.currentView = ViewMessage
		return m, nil

	case event.CancelMsg:
		m.currentView = ViewMessage
		return m, nil

	case draft.EditedMsg:
		m.dash.EditDraft(msg.Text)
		return m, nil

	case draft.SendMsg:
		m.dash.SendReply(msg.Body)
		return m, nil

	case draft.RegenerateMsg:
		m.dash.RegenerateDraft()
		return m, nil

	case draft.CloseMsg:
		m.dash.CloseDraft()
		return m, nil

	case persona.SaveMsg:
		m.dash.SavePersona(msg.Text)
		return m, nil

	case persona.CancelMsg:
		m.dash.CloseSettings()
		return m, nil

	case history.LoadedMsg:
		m.unreadCount = 0
		var cmd tea.Cmd
		m.historyView, cmd = m.historyView.Update(msg)
		return m, cmd

	case history.CloseMsg:
		m.currentView = m.previousView
		return m, nil

	case command.CommandMsg:
		m.currentView = m.previousView
		cmd := m.executeCommand(string(msg))
		return m, cmd

	case tea.KeyMsg:
		// Global keys that work regardless of current view
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		}

		if !m.textEntry() {
			switch {
			case key.Matches(msg, m.keys.Quit):
				if m.currentView == ViewInbox {
					return m, tea.Quit
				}

			case key.Matches(msg, m.keys.Back):
				if m.currentView == ViewHelp {
					m.currentView = m.previousView
					return m, nil
				}

			case key.Matches(msg, m.keys.Help):
				if m.currentView == ViewHelp {
					m.currentView = m.previousView
					return m, nil
				}
				m.previousView = m.currentView
				m.currentView = ViewHelp
				return m, nil

			case key.Matches(msg, m.keys.Command):
				m.previousView = m.currentView
				m.currentView = ViewCommand
				cmd := m.commandView.Focus()
				return m, cmd

			case key.Matches(msg, m.keys.Dismiss):
				if m.state.Notification != nil {
					m.dash.DismissNotification()
					return m, nil
				}

			case key.Matches(msg, m.keys.Refresh):
				if m.currentView == ViewInbox {
					m.dash.LoadInbox()
					return m, nil
				}

			case key.Matches(msg, m.keys.History):
				if m.currentView == ViewInbox || m.currentView == ViewMessage {
					cmd := m.openHistory()
					return m, cmd
				}

			case key.Matches(msg, m.keys.Persona):
				if m.currentView == ViewInbox || m.currentView == ViewMessage {
					m.dash.OpenSettings()
					return m, nil
				}
			}
		} else if m.currentView == ViewCommand && key.Matches(msg, m.keys.Back) {
			m.currentView = m.previousView
			return m, nil
		}
	}

	// Delegate to active sub-view
	return m.updateActiveView(msg)
}

// textEntry reports whether the active view consumes printable keys.
func (m Model) textEntry() bool {
	switch m.currentView {
	case ViewDraft, ViewPersona, ViewEvent, ViewLogin, ViewCommand:
		return true
	case ViewInbox:
		return m.inboxView.Searching()
	}
	return false
}

// applyState syncs every view with a controller snapshot and follows the
// navigation it implies.
func (m *Model) applyState(s dashboard.State) tea.Cmd {
	prev := m.state
	m.state = s
	var cmds []tea.Cmd

	if !sameInbox(prev.Inbox, s.Inbox) {
		cmds = append(cmds, m.inboxView.SetEmails(s.Inbox))
	}
	m.inboxView.SetLoading(s.Loading.Inbox)
	m.inboxView.SetError(s.Inline.Inbox)
	m.inboxView.SetOpened(s.SelectedID)
	m.messageView.SetState(s)
	m.draftView.SetState(s)
	if s.SettingsOpen {
		cmds = append(cmds, m.personaView.SetSaving(s.Loading.PersonaSaving))
	}

	if s.Notification != nil && (prev.Notification == nil || prev.Notification.ID != s.Notification.ID) {
		if m.historyView.Enabled() {
			m.unreadCount++
		}
	}

	if s.Loading.Any() && !prev.Loading.Any() {
		cmds = append(cmds, m.spinner.Tick)
	}

	switch {
	case s.Navigation == dashboard.NavLogin:
		if m.currentView != ViewLogin {
			m.currentView = ViewLogin
			cmds = append(cmds, m.loginView.Start())
		}
		return tea.Batch(cmds...)

	case m.currentView == ViewLogin && s.Session != nil:
		m.loginView.Stop()
		m.currentView = ViewInbox
	}

	switch {
	case s.SettingsOpen && !prev.SettingsOpen:
		m.previousView = m.currentView
		m.currentView = ViewPersona
		cmds = append(cmds, m.personaView.Start(s.PersonaDraft))

	case !s.SettingsOpen && m.currentView == ViewPersona:
		m.currentView = m.returnView()
	}

	switch {
	case s.Draft.Open && !prev.Draft.Open:
		m.currentView = ViewDraft
		cmds = append(cmds, m.draftView.Focus())

	case !s.Draft.Open && m.currentView == ViewDraft:
		m.currentView = ViewMessage
	}

	if s.SelectedID == "" && (m.currentView == ViewMessage || m.currentView == ViewEvent) {
		m.currentView = ViewInbox
	}

	return tea.Batch(cmds...)
}

// returnView picks where to land after an overlay closes.
func (m Model) returnView() ViewState {
	switch m.previousView {
	case ViewMessage:
		if m.state.SelectedID != "" {
			return ViewMessage
		}
	case ViewHistory:
		return ViewHistory
	}
	return ViewInbox
}

// sameInbox reports whether two inbox slices are the same snapshot.
func sameInbox(a, b []model.EmailHeader) bool {
	if len(a) != len(b) {
		return false
	}
	return len(a) == 0 || &a[0] == &b[0]
}

// signIn replaces the controller with a fresh one and resolves its session
// with token. The old controller is closed off the UI goroutine.
func (m *Model) signIn(token string) tea.Cmd {
	m.loginView.Stop()
	old := m.dash
	m.dash = m.opts.NewDashboard()
	m.sub = appsync.Subscribe(m.dash)
	m.generation++
	m.state = dashboard.State{}
	m.currentView = ViewInbox

	return tea.Batch(
		func() tea.Msg {
			old.Close()
			return nil
		},
		m.resolveSession(token),
		m.waitForState(),
	)
}

func (m *Model) openEventPicker() tea.Cmd {
	sel := m.state.Selected
	if sel == nil {
		return nil
	}
	var dates []string
	if a := m.state.Analysis; a != nil && !a.Error {
		dates = a.KeyDates
	}
	m.currentView = ViewEvent
	return m.eventView.Start(sel.Subject, dates)
}

func (m *Model) openHistory() tea.Cmd {
	m.previousView = m.currentView
	m.currentView = ViewHistory
	return m.historyView.Load(m.state.SelectedID)
}

// executeCommand runs a command palette entry.
func (m *Model) executeCommand(line string) tea.Cmd {
	name, args := command.Parse(line)

	switch name {
	case "quit", "q":
		return tea.Quit
	case "refresh":
		m.dash.LoadInbox()
	case "summarize":
		m.dash.SummarizeBody()
	case "thread":
		m.dash.SummarizeThread()
	case "reply":
		m.dash.OpenDraftReply()
	case "draft":
		if args != "" {
			m.dash.GenerateDraft(args)
		}
	case "event":
		if args == "" {
			return m.openEventPicker()
		}
		m.dash.CreateCalendarEvent(args)
	case "persona":
		m.dash.OpenSettings()
	case "history":
		return m.openHistory()
	case "dismiss":
		m.dash.DismissNotification()
	case "logout":
		m.dash.Logout()
	}
	return nil
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewInbox:
		m.inboxView, cmd = m.inboxView.Update(msg)
	case ViewMessage:
		m.messageView, cmd = m.messageView.Update(msg)
	case ViewDraft:
		m.draftView, cmd = m.draftView.Update(msg)
	case ViewPersona:
		m.personaView, cmd = m.personaView.Update(msg)
	case ViewEvent:
		m.eventView, cmd = m.eventView.Update(msg)
	case ViewHistory:
		m.historyView, cmd = m.historyView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	case ViewLogin:
		m.loginView, cmd = m.loginView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader(m.headerTitle(), m.activity())
	content := m.renderContent()

	var statusBar string
	if n := m.state.Notification; n != nil {
		statusBar = m.layout.RenderNotification(string(n.Kind), n.Message)
	} else {
		statusBar = m.layout.RenderStatusBar(m.keyHints())
	}

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewInbox:
		return m.inboxView.View()
	case ViewMessage:
		return m.messageView.View()
	case ViewDraft:
		return m.draftView.View()
	case ViewPersona:
		return m.personaView.View()
	case ViewEvent:
		return m.eventView.View()
	case ViewHistory:
		return m.historyView.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	case ViewLogin:
		return m.loginView.View()
	default:
		return ""
	}
}

func (m Model) headerTitle() string {
	title := "mailpilot"
	if s := m.state.Session; s != nil && s.User.DisplayName != "" {
		title += " | " + s.User.DisplayName
	}
	if m.unreadCount > 0 {
		title = fmt.Sprintf("%s [%d new]", title, m.unreadCount)
	}
	return title
}

// activity returns a short string describing in-flight operations.
func (m Model) activity() string {
	f := m.state.Loading
	var parts []string
	if f.Inbox {
		parts = append(parts, "loading inbox")
	}
	if f.MessageContent {
		parts = append(parts, "opening message")
	}
	if f.Summarizing {
		parts = append(parts, "summarizing")
	}
	if f.Drafting {
		parts = append(parts, "drafting")
	}
	if f.Sending {
		parts = append(parts, "sending")
	}
	if f.PersonaSaving {
		parts = append(parts, "saving persona")
	}
	if f.EventCreating {
		parts = append(parts, "creating event")
	}

	if len(parts) == 0 {
		if m.state.Session == nil && m.currentView != ViewLogin {
			return "signing in"
		}
		return "idle"
	}
	return m.spinner.View() + " " + strings.Join(parts, ", ")
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return "enter execute | tab complete | esc back"
	case ViewMessage:
		return "esc back | s summarize | t thread | a attachment | d reply | e event | j/k scroll"
	case ViewDraft:
		return "ctrl+s send | ctrl+r regenerate | esc discard"
	case ViewPersona:
		return "enter save | esc cancel"
	case ViewEvent:
		return "enter choose | esc cancel"
	case ViewHistory:
		return "j/k move | esc back"
	case ViewLogin:
		return "enter sign in | ctrl+c quit"
	default:
		return "enter open | / search | r refresh | p persona | n history | : command | ? help | q quit"
	}
}
