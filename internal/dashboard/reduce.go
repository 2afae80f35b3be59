package dashboard

import (
	"strconv"
	"strings"

	"github.com/nhle/mailpilot/internal/ai"
	"github.com/nhle/mailpilot/internal/api"
	"github.com/nhle/mailpilot/internal/mailutil"
	"github.com/nhle/mailpilot/internal/model"
)

// User-facing text posted by the dashboard.
const (
	DraftPlaceholder   = "Generating AI draft, please wait..."
	DraftFailedMessage = "Error: Could not generate draft."

	SendSucceededMessage = "Email sent successfully!"
	PersonaSavedMessage  = "Persona saved."
	EventCreatedMessage  = "Calendar event created."
	InboxFailedMessage   = "Failed to fetch inbox."
	MessageFailedMessage = "Failed to fetch email content."
	SendFailedMessage    = "Failed to send email."
	PersonaFailedMessage = "Failed to save persona."
	EventFailedMessage   = "Failed to create calendar event."
)

// Reduce applies e to s and returns the next state together with the
// effects the controller must run. It performs no I/O.
func Reduce(s State, e Event) (State, []Effect) {
	switch e := e.(type) {
	case ResolveSession:
		if s.resolveStarted {
			return s, nil
		}
		s.resolveStarted = true
		s.Navigation = NavNone
		seq := s.issue(SlotSession)
		return s, []Effect{verifySession{seq: seq, credential: strings.TrimSpace(e.Credential)}}

	case sessionVerified:
		if !s.current(SlotSession, e.seq) {
			return s, nil
		}
		s.Session = &model.Session{User: e.user, Token: e.token}
		s.Navigation = NavNone
		effects := []Effect{fetchPersona{seq: s.issue(SlotPersona)}}
		next, more := loadInbox(s)
		return next, append(effects, more...)

	case sessionFailed:
		if !s.current(SlotSession, e.seq) {
			return s, nil
		}
		return signOut(s)

	case personaLoaded:
		if !s.current(SlotPersona, e.seq) {
			return s, nil
		}
		if e.err != nil {
			if api.IsAuthError(e.err) {
				return signOut(s)
			}
			return s, nil
		}
		s.Persona = e.persona
		return s, nil

	case LoadInbox:
		if s.Session == nil {
			return s, nil
		}
		return loadInbox(s)

	case inboxLoaded:
		if !s.current(SlotInbox, e.seq) {
			return s, nil
		}
		s.Loading.Inbox = false
		if e.err != nil {
			if api.IsAuthError(e.err) {
				return signOut(s)
			}
			s.Inline.Inbox = InboxFailedMessage
			return notify(s, model.NotificationError, api.Detail(e.err))
		}
		s.Inbox = e.emails
		return s, nil

	case SelectMessage:
		if s.Session == nil || e.ID == "" || e.ID == s.SelectedID {
			return s, nil
		}
		s = clearSelection(s)
		s.SelectedID = e.ID
		s.Loading.MessageContent = true
		seq := s.issue(SlotMessage)
		return s, []Effect{fetchMessage{seq: seq, id: e.ID}}

	case messageLoaded:
		if !s.current(SlotMessage, e.seq) {
			return s, nil
		}
		s.Loading.MessageContent = false
		if e.err != nil {
			s.SelectedID = ""
			if api.IsAuthError(e.err) {
				return signOut(s)
			}
			s.Inline.Message = MessageFailedMessage
			return notify(s, model.NotificationError, api.Detail(e.err))
		}
		content := e.content
		s.Selected = &content
		return s, nil

	case Summarize:
		return summarize(s, e)

	case summaryDone:
		if !s.current(SlotAnalysis, e.seq) {
			return s, nil
		}
		s.Loading.Summarizing = false
		var analysis model.AIAnalysis
		if e.err != nil {
			if api.IsAuthError(e.err) {
				return signOut(s)
			}
			analysis = ai.FailedAnalysis(failedSummaryMessage(e.target))
			s.Inline.Analysis = api.Detail(e.err)
		} else {
			analysis = ai.ProcessAIResponse(e.summary)
		}
		s.Analysis = &analysis
		return s, []Effect{recordAnalysis{messageID: e.messageID, analysis: analysis}}

	case OpenDraftReply:
		if s.Selected == nil {
			return s, nil
		}
		return generateDraft(s, ai.DraftPrompt(s.displayName(), s.Selected.Body))

	case GenerateDraft:
		if s.Selected == nil || e.Prompt == "" {
			return s, nil
		}
		return generateDraft(s, e.Prompt)

	case RegenerateDraft:
		if !s.Draft.Open || s.Draft.Prompt == "" {
			return s, nil
		}
		s.Draft.Text = DraftPlaceholder
		s.Inline.Draft = ""
		s.Loading.Drafting = true
		seq := s.issue(SlotDraft)
		return s, []Effect{requestDraft{seq: seq, prompt: ai.RegeneratePrompt(s.Draft.Prompt)}}

	case draftDone:
		if !s.current(SlotDraft, e.seq) {
			return s, nil
		}
		s.Loading.Drafting = false
		if e.err != nil {
			if api.IsAuthError(e.err) {
				return signOut(s)
			}
			s.Draft.Text = DraftFailedMessage
			s.Inline.Draft = api.Detail(e.err)
			return s, nil
		}
		s.Draft.Text = e.reply
		return s, nil

	case EditDraft:
		if s.Draft.Open {
			s.Draft.Text = e.Text
		}
		return s, nil

	case CloseDraft:
		return closeDraft(s), nil

	case SendReply:
		if s.Selected == nil || e.Body == "" {
			return s, nil
		}
		s.Loading.Sending = true
		seq := s.issue(SlotSend)
		return s, []Effect{sendMail{seq: seq, messageID: s.Selected.ID, req: api.SendRequest{
			To:      mailutil.ReplyRecipient(s.Selected.Sender),
			Subject: mailutil.ReplySubject(s.Selected.Subject),
			Body:    e.Body,
		}}}

	case sendDone:
		if !s.current(SlotSend, e.seq) {
			return s, nil
		}
		s.Loading.Sending = false
		if e.err != nil {
			if api.IsAuthError(e.err) {
				return signOut(s)
			}
			return notify(s, model.NotificationError, failure(SendFailedMessage, e.err))
		}
		// The draft belongs to another message once the selection moved.
		if s.SelectedID == e.messageID {
			s = closeDraft(s)
		}
		return notify(s, model.NotificationSuccess, SendSucceededMessage)

	case CreateCalendarEvent:
		if s.Selected == nil || strings.TrimSpace(e.DateText) == "" {
			return s, nil
		}
		s.Loading.EventCreating = true
		s.EventLink = ""
		seq := s.issue(SlotEvent)
		return s, []Effect{createEvent{seq: seq, req: api.EventRequest{
			Title:      s.Selected.Subject,
			DateString: e.DateText,
			Context:    s.Selected.Body,
		}}}

	case eventCreated:
		if !s.current(SlotEvent, e.seq) {
			return s, nil
		}
		s.Loading.EventCreating = false
		if e.err != nil {
			if api.IsAuthError(e.err) {
				return signOut(s)
			}
			return notify(s, model.NotificationError, failure(EventFailedMessage, e.err))
		}
		s.EventLink = e.link
		return notify(s, model.NotificationSuccess, EventCreatedMessage)

	case OpenSettings:
		if s.Session == nil {
			return s, nil
		}
		s.SettingsOpen = true
		s.PersonaDraft = s.Persona
		return s, nil

	case EditPersona:
		if s.SettingsOpen {
			s.PersonaDraft = e.Text
		}
		return s, nil

	case CloseSettings:
		s.SettingsOpen = false
		s.PersonaDraft = ""
		return s, nil

	case SavePersona:
		if s.Session == nil {
			return s, nil
		}
		s.PersonaDraft = e.Text
		s.Loading.PersonaSaving = true
		seq := s.issue(SlotPersonaSave)
		return s, []Effect{storePersona{seq: seq, text: e.Text}}

	case personaSaved:
		if !s.current(SlotPersonaSave, e.seq) {
			return s, nil
		}
		s.Loading.PersonaSaving = false
		if e.err != nil {
			if api.IsAuthError(e.err) {
				return signOut(s)
			}
			return notify(s, model.NotificationError, failure(PersonaFailedMessage, e.err))
		}
		s.Persona = e.text
		s.SettingsOpen = false
		s.PersonaDraft = ""
		return notify(s, model.NotificationSuccess, PersonaSavedMessage)

	case Logout:
		return signOut(s)

	case DismissNotification:
		s.Notification = nil
		return s, nil

	case NotificationExpired:
		if s.Notification != nil && s.Notification.ID == e.ID {
			s.Notification = nil
		}
		return s, nil
	}

	return s, nil
}

func loadInbox(s State) (State, []Effect) {
	s = clearSelection(s)
	s.Inline.Inbox = ""
	s.Loading.Inbox = true
	seq := s.issue(SlotInbox)
	return s, []Effect{fetchInbox{seq: seq}}
}

// clearSelection drops the selected message and everything derived from it.
// Requests in flight for those slots are superseded.
func clearSelection(s State) State {
	if s.Loading.MessageContent {
		s.issue(SlotMessage)
		s.Loading.MessageContent = false
	}
	if s.Loading.Summarizing {
		s.issue(SlotAnalysis)
		s.Loading.Summarizing = false
	}
	if s.Loading.EventCreating {
		s.issue(SlotEvent)
		s.Loading.EventCreating = false
	}
	s = closeDraft(s)
	s.SelectedID = ""
	s.Selected = nil
	s.Analysis = nil
	s.EventLink = ""
	s.Inline.Message = ""
	s.Inline.Analysis = ""
	return s
}

func summarize(s State, e Summarize) (State, []Effect) {
	if s.Selected == nil {
		return s, nil
	}
	req := requestSummary{
		target:    e.Target,
		messageID: s.Selected.ID,
	}
	switch e.Target {
	case TargetBody:
		if s.Selected.Body == "" {
			return s, nil
		}
		req.body = s.Selected.Body
	case TargetAttachment:
		if e.Attachment.ID == "" {
			return s, nil
		}
		req.attachment = e.Attachment
	case TargetThread:
		if s.Selected.ThreadID == "" {
			return s, nil
		}
		req.threadID = s.Selected.ThreadID
	default:
		return s, nil
	}

	s.Analysis = nil
	s.Inline.Analysis = ""
	s.Loading.Summarizing = true
	req.seq = s.issue(SlotAnalysis)
	return s, []Effect{req}
}

func failedSummaryMessage(target TargetKind) string {
	switch target {
	case TargetAttachment:
		return ai.AttachmentFailedMessage
	case TargetThread:
		return ai.ThreadFailedMessage
	default:
		return ai.SummaryFailedMessage
	}
}

// generateDraft opens the draft surface for prompt and requests a reply.
func generateDraft(s State, prompt string) (State, []Effect) {
	s.Draft = model.DraftState{Open: true, Text: DraftPlaceholder, Prompt: prompt}
	s.Inline.Draft = ""
	s.Loading.Drafting = true
	seq := s.issue(SlotDraft)
	return s, []Effect{requestDraft{seq: seq, prompt: prompt}}
}

func closeDraft(s State) State {
	if s.Loading.Drafting {
		s.issue(SlotDraft)
		s.Loading.Drafting = false
	}
	s.Draft = model.DraftState{}
	s.Inline.Draft = ""
	return s
}

// notify replaces the current notification and restarts its timer.
func notify(s State, kind model.NotificationKind, message string) (State, []Effect) {
	s.noteSeq++
	n := model.Notification{
		ID:      "n" + strconv.FormatUint(s.noteSeq, 10),
		Kind:    kind,
		Message: message,
	}
	s.Notification = &n
	return s, []Effect{scheduleExpiry{id: n.ID}, recordNotification{n: n}}
}

// signOut drops the session and every slot, supersedes all in-flight
// requests, purges the persisted credential and asks for the login screen.
func signOut(s State) (State, []Effect) {
	next := State{
		Navigation:     NavLogin,
		seq:            s.seq,
		resolveStarted: s.resolveStarted,
		noteSeq:        s.noteSeq,
	}
	for i := range next.seq {
		next.seq[i]++
	}
	return next, []Effect{clearCredential{}}
}

// failure joins a fixed prefix with the backend's error detail.
func failure(prefix string, err error) string {
	detail := api.Detail(err)
	if detail == "" {
		return prefix
	}
	return prefix + " " + detail
}
