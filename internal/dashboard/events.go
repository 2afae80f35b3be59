package dashboard

import "github.com/nhle/mailpilot/internal/model"

// Event is anything that can change dashboard state: a user command or the
// completion of an effect.
type Event interface {
	event()
}

// TargetKind selects what Summarize runs over.
type TargetKind int

const (
	TargetBody TargetKind = iota
	TargetAttachment
	TargetThread
)

// String returns the target name used in log fields.
func (k TargetKind) String() string {
	switch k {
	case TargetAttachment:
		return "attachment"
	case TargetThread:
		return "thread"
	default:
		return "body"
	}
}

// Commands.

// ResolveSession verifies Credential, or the persisted credential when
// Credential is empty. Only the first ResolveSession is honoured.
type ResolveSession struct{ Credential string }

type LoadInbox struct{}

type SelectMessage struct{ ID string }

// Summarize runs an AI summary of the selected message. Attachment is only
// read when Target is TargetAttachment.
type Summarize struct {
	Target     TargetKind
	Attachment model.Attachment
}

type OpenDraftReply struct{}

// GenerateDraft opens the draft surface and requests a reply for Prompt.
type GenerateDraft struct{ Prompt string }

type RegenerateDraft struct{}

type EditDraft struct{ Text string }

type CloseDraft struct{}

type SendReply struct{ Body string }

type CreateCalendarEvent struct{ DateText string }

type OpenSettings struct{}

type EditPersona struct{ Text string }

type CloseSettings struct{}

type SavePersona struct{ Text string }

type Logout struct{}

type DismissNotification struct{}

// NotificationExpired is posted by the notification timer. It only clears
// the banner when ID still names the current notification.
type NotificationExpired struct{ ID string }

func (ResolveSession) event()      {}
func (LoadInbox) event()           {}
func (SelectMessage) event()       {}
func (Summarize) event()           {}
func (OpenDraftReply) event()      {}
func (GenerateDraft) event()       {}
func (RegenerateDraft) event()     {}
func (EditDraft) event()           {}
func (CloseDraft) event()          {}
func (SendReply) event()           {}
func (CreateCalendarEvent) event() {}
func (OpenSettings) event()        {}
func (EditPersona) event()         {}
func (CloseSettings) event()       {}
func (SavePersona) event()         {}
func (Logout) event()              {}
func (DismissNotification) event() {}
func (NotificationExpired) event() {}

// Completions. Each carries the sequence number of the request it settles.

type sessionVerified struct {
	seq   uint64
	user  model.User
	token string
}

type sessionFailed struct {
	seq uint64
	err error
}

type personaLoaded struct {
	seq     uint64
	persona string
	err     error
}

type inboxLoaded struct {
	seq    uint64
	emails []model.EmailHeader
	err    error
}

type messageLoaded struct {
	seq     uint64
	content model.EmailContent
	err     error
}

type summaryDone struct {
	seq       uint64
	target    TargetKind
	messageID string
	summary   string
	err       error
}

type draftDone struct {
	seq   uint64
	reply string
	err   error
}

type sendDone struct {
	seq       uint64
	messageID string
	err       error
}

type personaSaved struct {
	seq  uint64
	text string
	err  error
}

type eventCreated struct {
	seq  uint64
	link string
	err  error
}

func (sessionVerified) event() {}
func (sessionFailed) event()   {}
func (personaLoaded) event()   {}
func (inboxLoaded) event()     {}
func (messageLoaded) event()   {}
func (summaryDone) event()     {}
func (draftDone) event()       {}
func (sendDone) event()        {}
func (personaSaved) event()    {}
func (eventCreated) event()    {}

// completion is implemented by every event that settles a request.
type completion interface {
	Event
	settles() (Slot, uint64)
	failure() error
}

func (e sessionVerified) settles() (Slot, uint64) { return SlotSession, e.seq }
func (e sessionFailed) settles() (Slot, uint64)   { return SlotSession, e.seq }
func (e personaLoaded) settles() (Slot, uint64)   { return SlotPersona, e.seq }
func (e inboxLoaded) settles() (Slot, uint64)     { return SlotInbox, e.seq }
func (e messageLoaded) settles() (Slot, uint64)   { return SlotMessage, e.seq }
func (e summaryDone) settles() (Slot, uint64)     { return SlotAnalysis, e.seq }
func (e draftDone) settles() (Slot, uint64)       { return SlotDraft, e.seq }
func (e sendDone) settles() (Slot, uint64)        { return SlotSend, e.seq }
func (e personaSaved) settles() (Slot, uint64)    { return SlotPersonaSave, e.seq }
func (e eventCreated) settles() (Slot, uint64)    { return SlotEvent, e.seq }

func (sessionVerified) failure() error { return nil }
func (e sessionFailed) failure() error { return e.err }
func (e personaLoaded) failure() error { return e.err }
func (e inboxLoaded) failure() error   { return e.err }
func (e messageLoaded) failure() error { return e.err }
func (e summaryDone) failure() error   { return e.err }
func (e draftDone) failure() error     { return e.err }
func (e sendDone) failure() error      { return e.err }
func (e personaSaved) failure() error  { return e.err }
func (e eventCreated) failure() error  { return e.err }
