package dashboard

import "github.com/nhle/mailpilot/internal/model"

// Slot names an independently updated piece of dashboard state. Every
// request is issued against a slot and carries that slot's sequence number.
type Slot int

const (
	SlotSession Slot = iota
	SlotPersona
	SlotInbox
	SlotMessage
	SlotAnalysis
	SlotDraft
	SlotSend
	SlotPersonaSave
	SlotEvent
	slotCount
)

var slotNames = [slotCount]string{
	"session", "persona", "inbox", "message", "analysis",
	"draft", "send", "persona-save", "event",
}

// String returns the slot name used in log fields.
func (s Slot) String() string {
	if s < 0 || s >= slotCount {
		return "unknown"
	}
	return slotNames[s]
}

// Navigation is a request from the controller to the presentation layer.
type Navigation int

const (
	NavNone Navigation = iota
	// NavLogin asks the presentation layer to show the sign-in entry point.
	NavLogin
)

// LoadingFlags are the per-operation busy indicators.
type LoadingFlags struct {
	Inbox          bool
	MessageContent bool
	Summarizing    bool
	Drafting       bool
	Sending        bool
	PersonaSaving  bool
	EventCreating  bool
}

// Any reports whether any operation is in flight.
func (f LoadingFlags) Any() bool {
	return f.Inbox || f.MessageContent || f.Summarizing || f.Drafting ||
		f.Sending || f.PersonaSaving || f.EventCreating
}

// InlineErrors holds the error text shown inside the pane that failed.
type InlineErrors struct {
	Inbox    string
	Message  string
	Analysis string
	Draft    string
}

// State is the dashboard view-model. Values are treated as immutable:
// Reduce returns a new State and never mutates slices it was given.
type State struct {
	Session *model.Session

	Inbox []model.EmailHeader

	// SelectedID is the id of the selected message, set as soon as the
	// selection is made. Selected is nil until its content arrives.
	SelectedID string
	Selected   *model.EmailContent

	Analysis *model.AIAnalysis
	Draft    model.DraftState

	Persona      string
	SettingsOpen bool
	PersonaDraft string

	Loading      LoadingFlags
	Notification *model.Notification
	Inline       InlineErrors
	EventLink    string
	Navigation   Navigation

	seq            [slotCount]uint64
	resolveStarted bool
	noteSeq        uint64
}

// Seq returns the latest request sequence number issued for a slot.
func (s State) Seq(slot Slot) uint64 {
	if slot < 0 || slot >= slotCount {
		return 0
	}
	return s.seq[slot]
}

// SessionResolving reports whether ResolveSession has already been accepted.
func (s State) SessionResolving() bool {
	return s.resolveStarted
}

// displayName is the signed-in user's display name, or empty.
func (s State) displayName() string {
	if s.Session == nil {
		return ""
	}
	return s.Session.User.DisplayName
}

// issue bumps a slot's sequence number and returns the new value.
func (s *State) issue(slot Slot) uint64 {
	s.seq[slot]++
	return s.seq[slot]
}

// current reports whether seq is the latest issued for slot.
func (s State) current(slot Slot, seq uint64) bool {
	return s.seq[slot] == seq
}
