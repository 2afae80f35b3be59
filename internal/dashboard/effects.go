package dashboard

import (
	"github.com/nhle/mailpilot/internal/api"
	"github.com/nhle/mailpilot/internal/model"
)

// Effect is work Reduce asks the controller to perform. Network effects
// settle by posting exactly one completion event.
type Effect interface {
	op() string
}

type verifySession struct {
	seq        uint64
	credential string
}

type clearCredential struct{}

type fetchPersona struct{ seq uint64 }

type fetchInbox struct{ seq uint64 }

type fetchMessage struct {
	seq uint64
	id  string
}

type requestSummary struct {
	seq        uint64
	target     TargetKind
	messageID  string
	threadID   string
	body       string
	attachment model.Attachment
}

type requestDraft struct {
	seq    uint64
	prompt string
}

type sendMail struct {
	seq       uint64
	messageID string
	req       api.SendRequest
}

type storePersona struct {
	seq  uint64
	text string
}

type createEvent struct {
	seq uint64
	req api.EventRequest
}

// scheduleExpiry replaces the notification timer.
type scheduleExpiry struct{ id string }

type recordNotification struct{ n model.Notification }

type recordAnalysis struct {
	messageID string
	analysis  model.AIAnalysis
}

func (verifySession) op() string      { return "verify-session" }
func (clearCredential) op() string    { return "clear-credential" }
func (fetchPersona) op() string       { return "fetch-persona" }
func (fetchInbox) op() string         { return "fetch-inbox" }
func (fetchMessage) op() string       { return "fetch-message" }
func (requestSummary) op() string     { return "summarize" }
func (requestDraft) op() string       { return "generate-reply" }
func (sendMail) op() string           { return "send" }
func (storePersona) op() string       { return "save-persona" }
func (createEvent) op() string        { return "create-event" }
func (scheduleExpiry) op() string     { return "schedule-expiry" }
func (recordNotification) op() string { return "record-notification" }
func (recordAnalysis) op() string     { return "record-analysis" }
