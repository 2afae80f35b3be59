package dashboard

import "github.com/nhle/mailpilot/internal/model"

// ResolveSession verifies credential, or the stored credential when it is
// empty. Only the first call has any effect.
func (c *Controller) ResolveSession(credential string) {
	c.Dispatch(ResolveSession{Credential: credential})
}

// LoadInbox refreshes the inbox and clears the selection.
func (c *Controller) LoadInbox() { c.Dispatch(LoadInbox{}) }

// SelectMessage loads the full content of message id.
func (c *Controller) SelectMessage(id string) { c.Dispatch(SelectMessage{ID: id}) }

func (c *Controller) SummarizeBody() { c.Dispatch(Summarize{Target: TargetBody}) }

func (c *Controller) SummarizeAttachment(att model.Attachment) {
	c.Dispatch(Summarize{Target: TargetAttachment, Attachment: att})
}

func (c *Controller) SummarizeThread() { c.Dispatch(Summarize{Target: TargetThread}) }

// OpenDraftReply opens the reply editor and requests an AI draft for the
// selected message.
func (c *Controller) OpenDraftReply() { c.Dispatch(OpenDraftReply{}) }

func (c *Controller) GenerateDraft(prompt string) { c.Dispatch(GenerateDraft{Prompt: prompt}) }

// RegenerateDraft asks for a different version of the current draft.
func (c *Controller) RegenerateDraft() { c.Dispatch(RegenerateDraft{}) }

func (c *Controller) EditDraft(text string) { c.Dispatch(EditDraft{Text: text}) }

func (c *Controller) CloseDraft() { c.Dispatch(CloseDraft{}) }

// SendReply sends body as a reply to the selected message's sender.
func (c *Controller) SendReply(body string) { c.Dispatch(SendReply{Body: body}) }

// CreateCalendarEvent asks the backend to create an event for dateText,
// using the selected message as context.
func (c *Controller) CreateCalendarEvent(dateText string) {
	c.Dispatch(CreateCalendarEvent{DateText: dateText})
}

func (c *Controller) OpenSettings() { c.Dispatch(OpenSettings{}) }

func (c *Controller) EditPersona(text string) { c.Dispatch(EditPersona{Text: text}) }

func (c *Controller) CloseSettings() { c.Dispatch(CloseSettings{}) }

func (c *Controller) SavePersona(text string) { c.Dispatch(SavePersona{Text: text}) }

// Logout forgets the stored credential and routes to the login screen.
func (c *Controller) Logout() { c.Dispatch(Logout{}) }

func (c *Controller) DismissNotification() { c.Dispatch(DismissNotification{}) }
