package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/nhle/mailpilot/internal/model"
)

// SendRequest is the body of POST /gmail/send.
type SendRequest struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// EventRequest is the body of POST /calendar/create-event. The backend
// resolves DateString, using Context to disambiguate it.
type EventRequest struct {
	Title      string `json:"title"`
	DateString string `json:"date_string"`
	Context    string `json:"context"`
}

// Me verifies the current credential and returns the signed-in user.
func (c *Client) Me(ctx context.Context) (*model.User, error) {
	var user model.User
	if err := c.Get(ctx, "/me", &user); err != nil {
		return nil, fmt.Errorf("verifying session: %w", err)
	}
	return &user, nil
}

// Persona returns the user's saved writing-style preference.
func (c *Client) Persona(ctx context.Context) (string, error) {
	var resp struct {
		Persona string `json:"persona"`
	}
	if err := c.Get(ctx, "/me/persona", &resp); err != nil {
		return "", fmt.Errorf("loading persona: %w", err)
	}
	return resp.Persona, nil
}

// SavePersona stores the user's writing-style preference.
func (c *Client) SavePersona(ctx context.Context, persona string) error {
	body := map[string]string{"persona": persona}
	if err := c.Put(ctx, "/me/persona", body, nil); err != nil {
		return fmt.Errorf("saving persona: %w", err)
	}
	return nil
}

// Inbox lists the inbox headers.
func (c *Client) Inbox(ctx context.Context) ([]model.EmailHeader, error) {
	var resp struct {
		Emails []model.EmailHeader `json:"emails"`
	}
	if err := c.Get(ctx, "/gmail/inbox", &resp); err != nil {
		return nil, fmt.Errorf("listing inbox: %w", err)
	}
	if resp.Emails == nil {
		resp.Emails = []model.EmailHeader{}
	}
	return resp.Emails, nil
}

// Email fetches the full content of a single message.
func (c *Client) Email(ctx context.Context, id string) (*model.EmailContent, error) {
	var content model.EmailContent
	if err := c.Get(ctx, "/gmail/email/"+url.PathEscape(id), &content); err != nil {
		return nil, fmt.Errorf("fetching email %s: %w", id, err)
	}
	return &content, nil
}

// SummarizeText asks the backend to summarize raw body text. The returned
// string may itself be JSON or plain text.
func (c *Client) SummarizeText(ctx context.Context, text string) (string, error) {
	var resp struct {
		Summary string `json:"summary"`
	}
	body := map[string]string{"text": text}
	if err := c.Post(ctx, "/ai/summarize", body, &resp); err != nil {
		return "", fmt.Errorf("summarizing text: %w", err)
	}
	return resp.Summary, nil
}

// SummarizeAttachment asks the backend to summarize one attachment of a
// message.
func (c *Client) SummarizeAttachment(ctx context.Context, messageID string, att model.Attachment) (string, error) {
	var resp struct {
		Summary string `json:"summary"`
	}
	path := "/gmail/email/" + url.PathEscape(messageID) + "/summarize-attachment"
	if err := c.Post(ctx, path, att, &resp); err != nil {
		return "", fmt.Errorf("summarizing attachment %s: %w", att.ID, err)
	}
	return resp.Summary, nil
}

// SummarizeThread asks the backend to summarize an entire thread.
func (c *Client) SummarizeThread(ctx context.Context, threadID string) (string, error) {
	var resp struct {
		Summary string `json:"summary"`
	}
	path := "/gmail/thread/" + url.PathEscape(threadID) + "/summarize"
	if err := c.Post(ctx, path, nil, &resp); err != nil {
		return "", fmt.Errorf("summarizing thread %s: %w", threadID, err)
	}
	return resp.Summary, nil
}

// GenerateReply asks the backend for a reply draft for prompt.
func (c *Client) GenerateReply(ctx context.Context, prompt string) (string, error) {
	var resp struct {
		Reply string `json:"reply"`
	}
	body := map[string]string{"prompt": prompt}
	if err := c.Post(ctx, "/ai/generate-reply", body, &resp); err != nil {
		return "", fmt.Errorf("generating reply: %w", err)
	}
	return resp.Reply, nil
}

// Send sends an email through the backend.
func (c *Client) Send(ctx context.Context, req SendRequest) error {
	if err := c.Post(ctx, "/gmail/send", req, nil); err != nil {
		return fmt.Errorf("sending email to %s: %w", req.To, err)
	}
	return nil
}

// CreateEvent creates a calendar event and returns its external link.
func (c *Client) CreateEvent(ctx context.Context, req EventRequest) (string, error) {
	var resp struct {
		Link string `json:"link"`
	}
	if err := c.Post(ctx, "/calendar/create-event", req, &resp); err != nil {
		return "", fmt.Errorf("creating calendar event: %w", err)
	}
	return resp.Link, nil
}
