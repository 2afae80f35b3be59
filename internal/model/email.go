package model

// EmailHeader is a single row of the inbox list as returned by the backend.
type EmailHeader struct {
	// ID is the backend message identifier.
	ID string `json:"id"`

	// Subject is the message subject line.
	Subject string `json:"subject"`

	// Sender is the raw From header, usually "Name <addr>".
	Sender string `json:"sender"`

	// Snippet is a short plain-text preview of the body.
	Snippet string `json:"snippet"`

	// ThreadID groups related messages on the backend.
	ThreadID string `json:"threadId,omitempty"`
}

// Attachment is a file reference carried by a message.
type Attachment struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	MimeType string `json:"mimeType"`
}

// EmailContent is the full message shown when a header is selected.
type EmailContent struct {
	EmailHeader

	// Body is the message body as an HTML string.
	Body string `json:"body"`

	// Attachments lists the message attachments in backend order.
	Attachments []Attachment `json:"attachments"`
}
