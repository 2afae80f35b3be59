// Package mailutil holds small helpers for presenting and replying to
// backend messages.
package mailutil

import (
	"regexp"
	"strings"

	"github.com/emersion/go-message/mail"
)

var angleAddr = regexp.MustCompile(`<.*?>`)

// ReplyRecipient returns the address a reply to sender should go to: the
// text inside the angle brackets of "Name <addr>", or sender unchanged when
// it carries no bracketed address.
func ReplyRecipient(sender string) string {
	open := strings.IndexByte(sender, '<')
	end := strings.LastIndexByte(sender, '>')
	if open < 0 || end <= open+1 {
		return sender
	}
	return sender[open+1 : end]
}

// ReplySubject prefixes the original subject for a reply.
func ReplySubject(subject string) string {
	return "Re: " + subject
}

// SenderName returns the display name of a From header for list rows,
// falling back to the bare address.
func SenderName(sender string) string {
	if addr, err := mail.ParseAddress(sender); err == nil {
		if addr.Name != "" {
			return addr.Name
		}
		return addr.Address
	}

	name := strings.Trim(strings.TrimSpace(angleAddr.ReplaceAllString(sender, "")), `"`)
	if name == "" {
		return ReplyRecipient(sender)
	}
	return name
}
