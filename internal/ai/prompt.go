package ai

import (
	"fmt"
	"strings"
)

// RegenerationSuffix is appended to an existing draft prompt to request a
// different version of the reply.
const RegenerationSuffix = "\n\nPlease provide a different version of the reply with a more confident and concise tone."

const draftTemplate = "You are replying as %s. Based on the email thread below, draft a professional, concise reply that addresses the LAST message.\n\n---THREAD---\n%s\n\n---END THREAD---"

// DraftPrompt composes the reply prompt for a message body on behalf of the
// signed-in user. It is a pure function of its inputs.
func DraftPrompt(displayName, body string) string {
	return fmt.Sprintf(draftTemplate, FirstName(displayName), body)
}

// RegeneratePrompt returns prompt with the tone-variation instruction
// appended. It is applied to the original prompt, never to a generated draft.
func RegeneratePrompt(prompt string) string {
	return prompt + RegenerationSuffix
}

// FirstName returns the first word of a display name, or "the user" when
// the name is unknown.
func FirstName(displayName string) string {
	fields := strings.Fields(displayName)
	if len(fields) == 0 {
		return "the user"
	}
	return fields[0]
}
