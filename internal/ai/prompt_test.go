package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDraftPrompt(t *testing.T) {
	got := DraftPrompt("Jane Doe", "<p>Can we meet?</p>")
	want := "You are replying as Jane. Based on the email thread below, draft a professional, concise reply that addresses the LAST message.\n\n---THREAD---\n<p>Can we meet?</p>\n\n---END THREAD---"
	assert.Equal(t, want, got)
}

func TestDraftPrompt_UnknownName(t *testing.T) {
	assert.Contains(t, DraftPrompt("  ", "body"), "You are replying as the user.")
}

func TestRegeneratePrompt(t *testing.T) {
	p := DraftPrompt("Sam", "body")
	got := RegeneratePrompt(p)
	assert.Equal(t, p+"\n\nPlease provide a different version of the reply with a more confident and concise tone.", got)
}

func TestFirstName(t *testing.T) {
	assert.Equal(t, "Ada", FirstName("Ada Lovelace"))
	assert.Equal(t, "Ada", FirstName("Ada"))
	assert.Equal(t, "the user", FirstName(""))
}
