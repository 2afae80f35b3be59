package ai

import (
	"encoding/json"
	"strings"

	"github.com/nhle/mailpilot/internal/model"
)

// Fixed messages stored in an error analysis when a request fails.
const (
	SummaryFailedMessage    = "Error: Failed to generate summary."
	AttachmentFailedMessage = "Error: Failed to summarize attachment."
	ThreadFailedMessage     = "Error: Failed to summarize thread."
)

// structuredAnalysis mirrors the JSON the backend model is asked to return.
type structuredAnalysis struct {
	Summary     string   `json:"summary"`
	ActionItems []string `json:"action_items"`
	KeyDates    []string `json:"key_dates"`
}

// ProcessAIResponse interprets the text returned by a summarize endpoint.
// Text that decodes as a JSON object yields a structured analysis; anything
// else yields a plain analysis whose summary is the raw text. It never fails.
func ProcessAIResponse(text string) model.AIAnalysis {
	if parsed, ok := decodeStructured(text); ok {
		return model.AIAnalysis{
			Summary:     parsed.Summary,
			ActionItems: nonNil(parsed.ActionItems),
			KeyDates:    nonNil(parsed.KeyDates),
			Kind:        model.AnalysisStructured,
		}
	}

	return model.AIAnalysis{
		Summary:     text,
		ActionItems: []string{},
		KeyDates:    []string{},
		Kind:        model.AnalysisPlain,
	}
}

// FailedAnalysis returns the analysis shown when a summarize request fails.
func FailedAnalysis(message string) model.AIAnalysis {
	return model.AIAnalysis{
		Summary:     message,
		ActionItems: []string{},
		KeyDates:    []string{},
		Kind:        model.AnalysisPlain,
		Error:       true,
	}
}

// decodeStructured reports whether text is a JSON object matching
// structuredAnalysis. A surrounding markdown code fence is tolerated.
func decodeStructured(text string) (structuredAnalysis, bool) {
	var out structuredAnalysis

	candidate := stripCodeFence(strings.TrimSpace(text))
	if !strings.HasPrefix(candidate, "{") {
		return out, false
	}
	if err := json.Unmarshal([]byte(candidate), &out); err != nil {
		return structuredAnalysis{}, false
	}
	return out, true
}

// stripCodeFence removes a ```json ... ``` (or bare ```) wrapper.
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") || len(s) < 6 {
		return s
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(s, "```"), "```")
	if nl := strings.IndexByte(inner, '\n'); nl >= 0 {
		// Drop an info string such as "json" on the opening fence line.
		if lang := strings.TrimSpace(inner[:nl]); !strings.ContainsAny(lang, "{[") {
			inner = inner[nl+1:]
		}
	}
	return strings.TrimSpace(inner)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
