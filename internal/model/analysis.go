package model

// AnalysisKind discriminates how an AI response was interpreted.
type AnalysisKind int

const (
	// AnalysisPlain means the response was not structured JSON and the
	// raw text was kept as the summary.
	AnalysisPlain AnalysisKind = iota

	// AnalysisStructured means the response decoded into summary,
	// action items and key dates.
	AnalysisStructured
)

// String returns a short label for the kind.
func (k AnalysisKind) String() string {
	if k == AnalysisStructured {
		return "structured"
	}
	return "plain"
}

// AIAnalysis is the result of a single AI action over email content.
type AIAnalysis struct {
	// Summary is the human-readable summary (or raw text for plain results).
	Summary string `json:"summary"`

	// ActionItems lists tasks the AI extracted. Never nil.
	ActionItems []string `json:"action_items"`

	// KeyDates lists date phrases the AI extracted, verbatim. Never nil.
	KeyDates []string `json:"key_dates"`

	// Kind records whether the response was structured or plain text.
	Kind AnalysisKind `json:"-"`

	// Error marks an analysis produced from a failed request.
	Error bool `json:"-"`
}

// DraftState is an in-progress reply.
type DraftState struct {
	// Open reports whether the reply surface is shown.
	Open bool

	// Text is the current editable reply body.
	Text string

	// Prompt is the prompt that produced Text, kept for regeneration.
	Prompt string
}
