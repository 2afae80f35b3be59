package ai

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"

	"github.com/nhle/mailpilot/internal/model"
)

func TestProcessAIResponse(t *testing.T) {
	tests := []struct {
		name string
		text string
		want model.AIAnalysis
	}{
		{
			name: "structured",
			text: `{"summary":"Short","action_items":["Reply"],"key_dates":[]}`,
			want: model.AIAnalysis{Summary: "Short", ActionItems: []string{"Reply"}, KeyDates: []string{}, Kind: model.AnalysisStructured},
		},
		{
			name: "missing lists are empty",
			text: `{"summary":"Only a summary"}`,
			want: model.AIAnalysis{Summary: "Only a summary", ActionItems: []string{}, KeyDates: []string{}, Kind: model.AnalysisStructured},
		},
		{
			name: "fenced json",
			text: "```json\n{\"summary\":\"S\",\"action_items\":[],\"key_dates\":[\"next Friday\"]}\n```",
			want: model.AIAnalysis{Summary: "S", ActionItems: []string{}, KeyDates: []string{"next Friday"}, Kind: model.AnalysisStructured},
		},
		{
			name: "plain bullets",
			text: "* Meeting moved\n* Bring slides",
			want: model.AIAnalysis{Summary: "* Meeting moved\n* Bring slides", ActionItems: []string{}, KeyDates: []string{}, Kind: model.AnalysisPlain},
		},
		{
			name: "broken json",
			text: `{"summary": "cut off`,
			want: model.AIAnalysis{Summary: `{"summary": "cut off`, ActionItems: []string{}, KeyDates: []string{}, Kind: model.AnalysisPlain},
		},
		{
			name: "wrong field type",
			text: `{"summary": 5}`,
			want: model.AIAnalysis{Summary: `{"summary": 5}`, ActionItems: []string{}, KeyDates: []string{}, Kind: model.AnalysisPlain},
		},
		{
			name: "json null is not an analysis",
			text: `null`,
			want: model.AIAnalysis{Summary: "null", ActionItems: []string{}, KeyDates: []string{}, Kind: model.AnalysisPlain},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ProcessAIResponse(tt.text))
		})
	}
}

func TestFailedAnalysis(t *testing.T) {
	got := FailedAnalysis(SummaryFailedMessage)
	assert.True(t, got.Error)
	assert.Equal(t, "Error: Failed to generate summary.", got.Summary)
	assert.Empty(t, got.ActionItems)
	assert.NotNil(t, got.KeyDates)
}

func TestProperty_ProcessAIResponse(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	listGen := gen.SliceOf(gen.AnyString())

	properties.Property("valid analysis JSON round-trips", prop.ForAll(
		func(summary string, items, dates []string) bool {
			want := structuredAnalysis{Summary: summary, ActionItems: nonNil(items), KeyDates: nonNil(dates)}
			data, err := json.Marshal(want)
			if err != nil {
				return false
			}
			got := ProcessAIResponse(string(data))
			return got.Kind == model.AnalysisStructured &&
				got.Summary == want.Summary &&
				reflect.DeepEqual(got.ActionItems, want.ActionItems) &&
				reflect.DeepEqual(got.KeyDates, want.KeyDates)
		},
		gen.AnyString(),
		listGen,
		listGen,
	))

	properties.Property("non-JSON text becomes a plain summary", prop.ForAll(
		func(text string) bool {
			got := ProcessAIResponse(text)
			return got.Kind == model.AnalysisPlain &&
				got.Summary == text &&
				got.ActionItems != nil && len(got.ActionItems) == 0 &&
				got.KeyDates != nil && len(got.KeyDates) == 0
		},
		gen.AnyString().Map(func(s string) string { return "Summary: " + s }),
	))

	properties.TestingRun(t)
}
