package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPrompt(t *testing.T) {
	conversation := []Turn{
		{Role: "user", Text: "about a million users"},
		{Role: "architai", Text: "Noted."},
	}

	tests := []struct {
		name   string
		system string
		want   string
	}{
		{
			name: "without system prompt",
			want: "user: about a million users\narchitai: Noted.\nuser: design it",
		},
		{
			name:   "with system prompt",
			system: "You are an architect.",
			want:   "system: You are an architect.\nuser: about a million users\narchitai: Noted.\nuser: design it",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildPrompt(conversation, "design it", tt.system))
		})
	}
}

func TestBuildPrompt_EmptyConversation(t *testing.T) {
	assert.Equal(t, "user: hello", BuildPrompt(nil, "hello", ""))
}

func TestCleanJSONText(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "json fence", raw: "```json\n{\"a\": 1}\n```", want: `{"a": 1}`},
		{name: "bare fence", raw: "```\n{\"a\": 1}\n```", want: `{"a": 1}`},
		{name: "surrounding whitespace", raw: "  \n```json\n[1, 2]\n```  \n", want: "[1, 2]"},
		{name: "no fence", raw: `{"a": 1}`, want: `{"a": 1}`},
		{name: "plain text", raw: "just words", want: "just words"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanJSONText(tt.raw))
		})
	}
}

func TestParseJSONObject(t *testing.T) {
	obj := ParseJSONObject(`{"summary": "s", "tech_stack": ["go"]}`, "summary")
	assert.Equal(t, "s", obj["summary"])
	assert.Equal(t, []any{"go"}, obj["tech_stack"])

	fallback := ParseJSONObject("not json at all", "summary")
	assert.Equal(t, map[string]any{"summary": "not json at all"}, fallback)

	array := ParseJSONObject(`["a", "b"]`, "summary")
	assert.Equal(t, map[string]any{"summary": `["a", "b"]`}, array)

	null := ParseJSONObject("null", "summary")
	assert.Equal(t, map[string]any{"summary": "null"}, null)
}
