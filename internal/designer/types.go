package designer

import (
	"codeberg.org/architai/server/architai/sessions"
	"codeberg.org/architai/server/internal/llm"
)

const DefaultQuestionCount = 4

// turns prompts and conversations into questions, replies and designs
type Designer struct {
	generator     llm.TextGenerator
	questionCount int
}

// the sanitized design together with what the model actually said
type DesignResult struct {
	Design *sessions.Design
	Raw    string // model text before cleaning
	Meta   string // JSON encoded {"prompt": ...}
}
