package designer

import (
	"encoding/json"
	"fmt"

	"codeberg.org/architai/server/architai/sessions"
	"codeberg.org/architai/server/internal/llm"
)

const questionsSystemPrompt = "You are a senior system designer. Generate a concise list of key clarifying questions " +
	"for the user to understand requirements for designing a system. " +
	"Respond only in valid JSON array format."

const designSystemPrompt = "You are a senior system architect. Generate a complete system design. " +
	"Respond only in valid JSON with these top-level keys: " +
	"'summary', 'components', 'db_schema', 'mermaid', 'tech_stack', " +
	"'integration_steps', 'rationale', 'diagram_url', 'diagrams'. " +
	"Each component must have 'name', 'description', and 'details' with " +
	"'technology_stack' (list of strings) and 'responsibilities' (list of strings)."

func questionsPrompt(description string, count int) string {
	return fmt.Sprintf("System description: %s\nGenerate %d questions as a JSON array of strings.", description, count)
}

func acknowledgePrompt(question, answer string) string {
	return fmt.Sprintf("Question: %s\nUser answer: %s", question, answer)
}

// JSON meta stored next to a model reply in the conversation
func promptMeta(prompt string) string {
	b, err := json.Marshal(map[string]string{"prompt": prompt})
	if err != nil {
		return ""
	}

	return string(b)
}

func toTurns(conversation []sessions.ConversationEntry) []llm.Turn {
	turns := make([]llm.Turn, 0, len(conversation))

	for _, entry := range conversation {
		turns = append(turns, llm.Turn{Role: entry.Role, Text: entry.Text})
	}

	return turns
}
