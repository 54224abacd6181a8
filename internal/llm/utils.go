package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"codeberg.org/architai/server/internal/config"
)

var fencePattern = regexp.MustCompile("(?m)^```json\\s*|\\s*```$")

// flattens a conversation into a single prompt, one "role: text" line per turn
func BuildPrompt(conversation []Turn, userPrompt, systemPrompt string) string {
	lines := make([]string, 0, len(conversation)+2)

	if systemPrompt != "" {
		lines = append(lines, "system: "+systemPrompt)
	}

	for _, turn := range conversation {
		lines = append(lines, fmt.Sprintf("%s: %s", turn.Role, turn.Text))
	}

	lines = append(lines, "user: "+userPrompt)

	return strings.Join(lines, "\n")
}

// strips markdown code fences around model JSON output
func CleanJSONText(raw string) string {
	cleaned := fencePattern.ReplaceAllString(strings.TrimSpace(raw), "")
	return strings.TrimSpace(strings.TrimPrefix(cleaned, "```"))
}

// decodes a JSON object, wrapping anything else as {fallbackKey: raw}
func ParseJSONObject(raw, fallbackKey string) map[string]any {
	var obj map[string]any

	if err := json.Unmarshal([]byte(raw), &obj); err != nil || obj == nil {
		return map[string]any{fallbackKey: raw}
	}

	return obj
}

// returns the API key and model for the configured provider
func providerCredentials(provider Provider, baseConfig *config.Config) (string, string) {
	switch provider {
	case ProviderOpenAI:
		return baseConfig.OpenAIKey, baseConfig.OpenAIModel
	case ProviderAnthropic:
		return baseConfig.AnthropicKey, baseConfig.AnthropicModel
	default:
		return baseConfig.GeminiAPIKey, baseConfig.GeminiModel
	}
}
