package llm

import (
	"fmt"

	"codeberg.org/architai/server/internal/config"
)

// creates the configured generator from the application config
func NewLLM(baseConfig *config.Config) (TextGenerator, error) {
	if baseConfig == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	return NewLLMWithConfig(ConfigFromApp(baseConfig))
}

// creates the provider's generator wrapped in retry
func NewLLMWithConfig(config *Config) (TextGenerator, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	if config.APIKey == "" {
		return nil, fmt.Errorf("missing API key for provider %s", config.Provider)
	}

	var generator TextGenerator

	switch config.Provider {
	case ProviderGemini:
		generator = NewGeminiGenerator(GeminiConfig{
			APIKey:      config.APIKey,
			Model:       config.Model,
			BaseURL:     config.BaseURL,
			MaxTokens:   config.MaxTokens,
			Temperature: config.Temperature,
		})
	case ProviderAnthropic:
		generator = NewAnthropicGenerator(AnthropicConfig{
			APIKey:      config.APIKey,
			Model:       config.Model,
			BaseURL:     config.BaseURL,
			MaxTokens:   config.MaxTokens,
			Temperature: config.Temperature,
		})
	case ProviderOpenAI:
		generator = NewOpenAIGenerator(OpenAIConfig{
			APIKey:      config.APIKey,
			Model:       config.Model,
			BaseURL:     config.BaseURL,
			MaxTokens:   config.MaxTokens,
			Temperature: config.Temperature,
		})
	default:
		return nil, fmt.Errorf("unsupported provider: %s", config.Provider)
	}

	return WithRetry(generator, config.Retry), nil
}
