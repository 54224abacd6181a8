package llm

import "codeberg.org/architai/server/internal/config"

// derives the gateway configuration from the application config
func ConfigFromApp(baseConfig *config.Config) *Config {
	provider := Provider(baseConfig.LLMProvider)
	if provider == "" {
		provider = ProviderGemini
	}

	apiKey, model := providerCredentials(provider, baseConfig)

	cfg := &Config{
		Provider:    provider,
		APIKey:      apiKey,
		Model:       model,
		MaxTokens:   baseConfig.LLMMaxTokens,
		Temperature: baseConfig.LLMTemperature,
		Retry:       DefaultRetryConfig(),
	}

	if provider == ProviderOpenAI {
		cfg.BaseURL = baseConfig.OpenAIBaseURL
	}

	return cfg
}
