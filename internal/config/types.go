package config

type Config struct {
	Environment string
	Port        string

	// storage
	DatabaseURL string
	RedisURL    string

	// language model
	LLMProvider    string
	GeminiAPIKey   string
	GeminiModel    string
	AnthropicKey   string
	AnthropicModel string
	OpenAIKey      string
	OpenAIModel    string
	OpenAIBaseURL  string
	LLMMaxTokens   int
	LLMTemperature float32

	// conversation and http surface
	QuestionCount      int
	RateLimit          string
	CORSAllowedOrigins []string
}

// flags for the migrate subcommands
type Flags struct {
	DatabaseURL string
	Force       bool
}
