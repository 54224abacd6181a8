package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	defaultPort          = "8080"
	defaultDatabaseURL   = "sqlite://architai.db"
	defaultProvider      = "gemini"
	defaultGeminiModel   = "gemini-2.0-flash"
	defaultQuestionCount = 4
	defaultRateLimit     = "30-M"
	defaultCORSOrigins   = "http://localhost:5173,http://localhost:3000"
)

// loads configuration from environment variables
func LoadEnvironmentVariables() (*Config, error) {
	if err := LoadDotEnv(); err != nil {
		return nil, err
	}

	return loadFromEnv()
}

// loads .env (or the given files) into the process environment without
// overriding variables that are already set. a missing file is not an error,
// production environments may not have one
func LoadDotEnv(paths ...string) error {
	if err := godotenv.Load(paths...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	return nil
}

func loadFromEnv() (*Config, error) {
	environment := os.Getenv("ENVIRONMENT")
	if environment == "" {
		environment = "development"
	}

	cfg := &Config{
		Environment:    environment,
		Port:           getEnv("PORT", defaultPort),
		DatabaseURL:    getEnv("DATABASE_URL", defaultDatabaseURL),
		RedisURL:       os.Getenv("REDIS_URL"),
		LLMProvider:    strings.ToLower(getEnv("LLM_PROVIDER", defaultProvider)),
		GeminiAPIKey:   os.Getenv("GOOGLE_GEMINI_API_KEY"),
		GeminiModel:    getEnv("GOOGLE_GEMINI_MODEL", defaultGeminiModel),
		AnthropicKey:   os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel: os.Getenv("ANTHROPIC_MODEL"),
		OpenAIKey:      os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:    os.Getenv("OPENAI_MODEL"),
		OpenAIBaseURL:  os.Getenv("OPENAI_BASE_URL"),
		QuestionCount:  defaultQuestionCount,
		RateLimit:      getEnv("RATE_LIMIT", defaultRateLimit),
	}

	if maxTokensStr := os.Getenv("LLM_MAX_TOKENS"); maxTokensStr != "" {
		val, err := strconv.Atoi(maxTokensStr)
		if err != nil || val < 0 {
			return nil, fmt.Errorf("LLM_MAX_TOKENS must be a positive integer, got %q", maxTokensStr)
		}

		cfg.LLMMaxTokens = val
	}

	if tempStr := os.Getenv("LLM_TEMPERATURE"); tempStr != "" {
		val, err := strconv.ParseFloat(tempStr, 32)
		if err != nil {
			return nil, fmt.Errorf("LLM_TEMPERATURE must be a number, got %q", tempStr)
		}

		cfg.LLMTemperature = float32(val)
	}

	if countStr := os.Getenv("QUESTION_COUNT"); countStr != "" {
		val, err := strconv.Atoi(countStr)
		if err != nil || val < 1 {
			return nil, fmt.Errorf("QUESTION_COUNT must be a positive integer, got %q", countStr)
		}

		cfg.QuestionCount = val
	}

	cfg.CORSAllowedOrigins = splitList(getEnv("CORS_ALLOWED_ORIGINS", defaultCORSOrigins))
	if len(cfg.CORSAllowedOrigins) == 0 {
		return nil, fmt.Errorf("CORS_ALLOWED_ORIGINS must list at least one origin, got %q", os.Getenv("CORS_ALLOWED_ORIGINS"))
	}

	if err := cfg.validateProviderKey(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// the key of the selected provider is the only required secret
func (c *Config) validateProviderKey() error {
	switch c.LLMProvider {
	case "gemini":
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GOOGLE_GEMINI_API_KEY environment variable is required")
		}
	case "anthropic":
		if c.AnthropicKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY environment variable is required")
		}
	case "openai":
		if c.OpenAIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable is required")
		}
	default:
		return fmt.Errorf("unsupported LLM_PROVIDER: %s", c.LLMProvider)
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return fallback
}

func splitList(value string) []string {
	var items []string

	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}

	return items
}
