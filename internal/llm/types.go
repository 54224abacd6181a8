package llm

import (
	"context"
	"errors"
)

// returned once every retry attempt against the provider has failed
var ErrUpstreamFailure = errors.New("language model request failed")

// represents different LLM providers
type Provider string

const (
	ProviderGemini    Provider = "gemini"
	ProviderAnthropic Provider = "anthropic"
	ProviderOpenAI    Provider = "openai"
)

// generates text from a flattened prompt
type TextGenerator interface {
	GenerateText(ctx context.Context, req TextGenerationRequest) (*TextGenerationResponse, error)
	Model() string
}

type TextGenerationRequest struct {
	Prompt    string
	MaxTokens int // 0 uses the provider default
}

type TextGenerationResponse struct {
	Text  string
	Usage Usage
}

type Usage struct {
	InputTokens  int
	OutputTokens int
}

// one line of a flattened transcript
type Turn struct {
	Role string
	Text string
}

// holds configuration for LLM initialization
type Config struct {
	Provider    Provider
	APIKey      string
	Model       string // e.g., "gemini-2.0-flash"
	BaseURL     string // optional endpoint override
	MaxTokens   int
	Temperature float32
	Retry       RetryConfig
}
