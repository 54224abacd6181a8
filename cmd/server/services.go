package main

import (
	"fmt"

	"codeberg.org/architai/server/internal/config"
	"codeberg.org/architai/server/internal/designer"
	"codeberg.org/architai/server/internal/llm"
)

// creates and configures all service clients
func InitializeServices(cfg *config.Config) (*Services, error) {
	llmClient, err := llm.NewLLM(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	return &Services{
		LLM:      llmClient,
		Designer: designer.New(llmClient, cfg.QuestionCount),
	}, nil
}
