package designer

import (
	"context"
	"fmt"

	"codeberg.org/architai/server/architai/sessions"
	"codeberg.org/architai/server/internal/llm"
	"codeberg.org/architai/server/internal/logger"
)

func New(generator llm.TextGenerator, questionCount int) *Designer {
	if questionCount <= 0 {
		questionCount = DefaultQuestionCount
	}

	return &Designer{
		generator:     generator,
		questionCount: questionCount,
	}
}

func (d *Designer) Model() string {
	return d.generator.Model()
}

// asks the model for clarifying questions about the described system
func (d *Designer) GenerateQuestions(ctx context.Context, description string, conversation []sessions.ConversationEntry) ([]string, error) {
	prompt := llm.BuildPrompt(toTurns(conversation), questionsPrompt(description, d.questionCount), questionsSystemPrompt)

	resp, err := d.generator.GenerateText(ctx, llm.TextGenerationRequest{Prompt: prompt})
	if err != nil {
		return nil, fmt.Errorf("failed to generate questions: %w", err)
	}

	questions := parseQuestions(llm.CleanJSONText(resp.Text), answeredTexts(conversation), d.questionCount)

	logger.Debug("questions generated",
		"model", d.generator.Model(),
		"count", len(questions),
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
	)

	return questions, nil
}

// gets the model's reply to an answered question, returns the reply and its meta
func (d *Designer) Acknowledge(ctx context.Context, question, answer string, conversation []sessions.ConversationEntry) (string, string, error) {
	llmPrompt := acknowledgePrompt(question, answer)

	// the answer is part of the transcript the model sees
	turns := append(toTurns(conversation), llm.Turn{Role: sessions.RoleUser, Text: answer})

	resp, err := d.generator.GenerateText(ctx, llm.TextGenerationRequest{
		Prompt: llm.BuildPrompt(turns, llmPrompt, ""),
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to generate reply: %w", err)
	}

	return resp.Text, promptMeta(llmPrompt), nil
}

// asks the model for the final structured design
func (d *Designer) GenerateDesign(ctx context.Context, description string, conversation []sessions.ConversationEntry) (*DesignResult, error) {
	prompt := llm.BuildPrompt(toTurns(conversation), description, designSystemPrompt)

	resp, err := d.generator.GenerateText(ctx, llm.TextGenerationRequest{Prompt: prompt})
	if err != nil {
		return nil, fmt.Errorf("failed to generate design: %w", err)
	}

	parsed := llm.ParseJSONObject(llm.CleanJSONText(resp.Text), "summary")

	logger.Debug("design generated",
		"model", d.generator.Model(),
		"components", len(asList(parsed["components"])),
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
	)

	return &DesignResult{
		Design: SanitizeDesign(parsed),
		Raw:    resp.Text,
		Meta:   promptMeta(description),
	}, nil
}

// texts the user already said, never asked again
func answeredTexts(conversation []sessions.ConversationEntry) map[string]bool {
	answered := make(map[string]bool)

	for _, entry := range conversation {
		if entry.Role == sessions.RoleUser {
			answered[entry.Text] = true
		}
	}

	return answered
}
