package sessions

import (
	"context"
	"time"

	"codeberg.org/architai/server/architai/sessions"
	"codeberg.org/architai/server/internal/designer"
)

const (
	defaultListLimit = 50
	maxListLimit     = 100
)

// produces questions, acknowledgements and designs for a session
type Designer interface {
	GenerateQuestions(ctx context.Context, description string, conversation []sessions.ConversationEntry) ([]string, error)
	Acknowledge(ctx context.Context, question, answer string, conversation []sessions.ConversationEntry) (string, string, error)
	GenerateDesign(ctx context.Context, description string, conversation []sessions.ConversationEntry) (*designer.DesignResult, error)
}

type CreateSessionRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

type CreateSessionResponse struct {
	SessionID    string                       `json:"session_id"`
	Questions    []string                     `json:"questions"`
	Conversation []sessions.ConversationEntry `json:"conversation"`
	CreatedAt    time.Time                    `json:"created_at"`
	UpdatedAt    time.Time                    `json:"updated_at"`
}

type ReplyRequest struct {
	Answer string `json:"answer" binding:"required"`
}

type ReplyResponse struct {
	NextQuestions []string                     `json:"next_questions"`
	Status        sessions.Status              `json:"status"`
	Reply         string                       `json:"reply"`
	Conversation  []sessions.ConversationEntry `json:"conversation"`
	UpdatedAt     time.Time                    `json:"updated_at"`
}

// one entry of the session list, questions only while the session is in progress
type SessionSummary struct {
	SessionID    string                       `json:"session_id"`
	Prompt       string                       `json:"prompt"`
	Status       sessions.Status              `json:"status"`
	Questions    []string                     `json:"questions"`
	Conversation []sessions.ConversationEntry `json:"conversation"`
	CreatedAt    time.Time                    `json:"created_at"`
	UpdatedAt    time.Time                    `json:"updated_at"`
}

type SessionDetailResponse struct {
	SessionID    string                       `json:"session_id"`
	Prompt       string                       `json:"prompt"`
	Questions    []string                     `json:"questions"`
	Answers      []sessions.Answer            `json:"answers"`
	Status       sessions.Status              `json:"status"`
	FinalDesign  *sessions.Design             `json:"final_design"`
	Conversation []sessions.ConversationEntry `json:"conversation"`
	CreatedAt    time.Time                    `json:"created_at"`
	UpdatedAt    time.Time                    `json:"updated_at"`
}
