package sessions

import (
	"context"
	"time"
)

// lifecycle state of a design session
type Status string

const (
	StatusInProgress      Status = "in_progress"
	StatusReadyToFinalize Status = "ready_to_finalize"
	StatusCompleted       Status = "completed"
)

// conversation roles
const (
	RoleUser      = "user"
	RoleAssistant = "architai"
)

// repository interface for session persistence
type Repository interface {
	CreateSession(ctx context.Context, session *Session) error
	GetSession(ctx context.Context, sessionID string) (*Session, error)
	ListSessions(ctx context.Context, limit, offset int) ([]*Session, int, error)
	UpdateSession(ctx context.Context, session *Session) error
}

// implemented by stores that own their schema
type Migrator interface {
	Migrate(ctx context.Context) error
	Drop(ctx context.Context) error
}

// represents one clarification-to-design conversation
type Session struct {
	ID           string              `json:"session_id"`
	Prompt       string              `json:"prompt"`
	Questions    []string            `json:"questions"`
	Answers      []Answer            `json:"answers"`
	Conversation []ConversationEntry `json:"conversation"`
	Status       Status              `json:"status"`
	FinalDesign  *Design             `json:"final_design"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// an answered clarifying question
type Answer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// one entry of the conversation log
type ConversationEntry struct {
	Role string `json:"role"`
	Text string `json:"text"`
	Meta string `json:"meta,omitempty"` // JSON encoded, e.g. {"prompt": "..."}
}
