package tui

import (
	"time"

	"codeberg.org/architai/server/architai/sessions"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"
)

// represents the current state of the TUI
type AppState int

const (
	StateWelcome AppState = iota
	StateSession
	StateHistory
)

// where the active design session stands from the user's side
type sessionPhase int

const (
	phasePrompt sessionPhase = iota
	phaseAnswering
	phaseReady
	phaseDone
)

// main TUI application model
type Model struct {
	state   AppState
	mode    string
	width   int
	height  int
	err     error
	client  *APIClient
	welcome *Welcome
	session *SessionModel
	history *HistoryModel
}

// sent when an error occurs
type ErrorMsg struct {
	err error
}

// sent to start a new design session
type EnterSessionMsg struct{}

// sent to open the session history
type EnterHistoryMsg struct{}

// sent when the server starts
type ServerStartedMsg struct{}

// welcome screen model
type Welcome struct {
	mode     string
	input    string
	commands []Command
}

// represents an available TUI command
type Command struct {
	Name        string
	Description string
	Available   bool
}

// interactive prompt, clarification and design view
type SessionModel struct {
	client          *APIClient
	input           textinput.Model
	viewport        viewport.Model
	spinner         spinner.Model
	glamourRenderer *glamour.TermRenderer
	width           int
	height          int
	ready           bool
	phase           sessionPhase
	sessionID       string
	prompt          string
	questions       []string
	answered        int
	transcript      []sessions.ConversationEntry
	design          *sessions.Design
	isFetching      bool
	status          string
}

// browsable list of past sessions with a detail pane
type HistoryModel struct {
	client          *APIClient
	viewport        viewport.Model
	spinner         spinner.Model
	glamourRenderer *glamour.TermRenderer
	width           int
	height          int
	items           []SessionSummary
	total           int
	cursor          int
	detail          *SessionDetail
	isFetching      bool
	err             error
}

// sent when a session was created on the server
type SessionCreatedMsg struct {
	resp CreateSessionResponse
}

// sent when the server acknowledged an answer
type ReplyMsg struct {
	answer string
	resp   ReplyResponse
}

// sent when the final design is ready
type DesignMsg struct {
	design sessions.Design
}

// sent when the session list was fetched
type SessionsLoadedMsg struct {
	items []SessionSummary
	total int
}

// sent when a single session was fetched
type SessionLoadedMsg struct {
	detail SessionDetail
}

// sent when an API request fails
type APIErrorMsg struct {
	err error
}

// REST API request/response types

type createSessionRequest struct {
	Prompt string `json:"prompt"`
}

type replyRequest struct {
	Answer string `json:"answer"`
}

type CreateSessionResponse struct {
	SessionID    string                       `json:"session_id"`
	Questions    []string                     `json:"questions"`
	Conversation []sessions.ConversationEntry `json:"conversation"`
	CreatedAt    time.Time                    `json:"created_at"`
	UpdatedAt    time.Time                    `json:"updated_at"`
}

type ReplyResponse struct {
	NextQuestions []string                     `json:"next_questions"`
	Status        sessions.Status              `json:"status"`
	Reply         string                       `json:"reply"`
	Conversation  []sessions.ConversationEntry `json:"conversation"`
	UpdatedAt     time.Time                    `json:"updated_at"`
}

type SessionSummary struct {
	SessionID string          `json:"session_id"`
	Prompt    string          `json:"prompt"`
	Status    sessions.Status `json:"status"`
	Questions []string        `json:"questions"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type SessionDetail struct {
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

type apiErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}
