package tui

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"codeberg.org/architai/server/architai/sessions"
	tea "github.com/charmbracelet/bubbletea"
)

// model calls retry on the server, so requests get a generous timeout
const apiRequestTimeout = 3 * time.Minute

// page size for the history view
const historyPageSize = 50

// manages HTTP requests to the ArchitAI REST API
type APIClient struct {
	endpoint   string
	httpClient *http.Client
}

// creates a new REST client pointed at ARCHITAI_API_ENDPOINT
func NewAPIClient() *APIClient {
	endpoint := os.Getenv("ARCHITAI_API_ENDPOINT")
	if endpoint == "" {
		endpoint = "http://localhost:8080"
	}

	return NewAPIClientWithEndpoint(endpoint)
}

func NewAPIClientWithEndpoint(endpoint string) *APIClient {
	return &APIClient{
		endpoint: strings.TrimSuffix(endpoint, "/"),
		httpClient: &http.Client{
			Timeout: apiRequestTimeout,
		},
	}
}

// starts a session and returns its clarifying questions
func (c *APIClient) CreateSession(ctx context.Context, prompt string) (*CreateSessionResponse, error) {
	var resp CreateSessionResponse

	if _, err := c.do(ctx, http.MethodPost, "/session", createSessionRequest{Prompt: prompt}, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

// answers the next pending question
func (c *APIClient) Reply(ctx context.Context, sessionID, answer string) (*ReplyResponse, error) {
	var resp ReplyResponse
	path := fmt.Sprintf("/session/%s/reply", url.PathEscape(sessionID))

	if _, err := c.do(ctx, http.MethodPost, path, replyRequest{Answer: answer}, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

// asks the server to produce the final design
func (c *APIClient) Finalize(ctx context.Context, sessionID string) (*sessions.Design, error) {
	var design sessions.Design
	path := fmt.Sprintf("/session/%s/finalize", url.PathEscape(sessionID))

	if _, err := c.do(ctx, http.MethodPost, path, nil, &design); err != nil {
		return nil, err
	}

	return &design, nil
}

// lists sessions newest first along with the total count
func (c *APIClient) ListSessions(ctx context.Context, limit, offset int) ([]SessionSummary, int, error) {
	var items []SessionSummary
	path := fmt.Sprintf("/session?limit=%d&offset=%d", limit, offset)

	header, err := c.do(ctx, http.MethodGet, path, nil, &items)
	if err != nil {
		return nil, 0, err
	}

	total, err := strconv.Atoi(header.Get("X-Total-Count"))
	if err != nil {
		total = len(items)
	}

	return items, total, nil
}

func (c *APIClient) GetSession(ctx context.Context, sessionID string) (*SessionDetail, error) {
	var detail SessionDetail

	if _, err := c.do(ctx, http.MethodGet, "/session/"+url.PathEscape(sessionID), nil, &detail); err != nil {
		return nil, err
	}

	return &detail, nil
}

// sends a JSON request and decodes a 2xx body into out
func (c *APIClient) do(ctx context.Context, method, path string, payload, out any) (http.Header, error) {
	var body io.Reader

	if payload != nil {
		payloadBytes, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}

		body = bytes.NewReader(payloadBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp apiErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error != "" {
			return nil, fmt.Errorf("%s: %s", errResp.Error, errResp.Message)
		}

		return nil, fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return resp.Header, nil
}

// tea commands wrapping the client calls

func (c *APIClient) CreateSessionCmd(prompt string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), apiRequestTimeout)
		defer cancel()

		resp, err := c.CreateSession(ctx, prompt)
		if err != nil {
			return APIErrorMsg{err: err}
		}

		return SessionCreatedMsg{resp: *resp}
	}
}

func (c *APIClient) ReplyCmd(sessionID, answer string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), apiRequestTimeout)
		defer cancel()

		resp, err := c.Reply(ctx, sessionID, answer)
		if err != nil {
			return APIErrorMsg{err: err}
		}

		return ReplyMsg{answer: answer, resp: *resp}
	}
}

func (c *APIClient) FinalizeCmd(sessionID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), apiRequestTimeout)
		defer cancel()

		design, err := c.Finalize(ctx, sessionID)
		if err != nil {
			return APIErrorMsg{err: err}
		}

		return DesignMsg{design: *design}
	}
}

func (c *APIClient) ListSessionsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), apiRequestTimeout)
		defer cancel()

		items, total, err := c.ListSessions(ctx, historyPageSize, 0)
		if err != nil {
			return APIErrorMsg{err: err}
		}

		return SessionsLoadedMsg{items: items, total: total}
	}
}

func (c *APIClient) GetSessionCmd(sessionID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), apiRequestTimeout)
		defer cancel()

		detail, err := c.GetSession(ctx, sessionID)
		if err != nil {
			return APIErrorMsg{err: err}
		}

		return SessionLoadedMsg{detail: *detail}
	}
}
