package tui

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"codeberg.org/architai/server/architai/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *APIClient {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewAPIClientWithEndpoint(server.URL + "/")
}

func TestAPIClient_CreateSession(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/session", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req createSessionRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "design a chat app", req.Prompt)

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"session_id":"abc","questions":["How many users?"],"conversation":[]}`)) //nolint:errcheck
	})

	resp, err := client.CreateSession(context.Background(), "design a chat app")
	require.NoError(t, err)

	assert.Equal(t, "abc", resp.SessionID)
	assert.Equal(t, []string{"How many users?"}, resp.Questions)
}

func TestAPIClient_Reply(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/session/abc/reply", r.URL.Path)

		w.Write([]byte(`{"next_questions":[],"status":"ready_to_finalize","reply":"ok","conversation":[{"role":"user","text":"lots"}]}`)) //nolint:errcheck
	})

	resp, err := client.Reply(context.Background(), "abc", "lots")
	require.NoError(t, err)

	assert.Equal(t, sessions.StatusReadyToFinalize, resp.Status)
	assert.Equal(t, "ok", resp.Reply)
	assert.Empty(t, resp.NextQuestions)
	require.Len(t, resp.Conversation, 1)
}

func TestAPIClient_Finalize(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/session/abc/finalize", r.URL.Path)

		w.Write([]byte(`{"summary":"a chat system","tech_stack":["go"]}`)) //nolint:errcheck
	})

	design, err := client.Finalize(context.Background(), "abc")
	require.NoError(t, err)

	assert.Equal(t, "a chat system", design.Summary)
	assert.Equal(t, []string{"go"}, design.TechStack)
}

func TestAPIClient_ListSessions(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "50", r.URL.Query().Get("limit"))
		assert.Equal(t, "0", r.URL.Query().Get("offset"))

		w.Header().Set("X-Total-Count", "7")
		w.Write([]byte(`[{"session_id":"a","prompt":"p","status":"completed"}]`)) //nolint:errcheck
	})

	items, total, err := client.ListSessions(context.Background(), 50, 0)
	require.NoError(t, err)

	assert.Equal(t, 7, total)
	require.Len(t, items, 1)
	assert.Equal(t, sessions.StatusCompleted, items[0].Status)
}

func TestAPIClient_ErrorResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"not_found","message":"Session not found"}`)) //nolint:errcheck
	})

	_, err := client.GetSession(context.Background(), "missing")
	assert.EqualError(t, err, "not_found: Session not found")
}

func TestAPIClient_NonJSONError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("bad gateway")) //nolint:errcheck
	})

	_, err := client.GetSession(context.Background(), "abc")
	assert.ErrorContains(t, err, "status 502")
}
