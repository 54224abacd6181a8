package sessions

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"codeberg.org/architai/server/architai/sessions"
	"codeberg.org/architai/server/internal/designer"
	"codeberg.org/architai/server/internal/errors"
	"codeberg.org/architai/server/internal/llm"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// implements llm.TextGenerator for testing, answering by prompt kind
type mockGenerator struct {
	questions string
	design    string
	fail      bool
	calls     int
}

func (m *mockGenerator) GenerateText(_ context.Context, req llm.TextGenerationRequest) (*llm.TextGenerationResponse, error) {
	m.calls++

	if m.fail {
		return nil, llm.ErrUpstreamFailure
	}

	switch {
	case strings.Contains(req.Prompt, "as a JSON array of strings"):
		return &llm.TextGenerationResponse{Text: m.questions}, nil
	case strings.HasPrefix(req.Prompt, "system: You are a senior system architect"):
		return &llm.TextGenerationResponse{Text: m.design}, nil
	default:
		return &llm.TextGenerationResponse{Text: "Thanks, noted."}, nil
	}
}

func (m *mockGenerator) Model() string {
	return "mock-model"
}

type testEnv struct {
	router    *gin.Engine
	repo      *sessions.MemoryRepository
	generator *mockGenerator
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		router: gin.New(),
		repo:   sessions.NewMemoryRepository(),
		generator: &mockGenerator{
			questions: `["How many users?", "Which regions?"]`,
			design:    "```json\n{\"summary\": \"A shortener\", \"tech_stack\": [\"Go\"]}\n```",
		},
	}

	RegisterRoutes(env.router.Group(""), env.repo, designer.New(env.generator, 4))

	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))

	return v
}

func (e *testEnv) createSession(t *testing.T) CreateSessionResponse {
	t.Helper()

	w := e.do(t, http.MethodPost, "/session", CreateSessionRequest{Prompt: "design a url shortener"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	return decodeBody[CreateSessionResponse](t, w)
}

func TestCreateSession(t *testing.T) {
	env := newTestEnv(t)

	resp := env.createSession(t)

	assert.Len(t, resp.SessionID, 36)
	assert.Equal(t, []string{"How many users?", "Which regions?"}, resp.Questions)
	assert.Empty(t, resp.Conversation)
	assert.False(t, resp.CreatedAt.IsZero())

	stored, err := env.repo.GetSession(context.Background(), resp.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "design a url shortener", stored.Prompt)
	assert.Equal(t, sessions.StatusInProgress, stored.Status)
}

func TestCreateSession_TrailingSlash(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/session/", CreateSessionRequest{Prompt: "a chat app"})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCreateSession_Validation(t *testing.T) {
	env := newTestEnv(t)

	for _, body := range []any{map[string]string{}, CreateSessionRequest{Prompt: "   "}} {
		w := env.do(t, http.MethodPost, "/session", body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, errors.CodeValidationError, decodeBody[errors.ErrorResponse](t, w).Error)
	}

	assert.Equal(t, 0, env.generator.calls)
	assert.Equal(t, 0, env.repo.Count())
}

func TestCreateSession_UpstreamFailure(t *testing.T) {
	env := newTestEnv(t)
	env.generator.fail = true

	w := env.do(t, http.MethodPost, "/session", CreateSessionRequest{Prompt: "a chat app"})

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, errors.CodeUpstreamError, decodeBody[errors.ErrorResponse](t, w).Error)
	assert.Equal(t, 0, env.repo.Count())
}

func TestCreateSession_NoQuestions(t *testing.T) {
	env := newTestEnv(t)
	env.generator.questions = "[]"

	resp := env.createSession(t)
	assert.Empty(t, resp.Questions)

	stored, err := env.repo.GetSession(context.Background(), resp.SessionID)
	require.NoError(t, err)
	assert.Equal(t, sessions.StatusReadyToFinalize, stored.Status)
}

func TestReplyAndFinalize(t *testing.T) {
	env := newTestEnv(t)
	created := env.createSession(t)
	base := "/session/" + created.SessionID

	// finalize too early
	w := env.do(t, http.MethodPost, base+"/finalize", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	errResp := decodeBody[errors.ErrorResponse](t, w)
	assert.Equal(t, errors.CodePreconditionFailed, errResp.Error)
	assert.Equal(t, "Not all questions answered yet", errResp.Message)

	w = env.do(t, http.MethodPost, base+"/reply", ReplyRequest{Answer: "a million"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	reply := decodeBody[ReplyResponse](t, w)
	assert.Equal(t, []string{"Which regions?"}, reply.NextQuestions)
	assert.Equal(t, sessions.StatusInProgress, reply.Status)
	assert.Equal(t, "Thanks, noted.", reply.Reply)
	require.Len(t, reply.Conversation, 2)
	assert.Equal(t, sessions.RoleUser, reply.Conversation[0].Role)
	assert.JSONEq(t, `{"prompt": "Question: How many users?\nUser answer: a million"}`, reply.Conversation[1].Meta)

	w = env.do(t, http.MethodPost, base+"/reply", ReplyRequest{Answer: "eu only"})
	require.Equal(t, http.StatusOK, w.Code)

	reply = decodeBody[ReplyResponse](t, w)
	assert.Empty(t, reply.NextQuestions)
	assert.Equal(t, sessions.StatusReadyToFinalize, reply.Status)

	// extra replies are a no-op
	callsBefore := env.generator.calls
	w = env.do(t, http.MethodPost, base+"/reply", ReplyRequest{Answer: "anything else"})
	require.Equal(t, http.StatusOK, w.Code)

	reply = decodeBody[ReplyResponse](t, w)
	assert.Empty(t, reply.NextQuestions)
	assert.Equal(t, sessions.StatusReadyToFinalize, reply.Status)
	assert.Len(t, reply.Conversation, 4)
	assert.Equal(t, callsBefore, env.generator.calls)

	w = env.do(t, http.MethodPost, base+"/finalize", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	design := decodeBody[sessions.Design](t, w)
	assert.Equal(t, "A shortener", design.Summary)
	assert.Equal(t, []string{"Go"}, design.TechStack)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	for _, key := range []string{"summary", "components", "db_schema", "mermaid", "tech_stack", "integration_steps", "rationale", "diagram_url", "diagrams"} {
		assert.Contains(t, raw, key)
	}

	stored, err := env.repo.GetSession(context.Background(), created.SessionID)
	require.NoError(t, err)
	assert.Equal(t, sessions.StatusCompleted, stored.Status)
	assert.Len(t, stored.Conversation, 5)

	// finalize again returns the stored design without another model call
	callsBefore = env.generator.calls
	env.generator.design = `{"summary": "different"}`

	w = env.do(t, http.MethodPost, base+"/finalize", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "A shortener", decodeBody[sessions.Design](t, w).Summary)
	assert.Equal(t, callsBefore, env.generator.calls)

	// replies after completion are rejected
	w = env.do(t, http.MethodPost, base+"/reply", ReplyRequest{Answer: "late"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, errors.CodeInvalidOperation, decodeBody[errors.ErrorResponse](t, w).Error)
}

func TestReply_UpstreamFailureLeavesSessionUntouched(t *testing.T) {
	env := newTestEnv(t)
	created := env.createSession(t)
	env.generator.fail = true

	w := env.do(t, http.MethodPost, "/session/"+created.SessionID+"/reply", ReplyRequest{Answer: "a million"})
	assert.Equal(t, http.StatusBadGateway, w.Code)

	stored, err := env.repo.GetSession(context.Background(), created.SessionID)
	require.NoError(t, err)
	assert.Empty(t, stored.Answers)
	assert.Empty(t, stored.Conversation)
}

func TestReply_Validation(t *testing.T) {
	env := newTestEnv(t)
	created := env.createSession(t)

	callsBefore := env.generator.calls

	for _, body := range []map[string]string{{}, {"answer": ""}, {"answer": "   "}, {"answer": "\n\t"}} {
		w := env.do(t, http.MethodPost, "/session/"+created.SessionID+"/reply", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, errors.CodeValidationError, decodeBody[errors.ErrorResponse](t, w).Error)
	}

	// rejected answers never reach the model or use up a question
	assert.Equal(t, callsBefore, env.generator.calls)

	stored, err := env.repo.GetSession(context.Background(), created.SessionID)
	require.NoError(t, err)
	assert.Empty(t, stored.Answers)
	assert.Equal(t, []string{"How many users?"}, stored.PendingQuestions())
}

func TestReply_TrimsAnswer(t *testing.T) {
	env := newTestEnv(t)
	created := env.createSession(t)

	w := env.do(t, http.MethodPost, "/session/"+created.SessionID+"/reply", ReplyRequest{Answer: "  ten thousand \n"})
	require.Equal(t, http.StatusOK, w.Code)

	stored, err := env.repo.GetSession(context.Background(), created.SessionID)
	require.NoError(t, err)
	require.Len(t, stored.Answers, 1)
	assert.Equal(t, "ten thousand", stored.Answers[0].Answer)
}

func TestUnknownSession(t *testing.T) {
	env := newTestEnv(t)

	requests := []struct {
		method string
		path   string
		body   any
	}{
		{method: http.MethodGet, path: "/session/nope"},
		{method: http.MethodPost, path: "/session/nope/reply", body: ReplyRequest{Answer: "x"}},
		{method: http.MethodPost, path: "/session/nope/finalize"},
	}

	for _, r := range requests {
		t.Run(r.method+" "+r.path, func(t *testing.T) {
			w := env.do(t, r.method, r.path, r.body)

			assert.Equal(t, http.StatusNotFound, w.Code)
			resp := decodeBody[errors.ErrorResponse](t, w)
			assert.Equal(t, errors.CodeSessionNotFound, resp.Error)
			assert.Equal(t, "Session not found", resp.Message)
		})
	}
}

func TestGetSession(t *testing.T) {
	env := newTestEnv(t)
	created := env.createSession(t)

	w := env.do(t, http.MethodGet, "/session/"+created.SessionID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	detail := decodeBody[SessionDetailResponse](t, w)
	assert.Equal(t, created.SessionID, detail.SessionID)
	assert.Equal(t, "design a url shortener", detail.Prompt)
	assert.Equal(t, created.Questions, detail.Questions)
	assert.Empty(t, detail.Answers)
	assert.Equal(t, sessions.StatusInProgress, detail.Status)
	assert.Nil(t, detail.FinalDesign)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	assert.Contains(t, raw, "final_design")
}

func TestListSessions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	inProgress := sessions.NewSession("s1", "first", []string{"q?"}, base)
	ready := sessions.NewSession("s2", "second", nil, base.Add(time.Minute))
	require.NoError(t, env.repo.CreateSession(ctx, inProgress))
	require.NoError(t, env.repo.CreateSession(ctx, ready))

	w := env.do(t, http.MethodGet, "/session", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-Total-Count"))

	list := decodeBody[[]SessionSummary](t, w)
	require.Len(t, list, 2)
	assert.Equal(t, "s2", list[0].SessionID)
	assert.Empty(t, list[0].Questions)
	assert.Equal(t, "s1", list[1].SessionID)
	assert.Equal(t, []string{"q?"}, list[1].Questions)

	w = env.do(t, http.MethodGet, "/session/?limit=1&offset=1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	list = decodeBody[[]SessionSummary](t, w)
	require.Len(t, list, 1)
	assert.Equal(t, "s1", list[0].SessionID)
}

func TestListSessions_Empty(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/session?limit=abc", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
	assert.Equal(t, "0", w.Header().Get("X-Total-Count"))
}
