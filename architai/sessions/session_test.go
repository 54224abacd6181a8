package sessions

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

func newTestSession(questions ...string) *Session {
	return NewSession("sess-1", "design a url shortener", questions, testNow)
}

func TestNewSession(t *testing.T) {
	s := newTestSession("How many users?", "Which region?")

	assert.Equal(t, "sess-1", s.ID)
	assert.Equal(t, StatusInProgress, s.Status)
	assert.Empty(t, s.Answers)
	assert.Empty(t, s.Conversation)
	assert.Nil(t, s.FinalDesign)
	assert.Equal(t, testNow, s.CreatedAt)
	assert.Equal(t, testNow, s.UpdatedAt)
}

func TestNewSession_NoQuestions(t *testing.T) {
	s := newTestSession()

	assert.Equal(t, StatusReadyToFinalize, s.Status)
	assert.NotNil(t, s.Questions)
	assert.Empty(t, s.PendingQuestions())
	assert.NoError(t, s.CanFinalize())
}

func TestGenerateSessionID(t *testing.T) {
	a := GenerateSessionID()
	b := GenerateSessionID()

	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}

func TestRecordAnswer(t *testing.T) {
	s := newTestSession("How many users?", "Which region?")
	later := testNow.Add(time.Minute)

	next, ok := s.NextQuestion()
	require.True(t, ok)
	assert.Equal(t, "How many users?", next)

	err := s.RecordAnswer("about a million", "Noted.", `{"prompt":"x"}`, later)
	require.NoError(t, err)

	assert.Equal(t, StatusInProgress, s.Status)
	assert.Equal(t, []Answer{{Question: "How many users?", Answer: "about a million"}}, s.Answers)
	require.Len(t, s.Conversation, 2)
	assert.Equal(t, RoleUser, s.Conversation[0].Role)
	assert.Equal(t, "about a million", s.Conversation[0].Text)
	assert.Equal(t, RoleAssistant, s.Conversation[1].Role)
	assert.Equal(t, "Noted.", s.Conversation[1].Text)
	assert.Equal(t, `{"prompt":"x"}`, s.Conversation[1].Meta)
	assert.Equal(t, later, s.UpdatedAt)
	assert.Equal(t, []string{"Which region?"}, s.PendingQuestions())

	err = s.RecordAnswer("eu-west", "Thanks.", "", later)
	require.NoError(t, err)

	assert.Equal(t, StatusReadyToFinalize, s.Status)
	assert.Empty(t, s.PendingQuestions())
	assert.Len(t, s.Conversation, 4)
}

func TestRecordAnswer_AllAnswered(t *testing.T) {
	s := newTestSession("How many users?")
	require.NoError(t, s.RecordAnswer("many", "ok", "", testNow))

	err := s.RecordAnswer("more", "ok", "", testNow)

	assert.ErrorIs(t, err, ErrAllQuestionsAnswered)
	assert.Len(t, s.Answers, 1)
	assert.Len(t, s.Conversation, 2)
	assert.Equal(t, StatusReadyToFinalize, s.Status)
}

func TestRecordAnswer_Completed(t *testing.T) {
	s := newTestSession()
	require.NoError(t, s.Complete(&Design{Summary: "done"}, "raw", "", testNow))

	err := s.RecordAnswer("late", "ok", "", testNow)

	assert.ErrorIs(t, err, ErrSessionCompleted)
	assert.Empty(t, s.Answers)
}

func TestCanFinalize(t *testing.T) {
	s := newTestSession("How many users?")

	assert.ErrorIs(t, s.CanFinalize(), ErrQuestionsUnanswered)

	require.NoError(t, s.RecordAnswer("many", "ok", "", testNow))
	assert.NoError(t, s.CanFinalize())
}

func TestComplete(t *testing.T) {
	s := newTestSession("How many users?")
	later := testNow.Add(time.Hour)

	err := s.Complete(&Design{Summary: "early"}, "raw", "", later)
	assert.ErrorIs(t, err, ErrQuestionsUnanswered)
	assert.Equal(t, StatusInProgress, s.Status)
	assert.Nil(t, s.FinalDesign)

	require.NoError(t, s.RecordAnswer("many", "ok", "", testNow))

	design := &Design{Summary: "a shortener"}
	err = s.Complete(design, `{"summary":"a shortener"}`, `{"prompt":"p"}`, later)
	require.NoError(t, err)

	assert.True(t, s.IsCompleted())
	assert.Equal(t, StatusCompleted, s.Status)
	assert.Equal(t, design, s.FinalDesign)
	assert.Equal(t, later, s.UpdatedAt)

	last := s.Conversation[len(s.Conversation)-1]
	assert.Equal(t, RoleAssistant, last.Role)
	assert.Equal(t, `{"summary":"a shortener"}`, last.Text)
	assert.Equal(t, `{"prompt":"p"}`, last.Meta)

	err = s.Complete(&Design{Summary: "again"}, "raw", "", later)
	assert.ErrorIs(t, err, ErrSessionCompleted)
	assert.Equal(t, "a shortener", s.FinalDesign.Summary)
}

func TestAdvance_NeverMovesBackward(t *testing.T) {
	s := newTestSession()
	require.NoError(t, s.Complete(&Design{}, "raw", "", testNow))

	s.advance()
	assert.Equal(t, StatusCompleted, s.Status)
}

func TestClone(t *testing.T) {
	s := newTestSession("q1", "q2")
	require.NoError(t, s.RecordAnswer("a1", "r1", "", testNow))
	s.FinalDesign = &Design{
		Summary:   "s",
		TechStack: []string{"go"},
		Components: []Component{
			{Name: "api", Details: ComponentDetails{TechnologyStack: []string{"gin"}}},
		},
	}

	c := s.Clone()
	require.NotSame(t, s, c)
	assert.Equal(t, s.Answers, c.Answers)
	assert.Equal(t, s.Conversation, c.Conversation)
	assert.Equal(t, s.FinalDesign.Summary, c.FinalDesign.Summary)

	c.Questions[0] = "changed"
	c.Answers[0].Answer = "changed"
	c.Conversation[0].Text = "changed"
	c.FinalDesign.TechStack[0] = "rust"
	c.FinalDesign.Components[0].Details.TechnologyStack[0] = "axum"

	assert.Equal(t, "q1", s.Questions[0])
	assert.Equal(t, "a1", s.Answers[0].Answer)
	assert.Equal(t, "a1", s.Conversation[0].Text)
	assert.Equal(t, "go", s.FinalDesign.TechStack[0])
	assert.Equal(t, "gin", s.FinalDesign.Components[0].Details.TechnologyStack[0])
}
