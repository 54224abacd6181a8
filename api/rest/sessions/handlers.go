package sessions

import (
	goerrors "errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"codeberg.org/architai/server/api/rest/pagination"
	"codeberg.org/architai/server/architai/sessions"
	"codeberg.org/architai/server/internal/errors"
	"codeberg.org/architai/server/internal/llm"
	"codeberg.org/architai/server/internal/logger"
	"github.com/gin-gonic/gin"
)

// CreateSessionHandler godoc
// @Summary Start a design session
// @Description Generates clarifying questions for the described system
// @Tags session
// @Accept json
// @Produce json
// @Param request body CreateSessionRequest true "System description"
// @Success 201 {object} CreateSessionResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /session [post]
func CreateSessionHandler(sessionRepo sessions.Repository, d Designer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateSessionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		prompt := strings.TrimSpace(req.Prompt)
		if prompt == "" {
			errors.ValidationError(c, fmt.Errorf("prompt must not be blank"))
			return
		}

		ctx := c.Request.Context()

		questions, err := d.GenerateQuestions(ctx, prompt, nil)
		if err != nil {
			respondError(c, err, "failed to generate questions")
			return
		}

		session := sessions.NewSession(sessions.GenerateSessionID(), prompt, questions, time.Now().UTC())

		if err := sessionRepo.CreateSession(ctx, session); err != nil {
			respondError(c, err, "failed to create session")
			return
		}

		logger.FromContext(c.Request.Context()).Info("session created",
			"session_id", session.ID,
			"questions", len(session.Questions),
			"status", session.Status,
		)

		c.JSON(http.StatusCreated, CreateSessionResponse{
			SessionID:    session.ID,
			Questions:    session.Questions,
			Conversation: session.Conversation,
			CreatedAt:    session.CreatedAt,
			UpdatedAt:    session.UpdatedAt,
		})
	}
}

// ReplyHandler godoc
// @Summary Answer the next question
// @Tags session
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body ReplyRequest true "Answer"
// @Success 200 {object} ReplyResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /session/{id}/reply [post]
func ReplyHandler(sessionRepo sessions.Repository, d Designer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ReplyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		answer := strings.TrimSpace(req.Answer)
		if answer == "" {
			errors.ValidationError(c, fmt.Errorf("answer must not be blank"))
			return
		}

		ctx := c.Request.Context()

		session, err := sessionRepo.GetSession(ctx, c.Param("id"))
		if err != nil {
			respondError(c, err, "failed to get session")
			return
		}

		if session.IsCompleted() {
			respondError(c, sessions.ErrSessionCompleted, "")
			return
		}

		question, ok := session.NextQuestion()
		if !ok {
			// nothing left to answer, the session just waits for finalize
			c.JSON(http.StatusOK, replyResponse(session, ""))
			return
		}

		reply, meta, err := d.Acknowledge(ctx, question, answer, session.Conversation)
		if err != nil {
			respondError(c, err, "failed to generate reply")
			return
		}

		if err := session.RecordAnswer(answer, reply, meta, time.Now().UTC()); err != nil {
			respondError(c, err, "failed to record answer")
			return
		}

		if err := sessionRepo.UpdateSession(ctx, session); err != nil {
			respondError(c, err, "failed to update session")
			return
		}

		c.JSON(http.StatusOK, replyResponse(session, reply))
	}
}

// FinalizeHandler godoc
// @Summary Generate the final design
// @Tags session
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} sessions.Design
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /session/{id}/finalize [post]
func FinalizeHandler(sessionRepo sessions.Repository, d Designer) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		session, err := sessionRepo.GetSession(ctx, c.Param("id"))
		if err != nil {
			respondError(c, err, "failed to get session")
			return
		}

		// a completed session keeps its first design
		if session.IsCompleted() && session.FinalDesign != nil {
			c.JSON(http.StatusOK, session.FinalDesign)
			return
		}

		if err := session.CanFinalize(); err != nil {
			respondError(c, err, "")
			return
		}

		result, err := d.GenerateDesign(ctx, session.Prompt, session.Conversation)
		if err != nil {
			respondError(c, err, "failed to generate design")
			return
		}

		if err := session.Complete(result.Design, result.Raw, result.Meta, time.Now().UTC()); err != nil {
			respondError(c, err, "failed to complete session")
			return
		}

		if err := sessionRepo.UpdateSession(ctx, session); err != nil {
			respondError(c, err, "failed to update session")
			return
		}

		logger.FromContext(c.Request.Context()).Info("session finalized",
			"session_id", session.ID,
			"components", len(result.Design.Components),
		)

		c.JSON(http.StatusOK, session.FinalDesign)
	}
}

// ListSessionsHandler godoc
// @Summary List design sessions, newest first
// @Tags session
// @Produce json
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Offset"
// @Success 200 {array} SessionSummary
// @Header 200 {integer} X-Total-Count "Total number of sessions"
// @Router /session [get]
func ListSessionsHandler(sessionRepo sessions.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		params := pagination.DefaultParams(
			queryInt(c, "limit"),
			queryInt(c, "offset"),
			defaultListLimit,
			maxListLimit,
		)

		list, total, err := sessionRepo.ListSessions(c.Request.Context(), params.Limit, params.Offset)
		if err != nil {
			respondError(c, err, "failed to list sessions")
			return
		}

		summaries := make([]SessionSummary, 0, len(list))

		for _, s := range list {
			questions := []string{}
			if s.Status == sessions.StatusInProgress {
				questions = s.Questions
			}

			summaries = append(summaries, SessionSummary{
				SessionID:    s.ID,
				Prompt:       s.Prompt,
				Status:       s.Status,
				Questions:    questions,
				Conversation: s.Conversation,
				CreatedAt:    s.CreatedAt,
				UpdatedAt:    s.UpdatedAt,
			})
		}

		c.Header("X-Total-Count", strconv.Itoa(total))
		c.JSON(http.StatusOK, summaries)
	}
}

// GetSessionHandler godoc
// @Summary Get a design session
// @Tags session
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} SessionDetailResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /session/{id} [get]
func GetSessionHandler(sessionRepo sessions.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := sessionRepo.GetSession(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err, "failed to get session")
			return
		}

		c.JSON(http.StatusOK, SessionDetailResponse{
			SessionID:    session.ID,
			Prompt:       session.Prompt,
			Questions:    session.Questions,
			Answers:      session.Answers,
			Status:       session.Status,
			FinalDesign:  session.FinalDesign,
			Conversation: session.Conversation,
			CreatedAt:    session.CreatedAt,
			UpdatedAt:    session.UpdatedAt,
		})
	}
}

func replyResponse(session *sessions.Session, reply string) ReplyResponse {
	return ReplyResponse{
		NextQuestions: session.PendingQuestions(),
		Status:        session.Status,
		Reply:         reply,
		Conversation:  session.Conversation,
		UpdatedAt:     session.UpdatedAt,
	}
}

// maps domain and upstream errors onto the error envelope
func respondError(c *gin.Context, err error, message string) {
	switch {
	case goerrors.Is(err, sessions.ErrSessionNotFound):
		errors.SessionNotFound(c)
	case goerrors.Is(err, sessions.ErrQuestionsUnanswered):
		errors.PreconditionFailed(c, "Not all questions answered yet")
	case goerrors.Is(err, sessions.ErrSessionCompleted):
		errors.InvalidOperation(c, "Session already completed")
	case goerrors.Is(err, llm.ErrUpstreamFailure):
		errors.UpstreamError(c, "", err)
	default:
		errors.InternalError(c, message, err)
	}
}

// returns the query value as an int, 0 when missing or malformed
func queryInt(c *gin.Context, key string) int {
	value, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}

	return value
}
