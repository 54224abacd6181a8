package sessions

import "errors"

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrQuestionsUnanswered  = errors.New("not all questions answered yet")
	ErrAllQuestionsAnswered = errors.New("all questions already answered")
	ErrSessionCompleted     = errors.New("session already completed")
)
