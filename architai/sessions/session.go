package sessions

import (
	"time"

	"github.com/google/uuid"
)

// returns a new random session ID
func GenerateSessionID() string {
	return uuid.NewString()
}

// creates a session with its fixed question list
func NewSession(id, prompt string, questions []string, now time.Time) *Session {
	if questions == nil {
		questions = []string{}
	}

	s := &Session{
		ID:           id,
		Prompt:       prompt,
		Questions:    questions,
		Answers:      []Answer{},
		Conversation: []ConversationEntry{},
		Status:       StatusInProgress,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	s.advance()

	return s
}

// returns the first unanswered question
func (s *Session) NextQuestion() (string, bool) {
	idx := len(s.Answers)
	if idx >= len(s.Questions) {
		return "", false
	}

	return s.Questions[idx], true
}

// returns the next question as a list, empty once everything is answered
func (s *Session) PendingQuestions() []string {
	if next, ok := s.NextQuestion(); ok {
		return []string{next}
	}

	return []string{}
}

// records the user's answer to the next question together with the model's reply
func (s *Session) RecordAnswer(answer, reply, meta string, now time.Time) error {
	if s.Status == StatusCompleted {
		return ErrSessionCompleted
	}

	question, ok := s.NextQuestion()
	if !ok {
		return ErrAllQuestionsAnswered
	}

	s.Conversation = append(s.Conversation,
		ConversationEntry{Role: RoleUser, Text: answer},
		ConversationEntry{Role: RoleAssistant, Text: reply, Meta: meta},
	)
	s.Answers = append(s.Answers, Answer{Question: question, Answer: answer})
	s.UpdatedAt = now
	s.advance()

	return nil
}

// reports whether the session may be finalized
func (s *Session) CanFinalize() error {
	if len(s.Answers) < len(s.Questions) {
		return ErrQuestionsUnanswered
	}

	return nil
}

// stores the final design and closes the session
func (s *Session) Complete(design *Design, raw, meta string, now time.Time) error {
	if s.Status == StatusCompleted {
		return ErrSessionCompleted
	}

	if err := s.CanFinalize(); err != nil {
		return err
	}

	s.Conversation = append(s.Conversation, ConversationEntry{
		Role: RoleAssistant,
		Text: raw,
		Meta: meta,
	})
	s.FinalDesign = design
	s.Status = StatusCompleted
	s.UpdatedAt = now

	return nil
}

func (s *Session) IsCompleted() bool {
	return s.Status == StatusCompleted
}

// moves status forward based on answer progress, never backward
func (s *Session) advance() {
	if s.Status == StatusCompleted {
		return
	}

	if len(s.Answers) >= len(s.Questions) {
		s.Status = StatusReadyToFinalize
		return
	}

	s.Status = StatusInProgress
}

// returns a deep copy so stores never share slices with callers
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}

	c := *s
	c.Questions = append([]string{}, s.Questions...)
	c.Answers = append([]Answer{}, s.Answers...)
	c.Conversation = append([]ConversationEntry{}, s.Conversation...)

	if s.FinalDesign != nil {
		c.FinalDesign = s.FinalDesign.Clone()
	}

	return &c
}

func (d *Design) Clone() *Design {
	if d == nil {
		return nil
	}

	c := *d
	c.TechStack = append([]string{}, d.TechStack...)
	c.IntegrationSteps = append([]string{}, d.IntegrationSteps...)
	c.Diagrams = append([]Diagram{}, d.Diagrams...)
	c.Components = make([]Component, len(d.Components))

	for i, comp := range d.Components {
		comp.Details.TechnologyStack = append([]string{}, comp.Details.TechnologyStack...)
		comp.Details.Responsibilities = append([]string{}, comp.Details.Responsibilities...)
		c.Components[i] = comp
	}

	return &c
}
