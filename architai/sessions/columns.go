package sessions

import (
	"encoding/json"
	"fmt"
)

// JSON encoded forms of the list and document columns
type jsonColumns struct {
	Questions    string
	Answers      string
	Conversation string
	FinalDesign  *string // NULL until the session is finalized
}

func encodeColumns(s *Session) (*jsonColumns, error) {
	questions, err := marshalString(nonNil(s.Questions))
	if err != nil {
		return nil, fmt.Errorf("failed to encode questions: %w", err)
	}

	answers, err := marshalString(nonNil(s.Answers))
	if err != nil {
		return nil, fmt.Errorf("failed to encode answers: %w", err)
	}

	conversation, err := marshalString(nonNil(s.Conversation))
	if err != nil {
		return nil, fmt.Errorf("failed to encode conversation: %w", err)
	}

	cols := &jsonColumns{
		Questions:    questions,
		Answers:      answers,
		Conversation: conversation,
	}

	if s.FinalDesign != nil {
		design, err := marshalString(s.FinalDesign)
		if err != nil {
			return nil, fmt.Errorf("failed to encode final design: %w", err)
		}

		cols.FinalDesign = &design
	}

	return cols, nil
}

// fills the list and document fields of s from raw column values
func decodeColumns(s *Session, questions, answers, conversation, finalDesign []byte) error {
	s.Questions = []string{}
	s.Answers = []Answer{}
	s.Conversation = []ConversationEntry{}

	if err := unmarshalIfPresent(questions, &s.Questions); err != nil {
		return fmt.Errorf("failed to decode questions: %w", err)
	}

	if err := unmarshalIfPresent(answers, &s.Answers); err != nil {
		return fmt.Errorf("failed to decode answers: %w", err)
	}

	if err := unmarshalIfPresent(conversation, &s.Conversation); err != nil {
		return fmt.Errorf("failed to decode conversation: %w", err)
	}

	if len(finalDesign) > 0 && string(finalDesign) != "null" {
		var design Design
		if err := json.Unmarshal(finalDesign, &design); err != nil {
			return fmt.Errorf("failed to decode final design: %w", err)
		}

		s.FinalDesign = &design
	}

	return nil
}

func marshalString(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}

	return string(b), nil
}

func unmarshalIfPresent[T any](raw []byte, dst *[]T) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return err
	}

	if *dst == nil {
		*dst = []T{}
	}

	return nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}

	return items
}
