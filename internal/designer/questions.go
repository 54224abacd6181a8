package designer

import (
	"encoding/json"
	"regexp"
	"strings"
)

var bulletPattern = regexp.MustCompile(`^(?:[-*•]+|\d+[.)])\s*`)

// extracts questions from model output, dropping blanks and anything already answered
func parseQuestions(text string, answered map[string]bool, limit int) []string {
	var candidates []string

	var decoded any
	if err := json.Unmarshal([]byte(text), &decoded); err == nil {
		candidates = questionsFromJSON(decoded)
	} else {
		candidates = questionsFromLines(text)
	}

	questions := make([]string, 0, limit)

	for _, q := range candidates {
		q = strings.TrimSpace(q)
		if q == "" || answered[q] {
			continue
		}

		questions = append(questions, q)

		if len(questions) == limit {
			break
		}
	}

	return questions
}

func questionsFromJSON(decoded any) []string {
	switch v := decoded.(type) {
	case []any:
		questions := make([]string, 0, len(v))

		for _, item := range v {
			switch q := item.(type) {
			case string:
				questions = append(questions, q)
			case map[string]any:
				questions = append(questions, firstString(q, "question", "text"))
			}
		}

		return questions
	case map[string]any:
		if list, ok := v["questions"]; ok {
			return questionsFromJSON(list)
		}
	}

	return nil
}

func questionsFromLines(text string) []string {
	var questions []string

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = bulletPattern.ReplaceAllString(line, "")
		line = strings.Trim(line, "- ")

		if line != "" {
			questions = append(questions, line)
		}
	}

	return questions
}
