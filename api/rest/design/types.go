package design

type QuestionResponse struct {
	Topic     string   `json:"topic"`
	Questions []string `json:"questions"`
}
