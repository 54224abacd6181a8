package design

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// sample clarifying questions for a notification system
var notifyQuestions = QuestionResponse{
	Topic: "Notification System",
	Questions: []string{
		"How many active users do you expect?",
		"Do you need real-time delivery?",
		"Should notifications be persistent?",
		"What’s your expected scale (e.g., 1k vs 1M users)?",
	},
}

// NotifyHandler godoc
// @Summary Sample questions for a notification system
// @Tags design
// @Produce json
// @Success 200 {object} QuestionResponse
// @Router /design/notify [get]
func NotifyHandler(c *gin.Context) {
	c.JSON(http.StatusOK, notifyQuestions)
}
