package sessions

import (
	"codeberg.org/architai/server/architai/sessions"
	"github.com/gin-gonic/gin"
)

// registers the session endpoints, modelLimits guard the routes that call the model
func RegisterRoutes(router *gin.RouterGroup, sessionRepo sessions.Repository, d Designer, modelLimits ...gin.HandlerFunc) {
	limited := func(h gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, modelLimits...), h)
	}

	sessionsGroup := router.Group("/session")
	{
		// the collection answers with and without a trailing slash
		for _, path := range []string{"", "/"} {
			sessionsGroup.POST(path, limited(CreateSessionHandler(sessionRepo, d))...)
			sessionsGroup.GET(path, ListSessionsHandler(sessionRepo))
		}

		sessionsGroup.GET("/:id", GetSessionHandler(sessionRepo))
		sessionsGroup.POST("/:id/reply", limited(ReplyHandler(sessionRepo, d))...)
		sessionsGroup.POST("/:id/finalize", limited(FinalizeHandler(sessionRepo, d))...)
	}
}
