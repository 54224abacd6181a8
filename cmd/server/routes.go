package main

import (
	"fmt"

	"codeberg.org/architai/server/api/rest/design"
	"codeberg.org/architai/server/api/rest/health"
	"codeberg.org/architai/server/api/rest/sessions"
	"github.com/gin-gonic/gin"
)

// sets up all API routes and middleware
func RegisterRoutes(router *gin.Engine, server *Server) error {
	router.Use(CORSMiddleware(server.config), RequestIDMiddleware())

	modelLimit, err := RateLimitMiddleware(server.config, server.cache)
	if err != nil {
		return fmt.Errorf("failed to configure rate limiting: %w", err)
	}

	router.GET("/", health.WelcomeHandler)
	router.GET("/health", health.Handler(server.services.LLM.Model()))
	router.GET("/ping", health.PingHandler)

	root := router.Group("")
	{
		design.RegisterRoutes(root)
		sessions.RegisterRoutes(root, server.sessionRepo, server.services.Designer, modelLimit)
	}

	return nil
}
