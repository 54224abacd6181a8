package main

import (
	"codeberg.org/architai/server/architai/sessions"
	"codeberg.org/architai/server/internal/cache"
	"codeberg.org/architai/server/internal/config"
	"codeberg.org/architai/server/internal/designer"
	"codeberg.org/architai/server/internal/llm"
	"github.com/gin-gonic/gin"
)

// holds all dependencies and state for the API server
type Server struct {
	config      *config.Config
	sessionRepo sessions.Store
	closeStore  func()
	cache       *cache.SessionCache // nil without REDIS_URL
	services    *Services
	router      *gin.Engine
}

// holds the language model client and the designer built on it
type Services struct {
	LLM      llm.TextGenerator
	Designer *designer.Designer
}
