package main

import (
	"context"
	"fmt"
	"time"

	"codeberg.org/architai/server/architai/sessions"
	"codeberg.org/architai/server/internal/cache"
	"codeberg.org/architai/server/internal/config"
	"codeberg.org/architai/server/internal/logger"
	"github.com/gin-gonic/gin"
)

const (
	// how long a session stays in the redis cache after its last read or write
	sessionCacheTTL = 30 * time.Minute

	// startup budget for connecting to the store and creating the schema
	startupTimeout = 30 * time.Second
)

// creates and configures a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	store, closeStore, err := sessions.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}

	if err := store.Migrate(ctx); err != nil {
		closeStore()
		return nil, fmt.Errorf("failed to migrate session store: %w", err)
	}

	var sessionCache *cache.SessionCache
	var sessionRepo = store

	// wrap the store with a read-through cache when redis is configured
	if cfg.RedisURL != "" {
		sessionCache, err = cache.NewSessionCache(cfg.RedisURL, sessionCacheTTL)
		if err != nil {
			closeStore()
			return nil, fmt.Errorf("failed to initialize redis cache: %w", err)
		}

		sessionRepo = cache.NewCachedRepository(store, sessionCache)
	}

	services, err := InitializeServices(cfg)
	if err != nil {
		if sessionCache != nil {
			sessionCache.Close() //nolint:errcheck,gosec // best-effort cleanup on init failure
		}

		closeStore()
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	logger.Info("session store ready",
		"store", fmt.Sprintf("%T", store),
		"cache", sessionCache != nil,
		"model", services.LLM.Model(),
	)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	server := &Server{
		config:      cfg,
		sessionRepo: sessionRepo,
		closeStore:  closeStore,
		cache:       sessionCache,
		services:    services,
		router:      router,
	}

	if err := RegisterRoutes(router, server); err != nil {
		server.Close()
		return nil, err
	}

	return server, nil
}

// releases the redis and database connections
func (s *Server) Close() {
	if s.cache != nil {
		s.cache.Close() //nolint:errcheck,gosec // best-effort cleanup on shutdown
	}

	s.closeStore()
}
