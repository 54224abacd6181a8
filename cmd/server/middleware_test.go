package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"codeberg.org/architai/server/internal/config"
	"codeberg.org/architai/server/internal/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimitedRouter(t *testing.T, rate string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	limit, err := RateLimitMiddleware(&config.Config{RateLimit: rate}, nil)
	require.NoError(t, err)

	router := gin.New()
	router.POST("/session", limit, func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	return router
}

func TestRateLimitMiddleware(t *testing.T) {
	router := newLimitedRouter(t, "2-M")

	codes := make([]int, 0, 3)

	for range 3 {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/session", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		router.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusCreated, http.StatusCreated, http.StatusTooManyRequests}, codes)
}

func TestRateLimitMiddleware_Disabled(t *testing.T) {
	router := newLimitedRouter(t, "")

	for range 5 {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/session", nil))
		assert.Equal(t, http.StatusCreated, w.Code)
	}
}

func TestRateLimitMiddleware_InvalidRate(t *testing.T) {
	_, err := RateLimitMiddleware(&config.Config{RateLimit: "lots"}, nil)
	assert.ErrorContains(t, err, "invalid RATE_LIMIT")
}

func TestCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		allowed  []string
		origin   string
		expected string
	}{
		{"listed origin", []string{"http://localhost:5173"}, "http://localhost:5173", "http://localhost:5173"},
		{"unlisted origin", []string{"http://localhost:5173"}, "http://evil.test", ""},
		{"wildcard", []string{"*"}, "http://anywhere.test", "*"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(CORSMiddleware(&config.Config{CORSAllowedOrigins: tt.allowed}))
			router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			req.Header.Set("Origin", tt.origin)
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expected, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var seen string

	router := gin.New()
	router.Use(RequestIDMiddleware())
	router.GET("/ping", func(c *gin.Context) {
		seen = c.Writer.Header().Get(requestIDHeader)
		assert.NotNil(t, logger.FromContext(c.Request.Context()))
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Len(t, w.Header().Get(requestIDHeader), 36)
	assert.Equal(t, seen, w.Header().Get(requestIDHeader))

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(requestIDHeader, "from-client")
	router.ServeHTTP(w, req)
	assert.Equal(t, "from-client", w.Header().Get(requestIDHeader))
}
