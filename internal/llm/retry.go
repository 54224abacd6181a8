package llm

import (
	"context"
	"fmt"
	"time"

	"codeberg.org/architai/server/internal/logger"
)

type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// 3 attempts, waiting 2s then 4s, never more than 10s
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   2 * time.Second,
		MaxDelay:    10 * time.Second,
	}
}

// wraps a generator so failed calls are retried with exponential backoff
type RetryingGenerator struct {
	next   TextGenerator
	config RetryConfig
}

func WithRetry(next TextGenerator, config RetryConfig) *RetryingGenerator {
	if config.MaxAttempts < 1 {
		config.MaxAttempts = 1
	}

	return &RetryingGenerator{next: next, config: config}
}

func (r *RetryingGenerator) Model() string {
	return r.next.Model()
}

func (r *RetryingGenerator) GenerateText(ctx context.Context, req TextGenerationRequest) (*TextGenerationResponse, error) {
	var lastErr error

	for attempt := 0; attempt < r.config.MaxAttempts; attempt++ {
		resp, err := r.next.GenerateText(ctx, req)
		if err == nil {
			return resp, nil
		}

		lastErr = err

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if attempt == r.config.MaxAttempts-1 {
			break
		}

		wait := r.backoff(attempt)

		logger.FromContext(ctx).Debug("llm request failed, retrying",
			"model", r.next.Model(),
			"attempt", attempt+1,
			"wait_time", wait,
			"error", err,
		)

		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	logger.FromContext(ctx).Warn("llm request failed after retries",
		"model", r.next.Model(),
		"attempts", r.config.MaxAttempts,
		"error", lastErr,
	)

	return nil, fmt.Errorf("%w: %w", ErrUpstreamFailure, lastErr)
}

func (r *RetryingGenerator) backoff(attempt int) time.Duration {
	wait := r.config.BaseDelay << attempt

	if r.config.MaxDelay > 0 && (wait > r.config.MaxDelay || wait <= 0) {
		return r.config.MaxDelay
	}

	return wait
}
