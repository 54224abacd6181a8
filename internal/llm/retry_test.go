package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// implements TextGenerator for testing
type mockGenerator struct {
	generateTextFunc func(ctx context.Context, req TextGenerationRequest) (*TextGenerationResponse, error)
	calls            int
}

func (m *mockGenerator) GenerateText(ctx context.Context, req TextGenerationRequest) (*TextGenerationResponse, error) {
	m.calls++

	if m.generateTextFunc != nil {
		return m.generateTextFunc(ctx, req)
	}

	return &TextGenerationResponse{Text: "ok"}, nil
}

func (m *mockGenerator) Model() string {
	return "mock-model"
}

func fastRetry() RetryConfig {
	return RetryConfig{MaxAttempts: 3, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}
}

func TestDefaultRetryConfig(t *testing.T) {
	cfg := DefaultRetryConfig()

	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Equal(t, 2*time.Second, cfg.BaseDelay)
	assert.Equal(t, 10*time.Second, cfg.MaxDelay)
}

func TestRetry_Backoff(t *testing.T) {
	r := WithRetry(&mockGenerator{}, DefaultRetryConfig())

	assert.Equal(t, 2*time.Second, r.backoff(0))
	assert.Equal(t, 4*time.Second, r.backoff(1))
	assert.Equal(t, 8*time.Second, r.backoff(2))
	assert.Equal(t, 10*time.Second, r.backoff(3))
	assert.Equal(t, 10*time.Second, r.backoff(10))
}

func TestRetry_SucceedsFirstTry(t *testing.T) {
	mock := &mockGenerator{}
	r := WithRetry(mock, fastRetry())

	resp, err := r.GenerateText(context.Background(), TextGenerationRequest{Prompt: "hi"})
	require.NoError(t, err)

	assert.Equal(t, "ok", resp.Text)
	assert.Equal(t, 1, mock.calls)
	assert.Equal(t, "mock-model", r.Model())
}

func TestRetry_RecoversAfterFailures(t *testing.T) {
	mock := &mockGenerator{}
	mock.generateTextFunc = func(_ context.Context, _ TextGenerationRequest) (*TextGenerationResponse, error) {
		if mock.calls < 3 {
			return nil, errors.New("503 unavailable")
		}

		return &TextGenerationResponse{Text: "third time"}, nil
	}

	resp, err := WithRetry(mock, fastRetry()).GenerateText(context.Background(), TextGenerationRequest{})
	require.NoError(t, err)

	assert.Equal(t, "third time", resp.Text)
	assert.Equal(t, 3, mock.calls)
}

func TestRetry_ExhaustedWrapsUpstreamFailure(t *testing.T) {
	cause := errors.New("500 internal")
	mock := &mockGenerator{
		generateTextFunc: func(_ context.Context, _ TextGenerationRequest) (*TextGenerationResponse, error) {
			return nil, cause
		},
	}

	_, err := WithRetry(mock, fastRetry()).GenerateText(context.Background(), TextGenerationRequest{})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstreamFailure)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, 3, mock.calls)
}

func TestRetry_StopsOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	mock := &mockGenerator{
		generateTextFunc: func(_ context.Context, _ TextGenerationRequest) (*TextGenerationResponse, error) {
			cancel()
			return nil, errors.New("boom")
		},
	}

	_, err := WithRetry(mock, DefaultRetryConfig()).GenerateText(ctx, TextGenerationRequest{})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, mock.calls)
}

func TestWithRetry_MinimumOneAttempt(t *testing.T) {
	mock := &mockGenerator{
		generateTextFunc: func(_ context.Context, _ TextGenerationRequest) (*TextGenerationResponse, error) {
			return nil, errors.New("nope")
		},
	}

	_, err := WithRetry(mock, RetryConfig{}).GenerateText(context.Background(), TextGenerationRequest{})

	assert.ErrorIs(t, err, ErrUpstreamFailure)
	assert.Equal(t, 1, mock.calls)
}
