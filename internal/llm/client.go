package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Backoff returns how long to wait before the given retry attempt
// (1-based). A nil Backoff means retries run back to back.
type Backoff func(attempt int) time.Duration

// Client wraps a Provider with bounded retry. It is the sole path every
// analyzer uses to reach a model.
type Client struct {
	provider   Provider
	maxRetries int
	backoff    Backoff
}

type ClientOption func(*Client)

// WithBackoff injects a delay between attempts.
func WithBackoff(b Backoff) ClientOption {
	return func(c *Client) { c.backoff = b }
}

// NewClient builds a retrying client. maxRetries is the number of retries
// after the first attempt, so up to maxRetries+1 calls are made.
func NewClient(provider Provider, maxRetries int, opts ...ClientOption) *Client {
	if maxRetries < 0 {
		maxRetries = 0
	}
	c := &Client{provider: provider, maxRetries: maxRetries}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Provider returns the wrapped backend.
func (c *Client) Provider() Provider { return c.provider }

// GenerateWithRetry attempts the call up to maxRetries+1 times and returns
// the first non-empty completion.
func (c *Client) GenerateWithRetry(ctx context.Context, prompt, systemPrompt string) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= c.maxRetries+1; attempt++ {
		if attempt > 1 && c.backoff != nil {
			select {
			case <-time.After(c.backoff(attempt - 1)):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		text, err := c.provider.Generate(ctx, prompt, systemPrompt)
		if err == nil && text != "" {
			return text, nil
		}
		if err == nil {
			err = ErrEmptyCompletion
		}
		lastErr = err
		slog.Warn("model call failed",
			"provider", c.provider.Name(),
			"attempt", attempt,
			"maxAttempts", c.maxRetries+1,
			"error", err)

		if ctx.Err() != nil {
			break
		}
	}
	return "", fmt.Errorf("all %d model call attempts failed: %w", c.maxRetries+1, lastErr)
}
