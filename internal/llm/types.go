package llm

import (
	"context"
	"errors"
)

// Provider is the uniform text-generation capability over the backend
// variants. Implementations collapse every failure mode (transport error,
// non-2xx status, unexpected payload shape) into the returned error; they
// never panic and never return a non-nil error alongside usable text.
type Provider interface {
	// Name identifies the backend variant, e.g. "openai".
	Name() string

	// Generate sends prompt (and an optional system prompt) to the model
	// and returns the completion text.
	Generate(ctx context.Context, prompt, systemPrompt string) (string, error)
}

// ErrEmptyCompletion signals a 2xx response that carried no usable text.
var ErrEmptyCompletion = errors.New("llm: empty completion")
