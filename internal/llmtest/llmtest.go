// Package llmtest provides a canned model provider for analyzer tests.
package llmtest

import (
	"context"

	"github.com/fixwise/fixwise/internal/llm"
)

// Provider replays canned completions and records every call.
type Provider struct {
	// Reply is returned for every call when Replies is empty.
	Reply string
	// Replies are returned call by call; the last entry repeats.
	Replies []string
	// Err, when set, fails every call.
	Err error

	Calls         int
	Prompts       []string
	SystemPrompts []string
}

func (p *Provider) Name() string { return "stub" }

func (p *Provider) Generate(_ context.Context, prompt, systemPrompt string) (string, error) {
	p.Calls++
	p.Prompts = append(p.Prompts, prompt)
	p.SystemPrompts = append(p.SystemPrompts, systemPrompt)
	if p.Err != nil {
		return "", p.Err
	}
	if len(p.Replies) > 0 {
		i := p.Calls - 1
		if i >= len(p.Replies) {
			i = len(p.Replies) - 1
		}
		return p.Replies[i], nil
	}
	return p.Reply, nil
}

// NewClient wraps the provider in a non-retrying client.
func NewClient(p *Provider) *llm.Client {
	return llm.NewClient(p, 0)
}
