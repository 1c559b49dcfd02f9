package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/fixwise/fixwise/internal/config"
)

const (
	anthropicEndpoint = "https://api.anthropic.com/v1/messages"
	anthropicVersion  = "2023-06-01"
)

// Anthropic talks to the Claude messages API. The wire contract differs
// from the chat-completions shape: a flat user-message array with the
// system text in a separate field, X-API-Key header auth, and the reply
// text in the first content block.
type Anthropic struct {
	cfg     *config.LLMConfig
	client  *http.Client
	baseURL string
}

func NewAnthropic(cfg *config.LLMConfig) *Anthropic {
	baseURL := anthropicEndpoint
	if cfg.Endpoint != "" {
		baseURL = cfg.Endpoint
	}
	return &Anthropic{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: baseURL,
	}
}

func (a *Anthropic) Name() string { return "anthropic" }

func (a *Anthropic) Generate(ctx context.Context, prompt, systemPrompt string) (string, error) {
	body := map[string]any{
		"model":       a.cfg.Model,
		"temperature": a.cfg.Temperature,
		"max_tokens":  a.cfg.MaxTokens,
		"messages": []map[string]string{{
			"role":    "user",
			"content": prompt,
		}},
	}
	if systemPrompt != "" {
		body["system"] = systemPrompt
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("anthropic request encoding failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("anthropic request creation failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", a.cfg.APIKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("anthropic request failed: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("anthropic response read failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("anthropic API error (status %d): %s", resp.StatusCode, string(respBytes))
	}

	var parsed struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(respBytes, &parsed); err != nil {
		return "", fmt.Errorf("anthropic response decoding failed: %w", err)
	}
	if parsed.Error.Message != "" {
		return "", fmt.Errorf("anthropic API error: %s", parsed.Error.Message)
	}
	if len(parsed.Content) == 0 || parsed.Content[0].Text == "" {
		return "", fmt.Errorf("anthropic: %w", ErrEmptyCompletion)
	}
	return parsed.Content[0].Text, nil
}
