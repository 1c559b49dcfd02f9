package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixwise/fixwise/internal/config"
)

func anthropicConfig(endpoint string) *config.LLMConfig {
	return &config.LLMConfig{
		Provider:    "anthropic",
		APIKey:      "test-key",
		Model:       "claude-3-opus-20240229",
		Temperature: 0.3,
		MaxTokens:   2000,
		Endpoint:    endpoint,
		Timeout:     5 * time.Second,
	}
}

func TestAnthropicGenerate(t *testing.T) {
	var gotBody map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "test-key", r.Header.Get("X-API-Key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"the diagnosis"}]}`))
	}))
	defer ts.Close()

	p := NewAnthropic(anthropicConfig(ts.URL))

	text, err := p.Generate(context.Background(), "why did it crash?", "you are a debugger")
	require.NoError(t, err)
	assert.Equal(t, "the diagnosis", text)

	// System text travels in its own field, not in the messages array.
	assert.Equal(t, "you are a debugger", gotBody["system"])
	assert.Equal(t, "claude-3-opus-20240229", gotBody["model"])
	messages, ok := gotBody["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 1)
	first, ok := messages[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "user", first["role"])
	assert.Equal(t, "why did it crash?", first["content"])
}

func TestAnthropicGenerateOmitsSystemField(t *testing.T) {
	var gotBody map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"ok"}]}`))
	}))
	defer ts.Close()

	p := NewAnthropic(anthropicConfig(ts.URL))
	_, err := p.Generate(context.Background(), "prompt", "")
	require.NoError(t, err)

	_, present := gotBody["system"]
	assert.False(t, present)
}

func TestAnthropicGenerateNon200(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":{"message":"rate limited"}}`, http.StatusTooManyRequests)
	}))
	defer ts.Close()

	p := NewAnthropic(anthropicConfig(ts.URL))
	_, err := p.Generate(context.Background(), "prompt", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}

func TestAnthropicGenerateEmptyContent(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"content":[]}`))
	}))
	defer ts.Close()

	p := NewAnthropic(anthropicConfig(ts.URL))
	_, err := p.Generate(context.Background(), "prompt", "")
	assert.ErrorIs(t, err, ErrEmptyCompletion)
}

func TestAnthropicGenerateMalformedPayload(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json at all`))
	}))
	defer ts.Close()

	p := NewAnthropic(anthropicConfig(ts.URL))
	_, err := p.Generate(context.Background(), "prompt", "")
	assert.Error(t, err)
}
