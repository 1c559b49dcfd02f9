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

func TestOpenAIGenerate(t *testing.T) {
	var gotBody map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"model": "gpt-4",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "looks like a null pointer"}, "finish_reason": "stop"}]
		}`))
	}))
	defer ts.Close()

	cfg := &config.LLMConfig{
		Provider:    "openai",
		APIKey:      "test-key",
		Model:       "gpt-4",
		Temperature: 0.3,
		MaxTokens:   2000,
		Endpoint:    ts.URL + "/",
		Timeout:     5 * time.Second,
	}
	p := NewOpenAI(cfg)

	text, err := p.Generate(context.Background(), "analyze this", "you are an engineer")
	require.NoError(t, err)
	assert.Equal(t, "looks like a null pointer", text)

	assert.Equal(t, "gpt-4", gotBody["model"])
	messages, ok := gotBody["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 2)
	first, _ := messages[0].(map[string]any)
	assert.Equal(t, "system", first["role"])
	second, _ := messages[1].(map[string]any)
	assert.Equal(t, "user", second["role"])
	assert.Equal(t, "analyze this", second["content"])
}

func TestOpenAIGenerateServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":{"message":"bad auth"}}`, http.StatusUnauthorized)
	}))
	defer ts.Close()

	cfg := &config.LLMConfig{
		Provider: "openai",
		APIKey:   "test-key",
		Model:    "gpt-4",
		Endpoint: ts.URL + "/",
		Timeout:  5 * time.Second,
	}
	p := NewOpenAI(cfg)

	_, err := p.Generate(context.Background(), "analyze this", "")
	assert.Error(t, err)
}
