package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/fixwise/fixwise/internal/config"
)

// OpenAI talks to the OpenAI chat-completions API.
type OpenAI struct {
	client *openai.Client
	cfg    *config.LLMConfig
}

func NewOpenAI(cfg *config.LLMConfig) *OpenAI {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithRequestTimeout(cfg.Timeout),
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithBaseURL(cfg.Endpoint))
	}

	return &OpenAI{
		client: openai.NewClient(opts...),
		cfg:    cfg,
	}
}

func (o *OpenAI) Name() string { return "openai" }

func (o *OpenAI) Generate(ctx context.Context, prompt, systemPrompt string) (string, error) {
	var messages []openai.ChatCompletionMessageParamUnion
	if systemPrompt != "" {
		messages = append(messages, openai.SystemMessage(systemPrompt))
	}
	messages = append(messages, openai.UserMessage(prompt))

	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.F(o.cfg.Model),
		Messages:    openai.F(messages),
		Temperature: openai.F(o.cfg.Temperature),
		MaxTokens:   openai.F(o.cfg.MaxTokens),
	})
	if err != nil {
		return "", fmt.Errorf("openai completion failed: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("openai: %w", ErrEmptyCompletion)
	}
	return resp.Choices[0].Message.Content, nil
}
