package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/azure"
	"github.com/openai/openai-go/option"

	"github.com/fixwise/fixwise/internal/config"
)

const azureAPIVersion = "2023-05-15"

// AzureOpenAI talks to an Azure-hosted OpenAI deployment. Requests are
// routed through the deployment-scoped endpoint with API-key auth instead
// of a bearer token.
type AzureOpenAI struct {
	client *openai.Client
	cfg    *config.LLMConfig
}

func NewAzureOpenAI(cfg *config.LLMConfig) (*AzureOpenAI, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("azure provider requires LLM_ENDPOINT")
	}
	if cfg.DeploymentName == "" {
		return nil, fmt.Errorf("azure provider requires LLM_DEPLOYMENT_NAME")
	}

	client := openai.NewClient(
		azure.WithEndpoint(cfg.Endpoint, azureAPIVersion),
		azure.WithAPIKey(cfg.APIKey),
		option.WithRequestTimeout(cfg.Timeout),
	)

	return &AzureOpenAI{client: client, cfg: cfg}, nil
}

func (a *AzureOpenAI) Name() string { return "azure" }

func (a *AzureOpenAI) Generate(ctx context.Context, prompt, systemPrompt string) (string, error) {
	var messages []openai.ChatCompletionMessageParamUnion
	if systemPrompt != "" {
		messages = append(messages, openai.SystemMessage(systemPrompt))
	}
	messages = append(messages, openai.UserMessage(prompt))

	// On Azure the model name is the deployment name.
	resp, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.F(a.cfg.DeploymentName),
		Messages:    openai.F(messages),
		Temperature: openai.F(a.cfg.Temperature),
		MaxTokens:   openai.F(a.cfg.MaxTokens),
	})
	if err != nil {
		return "", fmt.Errorf("azure openai completion failed: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("azure openai: %w", ErrEmptyCompletion)
	}
	return resp.Choices[0].Message.Content, nil
}
