package narrative

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultAnthropicModel = "claude-3-5-haiku-latest"

// AnthropicClient is the hosted fallback provider.
type AnthropicClient struct {
	messages  anthropic.MessageService
	model     string
	maxTokens int64
}

// NewAnthropicClient creates a hosted provider. Extra options are passed to the SDK client.
func NewAnthropicClient(apiKey, model string, opts ...option.RequestOption) (*AnthropicClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic api key is required")
	}
	if model == "" {
		model = defaultAnthropicModel
	}

	client := anthropic.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...)
	return &AnthropicClient{
		messages:  client.Messages,
		model:     model,
		maxTokens: 2000,
	}, nil
}

func (c *AnthropicClient) Name() string { return "anthropic" }

func (c *AnthropicClient) Generate(ctx context.Context, system, prompt string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	resp, err := c.messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic call failed: %w", err)
	}

	var out strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			out.WriteString(block.Text)
		}
	}
	return strings.TrimSpace(out.String()), nil
}

// Ping only checks configuration; a live call would spend tokens.
func (c *AnthropicClient) Ping(context.Context) error {
	if c.model == "" {
		return fmt.Errorf("anthropic model not configured")
	}
	return nil
}
