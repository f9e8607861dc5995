package llm

import (
	"context"
	"errors"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// anthropicClient implements Provider for the Anthropic Messages API via
// the official SDK. Its request/response envelope differs from the chat
// completions shape: max_tokens is mandatory and content comes back as a
// list of typed blocks.
type anthropicClient struct {
	client      anthropic.Client
	model       string
	temperature float64
	maxTokens   int
}

func newAnthropicClient(cfg Config) (*anthropicClient, error) {
	if cfg.APIKey == "" {
		return nil, &ProviderError{
			Provider: ProviderAnthropic,
			Message:  "API key is required",
			Err:      ErrUnavailable,
		}
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &anthropicClient{
		client:      anthropic.NewClient(opts...),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}, nil
}

func (c *anthropicClient) Generate(ctx context.Context, prompt string) (string, error) {
	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   int64(c.maxTokens),
		Temperature: anthropic.Float(c.temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		var apierr *anthropic.Error
		if errors.As(err, &apierr) {
			return "", &ProviderError{
				Provider:   ProviderAnthropic,
				StatusCode: apierr.StatusCode,
				Message:    apierr.Error(),
				Err:        statusToSentinel(apierr.StatusCode),
			}
		}
		return "", &ProviderError{Provider: ProviderAnthropic, Message: err.Error(), Err: ErrNetworkFailure}
	}

	for _, block := range msg.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", &ProviderError{Provider: ProviderAnthropic, Message: "response contains no text block", Err: ErrInvalidResponse}
}
