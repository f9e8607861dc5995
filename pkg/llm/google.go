package llm

import (
	"context"
	"errors"

	"google.golang.org/genai"
)

// googleClient implements Provider for the Gemini API. The SDK client
// handle is built once at construction; per-call state is limited to the
// generation config derived from Config.
type googleClient struct {
	client      *genai.Client
	model       string
	temperature float64
	maxTokens   int
}

func newGoogleClient(ctx context.Context, cfg Config) (*googleClient, error) {
	if cfg.APIKey == "" {
		return nil, &ProviderError{
			Provider: ProviderGoogle,
			Message:  "API key is required",
			Err:      ErrUnavailable,
		}
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, &ProviderError{Provider: ProviderGoogle, Message: err.Error(), Err: ErrUnavailable}
	}
	return &googleClient{
		client:      gc,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}, nil
}

func (c *googleClient) Generate(ctx context.Context, prompt string) (string, error) {
	temp := float32(c.temperature)
	config := &genai.GenerateContentConfig{
		Temperature:     &temp,
		MaxOutputTokens: int32(c.maxTokens),
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), config)
	if err != nil {
		var apierr genai.APIError
		if errors.As(err, &apierr) {
			return "", &ProviderError{
				Provider:   ProviderGoogle,
				StatusCode: apierr.Code,
				Message:    apierr.Message,
				Err:        statusToSentinel(apierr.Code),
			}
		}
		return "", &ProviderError{Provider: ProviderGoogle, Message: err.Error(), Err: ErrNetworkFailure}
	}

	text := resp.Text()
	if text == "" {
		return "", &ProviderError{Provider: ProviderGoogle, Message: "response contains no text", Err: ErrInvalidResponse}
	}
	return text, nil
}
