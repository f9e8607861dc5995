package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

// openAIClient implements Provider for the OpenAI chat completions API and
// any endpoint speaking the same envelope. The credential travels as a
// bearer Authorization header.
type openAIClient struct {
	apiKey      string
	baseURL     string
	model       string
	temperature float64
	maxTokens   int
	httpClient  *http.Client
}

func newOpenAIClient(cfg Config) (*openAIClient, error) {
	if cfg.APIKey == "" {
		return nil, &ProviderError{
			Provider: ProviderOpenAI,
			Message:  "API key is required",
			Err:      ErrUnavailable,
		}
	}
	base := cfg.BaseURL
	if base == "" {
		base = defaultOpenAIBaseURL
	}
	return &openAIClient{
		apiKey:      cfg.APIKey,
		baseURL:     base,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		// No client-level timeout: the caller's context bounds each call.
		httpClient: &http.Client{},
	}, nil
}

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
	MaxTokens   int             `json:"max_tokens"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	Choices []struct {
		Message openAIMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func (c *openAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(openAIRequest{
		Model:       c.model,
		Messages:    []openAIMessage{{Role: "user", Content: prompt}},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("openai: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("openai: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &ProviderError{Provider: ProviderOpenAI, Message: err.Error(), Err: ErrNetworkFailure}
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &ProviderError{Provider: ProviderOpenAI, Message: err.Error(), Err: ErrNetworkFailure}
	}

	if resp.StatusCode != http.StatusOK {
		msg := string(respBytes)
		var parsed openAIResponse
		if json.Unmarshal(respBytes, &parsed) == nil && parsed.Error != nil {
			msg = parsed.Error.Message
		}
		return "", &ProviderError{
			Provider:   ProviderOpenAI,
			StatusCode: resp.StatusCode,
			Message:    msg,
			Err:        statusToSentinel(resp.StatusCode),
		}
	}

	var parsed openAIResponse
	if err := json.Unmarshal(respBytes, &parsed); err != nil {
		return "", &ProviderError{Provider: ProviderOpenAI, Message: err.Error(), Err: ErrInvalidResponse}
	}
	if len(parsed.Choices) == 0 {
		return "", &ProviderError{Provider: ProviderOpenAI, Message: "response contains no choices", Err: ErrInvalidResponse}
	}
	return parsed.Choices[0].Message.Content, nil
}
