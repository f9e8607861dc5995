package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const defaultOllamaBaseURL = "http://localhost:11434"

// ollamaClient implements Provider for a locally running Ollama server.
// It never requires a credential; the endpoint defaults to the well-known
// local address and is overridable via Config.BaseURL.
type ollamaClient struct {
	baseURL     string
	model       string
	temperature float64
	maxTokens   int
	httpClient  *http.Client
}

func newOllamaClient(cfg Config) (*ollamaClient, error) {
	base := cfg.BaseURL
	if base == "" {
		base = defaultOllamaBaseURL
	}
	return &ollamaClient{
		baseURL:     base,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		// No client-level timeout: local models can be arbitrarily slow,
		// so the caller's context bounds each call.
		httpClient: &http.Client{},
	}, nil
}

type ollamaRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

type ollamaResponse struct {
	Response string `json:"response"`
	Error    string `json:"error"`
}

func (c *ollamaClient) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(ollamaRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: false,
		Options: ollamaOptions{
			Temperature: c.temperature,
			NumPredict:  c.maxTokens,
		},
	})
	if err != nil {
		return "", fmt.Errorf("ollama: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("ollama: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &ProviderError{Provider: ProviderLocal, Message: err.Error(), Err: ErrNetworkFailure}
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &ProviderError{Provider: ProviderLocal, Message: err.Error(), Err: ErrNetworkFailure}
	}

	if resp.StatusCode != http.StatusOK {
		msg := string(respBytes)
		var parsed ollamaResponse
		if json.Unmarshal(respBytes, &parsed) == nil && parsed.Error != "" {
			msg = parsed.Error
		}
		return "", &ProviderError{
			Provider:   ProviderLocal,
			StatusCode: resp.StatusCode,
			Message:    msg,
			Err:        statusToSentinel(resp.StatusCode),
		}
	}

	var parsed ollamaResponse
	if err := json.Unmarshal(respBytes, &parsed); err != nil {
		return "", &ProviderError{Provider: ProviderLocal, Message: err.Error(), Err: ErrInvalidResponse}
	}
	return parsed.Response, nil
}
