// Package llm provides a uniform text-generation capability over several
// interchangeable providers. Each provider adapter maps the same logical
// options (model, temperature, max output tokens) onto its own transport
// and response envelope; the Manager selects one adapter at construction
// time and owns the tailoring prompt and response extraction.
package llm

import "context"

// ProviderKind identifies one of the supported provider transports.
type ProviderKind string

const (
	ProviderOpenAI    ProviderKind = "openai"
	ProviderAnthropic ProviderKind = "anthropic"
	ProviderGoogle    ProviderKind = "google"
	ProviderLocal     ProviderKind = "local"
)

// Provider is the capability every adapter satisfies. Generate issues
// exactly one completion call; adapters never retry internally.
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Config carries the provider selection and generation options. It is
// constructed once at process start and shared read-only afterwards.
type Config struct {
	Provider    ProviderKind
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	BaseURL     string

	// StrictExtraction makes Tailor fail with ErrInvalidResponse when a
	// code fence in the model response is never closed, instead of
	// consuming the remainder of the response.
	StrictExtraction bool
}

// DefaultModel returns the default model identifier for a provider kind.
func DefaultModel(kind ProviderKind) string {
	switch kind {
	case ProviderOpenAI:
		return "gpt-4o-mini"
	case ProviderAnthropic:
		return "claude-3-5-sonnet-20241022"
	case ProviderGoogle:
		return "gemini-1.5-flash"
	case ProviderLocal:
		return "llama3.1:8b"
	}
	return ""
}
