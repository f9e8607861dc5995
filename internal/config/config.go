// Package config loads and validates the process configuration from the
// environment. A .env file in the working directory is honored when
// present. Configuration is built once at startup and shared read-only.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"resume-tailor/pkg/llm"
	"resume-tailor/pkg/render"
)

// Config is the full process configuration.
type Config struct {
	LLM    llm.Config
	Render render.Options

	OutputDir string
	Port      string

	// RunsDatabaseURL enables the optional run-history repository when
	// non-empty. The pipeline works without it.
	RunsDatabaseURL string

	LogLevel  string
	LogFormat string
	Debug     bool
}

// Load reads configuration from the environment. Defaults: openai
// provider, temperature 0.7, 4000 max tokens, zero margins, auto backend,
// ./output, port 3000. It does not validate; call Validate afterwards.
func Load() (*Config, error) {
	// Missing .env is fine; explicit environment wins either way.
	_ = godotenv.Load()

	provider := llm.ProviderKind(getEnv("LLM_PROVIDER", "openai"))

	temperature, err := strconv.ParseFloat(getEnv("LLM_TEMPERATURE", "0.7"), 64)
	if err != nil {
		return nil, fmt.Errorf("config: invalid LLM_TEMPERATURE: %w", err)
	}
	maxTokens, err := strconv.Atoi(getEnv("LLM_MAX_TOKENS", "4000"))
	if err != nil {
		return nil, fmt.Errorf("config: invalid LLM_MAX_TOKENS: %w", err)
	}

	backend, err := render.ParseBackend(getEnv("PDF_BACKEND", "auto"))
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return &Config{
		LLM: llm.Config{
			Provider:         provider,
			APIKey:           os.Getenv("LLM_API_KEY"),
			Model:            getEnv("LLM_MODEL", llm.DefaultModel(provider)),
			Temperature:      temperature,
			MaxTokens:        maxTokens,
			BaseURL:          os.Getenv("LLM_BASE_URL"),
			StrictExtraction: getEnv("STRICT_EXTRACTION", "false") == "true",
		},
		Render: render.Options{
			Margin:  getEnv("PDF_MARGINS", "0"),
			Backend: backend,
		},
		OutputDir:       getEnv("OUTPUT_DIR", "output"),
		Port:            getEnv("PORT", "3000"),
		RunsDatabaseURL: os.Getenv("RUNS_DATABASE_URL"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "console"),
		Debug:           getEnv("DEBUG", "false") == "true",
	}, nil
}

// Validate enforces the provider invariants and prepares the output
// directory.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case llm.ProviderOpenAI, llm.ProviderAnthropic, llm.ProviderGoogle, llm.ProviderLocal:
	default:
		return fmt.Errorf("config: unsupported LLM provider %q", c.LLM.Provider)
	}
	if c.LLM.APIKey == "" && c.LLM.Provider != llm.ProviderLocal {
		return fmt.Errorf("config: API key required for %s provider", c.LLM.Provider)
	}
	if c.LLM.Model == "" {
		return fmt.Errorf("config: LLM model must be specified")
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 1 {
		return fmt.Errorf("config: LLM_TEMPERATURE must be within [0,1], got %v", c.LLM.Temperature)
	}
	if c.LLM.MaxTokens <= 0 {
		return fmt.Errorf("config: LLM_MAX_TOKENS must be positive, got %d", c.LLM.MaxTokens)
	}
	if err := os.MkdirAll(c.OutputDir, 0o755); err != nil {
		return fmt.Errorf("config: create output dir: %w", err)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
