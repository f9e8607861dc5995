package llm

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// tailorPromptTemplate is the single deterministic prompt used for every
// tailoring call. The two inputs are embedded verbatim; the instruction
// block pins down what the model may and may not change.
const tailorPromptTemplate = `You are an expert resume writer specializing in tech roles. Your task is to tailor the given resume to match the job description while maintaining the original resume's professional structure, formatting, and quality.

ORIGINAL RESUME:
%s

JOB DESCRIPTION:
%s

CRITICAL REQUIREMENTS:
1. PRESERVE ALL ORIGINAL CONTENT: Keep all personal information, company names, job titles, dates, locations, and achievements exactly as they appear in the original resume.

2. MAINTAIN PROFESSIONAL STRUCTURE: Keep the same sections, formatting, and layout as the original resume. Do not change the overall structure.

3. ENHANCE RELEVANCE: For each existing bullet point, enhance it by:
   - Adding relevant keywords from the job description
   - Emphasizing skills and technologies that match the requirements
   - Quantifying achievements where possible
   - Making descriptions more impactful for the target role

4. PRESERVE FORMATTING: Maintain the original resume's section headers, bullet point structure, contact information layout, professional tone, and all hyperlinks.

5. STRATEGIC REORDERING: You may reorder bullet points within sections to highlight the most relevant experience first, but keep all original content.

6. HTML OUTPUT: Return a complete HTML document with embedded CSS that matches the original resume's clean, ATS-friendly format.

Return ONLY the complete HTML document with embedded CSS. No explanations or markdown formatting.`

// Manager selects a provider adapter at construction time and turns a
// resume plus a job description into tailored HTML. Adapter readiness is
// verified once here, not per call.
type Manager struct {
	cfg      Config
	provider Provider
	log      *zap.Logger
}

// NewManager builds the adapter for cfg.Provider eagerly so a missing
// credential or an uninitializable client surfaces at startup rather than
// mid-pipeline.
func NewManager(ctx context.Context, cfg Config, log *zap.Logger) (*Manager, error) {
	if cfg.Model == "" {
		cfg.Model = DefaultModel(cfg.Provider)
	}
	if log == nil {
		log = zap.NewNop()
	}

	var (
		provider Provider
		err      error
	)
	switch cfg.Provider {
	case ProviderOpenAI:
		provider, err = newOpenAIClient(cfg)
	case ProviderAnthropic:
		provider, err = newAnthropicClient(cfg)
	case ProviderGoogle:
		provider, err = newGoogleClient(ctx, cfg)
	case ProviderLocal:
		provider, err = newOllamaClient(cfg)
	default:
		return nil, fmt.Errorf("unsupported provider %q: %w", cfg.Provider, ErrUnavailable)
	}
	if err != nil {
		return nil, err
	}

	return &Manager{cfg: cfg, provider: provider, log: log}, nil
}

// Tailor builds the prompt from the resume HTML and job description,
// invokes the provider exactly once, and extracts the HTML payload from
// the raw response. Blank inputs fail with ErrEmptyInput before any
// network call.
func (m *Manager) Tailor(ctx context.Context, resumeHTML, jobDescription string) (string, error) {
	if strings.TrimSpace(resumeHTML) == "" {
		return "", fmt.Errorf("resume markup is blank: %w", ErrEmptyInput)
	}
	if strings.TrimSpace(jobDescription) == "" {
		return "", fmt.Errorf("job description is blank: %w", ErrEmptyInput)
	}

	prompt := BuildTailorPrompt(resumeHTML, jobDescription)

	m.log.Info("requesting tailored resume",
		zap.String("provider", string(m.cfg.Provider)),
		zap.String("model", m.cfg.Model),
		zap.Int("prompt_len", len(prompt)))

	raw, err := m.provider.Generate(ctx, prompt)
	if err != nil {
		m.log.Error("provider call failed", zap.Error(err))
		return "", err
	}

	extracted, err := ExtractMarkup(raw, m.cfg.StrictExtraction)
	if err != nil {
		return "", err
	}

	m.log.Info("tailored resume generated",
		zap.Int("raw_len", len(raw)),
		zap.Int("extracted_len", len(extracted)))
	return extracted, nil
}

// BuildTailorPrompt embeds the two inputs verbatim into the fixed
// instruction template. Exported so the CLI can print the prompt in
// debug mode.
func BuildTailorPrompt(resumeHTML, jobDescription string) string {
	return fmt.Sprintf(tailorPromptTemplate, resumeHTML, jobDescription)
}

// ExtractMarkup isolates the HTML payload from a raw model response.
// Precedence: interior of the first fenced block tagged html, then the
// interior of the first fenced block of any kind, then the raw response
// unmodified. When a fence is opened but never closed the lenient mode
// consumes the remainder of the response; strict mode fails with
// ErrInvalidResponse instead.
func ExtractMarkup(raw string, strict bool) (string, error) {
	for _, marker := range []string{"```html", "```"} {
		start := strings.Index(raw, marker)
		if start < 0 {
			continue
		}
		interior := raw[start+len(marker):]
		if end := strings.Index(interior, "```"); end >= 0 {
			return strings.TrimSpace(interior[:end]), nil
		}
		if strict {
			return "", fmt.Errorf("unterminated code fence in response: %w", ErrInvalidResponse)
		}
		return strings.TrimSpace(interior), nil
	}
	return raw, nil
}
