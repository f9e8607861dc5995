package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider records calls and returns a canned response.
type fakeProvider struct {
	calls    int
	response string
	err      error
}

func (f *fakeProvider) Generate(_ context.Context, _ string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func newTestManager(t *testing.T, p Provider, strict bool) *Manager {
	t.Helper()
	m, err := NewManager(context.Background(), Config{
		Provider:         ProviderLocal,
		Model:            "test-model",
		Temperature:      0.7,
		MaxTokens:        100,
		StrictExtraction: strict,
	}, nil)
	require.NoError(t, err)
	m.provider = p
	return m
}

func TestExtractMarkup(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "tagged html fence",
			raw:  "Sure! ```html<html>...</html>```",
			want: "<html>...</html>",
		},
		{
			name: "tagged fence with newlines",
			raw:  "Here you go:\n```html\n<html><body>X</body></html>\n```\nAnything else?",
			want: "<html><body>X</body></html>",
		},
		{
			name: "generic fence",
			raw:  "```\n<html><body>Y</body></html>\n```",
			want: "<html><body>Y</body></html>",
		},
		{
			name: "no fence passes through unmodified",
			raw:  "<html><body>Z</body></html>",
			want: "<html><body>Z</body></html>",
		},
		{
			name: "unterminated fence consumes remainder",
			raw:  "```html\n<html><body>W</body></html>",
			want: "<html><body>W</body></html>",
		},
		{
			name: "first fence wins",
			raw:  "```html\n<html>first</html>\n```\n```html\n<html>second</html>\n```",
			want: "<html>first</html>",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractMarkup(tt.raw, false)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractMarkupStrictUnterminatedFence(t *testing.T) {
	_, err := ExtractMarkup("```html\n<html>no closing fence", true)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestExtractMarkupFencelessResponseIsByteExact(t *testing.T) {
	raw := "  <html>\n<body>  padded  </body>\n</html>  "
	got, err := ExtractMarkup(raw, false)
	require.NoError(t, err)
	assert.Equal(t, raw, got)
}

func TestTailorEmptyInputsFailBeforeProviderCall(t *testing.T) {
	fake := &fakeProvider{response: "<html></html>"}
	m := newTestManager(t, fake, false)

	_, err := m.Tailor(context.Background(), "", "a job description")
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = m.Tailor(context.Background(), "<html></html>", "   \n\t ")
	assert.ErrorIs(t, err, ErrEmptyInput)

	assert.Zero(t, fake.calls, "provider must not be called for blank inputs")
}

func TestTailorInvokesProviderExactlyOnce(t *testing.T) {
	fake := &fakeProvider{response: "```html\n<html><body>tailored</body></html>\n```"}
	m := newTestManager(t, fake, false)

	got, err := m.Tailor(context.Background(), "<html><body>orig</body></html>", "Senior Go engineer")
	require.NoError(t, err)
	assert.Equal(t, "<html><body>tailored</body></html>", got)
	assert.Equal(t, 1, fake.calls)
}

func TestTailorPropagatesProviderError(t *testing.T) {
	wantErr := &ProviderError{Provider: ProviderLocal, StatusCode: 429, Message: "slow down", Err: ErrRateLimited}
	m := newTestManager(t, &fakeProvider{err: wantErr}, false)

	_, err := m.Tailor(context.Background(), "<html></html>", "jd")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRateLimited)

	var perr *ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 429, perr.StatusCode)
}

func TestBuildTailorPromptEmbedsInputsVerbatim(t *testing.T) {
	resume := "<html><body>My résumé — unchanged</body></html>"
	jd := "We need a Go engineer who knows PDF generation."

	prompt := BuildTailorPrompt(resume, jd)
	assert.Contains(t, prompt, resume)
	assert.Contains(t, prompt, jd)
	assert.Contains(t, prompt, "PRESERVE ALL ORIGINAL CONTENT")
	assert.Contains(t, prompt, "Return ONLY the complete HTML document")

	// Deterministic: same inputs, same prompt.
	assert.Equal(t, prompt, BuildTailorPrompt(resume, jd))
}

func TestNewManagerUnknownProvider(t *testing.T) {
	_, err := NewManager(context.Background(), Config{Provider: "mainframe"}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestNewManagerRequiresCredentialExceptLocal(t *testing.T) {
	for _, kind := range []ProviderKind{ProviderOpenAI, ProviderAnthropic, ProviderGoogle} {
		t.Run(string(kind), func(t *testing.T) {
			_, err := NewManager(context.Background(), Config{Provider: kind, Model: "m"}, nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrUnavailable)
		})
	}

	m, err := NewManager(context.Background(), Config{Provider: ProviderLocal, Model: "m"}, nil)
	require.NoError(t, err)
	assert.NotNil(t, m)
}

func TestNewManagerDefaultsModel(t *testing.T) {
	m, err := NewManager(context.Background(), Config{Provider: ProviderLocal}, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultModel(ProviderLocal), m.cfg.Model)
	assert.True(t, strings.Contains(m.cfg.Model, "llama"))
}
