package usecase

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-tailor/internal/domain"
	"resume-tailor/pkg/llm"
	"resume-tailor/pkg/render"
)

type fakeTailorer struct {
	calls  int
	result string
	err    error
}

func (f *fakeTailorer) Tailor(_ context.Context, _, _ string) (string, error) {
	f.calls++
	return f.result, f.err
}

type fakeRenderer struct {
	calls   int
	gotHTML string
	gotDest string
	gotOpts render.Options
	err     error
}

func (f *fakeRenderer) Render(_ context.Context, html, destPath string, opts render.Options) (string, error) {
	f.calls++
	f.gotHTML = html
	f.gotDest = destPath
	f.gotOpts = opts
	if f.err != nil {
		return "", f.err
	}
	return destPath, nil
}

type fakeRuns struct {
	saved []domain.TailorJob
	err   error
}

func (f *fakeRuns) Save(_ context.Context, j *domain.TailorJob) error {
	f.saved = append(f.saved, *j)
	return f.err
}

func newTestPipeline(t *fakeTailorer, r *fakeRenderer, runs *fakeRuns, outputDir string) *Pipeline {
	var store RunsStore
	if runs != nil {
		store = runs
	}
	return NewPipeline(t, r, store, outputDir,
		render.Options{Margin: "0", Backend: render.BackendEmbedded},
		"openai", false, nil)
}

func TestProcessHappyPath(t *testing.T) {
	tailorer := &fakeTailorer{result: "<html><head></head><body>tailored</body></html>"}
	renderer := &fakeRenderer{}
	runs := &fakeRuns{}
	p := newTestPipeline(tailorer, renderer, runs, t.TempDir())

	job := domain.NewTailorJob("<html><body>orig</body></html>", "Go engineer role")
	path, err := p.Process(context.Background(), job)
	require.NoError(t, err)

	assert.Equal(t, 1, tailorer.calls)
	assert.Equal(t, 1, renderer.calls)
	assert.Equal(t, renderer.gotDest, path)
	assert.Equal(t, "tailored_resume_"+job.ID.String()+".pdf", filepath.Base(path))

	// The renderer receives the print-optimized document, not the raw one.
	assert.Contains(t, renderer.gotHTML, "@media print")
	assert.Contains(t, renderer.gotHTML, "tailored")

	assert.Equal(t, domain.StatusCompleted, job.Status)
	assert.Equal(t, path, job.OutputPath)
	assert.Equal(t, "openai", job.Provider)
	assert.Equal(t, string(render.BackendEmbedded), job.Backend)
	require.Len(t, runs.saved, 1)
	assert.Equal(t, domain.StatusCompleted, runs.saved[0].Status)
}

func TestProcessFilenameNormalization(t *testing.T) {
	tests := []struct {
		supplied string
		want     string
	}{
		{"my_resume.pdf", "my_resume.pdf"},
		{"my_resume.html", "my_resume.pdf"},
		{"my_resume", "my_resume.pdf"},
		{"My_Resume.PDF", "My_Resume.PDF"},
		{"../../etc/evil.pdf", "evil.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.supplied, func(t *testing.T) {
			tailorer := &fakeTailorer{result: "<html><body>x</body></html>"}
			renderer := &fakeRenderer{}
			dir := t.TempDir()
			p := newTestPipeline(tailorer, renderer, nil, dir)

			job := domain.NewTailorJob("<html><body>r</body></html>", "jd")
			job.OutputFilename = tt.supplied

			path, err := p.Process(context.Background(), job)
			require.NoError(t, err)
			assert.Equal(t, tt.want, filepath.Base(path))
			assert.Equal(t, dir, filepath.Dir(path))
		})
	}
}

func TestProcessGeneratedFilenamesAreUnique(t *testing.T) {
	tailorer := &fakeTailorer{result: "<html><body>x</body></html>"}
	renderer := &fakeRenderer{}
	p := newTestPipeline(tailorer, renderer, nil, t.TempDir())

	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		job := domain.NewTailorJob("<html><body>r</body></html>", "jd")
		path, err := p.Process(context.Background(), job)
		require.NoError(t, err)
		assert.False(t, seen[path], "duplicate output path %s", path)
		seen[path] = true
	}
}

func TestProcessTailorFailureRecordsFailedRun(t *testing.T) {
	wantErr := &llm.ProviderError{Provider: llm.ProviderOpenAI, StatusCode: 429, Message: "limited", Err: llm.ErrRateLimited}
	tailorer := &fakeTailorer{err: wantErr}
	renderer := &fakeRenderer{}
	runs := &fakeRuns{}
	p := newTestPipeline(tailorer, renderer, runs, t.TempDir())

	job := domain.NewTailorJob("<html><body>r</body></html>", "jd")
	_, err := p.Process(context.Background(), job)
	require.Error(t, err)
	assert.ErrorIs(t, err, llm.ErrRateLimited)

	assert.Zero(t, renderer.calls, "render must not run after a failed generation")
	assert.Equal(t, domain.StatusFailed, job.Status)
	assert.Contains(t, job.Error, "limited")
	require.Len(t, runs.saved, 1)
	assert.Equal(t, domain.StatusFailed, runs.saved[0].Status)
}

func TestProcessRenderFailurePropagates(t *testing.T) {
	tailorer := &fakeTailorer{result: "<html><body>x</body></html>"}
	renderer := &fakeRenderer{err: &render.RenderError{
		Backend: render.BackendChromium,
		Message: "not installed",
		Err:     render.ErrBackendUnavailable,
	}}
	runs := &fakeRuns{}
	p := newTestPipeline(tailorer, renderer, runs, t.TempDir())

	job := domain.NewTailorJob("<html><body>r</body></html>", "jd")
	_, err := p.Process(context.Background(), job)
	require.Error(t, err)
	assert.ErrorIs(t, err, render.ErrBackendUnavailable)
	assert.Equal(t, domain.StatusFailed, job.Status)
}

func TestProcessAutoBackendRecordsResolvedEngine(t *testing.T) {
	tailorer := &fakeTailorer{result: "<html><body>x</body></html>"}
	renderer := &fakeRenderer{}
	runs := &fakeRuns{}
	p := NewPipeline(tailorer, renderer, runs, t.TempDir(),
		render.Options{Margin: "0", Backend: render.BackendAuto},
		"openai", false, nil)

	job := domain.NewTailorJob("<html><body>r</body></html>", "jd")
	_, err := p.Process(context.Background(), job)
	require.NoError(t, err)

	// The record must name a concrete engine, never the auto preference.
	assert.NotEqual(t, string(render.BackendAuto), job.Backend)
	assert.Equal(t, string(render.BackendEmbedded), job.Backend)
	assert.Equal(t, render.BackendEmbedded, renderer.gotOpts.Backend)
	require.Len(t, runs.saved, 1)
	assert.Equal(t, string(render.BackendEmbedded), runs.saved[0].Backend)
}

func TestProcessPerJobBackendOverride(t *testing.T) {
	tailorer := &fakeTailorer{result: "<html><body>x</body></html>"}
	renderer := &fakeRenderer{}
	p := newTestPipeline(tailorer, renderer, nil, t.TempDir())

	job := domain.NewTailorJob("<html><body>r</body></html>", "jd")
	job.Backend = "chromium"

	_, err := p.Process(context.Background(), job)
	require.NoError(t, err)
	assert.Equal(t, render.BackendChromium, renderer.gotOpts.Backend)
	assert.Equal(t, "chromium", job.Backend)
}

func TestProcessRejectsUnknownBackendOverride(t *testing.T) {
	tailorer := &fakeTailorer{result: "<html><body>x</body></html>"}
	renderer := &fakeRenderer{}
	p := newTestPipeline(tailorer, renderer, nil, t.TempDir())

	job := domain.NewTailorJob("<html><body>r</body></html>", "jd")
	job.Backend = "weasyprint"

	_, err := p.Process(context.Background(), job)
	require.Error(t, err)
	assert.Zero(t, renderer.calls)
	assert.Equal(t, domain.StatusFailed, job.Status)
}

func TestProcessRunsStoreFailureIsSwallowed(t *testing.T) {
	tailorer := &fakeTailorer{result: "<html><body>x</body></html>"}
	renderer := &fakeRenderer{}
	runs := &fakeRuns{err: errors.New("db down")}
	p := newTestPipeline(tailorer, renderer, runs, t.TempDir())

	job := domain.NewTailorJob("<html><body>r</body></html>", "jd")
	_, err := p.Process(context.Background(), job)
	assert.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, job.Status)
}

func TestProcessWithoutRunsStore(t *testing.T) {
	tailorer := &fakeTailorer{result: "<html><body>x</body></html>"}
	renderer := &fakeRenderer{}
	p := newTestPipeline(tailorer, renderer, nil, t.TempDir())

	job := domain.NewTailorJob("<html><body>r</body></html>", "jd")
	path, err := p.Process(context.Background(), job)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, ".pdf"))
}
