// Package usecase orchestrates the tailoring pipeline: one generation
// call, an optional print-optimization pass, one render call, and a
// best-effort history record. No retries, no internal timeouts; callers
// bound the work through the context.
package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"resume-tailor/internal/domain"
	"resume-tailor/pkg/render"
)

// Tailorer produces tailored resume HTML from source HTML and a job
// description. Satisfied by *llm.Manager.
type Tailorer interface {
	Tailor(ctx context.Context, resumeHTML, jobDescription string) (string, error)
}

// DocumentRenderer converts HTML to a PDF on disk. Satisfied by
// *render.Renderer.
type DocumentRenderer interface {
	Render(ctx context.Context, html, destPath string, opts render.Options) (string, error)
}

// RunsStore records pipeline runs. Satisfied by *repository.RunsRepo; a
// nil store disables history.
type RunsStore interface {
	Save(ctx context.Context, j *domain.TailorJob) error
}

type Pipeline struct {
	tailorer  Tailorer
	renderer  DocumentRenderer
	runs      RunsStore
	outputDir string
	renderOpt render.Options
	provider  string
	debug     bool
	log       *zap.Logger
}

func NewPipeline(t Tailorer, r DocumentRenderer, runs RunsStore, outputDir string, opt render.Options, provider string, debug bool, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{
		tailorer:  t,
		renderer:  r,
		runs:      runs,
		outputDir: outputDir,
		renderOpt: opt,
		provider:  provider,
		debug:     debug,
		log:       log,
	}
}

// Process runs the whole pipeline for one job and returns the path of the
// produced PDF. Every error from the generation or render stage surfaces
// unchanged; the history record reflects the outcome either way.
func (p *Pipeline) Process(ctx context.Context, job *domain.TailorJob) (string, error) {
	start := time.Now()
	job.Provider = p.provider

	tailored, err := p.tailorer.Tailor(ctx, job.ResumeHTML, job.JobDescription)
	if err != nil {
		p.finish(ctx, job, start, err)
		return "", err
	}

	optimized := render.OptimizeForPrint(tailored)
	if !render.ValidateMarkup(optimized) {
		// Advisory only: the model may have returned a fragment that a
		// browser-driven backend still renders fine.
		p.log.Warn("tailored markup failed validation",
			zap.String("job_id", job.ID.String()))
	}

	destPath := filepath.Join(p.outputDir, p.outputFilename(job))

	opts := p.renderOpt
	if job.Backend != "" {
		backend, err := render.ParseBackend(job.Backend)
		if err != nil {
			p.finish(ctx, job, start, err)
			return "", err
		}
		opts.Backend = backend
	}
	// Resolve auto here so the run record names the engine that actually
	// produced the document.
	opts.Backend = render.ResolveBackend(opts.Backend)
	job.Backend = string(opts.Backend)

	if p.debug {
		htmlPath := strings.TrimSuffix(destPath, ".pdf") + ".html"
		if werr := os.WriteFile(htmlPath, []byte(optimized), 0o644); werr == nil {
			p.log.Debug("debug HTML written", zap.String("path", htmlPath))
		}
	}

	path, err := p.renderer.Render(ctx, optimized, destPath, opts)
	if err != nil {
		p.finish(ctx, job, start, err)
		return "", err
	}

	job.OutputPath = path
	p.finish(ctx, job, start, nil)

	p.log.Info("pipeline completed",
		zap.String("job_id", job.ID.String()),
		zap.String("output", path),
		zap.Duration("took", time.Since(start)))
	return path, nil
}

// outputFilename returns the caller-supplied name normalized to a .pdf
// extension, or a unique generated one. Uniqueness across concurrent runs
// comes from the job UUID; the output directory needs no locking.
func (p *Pipeline) outputFilename(job *domain.TailorJob) string {
	name := strings.TrimSpace(job.OutputFilename)
	if name == "" {
		return fmt.Sprintf("tailored_resume_%s.pdf", job.ID.String())
	}
	name = filepath.Base(name)
	if strings.HasSuffix(strings.ToLower(name), ".html") {
		name = name[:len(name)-len(".html")] + ".pdf"
	} else if !strings.HasSuffix(strings.ToLower(name), ".pdf") {
		name += ".pdf"
	}
	return name
}

// finish stamps the job record and saves it. History failures are logged
// and swallowed; they never change the pipeline outcome.
func (p *Pipeline) finish(ctx context.Context, job *domain.TailorJob, start time.Time, runErr error) {
	job.DurationMS = time.Since(start).Milliseconds()
	job.UpdatedAt = time.Now()
	if runErr != nil {
		job.Status = domain.StatusFailed
		job.Error = runErr.Error()
	} else {
		job.Status = domain.StatusCompleted
	}
	if p.runs == nil {
		return
	}
	if err := p.runs.Save(ctx, job); err != nil {
		p.log.Warn("failed to save run record",
			zap.String("job_id", job.ID.String()),
			zap.Error(err))
	}
}
