// Command tailor runs one pipeline pass from the command line: it reads
// an HTML resume and a job description, generates the tailored version,
// and writes the PDF.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"resume-tailor/internal/adapter/repository"
	"resume-tailor/internal/config"
	"resume-tailor/internal/domain"
	"resume-tailor/internal/logger"
	"resume-tailor/internal/usecase"
	"resume-tailor/pkg/llm"
	"resume-tailor/pkg/render"
)

var (
	resumeFile         string
	jobDescription     string
	jobDescriptionFile string
	output             string
	pdfMethod          string
	debug              bool
)

var rootCmd = &cobra.Command{
	Use:   "tailor",
	Short: "Tailor an HTML resume to a job description and render it to PDF",
	Long: `Tailor an HTML resume to a job description using an LLM provider
and render the result to a paginated PDF.

Provider and rendering settings come from the environment (or a .env
file): LLM_PROVIDER, LLM_API_KEY, LLM_MODEL, LLM_TEMPERATURE,
LLM_MAX_TOKENS, LLM_BASE_URL, OUTPUT_DIR, PDF_MARGINS, PDF_BACKEND.`,
	RunE:          runTailor,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Flags().StringVarP(&resumeFile, "resume-file", "r", "", "path to the HTML resume (required)")
	rootCmd.Flags().StringVarP(&jobDescription, "job-description", "j", "", "job description text")
	rootCmd.Flags().StringVar(&jobDescriptionFile, "job-description-file", "", "file containing the job description")
	rootCmd.Flags().StringVarP(&output, "output", "o", "", "output PDF filename (default: generated)")
	rootCmd.Flags().StringVar(&pdfMethod, "pdf-method", "", "render backend: auto, embedded, wkhtmltopdf, chromium")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "debug logging and keep the intermediate HTML")
	_ = rootCmd.MarkFlagRequired("resume-file")
}

func runTailor(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if debug {
		cfg.Debug = true
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	jd := jobDescription
	if jd == "" && jobDescriptionFile != "" {
		b, err := os.ReadFile(jobDescriptionFile)
		if err != nil {
			return fmt.Errorf("read job description: %w", err)
		}
		jd = string(b)
	}
	if jd == "" {
		return fmt.Errorf("either --job-description or --job-description-file is required")
	}

	resumeHTML, err := os.ReadFile(resumeFile)
	if err != nil {
		return fmt.Errorf("read resume: %w", err)
	}

	zlog := logger.New(cfg.LogLevel, cfg.LogFormat)
	defer zlog.Sync() //nolint:errcheck

	manager, err := llm.NewManager(ctx, cfg.LLM, zlog)
	if err != nil {
		return err
	}

	var runs usecase.RunsStore
	if cfg.RunsDatabaseURL != "" {
		pool, err := repository.NewRunsPool(ctx, cfg.RunsDatabaseURL)
		if err != nil {
			zlog.Warn("run history disabled: database not available", zap.Error(err))
		} else {
			defer pool.Close()
			runs = repository.NewRunsRepo(pool)
		}
	}

	pipeline := usecase.NewPipeline(manager, render.NewRenderer(zlog), runs,
		cfg.OutputDir, cfg.Render, string(cfg.LLM.Provider), cfg.Debug, zlog)

	job := domain.NewTailorJob(string(resumeHTML), jd)
	job.OutputFilename = output
	job.Backend = pdfMethod

	path, err := pipeline.Process(ctx, job)
	if err != nil {
		return err
	}

	fmt.Printf("PDF saved to: %s\n", path)
	return nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
