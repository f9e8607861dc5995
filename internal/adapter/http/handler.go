// Package http exposes the pipeline over a small fiber front end: a
// multipart upload endpoint that streams the PDF back, a JSON endpoint
// validated against an embedded schema, plus health and metrics.
package http

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"

	"resume-tailor/internal/domain"
	"resume-tailor/pkg/llm"
	"resume-tailor/pkg/render"
)

// Processor runs one tailoring pipeline pass. Satisfied by
// *usecase.Pipeline.
type Processor interface {
	Process(ctx context.Context, job *domain.TailorJob) (string, error)
}

type Handler struct {
	processor Processor
	log       *zap.Logger
}

func NewHandler(p Processor, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{processor: p, log: log}
}

// Register wires the routes onto the app.
func (h *Handler) Register(app *fiber.App) {
	app.Post("/process", h.ProcessUpload)
	app.Post("/api/tailor", h.TailorJSON)
	app.Get("/health", h.Health)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
}

// ProcessUpload accepts a multipart form with an HTML resume file and a
// job description, runs the pipeline synchronously, and streams the PDF
// back as a download.
func (h *Handler) ProcessUpload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("resume_file")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "resume_file is required")
	}
	f, err := fileHeader.Open()
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "unable to read resume_file")
	}
	defer f.Close()
	resumeHTML, err := io.ReadAll(f)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "unable to read resume_file")
	}

	jobDescription := c.FormValue("job_description")
	if jobDescription == "" {
		return fail(c, fiber.StatusBadRequest, "job_description is required")
	}

	job := domain.NewTailorJob(string(resumeHTML), jobDescription)
	job.OutputFilename = c.FormValue("output_filename")
	job.Backend = c.FormValue("pdf_method")

	path, err := h.run(c, job)
	if err != nil {
		return h.failFromError(c, err)
	}
	return c.Download(path, filepath.Base(path))
}

type tailorRequest struct {
	ResumeHTML     string `json:"resumeHtml"`
	JobDescription string `json:"jobDescription"`
	OutputFilename string `json:"outputFilename"`
	PDFMethod      string `json:"pdfMethod"`
}

// TailorJSON accepts the same inputs as JSON, validated against the
// embedded request schema, and responds with the job id and output path.
func (h *Handler) TailorJSON(c *fiber.Ctx) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(tailorRequestSchema),
		gojsonschema.NewBytesLoader(c.Body()),
	)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid JSON payload")
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "request failed schema validation",
			"details": msgs,
		})
	}

	var req tailorRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid JSON payload")
	}

	job := domain.NewTailorJob(req.ResumeHTML, req.JobDescription)
	job.OutputFilename = req.OutputFilename
	job.Backend = req.PDFMethod

	path, err := h.run(c, job)
	if err != nil {
		return h.failFromError(c, err)
	}
	return c.JSON(fiber.Map{"jobId": job.ID.String(), "outputPath": path})
}

func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "healthy", "service": "resume-tailor"})
}

func (h *Handler) run(c *fiber.Ctx, job *domain.TailorJob) (string, error) {
	start := time.Now()
	path, err := h.processor.Process(c.UserContext(), job)
	observePipeline(time.Since(start), err)
	return path, err
}

func (h *Handler) failFromError(c *fiber.Ctx, err error) error {
	status := statusForError(err)
	if status >= fiber.StatusInternalServerError {
		h.log.Error("pipeline failed", zap.Error(err))
	} else {
		h.log.Warn("pipeline rejected", zap.Error(err))
	}
	return fail(c, status, err.Error())
}

func fail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

// statusForError maps the pipeline's error taxonomy onto HTTP status
// codes. The core only distinguishes kinds; user-facing translation
// happens here.
func statusForError(err error) int {
	switch {
	case errors.Is(err, llm.ErrEmptyInput):
		return fiber.StatusBadRequest
	case errors.Is(err, render.ErrInvalidMarkup):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, llm.ErrRateLimited):
		return fiber.StatusTooManyRequests
	case errors.Is(err, llm.ErrAuthFailure),
		errors.Is(err, llm.ErrNetworkFailure),
		errors.Is(err, llm.ErrInvalidResponse):
		return fiber.StatusBadGateway
	case errors.Is(err, llm.ErrUnavailable),
		errors.Is(err, render.ErrBackendUnavailable):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}
