package domain

import (
	"time"

	"github.com/google/uuid"
)

// Job statuses recorded in the run history.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// TailorJob is the record of one pipeline run: one generation call
// followed by one render call. It carries no resume content beyond what
// the run needs; the produced document lives on disk.
type TailorJob struct {
	ID             uuid.UUID `json:"id"`
	JobDescription string    `json:"job_description"`
	ResumeHTML     string    `json:"-"`
	OutputFilename string    `json:"output_filename,omitempty"`
	Backend        string    `json:"backend,omitempty"`

	Status     string    `json:"status"`
	Provider   string    `json:"provider,omitempty"`
	OutputPath string    `json:"output_path,omitempty"`
	Error      string    `json:"error,omitempty"`
	DurationMS int64     `json:"duration_ms,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewTailorJob builds a pending job for the given inputs.
func NewTailorJob(resumeHTML, jobDescription string) *TailorJob {
	now := time.Now()
	return &TailorJob{
		ID:             uuid.New(),
		JobDescription: jobDescription,
		ResumeHTML:     resumeHTML,
		Status:         StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}
