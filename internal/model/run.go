package model

import (
	"time"

	"github.com/google/uuid"
)

// Run carries the state of one pipeline execution for a single input file.
// Each pipeline step reads what earlier steps produced and adds its own part.
type Run struct {
	// ID uniquely identifies the run in the history database.
	ID string `json:"id"`

	// InputPath is the CSV file being processed.
	InputPath string `json:"input_path"`

	// OutputPath is where the report is written. It is derived from
	// InputPath unless overridden, and cleared when the run fails.
	OutputPath string `json:"output_path,omitempty"`

	// Format is the report format (text, markdown or json).
	Format string `json:"format"`

	// StartedAt and FinishedAt bracket the run.
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	// Headers is the decoded header row.
	Headers []string `json:"-"`

	// Rows are the decoded data rows. Malformed rows are not included.
	Rows []Record `json:"-"`

	// RowsSkipped is the number of malformed rows the decoder dropped.
	RowsSkipped int `json:"rows_skipped"`

	// Report is the built report, set by the build step.
	Report *SortReport `json:"report,omitempty"`

	// BytesWritten is the size of the written output.
	BytesWritten int `json:"bytes_written"`

	// Error is the error that stopped the run, if any.
	Error error `json:"-"`

	// ErrorMessage is the string form of Error for serialization.
	ErrorMessage string `json:"error,omitempty"`

	// PerformedSteps lists the steps that completed, in order.
	PerformedSteps []string `json:"performed_steps"`
}

// NewRun creates a run for the given input path.
func NewRun(inputPath, format string) *Run {
	return &Run{
		ID:             uuid.NewString(),
		InputPath:      inputPath,
		Format:         format,
		StartedAt:      time.Now(),
		PerformedSteps: make([]string, 0),
	}
}

// Fail records err as the reason the run stopped and clears the output path,
// so no stale path is reported for a failed run.
func (r *Run) Fail(err error) {
	r.Error = err
	r.ErrorMessage = err.Error()
	r.OutputPath = ""
}

// Succeeded reports whether the run completed without error.
func (r *Run) Succeeded() bool {
	return r.Error == nil
}

// Duration returns how long the run took. It is zero until FinishedAt is set.
func (r *Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
