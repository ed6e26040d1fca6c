package pipeline

import (
	"context"
	"sync"

	"github.com/nao1215/patronsort/internal/model"
)

// Session runs the pipeline on request and keeps the status of the most
// recent run. The last completed run always wins.
type Session struct {
	pipeline *Pipeline
	format   string

	mu   sync.Mutex
	last model.Status
}

// NewSession creates a session running p for reports in format.
func NewSession(p *Pipeline, format string) *Session {
	return &Session{pipeline: p, format: format}
}

// Process runs the pipeline on inputPath and records the outcome.
// The returned run carries the error, if any; the status is what the user
// should see.
func (s *Session) Process(ctx context.Context, inputPath string) (*model.Run, model.Status) {
	run := model.NewRun(inputPath, s.format)
	_ = s.pipeline.Execute(ctx, run) //nolint:errcheck // recorded in run

	status := model.NewStatus(run)

	s.mu.Lock()
	s.last = status
	s.mu.Unlock()

	return run, status
}

// LastStatus returns the status of the most recent run.
// It is the zero Status before the first run.
func (s *Session) LastStatus() model.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}
