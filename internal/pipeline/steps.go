package pipeline

import (
	"bytes"
	"context"
	"io"
	"log/slog"

	"github.com/nao1215/patronsort/internal/config"
	"github.com/nao1215/patronsort/internal/csvin"
	"github.com/nao1215/patronsort/internal/model"
	"github.com/nao1215/patronsort/internal/report"
	"github.com/nao1215/patronsort/internal/sorter"
)

// DecodeStep reads the input CSV file into the run.
type DecodeStep struct {
	opts   []csvin.Option
	logger *slog.Logger
}

// NewDecodeStep creates a decode step passing opts to the CSV decoder.
func NewDecodeStep(logger *slog.Logger, opts ...csvin.Option) *DecodeStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &DecodeStep{opts: opts, logger: logger}
}

// Name returns the step name.
func (s *DecodeStep) Name() string {
	return "decode"
}

// Do decodes run.InputPath and stores its headers and rows.
func (s *DecodeStep) Do(_ context.Context, run *model.Run) error {
	table, err := csvin.Open(run.InputPath, s.opts...)
	if err != nil {
		return err
	}

	run.Headers = table.Headers
	run.Rows = table.Rows
	run.RowsSkipped = table.Skipped

	if table.Skipped > 0 {
		s.logger.Warn("skipped malformed rows",
			"input", run.InputPath,
			"count", table.Skipped,
			"lines", table.SkippedLines,
		)
	}
	s.logger.Debug("decoded file",
		"input", run.InputPath,
		"columns", len(table.Headers),
		"rows", len(table.Rows),
	)

	return nil
}

// BuildStep filters, sorts and groups the decoded rows.
type BuildStep struct {
	logger *slog.Logger
}

// NewBuildStep creates a build step.
func NewBuildStep(logger *slog.Logger) *BuildStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &BuildStep{logger: logger}
}

// Name returns the step name.
func (s *BuildStep) Name() string {
	return "build"
}

// Do builds run.Report. A missing required column fails the step before any
// row is looked at.
func (s *BuildStep) Do(_ context.Context, run *model.Run) error {
	rep, err := sorter.Build(run.Headers, run.Rows)
	if err != nil {
		return err
	}

	rep.Source = run.InputPath
	rep.RowsSkipped = run.RowsSkipped
	run.Report = rep

	s.logger.Debug("built report",
		"matched", rep.RowsMatched,
		"tiers", rep.GroupCount(),
	)
	return nil
}

// WriteStep renders run.Report and writes it to the output path.
type WriteStep struct {
	format     string
	outputPath string
	atomic     bool
	echo       io.Writer
	logger     *slog.Logger
}

// WriteStepOption configures a WriteStep.
type WriteStepOption func(*WriteStep)

// WithOutputPath overrides the derived output path.
func WithOutputPath(path string) WriteStepOption {
	return func(s *WriteStep) {
		s.outputPath = path
	}
}

// WithAtomic toggles writing through a temporary file and rename.
func WithAtomic(atomic bool) WriteStepOption {
	return func(s *WriteStep) {
		s.atomic = atomic
	}
}

// WithEcho also writes the plain text report to w once the file is written.
func WithEcho(w io.Writer) WriteStepOption {
	return func(s *WriteStep) {
		s.echo = w
	}
}

// WithWriteLogger sets a custom logger for the write step.
func WithWriteLogger(logger *slog.Logger) WriteStepOption {
	return func(s *WriteStep) {
		s.logger = logger
	}
}

// NewWriteStep creates a write step for the given format.
// Writes are atomic unless disabled with WithAtomic(false).
func NewWriteStep(format string, opts ...WriteStepOption) *WriteStep {
	s := &WriteStep{
		format: format,
		atomic: true,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *WriteStep) Name() string {
	return "write"
}

// OutputPathFor returns where the report for input is written.
func (s *WriteStep) OutputPathFor(input string) string {
	if s.outputPath != "" {
		return s.outputPath
	}
	return sorter.OutputPathWithExt(input, report.Extension(s.format))
}

// Do writes the report. The whole report is rendered before the file is
// touched, so a rendering error leaves the destination as it was.
func (s *WriteStep) Do(_ context.Context, run *model.Run) error {
	if run.Report == nil {
		run.Report = model.NewSortReport(run.InputPath)
	}

	var (
		echoed bytes.Buffer
		also   []report.Writer
	)
	if s.echo != nil {
		also = append(also, report.NewTextWriter(&echoed))
	}

	data, err := report.Render(s.format, run.Report, also...)
	if err != nil {
		return err
	}

	path := s.OutputPathFor(run.InputPath)
	if err := report.WriteFile(path, data, s.atomic); err != nil {
		return err
	}

	run.OutputPath = path
	run.BytesWritten = len(data)

	if s.echo != nil {
		if _, err := s.echo.Write(echoed.Bytes()); err != nil {
			s.logger.Warn("failed to print report", "error", err)
		}
	}

	s.logger.Debug("wrote report",
		"output", path,
		"bytes", len(data),
		"atomic", s.atomic,
	)
	return nil
}

// DefaultPipeline builds the decode, build and write pipeline for cfg.
// extra options are applied to the write step after those from cfg.
func DefaultPipeline(cfg *config.Config, logger *slog.Logger, extra ...WriteStepOption) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}

	p := New(WithLogger(logger))
	p.AddSteps(
		NewDecodeStep(logger,
			csvin.WithStrict(cfg.Strict),
			csvin.WithEncoding(cfg.Encoding),
			csvin.WithComma(cfg.Comma()),
		),
		NewBuildStep(logger),
		NewWriteStep(cfg.Format, append([]WriteStepOption{
			WithOutputPath(cfg.OutputPath),
			WithAtomic(cfg.Atomic),
			WithWriteLogger(logger),
		}, extra...)...),
	)
	return p
}
