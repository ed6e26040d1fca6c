package pipeline

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/nao1215/patronsort/internal/config"
	"github.com/nao1215/patronsort/internal/model"
)

const sampleCSV = "Name,Tier,Patron Status\n" +
	"Alice,Silver,Active Patron\n" +
	"Bob,Gold,Active Patron\n" +
	"Carol,Gold, active patron \n" +
	"Dave,Gold,Former Patron\n"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// writeCSV writes content to name inside a fresh temp dir and returns its path.
func writeCSV(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestConfig(input string) *config.Config {
	cfg := config.NewConfig()
	cfg.InputPath = input
	return cfg
}

func TestDefaultPipeline(t *testing.T) {
	t.Parallel()

	t.Run("writes the text report next to the input", func(t *testing.T) {
		t.Parallel()

		input := writeCSV(t, "patrons.csv", sampleCSV)
		p := DefaultPipeline(newTestConfig(input), discardLogger())

		if diff := cmp.Diff([]string{"decode", "build", "write"}, p.StepNames()); diff != "" {
			t.Errorf("step names mismatch (-want +got):\n%s", diff)
		}

		run := model.NewRun(input, config.FormatText)
		if err := p.Execute(context.Background(), run); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := filepath.Join(filepath.Dir(input), "patrons_sort.txt")
		if run.OutputPath != want {
			t.Errorf("expected output %q, got %q", want, run.OutputPath)
		}

		got, err := os.ReadFile(want) //nolint:gosec // test file
		if err != nil {
			t.Fatal(err)
		}
		wantText := "---------------------------\nBob\nCarol\n---------------------------\nAlice\n"
		if diff := cmp.Diff(wantText, string(got)); diff != "" {
			t.Errorf("report mismatch (-want +got):\n%s", diff)
		}
		if run.BytesWritten != len(wantText) {
			t.Errorf("expected %d bytes written, got %d", len(wantText), run.BytesWritten)
		}
	})

	t.Run("missing column writes nothing", func(t *testing.T) {
		t.Parallel()

		input := writeCSV(t, "patrons.csv", "Name,Patron Status\nAlice,Active Patron\n")
		p := DefaultPipeline(newTestConfig(input), discardLogger())

		run := model.NewRun(input, config.FormatText)
		err := p.Execute(context.Background(), run)

		col, ok := model.IsMissingColumn(err)
		if !ok || col != model.ColumnTier {
			t.Fatalf("expected missing Tier column, got %v", err)
		}
		if _, statErr := os.Stat(filepath.Join(filepath.Dir(input), "patrons_sort.txt")); !os.IsNotExist(statErr) {
			t.Error("expected no output file")
		}
		if run.OutputPath != "" {
			t.Errorf("expected empty output path, got %q", run.OutputPath)
		}
	})

	t.Run("unreadable input", func(t *testing.T) {
		t.Parallel()

		input := filepath.Join(t.TempDir(), "missing.csv")
		p := DefaultPipeline(newTestConfig(input), discardLogger())

		err := p.Execute(context.Background(), model.NewRun(input, config.FormatText))
		if !errors.Is(err, model.ErrFileOpen) {
			t.Errorf("expected ErrFileOpen, got %v", err)
		}
	})

	t.Run("strict mode fails on malformed row", func(t *testing.T) {
		t.Parallel()

		input := writeCSV(t, "patrons.csv", sampleCSV+"Eve,Gold\n")
		cfg := newTestConfig(input)
		cfg.Strict = true

		err := DefaultPipeline(cfg, discardLogger()).Execute(context.Background(), model.NewRun(input, config.FormatText))
		if !errors.Is(err, model.ErrRowDecode) {
			t.Errorf("expected ErrRowDecode, got %v", err)
		}
	})

	t.Run("lenient mode drops malformed row", func(t *testing.T) {
		t.Parallel()

		input := writeCSV(t, "patrons.csv", sampleCSV+"Eve,Gold\n")
		run := model.NewRun(input, config.FormatText)

		if err := DefaultPipeline(newTestConfig(input), discardLogger()).Execute(context.Background(), run); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if run.RowsSkipped != 1 || run.Report.RowsSkipped != 1 {
			t.Errorf("expected 1 skipped row, got run=%d report=%d", run.RowsSkipped, run.Report.RowsSkipped)
		}
	})

	t.Run("markdown format uses md extension", func(t *testing.T) {
		t.Parallel()

		input := writeCSV(t, "patrons.csv", sampleCSV)
		cfg := newTestConfig(input)
		cfg.Format = config.FormatMarkdown

		run := model.NewRun(input, cfg.Format)
		if err := DefaultPipeline(cfg, discardLogger()).Execute(context.Background(), run); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if filepath.Base(run.OutputPath) != "patrons_sort.md" {
			t.Errorf("expected patrons_sort.md, got %q", run.OutputPath)
		}
	})

	t.Run("output override and semicolon delimiter", func(t *testing.T) {
		t.Parallel()

		input := writeCSV(t, "patrons.csv", "Tier;Patron Status;Name\nGold;Active Patron;Zed\n")
		out := filepath.Join(t.TempDir(), "custom.txt")

		cfg := newTestConfig(input)
		cfg.OutputPath = out
		cfg.Delimiter = ";"
		cfg.Atomic = false

		run := model.NewRun(input, cfg.Format)
		if err := DefaultPipeline(cfg, discardLogger()).Execute(context.Background(), run); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got, err := os.ReadFile(out) //nolint:gosec // test file
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != "---------------------------\nZed\n" {
			t.Errorf("unexpected report %q", got)
		}
	})
}

func TestWriteStepEcho(t *testing.T) {
	t.Parallel()

	t.Run("prints text while writing json", func(t *testing.T) {
		t.Parallel()

		input := writeCSV(t, "patrons.csv", sampleCSV)
		cfg := newTestConfig(input)
		cfg.Format = config.FormatJSON

		var echo bytes.Buffer
		run := model.NewRun(input, cfg.Format)
		if err := DefaultPipeline(cfg, discardLogger(), WithEcho(&echo)).Execute(context.Background(), run); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := "---------------------------\nBob\nCarol\n---------------------------\nAlice\n"
		if diff := cmp.Diff(want, echo.String()); diff != "" {
			t.Errorf("echo mismatch (-want +got):\n%s", diff)
		}
		if filepath.Base(run.OutputPath) != "patrons_sort.json" {
			t.Errorf("expected patrons_sort.json, got %q", run.OutputPath)
		}
	})

	t.Run("nothing printed when the write fails", func(t *testing.T) {
		t.Parallel()

		input := writeCSV(t, "patrons.csv", sampleCSV)
		cfg := newTestConfig(input)
		cfg.OutputPath = filepath.Join(t.TempDir(), "missing", "out.txt")
		cfg.Atomic = false

		var echo bytes.Buffer
		run := model.NewRun(input, cfg.Format)
		err := DefaultPipeline(cfg, discardLogger(), WithEcho(&echo)).Execute(context.Background(), run)
		if !errors.Is(err, model.ErrOutputWrite) {
			t.Fatalf("expected ErrOutputWrite, got %v", err)
		}
		if echo.Len() != 0 {
			t.Errorf("expected nothing printed, got %q", echo.String())
		}
	})
}

func TestWriteStepOutputPathFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		step *WriteStep
		want string
	}{
		{name: "text", step: NewWriteStep(config.FormatText), want: filepath.Join("data", "p_sort.txt")},
		{name: "json", step: NewWriteStep(config.FormatJSON), want: filepath.Join("data", "p_sort.json")},
		{name: "override", step: NewWriteStep(config.FormatText, WithOutputPath("x.txt")), want: "x.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.step.OutputPathFor(filepath.Join("data", "p.csv")); got != tt.want {
				t.Errorf("OutputPathFor() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWriteStepEmptyReport(t *testing.T) {
	t.Parallel()

	input := writeCSV(t, "none.csv", "Tier,Patron Status,Name\nGold,Former Patron,Bob\n")
	run := model.NewRun(input, config.FormatText)

	if err := DefaultPipeline(newTestConfig(input), discardLogger()).Execute(context.Background(), run); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	info, err := os.Stat(run.OutputPath)
	if err != nil {
		t.Fatalf("expected output file: %v", err)
	}
	if info.Size() != 0 {
		t.Errorf("expected empty report, got %d bytes", info.Size())
	}
}
