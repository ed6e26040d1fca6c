package report

import (
	"fmt"
	"io"

	"github.com/nao1215/patronsort/internal/config"
	"github.com/nao1215/patronsort/internal/model"
)

// Writer renders a report to its configured destination.
type Writer interface {
	// Write outputs the report and returns the number of bytes written.
	Write(report *model.SortReport) (int, error)
}

// MultiWriter writes the same report through several Writers in order.
// It stops at the first error.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the report through every writer.
// Returns the total bytes written across all writers.
func (m *MultiWriter) Write(report *model.SortReport) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(report)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// ForFormat returns the writer for a config format name.
func ForFormat(format string, output io.Writer) (Writer, error) {
	switch format {
	case config.FormatText, "":
		return NewTextWriter(output), nil
	case config.FormatMarkdown:
		return NewMarkdownWriter(output), nil
	case config.FormatJSON:
		return NewJSONWriter(output, WithPrettyPrint()), nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrInvalidFormat, format)
	}
}

// Extension returns the file extension, including the dot, used for the
// derived output path of a format.
func Extension(format string) string {
	switch format {
	case config.FormatMarkdown:
		return ".md"
	case config.FormatJSON:
		return ".json"
	default:
		return ".txt"
	}
}
