package report

import (
	"io"

	"github.com/nao1215/patronsort/internal/model"
	"github.com/nao1215/patronsort/internal/sorter"
)

// TextWriter outputs the plain text report:
//
//	---------------------------
//	Bob
//	Carol
//	---------------------------
//	Alice
//
// A report without groups writes nothing at all.
type TextWriter struct {
	baseWriter
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer) *TextWriter {
	return &TextWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the report text.
func (w *TextWriter) Write(report *model.SortReport) (int, error) {
	return io.WriteString(w.output, sorter.RenderText(report.Groups))
}
