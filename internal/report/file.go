package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nao1215/patronsort/internal/model"
)

// FileMode is the permission of written reports.
const FileMode os.FileMode = 0644

// Render formats the report in memory using the writer for format.
// Any extra writers receive the same report through a MultiWriter, so one
// pass produces the file contents and, for example, a text copy for the
// terminal.
func Render(format string, report *model.SortReport, also ...Writer) ([]byte, error) {
	var buf bytes.Buffer
	w, err := ForFormat(format, &buf)
	if err != nil {
		return nil, err
	}

	writers := append([]Writer{w}, also...)
	if _, err := NewMultiWriter(writers...).Write(report); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile writes data to path, creating or truncating it.
//
// With atomic set, data goes to a temporary file in the same directory that
// is renamed over path once complete, so readers never see a partial report
// and a failed write leaves any previous report untouched.
//
// All failures are wrapped in model.ErrOutputWrite.
func WriteFile(path string, data []byte, atomic bool) error {
	if !atomic {
		if err := os.WriteFile(path, data, FileMode); err != nil {
			return fmt.Errorf("%w: %w", model.ErrOutputWrite, err)
		}
		return nil
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %w", model.ErrOutputWrite, err)
	}
	tmpName := tmp.Name()

	cleanup := func(cause error) error {
		_ = tmp.Close()        //nolint:errcheck // Already failing
		_ = os.Remove(tmpName) //nolint:errcheck // Best effort cleanup
		return fmt.Errorf("%w: %w", model.ErrOutputWrite, cause)
	}

	if _, err := tmp.Write(data); err != nil {
		return cleanup(err)
	}
	if err := tmp.Sync(); err != nil {
		return cleanup(err)
	}
	if err := tmp.Chmod(FileMode); err != nil {
		return cleanup(err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName) //nolint:errcheck // Best effort cleanup
		return fmt.Errorf("%w: %w", model.ErrOutputWrite, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName) //nolint:errcheck // Best effort cleanup
		return fmt.Errorf("%w: %w", model.ErrOutputWrite, err)
	}

	return nil
}
