package model

import (
	"errors"
	"fmt"
)

// Run errors.
//
// ErrFileOpen and ErrOutputWrite are wrapped together with the path and the
// underlying cause, so callers can use errors.Is for classification while the
// message still says what went wrong.
var (
	// ErrFileOpen is returned when the source CSV cannot be opened or read.
	ErrFileOpen = errors.New("failed to open the file")

	// ErrRowDecode is returned for a malformed data row. It only surfaces in
	// strict mode; the default lenient mode drops the row instead.
	ErrRowDecode = errors.New("failed to decode row")

	// ErrOutputWrite is returned when the report cannot be created or written.
	ErrOutputWrite = errors.New("failed to write to the file")
)

// MissingColumnError is returned when a required header is absent.
type MissingColumnError struct {
	// Column is the name of the first required column that was not found.
	Column string
}

// Error implements the error interface.
func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("%s column not found", e.Column)
}

// IsMissingColumn reports whether err is a MissingColumnError and returns
// the missing column name.
func IsMissingColumn(err error) (string, bool) {
	var mc *MissingColumnError
	if errors.As(err, &mc) {
		return mc.Column, true
	}
	return "", false
}
