package config

import "errors"

// Configuration validation errors returned by Config.Validate.
var (
	// ErrNoInput is returned when no CSV file is given.
	ErrNoInput = errors.New("no input specified: provide the path of a CSV file")

	// ErrInvalidFormat is returned for a report format other than
	// text, markdown or json.
	ErrInvalidFormat = errors.New("invalid format: must be one of text, markdown, json")

	// ErrUnknownEncoding is returned when the input charset is not known.
	ErrUnknownEncoding = errors.New("unknown encoding: use a WHATWG label such as utf-8 or windows-1252")

	// ErrInvalidDelimiter is returned when the delimiter is more than one
	// character or cannot separate CSV fields.
	ErrInvalidDelimiter = errors.New("invalid delimiter: must be a single character other than a quote or newline")

	// ErrInvalidDebounce is returned when the watch debounce is negative.
	ErrInvalidDebounce = errors.New("invalid debounce: must be non-negative")

	// ErrInvalidLogFormat is returned for a log format other than text or json.
	ErrInvalidLogFormat = errors.New("invalid log format: must be text or json")
)
