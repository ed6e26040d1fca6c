package csvin

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/nao1215/patronsort/internal/model"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DefaultEncoding is the charset assumed when none is configured.
const DefaultEncoding = "utf-8"

// ErrUnknownEncoding is returned for a charset name x/text does not know.
var ErrUnknownEncoding = errors.New("unknown input encoding")

// ErrInvalidUTF8 is the cause recorded for a UTF-8 row holding invalid byte
// sequences.
var ErrInvalidUTF8 = errors.New("invalid UTF-8")

// utf8BOM is the UTF-8 byte order mark.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ErrInvalidHeader is returned when the header row itself cannot be parsed.
// Unlike data rows, a broken header is never skipped.
var ErrInvalidHeader = errors.New("failed to read the CSV header")

// Table is a decoded CSV file.
type Table struct {
	// Headers is the first row of the file. Nil for an empty file.
	Headers []string

	// Rows are the data rows that decoded cleanly.
	Rows []model.Record

	// Skipped is the number of data rows dropped as malformed.
	Skipped int

	// SkippedLines holds the starting line number of each dropped row.
	SkippedLines []int
}

type options struct {
	strict   bool
	encoding string
	comma    rune
}

// Option configures Decode.
type Option func(*options)

// WithStrict makes the first malformed data row fail decoding with
// model.ErrRowDecode instead of being dropped.
func WithStrict(strict bool) Option {
	return func(o *options) {
		o.strict = strict
	}
}

// WithEncoding sets the input charset by its WHATWG name or alias
// (e.g. "utf-8", "windows-1252", "latin1", "shift_jis").
// An empty name keeps the default.
func WithEncoding(name string) Option {
	return func(o *options) {
		if name != "" {
			o.encoding = name
		}
	}
}

// WithComma sets the field delimiter. The zero rune keeps ','.
func WithComma(comma rune) Option {
	return func(o *options) {
		if comma != 0 {
			o.comma = comma
		}
	}
}

// LookupEncoding resolves a charset name to an x/text encoding.
func LookupEncoding(name string) (encoding.Encoding, error) {
	if name == "" {
		name = DefaultEncoding
	}
	enc, err := htmlindex.Get(strings.ToLower(strings.TrimSpace(name)))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
	}
	return enc, nil
}

// Open reads and decodes the CSV file at path.
// Failures to open or read the file are wrapped in model.ErrFileOpen.
func Open(path string, opts ...Option) (*Table, error) {
	f, err := os.Open(path) //nolint:gosec // Reading a user-chosen file is the purpose of this tool
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrFileOpen, err)
	}
	defer f.Close()

	return Decode(f, opts...)
}

// Decode reads a header row and all data rows from r.
func Decode(r io.Reader, opts ...Option) (*Table, error) {
	o := options{
		encoding: DefaultEncoding,
		comma:    ',',
	}
	for _, opt := range opts {
		opt(&o)
	}

	enc, err := LookupEncoding(o.encoding)
	if err != nil {
		return nil, err
	}

	// BOMOverride honours a UTF-16 byte order mark when present and falls
	// back to the configured charset otherwise. UTF-8 input passes through
	// unchanged so rows with invalid bytes can be dropped below; the x/text
	// UTF-8 decoder would replace those bytes with U+FFFD instead.
	br := bufio.NewReader(r)
	var fallback transform.Transformer = enc.NewDecoder()
	validate := isUTF8(enc)
	if validate {
		if bom, _ := br.Peek(len(utf8BOM)); bytes.Equal(bom, utf8BOM) {
			_, _ = br.Discard(len(utf8BOM)) //nolint:errcheck // Peeked above
		}
		fallback = transform.Nop
	}
	decoded := transform.NewReader(br, unicode.BOMOverride(fallback))

	cr := csv.NewReader(decoded)
	cr.Comma = o.comma

	table := &Table{
		Rows:         make([]model.Record, 0),
		SkippedLines: make([]int, 0),
	}

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return table, nil
	}
	if err != nil {
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidHeader, err)
		}
		return nil, fmt.Errorf("%w: %w", model.ErrFileOpen, err)
	}
	table.Headers = header

	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if !errors.As(err, &pe) {
				return nil, fmt.Errorf("%w: %w", model.ErrFileOpen, err)
			}
			if o.strict {
				return nil, fmt.Errorf("%w at line %d: %w", model.ErrRowDecode, pe.StartLine, err)
			}
			table.Skipped++
			table.SkippedLines = append(table.SkippedLines, pe.StartLine)
			continue
		}
		if validate && !validUTF8(record) {
			line, _ := cr.FieldPos(0)
			if o.strict {
				return nil, fmt.Errorf("%w at line %d: %w", model.ErrRowDecode, line, ErrInvalidUTF8)
			}
			table.Skipped++
			table.SkippedLines = append(table.SkippedLines, line)
			continue
		}
		table.Rows = append(table.Rows, model.Record(record))
	}

	return table, nil
}

// isUTF8 reports whether enc is the UTF-8 encoding.
func isUTF8(enc encoding.Encoding) bool {
	name, err := htmlindex.Name(enc)
	return err == nil && name == "utf-8"
}

// validUTF8 reports whether every field of record is valid UTF-8.
func validUTF8(record []string) bool {
	for _, field := range record {
		if !utf8.ValidString(field) {
			return false
		}
	}
	return true
}
