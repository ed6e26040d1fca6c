package config

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"golang.org/x/text/encoding/htmlindex"
)

// Report formats.
const (
	// FormatText is the plain text report with dashed separators.
	FormatText = "text"

	// FormatMarkdown is a Markdown report with one section per tier.
	FormatMarkdown = "markdown"

	// FormatJSON is the grouped report serialized as JSON.
	FormatJSON = "json"
)

// Log output formats.
const (
	// LogFormatText is slog's key=value text output.
	LogFormatText = "text"

	// LogFormatJSON is one JSON object per log line.
	LogFormatJSON = "json"
)

// Default configuration values.
const (
	// DefaultFormat keeps the plain text report, whose output path is
	// "<stem>_sort.txt".
	DefaultFormat = FormatText

	// DefaultEncoding is the input charset. Files with a UTF-8 BOM are
	// handled regardless of this value.
	DefaultEncoding = "utf-8"

	// DefaultLogFormat is the log output format.
	DefaultLogFormat = LogFormatText

	// DefaultDelimiter is the CSV field separator.
	DefaultDelimiter = ","

	// DefaultDebounce is how long the watch command waits after the last
	// change event before rerunning. Spreadsheet tools often save in
	// several writes.
	DefaultDebounce = 200 * time.Millisecond

	// AppName is the application name used for XDG directory paths.
	AppName = "patronsort"
)

// Config holds all configuration options for patronsort.
// It is populated from CLI flags, with per-file values from the config
// file applied first, and passed down explicitly rather than kept global.
type Config struct {
	// InputPath is the CSV file to process.
	InputPath string

	// OutputPath overrides the derived "<stem>_sort.<ext>" report path.
	OutputPath string

	// Format is the report format: text, markdown or json.
	Format string

	// Strict makes a malformed data row fail the run instead of being
	// dropped.
	Strict bool

	// Atomic writes the report to a temporary file in the target directory
	// and renames it into place, so a failed write never leaves a partial
	// report behind.
	Atomic bool

	// Encoding is the input charset name (WHATWG label, e.g. windows-1252).
	Encoding string

	// Delimiter is the CSV field separator. Only its first rune is used.
	Delimiter string

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .patronsort in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// FileConfigs holds per-file configurations loaded from the config file.
	FileConfigs *File

	// DataDir is where the run history database lives.
	// Defaults to the XDG data directory.
	DataDir string

	// SaveHistory records each run in the history database.
	SaveHistory bool

	// Verbose enables debug logging.
	Verbose bool

	// LogFormat is the log output format: text or json.
	LogFormat string

	// PrintReport also prints the plain text report to standard output,
	// whatever Format the file is written in.
	PrintReport bool

	// Debounce is the quiet period the watch command waits for.
	Debounce time.Duration
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Format:      DefaultFormat,
		Atomic:      true,
		Encoding:    DefaultEncoding,
		Delimiter:   DefaultDelimiter,
		DataDir:     XDGDataDir(),
		SaveHistory: true,
		LogFormat:   DefaultLogFormat,
		Debounce:    DefaultDebounce,
	}
}

// Comma returns the delimiter as a rune, or ',' when unset.
func (c *Config) Comma() rune {
	for _, r := range c.Delimiter {
		return r
	}
	return ','
}

// ApplyFileConfig overlays the config-file settings for the current input.
// It is called before command line flags are applied, so flags win.
func (c *Config) ApplyFileConfig() {
	if c.FileConfigs == nil {
		return
	}
	fc := c.FileConfigs.GetFileConfig(filepath.Base(c.InputPath))

	if fc.Format != "" {
		c.Format = fc.Format
	}
	if fc.Encoding != "" {
		c.Encoding = fc.Encoding
	}
	if fc.Delimiter != "" {
		c.Delimiter = fc.Delimiter
	}
	if fc.Strict != nil {
		c.Strict = *fc.Strict
	}
	if fc.Atomic != nil {
		c.Atomic = *fc.Atomic
	}
}

// XDGDataDir returns the XDG data directory for patronsort.
// On Linux: ~/.local/share/patronsort
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for patronsort.
// On Linux: ~/.config/patronsort
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found as a sentinel error.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.InputPath) == "" {
		return ErrNoInput
	}

	switch c.Format {
	case FormatText, FormatMarkdown, FormatJSON:
	default:
		return ErrInvalidFormat
	}

	if c.Encoding != "" {
		if _, err := htmlindex.Get(c.Encoding); err != nil {
			return ErrUnknownEncoding
		}
	}

	if len([]rune(c.Delimiter)) > 1 || c.Delimiter == "\n" || c.Delimiter == "\r" || c.Delimiter == "\"" {
		return ErrInvalidDelimiter
	}

	if c.Debounce < 0 {
		return ErrInvalidDebounce
	}

	switch c.LogFormat {
	case "", LogFormatText, LogFormatJSON:
	default:
		return ErrInvalidLogFormat
	}

	return nil
}
