package config

// FileConfig holds settings for one CSV file, or the defaults for all files.
// Pointer fields distinguish "not set" from false.
type FileConfig struct {
	// Format is the report format (text, markdown, json).
	Format string `yaml:"format,omitempty"`

	// Encoding is the input charset.
	Encoding string `yaml:"encoding,omitempty"`

	// Delimiter is the CSV field separator.
	Delimiter string `yaml:"delimiter,omitempty"`

	// Strict fails the run on the first malformed row.
	Strict *bool `yaml:"strict,omitempty"`

	// Atomic writes the report through a temporary file.
	Atomic *bool `yaml:"atomic,omitempty"`
}

// File represents the structure of the .patronsort configuration file.
type File struct {
	// Files maps CSV base names (e.g. "members.csv") to their settings.
	Files map[string]FileConfig `yaml:"files,omitempty"`

	// Defaults applies to every file unless overridden in Files.
	Defaults FileConfig `yaml:"defaults,omitempty"`
}

// GetFileConfig returns the settings for a CSV base name, merged over the
// defaults.
func (cf *File) GetFileConfig(name string) FileConfig {
	result := cf.Defaults

	override, ok := cf.Files[name]
	if !ok {
		return result
	}

	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Encoding != "" {
		result.Encoding = override.Encoding
	}
	if override.Delimiter != "" {
		result.Delimiter = override.Delimiter
	}
	if override.Strict != nil {
		result.Strict = override.Strict
	}
	if override.Atomic != nil {
		result.Atomic = override.Atomic
	}

	return result
}
