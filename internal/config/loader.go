package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".patronsort"

// xdgConfigFile is the file name looked up inside XDGConfigDir.
const xdgConfigFile = "config.yaml"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// LoadConfigFile loads per-file settings from a YAML file.
// A missing file yields ErrConfigNotFound; the caller decides whether that
// matters, depending on whether the path was given explicitly.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}

	if cf.Files == nil {
		cf.Files = make(map[string]FileConfig)
	}

	if err := cf.validate(); err != nil {
		return nil, err
	}

	return &cf, nil
}

// validate rejects unknown report formats early, so a typo in the file is
// reported once at load time rather than on the first matching CSV.
func (cf *File) validate() error {
	check := func(where string, fc FileConfig) error {
		switch fc.Format {
		case "", FormatText, FormatMarkdown, FormatJSON:
			return nil
		default:
			return fmt.Errorf("%s: %w", where, ErrInvalidFormat)
		}
	}

	if err := check("defaults", cf.Defaults); err != nil {
		return err
	}
	for name, fc := range cf.Files {
		if err := check("files."+name, fc); err != nil {
			return err
		}
	}
	return nil
}

// FindConfigFile searches for the configuration file in the following order:
//  1. configPath, if given
//  2. .patronsort in the current directory
//  3. .patronsort in the user's home directory
//  4. config.yaml in the XDG config directory
//
// It returns the first path that exists, or "" if none does.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if fileExists(configPath) {
			return configPath
		}
		return ""
	}

	candidates := make([]string, 0, 3)
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}
	candidates = append(candidates, filepath.Join(XDGConfigDir(), xdgConfigFile))

	for _, candidate := range candidates {
		if fileExists(candidate) {
			return candidate
		}
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
