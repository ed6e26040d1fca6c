// Package config provides configuration structures and utilities for patronsort.
// It defines the options for decoding the input CSV, choosing the report format
// and writing the report, plus the optional .patronsort YAML file.
package config
