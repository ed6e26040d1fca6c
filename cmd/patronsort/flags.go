package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nao1215/patronsort/internal/config"
	"github.com/nao1215/patronsort/internal/log"
	"github.com/spf13/cobra"
)

// addRunFlags registers the flags shared by sort and watch.
func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", "",
		"Write the report to this path instead of <name>_sort.<ext> next to the input")
	cmd.Flags().StringP("format", "f", config.DefaultFormat,
		"Report format: text, markdown or json")
	cmd.Flags().StringP("encoding", "E", config.DefaultEncoding,
		"Input charset, e.g. utf-8, windows-1252, shift_jis")
	cmd.Flags().StringP("delimiter", "d", config.DefaultDelimiter,
		"CSV field delimiter")
	cmd.Flags().Bool("strict", false,
		"Fail on the first malformed row instead of skipping it")
	cmd.Flags().Bool("no-atomic", false,
		"Write the report in place instead of through a temporary file")
	cmd.Flags().BoolP("print", "p", false,
		"Also print the text report to stdout after writing it")
	cmd.Flags().Bool("no-history", false,
		"Do not record the run in the history database")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .patronsort in current or home directory)")
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// getLogFormat returns the --log-format flag from the command or its parent.
func getLogFormat(cmd *cobra.Command) string {
	format, err := cmd.Flags().GetString("log-format")
	if err != nil {
		format, err = cmd.Root().PersistentFlags().GetString("log-format")
		if err != nil {
			return config.DefaultLogFormat
		}
	}
	return format
}

// getDataDir returns the --data-dir flag, or the XDG data directory.
func getDataDir(cmd *cobra.Command) string {
	dir, err := cmd.Flags().GetString("data-dir")
	if err != nil {
		dir, err = cmd.Root().PersistentFlags().GetString("data-dir")
		if err != nil {
			dir = ""
		}
	}
	if dir == "" {
		return config.XDGDataDir()
	}
	return dir
}

// buildConfig creates a Config for the CSV file in args.
//
// Values are layered: built-in defaults, then the config file entry for the
// CSV file name, then flags the user set explicitly.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	if len(args) > 0 {
		cfg.InputPath = args[0]
	}
	cfg.Verbose = getVerboseFlag(cmd)
	cfg.DataDir = getDataDir(cmd)
	cfg.LogFormat = getLogFormat(cmd)

	flags := cmd.Flags()

	var err error
	cfg.ConfigFilePath, err = flags.GetString("config")
	if err != nil {
		return nil, err
	}

	// An explicitly given config file must exist; otherwise a missing file
	// just means there are no per-file settings.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	if configPath != "" {
		cfg.FileConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cfg.ApplyFileConfig()
	} else if explicitConfigPath {
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	cfg.OutputPath, err = flags.GetString("output")
	if err != nil {
		return nil, err
	}

	if flags.Changed("format") {
		if cfg.Format, err = flags.GetString("format"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("encoding") {
		if cfg.Encoding, err = flags.GetString("encoding"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("delimiter") {
		if cfg.Delimiter, err = flags.GetString("delimiter"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("strict") {
		if cfg.Strict, err = flags.GetBool("strict"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("no-atomic") {
		noAtomic, err := flags.GetBool("no-atomic")
		if err != nil {
			return nil, err
		}
		cfg.Atomic = !noAtomic
	}
	if flags.Changed("print") {
		if cfg.PrintReport, err = flags.GetBool("print"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("no-history") {
		noHistory, err := flags.GetBool("no-history")
		if err != nil {
			return nil, err
		}
		cfg.SaveHistory = !noHistory
	}

	return cfg, nil
}

// setupLogger creates the structured logger for a command on stderr.
func setupLogger(cfg *config.Config) *slog.Logger {
	return newLogger(os.Stderr, cfg.LogFormat, cfg.Verbose)
}

// newLogger returns a JSON or text logger writing to w. Attributes that could
// carry patron data are redacted in both formats.
func newLogger(w io.Writer, format string, verbose bool) *slog.Logger {
	if format == config.LogFormatJSON {
		return log.NewSecureJSONLogger(w, verbose)
	}
	return log.NewSecureLogger(w, verbose)
}

// signalContext returns a context cancelled on interrupt or SIGTERM.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
