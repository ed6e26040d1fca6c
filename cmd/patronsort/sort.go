package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/nao1215/patronsort/internal/config"
	"github.com/nao1215/patronsort/internal/database"
	"github.com/nao1215/patronsort/internal/model"
	"github.com/nao1215/patronsort/internal/pipeline"
	"github.com/spf13/cobra"
)

// NewSortCmd creates the sort command.
func NewSortCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sort <file.csv>",
		Short: "Write the tier report for a CSV file",
		Long: `Sort reads a CSV file of patrons and writes the report of active patrons
grouped by tier.

Rows are kept when their "Patron Status" is "Active Patron" (ignoring case and
surrounding spaces). They are sorted by "Tier" without reordering rows of the
same tier, and each tier starts with a line of 27 dashes.

Rows that cannot be decoded are skipped unless --strict is given. A missing
"Tier", "Patron Status" or "Name" column is an error and nothing is written.

Examples:
  # Write patrons_sort.txt next to patrons.csv
  patronsort sort patrons.csv

  # Markdown report to a chosen path
  patronsort sort -f markdown -o report.md patrons.csv

  # Semicolon separated export in a legacy charset
  patronsort sort -d ';' -E windows-1252 patrons.csv

Configuration file (.patronsort) example:
  defaults:
    format: text
  files:
    members.csv:
      encoding: windows-1252
      delimiter: ";"`,
		Args: cobra.ExactArgs(1),
		RunE: runSortCmd,
	}

	addRunFlags(cmd)

	return cmd
}

// runSortCmd executes the sort command.
func runSortCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cfg)

	ctx, stop := signalContext(cmd)
	defer stop()

	return runSort(ctx, cfg, logger, cmd.OutOrStdout())
}

// runSort performs one run and prints its status. A failed run returns its
// error, which the root command prints as "Error: <details>".
func runSort(ctx context.Context, cfg *config.Config, logger *slog.Logger, out io.Writer) error {
	history := openHistory(cfg, logger)
	if history != nil {
		defer history.Close()
	}

	session := pipeline.NewSession(newPipeline(cfg, logger, out), cfg.Format)
	run, status := session.Process(ctx, cfg.InputPath)
	recordRun(ctx, history, run, logger)

	if !run.Succeeded() {
		return run.Error
	}

	fmt.Fprintln(out, status.String())
	return nil
}

// newPipeline builds the default pipeline for cfg. With PrintReport set the
// text report is also written to out.
func newPipeline(cfg *config.Config, logger *slog.Logger, out io.Writer) *pipeline.Pipeline {
	var extra []pipeline.WriteStepOption
	if cfg.PrintReport {
		extra = append(extra, pipeline.WithEcho(out))
	}
	return pipeline.DefaultPipeline(cfg, logger, extra...)
}

// openHistory opens the run history database, or returns nil when history
// is disabled or unavailable. History problems never fail a run.
func openHistory(cfg *config.Config, logger *slog.Logger) *database.HistoryDB {
	if !cfg.SaveHistory {
		return nil
	}

	db, err := database.Open(cfg.DataDir, database.DefaultOptions())
	if err != nil {
		logger.Warn("failed to open history database", "dir", cfg.DataDir, "error", err)
		return nil
	}
	logger.Debug("history database opened", "path", db.Path())
	return db
}

// recordRun saves run to history when a database is open.
func recordRun(ctx context.Context, db *database.HistoryDB, run *model.Run, logger *slog.Logger) {
	if db == nil {
		return
	}

	// An interrupted run is still recorded.
	if err := db.SaveRun(context.WithoutCancel(ctx), run); err != nil {
		logger.Warn("failed to save run", "run", run.ID, "error", err)
	}
}
