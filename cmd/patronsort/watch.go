package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/nao1215/patronsort/internal/config"
	"github.com/nao1215/patronsort/internal/pipeline"
	"github.com/spf13/cobra"
)

// NewWatchCmd creates the watch command.
func NewWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <file.csv>",
		Short: "Rewrite the tier report whenever a CSV file changes",
		Long: `Watch writes the report once, then writes it again every time the CSV file
is saved, until interrupted with Ctrl+C.

Runs never overlap. Bursts of change events, such as a spreadsheet saving in
several writes, are collapsed into a single run after --debounce of quiet.
A failed run prints its error and watching continues.

Examples:
  patronsort watch patrons.csv
  patronsort watch --debounce 1s -f markdown patrons.csv`,
		Args: cobra.ExactArgs(1),
		RunE: runWatchCmd,
	}

	addRunFlags(cmd)
	cmd.Flags().Duration("debounce", config.DefaultDebounce,
		"Quiet period after the last change before rerunning")

	return cmd
}

// runWatchCmd executes the watch command.
func runWatchCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	cfg.Debounce, err = cmd.Flags().GetDuration("debounce")
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cfg)

	ctx, stop := signalContext(cmd)
	defer stop()

	return runWatch(ctx, cfg, logger, cmd.OutOrStdout())
}

// runWatch runs the pipeline now and after each change to the input file.
// It returns nil when ctx is cancelled.
//
// The parent directory is watched rather than the file itself, because
// editors often replace a file by renaming a new one over it, which ends a
// watch on the old inode.
func runWatch(ctx context.Context, cfg *config.Config, logger *slog.Logger, out io.Writer) error {
	target, err := filepath.Abs(cfg.InputPath)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", cfg.InputPath, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(target), err)
	}

	history := openHistory(cfg, logger)
	if history != nil {
		defer history.Close()
	}

	session := pipeline.NewSession(newPipeline(cfg, logger, out), cfg.Format)
	runOnce := func() {
		run, status := session.Process(ctx, cfg.InputPath)
		recordRun(ctx, history, run, logger)
		fmt.Fprintln(out, status.String())
	}

	runOnce()
	fmt.Fprintf(out, "Watching %s for changes (Ctrl+C to stop)\n", cfg.InputPath)

	// The debounce timer only signals; runs happen on this goroutine so they
	// stay serial.
	trigger := make(chan struct{}, 1)
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			logger.Debug("watch stopped", "input", cfg.InputPath)
			fmt.Fprintf(out, "Stopped watching %s. Last run: %s\n", cfg.InputPath, session.LastStatus().Message)
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			logger.Debug("input changed", "input", cfg.InputPath, "op", event.Op.String())
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(cfg.Debounce, func() {
				select {
				case trigger <- struct{}{}:
				default:
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("file watcher error", "error", err)

		case <-trigger:
			runOnce()
		}
	}
}
