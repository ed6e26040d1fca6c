package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nao1215/patronsort/internal/database"
	"github.com/spf13/cobra"
)

// defaultHistoryLimit is how many runs history lists by default.
const defaultHistoryLimit = 20

// noHistoryMessage is printed when nothing has been recorded.
const noHistoryMessage = "No runs recorded yet."

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show previous runs",
		Long: `History lists previous sort and watch runs, newest first.

Each run records the input file, the report path, the status message and row
counts. Patron names are never recorded.

Examples:
  # Last 20 runs
  patronsort history

  # Status of the most recent run
  patronsort history --last

  # One run, by the id or id prefix shown in the list
  patronsort history --id 3f2a9c1e

  # All runs as JSON
  patronsort history -n 0 --json`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", defaultHistoryLimit,
		"Maximum number of runs to list (0 lists all)")
	cmd.Flags().BoolP("json", "j", false,
		"Output runs as JSON")
	cmd.Flags().Bool("last", false,
		"Show only the status of the most recent run")
	cmd.Flags().String("id", "",
		"Show one run by id or unique id prefix")
	cmd.Flags().Bool("clear", false,
		"Delete all recorded runs")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	last, err := cmd.Flags().GetBool("last")
	if err != nil {
		return err
	}
	clearAll, err := cmd.Flags().GetBool("clear")
	if err != nil {
		return err
	}
	id, err := cmd.Flags().GetString("id")
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	dataDir := getDataDir(cmd)

	// Reading history never creates the database.
	if _, err := os.Stat(filepath.Join(dataDir, database.FileName)); errors.Is(err, os.ErrNotExist) {
		if id != "" {
			return fmt.Errorf("%w: %s", database.ErrRunNotFound, id)
		}
		fmt.Fprintln(out, noHistoryMessage)
		return nil
	}

	opts := database.DefaultOptions()
	opts.CreateIfNotExists = false
	db, err := database.Open(dataDir, opts)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	switch {
	case clearAll:
		n, err := db.ClearRuns(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Deleted %d run(s)\n", n)
		return nil
	case id != "":
		return showRun(ctx, db, out, id, asJSON)
	case last:
		return showLastRun(ctx, db, out, asJSON)
	default:
		return listRuns(ctx, db, out, limit, asJSON)
	}
}

// showLastRun prints the status of the most recent run.
func showLastRun(ctx context.Context, db *database.HistoryDB, out io.Writer, asJSON bool) error {
	rec, err := db.LastRun(ctx)
	if err != nil {
		return err
	}
	if rec == nil {
		fmt.Fprintln(out, noHistoryMessage)
		return nil
	}

	if asJSON {
		return writeJSON(out, rec)
	}

	fmt.Fprintf(out, "%s (%s)\n", rec.Timestamp.Local().Format("2006-01-02 15:04:05"), rec.InputPath)
	fmt.Fprintln(out, rec.Status().String())
	return nil
}

// showRun prints every recorded detail of one run.
func showRun(ctx context.Context, db *database.HistoryDB, out io.Writer, id string, asJSON bool) error {
	rec, err := db.GetRun(ctx, id)
	if err != nil {
		return err
	}

	if asJSON {
		return writeJSON(out, rec)
	}

	fmt.Fprintf(out, "Run:      %s\n", rec.ID)
	fmt.Fprintf(out, "Date:     %s\n", rec.Timestamp.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "Input:    %s\n", rec.InputPath)
	fmt.Fprintf(out, "Format:   %s\n", rec.Format)
	fmt.Fprintf(out, "Rows:     %d read, %d skipped, %d active in %d tier(s)\n",
		rec.RowsRead, rec.RowsSkipped, rec.RowsMatched, rec.Groups)
	fmt.Fprintf(out, "Duration: %s\n", rec.Duration)
	fmt.Fprintln(out, rec.Status().String())
	return nil
}

// listRuns prints recorded runs as a table, newest first.
func listRuns(ctx context.Context, db *database.HistoryDB, out io.Writer, limit int, asJSON bool) error {
	runs, err := db.ListRuns(ctx, limit)
	if err != nil {
		return err
	}

	if asJSON {
		return writeJSON(out, runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(out, noHistoryMessage)
		return nil
	}

	fmt.Fprintf(out, "Run history (%d runs):\n\n", len(runs))
	fmt.Fprintf(out, "  %-8s  %-19s  %-6s  %-7s  %s\n", "ID", "Date", "Result", "Active", "File")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 70))

	for _, rec := range runs {
		result := "ok"
		detail := rec.InputPath + " -> " + rec.OutputPath
		if !rec.Success {
			result = "failed"
			detail = rec.InputPath + ": " + strings.TrimPrefix(rec.Message, "Error: ")
		}
		fmt.Fprintf(out, "  %-8s  %-19s  %-6s  %-7d  %s\n",
			shortID(rec.ID),
			rec.Timestamp.Local().Format("2006-01-02 15:04:05"),
			result,
			rec.RowsMatched,
			detail,
		)
	}

	return nil
}

// shortID abbreviates a run id for table output.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
