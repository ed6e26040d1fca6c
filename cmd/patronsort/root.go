package main

import (
	"fmt"
	"os"

	"github.com/nao1215/patronsort/internal/config"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for patronsort.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patronsort",
		Short: "Sort active patrons from a CSV export by tier",
		Long: `patronsort reads a CSV export of patrons and writes a report of the
active ones, sorted by tier.

The CSV file must have a header row with the columns "Tier", "Patron Status"
and "Name". Only rows whose Patron Status is "Active Patron" are kept. Each
tier starts with a line of 27 dashes, followed by the names in that tier.

The report is written next to the input as <name>_sort.txt.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().String("log-format", config.DefaultLogFormat,
		"Log output format on stderr: text or json")
	cmd.PersistentFlags().String("data-dir", "",
		"Directory for the run history database (default: XDG data directory)")

	cmd.AddCommand(NewSortCmd())
	cmd.AddCommand(NewWatchCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
