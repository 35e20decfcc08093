package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/seantchan/cik-parser/internal/config"
	"github.com/seantchan/cik-parser/internal/database"
	"github.com/seantchan/cik-parser/internal/model"
	"github.com/seantchan/cik-parser/internal/report"
)

// defaultHistoryLimit is how many runs history shows without -n.
const defaultHistoryLimit = 20

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [ticker-or-cik]",
		Short: "List recorded conversion runs",
		Long: `History lists the runs recorded with --history (or "history: true" in the
configuration file), most recent first.

Examples:
  # Show the last 20 runs
  cikparser history

  # Show every run for one fund as markdown
  cikparser history BRK -n 0 --markdown`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", defaultHistoryLimit,
		"Maximum number of runs to show (0 for all)")
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown (mutually exclusive with --json)")
	cmd.MarkFlagsMutuallyExclusive("json", "markdown")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}

	format, err := historyFormat(cmd)
	if err != nil {
		return err
	}

	dbDir, err := getDBDirFlag(cmd)
	if err != nil {
		return err
	}

	db, err := database.Open(dbDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if errors.Is(err, database.ErrNotFound) {
		fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded. Use --history to record conversions.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer db.Close()

	var runs []*model.Run
	if len(args) == 1 {
		runs, err = db.RunsForIdentifier(cmd.Context(), args[0])
		if err == nil && limit > 0 && len(runs) > limit {
			runs = runs[:limit]
		}
	} else {
		runs, err = db.ListRuns(cmd.Context(), limit)
	}
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}

	w, err := report.NewWriter(format, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	_, err = w.WriteHistory(runs)
	return err
}

// getDBDirFlag retrieves the history directory from the command or its parent.
func getDBDirFlag(cmd *cobra.Command) (string, error) {
	dir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		dir, err = cmd.Root().PersistentFlags().GetString("db-dir")
		if err != nil {
			return config.XDGDataDir(), nil
		}
	}
	return dir, nil
}

// historyFormat returns the output format selected by flags.
func historyFormat(cmd *cobra.Command) (report.Format, error) {
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return "", err
	}
	asMarkdown, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return "", err
	}

	switch {
	case asJSON:
		return report.FormatJSON, nil
	case asMarkdown:
		return report.FormatMarkdown, nil
	default:
		return report.FormatSimple, nil
	}
}
