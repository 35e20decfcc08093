package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/seantchan/cik-parser/internal/config"
	"github.com/seantchan/cik-parser/internal/database"
	"github.com/seantchan/cik-parser/internal/edgar"
	applog "github.com/seantchan/cik-parser/internal/log"
	"github.com/seantchan/cik-parser/internal/model"
	"github.com/seantchan/cik-parser/internal/pipeline"
	"github.com/seantchan/cik-parser/internal/report"
)

// Exit statuses. Each failure kind has its own status so scripts can tell a
// bad ticker from an EDGAR layout change.
const (
	exitOK              = 0
	exitFailure         = 1
	exitPageStructure   = 2
	exitInvalidDocument = 3
	exitCannotWrite     = 4
)

// NewRootCmd creates the root command for cikparser.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cikparser <ticker-or-cik> [output-stem]",
		Short: "Convert a fund's latest 13F-HR holdings report to a TSV file",
		Long: `cikparser looks up a fund on SEC EDGAR by ticker or CIK, finds its most
recent 13F-HR filing and writes the holdings information table as a
tab-separated text file named <output-stem>.txt (default: <ticker-or-cik>.txt).

The columns are taken from the holding that reports the most fields; holdings
that omit a field get "N/A " in that cell.

Examples:
  # Write BRK.txt
  cikparser BRK

  # Write berkshire.txt into ./reports using the CIK
  cikparser 0001067983 berkshire -d reports

  # Consistent placeholders, no trailing tab, plus a markdown summary
  cikparser BRK --normalize --summary BRK.md

Configuration file (.cikparser) example:
  user_agent: "Example Capital admin@example.com"
  requests_per_second: 5
  output_dir: reports
  history: true

Exit status:
  0  success
  1  network failure, unknown ticker/CIK or usage error
  2  unexpected EDGAR page structure
  3  malformed or empty holdings document
  4  output file could not be written`,
		Version:       getVersion(),
		Args:          cobra.RangeArgs(1, 2),
		RunE:          runConvertCmd,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .cikparser in current or home directory)")
	cmd.PersistentFlags().String("db-dir", config.XDGDataDir(),
		"Directory holding the history database")

	// EDGAR access flags
	cmd.Flags().String("user-agent", config.DefaultUserAgent,
		"User-Agent sent to EDGAR (SEC asks for a name and contact email)")
	cmd.Flags().String("base-url", config.DefaultBaseURL,
		"EDGAR site root")
	cmd.Flags().String("filing-type", config.DefaultFilingType,
		"Form type to look up")
	cmd.Flags().Int("filing-count", config.DefaultFilingCount,
		"Number of filings requested on the index page")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each request")
	cmd.Flags().Float64("rps", config.DefaultRequestsPerSecond,
		"Maximum requests per second to EDGAR (at most 10)")

	// Output flags
	cmd.Flags().StringP("output-dir", "d", "",
		"Directory to write the table to (created if needed)")
	cmd.Flags().Bool("normalize", false,
		`Write "N/A" without trailing space and no tab after the last value`)
	cmd.Flags().String("summary", "",
		"Write a summary of the run to this file")
	cmd.Flags().String("summary-format", config.DefaultSummaryFormat,
		"Summary format: simple, markdown or json")
	cmd.Flags().Bool("history", false,
		"Record the run in the history database")

	// Add subcommands
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command and returns the process exit status.
// It is the only place where errors are turned into messages.
func Execute() int {
	return execute(NewRootCmd(), os.Stderr)
}

// execute runs cmd and reports any error to stderr.
func execute(cmd *cobra.Command, stderr io.Writer) int {
	err := cmd.Execute()
	if err == nil {
		return exitOK
	}
	fmt.Fprintln(stderr, errorMessage(err))
	return exitCode(err)
}

// exitCode maps an error to the process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, model.ErrUnexpectedPageStructure):
		return exitPageStructure
	case errors.Is(err, model.ErrInvalidDocument):
		return exitInvalidDocument
	case errors.Is(err, model.ErrCannotWriteOutput):
		return exitCannotWrite
	default:
		// Transport failures, invalid identifiers and usage errors.
		return exitFailure
	}
}

// errorMessage formats err for the user.
func errorMessage(err error) string {
	var convErr *conversionError
	if errors.As(err, &convErr) && errors.Is(err, model.ErrInvalidIdentifier) {
		return "Invalid CIK: " + convErr.run.Identifier
	}
	return "Error: " + err.Error()
}

// conversionError ties a failed conversion to its run.
type conversionError struct {
	run *model.Run
	err error
}

// Error implements error.
func (e *conversionError) Error() string {
	return e.err.Error()
}

// Unwrap returns the underlying error.
func (e *conversionError) Unwrap() error {
	return e.err
}

// runConvertCmd executes the conversion.
func runConvertCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd, cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runConvert(ctx, cfg, cmd.OutOrStdout(), logger)
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

// setupLogger creates the redacting stderr logger.
func setupLogger(cmd *cobra.Command, verbose bool) *slog.Logger {
	jsonLogs, err := cmd.Flags().GetBool("log-json")
	if err == nil && jsonLogs {
		return applog.NewSecureJSONLogger(cmd.ErrOrStderr(), verbose)
	}
	return applog.NewSecureLogger(cmd.ErrOrStderr(), verbose)
}

// buildConfig creates a Config from defaults, the configuration file and
// the flags the user set, in increasing precedence.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Identifier = args[0]
	if len(args) > 1 {
		cfg.OutputStem = args[1]
	}
	cfg.Verbose = getVerboseFlag(cmd)

	var err error
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// An explicitly given config file must exist; the default locations are optional.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		file.Apply(cfg)
	case cfg.ConfigFilePath != "":
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyFlags copies every flag the user set onto cfg.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	var err error

	if flags.Changed("user-agent") {
		if cfg.UserAgent, err = flags.GetString("user-agent"); err != nil {
			return err
		}
	}
	if flags.Changed("base-url") {
		if cfg.BaseURL, err = flags.GetString("base-url"); err != nil {
			return err
		}
	}
	if flags.Changed("filing-type") {
		if cfg.FilingType, err = flags.GetString("filing-type"); err != nil {
			return err
		}
	}
	if flags.Changed("filing-count") {
		if cfg.FilingCount, err = flags.GetInt("filing-count"); err != nil {
			return err
		}
	}
	if flags.Changed("timeout") {
		if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return err
		}
	}
	if flags.Changed("rps") {
		if cfg.RequestsPerSecond, err = flags.GetFloat64("rps"); err != nil {
			return err
		}
	}
	if flags.Changed("output-dir") {
		if cfg.OutputDir, err = flags.GetString("output-dir"); err != nil {
			return err
		}
	}
	if flags.Changed("summary") {
		if cfg.SummaryFile, err = flags.GetString("summary"); err != nil {
			return err
		}
	}
	if flags.Changed("summary-format") {
		if cfg.SummaryFormat, err = flags.GetString("summary-format"); err != nil {
			return err
		}
	}
	if flags.Changed("db-dir") {
		if cfg.DBDir, err = flags.GetString("db-dir"); err != nil {
			return err
		}
	}
	if flags.Changed("history") {
		if cfg.SaveHistory, err = flags.GetBool("history"); err != nil {
			return err
		}
	}

	normalize, err := flags.GetBool("normalize")
	if err != nil {
		return err
	}
	if normalize {
		cfg.Normalize()
	}
	return nil
}

// runConvert executes one conversion and its optional summary and history.
func runConvert(ctx context.Context, cfg *config.Config, stdout io.Writer, logger *slog.Logger) error {
	client := edgar.NewClient(cfg.BaseURL, cfg.Timeout,
		edgar.WithUserAgent(cfg.UserAgent),
		edgar.WithRateLimit(cfg.RequestsPerSecond),
		edgar.WithLogger(logger),
	)

	p := pipeline.DefaultPipeline(client, pipeline.Settings{
		BaseURL:           cfg.BaseURL,
		FilingType:        cfg.FilingType,
		FilingCount:       cfg.FilingCount,
		Placeholder:       cfg.Placeholder,
		TrailingSeparator: cfg.TrailingSeparator,
		Notice:            stdout,
	}, pipeline.WithLogger(logger))

	run := model.NewRun(cfg.Identifier, cfg.OutputPath())
	logger.Info("starting conversion",
		"identifier", run.Identifier,
		"output", run.OutputPath,
		"user_agent", cfg.UserAgent,
	)

	runErr := p.Execute(ctx, run)

	if cfg.SummaryFile != "" {
		if err := report.WriteSummaryFile(cfg.SummaryFile, run, report.Format(cfg.SummaryFormat)); err != nil {
			logger.Error("failed to write summary", "path", cfg.SummaryFile, "format", cfg.SummaryFormat, "error", err)
		}
	}

	if cfg.SaveHistory {
		saveRun(ctx, cfg.DBDir, run, logger)
	}

	if runErr != nil {
		return &conversionError{run: run, err: runErr}
	}

	fmt.Fprintln(stdout, "Done")
	return nil
}

// saveRun records run in the history database. Failures are logged only;
// they never change the outcome of the conversion.
func saveRun(ctx context.Context, dbDir string, run *model.Run, logger *slog.Logger) {
	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		logger.Error("failed to open history database", "dir", dbDir, "error", err)
		return
	}
	defer db.Close()

	// The conversion context may already be cancelled; the record is still wanted.
	id, err := db.SaveRun(context.WithoutCancel(ctx), run)
	if err != nil {
		logger.Error("failed to save run", "identifier", run.Identifier, "error", err)
		return
	}
	logger.Debug("run saved", "id", id, "db", db.Path())
}
