package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/nao1215/csvinspect/internal/config"
	"github.com/nao1215/csvinspect/internal/dataset"
	"github.com/spf13/cobra"
)

// Process exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// Fixed messages for the two load failures.
const (
	msgFileNotFound = "\n❌ File not found! Please check the file path.\n"
	msgMalformed    = "\n❌ Error parsing the file! Please check the file format.\n"
)

// usageError marks an error caused by how the command was invoked.
type usageError struct {
	cmd *cobra.Command
	err error
}

func (e *usageError) Error() string { return e.err.Error() }

func (e *usageError) Unwrap() error { return e.err }

// newUsageError wraps err as a usage error of cmd.
func newUsageError(cmd *cobra.Command, err error) error {
	return &usageError{cmd: cmd, err: err}
}

// NewRootCmd creates the root command for csvinspect.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "csvinspect <file>",
		Short: "Profile, clean and chart a CSV file",
		Long: `csvinspect loads a delimited text file and prints a profile of it:
shape, column names, column types, missing values per column, duplicated
rows and descriptive statistics.

It can drop rows with missing values (--dropna), save the result next to
the input as <name>_cleaned.<ext> (--saveclean), and writes one histogram
per numeric column plus a bar chart of the first text column as PNG files.

Examples:
  # Profile a file and render charts into the current directory
  csvinspect sales.csv

  # Drop incomplete rows, profile again and save the cleaned file
  csvinspect sales.csv --dropna --saveclean

  # Print the profile as JSON and write charts to ./charts
  csvinspect sales.csv --json -o charts

  # Record the run in the history database
  csvinspect sales.csv --history

  # Profile a semicolon separated file and keep a copy of the report
  csvinspect export.csv -d ";" --report-file reports/export.txt

A file named like a subcommand (init, history, version) is read as that
subcommand. Give it with a path instead, for example ./history.

Configuration file (.csvinspect) example:
  na_values: ["", "NA", "null"]
  delimiter: ";"
  charts:
    dir: charts
    bins: 30
  history:
    enabled: true`,
		Version:       getVersion(),
		Args:          validateArgs,
		RunE:          runAnalyzeCmd,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Input flags
	cmd.Flags().StringP("delimiter", "d", config.DefaultDelimiter,
		`Field delimiter, a single character or \t for tab`)

	// Cleaning flags
	cmd.Flags().Bool("dropna", false,
		"Drop rows with missing values and profile the result again")
	cmd.Flags().Bool("saveclean", false,
		"Save the data as <name>_cleaned.<ext> next to the input file")

	// Chart flags
	cmd.Flags().StringP("chart-dir", "o", config.DefaultChartDir,
		"Directory chart images are written to (created if needed)")
	cmd.Flags().Int("bins", config.DefaultBins,
		"Number of histogram bins")
	cmd.Flags().Int("top", config.DefaultTopN,
		"Number of most frequent values in the bar chart")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .csvinspect in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output the profile as JSON (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output the profile as Markdown (mutually exclusive with --json)")
	cmd.Flags().String("report-file", "",
		"Also write the report to this file (created with mode 0600)")

	// Log flags
	cmd.Flags().String("log-format", config.LogFormatText,
		"Log output format: text or json")

	// History flag
	cmd.Flags().Bool("history", false,
		"Record the run in the history database")

	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return newUsageError(c, err)
	})

	// Add subcommands
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// validateArgs requires exactly one input file.
func validateArgs(cmd *cobra.Command, args []string) error {
	switch {
	case len(args) == 0:
		return newUsageError(cmd, config.ErrNoInput)
	case len(args) > 1:
		return newUsageError(cmd, fmt.Errorf("expected one input file, got %d arguments", len(args)))
	}
	return nil
}

// Execute runs the root command and exits with its status.
func Execute() {
	os.Exit(execute(NewRootCmd()))
}

// execute runs cmd and maps its error to an exit code.
// Messages for failures are written to the command's error stream.
func execute(cmd *cobra.Command) int {
	err := cmd.Execute()
	if err == nil {
		return exitOK
	}

	stderr := cmd.ErrOrStderr()
	var uerr *usageError
	switch {
	case errors.Is(err, dataset.ErrFileNotFound):
		fmt.Fprint(stderr, msgFileNotFound)
		return exitFailure
	case errors.Is(err, dataset.ErrMalformed):
		fmt.Fprint(stderr, msgMalformed)
		return exitFailure
	case errors.As(err, &uerr):
		fmt.Fprintf(stderr, "Error: %v\n\n%s", uerr.err, uerr.cmd.UsageString())
		return exitUsage
	}

	fmt.Fprintf(stderr, "Error: %v\n", err)
	return exitFailure
}
