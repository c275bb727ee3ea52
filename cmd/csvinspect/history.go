package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/nao1215/csvinspect/internal/config"
	"github.com/nao1215/csvinspect/internal/database"
	"github.com/nao1215/csvinspect/internal/report"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
)

// historyTimeLayout formats run timestamps in listings.
const historyTimeLayout = "2006-01-02 15:04:05"

// NewHistoryCmd creates the history command.
// This command lists runs recorded with --history.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [file]",
		Short: "List recorded runs",
		Long: `History lists the runs recorded in the history database.

Runs are recorded when csvinspect is started with --history, with
"history.enabled: true" in the configuration file, or with
CSVINSPECT_HISTORY=true. Each run stores the shape of the data before and
after cleaning, missing and duplicated counts, the generated files and a
fingerprint of the file contents. Runs whose file contents differ from the
previous run are marked as changed.

Examples:
  # List the runs of a file, newest first
  csvinspect history sales.csv

  # List every file with recorded runs
  csvinspect history --list-files

  # Print the runs of a file as JSON
  csvinspect history --json sales.csv

  # Show one run with its stored profile
  csvinspect history --run 3f2b9c4e-8d1a-4c55-9e0f-6b7a2d1c0e94`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().BoolP("list-files", "L", false,
		"List all files with recorded runs")
	cmd.Flags().BoolP("json", "j", false,
		"Output records in JSON format")
	cmd.Flags().StringP("run", "r", "",
		"Show the run with this ID")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	listFiles, err := cmd.Flags().GetBool("list-files")
	if err != nil {
		return err
	}
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	runID, err := cmd.Flags().GetString("run")
	if err != nil {
		return err
	}

	// Validate arguments before opening the database
	var id uuid.UUID
	switch {
	case runID != "":
		if listFiles || len(args) > 0 {
			return newUsageError(cmd, errors.New("--run cannot be combined with a file or --list-files"))
		}
		if id, err = uuid.Parse(runID); err != nil {
			return newUsageError(cmd, fmt.Errorf("invalid run ID %q: %w", runID, err))
		}
	case !listFiles && len(args) == 0:
		return newUsageError(cmd, errors.New("file path is required (use --list-files to see recorded files)"))
	}

	dbDir, err := historyDir()
	if err != nil {
		return newUsageError(cmd, err)
	}

	out := cmd.OutOrStdout()
	db, err := database.Open(dbDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintln(out, "No runs recorded yet.")
			fmt.Fprintln(out, "\nUse 'csvinspect <file> --history' to record a run.")
			return nil
		}
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()
	switch {
	case runID != "":
		return showRun(ctx, out, db, id, jsonOutput)
	case listFiles:
		return listRecordedFiles(ctx, out, db, jsonOutput)
	}
	return listFileRuns(ctx, out, db, args[0], jsonOutput)
}

// historyDir resolves the database directory from the configuration file
// and the environment.
func historyDir() (string, error) {
	cfg := config.NewConfig()
	if path := config.FindConfigFile(""); path != "" {
		cf, err := config.LoadConfigFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to load config file %s: %w", path, err)
		}
		cf.Apply(cfg)
	}

	lookup, err := config.NewLookup(config.DefaultEnvFile)
	if err != nil {
		return "", err
	}
	if err := config.ApplyEnv(cfg, lookup); err != nil {
		return "", err
	}
	return cfg.HistoryDir(), nil
}

// listRecordedFiles lists every file with recorded runs.
func listRecordedFiles(ctx context.Context, out io.Writer, db *database.HistoryDB, jsonOutput bool) error {
	files, err := db.ListFiles(ctx)
	if err != nil {
		return err
	}

	if jsonOutput {
		if files == nil {
			files = []database.FileSummary{}
		}
		return writeJSON(out, files)
	}

	if len(files) == 0 {
		fmt.Fprintln(out, "No runs recorded yet.")
		return nil
	}

	fmt.Fprintf(out, "Recorded files (%d):\n\n", len(files))
	rows := make([][]string, 0, len(files))
	for _, f := range files {
		rows = append(rows, []string{
			f.SourcePath,
			strconv.Itoa(f.Runs),
			f.LastRun.Local().Format(historyTimeLayout),
		})
	}
	if err := renderTable(out, []any{"File", "Runs", "Last Run"}, rows); err != nil {
		return err
	}
	fmt.Fprintln(out, "\nUse 'csvinspect history <file>' to see the runs of a file.")
	return nil
}

// listFileRuns lists the runs of one file, newest first.
func listFileRuns(ctx context.Context, out io.Writer, db *database.HistoryDB, path string, jsonOutput bool) error {
	runs, err := db.ListRuns(ctx, path)
	if err != nil {
		return err
	}

	if jsonOutput {
		if runs == nil {
			runs = []database.RunRecord{}
		}
		return writeJSON(out, runs)
	}

	if len(runs) == 0 {
		fmt.Fprintf(out, "No runs recorded for %s\n", path)
		return nil
	}

	fmt.Fprintf(out, "Run history for %s (%d runs):\n\n", runs[0].SourcePath, len(runs))
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		changed := ""
		if r.Changed {
			changed = "yes"
		}
		rows = append(rows, []string{
			r.ID.String(),
			r.StartedAt.Local().Format(historyTimeLayout),
			fmt.Sprintf("%d x %d", r.RowsLoaded, r.Columns),
			strconv.Itoa(r.MissingCells),
			strconv.Itoa(r.DuplicateRows),
			strconv.Itoa(r.DroppedRows),
			changed,
		})
	}
	return renderTable(out,
		[]any{"Run", "Date", "Shape", "Missing", "Duplicates", "Dropped", "Changed"}, rows)
}

// showRun prints one run followed by the profile stored with it.
func showRun(ctx context.Context, out io.Writer, db *database.HistoryDB, id uuid.UUID, jsonOutput bool) error {
	run, err := db.GetRun(ctx, id)
	if err != nil {
		return err
	}

	if jsonOutput {
		return writeJSON(out, run)
	}

	cleaned := run.CleanedPath
	if cleaned == "" {
		cleaned = "-"
	}
	charts := strings.Join(run.Charts, ", ")
	if charts == "" {
		charts = "-"
	}

	fmt.Fprintf(out, "Run %s:\n\n", run.ID)
	rows := [][]string{
		{"File", run.SourcePath},
		{"Date", run.StartedAt.Local().Format(historyTimeLayout)},
		{"Fingerprint", run.Fingerprint},
		{"Shape", fmt.Sprintf("%d x %d", run.RowsLoaded, run.Columns)},
		{"Rows after cleaning", strconv.Itoa(run.RowsFinal)},
		{"Missing", strconv.Itoa(run.MissingCells)},
		{"Duplicates", strconv.Itoa(run.DuplicateRows)},
		{"Dropped", strconv.Itoa(run.DroppedRows)},
		{"Cleaned file", cleaned},
		{"Charts", charts},
	}
	if err := renderTable(out, []any{"Field", "Value"}, rows); err != nil {
		return err
	}

	if run.Profile == nil {
		return nil
	}
	_, err = report.NewSimpleWriter(out).Write(run.Profile)
	return err
}

// renderTable writes rows under header as a text table.
func renderTable(out io.Writer, header []any, rows [][]string) error {
	table := tablewriter.NewTable(out, tablewriter.WithHeaderAutoFormat(tw.Off))
	table.Header(header...)
	if err := table.Bulk(rows); err != nil {
		return fmt.Errorf("failed to build table: %w", err)
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	return nil
}

// writeJSON writes v as indented JSON.
func writeJSON(out io.Writer, v any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
