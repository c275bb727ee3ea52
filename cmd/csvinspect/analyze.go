package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/nao1215/csvinspect/internal/config"
	"github.com/nao1215/csvinspect/internal/database"
	csvlog "github.com/nao1215/csvinspect/internal/log"
	"github.com/nao1215/csvinspect/internal/model"
	"github.com/nao1215/csvinspect/internal/pipeline"
	"github.com/nao1215/csvinspect/internal/report"
	"github.com/spf13/cobra"
)

// runAnalyzeCmd executes the root command.
func runAnalyzeCmd(cmd *cobra.Command, args []string) error {
	// Build config from defaults, config file, environment and flags
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return newUsageError(cmd, fmt.Errorf("configuration error: %w", err))
	}

	// Set up structured logging
	logger := setupLogger(cmd.ErrOrStderr(), cfg.LogFormat, cfg.Verbose)
	slog.SetDefault(logger)

	return runAnalysis(context.Background(), cmd, cfg, logger)
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

// buildConfig creates a Config in order of precedence:
// defaults, configuration file, environment, explicitly set flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	if len(args) > 0 {
		cfg.FilePath = args[0]
	}

	var err error
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently use defaults if no file found.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	if configPath != "" {
		cf, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, newUsageError(cmd, fmt.Errorf("failed to load config file %s: %w", configPath, err))
		}
		cf.Apply(cfg)
	} else if cfg.ConfigFilePath != "" {
		return nil, newUsageError(cmd, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath))
	}

	lookup, err := config.NewLookup(config.DefaultEnvFile)
	if err != nil {
		return nil, err
	}
	if err := config.ApplyEnv(cfg, lookup); err != nil {
		return nil, newUsageError(cmd, err)
	}

	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}
	cfg.Verbose = getVerboseFlag(cmd)

	return cfg, nil
}

// applyFlags copies the flags set on the command line onto cfg.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()

	var err error
	if cfg.DropMissing, err = flags.GetBool("dropna"); err != nil {
		return err
	}
	if cfg.SaveCleaned, err = flags.GetBool("saveclean"); err != nil {
		return err
	}
	if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
		return err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return err
	}

	if flags.Changed("delimiter") {
		if cfg.Delimiter, err = flags.GetString("delimiter"); err != nil {
			return err
		}
	}
	if flags.Changed("log-format") {
		if cfg.LogFormat, err = flags.GetString("log-format"); err != nil {
			return err
		}
	}
	if flags.Changed("report-file") {
		if cfg.ReportFile, err = flags.GetString("report-file"); err != nil {
			return err
		}
	}
	if flags.Changed("chart-dir") {
		if cfg.ChartDir, err = flags.GetString("chart-dir"); err != nil {
			return err
		}
	}
	if flags.Changed("bins") {
		if cfg.Bins, err = flags.GetInt("bins"); err != nil {
			return err
		}
	}
	if flags.Changed("top") {
		if cfg.TopN, err = flags.GetInt("top"); err != nil {
			return err
		}
	}
	if flags.Changed("history") {
		if cfg.RecordHistory, err = flags.GetBool("history"); err != nil {
			return err
		}
	}
	return nil
}

// setupLogger creates a redacting structured logger writing to w in the
// given format.
func setupLogger(w io.Writer, format string, verbose bool) *slog.Logger {
	if format == config.LogFormatJSON {
		return csvlog.NewJSONLogger(w, verbose)
	}
	return csvlog.NewLogger(w, verbose)
}

// runAnalysis builds and executes the pipeline for cfg.
func runAnalysis(ctx context.Context, cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting analysis",
		"file", cfg.FilePath,
		"dropna", cfg.DropMissing,
		"saveclean", cfg.SaveCleaned,
		"chartDir", cfg.ChartDir,
		"history", cfg.RecordHistory,
	)

	// Status lines share stdout with the human-readable report only.
	stdout := cmd.OutOrStdout()
	status := stdout
	if cfg.JSONReport || cfg.MarkdownReport {
		status = cmd.ErrOrStderr()
	}

	deps := pipeline.Dependencies{
		Status: status,
		Report: newReportWriter(cfg, stdout),
		Logger: logger,
	}

	// Copy the report into a file when requested
	if cfg.ReportFile != "" {
		f, err := createReportFile(cfg.ReportFile)
		if err != nil {
			return err
		}
		defer f.Close()
		deps.Report = report.NewMultiWriter(deps.Report, newReportWriter(cfg, f))
		logger.Debug("writing report file", "path", cfg.ReportFile)
	}

	// Open database connection if history is enabled
	if cfg.RecordHistory {
		db, err := database.Open(cfg.HistoryDir(), database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open history database: %w", err)
		}
		defer db.Close()
		logger.Info("history database opened", "path", db.Path())
		deps.Recorder = db
	}

	p := pipeline.Build(cfg, deps)
	logger.Debug("pipeline built", "steps", p.StepNames())

	analysis := model.NewAnalysis(cfg.FilePath)
	if err := p.Execute(ctx, analysis); err != nil {
		return err
	}

	logger.Info("analysis completed",
		"file", cfg.FilePath,
		"steps", analysis.PerformedSteps,
		"charts", len(analysis.Charts),
		"elapsed", analysis.FinishedAt.Sub(analysis.StartedAt),
	)
	return nil
}

// newReportWriter returns the profile writer for the requested format.
func newReportWriter(cfg *config.Config, w io.Writer) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewJSONWriter(w, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(w, "Profile of "+filepath.Base(cfg.FilePath))
	default:
		return report.NewSimpleWriter(w)
	}
}

// createReportFile creates or truncates the report file, creating its
// directory if needed. Reports may hold data values, so only the owner can
// read them.
func createReportFile(path string) (*os.File, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create report directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // User-provided report path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to create report file: %w", err)
	}
	return f, nil
}
