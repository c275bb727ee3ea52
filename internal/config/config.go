package config

import (
	"path/filepath"
	"unicode/utf8"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "csvinspect"

	// DefaultChartDir writes chart images next to where the tool runs.
	DefaultChartDir = "."

	// DefaultBins is the number of equal-width histogram bins.
	DefaultBins = 20

	// DefaultTopN is the number of most frequent values in the bar chart.
	DefaultTopN = 10

	// DefaultChartWidth and DefaultChartHeight are the image size in inches.
	DefaultChartWidth  = 6.0
	DefaultChartHeight = 4.0

	// DefaultDBFile is the history database file name inside DBDir.
	DefaultDBFile = "csvinspect.db"

	// DefaultDelimiter separates the fields of the input file.
	DefaultDelimiter = ","
)

// Log formats accepted by --log-format.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// tabDelimiter is the escaped spelling of a tab delimiter.
const tabDelimiter = `\t`

// Config holds all configuration options for one csvinspect run.
// It is built once before the pipeline starts and read-only afterwards.
type Config struct {
	// FilePath is the delimited text file to inspect. Required.
	FilePath string

	// DropMissing removes rows with any missing cell after the first profile.
	DropMissing bool

	// SaveCleaned writes the table to a "_cleaned" sibling of FilePath.
	// The table is saved as loaded unless DropMissing is also set.
	SaveCleaned bool

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// LogFormat is LogFormatText or LogFormatJSON.
	LogFormat string

	// Delimiter is the single character separating fields, or "\t" for tab.
	// The cleaned file is saved with the same delimiter.
	Delimiter string

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .csvinspect in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// ChartDir is the directory chart images are written to.
	ChartDir string

	// Bins is the number of histogram bins.
	Bins int

	// TopN is the number of values shown in the bar chart.
	TopN int

	// ChartWidth and ChartHeight are the chart image size in inches.
	ChartWidth  float64
	ChartHeight float64

	// NAValues lists the cell values read as missing.
	// Empty means the loader defaults.
	NAValues []string

	// JSONReport prints the profile as JSON.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport prints the profile as Markdown.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile also writes the report to this path when set.
	ReportFile string

	// RecordHistory stores a summary of the run in the history database.
	RecordHistory bool

	// DBDir is the directory of the history database.
	// Empty means XDGDataDir().
	DBDir string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		ChartDir:    DefaultChartDir,
		Bins:        DefaultBins,
		TopN:        DefaultTopN,
		ChartWidth:  DefaultChartWidth,
		ChartHeight: DefaultChartHeight,
		Delimiter:   DefaultDelimiter,
		LogFormat:   LogFormatText,
	}
}

// Comma returns the field delimiter as a rune, or utf8.RuneError when
// Delimiter is not a single character.
func (c *Config) Comma() rune {
	if c.Delimiter == tabDelimiter {
		return '\t'
	}
	if utf8.RuneCountInString(c.Delimiter) != 1 {
		return utf8.RuneError
	}
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	return r
}

// HistoryDir returns the directory of the history database.
func (c *Config) HistoryDir() string {
	if c.DBDir != "" {
		return c.DBDir
	}
	return XDGDataDir()
}

// XDGDataDir returns the XDG data directory for csvinspect.
// On Linux: ~/.local/share/csvinspect
// On macOS: ~/Library/Application Support/csvinspect
// On Windows: %LOCALAPPDATA%\csvinspect
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for csvinspect.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found as a sentinel error.
func (c *Config) Validate() error {
	if c.FilePath == "" {
		return ErrNoInput
	}

	if c.Bins <= 0 {
		return ErrInvalidBins
	}

	if c.TopN <= 0 {
		return ErrInvalidTopN
	}

	if c.ChartWidth <= 0 || c.ChartHeight <= 0 {
		return ErrInvalidChartSize
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	switch c.Comma() {
	case utf8.RuneError, '"', '\r', '\n':
		return ErrInvalidDelimiter
	}

	if c.LogFormat != LogFormatText && c.LogFormat != LogFormatJSON {
		return ErrInvalidLogFormat
	}

	return nil
}
