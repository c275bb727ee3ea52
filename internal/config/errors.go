package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and by the loaders, so
// callers can use errors.Is() to tell usage mistakes from I/O failures.
var (
	// ErrNoInput is returned when no input file path is given.
	ErrNoInput = errors.New("no input file specified: provide the path of a CSV file")

	// ErrInvalidBins is returned when the histogram bin count is not positive.
	ErrInvalidBins = errors.New("invalid bin count: must be positive")

	// ErrInvalidTopN is returned when the number of bar chart values is not positive.
	ErrInvalidTopN = errors.New("invalid top value count: must be positive")

	// ErrInvalidChartSize is returned when the chart width or height is not positive.
	ErrInvalidChartSize = errors.New("invalid chart size: width and height must be positive")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidDelimiter is returned when the delimiter is not a single
	// character, or is a quote or line break.
	ErrInvalidDelimiter = errors.New("invalid delimiter: must be a single character other than a quote or line break")

	// ErrInvalidLogFormat is returned when the log format is neither text nor json.
	ErrInvalidLogFormat = errors.New("invalid log format: must be text or json")

	// ErrConfigNotFound is returned when the configuration file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrInvalidEnv is returned when a CSVINSPECT_* variable cannot be parsed.
	ErrInvalidEnv = errors.New("invalid environment variable")
)
