package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables read by ApplyEnv.
const (
	EnvChartDir  = "CSVINSPECT_CHART_DIR"
	EnvBins      = "CSVINSPECT_BINS"
	EnvTop       = "CSVINSPECT_TOP"
	EnvHistory   = "CSVINSPECT_HISTORY"
	EnvDBDir     = "CSVINSPECT_DB_DIR"
	EnvDelimiter = "CSVINSPECT_DELIMITER"
)

// DefaultEnvFile is the dotenv file read from the working directory.
const DefaultEnvFile = ".env"

// LookupFunc reports the value of an environment variable and whether it is set.
type LookupFunc func(key string) (string, bool)

// NewLookup returns a LookupFunc over the process environment, falling back
// to the variables of the dotenv file at path. A missing file is not an error.
// The process environment is never modified.
func NewLookup(path string) (LookupFunc, error) {
	fileVars := map[string]string{}
	if path != "" {
		vars, err := godotenv.Read(path)
		switch {
		case err == nil:
			fileVars = vars
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	}

	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := fileVars[key]
		return v, ok
	}, nil
}

// ApplyEnv overlays the CSVINSPECT_* variables reported by lookup onto c.
// Empty values are ignored.
func ApplyEnv(c *Config, lookup LookupFunc) error {
	if v, ok := lookup(EnvChartDir); ok && v != "" {
		c.ChartDir = v
	}
	if v, ok := lookup(EnvBins); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidEnv, EnvBins, v)
		}
		c.Bins = n
	}
	if v, ok := lookup(EnvTop); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidEnv, EnvTop, v)
		}
		c.TopN = n
	}
	if v, ok := lookup(EnvHistory); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidEnv, EnvHistory, v)
		}
		c.RecordHistory = b
	}
	if v, ok := lookup(EnvDBDir); ok && v != "" {
		c.DBDir = v
	}
	if v, ok := lookup(EnvDelimiter); ok && v != "" {
		c.Delimiter = v
	}
	return nil
}
