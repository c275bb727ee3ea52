package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".csvinspect"

// xdgConfigFile is the file name looked up inside XDGConfigDir.
const xdgConfigFile = "config.yaml"

// File represents the structure of the .csvinspect configuration file.
// Zero values leave the corresponding Config field untouched.
type File struct {
	// NAValues replaces the list of cell values read as missing.
	NAValues []string `yaml:"na_values,omitempty"`

	// Delimiter is the field separator, a single character or "\t".
	Delimiter string `yaml:"delimiter,omitempty"`

	// LogFormat is "text" or "json".
	LogFormat string `yaml:"log_format,omitempty"`

	// Charts holds the visualization settings.
	Charts ChartSettings `yaml:"charts,omitempty"`

	// History holds the run history settings.
	History HistorySettings `yaml:"history,omitempty"`
}

// ChartSettings is the "charts" section of the configuration file.
type ChartSettings struct {
	Dir    string  `yaml:"dir,omitempty"`
	Bins   int     `yaml:"bins,omitempty"`
	Top    int     `yaml:"top,omitempty"`
	Width  float64 `yaml:"width,omitempty"`
	Height float64 `yaml:"height,omitempty"`
}

// HistorySettings is the "history" section of the configuration file.
type HistorySettings struct {
	Enabled bool   `yaml:"enabled,omitempty"`
	Dir     string `yaml:"dir,omitempty"`
}

// LoadConfigFile loads a YAML configuration file.
// If the file does not exist, it returns ErrConfigNotFound.
// Callers should handle this error appropriately based on whether
// the config file path was explicitly specified by the user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}
	return &cf, nil
}

// Apply copies the settings present in the file onto c.
func (cf *File) Apply(c *Config) {
	if len(cf.NAValues) > 0 {
		c.NAValues = append([]string(nil), cf.NAValues...)
	}
	if cf.Delimiter != "" {
		c.Delimiter = cf.Delimiter
	}
	if cf.LogFormat != "" {
		c.LogFormat = cf.LogFormat
	}
	if cf.Charts.Dir != "" {
		c.ChartDir = cf.Charts.Dir
	}
	if cf.Charts.Bins != 0 {
		c.Bins = cf.Charts.Bins
	}
	if cf.Charts.Top != 0 {
		c.TopN = cf.Charts.Top
	}
	if cf.Charts.Width != 0 {
		c.ChartWidth = cf.Charts.Width
	}
	if cf.Charts.Height != 0 {
		c.ChartHeight = cf.Charts.Height
	}
	if cf.History.Enabled {
		c.RecordHistory = true
	}
	if cf.History.Dir != "" {
		c.DBDir = cf.History.Dir
	}
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .csvinspect in the current directory
// 3. Look for .csvinspect in the user's home directory
// 4. Look for config.yaml in XDGConfigDir
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	candidates := make([]string, 0, 3)
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}
	candidates = append(candidates, filepath.Join(XDGConfigDir(), xdgConfigFile))

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
