package main

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/nao1215/csvinspect/internal/config"
	"github.com/nao1215/csvinspect/internal/dataset"
	"github.com/spf13/cobra"
)

// TestNewRootCmd tests the root command creation.
func TestNewRootCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "csvinspect <file>" {
			t.Errorf("expected use 'csvinspect <file>', got %q", cmd.Use)
		}
	})

	t.Run("has descriptions and version", func(t *testing.T) {
		t.Parallel()
		if cmd.Short == "" || cmd.Long == "" {
			t.Error("expected non-empty descriptions")
		}
		if cmd.Version == "" {
			t.Error("expected non-empty version")
		}
	})

	t.Run("has verbose flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.PersistentFlags().Lookup("verbose")
		if flag == nil {
			t.Fatal("expected verbose flag")
		}
		if flag.Shorthand != "v" {
			t.Errorf("expected shorthand 'v', got %q", flag.Shorthand)
		}
	})

	t.Run("has analysis flags", func(t *testing.T) {
		t.Parallel()
		tests := []struct {
			name      string
			shorthand string
			defValue  string
		}{
			{name: "dropna", defValue: "false"},
			{name: "saveclean", defValue: "false"},
			{name: "chart-dir", shorthand: "o", defValue: config.DefaultChartDir},
			{name: "bins", defValue: fmt.Sprint(config.DefaultBins)},
			{name: "top", defValue: fmt.Sprint(config.DefaultTopN)},
			{name: "config", shorthand: "c", defValue: ""},
			{name: "json", shorthand: "j", defValue: "false"},
			{name: "markdown", shorthand: "m", defValue: "false"},
			{name: "history", defValue: "false"},
			{name: "delimiter", shorthand: "d", defValue: ","},
			{name: "report-file", defValue: ""},
			{name: "log-format", defValue: config.LogFormatText},
		}
		for _, tt := range tests {
			flag := cmd.Flags().Lookup(tt.name)
			if flag == nil {
				t.Errorf("expected %s flag", tt.name)
				continue
			}
			if flag.Shorthand != tt.shorthand {
				t.Errorf("%s: expected shorthand %q, got %q", tt.name, tt.shorthand, flag.Shorthand)
			}
			if flag.DefValue != tt.defValue {
				t.Errorf("%s: expected default %q, got %q", tt.name, tt.defValue, flag.DefValue)
			}
		}
	})

	t.Run("explains files named like subcommands", func(t *testing.T) {
		t.Parallel()
		if !strings.Contains(cmd.Long, "./history") {
			t.Error("expected a hint about files named like subcommands")
		}
	})

	t.Run("has subcommands", func(t *testing.T) {
		t.Parallel()
		want := map[string]bool{"init": false, "history [file]": false, "version": false}
		for _, sub := range cmd.Commands() {
			if _, ok := want[sub.Use]; ok {
				want[sub.Use] = true
			}
		}
		for use, found := range want {
			if !found {
				t.Errorf("expected %q subcommand", use)
			}
		}
	})

	t.Run("silences usage and errors", func(t *testing.T) {
		t.Parallel()
		if !cmd.SilenceUsage {
			t.Error("expected SilenceUsage to be true")
		}
		if !cmd.SilenceErrors {
			t.Error("expected SilenceErrors to be true")
		}
	})
}

// TestValidateArgs tests positional argument validation.
func TestValidateArgs(t *testing.T) {
	t.Parallel()

	cmd := &cobra.Command{Use: "test"}

	if err := validateArgs(cmd, []string{"data.csv"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	err := validateArgs(cmd, nil)
	if !errors.Is(err, config.ErrNoInput) {
		t.Errorf("expected ErrNoInput, got %v", err)
	}
	var uerr *usageError
	if !errors.As(err, &uerr) {
		t.Errorf("expected usage error, got %T", err)
	}

	if err := validateArgs(cmd, []string{"a.csv", "b.csv"}); !errors.As(err, &uerr) {
		t.Errorf("expected usage error for two files, got %v", err)
	}
}

// TestExecuteExitCodes tests the mapping from errors to exit codes.
func TestExecuteExitCodes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantCode   int
		wantStderr string
	}{
		{name: "success", err: nil, wantCode: exitOK},
		{name: "file not found", err: fmt.Errorf("%w: x.csv", dataset.ErrFileNotFound), wantCode: exitFailure, wantStderr: "File not found!"},
		{name: "malformed", err: fmt.Errorf("x.csv: %w", dataset.ErrMalformed), wantCode: exitFailure, wantStderr: "Error parsing the file!"},
		{name: "other failure", err: errors.New("disk full"), wantCode: exitFailure, wantStderr: "Error: disk full"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var stderr bytes.Buffer
			cmd := &cobra.Command{
				Use:           "test",
				SilenceUsage:  true,
				SilenceErrors: true,
				RunE:          func(*cobra.Command, []string) error { return tt.err },
			}
			cmd.SetErr(&stderr)
			cmd.SetArgs([]string{})

			if code := execute(cmd); code != tt.wantCode {
				t.Errorf("expected exit code %d, got %d", tt.wantCode, code)
			}
			if !strings.Contains(stderr.String(), tt.wantStderr) {
				t.Errorf("expected stderr to contain %q, got %q", tt.wantStderr, stderr.String())
			}
		})
	}

	t.Run("usage error", func(t *testing.T) {
		t.Parallel()

		var stdout, stderr bytes.Buffer
		cmd := NewRootCmd()
		cmd.SetOut(&stdout)
		cmd.SetErr(&stderr)
		cmd.SetArgs([]string{})

		if code := execute(cmd); code != exitUsage {
			t.Errorf("expected exit code %d, got %d", exitUsage, code)
		}
		if !strings.Contains(stderr.String(), "no input file specified") {
			t.Errorf("expected missing input message, got %q", stderr.String())
		}
		if !strings.Contains(stderr.String(), "Usage:") {
			t.Errorf("expected usage text, got %q", stderr.String())
		}
	})

	t.Run("unknown flag", func(t *testing.T) {
		t.Parallel()

		var stderr bytes.Buffer
		cmd := NewRootCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&stderr)
		cmd.SetArgs([]string{"data.csv", "--no-such-flag"})

		if code := execute(cmd); code != exitUsage {
			t.Errorf("expected exit code %d, got %d", exitUsage, code)
		}
	})
}
