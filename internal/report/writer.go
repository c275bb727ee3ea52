package report

import (
	"io"
	"math"
	"strconv"

	"github.com/nao1215/csvinspect/internal/profile"
)

// Writer defines the interface for profile output.
type Writer interface {
	// Write outputs the profile to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(p *profile.Profile) (int, error)
}

// MultiWriter writes the same profile to several Writers in order.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the profile to all configured Writers.
// Returns the total bytes written and stops on the first error.
func (m *MultiWriter) Write(p *profile.Profile) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(p)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// notANumber is printed for statistics that are undefined or do not apply.
const notANumber = "NaN"

// statNames lists the rows of the descriptive statistics table.
var statNames = []string{
	"count", "unique", "top", "freq",
	"mean", "std", "min", "25%", "50%", "75%", "max",
}

// statValue formats one statistic of s, or NaN when it is not set.
func statValue(s profile.ColumnSummary, stat string) string {
	switch stat {
	case "count":
		return strconv.Itoa(s.Count)
	case "unique":
		return formatInt(s.Unique)
	case "top":
		if s.Top == nil {
			return notANumber
		}
		return *s.Top
	case "freq":
		return formatInt(s.Freq)
	case "mean":
		return formatFloat(s.Mean)
	case "std":
		return formatFloat(s.Std)
	case "min":
		return formatFloat(s.Min)
	case "25%":
		return formatFloat(s.Q1)
	case "50%":
		return formatFloat(s.Median)
	case "75%":
		return formatFloat(s.Q3)
	case "max":
		return formatFloat(s.Max)
	}
	return notANumber
}

// describeRows builds the statistics table: one row per statistic, one
// column per table column.
func describeRows(p *profile.Profile) [][]string {
	rows := make([][]string, len(statNames))
	for i, stat := range statNames {
		row := make([]string, 0, len(p.Columns)+1)
		row = append(row, stat)
		for _, c := range p.Columns {
			row = append(row, statValue(c, stat))
		}
		rows[i] = row
	}
	return rows
}

func formatInt(v *int) string {
	if v == nil {
		return notANumber
	}
	return strconv.Itoa(*v)
}

func formatFloat(v *float64) string {
	switch {
	case v == nil || math.IsNaN(*v):
		return notANumber
	case math.IsInf(*v, 1):
		return profile.PosInf
	case math.IsInf(*v, -1):
		return profile.NegInf
	}
	return strconv.FormatFloat(*v, 'g', 6, 64)
}
