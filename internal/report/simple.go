package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/csvinspect/internal/profile"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

const (
	heading = "✅ Basic information of the DataFrame:"
	// separatorWidth is the width of the dashed line under the heading.
	separatorWidth = 40
)

// SimpleWriter outputs the human-readable profile printed by the CLI.
type SimpleWriter struct {
	baseWriter
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer) *SimpleWriter {
	return &SimpleWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the profile as plain text.
func (w *SimpleWriter) Write(p *profile.Profile) (int, error) {
	var sb strings.Builder

	w.writeOverview(&sb, p)
	w.writeTypes(&sb, p)
	w.writeMissing(&sb, p)
	fmt.Fprintf(&sb, "\nDuplicated Rows: %d\n", p.DuplicateRows)
	if err := w.writeStats(&sb, p); err != nil {
		return 0, err
	}

	return io.WriteString(w.output, sb.String())
}

func (w *SimpleWriter) writeOverview(sb *strings.Builder, p *profile.Profile) {
	fmt.Fprintf(sb, "\n%s\n\n", heading)
	sb.WriteString(strings.Repeat("-", separatorWidth))
	sb.WriteString("\n")
	fmt.Fprintf(sb, "Shape (rows*columns): (%d, %d)\n", p.Rows, p.Cols)
	fmt.Fprintf(sb, "Column Names: [%s]\n", strings.Join(p.Names, ", "))
}

func (w *SimpleWriter) writeTypes(sb *strings.Builder, p *profile.Profile) {
	sb.WriteString("\nColumn Data Types:\n\n")
	pairs := make([][2]string, len(p.Columns))
	for i, c := range p.Columns {
		pairs[i] = [2]string{c.Name, c.Type}
	}
	writeAligned(sb, pairs)
}

func (w *SimpleWriter) writeMissing(sb *strings.Builder, p *profile.Profile) {
	sb.WriteString("\nMissing Values:\n\n")
	pairs := make([][2]string, len(p.Columns))
	for i, c := range p.Columns {
		pairs[i] = [2]string{c.Name, strconv.Itoa(c.Missing)}
	}
	writeAligned(sb, pairs)
}

func (w *SimpleWriter) writeStats(sb *strings.Builder, p *profile.Profile) error {
	sb.WriteString("\nDescriptive Stats:\n\n")
	if len(p.Columns) == 0 {
		sb.WriteString("(no columns)\n")
		return nil
	}

	header := make([]any, 0, len(p.Names)+1)
	header = append(header, "")
	for _, name := range p.Names {
		header = append(header, name)
	}

	table := tablewriter.NewTable(sb, tablewriter.WithHeaderAutoFormat(tw.Off))
	table.Header(header...)
	if err := table.Bulk(describeRows(p)); err != nil {
		return fmt.Errorf("failed to build stats table: %w", err)
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render stats table: %w", err)
	}
	return nil
}

// writeAligned writes name/value pairs with the values right-aligned in a
// common column.
func writeAligned(sb *strings.Builder, pairs [][2]string) {
	nameWidth, valueWidth := 0, 0
	for _, p := range pairs {
		nameWidth = max(nameWidth, len(p[0]))
		valueWidth = max(valueWidth, len(p[1]))
	}
	for _, p := range pairs {
		fmt.Fprintf(sb, "%-*s  %*s\n", nameWidth, p[0], valueWidth, p[1])
	}
}
