package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/csvinspect/internal/dataset"
	"github.com/nao1215/csvinspect/internal/profile"
	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// kindOrder fixes the order of slices in the column kind chart.
var kindOrder = []dataset.Kind{
	dataset.KindNumeric,
	dataset.KindBoolean,
	dataset.KindDate,
	dataset.KindText,
}

// MarkdownWriter outputs profiles in Markdown format.
// This format is designed for documentation and sharing.
type MarkdownWriter struct {
	baseWriter

	// title is the top-level heading.
	title string
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
// The title becomes the H1 heading, typically the profiled file name.
func NewMarkdownWriter(output io.Writer, title string) *MarkdownWriter {
	if title == "" {
		title = "Dataset Profile"
	}
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
		title:      title,
	}
}

// Write outputs the profile in Markdown format.
func (w *MarkdownWriter) Write(p *profile.Profile) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, p)
	w.writeColumns(md, p)
	w.writeStats(md, p)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the title, the overview table and the quality alerts.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, p *profile.Profile) {
	md.H1(w.title)
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Rows", strconv.Itoa(p.Rows)},
			{"Columns", strconv.Itoa(p.Cols)},
			{"Missing Cells", strconv.Itoa(p.MissingTotal())},
			{"Duplicated Rows", strconv.Itoa(p.DuplicateRows)},
		},
	})
	md.PlainText("")

	switch {
	case p.MissingTotal() > 0 && p.DuplicateRows > 0:
		md.Warningf("%d missing cell(s) and %d duplicated row(s) found.",
			p.MissingTotal(), p.DuplicateRows)
	case p.MissingTotal() > 0:
		md.Warningf("%d missing cell(s) found. Run with --dropna to remove incomplete rows.",
			p.MissingTotal())
	case p.DuplicateRows > 0:
		md.Note(fmt.Sprintf("%d duplicated row(s) found.", p.DuplicateRows))
	default:
		md.Tip("No missing cells or duplicated rows.")
	}
	md.PlainText("")
}

// writeColumns writes the per-column type table and the kind chart.
func (w *MarkdownWriter) writeColumns(md *markdown.Markdown, p *profile.Profile) {
	md.H2("Columns")
	md.PlainText("")

	if len(p.Columns) == 0 {
		md.PlainText("No columns.")
		md.PlainText("")
		return
	}

	title := cases.Title(language.English)
	rows := make([][]string, len(p.Columns))
	for i, c := range p.Columns {
		rows[i] = []string{
			"`" + c.Name + "`",
			c.Type,
			title.String(string(c.Kind)),
			strconv.Itoa(c.Missing),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Column", "Type", "Kind", "Missing"},
		Rows:   rows,
	})
	md.PlainText("")

	w.writePieChart(md, p)
}

// writePieChart writes a mermaid pie chart of column kinds.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, p *profile.Profile) {
	counts := make(map[dataset.Kind]uint64)
	for _, c := range p.Columns {
		counts[c.Kind]++
	}

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Column Kinds"),
		piechart.WithShowData(true),
	)
	title := cases.Title(language.English)
	for _, kind := range kindOrder {
		if n := counts[kind]; n > 0 {
			chart.LabelAndIntValue(title.String(string(kind)), n)
		}
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeStats writes the descriptive statistics table.
func (w *MarkdownWriter) writeStats(md *markdown.Markdown, p *profile.Profile) {
	md.H2("Descriptive Stats")
	md.PlainText("")

	if len(p.Columns) == 0 {
		md.PlainText("No statistics.")
		md.PlainText("")
		return
	}

	header := make([]string, 0, len(p.Names)+1)
	header = append(header, "Statistic")
	header = append(header, p.Names...)
	md.Table(markdown.TableSet{
		Header: header,
		Rows:   describeRows(p),
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("*Report generated by csvinspect*")
}
