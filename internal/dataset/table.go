package dataset

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Kind classifies a column by how it is summarized and charted.
type Kind string

const (
	// KindNumeric covers int and float columns.
	KindNumeric Kind = "numeric"
	// KindBoolean covers columns holding only true/false.
	KindBoolean Kind = "boolean"
	// KindDate covers string columns whose values all parse as dates.
	KindDate Kind = "date"
	// KindText covers every other column.
	KindText Kind = "text"
)

// Categorical reports whether columns of this kind are charted by value
// frequency. Booleans are summarized by cardinality but never charted.
func (k Kind) Categorical() bool {
	return k == KindText || k == KindDate
}

// Column type names as printed in profile reports.
const (
	TypeInt    = "int"
	TypeFloat  = "float"
	TypeBool   = "bool"
	TypeString = "string"
	TypeDate   = "date"
)

// dateLayouts are tried in order when checking a string column for dates.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
}

// Column describes one column of a Table.
type Column struct {
	Name string
	Type string
	Kind Kind
}

// ValueCount is the number of occurrences of one distinct cell value.
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Table is an ordered set of equally long, uniquely named columns.
type Table struct {
	df dataframe.DataFrame

	// dates marks string columns detected as dates, by column name.
	dates map[string]bool

	// comma is the field delimiter the table was read with and is saved with.
	comma rune
}

// newTable wraps df and runs date detection on its string columns.
func newTable(df dataframe.DataFrame) *Table {
	t := &Table{df: df, dates: make(map[string]bool), comma: ','}
	for c, typ := range df.Types() {
		if typ == series.String && t.looksLikeDates(c) {
			t.dates[df.Names()[c]] = true
		}
	}
	return t
}

// Shape returns the number of rows and columns.
func (t *Table) Shape() (rows, cols int) {
	return t.df.Dims()
}

// Rows returns the number of rows.
func (t *Table) Rows() int {
	return t.df.Nrow()
}

// Names returns the column names in column order.
func (t *Table) Names() []string {
	return t.df.Names()
}

// Columns describes every column in column order.
func (t *Table) Columns() []Column {
	names := t.df.Names()
	types := t.df.Types()
	cols := make([]Column, len(names))
	for i, name := range names {
		cols[i] = t.describe(i, name, types[i])
	}
	return cols
}

// describe classifies column c. A column whose cells are all missing is a
// float column.
func (t *Table) describe(c int, name string, typ series.Type) Column {
	if rows := t.df.Nrow(); rows > 0 && t.MissingCount(c) == rows {
		return Column{Name: name, Type: TypeFloat, Kind: KindNumeric}
	}
	switch typ {
	case series.Int:
		return Column{Name: name, Type: TypeInt, Kind: KindNumeric}
	case series.Float:
		return Column{Name: name, Type: TypeFloat, Kind: KindNumeric}
	case series.Bool:
		return Column{Name: name, Type: TypeBool, Kind: KindBoolean}
	}
	if t.dates[name] {
		return Column{Name: name, Type: TypeDate, Kind: KindDate}
	}
	return Column{Name: name, Type: TypeString, Kind: KindText}
}

// Cell returns the formatted value at row r, column c and whether it is missing.
func (t *Table) Cell(r, c int) (string, bool) {
	e := t.df.Elem(r, c)
	if e.IsNA() {
		return "", true
	}
	switch e.Type() {
	case series.Int:
		v, err := e.Int()
		if err != nil {
			return e.String(), false
		}
		return strconv.Itoa(v), false
	case series.Float:
		return formatFloat(e.Float()), false
	default:
		return e.String(), false
	}
}

// MissingCount returns the number of missing cells in column c.
func (t *Table) MissingCount(c int) int {
	n := 0
	for r := 0; r < t.df.Nrow(); r++ {
		if t.df.Elem(r, c).IsNA() {
			n++
		}
	}
	return n
}

// Values returns the non-missing cells of column c in row order.
func (t *Table) Values(c int) []string {
	values := make([]string, 0, t.df.Nrow())
	for r := 0; r < t.df.Nrow(); r++ {
		if v, missing := t.Cell(r, c); !missing {
			values = append(values, v)
		}
	}
	return values
}

// Floats returns the non-missing cells of column c as float64 in row order.
// It is meaningful for numeric columns only.
func (t *Table) Floats(c int) []float64 {
	values := make([]float64, 0, t.df.Nrow())
	for r := 0; r < t.df.Nrow(); r++ {
		e := t.df.Elem(r, c)
		if !e.IsNA() {
			values = append(values, e.Float())
		}
	}
	return values
}

// ValueCounts counts the distinct non-missing values of column c, most
// frequent first. Values with equal counts keep their order of first
// appearance.
func (t *Table) ValueCounts(c int) []ValueCount {
	index := make(map[string]int)
	var counts []ValueCount
	for _, v := range t.Values(c) {
		if i, ok := index[v]; ok {
			counts[i].Count++
			continue
		}
		index[v] = len(counts)
		counts = append(counts, ValueCount{Value: v, Count: 1})
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts
}

// DuplicateRows counts rows equal, cell by cell, to an earlier row.
// Missing cells compare equal to each other.
func (t *Table) DuplicateRows() int {
	rows, cols := t.df.Dims()
	seen := make(map[string]struct{}, rows)
	dups := 0
	var key strings.Builder
	for r := 0; r < rows; r++ {
		key.Reset()
		for c := 0; c < cols; c++ {
			v, missing := t.Cell(r, c)
			if missing {
				key.WriteString("\x00")
			} else {
				key.WriteString(strconv.Quote(v))
			}
			key.WriteByte(',')
		}
		if _, ok := seen[key.String()]; ok {
			dups++
			continue
		}
		seen[key.String()] = struct{}{}
	}
	return dups
}

// Records returns the header followed by every row, with missing cells
// rendered as empty fields.
func (t *Table) Records() [][]string {
	rows, cols := t.df.Dims()
	records := make([][]string, 0, rows+1)
	records = append(records, t.df.Names())
	for r := 0; r < rows; r++ {
		record := make([]string, cols)
		for c := 0; c < cols; c++ {
			record[c], _ = t.Cell(r, c)
		}
		records = append(records, record)
	}
	return records
}

func (t *Table) looksLikeDates(c int) bool {
	seen := false
	for r := 0; r < t.df.Nrow(); r++ {
		e := t.df.Elem(r, c)
		if e.IsNA() {
			continue
		}
		if !isDate(e.String()) {
			return false
		}
		seen = true
	}
	return seen
}

func isDate(s string) bool {
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

// formatFloat renders v in its shortest round-trip form, keeping a decimal
// point so the value reloads as a float.
func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if strings.ContainsAny(s, ".eEIN") {
		return s
	}
	return s + ".0"
}
