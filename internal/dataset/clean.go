package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"strings"
)

// cleanedSuffix is inserted before the extension of a cleaned file.
const cleanedSuffix = "_cleaned"

// DropMissing returns a new Table holding only the rows without a missing
// cell. Columns, names, types and the order of kept rows are unchanged.
func (t *Table) DropMissing() *Table {
	rows, cols := t.df.Dims()
	keep := make([]int, 0, rows)
	for r := 0; r < rows; r++ {
		complete := true
		for c := 0; c < cols; c++ {
			if t.df.Elem(r, c).IsNA() {
				complete = false
				break
			}
		}
		if complete {
			keep = append(keep, r)
		}
	}
	return &Table{
		df:    t.df.Subset(keep),
		dates: maps.Clone(t.dates),
		comma: t.comma,
	}
}

// CleanedPath derives the output path of a cleaned copy of original by
// inserting "_cleaned" before the final extension of its base name:
// "data.csv" becomes "data_cleaned.csv" and "data.TSV" becomes
// "data_cleaned.TSV". A base name without extension gets "_cleaned.csv".
func CleanedPath(original string) string {
	dir, base := filepath.Split(original)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if ext == "" || ext == "." {
		ext = ".csv"
	}
	return dir + stem + cleanedSuffix + ext
}

// Save writes the table to path as delimited text with a header row, using
// the delimiter it was read with. An existing file is overwritten.
func (t *Table) Save(path string) (err error) {
	f, err := os.Create(path) //nolint:gosec // output path is derived from user input
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()
	return t.WriteCSV(f)
}

// WriteCSV writes the header and rows to w without a row index column.
// Missing cells are written as empty fields.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	cw.Comma = t.comma
	if err := cw.WriteAll(t.Records()); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}
