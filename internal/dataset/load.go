package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	// ErrFileNotFound is returned by Load when the input path does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrMalformed is returned when the input is not delimited tabular text:
	// an empty file, a bare quote, or a row with more fields than the header.
	ErrMalformed = errors.New("malformed delimited data")
)

// missingToken is the cell value gota treats as missing for every column type.
const missingToken = "NaN"

// DefaultNAValues are the cell values read as missing.
var DefaultNAValues = []string{
	"", "#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None",
	"n/a", "nan", "null",
}

// LoadOptions controls how delimited text is parsed.
type LoadOptions struct {
	// NAValues lists the cell values read as missing.
	NAValues []string

	// Delimiter separates fields. Zero means a comma.
	Delimiter rune
}

// DefaultLoadOptions returns comma-delimited parsing with DefaultNAValues.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{
		NAValues:  DefaultNAValues,
		Delimiter: ',',
	}
}

// Load reads the delimited file at path into a Table.
func Load(path string, opts LoadOptions) (*Table, error) {
	f, err := os.Open(path) //nolint:gosec // reading a user-supplied path is the purpose
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	t, err := Read(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Read parses delimited text with a header row from r.
//
// A leading byte order mark is dropped. Rows shorter than the header are
// padded with missing cells. A header without data rows yields a Table with
// zero rows.
func Read(r io.Reader, opts LoadOptions) (*Table, error) {
	comma := opts.Delimiter
	if comma == 0 {
		comma = ','
	}

	reader := csv.NewReader(transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	reader.Comma = comma
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no header row", ErrMalformed)
	}

	width := len(records[0])
	for i := 1; i < len(records); i++ {
		switch n := len(records[i]); {
		case n > width:
			return nil, fmt.Errorf("%w: record %d has %d fields, header has %d",
				ErrMalformed, i, n, width)
		case n < width:
			records[i] = pad(records[i], width)
		}
	}

	normalizeBools(records, opts.NAValues)

	// gota rejects a header without rows, so load one placeholder row and
	// slice it away.
	headerOnly := len(records) == 1
	if headerOnly {
		records = append(records, pad(nil, width))
	}

	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.NaNValues(opts.NAValues),
	)
	if err := df.Error(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if headerOnly {
		df = df.Subset([]int{})
		if err := df.Error(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	}

	t := newTable(df)
	t.comma = comma
	return t, nil
}

// normalizeBools lower-cases the cells of columns holding only the words
// true and false in any case, so they load as booleans.
func normalizeBools(records [][]string, naValues []string) {
	missing := make(map[string]bool, len(naValues)+1)
	missing[missingToken] = true
	for _, v := range naValues {
		missing[v] = true
	}

	for c := range records[0] {
		if !boolColumn(records[1:], c, missing) {
			continue
		}
		for _, record := range records[1:] {
			if !missing[record[c]] {
				record[c] = strings.ToLower(record[c])
			}
		}
	}
}

// boolColumn reports whether column c has at least one value and every
// value is true or false.
func boolColumn(rows [][]string, c int, missing map[string]bool) bool {
	seen := false
	for _, record := range rows {
		v := record[c]
		if missing[v] {
			continue
		}
		if !strings.EqualFold(v, "true") && !strings.EqualFold(v, "false") {
			return false
		}
		seen = true
	}
	return seen
}

// pad extends record to width fields using the missing token.
func pad(record []string, width int) []string {
	padded := make([]string, width)
	n := copy(padded, record)
	for i := n; i < width; i++ {
		padded[i] = missingToken
	}
	return padded
}
