package profile

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"github.com/nao1215/csvinspect/internal/dataset"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ColumnSummary holds the statistics of one column.
// Fields that do not apply to the column's kind are nil.
type ColumnSummary struct {
	Name    string       `json:"name"`
	Type    string       `json:"type"`
	Kind    dataset.Kind `json:"kind"`
	Missing int          `json:"missing"`
	Count   int          `json:"count"`

	// Unique, Top and Freq are set for non-numeric columns.
	Unique *int    `json:"unique,omitempty"`
	Top    *string `json:"top,omitempty"`
	Freq   *int    `json:"freq,omitempty"`

	// The remaining fields are set for numeric columns.
	Mean   *float64 `json:"mean,omitempty"`
	Std    *float64 `json:"std,omitempty"`
	Min    *float64 `json:"min,omitempty"`
	Q1     *float64 `json:"q1,omitempty"`
	Median *float64 `json:"median,omitempty"`
	Q3     *float64 `json:"q3,omitempty"`
	Max    *float64 `json:"max,omitempty"`
}

// MarshalJSON encodes infinite statistics as "inf" and "-inf", which plain
// JSON numbers cannot hold.
func (s ColumnSummary) MarshalJSON() ([]byte, error) {
	type plain ColumnSummary
	return json.Marshal(struct {
		plain
		Mean   *jsonFloat `json:"mean,omitempty"`
		Std    *jsonFloat `json:"std,omitempty"`
		Min    *jsonFloat `json:"min,omitempty"`
		Q1     *jsonFloat `json:"q1,omitempty"`
		Median *jsonFloat `json:"median,omitempty"`
		Q3     *jsonFloat `json:"q3,omitempty"`
		Max    *jsonFloat `json:"max,omitempty"`
	}{
		plain:  plain(s),
		Mean:   (*jsonFloat)(s.Mean),
		Std:    (*jsonFloat)(s.Std),
		Min:    (*jsonFloat)(s.Min),
		Q1:     (*jsonFloat)(s.Q1),
		Median: (*jsonFloat)(s.Median),
		Q3:     (*jsonFloat)(s.Q3),
		Max:    (*jsonFloat)(s.Max),
	})
}

// UnmarshalJSON decodes what MarshalJSON produces.
func (s *ColumnSummary) UnmarshalJSON(data []byte) error {
	type plain ColumnSummary
	aux := struct {
		*plain
		Mean   *jsonFloat `json:"mean,omitempty"`
		Std    *jsonFloat `json:"std,omitempty"`
		Min    *jsonFloat `json:"min,omitempty"`
		Q1     *jsonFloat `json:"q1,omitempty"`
		Median *jsonFloat `json:"median,omitempty"`
		Q3     *jsonFloat `json:"q3,omitempty"`
		Max    *jsonFloat `json:"max,omitempty"`
	}{plain: (*plain)(s)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	s.Mean = (*float64)(aux.Mean)
	s.Std = (*float64)(aux.Std)
	s.Min = (*float64)(aux.Min)
	s.Q1 = (*float64)(aux.Q1)
	s.Median = (*float64)(aux.Median)
	s.Q3 = (*float64)(aux.Q3)
	s.Max = (*float64)(aux.Max)
	return nil
}

// jsonFloat is a float64 whose infinities encode as strings.
type jsonFloat float64

// Infinity spellings used in every report format.
const (
	PosInf = "inf"
	NegInf = "-inf"
)

func (f jsonFloat) MarshalJSON() ([]byte, error) {
	switch v := float64(f); {
	case math.IsInf(v, 1):
		return json.Marshal(PosInf)
	case math.IsInf(v, -1):
		return json.Marshal(NegInf)
	default:
		return json.Marshal(v)
	}
}

func (f *jsonFloat) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		switch s {
		case PosInf:
			*f = jsonFloat(math.Inf(1))
		case NegInf:
			*f = jsonFloat(math.Inf(-1))
		default:
			return fmt.Errorf("invalid statistic %q", s)
		}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = jsonFloat(v)
	return nil
}

// Profile summarizes a whole table.
type Profile struct {
	Rows          int             `json:"rows"`
	Cols          int             `json:"columns"`
	Names         []string        `json:"column_names"`
	Columns       []ColumnSummary `json:"summary"`
	DuplicateRows int             `json:"duplicate_rows"`
}

// Compute profiles t. The same table always yields an equal Profile.
func Compute(t *dataset.Table) *Profile {
	rows, cols := t.Shape()
	p := &Profile{
		Rows:          rows,
		Cols:          cols,
		Names:         t.Names(),
		Columns:       make([]ColumnSummary, cols),
		DuplicateRows: t.DuplicateRows(),
	}
	for c, col := range t.Columns() {
		s := ColumnSummary{
			Name:    col.Name,
			Type:    col.Type,
			Kind:    col.Kind,
			Missing: t.MissingCount(c),
		}
		s.Count = rows - s.Missing
		if col.Kind == dataset.KindNumeric {
			summarizeNumeric(&s, t.Floats(c))
		} else {
			summarizeValues(&s, t.ValueCounts(c))
		}
		p.Columns[c] = s
	}
	return p
}

// MissingTotal returns the number of missing cells across all columns.
func (p *Profile) MissingTotal() int {
	total := 0
	for _, c := range p.Columns {
		total += c.Missing
	}
	return total
}

// Column returns the summary of the named column.
func (p *Profile) Column(name string) (ColumnSummary, bool) {
	for _, c := range p.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnSummary{}, false
}

func summarizeNumeric(s *ColumnSummary, values []float64) {
	if len(values) == 0 {
		return
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	s.Mean = optional(stat.Mean(values, nil))
	if len(values) > 1 {
		s.Std = optional(stat.StdDev(values, nil))
	}
	s.Min = optional(floats.Min(values))
	s.Q1 = optional(Quantile(sorted, 0.25))
	s.Median = optional(Quantile(sorted, 0.5))
	s.Q3 = optional(Quantile(sorted, 0.75))
	s.Max = optional(floats.Max(values))
}

func summarizeValues(s *ColumnSummary, counts []dataset.ValueCount) {
	unique := len(counts)
	s.Unique = &unique
	if unique == 0 {
		return
	}
	top, freq := counts[0].Value, counts[0].Count
	s.Top = &top
	s.Freq = &freq
}

// Quantile returns the p-quantile of sorted ascending values, interpolating
// linearly between the two closest ranks at position (n-1)*p.
// It returns NaN for an empty slice.
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	h := float64(n-1) * p
	lo := math.Floor(h)
	a := sorted[int(lo)]
	if h == lo {
		return a
	}
	b := sorted[int(math.Ceil(h))]
	return a + (h-lo)*(b-a)
}

// optional returns nil for an undefined statistic. Infinities are defined.
func optional(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}
