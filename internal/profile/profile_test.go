package profile

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/nao1215/csvinspect/internal/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func read(t *testing.T, content string) *dataset.Table {
	t.Helper()
	tbl, err := dataset.Read(strings.NewReader(content), dataset.DefaultLoadOptions())
	require.NoError(t, err)
	return tbl
}

func TestCompute(t *testing.T) {
	t.Parallel()

	t.Run("shape missing and duplicates", func(t *testing.T) {
		t.Parallel()
		p := Compute(read(t, "a,b\n1,x\n2,\n3,y\n"))

		assert.Equal(t, 3, p.Rows)
		assert.Equal(t, 2, p.Cols)
		assert.Equal(t, []string{"a", "b"}, p.Names)
		assert.Equal(t, 0, p.DuplicateRows)
		assert.Equal(t, 1, p.MissingTotal())

		b, ok := p.Column("b")
		require.True(t, ok)
		assert.Equal(t, 1, b.Missing)
		assert.Equal(t, 2, b.Count)
	})

	t.Run("numeric column", func(t *testing.T) {
		t.Parallel()
		p := Compute(read(t, "v\n4\n1\n3\n2\n"))
		v := p.Columns[0]

		assert.Equal(t, dataset.KindNumeric, v.Kind)
		assert.Equal(t, 4, v.Count)
		require.NotNil(t, v.Mean)
		assert.InDelta(t, 2.5, *v.Mean, 1e-9)
		require.NotNil(t, v.Std)
		assert.InDelta(t, math.Sqrt(5.0/3.0), *v.Std, 1e-9)
		assert.InDelta(t, 1.0, *v.Min, 1e-9)
		assert.InDelta(t, 1.75, *v.Q1, 1e-9)
		assert.InDelta(t, 2.5, *v.Median, 1e-9)
		assert.InDelta(t, 3.25, *v.Q3, 1e-9)
		assert.InDelta(t, 4.0, *v.Max, 1e-9)
		assert.Nil(t, v.Unique)
		assert.Nil(t, v.Top)
	})

	t.Run("single value has no standard deviation", func(t *testing.T) {
		t.Parallel()
		p := Compute(read(t, "v,w\n7,a\n,b\n"))
		v := p.Columns[0]

		assert.Equal(t, 1, v.Count)
		assert.Nil(t, v.Std)
		require.NotNil(t, v.Median)
		assert.InDelta(t, 7.0, *v.Median, 1e-9)
	})

	t.Run("text column", func(t *testing.T) {
		t.Parallel()
		p := Compute(read(t, "team\nblue\nred\nred\nblue\n"))
		team := p.Columns[0]

		assert.Equal(t, dataset.KindText, team.Kind)
		require.NotNil(t, team.Unique)
		assert.Equal(t, 2, *team.Unique)
		require.NotNil(t, team.Top)
		assert.Equal(t, "blue", *team.Top)
		assert.Equal(t, 2, *team.Freq)
		assert.Nil(t, team.Mean)
	})

	t.Run("boolean column is summarized by values", func(t *testing.T) {
		t.Parallel()
		p := Compute(read(t, "ok\ntrue\nfalse\ntrue\n"))
		ok := p.Columns[0]

		assert.Equal(t, dataset.KindBoolean, ok.Kind)
		assert.Equal(t, "true", *ok.Top)
		assert.Equal(t, 2, *ok.Freq)
	})

	t.Run("zero rows", func(t *testing.T) {
		t.Parallel()
		p := Compute(read(t, "a,b\n"))

		assert.Equal(t, 0, p.Rows)
		assert.Equal(t, 2, p.Cols)
		for _, c := range p.Columns {
			assert.Equal(t, 0, c.Count)
			assert.Nil(t, c.Top)
			assert.Nil(t, c.Mean)
		}
	})

	t.Run("infinite values are kept", func(t *testing.T) {
		t.Parallel()
		p := Compute(read(t, "x\n1\ninf\n"))
		x := p.Columns[0]

		assert.Equal(t, dataset.KindNumeric, x.Kind)
		require.NotNil(t, x.Mean)
		assert.True(t, math.IsInf(*x.Mean, 1))
		require.NotNil(t, x.Max)
		assert.True(t, math.IsInf(*x.Max, 1))
		require.NotNil(t, x.Median)
		assert.True(t, math.IsInf(*x.Median, 1))
		assert.InDelta(t, 1.0, *x.Min, 1e-9)
		assert.Nil(t, x.Std)
	})

	t.Run("column without values", func(t *testing.T) {
		t.Parallel()
		p := Compute(read(t, "a,b\n1,\n2,\n"))
		b := p.Columns[1]

		assert.Equal(t, dataset.KindNumeric, b.Kind)
		assert.Equal(t, 0, b.Count)
		assert.Equal(t, 2, b.Missing)
		assert.Nil(t, b.Mean)
		assert.Nil(t, b.Unique)
	})

	t.Run("is deterministic", func(t *testing.T) {
		t.Parallel()
		tbl := read(t, "a,b\n1,x\n1,x\n2,\n")
		assert.Equal(t, Compute(tbl), Compute(tbl))
	})
}

func TestProfileJSONOmitsUndefinedStatistics(t *testing.T) {
	t.Parallel()

	p := Compute(read(t, "v,w\n7,a\n,b\n"))
	data, err := json.Marshal(p)
	require.NoError(t, err)

	assert.NotContains(t, string(data), "NaN")
	assert.NotContains(t, string(data), `"std"`)
	assert.Contains(t, string(data), `"median":7`)
}

func TestProfileJSONEncodesInfinities(t *testing.T) {
	t.Parallel()

	p := Compute(read(t, "x\n-inf\n1\ninf\n"))
	data, err := json.Marshal(p)
	require.NoError(t, err)

	assert.Contains(t, string(data), `"min":"-inf"`)
	assert.Contains(t, string(data), `"max":"inf"`)
	assert.Contains(t, string(data), `"median":1`)

	var decoded Profile
	require.NoError(t, json.Unmarshal(data, &decoded))
	x := decoded.Columns[0]
	require.NotNil(t, x.Min)
	assert.True(t, math.IsInf(*x.Min, -1))
	require.NotNil(t, x.Max)
	assert.True(t, math.IsInf(*x.Max, 1))
	assert.Equal(t, "x", x.Name)
	assert.Equal(t, 3, x.Count)
}

func TestQuantile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{name: "single value", sorted: []float64{5}, p: 0.75, want: 5},
		{name: "median of odd count", sorted: []float64{1, 2, 3}, p: 0.5, want: 2},
		{name: "median of even count", sorted: []float64{1, 2, 3, 4}, p: 0.5, want: 2.5},
		{name: "first quartile", sorted: []float64{1, 2, 3, 4, 5}, p: 0.25, want: 2},
		{name: "interpolated", sorted: []float64{10, 20}, p: 0.25, want: 12.5},
		{name: "minimum", sorted: []float64{1, 9}, p: 0, want: 1},
		{name: "maximum", sorted: []float64{1, 9}, p: 1, want: 9},
		{name: "exact rank next to infinity", sorted: []float64{1, math.Inf(1)}, p: 0, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, Quantile(tt.sorted, tt.p), 1e-9)
		})
	}

	assert.True(t, math.IsNaN(Quantile(nil, 0.5)))
}
