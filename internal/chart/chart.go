package chart

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/nao1215/csvinspect/internal/dataset"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Defaults used by NewRenderer.
const (
	DefaultBins   = 20
	DefaultTopN   = 10
	DefaultWidth  = 6.0
	DefaultHeight = 4.0
)

var (
	// ErrInvalidBins is returned when the bin count is not positive.
	ErrInvalidBins = errors.New("histogram bin count must be positive")

	// ErrInvalidTopN is returned when the bar count is not positive.
	ErrInvalidTopN = errors.New("bar chart value count must be positive")

	// ErrInvalidSize is returned when the image width or height is not positive.
	ErrInvalidSize = errors.New("chart width and height must be positive")
)

var (
	histogramFill = color.RGBA{R: 135, G: 206, B: 235, A: 255} // skyblue
	barFill       = color.RGBA{R: 255, G: 165, B: 0, A: 255}   // orange
)

// ArtifactKind identifies the chart drawn into an Artifact.
type ArtifactKind string

const (
	// KindHistogram is a histogram of a numeric column.
	KindHistogram ArtifactKind = "histogram"
	// KindBarChart is a bar chart of the most frequent values of a column.
	KindBarChart ArtifactKind = "barchart"
)

// Artifact is one image file written by a Renderer.
type Artifact struct {
	Kind   ArtifactKind `json:"kind"`
	Column string       `json:"column"`
	Path   string       `json:"path"`
}

// Renderer draws charts into a directory.
type Renderer struct {
	// Dir is the directory image files are written to.
	Dir string

	// Bins is the number of equal-width histogram bins.
	Bins int

	// TopN is the maximum number of bars in a bar chart.
	TopN int

	// Width and Height are the image size in inches.
	Width  float64
	Height float64

	// Out receives one status line per written file. Nil discards them.
	Out io.Writer
}

// NewRenderer returns a Renderer writing default-sized charts to dir.
func NewRenderer(dir string, out io.Writer) *Renderer {
	return &Renderer{
		Dir:    dir,
		Bins:   DefaultBins,
		TopN:   DefaultTopN,
		Width:  DefaultWidth,
		Height: DefaultHeight,
		Out:    out,
	}
}

// Validate checks the renderer settings.
func (r *Renderer) Validate() error {
	if r.Bins <= 0 {
		return ErrInvalidBins
	}
	if r.TopN <= 0 {
		return ErrInvalidTopN
	}
	if r.Width <= 0 || r.Height <= 0 {
		return ErrInvalidSize
	}
	return nil
}

// RenderAll writes a histogram for every numeric column, in column order,
// then a bar chart for the first text or date column. Existing files are
// overwritten. It returns the written artifacts in order.
func (r *Renderer) RenderAll(t *dataset.Table) ([]Artifact, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if r.Dir != "" {
		if err := os.MkdirAll(r.Dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create chart directory %s: %w", r.Dir, err)
		}
	}

	r.printf("\n📊 Generating visualizations...\n\n")

	var artifacts []Artifact
	barChartDone := false
	for c, col := range t.Columns() {
		switch {
		case col.Kind == dataset.KindNumeric:
			a, err := r.Histogram(col.Name, t.Floats(c))
			if err != nil {
				return artifacts, err
			}
			artifacts = append(artifacts, a)
		case col.Kind.Categorical() && !barChartDone:
			a, err := r.BarChart(col.Name, t.ValueCounts(c))
			if err != nil {
				return artifacts, err
			}
			artifacts = append(artifacts, a)
			barChartDone = true
		}
	}
	return artifacts, nil
}

// Histogram writes {column}_histogram.png for values.
// No values yields an empty chart with the same title and axes.
func (r *Renderer) Histogram(column string, values []float64) (Artifact, error) {
	p := plot.New()
	p.Title.Text = "Histogram of " + column
	p.X.Label.Text = column
	p.Y.Label.Text = "Frequency"
	p.Add(plotter.NewGrid())

	if len(values) > 0 {
		h, err := plotter.NewHist(plotter.Values(values), r.Bins)
		if err != nil {
			return Artifact{}, fmt.Errorf("failed to bin %s: %w", column, err)
		}
		h.FillColor = histogramFill
		h.LineStyle.Color = color.Black
		p.Add(h)
	}

	path := r.path(column, KindHistogram)
	if err := r.save(p, path); err != nil {
		return Artifact{}, err
	}
	r.printf("✅ Saved histogram: %s\n", path)
	return Artifact{Kind: KindHistogram, Column: column, Path: path}, nil
}

// BarChart writes {column}_barchart.png with the first TopN entries of
// counts, which must be ordered most frequent first.
func (r *Renderer) BarChart(column string, counts []dataset.ValueCount) (Artifact, error) {
	if len(counts) > r.TopN {
		counts = counts[:r.TopN]
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Top %d values in %s", r.TopN, column)
	p.X.Label.Text = column
	p.Y.Label.Text = "Count"

	if len(counts) > 0 {
		values := make(plotter.Values, len(counts))
		names := make([]string, len(counts))
		for i, vc := range counts {
			values[i] = float64(vc.Count)
			names[i] = vc.Value
		}

		bars, err := plotter.NewBarChart(values, r.barWidth(len(counts)))
		if err != nil {
			return Artifact{}, fmt.Errorf("failed to chart %s: %w", column, err)
		}
		bars.Color = barFill
		bars.LineStyle.Width = 0
		p.Add(bars)
		p.NominalX(names...)
		p.X.Tick.Label.Rotation = math.Pi / 2
		p.X.Tick.Label.XAlign = draw.XRight
		p.X.Tick.Label.YAlign = draw.YCenter
	}

	path := r.path(column, KindBarChart)
	if err := r.save(p, path); err != nil {
		return Artifact{}, err
	}
	r.printf("✅ Saved bar chart: %s\n", path)
	return Artifact{Kind: KindBarChart, Column: column, Path: path}, nil
}

// FileName returns the image file name for a chart of column.
// Path separators in the column name are replaced by underscores.
func FileName(column string, kind ArtifactKind) string {
	safe := strings.NewReplacer("/", "_", `\`, "_").Replace(column)
	return safe + "_" + string(kind) + ".png"
}

func (r *Renderer) path(column string, kind ArtifactKind) string {
	return filepath.Join(r.Dir, FileName(column, kind))
}

// barWidth spreads n bars over half of the plot width.
func (r *Renderer) barWidth(n int) vg.Length {
	return vg.Length(r.Width) * vg.Inch / vg.Length(2*n+2)
}

func (r *Renderer) save(p *plot.Plot, path string) error {
	w := vg.Length(r.Width) * vg.Inch
	h := vg.Length(r.Height) * vg.Inch
	if err := p.Save(w, h, path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

func (r *Renderer) printf(format string, args ...any) {
	if r.Out == nil {
		return
	}
	fmt.Fprintf(r.Out, format, args...)
}
