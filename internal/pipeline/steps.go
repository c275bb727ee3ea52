package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/nao1215/csvinspect/internal/chart"
	"github.com/nao1215/csvinspect/internal/dataset"
	"github.com/nao1215/csvinspect/internal/model"
	"github.com/nao1215/csvinspect/internal/profile"
	"github.com/nao1215/csvinspect/internal/report"
)

// Step names as recorded in model.Analysis.PerformedSteps.
const (
	StepLoad        = "load"
	StepProfile     = "profile"
	StepDropMissing = "dropna"
	StepSaveCleaned = "saveclean"
	StepVisualize   = "visualize"
	StepHistory     = "history"
)

// ErrNoTable is returned by steps that need a table when none was loaded.
var ErrNoTable = errors.New("no table loaded")

// LoadStep reads the input file into the analysis.
type LoadStep struct {
	opts dataset.LoadOptions
	out  io.Writer
}

// NewLoadStep creates a step loading the analysis source with opts.
// The success line is written to out.
func NewLoadStep(opts dataset.LoadOptions, out io.Writer) *LoadStep {
	return &LoadStep{opts: opts, out: out}
}

// Name returns the step name.
func (s *LoadStep) Name() string { return StepLoad }

// Do executes the load step.
func (s *LoadStep) Do(_ context.Context, a *model.Analysis) error {
	t, err := dataset.Load(a.SourcePath, s.opts)
	if err != nil {
		return err
	}
	a.Table = t
	fmt.Fprint(s.out, "\n✅ File loaded successfully!\n\n")
	return nil
}

// ProfileStep profiles the current table and writes the result.
type ProfileStep struct {
	stage  string
	writer report.Writer
	logger *slog.Logger
}

// NewProfileStep creates a step that records the profile under stage and
// writes it with w.
func NewProfileStep(stage string, w report.Writer, logger *slog.Logger) *ProfileStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProfileStep{stage: stage, writer: w, logger: logger}
}

// Name returns the step name.
func (s *ProfileStep) Name() string { return StepProfile + ":" + s.stage }

// Do executes the profile step.
func (s *ProfileStep) Do(_ context.Context, a *model.Analysis) error {
	if a.Table == nil {
		return ErrNoTable
	}

	p := profile.Compute(a.Table)
	a.AddProfile(s.stage, p)
	s.logTopValues(p)

	if _, err := s.writer.Write(p); err != nil {
		return fmt.Errorf("failed to write profile: %w", err)
	}
	return nil
}

// logTopValues logs the most frequent value of each non-numeric column,
// keyed by column name so sensitive columns are masked by the handler.
func (s *ProfileStep) logTopValues(p *profile.Profile) {
	for _, c := range p.Columns {
		if c.Top == nil {
			continue
		}
		s.logger.Debug("most frequent value",
			"stage", s.stage,
			"column", c.Name,
			c.Name, *c.Top,
		)
	}
}

// DropMissingStep replaces the table by its rows without missing cells.
type DropMissingStep struct {
	out io.Writer
}

// NewDropMissingStep creates the row cleaning step.
func NewDropMissingStep(out io.Writer) *DropMissingStep {
	return &DropMissingStep{out: out}
}

// Name returns the step name.
func (s *DropMissingStep) Name() string { return StepDropMissing }

// Do executes the drop step.
func (s *DropMissingStep) Do(_ context.Context, a *model.Analysis) error {
	if a.Table == nil {
		return ErrNoTable
	}
	before := a.Table.Rows()
	a.Table = a.Table.DropMissing()
	a.DroppedRows = before - a.Table.Rows()
	fmt.Fprintln(s.out, "\n🧹 Dropped rows with missing values.")
	return nil
}

// SaveCleanedStep writes the current table next to the source file.
type SaveCleanedStep struct {
	out io.Writer
}

// NewSaveCleanedStep creates the save step.
func NewSaveCleanedStep(out io.Writer) *SaveCleanedStep {
	return &SaveCleanedStep{out: out}
}

// Name returns the step name.
func (s *SaveCleanedStep) Name() string { return StepSaveCleaned }

// Do executes the save step.
func (s *SaveCleanedStep) Do(_ context.Context, a *model.Analysis) error {
	if a.Table == nil {
		return ErrNoTable
	}
	path := dataset.CleanedPath(a.SourcePath)
	if err := a.Table.Save(path); err != nil {
		return err
	}
	a.CleanedPath = path
	fmt.Fprintf(s.out, "\n✅ Cleaned data saved as: %s\n", path)
	return nil
}

// VisualizeStep renders the charts of the current table.
type VisualizeStep struct {
	renderer *chart.Renderer
}

// NewVisualizeStep creates the chart step.
func NewVisualizeStep(r *chart.Renderer) *VisualizeStep {
	return &VisualizeStep{renderer: r}
}

// Name returns the step name.
func (s *VisualizeStep) Name() string { return StepVisualize }

// Do executes the chart step.
func (s *VisualizeStep) Do(_ context.Context, a *model.Analysis) error {
	if a.Table == nil {
		return ErrNoTable
	}
	artifacts, err := s.renderer.RenderAll(a.Table)
	a.Charts = append(a.Charts, artifacts...)
	return err
}

// RunRecorder persists a finished analysis.
type RunRecorder interface {
	SaveRun(ctx context.Context, a *model.Analysis) error
}

// HistoryStep fingerprints the source file and records the run.
type HistoryStep struct {
	recorder RunRecorder
}

// NewHistoryStep creates the history step.
func NewHistoryStep(recorder RunRecorder) *HistoryStep {
	return &HistoryStep{recorder: recorder}
}

// Name returns the step name.
func (s *HistoryStep) Name() string { return StepHistory }

// Do executes the history step.
func (s *HistoryStep) Do(ctx context.Context, a *model.Analysis) error {
	fingerprint, err := dataset.Fingerprint(a.SourcePath)
	if err != nil {
		return err
	}
	a.Fingerprint = fingerprint
	if err := s.recorder.SaveRun(ctx, a); err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}
