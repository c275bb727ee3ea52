package pipeline

import (
	"io"
	"log/slog"

	"github.com/nao1215/csvinspect/internal/chart"
	"github.com/nao1215/csvinspect/internal/config"
	"github.com/nao1215/csvinspect/internal/dataset"
	"github.com/nao1215/csvinspect/internal/model"
	"github.com/nao1215/csvinspect/internal/report"
)

// Dependencies are the collaborators Build wires into the steps.
type Dependencies struct {
	// Status receives the status lines of each stage.
	Status io.Writer

	// Report writes each profile.
	Report report.Writer

	// Recorder stores the run when history is enabled. Nil disables the
	// history step.
	Recorder RunRecorder

	// Logger is shared by the pipeline and its steps.
	Logger *slog.Logger
}

// Build assembles the steps cfg asks for: load, profile, optionally drop
// incomplete rows and profile again, optionally save the table, render
// charts and optionally record the run.
func Build(cfg *config.Config, deps Dependencies) *Pipeline {
	if deps.Status == nil {
		deps.Status = io.Discard
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	p := New(WithLogger(deps.Logger))
	p.AddSteps(
		NewLoadStep(LoadOptions(cfg), deps.Status),
		NewProfileStep(model.StageLoaded, deps.Report, deps.Logger),
	)

	if cfg.DropMissing {
		p.AddSteps(
			NewDropMissingStep(deps.Status),
			NewProfileStep(model.StageCleaned, deps.Report, deps.Logger),
		)
	}

	if cfg.SaveCleaned {
		p.AddStep(NewSaveCleanedStep(deps.Status))
	}

	p.AddStep(NewVisualizeStep(Renderer(cfg, deps.Status)))

	if cfg.RecordHistory && deps.Recorder != nil {
		p.AddStep(NewHistoryStep(deps.Recorder))
	}

	return p
}

// LoadOptions returns the parsing options of cfg.
func LoadOptions(cfg *config.Config) dataset.LoadOptions {
	opts := dataset.DefaultLoadOptions()
	opts.Delimiter = cfg.Comma()
	if len(cfg.NAValues) > 0 {
		opts.NAValues = cfg.NAValues
	}
	return opts
}

// Renderer returns the chart renderer configured by cfg.
func Renderer(cfg *config.Config, out io.Writer) *chart.Renderer {
	r := chart.NewRenderer(cfg.ChartDir, out)
	r.Bins = cfg.Bins
	r.TopN = cfg.TopN
	r.Width = cfg.ChartWidth
	r.Height = cfg.ChartHeight
	return r
}
