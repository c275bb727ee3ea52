package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/nao1215/csvinspect/internal/chart"
	"github.com/nao1215/csvinspect/internal/dataset"
	"github.com/nao1215/csvinspect/internal/profile"
)

// Profile stages recorded in an Analysis.
const (
	// StageLoaded labels the profile of the table as loaded.
	StageLoaded = "loaded"
	// StageCleaned labels the profile taken after dropping incomplete rows.
	StageCleaned = "cleaned"
)

// StageProfile is a profile taken at one point of the pipeline.
type StageProfile struct {
	Stage   string           `json:"stage"`
	Profile *profile.Profile `json:"profile"`
}

// Analysis is the record of one csvinspect run.
// It is created before the pipeline starts and filled in by each step.
type Analysis struct {
	// ID uniquely identifies the run in the history database.
	ID uuid.UUID `json:"id"`

	// SourcePath is the input file path as given by the user.
	SourcePath string `json:"source_path"`

	// Fingerprint is the SHA3-256 digest of the input file.
	Fingerprint string `json:"fingerprint,omitempty"`

	// StartedAt and FinishedAt bound the run.
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at,omitzero"`

	// Table is the current table: the loaded one, or the cleaned one
	// once missing rows were dropped.
	Table *dataset.Table `json:"-"`

	// Profiles holds every profile taken, in order.
	Profiles []StageProfile `json:"profiles,omitempty"`

	// DroppedRows is the number of rows removed by cleaning.
	DroppedRows int `json:"dropped_rows"`

	// CleanedPath is where the cleaned table was saved, if it was.
	CleanedPath string `json:"cleaned_path,omitempty"`

	// Charts lists the image files written.
	Charts []chart.Artifact `json:"charts,omitempty"`

	// PerformedSteps lists the names of the steps that completed.
	PerformedSteps []string `json:"performed_steps,omitempty"`

	// Error is the error that stopped the pipeline, if any.
	Error error `json:"-"`

	// ErrorMessage is Error as text for serialization.
	ErrorMessage string `json:"error,omitempty"` //nolint:tagliatelle // error is conventional
}

// NewAnalysis creates an Analysis of the file at sourcePath with a new run ID.
func NewAnalysis(sourcePath string) *Analysis {
	return &Analysis{
		ID:         uuid.New(),
		SourcePath: sourcePath,
		StartedAt:  time.Now(),
	}
}

// AddProfile records p under stage.
func (a *Analysis) AddProfile(stage string, p *profile.Profile) {
	a.Profiles = append(a.Profiles, StageProfile{Stage: stage, Profile: p})
}

// Profile returns the profile recorded for stage, or nil.
func (a *Analysis) Profile(stage string) *profile.Profile {
	for _, sp := range a.Profiles {
		if sp.Stage == stage {
			return sp.Profile
		}
	}
	return nil
}

// LatestProfile returns the most recent profile, or nil if none was taken.
func (a *Analysis) LatestProfile() *profile.Profile {
	if len(a.Profiles) == 0 {
		return nil
	}
	return a.Profiles[len(a.Profiles)-1].Profile
}

// MarkStep records that the named step completed.
func (a *Analysis) MarkStep(name string) {
	a.PerformedSteps = append(a.PerformedSteps, name)
}

// Fail records err as the reason the run stopped.
func (a *Analysis) Fail(err error) {
	a.Error = err
	if err != nil {
		a.ErrorMessage = err.Error()
	}
}

// Finish stamps the end time of the run.
func (a *Analysis) Finish() {
	a.FinishedAt = time.Now()
}

// Succeeded reports whether the run completed without error.
func (a *Analysis) Succeeded() bool {
	return a.Error == nil
}
