package pipeline

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/nao1215/csvinspect/internal/model"
)

// mockStep is a test helper that implements the Step interface.
type mockStep struct {
	name      string
	doFunc    func(ctx context.Context, analysis *model.Analysis) error
	callCount int
}

// Do implements Step.Do.
func (m *mockStep) Do(ctx context.Context, analysis *model.Analysis) error {
	m.callCount++
	if m.doFunc != nil {
		return m.doFunc(ctx, analysis)
	}
	return nil
}

// Name implements Step.Name.
func (m *mockStep) Name() string {
	return m.name
}

// TestPipelineNew tests the Pipeline constructor.
func TestPipelineNew(t *testing.T) {
	t.Parallel()

	t.Run("creates pipeline with default settings", func(t *testing.T) {
		t.Parallel()

		p := New()
		if len(p.StepNames()) != 0 {
			t.Errorf("expected 0 steps, got %v", p.StepNames())
		}
		if p.logger == nil {
			t.Error("expected default logger")
		}
	})

	t.Run("applies WithLogger option", func(t *testing.T) {
		t.Parallel()

		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		if p := New(WithLogger(logger)); p.logger != logger {
			t.Error("expected custom logger")
		}
	})
}

// TestPipelineAddStep tests adding steps to the pipeline.
func TestPipelineAddStep(t *testing.T) {
	t.Parallel()

	p := New()
	p.AddStep(&mockStep{name: "first"})
	p.AddSteps(&mockStep{name: "second"}, &mockStep{name: "third"})

	names := p.StepNames()
	want := []string{"first", "second", "third"}
	if len(names) != len(want) {
		t.Fatalf("expected %d steps, got %d", len(want), len(names))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("step %d: expected %q, got %q", i, want[i], names[i])
		}
	}
}

// TestPipelineExecute tests step execution semantics.
func TestPipelineExecute(t *testing.T) {
	t.Parallel()

	t.Run("runs steps in order and records them", func(t *testing.T) {
		t.Parallel()

		var order []string
		record := func(name string) *mockStep {
			return &mockStep{name: name, doFunc: func(context.Context, *model.Analysis) error {
				order = append(order, name)
				return nil
			}}
		}

		p := New()
		p.AddSteps(record("a"), record("b"))
		analysis := model.NewAnalysis("data.csv")

		if err := p.Execute(context.Background(), analysis); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(order) != 2 || order[0] != "a" || order[1] != "b" {
			t.Errorf("unexpected order %v", order)
		}
		if len(analysis.PerformedSteps) != 2 {
			t.Errorf("expected 2 performed steps, got %v", analysis.PerformedSteps)
		}
		if analysis.FinishedAt.IsZero() {
			t.Error("expected finish time")
		}
	})

	t.Run("stops on first error", func(t *testing.T) {
		t.Parallel()

		wantErr := errors.New("boom")
		failing := &mockStep{name: "failing", doFunc: func(context.Context, *model.Analysis) error { return wantErr }}
		after := &mockStep{name: "after"}

		p := New()
		p.AddSteps(failing, after)
		analysis := model.NewAnalysis("data.csv")

		err := p.Execute(context.Background(), analysis)
		if !errors.Is(err, wantErr) {
			t.Fatalf("expected %v, got %v", wantErr, err)
		}
		if after.callCount != 0 {
			t.Error("expected later step to be skipped")
		}
		if analysis.ErrorMessage != "boom" {
			t.Errorf("expected error recorded, got %q", analysis.ErrorMessage)
		}
		if len(analysis.PerformedSteps) != 0 {
			t.Errorf("expected no performed steps, got %v", analysis.PerformedSteps)
		}
	})

	t.Run("logs step failures at debug level only", func(t *testing.T) {
		t.Parallel()

		failing := &mockStep{name: "failing", doFunc: func(context.Context, *model.Analysis) error {
			return errors.New("boom")
		}}

		var quiet, verbose bytes.Buffer
		for _, tc := range []struct {
			buf   *bytes.Buffer
			level slog.Level
		}{
			{buf: &quiet, level: slog.LevelInfo},
			{buf: &verbose, level: slog.LevelDebug},
		} {
			logger := slog.New(slog.NewTextHandler(tc.buf, &slog.HandlerOptions{Level: tc.level}))
			p := New(WithLogger(logger))
			p.AddStep(failing)
			_ = p.Execute(context.Background(), model.NewAnalysis("data.csv"))
		}

		if strings.Contains(quiet.String(), "step failed") {
			t.Errorf("expected no failure log above debug level, got:\n%s", quiet.String())
		}
		if strings.Contains(quiet.String(), "level=ERROR") {
			t.Errorf("expected no error level record, got:\n%s", quiet.String())
		}
		if !strings.Contains(verbose.String(), "step failed") {
			t.Errorf("expected failure log at debug level, got:\n%s", verbose.String())
		}
	})

	t.Run("respects cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		step := &mockStep{name: "never"}
		p := New()
		p.AddStep(step)

		err := p.Execute(ctx, model.NewAnalysis("data.csv"))
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
		if step.callCount != 0 {
			t.Error("expected step not to run")
		}
	})
}
