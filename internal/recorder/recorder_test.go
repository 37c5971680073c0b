package recorder

import (
	"context"
	"path/filepath"
	"testing"
)

// openRecorder creates a Recorder in an isolated temp directory.
func openRecorder(t *testing.T) *Recorder {
	t.Helper()
	r, err := Open(filepath.Join(t.TempDir(), "spikegrid.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func TestRecorder_RoundTrip(t *testing.T) {
	r := openRecorder(t)
	ctx := context.Background()

	id, err := r.Begin(ctx, "line 4", 4, 3)
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if id == "" {
		t.Fatal("Begin returned empty run ID")
	}

	samples := []TickSample{
		{Tick: 0, Spikes: 1, Armed: 1, MeanV: 0.45, MaxV: 1.8},
		{Tick: 1, Spikes: 0, Armed: 0, MeanV: 0.12, MaxV: 0.5},
	}
	for _, s := range samples {
		if err := r.RecordTick(ctx, id, s); err != nil {
			t.Fatalf("RecordTick(%d): %v", s.Tick, err)
		}
	}

	if err := r.Finish(ctx, id, 2, 1); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	runs, err := r.ListRuns(ctx)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1", len(runs))
	}
	run := runs[0]
	if run.ID != id || run.Topology != "line 4" || run.Neurons != 4 || run.Synapses != 3 {
		t.Errorf("run = %+v", run)
	}
	if run.Ticks != 2 || run.TotalSpikes != 1 {
		t.Errorf("run totals = %d ticks / %d spikes, want 2 / 1", run.Ticks, run.TotalSpikes)
	}
	if run.FinishedAt == nil {
		t.Error("finished run missing FinishedAt")
	}

	got, err := r.Samples(ctx, id)
	if err != nil {
		t.Fatalf("Samples: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d samples, want 2", len(got))
	}
	if got[0] != samples[0] || got[1] != samples[1] {
		t.Errorf("samples = %+v, want %+v", got, samples)
	}
}

func TestRecorder_UnfinishedRun(t *testing.T) {
	r := openRecorder(t)
	ctx := context.Background()

	if _, err := r.Begin(ctx, "grid 2x2", 4, 8); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	runs, err := r.ListRuns(ctx)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1", len(runs))
	}
	if runs[0].FinishedAt != nil {
		t.Error("unfinished run should have nil FinishedAt")
	}
}

func TestRecorder_DuplicateTickRejected(t *testing.T) {
	r := openRecorder(t)
	ctx := context.Background()

	id, err := r.Begin(ctx, "line 2", 2, 1)
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := r.RecordTick(ctx, id, TickSample{Tick: 0}); err != nil {
		t.Fatalf("RecordTick: %v", err)
	}
	if err := r.RecordTick(ctx, id, TickSample{Tick: 0}); err == nil {
		t.Error("expected primary key violation for duplicate tick")
	}
}
