package main

import (
	"testing"

	"github.com/spikegrid/spikegrid/internal/config"
)

func TestBuildModel_Line(t *testing.T) {
	cfg := config.Default()
	cfg.Topology = config.TopologyConfig{Kind: "line", Count: 5}
	cfg.Simulation.Alpha = 0.2
	cfg.Simulation.Weight = 0.75

	m, label, err := buildModel(cfg)
	if err != nil {
		t.Fatalf("buildModel: %v", err)
	}
	if label != "line 5" {
		t.Errorf("label = %q, want %q", label, "line 5")
	}
	if m.NumNeurons() != 5 || m.NumSynapses() != 4 {
		t.Errorf("model = %d neurons / %d synapses, want 5 / 4", m.NumNeurons(), m.NumSynapses())
	}
	if m.Alpha() != 0.2 {
		t.Errorf("alpha = %v, want 0.2", m.Alpha())
	}
}

func TestBuildModel_Grid(t *testing.T) {
	cfg := config.Default()
	cfg.Topology = config.TopologyConfig{Kind: "grid", Rows: 3, Cols: 4}

	m, label, err := buildModel(cfg)
	if err != nil {
		t.Fatalf("buildModel: %v", err)
	}
	if label != "grid 3x4" {
		t.Errorf("label = %q, want %q", label, "grid 3x4")
	}
	if m.NumNeurons() != 12 {
		t.Errorf("neurons = %d, want 12", m.NumNeurons())
	}
}

func TestBuildModel_Empty(t *testing.T) {
	cfg := config.Default()
	cfg.Topology = config.TopologyConfig{Kind: "empty"}

	m, label, err := buildModel(cfg)
	if err != nil {
		t.Fatalf("buildModel: %v", err)
	}
	if label != "empty" || m.NumNeurons() != 0 || m.NumSynapses() != 0 {
		t.Errorf("got %q with %d neurons / %d synapses", label, m.NumNeurons(), m.NumSynapses())
	}
}

func TestBuildModel_UnknownKind(t *testing.T) {
	cfg := config.Default()
	cfg.Topology.Kind = "torus"

	if _, _, err := buildModel(cfg); err == nil {
		t.Fatal("expected error for unknown topology kind")
	}
}
