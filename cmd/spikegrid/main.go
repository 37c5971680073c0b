package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spikegrid/spikegrid/internal/config"
	"github.com/spikegrid/spikegrid/internal/snn"
)

var version = "0.1.0-dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "spikegrid",
		Short: "Spikegrid - sparse spiking network simulator",
		Long: `spikegrid simulates leaky-integrate-and-fire neurons wired through
sparse synapses in discrete time steps.

It builds line and grid topologies, runs deterministic tick-by-tick
simulations with scheduled stimuli, records runs to SQLite, and lays
networks out in 2-D via Graphviz for rendering.`,
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")
	rootCmd.PersistentFlags().String("config", "", "Config file (default: $SPIKEGRID_CONFIG, ./spikegrid.yaml)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newRunCmd(),
		newLayoutCmd(),
		newExportCmd(),
		newRunsCmd(),
		newConfigCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				json.NewEncoder(os.Stdout).Encode(map[string]string{"version": version})
			} else {
				fmt.Printf("spikegrid version %s\n", version)
			}
		},
	}
}

// loadConfig loads configuration honoring the --config flag, then
// validates it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")

	var cfg *config.Config
	var err error
	if path != "" {
		cfg, err = config.LoadFromFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// buildModel constructs the configured topology and applies the shared
// simulation parameters. It returns the model and a short topology label.
func buildModel(cfg *config.Config) (*snn.Model, string, error) {
	var m *snn.Model
	var label string

	switch cfg.Topology.Kind {
	case "line":
		m = snn.Line(cfg.Topology.Count)
		label = fmt.Sprintf("line %d", cfg.Topology.Count)
	case "grid":
		m = snn.Grid(cfg.Topology.Rows, cfg.Topology.Cols)
		label = fmt.Sprintf("grid %dx%d", cfg.Topology.Rows, cfg.Topology.Cols)
	case "empty":
		m = snn.Empty()
		label = "empty"
	default:
		return nil, "", fmt.Errorf("unknown topology kind: %s", cfg.Topology.Kind)
	}

	if err := m.SetAlpha(cfg.Simulation.Alpha); err != nil {
		return nil, "", err
	}
	m.SetRefracLen(uint16(cfg.Simulation.RefractorySteps))
	m.SetWeightAll(cfg.Simulation.Weight)
	for i := 0; i < m.NumNeurons(); i++ {
		if err := m.SetThreshold(i, cfg.Simulation.Threshold); err != nil {
			return nil, "", err
		}
		if err := m.SetResetValue(i, cfg.Simulation.Reset); err != nil {
			return nil, "", err
		}
	}
	return m, label, nil
}
