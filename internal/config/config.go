// Package config provides unified configuration loading for spikegrid.
// It supports loading from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config contains all spikegrid settings.
type Config struct {
	// Simulation contains the shared neuron and synapse parameters
	// applied to a freshly built model.
	Simulation SimulationConfig `yaml:"simulation"`

	// Topology selects the wiring built when a command needs a model.
	Topology TopologyConfig `yaml:"topology"`

	// Layout configures the external graph-layout engine.
	Layout LayoutConfig `yaml:"layout"`

	// Recording configures the SQLite run recorder.
	Recording RecordingConfig `yaml:"recording"`

	// Logging configures operational output.
	Logging LoggingConfig `yaml:"logging"`
}

// SimulationConfig holds the tunable LIF parameters.
type SimulationConfig struct {
	// Alpha is the per-step leak factor, applied as v *= 1-alpha.
	// Valid range (0, 1].
	Alpha float32 `yaml:"alpha"`

	// Threshold is the firing threshold assigned to every neuron.
	Threshold float32 `yaml:"threshold"`

	// Reset is the potential assigned after a spike.
	Reset float32 `yaml:"reset"`

	// RefractorySteps is the number of ticks a neuron stays ineligible
	// after firing.
	RefractorySteps int `yaml:"refractory_steps"`

	// Weight is the charge every synapse delivers on arrival.
	Weight float32 `yaml:"weight"`
}

// TopologyConfig selects the network wiring.
type TopologyConfig struct {
	// Kind is "line", "grid" or "empty".
	Kind string `yaml:"kind"`

	// Count is the chain length for "line".
	Count int `yaml:"count"`

	// Rows and Cols are the lattice shape for "grid".
	Rows int `yaml:"rows"`
	Cols int `yaml:"cols"`
}

// LayoutConfig configures the external layout engine invocation.
type LayoutConfig struct {
	// Engine is the Graphviz binary to run. Default: "dot".
	Engine string `yaml:"engine"`

	// Timeout bounds a single engine invocation.
	Timeout time.Duration `yaml:"timeout"`
}

// RecordingConfig configures run persistence.
type RecordingConfig struct {
	// Enabled turns on the SQLite recorder for simulation runs.
	Enabled bool `yaml:"enabled"`

	// Path is the SQLite database file. Default: spikegrid.db.
	Path string `yaml:"path"`
}

// LoggingConfig configures spikegrid's logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", or "trace".
	// "debug" enables per-tick spike tracing to a JSONL file.
	Level string `yaml:"level"`
}

// Default returns a Config with the simulator's built-in defaults.
func Default() *Config {
	return &Config{
		Simulation: SimulationConfig{
			Alpha:           0.1,
			Threshold:       1.0,
			Reset:           0.0,
			RefractorySteps: 2,
			Weight:          0.5,
		},
		Topology: TopologyConfig{
			Kind: "grid",
			Rows: 8,
			Cols: 8,
		},
		Layout: LayoutConfig{
			Engine:  "dot",
			Timeout: 10 * time.Second,
		},
		Recording: RecordingConfig{
			Enabled: false,
			Path:    "spikegrid.db",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from the default locations and environment
// variables. Order: defaults -> config file -> environment overrides.
// The file is $SPIKEGRID_CONFIG if set, else ./spikegrid.yaml, else
// ~/.spikegrid/config.yaml; a missing file is not an error.
func Load() (*Config, error) {
	path := os.Getenv("SPIKEGRID_CONFIG")
	if path == "" {
		for _, candidate := range configCandidates() {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
	}

	config := Default()
	if path != "" {
		fileConfig, err := LoadFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
		config = fileConfig
	}

	applyEnvOverrides(config)
	return config, nil
}

// LoadFromFile loads configuration from a specific YAML file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return config, nil
}

// Validate checks that the configuration is consistent.
func (c *Config) Validate() error {
	if !(c.Simulation.Alpha > 0 && c.Simulation.Alpha <= 1) {
		return fmt.Errorf("simulation.alpha must be in (0, 1], got %v", c.Simulation.Alpha)
	}
	if c.Simulation.RefractorySteps < 0 || c.Simulation.RefractorySteps > 65535 {
		return fmt.Errorf("simulation.refractory_steps must be in [0, 65535], got %d", c.Simulation.RefractorySteps)
	}

	switch c.Topology.Kind {
	case "line", "grid", "empty":
	default:
		return fmt.Errorf("invalid topology kind: %s (valid: line, grid, empty)", c.Topology.Kind)
	}
	if c.Topology.Count < 0 || c.Topology.Rows < 0 || c.Topology.Cols < 0 {
		return fmt.Errorf("topology sizes must be non-negative")
	}

	if c.Layout.Timeout < 0 {
		return fmt.Errorf("layout.timeout must be non-negative, got %v", c.Layout.Timeout)
	}

	validLevels := map[string]bool{"": true, "info": true, "debug": true, "trace": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: info, debug, trace, or empty for default)", c.Logging.Level)
	}

	return nil
}

// configCandidates returns the file locations probed by Load, in order.
func configCandidates() []string {
	candidates := []string{"spikegrid.yaml"}
	if homeDir, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(homeDir, ".spikegrid", "config.yaml"))
	}
	return candidates
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("SPIKEGRID_ALPHA"); v != "" {
		if f, err := strconv.ParseFloat(v, 32); err == nil {
			config.Simulation.Alpha = float32(f)
		}
	}
	if v := os.Getenv("SPIKEGRID_WEIGHT"); v != "" {
		if f, err := strconv.ParseFloat(v, 32); err == nil {
			config.Simulation.Weight = float32(f)
		}
	}
	if v := os.Getenv("SPIKEGRID_LAYOUT_ENGINE"); v != "" {
		config.Layout.Engine = v
	}
	if v := os.Getenv("SPIKEGRID_RECORD"); v != "" {
		config.Recording.Enabled = v == "true" || v == "1"
	}
	if v := os.Getenv("SPIKEGRID_RECORD_PATH"); v != "" {
		config.Recording.Path = v
	}
	if v := os.Getenv("SPIKEGRID_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
}
