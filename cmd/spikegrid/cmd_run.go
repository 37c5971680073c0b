package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spikegrid/spikegrid/internal/logging"
	"github.com/spikegrid/spikegrid/internal/recorder"
	"github.com/spikegrid/spikegrid/internal/sim"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a bounded simulation",
		Long: `Build the configured topology and advance it tick by tick.

Stimuli inject charge into a neuron before a given tick, in the form
tick:neuron:charge. The run streams per-tick activity at trace level
and can persist to the SQLite recorder.

Examples:
  spikegrid run --ticks 50 --stim 0:0:1.5
  spikegrid run --ticks 100 --stim 0:0:2 --stim 10:5:2 --record`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ticks, _ := cmd.Flags().GetInt("ticks")
			stimSpecs, _ := cmd.Flags().GetStringArray("stim")
			record, _ := cmd.Flags().GetBool("record")
			jsonOut, _ := cmd.Flags().GetBool("json")

			if ticks < 0 {
				return fmt.Errorf("--ticks must be non-negative, got %d", ticks)
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			model, label, err := buildModel(cfg)
			if err != nil {
				return err
			}

			stimuli, err := sim.ParseStimuli(stimSpecs)
			if err != nil {
				return err
			}

			logger := logging.NewLogger(cfg.Logging.Level, os.Stderr)
			trace := logging.NewTraceLogger("spikegrid-trace.jsonl", cfg.Logging.Level)
			defer trace.Close()

			opts := []sim.Option{
				sim.WithStimuli(stimuli),
				sim.WithTrace(trace),
			}
			if record || cfg.Recording.Enabled {
				rec, err := recorder.Open(cfg.Recording.Path)
				if err != nil {
					return err
				}
				defer rec.Close()
				opts = append(opts, sim.WithRecorder(rec))
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			runner := sim.NewRunner(model, logger, opts...)
			summary, err := runner.Run(ctx, ticks, label)
			if err != nil {
				return err
			}

			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(summary)
			}

			fmt.Printf("Run complete: %d ticks, %d spikes\n", summary.Ticks, summary.TotalSpikes)
			if summary.RunID != "" {
				fmt.Printf("Recorded as %s\n", summary.RunID)
			}
			for i, spikes := range summary.SpikesPerNeuron {
				if spikes > 0 {
					fmt.Printf("  neuron %d: %d spikes\n", i, spikes)
				}
			}
			return nil
		},
	}

	cmd.Flags().Int("ticks", 100, "Number of ticks to simulate")
	cmd.Flags().StringArray("stim", nil, "Stimulus as tick:neuron:charge (repeatable)")
	cmd.Flags().Bool("record", false, "Record the run to the SQLite database")

	return cmd
}
