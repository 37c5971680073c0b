package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spikegrid/spikegrid/internal/recorder"
)

func newRunsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs [run-id]",
		Short: "List recorded runs or show one run's tick samples",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			if _, err := os.Stat(cfg.Recording.Path); os.IsNotExist(err) {
				if jsonOut {
					return json.NewEncoder(os.Stdout).Encode(map[string]any{"runs": []any{}, "count": 0})
				}
				fmt.Println("No runs recorded yet. Use 'spikegrid run --record' first.")
				return nil
			}

			rec, err := recorder.Open(cfg.Recording.Path)
			if err != nil {
				return err
			}
			defer rec.Close()

			ctx := context.Background()
			if len(args) == 1 {
				return showRun(ctx, rec, args[0], jsonOut)
			}

			runs, err := rec.ListRuns(ctx)
			if err != nil {
				return err
			}

			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(map[string]any{
					"runs":  runs,
					"count": len(runs),
				})
			}

			if len(runs) == 0 {
				fmt.Println("No runs recorded yet.")
				return nil
			}
			fmt.Printf("Recorded runs (%d):\n\n", len(runs))
			for i, run := range runs {
				fmt.Printf("%d. %s\n", i+1, run.ID)
				fmt.Printf("   Topology: %s (%d neurons, %d synapses)\n", run.Topology, run.Neurons, run.Synapses)
				fmt.Printf("   Started:  %s\n", run.StartedAt.Format(time.RFC3339))
				if run.FinishedAt != nil {
					fmt.Printf("   Result:   %d ticks, %d spikes\n", run.Ticks, run.TotalSpikes)
				} else {
					fmt.Println("   Result:   incomplete")
				}
				fmt.Println()
			}
			return nil
		},
	}

	return cmd
}

func showRun(ctx context.Context, rec *recorder.Recorder, runID string, jsonOut bool) error {
	samples, err := rec.Samples(ctx, runID)
	if err != nil {
		return err
	}

	if jsonOut {
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"run_id":  runID,
			"samples": samples,
			"count":   len(samples),
		})
	}

	if len(samples) == 0 {
		fmt.Printf("No samples for run %s.\n", runID)
		return nil
	}
	fmt.Printf("Run %s (%d ticks):\n\n", runID, len(samples))
	fmt.Println("  tick  spikes  armed    mean_v     max_v")
	for _, s := range samples {
		fmt.Printf("  %4d  %6d  %5d  %8.4f  %8.4f\n", s.Tick, s.Spikes, s.Armed, s.MeanV, s.MaxV)
	}
	return nil
}
