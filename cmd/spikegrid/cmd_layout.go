package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spikegrid/spikegrid/internal/layout"
)

func newLayoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Compute 2-D positions for the configured topology",
		Long: `Build the configured topology and derive neuron and synapse
positions via the external Graphviz engine.

If the engine is missing or fails, positions fall back to zeroed
geometry instead of erroring.

Formats:
  json   positions as JSON (default)
  dot    the DOT source sent to the engine
  plain  the engine's raw plain-format output`,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			model, _, err := buildModel(cfg)
			if err != nil {
				return err
			}

			dot := layout.RenderDOT(model)
			if format == "dot" {
				fmt.Print(dot)
				return nil
			}

			provider := layout.NewGraphvizProvider(cfg.Layout.Engine, cfg.Layout.Timeout)
			ctx := context.Background()

			if format == "plain" {
				return provider.Render(ctx, dot, "plain", os.Stdout)
			}
			if format != "json" {
				return fmt.Errorf("unknown format: %s (valid: json, dot, plain)", format)
			}

			adapter := layout.NewAdapter(provider)
			neurons, synapses := adapter.Layout(ctx, model)

			return json.NewEncoder(os.Stdout).Encode(map[string]any{
				"neurons":  neurons,
				"synapses": synapses,
			})
		},
	}

	cmd.Flags().String("format", "json", "Output format (json, dot, plain)")

	return cmd
}
