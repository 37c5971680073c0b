package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spikegrid/spikegrid/internal/layout"
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <output-file>",
		Short: "Render the configured topology to an image",
		Long: `Render the network through the Graphviz engine to an image file.
The format is taken from the output file extension (svg, png, pdf).

Examples:
  spikegrid export network.svg
  spikegrid export network.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := args[0]
			jsonOut, _ := cmd.Flags().GetBool("json")

			format := strings.TrimPrefix(filepath.Ext(out), ".")
			switch format {
			case "svg", "png", "pdf":
			case "":
				return fmt.Errorf("output file needs an extension: %s", out)
			default:
				return fmt.Errorf("unsupported image format: %s (valid: svg, png, pdf)", format)
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			model, label, err := buildModel(cfg)
			if err != nil {
				return err
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create output file: %w", err)
			}
			defer f.Close()

			provider := layout.NewGraphvizProvider(cfg.Layout.Engine, cfg.Layout.Timeout)
			dot := layout.RenderDOT(model)
			if err := provider.Render(context.Background(), dot, format, f); err != nil {
				os.Remove(out)
				return err
			}

			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(map[string]any{
					"status":   "exported",
					"path":     out,
					"format":   format,
					"topology": label,
					"neurons":  model.NumNeurons(),
					"synapses": model.NumSynapses(),
				})
			}
			fmt.Printf("Exported %s (%s) to %s\n", label, format, out)
			return nil
		},
	}

	return cmd
}
