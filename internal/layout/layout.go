// Package layout derives 2-D render geometry for a spiking network by
// handing its adjacency to an external graph-layout engine and parsing
// the textual position report that comes back. The engine is abstracted
// behind the Provider interface so a native placement algorithm can be
// substituted without touching the model contract.
package layout

import (
	"context"
	"fmt"

	"goki.dev/mat32/v2"

	"github.com/spikegrid/spikegrid/internal/snn"
)

// NeuronPosition is the placed geometry of one neuron.
type NeuronPosition struct {
	Center mat32.Vec2 `json:"center"`
	Radius float32    `json:"radius"`
}

// SynapsePosition is a straight segment between two neuron centers.
type SynapsePosition struct {
	End1 mat32.Vec2 `json:"end1"`
	End2 mat32.Vec2 `json:"end2"`
}

// PlacedNode is one node's placement as reported by a layout engine.
type PlacedNode struct {
	X, Y          float32
	Width, Height float32
}

// Provider turns a graph description into named node placements.
// Implementations may fail; the Adapter absorbs failure.
type Provider interface {
	Positions(ctx context.Context, graph string) (map[string]PlacedNode, error)
}

// Adapter maps a Model's adjacency to renderable positions through a
// Provider. On any provider failure it degrades to zeroed geometry
// instead of surfacing an error: visualization should never crash the
// simulation driver.
type Adapter struct {
	provider Provider
}

// NewAdapter creates an Adapter backed by the given provider.
func NewAdapter(p Provider) *Adapter {
	return &Adapter{provider: p}
}

// Layout computes neuron centers/radii and synapse endpoint pairs for the
// model. Neuron positions are indexed by neuron; synapse positions follow
// CSR order. Nodes missing from the engine's report keep the zero
// position, and a failed engine invocation yields all-zero geometry.
func (a *Adapter) Layout(ctx context.Context, m *snn.Model) ([]NeuronPosition, []SynapsePosition) {
	neurons := make([]NeuronPosition, m.NumNeurons())
	synapses := make([]SynapsePosition, m.NumSynapses())

	placed, err := a.provider.Positions(ctx, RenderDOT(m))
	if err == nil {
		for i := range neurons {
			node, ok := placed[fmt.Sprintf("n%d", i)]
			if !ok {
				continue
			}
			neurons[i] = NeuronPosition{
				Center: mat32.NewVec2(node.X, node.Y),
				Radius: mat32.Max(node.Width, node.Height) / 2,
			}
		}
	}

	// Synapse endpoints are derived strictly from the endpoint neurons'
	// centers, so after a provider failure every segment is zero-length.
	off := m.OutOffsets()
	recv := m.Receivers()
	for i := 0; i < m.NumNeurons(); i++ {
		for j := off[i]; j < off[i+1]; j++ {
			end2 := mat32.Vec2{}
			if int(recv[j]) < len(neurons) {
				end2 = neurons[recv[j]].Center
			}
			synapses[j] = SynapsePosition{
				End1: neurons[i].Center,
				End2: end2,
			}
		}
	}

	return neurons, synapses
}
