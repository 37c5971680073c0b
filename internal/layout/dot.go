package layout

import (
	"fmt"
	"strings"

	"github.com/spikegrid/spikegrid/internal/snn"
)

// RenderDOT produces the Graphviz description of a model's wiring: one
// point-shaped node per neuron (named n<index>) and one undirected-drawn
// edge per synapse in CSR order. The same description backs both the
// position query and static image export.
func RenderDOT(m *snn.Model) string {
	var b strings.Builder
	b.WriteString("digraph model {\n")
	b.WriteString("  layout=neato;\n")
	b.WriteString("  overlap=false;\n")
	b.WriteString("  splines=line;\n")
	b.WriteString("  mode=sgd;\n")
	b.WriteString("  node [shape=point];\n")

	for i := 0; i < m.NumNeurons(); i++ {
		fmt.Fprintf(&b, "  n%d;\n", i)
	}

	off := m.OutOffsets()
	recv := m.Receivers()
	for i := 0; i < m.NumNeurons(); i++ {
		for j := off[i]; j < off[i+1]; j++ {
			fmt.Fprintf(&b, "  n%d -> n%d [dir=none];\n", i, recv[j])
		}
	}

	b.WriteString("}\n")
	return b.String()
}
