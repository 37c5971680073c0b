package layout

import (
	"strings"
	"testing"

	"github.com/spikegrid/spikegrid/internal/snn"
)

func TestRenderDOT_Line(t *testing.T) {
	dot := RenderDOT(snn.Line(3))

	for _, want := range []string{
		"digraph model {",
		"layout=neato;",
		"overlap=false;",
		"splines=line;",
		"mode=sgd;",
		"node [shape=point];",
		"n0;",
		"n1;",
		"n2;",
		"n0 -> n1 [dir=none];",
		"n1 -> n2 [dir=none];",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}

	if strings.Contains(dot, "n2 ->") {
		t.Errorf("last neuron of a line must have no outgoing edges:\n%s", dot)
	}
}

func TestRenderDOT_EdgeOrderFollowsCSR(t *testing.T) {
	dot := RenderDOT(snn.Grid(2, 2))

	// Cell 0's edges (down then right) must appear before cell 1's.
	idx := func(s string) int { return strings.Index(dot, s) }
	order := []string{
		"n0 -> n2", "n0 -> n1",
		"n1 -> n3", "n1 -> n0",
		"n2 -> n0", "n2 -> n3",
		"n3 -> n1", "n3 -> n2",
	}
	last := -1
	for _, edge := range order {
		pos := idx(edge)
		if pos < 0 {
			t.Fatalf("DOT missing edge %q:\n%s", edge, dot)
		}
		if pos < last {
			t.Errorf("edge %q out of CSR order:\n%s", edge, dot)
		}
		last = pos
	}
}

func TestRenderDOT_Empty(t *testing.T) {
	dot := RenderDOT(snn.Empty())
	if !strings.HasPrefix(dot, "digraph model {") || !strings.HasSuffix(dot, "}\n") {
		t.Errorf("empty model DOT malformed:\n%s", dot)
	}
	if strings.Contains(dot, "->") {
		t.Errorf("empty model DOT has edges:\n%s", dot)
	}
}
