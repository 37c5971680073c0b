package layout

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestParsePlain_NodeLine(t *testing.T) {
	report := "graph 1 4.0 4.0\n" +
		"node n3 12.5 7.0 0.8 0.8 \"\" solid point black black\n" +
		"edge n0 n3 2 0.0 0.0 12.5 7.0 solid black\n" +
		"stop\n"

	placed := parsePlain(strings.NewReader(report))

	node, ok := placed["n3"]
	if !ok {
		t.Fatalf("n3 missing from parsed report: %v", placed)
	}
	if node.X != 12.5 || node.Y != 7.0 {
		t.Errorf("n3 at (%v, %v), want (12.5, 7.0)", node.X, node.Y)
	}
	if node.Width != 0.8 || node.Height != 0.8 {
		t.Errorf("n3 size (%v, %v), want (0.8, 0.8)", node.Width, node.Height)
	}
}

func TestParsePlain_TrailingFieldsIgnored(t *testing.T) {
	// Exactly the five mandatory fields after the keyword, plus a
	// trailing space; everything past height is optional.
	placed := parsePlain(strings.NewReader("node n3 12.5 7.0 0.8 0.8 \n"))
	if got := placed["n3"]; got.X != 12.5 || got.Y != 7.0 || got.Width != 0.8 {
		t.Errorf("parsed n3 = %+v", got)
	}
}

func TestParsePlain_SkipsMalformedLines(t *testing.T) {
	report := strings.Join([]string{
		"node n0 not-a-number 1.0 0.5 0.5",
		"node n1 1.0 2.0",      // too few fields
		"node",                 // keyword only
		"nodule n2 1 2 3 4",    // unknown record type
		"node n3 3.0 4.0 1 1",  // good
		"",
	}, "\n")

	placed := parsePlain(strings.NewReader(report))

	if len(placed) != 1 {
		t.Fatalf("parsed %d nodes, want only the well-formed one: %v", len(placed), placed)
	}
	if _, ok := placed["n3"]; !ok {
		t.Errorf("n3 missing: %v", placed)
	}
}

func TestGraphvizProvider_MissingBinaryFails(t *testing.T) {
	p := NewGraphvizProvider("spikegrid-test-no-such-engine", time.Second)
	if _, err := p.Positions(context.Background(), "digraph model {}"); err == nil {
		t.Fatal("expected error for missing engine binary")
	}
}

func TestGraphvizProvider_Defaults(t *testing.T) {
	p := NewGraphvizProvider("", 0)
	if p.engine != DefaultEngine {
		t.Errorf("engine = %q, want %q", p.engine, DefaultEngine)
	}
	if p.timeout != DefaultTimeout {
		t.Errorf("timeout = %v, want %v", p.timeout, DefaultTimeout)
	}
}
