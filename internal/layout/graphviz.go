package layout

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// DefaultEngine is the Graphviz binary used when none is configured. The
// graph description pins layout=neato, so the plain dot driver produces
// force-directed placement regardless.
const DefaultEngine = "dot"

// DefaultTimeout bounds a single engine invocation.
const DefaultTimeout = 10 * time.Second

// GraphvizProvider invokes a Graphviz binary as an external process,
// feeding it DOT text on stdin and reading the "plain" position report
// from stdout.
type GraphvizProvider struct {
	engine  string
	timeout time.Duration
}

// NewGraphvizProvider creates a provider running the given binary.
// Empty engine and zero timeout select the defaults.
func NewGraphvizProvider(engine string, timeout time.Duration) *GraphvizProvider {
	if engine == "" {
		engine = DefaultEngine
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &GraphvizProvider{engine: engine, timeout: timeout}
}

// Positions runs the engine with -Tplain and parses the report.
func (p *GraphvizProvider) Positions(ctx context.Context, graph string) (map[string]PlacedNode, error) {
	out, err := p.run(ctx, graph, "-Tplain")
	if err != nil {
		return nil, err
	}
	return parsePlain(bytes.NewReader(out)), nil
}

// Render runs the engine with -T<format> (png, svg, ...) and writes the
// raw output to w. Unlike the position path, render errors propagate:
// image export is an explicit user action, not a degradable fallback.
func (p *GraphvizProvider) Render(ctx context.Context, graph, format string, w io.Writer) error {
	out, err := p.run(ctx, graph, "-T"+format)
	if err != nil {
		return fmt.Errorf("render %s: %w", format, err)
	}
	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("write %s output: %w", format, err)
	}
	return nil
}

// run executes the engine with the graph on stdin and returns stdout.
func (p *GraphvizProvider) run(ctx context.Context, graph string, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, p.engine, args...)
	cmd.Stdin = strings.NewReader(graph)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("layout engine %s timed out after %v", p.engine, p.timeout)
		}
		return nil, fmt.Errorf("layout engine %s: %w (stderr: %s)", p.engine, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

// parsePlain reads Graphviz "plain" output. Only node lines matter:
//
//	node <name> <x> <y> <width> <height> ...
//
// Fields beyond the first six are ignored. Malformed node lines and all
// other record types (graph, edge, stop) are skipped, so a bad line costs
// one node's placement, never the whole report.
func parsePlain(r io.Reader) map[string]PlacedNode {
	placed := make(map[string]PlacedNode)

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 6 || fields[0] != "node" {
			continue
		}
		x, errX := strconv.ParseFloat(fields[2], 32)
		y, errY := strconv.ParseFloat(fields[3], 32)
		w, errW := strconv.ParseFloat(fields[4], 32)
		h, errH := strconv.ParseFloat(fields[5], 32)
		if errX != nil || errY != nil || errW != nil || errH != nil {
			continue
		}
		placed[fields[1]] = PlacedNode{
			X:      float32(x),
			Y:      float32(y),
			Width:  float32(w),
			Height: float32(h),
		}
	}
	return placed
}
