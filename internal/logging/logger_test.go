package logging

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want slog.Level
	}{
		{"info", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"trace", LevelTrace},
		{"Trace", LevelTrace},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tc := range cases {
		if got := ParseLevel(tc.in); got != tc.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestNewLogger_LevelGating(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("info", &buf)

	logger.Debug("hidden")
	logger.Info("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("debug message leaked at info level")
	}
	if !strings.Contains(out, "shown") {
		t.Error("info message missing")
	}
}

func TestNewLogger_TraceLevelLabel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("trace", &buf)

	logger.Log(context.Background(), LevelTrace, "tick detail")

	if !strings.Contains(buf.String(), "TRACE") {
		t.Errorf("trace level not labeled: %s", buf.String())
	}
}

func TestTraceLogger_NilSafe(t *testing.T) {
	var tl *TraceLogger
	tl.Log(map[string]any{"tick": 1}) // must not panic
	tl.Close()
}

func TestTraceLogger_InfoLevelDisabled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.jsonl")
	if tl := NewTraceLogger(path, "info"); tl != nil {
		t.Error("trace logger should be nil at info level")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("no trace file should be created at info level")
	}
}

func TestTraceLogger_WritesJSONL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.jsonl")
	tl := NewTraceLogger(path, "debug")
	if tl == nil {
		t.Fatal("trace logger should be active at debug level")
	}

	tl.Log(map[string]any{"tick": 3, "spikes": 2})
	tl.Log(map[string]any{"tick": 4, "spikes": 0})
	tl.Close()

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open trace file: %v", err)
	}
	defer f.Close()

	var lines int
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines++
		var entry map[string]any
		if err := json.Unmarshal(sc.Bytes(), &entry); err != nil {
			t.Fatalf("line %d not valid JSON: %v", lines, err)
		}
		if _, ok := entry["time"]; !ok {
			t.Errorf("line %d missing time field: %v", lines, entry)
		}
	}
	if lines != 2 {
		t.Errorf("got %d trace lines, want 2", lines)
	}
}
