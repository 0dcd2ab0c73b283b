package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	stdlog "log"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("invalid JSON line %q: %v", line, err)
		}
		entries = append(entries, m)
	}
	return entries
}

func TestZerologAdapterFields(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	l := NewZerologAdapter(zerolog.New(&buf).Level(zerolog.DebugLevel))

	l.Info("computed", String("algo", "fast"), Int("k", 10), Int64("value", 55),
		Uint64("n", 7), Float64("ratio", 0.5), Bool("cached", true), Duration("took", time.Millisecond))
	l.Warn("busy")
	l.Error("failed", errors.New("boom"), Err(errors.New("cause")))
	l.Debug("trace")
	l.Printf("k=%d", 3)
	l.Println("a", "b")

	entries := decodeLines(t, &buf)
	if len(entries) != 6 {
		t.Fatalf("got %d entries, want 6", len(entries))
	}
	first := entries[0]
	if first["message"] != "computed" || first["algo"] != "fast" || first["k"] != float64(10) || first["cached"] != true {
		t.Errorf("unexpected first entry %v", first)
	}
	if entries[1]["level"] != "warn" {
		t.Errorf("Warn logged at %v", entries[1]["level"])
	}
	if entries[2]["error"] == nil || entries[2]["level"] != "error" {
		t.Errorf("unexpected error entry %v", entries[2])
	}
	if entries[4]["message"] != "k=3" {
		t.Errorf("Printf message = %v", entries[4]["message"])
	}
}

func TestStdLoggerAdapter(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	l := NewStdLoggerAdapter(stdlog.New(&buf, "", 0))

	l.Info("started", String("addr", ":8080"))
	l.Error("stopped", errors.New("closed"))
	l.Debug("tick")
	l.Warn("slow", Int("ms", 12))

	want := "[INFO] started addr=:8080\n[ERROR] stopped: closed\n[DEBUG] tick\n[WARN] slow ms=12\n"
	if got := buf.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestNewLevels(t *testing.T) {
	t.Parallel()
	tests := []struct {
		level   string
		want    zerolog.Level
		wantErr bool
	}{
		{"", zerolog.WarnLevel, false},
		{"debug", zerolog.DebugLevel, false},
		{"INFO", zerolog.InfoLevel, false},
		{"disabled", zerolog.Disabled, false},
		{"loud", zerolog.NoLevel, true},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			t.Parallel()
			logger, closer, err := New(Options{Level: tt.level, Format: "json"}, &bytes.Buffer{})
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			defer closer.Close()
			if got := logger.GetLevel(); got != tt.want {
				t.Errorf("level = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewFormats(t *testing.T) {
	t.Parallel()
	var jsonBuf bytes.Buffer
	logger, _, err := New(Options{Level: "info", Format: "json"}, &jsonBuf)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info().Msg("hello")
	if entries := decodeLines(t, &jsonBuf); len(entries) != 1 || entries[0]["message"] != "hello" {
		t.Errorf("json output = %q", jsonBuf.String())
	}

	var consoleBuf bytes.Buffer
	logger, _, err = New(Options{Level: "info", Format: "console", NoColor: true}, &consoleBuf)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info().Msg("hello")
	if out := consoleBuf.String(); !strings.Contains(out, "INF") || !strings.Contains(out, "hello") {
		t.Errorf("console output = %q", out)
	}

	if _, _, err := New(Options{Format: "xml"}, &bytes.Buffer{}); err == nil {
		t.Error("unknown format accepted")
	}
}

func TestNewFileSink(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "fibdrv.log")
	var console bytes.Buffer
	logger, closer, err := New(Options{Level: "info", Format: "json", File: path}, &console)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info().Str("k", "10").Msg("written")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), `"message":"written"`) {
		t.Errorf("file content = %q", data)
	}
	if !strings.Contains(console.String(), "written") {
		t.Errorf("console missed the entry: %q", console.String())
	}
}

func TestDefaultOptions(t *testing.T) {
	t.Parallel()
	opts := DefaultOptions()
	if opts.Level != "warn" || opts.Format != "console" || opts.File != "" {
		t.Errorf("DefaultOptions() = %+v", opts)
	}
}
