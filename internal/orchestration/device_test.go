package orchestration

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/agbru/fibdrv/internal/config"
	"github.com/agbru/fibdrv/internal/fibdrv"
)

func TestRunDeviceMode(t *testing.T) {
	t.Parallel()
	tests := []struct {
		mode      string
		offset    int64
		wantLines int
		wantFirst string
	}{
		{config.ModeRead, 5, 6, "Reading from device at offset 0, returned the sequence 0."},
		{config.ModePlot, 3, 4, "0 "},
		{config.ModeStat, 2, 3, "0 "},
	}
	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			cfg := config.AppConfig{Mode: tt.mode, Offset: tt.offset, Samples: 3, CPU: -1}
			if err := RunDeviceMode(context.Background(), cfg, fibdrv.New(), &buf); err != nil {
				t.Fatalf("RunDeviceMode: %v", err)
			}
			lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
			if len(lines) != tt.wantLines {
				t.Fatalf("got %d lines, want %d:\n%s", len(lines), tt.wantLines, buf.String())
			}
			if !strings.HasPrefix(lines[0], tt.wantFirst) {
				t.Errorf("first line = %q, want prefix %q", lines[0], tt.wantFirst)
			}
		})
	}
}

func TestRunDeviceModeBusy(t *testing.T) {
	t.Parallel()
	dev := fibdrv.New()
	held, err := dev.Open()
	if err != nil {
		t.Fatal(err)
	}
	defer held.Close()

	err = RunDeviceMode(context.Background(), config.AppConfig{Mode: config.ModeRead, Offset: 1}, dev, &bytes.Buffer{})
	if !errors.Is(err, fibdrv.ErrBusy) {
		t.Errorf("expected ErrBusy, got %v", err)
	}
}

func TestRunDeviceModeRejectsCalc(t *testing.T) {
	t.Parallel()
	if err := RunDeviceMode(context.Background(), config.AppConfig{Mode: config.ModeCalc}, fibdrv.New(), &bytes.Buffer{}); err == nil {
		t.Error("expected an error for calc mode")
	}
}
