package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/agbru/fibdrv/internal/bignum"
	"github.com/agbru/fibdrv/internal/ui"
)

func TestWriteResultToFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "f100.txt")
	result := mustParse(t, "354224848179261915075")

	err := WriteResultToFile(result, 100, 3*time.Millisecond, "fast", OutputConfig{OutputFile: path})
	if err != nil {
		t.Fatalf("WriteResultToFile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	content := string(data)
	for _, want := range []string{
		"# Algorithm: fast",
		"# K: 100",
		"# Bits: 69",
		"# Digits: 21",
		"F(100) =\n354224848179261915075\n",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("file missing %q:\n%s", want, content)
		}
	}
}

func TestWriteResultToFile_NoPath(t *testing.T) {
	t.Parallel()
	if err := WriteResultToFile(bignum.NewInt(1), 1, 0, "fast", OutputConfig{}); err != nil {
		t.Errorf("expected no-op, got %v", err)
	}
}

func TestWriteResultToFile_BadDirectory(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	err := WriteResultToFile(bignum.NewInt(1), 1, 0, "fast", OutputConfig{OutputFile: filepath.Join(blocker, "out.txt")})
	if err == nil || !strings.Contains(err.Error(), "failed to create directory") {
		t.Errorf("expected directory error, got %v", err)
	}
}

func TestDisplayQuietResult(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	DisplayQuietResult(&buf, bignum.NewInt(6765))
	if got := buf.String(); got != "6765\n" {
		t.Errorf("DisplayQuietResult = %q, want %q", got, "6765\n")
	}
}

func TestDisplayResultWithConfig(t *testing.T) {
	ui.InitTheme(true, "")

	t.Run("quiet with file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.txt")
		var buf bytes.Buffer
		err := DisplayResultWithConfig(&buf, bignum.NewInt(55), 10, time.Millisecond, "linear", OutputConfig{OutputFile: path, Quiet: true})
		if err != nil {
			t.Fatalf("DisplayResultWithConfig: %v", err)
		}
		if got := buf.String(); got != "55\n" {
			t.Errorf("quiet output = %q", got)
		}
		if _, err := os.Stat(path); err != nil {
			t.Errorf("file not written: %v", err)
		}
	})

	t.Run("normal with file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.txt")
		var buf bytes.Buffer
		err := DisplayResultWithConfig(&buf, bignum.NewInt(55), 10, time.Millisecond, "linear", OutputConfig{OutputFile: path})
		if err != nil {
			t.Fatalf("DisplayResultWithConfig: %v", err)
		}
		out := buf.String()
		if !strings.Contains(out, "F(10) = 55") || !strings.Contains(out, "Result saved to: "+path) {
			t.Errorf("unexpected output:\n%s", out)
		}
	})
}
