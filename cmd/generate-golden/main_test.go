package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestFibBig(t *testing.T) {
	want := []string{"0", "1", "1", "2", "3", "5", "8", "13"}
	for k, w := range want {
		if got := fibBig(uint64(k)).String(); got != w {
			t.Errorf("fibBig(%d) = %s, want %s", k, got, w)
		}
	}
	if got := fibBig(93).String(); got != "12200160415121876738" {
		t.Errorf("fibBig(93) = %s", got)
	}
}

func TestRunWritesGoldenFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "testdata")
	if err := run(dir); err != nil {
		t.Fatal(err)
	}
	raw, err := os.ReadFile(filepath.Join(dir, "fibonacci_golden.json"))
	if err != nil {
		t.Fatal(err)
	}
	var data []GoldenData
	if err := json.Unmarshal(raw, &data); err != nil {
		t.Fatal(err)
	}
	if len(data) != len(targets) {
		t.Fatalf("got %d entries, want %d", len(data), len(targets))
	}
	if data[6].K != 10 || data[6].Result != "55" {
		t.Errorf("entry 6 = %+v", data[6])
	}
}
