// Command generate-golden writes the reference values used by the
// calculator golden tests. The values come from an independent math/big
// iteration so that a regression in the bignum package cannot hide itself.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
)

// GoldenData is one entry of the golden file.
type GoldenData struct {
	K      uint64 `json:"k"`
	Result string `json:"result"`
}

// targets covers the small path boundary (F(93) is the last value that fits
// in a uint64), powers of two and ten, and the device length limit.
var targets = []uint64{
	0, 1, 2, 3, 4, 5, 10, 20, 50, 92, 93, 94, 100,
	128, 256, 512, 1000, 1024,
	2000, 2048, 5000, 8192, 10000,
}

func main() {
	outputDir := flag.String("out", "internal/fibonacci/testdata", "Output directory for the golden file")
	flag.Parse()

	if err := run(*outputDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(outputDir string) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	filename := filepath.Join(outputDir, "fibonacci_golden.json")
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer file.Close()

	data := make([]GoldenData, 0, len(targets))
	for _, k := range targets {
		data = append(data, GoldenData{K: k, Result: fibBig(k).String()})
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}

	fmt.Printf("Wrote %d values to %s\n", len(data), filename)
	return nil
}

// fibBig iterates F(k) with math/big.
func fibBig(k uint64) *big.Int {
	a, b := big.NewInt(0), big.NewInt(1)
	for range k {
		a.Add(a, b)
		a, b = b, a
	}
	return a
}
