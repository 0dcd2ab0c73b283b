package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/agbru/fibdrv/internal/bignum"
)

// OutputConfig selects how a result is presented.
type OutputConfig struct {
	// OutputFile, when set, also saves the result to this path.
	OutputFile string
	Quiet      bool
	Verbose    bool
	Details    bool
}

// WriteResultToFile writes result with a commented header to
// cfg.OutputFile, creating its directory. It does nothing without a path.
//
// Parameters:
//   - result: The computed F(k).
//   - k: The index.
//   - duration: The calculation time.
//   - algo: The calculator name.
//   - cfg: The output configuration.
//
// Returns:
//   - error: An error if the digits cannot be rendered or the file written.
func WriteResultToFile(result *bignum.Int, k int64, duration time.Duration, algo string, cfg OutputConfig) error {
	if cfg.OutputFile == "" {
		return nil
	}
	digits, err := result.Decimal()
	if err != nil {
		return fmt.Errorf("rendering result: %w", err)
	}

	if dir := filepath.Dir(cfg.OutputFile); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	file, err := os.Create(cfg.OutputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	fmt.Fprintf(file, "# Fibonacci Calculation Result\n")
	fmt.Fprintf(file, "# Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(file, "# Algorithm: %s\n", algo)
	fmt.Fprintf(file, "# Duration: %s\n", duration)
	fmt.Fprintf(file, "# K: %d\n", k)
	fmt.Fprintf(file, "# Bits: %d\n", result.BitLen())
	fmt.Fprintf(file, "# Digits: %d\n\n", len(digits))
	fmt.Fprintf(file, "F(%d) =\n%s\n", k, digits)
	return file.Close()
}

// DisplayQuietResult prints only the digits of result.
func DisplayQuietResult(out io.Writer, result *bignum.Int) {
	fmt.Fprintln(out, result.String())
}

// DisplayResultWithConfig presents result according to cfg and saves it
// when cfg.OutputFile is set.
func DisplayResultWithConfig(out io.Writer, result *bignum.Int, k int64, duration time.Duration, algo string, cfg OutputConfig) error {
	if cfg.Quiet {
		DisplayQuietResult(out, result)
	} else {
		DisplayResult(result, k, duration, cfg.Verbose, cfg.Details, out)
	}

	if cfg.OutputFile == "" {
		return nil
	}
	if err := WriteResultToFile(result, k, duration, algo, cfg); err != nil {
		return err
	}
	if !cfg.Quiet {
		fmt.Fprintf(out, "\n%s✓ Result saved to: %s%s%s\n", ColorGreen(), ColorCyan(), cfg.OutputFile, ColorReset())
	}
	return nil
}
