package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/agbru/fibdrv/internal/bignum"
	"github.com/agbru/fibdrv/internal/config"
	"github.com/agbru/fibdrv/internal/fibonacci"
)

// GetCalculatorsToRun returns the calculators selected by cfg.Algo: every
// registered calculator in name order for "all", otherwise the named one.
// An unknown name yields nil.
func GetCalculatorsToRun(cfg config.AppConfig, factory fibonacci.CalculatorFactory) []fibonacci.Calculator {
	if cfg.Algo == config.DefaultAlgo {
		names := factory.List()
		calculators := make([]fibonacci.Calculator, 0, len(names))
		for _, name := range names {
			if calc, err := factory.Get(name); err == nil {
				calculators = append(calculators, calc)
			}
		}
		return calculators
	}
	if calc, err := factory.Get(cfg.Algo); err == nil {
		return []fibonacci.Calculator{calc}
	}
	return nil
}

// PrintExecutionConfig prints the target index, the timeout and the
// arithmetic settings of the run.
func PrintExecutionConfig(cfg config.AppConfig, out io.Writer) {
	fmt.Fprintf(out, "--- Execution Configuration ---\n")
	fmt.Fprintf(out, "Calculating %sF(%d)%s with a timeout of %s%s%s.\n",
		ColorMagenta(), cfg.K, ColorReset(), ColorYellow(), cfg.Timeout, ColorReset())
	fmt.Fprintf(out, "Environment: %s%d%s logical processors, Go %s%s%s, %s%d%s-bit limbs.\n",
		ColorCyan(), runtime.NumCPU(), ColorReset(), ColorCyan(), runtime.Version(), ColorReset(),
		ColorCyan(), bignum.WordBits, ColorReset())
	smallPath := "enabled"
	if cfg.DisableSmallPath {
		smallPath = "disabled"
	}
	fmt.Fprintf(out, "Limb limit: %s%d%s, 128-bit fast path %s.\n",
		ColorCyan(), bignum.MaxLimbs(), ColorReset(), smallPath)
}

// PrintExecutionMode prints whether one calculator runs or several are
// compared.
func PrintExecutionMode(calculators []fibonacci.Calculator, out io.Writer) {
	var desc string
	switch len(calculators) {
	case 0:
		desc = "No calculator selected"
	case 1:
		desc = fmt.Sprintf("Single calculation with the %s%s%s algorithm", ColorGreen(), calculators[0].Name(), ColorReset())
	default:
		desc = "Parallel comparison of all algorithms"
	}
	fmt.Fprintf(out, "Execution mode: %s.\n", desc)
	fmt.Fprintf(out, "\n--- Starting Execution ---\n")
}
