// Package orchestration runs the selected Fibonacci calculators side by side
// and reports how their results compare.
package orchestration

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/agbru/fibdrv/internal/bignum"
	"github.com/agbru/fibdrv/internal/cli"
	"github.com/agbru/fibdrv/internal/config"
	apperrors "github.com/agbru/fibdrv/internal/errors"
	"github.com/agbru/fibdrv/internal/fibonacci"
	"github.com/agbru/fibdrv/internal/ui"
)

// CalculationResult is the outcome of one calculator run.
type CalculationResult struct {
	// Name is the calculator name, e.g. "fast".
	Name string
	// Result is F(k), nil when Err is set.
	Result   *bignum.Int
	Duration time.Duration
	Err      error
}

// ProgressBufferMultiplier sizes the progress channel per calculator so that
// a slow display does not stall the engines.
const ProgressBufferMultiplier = 5

// ExecuteCalculations runs every calculator concurrently on cfg.K and
// collects their results in calculator order while a progress display runs
// on out.
//
// Parameters:
//   - ctx: Cancels every calculation.
//   - calculators: The calculators to run.
//   - cfg: The run configuration (index, small path switch).
//   - out: The destination of the progress display.
//
// Returns:
//   - []CalculationResult: One result per calculator, in the same order.
func ExecuteCalculations(ctx context.Context, calculators []fibonacci.Calculator, cfg config.AppConfig, out io.Writer) []CalculationResult {
	g, ctx := errgroup.WithContext(ctx)
	results := make([]CalculationResult, len(calculators))
	progressChan := make(chan fibonacci.ProgressUpdate, len(calculators)*ProgressBufferMultiplier)

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go cli.DisplayProgress(&displayWg, progressChan, len(calculators), out)

	k := uint64(max(cfg.K, 0))
	opts := cfg.ToCalculationOptions()
	for i, calc := range calculators {
		g.Go(func() error {
			start := time.Now()
			res, err := calc.Calculate(ctx, progressChan, i, k, opts)
			results[i] = CalculationResult{Name: calc.Name(), Result: res, Duration: time.Since(start), Err: err}
			log.Debug().Str("algo", calc.Name()).Uint64("k", k).Dur("duration", results[i].Duration).Err(err).Msg("calculation finished")
			// A failure must not cancel the other calculators.
			return nil
		})
	}

	_ = g.Wait()
	close(progressChan)
	displayWg.Wait()

	return results
}

// sortResults orders successes before failures, then by duration.
func sortResults(results []CalculationResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if (results[i].Err == nil) != (results[j].Err == nil) {
			return results[i].Err == nil
		}
		return results[i].Duration < results[j].Duration
	})
}

// FastestResult returns the fastest successful result, or false when every
// calculator failed.
func FastestResult(results []CalculationResult) (CalculationResult, bool) {
	var best CalculationResult
	found := false
	for _, res := range results {
		if res.Err != nil {
			continue
		}
		if !found || res.Duration < best.Duration {
			best, found = res, true
		}
	}
	return best, found
}

// Consistent reports whether every successful result holds the same value.
func Consistent(results []CalculationResult) bool {
	var ref *bignum.Int
	for _, res := range results {
		if res.Err != nil {
			continue
		}
		if ref == nil {
			ref = res.Result
			continue
		}
		if bignum.Cmp(ref, res.Result) != 0 {
			return false
		}
	}
	return true
}

// AnalyzeComparisonResults prints a table of the runs sorted by success and
// duration, checks that the successful runs agree, and displays the winning
// value.
//
// Parameters:
//   - results: The results to analyze; sorted in place.
//   - cfg: The run configuration.
//   - out: The destination of the report.
//
// Returns:
//   - int: ExitSuccess, ExitErrorMismatch when the successful runs disagree,
//     or the exit code of the first failure when none succeeded.
func AnalyzeComparisonResults(results []CalculationResult, cfg config.AppConfig, out io.Writer) int {
	sortResults(results)

	var firstError error
	successCount := 0

	fmt.Fprintf(out, "\n--- Comparison Summary ---\n")
	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "%sAlgorithm%s\t%sDuration%s\t%sStatus%s\n",
		ui.ColorUnderline(), ui.ColorReset(), ui.ColorUnderline(), ui.ColorReset(), ui.ColorUnderline(), ui.ColorReset())

	for _, res := range results {
		var status string
		if res.Err != nil {
			status = fmt.Sprintf("%s❌ Failure (%v)%s", ui.ColorRed(), res.Err, ui.ColorReset())
			if firstError == nil {
				firstError = res.Err
			}
		} else {
			status = fmt.Sprintf("%s✅ Success%s", ui.ColorGreen(), ui.ColorReset())
			successCount++
		}
		duration := cli.FormatExecutionDuration(res.Duration)
		if res.Duration == 0 {
			duration = "< 1µs"
		}
		fmt.Fprintf(tw, "%s%s%s\t%s%s%s\t%s\n",
			ui.ColorBlue(), res.Name, ui.ColorReset(),
			ui.ColorYellow(), duration, ui.ColorReset(),
			status)
	}
	if err := tw.Flush(); err != nil {
		fmt.Fprintf(out, "Warning: failed to flush tabwriter: %v\n", err)
	}

	if successCount == 0 {
		fmt.Fprintf(out, "\nGlobal Status: Failure. No algorithm could complete the calculation.\n")
		return apperrors.HandleCalculationError(firstError, 0, out, cli.CLIColorProvider{})
	}

	if !Consistent(results) {
		fmt.Fprintf(out, "\nGlobal Status: CRITICAL ERROR! An inconsistency was detected between the results of the algorithms.\n")
		log.Error().Int64("k", cfg.K).Msg("calculators disagree")
		return apperrors.ExitErrorMismatch
	}

	best, _ := FastestResult(results)
	fmt.Fprintf(out, "\nGlobal Status: Success. All valid results are consistent.\n")
	cli.DisplayResult(best.Result, cfg.K, best.Duration, cfg.Verbose, cfg.Details, out)
	return apperrors.ExitSuccess
}
