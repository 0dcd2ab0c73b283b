// Package cli renders the command-line side of fibdrv: the progress
// spinner shown while engines run, and the formatting of results.
package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/agbru/fibdrv/internal/bignum"
	"github.com/agbru/fibdrv/internal/fibonacci"
	"github.com/agbru/fibdrv/internal/ui"
	"github.com/briandowns/spinner"
	"github.com/db47h/decimal"
)

// FormatExecutionDuration renders d in µs below a millisecond, in ms below a
// second, and with time.Duration.String otherwise.
func FormatExecutionDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	} else if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.String()
}

const (
	// TruncationLimit is the digit count above which results are shown
	// truncated unless verbose output is requested.
	TruncationLimit = 100
	// DisplayEdges is the number of leading and trailing digits kept when
	// truncating.
	DisplayEdges = 25
	// ProgressRefreshRate is the spinner refresh period.
	ProgressRefreshRate = 200 * time.Millisecond
	// ProgressBarWidth is the width of the progress bar in characters.
	ProgressBarWidth = 40
	// ScientificDigits is the number of fractional digits in scientific
	// notation.
	ScientificDigits = 6
)

func ColorReset() string     { return ui.ColorReset() }
func ColorRed() string       { return ui.ColorRed() }
func ColorGreen() string     { return ui.ColorGreen() }
func ColorYellow() string    { return ui.ColorYellow() }
func ColorBlue() string      { return ui.ColorBlue() }
func ColorMagenta() string   { return ui.ColorMagenta() }
func ColorCyan() string      { return ui.ColorCyan() }
func ColorBold() string      { return ui.ColorBold() }
func ColorUnderline() string { return ui.ColorUnderline() }

// Spinner is the terminal animation shown during a calculation.
type Spinner interface {
	Start()
	Stop()
	// UpdateSuffix sets the text shown after the animation.
	UpdateSuffix(suffix string)
}

type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start()                     { rs.s.Start() }
func (rs *realSpinner) Stop()                      { rs.s.Stop() }
func (rs *realSpinner) UpdateSuffix(suffix string) { rs.s.Suffix = suffix }

var newSpinner = func(options ...spinner.Option) Spinner {
	s := spinner.New(spinner.CharSets[11], ProgressRefreshRate, options...)
	return &realSpinner{s}
}

// ProgressState tracks the progress of concurrently running calculators.
type ProgressState struct {
	progresses []float64
}

// NewProgressState tracks numCalculators calculators, all at 0.
func NewProgressState(numCalculators int) *ProgressState {
	return &ProgressState{progresses: make([]float64, max(numCalculators, 0))}
}

// Update records value for calculator index; out-of-range indices are
// ignored.
func (ps *ProgressState) Update(index int, value float64) {
	if index >= 0 && index < len(ps.progresses) {
		ps.progresses[index] = value
	}
}

// CalculateAverage returns the mean progress, or 0 with no calculators.
func (ps *ProgressState) CalculateAverage() float64 {
	if len(ps.progresses) == 0 {
		return 0
	}
	var total float64
	for _, p := range ps.progresses {
		total += p
	}
	return total / float64(len(ps.progresses))
}

// progressBar renders progress, clamped to [0, 1], as a bar of length
// characters.
func progressBar(progress float64, length int) string {
	progress = min(max(progress, 0), 1)
	count := int(progress * float64(length))
	var b strings.Builder
	b.Grow(length * 3)
	for i := range length {
		if i < count {
			b.WriteRune('█')
		} else {
			b.WriteRune('░')
		}
	}
	return b.String()
}

func progressLabel(numCalculators int) string {
	if numCalculators > 1 {
		return "Avg progress"
	}
	return "Progress"
}

// DisplayProgress animates a spinner with the average progress and ETA of
// the running calculators until progressChan is closed, then prints a final
// 100% line. It must run in its own goroutine; wg is marked done on return.
//
// Parameters:
//   - wg: Marked done when the display stops.
//   - progressChan: The progress updates; closed by the caller when all
//     calculators have returned.
//   - numCalculators: The number of calculators sending updates.
//   - out: The destination of the animation.
func DisplayProgress(wg *sync.WaitGroup, progressChan <-chan fibonacci.ProgressUpdate, numCalculators int, out io.Writer) {
	defer wg.Done()
	if numCalculators <= 0 {
		for range progressChan {
		}
		return
	}

	state := NewProgressWithETA(numCalculators)
	s := newSpinner(spinner.WithWriter(out))
	s.Start()
	stopped := false
	defer func() {
		if !stopped {
			s.Stop()
		}
	}()

	ticker := time.NewTicker(ProgressRefreshRate)
	defer ticker.Stop()

	label := progressLabel(numCalculators)
	for {
		select {
		case update, ok := <-progressChan:
			if !ok {
				s.Stop()
				stopped = true
				fmt.Fprintf(out, "%s: %6.2f%% [%s] ETA: %s\n", label, 100.0, progressBar(1, ProgressBarWidth), "< 1s")
				return
			}
			state.UpdateWithETA(update.CalculatorIndex, update.Value)
		case <-ticker.C:
			avg := state.CalculateAverage()
			s.UpdateSuffix(fmt.Sprintf(" %s: %s", label, FormatProgressBarWithETA(avg, state.GetETA(), ProgressBarWidth)))
		}
	}
}

// ScientificNotation renders x as d.dddddde+N with ScientificDigits
// fractional digits.
func ScientificNotation(x *bignum.Int) string {
	return new(decimal.Decimal).SetInt(x.Big()).Text('e', ScientificDigits)
}

// DisplayResult prints the size of result and, depending on the flags, its
// digit count, scientific notation and value. Values longer than
// TruncationLimit digits are shortened unless verbose is set.
//
// Parameters:
//   - result: The computed F(k).
//   - k: The index.
//   - duration: The calculation time.
//   - verbose: Print every digit.
//   - details: Print the detailed analysis.
//   - out: The destination.
func DisplayResult(result *bignum.Int, k int64, duration time.Duration, verbose, details bool, out io.Writer) {
	digits, err := result.Decimal()
	if err != nil {
		fmt.Fprintf(out, "%sResult could not be rendered: %v%s\n", ColorRed(), err, ColorReset())
		return
	}
	fmt.Fprintf(out, "Result binary size: %s%s%s bits.\n", ColorCyan(), formatNumberString(strconv.Itoa(result.BitLen())), ColorReset())

	if details {
		fmt.Fprintf(out, "\n%s--- Detailed result analysis ---%s\n", ColorBold(), ColorReset())
		durationStr := FormatExecutionDuration(duration)
		if duration == 0 {
			durationStr = "< 1µs"
		}
		fmt.Fprintf(out, "Calculation time       : %s%s%s\n", ColorGreen(), durationStr, ColorReset())
		fmt.Fprintf(out, "Number of digits       : %s%s%s\n", ColorCyan(), formatNumberString(strconv.Itoa(len(digits))), ColorReset())
		fmt.Fprintf(out, "Limbs                  : %s%d%s\n", ColorCyan(), result.Len(), ColorReset())
		if len(digits) > ScientificDigits {
			fmt.Fprintf(out, "Scientific notation    : %s%s%s\n", ColorCyan(), ScientificNotation(result), ColorReset())
		}
	}

	fmt.Fprintf(out, "\n%s--- Calculated value ---%s\n", ColorBold(), ColorReset())
	switch n := len(digits); {
	case verbose:
		fmt.Fprintf(out, "F(%s%d%s) =\n%s%s%s\n", ColorMagenta(), k, ColorReset(), ColorGreen(), formatNumberString(digits), ColorReset())
	case n > TruncationLimit:
		fmt.Fprintf(out, "F(%s%d%s) (truncated) = %s%s...%s%s\n",
			ColorMagenta(), k, ColorReset(),
			ColorGreen(), digits[:DisplayEdges], digits[n-DisplayEdges:], ColorReset())
		fmt.Fprintf(out, "(Tip: use the %s-v%s option to display the full value)\n", ColorYellow(), ColorReset())
	default:
		fmt.Fprintf(out, "F(%s%d%s) = %s%s%s\n", ColorMagenta(), k, ColorReset(), ColorGreen(), formatNumberString(digits), ColorReset())
	}
}

// formatNumberString inserts thousands separators into a decimal string
// with an optional leading '-'.
func formatNumberString(s string) string {
	if s == "" {
		return ""
	}
	prefix := ""
	if s[0] == '-' {
		prefix, s = "-", s[1:]
	}
	n := len(s)
	if n <= 3 {
		return prefix + s
	}

	var b strings.Builder
	b.Grow(len(prefix) + n + (n-1)/3)
	b.WriteString(prefix)
	first := n % 3
	if first == 0 {
		first = 3
	}
	b.WriteString(s[:first])
	for i := first; i < n; i += 3 {
		b.WriteByte(',')
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
