package bench

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/agbru/fibdrv/internal/fibonacci"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"
)

// StatConfig configures Stat.
type StatConfig struct {
	// Offset is the last position measured.
	Offset int64
	// Samples is the number of timings per strategy and position.
	Samples int
	// Selectors are the strategies measured, in column order. Empty selects
	// all strategies.
	Selectors []fibonacci.Selector
}

// Summary describes one set of timing samples, in nanoseconds.
type Summary struct {
	Mean   float64
	StdDev float64
	// Trimmed is the mean of the samples inside Mean ± 2·StdDev.
	Trimmed float64
	// Kept is the number of samples averaged into Trimmed.
	Kept int
}

func (c StatConfig) normalize() StatConfig {
	if c.Offset < 0 {
		c.Offset = DefaultStatOffset
	}
	if c.Samples <= 0 {
		c.Samples = DefaultSamples
	}
	if len(c.Selectors) == 0 {
		c.Selectors = allSelectors()
	}
	return c
}

func allSelectors() []fibonacci.Selector {
	sels := make([]fibonacci.Selector, fibonacci.NumStrategies)
	for i := range sels {
		sels[i] = fibonacci.Selector(i)
	}
	return sels
}

// Summarize computes the mean, the sample standard deviation and the
// 2-sigma trimmed mean of samples. An empty slice yields the zero Summary.
func Summarize(samples []float64) Summary {
	n := len(samples)
	if n == 0 {
		return Summary{}
	}
	mean, std := stat.Mean(samples, nil), 0.0
	if n > 1 {
		mean, std = stat.MeanStdDev(samples, nil)
	}

	lo, hi := mean-2*std, mean+2*std
	var kept int
	var trimmed float64
	for _, v := range samples {
		if v >= lo && v <= hi {
			trimmed += v
			kept++
		}
	}
	if kept == 0 {
		return Summary{Mean: mean, StdDev: std, Trimmed: mean}
	}
	return Summary{Mean: mean, StdDev: std, Trimmed: trimmed / float64(kept), Kept: kept}
}

// Stat measures every selected strategy at each position in [0, cfg.Offset]
// and prints one row per position: the position followed by the trimmed mean
// of each strategy in nanoseconds with five decimals.
func Stat(ctx context.Context, dev Device, cfg StatConfig, out io.Writer) error {
	cfg = cfg.normalize()
	s, err := dev.Open()
	if err != nil {
		return fmt.Errorf("opening device: %w", err)
	}
	defer s.Close()

	samples := make([]float64, cfg.Samples)
	cols := make([]string, len(cfg.Selectors))
	for k := int64(0); k <= cfg.Offset; k++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := s.Seek(k, io.SeekStart); err != nil {
			return err
		}
		for i, sel := range cfg.Selectors {
			for j := range samples {
				t, err := s.Time(sel)
				if err != nil {
					return fmt.Errorf("timing %v at %d: %w", sel, k, err)
				}
				samples[j] = float64(t.Elapsed.Nanoseconds())
			}
			sum := Summarize(samples)
			cols[i] = decimal.NewFromFloat(sum.Trimmed).StringFixed(5)
			log.Debug().Int64("k", k).Stringer("strategy", sel).
				Float64("mean", sum.Mean).Float64("stddev", sum.StdDev).Int("kept", sum.Kept).
				Msg("strategy measured")
		}
		fmt.Fprintf(out, "%d %s\n", k, strings.Join(cols, " "))
	}
	return nil
}

// Plot takes a single timing of every strategy at each position in
// [0, upTo] and prints one row per position in integer nanoseconds.
func Plot(ctx context.Context, dev Device, upTo int64, out io.Writer) error {
	s, err := dev.Open()
	if err != nil {
		return fmt.Errorf("opening device: %w", err)
	}
	defer s.Close()

	sels := allSelectors()
	var b strings.Builder
	for k := int64(0); k <= upTo; k++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := s.Seek(k, io.SeekStart); err != nil {
			return err
		}
		b.Reset()
		fmt.Fprintf(&b, "%d", k)
		for _, sel := range sels {
			t, err := s.Time(sel)
			if err != nil {
				return fmt.Errorf("timing %v at %d: %w", sel, k, err)
			}
			fmt.Fprintf(&b, " %d", t.Elapsed.Nanoseconds())
		}
		b.WriteByte('\n')
		io.WriteString(out, b.String())
	}
	return nil
}
