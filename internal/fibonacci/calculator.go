// Package fibonacci computes exact Fibonacci numbers on top of the bignum
// package. It provides two engines (a linear two-accumulator iterator and a
// fast-doubling iterator), four machine-integer strategies used for timing
// comparisons, and a `Calculator` interface that decorates an engine with
// metrics, tracing, logging, progress reporting and a 128-bit fast path for
// small indices.
package fibonacci

//go:generate mockgen -source=calculator.go -destination=mocks/mock_calculator.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/agbru/fibdrv/internal/bignum"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
	"github.com/shabbyrobe/go-num"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// MaxFibU128 = 186 because F(186) is the largest Fibonacci number that fits in
// 128 bits; F(187) exceeds 2^128.
const MaxFibU128 = 186

// ErrIndexOutOfRange is returned for indices the engines cannot address.
// The engines take a signed 64-bit index, so anything above math.MaxInt64 is
// rejected.
var ErrIndexOutOfRange = errors.New("fibonacci: index out of range")

var (
	calculationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fibonacci_calculations_total",
			Help: "The total number of Fibonacci calculations processed",
		},
		[]string{"algorithm", "status"},
	)
	calculationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "fibonacci_calculation_duration_seconds",
			Help: "The duration of Fibonacci calculations in seconds",
		},
		[]string{"algorithm"},
	)
)

// Calculator defines the public interface for a Fibonacci calculator.
// It is the primary abstraction used by the orchestration, service and
// driver layers to interact with the different engines.
type Calculator interface {
	// Calculate executes the calculation of the n-th Fibonacci number. It
	// supports cancellation through the provided context. Progress updates
	// are sent asynchronously to the progressChan.
	//
	// Parameters:
	//   - ctx: The context for managing cancellation and deadlines.
	//   - progressChan: The channel for sending progress updates.
	//   - calcIndex: A unique index for the calculator instance.
	//   - n: The index of the Fibonacci number to calculate.
	//   - opts: Configuration options for the calculation.
	//
	// Returns:
	//   - *bignum.Int: The calculated Fibonacci number.
	//   - error: An error if one occurred (e.g., context cancellation, allocation failure).
	Calculate(ctx context.Context, progressChan chan<- ProgressUpdate, calcIndex int, n uint64, opts Options) (*bignum.Int, error)

	// Name returns the display name of the engine (e.g., "Fast Doubling").
	//
	// Returns:
	//   - string: The name of the algorithm.
	Name() string
}

// coreCalculator defines the internal interface for a pure calculation
// engine.
type coreCalculator interface {
	CalculateCore(ctx context.Context, reporter ProgressReporter, n uint64, opts Options) (*bignum.Int, error)
	Name() string
}

// FibCalculator is an implementation of the Calculator interface that uses the
// Decorator design pattern.
// It wraps a coreCalculator to add cross-cutting concerns, such as the
// 128-bit fast path for small `n`, tracing, metrics and the adaptation of the
// progress reporting mechanism.
type FibCalculator struct {
	core coreCalculator
}

// NewCalculator is a factory function that constructs and returns a new
// FibCalculator. It panics if the core calculator is nil.
//
// Parameters:
//   - core: The core calculator to be wrapped.
//
// Returns:
//   - Calculator: A new FibCalculator instance implementing the Calculator interface.
func NewCalculator(core coreCalculator) Calculator {
	if core == nil {
		panic("fibonacci: the `coreCalculator` implementation cannot be nil")
	}
	return &FibCalculator{core: core}
}

// Name returns the name of the encapsulated coreCalculator.
func (c *FibCalculator) Name() string {
	return c.core.Name()
}

// Calculate adapts progressChan into a ProgressSubject and delegates to
// CalculateWithObservers.
//
// Parameters:
//   - ctx: The context for managing cancellation and deadlines.
//   - progressChan: The channel for sending progress updates. May be nil.
//   - calcIndex: A unique index for the calculator instance.
//   - n: The index of the Fibonacci number to calculate.
//   - opts: Configuration options for the calculation.
//
// Returns:
//   - *bignum.Int: The calculated Fibonacci number.
//   - error: An error if one occurred.
func (c *FibCalculator) Calculate(ctx context.Context, progressChan chan<- ProgressUpdate, calcIndex int, n uint64, opts Options) (*bignum.Int, error) {
	subject := NewProgressSubject()
	if progressChan != nil {
		subject.Register(NewChannelObserver(progressChan))
	}
	return c.CalculateWithObservers(ctx, subject, calcIndex, n, opts)
}

// CalculateWithObservers executes the calculation with observer-based
// progress reporting.
//
// Indices up to MaxFibU128 are answered from 128-bit arithmetic unless
// opts.DisableSmallPath is set. Larger indices run the wrapped engine. The
// context is checked before the engine starts and after it returns, so a
// cancelled request never reports success.
//
// Parameters:
//   - ctx: The context for managing cancellation and deadlines.
//   - subject: The progress subject with registered observers. If nil, progress is ignored.
//   - calcIndex: A unique index for the calculator instance.
//   - n: The index of the Fibonacci number to calculate.
//   - opts: Configuration options for the calculation.
//
// Returns:
//   - *bignum.Int: The calculated Fibonacci number.
//   - error: An error if one occurred.
func (c *FibCalculator) CalculateWithObservers(ctx context.Context, subject *ProgressSubject, calcIndex int, n uint64, opts Options) (result *bignum.Int, err error) {
	algoName := c.core.Name()
	tracer := otel.Tracer("fibonacci")
	ctx, span := tracer.Start(ctx, "Calculate")
	span.SetAttributes(attribute.String("algorithm", algoName), attribute.Int64("n", int64(min(n, math.MaxInt64))))
	defer span.End()

	start := time.Now()
	defer func() {
		duration := time.Since(start).Seconds()
		status := "success"
		if err != nil {
			status = "error"
			span.SetStatus(codes.Error, err.Error())
		}
		calculationsTotal.WithLabelValues(algoName, status).Inc()
		calculationDuration.WithLabelValues(algoName).Observe(duration)

		log.Debug().
			Str("algo", algoName).
			Uint64("n", n).
			Float64("duration", duration).
			Str("status", status).
			Msg("calculation completed")
	}()

	if n > math.MaxInt64 {
		return nil, fmt.Errorf("%w: %d", ErrIndexOutOfRange, n)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var reporter ProgressReporter
	if subject != nil {
		reporter = subject.AsProgressReporter(calcIndex)
	} else {
		reporter = func(float64) {}
	}

	if n <= MaxFibU128 && !opts.DisableSmallPath {
		reporter(1.0)
		return calculateSmall(n), nil
	}

	result, err = c.core.CalculateCore(ctx, reporter, n, normalizeOptions(opts))
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	reporter(1.0)
	return result, nil
}

// calculateSmall returns F(n) for n <= MaxFibU128 by iterating in 128-bit
// arithmetic.
func calculateSmall(n uint64) *bignum.Int {
	a, b := num.U128From64(0), num.U128From64(1)
	if n == 0 {
		return bignum.New()
	}
	for i := uint64(2); i <= n; i++ {
		a = a.Add(b)
		a, b = b, a
	}
	hi, lo := b.Raw()
	return bignum.New().SetUint128(hi, lo)
}
