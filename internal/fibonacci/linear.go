package fibonacci

import (
	"context"

	"github.com/agbru/fibdrv/internal/bignum"
)

// Linear returns F(k) computed by k-1 big-integer additions. k <= 0
// yields 0.
func Linear(k int64) (*bignum.Int, error) {
	return linearFib(context.Background(), nil, k, normalizeOptions(Options{}))
}

// LinearCalculator is the coreCalculator for the linear two-accumulator
// iterator. Its cost is quadratic in the bit length of F(n), because later
// additions operate on long operands.
type LinearCalculator struct{}

// Name returns the display name of the engine.
func (c *LinearCalculator) Name() string {
	return "Linear Iteration (O(n) additions)"
}

// CalculateCore computes F(n) with the linear iterator, checking ctx every
// opts.CancelCheckInterval additions.
func (c *LinearCalculator) CalculateCore(ctx context.Context, reporter ProgressReporter, n uint64, opts Options) (*bignum.Int, error) {
	return linearFib(ctx, reporter, int64(n), normalizeOptions(opts))
}

// baseCase returns F(k) for k <= 2.
func baseCase(k int64) *bignum.Int {
	if k <= 0 {
		return bignum.New()
	}
	return bignum.NewInt(1)
}

func linearFib(ctx context.Context, reporter ProgressReporter, k int64, opts Options) (*bignum.Int, error) {
	if k <= 2 {
		return baseCase(k), nil
	}

	// (a, b) = (F(i-2), F(i-1)) on entry to iteration i.
	a, b := bignum.New(), bignum.NewInt(1)
	interval := int64(opts.CancelCheckInterval)
	var lastReported float64
	for i := int64(2); i <= k; i++ {
		if err := a.Add(a, b); err != nil {
			return nil, err
		}
		a, b = b, a

		if i%interval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			reportLinear(reporter, &lastReported, opts.ProgressThreshold, i, k)
		}
	}
	reportLinear(reporter, &lastReported, opts.ProgressThreshold, k, k)
	return b, nil
}
