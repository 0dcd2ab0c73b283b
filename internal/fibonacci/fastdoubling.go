package fibonacci

import (
	"context"
	"math/bits"

	"github.com/agbru/fibdrv/internal/bignum"
)

// FastDoubling returns F(k) computed with the fast-doubling identities.
// k <= 0 yields 0.
func FastDoubling(k int64) (*bignum.Int, error) {
	return fastDoublingFib(context.Background(), nil, k, normalizeOptions(Options{}))
}

// FastDoublingCalculator is the coreCalculator for the fast-doubling
// iterator.
//
// With (a, b) = (F(m), F(m+1)) the identities are
//
//	F(2m)   = F(m) * (2*F(m+1) - F(m))
//	F(2m+1) = F(m)^2 + F(m+1)^2
//
// and the index bits are consumed from the most significant one down, so
// the loop performs O(log n) multiplications.
type FastDoublingCalculator struct{}

// Name returns the display name of the engine.
func (c *FastDoublingCalculator) Name() string {
	return "Fast Doubling (O(log n), schoolbook)"
}

// CalculateCore computes F(n) with the fast-doubling iterator. The context
// is checked once per index bit.
func (c *FastDoublingCalculator) CalculateCore(ctx context.Context, reporter ProgressReporter, n uint64, opts Options) (*bignum.Int, error) {
	return fastDoublingFib(ctx, reporter, int64(n), normalizeOptions(opts))
}

func fastDoublingFib(ctx context.Context, reporter ProgressReporter, k int64, opts Options) (*bignum.Int, error) {
	if k <= 2 {
		return baseCase(k), nil
	}

	n := uint64(k)
	numBits := 64 - bits.LeadingZeros64(n)
	tracker := newStepTracker(reporter, opts.ProgressThreshold, numBits)

	a, b, t := bignum.New(), bignum.NewInt(1), bignum.New()
	for i := numBits - 1; i >= 0; i-- {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := doublingStep(a, b, t); err != nil {
			return nil, err
		}
		// a = F(2m+1), t = F(2m), b is scratch.
		if n>>uint(i)&1 == 1 {
			// (a, b) = (F(2m+1), F(2m) + F(2m+1))
			if err := b.Add(t, a); err != nil {
				return nil, err
			}
		} else {
			// (a, b) = (F(2m), F(2m+1))
			a, b, t = t, a, b
		}
		tracker.step(i, numBits)
	}
	return a, nil
}

// doublingStep sets t = a*(2b - a) and a = a^2 + b^2, and clobbers b.
func doublingStep(a, b, t *bignum.Int) error {
	if err := t.Set(b); err != nil {
		return err
	}
	if err := t.Lsh(1); err != nil {
		return err
	}
	if err := t.Sub(t, a); err != nil {
		return err
	}
	if err := t.Mul(t, a); err != nil {
		return err
	}
	if err := a.Mul(a, a); err != nil {
		return err
	}
	if err := b.Mul(b, b); err != nil {
		return err
	}
	return a.Add(a, b)
}
