//go:build gmp

// GMP reference engine, compiled only with the "gmp" build tag.
//
// System Requirements for GMP:
//   - Linux: sudo apt-get install libgmp-dev (Debian/Ubuntu)
//   - macOS: brew install gmp

package fibonacci

import (
	"context"
	"math/big"
	"math/bits"

	"github.com/agbru/fibdrv/internal/bignum"
	"github.com/ncw/gmp"
)

func init() {
	_ = RegisterCalculator("gmp", func() coreCalculator { return &GMPCalculator{} })
}

// GMPCalculator runs fast doubling on libgmp integers. It is a reference
// engine for cross-checking the native ones on very large indices; the
// result is converted back into a bignum.Int.
type GMPCalculator struct{}

// Name returns the name of the algorithm.
func (c *GMPCalculator) Name() string {
	return "GMP (Fast Doubling)"
}

// gmpDoublingStep turns (a, b) = (F(k), F(k+1)) into (F(2k), F(2k+1)).
func gmpDoublingStep(a, b, t1, t2 *gmp.Int) {
	t1.MulUint32(b, 2)
	t1.Sub(t1, a)
	t1.Mul(a, t1)

	t2.Mul(a, a)
	a.Mul(b, b)
	t2.Add(t2, a)

	a.Set(t1)
	b.Set(t2)
}

// CalculateCore computes F(n) with GMP arithmetic.
func (c *GMPCalculator) CalculateCore(ctx context.Context, reporter ProgressReporter, n uint64, opts Options) (*bignum.Int, error) {
	opts = normalizeOptions(opts)
	if n <= 2 {
		return baseCase(int64(n)), nil
	}

	a, b := gmp.NewInt(0), gmp.NewInt(1)
	t1, t2 := gmp.NewInt(0), gmp.NewInt(0)
	numBits := bits.Len64(n)
	tracker := newStepTracker(reporter, opts.ProgressThreshold, numBits)

	for i := numBits - 1; i >= 0; i-- {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		gmpDoublingStep(a, b, t1, t2)
		if (n>>uint(i))&1 == 1 {
			t1.Add(a, b)
			a.Set(b)
			b.Set(t1)
		}
		tracker.step(i, numBits)
	}

	z := bignum.New()
	if err := z.SetBig(new(big.Int).SetBytes(a.Bytes())); err != nil {
		return nil, err
	}
	return z, nil
}
