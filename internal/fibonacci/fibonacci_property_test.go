package fibonacci

import (
	"context"
	"testing"

	"github.com/agbru/fibdrv/internal/bignum"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestCassinisIdentity_PropertyBased verifies Cassini's Identity
//
//	F(n-1) * F(n+1) - F(n)² = (-1)ⁿ
//
// for both engines, using only bignum arithmetic on the results.
func TestCassinisIdentity_PropertyBased(t *testing.T) {
	t.Parallel()
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	calculators := []coreCalculator{
		&FastDoublingCalculator{},
		&LinearCalculator{},
	}

	for _, calculator := range calculators {
		properties.Property(calculator.Name()+" satisfies Cassini's Identity", prop.ForAll(
			func(n uint64) bool {
				ctx := context.Background()
				fnMinus1, err := calculator.CalculateCore(ctx, nil, n-1, Options{})
				if err != nil {
					return false
				}
				fn, err := calculator.CalculateCore(ctx, nil, n, Options{})
				if err != nil {
					return false
				}
				fnPlus1, err := calculator.CalculateCore(ctx, nil, n+1, Options{})
				if err != nil {
					return false
				}

				left, square := bignum.New(), bignum.New()
				if left.Mul(fnMinus1, fnPlus1) != nil || square.Mul(fn, fn) != nil || left.Sub(left, square) != nil {
					return false
				}
				right := bignum.NewInt(1)
				if n%2 != 0 {
					right = bignum.NewInt(-1)
				}
				return bignum.Cmp(left, right) == 0
			},
			gen.UInt64Range(1, 2000),
		))
	}

	properties.Property("doubling identity F(2n) = F(n) * (2F(n+1) - F(n))", prop.ForAll(
		func(n int64) bool {
			f2n, err := FastDoubling(2 * n)
			if err != nil {
				return false
			}
			fn, _ := Linear(n)
			fn1, _ := Linear(n + 1)
			want := bignum.New()
			if want.Add(fn1, fn1) != nil || want.Sub(want, fn) != nil || want.Mul(want, fn) != nil {
				return false
			}
			return bignum.Cmp(want, f2n) == 0
		},
		gen.Int64Range(0, 1500),
	))

	properties.TestingRun(t)
}
