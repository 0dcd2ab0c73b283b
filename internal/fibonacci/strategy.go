package fibonacci

import (
	"fmt"
	"math/bits"

	"github.com/agbru/fibdrv/internal/bignum"
)

// Strategy computes F(k) in machine integers. Results wrap around (two's
// complement) past MaxFibInt64; strategies exist to compare the running time
// of different algorithms, not to produce large values.
type Strategy func(k int64) (int64, error)

// Selector identifies one of the four timing strategies.
type Selector int

const (
	// SelectSequenceArray selects SequenceArray.
	SelectSequenceArray Selector = iota
	// SelectSequenceConstant selects SequenceConstant.
	SelectSequenceConstant
	// SelectFastDoubling selects FastDoubling64.
	SelectFastDoubling
	// SelectFastDoublingCLZ selects FastDoublingCLZ.
	SelectFastDoublingCLZ
)

// NumStrategies is the number of valid selectors.
const NumStrategies = 4

var strategies = [NumStrategies]struct {
	name string
	fn   Strategy
}{
	{"sequence-array", SequenceArray},
	{"sequence-constant", SequenceConstant},
	{"fast-doubling", FastDoubling64},
	{"fast-doubling-clz", FastDoublingCLZ},
}

// Valid reports whether s names a strategy.
func (s Selector) Valid() bool {
	return s >= 0 && s < NumStrategies
}

// String returns the strategy name, or "selector(N)" for invalid values.
func (s Selector) String() string {
	if !s.Valid() {
		return fmt.Sprintf("selector(%d)", int(s))
	}
	return strategies[s].name
}

// StrategyFor returns the strategy for s and whether s is valid.
func StrategyFor(s Selector) (Strategy, bool) {
	if !s.Valid() {
		return nil, false
	}
	return strategies[s].fn, true
}

// ComputeValue runs the strategy selected by s on k.
//
// Parameters:
//   - s: The strategy selector, 0 through 3.
//   - k: The Fibonacci index.
//
// Returns:
//   - int64: F(k), wrapped to 64 bits.
//   - error: An error for an invalid selector or a failed allocation.
func ComputeValue(s Selector, k int64) (int64, error) {
	fn, ok := StrategyFor(s)
	if !ok {
		return 0, fmt.Errorf("fibonacci: unknown strategy %s", s)
	}
	return fn(k)
}

// SequenceArray fills an auxiliary array of k+2 entries with F(0)..F(k).
func SequenceArray(k int64) (v int64, err error) {
	if k <= 0 {
		return 0, nil
	}
	if k > int64(bignum.MaxLimbs()) {
		return 0, fmt.Errorf("%w: %d-entry sequence exceeds limit", bignum.ErrAllocation, k+2)
	}
	defer func() {
		if r := recover(); r != nil {
			v, err = 0, fmt.Errorf("%w: %d-entry sequence: %v", bignum.ErrAllocation, k+2, r)
		}
	}()

	f := make([]int64, k+2)
	f[1] = 1
	for i := int64(2); i <= k; i++ {
		f[i] = f[i-1] + f[i-2]
	}
	return f[k], nil
}

// SequenceConstant iterates with two accumulators, advancing two indices
// per iteration.
func SequenceConstant(k int64) (int64, error) {
	if k <= 0 {
		return 0, nil
	}
	var a, b int64 = 0, 1
	for i := int64(0); i < k/2; i++ {
		a += b // F(2i+2)
		b += a // F(2i+3)
	}
	if k&1 == 1 {
		return b, nil
	}
	return a, nil
}

// FastDoubling64 is fast doubling in int64 arithmetic. The highest set bit
// of k is found by smearing it into every lower position.
func FastDoubling64(k int64) (int64, error) {
	if k <= 2 {
		return baseValue(k), nil
	}
	n := uint64(k)
	h := n>>32 | n
	h |= h >> 16
	h |= h >> 8
	h |= h >> 4
	h |= h >> 2
	h |= h >> 1
	h ^= h >> 1
	return doubling64(n, h), nil
}

// FastDoublingCLZ is fast doubling in int64 arithmetic. The highest set bit
// of k is found with a leading-zero count.
func FastDoublingCLZ(k int64) (int64, error) {
	if k <= 2 {
		return baseValue(k), nil
	}
	n := uint64(k)
	return doubling64(n, uint64(1)<<(63-bits.LeadingZeros64(n))), nil
}

func baseValue(k int64) int64 {
	if k <= 0 {
		return 0
	}
	return 1
}

// doubling64 runs the fast-doubling loop over the bits of n selected by the
// mask h, from h down to bit 0.
func doubling64(n, h uint64) int64 {
	var a, b int64 = 0, 1
	for ; h != 0; h >>= 1 {
		c := a * (2*b - a)
		d := a*a + b*b
		if n&h != 0 {
			a, b = d, c+d
		} else {
			a, b = c, d
		}
	}
	return a
}
