package fibonacci

import "github.com/agbru/fibdrv/internal/bignum"

// Engine computes F(k) as a big integer.
type Engine func(k int64) (*bignum.Int, error)

// ComputeDecimal returns the decimal representation of F(k), computed with
// the fast-doubling engine. k <= 0 yields "0".
//
// Parameters:
//   - k: The Fibonacci index.
//
// Returns:
//   - string: The canonical decimal digits of F(k).
//   - error: An error wrapping bignum.ErrAllocation if a buffer could not be allocated.
func ComputeDecimal(k int64) (string, error) {
	return ComputeDecimalWith(FastDoubling, k)
}

// ComputeDecimalWith is ComputeDecimal with an explicit engine. A nil engine
// selects FastDoubling.
func ComputeDecimalWith(engine Engine, k int64) (string, error) {
	if engine == nil {
		engine = FastDoubling
	}
	v, err := engine(k)
	if err != nil {
		return "", err
	}
	return v.Decimal()
}
