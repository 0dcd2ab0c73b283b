package bignum

import (
	"errors"
	"fmt"
	"sync/atomic"
)

// DefaultMaxLimbs is the default upper bound on the length of a single limb
// buffer: 2^28 words, i.e. 2 GiB of 64-bit limbs.
const DefaultMaxLimbs = 1 << 28

var (
	// ErrAllocation reports that a limb or digit buffer could not be
	// allocated. The receiver of the failed operation is left unchanged.
	ErrAllocation = errors.New("bignum: buffer allocation failed")

	// ErrSyntax reports a malformed decimal string.
	ErrSyntax = errors.New("bignum: invalid decimal syntax")
)

var maxLimbs atomic.Int64

func init() {
	maxLimbs.Store(DefaultMaxLimbs)
}

// SetMaxLimbs sets the largest limb count any buffer may grow to and returns
// the previous limit. Values below 1 restore DefaultMaxLimbs.
//
// The limit is process-wide. It exists so that a runaway request fails with
// ErrAllocation instead of exhausting memory.
func SetMaxLimbs(n int) int {
	if n < 1 {
		n = DefaultMaxLimbs
	}
	return int(maxLimbs.Swap(int64(n)))
}

// MaxLimbs returns the current limb limit.
func MaxLimbs() int {
	return int(maxLimbs.Load())
}

// maxDigits is the digit-buffer bound matching the limb limit.
func maxDigits() int {
	return MaxLimbs()*_W/3 + 2
}

// makeWords allocates a zeroed limb buffer of length n.
func makeWords(n int) (w []Word, err error) {
	if n < 0 || n > MaxLimbs() {
		return nil, fmt.Errorf("%w: %d limbs exceeds limit of %d", ErrAllocation, n, MaxLimbs())
	}
	defer func() {
		if r := recover(); r != nil {
			w, err = nil, fmt.Errorf("%w: %d limbs: %v", ErrAllocation, n, r)
		}
	}()
	return make([]Word, n), nil
}

// makeDigits allocates an ASCII digit buffer of length n filled with '0'.
func makeDigits(n int) (s []byte, err error) {
	if n < 0 || n > maxDigits() {
		return nil, fmt.Errorf("%w: %d digits exceeds limit of %d", ErrAllocation, n, maxDigits())
	}
	defer func() {
		if r := recover(); r != nil {
			s, err = nil, fmt.Errorf("%w: %d digits: %v", ErrAllocation, n, r)
		}
	}()
	s = make([]byte, n)
	for i := range s {
		s[i] = '0'
	}
	return s, nil
}
