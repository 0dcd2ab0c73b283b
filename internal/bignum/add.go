package bignum

import "math/bits"

// uadd sets z = |x| + |y| and leaves the sign untouched. z may alias x or y:
// every limb is read before the same index is written.
func (z *Int) uadd(x, y *Int) error {
	xs, ys := x.limbs(), y.limbs()
	n := (max(x.BitLen(), y.BitLen()) + 1 + _W - 1) / _W
	if err := z.resize(n); err != nil {
		return err
	}
	var carry uint
	for i := 0; i < n; i++ {
		var a, b Word
		if i < len(xs) {
			a = xs[i]
		}
		if i < len(ys) {
			b = ys[i]
		}
		var s uint
		s, carry = bits.Add(uint(a), uint(b), carry)
		z.abs[i] = Word(s)
	}
	z.norm()
	return nil
}

// usub sets z = |x| - |y| and leaves the sign untouched. The caller
// guarantees |x| >= |y|. z may alias x or y.
func (z *Int) usub(x, y *Int) error {
	xs, ys := x.limbs(), y.limbs()
	n := max(len(xs), len(ys))
	if err := z.resize(n); err != nil {
		return err
	}
	var borrow uint
	for i := 0; i < n; i++ {
		var a, b Word
		if i < len(xs) {
			a = xs[i]
		}
		if i < len(ys) {
			b = ys[i]
		}
		var d uint
		d, borrow = bits.Sub(uint(a), uint(b), borrow)
		z.abs[i] = Word(d)
	}
	// Cancellation may clear several high limbs at once.
	drop := int(z.clz() / _W)
	if drop == n {
		drop--
	}
	return z.resize(n - drop)
}

// Add sets z = x + y. Any of z, x and y may be the same Int.
//
// Parameters:
//   - x, y: The operands.
//
// Returns:
//   - error: An error wrapping ErrAllocation if z could not grow; z is then unchanged.
func (z *Int) Add(x, y *Int) error {
	if x.neg == y.neg {
		neg := x.neg
		if err := z.uadd(x, y); err != nil {
			return err
		}
		z.neg = neg
		return nil
	}

	pos, neg := x, y
	if x.neg {
		pos, neg = y, x
	}
	switch CmpAbs(pos, neg) {
	case 1:
		if err := z.usub(pos, neg); err != nil {
			return err
		}
		z.neg = false
	case -1:
		if err := z.usub(neg, pos); err != nil {
			return err
		}
		z.neg = true
	default:
		if err := z.resize(1); err != nil {
			return err
		}
		z.abs[0] = 0
		z.neg = false
	}
	return nil
}

// Sub sets z = x - y. Any of z, x and y may be the same Int.
//
// It adds x to a transient view of y with the opposite sign. The view shares
// y's limbs and is dropped before Sub returns, so y itself is never modified
// unless it is also z.
func (z *Int) Sub(x, y *Int) error {
	ny := Int{neg: !y.neg && !y.IsZero(), abs: y.abs}
	return z.Add(x, &ny)
}
