package bignum

import "math/bits"

// clzWord counts leading zero bits of w; it returns _W for 0.
func clzWord(w Word) uint {
	return uint(bits.LeadingZeros(uint(w)))
}

// clz counts leading zero bits across the whole magnitude, scanning from the
// highest limb down.
func (x *Int) clz() uint {
	var n uint
	xs := x.limbs()
	for i := len(xs) - 1; i >= 0; i-- {
		if xs[i] != 0 {
			return n + clzWord(xs[i])
		}
		n += _W
	}
	return n
}

// BitLen returns the number of significant bits of |x|. BitLen of 0 is 0.
func (x *Int) BitLen() int {
	return _W*x.Len() - int(x.clz())
}

// CmpAbs compares the magnitudes of x and y and returns -1, 0 or +1.
// Magnitudes are assumed trimmed: a longer buffer is a larger value.
func CmpAbs(x, y *Int) int {
	xs, ys := x.limbs(), y.limbs()
	switch {
	case len(xs) > len(ys):
		return 1
	case len(xs) < len(ys):
		return -1
	}
	for i := len(xs) - 1; i >= 0; i-- {
		switch {
		case xs[i] > ys[i]:
			return 1
		case xs[i] < ys[i]:
			return -1
		}
	}
	return 0
}

// Cmp compares x and y as signed values and returns -1, 0 or +1.
func Cmp(x, y *Int) int {
	switch {
	case x.neg == y.neg:
		r := CmpAbs(x, y)
		if x.neg {
			r = -r
		}
		return r
	case x.neg:
		return -1
	default:
		return 1
	}
}

// Sign returns -1 if x < 0, 0 if x == 0 and +1 if x > 0.
func (x *Int) Sign() int {
	switch {
	case x.IsZero():
		return 0
	case x.neg:
		return -1
	default:
		return 1
	}
}

// IsZero reports whether x == 0.
func (x *Int) IsZero() bool {
	xs := x.limbs()
	return len(xs) == 1 && xs[0] == 0
}
