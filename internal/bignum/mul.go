package bignum

import "math/bits"

// Mul sets z = x * y using schoolbook multiplication. Any of z, x and y may
// be the same Int; when z aliases an operand the product is built in a
// temporary and its buffer is then moved into z.
//
// Parameters:
//   - x, y: The factors.
//
// Returns:
//   - error: An error wrapping ErrAllocation if the product buffer could not be allocated; z is then unchanged.
func (z *Int) Mul(x, y *Int) error {
	if z == x || z == y {
		tmp := &Int{}
		if err := tmp.mul(x, y); err != nil {
			return err
		}
		z.adopt(tmp)
		return nil
	}
	return z.mul(x, y)
}

// mul computes z = x * y for a z that aliases neither operand.
func (z *Int) mul(x, y *Int) error {
	xs, ys := x.limbs(), y.limbs()
	if len(xs) < len(ys) {
		xs, ys = ys, xs
	}
	if err := z.resize(len(xs) + len(ys)); err != nil {
		return err
	}
	clear(z.abs)

	for i, a := range xs {
		var carry uint
		for j, b := range ys {
			// a*b + z[i+j] + carry fits in two words.
			hi, lo := bits.Mul(uint(a), uint(b))
			var c uint
			lo, c = bits.Add(lo, uint(z.abs[i+j]), 0)
			hi += c
			lo, c = bits.Add(lo, carry, 0)
			hi += c
			z.abs[i+j] = Word(lo)
			carry = hi
		}
		z.abs[i+len(ys)] += Word(carry)
	}

	z.neg = x.neg != y.neg
	z.norm()
	return nil
}

// Lsh shifts |z| left by n mod _W bits in place. Shifts of a whole limb or
// more are not supported: n is reduced modulo the limb width first. The buffer
// grows by one limb only when the shifted-out bits would not fit.
func (z *Int) Lsh(n uint) error {
	n %= _W
	if n == 0 || z.IsZero() {
		return nil
	}
	if n > z.clz() {
		if err := z.resize(len(z.abs) + 1); err != nil {
			return err
		}
	}
	for i := len(z.abs) - 1; i > 0; i-- {
		z.abs[i] = z.abs[i]<<n | z.abs[i-1]>>(_W-n)
	}
	z.abs[0] <<= n
	return nil
}
