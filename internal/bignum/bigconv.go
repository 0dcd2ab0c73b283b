package bignum

import "math/big"

// SetBig sets z to the value of b.
func (z *Int) SetBig(b *big.Int) error {
	bw := b.Bits()
	if err := z.resize(max(len(bw), 1)); err != nil {
		return err
	}
	z.abs[0] = 0
	for i, w := range bw {
		z.abs[i] = Word(w)
	}
	z.neg = b.Sign() < 0
	z.norm()
	return nil
}

// Big returns a new *big.Int holding the value of x.
func (x *Int) Big() *big.Int {
	xs := x.limbs()
	bw := make([]big.Word, len(xs))
	for i, w := range xs {
		bw[i] = big.Word(w)
	}
	b := new(big.Int).SetBits(bw)
	if x.neg {
		b.Neg(b)
	}
	return b
}
