// Package bignum implements sign-magnitude arbitrary-precision integers.
//
// An Int owns a growable buffer of limbs (machine words, least significant
// first) and a sign flag. Every arithmetic method mutates its receiver in
// place and returns an error only when a buffer cannot be allocated; the
// error wraps ErrAllocation and the receiver keeps its previous value.
//
// The package provides exactly what the Fibonacci engines need: addition,
// subtraction, schoolbook multiplication, sub-limb left shifts, magnitude
// comparison and binary-to-decimal conversion. There is no division.
//
// Int values are not safe for concurrent use. Callers that share an Int
// between goroutines must serialize access themselves.
package bignum

import "math/bits"

// Word is a single limb of an Int's magnitude.
type Word uint

// _W is the limb width in bits.
const _W = bits.UintSize

// WordBits is the limb width in bits: 64 on 64-bit targets, 32 otherwise.
const WordBits = _W

// zeroLimbs is the read-only magnitude of the zero value. It is never written.
var zeroLimbs = []Word{0}

// Int is a signed arbitrary-precision integer.
//
// The zero value is a valid Int holding 0. Zero is always non-negative and
// high limbs are kept trimmed, so a magnitude of length > 1 never ends in a
// zero limb once an operation returns.
type Int struct {
	neg bool
	abs []Word
}

// New returns an Int set to 0 with a single zero limb.
func New() *Int {
	return &Int{abs: []Word{0}}
}

// NewInt returns an Int set to v.
func NewInt(v int64) *Int {
	u := uint64(v)
	if v < 0 {
		u = -u
	}
	z := New().SetUint64(u)
	z.neg = v < 0
	return z
}

// limbs returns the magnitude for reading. It never returns an empty slice.
func (x *Int) limbs() []Word {
	if len(x.abs) == 0 {
		return zeroLimbs
	}
	return x.abs
}

// resize sets the limb count to n (n >= 1). Growing zero-fills the new high
// limbs and keeps the low ones; shrinking discards high limbs without
// looking at them, so callers only shrink over limbs known to be zero.
func (z *Int) resize(n int) error {
	old := len(z.abs)
	switch {
	case n == old:
		return nil
	case n < old:
		z.abs = z.abs[:n]
		return nil
	case n <= cap(z.abs):
		z.abs = z.abs[:n]
		clear(z.abs[old:])
		return nil
	}
	buf, err := makeWords(n)
	if err != nil {
		return err
	}
	copy(buf, z.abs)
	z.abs = buf
	return nil
}

// norm trims zero high limbs, keeping at least one, and canonicalizes the
// sign of zero.
func (z *Int) norm() {
	n := len(z.abs)
	for n > 1 && z.abs[n-1] == 0 {
		n--
	}
	if n == 0 {
		z.abs = append(z.abs[:0], 0)
		n = 1
	}
	z.abs = z.abs[:n]
	if z.abs[0] == 0 && n == 1 {
		z.neg = false
	}
}

// adopt moves src's limb buffer and sign into z, releasing z's previous
// buffer. src is left empty (reading as zero) and must not share storage
// with anything else afterwards.
func (z *Int) adopt(src *Int) {
	z.neg, z.abs = src.neg, src.abs
	src.neg, src.abs = false, nil
}

// Set makes z a deep copy of x.
func (z *Int) Set(x *Int) error {
	if z == x {
		return nil
	}
	xs := x.limbs()
	if err := z.resize(len(xs)); err != nil {
		return err
	}
	copy(z.abs, xs)
	z.neg = x.neg
	return nil
}

// Neg sets z to -x.
func (z *Int) Neg(x *Int) error {
	if err := z.Set(x); err != nil {
		return err
	}
	z.neg = !z.neg && !z.IsZero()
	return nil
}

// SetUint64 sets z to v and returns z.
func (z *Int) SetUint64(v uint64) *Int {
	z.neg = false
	if _W == 64 {
		z.abs = append(z.abs[:0], Word(v))
	} else {
		z.abs = append(z.abs[:0], Word(v), Word(v>>32))
	}
	z.norm()
	return z
}

// SetUint128 sets z to hi<<64 | lo and returns z.
func (z *Int) SetUint128(hi, lo uint64) *Int {
	z.neg = false
	if _W == 64 {
		z.abs = append(z.abs[:0], Word(lo), Word(hi))
	} else {
		z.abs = append(z.abs[:0], Word(lo), Word(lo>>32), Word(hi), Word(hi>>32))
	}
	z.norm()
	return z
}

// Len returns the number of limbs in use.
func (x *Int) Len() int {
	return len(x.limbs())
}

// Cap returns the capacity of the limb buffer.
func (x *Int) Cap() int {
	return cap(x.abs)
}

// Words returns a copy of the magnitude, least significant limb first.
func (x *Int) Words() []Word {
	xs := x.limbs()
	out := make([]Word, len(xs))
	copy(out, xs)
	return out
}
