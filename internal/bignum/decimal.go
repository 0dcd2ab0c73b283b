package bignum

import (
	"fmt"
	"strings"
)

// Decimal returns the base-10 representation of x, with a leading '-' for
// negative values. It uses the double-dabble method: the magnitude is
// scanned from its most significant bit and every step doubles the decimal
// digit string and adds the scanned bit.
//
// Returns:
//   - string: The decimal digits, with no leading zeros.
//   - error: An error wrapping ErrAllocation if the digit buffer could not be allocated.
func (x *Int) Decimal() (string, error) {
	xs := x.limbs()
	// Enough digits for any len(xs)-limb value, plus one slot for the sign.
	buf, err := makeDigits(_W*len(xs)/3 + 2)
	if err != nil {
		return "", err
	}

	lo := len(buf) - 1
	top := lo // most significant digit written so far
	for i := len(xs) - 1; i >= 0; i-- {
		for d := Word(1) << (_W - 1); d != 0; d >>= 1 {
			var carry byte
			if xs[i]&d != 0 {
				carry = 1
			}
			for j := lo; j >= top; j-- {
				v := (buf[j]-'0')*2 + carry
				carry = 0
				if v > 9 {
					v -= 10
					carry = 1
				}
				buf[j] = '0' + v
			}
			if carry == 1 {
				top--
				buf[top] = '1'
			}
		}
	}

	for top < lo && buf[top] == '0' {
		top++
	}
	if x.neg && !x.IsZero() {
		top--
		buf[top] = '-'
	}
	return string(buf[top:]), nil
}

// String implements fmt.Stringer. Allocation failures are rendered inline.
func (x *Int) String() string {
	if x == nil {
		return "<nil>"
	}
	s, err := x.Decimal()
	if err != nil {
		return "<" + err.Error() + ">"
	}
	return s
}

// SetString sets z to the value of the decimal string s. An optional leading
// '-' is accepted; anything else that is not an ASCII digit is rejected with
// an error wrapping ErrSyntax. z is unchanged on error.
//
// Each digit is folded in as z*10 + d, where z*10 is (z<<3) + (z<<1).
func (z *Int) SetString(s string) error {
	digits, neg := strings.CutPrefix(s, "-")
	if digits == "" {
		return fmt.Errorf("%w: %q", ErrSyntax, s)
	}
	for i := 0; i < len(digits); i++ {
		if c := digits[i]; c < '0' || c > '9' {
			return fmt.Errorf("%w: %q: unexpected %q at offset %d", ErrSyntax, s, c, i)
		}
	}

	acc, twice, digit := New(), New(), New()
	for i := 0; i < len(digits); i++ {
		if err := twice.Set(acc); err != nil {
			return err
		}
		if err := twice.Lsh(1); err != nil {
			return err
		}
		if err := acc.Lsh(3); err != nil {
			return err
		}
		if err := acc.Add(acc, twice); err != nil {
			return err
		}
		digit.abs[0] = Word(digits[i] - '0')
		if err := acc.Add(acc, digit); err != nil {
			return err
		}
	}
	acc.neg = neg && !acc.IsZero()
	z.adopt(acc)
	return nil
}

// Parse returns a new Int holding the value of the decimal string s.
func Parse(s string) (*Int, error) {
	z := New()
	if err := z.SetString(s); err != nil {
		return nil, err
	}
	return z, nil
}
