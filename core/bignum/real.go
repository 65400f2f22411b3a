package bignum

import (
	"fmt"
	"strings"
)

// Real is a signed real number: either an exact integer or a decimal
// float, each carrying its own sign bit (mirroring
// original_source/src/compiler/value/number/real.rs's
// `Int(bool, BigUInt) | Float(bool, BigUFloat)`, rather than folding
// the sign into two's-complement, so zero is always non-negative and
// comparisons can special-case sign cheaply).
type Real struct {
	isFloat bool
	neg     bool
	i       UInt
	f       UFloat
}

// RealInt builds a signed integer Real.
func RealInt(neg bool, v UInt) Real {
	r := Real{neg: neg, i: v}
	return r.normalize()
}

// RealFloat builds a signed decimal Real.
func RealFloat(neg bool, v UFloat) Real {
	r := Real{isFloat: true, neg: neg, f: v}
	return r.normalize()
}

// RealFromInt64 builds a Real from a machine integer.
func RealFromInt64(v int64) Real {
	if v < 0 {
		return RealInt(true, UIntFromUint64(uint64(-v)))
	}
	return RealInt(false, UIntFromUint64(uint64(v)))
}

// normalize collapses -0 to +0 and demotes a Float with no fractional
// digits to an Int, matching RealNumber::normalize.
func (r Real) normalize() Real {
	if r.IsZero() {
		return Real{}
	}
	if r.isFloat && !r.f.HasDecimals() {
		return RealInt(r.neg, r.f.Trunc())
	}
	return r
}

// IsZero reports whether r is zero, sign-insensitive.
func (r Real) IsZero() bool {
	if r.isFloat {
		return r.f.IsZero()
	}
	return r.i.IsZero()
}

// IsNegative reports r's sign bit (always false for zero after normalize).
func (r Real) IsNegative() bool { return r.neg }

// IsInt reports whether r carries no fractional part.
func (r Real) IsInt() bool {
	if r.isFloat {
		return !r.f.HasDecimals()
	}
	return true
}

// Floor, Ceil, Round, Trunc mirror real.rs exactly, including the
// asymmetric +1/-1 adjustment driven by sign.
func (r Real) Floor() Real {
	if !r.isFloat {
		return r
	}
	intPart := r.f.Trunc()
	if !r.f.HasDecimals() {
		return RealInt(r.neg, intPart)
	}
	if r.neg {
		return RealInt(r.neg, intPart.Add(UIntFromUint64(1)))
	}
	return RealInt(r.neg, intPart)
}

func (r Real) Ceil() Real {
	if !r.isFloat {
		return r
	}
	intPart := r.f.Trunc()
	if !r.f.HasDecimals() {
		return RealInt(r.neg, intPart)
	}
	if !r.neg {
		return RealInt(r.neg, intPart.Add(UIntFromUint64(1)))
	}
	return RealInt(r.neg, intPart)
}

// Round applies banker's rounding (round-half-to-even), per spec.md's
// open-question decision to keep this non-standard-but-documented rule.
func (r Real) Round() Real {
	if !r.isFloat {
		return r
	}
	intPart := r.f.Trunc()
	if !r.f.HasDecimals() {
		return RealInt(r.neg, intPart)
	}
	switch r.f.CmpDecimalsHalf() {
	case 1:
		return RealInt(r.neg, intPart.Add(UIntFromUint64(1)))
	case -1:
		return RealInt(r.neg, intPart)
	default:
		var lastDigitOdd uint64
		if !intPart.IsEven() {
			lastDigitOdd = 1
		}
		return RealInt(r.neg, intPart.Add(UIntFromUint64(lastDigitOdd)))
	}
}

func (r Real) Trunc() Real {
	if !r.isFloat {
		return r
	}
	return RealInt(r.neg, r.f.Trunc())
}

// Uint64 returns the truncated magnitude of r as a machine integer,
// discarding any sign and fractional part. Used where a value is
// already known to be a non-negative integer (e.g. repeat counts).
func (r Real) Uint64() uint64 {
	t := r.Trunc()
	if t.isFloat {
		return t.f.Trunc().Uint64()
	}
	return t.i.Uint64()
}

// Neg returns -r (zero stays non-negative).
func (r Real) Neg() Real {
	if r.IsZero() {
		return r
	}
	if r.isFloat {
		return RealFloat(!r.neg, r.f)
	}
	return RealInt(!r.neg, r.i)
}

// Add returns r+s, following real.rs's unequal-sign branch structure:
// same sign sums magnitudes; opposite signs subtract the smaller from
// the larger and take the larger's sign.
func (r Real) Add(s Real) Real {
	if r.isFloat || s.isFloat {
		rf, sf := r.asFloat(), s.asFloat()
		var neg bool
		switch rf.f.Cmp(sf.f) {
		case 1:
			neg = rf.neg
		case -1:
			neg = sf.neg
		default:
			neg = rf.neg && sf.neg
		}
		var value UFloat
		if rf.neg != sf.neg {
			value = subAbsFloat(rf.f, sf.f)
		} else {
			value = rf.f.Add(sf.f)
		}
		return RealFloat(neg, value)
	}
	if r.neg == s.neg {
		return RealInt(r.neg, r.i.Add(s.i))
	}
	if (r.i.IsZero() && s.i.IsZero()) || r.i.Equal(s.i) {
		return Real{}
	}
	if s.i.Less(r.i) {
		return RealInt(r.neg, r.i.Sub(s.i))
	}
	return RealInt(s.neg, s.i.Sub(r.i))
}

// subAbsFloat returns |a-b| reordering operands so UFloat.Sub's a>=b
// convention holds.
func subAbsFloat(a, b UFloat) UFloat {
	if a.Less(b) {
		return b.Sub(a)
	}
	return a.Sub(b)
}

// Sub returns r-s.
func (r Real) Sub(s Real) Real { return r.Add(s.Neg()) }

// Mul returns r*s.
func (r Real) Mul(s Real) Real {
	sign := r.neg != s.neg
	if r.isFloat || s.isFloat {
		return RealFloat(sign, r.asFloat().f.Mul(s.asFloat().f))
	}
	return RealInt(sign, r.i.Mul(s.i))
}

// Quo returns r/s. Division by zero is the caller's responsibility to
// guard (the value layer raises a typed MathError before reaching here).
func (r Real) Quo(s Real) Real {
	sign := r.neg != s.neg
	if r.isFloat || s.isFloat {
		return RealFloat(sign, r.asFloat().f.Quo(s.asFloat().f))
	}
	return RealInt(sign, r.i.Quo(s.i))
}

// Rem returns r%s following real.rs: r - s*trunc(r/s).
func (r Real) Rem(s Real) Real {
	q := r.Quo(s).Trunc()
	return r.Sub(s.Mul(q))
}

func (r Real) asFloat() Real {
	if r.isFloat {
		return r
	}
	return Real{isFloat: true, neg: r.neg, f: UFloat{Int: r.i}}
}

// Cmp returns -1, 0, or 1 comparing r and s, sign-first then magnitude.
// Int and Float operands are both widened to a decimal and compared
// the same way, whichever side is which.
func (r Real) Cmp(s Real) int {
	if r.IsZero() && s.IsZero() {
		return 0
	}
	if r.neg && !s.neg {
		return -1
	}
	if !r.neg && s.neg {
		return 1
	}
	rf, sf := r.asFloat().f, s.asFloat().f
	c := rf.Cmp(sf)
	if r.neg && s.neg {
		return -c
	}
	return c
}

// Equal reports whether r and s compare equal.
func (r Real) Equal(s Real) bool { return r.Cmp(s) == 0 }

// Less reports whether r < s.
func (r Real) Less(s Real) bool { return r.Cmp(s) < 0 }

// ParseRealRadix parses a signed integer literal in the given radix.
// Only integers take a radix other than 10 (spec.md §4.1: the `0$base~`
// form denotes integer literals only).
func ParseRealRadix(s string, radix int) (Real, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Real{}, fmt.Errorf("bignum: cannot parse empty string")
	}
	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}
	v, err := ParseRadix(s, radix)
	if err != nil {
		return Real{}, err
	}
	return RealInt(neg, v), nil
}

// ParseReal parses a signed decimal literal ("-3.14", "42") base 10.
func ParseReal(s string) (Real, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Real{}, fmt.Errorf("bignum: cannot parse empty string")
	}
	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}
	f, err := ParseDecimal(s)
	if err != nil {
		return Real{}, err
	}
	if f.HasDecimals() {
		return RealFloat(neg, f), nil
	}
	return RealInt(neg, f.Int), nil
}

// String renders r with a leading "-" when negative.
func (r Real) String() string {
	sign := ""
	if r.neg {
		sign = "-"
	}
	if r.isFloat {
		return sign + r.f.String()
	}
	return sign + r.i.String()
}
