package bignum

import "fmt"

// Kind discriminates Number's variants.
type Kind uint8

const (
	KindNaN Kind = iota
	KindInfinity
	KindNegInfinity
	KindReal
	KindComplex
)

const (
	nanName = "NeN"
	infName = "infinito"
)

// Number is tinta's numeric tower root: NaN | +Inf | -Inf | a signed
// Real | a Complex (re, im) pair of Reals. Grounded directly on
// original_source/src/compiler/value/number/mod.rs's `Number` enum.
type Number struct {
	kind Kind
	re   Real
	im   Real // only meaningful when kind == KindComplex
}

// NaN, Infinity and NegInfinity are the three non-finite Number values.
var (
	NaN         = Number{kind: KindNaN}
	Infinity    = Number{kind: KindInfinity}
	NegInfinity = Number{kind: KindNegInfinity}
)

// FromReal wraps a signed Real as a Number.
func FromReal(r Real) Number { return Number{kind: KindReal, re: r} }

// FromComplex builds a Number from a real and imaginary Real pair,
// normalizing a zero imaginary part down to KindReal.
func FromComplex(re, im Real) Number {
	n := Number{kind: KindComplex, re: re, im: im}
	return n.normalize()
}

// FromInt64 builds a Number from a machine integer.
func FromInt64(v int64) Number { return FromReal(RealFromInt64(v)) }

func (n Number) normalize() Number {
	if n.kind == KindComplex && n.im.IsZero() {
		return Number{kind: KindReal, re: n.re}
	}
	return n
}

// Kind reports n's discriminant.
func (n Number) Kind() Kind { return n.kind }

// IsNaN reports whether n is the NaN value.
func (n Number) IsNaN() bool { return n.kind == KindNaN }

// IsInfinite reports whether n is +Inf or -Inf.
func (n Number) IsInfinite() bool { return n.kind == KindInfinity || n.kind == KindNegInfinity }

// IsZero reports whether n is exactly zero (NaN/Inf are never zero).
func (n Number) IsZero() bool {
	switch n.kind {
	case KindReal:
		return n.re.IsZero()
	case KindComplex:
		return n.re.IsZero() && n.im.IsZero()
	default:
		return false
	}
}

// AsReal returns (real part, true) when n is a real (or real-valued
// complex) number, or (zero, false) for NaN/Inf/a true complex number.
func (n Number) AsReal() (Real, bool) {
	if n.kind == KindReal {
		return n.re, true
	}
	return Real{}, false
}

func realZero() Real { return Real{} }
func realOne() Real  { return RealInt(false, UIntFromUint64(1)) }

func (n Number) ceilFloorTruncRound(op func(Real) Real) Number {
	switch n.kind {
	case KindReal:
		return FromReal(op(n.re))
	case KindComplex:
		return FromComplex(op(n.re), op(n.im))
	default:
		return n
	}
}

// Ceil, Floor, Trunc, Round apply element-wise to the real (and,
// if complex, imaginary) components; NaN/Inf pass through unchanged.
func (n Number) Ceil() Number  { return n.ceilFloorTruncRound(Real.Ceil) }
func (n Number) Floor() Number { return n.ceilFloorTruncRound(Real.Floor) }
func (n Number) Trunc() Number { return n.ceilFloorTruncRound(Real.Trunc) }
func (n Number) Round() Number { return n.ceilFloorTruncRound(Real.Round) }

// Add implements n+m with the NaN/Inf absorption rules from mod.rs:
// NaN dominates, then Infinity, then NegativeInfinity, before falling
// to the Real/Complex cases.
func (n Number) Add(m Number) Number {
	switch {
	case n.kind == KindNaN || m.kind == KindNaN:
		return NaN
	case n.kind == KindInfinity || m.kind == KindInfinity:
		return Infinity
	case n.kind == KindNegInfinity || m.kind == KindNegInfinity:
		return NegInfinity
	}
	nr, ni := n.parts()
	mr, mi := m.parts()
	return FromComplex(nr.Add(mr), ni.Add(mi))
}

// Sub implements n-m. Infinity arithmetic is asymmetric per mod.rs:
// subtracting Infinity yields -Infinity regardless of lhs, mirroring
// the original's branch order exactly.
func (n Number) Sub(m Number) Number {
	switch {
	case n.kind == KindNaN || m.kind == KindNaN:
		return NaN
	case m.kind == KindInfinity:
		return NegInfinity
	case n.kind == KindNegInfinity:
		return NegInfinity
	case n.kind == KindInfinity:
		return Infinity
	case m.kind == KindNegInfinity:
		return Infinity
	}
	nr, ni := n.parts()
	mr, mi := m.parts()
	return FromComplex(nr.Sub(mr), ni.Sub(mi))
}

// Mul implements n*m via the standard complex product formula, even
// when both operands are real (imaginary parts are then zero and
// normalize collapses the result back to KindReal).
func (n Number) Mul(m Number) Number {
	switch {
	case n.kind == KindNaN || m.kind == KindNaN:
		return NaN
	case n.kind == KindInfinity || m.kind == KindInfinity:
		return Infinity
	case n.kind == KindNegInfinity || m.kind == KindNegInfinity:
		return NegInfinity
	}
	a, b := n.parts()
	c, d := m.parts()
	return FromComplex(a.Mul(c).Sub(b.Mul(d)), a.Mul(d).Add(c.Mul(b)))
}

// Div implements n/m via the standard complex-conjugate division
// formula. Division by zero is the value layer's responsibility to
// guard before calling this (it will panic inside UInt.QuoRem).
func (n Number) Div(m Number) Number {
	switch {
	case n.kind == KindNaN || m.kind == KindNaN:
		return NaN
	case n.kind == KindInfinity:
		return Infinity
	case m.kind == KindInfinity:
		return FromReal(realZero())
	case n.kind == KindNegInfinity:
		return NegInfinity
	case m.kind == KindNegInfinity:
		return FromReal(realZero())
	}
	a, b := n.parts()
	c, d := m.parts()
	conj := c.Mul(c).Add(d.Mul(d))
	re := a.Mul(c).Add(b.Mul(d)).Quo(conj)
	im := b.Mul(c).Sub(a.Mul(d)).Quo(conj)
	return FromComplex(re, im)
}

// Neg returns -n.
func (n Number) Neg() Number {
	switch n.kind {
	case KindNaN:
		return NaN
	case KindInfinity:
		return NegInfinity
	case KindNegInfinity:
		return Infinity
	case KindComplex:
		return Number{kind: KindComplex, re: n.re.Neg(), im: n.im.Neg()}
	default:
		return FromReal(n.re.Neg())
	}
}

// Rem implements n%m as n - m*trunc(n/m).
func (n Number) Rem(m Number) Number {
	q := n.Div(m).Trunc()
	return n.Sub(m.Mul(q))
}

// parts returns (real, imaginary) Real components, treating a purely
// real or non-finite Number as having a zero imaginary part.
func (n Number) parts() (Real, Real) {
	switch n.kind {
	case KindReal:
		return n.re, realZero()
	case KindComplex:
		return n.re, n.im
	default:
		return realZero(), realZero()
	}
}

// Pow implements n^exp. Carries forward the documented limitation from
// mod.rs: a negative integer exponent on a real base returns a zero
// Float rather than the true reciprocal (spec.md §9, open question 1 —
// kept intentionally, not "fixed").
func (n Number) Pow(exp Number) Number {
	switch {
	case n.kind == KindNaN || exp.kind == KindNaN:
		return NaN
	case n.kind == KindInfinity || n.kind == KindNegInfinity:
		if exp.kind != KindReal {
			return NaN
		}
		e := exp.re
		if e.IsNegative() || e.IsZero() {
			return FromReal(realZero())
		}
		if e.IsInt() {
			if ei, ok := realIntUnit(e); ok {
				if ei%2 == 0 {
					return Infinity
				}
				if n.kind == KindNegInfinity {
					return NegInfinity
				}
				return Infinity
			}
		}
		return Infinity
	}
	if n.kind != KindReal || exp.kind != KindReal {
		return NaN
	}
	x, y := n.re, exp.re
	switch {
	case x.IsZero() && y.IsNegative():
		return Infinity
	case x.IsZero() && y.IsZero():
		return NaN
	case x.IsZero():
		return FromReal(realZero())
	case y.IsZero():
		return FromReal(realOne())
	}
	if !y.IsInt() {
		// Non-integer exponents are unimplemented upstream too
		// (mod.rs's `todo!`); tinta reports NaN instead of panicking.
		return NaN
	}
	neg := y.IsNegative()
	result := realOne()
	base := x
	exponent := y.Trunc()
	two := RealFromInt64(2)
	for !exponent.IsZero() {
		if !exponentIsEven(exponent) {
			result = result.Mul(base)
		}
		base = base.Mul(base)
		exponent = exponent.Quo(two).Trunc()
	}
	if neg {
		return FromReal(RealFloat(false, UFloat{}))
	}
	return FromReal(result)
}

// realIntUnit returns the low machine-word digit of r's magnitude when
// r is a non-negative integer Real representable in 64 bits, used only
// for the Inf^n parity check above.
func realIntUnit(r Real) (uint64, bool) {
	if r.isFloat {
		return 0, false
	}
	return r.i.Uint64(), true
}

func exponentIsEven(r Real) bool {
	if r.isFloat {
		return true
	}
	return r.i.IsEven()
}

// Cmp implements the non-standard total order from mod.rs: NaN
// compares greater than everything including another NaN, Infinity is
// greater than every finite/complex value, NegativeInfinity is less
// than everything. This is intentional (spec.md §9, open question 3) —
// never "fix" it to IEEE-754 unordered semantics.
func (n Number) Cmp(m Number) int {
	switch {
	case n.kind == KindNaN:
		return 1
	case m.kind == KindNaN:
		return -1
	case n.kind == KindInfinity:
		return 1
	case m.kind == KindInfinity:
		return -1
	case n.kind == KindNegInfinity:
		return -1
	case m.kind == KindNegInfinity:
		return 1
	}
	a, b := n.parts()
	c, d := m.parts()
	if re := a.Cmp(c); re != 0 {
		return re
	}
	return b.Cmp(d)
}

// Less reports whether n < m under Cmp's ordering.
func (n Number) Less(m Number) bool { return n.Cmp(m) < 0 }

// Equal reports value equality; like the original, this is defined via
// string rendering rather than structural equality, so differently-
// normalized representations of the same printed value compare equal.
// NaN.Equal(NaN) is true, since both render as "NeN", even though Cmp
// orders NaN above itself — tinta documents this explicitly rather
// than special-casing it.
func (n Number) Equal(m Number) bool { return n.String() == m.String() }

// ParseLiteral parses a tinta source-level number literal: a plain
// base-10 literal (optionally with a fractional part), or one of the
// radix-prefixed integer forms `0b`, `0o`, `0d`, `0x`, `0$<base>~`, per
// spec.md §6. Grounded on
// original_source/src/frontend/lexer/token_number.rs's prefix dispatch.
func ParseLiteral(raw string) (Number, error) {
	if len(raw) >= 2 && raw[0] == '0' {
		switch raw[1] {
		case 'b', 'B':
			return ParseNumberRadix(raw[2:], 2)
		case 'o', 'O':
			return ParseNumberRadix(raw[2:], 8)
		case 'd', 'D':
			return ParseNumberRadix(raw[2:], 10)
		case 'x', 'X':
			return ParseNumberRadix(raw[2:], 16)
		case '$':
			base := 0
			i := 2
			for i < len(raw) && raw[i] >= '0' && raw[i] <= '9' {
				base = base*10 + int(raw[i]-'0')
				i++
			}
			if i < len(raw) && raw[i] == '~' {
				i++
			}
			if base < 2 || base > 36 {
				return Number{}, fmt.Errorf("bignum: invalid literal radix %d", base)
			}
			return ParseNumberRadix(raw[i:], base)
		}
	}
	return ParseNumber(raw)
}

// ParseNumber parses a base-10 signed real-number literal.
func ParseNumber(s string) (Number, error) {
	r, err := ParseReal(s)
	if err != nil {
		return Number{}, err
	}
	return FromReal(r), nil
}

// ParseNumberRadix parses a signed integer literal in the given radix,
// the form produced by `0$<base>~<digits>` literals.
func ParseNumberRadix(s string, radix int) (Number, error) {
	r, err := ParseRealRadix(s, radix)
	if err != nil {
		return Number{}, err
	}
	return FromReal(r), nil
}

// String renders n the way tinta prints it to console output:
// "NeN" / "infinito" / "-infinito" / the real's digits / "a + bi".
func (n Number) String() string {
	switch n.kind {
	case KindNaN:
		return nanName
	case KindInfinity:
		return infName
	case KindNegInfinity:
		return "-" + infName
	case KindReal:
		return n.re.String()
	case KindComplex:
		switch {
		case n.re.IsZero() && n.im.IsZero():
			return "0"
		case n.re.IsZero():
			return n.im.String() + "i"
		case n.im.IsZero():
			return n.re.String()
		default:
			return fmt.Sprintf("%s + %si", n.re.String(), n.im.String())
		}
	default:
		return nanName
	}
}
