package bignum

import "strings"

// UFloat is an unsigned arbitrary-precision decimal: an integer part
// plus a fractional digit string, both base 10 (spec.md §4.1 models the
// fractional part as decimal digits, since radix-agnostic fractions are
// out of scope — only integer literals take the `0$base~` form).
// Grounded on ComplexMath-rs's DecimalNumber, generalized to our UInt
// limb integer instead of a decimal-string BigInt.
type UFloat struct {
	Int  UInt
	frac string // decimal digits after the point, no trailing zeros, "" means .0
}

// UFloatFromParts builds a UFloat from an integer part and a raw
// fractional digit string (most significant digit first). Trailing
// zeros are trimmed so the representation stays canonical.
func UFloatFromParts(intPart UInt, frac string) UFloat {
	frac = strings.TrimRight(frac, "0")
	return UFloat{Int: intPart, frac: frac}
}

// ParseDecimal parses a string of the form "123.456" (integer part
// optional, defaulting to 0) into a UFloat.
func ParseDecimal(s string) (UFloat, error) {
	dot := strings.IndexByte(s, '.')
	if dot < 0 {
		n, err := ParseRadix(s, 10)
		if err != nil {
			return UFloat{}, err
		}
		return UFloat{Int: n}, nil
	}
	intStr, fracStr := s[:dot], s[dot+1:]
	var intPart UInt
	var err error
	if intStr == "" {
		intPart = UInt{}
	} else {
		intPart, err = ParseRadix(intStr, 10)
		if err != nil {
			return UFloat{}, err
		}
	}
	return UFloatFromParts(intPart, fracStr), nil
}

// HasDecimals reports whether the fractional part carries any non-zero
// digits, i.e. whether the value is not actually an integer.
func (f UFloat) HasDecimals() bool { return f.frac != "" }

// IsZero reports whether f is exactly zero.
func (f UFloat) IsZero() bool { return f.Int.IsZero() && f.frac == "" }

// Decimals returns the number of fractional digits retained.
func (f UFloat) Decimals() int { return len(f.frac) }

// Trunc returns the integer part, discarding any fraction.
func (f UFloat) Trunc() UInt { return f.Int.Clone() }

// scaled returns f as a single UInt scaled by 10^n (n >= len(f.frac)),
// padding the fraction with trailing zeros as needed.
func (f UFloat) scaled(n int) UInt {
	digits := f.frac
	if len(digits) < n {
		digits = digits + strings.Repeat("0", n-len(digits))
	}
	ten := UIntFromUint64(10)
	scale := UIntFromUint64(1)
	for i := 0; i < n; i++ {
		scale = scale.Mul(ten)
	}
	whole := f.Int.Mul(scale)
	if digits == "" {
		return whole
	}
	fracVal, _ := ParseRadix(digits, 10)
	return whole.Add(fracVal)
}

// splitScaled turns a scaled integer value (scaled by 10^n) back into a
// UFloat with n fractional digits.
func splitScaled(v UInt, n int) UFloat {
	if n == 0 {
		return UFloat{Int: v}
	}
	ten := UIntFromUint64(10)
	scale := UIntFromUint64(1)
	for i := 0; i < n; i++ {
		scale = scale.Mul(ten)
	}
	intPart, fracPart := v.QuoRem(scale)
	fracStr := fracPart.ToStringRadix(10)
	if len(fracStr) < n {
		fracStr = strings.Repeat("0", n-len(fracStr)) + fracStr
	}
	return UFloatFromParts(intPart, fracStr)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func pow10(n int) UInt {
	ten := UIntFromUint64(10)
	result := UIntFromUint64(1)
	for i := 0; i < n; i++ {
		result = result.Mul(ten)
	}
	return result
}

// Add returns f+g.
func (f UFloat) Add(g UFloat) UFloat {
	n := maxInt(f.Decimals(), g.Decimals())
	return splitScaled(f.scaled(n).Add(g.scaled(n)), n)
}

// Sub returns f-g. Caller must ensure f >= g (same convention as UInt.Sub).
func (f UFloat) Sub(g UFloat) UFloat {
	n := maxInt(f.Decimals(), g.Decimals())
	return splitScaled(f.scaled(n).Sub(g.scaled(n)), n)
}

// Mul returns f*g.
func (f UFloat) Mul(g UFloat) UFloat {
	n := f.Decimals() + g.Decimals()
	return splitScaled(f.scaled(f.Decimals()).Mul(g.scaled(g.Decimals())), n)
}

// Quo returns f/g truncated to a fixed 20 fractional digits of
// precision, matching the original's integer-division-then-resplit
// approach while avoiding infinite non-terminating decimal expansions.
func (f UFloat) Quo(g UFloat) UFloat {
	const precision = 20
	fScaled := f.scaled(f.Decimals()) // f.Int*10^df + frac, i.e. F
	gScaled := g.scaled(g.Decimals()) // G
	numerator := fScaled.Mul(pow10(g.Decimals() + precision))
	denominator := gScaled.Mul(pow10(f.Decimals()))
	return splitScaled(numerator.Quo(denominator), precision)
}

// Cmp returns -1, 0, or 1 comparing f and g.
func (f UFloat) Cmp(g UFloat) int {
	n := maxInt(f.Decimals(), g.Decimals())
	return f.scaled(n).Cmp(g.scaled(n))
}

// Equal reports whether f and g represent the same value.
func (f UFloat) Equal(g UFloat) bool { return f.Cmp(g) == 0 }

// Less reports whether f < g.
func (f UFloat) Less(g UFloat) bool { return f.Cmp(g) < 0 }

// CmpDecimalsHalf compares the fractional part against exactly .5, used
// by banker's rounding to detect the round-to-even case.
func (f UFloat) CmpDecimalsHalf() int {
	if f.frac == "" {
		return -1
	}
	half := UFloatFromParts(UInt{}, "5")
	fracOnly := UFloatFromParts(UInt{}, f.frac)
	return fracOnly.Cmp(half)
}

// String renders f as "<int>.<frac>", with ".0" for an integral value.
func (f UFloat) String() string {
	frac := f.frac
	if frac == "" {
		frac = "0"
	}
	return f.Int.String() + "." + frac
}
