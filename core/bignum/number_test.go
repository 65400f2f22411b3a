package bignum

import "testing"

func mustNumber(t *testing.T, s string) Number {
	t.Helper()
	n, err := ParseNumber(s)
	if err != nil {
		t.Fatalf("ParseNumber(%q) error: %v", s, err)
	}
	return n
}

func TestNumberArithmeticNaNInfinity(t *testing.T) {
	five := mustNumber(t, "5")

	if got := NaN.Add(five); !got.IsNaN() {
		t.Errorf("NaN + 5 = %s, want NeN", got)
	}
	if got := Infinity.Add(five); got.Kind() != KindInfinity {
		t.Errorf("infinito + 5 = %s, want infinito", got)
	}
	if got := five.Sub(Infinity); got.Kind() != KindNegInfinity {
		t.Errorf("5 - infinito = %s, want -infinito", got)
	}
	if got := Infinity.Div(five); got.Kind() != KindInfinity {
		t.Errorf("infinito / 5 = %s, want infinito", got)
	}
	if got := five.Div(Infinity); !got.IsZero() {
		t.Errorf("5 / infinito = %s, want 0", got)
	}
}

func TestNumberComplexArithmetic(t *testing.T) {
	a := FromComplex(RealFromInt64(3), RealFromInt64(4))
	b := FromComplex(RealFromInt64(1), RealFromInt64(2))
	sum := a.Add(b)
	if got := sum.String(); got != "4 + 6i" {
		t.Errorf("(3+4i)+(1+2i) = %s, want 4 + 6i", got)
	}

	prod := a.Mul(b)
	// (3+4i)(1+2i) = 3 + 6i + 4i + 8i^2 = 3 - 8 + 10i = -5 + 10i
	if got := prod.String(); got != "-5 + 10i" {
		t.Errorf("(3+4i)*(1+2i) = %s, want -5 + 10i", got)
	}
}

func TestNumberComplexCollapsesToReal(t *testing.T) {
	n := FromComplex(RealFromInt64(5), RealFromInt64(0))
	if n.Kind() != KindReal {
		t.Errorf("complex with zero imaginary part should normalize to Real, got kind %d", n.Kind())
	}
}

func TestNumberOrderingNaNGreatest(t *testing.T) {
	five := mustNumber(t, "5")
	if !five.Less(NaN) {
		t.Error("5 should be less than NeN (NaN orders greatest)")
	}
	if NaN.Less(five) {
		t.Error("NeN should never be less than a finite number")
	}
	if NaN.Cmp(NaN) != 1 {
		t.Error("NeN should compare greater than itself under Cmp")
	}
	if Infinity.Less(five) {
		t.Error("infinito should not be less than 5")
	}
	if !NegInfinity.Less(five) {
		t.Error("-infinito should be less than 5")
	}
}

func TestNumberPowNegativeExponentLimitation(t *testing.T) {
	base := mustNumber(t, "2")
	exp := mustNumber(t, "-3")
	got := base.Pow(exp)
	// Documented limitation: negative integer exponents return a zero
	// Float, not the true reciprocal.
	if !got.IsZero() {
		t.Errorf("2^-3 = %s, want a zero result (documented limitation)", got)
	}
}

func TestNumberPowPositive(t *testing.T) {
	base := mustNumber(t, "2")
	exp := mustNumber(t, "10")
	got := base.Pow(exp)
	if got.String() != "1024" {
		t.Errorf("2^10 = %s, want 1024", got)
	}
}

func TestNumberPowZeroCases(t *testing.T) {
	zero := mustNumber(t, "0")
	five := mustNumber(t, "5")
	if got := five.Pow(zero); got.String() != "1" {
		t.Errorf("5^0 = %s, want 1", got)
	}
	if got := zero.Pow(five); !got.IsZero() {
		t.Errorf("0^5 = %s, want 0", got)
	}
	if got := zero.Pow(zero); !got.IsNaN() {
		t.Errorf("0^0 = %s, want NeN", got)
	}
}

func TestNumberDisplay(t *testing.T) {
	if got := NaN.String(); got != "NeN" {
		t.Errorf("NaN.String() = %q, want NeN", got)
	}
	if got := Infinity.String(); got != "infinito" {
		t.Errorf("Infinity.String() = %q, want infinito", got)
	}
	if got := NegInfinity.String(); got != "-infinito" {
		t.Errorf("NegInfinity.String() = %q, want -infinito", got)
	}
}
