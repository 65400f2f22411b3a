package bignum

import "testing"

func mustReal(t *testing.T, s string) Real {
	t.Helper()
	r, err := ParseReal(s)
	if err != nil {
		t.Fatalf("ParseReal(%q) error: %v", s, err)
	}
	return r
}

func TestRealAddition(t *testing.T) {
	a := mustReal(t, "10")
	b := mustReal(t, "5")
	if got := a.Add(b).String(); got != "15" {
		t.Errorf("10 + 5 = %s, want 15", got)
	}

	f1 := mustReal(t, "2.5")
	f2 := mustReal(t, "1.5")
	if got := f1.Add(f2).String(); got != "4" {
		t.Errorf("2.5 + 1.5 = %s, want 4", got)
	}

	mixed := a.Add(f1)
	if got := mixed.String(); got != "12.5" {
		t.Errorf("10 + 2.5 = %s, want 12.5", got)
	}
}

func TestRealSubtraction(t *testing.T) {
	a := mustReal(t, "10")
	b := mustReal(t, "5")
	if got := a.Sub(b).String(); got != "5" {
		t.Errorf("10 - 5 = %s, want 5", got)
	}

	f1 := mustReal(t, "2.5")
	f2 := mustReal(t, "1.5")
	if got := f1.Sub(f2).String(); got != "1" {
		t.Errorf("2.5 - 1.5 = %s, want 1", got)
	}
}

func TestRealMultiplication(t *testing.T) {
	a := mustReal(t, "3")
	b := mustReal(t, "-4")
	if got := a.Mul(b).String(); got != "-12" {
		t.Errorf("3 * -4 = %s, want -12", got)
	}

	f1 := mustReal(t, "2.0")
	f2 := mustReal(t, "-3.5")
	if got := f1.Mul(f2).String(); got != "-7" {
		t.Errorf("2.0 * -3.5 = %s, want -7", got)
	}
}

func TestRealDivision(t *testing.T) {
	a := mustReal(t, "10")
	b := mustReal(t, "2")
	if got := a.Quo(b).String(); got != "5" {
		t.Errorf("10 / 2 = %s, want 5", got)
	}

	f1 := mustReal(t, "7.5")
	f2 := mustReal(t, "2.5")
	if got := f1.Quo(f2).String(); got != "3" {
		t.Errorf("7.5 / 2.5 = %s, want 3", got)
	}
}

func TestRealNegation(t *testing.T) {
	a := mustReal(t, "10")
	if got := a.Neg().String(); got != "-10" {
		t.Errorf("-10 = %s, want -10", got)
	}

	f := mustReal(t, "2.5")
	if got := f.Neg().String(); got != "-2.5" {
		t.Errorf("-2.5 = %s, want -2.5", got)
	}

	zero := mustReal(t, "0")
	if got := zero.Neg().String(); got != "0" {
		t.Errorf("-0 should normalize to non-negative, got %s", got)
	}
}

func TestRealFloorCeilRoundTrunc(t *testing.T) {
	f := mustReal(t, "3.7")
	if got := f.Floor().String(); got != "3" {
		t.Errorf("floor(3.7) = %s, want 3", got)
	}
	if got := f.Ceil().String(); got != "4" {
		t.Errorf("ceil(3.7) = %s, want 4", got)
	}
	if got := f.Trunc().String(); got != "3" {
		t.Errorf("trunc(3.7) = %s, want 3", got)
	}

	f2 := mustReal(t, "2.5")
	if got := f2.Round().String(); got != "2" {
		t.Errorf("round(2.5) = %s, want 2 (round-half-to-even)", got)
	}

	f3 := mustReal(t, "3.5")
	if got := f3.Round().String(); got != "4" {
		t.Errorf("round(3.5) = %s, want 4 (round-half-to-even)", got)
	}
}

func TestRealRemainder(t *testing.T) {
	a := mustReal(t, "10")
	b := mustReal(t, "3")
	if got := a.Rem(b).String(); got != "1" {
		t.Errorf("10 %% 3 = %s, want 1", got)
	}

	f1 := mustReal(t, "7.6")
	f2 := mustReal(t, "2.5")
	if got := f1.Rem(f2).String(); got != "0.1" {
		t.Errorf("7.6 %% 2.5 = %s, want 0.1", got)
	}

	f3 := mustReal(t, "7.5")
	f4 := mustReal(t, "2.5")
	if got := f3.Rem(f4).String(); got != "0" {
		t.Errorf("7.5 %% 2.5 = %s, want 0", got)
	}
}

func TestRealComparisons(t *testing.T) {
	a := mustReal(t, "10")
	b := mustReal(t, "-10")
	if !b.Less(a) {
		t.Error("-10 should be less than 10")
	}

	f1 := mustReal(t, "3.5")
	f2 := mustReal(t, "3.5")
	if !f1.Equal(f2) {
		t.Error("3.5 should equal 3.5")
	}

	f3 := mustReal(t, "10.0")
	if !a.Equal(f3) {
		t.Error("Int 10 should equal Float 10.0")
	}
}

func TestRealFromRadix(t *testing.T) {
	r, err := ParseRealRadix("-ff", 16)
	if err != nil {
		t.Fatalf("ParseRealRadix error: %v", err)
	}
	if got := r.String(); got != "-255" {
		t.Errorf("ParseRealRadix(-ff, 16) = %s, want -255", got)
	}
}
