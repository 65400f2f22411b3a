package bignum

import "testing"

func TestUIntAddSub(t *testing.T) {
	tests := []struct {
		a, b string
		sum  string
	}{
		{"0", "0", "0"},
		{"1", "1", "2"},
		{"4294967295", "1", "4294967296"}, // crosses a limb boundary
		{"123456789012345678901234567890", "1", "123456789012345678901234567891"},
	}
	for _, tt := range tests {
		a, _ := ParseRadix(tt.a, 10)
		b, _ := ParseRadix(tt.b, 10)
		got := a.Add(b).String()
		if got != tt.sum {
			t.Errorf("%s + %s = %s, want %s", tt.a, tt.b, got, tt.sum)
		}
		back := a.Add(b).Sub(b).String()
		if back != tt.a {
			t.Errorf("(%s + %s) - %s = %s, want %s", tt.a, tt.b, tt.b, back, tt.a)
		}
	}
}

func TestUIntMul(t *testing.T) {
	tests := []struct {
		a, b, want string
	}{
		{"0", "12345", "0"},
		{"2", "3", "6"},
		{"4294967295", "2", "8589934590"},
		{"99999999999999999999", "99999999999999999999", "9999999999999999999800000000000000000001"},
	}
	for _, tt := range tests {
		a, _ := ParseRadix(tt.a, 10)
		b, _ := ParseRadix(tt.b, 10)
		got := a.Mul(b).String()
		if got != tt.want {
			t.Errorf("%s * %s = %s, want %s", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestUIntQuoRem(t *testing.T) {
	tests := []struct {
		a, b, q, r string
	}{
		{"10", "3", "3", "1"},
		{"100", "10", "10", "0"},
		{"1", "2", "0", "1"},
		{"123456789012345678901234567890", "7", "17636684144620811271604938270", "0"},
	}
	for _, tt := range tests {
		a, _ := ParseRadix(tt.a, 10)
		b, _ := ParseRadix(tt.b, 10)
		q, r := a.QuoRem(b)
		if q.String() != tt.q || r.String() != tt.r {
			t.Errorf("%s /%% %s = (%s, %s), want (%s, %s)", tt.a, tt.b, q.String(), r.String(), tt.q, tt.r)
		}
	}
}

func TestUIntRadixRoundTrip(t *testing.T) {
	cases := []struct {
		s     string
		radix int
	}{
		{"ff", 16},
		{"z", 36},
		{"101010", 2},
		{"777", 8},
		{"0", 10},
	}
	for _, c := range cases {
		v, err := ParseRadix(c.s, c.radix)
		if err != nil {
			t.Fatalf("ParseRadix(%q, %d) error: %v", c.s, c.radix, err)
		}
		if got := v.ToStringRadix(c.radix); got != c.s {
			t.Errorf("ToStringRadix round trip: ParseRadix(%q, %d).ToStringRadix(%d) = %q", c.s, c.radix, c.radix, got)
		}
	}
}

func TestUIntParseRadixInvalid(t *testing.T) {
	if _, err := ParseRadix("", 10); err == nil {
		t.Error("expected error parsing empty string")
	}
	if _, err := ParseRadix("g", 16); err == nil {
		t.Error("expected error for digit out of range of base 16")
	}
	if _, err := ParseRadix("1", 1); err == nil {
		t.Error("expected error for radix below 2")
	}
	if _, err := ParseRadix("1", 37); err == nil {
		t.Error("expected error for radix above 36")
	}
}

func TestUIntCmp(t *testing.T) {
	a, _ := ParseRadix("100", 10)
	b, _ := ParseRadix("99", 10)
	if !b.Less(a) {
		t.Error("99 should be less than 100")
	}
	if a.Less(b) {
		t.Error("100 should not be less than 99")
	}
	if !a.Equal(a.Clone()) {
		t.Error("a should equal its own clone")
	}
}

func TestUIntIsEven(t *testing.T) {
	even, _ := ParseRadix("128", 10)
	odd, _ := ParseRadix("127", 10)
	if !even.IsEven() {
		t.Error("128 should be even")
	}
	if odd.IsEven() {
		t.Error("127 should be odd")
	}
	if !Zero.IsEven() {
		t.Error("0 should be even")
	}
}
