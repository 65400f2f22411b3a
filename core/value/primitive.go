package value

import (
	"strings"

	"github.com/tinta-lang/tinta/core/bignum"
	"github.com/tinta-lang/tinta/core/cerr"
)

// Null is the explicit null value.
type Null struct{ baseValue }

func NewNull() *Null { return &Null{baseValue{"nulo"}} }

func (n *Null) ToAgalString() (string, *cerr.Throw) { return "nulo", nil }
func (n *Null) ToAgalConsole() string                { return "nulo" }
func (n *Null) ToAgalBoolean() bool                  { return false }
func (n *Null) Equals(other Value) bool              { _, ok := other.(*Null); return ok }

// Never is the default/absent value produced when an expression yields
// nothing (a bare `ret` inside a function with no value, for example).
type Never struct{ baseValue }

func NewNever() *Never { return &Never{baseValue{"nada"}} }

func (n *Never) ToAgalString() (string, *cerr.Throw) { return "nada", nil }
func (n *Never) ToAgalConsole() string                { return "nada" }
func (n *Never) ToAgalBoolean() bool                  { return false }
func (n *Never) Equals(other Value) bool              { _, ok := other.(*Never); return ok }

// Boolean is a true/false primitive.
type Boolean struct {
	baseValue
	Value bool
}

func NewBoolean(v bool) *Boolean { return &Boolean{baseValue{"booleano"}, v} }

func (b *Boolean) ToAgalString() (string, *cerr.Throw) {
	if b.Value {
		return "cierto", nil
	}
	return "falso", nil
}
func (b *Boolean) ToAgalConsole() string { s, _ := b.ToAgalString(); return s }
func (b *Boolean) ToAgalBoolean() bool    { return b.Value }
func (b *Boolean) ToAgalNumber() (bignum.Number, *cerr.Throw) {
	if b.Value {
		return bignum.FromInt64(1), nil
	}
	return bignum.FromInt64(0), nil
}

func (b *Boolean) BinaryOperation(op string, rhs Value) (Value, *cerr.Throw) {
	other, ok := rhs.(*Boolean)
	if !ok {
		return b.baseValue.BinaryOperation(op, rhs)
	}
	switch op {
	case "&&":
		return NewBoolean(b.Value && other.Value), nil
	case "||":
		return NewBoolean(b.Value || other.Value), nil
	case "==":
		return NewBoolean(b.Value == other.Value), nil
	case "!=":
		return NewBoolean(b.Value != other.Value), nil
	}
	return b.baseValue.BinaryOperation(op, rhs)
}

func (b *Boolean) UnaryOperator(op string) (Value, *cerr.Throw) {
	switch op {
	case "!":
		return NewBoolean(!b.Value), nil
	case "?":
		return NewBoolean(b.Value), nil
	}
	return b.baseValue.UnaryOperator(op)
}

func (b *Boolean) Equals(other Value) bool {
	o, ok := other.(*Boolean)
	return ok && o.Value == b.Value
}

// Number wraps the arbitrary-precision numeric tower.
type Number struct {
	baseValue
	Value bignum.Number
}

func NewNumber(n bignum.Number) *Number { return &Number{baseValue{"número"}, n} }
func NewNumberFromInt64(i int64) *Number { return NewNumber(bignum.FromInt64(i)) }

func (n *Number) ToAgalString() (string, *cerr.Throw) { return n.Value.String(), nil }
func (n *Number) ToAgalConsole() string                { return n.Value.String() }
func (n *Number) ToAgalNumber() (bignum.Number, *cerr.Throw) { return n.Value, nil }
func (n *Number) ToAgalBoolean() bool {
	return !n.Value.IsZero()
}

func (n *Number) BinaryOperation(op string, rhs Value) (Value, *cerr.Throw) {
	other, ok := rhs.(*Number)
	if !ok {
		if op == "+" {
			if s, isStr := rhs.(*AgalString); isStr {
				return NewString(n.Value.String() + s.Value), nil
			}
		}
		return n.baseValue.BinaryOperation(op, rhs)
	}
	switch op {
	case "+":
		return NewNumber(n.Value.Add(other.Value)), nil
	case "-":
		return NewNumber(n.Value.Sub(other.Value)), nil
	case "*":
		return NewNumber(n.Value.Mul(other.Value)), nil
	case "/":
		if other.Value.IsZero() {
			return nil, cerr.NewMathError("división entre cero")
		}
		return NewNumber(n.Value.Div(other.Value)), nil
	case "//":
		if other.Value.IsZero() {
			return nil, cerr.NewMathError("división entre cero")
		}
		return NewNumber(n.Value.Div(other.Value).Floor()), nil
	case "%":
		if other.Value.IsZero() {
			return nil, cerr.NewMathError("módulo entre cero")
		}
		return NewNumber(n.Value.Rem(other.Value)), nil
	case "**":
		return NewNumber(n.Value.Pow(other.Value)), nil
	case "==":
		return NewBoolean(n.Value.Equal(other.Value)), nil
	case "!=":
		return NewBoolean(!n.Value.Equal(other.Value)), nil
	case "<":
		return NewBoolean(n.Value.Less(other.Value)), nil
	case "<=":
		return NewBoolean(n.Value.Less(other.Value) || n.Value.Equal(other.Value)), nil
	case ">":
		return NewBoolean(other.Value.Less(n.Value)), nil
	case ">=":
		return NewBoolean(other.Value.Less(n.Value) || n.Value.Equal(other.Value)), nil
	}
	return n.baseValue.BinaryOperation(op, rhs)
}

func (n *Number) UnaryOperator(op string) (Value, *cerr.Throw) {
	switch op {
	case "-":
		return NewNumber(n.Value.Neg()), nil
	case "+", "&":
		return n, nil
	case "?":
		return NewBoolean(n.ToAgalBoolean()), nil
	case "~":
		return NewNumber(n.Value.Trunc()), nil
	}
	return n.baseValue.UnaryOperator(op)
}

func (n *Number) Equals(other Value) bool {
	o, ok := other.(*Number)
	return ok && n.Value.Equal(o.Value)
}

func (n *Number) GetInstanceProperty(key string) (Value, *cerr.Throw) {
	return instanceFallback(n, "número", key)
}

func (n *Number) LessThan(other Value) (bool, *cerr.Throw) {
	o, ok := other.(*Number)
	if !ok {
		return false, cerr.NewTypeError("no se puede comparar número con %s", other.Type())
	}
	return n.Value.Less(o.Value), nil
}

// AgalString is tinta's string primitive: a sequence of Unicode
// characters, rendered as UTF-8 internally.
type AgalString struct {
	baseValue
	Value string
}

func NewString(s string) *AgalString { return &AgalString{baseValue{"cadena"}, s} }

func (s *AgalString) ToAgalString() (string, *cerr.Throw) { return s.Value, nil }
func (s *AgalString) ToAgalConsole() string                { return s.Value }
func (s *AgalString) ToAgalBoolean() bool                  { return s.Value != "" }
func (s *AgalString) ToAgalArray() ([]Value, *cerr.Throw) {
	runes := []rune(s.Value)
	out := make([]Value, len(runes))
	for i, r := range runes {
		out[i] = NewChar(r)
	}
	return out, nil
}

func (s *AgalString) ToAgalNumber() (bignum.Number, *cerr.Throw) {
	n, err := bignum.ParseNumber(s.Value)
	if err != nil {
		return bignum.Number{}, cerr.NewTypeError("no se pudo convertir %q en número", s.Value)
	}
	return n, nil
}

// BinaryOperation implements the documented non-standard behavior from
// spec.md §9: `<`/`<=` on strings compares length, not lexicographic
// order. This is a known limitation inherited unchanged, not a bug to
// silently fix.
func (s *AgalString) BinaryOperation(op string, rhs Value) (Value, *cerr.Throw) {
	switch other := rhs.(type) {
	case *AgalString:
		switch op {
		case "+":
			return NewString(s.Value + other.Value), nil
		case "==":
			return NewBoolean(s.Value == other.Value), nil
		case "!=":
			return NewBoolean(s.Value != other.Value), nil
		case "<":
			return NewBoolean(len(s.Value) < len(other.Value)), nil
		case "<=":
			return NewBoolean(len(s.Value) <= len(other.Value)), nil
		case ">":
			return NewBoolean(len(s.Value) > len(other.Value)), nil
		case ">=":
			return NewBoolean(len(s.Value) >= len(other.Value)), nil
		}
	case *Number:
		if op == "*" {
			n, err := toNonNegativeInt(other.Value)
			if err != nil {
				return nil, err
			}
			return NewString(strings.Repeat(s.Value, n)), nil
		}
	}
	return s.baseValue.BinaryOperation(op, rhs)
}

func toNonNegativeInt(n bignum.Number) (int, *cerr.Throw) {
	r, ok := n.AsReal()
	if !ok || r.IsNegative() || !r.IsInt() {
		return 0, cerr.NewTypeError("se esperaba un entero no negativo")
	}
	return int(r.Uint64()), nil
}

func (s *AgalString) GetInstanceProperty(key string) (Value, *cerr.Throw) {
	return instanceFallback(s, "cadena", key)
}

func (s *AgalString) Equals(other Value) bool {
	o, ok := other.(*AgalString)
	return ok && o.Value == s.Value
}

func (s *AgalString) LessThan(other Value) (bool, *cerr.Throw) {
	o, ok := other.(*AgalString)
	if !ok {
		return false, cerr.NewTypeError("no se puede comparar cadena con %s", other.Type())
	}
	return len(s.Value) < len(o.Value), nil
}

// Char is a single Unicode scalar value.
type Char struct {
	baseValue
	Value rune
}

func NewChar(r rune) *Char { return &Char{baseValue{"carácter"}, r} }

func (c *Char) ToAgalString() (string, *cerr.Throw) { return string(c.Value), nil }
func (c *Char) ToAgalConsole() string                { return "'" + string(c.Value) + "'" }
func (c *Char) ToAgalBoolean() bool                  { return c.Value != 0 }

func (c *Char) ToAgalNumber() (bignum.Number, *cerr.Throw) {
	if c.Value < '0' || c.Value > '9' {
		return bignum.Number{}, cerr.NewTypeError("%q no es un dígito", c.Value)
	}
	return bignum.FromInt64(int64(c.Value - '0')), nil
}

func (c *Char) GetInstanceProperty(key string) (Value, *cerr.Throw) {
	return instanceFallback(c, "carácter", key)
}

func (c *Char) Equals(other Value) bool {
	o, ok := other.(*Char)
	return ok && o.Value == c.Value
}

// Byte is an unsigned 8-bit primitive.
type Byte struct {
	baseValue
	Value byte
}

func NewByte(b byte) *Byte { return &Byte{baseValue{"byte"}, b} }

func (b *Byte) ToAgalString() (string, *cerr.Throw) { return string(rune(b.Value)), nil }
func (b *Byte) ToAgalConsole() string                { return "0x" + string("0123456789abcdef"[b.Value>>4]) + string("0123456789abcdef"[b.Value&0xf]) }
func (b *Byte) ToAgalBoolean() bool                  { return b.Value != 0 }
func (b *Byte) ToAgalByte() (byte, *cerr.Throw)       { return b.Value, nil }
func (b *Byte) ToAgalNumber() (bignum.Number, *cerr.Throw) {
	return bignum.FromInt64(int64(b.Value)), nil
}

func (b *Byte) GetInstanceProperty(key string) (Value, *cerr.Throw) {
	return instanceFallback(b, "byte", key)
}

func (b *Byte) BinaryOperation(op string, rhs Value) (Value, *cerr.Throw) {
	other, ok := rhs.(*Byte)
	if !ok {
		return b.baseValue.BinaryOperation(op, rhs)
	}
	switch op {
	case "&":
		return NewByte(b.Value & other.Value), nil
	case "|":
		return NewByte(b.Value | other.Value), nil
	case "<<":
		return NewByte(b.Value << other.Value), nil
	case ">>":
		return NewByte(b.Value >> other.Value), nil
	case "==":
		return NewBoolean(b.Value == other.Value), nil
	case "!=":
		return NewBoolean(b.Value != other.Value), nil
	}
	return b.baseValue.BinaryOperation(op, rhs)
}

func (b *Byte) Equals(other Value) bool {
	o, ok := other.(*Byte)
	return ok && o.Value == b.Value
}
