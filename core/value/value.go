// Package value implements tinta's runtime value model: the capability
// contract every Primitive, Complex, and Internal value satisfies, per
// spec.md §3/§4.2. It is a direct translation of the original
// implementation's AgalValuable/AgalValuableManager traits into a
// single Go interface, with baseValue supplying the same
// default-failure fallbacks the traits' default methods provide.
package value

import (
	"github.com/tinta-lang/tinta/core/bignum"
	"github.com/tinta-lang/tinta/core/cerr"
)

// Value is implemented by every runtime value: primitives (Number,
// String, Boolean, Char, Byte), complex values (Array, Object,
// Function, Class, Promise), and internal values (ThrowValue, Lazy,
// Immutable). Native built-ins are Function values.
type Value interface {
	Type() string

	ToAgalString() (string, *cerr.Throw)
	ToAgalConsole() string
	ToAgalNumber() (bignum.Number, *cerr.Throw)
	ToAgalBoolean() bool
	ToAgalArray() ([]Value, *cerr.Throw)
	ToAgalByte() (byte, *cerr.Throw)

	BinaryOperation(op string, rhs Value) (Value, *cerr.Throw)
	UnaryOperator(op string) (Value, *cerr.Throw)
	UnaryBackOperator(op string) (Value, *cerr.Throw)

	GetObjectProperty(key string) (Value, *cerr.Throw)
	SetObjectProperty(key string, v Value) (Value, *cerr.Throw)
	DeleteObjectProperty(key string) *cerr.Throw
	GetInstanceProperty(key string) (Value, *cerr.Throw)

	Call(this Value, args []Value) (Value, *cerr.Throw)

	Equals(other Value) bool
	LessThan(other Value) (bool, *cerr.Throw)
}

// typeProtos holds the built-in instance prototype registered per type
// name (e.g. "número", "cadena"), populated by runtime/library at
// startup (its :proto/<Type> surface) so that
// GetInstanceProperty can fall back to built-in methods per spec.md
// §4.2's "walks prototype chain, then falls back to the built-in
// prototype for the type". core/value never imports runtime/library;
// the dependency runs the other way, through this registration point.
var typeProtos = map[string]*Prototype{}

// RegisterTypeProto installs proto as the built-in instance prototype
// for values whose Type() is typeName.
func RegisterTypeProto(typeName string, proto *Prototype) {
	typeProtos[typeName] = proto
}

// baseValue supplies the default-failure implementation of every
// capability; concrete value types embed it and override only the
// operations they actually support, mirroring the Rust traits' default
// trait methods (Go has no trait defaults, so embedding stands in).
type baseValue struct {
	typeName string
}

func (b baseValue) Type() string { return b.typeName }

func (b baseValue) ToAgalString() (string, *cerr.Throw) {
	return "", cerr.NewTypeError("no se pudo convertir %s en cadena", b.typeName)
}

func (b baseValue) ToAgalConsole() string { return "<interno>" }

func (b baseValue) ToAgalNumber() (bignum.Number, *cerr.Throw) {
	return bignum.Number{}, cerr.NewTypeError("no se pudo convertir %s en número", b.typeName)
}

func (b baseValue) ToAgalBoolean() bool { return true }

func (b baseValue) ToAgalArray() ([]Value, *cerr.Throw) {
	return nil, cerr.NewTypeError("%s no es iterable", b.typeName)
}

func (b baseValue) ToAgalByte() (byte, *cerr.Throw) {
	return 0, cerr.NewTypeError("no se pudo convertir %s en byte", b.typeName)
}

func (b baseValue) BinaryOperation(op string, rhs Value) (Value, *cerr.Throw) {
	return nil, cerr.NewTypeError("operador %q no soportado entre %s y %s", op, b.typeName, rhs.Type())
}

func (b baseValue) UnaryOperator(op string) (Value, *cerr.Throw) {
	return nil, cerr.NewTypeError("operador unario %q no soportado en %s", op, b.typeName)
}

func (b baseValue) UnaryBackOperator(op string) (Value, *cerr.Throw) {
	return nil, cerr.NewTypeError("operador unario %q no soportado en %s", op, b.typeName)
}

func (b baseValue) GetObjectProperty(key string) (Value, *cerr.Throw) {
	return nil, cerr.NewTypeError("%s no tiene la propiedad %q", b.typeName, key)
}

func (b baseValue) SetObjectProperty(key string, v Value) (Value, *cerr.Throw) {
	return nil, cerr.NewTypeError("no se puede asignar la propiedad %q en %s", key, b.typeName)
}

func (b baseValue) DeleteObjectProperty(key string) *cerr.Throw {
	return cerr.NewTypeError("no se puede borrar la propiedad %q en %s", key, b.typeName)
}

func (b baseValue) GetInstanceProperty(key string) (Value, *cerr.Throw) {
	return nil, cerr.NewTypeError("%s no tiene la propiedad %q", b.typeName, key)
}

// instanceFallback resolves key against the built-in type prototype
// registered for typeName (runtime/library's :proto/<Type> surface),
// binding any resolved method's receiver to self so e.g. `n.redondear()`
// operates on the actual Number rather than a detached copy.
func instanceFallback(self Value, typeName, key string) (Value, *cerr.Throw) {
	proto, ok := typeProtos[typeName]
	if !ok {
		return nil, cerr.NewTypeError("%s no tiene la propiedad %q", typeName, key)
	}
	prop, ok := proto.Resolve(key, false)
	if !ok {
		return nil, cerr.NewTypeError("%s no tiene la propiedad %q", typeName, key)
	}
	if fn, ok := prop.Value.(*Function); ok {
		bound := self
		return NewFunction(fn.Name, func(_ Value, args []Value) (Value, *cerr.Throw) {
			return fn.Fn(bound, args)
		}), nil
	}
	return prop.Value, nil
}

func (b baseValue) Call(this Value, args []Value) (Value, *cerr.Throw) {
	return nil, cerr.NewTypeError("%s no es invocable", b.typeName)
}

func (b baseValue) Equals(other Value) bool { return false }

func (b baseValue) LessThan(other Value) (bool, *cerr.Throw) {
	return false, cerr.NewTypeError("%s no se puede ordenar frente a %s", b.typeName, other.Type())
}

// Truthy reports the truthiness of v per spec.md §4.2's ToAgalBoolean
// contract without needing a type switch at call sites.
func Truthy(v Value) bool { return v.ToAgalBoolean() }
