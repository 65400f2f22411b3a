package value

import "github.com/tinta-lang/tinta/core/cerr"

// Lazy wraps an expression whose evaluation is deferred until first
// use (tinta's `vago` keyword), then caches the result.
type Lazy struct {
	baseValue
	thunk    func() (Value, *cerr.Throw)
	resolved bool
	value    Value
	err      *cerr.Throw
}

func NewLazy(thunk func() (Value, *cerr.Throw)) *Lazy {
	return &Lazy{baseValue: baseValue{"perezoso"}, thunk: thunk}
}

// Force evaluates the thunk exactly once, caching and returning its
// result on every subsequent call.
func (l *Lazy) Force() (Value, *cerr.Throw) {
	if !l.resolved {
		l.value, l.err = l.thunk()
		l.resolved = true
	}
	return l.value, l.err
}

func (l *Lazy) ToAgalString() (string, *cerr.Throw) {
	v, err := l.Force()
	if err != nil {
		return "", err
	}
	return v.ToAgalString()
}

func (l *Lazy) ToAgalConsole() string {
	v, err := l.Force()
	if err != nil {
		return "<error perezoso>"
	}
	return v.ToAgalConsole()
}

func (l *Lazy) ToAgalBoolean() bool {
	v, err := l.Force()
	if err != nil {
		return false
	}
	return v.ToAgalBoolean()
}

func (l *Lazy) GetObjectProperty(key string) (Value, *cerr.Throw) {
	v, err := l.Force()
	if err != nil {
		return nil, err
	}
	return v.GetObjectProperty(key)
}

func (l *Lazy) Call(this Value, args []Value) (Value, *cerr.Throw) {
	v, err := l.Force()
	if err != nil {
		return nil, err
	}
	return v.Call(this, args)
}

// Immutable wraps any value and rejects SetObjectProperty/
// DeleteObjectProperty, per spec.md §3's Internal variant table.
type Immutable struct {
	baseValue
	Inner Value
}

func NewImmutable(v Value) *Immutable {
	return &Immutable{baseValue{v.Type()}, v}
}

func (i *Immutable) ToAgalString() (string, *cerr.Throw) { return i.Inner.ToAgalString() }
func (i *Immutable) ToAgalConsole() string                { return i.Inner.ToAgalConsole() }
func (i *Immutable) ToAgalBoolean() bool                  { return i.Inner.ToAgalBoolean() }
func (i *Immutable) ToAgalArray() ([]Value, *cerr.Throw)  { return i.Inner.ToAgalArray() }

func (i *Immutable) BinaryOperation(op string, rhs Value) (Value, *cerr.Throw) {
	return i.Inner.BinaryOperation(op, rhs)
}

func (i *Immutable) GetObjectProperty(key string) (Value, *cerr.Throw) {
	return i.Inner.GetObjectProperty(key)
}

func (i *Immutable) SetObjectProperty(key string, v Value) (Value, *cerr.Throw) {
	return nil, cerr.NewTypeError("no se puede modificar un valor inmutable")
}

func (i *Immutable) DeleteObjectProperty(key string) *cerr.Throw {
	return cerr.NewTypeError("no se puede modificar un valor inmutable")
}

func (i *Immutable) GetInstanceProperty(key string) (Value, *cerr.Throw) {
	return i.Inner.GetInstanceProperty(key)
}

func (i *Immutable) Call(this Value, args []Value) (Value, *cerr.Throw) {
	return i.Inner.Call(this, args)
}

func (i *Immutable) Equals(other Value) bool {
	o, ok := other.(*Immutable)
	if ok {
		return i.Inner.Equals(o.Inner)
	}
	return i.Inner.Equals(other)
}

// ThrowValue wraps a *cerr.Throw so an error can be carried as an
// ordinary Value (for example when bound to a `captura (e)` parameter
// or held inside a rejected Promise).
type ThrowValue struct {
	baseValue
	Throw *cerr.Throw
}

func NewThrowValue(t *cerr.Throw) *ThrowValue {
	return &ThrowValue{baseValue{"error"}, t}
}

func (t *ThrowValue) ToAgalString() (string, *cerr.Throw) { return t.Throw.Message, nil }
func (t *ThrowValue) ToAgalConsole() string                { return t.Throw.Render() }
func (t *ThrowValue) ToAgalBoolean() bool                  { return true }

func (t *ThrowValue) GetObjectProperty(key string) (Value, *cerr.Throw) {
	switch key {
	case "mensaje":
		return NewString(t.Throw.Message), nil
	case "tipo":
		return NewString(string(t.Throw.Kind)), nil
	}
	return t.baseValue.GetObjectProperty(key)
}
