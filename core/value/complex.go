package value

import (
	"strings"

	"github.com/tinta-lang/tinta/core/cerr"
)

// Array is tinta's mutable, ordered, reference-shared list.
type Array struct {
	baseValue
	Elements []Value
}

func NewArray(elems []Value) *Array { return &Array{baseValue{"arreglo"}, elems} }

func (a *Array) ToAgalArray() ([]Value, *cerr.Throw) { return a.Elements, nil }
func (a *Array) ToAgalBoolean() bool                  { return len(a.Elements) != 0 }

func (a *Array) ToAgalConsole() string {
	parts := make([]string, len(a.Elements))
	for i, e := range a.Elements {
		parts[i] = e.ToAgalConsole()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (a *Array) ToAgalString() (string, *cerr.Throw) {
	parts := make([]string, len(a.Elements))
	for i, e := range a.Elements {
		s, err := e.ToAgalString()
		if err != nil {
			return "", err
		}
		parts[i] = s
	}
	return strings.Join(parts, ","), nil
}

func (a *Array) BinaryOperation(op string, rhs Value) (Value, *cerr.Throw) {
	other, ok := rhs.(*Array)
	if !ok || op != "+" {
		return a.baseValue.BinaryOperation(op, rhs)
	}
	combined := make([]Value, 0, len(a.Elements)+len(other.Elements))
	combined = append(combined, a.Elements...)
	combined = append(combined, other.Elements...)
	return NewArray(combined), nil
}

func (a *Array) GetObjectProperty(key string) (Value, *cerr.Throw) {
	idx, ok := parseIndex(key)
	if !ok || idx < 0 || idx >= len(a.Elements) {
		return nil, cerr.NewTypeError("índice %q fuera de rango", key)
	}
	return a.Elements[idx], nil
}

func (a *Array) SetObjectProperty(key string, v Value) (Value, *cerr.Throw) {
	idx, ok := parseIndex(key)
	if !ok || idx < 0 {
		return nil, cerr.NewTypeError("índice %q inválido", key)
	}
	for idx >= len(a.Elements) {
		a.Elements = append(a.Elements, NewNever())
	}
	a.Elements[idx] = v
	return v, nil
}

func parseIndex(key string) (int, bool) {
	n := 0
	if key == "" {
		return 0, false
	}
	for _, ch := range key {
		if ch < '0' || ch > '9' {
			return 0, false
		}
		n = n*10 + int(ch-'0')
	}
	return n, true
}

func (a *Array) GetInstanceProperty(key string) (Value, *cerr.Throw) {
	return instanceFallback(a, "arreglo", key)
}

func (a *Array) Equals(other Value) bool {
	o, ok := other.(*Array)
	if !ok || len(o.Elements) != len(a.Elements) {
		return false
	}
	for i := range a.Elements {
		if !a.Elements[i].Equals(o.Elements[i]) {
			return false
		}
	}
	return true
}

// Prototype is a shared property bag used for instance-property
// lookup on Object and Class instances, chaining to an optional super
// prototype.
type Prototype struct {
	Properties map[string]Property
	Super      *Prototype
}

// Property is one entry of a Prototype: its value plus visibility and
// storage modifiers.
type Property struct {
	Value    Value
	Public   bool
	Static   bool
	ReadOnly bool
}

func NewPrototype(super *Prototype) *Prototype {
	return &Prototype{Properties: make(map[string]Property), Super: super}
}

// Resolve walks the prototype chain for key, honoring visibility:
// private (non-public) members are only returned when inClass is set,
// matching spec.md §4.6.
func (p *Prototype) Resolve(key string, inClass bool) (Property, bool) {
	for cur := p; cur != nil; cur = cur.Super {
		if prop, ok := cur.Properties[key]; ok {
			if !prop.Public && !inClass {
				continue
			}
			return prop, true
		}
	}
	return Property{}, false
}

// Object is a plain property bag, tinta's `{...}` object literal value.
type Object struct {
	baseValue
	Proto *Prototype
}

func NewObject() *Object {
	return &Object{baseValue{"objeto"}, NewPrototype(nil)}
}

func (o *Object) ToAgalBoolean() bool { return true }

func (o *Object) ToAgalConsole() string {
	var parts []string
	for k, v := range o.Proto.Properties {
		parts = append(parts, k+": "+v.Value.ToAgalConsole())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (o *Object) GetObjectProperty(key string) (Value, *cerr.Throw) {
	if prop, ok := o.Proto.Properties[key]; ok {
		return prop.Value, nil
	}
	return nil, cerr.NewTypeError("el objeto no tiene la propiedad %q", key)
}

func (o *Object) SetObjectProperty(key string, v Value) (Value, *cerr.Throw) {
	if prop, ok := o.Proto.Properties[key]; ok && prop.ReadOnly {
		return nil, cerr.NewTypeError("la propiedad %q es de solo lectura", key)
	}
	o.Proto.Properties[key] = Property{Value: v, Public: true}
	return v, nil
}

func (o *Object) DeleteObjectProperty(key string) *cerr.Throw {
	delete(o.Proto.Properties, key)
	return nil
}

func (o *Object) GetInstanceProperty(key string) (Value, *cerr.Throw) {
	if prop, ok := o.Proto.Resolve(key, false); ok {
		return prop.Value, nil
	}
	return nil, cerr.NewTypeError("el objeto no tiene la propiedad %q", key)
}

// Invoke is the shape of a callable's dispatch function, bound when
// the Function value is created by whichever runtime (tree interpreter
// or bytecode VM) constructs it. This keeps core/value independent of
// both runtime/interpreter and runtime/vm.
type Invoke func(this Value, args []Value) (Value, *cerr.Throw)

// Function is any callable value: a scripted closure, a native
// built-in, or a bound method.
type Function struct {
	baseValue
	Name string
	Fn   Invoke
}

func NewFunction(name string, fn Invoke) *Function {
	return &Function{baseValue{"función"}, name, fn}
}

func (f *Function) ToAgalConsole() string { return "fn " + f.Name + "(...)" }
func (f *Function) ToAgalBoolean() bool    { return true }

func (f *Function) Call(this Value, args []Value) (Value, *cerr.Throw) {
	if f.Fn == nil {
		return nil, cerr.NewTypeError("la función %q no tiene cuerpo", f.Name)
	}
	return f.Fn(this, args)
}

func (f *Function) Equals(other Value) bool { return other == Value(f) }

// Class holds a name, optional parent, its instance prototype template
// and static property map, per spec.md §4.6.
type Class struct {
	baseValue
	Name     string
	Parent   *Class
	Instance *Prototype // template cloned per instantiation
	Static   *Prototype
}

func NewClass(name string, parent *Class) *Class {
	var superInstance *Prototype
	if parent != nil {
		superInstance = parent.Instance
	}
	return &Class{
		baseValue: baseValue{"clase"},
		Name:      name,
		Parent:    parent,
		Instance:  NewPrototype(superInstance),
		Static:    NewPrototype(nil),
	}
}

func (c *Class) ToAgalConsole() string { return "clase " + c.Name }
func (c *Class) ToAgalBoolean() bool    { return true }

func (c *Class) GetObjectProperty(key string) (Value, *cerr.Throw) {
	if prop, ok := c.Static.Resolve(key, false); ok {
		return prop.Value, nil
	}
	return nil, cerr.NewTypeError("la clase %s no tiene la propiedad estática %q", c.Name, key)
}

// Instantiate creates a new Object whose prototype is a copy of the
// class's instance template (sharing its super chain), then invokes a "constructor" property if
// present, matching spec.md §4.6.
func (c *Class) Instantiate(args []Value, call func(fn Value, this Value, args []Value) (Value, *cerr.Throw)) (Value, *cerr.Throw) {
	obj := &Object{baseValue{c.Name}, clonePrototype(c.Instance)}
	if ctor, ok := obj.Proto.Resolve("constructor", true); ok {
		if _, err := call(ctor.Value, obj, args); err != nil {
			return nil, err
		}
	}
	return obj, nil
}

func clonePrototype(p *Prototype) *Prototype {
	clone := NewPrototype(p.Super)
	for k, v := range p.Properties {
		clone.Properties[k] = v
	}
	return clone
}

func (c *Class) Call(this Value, args []Value) (Value, *cerr.Throw) {
	return c.Instantiate(args, func(fn Value, this Value, args []Value) (Value, *cerr.Throw) {
		return fn.Call(this, args)
	})
}

// SuperRef is what a `super` expression evaluates to inside an
// overriding method: a view onto the parent class's instance
// prototype that binds any resolved method's `this` back to the
// original instance, per spec.md §4.6 ("super on an instance resolves
// to the parent class's instance").
type SuperRef struct {
	baseValue
	This   Value
	Parent *Prototype
}

func NewSuperRef(this Value, parent *Prototype) *SuperRef {
	return &SuperRef{baseValue{"super"}, this, parent}
}

func (s *SuperRef) ToAgalConsole() string { return "super" }
func (s *SuperRef) ToAgalBoolean() bool    { return true }

func (s *SuperRef) GetInstanceProperty(key string) (Value, *cerr.Throw) {
	if s.Parent == nil {
		return nil, cerr.NewTypeError("la clase no tiene superclase")
	}
	prop, ok := s.Parent.Resolve(key, true)
	if !ok {
		return nil, cerr.NewTypeError("super no tiene la propiedad %q", key)
	}
	if fn, ok := prop.Value.(*Function); ok {
		bound := s.This
		return NewFunction(fn.Name, func(_ Value, args []Value) (Value, *cerr.Throw) {
			return fn.Fn(bound, args)
		}), nil
	}
	return prop.Value, nil
}

func (s *SuperRef) GetObjectProperty(key string) (Value, *cerr.Throw) {
	return s.GetInstanceProperty(key)
}
