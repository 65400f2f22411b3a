// Package env implements tinta's lexical environment and call stack,
// per spec.md §4.3.
package env

import (
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/tinta-lang/tinta/core/cerr"
	"github.com/tinta-lang/tinta/core/token"
	"github.com/tinta-lang/tinta/core/value"
)

// binding is one name's slot in a scope: its current value and
// whether it was declared const.
type binding struct {
	value value.Value
	const_ bool
}

// Environment is one lexical scope: a parent pointer, a name->value
// map, and an in-class flag granting access to non-public instance
// properties during method execution.
type Environment struct {
	parent  *Environment
	vars    map[string]*binding
	inClass bool

	// thisVal and superProto carry the `this`/`super` bindings through
	// a method body. They propagate to children like inClass, and are
	// only ever set fresh by BindThis at the point a method call
	// constructs its body scope (spec.md §4.6).
	thisVal   value.Value
	superProto *value.Prototype
}

// New creates a root environment with no parent.
func New() *Environment {
	return &Environment{vars: make(map[string]*binding)}
}

// Child creates a new scope nested under e. inClass/this/super
// propagate from the parent unless explicitly overridden.
func (e *Environment) Child() *Environment {
	return &Environment{
		parent:     e,
		vars:       make(map[string]*binding),
		inClass:    e.inClass,
		thisVal:    e.thisVal,
		superProto: e.superProto,
	}
}

// NewClassChild creates a child scope with inClass set, granting
// access to private instance properties for the duration of a method
// body, per spec.md §4.6.
func (e *Environment) NewClassChild() *Environment {
	c := e.Child()
	c.inClass = true
	return c
}

// BindThis creates a child scope with inClass set and `this`/`super`
// bound for the duration of one method invocation, per spec.md §4.6.
// super may be nil when the defining class has no parent.
func (e *Environment) BindThis(this value.Value, super *value.Prototype) *Environment {
	c := e.NewClassChild()
	c.thisVal = this
	c.superProto = super
	return c
}

// InClass reports whether this scope (or an ancestor it inherited
// from) was created for class-method execution.
func (e *Environment) InClass() bool { return e.inClass }

// This returns the `this` binding visible from e, if any.
func (e *Environment) This() (value.Value, bool) { return e.thisVal, e.thisVal != nil }

// SuperProto returns the defining class's parent instance prototype
// visible from e, or nil if there is none (no `extiende` clause, or
// not inside a method body at all).
func (e *Environment) SuperProto() *value.Prototype { return e.superProto }

// Declare binds name to v in the current scope. It refuses a reserved
// keyword or a name already declared in this exact scope (not an
// ancestor — shadowing a parent binding is allowed).
func (e *Environment) Declare(name string, v value.Value, isConst bool) *cerr.Throw {
	if token.IsKeyword(name) {
		return cerr.NewEnvironmentError("%q es una palabra reservada y no puede declararse", name)
	}
	if _, exists := e.vars[name]; exists {
		return cerr.NewEnvironmentError("%q ya está declarado en este ámbito", name)
	}
	e.vars[name] = &binding{value: v, const_: isConst}
	return nil
}

// Assign walks from e up through its parents until it finds name,
// refusing if the binding is const or the name is a reserved keyword.
func (e *Environment) Assign(name string, v value.Value) *cerr.Throw {
	if token.IsKeyword(name) {
		return cerr.NewEnvironmentError("%q es una palabra reservada y no puede reasignarse", name)
	}
	scope := e.resolveScope(name)
	if scope == nil {
		return e.undeclaredError(name)
	}
	b := scope.vars[name]
	if b.const_ {
		return cerr.NewEnvironmentError("%q es constante y no puede reasignarse", name)
	}
	b.value = v
	return nil
}

// Get looks up name starting at e and walking to the root, returning
// its current value.
func (e *Environment) Get(name string) (value.Value, *cerr.Throw) {
	scope := e.resolveScope(name)
	if scope == nil {
		return nil, e.undeclaredError(name)
	}
	return scope.vars[name].value, nil
}

// Resolve returns the innermost scope that declares name, or nil if
// no scope in the chain does.
func (e *Environment) Resolve(name string) *Environment {
	return e.resolveScope(name)
}

func (e *Environment) resolveScope(name string) *Environment {
	for scope := e; scope != nil; scope = scope.parent {
		if _, ok := scope.vars[name]; ok {
			return scope
		}
	}
	return nil
}

// root walks to the outermost ancestor, used for diagnostic messages.
func (e *Environment) root() *Environment {
	r := e
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// undeclaredError builds an EnvironmentError for a failed lookup,
// including a fuzzy-matched "¿quisiste decir...?" suggestion against
// every name visible from e when one is close enough.
func (e *Environment) undeclaredError(name string) *cerr.Throw {
	err := cerr.NewEnvironmentError("%q no está declarado", name)
	if suggestion := e.suggest(name); suggestion != "" {
		err.Message += " (¿quisiste decir \"" + suggestion + "\"?)"
	}
	return err
}

func (e *Environment) suggest(name string) string {
	var candidates []string
	for scope := e; scope != nil; scope = scope.parent {
		for k := range scope.vars {
			candidates = append(candidates, k)
		}
	}
	if len(candidates) == 0 {
		return ""
	}
	ranks := fuzzy.RankFindFold(name, candidates)
	if len(ranks) == 0 {
		return ""
	}
	return ranks[0].Target
}

// Frame is one call-stack entry: the AST node kind being evaluated,
// its environment, and a pointer to the calling frame.
type Frame struct {
	NodeKind string
	File     string
	Line     int
	Column   int
	Env      *Environment
	prev     *Frame
}

// Stack is the linked call-frame list the interpreter/VM push onto on
// entry to every node and pop on exit. Iterating from Top to root
// yields the call chain for error rendering.
type Stack struct {
	Top *Frame
}

// NewStack returns an empty call stack.
func NewStack() *Stack { return &Stack{} }

// Push returns a new Stack with f as the new top frame, leaving the
// receiver's frame chain untouched (frames are immutable once pushed).
func (s *Stack) Push(f Frame) *Stack {
	f.prev = s.Top
	return &Stack{Top: &f}
}

// Frames returns every frame from innermost (index 0) to the root.
func (s *Stack) Frames() []Frame {
	var out []Frame
	for f := s.Top; f != nil; f = f.prev {
		out = append(out, *f)
	}
	return out
}

// cerrFrames converts the stack to cerr.Frame values for attaching to
// a Throw as it propagates, per spec.md §7's rendering contract.
func (s *Stack) cerrFrames() []cerr.Frame {
	frames := s.Frames()
	out := make([]cerr.Frame, len(frames))
	for i, f := range frames {
		out[i] = cerr.Frame{NodeKind: f.NodeKind, File: f.File, Line: f.Line, Column: f.Column}
	}
	return out
}

// Attach pushes this stack's frames onto t (innermost first) if t has
// none yet, used at the point a Throw is first constructed.
func (s *Stack) Attach(t *cerr.Throw) *cerr.Throw {
	if len(t.Stack) == 0 {
		t.Stack = s.cerrFrames()
	}
	return t
}
