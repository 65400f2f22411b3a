// Package interpreter implements the tree-walking evaluator: it drives
// an AST node against an environment/stack pair and produces either a
// value, a control-flow signal (return/break/continue), or a Throw,
// per spec.md §4.4.
package interpreter

import (
	"strings"

	"github.com/tinta-lang/tinta/core/ast"
	"github.com/tinta-lang/tinta/core/bignum"
	"github.com/tinta-lang/tinta/core/cerr"
	"github.com/tinta-lang/tinta/core/env"
	"github.com/tinta-lang/tinta/core/value"
	"github.com/tinta-lang/tinta/runtime/promise"
)

// Modules resolves an import target to a value, per spec.md §6's
// module-name contract (`:name` for built-ins, anything else against
// the filesystem relative to the importing file).
type Modules interface {
	Resolve(name, fromFile string) (value.Value, *cerr.Throw)
}

// Console dispatches a `csl::name(args)` call, per spec.md §4.5's
// Console.Output rule. It is always available regardless of imports.
type Console interface {
	Call(name string, args []value.Value) (value.Value, *cerr.Throw)
}

// Interpreter evaluates a parsed Program against a global environment,
// per spec.md §4.4. File is used for stack-frame rendering (§4.3).
type Interpreter struct {
	File     string
	Modules  Modules
	Console  Console
	Executor *promise.Executor

	// Exports accumulates `exporta` bindings seen at the top level,
	// mirroring runtime/vm.VM.Exports so a filesystem module resolved
	// through either execution path produces the same module value:
	// an Object whose own properties are the exported names.
	Exports *value.Object
}

// New builds an Interpreter. modules/console may be nil; console calls
// and imports then fail with a TypeError rather than panicking.
func New(file string, modules Modules, console Console) *Interpreter {
	return &Interpreter{File: file, Modules: modules, Console: console, Executor: promise.New()}
}

// exportedName returns the name bound by decl ("" if decl isn't a
// top-level declaration form that exporta can wrap), used to mirror
// the export into the Interpreter's Exports object.
func exportedName(decl ast.Statement) string {
	switch d := decl.(type) {
	case *ast.VarDecl:
		return d.Name
	case *ast.FuncDecl:
		return d.Name
	case *ast.ClassDecl:
		return d.Name
	default:
		return ""
	}
}

// ctrl is the control-flow signal a statement evaluation may produce,
// consumed by the nearest enclosing loop or function body, mirroring
// spec.md §4.4's "Return wraps the value in a Return marker".
type ctrl int

const (
	ctrlNone ctrl = iota
	ctrlReturn
	ctrlBreak
	ctrlContinue
)

// Run evaluates prog's top-level statements in a fresh root environment
// and stack, returning the last expression-statement value.
func (it *Interpreter) Run(prog *ast.Program) (value.Value, *cerr.Throw) {
	e := env.New()
	stack := env.NewStack()
	return it.evalProgram(prog, e, stack)
}

func (it *Interpreter) evalProgram(prog *ast.Program, e *env.Environment, stack *env.Stack) (value.Value, *cerr.Throw) {
	frame := env.Frame{NodeKind: "Program", File: it.File, Env: e}
	stack = stack.Push(frame)
	var last value.Value = value.NewNever()
	for _, stmt := range prog.Statements {
		v, c, err := it.evalStmt(stmt, e, stack)
		if err != nil {
			return nil, stack.Attach(err)
		}
		if c != ctrlNone {
			break
		}
		if v != nil {
			last = v
		}
	}
	return last, nil
}

func (it *Interpreter) frame(kind string, pos ast.Position, e *env.Environment, stack *env.Stack) *env.Stack {
	return stack.Push(env.Frame{NodeKind: kind, File: it.File, Line: pos.Line, Column: pos.Column, Env: e})
}

// evalStmt evaluates one statement, returning the value of an
// expression-statement (for top-level/REPL display), a control signal,
// and any Throw.
func (it *Interpreter) evalStmt(stmt ast.Statement, e *env.Environment, stack *env.Stack) (value.Value, ctrl, *cerr.Throw) {
	switch s := stmt.(type) {
	case *ast.Block:
		return it.evalBlock(s, e, stack)
	case *ast.VarDecl:
		v, err := it.evalExpr(s.Value, e, stack)
		if err != nil {
			return nil, ctrlNone, err
		}
		if err := e.Declare(s.Name, v, s.Constant); err != nil {
			return nil, ctrlNone, stack.Attach(err)
		}
		return nil, ctrlNone, nil
	case *ast.ExprStmt:
		v, err := it.evalExpr(s.Expr, e, stack)
		return v, ctrlNone, err
	case *ast.ReturnStmt:
		if s.Value == nil {
			return value.NewNever(), ctrlReturn, nil
		}
		v, err := it.evalExpr(s.Value, e, stack)
		if err != nil {
			return nil, ctrlNone, err
		}
		return v, ctrlReturn, nil
	case *ast.ThrowStmt:
		v, err := it.evalExpr(s.Value, e, stack)
		if err != nil {
			return nil, ctrlNone, err
		}
		return nil, ctrlNone, stack.Attach(throwValueOf(v))
	case *ast.BreakStmt:
		return nil, ctrlBreak, nil
	case *ast.ContinueStmt:
		return nil, ctrlContinue, nil
	case *ast.IfStmt:
		return it.evalIf(s, e, stack)
	case *ast.WhileStmt:
		return it.evalWhile(s, e, stack)
	case *ast.DoWhileStmt:
		return it.evalDoWhile(s, e, stack)
	case *ast.ForStmt:
		return it.evalFor(s, e, stack)
	case *ast.TryStmt:
		return it.evalTry(s, e, stack)
	case *ast.FuncDecl:
		fn := it.makeFunction(s, e)
		if err := e.Declare(s.Name, fn, true); err != nil {
			return nil, ctrlNone, stack.Attach(err)
		}
		return nil, ctrlNone, nil
	case *ast.ClassDecl:
		cls, err := it.evalClassDecl(s, e, stack)
		if err != nil {
			return nil, ctrlNone, err
		}
		if err := e.Declare(s.Name, cls, true); err != nil {
			return nil, ctrlNone, stack.Attach(err)
		}
		return nil, ctrlNone, nil
	case *ast.ImportStmt:
		return nil, ctrlNone, it.evalImport(s, e, stack)
	case *ast.ExportStmt:
		v, c, err := it.evalStmt(s.Decl, e, stack)
		if err != nil {
			return nil, ctrlNone, err
		}
		if name := exportedName(s.Decl); name != "" {
			bound, getErr := e.Get(name)
			if getErr == nil {
				if it.Exports == nil {
					it.Exports = value.NewObject()
				}
				it.Exports.SetObjectProperty(name, bound)
			}
		}
		return v, c, nil
	default:
		return nil, ctrlNone, stack.Attach(cerr.NewSyntaxError("sentencia no soportada: %T", stmt))
	}
}

// throwValueOf converts the thrown value into a *cerr.Throw: a
// ThrowValue unwraps to its original Throw, anything else becomes a
// CustomError carrying its console form, per spec.md §7's
// CustomError(tag) kind.
func throwValueOf(v value.Value) *cerr.Throw {
	if tv, ok := v.(*value.ThrowValue); ok {
		return tv.Throw
	}
	return cerr.NewCustomError(v.Type(), "%s", v.ToAgalConsole())
}

func (it *Interpreter) evalBlock(b *ast.Block, e *env.Environment, stack *env.Stack) (value.Value, ctrl, *cerr.Throw) {
	stack = it.frame("Block", b.Pos, e, stack)
	child := e.Child()
	var last value.Value
	for _, stmt := range b.Statements {
		v, c, err := it.evalStmt(stmt, child, stack)
		if err != nil {
			return nil, ctrlNone, err
		}
		if c != ctrlNone {
			return v, c, nil
		}
		if v != nil {
			last = v
		}
	}
	return last, ctrlNone, nil
}

func (it *Interpreter) evalIf(s *ast.IfStmt, e *env.Environment, stack *env.Stack) (value.Value, ctrl, *cerr.Throw) {
	stack = it.frame("If", s.Pos, e, stack)
	cond, err := it.evalExpr(s.Cond, e, stack)
	if err != nil {
		return nil, ctrlNone, err
	}
	if value.Truthy(cond) {
		return it.evalBlock(s.Then, e, stack)
	}
	if s.Else != nil {
		return it.evalStmt(s.Else, e, stack)
	}
	return nil, ctrlNone, nil
}

func (it *Interpreter) evalWhile(s *ast.WhileStmt, e *env.Environment, stack *env.Stack) (value.Value, ctrl, *cerr.Throw) {
	stack = it.frame("While", s.Pos, e, stack)
	for {
		cond, err := it.evalExpr(s.Cond, e, stack)
		if err != nil {
			return nil, ctrlNone, err
		}
		if !value.Truthy(cond) {
			return nil, ctrlNone, nil
		}
		v, c, err := it.evalBlock(s.Body, e, stack)
		if err != nil {
			return nil, ctrlNone, err
		}
		if c == ctrlBreak {
			return nil, ctrlNone, nil
		}
		if c == ctrlReturn {
			return v, c, nil
		}
	}
}

func (it *Interpreter) evalDoWhile(s *ast.DoWhileStmt, e *env.Environment, stack *env.Stack) (value.Value, ctrl, *cerr.Throw) {
	stack = it.frame("DoWhile", s.Pos, e, stack)
	for {
		v, c, err := it.evalBlock(s.Body, e, stack)
		if err != nil {
			return nil, ctrlNone, err
		}
		if c == ctrlBreak {
			return nil, ctrlNone, nil
		}
		if c == ctrlReturn {
			return v, c, nil
		}
		if s.Cond == nil {
			return nil, ctrlNone, nil
		}
		cond, err := it.evalExpr(s.Cond, e, stack)
		if err != nil {
			return nil, ctrlNone, err
		}
		if !value.Truthy(cond) {
			return nil, ctrlNone, nil
		}
	}
}

func (it *Interpreter) evalFor(s *ast.ForStmt, e *env.Environment, stack *env.Stack) (value.Value, ctrl, *cerr.Throw) {
	stack = it.frame("For", s.Pos, e, stack)
	child := e.Child()
	if s.Init != nil {
		if _, _, err := it.evalStmt(s.Init, child, stack); err != nil {
			return nil, ctrlNone, err
		}
	}
	for {
		if s.Cond != nil {
			cond, err := it.evalExpr(s.Cond, child, stack)
			if err != nil {
				return nil, ctrlNone, err
			}
			if !value.Truthy(cond) {
				return nil, ctrlNone, nil
			}
		}
		v, c, err := it.evalBlock(s.Body, child, stack)
		if err != nil {
			return nil, ctrlNone, err
		}
		if c == ctrlBreak {
			return nil, ctrlNone, nil
		}
		if c == ctrlReturn {
			return v, c, nil
		}
		if s.Post != nil {
			if _, _, err := it.evalStmt(s.Post, child, stack); err != nil {
				return nil, ctrlNone, err
			}
		}
	}
}

func (it *Interpreter) evalTry(s *ast.TryStmt, e *env.Environment, stack *env.Stack) (v value.Value, c ctrl, rerr *cerr.Throw) {
	stack = it.frame("Try", s.Pos, e, stack)
	if s.Finally != nil {
		defer func() {
			fv, fc, ferr := it.evalBlock(s.Finally, e, stack)
			if ferr != nil {
				v, c, rerr = nil, ctrlNone, ferr
				return
			}
			if fc != ctrlNone {
				v, c, rerr = fv, fc, nil
			}
		}()
	}
	v, c, rerr = it.evalBlock(s.Try, e, stack)
	if rerr != nil && s.Catch != nil {
		caught := e.Child()
		if s.Catch.Param != "" {
			_ = caught.Declare(s.Catch.Param, value.NewThrowValue(rerr), false)
		}
		v, c, rerr = it.evalBlock(s.Catch.Body, caught, stack)
	}
	return v, c, rerr
}

func (it *Interpreter) evalImport(s *ast.ImportStmt, e *env.Environment, stack *env.Stack) *cerr.Throw {
	if it.Modules == nil {
		return stack.Attach(cerr.NewTypeError("no hay un registro de módulos configurado"))
	}
	mod, err := it.Modules.Resolve(s.Path, it.File)
	if err != nil {
		return stack.Attach(err)
	}
	alias := s.Alias
	if alias == "" {
		alias = s.Path
	}
	return stack.Attach(e.Declare(alias, mod, true))
}

// evalExpr evaluates an expression to a value.
func (it *Interpreter) evalExpr(expr ast.Expression, e *env.Environment, stack *env.Stack) (value.Value, *cerr.Throw) {
	switch x := expr.(type) {
	case *ast.NumberLiteral:
		n, err := bignum.ParseLiteral(x.Raw)
		if err != nil {
			return nil, stack.Attach(cerr.NewSyntaxError("literal numérico inválido %q: %v", x.Raw, err))
		}
		return value.NewNumber(n), nil
	case *ast.StringLiteral:
		return it.evalStringLiteral(x, e, stack)
	case *ast.BooleanLiteral:
		return value.NewBoolean(x.Value), nil
	case *ast.NullLiteral:
		return value.NewNull(), nil
	case *ast.Identifier:
		v, err := e.Get(x.Name)
		if err != nil {
			return nil, stack.Attach(err)
		}
		return v, nil
	case *ast.ThisExpr:
		this, ok := e.This()
		if !ok {
			return nil, stack.Attach(cerr.NewEnvironmentError("\"this\" no está disponible fuera de un método"))
		}
		return this, nil
	case *ast.SuperExpr:
		this, ok := e.This()
		if !ok {
			return nil, stack.Attach(cerr.NewEnvironmentError("\"super\" no está disponible fuera de un método"))
		}
		super := e.SuperProto()
		return value.NewSuperRef(this, super), nil
	case *ast.ArrayLiteral:
		elems := make([]value.Value, len(x.Elements))
		for i, el := range x.Elements {
			v, err := it.evalExpr(el, e, stack)
			if err != nil {
				return nil, err
			}
			elems[i] = v
		}
		return value.NewArray(elems), nil
	case *ast.ObjectLiteral:
		obj := value.NewObject()
		for _, p := range x.Props {
			v, err := it.evalExpr(p.Value, e, stack)
			if err != nil {
				return nil, err
			}
			if _, err := obj.SetObjectProperty(p.Key, v); err != nil {
				return nil, stack.Attach(err)
			}
		}
		return obj, nil
	case *ast.BinaryExpr:
		return it.evalBinary(x, e, stack)
	case *ast.UnaryExpr:
		operand, err := it.evalExpr(x.Operand, e, stack)
		if err != nil {
			return nil, err
		}
		v, uerr := operand.UnaryOperator(x.Op)
		if uerr != nil {
			return nil, stack.Attach(uerr)
		}
		return v, nil
	case *ast.AssignExpr:
		return it.evalAssign(x, e, stack)
	case *ast.CallExpr:
		return it.evalCall(x, e, stack)
	case *ast.MemberExpr:
		_, v, err := it.evalMember(x, e, stack)
		return v, err
	case *ast.ConsoleExpr:
		return it.evalConsole(x, e, stack)
	case *ast.LazyExpr:
		captured := e
		return value.NewLazy(func() (value.Value, *cerr.Throw) {
			return it.evalExpr(x.Value, captured, stack)
		}), nil
	case *ast.AwaitExpr:
		return it.evalAwait(x, e, stack)
	case *ast.DeleteExpr:
		return it.evalDelete(x, e, stack)
	case *ast.FuncDecl:
		return it.makeFunction(x, e), nil
	case *ast.ClassDecl:
		return it.evalClassDecl(x, e, stack)
	default:
		return nil, stack.Attach(cerr.NewSyntaxError("expresión no soportada: %T", expr))
	}
}

func (it *Interpreter) evalStringLiteral(s *ast.StringLiteral, e *env.Environment, stack *env.Stack) (value.Value, *cerr.Throw) {
	var b strings.Builder
	for _, p := range s.Parts {
		if p.Expr == nil {
			b.WriteString(p.Text)
			continue
		}
		v, err := it.evalExpr(p.Expr, e, stack)
		if err != nil {
			return nil, err
		}
		str, serr := v.ToAgalString()
		if serr != nil {
			return nil, stack.Attach(serr)
		}
		b.WriteString(str)
	}
	return value.NewString(b.String()), nil
}

func (it *Interpreter) evalBinary(x *ast.BinaryExpr, e *env.Environment, stack *env.Stack) (value.Value, *cerr.Throw) {
	left, err := it.evalExpr(x.Left, e, stack)
	if err != nil {
		return nil, err
	}
	if x.Op == "&&" && !value.Truthy(left) {
		return left, nil
	}
	if x.Op == "||" && value.Truthy(left) {
		return left, nil
	}
	right, err := it.evalExpr(x.Right, e, stack)
	if err != nil {
		return nil, err
	}
	v, berr := left.BinaryOperation(x.Op, right)
	if berr != nil {
		return nil, stack.Attach(berr)
	}
	return v, nil
}

func (it *Interpreter) evalAssign(x *ast.AssignExpr, e *env.Environment, stack *env.Stack) (value.Value, *cerr.Throw) {
	rhs, err := it.evalExpr(x.Value, e, stack)
	if err != nil {
		return nil, err
	}
	if x.Op != "=" {
		cur, err := it.evalExpr(x.Target, e, stack)
		if err != nil {
			return nil, err
		}
		v, berr := cur.BinaryOperation(x.Op, rhs)
		if berr != nil {
			return nil, stack.Attach(berr)
		}
		rhs = v
	}
	switch t := x.Target.(type) {
	case *ast.Identifier:
		if err := e.Assign(t.Name, rhs); err != nil {
			return nil, stack.Attach(err)
		}
		return rhs, nil
	case *ast.MemberExpr:
		obj, err := it.evalMemberObject(t, e, stack)
		if err != nil {
			return nil, err
		}
		key, err := it.memberKey(t, e, stack)
		if err != nil {
			return nil, err
		}
		if _, serr := obj.SetObjectProperty(key, rhs); serr != nil {
			return nil, stack.Attach(serr)
		}
		return rhs, nil
	default:
		return nil, stack.Attach(cerr.NewSyntaxError("objetivo de asignación inválido: %T", x.Target))
	}
}

func (it *Interpreter) memberKey(m *ast.MemberExpr, e *env.Environment, stack *env.Stack) (string, *cerr.Throw) {
	if !m.Computed {
		return m.Property.(*ast.Identifier).Name, nil
	}
	v, err := it.evalExpr(m.Property, e, stack)
	if err != nil {
		return "", err
	}
	s, serr := v.ToAgalString()
	if serr != nil {
		return "", stack.Attach(serr)
	}
	return s, nil
}

func (it *Interpreter) evalMemberObject(m *ast.MemberExpr, e *env.Environment, stack *env.Stack) (value.Value, *cerr.Throw) {
	return it.evalExpr(m.Object, e, stack)
}

// evalMember resolves object.property / object[expr], returning the
// receiver object (for binding `this` on a subsequent call) and the
// resolved value. When object is `super`, the receiver is a
// *value.SuperRef whose GetInstanceProperty already rebinds any
// resolved method to the original instance, so the receiver returned
// here need not be unwrapped by the caller.
func (it *Interpreter) evalMember(m *ast.MemberExpr, e *env.Environment, stack *env.Stack) (value.Value, value.Value, *cerr.Throw) {
	obj, err := it.evalMemberObject(m, e, stack)
	if err != nil {
		return nil, nil, err
	}
	key, err := it.memberKey(m, e, stack)
	if err != nil {
		return nil, nil, err
	}
	v, gerr := obj.GetInstanceProperty(key)
	if gerr != nil {
		return nil, nil, stack.Attach(gerr)
	}
	return obj, v, nil
}

func (it *Interpreter) evalCall(x *ast.CallExpr, e *env.Environment, stack *env.Stack) (value.Value, *cerr.Throw) {
	stack = it.frame("Call", x.Pos, e, stack)
	var callee value.Value
	var this value.Value
	if m, ok := x.Callee.(*ast.MemberExpr); ok {
		obj, v, err := it.evalMember(m, e, stack)
		if err != nil {
			return nil, err
		}
		callee, this = v, obj
	} else {
		v, err := it.evalExpr(x.Callee, e, stack)
		if err != nil {
			return nil, err
		}
		callee = v
	}
	args := make([]value.Value, 0, len(x.Args))
	for _, a := range x.Args {
		v, err := it.evalExpr(a, e, stack)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	v, err := callee.Call(this, args)
	if err != nil {
		return nil, stack.Attach(err)
	}
	return v, nil
}

func (it *Interpreter) evalConsole(x *ast.ConsoleExpr, e *env.Environment, stack *env.Stack) (value.Value, *cerr.Throw) {
	if it.Console == nil {
		return nil, stack.Attach(cerr.NewTypeError("no hay una consola configurada"))
	}
	args := make([]value.Value, 0, len(x.Args))
	for _, a := range x.Args {
		v, err := it.evalExpr(a, e, stack)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	v, err := it.Console.Call(x.Name, args)
	if err != nil {
		return nil, stack.Attach(err)
	}
	return v, nil
}

func (it *Interpreter) evalAwait(x *ast.AwaitExpr, e *env.Environment, stack *env.Stack) (value.Value, *cerr.Throw) {
	v, err := it.evalExpr(x.Value, e, stack)
	if err != nil {
		return nil, err
	}
	p, ok := v.(*value.Promise)
	if !ok {
		return v, nil
	}
	res, aerr := promise.Await(p)
	if aerr != nil {
		return nil, stack.Attach(aerr)
	}
	return res, nil
}

func (it *Interpreter) evalDelete(x *ast.DeleteExpr, e *env.Environment, stack *env.Stack) (value.Value, *cerr.Throw) {
	m, ok := x.Target.(*ast.MemberExpr)
	if !ok {
		return nil, stack.Attach(cerr.NewSyntaxError("\"borra\" requiere una propiedad de objeto"))
	}
	obj, err := it.evalMemberObject(m, e, stack)
	if err != nil {
		return nil, err
	}
	key, err := it.memberKey(m, e, stack)
	if err != nil {
		return nil, err
	}
	if derr := obj.DeleteObjectProperty(key); derr != nil {
		return nil, stack.Attach(derr)
	}
	return value.NewNever(), nil
}

// makeFunction builds a *value.Function closing over e, the defining
// scope, per spec.md §3's "captured_scope is set at class/function
// creation". Binding of this/super (for methods) happens separately in
// evalClassDecl via env.BindThis.
func (it *Interpreter) makeFunction(fd *ast.FuncDecl, e *env.Environment) *value.Function {
	name := fd.Name
	if name == "" {
		name = "anónima"
	}
	invoke := func(this value.Value, args []value.Value) (value.Value, *cerr.Throw) {
		return it.invoke(fd, e, this, args)
	}
	if fd.Async {
		asyncInvoke := invoke
		invoke = func(this value.Value, args []value.Value) (value.Value, *cerr.Throw) {
			p := it.Executor.Spawn(func() (value.Value, *cerr.Throw) {
				return asyncInvoke(this, args)
			})
			return p, nil
		}
	}
	return value.NewFunction(name, invoke)
}

func (it *Interpreter) invoke(fd *ast.FuncDecl, defScope *env.Environment, this value.Value, args []value.Value) (value.Value, *cerr.Throw) {
	call := defScope
	if this != nil {
		call = defScope.BindThis(this, superProtoOf(this))
	} else {
		call = defScope.Child()
	}
	if err := bindParams(call, fd.Params, args, it, defScope); err != nil {
		return nil, err
	}
	stack := env.NewStack().Push(env.Frame{NodeKind: "Call", File: it.File, Line: fd.Pos.Line, Column: fd.Pos.Column, Env: call})
	v, c, err := it.evalBlock(fd.Body, call, stack)
	if err != nil {
		return nil, err
	}
	if c == ctrlReturn {
		return v, nil
	}
	return value.NewNever(), nil
}

// superProtoOf looks up the super prototype chained from this's own
// type, when this is an *value.Object created by Class.Instantiate:
// its Proto.Super is exactly the parent class's instance prototype.
func superProtoOf(this value.Value) *value.Prototype {
	if obj, ok := this.(*value.Object); ok && obj.Proto != nil {
		return obj.Proto.Super
	}
	return nil
}

func bindParams(call *env.Environment, params []ast.Param, args []value.Value, it *Interpreter, defScope *env.Environment) *cerr.Throw {
	for i, p := range params {
		if p.Variadic {
			rest := args[min(i, len(args)):]
			call.Declare(p.Name, value.NewArray(append([]value.Value{}, rest...)), false)
			return nil
		}
		var v value.Value
		if i < len(args) {
			v = args[i]
		} else if p.Default != nil {
			dv, err := it.evalExpr(p.Default, call, env.NewStack())
			if err != nil {
				return err
			}
			v = dv
		} else {
			v = value.NewNever()
		}
		if p.Name != "" {
			call.Declare(p.Name, v, false)
		}
	}
	return nil
}

// evalClassDecl desugars field initializers into the constructor, then
// builds a *value.Class whose instance/static prototypes hold bound
// methods, per spec.md §4.6.
func (it *Interpreter) evalClassDecl(cd *ast.ClassDecl, e *env.Environment, stack *env.Stack) (value.Value, *cerr.Throw) {
	desugared := ast.DesugarClass(cd)
	var parent *value.Class
	if desugared.Extends != "" {
		pv, err := e.Get(desugared.Extends)
		if err != nil {
			return nil, stack.Attach(err)
		}
		p, ok := pv.(*value.Class)
		if !ok {
			return nil, stack.Attach(cerr.NewTypeError("%q no es una clase", desugared.Extends))
		}
		parent = p
	}
	cls := value.NewClass(desugared.Name, parent)
	classScope := e.Child()
	for _, m := range desugared.Members {
		fd, isFn := m.Value.(*ast.FuncDecl)
		var v value.Value
		if isFn {
			v = it.makeMethod(fd, classScope, cls)
		} else {
			ev, err := it.evalExpr(m.Value, classScope, stack)
			if err != nil {
				return nil, err
			}
			v = ev
		}
		prop := value.Property{Value: v, Public: m.Public, Static: m.Static}
		if m.Static {
			cls.Static.Properties[m.Name] = prop
		} else {
			cls.Instance.Properties[m.Name] = prop
		}
	}
	// Declared for recursive static self-reference inside method bodies;
	// a name collision here is harmless since classScope is private to
	// this declaration.
	classScope.Declare(desugared.Name, cls, true)
	return cls, nil
}

// makeMethod builds a method closure whose invocation binds `this` to
// the receiver and `super` to cls's parent instance prototype, so
// `super.m()` inside the body resolves through value.SuperRef.
func (it *Interpreter) makeMethod(fd *ast.FuncDecl, defScope *env.Environment, cls *value.Class) *value.Function {
	var superProto *value.Prototype
	if cls.Parent != nil {
		superProto = cls.Parent.Instance
	}
	invoke := func(this value.Value, args []value.Value) (value.Value, *cerr.Throw) {
		call := defScope.BindThis(this, superProto)
		if err := bindParams(call, fd.Params, args, it, defScope); err != nil {
			return nil, err
		}
		stack := env.NewStack().Push(env.Frame{NodeKind: "Call", File: it.File, Line: fd.Pos.Line, Column: fd.Pos.Column, Env: call})
		v, c, err := it.evalBlock(fd.Body, call, stack)
		if err != nil {
			return nil, err
		}
		if c == ctrlReturn {
			return v, nil
		}
		return value.NewNever(), nil
	}
	name := fd.Name
	if name == "" {
		name = "anónima"
	}
	return value.NewFunction(name, invoke)
}
