// Package vm implements the stack-based bytecode interpreter described
// by spec.md §4.5: it walks a bytecode.ChunkGroup's instruction stream
// against an operand stack and a core/env.Environment used directly as
// the VM's locals (name-indexed, not slot-indexed, so GetVar/SetVar/
// VarDecl/ConstDecl share identical semantics with the tree
// interpreter rather than a separate register model).
package vm

import (
	"github.com/tinta-lang/tinta/core/bytecode"
	"github.com/tinta-lang/tinta/core/cerr"
	"github.com/tinta-lang/tinta/core/env"
	"github.com/tinta-lang/tinta/core/value"
	"github.com/tinta-lang/tinta/runtime/interpreter"
	"github.com/tinta-lang/tinta/runtime/promise"
)

// VM executes compiled ChunkGroups. It reuses the tree interpreter's
// Modules/Console contracts directly rather than redeclaring them, so
// a single library registry serves both execution paths.
type VM struct {
	File     string
	Modules  interpreter.Modules
	Console  interpreter.Console
	Executor *promise.Executor

	// Exports accumulates `exporta` bindings seen at the top level of
	// Run, for a module loader to read back after the file finishes
	// executing. It is nil until the first export.
	Exports *value.Object
}

// New builds a VM. modules/console may be nil; console calls and
// imports then fail with a TypeError rather than panicking.
func New(file string, modules interpreter.Modules, console interpreter.Console) *VM {
	return &VM{File: file, Modules: modules, Console: console, Executor: promise.New()}
}

// Run executes g's top level in a fresh root environment.
func (vm *VM) Run(g *bytecode.ChunkGroup) (value.Value, *cerr.Throw) {
	e := env.New()
	stack := env.NewStack().Push(env.Frame{NodeKind: "Program", File: vm.File, Env: e})
	return vm.run(g, e, stack)
}

func constString(g *bytecode.ChunkGroup, pos, idx int) string {
	return g.Constant(pos, idx).(*value.AgalString).Value
}

var binaryOpcodes = map[bytecode.Op]string{
	bytecode.OpAdd: "+", bytecode.OpSub: "-", bytecode.OpMul: "*", bytecode.OpDiv: "/",
	bytecode.OpFloorDiv: "//", bytecode.OpMod: "%", bytecode.OpPow: "**",
	bytecode.OpEq: "==", bytecode.OpNeq: "!=", bytecode.OpLt: "<", bytecode.OpLe: "<=",
	bytecode.OpGt: ">", bytecode.OpGe: ">=",
	bytecode.OpBitAnd: "&", bytecode.OpBitOr: "|", bytecode.OpShl: "<<", bytecode.OpShr: ">>",
}

var unaryOpcodes = map[bytecode.Op]string{
	bytecode.OpNegate: "-", bytecode.OpNot: "!", bytecode.OpApproximate: "~", bytecode.OpAsBoolean: "?",
}

// rebindMethod wraps a resolved *value.Function so subsequent calls
// always receive recv as `this`, regardless of what OpCall happens to
// pass. This is how the VM implements method-call binding: spec.md §6
// gives Call only an argc operand (no separate receiver slot), so the
// receiver must already be baked into the callee by the time OpCall
// runs. The tree interpreter instead threads `this` explicitly at each
// call site (runtime/interpreter's evalCall); both are observably
// identical for a normal `obj.metodo()` call, but this approach also
// makes a *detached* method reference (`def m = obj.metodo`) stay bound
// to obj, which the tree interpreter does not guarantee.
func rebindMethod(recv value.Value, v value.Value) value.Value {
	fn, ok := v.(*value.Function)
	if !ok {
		return v
	}
	return value.NewFunction(fn.Name, func(_ value.Value, args []value.Value) (value.Value, *cerr.Throw) {
		return fn.Fn(recv, args)
	})
}

func superProtoOf(this value.Value) *value.Prototype {
	if obj, ok := this.(*value.Object); ok && obj.Proto != nil {
		return obj.Proto.Super
	}
	return nil
}

// run executes one ChunkGroup to completion (an OpReturn always
// terminates it, including the implicit one the compiler appends),
// with e as the outermost scope for this activation and stack as the
// call-stack frame established by whatever invoked this activation
// (Run for the top level, invoke/buildMethod for a function/method
// call). Errors are attached to that single frame: the VM does not
// push a new stack frame per instruction or per block, trading the
// tree interpreter's per-node trace granularity for a simpler loop —
// a VM stack trace names the enclosing calls, not the exact statement.
func (vm *VM) run(g *bytecode.ChunkGroup, e *env.Environment, stack *env.Stack) (value.Value, *cerr.Throw) {
	var operands []value.Value
	push := func(v value.Value) { operands = append(operands, v) }
	pop := func() value.Value {
		v := operands[len(operands)-1]
		operands = operands[:len(operands)-1]
		return v
	}
	scopes := []*env.Environment{e}
	cur := func() *env.Environment { return scopes[len(scopes)-1] }

	ip := 0
	for {
		pos := ip
		op := bytecode.Op(g.ReadByte(ip))
		ip++

		if operator, ok := binaryOpcodes[op]; ok {
			rhs := pop()
			lhs := pop()
			v, err := lhs.BinaryOperation(operator, rhs)
			if err != nil {
				return nil, stack.Attach(err)
			}
			push(v)
			continue
		}
		if operator, ok := unaryOpcodes[op]; ok {
			v, err := pop().UnaryOperator(operator)
			if err != nil {
				return nil, stack.Attach(err)
			}
			push(v)
			continue
		}

		switch op {
		case bytecode.OpConstant:
			idx := int(g.ReadByte(ip))
			ip++
			push(g.Constant(pos, idx))

		case bytecode.OpAsString:
			s, err := pop().ToAgalString()
			if err != nil {
				return nil, stack.Attach(err)
			}
			push(value.NewString(s))

		case bytecode.OpCall:
			argc := int(g.ReadByte(ip))
			ip++
			args := make([]value.Value, argc)
			for i := argc - 1; i >= 0; i-- {
				args[i] = pop()
			}
			callee := pop()
			v, err := callee.Call(nil, args)
			if err != nil {
				return nil, stack.Attach(err)
			}
			push(v)

		case bytecode.OpVarDecl, bytecode.OpConstDecl:
			idx := int(g.ReadByte(ip))
			ip++
			name := constString(g, pos, idx)
			v := pop()
			if err := cur().Declare(name, v, op == bytecode.OpConstDecl); err != nil {
				return nil, stack.Attach(err)
			}

		case bytecode.OpGetVar:
			idx := int(g.ReadByte(ip))
			ip++
			name := constString(g, pos, idx)
			v, err := cur().Get(name)
			if err != nil {
				return nil, stack.Attach(err)
			}
			push(v)

		case bytecode.OpSetVar:
			idx := int(g.ReadByte(ip))
			ip++
			name := constString(g, pos, idx)
			v := pop()
			if err := cur().Assign(name, v); err != nil {
				return nil, stack.Attach(err)
			}
			push(v)

		case bytecode.OpGetMember:
			idx := int(g.ReadByte(ip))
			ip++
			key := constString(g, pos, idx)
			obj := pop()
			v, err := obj.GetInstanceProperty(key)
			if err != nil {
				return nil, stack.Attach(err)
			}
			push(rebindMethod(obj, v))

		case bytecode.OpSetMember:
			idx := int(g.ReadByte(ip))
			ip++
			key := constString(g, pos, idx)
			v := pop()
			obj := pop()
			if _, err := obj.SetObjectProperty(key, v); err != nil {
				return nil, stack.Attach(err)
			}
			push(v)

		case bytecode.OpDeleteMember:
			idx := int(g.ReadByte(ip))
			ip++
			key := constString(g, pos, idx)
			obj := pop()
			if err := obj.DeleteObjectProperty(key); err != nil {
				return nil, stack.Attach(err)
			}
			push(value.NewNever())

		case bytecode.OpConsoleOut:
			idx := int(g.ReadByte(ip))
			ip++
			argc := int(g.ReadByte(ip))
			ip++
			name := constString(g, pos, idx)
			args := make([]value.Value, argc)
			for i := argc - 1; i >= 0; i-- {
				args[i] = pop()
			}
			if vm.Console == nil {
				return nil, stack.Attach(cerr.NewTypeError("no hay una consola configurada"))
			}
			v, err := vm.Console.Call(name, args)
			if err != nil {
				return nil, stack.Attach(err)
			}
			push(v)

		case bytecode.OpPop:
			pop()

		case bytecode.OpCopy:
			top := operands[len(operands)-1]
			push(top)

		case bytecode.OpNewLocals:
			scopes = append(scopes, cur().Child())

		case bytecode.OpRemoveLocals:
			scopes = scopes[:len(scopes)-1]

		case bytecode.OpJumpIfFalse:
			target := int(g.ReadU16(ip))
			ip += 2
			if !value.Truthy(operands[len(operands)-1]) {
				ip = target
			}

		case bytecode.OpJump:
			target := int(g.ReadU16(ip))
			ip = target

		case bytecode.OpLoop:
			target := int(g.ReadU16(ip))
			ip = target

		case bytecode.OpReturn:
			return pop(), nil

		case bytecode.OpImport:
			idx := int(g.ReadByte(ip))
			ip++
			path := constString(g, pos, idx)
			if vm.Modules == nil {
				return nil, stack.Attach(cerr.NewTypeError("no hay un registro de módulos configurado"))
			}
			mod, err := vm.Modules.Resolve(path, vm.File)
			if err != nil {
				return nil, stack.Attach(err)
			}
			push(mod)

		case bytecode.OpExport:
			idx := int(g.ReadByte(ip))
			ip++
			name := constString(g, pos, idx)
			v, err := cur().Get(name)
			if err != nil {
				return nil, stack.Attach(err)
			}
			if vm.Exports == nil {
				vm.Exports = value.NewObject()
			}
			vm.Exports.SetObjectProperty(name, v)

		case bytecode.OpNewArray:
			n := int(g.ReadByte(ip))
			ip++
			elems := make([]value.Value, n)
			for i := n - 1; i >= 0; i-- {
				elems[i] = pop()
			}
			push(value.NewArray(elems))

		case bytecode.OpNewObject:
			n := int(g.ReadByte(ip))
			ip++
			type pair struct {
				key string
				val value.Value
			}
			pairs := make([]pair, n)
			for i := n - 1; i >= 0; i-- {
				v := pop()
				k := pop()
				pairs[i] = pair{k.(*value.AgalString).Value, v}
			}
			obj := value.NewObject()
			for _, p := range pairs {
				obj.SetObjectProperty(p.key, p.val)
			}
			push(obj)

		case bytecode.OpNewFunction:
			idx := int(g.ReadU16(ip))
			ip += 2
			push(vm.buildFunction(g.Functions[idx], cur()))

		case bytecode.OpNewClass:
			idx := int(g.ReadU16(ip))
			ip += 2
			cls, err := vm.buildClass(g.Classes[idx], cur(), stack)
			if err != nil {
				return nil, err
			}
			push(cls)

		case bytecode.OpGetThis:
			this, ok := cur().This()
			if !ok {
				return nil, stack.Attach(cerr.NewEnvironmentError("\"this\" no está disponible fuera de un método"))
			}
			push(this)

		case bytecode.OpGetSuper:
			this, ok := cur().This()
			if !ok {
				return nil, stack.Attach(cerr.NewEnvironmentError("\"super\" no está disponible fuera de un método"))
			}
			push(value.NewSuperRef(this, cur().SuperProto()))

		case bytecode.OpAwait:
			v := pop()
			p, ok := v.(*value.Promise)
			if !ok {
				push(v)
				continue
			}
			res, err := promise.Await(p)
			if err != nil {
				return nil, stack.Attach(err)
			}
			push(res)

		case bytecode.OpMakeLazy:
			fn := pop().(*value.Function)
			push(value.NewLazy(func() (value.Value, *cerr.Throw) { return fn.Call(nil, nil) }))

		default:
			return nil, stack.Attach(cerr.NewSyntaxError("código de operación no soportado: %s", op))
		}
	}
}

func (vm *VM) buildFunction(proto *bytecode.FunctionProto, defScope *env.Environment) *value.Function {
	name := proto.Name
	if name == "" {
		name = "anónima"
	}
	invoke := func(this value.Value, args []value.Value) (value.Value, *cerr.Throw) {
		return vm.invoke(proto, defScope, this, args)
	}
	if proto.Async {
		sync := invoke
		invoke = func(this value.Value, args []value.Value) (value.Value, *cerr.Throw) {
			return vm.Executor.Spawn(func() (value.Value, *cerr.Throw) { return sync(this, args) }), nil
		}
	}
	return value.NewFunction(name, invoke)
}

func (vm *VM) invoke(proto *bytecode.FunctionProto, defScope *env.Environment, this value.Value, args []value.Value) (value.Value, *cerr.Throw) {
	var call *env.Environment
	if this != nil {
		call = defScope.BindThis(this, superProtoOf(this))
	} else {
		call = defScope.Child()
	}
	if err := vm.bindParams(call, proto.Params, args, defScope); err != nil {
		return nil, err
	}
	stack := env.NewStack().Push(env.Frame{NodeKind: "Call", File: vm.File, Env: call})
	return vm.run(proto.Body, call, stack)
}

func (vm *VM) bindParams(call *env.Environment, params []bytecode.ParamProto, args []value.Value, defScope *env.Environment) *cerr.Throw {
	for i, p := range params {
		if p.Variadic {
			rest := args[min(i, len(args)):]
			call.Declare(p.Name, value.NewArray(append([]value.Value{}, rest...)), false)
			return nil
		}
		var v value.Value
		switch {
		case i < len(args):
			v = args[i]
		case p.Default != nil:
			dv, err := vm.run(p.Default, call, env.NewStack())
			if err != nil {
				return err
			}
			v = dv
		default:
			v = value.NewNever()
		}
		if p.Name != "" {
			call.Declare(p.Name, v, false)
		}
	}
	return nil
}

// buildClass instantiates a *value.Class from a compiled ClassProto,
// exactly mirroring runtime/interpreter's evalClassDecl: methods become
// bound closures over classScope, static fields run their initializer
// once here, and the class declares itself into classScope for
// recursive static self-reference.
func (vm *VM) buildClass(cp *bytecode.ClassProto, defScope *env.Environment, stack *env.Stack) (*value.Class, *cerr.Throw) {
	var parent *value.Class
	if cp.Extends != "" {
		pv, err := defScope.Get(cp.Extends)
		if err != nil {
			return nil, stack.Attach(err)
		}
		p, ok := pv.(*value.Class)
		if !ok {
			return nil, stack.Attach(cerr.NewTypeError("%q no es una clase", cp.Extends))
		}
		parent = p
	}
	cls := value.NewClass(cp.Name, parent)
	var superProto *value.Prototype
	if parent != nil {
		superProto = parent.Instance
	}
	classScope := defScope.Child()
	for _, m := range cp.Methods {
		fn := vm.buildMethod(m.Fn, classScope, superProto)
		prop := value.Property{Value: fn, Public: m.Public, Static: m.Static}
		if m.Static {
			cls.Static.Properties[m.Name] = prop
		} else {
			cls.Instance.Properties[m.Name] = prop
		}
	}
	for _, f := range cp.Fields {
		v, err := vm.run(f.Init, classScope, stack)
		if err != nil {
			return nil, err
		}
		cls.Static.Properties[f.Name] = value.Property{Value: v, Public: f.Public, Static: true}
	}
	classScope.Declare(cp.Name, cls, true)
	return cls, nil
}

func (vm *VM) buildMethod(proto *bytecode.FunctionProto, defScope *env.Environment, superProto *value.Prototype) *value.Function {
	name := proto.Name
	if name == "" {
		name = "anónima"
	}
	invoke := func(this value.Value, args []value.Value) (value.Value, *cerr.Throw) {
		call := defScope.BindThis(this, superProto)
		if err := vm.bindParams(call, proto.Params, args, defScope); err != nil {
			return nil, err
		}
		stack := env.NewStack().Push(env.Frame{NodeKind: "Call", File: vm.File, Env: call})
		return vm.run(proto.Body, call, stack)
	}
	return value.NewFunction(name, invoke)
}
