// Package compiler lowers a parsed AST into a bytecode.ChunkGroup for
// the stack VM, per spec.md §4.5's per-node compilation rules.
package compiler

import (
	"fmt"

	"github.com/tinta-lang/tinta/core/ast"
	"github.com/tinta-lang/tinta/core/bignum"
	"github.com/tinta-lang/tinta/core/bytecode"
	"github.com/tinta-lang/tinta/core/value"
)

// Compiler lowers one source file into a ChunkGroup. It carries no
// state across Compile calls; each call starts a fresh group.
type Compiler struct{}

func New() *Compiler { return &Compiler{} }

// Compile lowers prog into a ChunkGroup whose top level ends with
// OpReturn, per spec.md §4.5's "Program/top-level" rule.
func (c *Compiler) Compile(prog *ast.Program) (*bytecode.ChunkGroup, error) {
	fc := &funcCompiler{group: bytecode.NewChunkGroup()}
	for _, stmt := range prog.Statements {
		if err := fc.compileStmt(stmt); err != nil {
			return nil, err
		}
	}
	fc.emit(bytecode.OpReturn, prog.Pos.Line)
	return fc.group, nil
}

// funcCompiler compiles one function/program body into its own
// ChunkGroup, tracking loop-patch bookkeeping as it descends.
type funcCompiler struct {
	group *bytecode.ChunkGroup
	loops []*loopCtx
}

// loopCtx tracks break/continue patch sites for one enclosing loop.
// continueTarget is a known absolute offset to loop back to (for
// `mien`, whose condition re-check sits before the body); it is -1 for
// `haz`/`para`, where the continue point lies after code not yet
// emitted, so continues there are recorded in continueJumps and
// patched once that point is reached.
type loopCtx struct {
	continueTarget int
	continueJumps  []int
	breakJumps     []int
}

func (fc *funcCompiler) emit(op bytecode.Op, line int) {
	fc.group.Write(byte(op), line)
}

func (fc *funcCompiler) emitByte(b byte, line int) {
	fc.group.Write(b, line)
}

func (fc *funcCompiler) emitU16(op bytecode.Op, v uint16, line int) {
	fc.emit(op, line)
	fc.group.WriteU16(v, line)
}

// emitJump writes op followed by a placeholder u16 operand, returning
// its global offset so patchJumpHere can later fill in the target.
// Jump/JumpIfFalse/Loop operands are treated as absolute ChunkGroup
// offsets in this implementation (simpler than a relative encoding,
// and behaviorally identical), rather than the back-offset spec.md §6
// describes for Loop specifically.
func (fc *funcCompiler) emitJump(op bytecode.Op, line int) int {
	fc.emit(op, line)
	pos := fc.group.Len()
	fc.group.WriteU16(0, line)
	return pos
}

func (fc *funcCompiler) patchJumpHere(pos int) {
	fc.group.PatchU16(pos, uint16(fc.group.Len()))
}

func (fc *funcCompiler) emitNameOp(op bytecode.Op, name string, line int) {
	idx := fc.group.AddConstant(value.NewString(name))
	fc.emit(op, line)
	fc.emitByte(byte(idx), line)
}

func (fc *funcCompiler) emitConstant(v value.Value, line int) {
	idx := fc.group.AddConstant(v)
	fc.emit(bytecode.OpConstant, line)
	fc.emitByte(byte(idx), line)
}

func (fc *funcCompiler) compileStmt(stmt ast.Statement) error {
	switch s := stmt.(type) {
	case *ast.Block:
		return fc.compileBlock(s)
	case *ast.VarDecl:
		if err := fc.compileExpr(s.Value); err != nil {
			return err
		}
		op := bytecode.OpVarDecl
		if s.Constant {
			op = bytecode.OpConstDecl
		}
		fc.emitNameOp(op, s.Name, s.Pos.Line)
		return nil
	case *ast.ExprStmt:
		if err := fc.compileExpr(s.Expr); err != nil {
			return err
		}
		fc.emit(bytecode.OpPop, s.Pos.Line)
		return nil
	case *ast.ReturnStmt:
		if s.Value != nil {
			if err := fc.compileExpr(s.Value); err != nil {
				return err
			}
		} else {
			fc.emitConstant(value.NewNever(), s.Pos.Line)
		}
		fc.emit(bytecode.OpReturn, s.Pos.Line)
		return nil
	case *ast.ThrowStmt:
		// There is no throw opcode: `lanza` is not compiled, and a program
		// containing it fails to compile with this error.
		return fmt.Errorf("compiler: lanza requires runtime support, not representable as a single opcode here")
	case *ast.BreakStmt:
		return fc.compileBreak(s)
	case *ast.ContinueStmt:
		return fc.compileContinue(s)
	case *ast.IfStmt:
		return fc.compileIf(s)
	case *ast.WhileStmt:
		return fc.compileWhile(s)
	case *ast.DoWhileStmt:
		return fc.compileDoWhile(s)
	case *ast.ForStmt:
		return fc.compileFor(s)
	case *ast.TryStmt:
		return fc.compileTry(s)
	case *ast.FuncDecl:
		idx, err := fc.compileFunctionProto(s)
		if err != nil {
			return err
		}
		fc.emitU16(bytecode.OpNewFunction, uint16(idx), s.Pos.Line)
		fc.emitNameOp(bytecode.OpConstDecl, s.Name, s.Pos.Line)
		return nil
	case *ast.ClassDecl:
		idx, err := fc.compileClassProto(s)
		if err != nil {
			return err
		}
		fc.emitU16(bytecode.OpNewClass, uint16(idx), s.Pos.Line)
		fc.emitNameOp(bytecode.OpConstDecl, s.Name, s.Pos.Line)
		return nil
	case *ast.ImportStmt:
		alias := s.Alias
		if alias == "" {
			alias = s.Path
		}
		pathIdx := fc.group.AddConstant(value.NewString(s.Path))
		fc.emit(bytecode.OpImport, s.Pos.Line)
		fc.emitByte(byte(pathIdx), s.Pos.Line)
		fc.emitNameOp(bytecode.OpConstDecl, alias, s.Pos.Line)
		return nil
	case *ast.ExportStmt:
		if err := fc.compileStmt(s.Decl); err != nil {
			return err
		}
		name := declName(s.Decl)
		fc.emitNameOp(bytecode.OpExport, name, s.Pos.Line)
		return nil
	default:
		return fmt.Errorf("compiler: unsupported statement %T", stmt)
	}
}

func declName(s ast.Statement) string {
	switch d := s.(type) {
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

func (fc *funcCompiler) compileBreak(s *ast.BreakStmt) error {
	if len(fc.loops) == 0 {
		return fmt.Errorf("compiler: rom outside of a loop body")
	}
	ctx := fc.loops[len(fc.loops)-1]
	pos := fc.emitJump(bytecode.OpJump, s.Pos.Line)
	ctx.breakJumps = append(ctx.breakJumps, pos)
	return nil
}

func (fc *funcCompiler) compileContinue(s *ast.ContinueStmt) error {
	if len(fc.loops) == 0 {
		return fmt.Errorf("compiler: cont outside of a loop body")
	}
	ctx := fc.loops[len(fc.loops)-1]
	if ctx.continueTarget >= 0 {
		fc.emitU16(bytecode.OpLoop, uint16(ctx.continueTarget), s.Pos.Line)
		return nil
	}
	pos := fc.emitJump(bytecode.OpJump, s.Pos.Line)
	ctx.continueJumps = append(ctx.continueJumps, pos)
	return nil
}

func (fc *funcCompiler) compileBlock(b *ast.Block) error {
	fc.emit(bytecode.OpNewLocals, b.Pos.Line)
	for _, stmt := range b.Statements {
		if err := fc.compileStmt(stmt); err != nil {
			return err
		}
	}
	fc.emit(bytecode.OpRemoveLocals, b.Pos.Line)
	return nil
}

func (fc *funcCompiler) compileIf(s *ast.IfStmt) error {
	if err := fc.compileExpr(s.Cond); err != nil {
		return err
	}
	elseJump := fc.emitJump(bytecode.OpJumpIfFalse, s.Pos.Line)
	fc.emit(bytecode.OpPop, s.Pos.Line)
	if err := fc.compileBlock(s.Then); err != nil {
		return err
	}
	endJump := fc.emitJump(bytecode.OpJump, s.Pos.Line)
	fc.patchJumpHere(elseJump)
	fc.emit(bytecode.OpPop, s.Pos.Line)
	if s.Else != nil {
		if err := fc.compileStmt(s.Else); err != nil {
			return err
		}
	}
	fc.patchJumpHere(endJump)
	return nil
}

func (fc *funcCompiler) compileWhile(s *ast.WhileStmt) error {
	start := fc.group.Len()
	ctx := &loopCtx{continueTarget: start}
	fc.loops = append(fc.loops, ctx)
	defer func() { fc.loops = fc.loops[:len(fc.loops)-1] }()

	if err := fc.compileExpr(s.Cond); err != nil {
		return err
	}
	endJump := fc.emitJump(bytecode.OpJumpIfFalse, s.Pos.Line)
	fc.emit(bytecode.OpPop, s.Pos.Line)
	if err := fc.compileBlock(s.Body); err != nil {
		return err
	}
	fc.emitU16(bytecode.OpLoop, uint16(start), s.Pos.Line)
	fc.patchJumpHere(endJump)
	fc.emit(bytecode.OpPop, s.Pos.Line)
	for _, p := range ctx.breakJumps {
		fc.patchJumpHere(p)
	}
	return nil
}

func (fc *funcCompiler) compileDoWhile(s *ast.DoWhileStmt) error {
	start := fc.group.Len()
	ctx := &loopCtx{continueTarget: -1}
	fc.loops = append(fc.loops, ctx)
	defer func() { fc.loops = fc.loops[:len(fc.loops)-1] }()

	if err := fc.compileBlock(s.Body); err != nil {
		return err
	}
	for _, p := range ctx.continueJumps {
		fc.patchJumpHere(p)
	}
	if err := fc.compileExpr(s.Cond); err != nil {
		return err
	}
	endJump := fc.emitJump(bytecode.OpJumpIfFalse, s.Pos.Line)
	fc.emit(bytecode.OpPop, s.Pos.Line)
	fc.emitU16(bytecode.OpLoop, uint16(start), s.Pos.Line)
	fc.patchJumpHere(endJump)
	fc.emit(bytecode.OpPop, s.Pos.Line)
	for _, p := range ctx.breakJumps {
		fc.patchJumpHere(p)
	}
	return nil
}

func (fc *funcCompiler) compileFor(s *ast.ForStmt) error {
	fc.emit(bytecode.OpNewLocals, s.Pos.Line)
	if s.Init != nil {
		if err := fc.compileStmt(s.Init); err != nil {
			return err
		}
	}
	start := fc.group.Len()
	ctx := &loopCtx{continueTarget: -1}
	fc.loops = append(fc.loops, ctx)
	defer func() { fc.loops = fc.loops[:len(fc.loops)-1] }()

	hasCond := s.Cond != nil
	var endJump int
	if hasCond {
		if err := fc.compileExpr(s.Cond); err != nil {
			return err
		}
		endJump = fc.emitJump(bytecode.OpJumpIfFalse, s.Pos.Line)
		fc.emit(bytecode.OpPop, s.Pos.Line)
	}
	if err := fc.compileBlock(s.Body); err != nil {
		return err
	}
	for _, p := range ctx.continueJumps {
		fc.patchJumpHere(p)
	}
	if s.Post != nil {
		if err := fc.compileStmt(s.Post); err != nil {
			return err
		}
	}
	fc.emitU16(bytecode.OpLoop, uint16(start), s.Pos.Line)
	if hasCond {
		fc.patchJumpHere(endJump)
		fc.emit(bytecode.OpPop, s.Pos.Line)
	}
	for _, p := range ctx.breakJumps {
		fc.patchJumpHere(p)
	}
	fc.emit(bytecode.OpRemoveLocals, s.Pos.Line)
	return nil
}

// compileTry is intentionally unsupported by the bytecode path: per
// spec.md §9 ("An implementer may omit one [path], but the chosen path
// must implement every §4 rule"), try/catch/finally and `lanza` are
// implemented in full only by the tree interpreter; the VM reports a
// compile-time error rather than silently dropping catch semantics.
func (fc *funcCompiler) compileTry(s *ast.TryStmt) error {
	return fmt.Errorf("compiler: intenta/captura is not representable as a single-opcode sequence; use the tree interpreter for code that throws")
}

func (fc *funcCompiler) compileExpr(expr ast.Expression) error {
	switch x := expr.(type) {
	case *ast.NumberLiteral:
		n, err := bignum.ParseLiteral(x.Raw)
		if err != nil {
			return fmt.Errorf("compiler: invalid number literal %q: %w", x.Raw, err)
		}
		fc.emitConstant(value.NewNumber(n), x.Pos.Line)
		return nil
	case *ast.StringLiteral:
		return fc.compileStringLiteral(x)
	case *ast.BooleanLiteral:
		fc.emitConstant(value.NewBoolean(x.Value), x.Pos.Line)
		return nil
	case *ast.NullLiteral:
		fc.emitConstant(value.NewNull(), x.Pos.Line)
		return nil
	case *ast.Identifier:
		fc.emitNameOp(bytecode.OpGetVar, x.Name, x.Pos.Line)
		return nil
	case *ast.ThisExpr:
		fc.emit(bytecode.OpGetThis, x.Pos.Line)
		return nil
	case *ast.SuperExpr:
		fc.emit(bytecode.OpGetSuper, x.Pos.Line)
		return nil
	case *ast.ArrayLiteral:
		for _, el := range x.Elements {
			if err := fc.compileExpr(el); err != nil {
				return err
			}
		}
		fc.emit(bytecode.OpNewArray, x.Pos.Line)
		fc.emitByte(byte(len(x.Elements)), x.Pos.Line)
		return nil
	case *ast.ObjectLiteral:
		for _, p := range x.Props {
			fc.emitConstant(value.NewString(p.Key), x.Pos.Line)
			if err := fc.compileExpr(p.Value); err != nil {
				return err
			}
		}
		fc.emit(bytecode.OpNewObject, x.Pos.Line)
		fc.emitByte(byte(len(x.Props)), x.Pos.Line)
		return nil
	case *ast.BinaryExpr:
		return fc.compileBinary(x)
	case *ast.UnaryExpr:
		if err := fc.compileExpr(x.Operand); err != nil {
			return err
		}
		return fc.emitUnary(x.Op, x.Pos.Line)
	case *ast.AssignExpr:
		return fc.compileAssign(x)
	case *ast.CallExpr:
		return fc.compileCall(x)
	case *ast.MemberExpr:
		return fc.compileMemberGet(x)
	case *ast.ConsoleExpr:
		for _, a := range x.Args {
			if err := fc.compileExpr(a); err != nil {
				return err
			}
		}
		idx := fc.group.AddConstant(value.NewString(x.Name))
		fc.emit(bytecode.OpConsoleOut, x.Pos.Line)
		fc.emitByte(byte(idx), x.Pos.Line)
		fc.emitByte(byte(len(x.Args)), x.Pos.Line)
		return nil
	case *ast.AwaitExpr:
		if err := fc.compileExpr(x.Value); err != nil {
			return err
		}
		fc.emit(bytecode.OpAwait, x.Pos.Line)
		return nil
	case *ast.LazyExpr:
		idx, err := fc.compileThunkProto(x.Value, x.Pos)
		if err != nil {
			return err
		}
		fc.emitU16(bytecode.OpNewFunction, uint16(idx), x.Pos.Line)
		fc.emit(bytecode.OpMakeLazy, x.Pos.Line)
		return nil
	case *ast.DeleteExpr:
		m, ok := x.Target.(*ast.MemberExpr)
		if !ok {
			return fmt.Errorf("compiler: borra requires an object property")
		}
		if err := fc.compileExpr(m.Object); err != nil {
			return err
		}
		key, err := fc.memberKeyConst(m)
		if err != nil {
			return err
		}
		fc.emit(bytecode.OpDeleteMember, x.Pos.Line)
		fc.emitByte(byte(key), x.Pos.Line)
		return nil
	case *ast.FuncDecl:
		idx, err := fc.compileFunctionProto(x)
		if err != nil {
			return err
		}
		fc.emitU16(bytecode.OpNewFunction, uint16(idx), x.Pos.Line)
		return nil
	case *ast.ClassDecl:
		idx, err := fc.compileClassProto(x)
		if err != nil {
			return err
		}
		fc.emitU16(bytecode.OpNewClass, uint16(idx), x.Pos.Line)
		return nil
	default:
		return fmt.Errorf("compiler: unsupported expression %T", expr)
	}
}

// compileStringLiteral follows spec.md §4.5's rule literally: push an
// empty string constant, then OpAdd in each segment (literal text or
// an evaluated interpolation hole).
func (fc *funcCompiler) compileStringLiteral(s *ast.StringLiteral) error {
	fc.emitConstant(value.NewString(""), s.Pos.Line)
	for _, p := range s.Parts {
		if p.Expr == nil {
			fc.emitConstant(value.NewString(p.Text), s.Pos.Line)
		} else {
			if err := fc.compileExpr(p.Expr); err != nil {
				return err
			}
			fc.emit(bytecode.OpAsString, s.Pos.Line)
		}
		fc.emit(bytecode.OpAdd, s.Pos.Line)
	}
	return nil
}

var binaryOps = map[string]bytecode.Op{
	"+": bytecode.OpAdd, "-": bytecode.OpSub, "*": bytecode.OpMul, "/": bytecode.OpDiv,
	"//": bytecode.OpFloorDiv, "%": bytecode.OpMod, "**": bytecode.OpPow,
	"==": bytecode.OpEq, "!=": bytecode.OpNeq, "<": bytecode.OpLt, "<=": bytecode.OpLe,
	">": bytecode.OpGt, ">=": bytecode.OpGe,
	"&": bytecode.OpBitAnd, "|": bytecode.OpBitOr, "<<": bytecode.OpShl, ">>": bytecode.OpShr,
}

func (fc *funcCompiler) compileBinary(x *ast.BinaryExpr) error {
	if x.Op == "&&" || x.Op == "||" {
		return fc.compileShortCircuit(x)
	}
	op, ok := binaryOps[x.Op]
	if !ok {
		return fmt.Errorf("compiler: operator %q has no opcode", x.Op)
	}
	if err := fc.compileExpr(x.Left); err != nil {
		return err
	}
	if err := fc.compileExpr(x.Right); err != nil {
		return err
	}
	fc.emit(op, x.Pos.Line)
	return nil
}

// compileShortCircuit lowers `&&`/`||` using JumpIfFalse's documented
// non-popping behavior (spec.md §4.5), so the left operand's value
// survives on the stack as the short-circuit result.
func (fc *funcCompiler) compileShortCircuit(x *ast.BinaryExpr) error {
	if err := fc.compileExpr(x.Left); err != nil {
		return err
	}
	if x.Op == "&&" {
		end := fc.emitJump(bytecode.OpJumpIfFalse, x.Pos.Line)
		fc.emit(bytecode.OpPop, x.Pos.Line)
		if err := fc.compileExpr(x.Right); err != nil {
			return err
		}
		fc.patchJumpHere(end)
		return nil
	}
	toRight := fc.emitJump(bytecode.OpJumpIfFalse, x.Pos.Line)
	end := fc.emitJump(bytecode.OpJump, x.Pos.Line)
	fc.patchJumpHere(toRight)
	fc.emit(bytecode.OpPop, x.Pos.Line)
	if err := fc.compileExpr(x.Right); err != nil {
		return err
	}
	fc.patchJumpHere(end)
	return nil
}

func (fc *funcCompiler) emitUnary(op string, line int) error {
	switch op {
	case "-":
		fc.emit(bytecode.OpNegate, line)
	case "!":
		fc.emit(bytecode.OpNot, line)
	case "~":
		fc.emit(bytecode.OpApproximate, line)
	case "?":
		fc.emit(bytecode.OpAsBoolean, line)
	case "+", "&":
		// identity; nothing to emit.
	default:
		return fmt.Errorf("compiler: unary operator %q has no opcode", op)
	}
	return nil
}

func (fc *funcCompiler) memberKeyConst(m *ast.MemberExpr) (int, error) {
	if !m.Computed {
		name := m.Property.(*ast.Identifier).Name
		return fc.group.AddConstant(value.NewString(name)), nil
	}
	// Computed member keys (`obj[expr]`) are resolved at compile time
	// only for literal strings/numbers; anything else is a compile error.
	// This mirrors the VM's locals model (name-keyed,
	// not slot-indexed): GetMember/SetMember address properties by a
	// constant-pool name, so a dynamic key has nowhere to go without a
	// dedicated "computed member" opcode.
	switch p := m.Property.(type) {
	case *ast.StringLiteral:
		if len(p.Parts) == 1 && p.Parts[0].Expr == nil {
			return fc.group.AddConstant(value.NewString(p.Parts[0].Text)), nil
		}
	case *ast.NumberLiteral:
		return fc.group.AddConstant(value.NewString(p.Raw)), nil
	}
	return 0, fmt.Errorf("compiler: computed member access requires the tree interpreter")
}

func (fc *funcCompiler) compileMemberGet(m *ast.MemberExpr) error {
	if err := fc.compileExpr(m.Object); err != nil {
		return err
	}
	key, err := fc.memberKeyConst(m)
	if err != nil {
		return err
	}
	fc.emit(bytecode.OpGetMember, m.Pos.Line)
	fc.emitByte(byte(key), m.Pos.Line)
	return nil
}

func (fc *funcCompiler) compileAssign(x *ast.AssignExpr) error {
	switch t := x.Target.(type) {
	case *ast.Identifier:
		if x.Op != "=" {
			fc.emitNameOp(bytecode.OpGetVar, t.Name, x.Pos.Line)
			if err := fc.compileExpr(x.Value); err != nil {
				return err
			}
			op, ok := binaryOps[x.Op]
			if !ok {
				return fmt.Errorf("compiler: compound operator %q has no opcode", x.Op)
			}
			fc.emit(op, x.Pos.Line)
		} else {
			if err := fc.compileExpr(x.Value); err != nil {
				return err
			}
		}
		fc.emitNameOp(bytecode.OpSetVar, t.Name, x.Pos.Line)
		return nil
	case *ast.MemberExpr:
		if err := fc.compileExpr(t.Object); err != nil {
			return err
		}
		key, err := fc.memberKeyConst(t)
		if err != nil {
			return err
		}
		if x.Op != "=" {
			fc.emit(bytecode.OpCopy, x.Pos.Line)
			fc.emit(bytecode.OpGetMember, x.Pos.Line)
			fc.emitByte(byte(key), x.Pos.Line)
			if err := fc.compileExpr(x.Value); err != nil {
				return err
			}
			op, ok := binaryOps[x.Op]
			if !ok {
				return fmt.Errorf("compiler: compound operator %q has no opcode", x.Op)
			}
			fc.emit(op, x.Pos.Line)
		} else {
			if err := fc.compileExpr(x.Value); err != nil {
				return err
			}
		}
		fc.emit(bytecode.OpSetMember, x.Pos.Line)
		fc.emitByte(byte(key), x.Pos.Line)
		return nil
	default:
		return fmt.Errorf("compiler: invalid assignment target %T", x.Target)
	}
}

func (fc *funcCompiler) compileCall(x *ast.CallExpr) error {
	if err := fc.compileExpr(x.Callee); err != nil {
		return err
	}
	for _, a := range x.Args {
		if err := fc.compileExpr(a); err != nil {
			return err
		}
	}
	fc.emit(bytecode.OpCall, x.Pos.Line)
	fc.emitByte(byte(len(x.Args)), x.Pos.Line)
	return nil
}

// compileFunctionProto compiles fd's body into its own nested
// ChunkGroup and registers a FunctionProto, returning its index.
func (fc *funcCompiler) compileFunctionProto(fd *ast.FuncDecl) (int, error) {
	inner := &funcCompiler{group: bytecode.NewChunkGroup()}
	for _, stmt := range fd.Body.Statements {
		if err := inner.compileStmt(stmt); err != nil {
			return 0, err
		}
	}
	inner.emitConstant(value.NewNever(), fd.Pos.Line)
	inner.emit(bytecode.OpReturn, fd.Pos.Line)

	proto := &bytecode.FunctionProto{Name: fd.Name, Async: fd.Async, Body: inner.group}
	for _, p := range fd.Params {
		pp := bytecode.ParamProto{Name: p.Name, Variadic: p.Variadic}
		if p.Default != nil {
			dg := &funcCompiler{group: bytecode.NewChunkGroup()}
			if err := dg.compileExpr(p.Default); err != nil {
				return 0, err
			}
			dg.emit(bytecode.OpReturn, fd.Pos.Line)
			pp.Default = dg.group
		}
		proto.Params = append(proto.Params, pp)
	}
	return fc.group.AddFunctionProto(proto), nil
}

// compileThunkProto compiles a `vago expr` body as a zero-argument
// function, for OpMakeLazy to wrap.
func (fc *funcCompiler) compileThunkProto(expr ast.Expression, pos ast.Position) (int, error) {
	inner := &funcCompiler{group: bytecode.NewChunkGroup()}
	if err := inner.compileExpr(expr); err != nil {
		return 0, err
	}
	inner.emit(bytecode.OpReturn, pos.Line)
	proto := &bytecode.FunctionProto{Name: "perezoso", Body: inner.group}
	return fc.group.AddFunctionProto(proto), nil
}

func (fc *funcCompiler) compileClassProto(cd *ast.ClassDecl) (int, error) {
	desugared := ast.DesugarClass(cd)
	proto := &bytecode.ClassProto{Name: desugared.Name, Extends: desugared.Extends}
	for _, m := range desugared.Members {
		if fd, ok := m.Value.(*ast.FuncDecl); ok {
			fnIdx, err := fc.compileFunctionProto(fd)
			if err != nil {
				return 0, err
			}
			proto.Methods = append(proto.Methods, bytecode.MethodProto{
				Name: m.Name, Public: m.Public, Static: m.Static,
				Fn: fc.group.Functions[fnIdx],
			})
			continue
		}
		// A static field: its initializer runs once, when OpNewClass
		// executes, rather than on every access.
		init := &funcCompiler{group: bytecode.NewChunkGroup()}
		if err := init.compileExpr(m.Value); err != nil {
			return 0, err
		}
		init.emit(bytecode.OpReturn, m.Pos.Line)
		proto.Fields = append(proto.Fields, bytecode.FieldProto{
			Name: m.Name, Public: m.Public, Init: init.group,
		})
	}
	return fc.group.AddClassProto(proto), nil
}
