// Package bytecode defines tinta's compiled instruction format: the
// opcode set, a Chunk (code + line table + constant pool), and a
// ChunkGroup that transparently rolls a new Chunk when the constant
// pool would overflow, per spec.md §3/§6.
package bytecode

import "github.com/tinta-lang/tinta/core/value"

// Op is a single-byte instruction tag.
type Op byte

const (
	OpConstant Op = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpFloorDiv
	OpMod
	OpPow
	OpAnd
	OpOr
	OpBitAnd
	OpBitOr
	OpShl
	OpShr
	OpGt
	OpGe
	OpLt
	OpLe
	OpEq
	OpNeq
	OpNegate
	OpNot
	OpAsBoolean
	OpAsString
	OpApproximate
	OpCall
	OpArgDecl
	OpVarDecl
	OpConstDecl
	OpGetVar
	OpSetVar
	OpGetMember
	OpSetMember
	OpDeleteMember
	OpConsoleOut
	OpPop
	OpCopy
	OpNewLocals
	OpRemoveLocals
	OpJumpIfFalse
	OpJump
	OpLoop
	OpReturn
	OpImport
	OpExport
	OpNewArray
	OpNewObject
	OpNewFunction
	OpNewClass
	OpGetThis
	OpGetSuper
	OpAwait
	OpMakeLazy
)

var opNames = map[Op]string{
	OpConstant: "Constant", OpAdd: "Add", OpSub: "Sub", OpMul: "Mul", OpDiv: "Div",
	OpFloorDiv: "FloorDiv", OpMod: "Mod", OpPow: "Pow", OpAnd: "And", OpOr: "Or",
	OpBitAnd: "BitAnd", OpBitOr: "BitOr", OpShl: "Shl", OpShr: "Shr",
	OpGt: "Gt", OpGe: "Ge", OpLt: "Lt", OpLe: "Le", OpEq: "Eq", OpNeq: "Neq",
	OpNegate: "Negate", OpNot: "Not", OpAsBoolean: "AsBoolean", OpAsString: "AsString",
	OpApproximate: "Approximate", OpCall: "Call", OpArgDecl: "ArgDecl",
	OpVarDecl: "VarDecl", OpConstDecl: "ConstDecl", OpGetVar: "GetVar", OpSetVar: "SetVar",
	OpGetMember: "GetMember", OpSetMember: "SetMember", OpDeleteMember: "DeleteMember",
	OpConsoleOut: "ConsoleOut", OpPop: "Pop", OpCopy: "Copy",
	OpNewLocals: "NewLocals", OpRemoveLocals: "RemoveLocals",
	OpJumpIfFalse: "JumpIfFalse", OpJump: "Jump", OpLoop: "Loop", OpReturn: "Return",
	OpImport: "Import", OpExport: "Export", OpNewArray: "NewArray", OpNewObject: "NewObject",
	OpNewFunction: "NewFunction", OpNewClass: "NewClass", OpGetThis: "GetThis",
	OpGetSuper: "GetSuper", OpAwait: "Await", OpMakeLazy: "MakeLazy",
}

func (o Op) String() string {
	if n, ok := opNames[o]; ok {
		return n
	}
	return "Unknown"
}

// maxConstants is the per-chunk constant pool size, per spec.md §3:
// "the constant pool is <=256 entries per chunk; overflow creates a
// new chunk in a ChunkGroup".
const maxConstants = 256

// Chunk is a contiguous bytecode buffer: code bytes, a parallel
// per-byte source line table, and its own constant pool.
type Chunk struct {
	Code      []byte
	Lines     []int
	Constants []value.Value
}

// Write appends one instruction byte at the given source line.
func (c *Chunk) Write(b byte, line int) {
	c.Code = append(c.Code, b)
	c.Lines = append(c.Lines, line)
}

// WriteU16 appends a big-endian u16 operand (jump/loop offsets).
func (c *Chunk) WriteU16(v uint16, line int) {
	c.Write(byte(v>>8), line)
	c.Write(byte(v), line)
}

// AddConstant appends v to the pool and returns its index, or -1 if
// the pool is full (the ChunkGroup must roll a new chunk first).
func (c *Chunk) AddConstant(v value.Value) int {
	if len(c.Constants) >= maxConstants {
		return -1
	}
	c.Constants = append(c.Constants, v)
	return len(c.Constants) - 1
}

// ChunkGroup is an ordered sequence of Chunks addressed by a single
// global byte offset, per spec.md §3: "byte offsets are global across
// chunks; read(i) dispatches to the chunk containing offset i".
type ChunkGroup struct {
	Chunks []*Chunk
	// cumulative[i] is the global offset at which Chunks[i] begins.
	cumulative []int

	// Functions and Classes hold compiled function/class descriptors
	// referenced by OpNewFunction/OpNewClass's u16 operand. They live
	// alongside the constant pool rather than inside it: a compiled
	// function body isn't a value.Value until the VM closes over a
	// runtime environment at the point the opcode executes.
	Functions []*FunctionProto
	Classes   []*ClassProto
}

// FunctionProto describes one compiled function body: its parameter
// list and its own nested ChunkGroup. Name and Async mirror
// ast.FuncDecl so the VM can build the right kind of value.Function
// (wrapping async calls in a promise.Executor.Spawn) without
// consulting the AST again.
type FunctionProto struct {
	Name   string
	Params []ParamProto
	Body   *ChunkGroup
	Async  bool
}

// ParamProto mirrors ast.Param for a compiled parameter: Default, when
// non-nil, is a tiny chunk the VM runs to produce the argument's value
// when the caller omits it.
type ParamProto struct {
	Name     string
	Variadic bool
	Default  *ChunkGroup
}

// MethodProto is one compiled class member: a name, its visibility/
// storage modifiers, and its compiled body.
type MethodProto struct {
	Name   string
	Public bool
	Static bool
	Fn     *FunctionProto
}

// FieldProto is one compiled static class field: Init runs once, at
// the point OpNewClass executes, and its result is stored directly
// rather than wrapped in a method closure.
type FieldProto struct {
	Name   string
	Public bool
	Init   *ChunkGroup
}

// ClassProto describes a compiled class: its name, its parent class's
// name (resolved against the defining scope when OpNewClass runs,
// empty if there is no `extiende` clause), its compiled methods, and
// its static fields. Instance field initializers are already folded
// into the constructor method by the compiler via ast.DesugarClass, so
// Fields only ever holds `est` members.
type ClassProto struct {
	Name    string
	Extends string
	Methods []MethodProto
	Fields  []FieldProto
}

// AddFunctionProto appends fp to the group's function table, returning
// its index for OpNewFunction's operand.
func (g *ChunkGroup) AddFunctionProto(fp *FunctionProto) int {
	g.Functions = append(g.Functions, fp)
	return len(g.Functions) - 1
}

// AddClassProto appends cp to the group's class table, returning its
// index for OpNewClass's operand.
func (g *ChunkGroup) AddClassProto(cp *ClassProto) int {
	g.Classes = append(g.Classes, cp)
	return len(g.Classes) - 1
}

// NewChunkGroup returns a group with a single empty starting chunk.
func NewChunkGroup() *ChunkGroup {
	g := &ChunkGroup{}
	g.rollChunk()
	return g
}

func (g *ChunkGroup) rollChunk() *Chunk {
	c := &Chunk{}
	base := 0
	if len(g.Chunks) > 0 {
		last := g.Chunks[len(g.Chunks)-1]
		base = g.cumulative[len(g.cumulative)-1] + len(last.Code)
	}
	g.Chunks = append(g.Chunks, c)
	g.cumulative = append(g.cumulative, base)
	return c
}

// RebuildOffsets recomputes the cumulative global-offset table from
// g.Chunks. Callers that construct a ChunkGroup by appending to Chunks
// directly (runtime/cache's on-disk decoder, which has no access to
// the private cumulative slice) must call this once after populating
// Chunks, before using Current/Len/locate-dependent reads.
func (g *ChunkGroup) RebuildOffsets() {
	g.cumulative = make([]int, len(g.Chunks))
	base := 0
	for i, c := range g.Chunks {
		g.cumulative[i] = base
		base += len(c.Code)
	}
}

// Current returns the chunk instructions are currently being written
// to (the last one).
func (g *ChunkGroup) Current() *Chunk { return g.Chunks[len(g.Chunks)-1] }

// Len returns the group's total global byte length.
func (g *ChunkGroup) Len() int {
	last := g.Current()
	return g.cumulative[len(g.cumulative)-1] + len(last.Code)
}

// AddConstant adds v to the current chunk's pool, transparently
// rolling a new chunk first if the current one is full.
func (g *ChunkGroup) AddConstant(v value.Value) int {
	idx := g.Current().AddConstant(v)
	if idx >= 0 {
		return idx
	}
	g.rollChunk()
	return g.Current().AddConstant(v)
}

// Write appends an instruction byte to the current chunk.
func (g *ChunkGroup) Write(b byte, line int) { g.Current().Write(b, line) }

// WriteU16 appends a big-endian u16 operand to the current chunk.
func (g *ChunkGroup) WriteU16(v uint16, line int) { g.Current().WriteU16(v, line) }

// locate finds which chunk holds the global offset i and i's local
// offset within it.
func (g *ChunkGroup) locate(i int) (*Chunk, int) {
	for idx, base := range g.cumulative {
		c := g.Chunks[idx]
		if i < base+len(c.Code) {
			return c, i - base
		}
	}
	last := len(g.Chunks) - 1
	return g.Chunks[last], i - g.cumulative[last]
}

// ReadByte returns the byte at global offset i.
func (g *ChunkGroup) ReadByte(i int) byte {
	c, local := g.locate(i)
	return c.Code[local]
}

// ReadU16 reads a big-endian u16 at global offset i.
func (g *ChunkGroup) ReadU16(i int) uint16 {
	return uint16(g.ReadByte(i))<<8 | uint16(g.ReadByte(i+1))
}

// ReadLine returns the source line recorded for global offset i.
func (g *ChunkGroup) ReadLine(i int) int {
	c, local := g.locate(i)
	return c.Lines[local]
}

// Constant returns the chunk-local constant at (global chunk base
// offset) matched by the chunk containing i, index idx within it.
func (g *ChunkGroup) Constant(i int, idx int) value.Value {
	c, _ := g.locate(i)
	return c.Constants[idx]
}

// PatchU16 overwrites the u16 operand at global offset i (used to
// back-patch a forward jump once its target is known).
func (g *ChunkGroup) PatchU16(i int, v uint16) {
	c, local := g.locate(i)
	c.Code[local] = byte(v >> 8)
	c.Code[local+1] = byte(v)
}
