package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tinta-lang/tinta/core/ast"
)

// ignorePos treats every ast.Position as equal, since these tests assert
// tree shape, not source offsets.
var ignorePos = cmp.Comparer(func(a, b ast.Position) bool { return true })

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, errs := Parse(src)
	if len(errs) != 0 {
		t.Fatalf("Parse(%q) errors: %v", src, errs)
	}
	return prog
}

func TestParseVarDecl(t *testing.T) {
	prog := mustParse(t, `def x = 5`)
	if len(prog.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.Statements))
	}
	decl, ok := prog.Statements[0].(*ast.VarDecl)
	if !ok {
		t.Fatalf("expected *ast.VarDecl, got %T", prog.Statements[0])
	}
	if decl.Name != "x" || decl.Constant {
		t.Errorf("got VarDecl{Name: %q, Constant: %v}", decl.Name, decl.Constant)
	}
}

func TestParseConstDecl(t *testing.T) {
	prog := mustParse(t, `const pi = 3.14`)
	decl := prog.Statements[0].(*ast.VarDecl)
	if !decl.Constant {
		t.Error("expected Constant=true for const declaration")
	}
}

func TestParseBinaryPrecedence(t *testing.T) {
	prog := mustParse(t, `def x = 1 + 2 * 3`)
	decl := prog.Statements[0].(*ast.VarDecl)
	bin, ok := decl.Value.(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("expected top-level *ast.BinaryExpr, got %T", decl.Value)
	}
	if bin.Op != "+" {
		t.Errorf("expected '+' at the top, got %q (precedence not respected)", bin.Op)
	}
	right, ok := bin.Right.(*ast.BinaryExpr)
	if !ok || right.Op != "*" {
		t.Errorf("expected '*' nested on the right, got %#v", bin.Right)
	}
}

func TestParsePowRightAssociative(t *testing.T) {
	prog := mustParse(t, `def x = 2 ** 3 ** 2`)
	decl := prog.Statements[0].(*ast.VarDecl)
	bin := decl.Value.(*ast.BinaryExpr)
	if _, ok := bin.Right.(*ast.BinaryExpr); !ok {
		t.Error("** should be right-associative: 2**3**2 should group as 2**(3**2)")
	}
}

func TestParseIfElse(t *testing.T) {
	prog := mustParse(t, `si x < 5 { ret 1 } ent { ret 2 }`)
	ifStmt, ok := prog.Statements[0].(*ast.IfStmt)
	if !ok {
		t.Fatalf("expected *ast.IfStmt, got %T", prog.Statements[0])
	}
	if ifStmt.Else == nil {
		t.Error("expected an else branch")
	}
}

func TestParseWhileLoop(t *testing.T) {
	prog := mustParse(t, `mien i < 10 { i = i + 1 }`)
	if _, ok := prog.Statements[0].(*ast.WhileStmt); !ok {
		t.Fatalf("expected *ast.WhileStmt, got %T", prog.Statements[0])
	}
}

func TestParseFunctionDecl(t *testing.T) {
	prog := mustParse(t, `fn add(a, b) { ret a + b }`)
	fn, ok := prog.Statements[0].(*ast.FuncDecl)
	if !ok {
		t.Fatalf("expected *ast.FuncDecl, got %T", prog.Statements[0])
	}
	if fn.Name != "add" || len(fn.Params) != 2 {
		t.Errorf("got FuncDecl{Name: %q, Params: %v}", fn.Name, fn.Params)
	}
}

func TestParseTryCatchFinally(t *testing.T) {
	prog := mustParse(t, `intenta { lanza 1 } captura (e) { ret e } finalmente { ret 0 }`)
	try, ok := prog.Statements[0].(*ast.TryStmt)
	if !ok {
		t.Fatalf("expected *ast.TryStmt, got %T", prog.Statements[0])
	}
	if try.Catch == nil || try.Catch.Param != "e" {
		t.Error("expected captura clause binding 'e'")
	}
	if try.Finally == nil {
		t.Error("expected finalmente clause")
	}
}

func TestParseStringInterpolation(t *testing.T) {
	prog := mustParse(t, `def x = "hola {nombre}!"`)
	decl := prog.Statements[0].(*ast.VarDecl)
	str, ok := decl.Value.(*ast.StringLiteral)
	if !ok {
		t.Fatalf("expected *ast.StringLiteral, got %T", decl.Value)
	}
	foundHole := false
	for _, part := range str.Parts {
		if part.Expr != nil {
			foundHole = true
			if id, ok := part.Expr.(*ast.Identifier); !ok || id.Name != "nombre" {
				t.Errorf("expected interpolation hole identifier 'nombre', got %#v", part.Expr)
			}
		}
	}
	if !foundHole {
		t.Error("expected at least one interpolation hole")
	}
}

func TestParseClassDecl(t *testing.T) {
	prog := mustParse(t, `clase Animal { fn hablar() { ret "..." } }`)
	cls, ok := prog.Statements[0].(*ast.ClassDecl)
	if !ok {
		t.Fatalf("expected *ast.ClassDecl, got %T", prog.Statements[0])
	}
	if cls.Name != "Animal" || len(cls.Members) != 1 {
		t.Errorf("got ClassDecl{Name: %q, Members: %d}", cls.Name, len(cls.Members))
	}
}

func TestParseMemberAndIndex(t *testing.T) {
	prog := mustParse(t, `def x = a.b[c]`)
	decl := prog.Statements[0].(*ast.VarDecl)
	index, ok := decl.Value.(*ast.MemberExpr)
	if !ok || !index.Computed {
		t.Fatalf("expected outermost computed MemberExpr, got %#v", decl.Value)
	}
	if _, ok := index.Object.(*ast.MemberExpr); !ok {
		t.Errorf("expected a.b nested inside the index, got %#v", index.Object)
	}
}

func TestParseConsoleCall(t *testing.T) {
	prog := mustParse(t, `csl::imprime("hola")`)
	stmt := prog.Statements[0].(*ast.ExprStmt)
	call, ok := stmt.Expr.(*ast.ConsoleExpr)
	if !ok || call.Name != "imprime" {
		t.Fatalf("expected ConsoleExpr{Name: imprime}, got %#v", stmt.Expr)
	}
}

// TestParseArithmeticShape asserts the whole expression tree shape for a
// mixed +/*/** expression, rather than peeling one node at a time like the
// precedence tests above: unary '-' binds tighter than '**', which binds
// tighter than '*', which binds tighter than '+'.
func TestParseArithmeticShape(t *testing.T) {
	prog := mustParse(t, `def x = 1 + -2 * 3 ** 2`)

	want := &ast.Program{
		Statements: []ast.Statement{
			&ast.VarDecl{
				Name: "x",
				Value: &ast.BinaryExpr{
					Op:   "+",
					Left: &ast.NumberLiteral{Raw: "1", Radix: 10},
					Right: &ast.BinaryExpr{
						Op:   "*",
						Left: &ast.UnaryExpr{Op: "-", Operand: &ast.NumberLiteral{Raw: "2", Radix: 10}},
						Right: &ast.BinaryExpr{
							Op:    "**",
							Left:  &ast.NumberLiteral{Raw: "3", Radix: 10},
							Right: &ast.NumberLiteral{Raw: "2", Radix: 10},
						},
					},
				},
			},
		},
	}

	if diff := cmp.Diff(want, prog, ignorePos); diff != "" {
		t.Errorf("parsed tree shape mismatch (-want +got):\n%s", diff)
	}
}
