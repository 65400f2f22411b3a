package lexer

import (
	"testing"

	"github.com/tinta-lang/tinta/core/token"
)

type tokenExpectation struct {
	typ     token.Type
	literal string
}

func assertTokens(t *testing.T, name, input string, expected []tokenExpectation) {
	t.Helper()
	l := New(input, nil)
	for i, exp := range expected {
		got := l.Next()
		if got.Type != exp.typ || got.Literal != exp.literal {
			t.Errorf("%s: token %d = %s(%q), want %s(%q)", name, i, got.Type, got.Literal, exp.typ, exp.literal)
		}
	}
}

func TestKeywords(t *testing.T) {
	assertTokens(t, "def", "def", []tokenExpectation{
		{token.DEF, "def"}, {token.EOF, ""},
	})
	assertTokens(t, "fn ret", "fn ret", []tokenExpectation{
		{token.FN, "fn"}, {token.RET, "ret"}, {token.EOF, ""},
	})
	assertTokens(t, "try/catch", "intenta captura finalmente", []tokenExpectation{
		{token.INTENTA, "intenta"}, {token.CAPTURA, "captura"}, {token.FINALMENTE, "finalmente"}, {token.EOF, ""},
	})
}

func TestIdentifierVsKeyword(t *testing.T) {
	assertTokens(t, "keyword-prefixed ident", "definicion", []tokenExpectation{
		{token.IDENT, "definicion"}, {token.EOF, ""},
	})
}

func TestOperators(t *testing.T) {
	assertTokens(t, "compound ops", "+= -= == != <= >= && ||", []tokenExpectation{
		{token.PLUS_EQ, "+="}, {token.MINUS_EQ, "-="}, {token.EQ, "=="}, {token.NEQ, "!="},
		{token.LE, "<="}, {token.GE, ">="}, {token.AND, "&&"}, {token.OR, "||"}, {token.EOF, ""},
	})
	assertTokens(t, "ellipsis vs dot", "a...b a.b", []tokenExpectation{
		{token.IDENT, "a"}, {token.ELLIPSIS, "..."}, {token.IDENT, "b"},
		{token.IDENT, "a"}, {token.DOT, "."}, {token.IDENT, "b"}, {token.EOF, ""},
	})
}

func TestNumberLiterals(t *testing.T) {
	assertTokens(t, "decimal int", "123", []tokenExpectation{
		{token.NUMBER, "123"}, {token.EOF, ""},
	})
	assertTokens(t, "decimal float", "3.14", []tokenExpectation{
		{token.NUMBER, "3.14"}, {token.EOF, ""},
	})
	assertTokens(t, "hex literal", "0xff", []tokenExpectation{
		{token.NUMBER, "0xff"}, {token.EOF, ""},
	})
	assertTokens(t, "binary literal", "0b1010", []tokenExpectation{
		{token.NUMBER, "0b1010"}, {token.EOF, ""},
	})
	assertTokens(t, "custom base literal", "0$16~ff", []tokenExpectation{
		{token.NUMBER, "0$16~ff"}, {token.EOF, ""},
	})
}

func TestComments(t *testing.T) {
	assertTokens(t, "line comment skipped", "def x # this is a comment\nconst y", []tokenExpectation{
		{token.DEF, "def"}, {token.IDENT, "x"}, {token.CONST, "const"}, {token.IDENT, "y"}, {token.EOF, ""},
	})
}

func TestSimpleString(t *testing.T) {
	assertTokens(t, "plain string", `"hello"`, []tokenExpectation{
		{token.STRING, "hello"}, {token.EOF, ""},
	})
}

func TestInterpolatedStringHoleBoundaries(t *testing.T) {
	l := New(`"a{x}b"`, nil)
	start := l.Next()
	if start.Type != token.STRING_START || start.Literal != "a" {
		t.Fatalf("expected STRING_START(%q), got %s(%q)", "a", start.Type, start.Literal)
	}
	l.EnterInterpolationHole()
	ident := l.Next()
	if ident.Type != token.IDENT || ident.Literal != "x" {
		t.Fatalf("expected IDENT(x), got %s(%q)", ident.Type, ident.Literal)
	}
	l.ExitInterpolationHole()
	end := l.Next()
	if end.Type != token.STRING_END || end.Literal != "b" {
		t.Fatalf("expected STRING_END(%q), got %s(%q)", "b", end.Type, end.Literal)
	}
}
