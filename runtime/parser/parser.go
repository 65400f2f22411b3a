// Package parser implements a recursive-descent, Pratt-style expression
// parser that turns a tinta token stream into the typed syntax tree
// defined by core/ast.
package parser

import (
	"fmt"

	"github.com/tinta-lang/tinta/core/ast"
	"github.com/tinta-lang/tinta/core/token"
	"github.com/tinta-lang/tinta/runtime/lexer"
)

// precedence levels, lowest to highest.
const (
	_ int = iota
	precLowest
	precAssign // =, +=, -=, *=, /=
	precOr     // ||
	precAnd    // &&
	precEquals // == !=
	precCmp    // < > <= >=
	precAdd    // + -
	precMul    // * / %
	precPow    // **
	precUnary  // ! - (prefix)
	precCall   // f(), a.b, a[b]
)

var precedences = map[token.Type]int{
	token.ASSIGN:   precAssign,
	token.PLUS_EQ:  precAssign,
	token.MINUS_EQ: precAssign,
	token.STAR_EQ:  precAssign,
	token.SLASH_EQ: precAssign,
	token.OR:       precOr,
	token.AND:      precAnd,
	token.EQ:       precEquals,
	token.NEQ:      precEquals,
	token.LT:       precCmp,
	token.GT:       precCmp,
	token.LE:       precCmp,
	token.GE:       precCmp,
	token.PLUS:     precAdd,
	token.MINUS:    precAdd,
	token.STAR:     precMul,
	token.SLASH:    precMul,
	token.PERCENT:  precMul,
	token.POW:      precPow,
	token.LPAREN:   precCall,
	token.DOT:      precCall,
	token.LBRACKET: precCall,
}

// Parser consumes a token stream from a Lexer and builds an AST.
type Parser struct {
	lex    *lexer.Lexer
	brack  BracketTracker
	errors []*ParseError

	cur  token.Token
	peek token.Token
}

// New returns a Parser reading tokens from lex.
func New(lex *lexer.Lexer) *Parser {
	p := &Parser{lex: lex}
	p.next()
	p.next()
	return p
}

// Parse lexes and parses src into a Program, returning any errors
// encountered. Parsing continues past errors on a best-effort basis so
// multiple diagnostics can surface from a single pass.
func Parse(src string) (*ast.Program, []*ParseError) {
	p := New(lexer.New(src, nil))
	prog := p.parseProgram()
	return prog, p.errors
}

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.lex.Next()
}

func (p *Parser) curIs(t token.Type) bool  { return p.cur.Type == t }
func (p *Parser) peekIs(t token.Type) bool { return p.peek.Type == t }

func (p *Parser) pos() ast.Position {
	return ast.Position{Line: p.cur.Pos.Line, Column: p.cur.Pos.Column}
}

func (p *Parser) errorf(format string, args ...any) {
	pe := &ParseError{Message: fmt.Sprintf(format, args...), Token: p.cur}
	if p.cur.Type == token.IDENT {
		if s := suggestKeyword(p.cur.Literal); s != "" {
			pe.Suggestions = []string{s}
		}
	}
	p.errors = append(p.errors, pe)
}

// expect advances past the current token if it matches t, otherwise
// records an error and does not advance.
func (p *Parser) expect(t token.Type) bool {
	if p.curIs(t) {
		p.next()
		return true
	}
	p.errorf("se esperaba %s, se encontró %s", t, p.cur.Type)
	return false
}

func (p *Parser) parseProgram() *ast.Program {
	prog := &ast.Program{Pos: p.pos()}
	for !p.curIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
		} else {
			p.next() // avoid an infinite loop on unrecoverable tokens
		}
	}
	return prog
}

func (p *Parser) parseBlock() *ast.Block {
	pos := p.pos()
	if !p.expect(token.LBRACE) {
		return &ast.Block{Pos: pos}
	}
	b := &ast.Block{Pos: pos}
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			b.Statements = append(b.Statements, stmt)
		} else {
			p.next()
		}
	}
	p.expect(token.RBRACE)
	return b
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.cur.Type {
	case token.DEF, token.CONST:
		return p.parseVarDecl()
	case token.FN:
		return p.parseFuncDecl(false)
	case token.ASINC:
		p.next()
		if !p.expect(token.FN) {
			return nil
		}
		return p.parseFuncDeclBody(true)
	case token.RET:
		return p.parseReturn()
	case token.LANZA:
		return p.parseThrow()
	case token.ROM:
		pos := p.pos()
		p.next()
		return &ast.BreakStmt{Pos: pos}
	case token.CONT:
		pos := p.pos()
		p.next()
		return &ast.ContinueStmt{Pos: pos}
	case token.SI:
		return p.parseIf()
	case token.MIEN:
		return p.parseWhile()
	case token.HAZ:
		return p.parseDoWhile()
	case token.PARA:
		return p.parseFor()
	case token.INTENTA:
		return p.parseTry()
	case token.CLASE:
		return p.parseClass()
	case token.IMPORTA:
		return p.parseImport()
	case token.EXPORTA:
		return p.parseExport()
	case token.LBRACE:
		return p.parseBlock()
	case token.SEMI:
		p.next()
		return nil
	default:
		return p.parseExprStmt()
	}
}

func (p *Parser) parseVarDecl() ast.Statement {
	pos := p.pos()
	constant := p.curIs(token.CONST)
	p.next()
	if !p.curIs(token.IDENT) {
		p.errorf("se esperaba un identificador tras %s", map[bool]string{true: "const", false: "def"}[constant])
		return nil
	}
	name := p.cur.Literal
	p.next()
	if !p.expect(token.ASSIGN) {
		return nil
	}
	value := p.parseExpression(precLowest)
	return &ast.VarDecl{Name: name, Value: value, Constant: constant, Pos: pos}
}

func (p *Parser) parseReturn() ast.Statement {
	pos := p.pos()
	p.next()
	if p.curIs(token.SEMI) || p.curIs(token.RBRACE) || p.curIs(token.EOF) {
		return &ast.ReturnStmt{Pos: pos}
	}
	return &ast.ReturnStmt{Value: p.parseExpression(precLowest), Pos: pos}
}

func (p *Parser) parseThrow() ast.Statement {
	pos := p.pos()
	p.next()
	return &ast.ThrowStmt{Value: p.parseExpression(precLowest), Pos: pos}
}

func (p *Parser) parseIf() ast.Statement {
	pos := p.pos()
	p.next()
	cond := p.parseExpression(precLowest)
	then := p.parseBlock()
	stmt := &ast.IfStmt{Cond: cond, Then: then, Pos: pos}
	if p.curIs(token.ENT) {
		p.next()
		if p.curIs(token.SI) {
			stmt.Else = p.parseIf()
		} else {
			stmt.Else = p.parseBlock()
		}
	}
	return stmt
}

func (p *Parser) parseWhile() ast.Statement {
	pos := p.pos()
	p.next()
	cond := p.parseExpression(precLowest)
	body := p.parseBlock()
	return &ast.WhileStmt{Cond: cond, Body: body, Pos: pos}
}

func (p *Parser) parseDoWhile() ast.Statement {
	pos := p.pos()
	p.next()
	body := p.parseBlock()
	if !p.expect(token.MIEN) {
		return &ast.DoWhileStmt{Body: body, Pos: pos}
	}
	cond := p.parseExpression(precLowest)
	return &ast.DoWhileStmt{Body: body, Cond: cond, Pos: pos}
}

func (p *Parser) parseFor() ast.Statement {
	pos := p.pos()
	p.next()
	stmt := &ast.ForStmt{Pos: pos}
	if !p.curIs(token.SEMI) {
		stmt.Init = p.parseStatement()
	}
	p.expect(token.SEMI)
	if !p.curIs(token.SEMI) {
		stmt.Cond = p.parseExpression(precLowest)
	}
	p.expect(token.SEMI)
	if !p.curIs(token.LBRACE) {
		stmt.Post = p.parseStatement()
	}
	stmt.Body = p.parseBlock()
	return stmt
}

func (p *Parser) parseTry() ast.Statement {
	pos := p.pos()
	p.next()
	stmt := &ast.TryStmt{Try: p.parseBlock(), Pos: pos}
	if p.curIs(token.CAPTURA) {
		p.next()
		cc := &ast.CatchClause{Pos: p.pos()}
		if p.curIs(token.LPAREN) {
			p.next()
			if p.curIs(token.IDENT) {
				cc.Param = p.cur.Literal
				p.next()
			}
			p.expect(token.RPAREN)
		} else if p.curIs(token.IDENT) {
			cc.Param = p.cur.Literal
			p.next()
		}
		cc.Body = p.parseBlock()
		stmt.Catch = cc
	}
	if p.curIs(token.FINALMENTE) {
		p.next()
		stmt.Finally = p.parseBlock()
	}
	return stmt
}

func (p *Parser) parseParamList() []ast.Param {
	var params []ast.Param
	p.expect(token.LPAREN)
	for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
		param := ast.Param{}
		if p.curIs(token.ELLIPSIS) {
			p.next()
			param.Variadic = true
		}
		if p.curIs(token.IDENT) {
			param.Name = p.cur.Literal
			p.next()
		}
		if p.curIs(token.ASSIGN) {
			p.next()
			param.Default = p.parseExpression(precAssign + 1)
		}
		params = append(params, param)
		if p.curIs(token.COMMA) {
			p.next()
		}
	}
	p.expect(token.RPAREN)
	return params
}

func (p *Parser) parseFuncDecl(async bool) ast.Statement {
	p.next() // consume 'fn'
	return p.parseFuncDeclBody(async)
}

func (p *Parser) parseFuncDeclBody(async bool) ast.Statement {
	pos := p.pos()
	name := ""
	if p.curIs(token.IDENT) {
		name = p.cur.Literal
		p.next()
	}
	params := p.parseParamList()
	body := p.parseBlock()
	return &ast.FuncDecl{Name: name, Params: params, Body: body, Async: async, Pos: pos}
}

func (p *Parser) parseClass() ast.Statement {
	pos := p.pos()
	p.next()
	name := ""
	if p.curIs(token.IDENT) {
		name = p.cur.Literal
		p.next()
	}
	cd := &ast.ClassDecl{Name: name, Pos: pos}
	if p.curIs(token.EXTIENDE) {
		p.next()
		if p.curIs(token.IDENT) {
			cd.Extends = p.cur.Literal
			p.next()
		}
	}
	p.expect(token.LBRACE)
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		m := ast.ClassMember{Pos: p.pos()}
		for p.curIs(token.EST) || p.curIs(token.PUB) {
			if p.curIs(token.EST) {
				m.Static = true
			} else {
				m.Public = true
			}
			p.next()
		}
		if p.curIs(token.FN) {
			m.IsMethod = true
			p.next()
			if p.curIs(token.IDENT) {
				m.Name = p.cur.Literal
				p.next()
			}
			params := p.parseParamList()
			body := p.parseBlock()
			m.Value = &ast.FuncDecl{Name: m.Name, Params: params, Body: body, Pos: m.Pos}
		} else if p.curIs(token.IDENT) {
			m.Name = p.cur.Literal
			p.next()
			if p.curIs(token.ASSIGN) {
				p.next()
				m.Value = p.parseExpression(precLowest)
			}
		} else {
			p.next()
			continue
		}
		cd.Members = append(cd.Members, m)
		if p.curIs(token.SEMI) {
			p.next()
		}
	}
	p.expect(token.RBRACE)
	return cd
}

func (p *Parser) parseImport() ast.Statement {
	pos := p.pos()
	p.next()
	path := p.cur.Literal
	p.next()
	alias := ""
	if p.curIs(token.COMO) {
		p.next()
		if p.curIs(token.IDENT) {
			alias = p.cur.Literal
			p.next()
		}
	}
	return &ast.ImportStmt{Path: path, Alias: alias, Pos: pos}
}

func (p *Parser) parseExport() ast.Statement {
	pos := p.pos()
	p.next()
	decl := p.parseStatement()
	return &ast.ExportStmt{Decl: decl, Pos: pos}
}

func (p *Parser) parseExprStmt() ast.Statement {
	pos := p.pos()
	expr := p.parseExpression(precLowest)
	if expr == nil {
		return nil
	}
	return &ast.ExprStmt{Expr: expr, Pos: pos}
}

// --- Expressions (Pratt parser) ---

func (p *Parser) parseExpression(minPrec int) ast.Expression {
	left := p.parsePrefix()
	if left == nil {
		return nil
	}
	for {
		prec, ok := precedences[p.cur.Type]
		if !ok || prec < minPrec {
			break
		}
		switch p.cur.Type {
		case token.ASSIGN, token.PLUS_EQ, token.MINUS_EQ, token.STAR_EQ, token.SLASH_EQ:
			left = p.parseAssign(left)
		case token.LPAREN:
			left = p.parseCall(left)
		case token.DOT:
			left = p.parseMember(left)
		case token.LBRACKET:
			left = p.parseIndex(left)
		default:
			left = p.parseInfix(left, prec)
		}
	}
	return left
}

func (p *Parser) parsePrefix() ast.Expression {
	pos := p.pos()
	switch p.cur.Type {
	case token.NUMBER:
		lit := p.cur.Literal
		p.next()
		return &ast.NumberLiteral{Raw: lit, Radix: 10, Pos: pos}
	case token.TRUE, token.FALSE:
		v := p.curIs(token.TRUE)
		p.next()
		return &ast.BooleanLiteral{Value: v, Pos: pos}
	case token.NULL:
		p.next()
		return &ast.NullLiteral{Pos: pos}
	case token.IDENT:
		name := p.cur.Literal
		p.next()
		return &ast.Identifier{Name: name, Pos: pos}
	case token.THIS:
		p.next()
		return &ast.ThisExpr{Pos: pos}
	case token.SUPER:
		p.next()
		return &ast.SuperExpr{Pos: pos}
	case token.STRING:
		lit := p.cur.Literal
		p.next()
		return &ast.StringLiteral{Parts: []ast.StringPart{{Text: lit}}, Pos: pos}
	case token.STRING_START:
		return p.parseInterpolatedString(pos)
	case token.MINUS, token.BANG, token.PLUS:
		op := p.cur.Literal
		p.next()
		operand := p.parseExpression(precUnary)
		return &ast.UnaryExpr{Op: op, Operand: operand, Pos: pos}
	case token.VAGO:
		p.next()
		return &ast.LazyExpr{Value: p.parseExpression(precUnary), Pos: pos}
	case token.ESPERA:
		p.next()
		return &ast.AwaitExpr{Value: p.parseExpression(precUnary), Pos: pos}
	case token.BORRA:
		p.next()
		return &ast.DeleteExpr{Target: p.parseExpression(precUnary), Pos: pos}
	case token.CSL:
		return p.parseConsoleCall(pos)
	case token.FN:
		p.next()
		fd := p.parseFuncDeclBody(false).(*ast.FuncDecl)
		return fd
	case token.ASINC:
		p.next()
		if !p.expect(token.FN) {
			return nil
		}
		fd := p.parseFuncDeclBody(true).(*ast.FuncDecl)
		return fd
	case token.LPAREN:
		p.next()
		expr := p.parseExpression(precLowest)
		p.expect(token.RPAREN)
		return expr
	case token.LBRACKET:
		return p.parseArrayLiteral(pos)
	case token.LBRACE:
		return p.parseObjectLiteral(pos)
	default:
		p.errorf("se encontró un token inesperado: %s", p.cur.Type)
		p.next()
		return nil
	}
}

func (p *Parser) parseInterpolatedString(pos ast.Position) ast.Expression {
	lit := &ast.StringLiteral{Pos: pos}
	lit.Parts = append(lit.Parts, ast.StringPart{Text: p.cur.Literal})
	for {
		p.lex.EnterInterpolationHole()
		p.next()
		expr := p.parseExpression(precLowest)
		lit.Parts = append(lit.Parts, ast.StringPart{Expr: expr})
		p.lex.ExitInterpolationHole()
		p.next()
		if p.curIs(token.STRING_MID) {
			lit.Parts = append(lit.Parts, ast.StringPart{Text: p.cur.Literal})
			p.next()
			continue
		}
		if p.curIs(token.STRING_END) {
			lit.Parts = append(lit.Parts, ast.StringPart{Text: p.cur.Literal})
			p.next()
			break
		}
		break
	}
	return lit
}

func (p *Parser) parseConsoleCall(pos ast.Position) ast.Expression {
	p.next() // csl
	if !p.expect(token.DCOLON) {
		return nil
	}
	name := p.cur.Literal
	p.next()
	p.expect(token.LPAREN)
	var args []ast.Expression
	for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
		args = append(args, p.parseExpression(precLowest))
		if p.curIs(token.COMMA) {
			p.next()
		}
	}
	p.expect(token.RPAREN)
	return &ast.ConsoleExpr{Name: name, Args: args, Pos: pos}
}

func (p *Parser) parseArrayLiteral(pos ast.Position) ast.Expression {
	p.brack.Push(token.LBRACKET, p.cur)
	p.next()
	arr := &ast.ArrayLiteral{Pos: pos}
	for !p.curIs(token.RBRACKET) && !p.curIs(token.EOF) {
		arr.Elements = append(arr.Elements, p.parseExpression(precLowest))
		if p.curIs(token.COMMA) {
			p.next()
		}
	}
	closing := p.cur
	if p.expect(token.RBRACKET) {
		if err := p.brack.Pop(token.LBRACKET, closing); err != nil {
			p.errorf("%s", err)
		}
	}
	return arr
}

func (p *Parser) parseObjectLiteral(pos ast.Position) ast.Expression {
	p.brack.Push(token.LBRACE, p.cur)
	p.next()
	obj := &ast.ObjectLiteral{Pos: pos}
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		key := p.cur.Literal
		p.next()
		p.expect(token.COLON)
		value := p.parseExpression(precLowest)
		obj.Props = append(obj.Props, ast.ObjectProp{Key: key, Value: value})
		if p.curIs(token.COMMA) {
			p.next()
		}
	}
	closing := p.cur
	if p.expect(token.RBRACE) {
		if err := p.brack.Pop(token.LBRACE, closing); err != nil {
			p.errorf("%s", err)
		}
	}
	return obj
}

func (p *Parser) parseInfix(left ast.Expression, prec int) ast.Expression {
	pos := p.pos()
	op := p.cur.Literal
	rightAssoc := p.cur.Type == token.POW
	p.next()
	nextMin := prec + 1
	if rightAssoc {
		nextMin = prec
	}
	right := p.parseExpression(nextMin)
	return &ast.BinaryExpr{Op: op, Left: left, Right: right, Pos: pos}
}

func (p *Parser) parseAssign(left ast.Expression) ast.Expression {
	pos := p.pos()
	opTok := p.cur.Type
	p.next()
	value := p.parseExpression(precAssign)
	op := "="
	switch opTok {
	case token.PLUS_EQ:
		op = "+"
	case token.MINUS_EQ:
		op = "-"
	case token.STAR_EQ:
		op = "*"
	case token.SLASH_EQ:
		op = "/"
	}
	return &ast.AssignExpr{Op: op, Target: left, Value: value, Pos: pos}
}

func (p *Parser) parseCall(callee ast.Expression) ast.Expression {
	pos := p.pos()
	p.brack.Push(token.LPAREN, p.cur)
	p.next()
	var args []ast.Expression
	for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
		args = append(args, p.parseExpression(precLowest))
		if p.curIs(token.COMMA) {
			p.next()
		}
	}
	closing := p.cur
	if p.expect(token.RPAREN) {
		if err := p.brack.Pop(token.LPAREN, closing); err != nil {
			p.errorf("%s", err)
		}
	}
	return &ast.CallExpr{Callee: callee, Args: args, Pos: pos}
}

func (p *Parser) parseMember(obj ast.Expression) ast.Expression {
	pos := p.pos()
	p.next() // consume '.'
	name := p.cur.Literal
	namePos := p.pos()
	p.next()
	return &ast.MemberExpr{Object: obj, Property: &ast.Identifier{Name: name, Pos: namePos}, Pos: pos}
}

func (p *Parser) parseIndex(obj ast.Expression) ast.Expression {
	pos := p.pos()
	p.brack.Push(token.LBRACKET, p.cur)
	p.next()
	index := p.parseExpression(precLowest)
	closing := p.cur
	if p.expect(token.RBRACKET) {
		if err := p.brack.Pop(token.LBRACKET, closing); err != nil {
			p.errorf("%s", err)
		}
	}
	return &ast.MemberExpr{Object: obj, Property: index, Computed: true, Pos: pos}
}
