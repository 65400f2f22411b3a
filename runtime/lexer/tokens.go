package lexer

import "github.com/tinta-lang/tinta/core/token"

// twoCharOps and oneCharOps let the scanner try the longest lexeme
// match first (2-byte, then 1-byte).
var twoCharOps = map[string]token.Type{
	"**": token.POW,
	"<=": token.LE,
	">=": token.GE,
	"==": token.EQ,
	"!=": token.NEQ,
	"&&": token.AND,
	"||": token.OR,
	"+=": token.PLUS_EQ,
	"-=": token.MINUS_EQ,
	"*=": token.STAR_EQ,
	"/=": token.SLASH_EQ,
	"::": token.DCOLON,
}

var oneCharOps = map[byte]token.Type{
	'=': token.ASSIGN,
	'+': token.PLUS,
	'-': token.MINUS,
	'*': token.STAR,
	'/': token.SLASH,
	'%': token.PERCENT,
	'!': token.BANG,
	'<': token.LT,
	'>': token.GT,
	'(': token.LPAREN,
	')': token.RPAREN,
	'{': token.LBRACE,
	'}': token.RBRACE,
	'[': token.LBRACKET,
	']': token.RBRACKET,
	',': token.COMMA,
	'.': token.DOT,
	':': token.COLON,
	';': token.SEMI,
}
