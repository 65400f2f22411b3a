// Package lexer turns tinta source text into a token stream.
package lexer

import (
	"fmt"
	"log/slog"

	"github.com/tinta-lang/tinta/core/token"
)

// Mode selects how the scanner interprets the next bytes: Normal code,
// or inside a `"..."` string that may contain `{expr}` interpolation
// holes.
type Mode int

const (
	ModeNormal Mode = iota
	ModeString
)

// Lexer scans tinta source one token at a time.
type Lexer struct {
	input    string
	pos      int // current byte offset
	readPos  int // next byte offset
	ch       byte
	line     int
	column   int

	mode      Mode
	modeStack []Mode

	logger *slog.Logger
}

// New returns a Lexer over src, logging scan diagnostics at debug
// level through logger (nil disables logging).
func New(src string, logger *slog.Logger) *Lexer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	l := &Lexer{input: src, line: 1, column: 0, logger: logger}
	l.advance()
	return l
}

func (l *Lexer) advance() {
	if l.readPos >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
	if l.ch == '\n' {
		l.line++
		l.column = 0
	} else {
		l.column++
	}
}

func (l *Lexer) peek() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

func (l *Lexer) peekAt(offset int) byte {
	idx := l.pos + offset
	if idx >= len(l.input) {
		return 0
	}
	return l.input[idx]
}

func (l *Lexer) currentPos() token.Position {
	return token.Position{Line: l.line, Column: l.column}
}

func (l *Lexer) pushMode(m Mode) {
	l.modeStack = append(l.modeStack, l.mode)
	l.mode = m
}

func (l *Lexer) popMode() {
	if len(l.modeStack) == 0 {
		l.mode = ModeNormal
		return
	}
	n := len(l.modeStack) - 1
	l.mode = l.modeStack[n]
	l.modeStack = l.modeStack[:n]
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		if l.ch < 128 && isWhitespace[l.ch] || l.ch == '\n' {
			l.advance()
			continue
		}
		if l.ch == '#' {
			for l.ch != '\n' && l.ch != 0 {
				l.advance()
			}
			continue
		}
		break
	}
}

// Next returns the next token in the stream, emitting token.EOF once
// the input is exhausted.
func (l *Lexer) Next() token.Token {
	if l.mode == ModeString {
		return l.nextStringToken()
	}

	l.skipWhitespaceAndComments()
	pos := l.currentPos()

	if l.ch == 0 {
		return token.Token{Type: token.EOF, Pos: pos}
	}

	switch {
	case l.ch < 128 && isIdentStart[l.ch]:
		return l.scanIdent(pos)
	case l.ch < 128 && isDigit[l.ch]:
		return l.scanNumber(pos)
	case l.ch == '"':
		return l.startString(pos)
	}

	// Three-char operator: only "..."
	if l.ch == '.' && l.peekAt(1) == '.' && l.peekAt(2) == '.' {
		l.advance()
		l.advance()
		l.advance()
		return token.Token{Type: token.ELLIPSIS, Literal: "...", Pos: pos}
	}

	if l.readPos <= len(l.input) {
		two := string([]byte{l.ch, l.peek()})
		if t, ok := twoCharOps[two]; ok {
			l.advance()
			l.advance()
			return token.Token{Type: t, Literal: two, Pos: pos}
		}
	}

	if t, ok := oneCharOps[l.ch]; ok {
		lit := string(l.ch)
		l.advance()
		return token.Token{Type: t, Literal: lit, Pos: pos}
	}

	illegal := string(l.ch)
	l.logger.Debug("illegal character", "char", illegal, "pos", pos.String())
	l.advance()
	return token.Token{Type: token.ILLEGAL, Literal: illegal, Pos: pos}
}

func (l *Lexer) scanIdent(pos token.Position) token.Token {
	start := l.pos
	for l.ch < 128 && isIdentPart[l.ch] {
		l.advance()
	}
	lit := l.input[start:l.pos]
	return token.Token{Type: token.Lookup(lit), Literal: lit, Pos: pos}
}

// scanNumber handles plain decimal/float literals and the `0b`, `0o`,
// `0d`, `0x`, and `0$<base>~<digits>` radix-prefixed forms.
func (l *Lexer) scanNumber(pos token.Position) token.Token {
	start := l.pos
	if l.ch == '0' {
		switch l.peek() {
		case 'b', 'o', 'd', 'x':
			l.advance() // consume '0'
			l.advance() // consume base letter
			for l.ch < 128 && isHexDigit[l.ch] {
				l.advance()
			}
			return token.Token{Type: token.NUMBER, Literal: l.input[start:l.pos], Pos: pos}
		case '$':
			l.advance() // '0'
			l.advance() // '$'
			for l.ch < 128 && isDigit[l.ch] {
				l.advance()
			}
			if l.ch == '~' {
				l.advance()
			}
			for l.ch < 128 && (isDigit[l.ch] || (l.ch|0x20 >= 'a' && l.ch|0x20 <= 'z')) {
				l.advance()
			}
			return token.Token{Type: token.NUMBER, Literal: l.input[start:l.pos], Pos: pos}
		}
	}

	for l.ch < 128 && isDigit[l.ch] {
		l.advance()
	}
	if l.ch == '.' && l.peek() < 128 && isDigit[l.peek()] {
		l.advance()
		for l.ch < 128 && isDigit[l.ch] {
			l.advance()
		}
	}
	return token.Token{Type: token.NUMBER, Literal: l.input[start:l.pos], Pos: pos}
}

func (l *Lexer) startString(pos token.Position) token.Token {
	l.advance() // consume opening quote
	l.pushMode(ModeString)
	return l.scanStringSegment(pos, token.STRING_START)
}

// nextStringToken resumes scanning inside a string once interpolation
// mode has been entered, either closing the string or consuming the
// next literal segment after an interpolation hole's closing `}`.
func (l *Lexer) nextStringToken() token.Token {
	pos := l.currentPos()
	if l.ch == '}' {
		l.advance()
		return l.scanStringSegment(pos, token.STRING_MID)
	}
	// Shouldn't normally be reached; the parser drives interpolation
	// holes back into normal mode via '{'.
	return l.scanStringSegment(pos, token.STRING_MID)
}

// scanStringSegment reads literal text up to the next `{` (an
// interpolation hole) or the closing `"`, honoring backslash escapes.
func (l *Lexer) scanStringSegment(pos token.Position, openType token.Type) token.Token {
	var lit []byte
	for {
		switch l.ch {
		case 0:
			l.popMode()
			return token.Token{Type: token.ILLEGAL, Literal: string(lit), Pos: pos}
		case '"':
			l.advance()
			l.popMode()
			endType := token.STRING_END
			if openType == token.STRING_START {
				endType = token.STRING
			}
			return token.Token{Type: endType, Literal: string(lit), Pos: pos}
		case '{':
			l.advance()
			return token.Token{Type: openType, Literal: string(lit), Pos: pos}
		case '\\':
			l.advance()
			lit = append(lit, l.escapeByte())
			l.advance()
		default:
			lit = append(lit, l.ch)
			l.advance()
		}
	}
}

func (l *Lexer) escapeByte() byte {
	switch l.ch {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	case '\\':
		return '\\'
	case '"':
		return '"'
	case '{':
		return '{'
	default:
		return l.ch
	}
}

// EnterInterpolationHole is called by the parser right after it reads
// an opening `{` inside a string, switching the lexer back to normal
// mode so it can tokenize the embedded expression up to `}`.
func (l *Lexer) EnterInterpolationHole() {
	l.pushMode(ModeNormal)
}

// ExitInterpolationHole returns to string-scanning mode once the
// parser has consumed the embedded expression's trailing `}`.
func (l *Lexer) ExitInterpolationHole() {
	l.popMode()
}

// Error formats a lexer-level diagnostic with position information.
func Error(pos token.Position, format string, args ...any) error {
	return fmt.Errorf("%s: %s", pos, fmt.Sprintf(format, args...))
}
