package parser

import (
	"fmt"
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/tinta-lang/tinta/core/token"
)

// ParseError represents a parsing error with location and context
// information, plus did-you-mean suggestions for unrecognized keywords.
type ParseError struct {
	Message     string
	Token       token.Token
	Suggestions []string
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Token.Pos, e.Message)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (¿quisiste decir %q?)", e.Suggestions[0])
	}
	return msg
}

// suggestKeyword returns the closest reserved word to ident, or ""
// if none is close enough to be worth suggesting.
func suggestKeyword(ident string) string {
	best := fuzzy.RankFindFold(ident, token.Keywords())
	if len(best) == 0 {
		return ""
	}
	sort.Sort(best)
	return best[0].Target
}

// BracketTracker tracks opening brackets for mismatch diagnostics.
type BracketTracker struct {
	stack []bracketInfo
}

type bracketInfo struct {
	Type  token.Type
	Token token.Token
}

func (bt *BracketTracker) Push(t token.Type, tok token.Token) {
	bt.stack = append(bt.stack, bracketInfo{Type: t, Token: tok})
}

func (bt *BracketTracker) Pop(expected token.Type, closing token.Token) error {
	if len(bt.stack) == 0 {
		return fmt.Errorf("%s: unexpected %q, no matching opening bracket", closing.Pos, closing.Literal)
	}
	top := bt.stack[len(bt.stack)-1]
	bt.stack = bt.stack[:len(bt.stack)-1]
	if !matchingBracket(top.Type, expected) {
		return fmt.Errorf("%s: mismatched brackets: opened %q at %s, closed with %q",
			closing.Pos, top.Token.Literal, top.Token.Pos, closing.Literal)
	}
	return nil
}

func matchingBracket(open, close token.Type) bool {
	switch open {
	case token.LPAREN:
		return close == token.RPAREN
	case token.LBRACE:
		return close == token.RBRACE
	case token.LBRACKET:
		return close == token.RBRACKET
	}
	return false
}
