package lexer

// ASCII character lookup tables for fast classification (zero-allocation)
//
// Performance: inline bounds-checked lookups:
//
//	if ch < 128 && isLetter[ch] { ... }
var (
	isWhitespace [128]bool // space, tab, carriage return, form feed
	isLetter     [128]bool // a-z, A-Z, _
	isDigit      [128]bool // 0-9
	isIdentStart [128]bool // letter or _
	isIdentPart  [128]bool // letter, digit, or _
	isHexDigit   [128]bool // 0-9, a-f, A-F
)

func init() {
	for i := 0; i < 128; i++ {
		ch := byte(i)
		isWhitespace[i] = ch == ' ' || ch == '\t' || ch == '\r' || ch == '\f'
		isLetter[i] = ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') || ch == '_'
		isDigit[i] = '0' <= ch && ch <= '9'
		isIdentStart[i] = isLetter[i]
		isIdentPart[i] = isLetter[i] || isDigit[i]
		isHexDigit[i] = isDigit[i] || ('a' <= ch && ch <= 'f') || ('A' <= ch && ch <= 'F')
	}
}

// Identifiers: [a-zA-Z_][a-zA-Z0-9_]*, ASCII only.
func isValidASCIIIdentifier(s string) bool {
	if s == "" {
		return false
	}
	first := s[0]
	if first >= 128 || !isIdentStart[first] {
		return false
	}
	for i := 1; i < len(s); i++ {
		ch := s[i]
		if ch >= 128 || !isIdentPart[ch] {
			return false
		}
	}
	return true
}

// digitValueInBase returns the numeric value of ch as a digit in the
// given base (2-36), or -1 if ch is not a valid digit in that base.
func digitValueInBase(ch byte, base int) int {
	var v int
	switch {
	case '0' <= ch && ch <= '9':
		v = int(ch - '0')
	case 'a' <= ch && ch <= 'z':
		v = int(ch-'a') + 10
	case 'A' <= ch && ch <= 'Z':
		v = int(ch-'A') + 10
	default:
		return -1
	}
	if v >= base {
		return -1
	}
	return v
}
