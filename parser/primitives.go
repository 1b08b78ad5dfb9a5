package parser

import (
	"bytes"
	"unicode"
	"unicode/utf8"

	"github.com/robinvdvleuten/hledger/ast"
)

// Stateless primitives over the current line. Each one consumes exactly what
// it matched, or nothing when it fails.

func statusOf(ch byte) ast.Status {
	switch ch {
	case '*':
		return ast.StatusCleared
	case '!':
		return ast.StatusPending
	default:
		return ast.StatusNone
	}
}

// parseCode parses a transaction code in parentheses. The cursor is on '('.
func (p *Parser) parseCode() (string, error) {
	s := p.s
	rest := s.rest()
	end := bytes.IndexByte(rest, ')')
	if end < 0 {
		return "", s.errorf(UnexpectedToken, "unclosed transaction code, expected ')'")
	}
	if end == 1 {
		return "", s.errorf(UnexpectedToken, "empty transaction code")
	}
	code := string(rest[1:end])
	s.advance(end + 1)
	return code, nil
}

// parseInlineComment consumes the rest of the line as a comment.
// The cursor is on the ';' or '#' marker.
func (p *Parser) parseInlineComment() *ast.InlineComment {
	s := p.s
	pos := s.position()
	rest := s.rest()
	s.advance(len(rest))
	return &ast.InlineComment{
		Pos:    pos,
		Marker: rest[0],
		Text:   string(bytes.TrimSpace(rest[1:])),
	}
}

// commentStart returns the index of the inline comment in text, or -1.
// A ';' always starts a comment, a '#' only at the start or after whitespace.
func commentStart(text []byte) int {
	for i, ch := range text {
		if ch == ';' || (ch == '#' && (i == 0 || isSpace(text[i-1]))) {
			return i
		}
	}
	return -1
}

// quantityLen returns the length of the quantity at the start of b:
// [+-]?\d+([.,]\d+)?([eE][+-]?\d+)?
func quantityLen(b []byte) int {
	i := 0
	if i < len(b) && (b[i] == '+' || b[i] == '-') {
		i++
	}
	n := digitsLen(b[i:])
	if n == 0 {
		return 0
	}
	i += n

	if i+1 < len(b) && (b[i] == '.' || b[i] == ',') && isDigit(b[i+1]) {
		i++
		i += digitsLen(b[i:])
	}

	if i < len(b) && (b[i] == 'e' || b[i] == 'E') {
		j := i + 1
		if j < len(b) && (b[j] == '+' || b[j] == '-') {
			j++
		}
		if n := digitsLen(b[j:]); n > 0 {
			i = j + n
		}
	}

	return i
}

func digitsLen(b []byte) int {
	n := 0
	for n < len(b) && isDigit(b[n]) {
		n++
	}
	return n
}

// scanQuantity consumes a quantity literal. Returns "" if there is none.
func (p *Parser) scanQuantity() ast.Quantity {
	rest := p.s.rest()
	n := quantityLen(rest)
	if n == 0 {
		return ""
	}
	p.s.advance(n)
	return ast.Quantity(rest[:n])
}

// currencySymbols are the single-glyph commodities accepted without quotes.
var currencySymbols = [][]byte{
	[]byte("$"),
	[]byte("€"),
	[]byte("£"),
	[]byte("¥"),
	[]byte("₹"),
	[]byte("¢"),
}

// symbolLen returns the length of an unquoted commodity symbol at the start of b.
func symbolLen(b []byte) int {
	if len(b) == 0 {
		return 0
	}
	if isUpper(b[0]) {
		n := 1
		for n < len(b) && (isUpper(b[n]) || isDigit(b[n])) {
			n++
		}
		return n
	}
	for _, sym := range currencySymbols {
		if bytes.HasPrefix(b, sym) {
			return len(sym)
		}
	}
	return 0
}

// scanCommodity consumes a commodity symbol: an uppercase-led code, a currency
// glyph, or a non-empty double-quoted string.
func (p *Parser) scanCommodity() (*ast.Commodity, bool) {
	s := p.s
	rest := s.rest()
	if len(rest) == 0 {
		return nil, false
	}

	if rest[0] == '"' {
		end := bytes.IndexByte(rest[1:], '"')
		if end <= 0 {
			return nil, false
		}
		s.advance(end + 2)
		return &ast.Commodity{Symbol: p.interner.InternBytes(rest[1 : end+1]), Quoted: true}, true
	}

	n := symbolLen(rest)
	if n == 0 {
		return nil, false
	}
	s.advance(n)
	return &ast.Commodity{Symbol: p.interner.InternBytes(rest[:n])}, true
}

// accountCharLen returns the byte length of the account name character at the
// start of b, or 0 if it cannot appear in an account name.
func accountCharLen(b []byte) int {
	ch := b[0]
	if ch < utf8.RuneSelf {
		if isDigit(ch) || isUpper(ch) || (ch >= 'a' && ch <= 'z') || ch == '_' || ch == '-' || ch == ':' {
			return 1
		}
		return 0
	}
	r, size := utf8.DecodeRune(b)
	if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r) {
		return size
	}
	return 0
}

// scanAccountName consumes the longest account name at the cursor. Names are
// made of letters, digits, '_', '-' and ':', with single spaces between words.
// Two spaces or a tab end the name.
func (p *Parser) scanAccountName() []byte {
	rest := p.s.rest()
	if len(rest) == 0 || rest[0] == ':' {
		return nil
	}

	i := 0
	for i < len(rest) {
		if rest[i] == ' ' {
			if i > 0 && i+1 < len(rest) {
				if n := accountCharLen(rest[i+1:]); n > 0 {
					i += 1 + n
					continue
				}
			}
			break
		}
		n := accountCharLen(rest[i:])
		if n == 0 {
			break
		}
		i += n
	}

	p.s.advance(i)
	return rest[:i]
}

// amountTail returns the index of a trailing " <quantity> [COMMODITY]" inside
// an account name, or -1. Such a tail means the posting was written with a
// single space before its amount.
func amountTail(name []byte) int {
	for i := 0; i < len(name); i++ {
		if name[i] == ' ' && looksLikeAmount(name[i+1:]) {
			return i + 1
		}
	}
	return -1
}

// amountEndsPosting reports whether rest, the text after an account name, holds
// nothing but an optional assertion or comment. Only then can an amount-like
// tail of the name be the posting's amount.
func amountEndsPosting(rest []byte) bool {
	for len(rest) > 0 && isSpace(rest[0]) {
		rest = rest[1:]
	}
	return len(rest) == 0 || rest[0] == '=' || isCommentMarker(rest[0])
}

func looksLikeAmount(b []byte) bool {
	n := quantityLen(b)
	if n == 0 {
		return false
	}
	b = b[n:]
	if len(b) == 0 {
		return true
	}
	if b[0] != ' ' {
		return false
	}
	b = b[1:]
	return len(b) > 0 && symbolLen(b) == len(b)
}
