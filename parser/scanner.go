package parser

// Scanner exposes a journal as a sequence of lines with a byte cursor on the
// current line.
//
// The approach:
// - Lines are slices of the source buffer, nothing is copied while scanning
// - A line never includes its '\n' terminator or a trailing '\r'
// - Every primitive either consumes what it matched or leaves the cursor untouched

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"github.com/robinvdvleuten/hledger/ast"
)

// line is one source line.
type line struct {
	text   []byte
	offset int // Byte offset of the first character in the source
	num    int // Line number (1-indexed)
}

// Scanner walks the lines of a journal.
type Scanner struct {
	source   []byte
	filename string
	lines    []line
	idx      int // Index of the current line
	pos      int // Cursor within the current line
}

// newScanner splits source into lines. A last line without '\n' is kept.
func newScanner(source []byte, filename string) *Scanner {
	// Estimate: ~1 line per 30 bytes in typical journals
	lines := make([]line, 0, len(source)/30+16)

	start := 0
	for start < len(source) {
		end := bytes.IndexByte(source[start:], '\n')
		next := len(source)
		if end < 0 {
			end = len(source)
		} else {
			end += start
			next = end + 1
		}

		text := source[start:end]
		if n := len(text); n > 0 && text[n-1] == '\r' {
			text = text[:n-1]
		}
		lines = append(lines, line{text: text, offset: start, num: len(lines) + 1})
		start = next
	}

	return &Scanner{
		source:   source,
		filename: filename,
		lines:    lines,
	}
}

// Line-level access

func (s *Scanner) atEOF() bool {
	return s.idx >= len(s.lines)
}

// peekLine returns the current line without consuming it.
func (s *Scanner) peekLine() (line, bool) {
	if s.atEOF() {
		return line{}, false
	}
	return s.lines[s.idx], true
}

// nextLine moves the cursor to the start of the following line.
func (s *Scanner) nextLine() {
	if s.idx < len(s.lines) {
		s.idx++
	}
	s.pos = 0
}

func (s *Scanner) current() line {
	if s.atEOF() {
		return line{num: len(s.lines) + 1, offset: len(s.source)}
	}
	return s.lines[s.idx]
}

// Cursor access within the current line

func (s *Scanner) text() []byte {
	return s.current().text
}

// rest returns the unconsumed part of the current line.
func (s *Scanner) rest() []byte {
	t := s.text()
	if s.pos >= len(t) {
		return nil
	}
	return t[s.pos:]
}

func (s *Scanner) atEOL() bool {
	return s.pos >= len(s.text())
}

// peekChar returns the byte at the cursor, or 0 at the end of the line.
func (s *Scanner) peekChar() byte {
	t := s.text()
	if s.pos >= len(t) {
		return 0
	}
	return t[s.pos]
}

// peekCharAt returns the byte n positions after the cursor, or 0.
func (s *Scanner) peekCharAt(n int) byte {
	t := s.text()
	if s.pos+n >= len(t) {
		return 0
	}
	return t[s.pos+n]
}

// peekRune decodes the rune at the cursor. Size is 0 at the end of the line.
func (s *Scanner) peekRune() (rune, int) {
	rest := s.rest()
	if len(rest) == 0 {
		return 0, 0
	}
	return utf8.DecodeRune(rest)
}

func (s *Scanner) advance(n int) {
	s.pos += n
	if t := s.text(); s.pos > len(t) {
		s.pos = len(t)
	}
}

func (s *Scanner) hasPrefix(lit string) bool {
	return bytes.HasPrefix(s.rest(), []byte(lit))
}

// consumeLiteral consumes lit if it is next on the line.
func (s *Scanner) consumeLiteral(lit string) error {
	if !s.hasPrefix(lit) {
		return s.errorf(UnexpectedToken, "expected %q", lit)
	}
	s.pos += len(lit)
	return nil
}

// match consumes the longest run of bytes for which class returns true.
func (s *Scanner) match(class func(byte) bool) []byte {
	rest := s.rest()
	n := 0
	for n < len(rest) && class(rest[n]) {
		n++
	}
	s.pos += n
	return rest[:n]
}

// consumeKeywords consumes a sequence of whitespace-separated words. Each word
// must be followed by whitespace or the end of the line.
func (s *Scanner) consumeKeywords(words ...string) bool {
	start := s.pos
	for i, w := range words {
		if i > 0 {
			if spaces, tabs := s.skipSpace(); spaces+tabs == 0 {
				s.pos = start
				return false
			}
		}
		if !s.hasPrefix(w) || (s.peekCharAt(len(w)) != 0 && !isSpace(s.peekCharAt(len(w)))) {
			s.pos = start
			return false
		}
		s.pos += len(w)
	}
	return true
}

// word returns the text up to the next whitespace without consuming it.
// Used to quote the offending token in error messages.
func (s *Scanner) word() string {
	rest := s.rest()
	if i := bytes.IndexAny(rest, " \t"); i >= 0 {
		rest = rest[:i]
	}
	return string(rest)
}

// skipSpace consumes horizontal whitespace and returns how much was skipped.
func (s *Scanner) skipSpace() (spaces, tabs int) {
	for _, ch := range s.rest() {
		switch ch {
		case ' ':
			spaces++
		case '\t':
			tabs++
		default:
			s.pos += spaces + tabs
			return spaces, tabs
		}
	}
	s.pos += spaces + tabs
	return spaces, tabs
}

// Positions and errors

// position returns the location of the cursor.
func (s *Scanner) position() ast.Position {
	return s.positionAt(s.pos)
}

// positionAt returns the location of column col (0-indexed) on the current line.
func (s *Scanner) positionAt(col int) ast.Position {
	ln := s.current()
	return ast.Position{
		Filename: s.filename,
		Offset:   ln.offset + col,
		Line:     ln.num,
		Column:   col + 1,
	}
}

func (s *Scanner) span(start int) ast.Span {
	offset := s.current().offset
	return ast.Span{Start: offset + start, End: offset + s.pos}
}

// errorf returns a ParseError located at the cursor.
func (s *Scanner) errorf(kind ErrorKind, format string, args ...any) *ParseError {
	return s.errorAt(s.pos, kind, format, args...)
}

// errorAt returns a ParseError located at column col (0-indexed) of the current line.
func (s *Scanner) errorAt(col int, kind ErrorKind, format string, args ...any) *ParseError {
	return &ParseError{
		Kind:    kind,
		Pos:     s.positionAt(col),
		Message: fmt.Sprintf(format, args...),
		Snippet: string(s.text()),
	}
}

// Character classes

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t'
}

func isUpper(ch byte) bool {
	return ch >= 'A' && ch <= 'Z'
}

func isBlank(text []byte) bool {
	for _, ch := range text {
		if !isSpace(ch) {
			return false
		}
	}
	return true
}

func isIndented(text []byte) bool {
	return len(text) > 0 && isSpace(text[0])
}

func isCommentMarker(ch byte) bool {
	return ch == ';' || ch == '#'
}
