// Package parser turns hledger journal text into an ast.Document.
//
// Parsing is line oriented and runs in a single pass without backtracking
// across entries. The first syntax error stops the parse and is returned as a
// *ParseError carrying its kind, position and source line.
//
// Example:
//
//	doc, err := parser.ParseString(ctx, "2024-01-15 Coffee\n    expenses:food  $4\n    assets:cash\n")
//	if err != nil {
//	    var perr *parser.ParseError
//	    if errors.As(err, &perr) {
//	        fmt.Println(perr.Kind, perr.Pos)
//	    }
//	}
package parser

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/robinvdvleuten/hledger/ast"
	"github.com/robinvdvleuten/hledger/telemetry"
)

// Parser holds the state of one parse. Parsers are not shared between inputs.
type Parser struct {
	s        *Scanner
	interner *Interner
}

func newParser(source []byte, filename string) *Parser {
	// Scale interner capacity with source size
	internerCap := len(source) / 40
	if internerCap < 256 {
		internerCap = 256
	}

	return &Parser{
		s:        newScanner(source, filename),
		interner: NewInterner(internerCap),
	}
}

// Parse reads a journal from r and parses it.
func Parse(ctx context.Context, r io.Reader) (*ast.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}
	return ParseBytes(ctx, data)
}

// ParseString parses a journal held in a string.
func ParseString(ctx context.Context, str string) (*ast.Document, error) {
	return ParseBytesWithFilename(ctx, "", []byte(str))
}

// ParseBytes parses a journal held in a byte slice.
func ParseBytes(ctx context.Context, data []byte) (*ast.Document, error) {
	return ParseBytesWithFilename(ctx, "", data)
}

// ParseBytesWithFilename parses data, reporting positions against filename.
// A non-nil error is always a *ParseError.
func ParseBytesWithFilename(ctx context.Context, filename string, data []byte) (*ast.Document, error) {
	name := "parser.parse"
	if filename != "" {
		name += " " + filepath.Base(filename)
	}
	timer := telemetry.FromContext(ctx).Start(name)
	defer timer.End()

	doc, err := newParser(data, filename).parse()
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (p *Parser) parse() (*ast.Document, error) {
	doc := &ast.Document{
		Filename: p.s.filename,
		Entries:  make([]ast.Entry, 0, len(p.s.lines)/3+1),
	}

	for !p.s.atEOF() {
		entry, err := p.parseEntry()
		if err != nil {
			return nil, err
		}
		doc.Entries = append(doc.Entries, entry)
	}

	return doc, nil
}

// parseEntry chooses the production from the first character of the line.
// Every branch consumes all the lines of the entry it returns.
func (p *Parser) parseEntry() (ast.Entry, error) {
	s := p.s
	text := s.text()

	if isBlank(text) {
		entry := &ast.BlankLine{Pos: s.position()}
		s.nextLine()
		return entry, nil
	}

	switch ch := text[0]; {
	case isSpace(ch):
		return p.parseIndentedComment()
	case isDigit(ch):
		return p.parseTransaction()
	case ch == ';' || ch == '#' || ch == '*':
		return p.parseComment(), nil
	case ch == 'P' && len(text) > 1 && isSpace(text[1]):
		return p.parsePriceDirective()
	}

	return p.parseDirective()
}

// parseComment parses a top-level comment line.
func (p *Parser) parseComment() *ast.Comment {
	s := p.s
	text := s.text()
	c := &ast.Comment{
		Pos:    s.position(),
		Marker: text[0],
		Text:   string(bytes.TrimRight(text[1:], " \t")),
	}
	s.nextLine()
	return c
}

// parseIndentedComment parses an indented comment outside any transaction or
// directive block. Other indented lines cannot start an entry.
func (p *Parser) parseIndentedComment() (*ast.Comment, error) {
	s := p.s
	pos := s.position()
	s.skipSpace()

	text := s.text()
	if !isCommentMarker(s.peekChar()) {
		return nil, s.errorAt(0, UnrecognizedEntry, "unexpected indented line %q outside of a transaction", s.word())
	}

	c := &ast.Comment{
		Pos:    pos,
		Marker: text[s.pos],
		Text:   string(bytes.TrimRight(text[s.pos+1:], " \t")),
		Indent: string(text[:s.pos]),
	}
	s.nextLine()
	return c, nil
}

// parseBlockComment captures every line up to "end comment" verbatim.
// The "comment" keyword has been consumed.
func (p *Parser) parseBlockComment(pos ast.Position) (*ast.Comment, error) {
	s := p.s
	opening := string(s.text())
	c := &ast.Comment{
		Pos:    pos,
		Block:  true,
		Header: string(bytes.TrimSpace(s.rest())),
	}
	s.nextLine()

	for !s.atEOF() {
		if s.consumeKeywords("end", "comment") {
			c.Footer = string(bytes.TrimSpace(s.rest()))
			s.nextLine()
			return c, nil
		}
		c.Lines = append(c.Lines, string(s.text()))
		s.nextLine()
	}

	return nil, &ParseError{
		Kind:    UnterminatedBlockComment,
		Pos:     pos,
		Message: `block comment is not closed by "end comment"`,
		Snippet: opening,
	}
}
