package parser

import (
	"bytes"
	"strconv"

	"github.com/robinvdvleuten/hledger/ast"
)

type keyword struct {
	name  string
	words []string
}

// directiveKeywords lists the keyword-introduced entries. Longer forms sharing
// a first word come before shorter ones.
var directiveKeywords = []keyword{
	{"comment", []string{"comment"}},
	{"account", []string{"account"}},
	{"commodity", []string{"commodity"}},
	{"include", []string{"include"}},
	{"tag", []string{"tag"}},
	{"payee", []string{"payee"}},
	{"decimal-mark", []string{"decimal-mark"}},
	{"alias", []string{"alias"}},
	{"end aliases", []string{"end", "aliases"}},
	{"end apply account", []string{"end", "apply", "account"}},
	{"apply account", []string{"apply", "account"}},
}

func isASCIILetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

// peekKeyword returns the directive keyword at the cursor without consuming it,
// or "" when the line does not start with one.
func (s *Scanner) peekKeyword() string {
	start := s.pos
	for _, kw := range directiveKeywords {
		if s.consumeKeywords(kw.words...) {
			s.pos = start
			return kw.name
		}
	}

	switch next := s.peekCharAt(1); s.peekChar() {
	case 'Y':
		if isDigit(next) || isSpace(next) {
			return "Y"
		}
	case 'D':
		if !isASCIILetter(next) {
			return "D"
		}
	}
	return ""
}

// parseDirective dispatches on the keyword starting the line.
func (p *Parser) parseDirective() (ast.Entry, error) {
	s := p.s
	pos := s.position()

	kw := s.peekKeyword()
	if kw == "" {
		return nil, s.errorf(UnrecognizedEntry, "unrecognized entry starting with %q", s.word())
	}
	for _, k := range directiveKeywords {
		if k.name == kw {
			s.consumeKeywords(k.words...)
			break
		}
	}

	var (
		entry ast.Entry
		err   error
	)
	switch kw {
	case "comment":
		// Block comments consume their own lines.
		return p.parseBlockComment(pos)
	case "account":
		return p.parseAccountDirective(pos)
	case "commodity":
		return p.parseCommodityDirective(pos)
	case "include":
		entry, err = p.parseNamed("file path", func(v string) ast.Entry {
			return &ast.IncludeDirective{Pos: pos, Path: v}
		})
	case "tag":
		entry, err = p.parseNamed("tag name", func(v string) ast.Entry {
			return &ast.TagDirective{Pos: pos, Name: v}
		})
	case "payee":
		entry, err = p.parseNamed("payee name", func(v string) ast.Entry {
			return &ast.PayeeDirective{Pos: pos, Name: v}
		})
	case "apply account":
		entry, err = p.parseNamed("account name", func(v string) ast.Entry {
			return &ast.ApplyAccountDirective{Pos: pos, Name: p.interner.Intern(v)}
		})
	case "decimal-mark":
		entry, err = p.parseDecimalMark(pos)
	case "alias":
		entry, err = p.parseAlias(pos)
	case "end aliases":
		entry, err = &ast.EndAliasesDirective{Pos: pos}, p.expectEOL(kw)
	case "end apply account":
		entry, err = &ast.EndApplyAccountDirective{Pos: pos}, p.expectEOL(kw)
	case "Y":
		entry, err = p.parseYear(pos)
	case "D":
		entry, err = p.parseDefaultCommodity(pos)
	}
	if err != nil {
		return nil, err
	}

	s.nextLine()
	return entry, nil
}

// expectEOL fails unless only whitespace remains on the line.
func (p *Parser) expectEOL(after string) error {
	s := p.s
	s.skipSpace()
	if !s.atEOL() {
		return s.errorf(UnexpectedToken, "unexpected %q after %s", s.word(), after)
	}
	return nil
}

// payload consumes the rest of the line, trimmed. It must not be empty.
func (p *Parser) payload(what string) (string, error) {
	s := p.s
	s.skipSpace()
	text := bytes.TrimRight(s.rest(), " \t")
	if len(text) == 0 {
		return "", s.errorf(UnexpectedToken, "expected %s", what)
	}
	s.advance(len(s.rest()))
	return string(text), nil
}

// parseNamed parses directives whose payload is the rest of the line.
func (p *Parser) parseNamed(what string, build func(string) ast.Entry) (ast.Entry, error) {
	value, err := p.payload(what)
	if err != nil {
		return nil, err
	}
	return build(value), nil
}

// parseDecimalMark parses "decimal-mark ." or "decimal-mark ,".
func (p *Parser) parseDecimalMark(pos ast.Position) (*ast.DecimalMarkDirective, error) {
	s := p.s
	s.skipSpace()
	col := s.pos
	value, err := p.payload("decimal mark '.' or ','")
	if err != nil {
		return nil, err
	}
	if value != "." && value != "," {
		return nil, s.errorAt(col, UnexpectedToken, "decimal mark must be '.' or ',', found %q", value)
	}
	return &ast.DecimalMarkDirective{Pos: pos, Mark: value[0]}, nil
}

// parseAlias parses "alias PATTERN = REPLACEMENT". The payload is split on the
// first '=' that is not escaped with a backslash.
func (p *Parser) parseAlias(pos ast.Position) (*ast.AliasDirective, error) {
	s := p.s
	s.skipSpace()
	col := s.pos
	value, err := p.payload("alias PATTERN = REPLACEMENT")
	if err != nil {
		return nil, err
	}

	eq := -1
	for i := 0; i < len(value); i++ {
		if value[i] == '=' && (i == 0 || value[i-1] != '\\') {
			eq = i
			break
		}
	}
	if eq < 0 {
		return nil, s.errorAt(col, UnexpectedToken, "expected '=' in alias %q", value)
	}

	pattern := string(bytes.TrimSpace([]byte(value[:eq])))
	replacement := string(bytes.TrimSpace([]byte(value[eq+1:])))
	if pattern == "" || replacement == "" {
		return nil, s.errorAt(col, UnexpectedToken, "alias %q needs both a pattern and a replacement", value)
	}

	return &ast.AliasDirective{Pos: pos, Pattern: pattern, Replacement: replacement}, nil
}

// parseYear parses "Y2024" or "Y 2024". The cursor is on 'Y'.
func (p *Parser) parseYear(pos ast.Position) (*ast.YearDirective, error) {
	s := p.s
	s.advance(1)
	s.skipSpace()

	col := s.pos
	digits := s.match(isDigit)
	if len(digits) != 4 {
		return nil, s.errorAt(col, UnexpectedToken, "expected a 4-digit year, found %q", s.word())
	}
	year, _ := strconv.Atoi(string(digits))

	if err := p.expectEOL("year"); err != nil {
		return nil, err
	}
	return &ast.YearDirective{Pos: pos, Year: year}, nil
}

// parseDefaultCommodity parses "D" followed by an amount without price.
// The cursor is on 'D'.
func (p *Parser) parseDefaultCommodity(pos ast.Position) (*ast.DefaultCommodityDirective, error) {
	s := p.s
	s.advance(1)
	s.skipSpace()

	amount, err := p.parseAmount(false)
	if err != nil {
		return nil, err
	}
	if err := p.expectEOL("default commodity amount"); err != nil {
		return nil, err
	}
	return &ast.DefaultCommodityDirective{Pos: pos, Amount: amount}, nil
}

// parseAccountDirective parses "account NAME [; comment]" and its sub-lines.
func (p *Parser) parseAccountDirective(pos ast.Position) (*ast.AccountDirective, error) {
	s := p.s
	s.skipSpace()

	name := p.scanAccountName()
	if len(name) == 0 {
		return nil, s.errorf(UnexpectedToken, "expected account name, found %q", s.word())
	}
	d := &ast.AccountDirective{Pos: pos, Name: p.interner.InternBytes(name)}

	s.skipSpace()
	if isCommentMarker(s.peekChar()) {
		d.Comment = p.parseInlineComment()
	}
	if !s.atEOL() {
		return nil, s.errorf(UnexpectedToken, "unexpected %q after account name", s.word())
	}

	s.nextLine()
	d.SubLines = p.parseSubLines()
	return d, nil
}

// parseCommodityDirective parses "commodity SYMBOL-OR-SAMPLE [; comment]" and its sub-lines.
func (p *Parser) parseCommodityDirective(pos ast.Position) (*ast.CommodityDirective, error) {
	s := p.s
	s.skipSpace()

	rest := s.rest()
	end := commentStart(rest)
	if end < 0 {
		end = len(rest)
	}
	commodity := bytes.TrimRight(rest[:end], " \t")
	if len(commodity) == 0 {
		return nil, s.errorf(UnexpectedToken, "expected commodity")
	}
	d := &ast.CommodityDirective{Pos: pos, Commodity: p.interner.InternBytes(commodity)}
	s.advance(end)

	if !s.atEOL() {
		d.Comment = p.parseInlineComment()
	}

	s.nextLine()
	d.SubLines = p.parseSubLines()
	return d, nil
}

// parseSubLines consumes the indented lines following an account or commodity
// directive. The block ends at the first blank or unindented line. A line
// starting with a comment marker, '*' included, is always a comment.
func (p *Parser) parseSubLines() []*ast.SubLine {
	s := p.s
	var lines []*ast.SubLine

	for !s.atEOF() {
		text := s.text()
		if isBlank(text) || !isIndented(text) {
			break
		}

		s.skipSpace()
		sub := &ast.SubLine{Pos: s.position()}
		if ch := s.peekChar(); isCommentMarker(ch) || ch == '*' {
			sub.Comment = p.parseInlineComment()
		} else {
			rest := s.rest()
			end := commentStart(rest)
			if end < 0 {
				end = len(rest)
			}
			sub.Text = string(bytes.TrimRight(rest[:end], " \t"))
			s.advance(end)
			if !s.atEOL() {
				sub.Comment = p.parseInlineComment()
			}
		}

		lines = append(lines, sub)
		s.nextLine()
	}

	return lines
}

// parsePriceDirective parses "P DATE COMMODITY AMOUNT [; comment]".
// The cursor is on 'P'.
func (p *Parser) parsePriceDirective() (*ast.PriceDirective, error) {
	s := p.s
	d := &ast.PriceDirective{Pos: s.position()}

	s.advance(1)
	s.skipSpace()

	date, err := p.parseDate()
	if err != nil {
		return nil, err
	}
	d.Date = date

	if spaces, tabs := s.skipSpace(); spaces+tabs == 0 {
		return nil, s.errorf(UnexpectedToken, "expected whitespace after date, found %q", s.word())
	}

	commodity, ok := p.scanCommodity()
	if !ok {
		return nil, s.errorf(UnexpectedToken, "expected commodity, found %q", s.word())
	}
	d.Commodity = *commodity
	s.skipSpace()

	price, err := p.parseAmount(false)
	if err != nil {
		return nil, err
	}
	d.Price = price

	s.skipSpace()
	if isCommentMarker(s.peekChar()) {
		d.Comment = p.parseInlineComment()
	}
	if !s.atEOL() {
		return nil, s.errorf(UnexpectedToken, "unexpected %q after price", s.word())
	}

	s.nextLine()
	return d, nil
}
