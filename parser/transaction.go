package parser

import (
	"bytes"
	"strings"

	"github.com/robinvdvleuten/hledger/ast"
)

// parseTransaction parses a transaction header and its postings:
//
//	2024-01-15=2024-01-17 * (1042) Grocery Store | weekly  ; food
//	    expenses:food        $45.60
//	    assets:checking
func (p *Parser) parseTransaction() (*ast.Transaction, error) {
	s := p.s
	header := s.text()
	txn := &ast.Transaction{Pos: s.position()}

	date, err := p.parseDate()
	if err != nil {
		return nil, err
	}
	txn.Date = date

	if s.peekChar() == '=' {
		s.advance(1)
		secondary, err := p.parseDate()
		if err != nil {
			return nil, err
		}
		txn.SecondaryDate = &secondary
	}

	if err := p.parseHeader(txn); err != nil {
		return nil, err
	}
	s.nextLine()

	if err := p.parsePostings(txn); err != nil {
		return nil, err
	}

	if len(txn.Postings) == 0 {
		return nil, &ParseError{
			Kind:    EmptyTransaction,
			Pos:     txn.Pos,
			Message: "transaction has no postings",
			Snippet: string(header),
		}
	}

	return txn, nil
}

// parseHeader parses what follows the dates on a transaction header. The
// first non-space character decides, in order of priority: a standalone '*'
// or '!' is a status, '(' always opens a code, and anything else starts the
// description.
func (p *Parser) parseHeader(txn *ast.Transaction) error {
	s := p.s
	if s.atEOL() {
		return nil
	}
	if isCommentMarker(s.peekChar()) {
		txn.Comment = p.parseInlineComment()
		return nil
	}
	if spaces, tabs := s.skipSpace(); spaces+tabs == 0 {
		return s.errorf(UnexpectedToken, "expected whitespace after date, found %q", s.word())
	}

	if ch := s.peekChar(); ch == '*' || ch == '!' {
		if next := s.peekCharAt(1); next != 0 && !isSpace(next) && next != ';' {
			return s.errorAt(s.pos+1, UnexpectedToken, "unexpected %q after status %q", next, ch)
		}
		txn.Status = statusOf(ch)
		s.advance(1)

		if done, err := p.headerGap(txn, "status"); done || err != nil {
			return err
		}
	}

	if s.peekChar() == '(' {
		code, err := p.parseCode()
		if err != nil {
			return err
		}
		txn.Code = code
		txn.HasCode = true

		if done, err := p.headerGap(txn, "code"); done || err != nil {
			return err
		}
	}

	return p.parseDescription(txn)
}

// headerGap consumes the whitespace after a status or code. It reports done
// when the header ended or only an inline comment followed.
func (p *Parser) headerGap(txn *ast.Transaction, after string) (bool, error) {
	s := p.s
	spaces, tabs := s.skipSpace()
	if s.atEOL() {
		return true, nil
	}
	if isCommentMarker(s.peekChar()) {
		txn.Comment = p.parseInlineComment()
		return true, nil
	}
	if spaces+tabs == 0 {
		return false, s.errorf(UnexpectedToken, "expected whitespace after %s, found %q", after, s.word())
	}
	return false, nil
}

// parseDescription reads the description up to the end of the line or the
// first ';'. A "payee | note" description is split on the first '|'.
func (p *Parser) parseDescription(txn *ast.Transaction) error {
	s := p.s
	if s.atEOL() {
		return nil
	}

	switch ch := s.peekChar(); ch {
	case ';', '#':
		txn.Comment = p.parseInlineComment()
		return nil
	case '*', '!':
		return s.errorf(UnexpectedToken, "description cannot start with %q", ch)
	}

	rest := s.rest()
	end := bytes.IndexByte(rest, ';')
	if end < 0 {
		end = len(rest)
	}
	txn.Description = splitDescription(string(bytes.TrimRight(rest[:end], " \t")))
	s.advance(end)

	if !s.atEOL() {
		txn.Comment = p.parseInlineComment()
	}
	return nil
}

func splitDescription(text string) ast.Description {
	if i := strings.IndexByte(text, '|'); i >= 0 {
		if payee := strings.TrimSpace(text[:i]); payee != "" {
			return ast.Description{Payee: payee, Note: strings.TrimSpace(text[i+1:])}
		}
	}
	return ast.Description{Text: text}
}

// parsePostings consumes indented lines following a transaction header.
// Indented comment lines attach to the preceding posting, or to the
// transaction when no posting was seen yet.
func (p *Parser) parsePostings(txn *ast.Transaction) error {
	s := p.s
	for !s.atEOF() {
		text := s.text()
		if isBlank(text) || !isIndented(text) {
			return nil
		}

		s.skipSpace()
		if isCommentMarker(s.peekChar()) {
			comment := p.parseInlineComment()
			if n := len(txn.Postings); n > 0 {
				txn.Postings[n-1].Comments = append(txn.Postings[n-1].Comments, comment)
			} else {
				txn.Comments = append(txn.Comments, comment)
			}
			s.nextLine()
			continue
		}

		posting, err := p.parsePosting()
		if err != nil {
			return err
		}
		txn.Postings = append(txn.Postings, posting)
		s.nextLine()
	}
	return nil
}

// parsePosting parses one posting. The cursor is past the indentation.
//
//	! assets:broker  10 AAPL @ $150 = 30 AAPL  ; buy
func (p *Parser) parsePosting() (*ast.Posting, error) {
	s := p.s
	posting := &ast.Posting{Pos: s.position()}

	if ch := s.peekChar(); ch == '*' || ch == '!' {
		posting.Status = statusOf(ch)
		s.advance(1)
		s.skipSpace()
	}

	account, err := p.parseAccount()
	if err != nil {
		return nil, err
	}
	posting.Account = account

	spaces, tabs := s.skipSpace()
	if s.atEOL() {
		return posting, nil
	}
	if isCommentMarker(s.peekChar()) {
		posting.Comment = p.parseInlineComment()
		return posting, nil
	}
	if tabs == 0 && spaces < 2 {
		return nil, s.errorf(MissingPostingSeparator,
			"amount %q must be separated from account %q by at least two spaces or a tab", s.word(), account.Name)
	}

	if s.peekChar() != '=' {
		amount, err := p.parseAmount(true)
		if err != nil {
			return nil, err
		}
		posting.Amount = amount
		s.skipSpace()
	}

	if s.peekChar() == '=' {
		assertion, err := p.parseBalanceAssertion()
		if err != nil {
			return nil, err
		}
		posting.Assertion = assertion
		s.skipSpace()
	}

	if isCommentMarker(s.peekChar()) {
		posting.Comment = p.parseInlineComment()
	}
	if !s.atEOL() {
		return nil, s.errorf(UnexpectedToken, "unexpected %q after posting amount", s.word())
	}

	return posting, nil
}

// parseAccount parses a real account name, a "(virtual)" account or a
// "[balanced virtual]" account.
func (p *Parser) parseAccount() (ast.Account, error) {
	s := p.s
	start := s.pos

	if open := s.peekChar(); open == '(' || open == '[' {
		kind, closing := ast.VirtualAccount, byte(')')
		if open == '[' {
			kind, closing = ast.BalancedVirtualAccount, ']'
		}

		s.advance(1)
		name := p.scanAccountName()
		if len(name) == 0 {
			err := s.errorf(UnexpectedToken, "expected account name, found %q", s.word())
			s.pos = start
			return ast.Account{}, err
		}
		if s.peekChar() != closing {
			err := s.errorf(UnexpectedToken, "expected %q to close account %q", closing, name)
			s.pos = start
			return ast.Account{}, err
		}
		s.advance(1)
		return ast.Account{Kind: kind, Name: p.interner.InternBytes(name)}, nil
	}

	name := p.scanAccountName()
	if len(name) == 0 {
		return ast.Account{}, s.errorf(UnexpectedToken, "expected account name, found %q", s.word())
	}

	if i := amountTail(name); i >= 0 && amountEndsPosting(s.rest()) {
		s.pos = start
		return ast.Account{}, s.errorAt(start+i, MissingPostingSeparator,
			"amount %q must be separated from account %q by at least two spaces or a tab", name[i:], name[:i-1])
	}

	return ast.Account{Kind: ast.RealAccount, Name: p.interner.InternBytes(name)}, nil
}
