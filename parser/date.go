package parser

import (
	"github.com/robinvdvleuten/hledger/ast"
)

func isDateSeparator(ch byte) bool {
	return ch == '-' || ch == '/' || ch == '.'
}

// readNumber reads at most max digits from b.
func readNumber(b []byte, max int) (value, n int) {
	for n < len(b) && n < max && isDigit(b[n]) {
		value = value*10 + int(b[n]-'0')
		n++
	}
	return value, n
}

// parseDate parses YYYY-MM-DD where the month and day have one or two digits
// and the separator is '-', '/' or '.', used consistently. Only the shape is
// checked: 2024-13-40 is a valid date here.
func (p *Parser) parseDate() (ast.Date, error) {
	s := p.s
	rest := s.rest()
	malformed := func() (ast.Date, error) {
		return ast.Date{}, s.errorf(MalformedDate, "malformed date %q, expected YYYY-MM-DD", s.word())
	}

	year, n := readNumber(rest, 4)
	if n != 4 {
		return malformed()
	}
	i := n

	if i >= len(rest) || !isDateSeparator(rest[i]) {
		return malformed()
	}
	sep := rest[i]
	i++

	month, n := readNumber(rest[i:], 2)
	if n == 0 {
		return malformed()
	}
	shortMonth := n == 1
	i += n

	if i >= len(rest) || rest[i] != sep {
		return malformed()
	}
	i++

	day, n := readNumber(rest[i:], 2)
	if n == 0 {
		return malformed()
	}
	shortDay := n == 1
	i += n

	if i < len(rest) && isDigit(rest[i]) {
		return malformed()
	}

	s.advance(i)
	return ast.Date{
		Year: year, Month: month, Day: day, Sep: ast.DateSeparator(sep),
		ShortMonth: shortMonth, ShortDay: shortDay,
	}, nil
}
