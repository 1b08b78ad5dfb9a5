package parser

import (
	"github.com/robinvdvleuten/hledger/ast"
)

// parseAmount parses a quantity with an optional commodity on either side:
//
//	$100.50
//	EUR 100
//	100.50 USD
//	3 "ACME Corp"
//
// When withPrice is set an "@ price" or "@@ total" annotation may follow.
// Prices themselves cannot carry another price.
func (p *Parser) parseAmount(withPrice bool) (*ast.Amount, error) {
	s := p.s
	start := s.pos
	amount := &ast.Amount{}

	if commodity, ok := p.scanCommodity(); ok {
		spaces, tabs := s.skipSpace()
		qty := p.scanQuantity()
		if qty == "" {
			err := s.errorf(MalformedAmount, "expected quantity after commodity %s, found %q", commodity, s.word())
			s.pos = start
			return nil, err
		}
		amount.Quantity = qty
		amount.Commodity = commodity
		amount.Position = ast.CommodityPrefix
		amount.Spaced = spaces+tabs > 0
	} else {
		qty := p.scanQuantity()
		if qty == "" {
			return nil, s.errorf(MalformedAmount, "expected amount, found %q", s.word())
		}
		amount.Quantity = qty

		mark := s.pos
		spaces, tabs := s.skipSpace()
		if commodity, ok := p.scanCommodity(); ok {
			amount.Commodity = commodity
			amount.Position = ast.CommoditySuffix
			amount.Spaced = spaces+tabs > 0
		} else {
			s.pos = mark
		}
	}

	if withPrice {
		mark := s.pos
		s.skipSpace()
		if s.peekChar() == '@' {
			kind := ast.UnitPrice
			s.advance(1)
			if s.peekChar() == '@' {
				kind = ast.TotalPrice
				s.advance(1)
			}
			s.skipSpace()

			price, err := p.parseAmount(false)
			if err != nil {
				s.pos = start
				return nil, err
			}
			amount.Price = &ast.Price{Kind: kind, Amount: price}
		} else {
			s.pos = mark
		}
	}

	amount.Span = s.span(start)
	return amount, nil
}

// parseBalanceAssertion parses "=", "==", "=*" or "==*" followed by an amount.
// The cursor is on the first '='.
func (p *Parser) parseBalanceAssertion() (*ast.BalanceAssertion, error) {
	s := p.s
	start := s.pos
	assertion := &ast.BalanceAssertion{}

	s.advance(1)
	if s.peekChar() == '=' {
		assertion.Strict = true
		s.advance(1)
	}
	if s.peekChar() == '*' {
		assertion.Inclusive = true
		s.advance(1)
	}
	s.skipSpace()

	amount, err := p.parseAmount(true)
	if err != nil {
		s.pos = start
		return nil, err
	}
	assertion.Amount = amount
	return assertion, nil
}
