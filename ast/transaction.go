package ast

// Transaction records the movement of commodities between accounts. It starts
// with a header line holding the date and optional status, code and description,
// followed by one or more indented postings.
//
// Example:
//
//	2024-01-15=2024-01-17 * (1042) Grocery Store | weekly shopping  ; food
//	    expenses:food        $45.60
//	    assets:checking
type Transaction struct {
	Pos           Position
	Date          Date
	SecondaryDate *Date
	Status        Status
	Code          string
	HasCode       bool // Distinguishes "()" from no code; the parser rejects an empty code
	Description   Description
	Comment       *InlineComment   // Comment closing the header line
	Comments      []*InlineComment // Indented comment lines before the first posting
	Postings      []*Posting
}

var _ Entry = (*Transaction)(nil)

func (t *Transaction) Position() Position { return t.Pos }
func (*Transaction) entry()               {}

// Posting is a single indented line of a transaction naming an account and an
// optional amount. A posting without an amount lets its value be inferred.
//
// Example:
//
//	! assets:broker     10 AAPL @ $150 = 30 AAPL  ; buy
type Posting struct {
	Pos       Position
	Status    Status
	Account   Account
	Amount    *Amount
	Assertion *BalanceAssertion
	Comment   *InlineComment   // Comment closing the posting line
	Comments  []*InlineComment // Indented comment lines following the posting
}

// HasAmount reports whether the posting carries an explicit amount.
func (p *Posting) HasAmount() bool {
	return p.Amount != nil
}
