package ast

import (
	"strings"
	"time"
)

// Constructor functions for programmatically building journal nodes, for
// example from CSV importers. Builders use functional options for the
// transaction and posting types.

// NewAmount creates an Amount with the commodity written after the quantity,
// separated by a space. An empty commodity yields a bare quantity.
//
// Example:
//
//	amount := ast.NewAmount("45.60", "EUR") // 45.60 EUR
func NewAmount(quantity, commodity string) *Amount {
	a := &Amount{Quantity: Quantity(quantity)}
	if commodity != "" {
		a.Commodity = newCommodity(commodity)
		a.Position = CommoditySuffix
		a.Spaced = true
	}
	return a
}

// NewPrefixAmount creates an Amount with the commodity written directly before
// the quantity, as is customary for currency symbols.
//
// Example:
//
//	amount := ast.NewPrefixAmount("$", "45.60") // $45.60
func NewPrefixAmount(commodity, quantity string) *Amount {
	return &Amount{
		Quantity:  Quantity(quantity),
		Commodity: newCommodity(commodity),
		Position:  CommodityPrefix,
	}
}

// newCommodity quotes symbols that cannot be written bare.
func newCommodity(symbol string) *Commodity {
	return &Commodity{Symbol: symbol, Quoted: needsQuotes(symbol)}
}

func needsQuotes(symbol string) bool {
	switch symbol {
	case "$", "€", "£", "¥", "₹", "¢":
		return false
	}
	for i, r := range symbol {
		switch {
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return true
		}
	}
	return symbol == ""
}

// WithUnitPrice attaches a per-unit "@" price to the amount and returns it.
func (a *Amount) WithUnitPrice(price *Amount) *Amount {
	a.Price = &Price{Kind: UnitPrice, Amount: price}
	return a
}

// WithTotalPrice attaches a total "@@" price to the amount and returns it.
func (a *Amount) WithTotalPrice(price *Amount) *Amount {
	a.Price = &Price{Kind: TotalPrice, Amount: price}
	return a
}

// NewDate returns a dash-separated Date.
func NewDate(year, month, day int) Date {
	return Date{Year: year, Month: month, Day: day, Sep: DateDash}
}

// NewDateFromTime creates a Date from the calendar date of t.
//
// Example:
//
//	date := ast.NewDateFromTime(time.Now())
func NewDateFromTime(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// NewAccount creates an Account from its written form, recognising the
// "(virtual)" and "[balanced virtual]" notations.
//
// Example:
//
//	account := ast.NewAccount("(budget:food)")
func NewAccount(name string) Account {
	switch {
	case len(name) > 2 && strings.HasPrefix(name, "(") && strings.HasSuffix(name, ")"):
		return Account{Kind: VirtualAccount, Name: name[1 : len(name)-1]}
	case len(name) > 2 && strings.HasPrefix(name, "[") && strings.HasSuffix(name, "]"):
		return Account{Kind: BalancedVirtualAccount, Name: name[1 : len(name)-1]}
	default:
		return Account{Kind: RealAccount, Name: name}
	}
}

// TransactionOption is a functional option for configuring a Transaction.
type TransactionOption func(*Transaction)

// NewTransaction creates a new Transaction with the given date and description.
// Additional fields can be set using functional options.
//
// Example:
//
//	txn := ast.NewTransaction(ast.NewDate(2024, 1, 15), "Grocery Store",
//	    ast.WithStatus(ast.StatusCleared),
//	    ast.WithPostings(
//	        ast.NewPosting("expenses:food", ast.WithAmount(ast.NewPrefixAmount("$", "45.60"))),
//	        ast.NewPosting("assets:checking"),
//	    ),
//	)
func NewTransaction(date Date, description string, opts ...TransactionOption) *Transaction {
	txn := &Transaction{
		Date:        date,
		Description: Description{Text: description},
	}

	for _, opt := range opts {
		opt(txn)
	}

	return txn
}

// WithStatus sets the transaction status.
func WithStatus(status Status) TransactionOption {
	return func(t *Transaction) {
		t.Status = status
	}
}

// WithCode sets the transaction code, written in parentheses.
func WithCode(code string) TransactionOption {
	return func(t *Transaction) {
		t.Code = code
		t.HasCode = code != ""
	}
}

// WithPayee switches the description to the "payee | note" form.
func WithPayee(payee, note string) TransactionOption {
	return func(t *Transaction) {
		t.Description = Description{Payee: payee, Note: note}
	}
}

// WithSecondaryDate sets the secondary date written after '='.
func WithSecondaryDate(date Date) TransactionOption {
	return func(t *Transaction) {
		t.SecondaryDate = &date
	}
}

// WithTransactionComment sets the comment closing the header line.
func WithTransactionComment(text string) TransactionOption {
	return func(t *Transaction) {
		t.Comment = &InlineComment{Marker: ';', Text: text}
	}
}

// WithPostings sets the postings for the transaction.
func WithPostings(postings ...*Posting) TransactionOption {
	return func(t *Transaction) {
		t.Postings = postings
	}
}

// PostingOption is a functional option for configuring a Posting.
type PostingOption func(*Posting)

// NewPosting creates a new Posting for the given account, see NewAccount.
func NewPosting(account string, opts ...PostingOption) *Posting {
	posting := &Posting{
		Account: NewAccount(account),
	}

	for _, opt := range opts {
		opt(posting)
	}

	return posting
}

// WithAmount sets the posting amount.
func WithAmount(amount *Amount) PostingOption {
	return func(p *Posting) {
		p.Amount = amount
	}
}

// WithPostingStatus sets the posting status.
func WithPostingStatus(status Status) PostingOption {
	return func(p *Posting) {
		p.Status = status
	}
}

// WithAssertion adds a "=" balance assertion, or "==" when strict is set.
func WithAssertion(amount *Amount, strict bool) PostingOption {
	return func(p *Posting) {
		p.Assertion = &BalanceAssertion{Strict: strict, Amount: amount}
	}
}

// WithPostingComment sets the comment closing the posting line.
func WithPostingComment(text string) PostingOption {
	return func(p *Posting) {
		p.Comment = &InlineComment{Marker: ';', Text: text}
	}
}
