package ast

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateSeparator is the character used between the year, month and day of a date.
// It is preserved so dates can be re-emitted exactly as written.
type DateSeparator byte

const (
	DateDash  DateSeparator = '-'
	DateSlash DateSeparator = '/'
	DateDot   DateSeparator = '.'
)

// Date is a calendar date as written in the journal. The parser only checks the
// digit counts, so the month and day may be out of range (2024-13-40 is a valid
// Date); use Time to get a calendar-checked value.
type Date struct {
	Year  int
	Month int
	Day   int
	Sep   DateSeparator

	// ShortMonth and ShortDay record a single-digit month or day (2024-1-5)
	// so it is rendered without zero padding.
	ShortMonth bool
	ShortDay   bool
}

// String renders the date as written: its original separator, and the month
// and day zero-padded to two digits unless they were written with one.
func (d Date) String() string {
	sep := d.Sep
	if sep == 0 {
		sep = DateDash
	}
	month, day := "%02d", "%02d"
	if d.ShortMonth {
		month = "%d"
	}
	if d.ShortDay {
		day = "%d"
	}
	return fmt.Sprintf("%04d%c"+month+"%c"+day, d.Year, sep, d.Month, sep, d.Day)
}

// Time converts the date to a time.Time in UTC.
// Returns an error if the date does not exist in the calendar.
func (d Date) Time() (time.Time, error) {
	t := time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
	if t.Year() != d.Year || int(t.Month()) != d.Month || t.Day() != d.Day {
		return time.Time{}, fmt.Errorf("invalid calendar date %s", d)
	}
	return t, nil
}

// Status is the clearing status of a transaction or posting.
type Status int

const (
	StatusNone Status = iota
	StatusCleared
	StatusPending
)

// String returns the journal mark for the status ("*", "!" or "").
func (s Status) String() string {
	switch s {
	case StatusCleared:
		return "*"
	case StatusPending:
		return "!"
	default:
		return ""
	}
}

// AccountKind distinguishes real accounts from the two virtual forms.
type AccountKind int

const (
	// RealAccount is a plain account name such as assets:cash.
	RealAccount AccountKind = iota
	// VirtualAccount is written in parentheses and is not required to balance.
	VirtualAccount
	// BalancedVirtualAccount is written in brackets and must balance.
	BalancedVirtualAccount
)

func (k AccountKind) String() string {
	switch k {
	case VirtualAccount:
		return "virtual"
	case BalancedVirtualAccount:
		return "balanced-virtual"
	default:
		return "real"
	}
}

// Account is an account reference in a posting.
//
// Example accounts:
//
//	assets:bank:checking
//	(reimbursable:travel)
//	[equity:pending]
type Account struct {
	Kind AccountKind
	Name string
}

// Segments splits the account name on colons.
func (a Account) Segments() []string {
	return strings.Split(a.Name, ":")
}

// String renders the account with its virtual brackets, if any.
func (a Account) String() string {
	switch a.Kind {
	case VirtualAccount:
		return "(" + a.Name + ")"
	case BalancedVirtualAccount:
		return "[" + a.Name + "]"
	default:
		return a.Name
	}
}

// Quantity is the literal numeric text of an amount: an optional sign, digits,
// an optional fractional part using '.' or ',' and an optional exponent.
// It is stored as written to avoid any precision loss.
type Quantity string

// Decimal converts the literal to an arbitrary-precision decimal.
// A ',' fractional separator is accepted, since a quantity carries at most one separator.
func (q Quantity) Decimal() (decimal.Decimal, error) {
	return decimal.NewFromString(strings.Replace(string(q), ",", ".", 1))
}

// Precision returns the number of fractional digits represented by the literal.
func (q Quantity) Precision() int {
	d, err := q.Decimal()
	if err != nil {
		return 0
	}
	if exp := d.Exponent(); exp < 0 {
		return int(-exp)
	}
	return 0
}

// Commodity is a currency or unit symbol. Quoted symbols may contain any
// character except a double quote; the quotes are not part of Symbol.
type Commodity struct {
	Symbol string
	Quoted bool
}

func (c Commodity) String() string {
	if c.Quoted {
		return `"` + c.Symbol + `"`
	}
	return c.Symbol
}

// CommodityPosition records on which side of the quantity the commodity was written.
type CommodityPosition int

const (
	// NoCommodity means the amount has no commodity symbol.
	NoCommodity CommodityPosition = iota
	// CommodityPrefix means the symbol precedes the quantity, e.g. $100.
	CommodityPrefix
	// CommoditySuffix means the symbol follows the quantity, e.g. 100 USD.
	CommoditySuffix
)

// Amount represents a quantity with an optional commodity and an optional price.
//
// Example amounts:
//
//	$100.50
//	100.50 USD
//	10 AAPL @ 150 USD
//	10 AAPL @@ $1500
type Amount struct {
	Quantity  Quantity
	Commodity *Commodity
	Position  CommodityPosition
	Spaced    bool // Whitespace was written between commodity and quantity
	Price     *Price
	Span      Span
}

// String renders the amount as it would appear in a journal.
func (a *Amount) String() string {
	if a == nil {
		return ""
	}
	var buf strings.Builder
	a.writeTo(&buf)
	return buf.String()
}

func (a *Amount) writeTo(buf *strings.Builder) {
	sep := ""
	if a.Spaced {
		sep = " "
	}
	switch {
	case a.Commodity != nil && a.Position == CommodityPrefix:
		buf.WriteString(a.Commodity.String())
		buf.WriteString(sep)
		buf.WriteString(string(a.Quantity))
	case a.Commodity != nil:
		buf.WriteString(string(a.Quantity))
		buf.WriteString(sep)
		buf.WriteString(a.Commodity.String())
	default:
		buf.WriteString(string(a.Quantity))
	}

	if a.Price != nil && a.Price.Amount != nil {
		buf.WriteByte(' ')
		buf.WriteString(a.Price.Kind.String())
		buf.WriteByte(' ')
		a.Price.Amount.writeTo(buf)
	}
}

// PriceKind distinguishes per-unit from total prices.
type PriceKind int

const (
	UnitPrice  PriceKind = iota // @
	TotalPrice                  // @@
)

func (k PriceKind) String() string {
	if k == TotalPrice {
		return "@@"
	}
	return "@"
}

// Price is a conversion price attached to an amount.
type Price struct {
	Kind   PriceKind
	Amount *Amount
}

// BalanceAssertion declares the expected running balance of the posting's account.
//
//	assets:checking  $100 = $1000     ; weak, single commodity
//	assets:checking  $100 == $1000    ; strong, no other commodities
//	assets           $100 =* $1000    ; includes subaccounts
type BalanceAssertion struct {
	Strict    bool // "==" rather than "="
	Inclusive bool // "*" flag: subaccount balances are included
	Amount    *Amount
}

// Operator returns the assertion operator as written.
func (b *BalanceAssertion) Operator() string {
	op := "="
	if b.Strict {
		op = "=="
	}
	if b.Inclusive {
		op += "*"
	}
	return op
}

// Description is the free text of a transaction header. When the text contains
// a '|' separator it is split into Payee and Note; otherwise the whole text is
// kept in Text.
type Description struct {
	Text  string
	Payee string
	Note  string
}

// HasPayee reports whether the description used the "payee | note" form.
func (d Description) HasPayee() bool {
	return d.Payee != ""
}

// IsZero reports whether the transaction had no description at all.
func (d Description) IsZero() bool {
	return d.Text == "" && d.Payee == ""
}

// String renders the description as written in the journal.
func (d Description) String() string {
	if !d.HasPayee() {
		return d.Text
	}
	if d.Note == "" {
		return d.Payee + " |"
	}
	return d.Payee + " | " + d.Note
}

// InlineComment is a comment closing a line, introduced by ';' or '#'.
type InlineComment struct {
	Pos    Position
	Marker byte
	Text   string // Comment text after the marker, without the marker
}

// String renders the comment with its marker.
func (c *InlineComment) String() string {
	if c == nil {
		return ""
	}
	if c.Text == "" {
		return string(c.Marker)
	}
	return string(c.Marker) + " " + c.Text
}
