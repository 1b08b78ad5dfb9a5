package ast

// Directive is a keyword-introduced top-level entry such as "account" or "include".
// Directive returns the keyword as written in a journal.
type Directive interface {
	Entry
	Directive() string
}

var (
	_ Directive = (*AccountDirective)(nil)
	_ Directive = (*CommodityDirective)(nil)
	_ Directive = (*IncludeDirective)(nil)
	_ Directive = (*TagDirective)(nil)
	_ Directive = (*PayeeDirective)(nil)
	_ Directive = (*DecimalMarkDirective)(nil)
	_ Directive = (*AliasDirective)(nil)
	_ Directive = (*EndAliasesDirective)(nil)
	_ Directive = (*ApplyAccountDirective)(nil)
	_ Directive = (*EndApplyAccountDirective)(nil)
	_ Directive = (*YearDirective)(nil)
	_ Directive = (*DefaultCommodityDirective)(nil)
)

// AccountDirective declares an account, optionally followed by indented
// sub-directive lines.
//
//	account assets:bank:checking  ; main account
//	    note the joint account
type AccountDirective struct {
	Pos      Position
	Name     string
	Comment  *InlineComment
	SubLines []*SubLine
}

func (d *AccountDirective) Position() Position { return d.Pos }
func (*AccountDirective) entry()               {}
func (*AccountDirective) Directive() string    { return "account" }

// CommodityDirective declares a commodity or a sample amount showing its display style.
//
//	commodity $1,000.00
//	    format $1,000.00
type CommodityDirective struct {
	Pos       Position
	Commodity string // Rest of the line, trimmed
	Comment   *InlineComment
	SubLines  []*SubLine
}

func (d *CommodityDirective) Position() Position { return d.Pos }
func (*CommodityDirective) entry()               {}
func (*CommodityDirective) Directive() string    { return "commodity" }

// IncludeDirective pulls another journal file in. Path is left unresolved.
type IncludeDirective struct {
	Pos  Position
	Path string
}

func (d *IncludeDirective) Position() Position { return d.Pos }
func (*IncludeDirective) entry()               {}
func (*IncludeDirective) Directive() string    { return "include" }

// TagDirective declares a tag name.
type TagDirective struct {
	Pos  Position
	Name string
}

func (d *TagDirective) Position() Position { return d.Pos }
func (*TagDirective) entry()               {}
func (*TagDirective) Directive() string    { return "tag" }

// PayeeDirective declares a payee name.
type PayeeDirective struct {
	Pos  Position
	Name string
}

func (d *PayeeDirective) Position() Position { return d.Pos }
func (*PayeeDirective) entry()               {}
func (*PayeeDirective) Directive() string    { return "payee" }

// DecimalMarkDirective sets the decimal mark, either '.' or ','.
type DecimalMarkDirective struct {
	Pos  Position
	Mark byte
}

func (d *DecimalMarkDirective) Position() Position { return d.Pos }
func (*DecimalMarkDirective) entry()               {}
func (*DecimalMarkDirective) Directive() string    { return "decimal-mark" }

// AliasDirective rewrites account names matching Pattern to Replacement for the
// entries that follow it.
//
//	alias checking = assets:bank:checking
type AliasDirective struct {
	Pos         Position
	Pattern     string
	Replacement string
}

func (d *AliasDirective) Position() Position { return d.Pos }
func (*AliasDirective) entry()               {}
func (*AliasDirective) Directive() string    { return "alias" }

// EndAliasesDirective clears every alias in effect.
type EndAliasesDirective struct {
	Pos Position
}

func (d *EndAliasesDirective) Position() Position { return d.Pos }
func (*EndAliasesDirective) entry()               {}
func (*EndAliasesDirective) Directive() string    { return "end aliases" }

// ApplyAccountDirective prefixes account names of the following entries with Name.
type ApplyAccountDirective struct {
	Pos  Position
	Name string
}

func (d *ApplyAccountDirective) Position() Position { return d.Pos }
func (*ApplyAccountDirective) entry()               {}
func (*ApplyAccountDirective) Directive() string    { return "apply account" }

// EndApplyAccountDirective closes the innermost "apply account" scope.
type EndApplyAccountDirective struct {
	Pos Position
}

func (d *EndApplyAccountDirective) Position() Position { return d.Pos }
func (*EndApplyAccountDirective) entry()               {}
func (*EndApplyAccountDirective) Directive() string    { return "end apply account" }

// YearDirective sets the default year for dates written without one.
//
//	Y2024
type YearDirective struct {
	Pos  Position
	Year int
}

func (d *YearDirective) Position() Position { return d.Pos }
func (*YearDirective) entry()               {}
func (*YearDirective) Directive() string    { return "Y" }

// DefaultCommodityDirective sets the commodity used for bare quantities.
//
//	D $1000.00
type DefaultCommodityDirective struct {
	Pos    Position
	Amount *Amount
}

func (d *DefaultCommodityDirective) Position() Position { return d.Pos }
func (*DefaultCommodityDirective) entry()               {}
func (*DefaultCommodityDirective) Directive() string    { return "D" }

// PriceDirective records the market price of a commodity on a date.
//
//	P 2024-01-15 AAPL $185.50
type PriceDirective struct {
	Pos       Position
	Date      Date
	Commodity Commodity
	Price     *Amount
	Comment   *InlineComment
}

var _ Entry = (*PriceDirective)(nil)

func (p *PriceDirective) Position() Position { return p.Pos }
func (*PriceDirective) entry()               {}

// SubLine is one indented line following an account or commodity directive.
// Text is the trimmed line content up to any inline comment.
type SubLine struct {
	Pos     Position
	Text    string
	Comment *InlineComment
}
