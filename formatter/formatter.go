// Package formatter writes an ast.Document back out as hledger journal text.
//
// Output is faithful to the parsed values: dates keep their separator and digit
// counts, amounts keep their commodity placement and literal quantity, and
// comments and blank lines stay where they were. Only horizontal whitespace is normalized, so that
// posting amounts line up in a common column.
package formatter

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/robinvdvleuten/hledger/ast"
	"github.com/robinvdvleuten/hledger/telemetry"
)

const (
	// DefaultIndentation is the default indentation for postings and sub-lines.
	DefaultIndentation = 4

	// MinimumSpacing is the minimum number of spaces between an account and its
	// amount, and before an inline comment. Two spaces is also what the parser
	// requires to tell an amount from the account name.
	MinimumSpacing = 2

	// MaxAmountColumn caps the automatically computed amount column. Longer
	// postings fall back to MinimumSpacing.
	MaxAmountColumn = 60
)

// Formatter handles formatting of journal documents with proper alignment.
type Formatter struct {
	// Indentation is the number of spaces before postings and directive sub-lines.
	Indentation int

	// AmountColumn is the display column (0-indexed) where posting amounts start.
	// If 0, it is calculated from the widest account in the document.
	AmountColumn int

	// AlignAmounts controls whether posting amounts are padded to AmountColumn.
	// When disabled, amounts follow the account after MinimumSpacing spaces.
	AlignAmounts bool

	// PreserveComments controls whether comments are written.
	PreserveComments bool

	// PreserveBlanks controls whether blank lines are written.
	PreserveBlanks bool
}

// Option is a functional option for configuring a Formatter.
type Option func(*Formatter)

// WithIndentation sets the posting indentation in spaces.
func WithIndentation(n int) Option {
	return func(f *Formatter) {
		if n > 0 {
			f.Indentation = n
		}
	}
}

// WithAmountColumn sets a fixed column for posting amounts.
func WithAmountColumn(col int) Option {
	return func(f *Formatter) {
		f.AmountColumn = col
	}
}

// WithAlignAmounts enables or disables amount alignment.
func WithAlignAmounts(align bool) Option {
	return func(f *Formatter) {
		f.AlignAmounts = align
	}
}

// WithPreserveComments enables or disables comment preservation.
func WithPreserveComments(preserve bool) Option {
	return func(f *Formatter) {
		f.PreserveComments = preserve
	}
}

// WithPreserveBlanks enables or disables blank line preservation.
func WithPreserveBlanks(preserve bool) Option {
	return func(f *Formatter) {
		f.PreserveBlanks = preserve
	}
}

// New creates a new Formatter with the given options.
func New(opts ...Option) *Formatter {
	f := &Formatter{
		Indentation:      DefaultIndentation,
		AlignAmounts:     true,
		PreserveComments: true,
		PreserveBlanks:   true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Format formats the given document and writes the output to the writer.
func (f *Formatter) Format(ctx context.Context, doc *ast.Document, w io.Writer) error {
	timer := telemetry.FromContext(ctx).Start("formatter.format")
	defer timer.End()

	column := f.amountColumn(doc.Transactions()...)

	// Buffer all output, then write once
	var buf strings.Builder
	buf.Grow(len(doc.Entries) * 64)

	for _, entry := range doc.Entries {
		switch e := entry.(type) {
		case *ast.Transaction:
			f.formatTransaction(e, column, &buf)
		case *ast.PriceDirective:
			f.formatPrice(e, &buf)
		case *ast.Comment:
			if f.PreserveComments {
				f.formatComment(e, &buf)
			}
		case *ast.BlankLine:
			if f.PreserveBlanks {
				buf.WriteByte('\n')
			}
		case ast.Directive:
			f.formatDirective(e, &buf)
		}
	}

	_, err := io.WriteString(w, buf.String())
	return err
}

// FormatTransaction renders a single transaction, aligned on its own postings
// unless a fixed AmountColumn is configured.
func (f *Formatter) FormatTransaction(t *ast.Transaction) string {
	var buf strings.Builder
	f.formatTransaction(t, f.amountColumn(t), &buf)
	return buf.String()
}

// FormatAmount renders an amount, including its price, as it appears in a journal.
func FormatAmount(a *ast.Amount) string {
	return a.String()
}

// FormatDate renders a date with its original separator.
func FormatDate(d ast.Date) string {
	return d.String()
}

// postingPrefixWidth is the display width of a posting line up to the end of
// its account name.
func (f *Formatter) postingPrefixWidth(p *ast.Posting) int {
	width := f.Indentation
	if p.Status != ast.StatusNone {
		width += 2 // status + space
	}
	return width + runewidth.StringWidth(p.Account.String())
}

// amountColumn determines where posting amounts start.
// Priority: explicit AmountColumn > widest posting prefix in txns.
func (f *Formatter) amountColumn(txns ...*ast.Transaction) int {
	if f.AmountColumn > 0 {
		return f.AmountColumn
	}

	column := 0
	for _, t := range txns {
		for _, p := range t.Postings {
			if p.Amount == nil && p.Assertion == nil {
				continue
			}
			column = max(column, f.postingPrefixWidth(p)+MinimumSpacing)
		}
	}
	return min(column, MaxAmountColumn)
}

func (f *Formatter) writeIndent(buf *strings.Builder) {
	buf.WriteString(strings.Repeat(" ", f.Indentation))
}

func (f *Formatter) writeInlineComment(c *ast.InlineComment, buf *strings.Builder) {
	if c == nil || !f.PreserveComments {
		return
	}
	buf.WriteString(strings.Repeat(" ", MinimumSpacing))
	buf.WriteString(c.String())
}

// writeCommentLines writes indented comment lines, e.g. the comments between postings.
func (f *Formatter) writeCommentLines(comments []*ast.InlineComment, buf *strings.Builder) {
	if !f.PreserveComments {
		return
	}
	for _, c := range comments {
		f.writeIndent(buf)
		buf.WriteString(c.String())
		buf.WriteByte('\n')
	}
}

// formatTransaction formats a transaction header followed by its postings.
// Format: date[=date2] [status] [(code)] [description]  [; comment]
func (f *Formatter) formatTransaction(t *ast.Transaction, column int, buf *strings.Builder) {
	buf.WriteString(t.Date.String())
	if t.SecondaryDate != nil {
		buf.WriteByte('=')
		buf.WriteString(t.SecondaryDate.String())
	}
	if t.Status != ast.StatusNone {
		buf.WriteByte(' ')
		buf.WriteString(t.Status.String())
	}
	if t.HasCode {
		buf.WriteString(" (")
		buf.WriteString(t.Code)
		buf.WriteByte(')')
	}
	if !t.Description.IsZero() {
		buf.WriteByte(' ')
		buf.WriteString(t.Description.String())
	}
	f.writeInlineComment(t.Comment, buf)
	buf.WriteByte('\n')

	f.writeCommentLines(t.Comments, buf)
	for _, p := range t.Postings {
		f.formatPosting(p, column, buf)
	}
}

// formatPosting formats a single posting with its amount aligned to column.
// Postings without an amount are written as just the account.
func (f *Formatter) formatPosting(p *ast.Posting, column int, buf *strings.Builder) {
	f.writeIndent(buf)
	if p.Status != ast.StatusNone {
		buf.WriteString(p.Status.String())
		buf.WriteByte(' ')
	}
	buf.WriteString(p.Account.String())

	if p.Amount != nil || p.Assertion != nil {
		padding := MinimumSpacing
		if f.AlignAmounts {
			padding = max(column-f.postingPrefixWidth(p), MinimumSpacing)
		}
		buf.WriteString(strings.Repeat(" ", padding))

		if p.Amount != nil {
			buf.WriteString(FormatAmount(p.Amount))
			if p.Assertion != nil {
				buf.WriteByte(' ')
			}
		}
		if p.Assertion != nil {
			buf.WriteString(p.Assertion.Operator())
			buf.WriteByte(' ')
			buf.WriteString(FormatAmount(p.Assertion.Amount))
		}
	}

	f.writeInlineComment(p.Comment, buf)
	buf.WriteByte('\n')

	f.writeCommentLines(p.Comments, buf)
}

// formatPrice formats a market price directive.
func (f *Formatter) formatPrice(p *ast.PriceDirective, buf *strings.Builder) {
	buf.WriteString("P ")
	buf.WriteString(p.Date.String())
	buf.WriteByte(' ')
	buf.WriteString(p.Commodity.String())
	buf.WriteByte(' ')
	buf.WriteString(FormatAmount(p.Price))
	f.writeInlineComment(p.Comment, buf)
	buf.WriteByte('\n')
}

// formatComment formats a top-level comment. Block comments are written verbatim.
func (f *Formatter) formatComment(c *ast.Comment, buf *strings.Builder) {
	if !c.Block {
		buf.WriteString(c.Indent)
		buf.WriteByte(c.Marker)
		buf.WriteString(c.Text)
		buf.WriteByte('\n')
		return
	}

	buf.WriteString("comment")
	if c.Header != "" {
		buf.WriteByte(' ')
		buf.WriteString(c.Header)
	}
	buf.WriteByte('\n')
	for _, line := range c.Lines {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	buf.WriteString("end comment")
	if c.Footer != "" {
		buf.WriteByte(' ')
		buf.WriteString(c.Footer)
	}
	buf.WriteByte('\n')
}

// formatDirective formats a directive based on its type.
func (f *Formatter) formatDirective(d ast.Directive, buf *strings.Builder) {
	switch d := d.(type) {
	case *ast.AccountDirective:
		buf.WriteString("account ")
		buf.WriteString(d.Name)
		f.writeInlineComment(d.Comment, buf)
		buf.WriteByte('\n')
		f.formatSubLines(d.SubLines, buf)

	case *ast.CommodityDirective:
		buf.WriteString("commodity ")
		buf.WriteString(d.Commodity)
		f.writeInlineComment(d.Comment, buf)
		buf.WriteByte('\n')
		f.formatSubLines(d.SubLines, buf)

	case *ast.IncludeDirective:
		writeKeywordLine(buf, "include", d.Path)
	case *ast.TagDirective:
		writeKeywordLine(buf, "tag", d.Name)
	case *ast.PayeeDirective:
		writeKeywordLine(buf, "payee", d.Name)
	case *ast.DecimalMarkDirective:
		writeKeywordLine(buf, "decimal-mark", string(d.Mark))
	case *ast.AliasDirective:
		writeKeywordLine(buf, "alias", d.Pattern+" = "+d.Replacement)
	case *ast.ApplyAccountDirective:
		writeKeywordLine(buf, "apply account", d.Name)
	case *ast.EndAliasesDirective, *ast.EndApplyAccountDirective:
		buf.WriteString(d.Directive())
		buf.WriteByte('\n')

	case *ast.YearDirective:
		fmt.Fprintf(buf, "Y%04d\n", d.Year)

	case *ast.DefaultCommodityDirective:
		writeKeywordLine(buf, "D", FormatAmount(d.Amount))
	}
}

func writeKeywordLine(buf *strings.Builder, keyword, payload string) {
	buf.WriteString(keyword)
	buf.WriteByte(' ')
	buf.WriteString(payload)
	buf.WriteByte('\n')
}

// formatSubLines formats the indented lines under an account or commodity directive.
func (f *Formatter) formatSubLines(lines []*ast.SubLine, buf *strings.Builder) {
	for _, sub := range lines {
		if sub.Text == "" {
			if sub.Comment == nil || !f.PreserveComments {
				continue
			}
			f.writeIndent(buf)
			buf.WriteString(sub.Comment.String())
			buf.WriteByte('\n')
			continue
		}

		f.writeIndent(buf)
		buf.WriteString(sub.Text)
		f.writeInlineComment(sub.Comment, buf)
		buf.WriteByte('\n')
	}
}
