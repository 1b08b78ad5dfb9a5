package parser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/robinvdvleuten/hledger/ast"
)

func parseTxn(t *testing.T, src string) *ast.Transaction {
	t.Helper()
	doc, err := ParseString(context.Background(), src)
	assert.NoError(t, err)
	txns := doc.Transactions()
	assert.Equal(t, 1, len(txns))
	return txns[0]
}

func parseFailure(t *testing.T, src string) *ParseError {
	t.Helper()
	_, err := ParseString(context.Background(), src)
	assert.Error(t, err)
	var perr *ParseError
	assert.True(t, errors.As(err, &perr), "expected *ParseError, got %T", err)
	return perr
}

const postings = "\n    expenses:food  $4\n    assets:cash\n"

func commentText(c *ast.InlineComment) string {
	if c == nil {
		return ""
	}
	return c.Text
}

func TestTransaction_HeaderDisambiguation(t *testing.T) {
	tests := []struct {
		name        string
		header      string
		status      ast.Status
		code        string
		hasCode     bool
		description ast.Description
		comment     string
	}{
		{
			name:        "StatusCodeDescription",
			header:      "2024-01-01 * (100) Buy milk",
			status:      ast.StatusCleared,
			code:        "100",
			hasCode:     true,
			description: ast.Description{Text: "Buy milk"},
		},
		{
			name:        "CodeDescription",
			header:      "2024-01-01 (100) Buy milk",
			code:        "100",
			hasCode:     true,
			description: ast.Description{Text: "Buy milk"},
		},
		{
			name:        "DescriptionOnly",
			header:      "2024-01-01 Buy milk",
			description: ast.Description{Text: "Buy milk"},
		},
		{
			name:        "StatusDescription",
			header:      "2024-01-01 ! Buy milk",
			status:      ast.StatusPending,
			description: ast.Description{Text: "Buy milk"},
		},
		{
			name:   "StatusOnly",
			header: "2024-01-01 *",
			status: ast.StatusCleared,
		},
		{
			name:    "CodeWithSpaces",
			header:  "2024-01-01 (check 42)",
			code:    "check 42",
			hasCode: true,
		},
		{
			name:        "ParenthesisInsideDescriptionIsText",
			header:      "2024-01-01 Buy milk (2l)",
			description: ast.Description{Text: "Buy milk (2l)"},
		},
		{
			name:        "StarInsideDescriptionIsText",
			header:      "2024-01-01 Buy milk *urgent*",
			description: ast.Description{Text: "Buy milk *urgent*"},
		},
		{
			name:        "PayeeAndNote",
			header:      "2024-01-01 Grocery Store | weekly shopping",
			description: ast.Description{Payee: "Grocery Store", Note: "weekly shopping"},
		},
		{
			name:        "PayeeWithoutNote",
			header:      "2024-01-01 Grocery Store |",
			description: ast.Description{Payee: "Grocery Store"},
		},
		{
			name:        "NoteKeepsFurtherPipes",
			header:      "2024-01-01 Shop|a | b",
			description: ast.Description{Payee: "Shop", Note: "a | b"},
		},
		{
			name:        "LeadingPipeIsText",
			header:      "2024-01-01 | only a note",
			description: ast.Description{Text: "| only a note"},
		},
		{
			name:        "HashInDescriptionIsText",
			header:      "2024-01-01 Invoice #42  ; paid",
			description: ast.Description{Text: "Invoice #42"},
			comment:     "paid",
		},
		{
			name:    "CommentAfterDate",
			header:  "2024-01-01 ; just a comment",
			comment: "just a comment",
		},
		{
			name:    "CommentDirectlyAfterStatus",
			header:  "2024-01-01 *; cleared",
			status:  ast.StatusCleared,
			comment: "cleared",
		},
		{
			name:    "HashCommentAfterCode",
			header:  "2024-01-01 (7) # note",
			code:    "7",
			hasCode: true,
			comment: "note",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn := parseTxn(t, tt.header+postings)
			assert.Equal(t, tt.status, txn.Status)
			assert.Equal(t, tt.code, txn.Code)
			assert.Equal(t, tt.hasCode, txn.HasCode)
			assert.Equal(t, tt.description, txn.Description)
			assert.Equal(t, tt.comment, commentText(txn.Comment))
			assert.Equal(t, 2, len(txn.Postings))
		})
	}
}

func TestTransaction_HeaderErrors(t *testing.T) {
	tests := []struct {
		name   string
		header string
		kind   ErrorKind
		column int
	}{
		{"StatusGluedToWord", "2024-01-01 *Buy milk", UnexpectedToken, 13},
		{"UnclosedCode", "2024-01-01 (100 Buy milk", UnexpectedToken, 12},
		{"EmptyCode", "2024-01-01 () Buy milk", UnexpectedToken, 12},
		{"CodeGluedToDescription", "2024-01-01 (100)Buy milk", UnexpectedToken, 17},
		{"NoSpaceAfterDate", "2024-01-01Buy milk", UnexpectedToken, 11},
		{"DoubleStatus", "2024-01-01 * ! Buy milk", UnexpectedToken, 14},
		{"MalformedDate", "2024-01/01 Buy milk", MalformedDate, 1},
		{"MalformedSecondaryDate", "2024-01-01=01-17 Buy milk", MalformedDate, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			perr := parseFailure(t, tt.header+postings)
			assert.Equal(t, tt.kind, perr.Kind)
			assert.Equal(t, 1, perr.Pos.Line)
			assert.Equal(t, tt.column, perr.Pos.Column)
			assert.Equal(t, tt.header, perr.Snippet)
		})
	}
}

func TestTransaction_SecondaryDate(t *testing.T) {
	txn := parseTxn(t, "2024/01/15=2024-01-17 Shop"+postings)
	assert.Equal(t, ast.Date{Year: 2024, Month: 1, Day: 15, Sep: ast.DateSlash}, txn.Date)
	assert.Equal(t, ast.Date{Year: 2024, Month: 1, Day: 17, Sep: ast.DateDash}, *txn.SecondaryDate)
}

func TestTransaction_MalformedCalendarDateAccepted(t *testing.T) {
	txn := parseTxn(t, "2024-13-40 Not a real day"+postings)
	assert.Equal(t, "2024-13-40", txn.Date.String())

	_, err := txn.Date.Time()
	assert.Error(t, err)
}

func TestPosting_AccountKinds(t *testing.T) {
	txn := parseTxn(t, `2024-01-01 Trip
    (reimbursable:travel)  $100
    [equity:pending]       $-100
    assets:cash
`)

	assert.Equal(t, ast.Account{Kind: ast.VirtualAccount, Name: "reimbursable:travel"}, txn.Postings[0].Account)
	assert.Equal(t, ast.Account{Kind: ast.BalancedVirtualAccount, Name: "equity:pending"}, txn.Postings[1].Account)
	assert.Equal(t, ast.Account{Kind: ast.RealAccount, Name: "assets:cash"}, txn.Postings[2].Account)
}

func TestPosting_Fields(t *testing.T) {
	txn := parseTxn(t, `2024-01-01 Broker
    * assets:broker       10 AAPL @ $150 = 30 AAPL  ; buy
    ! assets:bank account  $-1500 ==* $0
    expenses:fees  =  $0
    expenses:café:Zürich	4,50 €
    assets:cash  ; remainder
`)
	p := txn.Postings

	assert.Equal(t, ast.StatusCleared, p[0].Status)
	assert.Equal(t, "assets:broker", p[0].Account.Name)
	assert.Equal(t, "10 AAPL @ $150", p[0].Amount.String())
	assert.False(t, p[0].Assertion.Strict)
	assert.Equal(t, "30 AAPL", p[0].Assertion.Amount.String())
	assert.Equal(t, "buy", p[0].Comment.Text)

	assert.Equal(t, ast.StatusPending, p[1].Status)
	assert.Equal(t, "assets:bank account", p[1].Account.Name)
	assert.Equal(t, "==*", p[1].Assertion.Operator())

	assert.False(t, p[2].HasAmount())
	assert.Equal(t, "$0", p[2].Assertion.Amount.String())

	assert.Equal(t, "expenses:café:Zürich", p[3].Account.Name)
	assert.Equal(t, []string{"expenses", "café", "Zürich"}, p[3].Account.Segments())
	assert.Equal(t, "4,50 €", p[3].Amount.String())

	assert.False(t, p[4].HasAmount())
	assert.Equal(t, "remainder", p[4].Comment.Text)

	assert.Equal(t, 3, p[1].Pos.Line)
	assert.Equal(t, 5, p[0].Pos.Column)
}

func TestPosting_Separator(t *testing.T) {
	t.Run("SingleSpaceBeforeNumber", func(t *testing.T) {
		perr := parseFailure(t, "2024-01-01 x\n  assets:cash 500\n")
		assert.Equal(t, MissingPostingSeparator, perr.Kind)
		assert.Equal(t, 2, perr.Pos.Line)
		assert.Equal(t, 15, perr.Pos.Column)
		assert.True(t, errors.Is(perr, ErrMissingPostingSeparator))
	})

	t.Run("TwoSpaces", func(t *testing.T) {
		txn := parseTxn(t, "2024-01-01 x\n  assets:cash  500\n")
		assert.Equal(t, "assets:cash", txn.Postings[0].Account.Name)
		assert.Equal(t, ast.Quantity("500"), txn.Postings[0].Amount.Quantity)
	})

	t.Run("Tab", func(t *testing.T) {
		txn := parseTxn(t, "2024-01-01 x\n  assets:cash\t500\n")
		assert.Equal(t, ast.Quantity("500"), txn.Postings[0].Amount.Quantity)
	})

	tests := []struct {
		name    string
		posting string
	}{
		{"SingleSpaceBeforeCommodity", "  assets:cash $500"},
		{"SingleSpaceBeforeNegative", "  assets:cash -500"},
		{"SingleSpaceBeforeAmountWithCommodity", "  assets:cash 500 USD"},
		{"NoSpaceAfterVirtual", "  (budget)$5"},
		{"SingleSpaceBeforeAssertion", "  assets:cash =$5"},
		{"SingleSpaceBeforeAmountThenComment", "  assets:cash 500  ; note"},
		{"SingleSpaceBeforeAmountThenAssertion", "  assets:cash 500 = $5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			perr := parseFailure(t, "2024-01-01 x\n"+tt.posting+"\n")
			assert.Equal(t, MissingPostingSeparator, perr.Kind)
		})
	}

	t.Run("NumberInsideAccountName", func(t *testing.T) {
		txn := parseTxn(t, "2024-01-01 x\n  expenses:trip 2024 paris  $5\n")
		assert.Equal(t, "expenses:trip 2024 paris", txn.Postings[0].Account.Name)
	})

	t.Run("ExpensesTax2024WithAmount", func(t *testing.T) {
		txn := parseTxn(t, "2024-01-01 x\n    expenses:tax 2024  $100\n    income\n")
		assert.Equal(t, "expenses:tax 2024", txn.Postings[0].Account.Name)
		assert.Equal(t, "$100", txn.Postings[0].Amount.String())
		assert.Equal(t, "income", txn.Postings[1].Account.Name)
	})

	t.Run("TrailingNumberWithTabbedAmount", func(t *testing.T) {
		txn := parseTxn(t, "2024-01-01 x\n    assets:savings 2\t$100\n")
		assert.Equal(t, "assets:savings 2", txn.Postings[0].Account.Name)
		assert.Equal(t, ast.Quantity("100"), txn.Postings[0].Amount.Quantity)
	})
}

func TestPosting_Errors(t *testing.T) {
	tests := []struct {
		name    string
		posting string
		kind    ErrorKind
	}{
		{"UnclosedVirtual", "  (budget  $5", UnexpectedToken},
		{"MismatchedBrackets", "  [budget)  $5", UnexpectedToken},
		{"NoAccount", "  $5", UnexpectedToken},
		{"BadAmount", "  assets:cash  five dollars", MalformedAmount},
		{"TrailingJunk", "  assets:cash  $5 extra", UnexpectedToken},
		{"AssertionWithoutAmount", "  assets:cash  $5 =", MalformedAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			perr := parseFailure(t, "2024-01-01 x\n"+tt.posting+"\n")
			assert.Equal(t, tt.kind, perr.Kind)
			assert.Equal(t, 2, perr.Pos.Line)
		})
	}
}

func TestTransaction_Comments(t *testing.T) {
	txn := parseTxn(t, `2024-01-01 Shop  ; header
    ; about the transaction
    # also about the transaction
    expenses:food  $4
    ; about food
    ; more about food
    assets:cash
    # about cash
`)

	assert.Equal(t, "header", txn.Comment.Text)
	assert.Equal(t, 2, len(txn.Comments))
	assert.Equal(t, byte('#'), txn.Comments[1].Marker)
	assert.Equal(t, 2, len(txn.Postings[0].Comments))
	assert.Equal(t, "more about food", txn.Postings[0].Comments[1].Text)
	assert.Equal(t, 1, len(txn.Postings[1].Comments))
}

func TestTransaction_Empty(t *testing.T) {
	t.Run("NoFollowingLines", func(t *testing.T) {
		perr := parseFailure(t, "2024-01-01 Nothing here\n")
		assert.Equal(t, EmptyTransaction, perr.Kind)
		assert.Equal(t, 1, perr.Pos.Line)
		assert.Equal(t, "2024-01-01 Nothing here", perr.Snippet)
	})

	t.Run("OnlyComments", func(t *testing.T) {
		perr := parseFailure(t, "2024-01-01 Nothing here\n    ; but a comment\n\n")
		assert.Equal(t, EmptyTransaction, perr.Kind)
	})

	t.Run("BlankLineEndsPostings", func(t *testing.T) {
		perr := parseFailure(t, "2024-01-01 Nothing here\n\n    assets:cash  $1\n")
		assert.Equal(t, EmptyTransaction, perr.Kind)
	})
}

func TestTransaction_PostingOrder(t *testing.T) {
	for _, n := range []int{1, 2, 5, 20} {
		t.Run(fmt.Sprintf("%d postings", n), func(t *testing.T) {
			var b strings.Builder
			b.WriteString("2024-01-01 Split\n")
			for i := 0; i < n; i++ {
				fmt.Fprintf(&b, "    expenses:item%d  $%d\n", i, i+1)
			}

			txn := parseTxn(t, b.String())
			assert.Equal(t, n, len(txn.Postings))
			for i, p := range txn.Postings {
				assert.Equal(t, fmt.Sprintf("expenses:item%d", i), p.Account.Name)
				assert.Equal(t, ast.Quantity(fmt.Sprint(i+1)), p.Amount.Quantity)
			}
		})
	}
}
