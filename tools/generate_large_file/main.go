// Large Journal Generator
//
// This tool generates a large hledger journal for performance testing and profiling.
// It creates realistic transactions using most of the journal syntax to stress-test
// the parser and formatter.
//
// Usage:
//
//	go run main.go > large.journal
//	go run main.go 20000000 > large.journal  # Specify target size in bytes
package main

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	defaultTargetSize = 10 * 1024 * 1024 // 10MB
)

var (
	accounts = []string{
		"assets:bank:checking",
		"assets:bank:savings",
		"assets:brokerage:cash",
		"assets:brokerage:stocks",
		"liabilities:creditcard:visa",
		"income:salary",
		"income:bonus",
		"income:investments:dividends",
		"expenses:food:groceries",
		"expenses:food:restaurant",
		"expenses:food:café",
		"expenses:housing:rent",
		"expenses:housing:utilities",
		"expenses:transport:gas",
		"expenses:transport:transit",
		"expenses:shopping:clothing",
		"expenses:entertainment:movies",
		"expenses:healthcare:dental",
		"expenses:taxes:federal",
		"expenses:commissions",
		"equity:opening balances",
	}

	payees = []string{
		"Whole Foods", "Safeway", "Trader Joe's", "Costco",
		"Shell Gas", "BART", "Uber", "Landlord", "PG&E",
		"Amazon", "Target", "Best Buy", "Netflix", "Employer Inc",
	}

	notes = []string{
		"grocery shopping", "fuel", "rent payment", "salary",
		"stock purchase", "utility bill", "online purchase",
		"dinner", "coffee", "monthly subscription",
	}

	commodities = []string{"€", "£", "CAD"}
	stocks      = []string{"AAPL", "MSFT", "GOOGL", "VTI"}
	separators  = []byte{'-', '/', '.'}
	statuses    = []string{"", "", "* ", "! "}
)

func main() {
	targetSize := defaultTargetSize
	if len(os.Args) > 1 {
		if size, err := strconv.Atoi(os.Args[1]); err == nil {
			targetSize = size
		}
	}

	w := bufio.NewWriter(os.Stdout)
	defer func() { _ = w.Flush() }()

	bytesWritten := writeHeader(w)
	transactionCount := 0
	currentDate := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	for bytesWritten < targetSize {
		var entry string

		// Mix different kinds of entries
		switch rand.Intn(10) {
		case 0, 1, 2, 3: // 40% - Simple transaction
			entry = simpleTransaction(currentDate)
			transactionCount++
		case 4, 5: // 20% - Transaction with code, comments and an assertion
			entry = annotatedTransaction(currentDate)
			transactionCount++
		case 6: // 10% - Investment transaction with a unit price
			entry = investmentTransaction(currentDate)
			transactionCount++
		case 7: // 10% - Multi-commodity transaction with a total price and virtual postings
			entry = exchangeTransaction(currentDate)
			transactionCount++
		case 8: // 10% - Market price
			entry = priceDirective(currentDate)
		case 9: // 10% - Comment
			entry = "; " + notes[rand.Intn(len(notes))] + "\n\n"
		}

		n, _ := w.WriteString(entry)
		bytesWritten += n

		// Advance date by 0-2 days
		currentDate = currentDate.AddDate(0, 0, rand.Intn(3))
	}

	_, _ = fmt.Fprintf(os.Stderr, "\nGenerated %d bytes with %d transactions\n", bytesWritten, transactionCount)
}

func writeHeader(w *bufio.Writer) int {
	var b strings.Builder
	b.WriteString("; Large journal for performance testing\n")
	fmt.Fprintf(&b, "; Generated: %s\n\n", time.Now().Format("2006-01-02 15:04:05"))
	b.WriteString("decimal-mark .\n")
	b.WriteString("D $1,000.00\n")
	b.WriteString("commodity $1,000.00\n    format $1,000.00\n\n")

	b.WriteString("; Account declarations\n")
	for _, account := range accounts {
		fmt.Fprintf(&b, "account %s\n", account)
	}
	b.WriteString("\ncomment\nEverything up to the closing line is ignored.\nend comment\n\n")

	n, _ := w.WriteString(b.String())
	return n
}

func formatDate(date time.Time) string {
	sep := separators[rand.Intn(len(separators))]
	return fmt.Sprintf("%04d%c%02d%c%02d", date.Year(), sep, int(date.Month()), sep, date.Day())
}

func description() string {
	if rand.Intn(2) == 0 {
		return payees[rand.Intn(len(payees))] + " | " + notes[rand.Intn(len(notes))]
	}
	return notes[rand.Intn(len(notes))]
}

func simpleTransaction(date time.Time) string {
	amount := randAmount(10, 500)

	return fmt.Sprintf("%s %s%s\n    %s  $%s\n    %s\n\n",
		formatDate(date), statuses[rand.Intn(len(statuses))], description(),
		accounts[rand.Intn(len(accounts))], amount,
		accounts[rand.Intn(len(accounts))])
}

func annotatedTransaction(date time.Time) string {
	amount := randAmount(50, 1000)

	return fmt.Sprintf("%s=%s * (%d) %s  ; imported\n    ; reviewed\n    %s  %s USD  ; note\n    ! assets:bank:checking  %s USD = %s USD\n\n",
		formatDate(date), formatDate(date.AddDate(0, 0, 1)), rand.Intn(10000), description(),
		accounts[rand.Intn(len(accounts))], amount,
		amount.Neg(), randAmount(1000, 50000))
}

func investmentTransaction(date time.Time) string {
	stock := stocks[rand.Intn(len(stocks))]
	shares := decimal.NewFromInt(int64(rand.Intn(50) + 1))
	price := randAmount(50, 500)
	commission := decimal.RequireFromString("9.99")
	total := shares.Mul(price).Add(commission)

	return fmt.Sprintf("%s Buy %s\n    assets:brokerage:stocks  %s %s @ $%s\n    expenses:commissions  $%s\n    assets:brokerage:cash  $%s\n\n",
		formatDate(date), stock, shares, stock, price, commission.StringFixed(2), total.Neg().StringFixed(2))
}

func exchangeTransaction(date time.Time) string {
	commodity := commodities[rand.Intn(len(commodities))]
	amount := randAmount(100, 2000)
	rate := randAmount(1, 2)
	converted := amount.Mul(rate).Round(2)

	return fmt.Sprintf("%s Currency exchange\n    assets:bank:savings  %s %s @@ $%s\n    assets:bank:checking\n    (budget:travel)  $%s\n    [equity:conversion]\n\n",
		formatDate(date), amount, commodity, converted.StringFixed(2), amount)
}

func priceDirective(date time.Time) string {
	return fmt.Sprintf("P %s %s $%s\n\n", formatDate(date), stocks[rand.Intn(len(stocks))], randAmount(50, 500))
}

// randAmount returns a random amount with two decimal places.
func randAmount(min, max int64) decimal.Decimal {
	cents := min*100 + rand.Int63n((max-min)*100)
	return decimal.New(cents, -2)
}
