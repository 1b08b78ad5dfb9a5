package formatter

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/robinvdvleuten/hledger/ast"
	"github.com/robinvdvleuten/hledger/parser"
)

func benchmarkDocument(b *testing.B, transactions int) *ast.Document {
	b.Helper()

	var source strings.Builder
	source.WriteString("; Household journal\naccount assets:bank:checking\naccount expenses:food:restaurant\n\n")
	for i := 0; i < transactions; i++ {
		source.WriteString("2021-01-02 * (1042) Restaurant Name | lunch meeting  ; work\n")
		source.WriteString("    expenses:food:restaurant  $125.75\n")
		source.WriteString("    assets:bank:checking  $-125.75 = $1000.00\n\n")
	}

	doc, err := parser.ParseString(context.Background(), source.String())
	if err != nil {
		b.Fatal(err)
	}
	return doc
}

// BenchmarkFormat benchmarks the formatter with various file sizes
func BenchmarkFormat(b *testing.B) {
	for _, size := range []struct {
		name         string
		transactions int
	}{
		{"SmallFile", 1},
		{"MediumFile", 100},
		{"LargeFile", 1000},
	} {
		b.Run(size.name, func(b *testing.B) {
			doc := benchmarkDocument(b, size.transactions)

			f := New()
			b.ResetTimer()
			b.ReportAllocs()

			for i := 0; i < b.N; i++ {
				var buf bytes.Buffer
				if err := f.Format(context.Background(), doc, &buf); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkFormatWithoutComments(b *testing.B) {
	doc := benchmarkDocument(b, 100)

	f := New(WithPreserveComments(false), WithPreserveBlanks(false))
	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		var buf bytes.Buffer
		if err := f.Format(context.Background(), doc, &buf); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkAmountColumnCalculation benchmarks just the alignment pass
func BenchmarkAmountColumnCalculation(b *testing.B) {
	txns := benchmarkDocument(b, 100).Transactions()

	f := New()
	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		f.amountColumn(txns...)
	}
}
