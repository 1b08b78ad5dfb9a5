package parser

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/robinvdvleuten/hledger/ast"
)

func parseDateString(s string) (ast.Date, error) {
	return newParser([]byte(s), "").parseDate()
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		input string
		want  ast.Date
	}{
		{"2024-01-15", ast.Date{Year: 2024, Month: 1, Day: 15, Sep: ast.DateDash}},
		{"2024/01/15", ast.Date{Year: 2024, Month: 1, Day: 15, Sep: ast.DateSlash}},
		{"2024.01.15", ast.Date{Year: 2024, Month: 1, Day: 15, Sep: ast.DateDot}},
		{"2024-1-5", ast.Date{Year: 2024, Month: 1, Day: 5, Sep: ast.DateDash, ShortMonth: true, ShortDay: true}},
		{"2024/1/15", ast.Date{Year: 2024, Month: 1, Day: 15, Sep: ast.DateSlash, ShortMonth: true}},
		{"2024.12.5", ast.Date{Year: 2024, Month: 12, Day: 5, Sep: ast.DateDot, ShortDay: true}},
		{"2024-13-40", ast.Date{Year: 2024, Month: 13, Day: 40, Sep: ast.DateDash}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			date, err := parseDateString(tt.input)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, date)
			assert.Equal(t, tt.input, date.String())
		})
	}
}

func TestParseDate_RoundTrip(t *testing.T) {
	for _, sep := range []ast.DateSeparator{ast.DateDash, ast.DateSlash, ast.DateDot} {
		for _, d := range []ast.Date{
			{Year: 1999, Month: 12, Day: 31},
			{Year: 2024, Month: 2, Day: 29},
			{Year: 2000, Month: 1, Day: 1},
			{Year: 2024, Month: 1, Day: 2, ShortMonth: true, ShortDay: true},
			{Year: 2024, Month: 3, Day: 9, ShortDay: true},
		} {
			d.Sep = sep
			t.Run(d.String(), func(t *testing.T) {
				parsed, err := parseDateString(d.String())
				assert.NoError(t, err)
				assert.Equal(t, d, parsed)
			})
		}
	}
}

func TestParseDate_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"MixedSeparators", "2024-01/15"},
		{"ShortYear", "24-01-15"},
		{"LongYear", "20245-01-15"},
		{"MissingDay", "2024-01"},
		{"MissingDayDigits", "2024-01-"},
		{"ThreeDigitDay", "2024-01-150"},
		{"UnknownSeparator", "2024_01_15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newParser([]byte(tt.input), "")
			_, err := p.parseDate()
			assert.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedDate))
			assert.Equal(t, 0, p.s.pos, "failed date must not advance the cursor")
		})
	}
}
