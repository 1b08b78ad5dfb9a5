package parser

import (
	"github.com/robinvdvleuten/hledger/ast"
)

// ErrorKind classifies a syntax error.
type ErrorKind int

const (
	// MalformedDate means a date did not match YYYY-MM-DD with one consistent separator.
	MalformedDate ErrorKind = iota + 1
	// UnexpectedToken means a literal or token did not match what the grammar requires.
	UnexpectedToken
	// MissingPostingSeparator means an amount followed an account name without
	// the required two spaces or tab.
	MissingPostingSeparator
	// EmptyTransaction means a transaction header had no postings.
	EmptyTransaction
	// UnterminatedBlockComment means a "comment" line had no matching "end comment".
	UnterminatedBlockComment
	// MalformedAmount means no quantity was found where an amount was expected.
	MalformedAmount
	// UnrecognizedEntry means a line could not start any kind of entry.
	UnrecognizedEntry
	// UnterminatedSubBlock is never returned: a sub-block simply ends at dedent.
	UnterminatedSubBlock
)

var kindNames = map[ErrorKind]string{
	MalformedDate:            "MalformedDate",
	UnexpectedToken:          "UnexpectedToken",
	MissingPostingSeparator:  "MissingPostingSeparator",
	EmptyTransaction:         "EmptyTransaction",
	UnterminatedBlockComment: "UnterminatedBlockComment",
	MalformedAmount:          "MalformedAmount",
	UnrecognizedEntry:        "UnrecognizedEntry",
	UnterminatedSubBlock:     "UnterminatedSubBlock",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Sentinel errors for use with errors.Is. They match any ParseError of the same kind.
var (
	ErrMalformedDate            = &ParseError{Kind: MalformedDate}
	ErrUnexpectedToken          = &ParseError{Kind: UnexpectedToken}
	ErrMissingPostingSeparator  = &ParseError{Kind: MissingPostingSeparator}
	ErrEmptyTransaction         = &ParseError{Kind: EmptyTransaction}
	ErrUnterminatedBlockComment = &ParseError{Kind: UnterminatedBlockComment}
	ErrMalformedAmount          = &ParseError{Kind: MalformedAmount}
	ErrUnrecognizedEntry        = &ParseError{Kind: UnrecognizedEntry}
)

// ParseError represents a syntax error during parsing.
// The parser stops at the first error, so a failed parse yields exactly one.
type ParseError struct {
	Kind    ErrorKind
	Pos     ast.Position
	Message string
	Snippet string // Source line containing the error
}

func (e *ParseError) Error() string {
	if !e.Pos.IsValid() {
		return e.Message
	}
	return e.Pos.String() + ": " + e.Message
}

// Is reports whether target is a ParseError of the same kind.
func (e *ParseError) Is(target error) bool {
	t, ok := target.(*ParseError)
	return ok && t.Kind == e.Kind
}

// GetPosition returns the location of the error.
func (e *ParseError) GetPosition() ast.Position {
	return e.Pos
}
