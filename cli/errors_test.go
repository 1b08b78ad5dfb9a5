package cli

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/robinvdvleuten/hledger/ast"
	"github.com/robinvdvleuten/hledger/loader"
	"github.com/robinvdvleuten/hledger/parser"
)

func TestErrorRenderer_RenderParseErrorWithSourceContext(t *testing.T) {
	sourceContent := `2024-01-15 Cafe purchase
    expenses:food:cafe  $25.00
    assets:checking

2024-01-16 Restaurant
    expenses:food:restaurant  $30.00 USD
    assets:checking`

	parseErr := &parser.ParseError{
		Kind: parser.UnexpectedToken,
		Pos: ast.Position{
			Filename: "test.journal",
			Line:     6,
			Column:   38,
		},
		Message: "unexpected text after amount",
		Snippet: "    expenses:food:restaurant  $30.00 USD",
	}

	renderer := NewErrorRenderer([]byte(sourceContent))
	output := renderer.Render(fmt.Errorf("in file main.journal: %w", parseErr))

	assert.Contains(t, output, "test.journal:6:38: unexpected text after amount")
	assert.Contains(t, output, "   2024-01-16 Restaurant\n")
	assert.Contains(t, output, "   "+strings.Repeat(" ", 37)+"^")

	// Two lines before and one after the error line
	assert.NotContains(t, output, "Cafe purchase")
	assert.Contains(t, output, "   \n")
	assert.Contains(t, output, "       assets:checking\n")
}

func TestErrorRenderer_RenderIncludeError(t *testing.T) {
	include := &ast.IncludeDirective{
		Pos:  ast.Position{Filename: "main.journal", Line: 3, Column: 1},
		Path: "2024/*.journal",
	}
	err := fmt.Errorf("in file main.journal: %w", &loader.IncludeError{Directive: include})

	output := NewErrorRenderer(nil).Render(err)
	assert.Contains(t, output, `main.journal:3:1: include "2024/*.journal" matched no files`)
	assert.Contains(t, output, "   include 2024/*.journal\n")
}

func TestErrorRenderer_RenderAll(t *testing.T) {
	renderer := NewErrorRenderer(nil)
	assert.Equal(t, "", renderer.RenderAll(nil))

	output := renderer.RenderAll([]error{errors.New("first"), errors.New("second")})
	assert.Contains(t, output, "first")
	assert.Contains(t, output, "\n\n")
	assert.Contains(t, output, "second")
}
