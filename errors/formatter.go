// Package errors provides error formatting infrastructure for journal errors.
// It separates error formatting from domain logic, allowing errors to be rendered in
// multiple formats (text, JSON) for different consumers (CLI, editors, scripts).
//
// The package defines a Formatter interface and provides two implementations:
//   - TextFormatter: Formats errors for command-line output with source context
//   - JSONFormatter: Formats errors as structured JSON for tooling
//
// Error types stay in their own packages (parser.ParseError, loader.IncludeError);
// this package only handles the presentation layer.
package errors

import (
	"bytes"
	"context"
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/robinvdvleuten/hledger/ast"
	"github.com/robinvdvleuten/hledger/formatter"
	"github.com/robinvdvleuten/hledger/parser"
)

// Formatter formats errors for output in different formats.
type Formatter interface {
	// Format formats a single error.
	Format(err error) string

	// FormatAll formats multiple errors.
	FormatAll(errs []error) string
}

// Positioned is implemented by errors that point at a source location.
type Positioned interface {
	error
	GetPosition() ast.Position
}

// EntryError is implemented by errors raised about a whole parsed entry.
type EntryError interface {
	Positioned
	GetEntry() ast.Entry
}

// Style decorates a piece of rendered output, e.g. with terminal colors.
type Style func(string) string

func plain(s string) string { return s }

// TextFormatter formats errors for command-line output.
type TextFormatter struct {
	formatter     *formatter.Formatter
	sourceContent []byte // Optional source content for parse error context

	messageStyle Style
	contextStyle Style
	caretStyle   Style
}

// TextFormatterOption is an option for configuring TextFormatter.
type TextFormatterOption func(*TextFormatter)

// WithSource sets the source content for parse error context.
func WithSource(source []byte) TextFormatterOption {
	return func(tf *TextFormatter) {
		tf.sourceContent = source
	}
}

// WithStyles sets the styles for the message, the quoted source lines and the caret.
// Nil styles leave that part unstyled.
func WithStyles(message, context, caret Style) TextFormatterOption {
	return func(tf *TextFormatter) {
		if message != nil {
			tf.messageStyle = message
		}
		if context != nil {
			tf.contextStyle = context
		}
		if caret != nil {
			tf.caretStyle = caret
		}
	}
}

// NewTextFormatter creates a new text formatter. Entries quoted in error
// context are rendered with f, or with a default formatter when f is nil.
func NewTextFormatter(f *formatter.Formatter, opts ...TextFormatterOption) *TextFormatter {
	if f == nil {
		f = formatter.New(formatter.WithIndentation(2))
	}
	tf := &TextFormatter{
		formatter:    f,
		messageStyle: plain,
		contextStyle: plain,
		caretStyle:   plain,
	}
	for _, opt := range opts {
		opt(tf)
	}
	return tf
}

// Format formats a single error.
func (tf *TextFormatter) Format(err error) string {
	var perr *parser.ParseError
	if stdErrors.As(err, &perr) {
		return tf.formatWithSourceContext(perr.Pos, perr.Error(), perr.Snippet)
	}

	var entryErr EntryError
	if stdErrors.As(err, &entryErr) && entryErr.GetEntry() != nil {
		return tf.formatWithEntry(err.Error(), entryErr.GetEntry())
	}

	var posErr Positioned
	if stdErrors.As(err, &posErr) {
		return tf.formatWithSourceContext(posErr.GetPosition(), err.Error(), "")
	}

	return tf.messageStyle(err.Error())
}

// FormatAll formats multiple errors, separating them with blank lines.
func (tf *TextFormatter) FormatAll(errs []error) string {
	if len(errs) == 0 {
		return ""
	}

	var buf bytes.Buffer
	for i, err := range errs {
		buf.WriteString(tf.Format(err))

		if i < len(errs)-1 {
			buf.WriteString("\n\n")
		}
	}

	return buf.String()
}

// contextLines returns the lines to quote around pos and the index of the
// offending line among them. The source is only used when its line at pos
// matches snippet, since an error may come from an included file.
func (tf *TextFormatter) contextLines(pos ast.Position, snippet string) ([]string, int) {
	if tf.sourceContent != nil && pos.Line > 0 {
		source := strings.TrimSuffix(string(tf.sourceContent), "\n")
		lines := strings.Split(source, "\n")
		idx := pos.Line - 1
		if idx < len(lines) && (snippet == "" || strings.TrimSuffix(lines[idx], "\r") == snippet) {
			// Show 2 lines before and 1 line after the error line
			start := max(idx-2, 0)
			end := min(idx+1, len(lines)-1)
			quoted := make([]string, 0, end-start+1)
			for _, line := range lines[start : end+1] {
				quoted = append(quoted, strings.TrimSuffix(line, "\r"))
			}
			return quoted, idx - start
		}
	}

	if snippet != "" {
		return []string{snippet}, 0
	}
	return nil, -1
}

// formatWithSourceContext formats an error message followed by the source
// lines around the error position and a caret under the error column.
func (tf *TextFormatter) formatWithSourceContext(pos ast.Position, message, snippet string) string {
	lines, errLine := tf.contextLines(pos, snippet)
	if len(lines) == 0 {
		return tf.messageStyle(message)
	}

	var buf strings.Builder
	buf.WriteString(tf.messageStyle(message))
	buf.WriteString("\n\n")

	for i, line := range lines {
		buf.WriteString("   ")
		buf.WriteString(tf.contextStyle(line))
		buf.WriteByte('\n')

		if i == errLine && pos.Column > 0 {
			buf.WriteString("   ")
			buf.WriteString(caretPadding(line, pos.Column-1))
			buf.WriteString(tf.caretStyle("^"))
			buf.WriteByte('\n')
		}
	}

	return buf.String()
}

// caretPadding returns the whitespace that lines a caret up under byte offset
// col of line. Tabs are kept and wide runes count double.
func caretPadding(line string, col int) string {
	if col > len(line) {
		return strings.Repeat(" ", runewidth.StringWidth(line)+col-len(line))
	}

	var buf strings.Builder
	for _, r := range line[:col] {
		if r == '\t' {
			buf.WriteByte('\t')
			continue
		}
		buf.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	return buf.String()
}

// formatWithEntry formats an error followed by the entry it concerns.
func (tf *TextFormatter) formatWithEntry(message string, entry ast.Entry) string {
	var buf strings.Builder
	buf.WriteString(tf.messageStyle(message))
	buf.WriteString("\n\n")

	var entryBuf bytes.Buffer
	doc := &ast.Document{Entries: []ast.Entry{entry}}
	if err := tf.formatter.Format(context.Background(), doc, &entryBuf); err == nil {
		for _, line := range strings.Split(strings.TrimRight(entryBuf.String(), "\n"), "\n") {
			buf.WriteString("   ")
			buf.WriteString(tf.contextStyle(line))
			buf.WriteByte('\n')
		}
	}

	return buf.String()
}

// JSONFormatter formats errors as JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// ErrorJSON represents an error in JSON format.
type ErrorJSON struct {
	Type     string            `json:"type"`
	Kind     string            `json:"kind,omitempty"`
	Message  string            `json:"message"`
	Position *PositionJSON     `json:"position,omitempty"`
	Snippet  string            `json:"snippet,omitempty"`
	Details  map[string]string `json:"details,omitempty"`
}

// PositionJSON represents a file position in JSON format.
type PositionJSON struct {
	Filename string `json:"filename"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Offset   int    `json:"offset"`
}

// Format formats a single error as JSON.
func (jf *JSONFormatter) Format(err error) string {
	data, _ := json.Marshal(jf.toJSON(err))
	return string(data)
}

// FormatAll formats multiple errors as a JSON array.
func (jf *JSONFormatter) FormatAll(errs []error) string {
	data, _ := json.MarshalIndent(jf.FormatAllToSlice(errs), "", "  ")
	return string(data)
}

// FormatAllToSlice returns errors as a slice of ErrorJSON structs.
func (jf *JSONFormatter) FormatAllToSlice(errs []error) []ErrorJSON {
	result := make([]ErrorJSON, 0, len(errs))
	for _, err := range errs {
		result = append(result, jf.toJSON(err))
	}
	return result
}

// toJSON converts an error to ErrorJSON.
func (jf *JSONFormatter) toJSON(err error) ErrorJSON {
	errJSON := ErrorJSON{
		Type:    fmt.Sprintf("%T", err),
		Message: err.Error(),
	}

	var posErr Positioned
	if stdErrors.As(err, &posErr) {
		errJSON.Type = fmt.Sprintf("%T", posErr)
		pos := posErr.GetPosition()
		errJSON.Position = &PositionJSON{
			Filename: pos.Filename,
			Line:     pos.Line,
			Column:   pos.Column,
			Offset:   pos.Offset,
		}
	}

	var perr *parser.ParseError
	if stdErrors.As(err, &perr) {
		errJSON.Kind = perr.Kind.String()
		errJSON.Snippet = perr.Snippet
	}

	var entryErr EntryError
	if stdErrors.As(err, &entryErr) {
		switch e := entryErr.GetEntry().(type) {
		case *ast.Transaction:
			errJSON.Details = map[string]string{"entry": "transaction", "date": e.Date.String()}
		case ast.Directive:
			errJSON.Details = map[string]string{"entry": e.Directive()}
		}
	}

	return errJSON
}
