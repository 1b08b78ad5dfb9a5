package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/robinvdvleuten/hledger/errors"
)

var (
	errCaretStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"})
	errContextStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#808080", Dark: "#808080"})
)

// ErrorRenderer renders errors with terminal styling and source context.
type ErrorRenderer struct {
	text *errors.TextFormatter
}

// NewErrorRenderer creates a renderer with source content for context.
func NewErrorRenderer(source []byte) *ErrorRenderer {
	return &ErrorRenderer{
		text: errors.NewTextFormatter(nil,
			errors.WithSource(source),
			errors.WithStyles(render(errorStyle), render(errContextStyle), render(errCaretStyle)),
		),
	}
}

func render(style lipgloss.Style) errors.Style {
	return func(s string) string {
		return style.Render(s)
	}
}

// Render formats a single error with styling and context.
func (r *ErrorRenderer) Render(err error) string {
	return r.text.Format(err)
}

// RenderAll formats multiple errors, separating them with blank lines.
func (r *ErrorRenderer) RenderAll(errs []error) string {
	return r.text.FormatAll(errs)
}
