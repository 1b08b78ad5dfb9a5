package cli

import (
	"context"
	"fmt"

	"github.com/alecthomas/kong"
	"github.com/alecthomas/repr"

	"github.com/robinvdvleuten/hledger/loader"
	"github.com/robinvdvleuten/hledger/parser"
)

// DoctorCmd provides doctor utilities for debugging journal files.
type DoctorCmd struct {
	Lines LinesCmd `cmd:"" help:"Show how each line of a journal file is classified."`
	Dump  DumpCmd  `cmd:"" help:"Print the parsed syntax tree of a journal file."`
}

// LinesCmd shows the line classification of a journal file.
type LinesCmd struct {
	File FileOrStdin `help:"Journal input filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
}

// Run executes the lines command.
func (cmd *LinesCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	content, err := cmd.File.GetSourceContent()
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	// Format: TYPE line:col "content"
	for _, token := range parser.Lex(content) {
		_, _ = fmt.Fprintf(ctx.Stdout, "%-15s %d:%d    %q\n",
			token.Type.String(),
			token.Line,
			token.Column,
			token.String(content))
	}

	return nil
}

// DumpCmd prints the parsed syntax tree of a journal file.
type DumpCmd struct {
	File FileOrStdin `help:"Journal input filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
}

// Run executes the dump command.
func (cmd *DumpCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	content, err := cmd.File.GetSourceContent()
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	journal, err := cmd.File.Load(context.Background(), loader.New(), content)
	if err != nil {
		_, _ = fmt.Fprintln(ctx.Stderr, NewErrorRenderer(content).Render(err))
		printError(ctx.Stderr, "parse error")
		return NewCommandError(1)
	}

	repr.New(ctx.Stdout, repr.Indent("  "), repr.OmitEmpty(true)).Println(journal.Root)
	return nil
}
