package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/hledger/formatter"
	"github.com/robinvdvleuten/hledger/loader"
	"github.com/robinvdvleuten/hledger/output"
	"github.com/robinvdvleuten/hledger/telemetry"
)

type FormatCmd struct {
	File         FileOrStdin `help:"Journal input filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
	Write        bool        `help:"Write the formatted journal back to the file instead of stdout." short:"w"`
	Yes          bool        `help:"Overwrite the file without asking for confirmation." short:"y"`
	Indent       int         `help:"Number of spaces before postings and sub-directives." default:"4"`
	AmountColumn int         `help:"Column for amount alignment (auto-calculated from content if 0)." default:"0"`
}

func (cmd *FormatCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	if cmd.Write && cmd.File.IsStdin() {
		return fmt.Errorf("--write needs a journal file, not stdin")
	}

	runCtx := context.Background()

	var collector telemetry.Collector
	if globals.Telemetry {
		collector = telemetry.NewTimingCollector()
		runCtx = telemetry.WithCollector(runCtx, collector)

		defer func() {
			_, _ = fmt.Fprintln(ctx.Stderr)
			collector.Report(ctx.Stderr, output.NewStyles(ctx.Stderr))
		}()
	}

	sourceContent, err := cmd.File.GetSourceContent()
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	journal, err := cmd.File.Load(runCtx, loader.New(), sourceContent)
	if err != nil {
		renderer := NewErrorRenderer(sourceContent)
		_, _ = fmt.Fprintln(ctx.Stderr, renderer.Render(err))
		printError(ctx.Stderr, "parse error")
		return NewCommandError(1)
	}

	opts := []formatter.Option{formatter.WithIndentation(cmd.Indent)}
	if cmd.AmountColumn > 0 {
		opts = append(opts, formatter.WithAmountColumn(cmd.AmountColumn))
	}
	f := formatter.New(opts...)

	var buf bytes.Buffer
	if err := f.Format(runCtx, journal.Root, &buf); err != nil {
		return err
	}

	if !cmd.Write {
		_, err := ctx.Stdout.Write(buf.Bytes())
		return err
	}

	return cmd.writeBack(ctx, sourceContent, buf.Bytes())
}

// writeBack replaces the journal file with its formatted contents.
func (cmd *FormatCmd) writeBack(ctx *kong.Context, original, formatted []byte) error {
	path := pathStyle.Render(cmd.File.Filename)

	if bytes.Equal(original, formatted) {
		printInfof(ctx.Stdout, "%s is already formatted", path)
		return nil
	}

	if !cmd.Yes && isTerminal() {
		confirmed, err := promptYesNo(fmt.Sprintf("Overwrite %s with the formatted journal?", cmd.File.Filename))
		if err != nil {
			return err
		}
		if !confirmed {
			printInfof(ctx.Stdout, "Left %s unchanged", path)
			return nil
		}
	}

	info, err := os.Stat(cmd.File.Filename)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", cmd.File.Filename, err)
	}
	if err := os.WriteFile(cmd.File.Filename, formatted, info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to write %s: %w", cmd.File.Filename, err)
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("Formatted %s", path))
	return nil
}
