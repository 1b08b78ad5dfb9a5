package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fsnotify/fsnotify"

	"github.com/robinvdvleuten/hledger/errors"
	"github.com/robinvdvleuten/hledger/loader"
	"github.com/robinvdvleuten/hledger/output"
	"github.com/robinvdvleuten/hledger/telemetry"
)

// settleDelay is how long the watcher waits for a burst of file events to end.
const settleDelay = 100 * time.Millisecond

type CheckCmd struct {
	File           FileOrStdin `help:"Journal input filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
	FollowIncludes bool        `help:"Load and check included files as well." short:"i"`
	JSON           bool        `help:"Print the result as JSON." name:"json"`
	Watch          bool        `help:"Check again whenever the journal or one of its includes changes." short:"w"`
}

// checkSummary describes a journal that parsed successfully.
type checkSummary struct {
	File         string         `json:"file"`
	Files        int            `json:"files"`
	Entries      int            `json:"entries"`
	Transactions int            `json:"transactions"`
	Accounts     []string       `json:"accounts"`
	Commodities  []string       `json:"commodities"`
	Precision    map[string]int `json:"precision"`
}

func summarize(journal *loader.Journal) checkSummary {
	merged := journal.Merged()
	enriched := merged.Enrich()

	return checkSummary{
		File:         journal.Path,
		Files:        len(journal.Files) + 1,
		Entries:      merged.Len(),
		Transactions: len(merged.Transactions()),
		Accounts:     enriched.AccountList(),
		Commodities:  enriched.CommodityList(),
		Precision:    enriched.Precision,
	}
}

func (cmd *CheckCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	if !cmd.Watch {
		_, err := cmd.check(ctx.Stdout, ctx.Stderr, globals)
		return err
	}

	if cmd.File.IsStdin() {
		return fmt.Errorf("--watch needs a journal file, not stdin")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(signals)

	printInfof(ctx.Stderr, "Watching %s for changes (press Ctrl+C to stop)", pathStyle.Render(cmd.File.Filename))

	return watchLoop(watcher, func() []string {
		files, _ := cmd.check(ctx.Stdout, ctx.Stderr, globals)
		return files
	}, signals)
}

// check runs a single check and returns the absolute paths of the files it
// read, so that they can be watched.
func (cmd *CheckCmd) check(stdout, stderr io.Writer, globals *Globals) ([]string, error) {
	runCtx := context.Background()
	files := []string{cmd.File.GetAbsoluteFilename()}

	var collector telemetry.Collector
	var checkTimer telemetry.Timer
	var once sync.Once

	reportTelemetry := func() {
		once.Do(func() {
			if collector != nil {
				checkTimer.End()
				_, _ = fmt.Fprintln(stderr)
				collector.Report(stderr, output.NewStyles(stderr))
			}
		})
	}

	if globals.Telemetry {
		collector = telemetry.NewTimingCollector()
		runCtx = telemetry.WithCollector(runCtx, collector)

		checkTimer = collector.Start(fmt.Sprintf("check %s", filepath.Base(cmd.File.Filename)))
		runCtx = telemetry.WithRootTimer(runCtx, checkTimer)

		defer reportTelemetry()
	}

	sourceContent, err := cmd.File.GetSourceContent()
	if err != nil {
		return files, fmt.Errorf("failed to read %s: %w", cmd.File.Filename, err)
	}

	var opts []loader.Option
	if cmd.FollowIncludes {
		opts = append(opts, loader.WithFollowIncludes())
	}

	journal, err := cmd.File.Load(runCtx, loader.New(opts...), sourceContent)
	if err != nil {
		if cmd.JSON {
			_, _ = fmt.Fprintln(stdout, errors.NewJSONFormatter().FormatAll([]error{err}))
		} else {
			renderer := NewErrorRenderer(sourceContent)
			_, _ = fmt.Fprintln(stderr, renderer.Render(err))
			printError(stderr, "parse error")
		}

		reportTelemetry()
		return files, NewCommandError(1)
	}

	files = append(files, journal.Includes...)
	summary := summarize(journal)

	if cmd.JSON {
		data, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return files, err
		}
		_, _ = fmt.Fprintln(stdout, string(data))
		return files, nil
	}

	printSuccess(stdout, "Check passed")
	printSummary(stdout, summary)

	return files, nil
}

func printSummary(w io.Writer, summary checkSummary) {
	styles := output.NewStyles(w)

	printInfof(w, "%s: %d %s, %d %s, %d %s",
		styles.FilePath(summary.File),
		summary.Files, plural(summary.Files, "file", "files"),
		summary.Entries, plural(summary.Entries, "entry", "entries"),
		summary.Transactions, plural(summary.Transactions, "transaction", "transactions"),
	)

	accounts := make([]string, 0, len(summary.Accounts))
	for _, account := range summary.Accounts {
		accounts = append(accounts, styles.Account(account))
	}
	printInfof(w, "%d %s: %s", len(accounts), plural(len(accounts), "account", "accounts"), strings.Join(accounts, ", "))

	commodities := make([]string, 0, len(summary.Commodities))
	for _, commodity := range summary.Commodities {
		commodities = append(commodities, fmt.Sprintf("%s %s",
			styles.Commodity(commodity),
			styles.Dim(fmt.Sprintf("(%d dp)", summary.Precision[commodity])),
		))
	}
	printInfof(w, "%d %s: %s", len(commodities), plural(len(commodities), "commodity", "commodities"), strings.Join(commodities, ", "))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// watchLoop runs check, watches the directories of the files it returns, and
// runs it again whenever one of those files changes. It returns when stop
// receives or the watcher shuts down.
func watchLoop(watcher *fsnotify.Watcher, check func() []string, stop <-chan os.Signal) error {
	watchedDirs := make(map[string]bool)

	for {
		files := make(map[string]bool)
		for _, file := range check() {
			file = filepath.Clean(file)
			files[file] = true

			// Directories are watched instead of files, since editors often
			// save by replacing the file.
			dir := filepath.Dir(file)
			if watchedDirs[dir] {
				continue
			}
			if err := watcher.Add(dir); err != nil {
				return fmt.Errorf("failed to watch %s: %w", dir, err)
			}
			watchedDirs[dir] = true
		}

		if !waitForChange(watcher, files, stop) {
			return nil
		}
		settle(watcher.Events, settleDelay)
	}
}

// waitForChange blocks until one of files changes. It returns false when
// watching should stop.
func waitForChange(watcher *fsnotify.Watcher, files map[string]bool, stop <-chan os.Signal) bool {
	for {
		select {
		case <-stop:
			return false

		case _, ok := <-watcher.Errors:
			if !ok {
				return false
			}

		case event, ok := <-watcher.Events:
			if !ok {
				return false
			}
			if !event.Has(fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename) {
				continue
			}
			if files[filepath.Clean(event.Name)] {
				return true
			}
		}
	}
}

// settle drains events until none arrived for delay.
func settle(events <-chan fsnotify.Event, delay time.Duration) {
	timer := time.NewTimer(delay)
	defer timer.Stop()

	for {
		select {
		case _, ok := <-events:
			if !ok {
				return
			}
			timer.Reset(delay)
		case <-timer.C:
			return
		}
	}
}
