package loader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/robinvdvleuten/hledger/ast"
	"github.com/robinvdvleuten/hledger/parser"
	"github.com/robinvdvleuten/hledger/telemetry"
)

// writeFiles writes the given files below dir and returns dir.
func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		assert.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func absPath(t *testing.T, path string) string {
	t.Helper()
	abs, err := filepath.Abs(path)
	assert.NoError(t, err)
	return abs
}

const rent = `2024-01-01 Rent
    expenses:rent  $1200
    assets:checking
`

func TestLoadSingleFile(t *testing.T) {
	dir := writeFiles(t, map[string]string{"main.journal": rent})
	mainFile := filepath.Join(dir, "main.journal")

	for _, ldr := range []*Loader{New(), New(WithFollowIncludes())} {
		journal, err := ldr.Load(context.Background(), mainFile)
		assert.NoError(t, err)
		assert.Equal(t, absPath(t, mainFile), journal.Path)
		assert.Equal(t, 1, len(journal.Root.Transactions()))
		assert.Equal(t, mainFile, journal.Root.Filename)
		assert.Equal(t, 0, len(journal.Files))
		assert.Equal(t, journal.Root, journal.Merged())
	}
}

func TestLoadWithInclude_NoFollow(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"main.journal":     "include accounts.journal\n\n" + rent,
		"accounts.journal": "account assets:checking\n",
	})

	journal, err := New().Load(context.Background(), filepath.Join(dir, "main.journal"))
	assert.NoError(t, err)

	includes := journal.Root.Includes()
	assert.Equal(t, 1, len(includes))
	assert.Equal(t, "accounts.journal", includes[0].Path)
	assert.Equal(t, 0, len(journal.Files))
	assert.Equal(t, 0, len(journal.Includes))
}

func TestLoadWithInclude_WithFollow(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"main.journal":     "include accounts.journal\n\n" + rent,
		"accounts.journal": "account assets:checking\naccount expenses:rent\n",
	})

	journal, err := New(WithFollowIncludes()).Load(context.Background(), filepath.Join(dir, "main.journal"))
	assert.NoError(t, err)

	assert.Equal(t, 1, len(journal.Files))
	assert.Equal(t, []string{absPath(t, filepath.Join(dir, "accounts.journal"))}, journal.Includes)
	assert.Equal(t, 2, len(journal.Files[0].Directives()))

	// Included entries keep their own filename
	pos := journal.Files[0].Entries[0].Position()
	assert.Equal(t, "accounts.journal", filepath.Base(pos.Filename))
	assert.Equal(t, 1, pos.Line)

	merged := journal.Merged()
	assert.Equal(t, journal.Root.Len()+2, merged.Len())
	assert.Equal(t, journal.Root.Filename, merged.Filename)
	assert.Equal(t, 2, len(journal.Documents()))
}

func TestLoadNestedIncludes(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"main.journal":          "include 2024/main.journal\ninclude prices.journal\n",
		"2024/main.journal":     "include accounts.journal\n" + rent,
		"2024/accounts.journal": "account assets:checking\n",
		"prices.journal":        "P 2024-01-01 EUR $1.10\n",
	})

	journal, err := New(WithFollowIncludes()).Load(context.Background(), filepath.Join(dir, "main.journal"))
	assert.NoError(t, err)

	// Depth-first: 2024/main.journal, its include, then prices.journal
	var names []string
	for _, path := range journal.Includes {
		rel, err := filepath.Rel(absPath(t, dir), path)
		assert.NoError(t, err)
		names = append(names, filepath.ToSlash(rel))
	}
	assert.Equal(t, []string{"2024/main.journal", "2024/accounts.journal", "prices.journal"}, names)
	assert.Equal(t, 1, len(journal.Merged().Transactions()))
	assert.Equal(t, 1, len(journal.Merged().Prices()))
}

func TestLoadGlobInclude(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"main.journal":      "include months/*.journal\n",
		"months/02.journal": "2024-02-01 February\n    a  $1\n    b\n",
		"months/01.journal": "2024-01-01 January\n    a  $1\n    b\n",
		"months/notes.txt":  "not a journal",
	})

	journal, err := New(WithFollowIncludes()).Load(context.Background(), filepath.Join(dir, "main.journal"))
	assert.NoError(t, err)
	assert.Equal(t, 2, len(journal.Files))

	txns := journal.Merged().Transactions()
	assert.Equal(t, 2, len(txns))
	assert.Equal(t, "January", txns[0].Description.Text)
	assert.Equal(t, "February", txns[1].Description.Text)
}

func TestLoadCircularInclude(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.journal": "include b.journal\ntag a\n",
		"b.journal": "include a.journal\ntag b\n",
	})

	journal, err := New(WithFollowIncludes()).Load(context.Background(), filepath.Join(dir, "a.journal"))
	assert.NoError(t, err)
	assert.Equal(t, 1, len(journal.Files))
	assert.Equal(t, 4, journal.Merged().Len())
}

func TestLoadSameFileTwice(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"main.journal":   "include a.journal\ninclude b.journal\n",
		"a.journal":      "include common.journal\n",
		"b.journal":      "include ./common.journal\n",
		"common.journal": "tag shared\n",
	})

	journal, err := New(WithFollowIncludes()).Load(context.Background(), filepath.Join(dir, "main.journal"))
	assert.NoError(t, err)
	assert.Equal(t, 3, len(journal.Files))

	tags := 0
	for _, d := range journal.Merged().Directives() {
		if _, ok := d.(*ast.TagDirective); ok {
			tags++
		}
	}
	assert.Equal(t, 1, tags)
}

func TestLoadAbsoluteInclude(t *testing.T) {
	shared := writeFiles(t, map[string]string{"shared.journal": "payee Landlord\n"})
	dir := writeFiles(t, map[string]string{
		"main.journal": "include " + filepath.Join(shared, "shared.journal") + "\n",
	})

	journal, err := New(WithFollowIncludes()).Load(context.Background(), filepath.Join(dir, "main.journal"))
	assert.NoError(t, err)
	assert.Equal(t, 1, len(journal.Files))
}

func TestLoadMissingInclude(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"main.journal": "tag x\ninclude does-not-exist.journal\n",
	})

	_, err := New(WithFollowIncludes()).Load(context.Background(), filepath.Join(dir, "main.journal"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), `include "does-not-exist.journal" matched no files`)
	assert.Contains(t, err.Error(), "in file ")

	var incErr *IncludeError
	assert.True(t, errors.As(err, &incErr))
	assert.Equal(t, 2, incErr.GetPosition().Line)
	assert.Equal(t, ast.Entry(incErr.Directive), incErr.GetEntry())
	assert.NoError(t, incErr.Unwrap())
}

func TestLoadBadPattern(t *testing.T) {
	dir := writeFiles(t, map[string]string{"main.journal": "include [\n"})

	_, err := New(WithFollowIncludes()).Load(context.Background(), filepath.Join(dir, "main.journal"))
	assert.True(t, errors.Is(err, filepath.ErrBadPattern))
	assert.Contains(t, err.Error(), `invalid include pattern "["`)
}

func TestLoadParseErrorInInclude(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"main.journal":   "include broken.journal\n",
		"broken.journal": "tag ok\nfoo\n",
	})

	_, err := New(WithFollowIncludes()).Load(context.Background(), filepath.Join(dir, "main.journal"))
	assert.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "in file "))

	var perr *parser.ParseError
	assert.True(t, errors.As(err, &perr))
	assert.Equal(t, parser.UnrecognizedEntry, perr.Kind)
	assert.Equal(t, "broken.journal", filepath.Base(perr.Pos.Filename))
	assert.Equal(t, 2, perr.Pos.Line)
}

func TestLoadNonExistentFile(t *testing.T) {
	_, err := New().Load(context.Background(), filepath.Join(t.TempDir(), "missing.journal"))
	assert.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Contains(t, err.Error(), "failed to read")
}

func TestLoadCancelled(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"main.journal": "include a.journal\n",
		"a.journal":    "tag a\n",
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(WithFollowIncludes()).Load(ctx, filepath.Join(dir, "main.journal"))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestLoadBytes(t *testing.T) {
	t.Run("Stdin", func(t *testing.T) {
		journal, err := New(WithFollowIncludes()).LoadBytes(context.Background(), StdinFilename, []byte(rent))
		assert.NoError(t, err)
		assert.Equal(t, StdinFilename, journal.Path)
		assert.Equal(t, 1, len(journal.Root.Transactions()))
	})

	t.Run("StdinWithIncludesNoFollow", func(t *testing.T) {
		journal, err := New().LoadBytes(context.Background(), StdinFilename, []byte("include accounts.journal\n"))
		assert.NoError(t, err)
		assert.Equal(t, 1, len(journal.Root.Includes()))
	})

	t.Run("StdinWithIncludesFollow", func(t *testing.T) {
		_, err := New(WithFollowIncludes()).LoadBytes(context.Background(), StdinFilename, []byte("include accounts.journal\n"))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "include directives are not supported when reading from stdin")
	})

	t.Run("ResolvesRelativeToFilename", func(t *testing.T) {
		dir := writeFiles(t, map[string]string{"accounts.journal": "account assets:cash\n"})
		journal, err := New(WithFollowIncludes()).LoadBytes(context.Background(), filepath.Join(dir, "main.journal"), []byte("include accounts.journal\n"))
		assert.NoError(t, err)
		assert.Equal(t, 1, len(journal.Files))
	})

	t.Run("ParseError", func(t *testing.T) {
		_, err := New().LoadBytes(context.Background(), "test.journal", []byte("2024-01-01 x\n"))
		var perr *parser.ParseError
		assert.True(t, errors.As(err, &perr))
		assert.Equal(t, parser.EmptyTransaction, perr.Kind)
	})
}

func TestLoadTelemetry(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"main.journal": "include a.journal\n",
		"a.journal":    "tag a\n",
	})

	collector := telemetry.NewTimingCollector()
	ctx := telemetry.WithCollector(context.Background(), collector)
	root := collector.Start("check main.journal")
	ctx = telemetry.WithRootTimer(ctx, root)

	_, err := New(WithFollowIncludes()).Load(ctx, filepath.Join(dir, "main.journal"))
	assert.NoError(t, err)
	root.End()

	var buf strings.Builder
	collector.Report(&buf, nil)
	report := buf.String()
	assert.Contains(t, report, "loader.load main.journal")
	assert.Contains(t, report, "loader.load a.journal")
	assert.Contains(t, report, "parser.parse a.journal")
}

func TestMustLoad(t *testing.T) {
	dir := writeFiles(t, map[string]string{"main.journal": rent})
	ldr := New()

	journal := ldr.MustLoad(context.Background(), filepath.Join(dir, "main.journal"))
	assert.Equal(t, 1, len(journal.Root.Transactions()))

	assert.Panics(t, func() {
		ldr.MustLoad(context.Background(), filepath.Join(dir, "missing.journal"))
	})
}

func TestMustLoadBytes(t *testing.T) {
	ldr := New()

	journal := ldr.MustLoadBytes(context.Background(), "empty.journal", []byte(""))
	assert.Equal(t, 0, journal.Root.Len())

	assert.Panics(t, func() {
		ldr.MustLoadBytes(context.Background(), "invalid.journal", []byte("2024-13 nope\n"))
	})
}
