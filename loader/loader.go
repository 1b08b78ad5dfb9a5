// Package loader reads hledger journals from disk, optionally following their
// include directives.
//
// The loader supports two modes of operation:
//   - Simple mode: Parses a single file with include directives preserved in the document
//   - Follow mode: Recursively loads every included file as well
//
// When following includes, patterns are resolved relative to the directory of
// the file containing the include directive and expanded as globs. A file that
// is included more than once, directly or through a cycle, is loaded only once.
//
// Example usage:
//
//	// Load a single file without following includes
//	ldr := loader.New()
//	journal, err := ldr.Load(ctx, "main.journal")
//
//	// Load with recursive include resolution
//	ldr := loader.New(loader.WithFollowIncludes())
//	journal, err := ldr.Load(ctx, "main.journal")
package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/exp/slices"

	"github.com/robinvdvleuten/hledger/ast"
	"github.com/robinvdvleuten/hledger/parser"
	"github.com/robinvdvleuten/hledger/telemetry"
)

// StdinFilename is the filename used for journals read from standard input.
const StdinFilename = "<stdin>"

// Loader handles loading and parsing of journal files with optional include resolution.
//
// Configure the loader using functional options passed to New:
//
//	ldr := New(WithFollowIncludes())
type Loader struct {
	// FollowIncludes determines whether to recursively load included files.
	// When false, only the specified file is parsed and its include directives
	// are left unresolved.
	FollowIncludes bool
}

// Option configures how files are loaded.
type Option func(*Loader)

// WithFollowIncludes configures the loader to recursively load all included files.
func WithFollowIncludes() Option {
	return func(l *Loader) {
		l.FollowIncludes = true
	}
}

// New creates a new Loader with the given options.
func New(opts ...Option) *Loader {
	l := &Loader{}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Journal is the result of loading a journal file.
type Journal struct {
	// Path is the absolute path of the loaded file, or StdinFilename.
	Path string

	// Root is the document parsed from the loaded file.
	Root *ast.Document

	// Files holds the included documents in depth-first include order.
	// Each file appears once, however often it is included.
	Files []*ast.Document

	// Includes holds the absolute paths of Files, in the same order.
	Includes []string
}

// Documents returns the root document followed by all included documents.
func (j *Journal) Documents() []*ast.Document {
	docs := make([]*ast.Document, 0, len(j.Files)+1)
	docs = append(docs, j.Root)
	return append(docs, j.Files...)
}

// Merged returns a single document holding the entries of every loaded file,
// in load order. Entries keep the positions of the file they came from.
func (j *Journal) Merged() *ast.Document {
	if len(j.Files) == 0 {
		return j.Root
	}

	size := 0
	for _, doc := range j.Documents() {
		size += len(doc.Entries)
	}

	merged := &ast.Document{
		Filename: j.Root.Filename,
		Entries:  make([]ast.Entry, 0, size),
	}
	for _, doc := range j.Documents() {
		merged.Entries = append(merged.Entries, doc.Entries...)
	}
	return merged
}

// IncludeError reports an include directive that could not be resolved.
type IncludeError struct {
	Directive *ast.IncludeDirective
	Err       error // Underlying error, nil when the pattern matched no files
}

func (e *IncludeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: invalid include pattern %q: %v", e.Directive.Pos, e.Directive.Path, e.Err)
	}
	return fmt.Sprintf("%s: include %q matched no files", e.Directive.Pos, e.Directive.Path)
}

func (e *IncludeError) Unwrap() error {
	return e.Err
}

// GetPosition returns the position of the include directive.
func (e *IncludeError) GetPosition() ast.Position {
	return e.Directive.Pos
}

// GetEntry returns the include directive.
func (e *IncludeError) GetEntry() ast.Entry {
	return e.Directive
}

// Load parses a journal file with optional recursive include resolution.
func (l *Loader) Load(ctx context.Context, filename string) (*Journal, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}

	return l.LoadBytes(ctx, filename, data)
}

// LoadBytes parses a journal held in memory. The filename is used for error
// positions and, when following includes, to resolve include patterns.
// Includes cannot be followed for data read from stdin.
func (l *Loader) LoadBytes(ctx context.Context, filename string, data []byte) (*Journal, error) {
	timer := telemetry.RootTimerFromContext(ctx).Child("loader.load " + filepath.Base(filename))
	defer timer.End()

	path := filename
	if filename != StdinFilename && filename != "" {
		abs, err := filepath.Abs(filename)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve absolute path for %s: %w", filename, err)
		}
		path = abs
	}

	doc, err := parser.ParseBytesWithFilename(ctx, filename, data)
	if err != nil {
		return nil, err
	}

	journal := &Journal{Path: path, Root: doc}
	if !l.FollowIncludes || len(doc.Includes()) == 0 {
		return journal, nil
	}

	if path == StdinFilename || path == "" {
		return nil, fmt.Errorf("include directives are not supported when reading from stdin")
	}

	state := &loaderState{
		journal: journal,
		visited: map[string]bool{path: true},
	}
	if err := state.loadIncludes(ctx, filename, path, doc); err != nil {
		return nil, err
	}
	return journal, nil
}

// MustLoad is like Load but panics if the file cannot be loaded.
func (l *Loader) MustLoad(ctx context.Context, filename string) *Journal {
	journal, err := l.Load(ctx, filename)
	if err != nil {
		panic(err)
	}
	return journal
}

// MustLoadBytes is like LoadBytes but panics if the data cannot be parsed.
func (l *Loader) MustLoadBytes(ctx context.Context, filename string, data []byte) *Journal {
	journal, err := l.LoadBytes(ctx, filename, data)
	if err != nil {
		panic(err)
	}
	return journal
}

// loaderState tracks state during recursive loading.
type loaderState struct {
	journal *Journal
	visited map[string]bool // Absolute paths of files already loaded
}

// loadIncludes loads every file matched by the include directives of doc,
// which was read from filename (absolute path absPath).
func (l *loaderState) loadIncludes(ctx context.Context, filename, absPath string, doc *ast.Document) error {
	baseDir := filepath.Dir(absPath)

	for _, inc := range doc.Includes() {
		pattern := inc.Path
		if !filepath.IsAbs(pattern) {
			pattern = filepath.Join(baseDir, pattern)
		}

		matches, err := filepath.Glob(pattern)
		if err != nil {
			return fmt.Errorf("in file %s: %w", filename, &IncludeError{Directive: inc, Err: err})
		}
		if len(matches) == 0 {
			return fmt.Errorf("in file %s: %w", filename, &IncludeError{Directive: inc})
		}
		slices.Sort(matches)

		for _, match := range matches {
			if err := l.loadFile(ctx, match); err != nil {
				return fmt.Errorf("in file %s: %w", filename, err)
			}
		}
	}

	return nil
}

// loadFile loads a single included file and, recursively, its includes.
func (l *loaderState) loadFile(ctx context.Context, filename string) error {
	// Check for cancellation between files
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	absPath, err := filepath.Abs(filename)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path for %s: %w", filename, err)
	}
	if l.visited[absPath] {
		return nil
	}
	l.visited[absPath] = true

	timer := telemetry.FromContext(ctx).Start("loader.load " + filepath.Base(filename))
	defer timer.End()

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filename, err)
	}

	doc, err := parser.ParseBytesWithFilename(ctx, filename, data)
	if err != nil {
		return err
	}

	l.journal.Files = append(l.journal.Files, doc)
	l.journal.Includes = append(l.journal.Includes, absPath)

	return l.loadIncludes(ctx, filename, absPath, doc)
}
