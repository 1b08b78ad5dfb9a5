package ast

// Trivia represents non-semantic content like comments and blank lines that should be
// preserved during formatting. They keep their place in Document.Entries so a journal
// can be written back with its original structure.

// Comment is a top-level comment. It is either a single line starting with
// '#', ';' or '*', or a block running from a "comment" line to an "end comment" line.
type Comment struct {
	Pos    Position
	Marker byte   // '#', ';' or '*'; zero for block comments
	Text   string // Line text after the marker
	Indent string // Leading whitespace of an indented single-line comment

	Block  bool
	Header string   // Trailing text on the "comment" line
	Lines  []string // Verbatim lines between the delimiters, blank lines included
	Footer string   // Trailing text on the "end comment" line
}

var _ Entry = (*Comment)(nil)

func (c *Comment) Position() Position { return c.Pos }
func (*Comment) entry()               {}

// BlankLine represents an empty or whitespace-only line in the source file.
type BlankLine struct {
	Pos Position
}

var _ Entry = (*BlankLine)(nil)

func (b *BlankLine) Position() Position { return b.Pos }
func (*BlankLine) entry()               {}
