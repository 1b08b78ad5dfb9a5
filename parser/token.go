package parser

// TokenType classifies a whole source line.
type TokenType uint8

const (
	BLANK TokenType = iota
	COMMENT
	BLOCK_COMMENT
	TRANSACTION
	POSTING
	POSTING_COMMENT
	DIRECTIVE
	SUBDIRECTIVE
	PRICE
	ILLEGAL
)

var tokenNames = map[TokenType]string{
	BLANK:           "BLANK",
	COMMENT:         "COMMENT",
	BLOCK_COMMENT:   "BLOCK_COMMENT",
	TRANSACTION:     "TRANSACTION",
	POSTING:         "POSTING",
	POSTING_COMMENT: "POSTING_COMMENT",
	DIRECTIVE:       "DIRECTIVE",
	SUBDIRECTIVE:    "SUBDIRECTIVE",
	PRICE:           "PRICE",
	ILLEGAL:         "ILLEGAL",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// Token is one classified line. Like the parser's lines it stores byte offsets
// into the source buffer instead of a copy of the text.
type Token struct {
	Type   TokenType
	Start  int // Byte offset into source buffer
	End    int // End offset (exclusive), before the line terminator
	Line   int // Line number (1-indexed)
	Column int // Column of the first non-space character (1-indexed)
}

// String materializes the token text from the source buffer.
func (t Token) String(source []byte) string {
	if t.Start > len(source) || t.End > len(source) || t.Start > t.End {
		return ""
	}
	return string(source[t.Start:t.End])
}

// Bytes returns a zero-copy view of the token text.
func (t Token) Bytes(source []byte) []byte {
	if t.Start > len(source) || t.End > len(source) || t.Start > t.End {
		return nil
	}
	return source[t.Start:t.End]
}

// Len returns the length of the token in bytes.
func (t Token) Len() int {
	return t.End - t.Start
}

// Lex classifies every line of source the way the parser would dispatch it,
// without building entries or stopping at errors. Lines that cannot start or
// continue an entry are ILLEGAL. It backs the "doctor lines" command.
func Lex(source []byte) []Token {
	s := newScanner(source, "")
	tokens := make([]Token, 0, len(s.lines))

	const (
		top = iota
		inTransaction
		inSubBlock
		inBlockComment
	)
	state := top

	for ; !s.atEOF(); s.nextLine() {
		ln := s.current()
		spaces, tabs := s.skipSpace()
		indented := spaces+tabs > 0
		ch := s.peekChar()

		var typ TokenType
		switch {
		case state == inBlockComment:
			typ = BLOCK_COMMENT
			if s.pos == 0 && s.consumeKeywords("end", "comment") {
				state = top
			}
		case isBlank(ln.text):
			typ, state = BLANK, top
		case indented && isCommentMarker(ch):
			typ = COMMENT
			if state == inTransaction {
				typ = POSTING_COMMENT
			} else if state == inSubBlock {
				typ = SUBDIRECTIVE
			}
		case indented:
			switch state {
			case inTransaction:
				typ = POSTING
			case inSubBlock:
				typ = SUBDIRECTIVE
			default:
				typ = ILLEGAL
			}
		case isDigit(ch):
			typ, state = TRANSACTION, inTransaction
		case ch == ';' || ch == '#' || ch == '*':
			typ, state = COMMENT, top
		case ch == 'P' && isSpace(s.peekCharAt(1)):
			typ, state = PRICE, top
		default:
			typ, state = ILLEGAL, top
			switch s.peekKeyword() {
			case "":
			case "comment":
				typ, state = BLOCK_COMMENT, inBlockComment
			case "account", "commodity":
				typ, state = DIRECTIVE, inSubBlock
			default:
				typ = DIRECTIVE
			}
		}

		tokens = append(tokens, Token{
			Type:   typ,
			Start:  ln.offset,
			End:    ln.offset + len(ln.text),
			Line:   ln.num,
			Column: spaces + tabs + 1,
		})
	}

	return tokens
}
