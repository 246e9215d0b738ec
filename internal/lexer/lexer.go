package lexer

import (
	"fmt"
	"unicode/utf8"

	"github.com/aurora/typedpack/internal/ir"
)

// Error is a lexical error: the only kind the tokenizer itself
// produces is a non-ASCII character found outside a comment.
type Error struct {
	Char     rune
	Position ir.Position
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d:%d: unexpected non-ASCII character %q", e.Position.Line, e.Position.Column, e.Char)
}

// Lexer tokenizes .tp source text.
type Lexer struct {
	input     string
	pos       int // byte offset of l.ch
	readPos   int // byte offset just past l.ch
	ch        rune
	atEOF     bool
	line      int
	lineStart int // byte offset where the current line began
}

// New creates a Lexer positioned at the start of input.
func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	l.pos = l.readPos
	if l.readPos >= len(l.input) {
		l.ch = 0
		l.atEOF = true
		return
	}
	r, width := utf8.DecodeRuneInString(l.input[l.readPos:])
	l.ch = r
	l.readPos += width
}

// column reports the column of l.pos on the current line. Calling it
// right after readChar() consumes a token's last character yields the
// convention used throughout: column just advanced past that
// character.
func (l *Lexer) column() int {
	return l.pos - l.lineStart + 1
}

func isWordChar(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '_'
}

func isWhitespace(r rune) bool {
	switch r {
	case ' ', '\t', '\r', '\n':
		return true
	default:
		return false
	}
}

// NextToken returns the next token, or an error if a non-ASCII
// character was found outside a comment.
func (l *Lexer) NextToken() (Token, error) {
	for {
		for !l.atEOF && isWhitespace(l.ch) {
			if l.ch == '\n' {
				l.readChar()
				l.line++
				l.lineStart = l.pos
				continue
			}
			l.readChar()
		}

		if l.atEOF {
			return Token{Kind: EOF, Position: ir.Position{Line: l.line, Column: l.column()}}, nil
		}

		if l.ch == '#' {
			for !l.atEOF && l.ch != '\n' {
				l.readChar()
			}
			continue
		}

		break
	}

	if l.ch > 127 {
		return Token{}, &Error{Char: l.ch, Position: ir.Position{Line: l.line, Column: l.column()}}
	}

	if isWordChar(l.ch) {
		return l.readWord(), nil
	}

	ch := l.ch
	l.readChar()
	return Token{Kind: Punct, Literal: string(ch), Position: ir.Position{Line: l.line, Column: l.column()}}, nil
}

func (l *Lexer) readWord() Token {
	start := l.pos
	for !l.atEOF && isWordChar(l.ch) {
		l.readChar()
	}
	return Token{Kind: Word, Literal: l.input[start:l.pos], Position: ir.Position{Line: l.line, Column: l.column()}}
}
