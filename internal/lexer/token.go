// Package lexer tokenizes .tp schema source text.
package lexer

import "github.com/aurora/typedpack/internal/ir"

// Kind distinguishes the two token shapes the grammar needs: a maximal
// run of word characters, or a single punctuation character. The
// lexer does not know about keywords. The parser tells a "struct"
// word token apart from a type-name word token by string comparison.
type Kind int

const (
	Word Kind = iota
	Punct
	EOF
)

// Token is a slice of the input source plus the position of its last
// processed character: column is the column just advanced past that
// character.
type Token struct {
	Kind     Kind
	Literal  string
	Position ir.Position
}
