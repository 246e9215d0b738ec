package codegen

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.Und)

// splitWords splits a schema identifier into words on underscores and
// case transitions, the way a struct_field_name or a camelCaseField
// both resolve to the same word list.
func splitWords(s string) []string {
	var words []string
	var current strings.Builder

	for i, r := range s {
		if r == '_' {
			if current.Len() > 0 {
				words = append(words, current.String())
				current.Reset()
			}
			continue
		}

		if unicode.IsUpper(r) && i > 0 {
			prev := rune(s[i-1])
			if !unicode.IsUpper(prev) && prev != '_' {
				if current.Len() > 0 {
					words = append(words, current.String())
					current.Reset()
				}
			}
		}

		current.WriteRune(r)
	}

	if current.Len() > 0 {
		words = append(words, current.String())
	}

	return words
}

// ExportedName renders a schema identifier as an exported Go
// identifier: PascalCase, each word cased by golang.org/x/text/cases
// rather than a hand-rolled ToUpper/ToLower pass.
func ExportedName(ident string) string {
	var b strings.Builder
	for _, w := range splitWords(ident) {
		b.WriteString(titleCaser.String(strings.ToLower(w)))
	}
	if b.Len() == 0 {
		return ident
	}
	return b.String()
}

// UnexportedName renders a schema identifier as an unexported Go
// identifier: the exported form with its first rune lowercased.
func UnexportedName(ident string) string {
	exported := ExportedName(ident)
	if exported == "" {
		return exported
	}
	r := []rune(exported)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

// Namespaced joins a namespace prefix with a type name to form one Go
// identifier, e.g. namespace "Encode" and type "Point" yield
// "EncodePoint".
func Namespaced(namespace, typeName string) string {
	return namespace + typeName
}
