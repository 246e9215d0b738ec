package lexer

import "testing"

func TestNextToken(t *testing.T) {
	input := `struct Foo {
    optional nullable bytes16[] blob = 3;
}
# a comment
enum E { A = 0; B = 1; }
`

	tests := []struct {
		kind    Kind
		literal string
	}{
		{Word, "struct"},
		{Word, "Foo"},
		{Punct, "{"},
		{Word, "optional"},
		{Word, "nullable"},
		{Word, "bytes16"},
		{Punct, "["},
		{Punct, "]"},
		{Word, "blob"},
		{Punct, "="},
		{Word, "3"},
		{Punct, ";"},
		{Punct, "}"},
		{Word, "enum"},
		{Word, "E"},
		{Punct, "{"},
		{Word, "A"},
		{Punct, "="},
		{Word, "0"},
		{Punct, ";"},
		{Word, "B"},
		{Punct, "="},
		{Word, "1"},
		{Punct, ";"},
		{Punct, "}"},
		{EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("token %d: unexpected error: %v", i, err)
		}
		if tok.Kind != tt.kind {
			t.Errorf("token %d: kind = %v, want %v", i, tok.Kind, tt.kind)
		}
		if tok.Literal != tt.literal {
			t.Errorf("token %d: literal = %q, want %q", i, tok.Literal, tt.literal)
		}
	}
}

func TestCommentStripsToNewline(t *testing.T) {
	l := New("struct # trailing comment \n Foo")
	tok, err := l.NextToken()
	if err != nil || tok.Literal != "struct" {
		t.Fatalf("got %+v, %v", tok, err)
	}
	tok, err = l.NextToken()
	if err != nil || tok.Literal != "Foo" {
		t.Fatalf("got %+v, %v", tok, err)
	}
}

func TestNonAsciiCharacterOutsideComment(t *testing.T) {
	l := New("struct Foö {}")
	for {
		tok, err := l.NextToken()
		if err != nil {
			var lexErr *Error
			if e, ok := err.(*Error); ok {
				lexErr = e
			}
			if lexErr == nil || lexErr.Char != 'ö' {
				t.Fatalf("unexpected error: %v", err)
			}
			return
		}
		if tok.Kind == EOF {
			t.Fatal("expected non-ASCII error, got clean EOF")
		}
	}
}

func TestNonAsciiCharacterInsideCommentIsIgnored(t *testing.T) {
	l := New("struct # ünïcödé comment\nFoo")
	tok, err := l.NextToken()
	if err != nil || tok.Literal != "struct" {
		t.Fatalf("got %+v, %v", tok, err)
	}
	tok, err = l.NextToken()
	if err != nil || tok.Literal != "Foo" {
		t.Fatalf("got %+v, %v", tok, err)
	}
}

func TestPositionLineColumn(t *testing.T) {
	l := New("ab\ncd")
	tok, _ := l.NextToken() // "ab"
	if tok.Position.Line != 1 {
		t.Errorf("line = %d, want 1", tok.Position.Line)
	}
	if tok.Position.Column != 3 {
		t.Errorf("column = %d, want 3 (just past \"ab\")", tok.Position.Column)
	}
	tok, _ = l.NextToken() // "cd"
	if tok.Position.Line != 2 {
		t.Errorf("line = %d, want 2", tok.Position.Line)
	}
	if tok.Position.Column != 3 {
		t.Errorf("column = %d, want 3 (just past \"cd\")", tok.Position.Column)
	}
}
