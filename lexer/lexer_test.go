package lexer

import "testing"

func TestNextTokenBasicSource(t *testing.T) {
	input := `var x = 5;
if (x == 5) {
  x = x + 1;
} else {
  x = 0;
}`

	want := []struct {
		typ     TokenType
		literal string
	}{
		{VAR, "var"},
		{IDENT, "x"},
		{ASSIGN, "="},
		{NUMBER, "5"},
		{SEMICOLON, ";"},
		{IF, "if"},
		{LPAREN, "("},
		{IDENT, "x"},
		{EQ, "=="},
		{NUMBER, "5"},
		{RPAREN, ")"},
		{LBRACE, "{"},
		{IDENT, "x"},
		{ASSIGN, "="},
		{IDENT, "x"},
		{PLUS, "+"},
		{NUMBER, "1"},
		{SEMICOLON, ";"},
		{RBRACE, "}"},
		{ELSE, "else"},
		{LBRACE, "{"},
		{IDENT, "x"},
		{ASSIGN, "="},
		{NUMBER, "0"},
		{SEMICOLON, ";"},
		{RBRACE, "}"},
		{EOF, ""},
	}

	l := New(input)
	for i, tt := range want {
		tok := l.NextToken()
		if tok.Type != tt.typ {
			t.Fatalf("token %d: type = %s, want %s (literal %q)", i, tok.Type, tt.typ, tok.Literal)
		}

		if tok.Literal != tt.literal {
			t.Fatalf("token %d: literal = %q, want %q", i, tok.Literal, tt.literal)
		}
	}
}

func TestNextTokenOperatorsAndDelimiters(t *testing.T) {
	input := `!= === !== && || ! ~ <= >= [ ] . : ? % *`

	want := []TokenType{
		NEQ, SEQ, SNEQ, AND, OR, BANG, TILDE, LTE, GTE,
		LBRACKET, RBRACKET, DOT, COLON, QUESTION, PERCENT, STAR, EOF,
	}

	l := New(input)
	for i, typ := range want {
		tok := l.NextToken()
		if tok.Type != typ {
			t.Fatalf("token %d: type = %s, want %s", i, tok.Type, typ)
		}
	}
}

func TestNextTokenKeywordsAreNotIdentifiers(t *testing.T) {
	for word, typ := range map[string]TokenType{
		"try": TRY, "catch": CATCH, "finally": FINALLY, "switch": SWITCH,
		"case": CASE, "default": DEFAULT, "break": BREAK, "continue": CONTINUE,
		"throw": THROW, "typeof": TYPEOF, "void": VOID, "undefined": UNDEFINED,
	} {
		l := New(word)
		tok := l.NextToken()
		if tok.Type != typ {
			t.Errorf("%q: type = %s, want %s", word, tok.Type, typ)
		}
	}
}

func TestNextTokenStringLiteral(t *testing.T) {
	l := New(`"hello world"`)

	tok := l.NextToken()
	if tok.Type != STRING {
		t.Fatalf("type = %s, want STRING", tok.Type)
	}

	if tok.Literal != "hello world" {
		t.Errorf("literal = %q, want %q", tok.Literal, "hello world")
	}
}

func TestNextTokenTracksLineAndColumn(t *testing.T) {
	l := New("x\ny")

	first := l.NextToken()
	if first.Line != 1 {
		t.Errorf("first token line = %d, want 1", first.Line)
	}

	if first.Column != 1 {
		t.Errorf("first token column = %d, want 1", first.Column)
	}

	second := l.NextToken()
	if second.Line != 2 {
		t.Errorf("second token line = %d, want 2", second.Line)
	}

	if second.Column != 1 {
		t.Errorf("second token column = %d, want 1", second.Column)
	}
}

func TestNextTokenSkipsComments(t *testing.T) {
	l := New(`
// line comment
x /* block
   comment */ = 1;
`)

	first := l.NextToken()
	if first.Type != IDENT || first.Literal != "x" {
		t.Fatalf("got %s %q, want IDENT x", first.Type, first.Literal)
	}

	second := l.NextToken()
	if second.Type != ASSIGN {
		t.Fatalf("got %s, want ASSIGN", second.Type)
	}
}
