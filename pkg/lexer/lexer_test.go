package lexer

import (
	"testing"

	"dumblang/interpreter-go/pkg/diag"
)

func scanTypes(t *testing.T, src string) []TokenType {
	t.Helper()
	tokens, err := Scan(src)
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	types := make([]TokenType, 0, len(tokens))
	for _, tok := range tokens {
		types = append(types, tok.Type)
	}
	return types
}

func TestScanOperatorsAndPunctuation(t *testing.T) {
	got := scanTypes(t, "+ - * / = == != < <= > >= ( ) { } [ ] , ;")
	want := []TokenType{
		Plus, Minus, Star, Slash, Assign, Eq, NotEq,
		Less, LessEq, Greater, GreaterEq,
		LParen, RParen, LBrace, RBrace, LBracket, RBracket, Comma, Semicolon,
		EOF,
	}
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestScanKeywordsAndIdentifiers(t *testing.T) {
	tokens, err := Scan("if else while return whilefoo _x")
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	want := []struct {
		tt     TokenType
		lexeme string
	}{
		{KwIf, "if"}, {KwElse, "else"}, {KwWhile, "while"}, {KwReturn, "return"},
		{Ident, "whilefoo"}, {Ident, "_x"}, {EOF, ""},
	}
	for i, w := range want {
		if tokens[i].Type != w.tt || tokens[i].Lexeme != w.lexeme {
			t.Fatalf("token %d: got %s %q, want %s %q", i, tokens[i].Type, tokens[i].Lexeme, w.tt, w.lexeme)
		}
	}
}

func TestScanNumberForms(t *testing.T) {
	tokens, err := Scan("0 42 3.25")
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	want := []string{"0", "42", "3.25"}
	for i, lexeme := range want {
		if tokens[i].Type != Number || tokens[i].Lexeme != lexeme {
			t.Fatalf("token %d: got %s %q, want number %q", i, tokens[i].Type, tokens[i].Lexeme, lexeme)
		}
	}
}

func TestScanMalformedNumber(t *testing.T) {
	if _, err := Scan("1."); err == nil || diag.KindOf(err) != diag.SyntaxError {
		t.Fatalf("expected syntax error for trailing dot, got %v", err)
	}
}

func TestScanStringBothQuoteStyles(t *testing.T) {
	tokens, err := Scan(`"hello" 'world'`)
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if tokens[0].Type != String || tokens[0].Lexeme != "hello" {
		t.Fatalf("unexpected first string token %s %q", tokens[0].Type, tokens[0].Lexeme)
	}
	if tokens[1].Type != String || tokens[1].Lexeme != "world" {
		t.Fatalf("unexpected second string token %s %q", tokens[1].Type, tokens[1].Lexeme)
	}
}

func TestScanUnterminatedString(t *testing.T) {
	for _, src := range []string{`"open`, "'open\nnext'"} {
		if _, err := Scan(src); err == nil || diag.KindOf(err) != diag.SyntaxError {
			t.Fatalf("expected syntax error for %q, got %v", src, err)
		}
	}
}

func TestScanBareBang(t *testing.T) {
	_, err := Scan("a ! b")
	if err == nil || diag.KindOf(err) != diag.SyntaxError {
		t.Fatalf("expected syntax error for bare '!', got %v", err)
	}
}

func TestScanCommentsAndPositions(t *testing.T) {
	tokens, err := Scan("x = 1; # trailing comment\ny = 2;")
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	y := tokens[4]
	if y.Type != Ident || y.Lexeme != "y" {
		t.Fatalf("expected identifier y after comment, got %s %q", y.Type, y.Lexeme)
	}
	if y.Line != 2 || y.Col != 1 {
		t.Fatalf("y at %d:%d, want 2:1", y.Line, y.Col)
	}
}
