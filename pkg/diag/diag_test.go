package diag

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorRendering(t *testing.T) {
	withPos := At(SyntaxError, 3, 7, "expected ';'")
	if got := withPos.Error(); got != "SyntaxError at 3:7: expected ';'" {
		t.Fatalf("unexpected rendering %q", got)
	}
	noPos := New(DivisionByZero, "division by zero")
	if got := noPos.Error(); got != "DivisionByZero: division by zero" {
		t.Fatalf("unexpected rendering %q", got)
	}
}

func TestKindOf(t *testing.T) {
	err := New(TypeMismatch, "bad operand")
	if KindOf(err) != TypeMismatch {
		t.Fatalf("KindOf lost the kind: %v", KindOf(err))
	}
	wrapped := fmt.Errorf("running program: %w", err)
	if KindOf(wrapped) != TypeMismatch {
		t.Fatalf("KindOf did not unwrap: %v", KindOf(wrapped))
	}
	if KindOf(errors.New("plain")) != "" {
		t.Fatalf("expected empty kind for foreign error")
	}
}

func TestSnippetPointsAtColumn(t *testing.T) {
	src := "main() {\n  x = ;\n}"
	err := At(SyntaxError, 2, 7, "expected expression, found ';'")
	out := Snippet(err, src)

	if !strings.Contains(out, "   2 |   x = ;") {
		t.Fatalf("snippet missing source line:\n%s", out)
	}
	if !strings.Contains(out, "     |       ^") {
		t.Fatalf("caret misplaced:\n%s", out)
	}
	if !strings.Contains(out, "   1 | main() {") || !strings.Contains(out, "   3 | }") {
		t.Fatalf("context lines missing:\n%s", out)
	}
}

func TestSnippetWithoutPosition(t *testing.T) {
	err := New(UndefinedVariable, "undefined variable \"x\"")
	if got := Snippet(err, "main() {}"); got != err.Error() {
		t.Fatalf("expected plain message, got %q", got)
	}
}
