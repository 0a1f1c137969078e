package diag

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies an interpreter failure.
type Kind string

const (
	SyntaxError       Kind = "SyntaxError"
	StructuralError   Kind = "StructuralError"
	UndefinedVariable Kind = "UndefinedVariable"
	UndefinedFunction Kind = "UndefinedFunction"
	ArityMismatch     Kind = "ArityMismatch"
	IndexOutOfRange   Kind = "IndexOutOfRange"
	TypeMismatch      Kind = "TypeMismatch"
	DivisionByZero    Kind = "DivisionByZero"
	ParseError        Kind = "ParseError"
	DomainError       Kind = "DomainError"
)

// Error is the single error type surfaced by the lexer, parser, and
// evaluator. Load-time kinds (SyntaxError, StructuralError) carry a 1-based
// source position; runtime kinds leave Line at zero.
type Error struct {
	Kind    Kind
	Message string
	Line    int
	Col     int
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s at %d:%d: %s", e.Kind, e.Line, e.Col, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// New builds a position-less Error.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// At builds an Error pinned to a 1-based line and column.
func At(kind Kind, line, col int, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Line: line, Col: col}
}

// KindOf extracts the Kind from err, or "" when err is not a diag.Error.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// Snippet renders err against its source with numbered context lines and a
// caret under the offending column. Errors without a position (and non-diag
// errors) render as their plain message.
func Snippet(err error, src string) string {
	var de *Error
	if !errors.As(err, &de) || de.Line < 1 {
		return err.Error()
	}

	lines := strings.Split(src, "\n")
	line, col := de.Line, de.Col
	if line > len(lines) {
		line = len(lines)
	}
	if col < 1 {
		col = 1
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", de.Kind, de.Line, de.Col, de.Message)
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lines[line-1])
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", col-1))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}
