package parser

import (
	"reflect"
	"testing"

	"dumblang/interpreter-go/pkg/ast"
	"dumblang/interpreter-go/pkg/diag"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, err := ParseProgram(src)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return prog
}

func parseError(t *testing.T, src string, kind diag.Kind) error {
	t.Helper()
	_, err := ParseProgram(src)
	if err == nil {
		t.Fatalf("expected %s, got nil", kind)
	}
	if diag.KindOf(err) != kind {
		t.Fatalf("expected %s, got %v", kind, err)
	}
	return err
}

func TestParseMinimalProgram(t *testing.T) {
	prog := mustParse(t, "main() { return 1; }")
	if len(prog.Functions) != 1 {
		t.Fatalf("expected 1 function, got %d", len(prog.Functions))
	}
	fn := prog.Functions[0]
	if fn.ID.Name != "main" || len(fn.Params) != 0 {
		t.Fatalf("unexpected entry function %q with %d params", fn.ID.Name, len(fn.Params))
	}
	ret, ok := fn.Body.Statements[0].(*ast.ReturnStatement)
	if !ok {
		t.Fatalf("expected return statement, got %T", fn.Body.Statements[0])
	}
	num, ok := ret.Argument.(*ast.NumberLiteral)
	if !ok || num.Value != 1 {
		t.Fatalf("unexpected return argument %#v", ret.Argument)
	}
}

func TestParseOperatorPrecedence(t *testing.T) {
	prog := mustParse(t, "main() { x = 1 + 2 * 3 < 10; }")
	stmt := prog.Functions[0].Body.Statements[0].(*ast.AssignmentStatement)
	want := ast.Bin("<",
		ast.Bin("+", ast.Num(1), ast.Bin("*", ast.Num(2), ast.Num(3))),
		ast.Num(10),
	)
	if !reflect.DeepEqual(stmt.Value, want) {
		t.Fatalf("precedence tree mismatch:\ngot  %#v\nwant %#v", stmt.Value, want)
	}
}

func TestParseGroupingOverridesPrecedence(t *testing.T) {
	prog := mustParse(t, "main() { x = (1 + 2) * 3; }")
	stmt := prog.Functions[0].Body.Statements[0].(*ast.AssignmentStatement)
	want := ast.Bin("*", ast.Bin("+", ast.Num(1), ast.Num(2)), ast.Num(3))
	if !reflect.DeepEqual(stmt.Value, want) {
		t.Fatalf("grouping tree mismatch:\ngot  %#v\nwant %#v", stmt.Value, want)
	}
}

func TestParseTrailingArrayComma(t *testing.T) {
	with := mustParse(t, "main() { a = [1, 2, 3,]; }")
	without := mustParse(t, "main() { a = [1, 2, 3]; }")
	if !reflect.DeepEqual(with, without) {
		t.Fatalf("trailing comma changed the tree")
	}
}

func TestParseIsDeterministic(t *testing.T) {
	src := `
add(a, b) { return a + b; }
main() {
	i = 0;
	while (i < 3) {
		if (i == 1) { print(i); } else { print(add(i, 10)); }
		i = i + 1;
	}
}
`
	first := mustParse(t, src)
	second := mustParse(t, src)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("parsing the same source twice produced different trees")
	}
}

func TestParseChainedIndexTarget(t *testing.T) {
	prog := mustParse(t, "main() { m[0][1] = 5; }")
	stmt := prog.Functions[0].Body.Statements[0].(*ast.AssignmentStatement)
	outer, ok := stmt.Target.(*ast.IndexExpression)
	if !ok {
		t.Fatalf("expected index target, got %T", stmt.Target)
	}
	if _, ok := outer.Base.(*ast.IndexExpression); !ok {
		t.Fatalf("expected nested index base, got %T", outer.Base)
	}
}

func TestParseRejectsBadAssignmentTarget(t *testing.T) {
	parseError(t, "main() { 1 + 2 = 3; }", diag.SyntaxError)
	parseError(t, "main() { f() = 3; }", diag.SyntaxError)
}

func TestParseRejectsUnterminatedBlock(t *testing.T) {
	parseError(t, "main() { x = 1;", diag.SyntaxError)
}

func TestParseRejectsMissingSemicolon(t *testing.T) {
	parseError(t, "main() { x = 1 }", diag.SyntaxError)
}

func TestBuildRejectsDuplicateFunction(t *testing.T) {
	parseError(t, "f() {} f() {} main() {}", diag.StructuralError)
}

func TestBuildRejectsDuplicateParameter(t *testing.T) {
	parseError(t, "f(a, a) {} main() {}", diag.StructuralError)
}

func TestBuildRequiresEntryFunction(t *testing.T) {
	parseError(t, "helper() { return 1; }", diag.StructuralError)
}

func TestBuildRejectsEntryParams(t *testing.T) {
	parseError(t, "main(x) {}", diag.StructuralError)
}

func TestParseErrorCarriesPosition(t *testing.T) {
	err := parseError(t, "main() {\n  x = ;\n}", diag.SyntaxError)
	var de *diag.Error
	if !asDiag(err, &de) {
		t.Fatalf("expected diag error, got %T", err)
	}
	if de.Line != 2 {
		t.Fatalf("error at line %d, want 2", de.Line)
	}
}

func asDiag(err error, target **diag.Error) bool {
	de, ok := err.(*diag.Error)
	if ok {
		*target = de
	}
	return ok
}
