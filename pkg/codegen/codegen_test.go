package codegen

import (
	"strings"
	"testing"

	"dumblang/interpreter-go/pkg/parser"
)

func emit(t *testing.T, src string) string {
	t.Helper()
	prog, err := parser.ParseProgram(src)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	out, err := Emit(prog)
	if err != nil {
		t.Fatalf("emit failed: %v", err)
	}
	return out
}

func wantContains(t *testing.T, out string, wants ...string) {
	t.Helper()
	for _, w := range wants {
		if !strings.Contains(out, w) {
			t.Fatalf("generated source missing %q:\n%s", w, out)
		}
	}
}

func TestEmitProducesCompleteProgram(t *testing.T) {
	out := emit(t, "main() { return 0; }")
	wantContains(t, out,
		"package main",
		"func fn_main(env value) value {",
		"func main() {",
		"fn_main(env)",
	)
}

func TestEmitDeclaresAssignedVariables(t *testing.T) {
	out := emit(t, `
main() {
	total = 0;
	i = 1;
	while (i < 3) {
		total = total + i;
		i = i + 1;
	}
	return total;
}
`)
	wantContains(t, out,
		"var total value",
		"var i value",
		"for truthy(bool2num(compare(i, float64(3)) < 0)) {",
		"total = add(total, i)",
		"return total",
	)
}

func TestEmitControlFlowAndIndexing(t *testing.T) {
	out := emit(t, `
main() {
	a = [1, 2];
	if (a[0] > 0) {
		a[1] = -a[0];
	} else {
		print(a);
	}
}
`)
	wantContains(t, out,
		"a = []value{float64(1), float64(2)}",
		"if truthy(bool2num(compare(index(a, float64(0)), float64(0)) > 0)) {",
		"setIndex(a, float64(1), neg(index(a, float64(0))))",
		"} else {",
		"_ = print_(a)",
	)
}

func TestEmitMapsBuiltinsToPreludeHelpers(t *testing.T) {
	out := emit(t, `
main() {
	s = inpstr();
	n = inpnum();
	print(s);
	return sqrt(n);
}
`)
	wantContains(t, out,
		"s = inpstr()",
		"n = inpnum()",
		"_ = print_(s)",
		"return sqrt_(n)",
	)
}

func TestEmitUserFunctionShadowsBuiltin(t *testing.T) {
	out := emit(t, `
print(x) { return x; }
main() { print(1); }
`)
	wantContains(t, out,
		"func fn_print(x value) value {",
		"_ = fn_print(float64(1))",
	)
	if strings.Contains(out, "_ = print_(") {
		t.Fatalf("call was routed to the prelude builtin:\n%s", out)
	}
}

func TestEmitManglesReservedNames(t *testing.T) {
	out := emit(t, `
main() {
	range = 2;
	return range * range;
}
`)
	wantContains(t, out,
		"var range_ value",
		"range_ = float64(2)",
		"return mul(range_, range_)",
	)
}

func TestEmitDivisionUsesCheckedHelper(t *testing.T) {
	out := emit(t, "main() { return 1 / env; }")
	wantContains(t, out, "return div(float64(1), env)")
}
