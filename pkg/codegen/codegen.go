// Package codegen turns a program tree into standalone Go source. The output
// is a single self-contained file: a small runtime prelude plus one Go
// function per source function, suitable for `go run`.
package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"dumblang/interpreter-go/pkg/ast"
	"dumblang/interpreter-go/pkg/diag"
)

const indentUnit = "\t"

// prelude carries the dynamic-value helpers the emitted code leans on. The
// helpers mirror the interpreter's semantics, including the output prefix,
// the input prompts, and panics for the runtime error cases.
const prelude = `package main

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

type value = any

var stdin = bufio.NewReader(os.Stdin)

func format(v value) string {
	switch x := v.(type) {
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case string:
		return x
	case []value:
		parts := make([]string, 0, len(x))
		for _, el := range x {
			parts = append(parts, format(el))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case nil:
		return "nil"
	default:
		return fmt.Sprint(x)
	}
}

func print_(v value) value {
	fmt.Printf("DSL> %s\n", format(v))
	return nil
}

func inpstr() value {
	fmt.Println("DSL<(str)")
	line, _ := stdin.ReadString('\n')
	return strings.TrimRight(line, "\r\n")
}

func inpnum() value {
	fmt.Println("DSL<(num)")
	line, _ := stdin.ReadString('\n')
	n, err := strconv.ParseFloat(strings.TrimSpace(line), 64)
	if err != nil {
		panic(fmt.Sprintf("cannot parse %q as a number", strings.TrimSpace(line)))
	}
	return n
}

func sqrt_(v value) value {
	n := num(v)
	if n < 0 {
		panic(fmt.Sprintf("sqrt of negative number %v", n))
	}
	return math.Sqrt(n)
}

func num(v value) float64 {
	n, ok := v.(float64)
	if !ok {
		panic(fmt.Sprintf("expected a number, got %T", v))
	}
	return n
}

func truthy(v value) bool {
	return num(v) != 0
}

func arr(v value) []value {
	a, ok := v.([]value)
	if !ok {
		panic(fmt.Sprintf("expected an array, got %T", v))
	}
	return a
}

func idx(v value, length int) int {
	n := num(v)
	if math.Trunc(n) != n {
		panic(fmt.Sprintf("array index must be integral, got %v", n))
	}
	i := int(n)
	if i < 0 || i >= length {
		panic(fmt.Sprintf("index %d out of range for array of length %d", i, length))
	}
	return i
}

func index(a, i value) value {
	s := arr(a)
	return s[idx(i, len(s))]
}

func setIndex(a, i, v value) {
	s := arr(a)
	s[idx(i, len(s))] = v
}

func add(a, b value) value {
	if as, ok := a.(string); ok {
		if bs, ok := b.(string); ok {
			return as + bs
		}
	}
	return num(a) + num(b)
}

func sub(a, b value) value { return num(a) - num(b) }
func mul(a, b value) value { return num(a) * num(b) }

func div(a, b value) value {
	d := num(b)
	if d == 0 {
		panic("division by zero")
	}
	return num(a) / d
}

func neg(v value) value { return -num(v) }

func bool2num(b bool) value {
	if b {
		return float64(1)
	}
	return float64(0)
}

func compare(a, b value) int {
	if as, ok := a.(string); ok {
		bs, ok := b.(string)
		if !ok {
			panic(fmt.Sprintf("cannot compare string with %T", b))
		}
		return strings.Compare(as, bs)
	}
	an, bn := num(a), num(b)
	switch {
	case an < bn:
		return -1
	case an > bn:
		return 1
	default:
		return 0
	}
}
`

// goKeywords are names the emitted identifiers must not collide with,
// together with the prelude's helper names.
var reservedNames = map[string]bool{
	"break": true, "case": true, "chan": true, "const": true, "continue": true,
	"default": true, "defer": true, "else": true, "fallthrough": true, "for": true,
	"func": true, "go": true, "goto": true, "if": true, "import": true,
	"interface": true, "map": true, "package": true, "range": true, "return": true,
	"select": true, "struct": true, "switch": true, "type": true, "var": true,
	"value": true, "stdin": true, "format": true, "num": true, "truthy": true,
	"arr": true, "idx": true, "index": true, "setIndex": true, "add": true,
	"sub": true, "mul": true, "div": true, "neg": true, "bool2num": true,
	"compare": true, "inpstr": true, "inpnum": true,
}

func goName(name string) string {
	if reservedNames[name] {
		return name + "_"
	}
	return name
}

type emitter struct {
	buf     strings.Builder
	indent  int
	userFns map[string]bool
}

// fnName maps a source-level callable name to the emitted Go name. User
// functions shadow the shipped builtins, which live as prelude helpers.
func (e *emitter) fnName(name string) string {
	if e.userFns[name] {
		return "fn_" + goName(name)
	}
	switch name {
	case "print":
		return "print_"
	case "sqrt":
		return "sqrt_"
	case "inpstr", "inpnum":
		return name
	}
	return "fn_" + goName(name)
}

func (e *emitter) line(format string, args ...any) {
	e.buf.WriteString(strings.Repeat(indentUnit, e.indent))
	fmt.Fprintf(&e.buf, format, args...)
	e.buf.WriteByte('\n')
}

// Emit renders prog as a complete Go program. The generated main reads the
// numeric environment argument from os.Args[1], defaulting to 0.
func Emit(prog *ast.Program) (string, error) {
	e := &emitter{userFns: make(map[string]bool, len(prog.Functions))}
	for _, fn := range prog.Functions {
		e.userFns[fn.ID.Name] = true
	}
	e.buf.WriteString(prelude)
	for _, fn := range prog.Functions {
		e.buf.WriteByte('\n')
		if err := e.emitFunction(fn); err != nil {
			return "", err
		}
	}
	e.buf.WriteByte('\n')
	e.line("func main() {")
	e.indent++
	e.line("env := float64(0)")
	e.line("if len(os.Args) > 1 {")
	e.indent++
	e.line("n, err := strconv.ParseFloat(os.Args[1], 64)")
	e.line("if err != nil {")
	e.indent++
	e.line(`panic(fmt.Sprintf("bad environment argument %%q", os.Args[1]))`)
	e.indent--
	e.line("}")
	e.line("env = n")
	e.indent--
	e.line("}")
	e.line("fn_main(env)")
	e.indent--
	e.line("}")
	return e.buf.String(), nil
}

func (e *emitter) emitFunction(fn *ast.FunctionDefinition) error {
	params := make([]string, 0, len(fn.Params)+1)
	if fn.ID.Name == "main" {
		params = append(params, "env value")
	}
	for _, p := range fn.Params {
		params = append(params, goName(p.Name)+" value")
	}
	e.line("func fn_%s(%s) value {", goName(fn.ID.Name), strings.Join(params, ", "))
	e.indent++
	for _, p := range fn.Params {
		e.line("_ = %s", goName(p.Name))
	}
	if fn.ID.Name == "main" {
		e.line("_ = env")
	}
	for _, name := range assignedNames(fn) {
		e.line("var %s value", goName(name))
		e.line("_ = %s", goName(name))
	}
	if err := e.emitBlock(fn.Body); err != nil {
		return err
	}
	e.line("return nil")
	e.indent--
	e.line("}")
	return nil
}

// assignedNames collects, in first-assignment order, every bare variable the
// function body assigns that is not already a parameter. They become var
// declarations at the top of the emitted function.
func assignedNames(fn *ast.FunctionDefinition) []string {
	seen := make(map[string]bool, len(fn.Params))
	for _, p := range fn.Params {
		seen[p.Name] = true
	}
	if fn.ID.Name == "main" {
		seen["env"] = true
	}
	var names []string
	var walkBlock func(*ast.Block)
	walkBlock = func(b *ast.Block) {
		for _, stmt := range b.Statements {
			switch s := stmt.(type) {
			case *ast.AssignmentStatement:
				if id, ok := s.Target.(*ast.Identifier); ok && !seen[id.Name] {
					seen[id.Name] = true
					names = append(names, id.Name)
				}
			case *ast.IfStatement:
				walkBlock(s.Then)
				if s.Else != nil {
					walkBlock(s.Else)
				}
			case *ast.WhileStatement:
				walkBlock(s.Body)
			}
		}
	}
	walkBlock(fn.Body)
	return names
}

func (e *emitter) emitBlock(block *ast.Block) error {
	for _, stmt := range block.Statements {
		if err := e.emitStatement(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (e *emitter) emitStatement(stmt ast.Statement) error {
	switch s := stmt.(type) {
	case *ast.AssignmentStatement:
		rhs, err := e.expr(s.Value)
		if err != nil {
			return err
		}
		switch t := s.Target.(type) {
		case *ast.Identifier:
			e.line("%s = %s", goName(t.Name), rhs)
		case *ast.IndexExpression:
			base, err := e.expr(t.Base)
			if err != nil {
				return err
			}
			index, err := e.expr(t.Index)
			if err != nil {
				return err
			}
			e.line("setIndex(%s, %s, %s)", base, index, rhs)
		default:
			return diag.New(diag.StructuralError, "unhandled assignment target %s", s.Target.NodeType())
		}
	case *ast.IfStatement:
		cond, err := e.expr(s.Condition)
		if err != nil {
			return err
		}
		e.line("if truthy(%s) {", cond)
		e.indent++
		if err := e.emitBlock(s.Then); err != nil {
			return err
		}
		e.indent--
		if s.Else != nil {
			e.line("} else {")
			e.indent++
			if err := e.emitBlock(s.Else); err != nil {
				return err
			}
			e.indent--
		}
		e.line("}")
	case *ast.WhileStatement:
		cond, err := e.expr(s.Condition)
		if err != nil {
			return err
		}
		e.line("for truthy(%s) {", cond)
		e.indent++
		if err := e.emitBlock(s.Body); err != nil {
			return err
		}
		e.indent--
		e.line("}")
	case *ast.ReturnStatement:
		if s.Argument == nil {
			e.line("return nil")
			return nil
		}
		arg, err := e.expr(s.Argument)
		if err != nil {
			return err
		}
		e.line("return %s", arg)
	case *ast.ExpressionStatement:
		expr, err := e.expr(s.Expression)
		if err != nil {
			return err
		}
		e.line("_ = %s", expr)
	default:
		return diag.New(diag.StructuralError, "unhandled statement node %s", stmt.NodeType())
	}
	return nil
}

func (e *emitter) expr(expr ast.Expression) (string, error) {
	switch x := expr.(type) {
	case *ast.NumberLiteral:
		return "float64(" + strconv.FormatFloat(x.Value, 'g', -1, 64) + ")", nil
	case *ast.StringLiteral:
		return strconv.Quote(x.Value), nil
	case *ast.Identifier:
		return goName(x.Name), nil
	case *ast.ArrayLiteral:
		parts := make([]string, 0, len(x.Elements))
		for _, el := range x.Elements {
			s, err := e.expr(el)
			if err != nil {
				return "", err
			}
			parts = append(parts, s)
		}
		return "[]value{" + strings.Join(parts, ", ") + "}", nil
	case *ast.IndexExpression:
		base, err := e.expr(x.Base)
		if err != nil {
			return "", err
		}
		index, err := e.expr(x.Index)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("index(%s, %s)", base, index), nil
	case *ast.UnaryExpression:
		operand, err := e.expr(x.Operand)
		if err != nil {
			return "", err
		}
		if x.Operator == "-" {
			return fmt.Sprintf("neg(%s)", operand), nil
		}
		return operand, nil
	case *ast.BinaryExpression:
		left, err := e.expr(x.Left)
		if err != nil {
			return "", err
		}
		right, err := e.expr(x.Right)
		if err != nil {
			return "", err
		}
		switch x.Operator {
		case "+":
			return fmt.Sprintf("add(%s, %s)", left, right), nil
		case "-":
			return fmt.Sprintf("sub(%s, %s)", left, right), nil
		case "*":
			return fmt.Sprintf("mul(%s, %s)", left, right), nil
		case "/":
			return fmt.Sprintf("div(%s, %s)", left, right), nil
		case "==":
			return fmt.Sprintf("bool2num(compare(%s, %s) == 0)", left, right), nil
		case "!=":
			return fmt.Sprintf("bool2num(compare(%s, %s) != 0)", left, right), nil
		case "<":
			return fmt.Sprintf("bool2num(compare(%s, %s) < 0)", left, right), nil
		case ">":
			return fmt.Sprintf("bool2num(compare(%s, %s) > 0)", left, right), nil
		case "<=":
			return fmt.Sprintf("bool2num(compare(%s, %s) <= 0)", left, right), nil
		case ">=":
			return fmt.Sprintf("bool2num(compare(%s, %s) >= 0)", left, right), nil
		default:
			return "", diag.New(diag.StructuralError, "unhandled binary operator %q", x.Operator)
		}
	case *ast.CallExpression:
		parts := make([]string, 0, len(x.Arguments))
		for _, arg := range x.Arguments {
			s, err := e.expr(arg)
			if err != nil {
				return "", err
			}
			parts = append(parts, s)
		}
		return fmt.Sprintf("%s(%s)", e.fnName(x.Callee.Name), strings.Join(parts, ", ")), nil
	default:
		return "", diag.New(diag.StructuralError, "unhandled expression node %s", expr.NodeType())
	}
}
