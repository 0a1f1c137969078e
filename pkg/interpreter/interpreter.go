package interpreter

import (
	"bufio"
	"io"
	"os"

	"dumblang/interpreter-go/pkg/ast"
	"dumblang/interpreter-go/pkg/diag"
	"dumblang/interpreter-go/pkg/parser"
	"dumblang/interpreter-go/pkg/runtime"
)

// EnvVariableName is the binding through which the entry function sees the
// host-supplied numeric argument.
const EnvVariableName = "env"

// returnSignal propagates a return value up through evaluateBlock as an
// error. invokeFunction is the only place that unwraps it.
type returnSignal struct {
	value runtime.Value
}

func (s *returnSignal) Error() string {
	return "return outside of function"
}

// Interpreter walks a typed syntax tree. One interpreter holds the program's
// function table, the builtin registry, and the host I/O streams; each
// function invocation gets its own flat variable environment.
type Interpreter struct {
	functions map[string]*ast.FunctionDefinition
	registry  *Registry
	stdout    io.Writer
	stdin     *bufio.Reader
}

type Option func(*Interpreter)

func WithStdout(w io.Writer) Option {
	return func(i *Interpreter) { i.stdout = w }
}

func WithStdin(r io.Reader) Option {
	return func(i *Interpreter) { i.stdin = bufio.NewReader(r) }
}

// WithBuiltins registers additional native functions. Registering under a
// shipped builtin's name replaces that builtin.
func WithBuiltins(extras ...runtime.NativeFunctionValue) Option {
	return func(i *Interpreter) {
		for _, fn := range extras {
			i.registry.Register(fn)
		}
	}
}

func New(opts ...Option) *Interpreter {
	i := &Interpreter{
		functions: make(map[string]*ast.FunctionDefinition),
		registry:  NewRegistry(),
		stdout:    os.Stdout,
		stdin:     bufio.NewReader(os.Stdin),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// ParseAndExecute compiles source and runs its entry function with envArg
// bound, using the default host streams plus any extra builtins. It is the
// single-call embedding surface.
func ParseAndExecute(source string, envArg float64, extras ...runtime.NativeFunctionValue) (runtime.Value, error) {
	prog, err := parser.ParseProgram(source)
	if err != nil {
		return nil, err
	}
	return New(WithBuiltins(extras...)).Run(prog, envArg)
}

// Run executes the program's entry function with envArg bound to the env
// variable in its frame. The result is the entry function's return value.
func (i *Interpreter) Run(prog *ast.Program, envArg float64) (runtime.Value, error) {
	for name := range i.functions {
		delete(i.functions, name)
	}
	for _, fn := range prog.Functions {
		i.functions[fn.ID.Name] = fn
	}
	entry, ok := i.functions[parser.EntryFunctionName]
	if !ok {
		return nil, diag.New(diag.StructuralError, "program has no %q function", parser.EntryFunctionName)
	}
	env := runtime.NewEnvironment()
	env.Define(EnvVariableName, runtime.NumberValue{Val: envArg})
	return i.evaluateFunctionBody(entry, env)
}

//-----------------------------------------------------------------------------
// Calls
//-----------------------------------------------------------------------------

func (i *Interpreter) invokeFunction(fn *ast.FunctionDefinition, args []runtime.Value) (runtime.Value, error) {
	if len(args) != len(fn.Params) {
		return nil, diag.New(diag.ArityMismatch, "%s expects %d argument(s), got %d", fn.ID.Name, len(fn.Params), len(args))
	}
	env := runtime.NewEnvironment()
	for idx, param := range fn.Params {
		env.Define(param.Name, args[idx])
	}
	return i.evaluateFunctionBody(fn, env)
}

func (i *Interpreter) invokeNative(fn runtime.NativeFunctionValue, args []runtime.Value) (runtime.Value, error) {
	if len(args) != fn.Arity {
		return nil, diag.New(diag.ArityMismatch, "%s expects %d argument(s), got %d", fn.Name, fn.Arity, len(args))
	}
	ctx := &runtime.NativeCallContext{Stdout: i.stdout, Stdin: i.stdin}
	return fn.Impl(ctx, args)
}

// evaluateFunctionBody runs a function body in env and converts a return
// signal into the call's result. Falling off the end yields unit.
func (i *Interpreter) evaluateFunctionBody(fn *ast.FunctionDefinition, env *runtime.Environment) (runtime.Value, error) {
	if err := i.evaluateBlock(fn.Body, env); err != nil {
		if sig, ok := err.(*returnSignal); ok {
			return sig.value, nil
		}
		return nil, err
	}
	return runtime.UnitValue{}, nil
}

//-----------------------------------------------------------------------------
// Statements
//-----------------------------------------------------------------------------

func (i *Interpreter) evaluateBlock(block *ast.Block, env *runtime.Environment) error {
	for _, stmt := range block.Statements {
		if err := i.evaluateStatement(stmt, env); err != nil {
			return err
		}
	}
	return nil
}

func (i *Interpreter) evaluateStatement(stmt ast.Statement, env *runtime.Environment) error {
	switch s := stmt.(type) {
	case *ast.AssignmentStatement:
		return i.evaluateAssignment(s, env)
	case *ast.IfStatement:
		cond, err := i.evaluateExpression(s.Condition, env)
		if err != nil {
			return err
		}
		truthy, err := isTruthy(cond)
		if err != nil {
			return err
		}
		if truthy {
			return i.evaluateBlock(s.Then, env)
		}
		if s.Else != nil {
			return i.evaluateBlock(s.Else, env)
		}
		return nil
	case *ast.WhileStatement:
		for {
			cond, err := i.evaluateExpression(s.Condition, env)
			if err != nil {
				return err
			}
			truthy, err := isTruthy(cond)
			if err != nil {
				return err
			}
			if !truthy {
				return nil
			}
			if err := i.evaluateBlock(s.Body, env); err != nil {
				return err
			}
		}
	case *ast.ReturnStatement:
		if s.Argument == nil {
			return &returnSignal{value: runtime.UnitValue{}}
		}
		val, err := i.evaluateExpression(s.Argument, env)
		if err != nil {
			return err
		}
		return &returnSignal{value: val}
	case *ast.ExpressionStatement:
		_, err := i.evaluateExpression(s.Expression, env)
		return err
	default:
		return diag.New(diag.StructuralError, "unhandled statement node %s", stmt.NodeType())
	}
}

// evaluateAssignment computes the right-hand side first, then stores into
// the target. Indexed stores mutate the shared array cell in place.
func (i *Interpreter) evaluateAssignment(stmt *ast.AssignmentStatement, env *runtime.Environment) error {
	val, err := i.evaluateExpression(stmt.Value, env)
	if err != nil {
		return err
	}
	switch t := stmt.Target.(type) {
	case *ast.Identifier:
		env.Define(t.Name, val)
		return nil
	case *ast.IndexExpression:
		idx, err := i.evaluateExpression(t.Index, env)
		if err != nil {
			return err
		}
		if base, ok := t.Base.(*ast.Identifier); ok {
			return env.SetIndex(base.Name, idx, val)
		}
		obj, err := i.evaluateExpression(t.Base, env)
		if err != nil {
			return err
		}
		arr, ok := obj.(*runtime.ArrayValue)
		if !ok {
			return diag.New(diag.TypeMismatch, "cannot index into %s value", obj.Kind())
		}
		n, err := runtime.ArrayIndex(idx, len(arr.Elements))
		if err != nil {
			return err
		}
		arr.Elements[n] = val
		return nil
	default:
		return diag.New(diag.StructuralError, "unhandled assignment target %s", stmt.Target.NodeType())
	}
}

//-----------------------------------------------------------------------------
// Expressions
//-----------------------------------------------------------------------------

func (i *Interpreter) evaluateExpression(expr ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	switch e := expr.(type) {
	case *ast.NumberLiteral:
		return runtime.NumberValue{Val: e.Value}, nil
	case *ast.StringLiteral:
		return runtime.StringValue{Val: e.Value}, nil
	case *ast.ArrayLiteral:
		elements := make([]runtime.Value, 0, len(e.Elements))
		for _, el := range e.Elements {
			val, err := i.evaluateExpression(el, env)
			if err != nil {
				return nil, err
			}
			elements = append(elements, val)
		}
		return &runtime.ArrayValue{Elements: elements}, nil
	case *ast.Identifier:
		return i.evaluateIdentifier(e, env)
	case *ast.IndexExpression:
		return i.evaluateIndex(e, env)
	case *ast.UnaryExpression:
		return i.evaluateUnary(e, env)
	case *ast.BinaryExpression:
		return i.evaluateBinary(e, env)
	case *ast.CallExpression:
		return i.evaluateCall(e, env)
	default:
		return nil, diag.New(diag.StructuralError, "unhandled expression node %s", expr.NodeType())
	}
}

// evaluateIdentifier prefers the variable binding; an unbound name that
// matches a user-defined function yields a reference to it instead.
func (i *Interpreter) evaluateIdentifier(e *ast.Identifier, env *runtime.Environment) (runtime.Value, error) {
	if env.Has(e.Name) {
		return env.Get(e.Name)
	}
	if _, ok := i.functions[e.Name]; ok {
		return runtime.FunctionRefValue{Name: e.Name}, nil
	}
	return env.Get(e.Name)
}

func (i *Interpreter) evaluateIndex(e *ast.IndexExpression, env *runtime.Environment) (runtime.Value, error) {
	base, err := i.evaluateExpression(e.Base, env)
	if err != nil {
		return nil, err
	}
	arr, ok := base.(*runtime.ArrayValue)
	if !ok {
		return nil, diag.New(diag.TypeMismatch, "cannot index into %s value", base.Kind())
	}
	idx, err := i.evaluateExpression(e.Index, env)
	if err != nil {
		return nil, err
	}
	n, err := runtime.ArrayIndex(idx, len(arr.Elements))
	if err != nil {
		return nil, err
	}
	return arr.Elements[n], nil
}

func (i *Interpreter) evaluateUnary(e *ast.UnaryExpression, env *runtime.Environment) (runtime.Value, error) {
	operand, err := i.evaluateExpression(e.Operand, env)
	if err != nil {
		return nil, err
	}
	num, ok := operand.(runtime.NumberValue)
	if !ok {
		return nil, diag.New(diag.TypeMismatch, "unary %s expects a number, got %s", e.Operator, operand.Kind())
	}
	switch e.Operator {
	case "-":
		return runtime.NumberValue{Val: -num.Val}, nil
	case "+":
		return num, nil
	default:
		return nil, diag.New(diag.StructuralError, "unhandled unary operator %q", e.Operator)
	}
}

func (i *Interpreter) evaluateBinary(e *ast.BinaryExpression, env *runtime.Environment) (runtime.Value, error) {
	left, err := i.evaluateExpression(e.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := i.evaluateExpression(e.Right, env)
	if err != nil {
		return nil, err
	}
	switch e.Operator {
	case "+", "-", "*", "/":
		return evaluateArithmetic(e.Operator, left, right)
	case "==", "!=", "<", ">", "<=", ">=":
		return evaluateComparison(e.Operator, left, right)
	default:
		return nil, diag.New(diag.StructuralError, "unhandled binary operator %q", e.Operator)
	}
}

// evaluateCall resolves the callee name, then evaluates arguments left to
// right. User-defined functions shadow builtins of the same name; a variable
// holding a function reference is the last resort.
func (i *Interpreter) evaluateCall(e *ast.CallExpression, env *runtime.Environment) (runtime.Value, error) {
	name := e.Callee.Name
	fn, userDefined := i.functions[name]
	var native runtime.NativeFunctionValue
	if !userDefined {
		var ok bool
		native, ok = i.registry.Resolve(name)
		if !ok {
			if env.Has(name) {
				bound, err := env.Get(name)
				if err != nil {
					return nil, err
				}
				switch b := bound.(type) {
				case runtime.FunctionRefValue:
					fn, userDefined = i.functions[b.Name]
					if !userDefined {
						return nil, diag.New(diag.UndefinedFunction, "undefined function %q", b.Name)
					}
				case runtime.NativeFunctionValue:
					native = b
				default:
					return nil, diag.New(diag.TypeMismatch, "%q is not callable, it is a %s", name, bound.Kind())
				}
			} else {
				return nil, diag.New(diag.UndefinedFunction, "undefined function %q", name)
			}
		}
	}

	args := make([]runtime.Value, 0, len(e.Arguments))
	for _, arg := range e.Arguments {
		val, err := i.evaluateExpression(arg, env)
		if err != nil {
			return nil, err
		}
		args = append(args, val)
	}

	if userDefined {
		return i.invokeFunction(fn, args)
	}
	return i.invokeNative(native, args)
}

//-----------------------------------------------------------------------------
// Operator semantics
//-----------------------------------------------------------------------------

// isTruthy interprets a condition value. Only numbers carry truth; nonzero
// is true.
func isTruthy(val runtime.Value) (bool, error) {
	num, ok := val.(runtime.NumberValue)
	if !ok {
		return false, diag.New(diag.TypeMismatch, "condition must be a number, got %s", val.Kind())
	}
	return num.Val != 0, nil
}

func evaluateArithmetic(op string, left, right runtime.Value) (runtime.Value, error) {
	if l, ok := left.(runtime.StringValue); ok && op == "+" {
		if r, ok := right.(runtime.StringValue); ok {
			return runtime.StringValue{Val: l.Val + r.Val}, nil
		}
	}
	l, lok := left.(runtime.NumberValue)
	r, rok := right.(runtime.NumberValue)
	if !lok || !rok {
		return nil, diag.New(diag.TypeMismatch, "operator %s not defined for %s and %s", op, left.Kind(), right.Kind())
	}
	switch op {
	case "+":
		return runtime.NumberValue{Val: l.Val + r.Val}, nil
	case "-":
		return runtime.NumberValue{Val: l.Val - r.Val}, nil
	case "*":
		return runtime.NumberValue{Val: l.Val * r.Val}, nil
	case "/":
		if r.Val == 0 {
			return nil, diag.New(diag.DivisionByZero, "division by zero")
		}
		return runtime.NumberValue{Val: l.Val / r.Val}, nil
	default:
		return nil, diag.New(diag.StructuralError, "unhandled arithmetic operator %q", op)
	}
}

// evaluateComparison compares two values of the same kind and yields 1 or 0.
// Numbers compare numerically, strings lexicographically.
func evaluateComparison(op string, left, right runtime.Value) (runtime.Value, error) {
	var result bool
	switch l := left.(type) {
	case runtime.NumberValue:
		r, ok := right.(runtime.NumberValue)
		if !ok {
			return nil, diag.New(diag.TypeMismatch, "cannot compare %s with %s", left.Kind(), right.Kind())
		}
		result = comparisonOp(op, compareFloats(l.Val, r.Val))
	case runtime.StringValue:
		r, ok := right.(runtime.StringValue)
		if !ok {
			return nil, diag.New(diag.TypeMismatch, "cannot compare %s with %s", left.Kind(), right.Kind())
		}
		result = comparisonOp(op, compareStrings(l.Val, r.Val))
	default:
		return nil, diag.New(diag.TypeMismatch, "operator %s not defined for %s values", op, left.Kind())
	}
	if result {
		return runtime.NumberValue{Val: 1}, nil
	}
	return runtime.NumberValue{Val: 0}, nil
}

func compareFloats(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func comparisonOp(op string, cmp int) bool {
	switch op {
	case "==":
		return cmp == 0
	case "!=":
		return cmp != 0
	case "<":
		return cmp < 0
	case ">":
		return cmp > 0
	case "<=":
		return cmp <= 0
	case ">=":
		return cmp >= 0
	}
	return false
}
