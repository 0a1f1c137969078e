package interpreter

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"dumblang/interpreter-go/pkg/diag"
	"dumblang/interpreter-go/pkg/runtime"
)

// Host I/O markers. Program output is prefixed so a driving process can tell
// it apart from prompts, and each input kind announces itself before the
// read.
const (
	OutputPrefix = "DSL> "
	PromptString = "DSL<(str)"
	PromptNumber = "DSL<(num)"
)

// Registry maps builtin names to native functions. A fresh registry ships
// with the default set; embedders may register additional natives, and a
// registration under a default's name replaces the default.
type Registry struct {
	natives map[string]runtime.NativeFunctionValue
}

func NewRegistry(extras ...runtime.NativeFunctionValue) *Registry {
	r := &Registry{natives: make(map[string]runtime.NativeFunctionValue)}
	for _, fn := range defaultBuiltins() {
		r.Register(fn)
	}
	for _, fn := range extras {
		r.Register(fn)
	}
	return r
}

func (r *Registry) Register(fn runtime.NativeFunctionValue) {
	r.natives[fn.Name] = fn
}

func (r *Registry) Resolve(name string) (runtime.NativeFunctionValue, bool) {
	fn, ok := r.natives[name]
	return fn, ok
}

func defaultBuiltins() []runtime.NativeFunctionValue {
	return []runtime.NativeFunctionValue{
		{
			Name:  "print",
			Arity: 1,
			Impl: func(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
				fmt.Fprintf(ctx.Stdout, "%s%s\n", OutputPrefix, runtime.Format(args[0]))
				return runtime.UnitValue{}, nil
			},
		},
		{
			Name:  "inpstr",
			Arity: 0,
			Impl: func(ctx *runtime.NativeCallContext, _ []runtime.Value) (runtime.Value, error) {
				line, err := promptLine(ctx, PromptString)
				if err != nil {
					return nil, err
				}
				return runtime.StringValue{Val: line}, nil
			},
		},
		{
			Name:  "inpnum",
			Arity: 0,
			Impl: func(ctx *runtime.NativeCallContext, _ []runtime.Value) (runtime.Value, error) {
				line, err := promptLine(ctx, PromptNumber)
				if err != nil {
					return nil, err
				}
				n, err := strconv.ParseFloat(strings.TrimSpace(line), 64)
				if err != nil {
					return nil, diag.New(diag.ParseError, "cannot parse %q as a number", strings.TrimSpace(line))
				}
				return runtime.NumberValue{Val: n}, nil
			},
		},
		{
			Name:  "sqrt",
			Arity: 1,
			Impl: func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
				num, ok := args[0].(runtime.NumberValue)
				if !ok {
					return nil, diag.New(diag.TypeMismatch, "sqrt expects a number, got %s", args[0].Kind())
				}
				if num.Val < 0 {
					return nil, diag.New(diag.DomainError, "sqrt of negative number %v", num.Val)
				}
				return runtime.NumberValue{Val: math.Sqrt(num.Val)}, nil
			},
		},
	}
}

// promptLine announces the expected input kind on stdout, then reads one
// line from stdin with the trailing newline stripped.
func promptLine(ctx *runtime.NativeCallContext, prompt string) (string, error) {
	fmt.Fprintln(ctx.Stdout, prompt)
	line, err := ctx.Stdin.ReadString('\n')
	if err != nil && line == "" {
		return "", diag.New(diag.ParseError, "no input available: %v", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
