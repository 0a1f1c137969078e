package interpreter_test

import (
	"fmt"

	"dumblang/interpreter-go/pkg/diag"
	"dumblang/interpreter-go/pkg/interpreter"
	"dumblang/interpreter-go/pkg/runtime"
)

// ExampleParseAndExecute shows the embedding surface: a host registers its
// own native function and runs a program against it.
func ExampleParseAndExecute() {
	strlen := runtime.NativeFunctionValue{
		Name:  "strlen",
		Arity: 1,
		Impl: func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			str, ok := args[0].(runtime.StringValue)
			if !ok {
				return nil, diag.New(diag.TypeMismatch, "strlen expects a string, got %s", args[0].Kind())
			}
			return runtime.NumberValue{Val: float64(len(str.Val))}, nil
		},
	}

	program := `
greet(name) {
	print("hello, " + name);
	return strlen(name);
}
main() {
	return greet("world") + env;
}
`
	val, err := interpreter.ParseAndExecute(program, 100, strlen)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(runtime.Format(val))
	// Output:
	// DSL> hello, world
	// 105
}
