package runtime

import (
	"math"

	"dumblang/interpreter-go/pkg/diag"
)

// Environment holds one function invocation's variable bindings. Scopes are
// flat: a function body sees exactly its own parameters and the variables it
// has assigned, never an enclosing frame.
type Environment struct {
	values map[string]Value
}

func NewEnvironment() *Environment {
	return &Environment{values: make(map[string]Value)}
}

// Define binds name to value, creating or overwriting the binding.
func (e *Environment) Define(name string, value Value) {
	e.values[name] = value
}

// Get looks up name in this frame.
func (e *Environment) Get(name string) (Value, error) {
	if v, ok := e.values[name]; ok {
		return v, nil
	}
	return nil, diag.New(diag.UndefinedVariable, "undefined variable %q", name)
}

// Has reports whether name is bound without triggering a lookup error.
func (e *Environment) Has(name string) bool {
	_, ok := e.values[name]
	return ok
}

// SetIndex stores value at the given index of the array bound to name. The
// mutation goes through the shared array cell, so aliases observe it.
func (e *Environment) SetIndex(name string, index Value, value Value) error {
	target, err := e.Get(name)
	if err != nil {
		return err
	}
	arr, ok := target.(*ArrayValue)
	if !ok {
		return diag.New(diag.TypeMismatch, "cannot index into %s value %q", target.Kind(), name)
	}
	i, err := ArrayIndex(index, len(arr.Elements))
	if err != nil {
		return err
	}
	arr.Elements[i] = value
	return nil
}

// ArrayIndex validates an index value against an array of the given length
// and returns it as an int. Non-numeric and fractional indexes are type
// errors; integral indexes outside [0, length) are bounds errors.
func ArrayIndex(index Value, length int) (int, error) {
	num, ok := index.(NumberValue)
	if !ok {
		return 0, diag.New(diag.TypeMismatch, "array index must be a number, got %s", index.Kind())
	}
	if math.Trunc(num.Val) != num.Val {
		return 0, diag.New(diag.TypeMismatch, "array index must be integral, got %v", num.Val)
	}
	i := int(num.Val)
	if i < 0 || i >= length {
		return 0, diag.New(diag.IndexOutOfRange, "index %d out of range for array of length %d", i, length)
	}
	return i, nil
}
