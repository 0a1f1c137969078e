package runtime

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindNumber Kind = iota
	KindString
	KindArray
	KindFunctionRef
	KindUnit
	KindNativeFunction
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindFunctionRef:
		return "function"
	case KindUnit:
		return "unit"
	case KindNativeFunction:
		return "native_function"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

// NumberValue is the single numeric type; integers are whole-valued floats.
type NumberValue struct {
	Val float64
}

func (v NumberValue) Kind() Kind { return KindNumber }

type StringValue struct {
	Val string
}

func (v StringValue) Kind() Kind { return KindString }

// UnitValue is the result of a return with no expression, and of a function
// body that falls through without returning.
type UnitValue struct{}

func (UnitValue) Kind() Kind { return KindUnit }

//-----------------------------------------------------------------------------
// Collections
//-----------------------------------------------------------------------------

// ArrayValue is a mutable heap cell. Bindings and call arguments share the
// pointer, so mutation through one alias is visible through every other.
type ArrayValue struct {
	Elements []Value
}

func (v *ArrayValue) Kind() Kind { return KindArray }

//-----------------------------------------------------------------------------
// Functions
//-----------------------------------------------------------------------------

// FunctionRefValue names a user-defined function; it is resolved against the
// program's function table at call time, never captured as a closure.
type FunctionRefValue struct {
	Name string
}

func (v FunctionRefValue) Kind() Kind { return KindFunctionRef }

// NativeCallContext carries the host I/O streams into native functions.
type NativeCallContext struct {
	Stdout io.Writer
	Stdin  *bufio.Reader
}

type NativeFunc func(*NativeCallContext, []Value) (Value, error)

// NativeFunctionValue is a host-provided callable exposed to programs under
// a fixed name.
type NativeFunctionValue struct {
	Name  string
	Arity int
	Impl  NativeFunc
}

func (v NativeFunctionValue) Kind() Kind { return KindNativeFunction }

//-----------------------------------------------------------------------------
// Rendering
//-----------------------------------------------------------------------------

// Format renders a value the way print shows it: numbers in their shortest
// form, strings raw, arrays as a bracketed comma-separated element list.
func Format(val Value) string {
	switch v := val.(type) {
	case NumberValue:
		return strconv.FormatFloat(v.Val, 'g', -1, 64)
	case StringValue:
		return v.Val
	case *ArrayValue:
		parts := make([]string, 0, len(v.Elements))
		for _, el := range v.Elements {
			parts = append(parts, Format(el))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case FunctionRefValue:
		return fmt.Sprintf("<fn %s>", v.Name)
	case UnitValue:
		return "nil"
	default:
		return fmt.Sprintf("[%s]", val.Kind())
	}
}
