package interpreter

import (
	"fmt"
	"math"
	"strings"

	"gulfofmexico/interpreter-go/pkg/diag"
	"gulfofmexico/interpreter-go/pkg/runtime"
)

// Number words are first-class constants; redefining one is the usual way
// to break arithmetic on purpose.
var numberWords = map[string]float64{
	"zero": 0, "one": 1, "two": 2, "three": 3, "four": 4,
	"five": 5, "six": 6, "seven": 7, "eight": 8, "nine": 9,
	"ten": 10, "eleven": 11, "twelve": 12, "thirteen": 13, "fourteen": 14,
	"fifteen": 15, "sixteen": 16, "seventeen": 17, "eighteen": 18, "nineteen": 19,
	"twenty": 20, "thirty": 30, "forty": 40, "fifty": 50,
	"sixty": 60, "seventy": 70, "eighty": 80, "ninety": 90,
	"hundred": 100, "thousand": 1000,
}

func (i *Interpreter) installBuiltins() {
	now := i.Now()
	declare := func(name string, v runtime.Value) {
		i.Global.Declare(name, &runtime.Lifetime{
			Value: v, CanReassign: true, CanEditContent: true, LinesLeft: -1,
		}, now)
	}

	for word, n := range numberWords {
		declare(word, runtime.NumberValue{Val: n})
	}
	declare("Infinity", runtime.NumberValue{Val: math.Inf(1)})

	declare("print", runtime.NativeFunctionValue{Name: "print", Arity: -1, Impl: i.nativePrint})
	declare("exit", runtime.NativeFunctionValue{Name: "exit", Arity: -1, Impl: nativeExit})
	declare("push", runtime.NativeFunctionValue{Name: "push", Arity: 2, Impl: i.nativePush})
	declare("pop", runtime.NativeFunctionValue{Name: "pop", Arity: 1, Impl: i.nativePop})
	declare("length", runtime.NativeFunctionValue{Name: "length", Arity: 1, Impl: nativeLength})
	declare("keys", runtime.NativeFunctionValue{Name: "keys", Arity: 1, Impl: nativeKeys})
	declare("settle", runtime.NativeFunctionValue{Name: "settle", Arity: 1, Impl: i.nativeSettle})

	declare("round", mathBuiltin("round", math.Round))
	declare("abs", mathBuiltin("abs", math.Abs))
	declare("sqrt", mathBuiltin("sqrt", math.Sqrt))
}

func mathBuiltin(name string, fn func(float64) float64) runtime.NativeFunctionValue {
	return runtime.NativeFunctionValue{
		Name:  name,
		Arity: 1,
		Impl: func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			return runtime.NumberValue{Val: fn(runtime.ToNumber(args[0]))}, nil
		},
	}
}

func (i *Interpreter) nativePrint(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	parts := make([]string, len(args))
	for idx, arg := range args {
		parts[idx] = runtime.ToString(arg)
	}
	fmt.Fprintln(i.Out, strings.Join(parts, " "))
	return runtime.UndefinedValue{}, nil
}

func nativeExit(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	code := 0
	if len(args) > 0 {
		code = int(runtime.ToNumber(args[0]))
	}
	return nil, exitSignal{code: code}
}

func (i *Interpreter) nativePush(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	list, ok := args[0].(*runtime.ListValue)
	if !ok {
		return nil, diag.New(diag.KindTypeMismatch, "push needs a list, got a %s", args[0].Kind())
	}
	list.Elements = append(list.Elements, args[1])
	if err := i.notifyContainer(list.ID(), ctx.Env); err != nil {
		return nil, err
	}
	return runtime.NumberValue{Val: float64(list.Len())}, nil
}

func (i *Interpreter) nativePop(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	list, ok := args[0].(*runtime.ListValue)
	if !ok {
		return nil, diag.New(diag.KindTypeMismatch, "pop needs a list, got a %s", args[0].Kind())
	}
	if list.Len() == 0 {
		return runtime.UndefinedValue{}, nil
	}
	last := list.Elements[list.Len()-1]
	list.Elements = list.Elements[:list.Len()-1]
	if err := i.notifyContainer(list.ID(), ctx.Env); err != nil {
		return nil, err
	}
	return last, nil
}

func nativeLength(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	switch v := args[0].(type) {
	case *runtime.ListValue:
		return runtime.NumberValue{Val: float64(v.Len())}, nil
	case runtime.StringValue:
		return runtime.NumberValue{Val: float64(len([]rune(v.Val)))}, nil
	case *runtime.MapValue:
		return runtime.NumberValue{Val: float64(len(v.Keys()))}, nil
	default:
		return runtime.UndefinedValue{}, nil
	}
}

func nativeKeys(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	m, ok := args[0].(*runtime.MapValue)
	if !ok {
		return nil, diag.New(diag.KindTypeMismatch, "keys needs a map, got a %s", args[0].Kind())
	}
	keys := m.Keys()
	elements := make([]runtime.Value, len(keys))
	for idx, k := range keys {
		elements[idx] = runtime.StringValue{Val: k}
	}
	return runtime.NewList(elements), nil
}

// nativeSettle collapses a maybe into a definite answer; anything already
// definite passes through.
func (i *Interpreter) nativeSettle(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	b, ok := args[0].(runtime.BoolValue)
	if !ok || b.Val != runtime.Maybe {
		return args[0], nil
	}
	if i.rng.Intn(2) == 0 {
		return runtime.BoolValue{Val: runtime.False}, nil
	}
	return runtime.BoolValue{Val: runtime.True}, nil
}
