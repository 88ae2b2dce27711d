package runtime

import (
	"fmt"
	"sync/atomic"

	"gulfofmexico/interpreter-go/pkg/ast"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindNumber Kind = iota
	KindString
	KindBoolean
	KindList
	KindMap
	KindObject
	KindFunction
	KindNativeFunction
	KindClass
	KindUndefined
	KindPromise
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "Number"
	case KindString:
		return "String"
	case KindBoolean:
		return "Boolean"
	case KindList:
		return "List"
	case KindMap:
		return "Map"
	case KindObject:
		return "Object"
	case KindFunction:
		return "Function"
	case KindNativeFunction:
		return "NativeFunction"
	case KindClass:
		return "Class"
	case KindUndefined:
		return "Undefined"
	case KindPromise:
		return "Promise"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
}

// Tri is the three-valued boolean domain.
type Tri int

const (
	False Tri = iota
	True
	Maybe
)

func (t Tri) String() string {
	switch t {
	case True:
		return "true"
	case False:
		return "false"
	default:
		return "maybe"
	}
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

type NumberValue struct {
	Val float64
}

func (v NumberValue) Kind() Kind { return KindNumber }

type StringValue struct {
	Val string
}

func (v StringValue) Kind() Kind { return KindString }

type BoolValue struct {
	Val Tri
}

func (v BoolValue) Kind() Kind { return KindBoolean }

type UndefinedValue struct{}

func (UndefinedValue) Kind() Kind { return KindUndefined }

//-----------------------------------------------------------------------------
// Containers
//-----------------------------------------------------------------------------

// containerIDs hands out process-unique identities for reference types so
// aliased containers compare and track uniformly.
var containerIDs atomic.Uint64

func nextContainerID() uint64 { return containerIDs.Add(1) }

// ListValue elements are addressed by user indices starting at -1; the
// slice itself stays zero-based.
type ListValue struct {
	id       uint64
	Elements []Value
}

func NewList(elements []Value) *ListValue {
	return &ListValue{id: nextContainerID(), Elements: elements}
}

func (v *ListValue) Kind() Kind { return KindList }
func (v *ListValue) ID() uint64 { return v.id }
func (v *ListValue) Len() int   { return len(v.Elements) }

type MapValue struct {
	id      uint64
	Entries map[string]Value
	keys    []string // insertion order, for deterministic printing
}

func NewMap() *MapValue {
	return &MapValue{id: nextContainerID(), Entries: make(map[string]Value)}
}

func (v *MapValue) Kind() Kind { return KindMap }
func (v *MapValue) ID() uint64 { return v.id }

func (v *MapValue) Set(key string, value Value) {
	if _, ok := v.Entries[key]; !ok {
		v.keys = append(v.keys, key)
	}
	v.Entries[key] = value
}

func (v *MapValue) Get(key string) (Value, bool) {
	val, ok := v.Entries[key]
	return val, ok
}

func (v *MapValue) Keys() []string {
	out := make([]string, len(v.keys))
	copy(out, v.keys)
	return out
}

//-----------------------------------------------------------------------------
// Callables, classes, objects
//-----------------------------------------------------------------------------

type FunctionValue struct {
	Node    *ast.FunctionDefinition
	Closure *Environment
}

func (v *FunctionValue) Kind() Kind { return KindFunction }

// NativeCallContext provides hooks for native functions.
type NativeCallContext struct {
	Env *Environment
}

type NativeFunc func(*NativeCallContext, []Value) (Value, error)

type NativeFunctionValue struct {
	Name  string
	Arity int // -1 means variadic
	Impl  NativeFunc
}

func (v NativeFunctionValue) Kind() Kind { return KindNativeFunction }

// ClassValue tracks the one-instantiation language rule.
type ClassValue struct {
	Node         *ast.ClassDeclaration
	Closure      *Environment
	Instantiated bool
}

func (v *ClassValue) Kind() Kind { return KindClass }

// ObjectValue holds an instance namespace populated by the class body.
type ObjectValue struct {
	id        uint64
	ClassName string
	Members   *Environment
}

func NewObject(className string, members *Environment) *ObjectValue {
	return &ObjectValue{id: nextContainerID(), ClassName: className, Members: members}
}

func (v *ObjectValue) Kind() Kind { return KindObject }
func (v *ObjectValue) ID() uint64 { return v.id }

//-----------------------------------------------------------------------------
// Promises
//-----------------------------------------------------------------------------

// PromiseValue is a one-shot future. The temporal `next` accessor and async
// function results resolve through it; resolution happens on the single
// interpreter thread, so no locking.
type PromiseValue struct {
	resolved bool
	value    Value
}

func NewPromise() *PromiseValue { return &PromiseValue{} }

func (v *PromiseValue) Kind() Kind     { return KindPromise }
func (v *PromiseValue) Resolved() bool { return v.resolved }

func (v *PromiseValue) Value() Value {
	if !v.resolved {
		return UndefinedValue{}
	}
	return v.value
}

func (v *PromiseValue) Resolve(value Value) {
	if v.resolved {
		return
	}
	v.resolved = true
	v.value = value
}
