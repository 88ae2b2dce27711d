// Package serialize converts data values to and from a canonical CBOR
// form for the persistence layer. Only data is serializable: functions,
// classes, object instances and promises are rejected.
package serialize

import (
	"github.com/fxamacker/cbor/v2"

	"gulfofmexico/interpreter-go/pkg/diag"
	"gulfofmexico/interpreter-go/pkg/runtime"
)

// Wire kind tags. These are part of the stored format; do not renumber.
const (
	tagNumber    = "num"
	tagString    = "str"
	tagBoolean   = "bool"
	tagUndefined = "undef"
	tagList      = "list"
	tagMap       = "map"
)

// node is the tagged union written to storage. Map keys and values are
// parallel slices so insertion order survives the round trip.
type node struct {
	Kind string   `cbor:"k"`
	Num  float64  `cbor:"n,omitempty"`
	Str  string   `cbor:"s,omitempty"`
	Tri  int      `cbor:"t,omitempty"`
	List []node   `cbor:"l,omitempty"`
	Keys []string `cbor:"mk,omitempty"`
	Vals []node   `cbor:"mv,omitempty"`
}

var encMode cbor.EncMode

func init() {
	var err error
	encMode, err = cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
}

// Encode renders a data value as canonical CBOR.
func Encode(v runtime.Value) ([]byte, *diag.Error) {
	n, err := toNode(v)
	if err != nil {
		return nil, err
	}
	data, encErr := encMode.Marshal(n)
	if encErr != nil {
		return nil, &diag.Error{Kind: diag.KindStorage, Message: "encoding failed", Cause: encErr}
	}
	return data, nil
}

// Decode reconstructs a value from its stored form.
func Decode(data []byte) (runtime.Value, *diag.Error) {
	var n node
	if err := cbor.Unmarshal(data, &n); err != nil {
		return nil, &diag.Error{Kind: diag.KindStorage, Message: "corrupt stored value", Cause: err}
	}
	return fromNode(n)
}

func toNode(v runtime.Value) (node, *diag.Error) {
	switch val := v.(type) {
	case runtime.NumberValue:
		return node{Kind: tagNumber, Num: val.Val}, nil
	case runtime.StringValue:
		return node{Kind: tagString, Str: val.Val}, nil
	case runtime.BoolValue:
		return node{Kind: tagBoolean, Tri: int(val.Val)}, nil
	case runtime.UndefinedValue:
		return node{Kind: tagUndefined}, nil
	case *runtime.ListValue:
		out := node{Kind: tagList}
		for _, el := range val.Elements {
			child, err := toNode(el)
			if err != nil {
				return node{}, err
			}
			out.List = append(out.List, child)
		}
		return out, nil
	case *runtime.MapValue:
		out := node{Kind: tagMap}
		for _, key := range val.Keys() {
			entry, _ := val.Get(key)
			child, err := toNode(entry)
			if err != nil {
				return node{}, err
			}
			out.Keys = append(out.Keys, key)
			out.Vals = append(out.Vals, child)
		}
		return out, nil
	default:
		return node{}, diag.New(diag.KindStorage,
			"a %s cannot be persisted", v.Kind())
	}
}

func fromNode(n node) (runtime.Value, *diag.Error) {
	switch n.Kind {
	case tagNumber:
		return runtime.NumberValue{Val: n.Num}, nil
	case tagString:
		return runtime.StringValue{Val: n.Str}, nil
	case tagBoolean:
		if n.Tri < int(runtime.False) || n.Tri > int(runtime.Maybe) {
			return nil, diag.New(diag.KindStorage, "stored boolean out of range: %d", n.Tri)
		}
		return runtime.BoolValue{Val: runtime.Tri(n.Tri)}, nil
	case tagUndefined:
		return runtime.UndefinedValue{}, nil
	case tagList:
		elements := make([]runtime.Value, 0, len(n.List))
		for _, child := range n.List {
			el, err := fromNode(child)
			if err != nil {
				return nil, err
			}
			elements = append(elements, el)
		}
		return runtime.NewList(elements), nil
	case tagMap:
		if len(n.Keys) != len(n.Vals) {
			return nil, diag.New(diag.KindStorage, "stored map keys and values disagree")
		}
		m := runtime.NewMap()
		for i, key := range n.Keys {
			entry, err := fromNode(n.Vals[i])
			if err != nil {
				return nil, err
			}
			m.Set(key, entry)
		}
		return m, nil
	default:
		return nil, diag.New(diag.KindStorage, "unknown stored kind %q", n.Kind)
	}
}
