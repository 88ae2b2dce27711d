package serialize

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"gulfofmexico/interpreter-go/pkg/diag"
	"gulfofmexico/interpreter-go/pkg/runtime"
)

func roundTrip(t *testing.T, v runtime.Value) runtime.Value {
	t.Helper()
	data, err := Encode(v)
	require.Nil(t, err)
	out, err := Decode(data)
	require.Nil(t, err)
	return out
}

func TestScalarRoundTrip(t *testing.T) {
	cases := []runtime.Value{
		runtime.NumberValue{Val: 3.14},
		runtime.NumberValue{Val: -1},
		runtime.StringValue{Val: "hello ${not} interpolated"},
		runtime.StringValue{Val: ""},
		runtime.BoolValue{Val: runtime.True},
		runtime.BoolValue{Val: runtime.False},
		runtime.BoolValue{Val: runtime.Maybe},
		runtime.UndefinedValue{},
	}
	for _, v := range cases {
		out := roundTrip(t, v)
		require.True(t, runtime.StrictEqual(v, out), "%s came back as %s",
			runtime.ToString(v), runtime.ToString(out))
	}
}

func TestNestedListRoundTrip(t *testing.T) {
	v := runtime.NewList([]runtime.Value{
		runtime.NumberValue{Val: 1},
		runtime.NewList([]runtime.Value{
			runtime.StringValue{Val: "a"},
			runtime.UndefinedValue{},
		}),
		runtime.BoolValue{Val: runtime.Maybe},
	})
	out := roundTrip(t, v)
	require.True(t, runtime.StrictEqual(v, out),
		"round trip changed the list: %s", runtime.ToString(out))
}

func TestMapKeepsKeyOrder(t *testing.T) {
	m := runtime.NewMap()
	m.Set("zulu", runtime.NumberValue{Val: 1})
	m.Set("alpha", runtime.NumberValue{Val: 2})
	m.Set("mike", runtime.NewList([]runtime.Value{runtime.NumberValue{Val: 3}}))

	out := roundTrip(t, m)
	decoded, ok := out.(*runtime.MapValue)
	require.True(t, ok, "decoded to a %s", out.Kind())
	if diff := cmp.Diff(m.Keys(), decoded.Keys()); diff != "" {
		t.Fatalf("key order changed (-want +got):\n%s", diff)
	}
	require.True(t, runtime.StrictEqual(m, decoded))
}

func TestEncodingIsCanonical(t *testing.T) {
	v := runtime.NewList([]runtime.Value{
		runtime.NumberValue{Val: 7},
		runtime.StringValue{Val: "x"},
	})
	a, err := Encode(v)
	require.Nil(t, err)
	b, err := Encode(v)
	require.Nil(t, err)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("encoding is not deterministic:\n%s", diff)
	}
}

func TestFunctionsAreNotPersistable(t *testing.T) {
	_, err := Encode(&runtime.FunctionValue{})
	require.NotNil(t, err)
	require.Equal(t, diag.KindStorage, err.Kind)
}

func TestCorruptDataIsReported(t *testing.T) {
	_, err := Decode([]byte{0xff, 0x00, 0x13})
	require.NotNil(t, err)
	require.Equal(t, diag.KindStorage, err.Kind)
}
