package runtime

import "testing"

func TestToBoolean(t *testing.T) {
	cases := []struct {
		v    Value
		want Tri
	}{
		{NumberValue{Val: 0}, False},
		{NumberValue{Val: 3}, True},
		{StringValue{Val: ""}, False},
		{StringValue{Val: "x"}, True},
		{BoolValue{Val: Maybe}, Maybe},
		{UndefinedValue{}, False},
		{NewList(nil), False},
		{NewList([]Value{NumberValue{Val: 1}}), True},
		{NewMap(), Maybe},
	}
	for _, tc := range cases {
		if got := ToBoolean(tc.v); got != tc.want {
			t.Fatalf("ToBoolean(%s) = %s, want %s", ToString(tc.v), got, tc.want)
		}
	}
}

func TestTruthyOnlyDefiniteTrue(t *testing.T) {
	if Truthy(BoolValue{Val: Maybe}) {
		t.Fatal("maybe must not be truthy")
	}
	if !Truthy(BoolValue{Val: True}) {
		t.Fatal("true must be truthy")
	}
}

func TestMaybeIsOneHalf(t *testing.T) {
	if got := ToNumber(BoolValue{Val: Maybe}); got != 0.5 {
		t.Fatalf("maybe = %v, want 0.5", got)
	}
}

func TestFormatNumber(t *testing.T) {
	if got := FormatNumber(3); got != "3" {
		t.Fatalf("3 prints as %q", got)
	}
	if got := FormatNumber(3.5); got != "3.5" {
		t.Fatalf("3.5 prints as %q", got)
	}
	if got := FormatNumber(2.0000000001); got != "2" {
		t.Fatalf("near-integer prints as %q", got)
	}
}

func TestToStringRendering(t *testing.T) {
	list := NewList([]Value{NumberValue{Val: 1}, StringValue{Val: "a"}})
	if got := ToString(list); got != "[1, a]" {
		t.Fatalf("list prints as %q", got)
	}
	m := NewMap()
	m.Set("k", NumberValue{Val: 2})
	m.Set("j", NumberValue{Val: 1})
	if got := ToString(m); got != "{k: 2, j: 1}" {
		t.Fatalf("map prints as %q", got)
	}
	if got := ToString(UndefinedValue{}); got != "undefined" {
		t.Fatalf("undefined prints as %q", got)
	}
}

func TestEqualityTiers(t *testing.T) {
	three := NumberValue{Val: 3}
	threeStr := StringValue{Val: "3"}

	if !CoercingEqual(three, threeStr) {
		t.Fatal("3 = \"3\" should hold at the loosest tier")
	}
	if !ValueEqual(three, threeStr) {
		t.Fatal("3 == \"3\" should hold, both coerce numeric")
	}
	if StrictEqual(three, threeStr) {
		t.Fatal("3 === \"3\" must not hold across kinds")
	}
	if !StrictEqual(three, NumberValue{Val: 3}) {
		t.Fatal("3 === 3 should hold")
	}
}

func TestIdenticalEqualNeedsSameContainer(t *testing.T) {
	a := NewList([]Value{NumberValue{Val: 1}})
	b := NewList([]Value{NumberValue{Val: 1}})

	if !StrictEqual(a, b) {
		t.Fatal("equal lists should be === equal")
	}
	if IdenticalEqual(a, b) {
		t.Fatal("distinct lists must not be ==== equal")
	}
	if !IdenticalEqual(a, a) {
		t.Fatal("a list is ==== itself")
	}
}

func TestBooleanNumberCoercion(t *testing.T) {
	if !CoercingEqual(BoolValue{Val: True}, NumberValue{Val: 1}) {
		t.Fatal("true = 1 should hold")
	}
	if !ValueEqual(BoolValue{Val: Maybe}, NumberValue{Val: 0.5}) {
		t.Fatal("maybe == 0.5 should hold")
	}
}

func TestMapKeysKeepInsertionOrder(t *testing.T) {
	m := NewMap()
	for _, k := range []string{"c", "a", "b"} {
		m.Set(k, UndefinedValue{})
	}
	got := m.Keys()
	want := []string{"c", "a", "b"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("keys = %v, want %v", got, want)
		}
	}
}
