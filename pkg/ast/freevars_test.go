package ast

import (
	"reflect"
	"testing"
)

func TestFreeNamesDeduplicatesInOrder(t *testing.T) {
	expr := Bin(OpAdd,
		Bin(OpMul, ID("x"), ID("y")),
		Bin(OpSub, ID("x"), Num(1)))
	got := FreeNames(expr)
	want := []string{"x", "y"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("FreeNames = %v, want %v", got, want)
	}
}

func TestFreeNamesMemberChainRoot(t *testing.T) {
	expr := Bin(OpGt,
		NewMemberExpression(ID("xs"), "length", 0),
		Num(1))
	got := FreeNames(expr)
	if !reflect.DeepEqual(got, []string{"xs"}) {
		t.Fatalf("FreeNames = %v, want just the chain root", got)
	}
}

func TestFreeNamesWalksCallsAndIndexes(t *testing.T) {
	expr := Call(ID("length"), Index(ID("grid"), ID("row")))
	got := FreeNames(expr)
	want := []string{"length", "grid", "row"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("FreeNames = %v, want %v", got, want)
	}
}
