package runtime

import (
	"testing"
	"time"
)

var t0 = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func declare(env *Environment, name string, v Value, confidence int) *Binding {
	return env.Declare(name, &Lifetime{
		Value: v, Confidence: confidence,
		CanReassign: true, CanEditContent: true, LinesLeft: -1,
	}, t0)
}

func TestLookupWalksScopes(t *testing.T) {
	global := NewEnvironment(nil)
	declare(global, "x", NumberValue{Val: 1}, 1)
	child := global.Extend()

	b, ok := child.Lookup("x")
	if !ok {
		t.Fatal("x not found from child scope")
	}
	if got := ToNumber(b.Value(t0)); got != 1 {
		t.Fatalf("x = %v, want 1", got)
	}
	if _, ok := child.LookupLocal("x"); ok {
		t.Fatal("x should not be local to the child")
	}
}

func TestShadowing(t *testing.T) {
	global := NewEnvironment(nil)
	declare(global, "x", NumberValue{Val: 1}, 1)
	child := global.Extend()
	declare(child, "x", NumberValue{Val: 2}, 1)

	b, _ := child.Lookup("x")
	if got := ToNumber(b.Value(t0)); got != 2 {
		t.Fatalf("inner x = %v, want 2", got)
	}
	outer, _ := global.Lookup("x")
	if got := ToNumber(outer.Value(t0)); got != 1 {
		t.Fatalf("outer x = %v, want 1", got)
	}
}

func TestConfidenceOrdering(t *testing.T) {
	env := NewEnvironment(nil)
	b := declare(env, "x", NumberValue{Val: 1}, 1)
	declare(env, "x", NumberValue{Val: 2}, 3)

	if got := ToNumber(b.Value(t0)); got != 2 {
		t.Fatalf("after stronger declaration x = %v, want 2", got)
	}

	// A weaker redeclaration does not displace the stronger one.
	declare(env, "x", NumberValue{Val: 9}, 2)
	if got := ToNumber(b.Value(t0)); got != 2 {
		t.Fatalf("after weaker declaration x = %v, want 2", got)
	}
}

func TestConfidenceTieMostRecentWins(t *testing.T) {
	env := NewEnvironment(nil)
	b := declare(env, "x", NumberValue{Val: 1}, 2)
	declare(env, "x", NumberValue{Val: 2}, 2)
	if got := ToNumber(b.Value(t0)); got != 2 {
		t.Fatalf("tie should read the newer declaration, got %v", got)
	}
}

func TestLineLifetimeExpiry(t *testing.T) {
	env := NewEnvironment(nil)
	b := env.Declare("x", &Lifetime{Value: NumberValue{Val: 7}, LinesLeft: 2}, t0)

	b.TickLine()
	if got := ToNumber(b.Value(t0)); got != 7 {
		t.Fatalf("x should survive one line, got %v", got)
	}
	b.TickLine()
	if _, ok := b.Value(t0).(UndefinedValue); !ok {
		t.Fatalf("x should be undefined after two lines, got %v", b.Value(t0))
	}
}

func TestDeadlineExpiry(t *testing.T) {
	env := NewEnvironment(nil)
	b := env.Declare("x", &Lifetime{
		Value: NumberValue{Val: 7}, LinesLeft: -1, Deadline: t0.Add(5 * time.Second),
	}, t0)

	if got := ToNumber(b.Value(t0.Add(4 * time.Second))); got != 7 {
		t.Fatalf("x should be alive before the deadline, got %v", got)
	}
	if _, ok := b.Value(t0.Add(5 * time.Second)).(UndefinedValue); !ok {
		t.Fatal("x should be undefined at the deadline")
	}
}

func TestExpiryFallsBackToWeakerLifetime(t *testing.T) {
	env := NewEnvironment(nil)
	b := env.Declare("x", &Lifetime{Value: NumberValue{Val: 1}, Confidence: 1, LinesLeft: -1}, t0)
	env.Declare("x", &Lifetime{Value: NumberValue{Val: 2}, Confidence: 2, LinesLeft: 1}, t0)

	if got := ToNumber(b.Value(t0)); got != 2 {
		t.Fatalf("x = %v, want the stronger 2", got)
	}
	b.TickLine()
	if got := ToNumber(b.Value(t0)); got != 1 {
		t.Fatalf("after expiry x = %v, want the fallback 1", got)
	}
}

func TestHistoryAndPrevious(t *testing.T) {
	env := NewEnvironment(nil)
	b := declare(env, "x", NumberValue{Val: 1}, 1)
	b.SetValue(NumberValue{Val: 2}, t0)
	b.SetValue(NumberValue{Val: 3}, t0)

	if got := ToNumber(b.Previous()); got != 2 {
		t.Fatalf("previous = %v, want 2", got)
	}
	if got := ToNumber(b.Value(t0)); got != 3 {
		t.Fatalf("current = %v, want 3", got)
	}
}

func TestNextPromiseResolvesOnAssignment(t *testing.T) {
	env := NewEnvironment(nil)
	b := declare(env, "x", NumberValue{Val: 1}, 1)
	p := b.NextPromise()
	if p.Resolved() {
		t.Fatal("promise resolved before any assignment")
	}
	b.SetValue(NumberValue{Val: 5}, t0)
	if !p.Resolved() || ToNumber(p.Value()) != 5 {
		t.Fatalf("promise = %v, want 5", p.Value())
	}
}

func TestDeleteRemovesBinding(t *testing.T) {
	global := NewEnvironment(nil)
	declare(global, "x", NumberValue{Val: 1}, 1)
	child := global.Extend()

	if !child.Delete("x") {
		t.Fatal("delete should find x in the parent")
	}
	if _, ok := child.Lookup("x"); ok {
		t.Fatal("x should be gone")
	}
}

func TestAdoptSharesBinding(t *testing.T) {
	a := NewEnvironment(nil)
	b := NewEnvironment(nil)
	binding := declare(a, "score", NumberValue{Val: 1}, 1)
	b.Adopt(binding)

	binding.SetValue(NumberValue{Val: 2}, t0)
	got, _ := b.Lookup("score")
	if ToNumber(got.Value(t0)) != 2 {
		t.Fatal("adopted binding should alias the original")
	}
}
