package interpreter

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"gulfofmexico/interpreter-go/pkg/ast"
	"gulfofmexico/interpreter-go/pkg/diag"
	"gulfofmexico/interpreter-go/pkg/parser"
	"gulfofmexico/interpreter-go/pkg/storage"
)

func mustParse(t *testing.T, src string) []ast.Statement {
	t.Helper()
	stmts, err := parser.Parse("test.gom", src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return stmts
}

func runSource(t *testing.T, src string, opts ...Option) string {
	t.Helper()
	var buf bytes.Buffer
	opts = append([]Option{WithOutput(&buf)}, opts...)
	interp := New(opts...)
	if err := interp.Execute(mustParse(t, src)); err != nil {
		t.Fatalf("execute: %v", err)
	}
	return buf.String()
}

func runExpectError(t *testing.T, src, kind string) *diag.Error {
	t.Helper()
	interp := New(WithOutput(&bytes.Buffer{}))
	err := interp.Execute(mustParse(t, src))
	if err == nil {
		t.Fatalf("expected a %s error, got none", kind)
	}
	var dErr *diag.Error
	if !errors.As(err, &dErr) {
		t.Fatalf("expected a diagnostic, got %T: %v", err, err)
	}
	if dErr.Kind != kind {
		t.Fatalf("error kind = %s, want %s (%v)", dErr.Kind, kind, dErr)
	}
	return dErr
}

func TestPrint(t *testing.T) {
	if got := runSource(t, `print("hello")!`); got != "hello\n" {
		t.Fatalf("output = %q", got)
	}
}

func TestArraysStartAtNegativeOne(t *testing.T) {
	src := `var var xs = [9, 8, 7]!
print(xs[-1])!
print(xs[0])!
print(xs[1])!
print(xs[2])!`
	if got := runSource(t, src); got != "9\n8\n7\nundefined\n" {
		t.Fatalf("output = %q", got)
	}
}

func TestFractionalIndexInserts(t *testing.T) {
	src := `var var xs = [1, 3]!
xs[-0.5] = 2!
print(xs)!`
	if got := runSource(t, src); got != "[1, 2, 3]\n" {
		t.Fatalf("output = %q", got)
	}
}

func TestFractionalInsertAtTail(t *testing.T) {
	src := `var var xs = [1, 2]!
xs[0.5] = 3!
print(xs)!`
	if got := runSource(t, src); got != "[1, 2, 3]\n" {
		t.Fatalf("output = %q", got)
	}
}

func TestDivisionByZeroIsUndefined(t *testing.T) {
	if got := runSource(t, `print(10 / 0)!`); got != "undefined\n" {
		t.Fatalf("output = %q", got)
	}
}

func TestConfidenceResolution(t *testing.T) {
	src := `const const x = 1!
const const x = 2!!
print(x)!`
	if got := runSource(t, src); got != "2\n" {
		t.Fatalf("stronger declaration should win, output = %q", got)
	}

	src = `const const y = 1!!
const const y = 5!
print(y)!`
	if got := runSource(t, src); got != "1\n" {
		t.Fatalf("weaker declaration should lose, output = %q", got)
	}
}

func TestConstConstCannotBeReassigned(t *testing.T) {
	runExpectError(t, "const const x = 1!\nx = 2!", diag.KindImmutableAssign)
}

func TestConstConstContentsAreImmutable(t *testing.T) {
	runExpectError(t, "const const xs = [1]!\nxs[-1] = 2!", diag.KindImmutableContent)
}

func TestVarConstReassignableNotEditable(t *testing.T) {
	src := `var const xs = [1]!
xs = [2]!
print(xs)!`
	if got := runSource(t, src); got != "[2]\n" {
		t.Fatalf("output = %q", got)
	}
	runExpectError(t, "var const xs = [1]!\nxs[-1] = 2!", diag.KindImmutableContent)
}

func TestConstVarEditableNotReassignable(t *testing.T) {
	src := `const var xs = [1]!
xs[-1] = 2!
print(xs)!`
	if got := runSource(t, src); got != "[2]\n" {
		t.Fatalf("output = %q", got)
	}
	runExpectError(t, "const var xs = [1]!\nxs = [2]!", diag.KindImmutableAssign)
}

func TestIncrementSugar(t *testing.T) {
	src := `var var score = 1!
score++!
score++!
score--!
print(score)!`
	if got := runSource(t, src); got != "2\n" {
		t.Fatalf("output = %q", got)
	}
}

func TestFunctions(t *testing.T) {
	src := `function add(a, b) => a + b!
fn double(x) {
   return x * 2!
}
print(add(2, 3))!
print(double(7))!`
	if got := runSource(t, src); got != "5\n14\n" {
		t.Fatalf("output = %q", got)
	}
}

func TestMaybeIsNotTruthy(t *testing.T) {
	src := `if maybe {
   print("no")!
}
print("done")!`
	if got := runSource(t, src); got != "done\n" {
		t.Fatalf("output = %q", got)
	}
}

func TestThreeValuedLogic(t *testing.T) {
	src := `print(maybe & true)!
print(maybe | true)!
print(maybe & false)!
print(;maybe)!`
	if got := runSource(t, src); got != "maybe\ntrue\nfalse\nmaybe\n" {
		t.Fatalf("output = %q", got)
	}
}

func TestEqualityTiersAtRuntime(t *testing.T) {
	src := `print(3 == "3")!
print(3 === "3")!
print(true = 1)!
print(3 ;= "3")!`
	if got := runSource(t, src); got != "true\nfalse\ntrue\nfalse\n" {
		t.Fatalf("output = %q", got)
	}
}

func TestIdentityEqualityOnLists(t *testing.T) {
	src := `var var a = [1]!
var var b = [1]!
print(a === b)!
print(a ==== b)!
print(a ==== a)!`
	if got := runSource(t, src); got != "true\nfalse\ntrue\n" {
		t.Fatalf("output = %q", got)
	}
}

func TestWatcherFiresPerMutation(t *testing.T) {
	src := `var var x = 0!
when x > 2 {
   print("big")!
}
x = 1!
x = 3!
x = 4!`
	if got := runSource(t, src); got != "big\nbig\n" {
		t.Fatalf("watcher should fire exactly twice, output = %q", got)
	}
}

func TestWatcherSeesContentEdits(t *testing.T) {
	src := `var var xs = [1]!
when xs.length > 1 {
   print("grew")!
}
push(xs, 2)!`
	if got := runSource(t, src); got != "grew\n" {
		t.Fatalf("output = %q", got)
	}
}

func TestWatcherBodyDoesNotRetrigger(t *testing.T) {
	src := `var var x = 0!
var var hits = 0!
when x > 0 {
   hits++!
   x = x + 1!
}
x = 1!
print(hits)!
print(x)!`
	if got := runSource(t, src); got != "1\n2\n" {
		t.Fatalf("output = %q", got)
	}
}

func TestWatcherRunsInMutationScope(t *testing.T) {
	src := `var var x = 5!
when x > 10 {
   print(y)!
}
function f(y) {
   x = 15!
}
f(99)!`
	if got := runSource(t, src); got != "99\n" {
		t.Fatalf("body should see the mutating call's locals, output = %q", got)
	}
}

func TestWatcherSeesMutationScopeInGuard(t *testing.T) {
	src := `var var x = 0!
when x > threshold {
   print("over")!
}
function bump(threshold) {
   x = 7!
}
bump(3)!`
	if got := runSource(t, src); got != "over\n" {
		t.Fatalf("guard should resolve names at mutation time, output = %q", got)
	}
}

func TestPreviousAndCurrent(t *testing.T) {
	src := `var var score = 1!
score = 2!
print(previous(score))!
print(current(score))!`
	if got := runSource(t, src); got != "1\n2\n" {
		t.Fatalf("output = %q", got)
	}
}

func TestNextResolvesOnAssignment(t *testing.T) {
	src := `var var x = 1!
async function bump() {
   x = 2!
}
const const p = next(x)!
bump()!
print(await p)!`
	if got := runSource(t, src); got != "2\n" {
		t.Fatalf("output = %q", got)
	}
}

func TestAsyncInterleaving(t *testing.T) {
	src := `async function f() {
   print(1)!
   print(3)!
}
f()!
print(2)!`
	if got := runSource(t, src); got != "1\n2\n3\n" {
		t.Fatalf("output = %q", got)
	}
}

func TestNoopSpendsATurn(t *testing.T) {
	src := `async function f() {
   noop!
   print(2)!
}
f()!
print(1)!
print(3)!`
	if got := runSource(t, src); got != "1\n2\n3\n" {
		t.Fatalf("output = %q", got)
	}
}

func TestAsyncAwaitsAsync(t *testing.T) {
	src := `async function slow() {
   noop!
   return 7!
}
async function outer() {
   const const v = await slow()!
   print(v)!
}
outer()!
print(0)!`
	if got := runSource(t, src); got != "0\n7\n" {
		t.Fatalf("output = %q", got)
	}
}

func TestAwaitStartsTheCallOnce(t *testing.T) {
	src := `var var calls = 0!
async function slow() {
   calls++!
   noop!
   return 1!
}
async function outer() {
   const const v = await slow()!
}
outer()!
noop!
noop!
print(calls)!`
	if got := runSource(t, src); got != "1\n" {
		t.Fatalf("awaited call ran %s times, want once", strings.TrimSpace(got))
	}
}

func TestAwaitNextInsideAsync(t *testing.T) {
	src := `var var x = 1!
async function waiter() {
   const const v = await next(x)!
   print(v)!
}
waiter()!
x = 5!
print("after")!`
	if got := runSource(t, src); got != "after\n5\n" {
		t.Fatalf("output = %q", got)
	}
}

func TestAwaitAsyncResult(t *testing.T) {
	src := `async function f() {
   return 42!
}
const const p = f()!
print(await p)!`
	if got := runSource(t, src); got != "42\n" {
		t.Fatalf("output = %q", got)
	}
}

func TestLineLifetimeExpires(t *testing.T) {
	src := `const const tmp<2> = 9!
print(tmp)!
print(tmp)!`
	if got := runSource(t, src); got != "9\nundefined\n" {
		t.Fatalf("output = %q", got)
	}
}

func TestSecondLifetimeExpires(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	var buf bytes.Buffer
	interp := New(WithOutput(&buf), WithClock(clock))
	if err := interp.Execute(mustParse(t, "const const s<2s> = 5!\nprint(s)!")); err != nil {
		t.Fatalf("execute: %v", err)
	}
	now = now.Add(3 * time.Second)
	if err := interp.Execute(mustParse(t, "print(s)!")); err != nil {
		t.Fatalf("execute after expiry: %v", err)
	}
	if got := buf.String(); got != "5\nundefined\n" {
		t.Fatalf("output = %q", got)
	}
}

func TestForeverRequiresFullImmutability(t *testing.T) {
	for _, src := range []string{
		"var var x<Infinity> = 1!",
		"var const x<Infinity> = 1!",
		"const var xs<Infinity> = [1]!",
	} {
		runExpectError(t, src, diag.KindRuntime)
	}
	src := `const const x<Infinity> = 1!
print(x)!`
	if got := runSource(t, src); got != "1\n" {
		t.Fatalf("output = %q", got)
	}
}

func TestForeverMutableDeclarationDoesNotPersist(t *testing.T) {
	store := storage.NewMemoryStore()
	interp := New(WithOutput(&bytes.Buffer{}), WithStore(store))
	err := interp.Execute(mustParse(t, "var var x<Infinity> = 1!"))
	if err == nil {
		t.Fatalf("expected a runtime error")
	}
	keys, keysErr := store.Keys()
	if keysErr != nil {
		t.Fatalf("keys: %v", keysErr)
	}
	if len(keys) != 0 {
		t.Fatalf("nothing should have been persisted, got %v", keys)
	}
}

func TestSingleInstanceClasses(t *testing.T) {
	src := `class Player {
   var var hp = 10!
}
const const a = new Player()!
print(a.hp)!`
	if got := runSource(t, src); got != "10\n" {
		t.Fatalf("output = %q", got)
	}

	src = `class Player {
   var var hp = 10!
}
const const a = new Player()!
const const b = new Player()!`
	runExpectError(t, src, diag.KindSingleInstance)
}

func TestDeleteRemovesName(t *testing.T) {
	runExpectError(t, "const const x = 1!\ndelete x!\nprint(x)!", diag.KindUndefinedReference)
}

func TestUndefinedReferenceSuggests(t *testing.T) {
	err := runExpectError(t, "const const score = 1!\nprint(scor)!", diag.KindUndefinedReference)
	if !strings.Contains(err.Message, `"score"`) {
		t.Fatalf("message should suggest score: %q", err.Message)
	}
}

func TestReverseRunsBackwards(t *testing.T) {
	src := `print(1)!
reverse!
print(0)!`
	if got := runSource(t, src); got != "1\n1\n" {
		t.Fatalf("output = %q", got)
	}
}

func TestStringInterpolation(t *testing.T) {
	src := `const const name = "world"!
print("hello ${name}, ${1 + 1}")!`
	if got := runSource(t, src); got != "hello world, 2\n" {
		t.Fatalf("output = %q", got)
	}
}

func TestNumberWords(t *testing.T) {
	if got := runSource(t, "print(nine + one)!"); got != "10\n" {
		t.Fatalf("output = %q", got)
	}
	// Redefining a number word is allowed and honored.
	src := `const const nine = 10!!
print(nine)!`
	if got := runSource(t, src); got != "10\n" {
		t.Fatalf("output = %q", got)
	}
}

func TestDebugTerminator(t *testing.T) {
	if got := runSource(t, "const const x = 5?"); got != "[debug] x = 5\n" {
		t.Fatalf("output = %q", got)
	}
}

func TestExitStopsExecution(t *testing.T) {
	var buf bytes.Buffer
	interp := New(WithOutput(&buf))
	if err := interp.Execute(mustParse(t, "print(1)!\nexit(3)!\nprint(2)!")); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if buf.String() != "1\n" {
		t.Fatalf("output = %q", buf.String())
	}
	if interp.ExitCode != 3 {
		t.Fatalf("exit code = %d, want 3", interp.ExitCode)
	}
}

func TestAfterHooksFireOnDispatch(t *testing.T) {
	var buf bytes.Buffer
	interp := New(WithOutput(&buf))
	src := `after keypress {
   print("key")!
}`
	if err := interp.Execute(mustParse(t, src)); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if err := interp.DispatchEvent("keypress"); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if err := interp.DispatchEvent("keypress"); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if buf.String() != "key\nkey\n" {
		t.Fatalf("output = %q", buf.String())
	}
}

func TestForeverDeclarationsPersist(t *testing.T) {
	store := storage.NewMemoryStore()

	first := New(WithOutput(&bytes.Buffer{}), WithStore(store))
	if err := first.Execute(mustParse(t, "const const const pi = 3.14!")); err != nil {
		t.Fatalf("first run: %v", err)
	}

	var buf bytes.Buffer
	second := New(WithOutput(&buf), WithStore(store))
	if err := second.LoadPersisted(); err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := second.Execute(mustParse(t, "print(pi)!")); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if buf.String() != "3.14\n" {
		t.Fatalf("output = %q", buf.String())
	}
}

func TestMapsThroughObjects(t *testing.T) {
	src := `class Player {
   var var hp = 10!
   const const name = "p1"!
}
const var p = new Player()!
p.hp = 7!
print(p.hp)!
print(p.name)!`
	if got := runSource(t, src); got != "7\np1\n" {
		t.Fatalf("output = %q", got)
	}
}

func TestStringIndexing(t *testing.T) {
	src := `const const word = "abc"!
print(word[-1])!
print(word[1])!
print(word[9])!`
	if got := runSource(t, src); got != "a\nc\nundefined\n" {
		t.Fatalf("output = %q", got)
	}
}

func TestStringSplicing(t *testing.T) {
	src := `var var name = "wrld"!
name[-0.5] = "o"!
name[-1] = "W"!
print(name)!`
	if got := runSource(t, src); got != "World\n" {
		t.Fatalf("output = %q", got)
	}
}

func TestMathBuiltins(t *testing.T) {
	src := `print(round(2.6))!
print(abs(-4))!
print(sqrt(9))!`
	if got := runSource(t, src); got != "3\n4\n3\n" {
		t.Fatalf("output = %q", got)
	}
}

func TestObjectConstMemberRejectsAssignment(t *testing.T) {
	src := `class Player {
   const const name = "p1"!
}
const var p = new Player()!
p.name = "other"!`
	runExpectError(t, src, diag.KindImmutableAssign)
}
