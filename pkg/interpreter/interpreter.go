// Package interpreter walks the syntax tree and executes it: statement
// confidence, the four mutability classes, reactive blocks, bounded
// lifetimes and cooperative async all live here.
package interpreter

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"gulfofmexico/interpreter-go/pkg/ast"
	"gulfofmexico/interpreter-go/pkg/diag"
	"gulfofmexico/interpreter-go/pkg/runtime"
	"gulfofmexico/interpreter-go/pkg/serialize"
	"gulfofmexico/interpreter-go/pkg/storage"
)

// Interpreter executes one source section. Sections of the same file share
// an export table; everything else is per-interpreter state.
type Interpreter struct {
	Global  *runtime.Environment
	Out     io.Writer
	Section string

	// Now is the clock used for second-bounded lifetimes. Tests pin it.
	Now func() time.Time

	store   storage.Store
	exports *ExportTable
	rng     *rand.Rand

	watchers   []*watcher
	cursors    []*cursor
	afterHooks map[string][]*afterHook
	lineBound  map[*runtime.Binding]struct{}

	turn     int
	active   *cursor // cursor currently being stepped, nil at the top level
	halted   bool
	ExitCode int
}

// Option configures an Interpreter at construction.
type Option func(*Interpreter)

// WithOutput redirects print and debug output.
func WithOutput(w io.Writer) Option {
	return func(i *Interpreter) { i.Out = w }
}

// WithStore enables persistence for globally immutable declarations.
func WithStore(s storage.Store) Option {
	return func(i *Interpreter) { i.store = s }
}

// WithSection names the section this interpreter runs and joins it to a
// shared export table.
func WithSection(name string, table *ExportTable) Option {
	return func(i *Interpreter) {
		i.Section = name
		i.exports = table
	}
}

// WithClock pins the wall clock.
func WithClock(now func() time.Time) Option {
	return func(i *Interpreter) { i.Now = now }
}

// WithRandom pins the source used to settle maybe values.
func WithRandom(rng *rand.Rand) Option {
	return func(i *Interpreter) { i.rng = rng }
}

func New(opts ...Option) *Interpreter {
	i := &Interpreter{
		Global:     runtime.NewEnvironment(nil),
		Out:        os.Stdout,
		Now:        time.Now,
		afterHooks: make(map[string][]*afterHook),
		lineBound:  make(map[*runtime.Binding]struct{}),
	}
	for _, opt := range opts {
		opt(i)
	}
	if i.exports == nil {
		i.exports = NewExportTable()
	}
	if i.rng == nil {
		i.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	i.installBuiltins()
	return i
}

// LoadPersisted declares every stored binding into the global scope as a
// fully immutable, infinite-lifetime name.
func (i *Interpreter) LoadPersisted() error {
	if i.store == nil {
		return nil
	}
	keys, err := i.store.Keys()
	if err != nil {
		return err
	}
	for _, key := range keys {
		entry, ok, getErr := i.store.Get(key)
		if getErr != nil {
			return getErr
		}
		if !ok {
			continue
		}
		value, decErr := serialize.Decode(entry.Data)
		if decErr != nil {
			return decErr
		}
		i.Global.Declare(key, &runtime.Lifetime{
			Value:      value,
			Confidence: entry.Confidence,
			LinesLeft:  -1,
			Forever:    true,
		}, i.Now())
	}
	return nil
}

// Execute runs a statement sequence as the program's top level. Between
// top-level statements line lifetimes tick and async cursors take a turn;
// after the last statement remaining cursors drain.
func (i *Interpreter) Execute(statements []ast.Statement) error {
	idx, dir := 0, 1
	for idx >= 0 && idx < len(statements) && !i.halted {
		i.turn++
		_, err := i.evaluateStatement(statements[idx], i.Global)
		if err != nil {
			switch sig := err.(type) {
			case reverseSignal:
				dir = -dir
			case exitSignal:
				i.ExitCode = sig.code
				i.halted = true
			case returnSignal:
				return diag.New(diag.KindRuntime, "return outside a function (line %d)", statements[idx].Pos())
			default:
				return err
			}
		}
		i.tickLines()
		if err := i.stepCursors(); err != nil {
			return err
		}
		idx += dir
	}
	if i.halted {
		return nil
	}
	return i.drainCursors()
}

// tickLines advances every line-bounded lifetime by one top-level
// statement.
func (i *Interpreter) tickLines() {
	now := i.Now()
	for b := range i.lineBound {
		b.TickLine()
		b.RemoveExpired(now)
		if len(b.Lifetimes) == 0 {
			delete(i.lineBound, b)
		}
	}
}

func (i *Interpreter) trackLifetime(b *runtime.Binding, l *runtime.Lifetime) {
	if l.LinesLeft > 0 {
		i.lineBound[b] = struct{}{}
	}
}

// runBlock executes a nested body, honoring direction reversal within it.
func (i *Interpreter) runBlock(body []ast.Statement, env *runtime.Environment) (runtime.Value, error) {
	idx, dir := 0, 1
	var last runtime.Value = runtime.UndefinedValue{}
	for idx >= 0 && idx < len(body) {
		value, err := i.evaluateStatement(body[idx], env)
		if err != nil {
			if _, ok := err.(reverseSignal); ok {
				dir = -dir
				idx += dir
				continue
			}
			return nil, err
		}
		if value != nil {
			last = value
		}
		idx += dir
	}
	return last, nil
}

// RegisterHostEvent attaches a statement body to a host event name, as if
// an after block had declared it at the top level.
func (i *Interpreter) RegisterHostEvent(name string, body []ast.Statement) {
	i.afterHooks[name] = append(i.afterHooks[name], &afterHook{body: body, env: i.Global})
}

// DispatchEvent fires every handler registered for a host event, in
// registration order.
func (i *Interpreter) DispatchEvent(name string) error {
	for _, hook := range i.afterHooks[name] {
		if _, err := i.runBlock(hook.body, hook.env.Extend()); err != nil {
			if _, ok := err.(exitSignal); ok {
				i.halted = true
				return nil
			}
			return err
		}
	}
	return nil
}

type afterHook struct {
	body []ast.Statement
	env  *runtime.Environment
}

// debugPrint renders the `?` terminator output.
func (i *Interpreter) debugPrint(level int, label string, value runtime.Value) {
	if level <= 0 {
		return
	}
	if level == 1 {
		fmt.Fprintf(i.Out, "[debug] %s = %s\n", label, runtime.ToString(value))
		return
	}
	fmt.Fprintf(i.Out, "[debug] %s = %s (%s)\n", label, runtime.ToString(value), value.Kind())
}

//-----------------------------------------------------------------------------
// Control-flow signals
//-----------------------------------------------------------------------------

// Signals travel as errors so evaluation unwinds through ordinary error
// returns; only the relevant frame intercepts them.

type returnSignal struct {
	value runtime.Value
}

func (returnSignal) Error() string { return "return" }

type reverseSignal struct{}

func (reverseSignal) Error() string { return "reverse" }

type exitSignal struct {
	code int
}

func (exitSignal) Error() string { return "exit" }

// awaitSignal suspends an async cursor on an unresolved promise.
type awaitSignal struct {
	promise *runtime.PromiseValue
}

func (awaitSignal) Error() string { return "await" }
