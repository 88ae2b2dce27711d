package interpreter

import (
	"gulfofmexico/interpreter-go/pkg/ast"
	"gulfofmexico/interpreter-go/pkg/runtime"
)

// cursor is one async function's paused execution. Cursors interleave with
// the top level one statement per turn, in the order they were started.
type cursor struct {
	stmts    []ast.Statement
	idx, dir int
	env      *runtime.Environment
	done     *runtime.PromiseValue
	awaiting *runtime.PromiseValue
	finished bool
	created  int // turn the cursor was born in; it first steps a turn later

	// resumed holds the results of awaits already completed inside the
	// current statement. A statement parked on a promise re-runs from the
	// top when the promise resolves; its awaits replay these results in
	// order instead of being evaluated again, so an awaited call is never
	// started twice.
	resumed []runtime.Value
	replay  int
}

func (c *cursor) remember(v runtime.Value) {
	c.resumed = append(c.resumed, v)
	c.replay = len(c.resumed)
}

func (c *cursor) finish(value runtime.Value) {
	if c.finished {
		return
	}
	c.finished = true
	c.done.Resolve(value)
}

// startAsync begins an async call: the first statement runs immediately,
// the rest are scheduled. The returned promise resolves with the function's
// return value.
func (i *Interpreter) startAsync(fn *runtime.FunctionValue, args []runtime.Value) (runtime.Value, error) {
	c := &cursor{
		stmts:   fn.Node.Body,
		dir:     1,
		env:     i.bindParams(fn, args),
		done:    runtime.NewPromise(),
		created: i.turn,
	}
	i.cursors = append(i.cursors, c)
	if _, err := i.step(c); err != nil {
		return nil, err
	}
	return c.done, nil
}

// step advances a cursor by one statement. It reports whether the cursor
// made progress; a cursor parked on an unresolved promise does not.
func (i *Interpreter) step(c *cursor) (bool, error) {
	if c.finished || i.halted {
		return false, nil
	}
	if c.awaiting != nil {
		if !c.awaiting.Resolved() {
			return false, nil
		}
		c.remember(c.awaiting.Value())
		c.awaiting = nil
	}
	if c.idx < 0 || c.idx >= len(c.stmts) {
		c.finish(runtime.UndefinedValue{})
		return true, nil
	}
	c.replay = 0
	prev := i.active
	i.active = c
	_, err := i.evaluateStatement(c.stmts[c.idx], c.env)
	i.active = prev
	if err != nil {
		switch sig := err.(type) {
		case awaitSignal:
			c.awaiting = sig.promise
			return false, nil
		case returnSignal:
			c.finish(sig.value)
			return true, nil
		case reverseSignal:
			c.dir = -c.dir
		case exitSignal:
			i.ExitCode = sig.code
			i.halted = true
			c.finish(runtime.UndefinedValue{})
			return true, nil
		default:
			c.finish(runtime.UndefinedValue{})
			return false, err
		}
	}
	c.resumed = c.resumed[:0]
	c.idx += c.dir
	if c.idx < 0 || c.idx >= len(c.stmts) {
		c.finish(runtime.UndefinedValue{})
	}
	return true, nil
}

// cursorAwait evaluates an await inside an async cursor. Results already
// recorded for the current statement replay without touching the operand;
// an unresolved promise parks the cursor via the await signal.
func (i *Interpreter) cursorAwait(c *cursor, expr *ast.AwaitExpression, env *runtime.Environment) (runtime.Value, error) {
	if c.replay < len(c.resumed) {
		v := c.resumed[c.replay]
		c.replay++
		return v, nil
	}
	operand, err := i.evaluateExpression(expr.Operand, env)
	if err != nil {
		return nil, err
	}
	promise, ok := operand.(*runtime.PromiseValue)
	if !ok {
		c.remember(operand)
		return operand, nil
	}
	if promise.Resolved() {
		c.remember(promise.Value())
		return promise.Value(), nil
	}
	return nil, awaitSignal{promise: promise}
}

// stepCursors gives every live cursor one turn. Cursors born during the
// current top-level statement already ran their first statement at the
// call and sit this turn out.
func (i *Interpreter) stepCursors() error {
	live := i.cursors
	for _, c := range live {
		if c.created == i.turn {
			continue
		}
		if _, err := i.step(c); err != nil {
			return err
		}
		if i.halted {
			return nil
		}
	}
	i.compactCursors()
	return nil
}

// stepAll advances every cursor regardless of age. The synchronous await
// path and the final drain use it.
func (i *Interpreter) stepAll() (bool, error) {
	progressed := false
	for _, c := range i.cursors {
		moved, err := i.step(c)
		if err != nil {
			return false, err
		}
		if i.halted {
			return false, nil
		}
		if moved {
			progressed = true
		}
	}
	i.compactCursors()
	return progressed, nil
}

// drainCursors runs remaining cursors round-robin after the last top-level
// statement. Cursors deadlocked on promises nobody will resolve are
// abandoned once a full round makes no progress.
func (i *Interpreter) drainCursors() error {
	for len(i.cursors) > 0 && !i.halted {
		progressed, err := i.stepAll()
		if err != nil {
			return err
		}
		if !progressed {
			break
		}
	}
	return nil
}

func (i *Interpreter) compactCursors() {
	kept := i.cursors[:0]
	for _, c := range i.cursors {
		if !c.finished {
			kept = append(kept, c)
		}
	}
	i.cursors = kept
}
