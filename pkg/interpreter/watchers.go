package interpreter

import (
	"gulfofmexico/interpreter-go/pkg/ast"
	"gulfofmexico/interpreter-go/pkg/runtime"
)

// watcher is a registered `when` block. Its dependencies are the bindings
// the guard's free names resolved to at registration, plus the container
// identities those bindings held, so both rebinding and content edits wake
// it.
type watcher struct {
	node       *ast.WhenStatement
	bindings   map[*runtime.Binding]struct{}
	containers map[uint64]struct{}
	firing     bool
}

func (i *Interpreter) registerWatcher(stmt *ast.WhenStatement, env *runtime.Environment) {
	w := &watcher{
		node:       stmt,
		bindings:   make(map[*runtime.Binding]struct{}),
		containers: make(map[uint64]struct{}),
	}
	now := i.Now()
	for _, name := range ast.FreeNames(stmt.Condition) {
		b, ok := env.Lookup(name)
		if !ok {
			continue
		}
		w.bindings[b] = struct{}{}
		if id, ok := containerID(b.Value(now)); ok {
			w.containers[id] = struct{}{}
		}
	}
	i.watchers = append(i.watchers, w)
}

func containerID(v runtime.Value) (uint64, bool) {
	switch c := v.(type) {
	case *runtime.ListValue:
		return c.ID(), true
	case *runtime.MapValue:
		return c.ID(), true
	case *runtime.ObjectValue:
		return c.ID(), true
	default:
		return 0, false
	}
}

// notifyBinding wakes every watcher depending on b, in the scope active at
// the mutation. A rebinding may swap the container behind a name, so the
// watcher's container set is refreshed before the guard runs.
func (i *Interpreter) notifyBinding(b *runtime.Binding, env *runtime.Environment) error {
	now := i.Now()
	for _, w := range i.watchers {
		if _, ok := w.bindings[b]; !ok {
			continue
		}
		if id, ok := containerID(b.Value(now)); ok {
			w.containers[id] = struct{}{}
		}
		if err := i.fireWatcher(w, env); err != nil {
			return err
		}
	}
	return nil
}

// notifyContainer wakes watchers whose guard saw the container itself.
func (i *Interpreter) notifyContainer(id uint64, env *runtime.Environment) error {
	for _, w := range i.watchers {
		if _, ok := w.containers[id]; !ok {
			continue
		}
		if err := i.fireWatcher(w, env); err != nil {
			return err
		}
	}
	return nil
}

// fireWatcher re-evaluates the guard and, when it holds, runs the body.
// Guard and body see the mutation-time scope, not the scope the when block
// was registered in. The firing flag keeps a body's own mutations from
// re-entering the same watcher; a maybe guard does not fire.
func (i *Interpreter) fireWatcher(w *watcher, env *runtime.Environment) error {
	if w.firing {
		return nil
	}
	cond, err := i.evaluateExpression(w.node.Condition, env)
	if err != nil {
		return err
	}
	if !runtime.Truthy(cond) {
		return nil
	}
	w.firing = true
	defer func() { w.firing = false }()
	_, err = i.runBlock(w.node.Body, env.Extend())
	return err
}
