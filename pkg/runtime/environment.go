package runtime

import (
	"sort"
	"time"
)

// maxHistory bounds the per-binding temporal history.
const maxHistory = 64

// Lifetime is one declaration's claim on a name: its value, confidence,
// mutability class and expiry bound. A binding may stack several, ordered
// strongest first.
type Lifetime struct {
	Value          Value
	Confidence     int
	CanReassign    bool
	CanEditContent bool

	LinesLeft int       // remaining top-level statements; -1 is unbounded
	Deadline  time.Time // zero means no wall-clock bound
	Forever   bool      // persisted across runs
}

// Expired reports whether the lifetime has run out at the given time.
func (l *Lifetime) Expired(now time.Time) bool {
	if l.LinesLeft == 0 {
		return true
	}
	if !l.Deadline.IsZero() && !now.Before(l.Deadline) {
		return true
	}
	return false
}

// Binding is a name's slot in one scope.
type Binding struct {
	Name      string
	Lifetimes []*Lifetime
	History   []Value // prior values, oldest first
	pending   []*PromiseValue
}

// Strongest returns the highest-confidence living lifetime, or nil when
// every lifetime has expired (the binding then reads as Undefined).
func (b *Binding) Strongest(now time.Time) *Lifetime {
	for _, l := range b.Lifetimes {
		if !l.Expired(now) {
			return l
		}
	}
	return nil
}

// Value reads the current value; expired bindings yield Undefined.
func (b *Binding) Value(now time.Time) Value {
	if l := b.Strongest(now); l != nil {
		return l.Value
	}
	return UndefinedValue{}
}

// AddLifetime inserts a lifetime keeping confidence order: an equal or
// higher confidence than the current front replaces what a read sees, and
// the displaced value is pushed onto history. Ties keep the most recent
// declaration first.
func (b *Binding) AddLifetime(l *Lifetime, now time.Time) {
	front := b.Strongest(now)
	idx := sort.Search(len(b.Lifetimes), func(i int) bool {
		return b.Lifetimes[i].Confidence <= l.Confidence
	})
	if idx == 0 && front != nil {
		b.pushHistory(front.Value)
	}
	b.Lifetimes = append(b.Lifetimes, nil)
	copy(b.Lifetimes[idx+1:], b.Lifetimes[idx:])
	b.Lifetimes[idx] = l
	if idx == 0 {
		b.resolveNext(l.Value)
	}
}

// SetValue mutates the current lifetime's value, recording history and
// resolving any pending next-promises. Mutability is checked by the caller.
func (b *Binding) SetValue(value Value, now time.Time) {
	l := b.Strongest(now)
	if l == nil {
		return
	}
	b.pushHistory(l.Value)
	l.Value = value
	b.resolveNext(value)
}

func (b *Binding) pushHistory(v Value) {
	b.History = append(b.History, v)
	if len(b.History) > maxHistory {
		b.History = b.History[len(b.History)-maxHistory:]
	}
}

// Previous returns the value the binding held before its latest mutation.
func (b *Binding) Previous() Value {
	if len(b.History) == 0 {
		return UndefinedValue{}
	}
	return b.History[len(b.History)-1]
}

// NextPromise returns a one-shot future resolved by the next successful
// assignment to this binding.
func (b *Binding) NextPromise() *PromiseValue {
	p := NewPromise()
	b.pending = append(b.pending, p)
	return p
}

func (b *Binding) resolveNext(value Value) {
	for _, p := range b.pending {
		p.Resolve(value)
	}
	b.pending = nil
}

// RemoveExpired drops expired lifetimes without touching history, so
// temporal lookups keep working after expiry.
func (b *Binding) RemoveExpired(now time.Time) {
	kept := b.Lifetimes[:0]
	for _, l := range b.Lifetimes {
		if !l.Expired(now) {
			kept = append(kept, l)
		}
	}
	b.Lifetimes = kept
}

// TickLine decrements every line-bounded lifetime by one statement.
func (b *Binding) TickLine() {
	for _, l := range b.Lifetimes {
		if l.LinesLeft > 0 {
			l.LinesLeft--
		}
	}
}

// Environment provides lexical scoping: an ordered chain of scopes searched
// innermost first.
type Environment struct {
	bindings map[string]*Binding
	parent   *Environment
}

// NewEnvironment creates a new environment, optionally nested under a parent.
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{
		bindings: make(map[string]*Binding),
		parent:   parent,
	}
}

// Parent exposes the lexical parent (nil when global).
func (e *Environment) Parent() *Environment { return e.parent }

// Extend opens a child scope.
func (e *Environment) Extend() *Environment { return NewEnvironment(e) }

// Declare inserts a lifetime for name in the current scope, creating the
// binding when absent. Confidence resolution is scope-local by construction.
func (e *Environment) Declare(name string, l *Lifetime, now time.Time) *Binding {
	b, ok := e.bindings[name]
	if !ok {
		b = &Binding{Name: name}
		e.bindings[name] = b
	}
	b.AddLifetime(l, now)
	return b
}

// Adopt inserts an existing binding into this scope. The binding is shared,
// not copied, so imports alias their exporting section.
func (e *Environment) Adopt(b *Binding) {
	e.bindings[b.Name] = b
}

// Lookup finds the nearest binding for name, walking outward.
func (e *Environment) Lookup(name string) (*Binding, bool) {
	if b, ok := e.bindings[name]; ok {
		return b, true
	}
	if e.parent != nil {
		return e.parent.Lookup(name)
	}
	return nil, false
}

// LookupLocal finds a binding in the current scope only.
func (e *Environment) LookupLocal(name string) (*Binding, bool) {
	b, ok := e.bindings[name]
	return b, ok
}

// Delete removes the nearest binding for name, reporting success.
func (e *Environment) Delete(name string) bool {
	if _, ok := e.bindings[name]; ok {
		delete(e.bindings, name)
		return true
	}
	if e.parent != nil {
		return e.parent.Delete(name)
	}
	return false
}

// Names returns every visible name, innermost shadowing included once,
// sorted for determinism.
func (e *Environment) Names() []string {
	seen := make(map[string]bool)
	var names []string
	for env := e; env != nil; env = env.parent {
		for name := range env.bindings {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}

// Each visits every binding in this scope only.
func (e *Environment) Each(fn func(*Binding)) {
	for _, b := range e.bindings {
		fn(b)
	}
}

// EachVisible visits every binding reachable through the chain, inner
// scopes first.
func (e *Environment) EachVisible(fn func(*Binding)) {
	for env := e; env != nil; env = env.parent {
		for _, b := range env.bindings {
			fn(b)
		}
	}
}
