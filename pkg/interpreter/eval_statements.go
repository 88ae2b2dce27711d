package interpreter

import (
	"math"
	"time"

	"gulfofmexico/interpreter-go/pkg/ast"
	"gulfofmexico/interpreter-go/pkg/diag"
	"gulfofmexico/interpreter-go/pkg/runtime"
	"gulfofmexico/interpreter-go/pkg/serialize"
)

func (i *Interpreter) evaluateStatement(node ast.Statement, env *runtime.Environment) (runtime.Value, error) {
	switch stmt := node.(type) {
	case *ast.VariableDeclaration:
		return i.evalDeclaration(stmt, env)
	case *ast.VariableAssignment:
		return i.evalAssignment(stmt, env)
	case *ast.Conditional:
		cond, err := i.evaluateExpression(stmt.Condition, env)
		if err != nil {
			return nil, err
		}
		if runtime.Truthy(cond) {
			return i.runBlock(stmt.Body, env.Extend())
		}
		return runtime.UndefinedValue{}, nil
	case *ast.WhenStatement:
		i.registerWatcher(stmt, env)
		return runtime.UndefinedValue{}, nil
	case *ast.AfterStatement:
		i.afterHooks[stmt.Event] = append(i.afterHooks[stmt.Event], &afterHook{body: stmt.Body, env: env})
		return runtime.UndefinedValue{}, nil
	case *ast.FunctionDefinition:
		fn := &runtime.FunctionValue{Node: stmt, Closure: env}
		env.Declare(stmt.Name, &runtime.Lifetime{
			Value: fn, CanReassign: true, CanEditContent: true, LinesLeft: -1,
		}, i.Now())
		return runtime.UndefinedValue{}, nil
	case *ast.ClassDeclaration:
		cls := &runtime.ClassValue{Node: stmt, Closure: env}
		env.Declare(stmt.Name, &runtime.Lifetime{Value: cls, LinesLeft: -1}, i.Now())
		return runtime.UndefinedValue{}, nil
	case *ast.ReturnStatement:
		var value runtime.Value = runtime.UndefinedValue{}
		if stmt.Value != nil {
			v, err := i.evaluateExpression(stmt.Value, env)
			if err != nil {
				return nil, err
			}
			value = v
		}
		i.debugPrint(stmt.Debug, "return", value)
		return nil, returnSignal{value: value}
	case *ast.DeleteStatement:
		env.Delete(stmt.Target)
		return runtime.UndefinedValue{}, nil
	case *ast.ExportStatement:
		return i.evalExport(stmt, env)
	case *ast.ImportStatement:
		return i.evalImport(stmt, env)
	case *ast.ReverseStatement:
		return nil, reverseSignal{}
	case *ast.NoopStatement:
		return runtime.UndefinedValue{}, nil
	case *ast.ExpressionStatement:
		value, err := i.evaluateExpression(stmt.Expr, env)
		if err != nil {
			return nil, err
		}
		i.debugPrint(stmt.Debug, "expression", value)
		return value, nil
	default:
		return nil, diag.New(diag.KindRuntime, "cannot execute %s node", node.NodeType())
	}
}

func (i *Interpreter) evalDeclaration(stmt *ast.VariableDeclaration, env *runtime.Environment) (runtime.Value, error) {
	if stmt.Lifetime != nil && stmt.Lifetime.Forever && (stmt.CanReassign || stmt.CanEditContent) {
		return nil, diag.New(diag.KindRuntime,
			"only a const const declaration can live forever (line %d)", stmt.Pos())
	}
	value, err := i.evaluateExpression(stmt.Value, env)
	if err != nil {
		return nil, err
	}
	now := i.Now()
	l := &runtime.Lifetime{
		Value:          value,
		Confidence:     stmt.Confidence,
		CanReassign:    stmt.CanReassign,
		CanEditContent: stmt.CanEditContent,
		LinesLeft:      -1,
	}
	if spec := stmt.Lifetime; spec != nil {
		switch {
		case spec.Forever:
			l.Forever = true
		case spec.Seconds > 0:
			l.Deadline = now.Add(time.Duration(spec.Seconds * float64(time.Second)))
		case spec.Lines > 0:
			l.LinesLeft = spec.Lines
		}
	}
	b := env.Declare(stmt.Name, l, now)
	i.trackLifetime(b, l)
	if l.Forever {
		if err := i.persist(stmt.Name, stmt.Confidence, value); err != nil {
			return nil, err
		}
	}
	i.debugPrint(stmt.Debug, stmt.Name, value)
	if err := i.notifyBinding(b, env); err != nil {
		return nil, err
	}
	return runtime.UndefinedValue{}, nil
}

func (i *Interpreter) persist(name string, confidence int, value runtime.Value) error {
	if i.store == nil {
		return nil
	}
	data, err := serialize.Encode(value)
	if err != nil {
		return err
	}
	return i.store.Put(name, confidence, data)
}

func (i *Interpreter) evalAssignment(stmt *ast.VariableAssignment, env *runtime.Environment) (runtime.Value, error) {
	value, err := i.evaluateExpression(stmt.Value, env)
	if err != nil {
		return nil, err
	}
	switch target := stmt.Target.(type) {
	case *ast.Identifier:
		if err := i.assignName(target, value, stmt.Confidence, env); err != nil {
			return nil, err
		}
		i.debugPrint(stmt.Debug, target.Name, value)
	case *ast.IndexExpression:
		if err := i.assignIndex(target, value, env); err != nil {
			return nil, err
		}
		i.debugPrint(stmt.Debug, "element", value)
	case *ast.MemberExpression:
		if err := i.assignMember(target, value, env); err != nil {
			return nil, err
		}
		i.debugPrint(stmt.Debug, target.Member, value)
	default:
		return nil, diag.New(diag.KindRuntime, "cannot assign to %s (line %d)", stmt.Target.NodeType(), stmt.Pos())
	}
	return runtime.UndefinedValue{}, nil
}

func (i *Interpreter) assignName(target *ast.Identifier, value runtime.Value, confidence int, env *runtime.Environment) error {
	b, ok := env.Lookup(target.Name)
	if !ok {
		return i.undefinedReference(target.Name, target.Pos(), env)
	}
	now := i.Now()
	current := b.Strongest(now)
	if current == nil {
		// Every lifetime expired; the assignment revives the name.
		l := &runtime.Lifetime{
			Value: value, Confidence: confidence,
			CanReassign: true, CanEditContent: true, LinesLeft: -1,
		}
		b.AddLifetime(l, now)
		return i.notifyBinding(b, env)
	}
	if !current.CanReassign {
		return diag.New(diag.KindImmutableAssign,
			"%s was declared const and cannot be reassigned (line %d)", target.Name, target.Pos())
	}
	if confidence > current.Confidence {
		// A more confident assignment outranks the declaration instead of
		// mutating it.
		l := &runtime.Lifetime{
			Value: value, Confidence: confidence,
			CanReassign: current.CanReassign, CanEditContent: current.CanEditContent,
			LinesLeft: -1,
		}
		b.AddLifetime(l, now)
	} else {
		b.SetValue(value, now)
	}
	if current.Forever {
		if err := i.persist(target.Name, confidence, value); err != nil {
			return err
		}
	}
	return i.notifyBinding(b, env)
}

// rootBinding walks an index or member chain down to the identifier it
// hangs off, so content edits can consult the owning lifetime.
func rootBinding(expr ast.Expression, env *runtime.Environment) (*runtime.Binding, bool) {
	for {
		switch e := expr.(type) {
		case *ast.Identifier:
			b, ok := env.Lookup(e.Name)
			return b, ok
		case *ast.IndexExpression:
			expr = e.Target
		case *ast.MemberExpression:
			expr = e.Target
		default:
			return nil, false
		}
	}
}

func (i *Interpreter) checkContentEditable(expr ast.Expression, line int, env *runtime.Environment) error {
	b, ok := rootBinding(expr, env)
	if !ok {
		return nil
	}
	current := b.Strongest(i.Now())
	if current == nil {
		return nil
	}
	if !current.CanEditContent {
		return diag.New(diag.KindImmutableContent,
			"the contents of %s are immutable (line %d)", b.Name, line)
	}
	return nil
}

func (i *Interpreter) assignIndex(target *ast.IndexExpression, value runtime.Value, env *runtime.Environment) error {
	if err := i.checkContentEditable(target, target.Pos(), env); err != nil {
		return err
	}
	container, err := i.evaluateExpression(target.Target, env)
	if err != nil {
		return err
	}
	index, err := i.evaluateExpression(target.Index, env)
	if err != nil {
		return err
	}
	switch c := container.(type) {
	case *runtime.ListValue:
		if err := storeListIndex(c, runtime.ToNumber(index), value, target.Pos()); err != nil {
			return err
		}
		return i.notifyContainer(c.ID(), env)
	case *runtime.MapValue:
		c.Set(runtime.ToString(index), value)
		return i.notifyContainer(c.ID(), env)
	case runtime.StringValue:
		return i.spliceStringIndex(target, c, runtime.ToNumber(index), value, env)
	default:
		return diag.New(diag.KindTypeMismatch,
			"cannot index into a %s (line %d)", container.Kind(), target.Pos())
	}
}

// storeListIndex writes through a user index. Whole indices overwrite in
// place; a fractional index inserts a fresh element between its neighbors.
func storeListIndex(list *runtime.ListValue, user float64, value runtime.Value, line int) *diag.Error {
	if runtime.IsInt(user) {
		slot := int(user) + 1
		if slot == len(list.Elements) {
			list.Elements = append(list.Elements, value)
			return nil
		}
		if slot < 0 || slot > len(list.Elements) {
			return diag.New(diag.KindRuntime, "index %s is out of range (line %d)", runtime.FormatNumber(user), line)
		}
		list.Elements[slot] = value
		return nil
	}
	at := int(math.Floor(user)) + 2
	if at < 0 {
		at = 0
	}
	if at > len(list.Elements) {
		at = len(list.Elements)
	}
	list.Elements = append(list.Elements, nil)
	copy(list.Elements[at+1:], list.Elements[at:])
	list.Elements[at] = value
	return nil
}

// spliceStringIndex writes through a string index. Strings are values, so
// the edited copy is written back to the binding the string came from;
// anything more indirect than a plain name is rejected.
func (i *Interpreter) spliceStringIndex(target *ast.IndexExpression, s runtime.StringValue, user float64, value runtime.Value, env *runtime.Environment) error {
	ident, ok := target.Target.(*ast.Identifier)
	if !ok {
		return diag.New(diag.KindTypeMismatch,
			"can only assign into a named string (line %d)", target.Pos())
	}
	b, ok := env.Lookup(ident.Name)
	if !ok {
		return i.undefinedReference(ident.Name, ident.Pos(), env)
	}
	runes := []rune(s.Val)
	insert := []rune(runtime.ToString(value))
	if runtime.IsInt(user) {
		slot := int(user) + 1
		switch {
		case slot == len(runes):
			runes = append(runes, insert...)
		case slot >= 0 && slot < len(runes):
			runes = append(runes[:slot], append(insert, runes[slot+1:]...)...)
		default:
			return diag.New(diag.KindRuntime,
				"index %s is out of range (line %d)", runtime.FormatNumber(user), target.Pos())
		}
	} else {
		at := int(math.Floor(user)) + 2
		if at < 0 {
			at = 0
		}
		if at > len(runes) {
			at = len(runes)
		}
		rest := append([]rune(nil), runes[at:]...)
		runes = append(append(runes[:at], insert...), rest...)
	}
	b.SetValue(runtime.StringValue{Val: string(runes)}, i.Now())
	return i.notifyBinding(b, env)
}

func (i *Interpreter) assignMember(target *ast.MemberExpression, value runtime.Value, env *runtime.Environment) error {
	if err := i.checkContentEditable(target, target.Pos(), env); err != nil {
		return err
	}
	owner, err := i.evaluateExpression(target.Target, env)
	if err != nil {
		return err
	}
	switch o := owner.(type) {
	case *runtime.ObjectValue:
		b, ok := o.Members.LookupLocal(target.Member)
		if !ok {
			return diag.New(diag.KindUndefinedReference,
				"%s has no member %s (line %d)", o.ClassName, target.Member, target.Pos())
		}
		now := i.Now()
		current := b.Strongest(now)
		if current != nil && !current.CanReassign {
			return diag.New(diag.KindImmutableAssign,
				"member %s was declared const (line %d)", target.Member, target.Pos())
		}
		b.SetValue(value, now)
		if err := i.notifyContainer(o.ID(), env); err != nil {
			return err
		}
		return i.notifyBinding(b, env)
	case *runtime.MapValue:
		o.Set(target.Member, value)
		return i.notifyContainer(o.ID(), env)
	default:
		return diag.New(diag.KindTypeMismatch,
			"a %s has no members to assign (line %d)", owner.Kind(), target.Pos())
	}
}

func (i *Interpreter) evalExport(stmt *ast.ExportStatement, env *runtime.Environment) (runtime.Value, error) {
	for _, name := range stmt.Names {
		b, ok := env.Lookup(name)
		if !ok {
			return nil, i.undefinedReference(name, stmt.Pos(), env)
		}
		i.exports.Add(stmt.Target, name, b)
	}
	return runtime.UndefinedValue{}, nil
}

func (i *Interpreter) evalImport(stmt *ast.ImportStatement, env *runtime.Environment) (runtime.Value, error) {
	for _, name := range stmt.Names {
		b, ok := i.exports.Get(i.Section, name)
		if !ok {
			return nil, diag.New(diag.KindUndefinedReference,
				"nothing named %s was exported to %s (line %d)", name, i.sectionLabel(), stmt.Pos())
		}
		env.Adopt(b)
	}
	return runtime.UndefinedValue{}, nil
}

func (i *Interpreter) sectionLabel() string {
	if i.Section == "" {
		return "this section"
	}
	return i.Section
}

func (i *Interpreter) undefinedReference(name string, line int, env *runtime.Environment) *diag.Error {
	err := diag.New(diag.KindUndefinedReference, "%s is not defined (line %d)", name, line)
	return diag.WithSuggestion(err, name, env.Names())
}
