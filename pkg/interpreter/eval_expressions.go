package interpreter

import (
	"math"
	"strings"

	"gulfofmexico/interpreter-go/pkg/ast"
	"gulfofmexico/interpreter-go/pkg/diag"
	"gulfofmexico/interpreter-go/pkg/runtime"
)

func (i *Interpreter) evaluateExpression(node ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	switch expr := node.(type) {
	case *ast.NumberLiteral:
		return runtime.NumberValue{Val: expr.Value}, nil
	case *ast.StringLiteral:
		return runtime.StringValue{Val: expr.Value}, nil
	case *ast.BooleanLiteral:
		switch expr.Value {
		case ast.BoolTrue:
			return runtime.BoolValue{Val: runtime.True}, nil
		case ast.BoolFalse:
			return runtime.BoolValue{Val: runtime.False}, nil
		default:
			return runtime.BoolValue{Val: runtime.Maybe}, nil
		}
	case *ast.UndefinedLiteral:
		return runtime.UndefinedValue{}, nil
	case *ast.Identifier:
		b, ok := env.Lookup(expr.Name)
		if !ok {
			return nil, i.undefinedReference(expr.Name, expr.Pos(), env)
		}
		return b.Value(i.Now()), nil
	case *ast.ListLiteral:
		elements := make([]runtime.Value, 0, len(expr.Elements))
		for _, el := range expr.Elements {
			v, err := i.evaluateExpression(el, env)
			if err != nil {
				return nil, err
			}
			elements = append(elements, v)
		}
		return runtime.NewList(elements), nil
	case *ast.InterpolatedString:
		var b strings.Builder
		for _, part := range expr.Parts {
			v, err := i.evaluateExpression(part, env)
			if err != nil {
				return nil, err
			}
			b.WriteString(runtime.ToString(v))
		}
		return runtime.StringValue{Val: b.String()}, nil
	case *ast.UnaryExpression:
		return i.evalUnary(expr, env)
	case *ast.BinaryExpression:
		return i.evalBinary(expr, env)
	case *ast.CallExpression:
		return i.evalCall(expr, env)
	case *ast.NewExpression:
		return i.evalNew(expr, env)
	case *ast.IndexExpression:
		return i.evalIndex(expr, env)
	case *ast.MemberExpression:
		return i.evalMember(expr, env)
	case *ast.AwaitExpression:
		return i.evalAwait(expr, env)
	case *ast.TemporalExpression:
		return i.evalTemporal(expr, env)
	default:
		return nil, diag.New(diag.KindRuntime, "cannot evaluate %s node", node.NodeType())
	}
}

func (i *Interpreter) evalUnary(expr *ast.UnaryExpression, env *runtime.Environment) (runtime.Value, error) {
	operand, err := i.evaluateExpression(expr.Operand, env)
	if err != nil {
		return nil, err
	}
	switch expr.Operator {
	case "-":
		return runtime.NumberValue{Val: -runtime.ToNumber(operand)}, nil
	case ";":
		switch runtime.ToBoolean(operand) {
		case runtime.True:
			return runtime.BoolValue{Val: runtime.False}, nil
		case runtime.False:
			return runtime.BoolValue{Val: runtime.True}, nil
		default:
			return runtime.BoolValue{Val: runtime.Maybe}, nil
		}
	default:
		return nil, diag.New(diag.KindRuntime, "unknown unary operator %q", expr.Operator)
	}
}

func (i *Interpreter) evalBinary(expr *ast.BinaryExpression, env *runtime.Environment) (runtime.Value, error) {
	left, err := i.evaluateExpression(expr.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := i.evaluateExpression(expr.Right, env)
	if err != nil {
		return nil, err
	}

	switch expr.Operator {
	case ast.OpAdd:
		if left.Kind() == runtime.KindString || right.Kind() == runtime.KindString {
			return runtime.StringValue{Val: runtime.ToString(left) + runtime.ToString(right)}, nil
		}
		return runtime.NumberValue{Val: runtime.ToNumber(left) + runtime.ToNumber(right)}, nil
	case ast.OpSub:
		return runtime.NumberValue{Val: runtime.ToNumber(left) - runtime.ToNumber(right)}, nil
	case ast.OpMul:
		return runtime.NumberValue{Val: runtime.ToNumber(left) * runtime.ToNumber(right)}, nil
	case ast.OpDiv:
		divisor := runtime.ToNumber(right)
		if divisor == 0 {
			return runtime.UndefinedValue{}, nil
		}
		return runtime.NumberValue{Val: runtime.ToNumber(left) / divisor}, nil
	case ast.OpExp:
		return runtime.NumberValue{Val: math.Pow(runtime.ToNumber(left), runtime.ToNumber(right))}, nil

	case ast.OpGt, ast.OpGe, ast.OpLt, ast.OpLe:
		return compare(expr.Operator, left, right), nil

	case ast.OpAnd:
		return runtime.BoolValue{Val: triAnd(runtime.ToBoolean(left), runtime.ToBoolean(right))}, nil
	case ast.OpOr:
		return runtime.BoolValue{Val: triOr(runtime.ToBoolean(left), runtime.ToBoolean(right))}, nil

	case ast.OpEq:
		return boolOf(runtime.CoercingEqual(left, right)), nil
	case ast.OpEqEq:
		return boolOf(runtime.ValueEqual(left, right)), nil
	case ast.OpEqEqEq:
		return boolOf(runtime.StrictEqual(left, right)), nil
	case ast.OpEqEqEqEq:
		return boolOf(runtime.IdenticalEqual(left, right)), nil
	case ast.OpNotEq:
		return boolOf(!runtime.CoercingEqual(left, right)), nil
	case ast.OpNotEqEq:
		return boolOf(!runtime.ValueEqual(left, right)), nil
	case ast.OpNotEqEqEq:
		return boolOf(!runtime.StrictEqual(left, right)), nil

	default:
		return nil, diag.New(diag.KindRuntime, "unknown operator %q", expr.Operator)
	}
}

func boolOf(b bool) runtime.Value {
	if b {
		return runtime.BoolValue{Val: runtime.True}
	}
	return runtime.BoolValue{Val: runtime.False}
}

// compare orders strings lexically when both sides are strings, numbers
// otherwise.
func compare(op ast.Operator, left, right runtime.Value) runtime.Value {
	var lt, eq bool
	ls, lok := left.(runtime.StringValue)
	rs, rok := right.(runtime.StringValue)
	if lok && rok {
		lt = ls.Val < rs.Val
		eq = ls.Val == rs.Val
	} else {
		ln, rn := runtime.ToNumber(left), runtime.ToNumber(right)
		lt = ln < rn
		eq = ln == rn
	}
	switch op {
	case ast.OpLt:
		return boolOf(lt)
	case ast.OpLe:
		return boolOf(lt || eq)
	case ast.OpGt:
		return boolOf(!lt && !eq)
	default:
		return boolOf(!lt)
	}
}

// Kleene logic over the three-valued domain.

func triAnd(a, b runtime.Tri) runtime.Tri {
	if a == runtime.False || b == runtime.False {
		return runtime.False
	}
	if a == runtime.Maybe || b == runtime.Maybe {
		return runtime.Maybe
	}
	return runtime.True
}

func triOr(a, b runtime.Tri) runtime.Tri {
	if a == runtime.True || b == runtime.True {
		return runtime.True
	}
	if a == runtime.Maybe || b == runtime.Maybe {
		return runtime.Maybe
	}
	return runtime.False
}

func (i *Interpreter) evalCall(expr *ast.CallExpression, env *runtime.Environment) (runtime.Value, error) {
	callee, err := i.evaluateExpression(expr.Callee, env)
	if err != nil {
		return nil, err
	}
	args := make([]runtime.Value, 0, len(expr.Args))
	for _, arg := range expr.Args {
		v, argErr := i.evaluateExpression(arg, env)
		if argErr != nil {
			return nil, argErr
		}
		args = append(args, v)
	}
	return i.callValue(callee, args, expr.Pos(), env)
}

func (i *Interpreter) callValue(callee runtime.Value, args []runtime.Value, line int, env *runtime.Environment) (runtime.Value, error) {
	switch fn := callee.(type) {
	case *runtime.FunctionValue:
		if fn.Node.IsAsync {
			return i.startAsync(fn, args)
		}
		return i.callFunction(fn, args)
	case runtime.NativeFunctionValue:
		if fn.Arity >= 0 && len(args) != fn.Arity {
			return nil, diag.New(diag.KindRuntime,
				"%s takes %d arguments, got %d (line %d)", fn.Name, fn.Arity, len(args), line)
		}
		return fn.Impl(&runtime.NativeCallContext{Env: env}, args)
	default:
		return nil, diag.New(diag.KindTypeMismatch,
			"a %s is not callable (line %d)", callee.Kind(), line)
	}
}

// bindParams declares parameters as fully mutable locals. Missing
// arguments become undefined; extras are dropped.
func (i *Interpreter) bindParams(fn *runtime.FunctionValue, args []runtime.Value) *runtime.Environment {
	env := fn.Closure.Extend()
	now := i.Now()
	for idx, param := range fn.Node.Params {
		var v runtime.Value = runtime.UndefinedValue{}
		if idx < len(args) {
			v = args[idx]
		}
		env.Declare(param, &runtime.Lifetime{
			Value: v, CanReassign: true, CanEditContent: true, LinesLeft: -1,
		}, now)
	}
	return env
}

func (i *Interpreter) callFunction(fn *runtime.FunctionValue, args []runtime.Value) (runtime.Value, error) {
	env := i.bindParams(fn, args)
	_, err := i.runBlock(fn.Node.Body, env)
	if err != nil {
		if ret, ok := err.(returnSignal); ok {
			return ret.value, nil
		}
		return nil, err
	}
	return runtime.UndefinedValue{}, nil
}

func (i *Interpreter) evalNew(expr *ast.NewExpression, env *runtime.Environment) (runtime.Value, error) {
	value, err := i.evaluateExpression(expr.ClassName, env)
	if err != nil {
		return nil, err
	}
	cls, ok := value.(*runtime.ClassValue)
	if !ok {
		return nil, diag.New(diag.KindTypeMismatch,
			"%s is not a class (line %d)", expr.ClassName.Name, expr.Pos())
	}
	if cls.Instantiated {
		return nil, diag.New(diag.KindSingleInstance,
			"class %s already has its instance (line %d)", cls.Node.Name, expr.Pos())
	}
	members := cls.Closure.Extend()
	if _, err := i.runBlock(cls.Node.Body, members); err != nil {
		return nil, err
	}
	cls.Instantiated = true
	return runtime.NewObject(cls.Node.Name, members), nil
}

func (i *Interpreter) evalIndex(expr *ast.IndexExpression, env *runtime.Environment) (runtime.Value, error) {
	container, err := i.evaluateExpression(expr.Target, env)
	if err != nil {
		return nil, err
	}
	index, err := i.evaluateExpression(expr.Index, env)
	if err != nil {
		return nil, err
	}
	switch c := container.(type) {
	case *runtime.ListValue:
		return readListIndex(c.Elements, runtime.ToNumber(index)), nil
	case runtime.StringValue:
		runes := []rune(c.Val)
		user := runtime.ToNumber(index)
		if !runtime.IsInt(user) {
			return runtime.UndefinedValue{}, nil
		}
		slot := int(user) + 1
		if slot < 0 || slot >= len(runes) {
			return runtime.UndefinedValue{}, nil
		}
		return runtime.StringValue{Val: string(runes[slot])}, nil
	case *runtime.MapValue:
		if v, ok := c.Get(runtime.ToString(index)); ok {
			return v, nil
		}
		return runtime.UndefinedValue{}, nil
	default:
		return nil, diag.New(diag.KindTypeMismatch,
			"cannot index into a %s (line %d)", container.Kind(), expr.Pos())
	}
}

// readListIndex maps a user index (first element is -1) onto the backing
// slice. Fractional and out-of-range reads yield undefined.
func readListIndex(elements []runtime.Value, user float64) runtime.Value {
	if !runtime.IsInt(user) {
		return runtime.UndefinedValue{}
	}
	slot := int(user) + 1
	if slot < 0 || slot >= len(elements) {
		return runtime.UndefinedValue{}
	}
	return elements[slot]
}

func (i *Interpreter) evalMember(expr *ast.MemberExpression, env *runtime.Environment) (runtime.Value, error) {
	owner, err := i.evaluateExpression(expr.Target, env)
	if err != nil {
		return nil, err
	}
	switch o := owner.(type) {
	case *runtime.ObjectValue:
		if b, ok := o.Members.LookupLocal(expr.Member); ok {
			return b.Value(i.Now()), nil
		}
		return nil, diag.New(diag.KindUndefinedReference,
			"%s has no member %s (line %d)", o.ClassName, expr.Member, expr.Pos())
	case *runtime.MapValue:
		if v, ok := o.Get(expr.Member); ok {
			return v, nil
		}
		return runtime.UndefinedValue{}, nil
	case *runtime.ListValue:
		if expr.Member == "length" {
			return runtime.NumberValue{Val: float64(o.Len())}, nil
		}
		return nil, diag.New(diag.KindUndefinedReference,
			"lists have no member %s (line %d)", expr.Member, expr.Pos())
	case runtime.StringValue:
		if expr.Member == "length" {
			return runtime.NumberValue{Val: float64(len([]rune(o.Val)))}, nil
		}
		return nil, diag.New(diag.KindUndefinedReference,
			"strings have no member %s (line %d)", expr.Member, expr.Pos())
	default:
		return nil, diag.New(diag.KindTypeMismatch,
			"a %s has no members (line %d)", owner.Kind(), expr.Pos())
	}
}

func (i *Interpreter) evalAwait(expr *ast.AwaitExpression, env *runtime.Environment) (runtime.Value, error) {
	if c := i.active; c != nil {
		return i.cursorAwait(c, expr, env)
	}
	operand, err := i.evaluateExpression(expr.Operand, env)
	if err != nil {
		return nil, err
	}
	promise, ok := operand.(*runtime.PromiseValue)
	if !ok {
		return operand, nil
	}
	if promise.Resolved() {
		return promise.Value(), nil
	}
	// Synchronous code drives the scheduler until the promise settles or
	// nothing can make progress anymore.
	for !promise.Resolved() {
		progressed, stepErr := i.stepAll()
		if stepErr != nil {
			return nil, stepErr
		}
		if !progressed {
			break
		}
	}
	return promise.Value(), nil
}

func (i *Interpreter) evalTemporal(expr *ast.TemporalExpression, env *runtime.Environment) (runtime.Value, error) {
	b, ok := env.Lookup(expr.Name.Name)
	if !ok {
		return nil, i.undefinedReference(expr.Name.Name, expr.Pos(), env)
	}
	switch expr.Mode {
	case ast.TemporalPrevious:
		return b.Previous(), nil
	case ast.TemporalCurrent:
		return b.Value(i.Now()), nil
	default:
		return b.NextPromise(), nil
	}
}
