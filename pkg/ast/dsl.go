package ast

// Short constructors used pervasively by tests.

func ID(name string) *Identifier           { return NewIdentifier(name, 0) }
func Num(value float64) *NumberLiteral     { return NewNumberLiteral(value, 0) }
func Str(value string) *StringLiteral      { return NewStringLiteral(value, 0) }
func Bool(value BoolState) *BooleanLiteral { return NewBooleanLiteral(value, 0) }
func True() *BooleanLiteral                { return NewBooleanLiteral(BoolTrue, 0) }
func False() *BooleanLiteral               { return NewBooleanLiteral(BoolFalse, 0) }
func Maybe() *BooleanLiteral               { return NewBooleanLiteral(BoolMaybe, 0) }
func Undef() *UndefinedLiteral             { return NewUndefinedLiteral(0) }

func List(elements ...Expression) *ListLiteral {
	return NewListLiteral(elements, 0)
}

func Interp(parts ...Expression) *InterpolatedString {
	return NewInterpolatedString(parts, 0)
}

func Un(op string, operand Expression) *UnaryExpression {
	return NewUnaryExpression(op, operand, 0)
}

func Bin(op Operator, left, right Expression) *BinaryExpression {
	return NewBinaryExpression(op, left, right, 0)
}

func Call(callee Expression, args ...Expression) *CallExpression {
	return NewCallExpression(callee, args, 0)
}

func New(className string, args ...Expression) *NewExpression {
	return NewNewExpression(ID(className), args, 0)
}

func Index(target, index Expression) *IndexExpression {
	return NewIndexExpression(target, index, 0)
}

func Member(target Expression, member string) *MemberExpression {
	return NewMemberExpression(target, member, 0)
}

func Await(operand Expression) *AwaitExpression {
	return NewAwaitExpression(operand, 0)
}

func Previous(name string) *TemporalExpression {
	return NewTemporalExpression(TemporalPrevious, ID(name), 0)
}

func Current(name string) *TemporalExpression {
	return NewTemporalExpression(TemporalCurrent, ID(name), 0)
}

func Next(name string) *TemporalExpression {
	return NewTemporalExpression(TemporalNext, ID(name), 0)
}

// Decl declares with default confidence and no lifetime.
func Decl(name string, canReassign, canEditContent bool, value Expression) *VariableDeclaration {
	return NewVariableDeclaration(name, canReassign, canEditContent, nil, 1, 0, value, 0)
}

// DeclConf declares with an explicit confidence level.
func DeclConf(name string, canReassign, canEditContent bool, confidence int, value Expression) *VariableDeclaration {
	return NewVariableDeclaration(name, canReassign, canEditContent, nil, confidence, 0, value, 0)
}

func Assign(target, value Expression) *VariableAssignment {
	return NewVariableAssignment(target, value, 1, 0, 0)
}

func If(condition Expression, body ...Statement) *Conditional {
	return NewConditional(condition, body, 0)
}

func When(condition Expression, body ...Statement) *WhenStatement {
	return NewWhenStatement(condition, body, 0)
}

func After(event string, body ...Statement) *AfterStatement {
	return NewAfterStatement(event, body, 0)
}

func Fn(name string, params []string, body ...Statement) *FunctionDefinition {
	return NewFunctionDefinition(name, params, body, false, 0)
}

func AsyncFn(name string, params []string, body ...Statement) *FunctionDefinition {
	return NewFunctionDefinition(name, params, body, true, 0)
}

func Class(name string, body ...Statement) *ClassDeclaration {
	return NewClassDeclaration(name, body, 0)
}

func Ret(value Expression) *ReturnStatement {
	return NewReturnStatement(value, 0, 0)
}

func Del(target string) *DeleteStatement {
	return NewDeleteStatement(target, 0)
}

func Rev() *ReverseStatement { return NewReverseStatement(0) }
func Noop() *NoopStatement   { return NewNoopStatement(0) }

func ExprStmt(expr Expression) *ExpressionStatement {
	return NewExpressionStatement(expr, 0, 0)
}
