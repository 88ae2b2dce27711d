package ast

type NodeType string

const (
	NodeIdentifier          NodeType = "Identifier"
	NodeNumberLiteral       NodeType = "NumberLiteral"
	NodeStringLiteral       NodeType = "StringLiteral"
	NodeBooleanLiteral      NodeType = "BooleanLiteral"
	NodeUndefinedLiteral    NodeType = "UndefinedLiteral"
	NodeListLiteral         NodeType = "ListLiteral"
	NodeInterpolatedString  NodeType = "InterpolatedString"
	NodeUnaryExpression     NodeType = "UnaryExpression"
	NodeBinaryExpression    NodeType = "BinaryExpression"
	NodeCallExpression      NodeType = "CallExpression"
	NodeNewExpression       NodeType = "NewExpression"
	NodeIndexExpression     NodeType = "IndexExpression"
	NodeMemberExpression    NodeType = "MemberExpression"
	NodeAwaitExpression     NodeType = "AwaitExpression"
	NodeTemporalExpression  NodeType = "TemporalExpression"
	NodeVariableDeclaration NodeType = "VariableDeclaration"
	NodeVariableAssignment  NodeType = "VariableAssignment"
	NodeConditional         NodeType = "Conditional"
	NodeWhenStatement       NodeType = "WhenStatement"
	NodeAfterStatement      NodeType = "AfterStatement"
	NodeFunctionDefinition  NodeType = "FunctionDefinition"
	NodeClassDeclaration    NodeType = "ClassDeclaration"
	NodeReturnStatement     NodeType = "ReturnStatement"
	NodeDeleteStatement     NodeType = "DeleteStatement"
	NodeExportStatement     NodeType = "ExportStatement"
	NodeImportStatement     NodeType = "ImportStatement"
	NodeReverseStatement    NodeType = "ReverseStatement"
	NodeNoopStatement       NodeType = "NoopStatement"
	NodeExpressionStatement NodeType = "ExpressionStatement"
)

type Node interface {
	NodeType() NodeType
	Pos() int
	isNode()
}

type nodeImpl struct {
	Type NodeType `json:"type"`
	Line int      `json:"line"`
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (n nodeImpl) Pos() int           { return n.Line }
func (nodeImpl) isNode()              {}

// Marker interfaces.

type Expression interface {
	Node
	expressionNode()
}

type expressionMarker struct{}

func (expressionMarker) expressionNode() {}

type Statement interface {
	Node
	statementNode()
}

type statementMarker struct{}

func (statementMarker) statementNode() {}

// Operator is the closed set of binary operator tags. Spellings are
// canonical; the parser normalizes surface syntax onto them.
type Operator string

const (
	OpAdd Operator = "+"
	OpSub Operator = "-"
	OpMul Operator = "*"
	OpDiv Operator = "/"
	OpExp Operator = "^"
	OpGt  Operator = ">"
	OpGe  Operator = ">="
	OpLt  Operator = "<"
	OpLe  Operator = "<="
	OpOr  Operator = "|"
	OpAnd Operator = "&"

	// The four equality precision tiers and their negations.
	OpEq        Operator = "="    // coercing
	OpEqEq      Operator = "=="   // value-equal
	OpEqEqEq    Operator = "==="  // value-and-type-equal
	OpEqEqEqEq  Operator = "====" // identity-and-deep-equal
	OpNotEq     Operator = ";="
	OpNotEqEq   Operator = ";=="
	OpNotEqEqEq Operator = ";==="
)

// BoolState is the three-valued boolean literal payload.
type BoolState int

const (
	BoolFalse BoolState = iota
	BoolTrue
	BoolMaybe
)

// TemporalMode selects which point of a binding's history a temporal
// expression reads.
type TemporalMode string

const (
	TemporalPrevious TemporalMode = "previous"
	TemporalCurrent  TemporalMode = "current"
	TemporalNext     TemporalMode = "next"
)

// LifetimeSpec is the parsed <...> suffix of a declaration. Exactly one of
// Lines, Seconds or Forever is meaningful.
type LifetimeSpec struct {
	Lines   int
	Seconds float64
	Forever bool
}

//-----------------------------------------------------------------------------
// Expressions
//-----------------------------------------------------------------------------

type Identifier struct {
	nodeImpl
	expressionMarker

	Name string `json:"name"`
}

func NewIdentifier(name string, line int) *Identifier {
	return &Identifier{nodeImpl: nodeImpl{Type: NodeIdentifier, Line: line}, Name: name}
}

type NumberLiteral struct {
	nodeImpl
	expressionMarker

	Value float64 `json:"value"`
}

func NewNumberLiteral(value float64, line int) *NumberLiteral {
	return &NumberLiteral{nodeImpl: nodeImpl{Type: NodeNumberLiteral, Line: line}, Value: value}
}

type StringLiteral struct {
	nodeImpl
	expressionMarker

	Value string `json:"value"`
}

func NewStringLiteral(value string, line int) *StringLiteral {
	return &StringLiteral{nodeImpl: nodeImpl{Type: NodeStringLiteral, Line: line}, Value: value}
}

type BooleanLiteral struct {
	nodeImpl
	expressionMarker

	Value BoolState `json:"value"`
}

func NewBooleanLiteral(value BoolState, line int) *BooleanLiteral {
	return &BooleanLiteral{nodeImpl: nodeImpl{Type: NodeBooleanLiteral, Line: line}, Value: value}
}

type UndefinedLiteral struct {
	nodeImpl
	expressionMarker
}

func NewUndefinedLiteral(line int) *UndefinedLiteral {
	return &UndefinedLiteral{nodeImpl: nodeImpl{Type: NodeUndefinedLiteral, Line: line}}
}

type ListLiteral struct {
	nodeImpl
	expressionMarker

	Elements []Expression `json:"elements"`
}

func NewListLiteral(elements []Expression, line int) *ListLiteral {
	return &ListLiteral{nodeImpl: nodeImpl{Type: NodeListLiteral, Line: line}, Elements: elements}
}

// InterpolatedString alternates literal and expression parts in source
// order; literal parts are StringLiteral nodes.
type InterpolatedString struct {
	nodeImpl
	expressionMarker

	Parts []Expression `json:"parts"`
}

func NewInterpolatedString(parts []Expression, line int) *InterpolatedString {
	return &InterpolatedString{nodeImpl: nodeImpl{Type: NodeInterpolatedString, Line: line}, Parts: parts}
}

type UnaryExpression struct {
	nodeImpl
	expressionMarker

	Operator string     `json:"operator"` // "-" or ";"
	Operand  Expression `json:"operand"`
}

func NewUnaryExpression(operator string, operand Expression, line int) *UnaryExpression {
	return &UnaryExpression{nodeImpl: nodeImpl{Type: NodeUnaryExpression, Line: line}, Operator: operator, Operand: operand}
}

type BinaryExpression struct {
	nodeImpl
	expressionMarker

	Operator Operator   `json:"operator"`
	Left     Expression `json:"left"`
	Right    Expression `json:"right"`
}

func NewBinaryExpression(op Operator, left, right Expression, line int) *BinaryExpression {
	return &BinaryExpression{nodeImpl: nodeImpl{Type: NodeBinaryExpression, Line: line}, Operator: op, Left: left, Right: right}
}

type CallExpression struct {
	nodeImpl
	expressionMarker

	Callee Expression   `json:"callee"`
	Args   []Expression `json:"args"`
}

func NewCallExpression(callee Expression, args []Expression, line int) *CallExpression {
	return &CallExpression{nodeImpl: nodeImpl{Type: NodeCallExpression, Line: line}, Callee: callee, Args: args}
}

type NewExpression struct {
	nodeImpl
	expressionMarker

	ClassName *Identifier  `json:"className"`
	Args      []Expression `json:"args"`
}

func NewNewExpression(className *Identifier, args []Expression, line int) *NewExpression {
	return &NewExpression{nodeImpl: nodeImpl{Type: NodeNewExpression, Line: line}, ClassName: className, Args: args}
}

type IndexExpression struct {
	nodeImpl
	expressionMarker

	Target Expression `json:"target"`
	Index  Expression `json:"index"`
}

func NewIndexExpression(target, index Expression, line int) *IndexExpression {
	return &IndexExpression{nodeImpl: nodeImpl{Type: NodeIndexExpression, Line: line}, Target: target, Index: index}
}

type MemberExpression struct {
	nodeImpl
	expressionMarker

	Target Expression `json:"target"`
	Member string     `json:"member"`
}

func NewMemberExpression(target Expression, member string, line int) *MemberExpression {
	return &MemberExpression{nodeImpl: nodeImpl{Type: NodeMemberExpression, Line: line}, Target: target, Member: member}
}

type AwaitExpression struct {
	nodeImpl
	expressionMarker

	Operand Expression `json:"operand"`
}

func NewAwaitExpression(operand Expression, line int) *AwaitExpression {
	return &AwaitExpression{nodeImpl: nodeImpl{Type: NodeAwaitExpression, Line: line}, Operand: operand}
}

type TemporalExpression struct {
	nodeImpl
	expressionMarker

	Mode TemporalMode `json:"mode"`
	Name *Identifier  `json:"name"`
}

func NewTemporalExpression(mode TemporalMode, name *Identifier, line int) *TemporalExpression {
	return &TemporalExpression{nodeImpl: nodeImpl{Type: NodeTemporalExpression, Line: line}, Mode: mode, Name: name}
}

//-----------------------------------------------------------------------------
// Statements
//-----------------------------------------------------------------------------

// VariableDeclaration covers all four mutability classes: the two leading
// keywords (const/var) resolve to CanReassign x CanEditContent.
type VariableDeclaration struct {
	nodeImpl
	statementMarker

	Name           string        `json:"name"`
	CanReassign    bool          `json:"canReassign"`
	CanEditContent bool          `json:"canEditContent"`
	Lifetime       *LifetimeSpec `json:"lifetime,omitempty"`
	Confidence     int           `json:"confidence"`
	Debug          int           `json:"debug"`
	Value          Expression    `json:"value"`
}

func NewVariableDeclaration(name string, canReassign, canEditContent bool, lifetime *LifetimeSpec, confidence, debug int, value Expression, line int) *VariableDeclaration {
	return &VariableDeclaration{
		nodeImpl:       nodeImpl{Type: NodeVariableDeclaration, Line: line},
		Name:           name,
		CanReassign:    canReassign,
		CanEditContent: canEditContent,
		Lifetime:       lifetime,
		Confidence:     confidence,
		Debug:          debug,
		Value:          value,
	}
}

type VariableAssignment struct {
	nodeImpl
	statementMarker

	Target     Expression `json:"target"` // Identifier, IndexExpression or MemberExpression
	Value      Expression `json:"value"`
	Confidence int        `json:"confidence"`
	Debug      int        `json:"debug"`
}

func NewVariableAssignment(target, value Expression, confidence, debug, line int) *VariableAssignment {
	return &VariableAssignment{nodeImpl: nodeImpl{Type: NodeVariableAssignment, Line: line}, Target: target, Value: value, Confidence: confidence, Debug: debug}
}

// Conditional has no else branch; the language branches with independent
// conditionals.
type Conditional struct {
	nodeImpl
	statementMarker

	Condition Expression  `json:"condition"`
	Body      []Statement `json:"body"`
}

func NewConditional(condition Expression, body []Statement, line int) *Conditional {
	return &Conditional{nodeImpl: nodeImpl{Type: NodeConditional, Line: line}, Condition: condition, Body: body}
}

type WhenStatement struct {
	nodeImpl
	statementMarker

	Condition Expression  `json:"condition"`
	Body      []Statement `json:"body"`
}

func NewWhenStatement(condition Expression, body []Statement, line int) *WhenStatement {
	return &WhenStatement{nodeImpl: nodeImpl{Type: NodeWhenStatement, Line: line}, Condition: condition, Body: body}
}

type AfterStatement struct {
	nodeImpl
	statementMarker

	Event string      `json:"event"`
	Body  []Statement `json:"body"`
}

func NewAfterStatement(event string, body []Statement, line int) *AfterStatement {
	return &AfterStatement{nodeImpl: nodeImpl{Type: NodeAfterStatement, Line: line}, Event: event, Body: body}
}

type FunctionDefinition struct {
	nodeImpl
	statementMarker

	Name    string      `json:"name"`
	Params  []string    `json:"params"`
	Body    []Statement `json:"body"`
	IsAsync bool        `json:"isAsync"`
}

func NewFunctionDefinition(name string, params []string, body []Statement, isAsync bool, line int) *FunctionDefinition {
	return &FunctionDefinition{nodeImpl: nodeImpl{Type: NodeFunctionDefinition, Line: line}, Name: name, Params: params, Body: body, IsAsync: isAsync}
}

type ClassDeclaration struct {
	nodeImpl
	statementMarker

	Name string      `json:"name"`
	Body []Statement `json:"body"`
}

func NewClassDeclaration(name string, body []Statement, line int) *ClassDeclaration {
	return &ClassDeclaration{nodeImpl: nodeImpl{Type: NodeClassDeclaration, Line: line}, Name: name, Body: body}
}

type ReturnStatement struct {
	nodeImpl
	statementMarker

	Value Expression `json:"value,omitempty"`
	Debug int        `json:"debug"`
}

func NewReturnStatement(value Expression, debug, line int) *ReturnStatement {
	return &ReturnStatement{nodeImpl: nodeImpl{Type: NodeReturnStatement, Line: line}, Value: value, Debug: debug}
}

type DeleteStatement struct {
	nodeImpl
	statementMarker

	Target string `json:"target"`
}

func NewDeleteStatement(target string, line int) *DeleteStatement {
	return &DeleteStatement{nodeImpl: nodeImpl{Type: NodeDeleteStatement, Line: line}, Target: target}
}

type ExportStatement struct {
	nodeImpl
	statementMarker

	Names  []string `json:"names"`
	Target string   `json:"target"` // destination section name
}

func NewExportStatement(names []string, target string, line int) *ExportStatement {
	return &ExportStatement{nodeImpl: nodeImpl{Type: NodeExportStatement, Line: line}, Names: names, Target: target}
}

type ImportStatement struct {
	nodeImpl
	statementMarker

	Names []string `json:"names"`
}

func NewImportStatement(names []string, line int) *ImportStatement {
	return &ImportStatement{nodeImpl: nodeImpl{Type: NodeImportStatement, Line: line}, Names: names}
}

// ReverseStatement flips the execution direction of the remaining
// statements in the current sequence.
type ReverseStatement struct {
	nodeImpl
	statementMarker
}

func NewReverseStatement(line int) *ReverseStatement {
	return &ReverseStatement{nodeImpl: nodeImpl{Type: NodeReverseStatement, Line: line}}
}

// NoopStatement spends one scheduler turn without producing a value.
type NoopStatement struct {
	nodeImpl
	statementMarker
}

func NewNoopStatement(line int) *NoopStatement {
	return &NoopStatement{nodeImpl: nodeImpl{Type: NodeNoopStatement, Line: line}}
}

type ExpressionStatement struct {
	nodeImpl
	statementMarker

	Expr  Expression `json:"expr"`
	Debug int        `json:"debug"`
}

func NewExpressionStatement(expr Expression, debug, line int) *ExpressionStatement {
	return &ExpressionStatement{nodeImpl: nodeImpl{Type: NodeExpressionStatement, Line: line}, Expr: expr, Debug: debug}
}
