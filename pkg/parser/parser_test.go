package parser

import (
	"testing"

	"gulfofmexico/interpreter-go/pkg/ast"
)

func parseOne(t *testing.T, src string) ast.Statement {
	t.Helper()
	stmts, err := Parse("test.gom", src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	if len(stmts) != 1 {
		t.Fatalf("parse %q: got %d statements, want 1", src, len(stmts))
	}
	return stmts[0]
}

func TestDeclarationMutability(t *testing.T) {
	cases := []struct {
		src            string
		canReassign    bool
		canEditContent bool
	}{
		{"const const x = 1!", false, false},
		{"const var x = 1!", false, true},
		{"var const x = 1!", true, false},
		{"var var x = 1!", true, true},
	}
	for _, tc := range cases {
		decl, ok := parseOne(t, tc.src).(*ast.VariableDeclaration)
		if !ok {
			t.Fatalf("%q: not a declaration", tc.src)
		}
		if decl.Name != "x" {
			t.Fatalf("%q: name = %q", tc.src, decl.Name)
		}
		if decl.CanReassign != tc.canReassign || decl.CanEditContent != tc.canEditContent {
			t.Fatalf("%q: mutability = (%v, %v), want (%v, %v)",
				tc.src, decl.CanReassign, decl.CanEditContent, tc.canReassign, tc.canEditContent)
		}
	}
}

func TestDeclarationConfidence(t *testing.T) {
	decl := parseOne(t, "const const x = 1!!!").(*ast.VariableDeclaration)
	if decl.Confidence != 3 {
		t.Fatalf("confidence = %d, want 3", decl.Confidence)
	}
	debug := parseOne(t, "const const y = 2?").(*ast.VariableDeclaration)
	if debug.Debug != 1 {
		t.Fatalf("debug = %d, want 1", debug.Debug)
	}
}

func TestGloballyImmutableDeclaration(t *testing.T) {
	decl := parseOne(t, "const const const pi = 3!").(*ast.VariableDeclaration)
	if decl.Lifetime == nil || !decl.Lifetime.Forever {
		t.Fatalf("triple const should carry an infinite lifetime, got %+v", decl.Lifetime)
	}
}

func TestLifetimeSuffixes(t *testing.T) {
	lines := parseOne(t, "const const x<2> = 1!").(*ast.VariableDeclaration)
	if lines.Lifetime == nil || lines.Lifetime.Lines != 2 {
		t.Fatalf("line lifetime = %+v", lines.Lifetime)
	}
	seconds := parseOne(t, "const const y<5s> = 1!").(*ast.VariableDeclaration)
	if seconds.Lifetime == nil || seconds.Lifetime.Seconds != 5 {
		t.Fatalf("second lifetime = %+v", seconds.Lifetime)
	}
	forever := parseOne(t, "const const z<Infinity> = 1!").(*ast.VariableDeclaration)
	if forever.Lifetime == nil || !forever.Lifetime.Forever {
		t.Fatalf("infinite lifetime = %+v", forever.Lifetime)
	}
}

func TestFunctionKeywordSpellings(t *testing.T) {
	for _, kw := range []string{"function", "func", "fn", "fun", "functi", "union"} {
		src := kw + " add(a, b) => a + b!"
		def, ok := parseOne(t, src).(*ast.FunctionDefinition)
		if !ok {
			t.Fatalf("%q: not a function definition", src)
		}
		if def.Name != "add" || len(def.Params) != 2 {
			t.Fatalf("%q: got %q with %d params", src, def.Name, len(def.Params))
		}
		if len(def.Body) != 1 {
			t.Fatalf("%q: expression body should desugar to one return", src)
		}
		if _, ok := def.Body[0].(*ast.ReturnStatement); !ok {
			t.Fatalf("%q: body is %T, want return", src, def.Body[0])
		}
	}
}

func TestAsyncFunction(t *testing.T) {
	src := "async funct run() {\n   noop!\n}"
	def := parseOne(t, src).(*ast.FunctionDefinition)
	if !def.IsAsync {
		t.Fatal("function should be async")
	}
	if len(def.Body) != 1 {
		t.Fatalf("body has %d statements", len(def.Body))
	}
}

func TestNonKeywordNameIsExpression(t *testing.T) {
	// "i" is a selection of the letters of "function" but with no
	// parameter list after it, it is a plain name.
	stmt := parseOne(t, "i!")
	es, ok := stmt.(*ast.ExpressionStatement)
	if !ok {
		t.Fatalf("got %T, want expression statement", stmt)
	}
	if id, ok := es.Expr.(*ast.Identifier); !ok || id.Name != "i" {
		t.Fatalf("expression = %#v", es.Expr)
	}
}

func TestAssignmentVersusEquality(t *testing.T) {
	assign, ok := parseOne(t, "x = 2!").(*ast.VariableAssignment)
	if !ok {
		t.Fatal("top-level = should be an assignment")
	}
	if _, ok := assign.Target.(*ast.Identifier); !ok {
		t.Fatalf("target = %T", assign.Target)
	}

	es := parseOne(t, "print(x = 2)!").(*ast.ExpressionStatement)
	call := es.Expr.(*ast.CallExpression)
	bin, ok := call.Args[0].(*ast.BinaryExpression)
	if !ok || bin.Operator != ast.OpEq {
		t.Fatalf("parenthesized = should be coercing equality, got %#v", call.Args[0])
	}
}

func TestEqualityTiers(t *testing.T) {
	cases := map[string]ast.Operator{
		"a == b!":  ast.OpEqEq,
		"a === b!": ast.OpEqEqEq,
		"a ;= b!":  ast.OpNotEq,
		"a ;== b!": ast.OpNotEqEq,
	}
	for src, want := range cases {
		es := parseOne(t, src).(*ast.ExpressionStatement)
		bin := es.Expr.(*ast.BinaryExpression)
		if bin.Operator != want {
			t.Fatalf("%q: op = %q, want %q", src, bin.Operator, want)
		}
	}
}

func TestSpacingPrecedence(t *testing.T) {
	// Tight multiplication binds first.
	tight := parseOne(t, "1 + 2*3!").(*ast.ExpressionStatement)
	top := tight.Expr.(*ast.BinaryExpression)
	if top.Operator != ast.OpAdd {
		t.Fatalf("tight: top op = %q", top.Operator)
	}
	if inner, ok := top.Right.(*ast.BinaryExpression); !ok || inner.Operator != ast.OpMul {
		t.Fatalf("tight: right = %#v", top.Right)
	}

	// Extra space around * loosens it below +.
	loose := parseOne(t, "1+2 * 3!").(*ast.ExpressionStatement)
	top = loose.Expr.(*ast.BinaryExpression)
	if top.Operator != ast.OpMul {
		t.Fatalf("loose: top op = %q", top.Operator)
	}
	if inner, ok := top.Left.(*ast.BinaryExpression); !ok || inner.Operator != ast.OpAdd {
		t.Fatalf("loose: left = %#v", top.Left)
	}
}

func TestExponentRightAssociative(t *testing.T) {
	es := parseOne(t, "2^3^2!").(*ast.ExpressionStatement)
	top := es.Expr.(*ast.BinaryExpression)
	if top.Operator != ast.OpExp {
		t.Fatalf("top op = %q", top.Operator)
	}
	if inner, ok := top.Right.(*ast.BinaryExpression); !ok || inner.Operator != ast.OpExp {
		t.Fatalf("right = %#v", top.Right)
	}
}

func TestIncrementSugar(t *testing.T) {
	assign := parseOne(t, "score++!").(*ast.VariableAssignment)
	sum, ok := assign.Value.(*ast.BinaryExpression)
	if !ok || sum.Operator != ast.OpAdd {
		t.Fatalf("value = %#v", assign.Value)
	}
	if n, ok := sum.Right.(*ast.NumberLiteral); !ok || n.Value != 1 {
		t.Fatalf("increment step = %#v", sum.Right)
	}

	dec := parseOne(t, "score--!").(*ast.VariableAssignment)
	diff := dec.Value.(*ast.BinaryExpression)
	if diff.Operator != ast.OpSub {
		t.Fatalf("decrement op = %q", diff.Operator)
	}
}

func TestListLiteralAndIndex(t *testing.T) {
	es := parseOne(t, "items[0]!").(*ast.ExpressionStatement)
	idx, ok := es.Expr.(*ast.IndexExpression)
	if !ok {
		t.Fatalf("expr = %T", es.Expr)
	}
	if _, ok := idx.Target.(*ast.Identifier); !ok {
		t.Fatalf("target = %T", idx.Target)
	}

	decl := parseOne(t, "var var xs = [1, 2, 3]!").(*ast.VariableDeclaration)
	list := decl.Value.(*ast.ListLiteral)
	if len(list.Elements) != 3 {
		t.Fatalf("list has %d elements", len(list.Elements))
	}
}

func TestNegativeIndex(t *testing.T) {
	es := parseOne(t, "items[-1]!").(*ast.ExpressionStatement)
	idx := es.Expr.(*ast.IndexExpression)
	n, ok := idx.Index.(*ast.NumberLiteral)
	if !ok || n.Value != -1 {
		t.Fatalf("index = %#v", idx.Index)
	}
}

func TestDottedNameBecomesMemberChain(t *testing.T) {
	es := parseOne(t, "player.stats.hp!").(*ast.ExpressionStatement)
	outer, ok := es.Expr.(*ast.MemberExpression)
	if !ok || outer.Member != "hp" {
		t.Fatalf("expr = %#v", es.Expr)
	}
	inner, ok := outer.Target.(*ast.MemberExpression)
	if !ok || inner.Member != "stats" {
		t.Fatalf("target = %#v", outer.Target)
	}
	if root, ok := inner.Target.(*ast.Identifier); !ok || root.Name != "player" {
		t.Fatalf("root = %#v", inner.Target)
	}
}

func TestTemporalRewrites(t *testing.T) {
	es := parseOne(t, "print(previous(score))!").(*ast.ExpressionStatement)
	call := es.Expr.(*ast.CallExpression)
	temporal, ok := call.Args[0].(*ast.TemporalExpression)
	if !ok || temporal.Mode != ast.TemporalPrevious {
		t.Fatalf("arg = %#v", call.Args[0])
	}
	if temporal.Name.Name != "score" {
		t.Fatalf("temporal name = %q", temporal.Name.Name)
	}
}

func TestAwait(t *testing.T) {
	es := parseOne(t, "await fetch()!").(*ast.ExpressionStatement)
	aw, ok := es.Expr.(*ast.AwaitExpression)
	if !ok {
		t.Fatalf("expr = %T", es.Expr)
	}
	if _, ok := aw.Operand.(*ast.CallExpression); !ok {
		t.Fatalf("operand = %T", aw.Operand)
	}
}

func TestWhenAndAfter(t *testing.T) {
	when := parseOne(t, "when score > 10 {\n   print(score)!\n}").(*ast.WhenStatement)
	if _, ok := when.Condition.(*ast.BinaryExpression); !ok {
		t.Fatalf("condition = %T", when.Condition)
	}
	if len(when.Body) != 1 {
		t.Fatalf("body has %d statements", len(when.Body))
	}

	after := parseOne(t, "after keypress {\n   noop!\n}").(*ast.AfterStatement)
	if after.Event != "keypress" {
		t.Fatalf("event = %q", after.Event)
	}
}

func TestExportImport(t *testing.T) {
	exp := parseOne(t, "export score, lives to main!").(*ast.ExportStatement)
	if len(exp.Names) != 2 || exp.Target != "main" {
		t.Fatalf("export = %+v", exp)
	}
	imp := parseOne(t, "import score!").(*ast.ImportStatement)
	if len(imp.Names) != 1 || imp.Names[0] != "score" {
		t.Fatalf("import = %+v", imp)
	}
}

func TestInterpolatedString(t *testing.T) {
	decl := parseOne(t, "const const msg = \"score is ${score + 1}\"!").(*ast.VariableDeclaration)
	interp, ok := decl.Value.(*ast.InterpolatedString)
	if !ok {
		t.Fatalf("value = %T", decl.Value)
	}
	if len(interp.Parts) != 2 {
		t.Fatalf("interpolation has %d parts", len(interp.Parts))
	}
	if lit, ok := interp.Parts[0].(*ast.StringLiteral); !ok || lit.Value != "score is " {
		t.Fatalf("first part = %#v", interp.Parts[0])
	}
	if _, ok := interp.Parts[1].(*ast.BinaryExpression); !ok {
		t.Fatalf("second part = %#v", interp.Parts[1])
	}
}

func TestClassDeclaration(t *testing.T) {
	src := "class Player {\n   var var hp = 10!\n}"
	cls := parseOne(t, src).(*ast.ClassDeclaration)
	if cls.Name != "Player" || len(cls.Body) != 1 {
		t.Fatalf("class = %+v", cls)
	}
}

func TestNewExpression(t *testing.T) {
	decl := parseOne(t, "var var p = new Player()!").(*ast.VariableDeclaration)
	ne, ok := decl.Value.(*ast.NewExpression)
	if !ok || ne.ClassName.Name != "Player" {
		t.Fatalf("value = %#v", decl.Value)
	}
}

func TestDeleteReverseNoop(t *testing.T) {
	del := parseOne(t, "delete score!").(*ast.DeleteStatement)
	if del.Target != "score" {
		t.Fatalf("delete target = %q", del.Target)
	}
	if _, ok := parseOne(t, "reverse!").(*ast.ReverseStatement); !ok {
		t.Fatal("reverse did not parse")
	}
	if _, ok := parseOne(t, "noop!").(*ast.NoopStatement); !ok {
		t.Fatal("noop did not parse")
	}
}

func TestMissingTerminatorFails(t *testing.T) {
	if _, err := Parse("test.gom", "const const x = 1"); err == nil {
		t.Fatal("statement without terminator should fail")
	}
}

func TestSemicolonNegation(t *testing.T) {
	es := parseOne(t, "print(;ready)!").(*ast.ExpressionStatement)
	call := es.Expr.(*ast.CallExpression)
	un, ok := call.Args[0].(*ast.UnaryExpression)
	if !ok || un.Operator != ";" {
		t.Fatalf("arg = %#v", call.Args[0])
	}
}
