package ast

// FreeNames returns every name referenced by an expression, in first-seen
// order, without duplicates. The watcher engine resolves these against the
// namespace at registration time to build its dependency set. Member names
// are not included; the root of a member chain is.
func FreeNames(expr Expression) []string {
	var names []string
	seen := make(map[string]bool)
	var walk func(Expression)
	walk = func(e Expression) {
		switch n := e.(type) {
		case nil:
		case *Identifier:
			if !seen[n.Name] {
				seen[n.Name] = true
				names = append(names, n.Name)
			}
		case *UnaryExpression:
			walk(n.Operand)
		case *BinaryExpression:
			walk(n.Left)
			walk(n.Right)
		case *CallExpression:
			walk(n.Callee)
			for _, arg := range n.Args {
				walk(arg)
			}
		case *NewExpression:
			for _, arg := range n.Args {
				walk(arg)
			}
		case *IndexExpression:
			walk(n.Target)
			walk(n.Index)
		case *MemberExpression:
			walk(n.Target)
		case *AwaitExpression:
			walk(n.Operand)
		case *TemporalExpression:
			walk(n.Name)
		case *ListLiteral:
			for _, el := range n.Elements {
				walk(el)
			}
		case *InterpolatedString:
			for _, part := range n.Parts {
				walk(part)
			}
		}
	}
	walk(expr)
	return names
}
