package parser

import (
	"fmt"
	"strconv"
	"strings"

	"gulfofmexico/interpreter-go/pkg/ast"
	"gulfofmexico/interpreter-go/pkg/diag"
	"gulfofmexico/interpreter-go/pkg/lexer"
)

// Binding powers. Whitespace around an operator loosens its binding: the
// effective power is (maxSpacing - spacing) * spacingStride + basePower, so
// `1 + 2*3` groups the multiplication first regardless of base precedence.
const (
	precOr       = 1
	precAnd      = 2
	precEquality = 3
	precCompare  = 4
	precAdditive = 5
	precFactor   = 6
	precPower    = 7

	maxSpacing    = 10
	spacingStride = 100
)

type binaryOp struct {
	op         ast.Operator
	base       int
	rightAssoc bool
}

var binaryOps = map[lexer.TokenType]binaryOp{
	lexer.Pipe:         {ast.OpOr, precOr, false},
	lexer.Ampersand:    {ast.OpAnd, precAnd, false},
	lexer.Equal:        {ast.OpEq, precEquality, false},
	lexer.EqualEqual:   {ast.OpEqEq, precEquality, false},
	lexer.TripleEqual:  {ast.OpEqEqEq, precEquality, false},
	lexer.QuadEqual:    {ast.OpEqEqEqEq, precEquality, false},
	lexer.NotEqual:     {ast.OpNotEq, precEquality, false},
	lexer.NotDouble:    {ast.OpNotEqEq, precEquality, false},
	lexer.NotTriple:    {ast.OpNotEqEqEq, precEquality, false},
	lexer.LessThan:     {ast.OpLt, precCompare, false},
	lexer.LessEqual:    {ast.OpLe, precCompare, false},
	lexer.GreaterThan:  {ast.OpGt, precCompare, false},
	lexer.GreaterEqual: {ast.OpGe, precCompare, false},
	lexer.Add:          {ast.OpAdd, precAdditive, false},
	lexer.Subtract:     {ast.OpSub, precAdditive, false},
	lexer.Multiply:     {ast.OpMul, precFactor, false},
	lexer.Divide:       {ast.OpDiv, precFactor, false},
	lexer.Caret:        {ast.OpExp, precPower, true},
}

func (p *Parser) parseExpression() (ast.Expression, *diag.Error) {
	return p.parseBinary(0)
}

// parseStatementExpression parses the expression that opens a simple
// statement. A bare `=` at bracket depth zero is left for the caller, which
// treats it as an assignment rather than coercing equality.
func (p *Parser) parseStatementExpression() (ast.Expression, *diag.Error) {
	p.suppressTopEq = true
	defer func() { p.suppressTopEq = false }()
	return p.parseBinary(0)
}

func (p *Parser) parseBinary(minPower int) (ast.Expression, *diag.Error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		opTok := p.cur()
		info, ok := binaryOps[opTok.Type]
		if !ok {
			return left, nil
		}
		if opTok.Type == lexer.Equal && p.suppressTopEq && p.depth == 0 {
			return left, nil
		}
		power := effectivePower(info.base, opTok.Space, p.peek(1).Space)
		if power < minPower {
			return left, nil
		}
		p.advance()
		next := power + 1
		if info.rightAssoc {
			next = power
		}
		right, rightErr := p.parseBinary(next)
		if rightErr != nil {
			return nil, rightErr
		}
		left = ast.NewBinaryExpression(info.op, left, right, opTok.Line)
	}
}

func effectivePower(base, before, after int) int {
	spacing := before
	if after > spacing {
		spacing = after
	}
	if spacing > maxSpacing {
		spacing = maxSpacing
	}
	return (maxSpacing-spacing)*spacingStride + base
}

func (p *Parser) parseUnary() (ast.Expression, *diag.Error) {
	tok := p.cur()
	switch tok.Type {
	case lexer.Subtract:
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.NewUnaryExpression("-", operand, tok.Line), nil
	case lexer.Semicolon:
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.NewUnaryExpression(";", operand, tok.Line), nil
	}
	if tok.Type == lexer.Name && tok.Value == "await" {
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.NewAwaitExpression(operand, tok.Line), nil
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() (ast.Expression, *diag.Error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.cur().Type {
		case lexer.LParen:
			args, argsErr := p.parseArguments()
			if argsErr != nil {
				return nil, argsErr
			}
			if temporal := temporalCall(expr, args); temporal != nil {
				expr = temporal
			} else {
				expr = ast.NewCallExpression(expr, args, expr.Pos())
			}
		case lexer.LSquare:
			p.advance()
			p.depth++
			index, idxErr := p.parseExpression()
			if idxErr != nil {
				return nil, idxErr
			}
			p.depth--
			if _, rbErr := p.expect(lexer.RSquare); rbErr != nil {
				return nil, rbErr
			}
			expr = ast.NewIndexExpression(expr, index, expr.Pos())
		case lexer.Dot:
			p.advance()
			nameTok, nameErr := p.expect(lexer.Name)
			if nameErr != nil {
				return nil, nameErr
			}
			for _, part := range strings.Split(nameTok.Value, ".") {
				expr = ast.NewMemberExpression(expr, part, nameTok.Line)
			}
		default:
			return expr, nil
		}
	}
}

// temporalCall rewrites previous(x), current(x) and next(x) into temporal
// reads when the argument is a plain name.
func temporalCall(callee ast.Expression, args []ast.Expression) ast.Expression {
	id, ok := callee.(*ast.Identifier)
	if !ok || len(args) != 1 {
		return nil
	}
	arg, ok := args[0].(*ast.Identifier)
	if !ok {
		return nil
	}
	switch id.Name {
	case "previous":
		return ast.NewTemporalExpression(ast.TemporalPrevious, arg, id.Pos())
	case "current":
		return ast.NewTemporalExpression(ast.TemporalCurrent, arg, id.Pos())
	case "next":
		return ast.NewTemporalExpression(ast.TemporalNext, arg, id.Pos())
	}
	return nil
}

func (p *Parser) parseArguments() ([]ast.Expression, *diag.Error) {
	if _, err := p.expect(lexer.LParen); err != nil {
		return nil, err
	}
	p.depth++
	defer func() { p.depth-- }()
	var args []ast.Expression
	for p.cur().Type != lexer.RParen {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.cur().Type == lexer.Comma {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(lexer.RParen); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *Parser) parsePrimary() (ast.Expression, *diag.Error) {
	tok := p.cur()
	switch tok.Type {
	case lexer.Number:
		p.advance()
		n, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil {
			return nil, p.errAt(tok, fmt.Sprintf("invalid number %q", tok.Value))
		}
		return ast.NewNumberLiteral(n, tok.Line), nil

	case lexer.String:
		p.advance()
		return ast.NewStringLiteral(tok.Value, tok.Line), nil

	case lexer.InterpolatedString:
		p.advance()
		return p.parseInterpolation(tok)

	case lexer.LParen:
		p.advance()
		p.depth++
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		p.depth--
		if _, err := p.expect(lexer.RParen); err != nil {
			return nil, err
		}
		return expr, nil

	case lexer.LSquare:
		p.advance()
		p.depth++
		var elements []ast.Expression
		for p.cur().Type != lexer.RSquare {
			elem, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			elements = append(elements, elem)
			if p.cur().Type == lexer.Comma {
				p.advance()
				continue
			}
			break
		}
		p.depth--
		if _, err := p.expect(lexer.RSquare); err != nil {
			return nil, err
		}
		return ast.NewListLiteral(elements, tok.Line), nil

	case lexer.Name:
		p.advance()
		switch tok.Value {
		case "true":
			return ast.NewBooleanLiteral(ast.BoolTrue, tok.Line), nil
		case "false":
			return ast.NewBooleanLiteral(ast.BoolFalse, tok.Line), nil
		case "maybe":
			return ast.NewBooleanLiteral(ast.BoolMaybe, tok.Line), nil
		case "undefined":
			return ast.NewUndefinedLiteral(tok.Line), nil
		case "new":
			return p.parseNewExpression(tok)
		}
		return splitDottedName(tok), nil
	}
	return nil, p.errAt(tok, fmt.Sprintf("unexpected %s in expression", tok.Type))
}

func (p *Parser) parseNewExpression(kw lexer.Token) (ast.Expression, *diag.Error) {
	nameTok, err := p.expect(lexer.Name)
	if err != nil {
		return nil, err
	}
	className := ast.NewIdentifier(nameTok.Value, nameTok.Line)
	var args []ast.Expression
	if p.cur().Type == lexer.LParen {
		args, err = p.parseArguments()
		if err != nil {
			return nil, err
		}
	}
	return ast.NewNewExpression(className, args, kw.Line), nil
}

// splitDottedName expands a dotted name token into a member chain rooted at
// its first segment.
func splitDottedName(tok lexer.Token) ast.Expression {
	parts := strings.Split(tok.Value, ".")
	var expr ast.Expression = ast.NewIdentifier(parts[0], tok.Line)
	for _, part := range parts[1:] {
		expr = ast.NewMemberExpression(expr, part, tok.Line)
	}
	return expr
}

// parseInterpolation splits an interpolated string body into literal and
// ${...} parts, parsing each embedded expression with a fresh sub-parser.
func (p *Parser) parseInterpolation(tok lexer.Token) (ast.Expression, *diag.Error) {
	var parts []ast.Expression
	body := tok.Value
	for len(body) > 0 {
		start := strings.Index(body, "${")
		if start < 0 {
			parts = append(parts, ast.NewStringLiteral(body, tok.Line))
			break
		}
		if start > 0 {
			parts = append(parts, ast.NewStringLiteral(body[:start], tok.Line))
		}
		rest := body[start+2:]
		end := matchBrace(rest)
		if end < 0 {
			return nil, p.errAt(tok, "unterminated ${ in string")
		}
		inner := rest[:end]
		expr, err := p.parseEmbedded(inner, tok)
		if err != nil {
			return nil, err
		}
		parts = append(parts, expr)
		body = rest[end+1:]
	}
	if parts == nil {
		parts = []ast.Expression{ast.NewStringLiteral("", tok.Line)}
	}
	return ast.NewInterpolatedString(parts, tok.Line), nil
}

// matchBrace finds the closing brace for an already-opened `${`, honoring
// nested braces. Returns -1 when unbalanced.
func matchBrace(s string) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			if depth == 0 {
				return i
			}
			depth--
		}
	}
	return -1
}

func (p *Parser) parseEmbedded(src string, at lexer.Token) (ast.Expression, *diag.Error) {
	tokens, err := lexer.Tokenize(p.filename, src)
	if err != nil {
		return nil, p.errAt(at, fmt.Sprintf("bad expression in string: %s", err.Message))
	}
	sub := &Parser{filename: p.filename, source: src, tokens: tokens, depth: 1}
	expr, err := sub.parseExpression()
	if err != nil {
		return nil, err
	}
	if sub.cur().Type != lexer.EOF {
		return nil, p.errAt(at, "trailing tokens in string expression")
	}
	return expr, nil
}
