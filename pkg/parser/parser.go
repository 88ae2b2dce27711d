package parser

import (
	"fmt"
	"strconv"
	"strings"

	"gulfofmexico/interpreter-go/pkg/ast"
	"gulfofmexico/interpreter-go/pkg/diag"
	"gulfofmexico/interpreter-go/pkg/lexer"
)

// Parser consumes a token stream and produces statement nodes. It performs
// no evaluation; keyword spellings are normalized here so the AST's tag set
// stays closed.
type Parser struct {
	filename string
	source   string
	tokens   []lexer.Token
	pos      int

	// depth counts open parens/brackets/braces; a bare `=` at depth zero
	// belongs to an assignment statement, not a coercing-equality
	// expression, when suppressTopEq is set.
	depth         int
	suppressTopEq bool
}

// Parse tokenizes and parses a source unit.
func Parse(filename, source string) ([]ast.Statement, *diag.Error) {
	tokens, err := lexer.Tokenize(filename, source)
	if err != nil {
		return nil, err
	}
	return ParseTokens(filename, source, tokens)
}

// ParseTokens parses a pre-lexed token stream.
func ParseTokens(filename, source string, tokens []lexer.Token) ([]ast.Statement, *diag.Error) {
	p := &Parser{filename: filename, source: source, tokens: tokens}
	return p.parseStatements(lexer.EOF)
}

func (p *Parser) cur() lexer.Token {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	return lexer.Token{Type: lexer.EOF}
}

func (p *Parser) peek(n int) lexer.Token {
	if p.pos+n < len(p.tokens) {
		return p.tokens[p.pos+n]
	}
	return lexer.Token{Type: lexer.EOF}
}

func (p *Parser) advance() lexer.Token {
	tok := p.cur()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) expect(tt lexer.TokenType) (lexer.Token, *diag.Error) {
	tok := p.cur()
	if tok.Type != tt {
		return tok, p.errAt(tok, fmt.Sprintf("expected %s, found %s", tt, tok.Type))
	}
	p.advance()
	return tok, nil
}

func (p *Parser) errAt(tok lexer.Token, message string) *diag.Error {
	width := len(tok.Value)
	if width == 0 {
		width = 1
	}
	return diag.At(diag.KindParse, message, p.source, tok.Line, tok.Col, width)
}

func (p *Parser) skipNewlines() {
	for p.cur().Type == lexer.Newline {
		p.advance()
	}
}

// terminator consumes the statement-ending marker run and returns
// (confidence, debug). A `!` run carries confidence equal to its length; a
// `?` run requests debug output at a verbosity equal to its length.
func (p *Parser) terminator() (int, int, *diag.Error) {
	tok := p.cur()
	switch tok.Type {
	case lexer.Bang:
		p.advance()
		return len(tok.Value), 0, nil
	case lexer.Question:
		p.advance()
		return 0, len(tok.Value), nil
	default:
		return 0, 0, p.errAt(tok, "statement must end with '!' or '?'")
	}
}

// optionalTerminator consumes a marker run when one is present; block-bodied
// statements do not require one.
func (p *Parser) optionalTerminator() {
	if p.cur().Type == lexer.Bang || p.cur().Type == lexer.Question {
		p.advance()
	}
}

func (p *Parser) parseStatements(until lexer.TokenType) ([]ast.Statement, *diag.Error) {
	var statements []ast.Statement
	for {
		p.skipNewlines()
		if p.cur().Type == until || p.cur().Type == lexer.EOF {
			break
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
	}
	return statements, nil
}

func (p *Parser) parseBlock() ([]ast.Statement, *diag.Error) {
	if _, err := p.expect(lexer.LCurly); err != nil {
		return nil, err
	}
	body, err := p.parseStatements(lexer.RCurly)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RCurly); err != nil {
		return nil, err
	}
	return body, nil
}

func (p *Parser) parseStatement() (ast.Statement, *diag.Error) {
	tok := p.cur()
	if tok.Type == lexer.Name {
		switch canonicalKeyword(tok.Value) {
		case "const", "var":
			return p.parseDeclaration()
		case "function":
			if p.looksLikeFunctionDefinition(0) {
				return p.parseFunctionDefinition(false)
			}
		case "async":
			if p.peek(1).Type == lexer.Name && canonicalKeyword(p.peek(1).Value) == "function" {
				p.advance()
				return p.parseFunctionDefinition(true)
			}
		case "class":
			return p.parseClassDeclaration()
		case "if":
			return p.parseConditional()
		case "when":
			return p.parseWhen()
		case "after":
			return p.parseAfter()
		case "return":
			return p.parseReturn()
		case "delete":
			return p.parseDelete()
		case "export":
			return p.parseExport()
		case "import":
			return p.parseImport()
		case "reverse":
			p.advance()
			if _, _, err := p.terminator(); err != nil {
				return nil, err
			}
			return ast.NewReverseStatement(tok.Line), nil
		case "noop":
			p.advance()
			if _, _, err := p.terminator(); err != nil {
				return nil, err
			}
			return ast.NewNoopStatement(tok.Line), nil
		}
	}
	return p.parseSimpleStatement()
}

// looksLikeFunctionDefinition disambiguates function-keyword spellings
// (every ordered subsequence of "function" is one) from plain names: a
// definition is keyword, name, parameter list.
func (p *Parser) looksLikeFunctionDefinition(at int) bool {
	return p.peek(at+1).Type == lexer.Name && p.peek(at+2).Type == lexer.LParen
}

func (p *Parser) parseDeclaration() (ast.Statement, *diag.Error) {
	first := p.advance() // const | var
	second := p.cur()
	if second.Type != lexer.Name || (canonicalKeyword(second.Value) != "const" && canonicalKeyword(second.Value) != "var") {
		return nil, p.errAt(second, "declaration requires two mutability keywords (const/var)")
	}
	p.advance()

	canReassign := canonicalKeyword(first.Value) == "var"
	canEditContent := canonicalKeyword(second.Value) == "var"
	var lifetime *ast.LifetimeSpec

	// A third `const` declares the globally immutable class persisted
	// across runs.
	if !canReassign && !canEditContent &&
		p.cur().Type == lexer.Name && canonicalKeyword(p.cur().Value) == "const" {
		p.advance()
		lifetime = &ast.LifetimeSpec{Forever: true}
	}

	nameTok, err := p.expect(lexer.Name)
	if err != nil {
		return nil, err
	}
	if strings.Contains(nameTok.Value, ".") {
		return nil, p.errAt(nameTok, "variable names cannot contain '.'")
	}

	if p.cur().Type == lexer.LessThan {
		lt, ltErr := p.parseLifetimeSuffix()
		if ltErr != nil {
			return nil, ltErr
		}
		if lifetime != nil && lifetime.Forever {
			return nil, p.errAt(nameTok, "a globally immutable declaration already has an infinite lifetime")
		}
		lifetime = lt
	}

	if _, err := p.expect(lexer.Equal); err != nil {
		return nil, err
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	confidence, debug, err := p.terminator()
	if err != nil {
		return nil, err
	}
	return ast.NewVariableDeclaration(nameTok.Value, canReassign, canEditContent,
		lifetime, confidence, debug, value, first.Line), nil
}

// parseLifetimeSuffix parses `<N>` (statements), `<Ns>` (seconds) and
// `<Infinity>` (forever).
func (p *Parser) parseLifetimeSuffix() (*ast.LifetimeSpec, *diag.Error) {
	if _, err := p.expect(lexer.LessThan); err != nil {
		return nil, err
	}
	tok := p.cur()
	spec := &ast.LifetimeSpec{}
	switch tok.Type {
	case lexer.Number:
		p.advance()
		n, parseErr := strconv.ParseFloat(tok.Value, 64)
		if parseErr != nil {
			return nil, p.errAt(tok, "invalid lifetime duration")
		}
		if p.cur().Type == lexer.Name && p.cur().Value == "s" {
			p.advance()
			spec.Seconds = n
		} else {
			spec.Lines = int(n)
		}
	case lexer.Name:
		if tok.Value != "Infinity" {
			return nil, p.errAt(tok, "unknown lifetime; expected a count, a duration in seconds, or Infinity")
		}
		p.advance()
		spec.Forever = true
	default:
		return nil, p.errAt(tok, "unknown lifetime; expected a count, a duration in seconds, or Infinity")
	}
	if _, err := p.expect(lexer.GreaterThan); err != nil {
		return nil, err
	}
	return spec, nil
}

func (p *Parser) parseFunctionDefinition(isAsync bool) (ast.Statement, *diag.Error) {
	kw := p.advance() // the function spelling
	nameTok, err := p.expect(lexer.Name)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LParen); err != nil {
		return nil, err
	}
	var params []string
	for p.cur().Type != lexer.RParen {
		param, paramErr := p.expect(lexer.Name)
		if paramErr != nil {
			return nil, paramErr
		}
		params = append(params, param.Value)
		if p.cur().Type == lexer.Comma {
			p.advance()
		}
	}
	p.advance() // RParen
	if p.cur().Type == lexer.FuncPoint {
		p.advance()
	}

	if p.cur().Type == lexer.LCurly {
		body, bodyErr := p.parseBlock()
		if bodyErr != nil {
			return nil, bodyErr
		}
		p.optionalTerminator()
		return ast.NewFunctionDefinition(nameTok.Value, params, body, isAsync, kw.Line), nil
	}

	// Expression-bodied form desugars to a single return.
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	_, debug, err := p.terminator()
	if err != nil {
		return nil, err
	}
	body := []ast.Statement{ast.NewReturnStatement(value, debug, kw.Line)}
	return ast.NewFunctionDefinition(nameTok.Value, params, body, isAsync, kw.Line), nil
}

func (p *Parser) parseClassDeclaration() (ast.Statement, *diag.Error) {
	kw := p.advance()
	nameTok, err := p.expect(lexer.Name)
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	p.optionalTerminator()
	return ast.NewClassDeclaration(nameTok.Value, body, kw.Line), nil
}

func (p *Parser) parseConditional() (ast.Statement, *diag.Error) {
	kw := p.advance()
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	p.optionalTerminator()
	return ast.NewConditional(cond, body, kw.Line), nil
}

func (p *Parser) parseWhen() (ast.Statement, *diag.Error) {
	kw := p.advance()
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	p.optionalTerminator()
	return ast.NewWhenStatement(cond, body, kw.Line), nil
}

func (p *Parser) parseAfter() (ast.Statement, *diag.Error) {
	kw := p.advance()
	var event string
	switch p.cur().Type {
	case lexer.Name, lexer.String:
		event = p.advance().Value
	case lexer.LParen:
		p.advance()
		tok := p.cur()
		if tok.Type != lexer.Name && tok.Type != lexer.String {
			return nil, p.errAt(tok, "after requires an event name")
		}
		event = p.advance().Value
		if _, err := p.expect(lexer.RParen); err != nil {
			return nil, err
		}
	default:
		return nil, p.errAt(p.cur(), "after requires an event name")
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	p.optionalTerminator()
	return ast.NewAfterStatement(event, body, kw.Line), nil
}

func (p *Parser) parseReturn() (ast.Statement, *diag.Error) {
	kw := p.advance()
	if p.cur().Type == lexer.Bang || p.cur().Type == lexer.Question {
		_, debug, err := p.terminator()
		if err != nil {
			return nil, err
		}
		return ast.NewReturnStatement(nil, debug, kw.Line), nil
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	_, debug, err := p.terminator()
	if err != nil {
		return nil, err
	}
	return ast.NewReturnStatement(value, debug, kw.Line), nil
}

func (p *Parser) parseDelete() (ast.Statement, *diag.Error) {
	kw := p.advance()
	nameTok, err := p.expect(lexer.Name)
	if err != nil {
		return nil, err
	}
	if _, _, err := p.terminator(); err != nil {
		return nil, err
	}
	return ast.NewDeleteStatement(nameTok.Value, kw.Line), nil
}

func (p *Parser) parseExport() (ast.Statement, *diag.Error) {
	kw := p.advance()
	var names []string
	for {
		nameTok, err := p.expect(lexer.Name)
		if err != nil {
			return nil, err
		}
		if nameTok.Value == "to" {
			return nil, p.errAt(nameTok, "export requires at least one name")
		}
		names = append(names, nameTok.Value)
		if p.cur().Type == lexer.Comma {
			p.advance()
			continue
		}
		break
	}
	toTok, err := p.expect(lexer.Name)
	if err != nil {
		return nil, err
	}
	if toTok.Value != "to" {
		return nil, p.errAt(toTok, "expected 'to' in export statement")
	}
	target := p.cur()
	if target.Type != lexer.Name && target.Type != lexer.String {
		return nil, p.errAt(target, "export requires a destination section")
	}
	p.advance()
	if _, _, err := p.terminator(); err != nil {
		return nil, err
	}
	return ast.NewExportStatement(names, target.Value, kw.Line), nil
}

func (p *Parser) parseImport() (ast.Statement, *diag.Error) {
	kw := p.advance()
	var names []string
	for {
		nameTok, err := p.expect(lexer.Name)
		if err != nil {
			return nil, err
		}
		names = append(names, nameTok.Value)
		if p.cur().Type == lexer.Comma {
			p.advance()
			continue
		}
		break
	}
	if _, _, err := p.terminator(); err != nil {
		return nil, err
	}
	return ast.NewImportStatement(names, kw.Line), nil
}

// parseSimpleStatement handles assignments, increment/decrement sugar and
// expression statements.
func (p *Parser) parseSimpleStatement() (ast.Statement, *diag.Error) {
	start := p.cur()
	expr, err := p.parseStatementExpression()
	if err != nil {
		return nil, err
	}

	switch p.cur().Type {
	case lexer.Equal:
		if !assignable(expr) {
			return nil, p.errAt(p.cur(), "left side of assignment must be a name, index, or member")
		}
		p.advance()
		value, valErr := p.parseExpression()
		if valErr != nil {
			return nil, valErr
		}
		confidence, debug, termErr := p.terminator()
		if termErr != nil {
			return nil, termErr
		}
		return ast.NewVariableAssignment(expr, value, confidence, debug, start.Line), nil

	case lexer.Increment, lexer.Decrement:
		if !assignable(expr) {
			return nil, p.errAt(p.cur(), "increment target must be a name, index, or member")
		}
		op := ast.OpAdd
		if p.cur().Type == lexer.Decrement {
			op = ast.OpSub
		}
		p.advance()
		confidence, debug, termErr := p.terminator()
		if termErr != nil {
			return nil, termErr
		}
		sum := ast.NewBinaryExpression(op, expr, ast.NewNumberLiteral(1, start.Line), start.Line)
		return ast.NewVariableAssignment(expr, sum, confidence, debug, start.Line), nil
	}

	_, debug, err := p.terminator()
	if err != nil {
		return nil, err
	}
	return ast.NewExpressionStatement(expr, debug, start.Line), nil
}

func assignable(expr ast.Expression) bool {
	switch expr.(type) {
	case *ast.Identifier, *ast.IndexExpression, *ast.MemberExpression:
		return true
	}
	return false
}
