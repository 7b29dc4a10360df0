// Package parser implements a recursive-descent, precedence-climbing
// parser that turns a token stream into an ast.Program. Parsing never
// stops at the first malformed construct: errors are collected and the
// parser synchronizes to the next statement boundary to keep looking for
// more.
package parser

import (
	"dialscript/ast"
	"dialscript/lexer"
	"dialscript/token"
	"unicode"
)

var equalityKinds = []token.Kind{token.ASSIGN_EQ, token.BANG_EQ}
var comparisonKinds = []token.Kind{token.LESS, token.GREATER, token.LESS_EQ, token.GREATER_EQ}
var termKinds = []token.Kind{token.PLUS, token.MINUS}
var factorKinds = []token.Kind{token.STAR, token.SLASH, token.PERCENT}
var unaryKinds = []token.Kind{token.MINUS, token.NOT}

// Parser holds the full token stream and an index into it. The parser's
// position always names the next token to be consumed.
type Parser struct {
	tokens   []token.Token
	position int
}

// Make constructs a Parser over an already-scanned token stream.
func Make(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

// New lexes source to completion and returns a Parser over the result.
func New(source string) *Parser {
	lx := lexer.New(source)
	var tokens []token.Token
	for {
		tok := lx.NextToken()
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return Make(tokens)
}

func (p *Parser) peek() token.Token {
	return p.tokens[p.position]
}

func (p *Parser) peekAt(offset int) token.Token {
	i := p.position + offset
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[i]
}

func (p *Parser) previous() token.Token {
	return p.tokens[p.position-1]
}

func (p *Parser) advance() token.Token {
	if !p.isFinished() {
		p.position++
	}
	return p.previous()
}

func (p *Parser) isFinished() bool {
	return p.peek().Kind == token.EOF
}

func (p *Parser) checkKind(kind token.Kind) bool {
	if p.isFinished() {
		return false
	}
	return p.peek().Kind == kind
}

func (p *Parser) isMatch(kinds ...token.Kind) bool {
	for _, kind := range kinds {
		if p.checkKind(kind) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) consume(kind token.Kind, message string) (token.Token, error) {
	if p.checkKind(kind) {
		return p.advance(), nil
	}
	cur := p.peek()
	return cur, newSyntaxError(cur.Line, cur.Column, message)
}

// synchronize discards tokens until the next likely statement boundary,
// so a single malformed construct doesn't prevent finding later errors.
func (p *Parser) synchronize() {
	p.advance()
	for !p.isFinished() {
		if p.previous().Kind == token.SEMICOLON {
			return
		}
		switch p.peek().Kind {
		case token.FUNCTION, token.CLASS, token.VAR, token.FOR, token.IF,
			token.WHILE, token.RETURN, token.TRY, token.ASSIGN:
			return
		}
		p.advance()
	}
}

// Parse consumes the entire token stream and returns the resulting
// program along with every syntax error encountered.
func (p *Parser) Parse() (*ast.Program, []error) {
	program := &ast.Program{}
	var errs []error

	for !p.isFinished() {
		switch {
		case p.isMatch(token.FUNCTION):
			decl, err := p.functionDecl()
			if err != nil {
				errs = append(errs, err)
				p.synchronize()
				continue
			}
			program.Declarations = append(program.Declarations, decl)
		case p.isMatch(token.CLASS):
			decl, err := p.classDecl()
			if err != nil {
				errs = append(errs, err)
				p.synchronize()
				continue
			}
			program.Declarations = append(program.Declarations, decl)
		default:
			stmt, err := p.statement()
			if err != nil {
				errs = append(errs, err)
				p.synchronize()
				continue
			}
			program.Statements = append(program.Statements, stmt)
		}
	}

	return program, errs
}

func (p *Parser) statement() (ast.Stmt, error) {
	switch {
	case p.isMatch(token.VAR):
		return p.varDecl()
	case p.isMatch(token.ASSIGN):
		return p.assignStmt(true)
	case p.isMatch(token.IF):
		return p.ifStmt()
	case p.isMatch(token.WHILE):
		return p.whileStmt()
	case p.isMatch(token.FOR):
		return p.forStmt()
	case p.isMatch(token.TRY):
		return p.tryStmt()
	case p.isMatch(token.RETURN):
		return p.returnStmt()
	case p.isMatch(token.LBRACE):
		stmts, err := p.block()
		if err != nil {
			return nil, err
		}
		return ast.BlockStmt{Statements: stmts}, nil
	default:
		return p.expressionStmt(true)
	}
}

// varDecl parses "var name : initializer ;". The colon introduces the
// required initializer expression, not a type annotation.
func (p *Parser) varDecl() (ast.Stmt, error) {
	name, err := p.consume(token.IDENTIFIER, "Expected variable name")
	if err != nil {
		return nil, err
	}

	if _, err := p.consume(token.COLON, "Expected ':' after variable name"); err != nil {
		return nil, err
	}

	initializer, err := p.expression()
	if err != nil {
		return nil, err
	}

	if _, err := p.consume(token.SEMICOLON, "Expected ';' after variable declaration"); err != nil {
		return nil, err
	}

	return ast.VarStmt{Name: name, Initializer: initializer}, nil
}

// assignStmt parses "assign target value" with the leading ASSIGN token
// already consumed. When requireSemicolon is false (the for-loop post
// clause), the trailing ';' is left for the caller.
func (p *Parser) assignStmt(requireSemicolon bool) (ast.Stmt, error) {
	line, col := p.peek().Line, p.peek().Column
	target, err := p.postfix()
	if err != nil {
		return nil, err
	}
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	if requireSemicolon {
		if _, err := p.consume(token.SEMICOLON, "Expected ';' after assignment"); err != nil {
			return nil, err
		}
	}
	return ast.AssignStmt{Target: target, Value: value, Line: line, Col: col}, nil
}

func (p *Parser) ifStmt() (ast.Stmt, error) {
	if _, err := p.consume(token.LPAREN, "Expected '(' after 'if'"); err != nil {
		return nil, err
	}
	condition, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RPAREN, "Expected ')' after if condition"); err != nil {
		return nil, err
	}
	thenBranch, err := p.statement()
	if err != nil {
		return nil, err
	}
	var elseBranch ast.Stmt
	if p.isMatch(token.ELSE) {
		elseBranch, err = p.statement()
		if err != nil {
			return nil, err
		}
	}
	return ast.IfStmt{Condition: condition, ThenBranch: thenBranch, ElseBranch: elseBranch}, nil
}

func (p *Parser) whileStmt() (ast.Stmt, error) {
	if _, err := p.consume(token.LPAREN, "Expected '(' after 'while'"); err != nil {
		return nil, err
	}
	condition, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RPAREN, "Expected ')' after while condition"); err != nil {
		return nil, err
	}
	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	return ast.WhileStmt{Condition: condition, Body: body}, nil
}

func (p *Parser) forStmt() (ast.Stmt, error) {
	if _, err := p.consume(token.LPAREN, "Expected '(' after 'for'"); err != nil {
		return nil, err
	}

	var init ast.Stmt
	var err error
	switch {
	case p.isMatch(token.SEMICOLON):
		init = nil
	case p.isMatch(token.VAR):
		init, err = p.varDecl()
	case p.isMatch(token.ASSIGN):
		init, err = p.assignStmt(true)
	default:
		init, err = p.expressionStmt(true)
	}
	if err != nil {
		return nil, err
	}

	var condition ast.Expression
	if !p.checkKind(token.SEMICOLON) {
		condition, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(token.SEMICOLON, "Expected ';' after for condition"); err != nil {
		return nil, err
	}

	var post ast.Stmt
	if !p.checkKind(token.RPAREN) {
		if p.isMatch(token.ASSIGN) {
			post, err = p.assignStmt(false)
		} else {
			post, err = p.expressionStmt(false)
		}
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(token.RPAREN, "Expected ')' after for clauses"); err != nil {
		return nil, err
	}

	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	return ast.ForStmt{Init: init, Condition: condition, Post: post, Body: body}, nil
}

func (p *Parser) tryStmt() (ast.Stmt, error) {
	tryBlock, err := p.statement()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.CATCH, "Expected 'catch' after try block"); err != nil {
		return nil, err
	}
	if _, err := p.consume(token.LPAREN, "Expected '(' after 'catch'"); err != nil {
		return nil, err
	}
	name, err := p.consume(token.IDENTIFIER, "Expected caught error name")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RPAREN, "Expected ')' after catch name"); err != nil {
		return nil, err
	}
	catchBlock, err := p.statement()
	if err != nil {
		return nil, err
	}
	var finallyBlock ast.Stmt
	if p.isMatch(token.FINALLY) {
		finallyBlock, err = p.statement()
		if err != nil {
			return nil, err
		}
	}
	return ast.TryStmt{TryBlock: tryBlock, CatchName: name, CatchBlock: catchBlock, FinallyBlock: finallyBlock}, nil
}

func (p *Parser) returnStmt() (ast.Stmt, error) {
	line, col := p.previous().Line, p.previous().Column
	if p.isMatch(token.SEMICOLON) {
		return ast.ReturnStmt{Line: line, Col: col}, nil
	}
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.SEMICOLON, "Expected ';' after return value"); err != nil {
		return nil, err
	}
	return ast.ReturnStmt{Value: value, Line: line, Col: col}, nil
}

func (p *Parser) expressionStmt(requireSemicolon bool) (ast.Stmt, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if requireSemicolon {
		if _, err := p.consume(token.SEMICOLON, "Expected ';' after expression"); err != nil {
			return nil, err
		}
	}
	return ast.ExpressionStmt{Expression: expr}, nil
}

func (p *Parser) block() ([]ast.Stmt, error) {
	var statements []ast.Stmt
	for !p.checkKind(token.RBRACE) && !p.isFinished() {
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
	}
	if _, err := p.consume(token.RBRACE, "Expected '}' after block"); err != nil {
		return nil, err
	}
	return statements, nil
}

func (p *Parser) functionDecl() (ast.Decl, error) {
	name, err := p.consume(token.IDENTIFIER, "Expected function name")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.LPAREN, "Expected '(' after function name"); err != nil {
		return nil, err
	}
	params, err := p.parameterList()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RPAREN, "Expected ')' after parameters"); err != nil {
		return nil, err
	}
	var retType ast.TypeNode
	if p.isMatch(token.COLON) {
		retType, err = p.parseType()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(token.LBRACE, "Expected '{' before function body"); err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return ast.FunctionDecl{Name: name, Parameters: params, ReturnType: retType, Body: body}, nil
}

func (p *Parser) parameterList() ([]ast.Parameter, error) {
	var params []ast.Parameter
	if p.checkKind(token.RPAREN) {
		return params, nil
	}
	for {
		name, err := p.consume(token.IDENTIFIER, "Expected parameter name")
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.COLON, "Expected ':' after parameter name"); err != nil {
			return nil, err
		}
		ptype, err := p.parseType()
		if err != nil {
			return nil, err
		}
		params = append(params, ast.Parameter{Name: name, Type: ptype})
		if !p.isMatch(token.COMMA) {
			break
		}
	}
	return params, nil
}

// classDecl implements the field-vs-method disambiguation contract: the
// member name is consumed exactly once, then the parser branches on
// whether '(' (method) or ':' (field) follows.
func (p *Parser) classDecl() (ast.Decl, error) {
	name, err := p.consume(token.IDENTIFIER, "Expected class name")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.LBRACE, "Expected '{' after class name"); err != nil {
		return nil, err
	}

	var fields []ast.FieldDecl
	var methods []ast.MethodDecl
	var constructor *ast.ConstructorDecl

	for !p.checkKind(token.RBRACE) && !p.isFinished() {
		if p.isMatch(token.CONSTRUCTOR) {
			if _, err := p.consume(token.LPAREN, "Expected '(' after 'constructor'"); err != nil {
				return nil, err
			}
			params, err := p.parameterList()
			if err != nil {
				return nil, err
			}
			if _, err := p.consume(token.RPAREN, "Expected ')' after constructor parameters"); err != nil {
				return nil, err
			}
			if _, err := p.consume(token.LBRACE, "Expected '{' before constructor body"); err != nil {
				return nil, err
			}
			body, err := p.block()
			if err != nil {
				return nil, err
			}
			constructor = &ast.ConstructorDecl{Parameters: params, Body: body}
			continue
		}

		memberName, err := p.consume(token.IDENTIFIER, "Expected field or method name")
		if err != nil {
			return nil, err
		}

		if p.checkKind(token.LPAREN) {
			p.advance()
			params, err := p.parameterList()
			if err != nil {
				return nil, err
			}
			if _, err := p.consume(token.RPAREN, "Expected ')' after method parameters"); err != nil {
				return nil, err
			}
			var retType ast.TypeNode
			if p.isMatch(token.COLON) {
				retType, err = p.parseType()
				if err != nil {
					return nil, err
				}
			}
			if _, err := p.consume(token.LBRACE, "Expected '{' before method body"); err != nil {
				return nil, err
			}
			body, err := p.block()
			if err != nil {
				return nil, err
			}
			methods = append(methods, ast.MethodDecl{Name: memberName, Parameters: params, ReturnType: retType, Body: body})
			continue
		}

		if _, err := p.consume(token.COLON, "Expected ':' after field name"); err != nil {
			return nil, err
		}
		ftype, err := p.parseType()
		if err != nil {
			return nil, err
		}
		var initializer ast.Expression
		if p.isMatch(token.ASSIGN_EQ) {
			initializer, err = p.expression()
			if err != nil {
				return nil, err
			}
		}
		if _, err := p.consume(token.SEMICOLON, "Expected ';' after field declaration"); err != nil {
			return nil, err
		}
		fields = append(fields, ast.FieldDecl{Name: memberName, Type: ftype, Initializer: initializer})
	}

	if _, err := p.consume(token.RBRACE, "Expected '}' after class body"); err != nil {
		return nil, err
	}

	return ast.ClassDecl{Name: name, Fields: fields, Constructor: constructor, Methods: methods}, nil
}

func (p *Parser) parseType() (ast.TypeNode, error) {
	var base ast.TypeNode
	tok := p.peek()
	switch {
	case token.TypeKeywords[tok.Kind]:
		p.advance()
		base = ast.PrimitiveType{Kind: tok.Kind}
	case p.checkKind(token.IDENTIFIER):
		p.advance()
		base = ast.NamedType{Name: tok}
	default:
		return nil, newSyntaxError(tok.Line, tok.Column, "Expected type name")
	}

	for p.isMatch(token.LBRACKET) {
		if _, err := p.consume(token.RBRACKET, "Expected ']' after '[' in array type"); err != nil {
			return nil, err
		}
		base = ast.ArrayType{Element: base}
	}
	if p.isMatch(token.QUESTION) {
		base = ast.NullableType{Underlying: base}
	}
	return base, nil
}

// expression is the entry point for the precedence ladder:
// ternary -> or -> and -> equality -> comparison -> term -> factor ->
// unary -> postfix -> primary.
func (p *Parser) expression() (ast.Expression, error) {
	return p.ternary()
}

func (p *Parser) ternary() (ast.Expression, error) {
	condition, err := p.or()
	if err != nil {
		return nil, err
	}
	if p.isMatch(token.QUESTION) {
		line, col := p.previous().Line, p.previous().Column
		thenExpr, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.COLON, "Expected ':' in ternary expression"); err != nil {
			return nil, err
		}
		elseExpr, err := p.ternary()
		if err != nil {
			return nil, err
		}
		return ast.Ternary{Condition: condition, Then: thenExpr, Else: elseExpr, Line: line, Col: col}, nil
	}
	return condition, nil
}

func (p *Parser) or() (ast.Expression, error) {
	expr, err := p.and()
	if err != nil {
		return nil, err
	}
	for p.isMatch(token.OR) {
		op := p.previous()
		right, err := p.and()
		if err != nil {
			return nil, err
		}
		expr = ast.Logical{Left: expr, Operator: op, Right: right}
	}
	return expr, nil
}

func (p *Parser) and() (ast.Expression, error) {
	expr, err := p.equality()
	if err != nil {
		return nil, err
	}
	for p.isMatch(token.AND) {
		op := p.previous()
		right, err := p.equality()
		if err != nil {
			return nil, err
		}
		expr = ast.Logical{Left: expr, Operator: op, Right: right}
	}
	return expr, nil
}

func (p *Parser) equality() (ast.Expression, error) {
	return p.binaryLevel(p.comparison, equalityKinds)
}

func (p *Parser) comparison() (ast.Expression, error) {
	return p.binaryLevel(p.term, comparisonKinds)
}

func (p *Parser) term() (ast.Expression, error) {
	return p.binaryLevel(p.factor, termKinds)
}

func (p *Parser) factor() (ast.Expression, error) {
	return p.binaryLevel(p.unary, factorKinds)
}

// binaryLevel is shared by the four left-associative binary-operator
// precedence levels: it parses one operand via next, then folds in any
// number of same-level operators.
func (p *Parser) binaryLevel(next func() (ast.Expression, error), kinds []token.Kind) (ast.Expression, error) {
	expr, err := next()
	if err != nil {
		return nil, err
	}
	for p.isMatch(kinds...) {
		op := p.previous()
		right, err := next()
		if err != nil {
			return nil, err
		}
		expr = ast.Binary{Left: expr, Operator: op, Right: right}
	}
	return expr, nil
}

func (p *Parser) unary() (ast.Expression, error) {
	if p.isMatch(unaryKinds...) {
		op := p.previous()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		return ast.Unary{Operator: op, Right: right}, nil
	}
	return p.postfix()
}

// postfix handles call, member-access and index trailers following a
// primary expression: f(x).y[0](z).
func (p *Parser) postfix() (ast.Expression, error) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.isMatch(token.LPAREN):
			line, col := p.previous().Line, p.previous().Column
			args, err := p.argumentList()
			if err != nil {
				return nil, err
			}
			if _, err := p.consume(token.RPAREN, "Expected ')' after arguments"); err != nil {
				return nil, err
			}
			expr = ast.Call{Callee: expr, Arguments: args, Line: line, Col: col}
		case p.isMatch(token.DOT):
			name, err := p.consume(token.IDENTIFIER, "Expected member name after '.'")
			if err != nil {
				return nil, err
			}
			expr = ast.MemberAccess{Object: expr, Name: name, Line: name.Line, Col: name.Column}
		case p.isMatch(token.LBRACKET):
			line, col := p.previous().Line, p.previous().Column
			index, err := p.expression()
			if err != nil {
				return nil, err
			}
			if _, err := p.consume(token.RBRACKET, "Expected ']' after array index"); err != nil {
				return nil, err
			}
			expr = ast.ArrayAccess{Array: expr, Index: index, Line: line, Col: col}
		default:
			return expr, nil
		}
	}
}

func (p *Parser) argumentList() ([]ast.Expression, error) {
	var args []ast.Expression
	if p.checkKind(token.RPAREN) {
		return args, nil
	}
	for {
		arg, err := p.expression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if !p.isMatch(token.COMMA) {
			break
		}
	}
	return args, nil
}

func isUpperFirst(s string) bool {
	if s == "" {
		return false
	}
	return unicode.IsUpper([]rune(s)[0])
}

func (p *Parser) primary() (ast.Expression, error) {
	tok := p.peek()

	switch {
	case p.isMatch(token.FALSE):
		return ast.Literal{Value: false, Line: tok.Line, Col: tok.Column}, nil
	case p.isMatch(token.TRUE):
		return ast.Literal{Value: true, Line: tok.Line, Col: tok.Column}, nil
	case p.isMatch(token.NULL):
		return ast.Literal{Value: nil, Line: tok.Line, Col: tok.Column}, nil
	case p.isMatch(token.INT, token.FLOAT, token.STRING):
		return ast.Literal{Value: p.previous().Literal, Line: tok.Line, Col: tok.Column}, nil
	case p.checkKind(token.LBRACKET):
		return p.arrayLiteral()
	case p.checkKind(token.BACKTICK):
		return p.templateLiteral()
	case token.TypeKeywords[tok.Kind] && p.peekAt(1).Kind == token.LPAREN:
		p.advance()
		p.advance() // consume '('
		args, err := p.argumentList()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.RPAREN, "Expected ')' after constructor arguments"); err != nil {
			return nil, err
		}
		return ast.ConstructorCall{TypeName: tok, Arguments: args, Line: tok.Line, Col: tok.Column}, nil
	case p.checkKind(token.IDENTIFIER):
		idTok := p.advance()
		if isUpperFirst(idTok.Lexeme) && p.checkKind(token.LPAREN) {
			p.advance()
			args, err := p.argumentList()
			if err != nil {
				return nil, err
			}
			if _, err := p.consume(token.RPAREN, "Expected ')' after constructor arguments"); err != nil {
				return nil, err
			}
			return ast.ConstructorCall{TypeName: idTok, Arguments: args, Line: idTok.Line, Col: idTok.Column}, nil
		}
		return ast.Variable{Name: idTok}, nil
	case p.isMatch(token.LPAREN):
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.RPAREN, "Expected ')' after expression"); err != nil {
			return nil, err
		}
		return ast.Grouping{Expression: expr}, nil
	}

	return nil, newSyntaxError(tok.Line, tok.Column, "Unrecognised expression")
}

func (p *Parser) arrayLiteral() (ast.Expression, error) {
	open := p.advance() // '['
	var elements []ast.Expression
	if !p.checkKind(token.RBRACKET) {
		for {
			elem, err := p.expression()
			if err != nil {
				return nil, err
			}
			elements = append(elements, elem)
			if !p.isMatch(token.COMMA) {
				break
			}
		}
	}
	if _, err := p.consume(token.RBRACKET, "Expected ']' after array elements"); err != nil {
		return nil, err
	}
	return ast.ArrayLiteral{Elements: elements, Line: open.Line, Col: open.Column}, nil
}

func (p *Parser) templateLiteral() (ast.Expression, error) {
	open := p.advance() // '`'
	var parts []ast.TemplatePart
	for !p.checkKind(token.BACKTICK) && !p.isFinished() {
		switch {
		case p.checkKind(token.TEMPLATE_TEXT):
			text := p.advance()
			parts = append(parts, ast.TemplatePart{Text: text.Literal.(string)})
		case p.isMatch(token.TEMPLATE_START):
			expr, err := p.expression()
			if err != nil {
				return nil, err
			}
			parts = append(parts, ast.TemplatePart{Expr: expr})
		default:
			tok := p.peek()
			return nil, newSyntaxError(tok.Line, tok.Column, "Malformed template literal")
		}
	}
	if _, err := p.consume(token.BACKTICK, "Expected closing '`'"); err != nil {
		return nil, err
	}
	return ast.TemplateLiteral{Parts: parts, Line: open.Line, Col: open.Column}, nil
}
