// Package parser turns source text into the ast.Program the lowering core
// consumes. It is thin glue, external to the lowering pass proper: a
// conventional Pratt expression parser over the ECMAScript-5 subset listed
// in the language specification, with no semantic analysis of its own.
package parser

import (
	"fmt"
	"strconv"

	"github.com/flattenjs/flattenjs/ast"
	"github.com/flattenjs/flattenjs/lexer"
)

// Precedence levels, lowest to highest.
const (
	_ int = iota
	LOWEST
	OR
	AND
	EQUALS
	RELATIONAL
	SUM
	PRODUCT
	PREFIX
	CALLPREC
	MEMBER
)

var precedences = map[lexer.TokenType]int{
	lexer.OR:      OR,
	lexer.AND:     AND,
	lexer.EQ:      EQUALS,
	lexer.NEQ:     EQUALS,
	lexer.SEQ:     EQUALS,
	lexer.SNEQ:    EQUALS,
	lexer.LT:      RELATIONAL,
	lexer.GT:      RELATIONAL,
	lexer.LTE:     RELATIONAL,
	lexer.GTE:     RELATIONAL,
	lexer.PLUS:    SUM,
	lexer.MINUS:   SUM,
	lexer.STAR:    PRODUCT,
	lexer.SLASH:   PRODUCT,
	lexer.PERCENT: PRODUCT,
	lexer.LPAREN:  CALLPREC,
	lexer.DOT:     MEMBER,
	lexer.LBRACKET: MEMBER,
}

type (
	prefixParseFn func() ast.Expr
	infixParseFn  func(ast.Expr) ast.Expr
)

// Parser is a recursive-descent/Pratt parser producing an *ast.Program.
type Parser struct {
	l      *lexer.Lexer
	errors []string

	curToken  lexer.Token
	peekToken lexer.Token

	prefixParseFns map[lexer.TokenType]prefixParseFn
	infixParseFns  map[lexer.TokenType]infixParseFn
}

// New creates a Parser reading from l.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l, errors: []string{}}

	p.prefixParseFns = map[lexer.TokenType]prefixParseFn{
		lexer.IDENT:     p.parseIdentifier,
		lexer.NUMBER:    p.parseNumberLiteral,
		lexer.STRING:    p.parseStringLiteral,
		lexer.TRUE:      p.parseBoolLiteral,
		lexer.FALSE:     p.parseBoolLiteral,
		lexer.NULL:      p.parseNullLiteral,
		lexer.UNDEFINED: p.parseUndefined,
		lexer.BANG:      p.parseUnaryExpr,
		lexer.MINUS:     p.parseUnaryExpr,
		lexer.PLUS:      p.parseUnaryExpr,
		lexer.TILDE:     p.parseUnaryExpr,
		lexer.TYPEOF:    p.parseUnaryExpr,
		lexer.VOID:      p.parseUnaryExpr,
		lexer.LPAREN:    p.parseGroupedExpr,
		lexer.FUNCTION:  p.parseFunctionExpr,
	}

	p.infixParseFns = map[lexer.TokenType]infixParseFn{
		lexer.PLUS:     p.parseBinaryExpr,
		lexer.MINUS:    p.parseBinaryExpr,
		lexer.STAR:     p.parseBinaryExpr,
		lexer.SLASH:    p.parseBinaryExpr,
		lexer.PERCENT:  p.parseBinaryExpr,
		lexer.EQ:       p.parseBinaryExpr,
		lexer.NEQ:      p.parseBinaryExpr,
		lexer.SEQ:      p.parseBinaryExpr,
		lexer.SNEQ:     p.parseBinaryExpr,
		lexer.LT:       p.parseBinaryExpr,
		lexer.GT:       p.parseBinaryExpr,
		lexer.LTE:      p.parseBinaryExpr,
		lexer.GTE:      p.parseBinaryExpr,
		lexer.AND:      p.parseBinaryExpr,
		lexer.OR:       p.parseBinaryExpr,
		lexer.LPAREN:   p.parseCallExpr,
		lexer.DOT:      p.parseMemberExpr,
		lexer.LBRACKET: p.parseIndexExpr,
	}

	p.nextToken()
	p.nextToken()

	return p
}

// Errors returns the accumulated parse errors.
func (p *Parser) Errors() []string {
	return p.errors
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curTokenIs(t lexer.TokenType) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t lexer.TokenType) bool { return p.peekToken.Type == t }

func (p *Parser) expectPeek(t lexer.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}

	p.peekError(t)

	return false
}

func (p *Parser) peekError(t lexer.TokenType) {
	p.errors = append(p.errors, fmt.Sprintf("line %d: expected next token to be %s, got %s instead",
		p.peekToken.Line, t, p.peekToken.Type))
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peekToken.Type]; ok {
		return pr
	}

	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.curToken.Type]; ok {
		return pr
	}

	return LOWEST
}

// skipSemicolon consumes an optional trailing ';' (simplified automatic
// semicolon insertion: semicolons are optional everywhere a statement ends).
func (p *Parser) skipSemicolon() {
	if p.peekTokenIs(lexer.SEMICOLON) {
		p.nextToken()
	}
}

// ParseProgram parses the entire input into an *ast.Program.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{}

	for !p.curTokenIs(lexer.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			prog.Body = append(prog.Body, stmt)
		}

		p.nextToken()
	}

	return prog
}

func (p *Parser) parseStatement() ast.Stmt {
	switch p.curToken.Type {
	case lexer.SEMICOLON:
		return &ast.EmptyStatement{}
	case lexer.DEBUGGER:
		return &ast.DebuggerStatement{}
	case lexer.LBRACE:
		return p.parseBlockStatement()
	case lexer.VAR:
		return p.parseVariableDeclaration()
	case lexer.FUNCTION:
		return p.parseFunctionDeclaration()
	case lexer.IF:
		return p.parseIfStatement()
	case lexer.WHILE:
		return p.parseWhileStatement()
	case lexer.DO:
		return p.parseDoWhileStatement()
	case lexer.FOR:
		return p.parseForStatement()
	case lexer.BREAK:
		return p.parseBreakStatement()
	case lexer.CONTINUE:
		return p.parseContinueStatement()
	case lexer.RETURN:
		return p.parseReturnStatement()
	case lexer.THROW:
		return p.parseThrowStatement()
	case lexer.TRY:
		return p.parseTryStatement()
	case lexer.SWITCH:
		return p.parseSwitchStatement()
	case lexer.IDENT:
		if p.peekTokenIs(lexer.COLON) {
			return p.parseLabeledStatement()
		}

		return p.parseExpressionStatement()
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	block := &ast.BlockStatement{}

	p.nextToken() // consume '{'

	for !p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			block.Body = append(block.Body, stmt)
		}

		p.nextToken()
	}

	return block
}

func (p *Parser) parseVariableDeclaration() *ast.VariableDeclaration {
	decl := &ast.VariableDeclaration{}

	for {
		if !p.expectPeek(lexer.IDENT) {
			return decl
		}

		d := &ast.VariableDeclarator{Name: p.curToken.Literal}

		if p.peekTokenIs(lexer.ASSIGN) {
			p.nextToken()
			p.nextToken()
			d.Init = p.parseExpression(LOWEST)
		}

		decl.Declarations = append(decl.Declarations, d)

		if p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
			continue
		}

		break
	}

	p.skipSemicolon()

	return decl
}

func (p *Parser) parseFunctionDeclaration() *ast.FunctionDeclaration {
	fd := &ast.FunctionDeclaration{}

	if !p.expectPeek(lexer.IDENT) {
		return fd
	}

	fd.Name = p.curToken.Literal
	fd.Params = p.parseParamList()

	if !p.expectPeek(lexer.LBRACE) {
		return fd
	}

	fd.Body = p.parseBlockStatement()

	return fd
}

func (p *Parser) parseParamList() []string {
	var params []string

	if !p.expectPeek(lexer.LPAREN) {
		return params
	}

	if p.peekTokenIs(lexer.RPAREN) {
		p.nextToken()
		return params
	}

	p.nextToken()
	params = append(params, p.curToken.Literal)

	for p.peekTokenIs(lexer.COMMA) {
		p.nextToken()
		p.nextToken()
		params = append(params, p.curToken.Literal)
	}

	p.expectPeek(lexer.RPAREN)

	return params
}

func (p *Parser) parseIfStatement() *ast.IfStatement {
	stmt := &ast.IfStatement{}

	if !p.expectPeek(lexer.LPAREN) {
		return stmt
	}

	p.nextToken()
	stmt.Test = p.parseExpression(LOWEST)

	if !p.expectPeek(lexer.RPAREN) {
		return stmt
	}

	p.nextToken()
	stmt.Consequent = p.parseStatement()

	if p.peekTokenIs(lexer.ELSE) {
		p.nextToken()
		p.nextToken()
		stmt.Alternate = p.parseStatement()
	}

	return stmt
}

func (p *Parser) parseWhileStatement() *ast.WhileStatement {
	stmt := &ast.WhileStatement{}

	if !p.expectPeek(lexer.LPAREN) {
		return stmt
	}

	p.nextToken()
	stmt.Test = p.parseExpression(LOWEST)

	if !p.expectPeek(lexer.RPAREN) {
		return stmt
	}

	p.nextToken()
	stmt.Body = p.parseStatement()

	return stmt
}

func (p *Parser) parseDoWhileStatement() *ast.DoWhileStatement {
	stmt := &ast.DoWhileStatement{}

	p.nextToken()
	stmt.Body = p.parseStatement()

	if !p.expectPeek(lexer.WHILE) {
		return stmt
	}

	if !p.expectPeek(lexer.LPAREN) {
		return stmt
	}

	p.nextToken()
	stmt.Test = p.parseExpression(LOWEST)
	p.expectPeek(lexer.RPAREN)
	p.skipSemicolon()

	return stmt
}

func (p *Parser) parseForStatement() *ast.ForStatement {
	stmt := &ast.ForStatement{}

	if !p.expectPeek(lexer.LPAREN) {
		return stmt
	}

	p.nextToken()

	if p.curTokenIs(lexer.SEMICOLON) {
		stmt.Init = nil
	} else if p.curTokenIs(lexer.VAR) {
		stmt.Init = p.parseVariableDeclaration()
	} else {
		expr := p.parseExpression(LOWEST)
		stmt.Init = &ast.ExpressionStatement{Expression: p.maybeAssignment(expr)}

		if p.peekTokenIs(lexer.SEMICOLON) {
			p.nextToken()
		}
	}

	if !p.curTokenIs(lexer.SEMICOLON) {
		p.expectPeek(lexer.SEMICOLON)
	}

	p.nextToken()

	if !p.curTokenIs(lexer.SEMICOLON) {
		stmt.Test = p.parseExpression(LOWEST)
		p.nextToken()
	}

	p.nextToken()

	if !p.curTokenIs(lexer.RPAREN) {
		expr := p.parseExpression(LOWEST)
		stmt.Update = p.maybeAssignment(expr)
		p.nextToken()
	}

	p.nextToken()
	stmt.Body = p.parseStatement()

	return stmt
}

func (p *Parser) parseBreakStatement() *ast.BreakStatement {
	stmt := &ast.BreakStatement{}
	if p.peekTokenIs(lexer.IDENT) {
		p.nextToken()
		stmt.Label = p.curToken.Literal
	}

	p.skipSemicolon()

	return stmt
}

func (p *Parser) parseContinueStatement() *ast.ContinueStatement {
	stmt := &ast.ContinueStatement{}
	if p.peekTokenIs(lexer.IDENT) {
		p.nextToken()
		stmt.Label = p.curToken.Literal
	}

	p.skipSemicolon()

	return stmt
}

func (p *Parser) parseReturnStatement() *ast.ReturnStatement {
	stmt := &ast.ReturnStatement{}

	if !p.peekTokenIs(lexer.SEMICOLON) && !p.peekTokenIs(lexer.RBRACE) {
		p.nextToken()
		stmt.Argument = p.parseExpression(LOWEST)
	}

	p.skipSemicolon()

	return stmt
}

func (p *Parser) parseThrowStatement() *ast.ThrowStatement {
	stmt := &ast.ThrowStatement{}

	p.nextToken()
	stmt.Argument = p.parseExpression(LOWEST)
	p.skipSemicolon()

	return stmt
}

func (p *Parser) parseTryStatement() *ast.TryStatement {
	stmt := &ast.TryStatement{}

	if !p.expectPeek(lexer.LBRACE) {
		return stmt
	}

	stmt.Block = p.parseBlockStatement()

	if p.peekTokenIs(lexer.CATCH) {
		p.nextToken()

		handler := &ast.CatchClause{}

		if p.expectPeek(lexer.LPAREN) {
			p.expectPeek(lexer.IDENT)
			handler.Param = p.curToken.Literal
			p.expectPeek(lexer.RPAREN)
		}

		if p.expectPeek(lexer.LBRACE) {
			handler.Body = p.parseBlockStatement()
		}

		stmt.Handler = handler
	}

	if p.peekTokenIs(lexer.FINALLY) {
		p.nextToken()

		if p.expectPeek(lexer.LBRACE) {
			stmt.Finalizer = p.parseBlockStatement()
		}
	}

	return stmt
}

func (p *Parser) parseSwitchStatement() *ast.SwitchStatement {
	stmt := &ast.SwitchStatement{}

	if !p.expectPeek(lexer.LPAREN) {
		return stmt
	}

	p.nextToken()
	stmt.Discriminant = p.parseExpression(LOWEST)

	if !p.expectPeek(lexer.RPAREN) {
		return stmt
	}

	if !p.expectPeek(lexer.LBRACE) {
		return stmt
	}

	p.nextToken()

	for !p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
		c := &ast.SwitchCase{}

		if p.curTokenIs(lexer.CASE) {
			p.nextToken()
			c.Test = p.parseExpression(LOWEST)
			p.expectPeek(lexer.COLON)
		} else if p.curTokenIs(lexer.DEFAULT) {
			p.expectPeek(lexer.COLON)
		}

		p.nextToken()

		for !p.curTokenIs(lexer.CASE) && !p.curTokenIs(lexer.DEFAULT) && !p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
			s := p.parseStatement()
			if s != nil {
				c.Consequent = append(c.Consequent, s)
			}

			p.nextToken()
		}

		stmt.Cases = append(stmt.Cases, c)
	}

	return stmt
}

func (p *Parser) parseLabeledStatement() *ast.LabeledStatement {
	label := p.curToken.Literal

	p.nextToken() // consume ':'
	p.nextToken()

	return &ast.LabeledStatement{Label: label, Body: p.parseStatement()}
}

func (p *Parser) parseExpressionStatement() *ast.ExpressionStatement {
	expr := p.parseExpression(LOWEST)
	expr = p.maybeAssignment(expr)
	p.skipSemicolon()

	return &ast.ExpressionStatement{Expression: expr}
}

// maybeAssignment turns `target = value` into an AssignmentExpression when
// the current parse position sits on '=' right after a parsed expression.
func (p *Parser) maybeAssignment(target ast.Expr) ast.Expr {
	if !p.peekTokenIs(lexer.ASSIGN) {
		return target
	}

	p.nextToken() // consume '='
	p.nextToken()

	value := p.parseExpression(LOWEST)

	return &ast.AssignmentExpression{Operator: "=", Target: target, Value: value}
}

// ===== Expressions =====

func (p *Parser) parseExpression(precedence int) ast.Expr {
	prefix, ok := p.prefixParseFns[p.curToken.Type]
	if !ok {
		p.errors = append(p.errors, fmt.Sprintf("line %d: no prefix parse function for %s", p.curToken.Line, p.curToken.Type))
		return nil
	}

	left := prefix()

	for !p.peekTokenIs(lexer.SEMICOLON) && precedence < p.peekPrecedence() {
		infix, ok := p.infixParseFns[p.peekToken.Type]
		if !ok {
			return left
		}

		p.nextToken()
		left = infix(left)
	}

	return left
}

func (p *Parser) parseIdentifier() ast.Expr {
	return &ast.Identifier{Name: p.curToken.Literal}
}

func (p *Parser) parseUndefined() ast.Expr {
	return ast.Undefined
}

func (p *Parser) parseNumberLiteral() ast.Expr {
	// Validated here (per strconv) but retained as source text, matching
	// the reusable Literal shape the lowering core expects.
	if _, err := strconv.ParseFloat(p.curToken.Literal, 64); err != nil {
		p.errors = append(p.errors, fmt.Sprintf("line %d: invalid number %q", p.curToken.Line, p.curToken.Literal))
	}

	return &ast.Literal{Kind: ast.NumberLiteral, Value: p.curToken.Literal}
}

func (p *Parser) parseStringLiteral() ast.Expr {
	return ast.StringLit(p.curToken.Literal)
}

func (p *Parser) parseBoolLiteral() ast.Expr {
	return ast.BoolLit(p.curTokenIs(lexer.TRUE))
}

func (p *Parser) parseNullLiteral() ast.Expr {
	return &ast.Literal{Kind: ast.NullLiteral, Value: "null"}
}

func (p *Parser) parseUnaryExpr() ast.Expr {
	op := p.curToken.Literal
	if p.curTokenIs(lexer.TYPEOF) {
		op = "typeof"
	} else if p.curTokenIs(lexer.VOID) {
		op = "void"
	}

	p.nextToken()

	return &ast.UnaryExpression{Operator: op, Argument: p.parseExpression(PREFIX)}
}

func (p *Parser) parseGroupedExpr() ast.Expr {
	p.nextToken()

	expr := p.parseExpression(LOWEST)
	p.expectPeek(lexer.RPAREN)

	return expr
}

func (p *Parser) parseBinaryExpr(left ast.Expr) ast.Expr {
	expr := &ast.BinaryExpression{Operator: p.curToken.Literal, Left: left}
	precedence := p.curPrecedence()
	p.nextToken()
	expr.Right = p.parseExpression(precedence)

	return expr
}

func (p *Parser) parseCallExpr(callee ast.Expr) ast.Expr {
	return &ast.CallExpression{Callee: callee, Args: p.parseArgList()}
}

func (p *Parser) parseArgList() []ast.Expr {
	var args []ast.Expr

	if p.peekTokenIs(lexer.RPAREN) {
		p.nextToken()
		return args
	}

	p.nextToken()
	args = append(args, p.parseExpression(LOWEST))

	for p.peekTokenIs(lexer.COMMA) {
		p.nextToken()
		p.nextToken()
		args = append(args, p.parseExpression(LOWEST))
	}

	p.expectPeek(lexer.RPAREN)

	return args
}

func (p *Parser) parseMemberExpr(object ast.Expr) ast.Expr {
	p.expectPeek(lexer.IDENT)

	return &ast.MemberExpression{Object: object, Property: &ast.Identifier{Name: p.curToken.Literal}, Computed: false}
}

func (p *Parser) parseIndexExpr(object ast.Expr) ast.Expr {
	p.nextToken()

	index := p.parseExpression(LOWEST)
	p.expectPeek(lexer.RBRACKET)

	return &ast.MemberExpression{Object: object, Property: index, Computed: true}
}

func (p *Parser) parseFunctionExpr() ast.Expr {
	fn := &ast.FunctionExpression{}

	if p.peekTokenIs(lexer.IDENT) {
		p.nextToken()
		fn.Name = p.curToken.Literal
	}

	fn.Params = p.parseParamList()

	if !p.expectPeek(lexer.LBRACE) {
		return fn
	}

	fn.Body = p.parseBlockStatement()

	return fn
}
