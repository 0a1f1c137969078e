package parser

import (
	"dumblang/interpreter-go/pkg/diag"
	"dumblang/interpreter-go/pkg/lexer"
)

// Parse tokenizes and structurally parses source text into a parse tree.
// Grammar failures surface as SyntaxError with the offending position.
func Parse(src string) (*SyntaxNode, error) {
	tokens, err := lexer.Scan(src)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	return p.program()
}

type parser struct {
	tokens []lexer.Token
	pos    int
}

func (p *parser) peek() lexer.Token {
	return p.tokens[p.pos]
}

func (p *parser) at(tt lexer.TokenType) bool {
	return p.peek().Type == tt
}

func (p *parser) advance() lexer.Token {
	tok := p.tokens[p.pos]
	if tok.Type != lexer.EOF {
		p.pos++
	}
	return tok
}

func (p *parser) expect(tt lexer.TokenType) (lexer.Token, error) {
	tok := p.peek()
	if tok.Type != tt {
		return tok, diag.At(diag.SyntaxError, tok.Line, tok.Col, "expected %s, found %s", tt, describe(tok))
	}
	return p.advance(), nil
}

func describe(tok lexer.Token) string {
	switch tok.Type {
	case lexer.EOF:
		return "end of input"
	case lexer.Ident, lexer.Number:
		return "'" + tok.Lexeme + "'"
	case lexer.String:
		return "string literal"
	default:
		return tok.Type.String()
	}
}

// program: function* EOF
func (p *parser) program() (*SyntaxNode, error) {
	root := newSyntaxNode(SyntaxProgram, p.peek())
	for !p.at(lexer.EOF) {
		fn, err := p.function()
		if err != nil {
			return nil, err
		}
		root.Children = append(root.Children, fn)
	}
	return root, nil
}

// function: IDENT '(' [IDENT (',' IDENT)*] ')' block
func (p *parser) function() (*SyntaxNode, error) {
	name, err := p.expect(lexer.Ident)
	if err != nil {
		return nil, err
	}
	open, err := p.expect(lexer.LParen)
	if err != nil {
		return nil, err
	}
	params := newSyntaxNode(SyntaxParams, open)
	if p.at(lexer.Ident) {
		for {
			param := p.advance()
			params.Children = append(params.Children, newSyntaxNode(SyntaxIdent, param))
			if !p.at(lexer.Comma) {
				break
			}
			p.advance()
			if !p.at(lexer.Ident) {
				tok := p.peek()
				return nil, diag.At(diag.SyntaxError, tok.Line, tok.Col, "expected parameter name, found %s", describe(tok))
			}
		}
	}
	if _, err := p.expect(lexer.RParen); err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return newSyntaxNode(SyntaxFunction, name, params, body), nil
}

// block: '{' statement* '}'
func (p *parser) block() (*SyntaxNode, error) {
	open, err := p.expect(lexer.LBrace)
	if err != nil {
		return nil, err
	}
	node := newSyntaxNode(SyntaxBlock, open)
	for !p.at(lexer.RBrace) {
		if p.at(lexer.EOF) {
			tok := p.peek()
			return nil, diag.At(diag.SyntaxError, tok.Line, tok.Col, "unterminated block, expected '}'")
		}
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, stmt)
	}
	p.advance()
	return node, nil
}

func (p *parser) statement() (*SyntaxNode, error) {
	switch p.peek().Type {
	case lexer.KwIf:
		return p.ifStatement()
	case lexer.KwWhile:
		return p.whileStatement()
	case lexer.KwReturn:
		return p.returnStatement()
	default:
		return p.simpleStatement()
	}
}

// ifStatement: 'if' '(' expr ')' block ['else' block]
func (p *parser) ifStatement() (*SyntaxNode, error) {
	kw := p.advance()
	if _, err := p.expect(lexer.LParen); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RParen); err != nil {
		return nil, err
	}
	then, err := p.block()
	if err != nil {
		return nil, err
	}
	node := newSyntaxNode(SyntaxIfStmt, kw, cond, then)
	if p.at(lexer.KwElse) {
		p.advance()
		els, err := p.block()
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, els)
	}
	return node, nil
}

// whileStatement: 'while' '(' expr ')' block
func (p *parser) whileStatement() (*SyntaxNode, error) {
	kw := p.advance()
	if _, err := p.expect(lexer.LParen); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RParen); err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return newSyntaxNode(SyntaxWhileStmt, kw, cond, body), nil
}

// returnStatement: 'return' [expr] ';'
func (p *parser) returnStatement() (*SyntaxNode, error) {
	kw := p.advance()
	node := newSyntaxNode(SyntaxReturnStmt, kw)
	if !p.at(lexer.Semicolon) {
		arg, err := p.expression()
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, arg)
	}
	if _, err := p.expect(lexer.Semicolon); err != nil {
		return nil, err
	}
	return node, nil
}

// simpleStatement: expr ['=' expr] ';'
// The '=' form requires the parsed expression to be a valid assignment
// target (identifier or index expression).
func (p *parser) simpleStatement() (*SyntaxNode, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if p.at(lexer.Assign) {
		eq := p.advance()
		if expr.Kind != SyntaxIdent && expr.Kind != SyntaxIndex {
			return nil, diag.At(diag.SyntaxError, eq.Line, eq.Col, "cannot assign to %s", expr.Kind)
		}
		value, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.Semicolon); err != nil {
			return nil, err
		}
		return newSyntaxNode(SyntaxAssignStmt, eq, expr, value), nil
	}
	if _, err := p.expect(lexer.Semicolon); err != nil {
		return nil, err
	}
	return newSyntaxNode(SyntaxExprStmt, expr.Token, expr), nil
}

// Expression precedence, loosest first: comparison, additive,
// multiplicative, unary, postfix indexing, primary.

func (p *parser) expression() (*SyntaxNode, error) {
	return p.comparison()
}

func (p *parser) comparison() (*SyntaxNode, error) {
	left, err := p.additive()
	if err != nil {
		return nil, err
	}
	for isComparisonOp(p.peek().Type) {
		op := p.advance()
		right, err := p.additive()
		if err != nil {
			return nil, err
		}
		left = newSyntaxNode(SyntaxBinary, op, left, right)
	}
	return left, nil
}

func isComparisonOp(tt lexer.TokenType) bool {
	switch tt {
	case lexer.Eq, lexer.NotEq, lexer.Less, lexer.LessEq, lexer.Greater, lexer.GreaterEq:
		return true
	}
	return false
}

func (p *parser) additive() (*SyntaxNode, error) {
	left, err := p.multiplicative()
	if err != nil {
		return nil, err
	}
	for p.at(lexer.Plus) || p.at(lexer.Minus) {
		op := p.advance()
		right, err := p.multiplicative()
		if err != nil {
			return nil, err
		}
		left = newSyntaxNode(SyntaxBinary, op, left, right)
	}
	return left, nil
}

func (p *parser) multiplicative() (*SyntaxNode, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.at(lexer.Star) || p.at(lexer.Slash) {
		op := p.advance()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = newSyntaxNode(SyntaxBinary, op, left, right)
	}
	return left, nil
}

func (p *parser) unary() (*SyntaxNode, error) {
	if p.at(lexer.Plus) || p.at(lexer.Minus) {
		op := p.advance()
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return newSyntaxNode(SyntaxUnary, op, operand), nil
	}
	return p.postfix()
}

// postfix: primary ('[' expr ']')*
func (p *parser) postfix() (*SyntaxNode, error) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}
	for p.at(lexer.LBracket) {
		open := p.advance()
		index, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RBracket); err != nil {
			return nil, err
		}
		expr = newSyntaxNode(SyntaxIndex, open, expr, index)
	}
	return expr, nil
}

func (p *parser) primary() (*SyntaxNode, error) {
	tok := p.peek()
	switch tok.Type {
	case lexer.Number:
		p.advance()
		return newSyntaxNode(SyntaxNumber, tok), nil
	case lexer.String:
		p.advance()
		return newSyntaxNode(SyntaxString, tok), nil
	case lexer.Ident:
		p.advance()
		if p.at(lexer.LParen) {
			return p.callArguments(tok)
		}
		return newSyntaxNode(SyntaxIdent, tok), nil
	case lexer.LBracket:
		return p.arrayLiteral()
	case lexer.LParen:
		open := p.advance()
		inner, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RParen); err != nil {
			return nil, err
		}
		return newSyntaxNode(SyntaxParen, open, inner), nil
	default:
		return nil, diag.At(diag.SyntaxError, tok.Line, tok.Col, "expected expression, found %s", describe(tok))
	}
}

// callArguments: '(' [expr (',' expr)*] ')'
func (p *parser) callArguments(name lexer.Token) (*SyntaxNode, error) {
	p.advance() // '('
	node := newSyntaxNode(SyntaxCall, name)
	if !p.at(lexer.RParen) {
		for {
			arg, err := p.expression()
			if err != nil {
				return nil, err
			}
			node.Children = append(node.Children, arg)
			if !p.at(lexer.Comma) {
				break
			}
			p.advance()
		}
	}
	if _, err := p.expect(lexer.RParen); err != nil {
		return nil, err
	}
	return node, nil
}

// arrayLiteral: '[' [expr (',' expr)* [',']] ']'
// A trailing separator before the closing bracket is accepted and ignored.
func (p *parser) arrayLiteral() (*SyntaxNode, error) {
	open := p.advance()
	node := newSyntaxNode(SyntaxArray, open)
	for !p.at(lexer.RBracket) {
		elem, err := p.expression()
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, elem)
		if !p.at(lexer.Comma) {
			break
		}
		p.advance()
	}
	if _, err := p.expect(lexer.RBracket); err != nil {
		return nil, err
	}
	return node, nil
}
