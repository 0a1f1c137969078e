package parser

import "dumblang/interpreter-go/pkg/lexer"

// SyntaxKind labels a parse-tree node. The parse tree records grammatical
// structure only; it is converted to the typed AST by Build, which also
// discards grouping and separator sugar.
type SyntaxKind string

const (
	SyntaxProgram    SyntaxKind = "program"
	SyntaxFunction   SyntaxKind = "function"
	SyntaxParams     SyntaxKind = "params"
	SyntaxBlock      SyntaxKind = "block"
	SyntaxIfStmt     SyntaxKind = "if_statement"
	SyntaxWhileStmt  SyntaxKind = "while_statement"
	SyntaxReturnStmt SyntaxKind = "return_statement"
	SyntaxExprStmt   SyntaxKind = "expression_statement"
	SyntaxAssignStmt SyntaxKind = "assignment_statement"
	SyntaxBinary     SyntaxKind = "binary_expression"
	SyntaxUnary      SyntaxKind = "unary_expression"
	SyntaxCall       SyntaxKind = "call_expression"
	SyntaxIndex      SyntaxKind = "index_expression"
	SyntaxArray      SyntaxKind = "array_literal"
	SyntaxParen      SyntaxKind = "paren_expression"
	SyntaxNumber     SyntaxKind = "number_literal"
	SyntaxString     SyntaxKind = "string_literal"
	SyntaxIdent      SyntaxKind = "identifier"
)

// SyntaxNode is one parse-tree node. Token holds the node's defining token
// (the literal, identifier, operator, or introducing keyword), which keeps
// a source position available to the builder's structural checks.
type SyntaxNode struct {
	Kind     SyntaxKind
	Token    lexer.Token
	Children []*SyntaxNode
}

func newSyntaxNode(kind SyntaxKind, tok lexer.Token, children ...*SyntaxNode) *SyntaxNode {
	return &SyntaxNode{Kind: kind, Token: tok, Children: children}
}
