package parser

import (
	"fmt"
	"strconv"

	"dumblang/interpreter-go/pkg/ast"
	"dumblang/interpreter-go/pkg/diag"
)

// EntryFunctionName is the mandatory program entry point.
const EntryFunctionName = "main"

// ParseProgram runs the full front end: source text to typed AST.
func ParseProgram(src string) (*ast.Program, error) {
	tree, err := Parse(src)
	if err != nil {
		return nil, err
	}
	return Build(tree)
}

// Build converts a parse tree into the typed AST, resolving grouping and
// separator sugar and enforcing the load-time structural rules: function
// names are unique, parameter names are unique per function, and main is
// defined with an empty parameter list.
func Build(root *SyntaxNode) (*ast.Program, error) {
	if root.Kind != SyntaxProgram {
		return nil, fmt.Errorf("builder: root node is %s, want %s", root.Kind, SyntaxProgram)
	}

	seen := make(map[string]bool)
	functions := make([]*ast.FunctionDefinition, 0, len(root.Children))
	var entry *ast.FunctionDefinition

	for _, fnNode := range root.Children {
		fn, err := buildFunction(fnNode)
		if err != nil {
			return nil, err
		}
		if seen[fn.ID.Name] {
			tok := fnNode.Token
			return nil, diag.At(diag.StructuralError, tok.Line, tok.Col, "function '%s' is defined more than once", fn.ID.Name)
		}
		seen[fn.ID.Name] = true
		functions = append(functions, fn)
		if fn.ID.Name == EntryFunctionName {
			entry = fn
		}
	}

	if entry == nil {
		return nil, diag.New(diag.StructuralError, "no '%s' function defined", EntryFunctionName)
	}
	if len(entry.Params) > 0 {
		return nil, diag.New(diag.StructuralError, "'%s' must not declare parameters; the environment argument is bound implicitly", EntryFunctionName)
	}

	return ast.NewProgram(functions), nil
}

func buildFunction(node *SyntaxNode) (*ast.FunctionDefinition, error) {
	name := node.Token.Lexeme
	paramsNode, bodyNode := node.Children[0], node.Children[1]

	params := make([]*ast.Identifier, 0, len(paramsNode.Children))
	seen := make(map[string]bool)
	for _, p := range paramsNode.Children {
		if seen[p.Token.Lexeme] {
			return nil, diag.At(diag.StructuralError, p.Token.Line, p.Token.Col, "function '%s' declares parameter '%s' more than once", name, p.Token.Lexeme)
		}
		seen[p.Token.Lexeme] = true
		params = append(params, ast.NewIdentifier(p.Token.Lexeme))
	}

	body, err := buildBlock(bodyNode)
	if err != nil {
		return nil, err
	}
	return ast.NewFunctionDefinition(ast.NewIdentifier(name), params, body), nil
}

func buildBlock(node *SyntaxNode) (*ast.Block, error) {
	statements := make([]ast.Statement, 0, len(node.Children))
	for _, child := range node.Children {
		stmt, err := buildStatement(child)
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
	}
	return ast.NewBlock(statements), nil
}

func buildStatement(node *SyntaxNode) (ast.Statement, error) {
	switch node.Kind {
	case SyntaxAssignStmt:
		target, err := buildExpression(node.Children[0])
		if err != nil {
			return nil, err
		}
		value, err := buildExpression(node.Children[1])
		if err != nil {
			return nil, err
		}
		assignable, ok := target.(ast.AssignmentTarget)
		if !ok {
			tok := node.Token
			return nil, diag.At(diag.SyntaxError, tok.Line, tok.Col, "cannot assign to %s", node.Children[0].Kind)
		}
		return ast.NewAssignmentStatement(assignable, value), nil
	case SyntaxIfStmt:
		cond, err := buildExpression(node.Children[0])
		if err != nil {
			return nil, err
		}
		then, err := buildBlock(node.Children[1])
		if err != nil {
			return nil, err
		}
		var els *ast.Block
		if len(node.Children) == 3 {
			els, err = buildBlock(node.Children[2])
			if err != nil {
				return nil, err
			}
		}
		return ast.NewIfStatement(cond, then, els), nil
	case SyntaxWhileStmt:
		cond, err := buildExpression(node.Children[0])
		if err != nil {
			return nil, err
		}
		body, err := buildBlock(node.Children[1])
		if err != nil {
			return nil, err
		}
		return ast.NewWhileStatement(cond, body), nil
	case SyntaxReturnStmt:
		var arg ast.Expression
		if len(node.Children) == 1 {
			var err error
			arg, err = buildExpression(node.Children[0])
			if err != nil {
				return nil, err
			}
		}
		return ast.NewReturnStatement(arg), nil
	case SyntaxExprStmt:
		expr, err := buildExpression(node.Children[0])
		if err != nil {
			return nil, err
		}
		return ast.NewExpressionStatement(expr), nil
	default:
		return nil, fmt.Errorf("builder: unexpected statement node %s", node.Kind)
	}
}

func buildExpression(node *SyntaxNode) (ast.Expression, error) {
	switch node.Kind {
	case SyntaxParen:
		// Grouping exists only in the parse tree.
		return buildExpression(node.Children[0])
	case SyntaxNumber:
		value, err := strconv.ParseFloat(node.Token.Lexeme, 64)
		if err != nil {
			tok := node.Token
			return nil, diag.At(diag.SyntaxError, tok.Line, tok.Col, "malformed number %q", tok.Lexeme)
		}
		return ast.NewNumberLiteral(value), nil
	case SyntaxString:
		return ast.NewStringLiteral(node.Token.Lexeme), nil
	case SyntaxIdent:
		return ast.NewIdentifier(node.Token.Lexeme), nil
	case SyntaxArray:
		elements := make([]ast.Expression, 0, len(node.Children))
		for _, child := range node.Children {
			elem, err := buildExpression(child)
			if err != nil {
				return nil, err
			}
			elements = append(elements, elem)
		}
		return ast.NewArrayLiteral(elements), nil
	case SyntaxIndex:
		base, err := buildExpression(node.Children[0])
		if err != nil {
			return nil, err
		}
		index, err := buildExpression(node.Children[1])
		if err != nil {
			return nil, err
		}
		return ast.NewIndexExpression(base, index), nil
	case SyntaxBinary:
		left, err := buildExpression(node.Children[0])
		if err != nil {
			return nil, err
		}
		right, err := buildExpression(node.Children[1])
		if err != nil {
			return nil, err
		}
		return ast.NewBinaryExpression(node.Token.Lexeme, left, right), nil
	case SyntaxUnary:
		operand, err := buildExpression(node.Children[0])
		if err != nil {
			return nil, err
		}
		return ast.NewUnaryExpression(node.Token.Lexeme, operand), nil
	case SyntaxCall:
		arguments := make([]ast.Expression, 0, len(node.Children))
		for _, child := range node.Children {
			arg, err := buildExpression(child)
			if err != nil {
				return nil, err
			}
			arguments = append(arguments, arg)
		}
		return ast.NewCallExpression(ast.NewIdentifier(node.Token.Lexeme), arguments), nil
	default:
		return nil, fmt.Errorf("builder: unexpected expression node %s", node.Kind)
	}
}
