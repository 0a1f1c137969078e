package ast

// Compact constructors used by tests and embedders to assemble trees
// without the New* ceremony.

// Identifier and literal helpers.

func ID(name string) *Identifier {
	return NewIdentifier(name)
}

func Num(value float64) *NumberLiteral {
	return NewNumberLiteral(value)
}

func Str(value string) *StringLiteral {
	return NewStringLiteral(value)
}

func Arr(elements ...Expression) *ArrayLiteral {
	return NewArrayLiteral(elements)
}

// Expression helpers.

func Index(base, index Expression) *IndexExpression {
	return NewIndexExpression(base, index)
}

func Bin(operator string, left, right Expression) *BinaryExpression {
	return NewBinaryExpression(operator, left, right)
}

func Un(operator string, operand Expression) *UnaryExpression {
	return NewUnaryExpression(operator, operand)
}

func Call(name string, arguments ...Expression) *CallExpression {
	return NewCallExpression(ID(name), arguments)
}

// Statement helpers.

func Assign(target AssignmentTarget, value Expression) *AssignmentStatement {
	return NewAssignmentStatement(target, value)
}

func If(condition Expression, then, els *Block) *IfStatement {
	return NewIfStatement(condition, then, els)
}

func While(condition Expression, body *Block) *WhileStatement {
	return NewWhileStatement(condition, body)
}

func Ret(argument Expression) *ReturnStatement {
	return NewReturnStatement(argument)
}

func ExprStmt(expression Expression) *ExpressionStatement {
	return NewExpressionStatement(expression)
}

// Structure helpers.

func Body(statements ...Statement) *Block {
	return NewBlock(statements)
}

func Fn(name string, params []string, body *Block) *FunctionDefinition {
	ids := make([]*Identifier, 0, len(params))
	for _, p := range params {
		ids = append(ids, ID(p))
	}
	return NewFunctionDefinition(ID(name), ids, body)
}

func Prog(functions ...*FunctionDefinition) *Program {
	return NewProgram(functions)
}
