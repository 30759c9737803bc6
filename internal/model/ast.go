package model

// ASTNode is the read-only view of one node of a parsed Solidity source unit,
// as returned by the parser collaborator. Only the attributes the mutation
// catalog consumes are surfaced: the node kind, its byte span, operator and
// literal values, and a handful of named sub-expressions used to locate
// operator tokens between child spans.
type ASTNode struct {
	NodeType string
	Src      Span

	// Operator is set for BinaryOperation, UnaryOperation and Assignment nodes.
	Operator string
	// Prefix is set for UnaryOperation nodes.
	Prefix bool
	// Kind and Value are set for Literal nodes (e.g. kind "bool", value "true").
	Kind  string
	Value string

	// Named sub-expressions, nil when not applicable to the node type.
	Left      *ASTNode // leftExpression / leftHandSide
	Right     *ASTNode // rightExpression / rightHandSide
	Sub       *ASTNode // subExpression of a unary operation
	Condition *ASTNode // condition of an if statement

	// Children lists every nested node in source order. Named sub-expressions
	// appear here as well.
	Children []*ASTNode
}
