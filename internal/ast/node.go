// Package ast defines the abstract syntax tree produced by the parser
// and consumed by the emitter: a single owning tree of Node values,
// each carrying an ordered child slice. There are no back-edges; the
// emitter borrows nodes immutably during its post-order traversal.
package ast

import "lovelac/internal/token"

// Kind is the closed enumeration of AST node kinds.
type Kind int

const (
	Error Kind = iota
	FunctionDeclaration
	Expression
	ExpressionInput
	FunctionCall
	BinaryOperation
	Literal
	Tuple
	VariableReference
)

func (k Kind) String() string {
	switch k {
	case Error:
		return "Error"
	case FunctionDeclaration:
		return "FunctionDeclaration"
	case Expression:
		return "Expression"
	case ExpressionInput:
		return "ExpressionInput"
	case FunctionCall:
		return "FunctionCall"
	case BinaryOperation:
		return "BinaryOperation"
	case Literal:
		return "Literal"
	case Tuple:
		return "Tuple"
	case VariableReference:
		return "VariableReference"
	default:
		return "Kind(?)"
	}
}

// VariableDeclaration names one function parameter and its type.
type VariableDeclaration struct {
	Name string
	Type TypeSpec
}

// Node is one element of the abstract syntax tree. A FunctionDeclaration's
// body, if present, is its single Expression child. A BinaryOperation
// always has exactly two children; a Tuple has at least one.
type Node struct {
	Kind      Kind
	Value     string
	Token     token.Token
	InType    TypeSpec
	OutType   TypeSpec
	NameSpace NameSpace
	Parameters []VariableDeclaration
	ApiSpec   ApiSpec
	Children  []*Node

	// Message carries the human-readable diagnostic for an Error node.
	Message string
}

// NewError returns an Error node carrying message, located at tok.
func NewError(tok token.Token, message string) *Node {
	return &Node{Kind: Error, Token: tok, Message: message}
}

// IsMain reports whether n is the program entry point: a
// FunctionDeclaration with an empty qualified name and no namespace.
func (n *Node) IsMain() bool {
	return n.Kind == FunctionDeclaration && n.Value == "" && n.NameSpace.Empty()
}

// IsOperator reports whether n's qualified name ends in an operator
// token rather than a plain identifier (the NameSpace.h "name or
// operator" final segment).
func (n *Node) IsOperator() bool {
	if n.Kind != FunctionDeclaration {
		return false
	}
	switch n.Token.Kind {
	case token.Comparison, token.Arithmetic, token.Bitwise, token.Arrow:
		return true
	default:
		return false
	}
}
