// Package ast defines the abstract syntax tree produced by the parser: the
// statement and expression node types, a Visitor-based Walk, and an
// indented one-node-per-line printer useful for debugging and tests.
package ast

import "github.com/mna/kiddou/lang/token"

// Node is implemented by every AST node.
type Node interface {
	// Span reports the start and end position of the node.
	Span() (start, end token.Pos)
	// Walk visits the node's direct children, if any.
	Walk(v Visitor)
	// String returns a short one-line label for the node (its kind and the
	// detail that distinguishes it, not a full source rendering).
	String() string
}

// Expr is implemented by every expression node.
type Expr interface {
	Node
	exprNode()
}

// Stmt is implemented by every statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Program is the root node: the full list of top-level statements parsed
// from one file or REPL line.
type Program struct {
	Stmts []Stmt
	EOF   token.Pos
}

func (n *Program) Span() (start, end token.Pos) {
	if len(n.Stmts) == 0 {
		return n.EOF, n.EOF
	}
	start, _ = n.Stmts[0].Span()
	return start, n.EOF
}
func (n *Program) Walk(v Visitor) {
	for _, s := range n.Stmts {
		Walk(v, s)
	}
}
func (n *Program) String() string { return "program" }
