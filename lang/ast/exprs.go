package ast

import (
	"sort"
	"strings"

	"github.com/mna/kiddou/lang/token"
)

// Unwrap strips any ParenExpr wrapping e, recursively.
func Unwrap(e Expr) Expr {
	if pe, ok := e.(*ParenExpr); ok {
		return Unwrap(pe.Expr)
	}
	return e
}

// IsAssignable reports whether e is a valid run-statement receiver: a
// Variable, an Index expression, or an Attribute expression.
func IsAssignable(e Expr) bool {
	switch Unwrap(e).(type) {
	case *VariableExpr, *IndexExpr, *AttributeExpr:
		return true
	default:
		return false
	}
}

type (
	// BadExpr represents an expression that failed to parse.
	BadExpr struct {
		Start, End token.Pos
	}

	// LiteralExpr represents undef, true, false, an int, a float or a string.
	LiteralExpr struct {
		Tok token.Token // UNDEF, TRUE, FALSE, INT, FLOAT or STRING
		Pos token.Pos
		Raw string
		Val token.Value
	}

	// VariableExpr represents a bare identifier used as an expression.
	VariableExpr struct {
		Name string
		Pos  token.Pos
	}

	// UnaryExpr represents a unary operator expression, e.g. -x, !x.
	UnaryExpr struct {
		Op    token.Token // MINUS or BANG
		OpPos token.Pos
		Right Expr
	}

	// BinaryExpr represents a binary operator expression, e.g. x + y.
	BinaryExpr struct {
		Left  Expr
		Op    token.Token
		OpPos token.Pos
		Right Expr
	}

	// CallExpr represents a function call, e.g. f(x, y).
	CallExpr struct {
		Callee Expr
		Args   []Expr
		Rparen token.Pos
	}

	// IndexExpr represents an index expression, e.g. xs[i].
	IndexExpr struct {
		Container Expr
		Index     Expr
		Rbracket  token.Pos
	}

	// AttributeExpr represents a dotted attribute access, e.g. x.f.
	AttributeExpr struct {
		Object Expr
		Name   string
		Dot    token.Pos
		End    token.Pos
	}

	// BlockExpr represents a `{ stmt* -> tail }` constructor: a lazily
	// evaluated sequence of statements with an optional tail expression. It is
	// the expression form a Callable Block value is built from.
	BlockExpr struct {
		Lbrace, Rbrace token.Pos
		Stmts          []Stmt
		Tail           Expr // nil if the block has no tail expression

		// DependentNames is filled in by the checker: the subset of names from
		// the enclosing scope that this block's body references.
		DependentNames map[string]bool
	}

	// SequenceExpr represents a `[e1, e2, ...]` eager comma-separated literal,
	// evaluated into a List value.
	SequenceExpr struct {
		Lbracket, Rbracket token.Pos
		Elements           []Expr
	}

	// ParenExpr represents a parenthesized expression.
	ParenExpr struct {
		Lparen, Rparen token.Pos
		Expr           Expr
	}
)

func (n *BadExpr) Span() (start, end token.Pos) { return n.Start, n.End }
func (n *BadExpr) Walk(v Visitor)               {}
func (n *BadExpr) String() string               { return "bad expr" }
func (n *BadExpr) exprNode()                    {}

func (n *LiteralExpr) Span() (start, end token.Pos) { return n.Pos, n.Pos }
func (n *LiteralExpr) Walk(v Visitor)               {}
func (n *LiteralExpr) String() string               { return "literal " + n.Raw }
func (n *LiteralExpr) exprNode()                    {}

func (n *VariableExpr) Span() (start, end token.Pos) { return n.Pos, n.Pos }
func (n *VariableExpr) Walk(v Visitor)               {}
func (n *VariableExpr) String() string               { return "var " + n.Name }
func (n *VariableExpr) exprNode()                    {}

func (n *UnaryExpr) Span() (start, end token.Pos) {
	_, end = n.Right.Span()
	return n.OpPos, end
}
func (n *UnaryExpr) Walk(v Visitor) { Walk(v, n.Right) }
func (n *UnaryExpr) String() string { return "unary " + n.Op.GoString() }
func (n *UnaryExpr) exprNode()      {}

func (n *BinaryExpr) Span() (start, end token.Pos) {
	start, _ = n.Left.Span()
	_, end = n.Right.Span()
	return start, end
}
func (n *BinaryExpr) Walk(v Visitor) {
	Walk(v, n.Left)
	Walk(v, n.Right)
}
func (n *BinaryExpr) String() string { return "binary " + n.Op.GoString() }
func (n *BinaryExpr) exprNode()      {}

func (n *CallExpr) Span() (start, end token.Pos) {
	start, _ = n.Callee.Span()
	return start, n.Rparen
}
func (n *CallExpr) Walk(v Visitor) {
	Walk(v, n.Callee)
	for _, a := range n.Args {
		Walk(v, a)
	}
}
func (n *CallExpr) String() string { return "call" }
func (n *CallExpr) exprNode()      {}

func (n *IndexExpr) Span() (start, end token.Pos) {
	start, _ = n.Container.Span()
	return start, n.Rbracket
}
func (n *IndexExpr) Walk(v Visitor) {
	Walk(v, n.Container)
	Walk(v, n.Index)
}
func (n *IndexExpr) String() string { return "index" }
func (n *IndexExpr) exprNode()      {}

func (n *AttributeExpr) Span() (start, end token.Pos) {
	start, _ = n.Object.Span()
	return start, n.End
}
func (n *AttributeExpr) Walk(v Visitor) { Walk(v, n.Object) }
func (n *AttributeExpr) String() string { return "attr ." + n.Name }
func (n *AttributeExpr) exprNode()      {}

func (n *BlockExpr) Span() (start, end token.Pos) { return n.Lbrace, n.Rbrace }
func (n *BlockExpr) Walk(v Visitor) {
	for _, s := range n.Stmts {
		Walk(v, s)
	}
	if n.Tail != nil {
		Walk(v, n.Tail)
	}
}
func (n *BlockExpr) String() string {
	if len(n.DependentNames) == 0 {
		return "block"
	}
	names := make([]string, 0, len(n.DependentNames))
	for name := range n.DependentNames {
		names = append(names, name)
	}
	sort.Strings(names)
	return "block captures " + strings.Join(names, ", ")
}
func (n *BlockExpr) exprNode() {}

func (n *SequenceExpr) Span() (start, end token.Pos) { return n.Lbracket, n.Rbracket }
func (n *SequenceExpr) Walk(v Visitor) {
	for _, e := range n.Elements {
		Walk(v, e)
	}
}
func (n *SequenceExpr) String() string { return "sequence" }
func (n *SequenceExpr) exprNode()      {}

func (n *ParenExpr) Span() (start, end token.Pos) { return n.Lparen, n.Rparen }
func (n *ParenExpr) Walk(v Visitor)               { Walk(v, n.Expr) }
func (n *ParenExpr) String() string               { return "paren" }
func (n *ParenExpr) exprNode()                    {}
