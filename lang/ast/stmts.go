package ast

import "github.com/mna/kiddou/lang/token"

type (
	// BadStmt represents a statement that failed to parse.
	BadStmt struct {
		Start, End token.Pos
	}

	// ConStmt represents `con IDENT = expr`: an immutable binding.
	ConStmt struct {
		Name    string
		NamePos token.Pos
		Expr    Expr
	}

	// RunStmt represents `run expr` and its receiver forms, reinterpreted by
	// the parser from a plain expression followed by `=`/`:=`:
	//   - Receiver == nil: the expression's value is discarded.
	//   - Receiver is a VariableExpr, Reassign == false: declares a new
	//     mutable binding (shadowing permitted).
	//   - Receiver is a VariableExpr, Reassign == true: overwrites an
	//     existing mutable binding.
	//   - Receiver is an IndexExpr or AttributeExpr: Reassign is always true
	//     (creation is forbidden for those receiver kinds).
	RunStmt struct {
		Receiver Expr
		Expr     Expr
		Reassign bool
	}
)

func (n *BadStmt) Span() (start, end token.Pos) { return n.Start, n.End }
func (n *BadStmt) Walk(v Visitor)               {}
func (n *BadStmt) String() string               { return "bad stmt" }
func (n *BadStmt) stmtNode()                    {}

func (n *ConStmt) Span() (start, end token.Pos) {
	_, end = n.Expr.Span()
	return n.NamePos, end
}
func (n *ConStmt) Walk(v Visitor) { Walk(v, n.Expr) }
func (n *ConStmt) String() string { return "con " + n.Name }
func (n *ConStmt) stmtNode()      {}

func (n *RunStmt) Span() (start, end token.Pos) {
	if n.Receiver != nil {
		start, _ = n.Receiver.Span()
	} else {
		start, _ = n.Expr.Span()
	}
	_, end = n.Expr.Span()
	return start, end
}
func (n *RunStmt) Walk(v Visitor) {
	if n.Receiver != nil {
		Walk(v, n.Receiver)
	}
	Walk(v, n.Expr)
}
func (n *RunStmt) String() string {
	if n.Receiver == nil {
		return "run"
	}
	if n.Reassign {
		return "run :="
	}
	return "run ="
}
func (n *RunStmt) stmtNode() {}
