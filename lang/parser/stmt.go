package parser

import (
	"github.com/mna/kiddou/lang/ast"
	"github.com/mna/kiddou/lang/token"
)

// parseStmt parses one top-level or block-level statement. On a parse error
// it recovers at the synchronize points and returns a BadStmt spanning the
// skipped tokens, so callers never need to check for nil.
func (p *parser) parseStmt() (stmt ast.Stmt) {
	start := p.val.Pos

	defer func() {
		if err := recover(); err != nil {
			if err == errPanicMode {
				stmt = &ast.BadStmt{Start: start, End: p.syncAfterError()}
				return
			}
			panic(err)
		}
	}()

	switch p.tok {
	case token.CON:
		return p.parseCon()
	case token.RUN:
		return p.parseRun()
	default:
		p.errorExpected(start, "'con' or 'run'")
		panic(errPanicMode)
	}
}

// parseCon parses `con IDENT = expr`, an immutable binding. Reassignment
// (`:=`) is not a valid form here since con never overwrites an existing
// name.
func (p *parser) parseCon() *ast.ConStmt {
	p.expect(token.CON)
	namePos := p.val.Pos
	name := p.val.Raw
	p.expect(token.IDENT)

	if p.tok == token.REASSIGN {
		p.error(p.val.Pos, "reassignment not allowed in a con declaration")
		p.advance()
	} else {
		p.expect(token.ASSIGN)
	}

	expr := p.parseExpr()
	return &ast.ConStmt{Name: name, NamePos: namePos, Expr: expr}
}

// parseRun parses `run expr`, reinterpreting a parsed expression as an
// assignment receiver when it is immediately followed by `=` or `:=`:
//
//   - no `=`/`:=` follows: the expression's value is discarded.
//   - the expression is a Variable: `=` declares a new mutable binding
//     (shadowing permitted), `:=` overwrites an existing one.
//   - the expression is an Index or Attribute: only `:=` is valid, since
//     those receivers can never introduce a new binding.
//   - the expression is anything else: the target is invalid; the
//     right-hand side is still parsed and discarded for recovery.
func (p *parser) parseRun() *ast.RunStmt {
	p.expect(token.RUN)
	first := p.parseExpr()

	if p.tok != token.ASSIGN && p.tok != token.REASSIGN {
		return &ast.RunStmt{Expr: first}
	}

	reassign := p.tok == token.REASSIGN
	assignPos := p.val.Pos
	p.advance()

	target := ast.Unwrap(first)
	if !ast.IsAssignable(target) {
		p.error(assignPos, "invalid assignment target")
		p.parseExpr() // parse and discard the right-hand side, for recovery
		return &ast.RunStmt{Expr: first}
	}

	switch target.(type) {
	case *ast.IndexExpr, *ast.AttributeExpr:
		if !reassign {
			p.error(assignPos, "cannot declare a new binding through an index or attribute; use ':=' to reassign")
			reassign = true
		}
	}

	rhs := p.parseExpr()
	return &ast.RunStmt{Receiver: target, Expr: rhs, Reassign: reassign}
}
