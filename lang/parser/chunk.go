package parser

import (
	"github.com/mna/kiddou/lang/ast"
	"github.com/mna/kiddou/lang/token"
)

// parseProgram parses the full top-level sequence of con/run statements that
// make up one file or REPL entry.
func (p *parser) parseProgram() *ast.Program {
	var stmts []ast.Stmt
	for p.tok != token.EOF {
		stmts = append(stmts, p.parseStmt())
	}
	return &ast.Program{Stmts: stmts, EOF: p.val.Pos}
}

// syncAfterError skips tokens until it reaches a safe resumption point: the
// start of another statement, or an unmatched closing bracket. Braces and
// brackets are both depth-tracked so that a balanced `{...}` or `[...]`
// group being skipped over is not mistaken for the end of the enclosing one.
func (p *parser) syncAfterError() token.Pos {
	braceDepth, bracketDepth := 0, 0
	for p.tok != token.EOF {
		switch p.tok {
		case token.LBRACE:
			braceDepth++
		case token.RBRACE:
			if braceDepth == 0 {
				pos := p.val.Pos
				p.advance()
				return pos
			}
			braceDepth--
		case token.LBRACKET:
			bracketDepth++
		case token.RBRACKET:
			if bracketDepth == 0 {
				pos := p.val.Pos
				p.advance()
				return pos
			}
			bracketDepth--
		case token.CON, token.RUN, token.DEF, token.TYP, token.ARG, token.USE:
			if braceDepth == 0 && bracketDepth == 0 {
				return p.val.Pos
			}
		}
		p.advance()
	}
	return p.val.Pos
}

// parseBlockExpr parses a `{…}` constructor. Per the constructor
// disambiguation rule, a leading statement keyword commits to a Block: zero
// or more statements, then an optional `-> tail`. Otherwise a single
// expression is parsed; if it turns out to be followed by `,`, the content
// is Sequence-shaped, which `{` can never open, and is reported as a
// mismatched closing bracket rather than silently accepted. With no comma,
// that expression is the zero-statement block's tail.
func (p *parser) parseBlockExpr() *ast.BlockExpr {
	lbrace := p.expect(token.LBRACE)

	var stmts []ast.Stmt
	var tail ast.Expr

	if p.tok != token.RBRACE && p.tok != token.ARROW && !token.IsStmtKeyword(p.tok) {
		first := p.parseExpr()
		if p.tok == token.COMMA {
			p.error(p.val.Pos, "closing does not match opening: '{' cannot enclose a Sequence")
			for p.tok == token.COMMA {
				p.advance()
				if p.tok == token.RBRACE || p.tok == token.EOF {
					break
				}
				p.parseExpr()
			}
		} else {
			tail = first
		}
	} else {
		for !tokenIn(p.tok, token.RBRACE, token.ARROW, token.EOF) {
			stmts = append(stmts, p.parseStmt())
		}
		if p.tok == token.ARROW {
			p.advance()
			tail = p.parseExpr()
		}
	}

	rbrace := p.expect(token.RBRACE)
	return &ast.BlockExpr{Lbrace: lbrace, Rbrace: rbrace, Stmts: stmts, Tail: tail}
}

// parseSequenceExpr parses a `[…]` constructor: an eager, comma-separated
// list with an optional trailing comma. A leading statement keyword means
// the content is Block-shaped, which `[` can never open; that is reported
// as a mismatched closing bracket, and the block-like content is parsed and
// discarded so the parser resynchronizes at the closing `]`.
func (p *parser) parseSequenceExpr() *ast.SequenceExpr {
	lbracket := p.expect(token.LBRACKET)

	if token.IsStmtKeyword(p.tok) {
		p.error(p.val.Pos, "closing does not match opening: '[' cannot enclose a Block")
		for !tokenIn(p.tok, token.RBRACKET, token.ARROW, token.EOF) {
			p.parseStmt()
		}
		if p.tok == token.ARROW {
			p.advance()
			p.parseExpr()
		}
		rbracket := p.expect(token.RBRACKET)
		return &ast.SequenceExpr{Lbracket: lbracket, Rbracket: rbracket}
	}

	var elems []ast.Expr
	if p.tok != token.RBRACKET {
		elems = append(elems, p.parseExpr())
		for p.tok == token.COMMA {
			p.advance()
			if p.tok == token.RBRACKET {
				break // trailing comma
			}
			elems = append(elems, p.parseExpr())
		}
	}

	rbracket := p.expect(token.RBRACKET)
	return &ast.SequenceExpr{Lbracket: lbracket, Rbracket: rbracket, Elements: elems}
}
