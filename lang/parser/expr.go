package parser

import (
	"github.com/mna/kiddou/lang/ast"
	"github.com/mna/kiddou/lang/token"
)

// maxCallArgs is the soft cap on the number of arguments in a call
// expression; exceeding it is reported but does not abort parsing.
const maxCallArgs = 255

// parseExpr parses a full expression, the loosest level of the precedence
// chain (the `;` piece operator).
func (p *parser) parseExpr() ast.Expr {
	return p.parsePiece()
}

func (p *parser) parsePiece() ast.Expr {
	return p.parseBinaryLeft(p.parseDomain, token.SEMI)
}

func (p *parser) parseDomain() ast.Expr {
	return p.parseBinaryLeft(p.parseOr, token.QUESTION)
}

func (p *parser) parseOr() ast.Expr {
	return p.parseBinaryLeft(p.parseAnd, token.OR)
}

func (p *parser) parseAnd() ast.Expr {
	return p.parseBinaryLeft(p.parseEquality, token.AND)
}

func (p *parser) parseEquality() ast.Expr {
	return p.parseBinaryLeft(p.parseComparison, token.EQUAL, token.NOTEQUAL)
}

func (p *parser) parseComparison() ast.Expr {
	return p.parseBinaryLeft(p.parseSum, token.LESS, token.LESSEQ, token.GREATER, token.GREATEREQ)
}

func (p *parser) parseSum() ast.Expr {
	return p.parseBinaryLeft(p.parseTerm, token.PLUS, token.MINUS)
}

func (p *parser) parseTerm() ast.Expr {
	return p.parseBinaryLeft(p.parseFactor, token.STAR, token.SLASH, token.DBLSLASH, token.PERCENT)
}

// parseBinaryLeft parses a left-associative chain of binary operators at a
// single precedence level, deferring to next for the operands.
func (p *parser) parseBinaryLeft(next func() ast.Expr, ops ...token.Token) ast.Expr {
	left := next()
	for tokenIn(p.tok, ops...) {
		op := p.tok
		opPos := p.val.Pos
		p.advance()
		right := next()
		left = &ast.BinaryExpr{Left: left, Op: op, OpPos: opPos, Right: right}
	}
	return left
}

// parseFactor handles the unary operators `!` and `-`, which bind tighter
// than any binary operator except `^`.
func (p *parser) parseFactor() ast.Expr {
	if p.tok == token.BANG || p.tok == token.MINUS {
		op := p.tok
		opPos := p.val.Pos
		p.advance()
		right := p.parseFactor()
		return &ast.UnaryExpr{Op: op, OpPos: opPos, Right: right}
	}
	return p.parsePower()
}

// parsePower handles `^`, which is right-associative and binds tighter than
// unary so that -2^2 parses as -(2^2).
func (p *parser) parsePower() ast.Expr {
	left := p.parseCall()
	if p.tok == token.CARET {
		opPos := p.val.Pos
		p.advance()
		right := p.parseFactor()
		return &ast.BinaryExpr{Left: left, Op: token.CARET, OpPos: opPos, Right: right}
	}
	return left
}

// parseCall handles the postfix chain of calls, indexing and attribute
// access applied to a primary expression, e.g. f(x).ys[0].
func (p *parser) parseCall() ast.Expr {
	expr := p.parsePrimary()
	for {
		switch p.tok {
		case token.LPAREN:
			expr = p.parseCallArgs(expr)
		case token.LBRACKET:
			expr = p.parseIndex(expr)
		case token.DOT:
			expr = p.parseAttribute(expr)
		default:
			return expr
		}
	}
}

func (p *parser) parseCallArgs(callee ast.Expr) *ast.CallExpr {
	p.expect(token.LPAREN)

	var args []ast.Expr
	if p.tok != token.RPAREN {
		args = append(args, p.parseExpr())
		for p.tok == token.COMMA {
			p.advance()
			if p.tok == token.RPAREN {
				break // trailing comma
			}
			if len(args) >= maxCallArgs {
				p.error(p.val.Pos, "too many arguments in call (max 255)")
			}
			args = append(args, p.parseExpr())
		}
	}

	rparen := p.expect(token.RPAREN)
	return &ast.CallExpr{Callee: callee, Args: args, Rparen: rparen}
}

func (p *parser) parseIndex(container ast.Expr) *ast.IndexExpr {
	p.expect(token.LBRACKET)
	index := p.parseExpr()
	rbracket := p.expect(token.RBRACKET)
	return &ast.IndexExpr{Container: container, Index: index, Rbracket: rbracket}
}

func (p *parser) parseAttribute(object ast.Expr) *ast.AttributeExpr {
	dot := p.expect(token.DOT)
	name := p.val.Raw
	end := p.expect(token.IDENT)
	return &ast.AttributeExpr{Object: object, Name: name, Dot: dot, End: end}
}

// parsePrimary parses a literal, a variable reference, a parenthesized
// expression, or a block/sequence constructor.
func (p *parser) parsePrimary() ast.Expr {
	switch p.tok {
	case token.UNDEF, token.TRUE, token.FALSE, token.INT, token.FLOAT, token.STRING:
		return p.parseLiteral()
	case token.IDENT:
		return p.parseVariable()
	case token.LPAREN:
		return p.parseParen()
	case token.LBRACE:
		return p.parseBlockExpr()
	case token.LBRACKET:
		return p.parseSequenceExpr()
	default:
		start := p.val.Pos
		p.errorExpected(start, "expression")
		panic(errPanicMode)
	}
}

func (p *parser) parseLiteral() *ast.LiteralExpr {
	lit := &ast.LiteralExpr{Tok: p.tok, Pos: p.val.Pos, Raw: p.val.Raw, Val: p.val}
	p.advance()
	return lit
}

func (p *parser) parseVariable() *ast.VariableExpr {
	v := &ast.VariableExpr{Name: p.val.Raw, Pos: p.val.Pos}
	p.advance()
	return v
}

func (p *parser) parseParen() *ast.ParenExpr {
	lparen := p.expect(token.LPAREN)
	expr := p.parseExpr()
	rparen := p.expect(token.RPAREN)
	return &ast.ParenExpr{Lparen: lparen, Rparen: rparen, Expr: expr}
}
