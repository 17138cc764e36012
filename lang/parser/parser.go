// Package parser implements the parser that transforms Kiddou source text
// into an abstract syntax tree (AST).
package parser

import (
	"errors"
	"go/scanner"
	gotoken "go/token"
	"strings"

	"github.com/mna/kiddou/lang/ast"
	kscanner "github.com/mna/kiddou/lang/scanner"
	"github.com/mna/kiddou/lang/token"
)

// Parse parses a single Kiddou source file or REPL line, named filename for
// error reporting, into a Program. The returned error, if non-nil, is a
// scanner.ErrorList value (an alias for go/scanner.ErrorList).
func Parse(filename string, src []byte) (*ast.Program, error) {
	var p parser
	p.filename = filename
	p.scanner.Init(src, p.handleScanError)
	p.advance()
	prog := p.parseProgram()
	p.errors.Sort()
	return prog, p.errors.Err()
}

// parser parses a Kiddou source file and builds its AST.
type parser struct {
	filename string
	scanner  kscanner.Scanner
	errors   scanner.ErrorList

	// current token
	tok token.Token
	val token.Value
}

func (p *parser) handleScanError(pos token.Position, msg string) {
	p.errors.Add(gotoken.Position{Filename: p.filename, Line: pos.Line, Column: pos.Col}, msg)
}

func (p *parser) advance() {
	p.tok = p.scanner.Scan(&p.val)
}

var errPanicMode = errors.New("panic")

// expect returns the position of the current token and consumes it if it is
// one of the expected tokens, otherwise it reports an error and panics with
// errPanicMode, which is recovered at the statement level and turned into a
// BadStmt.
func (p *parser) expect(toks ...token.Token) token.Pos {
	pos := p.val.Pos

	var buf strings.Builder
	var ok bool
	for i, tok := range toks {
		if p.tok == tok {
			ok = true
			break
		}
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(tok.GoString())
	}

	if !ok {
		var lbl string
		if len(toks) > 1 {
			lbl = "one of " + buf.String()
		} else {
			lbl = buf.String()
		}
		p.errorExpected(pos, lbl)
		panic(errPanicMode)
	}

	p.advance()
	return pos
}

func (p *parser) error(pos token.Pos, msg string) {
	line, col := pos.LineCol()
	p.errors.Add(gotoken.Position{Filename: p.filename, Line: line, Column: col}, msg)
}

func (p *parser) errorExpected(pos token.Pos, msg string) {
	msg = "expected " + msg
	if pos == p.val.Pos {
		// the error happened at the current position; make the message more
		// specific by naming what was actually found.
		if lit := literalOf(p.tok, p.val); lit != "" {
			msg += ", found " + lit
		} else {
			msg += ", found " + p.tok.GoString()
		}
	}
	p.error(pos, msg)
}

// literalOf returns the source text of tok's value for tokens that carry one,
// or "" for tokens whose name already says everything (punctuation, EOF).
func literalOf(tok token.Token, val token.Value) string {
	switch tok {
	case token.IDENT, token.INT, token.FLOAT, token.STRING:
		return val.Raw
	}
	return ""
}

func tokenIn(t token.Token, toks ...token.Token) bool {
	for _, tok := range toks {
		if t == tok {
			return true
		}
	}
	return false
}
