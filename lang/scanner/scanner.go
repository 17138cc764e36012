// Package scanner tokenizes Kiddou source text.
//
// Some of the scanner package is adapted from the Go source code:
// https://cs.opensource.google/go/go/+/refs/tags/go1.22.1:src/go/scanner/scanner.go
//
// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
package scanner

import (
	"fmt"
	"go/scanner"
	"strings"
	"unicode/utf8"

	"github.com/mna/kiddou/lang/token"
)

type (
	Error     = scanner.Error
	ErrorList = scanner.ErrorList
)

var PrintError = scanner.PrintError

// Scanner tokenizes a single Kiddou source file or REPL line.
type Scanner struct {
	// immutable state after Init
	src []byte
	err func(token.Position, string)

	// mutable scanning state
	sb   strings.Builder
	cur  rune // current character, or -1 at EOF
	off  int  // byte offset of cur
	roff int  // byte offset just past cur
	line int
	col  int
}

// Init prepares the scanner to tokenize src. errHandler is invoked for every
// lexical error encountered; scanning never aborts on error.
func (s *Scanner) Init(src []byte, errHandler func(token.Position, string)) {
	s.src = src
	s.err = errHandler
	s.sb.Reset()
	s.off = 0
	s.roff = 0
	s.line = 1
	s.col = 0
	s.cur = ' '
	s.advance()
}

func (s *Scanner) advance() {
	if s.roff >= len(s.src) {
		s.off = len(s.src)
		s.cur = -1
		return
	}
	if s.cur == '\n' {
		s.line++
		s.col = 0
	}
	s.off = s.roff
	r, w := rune(s.src[s.roff]), 1
	if r >= utf8.RuneSelf {
		r, w = utf8.DecodeRune(s.src[s.roff:])
		if r == utf8.RuneError && w == 1 {
			s.errorAt(s.line, s.col+1, "illegal UTF-8 encoding")
		}
	}
	s.roff += w
	s.col++
	s.cur = r
}

func (s *Scanner) peek() rune {
	if s.roff >= len(s.src) {
		return -1
	}
	r, _ := utf8.DecodeRune(s.src[s.roff:])
	return r
}

func (s *Scanner) advanceIf(r rune) bool {
	if s.cur == r {
		s.advance()
		return true
	}
	return false
}

func (s *Scanner) errorAt(line, col int, msg string) {
	if s.err != nil {
		s.err(token.Position{Line: line, Col: col}, msg)
	}
}

func (s *Scanner) errorf(line, col int, format string, args ...any) {
	s.errorAt(line, col, fmt.Sprintf(format, args...))
}

// Scan returns the next token and fills in its literal value.
func (s *Scanner) Scan(val *token.Value) token.Token {
	s.skipWhitespace()

	line, col := s.line, s.col
	pos := token.MakePos(line, col)
	start := s.off

	switch cur := s.cur; {
	case isDigit(cur):
		tok, lit := s.number(line, col)
		*val = s.tokVal(tok, lit, pos, line, col)
		return tok

	case isAlpha(cur):
		lit := s.identifier()
		tok := token.IDENT
		if kw, ok := token.Keywords[lit]; ok {
			tok = kw
		}
		*val = token.Value{Raw: lit, Pos: pos}
		return tok

	case cur == '"':
		lit, str := s.shortString(line, col)
		*val = token.Value{Raw: lit, Pos: pos, Str: str}
		return token.STRING

	case cur == '#':
		s.comment()
		return s.Scan(val)

	case cur == -1:
		*val = token.Value{Raw: "", Pos: pos}
		return token.EOF
	}

	s.advance() // always make progress past the single current char
	var tok token.Token
	switch cur := s.src[start]; cur {
	case '(':
		tok = token.LPAREN
	case ')':
		tok = token.RPAREN
	case '{':
		tok = token.LBRACE
	case '}':
		tok = token.RBRACE
	case '[':
		tok = token.LBRACKET
	case ']':
		tok = token.RBRACKET
	case '+':
		tok = token.PLUS
	case '-':
		tok = token.MINUS
		if s.advanceIf('>') {
			tok = token.ARROW
		}
	case '*':
		tok = token.STAR
	case '/':
		tok = token.SLASH
		if s.advanceIf('/') {
			tok = token.DBLSLASH
		}
	case '%':
		tok = token.PERCENT
	case '^':
		tok = token.CARET
	case '<':
		tok = token.LESS
		if s.advanceIf('=') {
			tok = token.LESSEQ
		}
	case '>':
		tok = token.GREATER
		if s.advanceIf('=') {
			tok = token.GREATEREQ
		}
	case '!':
		tok = token.BANG
		if s.advanceIf('=') {
			tok = token.NOTEQUAL
		}
	case '?':
		tok = token.QUESTION
	case ';':
		tok = token.SEMI
	case '.':
		tok = token.DOT
	case ',':
		tok = token.COMMA
	case '=':
		tok = token.ASSIGN
		if s.advanceIf('=') {
			tok = token.EQUAL
		}
	case ':':
		tok = token.ILLEGAL
		if s.advanceIf('=') {
			tok = token.REASSIGN
		} else {
			s.errorAt(line, col, "unknown character ':'")
		}
	case '&':
		tok = token.ILLEGAL
		if s.advanceIf('&') {
			tok = token.AND
		} else {
			s.errorAt(line, col, "use && for logical AND")
		}
	case '|':
		tok = token.ILLEGAL
		if s.advanceIf('|') {
			tok = token.OR
		} else {
			s.errorAt(line, col, "use || for logical OR")
		}
	default:
		tok = token.ILLEGAL
		s.errorf(line, col, "unknown character %q", cur)
	}

	*val = token.Value{Raw: string(s.src[start:s.off]), Pos: pos}
	return tok
}

func (s *Scanner) tokVal(tok token.Token, lit string, pos token.Pos, line, col int) token.Value {
	v := token.Value{Raw: lit, Pos: pos}
	switch tok {
	case token.INT:
		n, err := parseInt(lit)
		if err != nil {
			s.errorf(line, col, "invalid int literal %q", lit)
		}
		v.Int = n
	case token.FLOAT:
		f, err := parseFloat(lit)
		if err != nil {
			s.errorf(line, col, "invalid float literal %q", lit)
		}
		v.Float = f
	}
	return v
}

func (s *Scanner) identifier() string {
	start := s.off
	for isAlphaNumeric(s.cur) {
		s.advance()
	}
	return string(s.src[start:s.off])
}

func (s *Scanner) skipWhitespace() {
	for s.cur == ' ' || s.cur == '\t' || s.cur == '\r' || s.cur == '\n' {
		s.advance()
	}
}

func isDigit(r rune) bool  { return r >= '0' && r <= '9' }
func isAlpha(r rune) bool  { return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') }
func isAlphaNumeric(r rune) bool {
	return isAlpha(r) || isDigit(r)
}
