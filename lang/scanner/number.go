package scanner

import (
	"strconv"

	"github.com/mna/kiddou/lang/token"
)

// number scans [0-9]+ ( '.' [0-9]+ )? ( 'E' [+-]? [0-9]+ )?, the only number
// grammar Kiddou recognizes. An 'E' with no following digit is a lex error
// but the token is still emitted as a FLOAT with the exponent text dropped
// (treated as if the exponent were zero), matching the original scanner.
func (s *Scanner) number(line, col int) (tok token.Token, lit string) {
	start := s.off
	tok = token.INT

	for isDigit(s.cur) {
		s.advance()
	}

	if s.cur == '.' && isDigit(s.peek()) {
		tok = token.FLOAT
		s.advance()
		for isDigit(s.cur) {
			s.advance()
		}
	}

	if s.cur == 'E' {
		tok = token.FLOAT
		mantissaEnd := s.off
		s.advance()
		if s.cur == '+' || s.cur == '-' {
			s.advance()
		}
		hasExp := false
		for isDigit(s.cur) {
			hasExp = true
			s.advance()
		}
		if !hasExp {
			s.errorAt(line, col, "invalid float exponent")
			return tok, string(s.src[start:mantissaEnd])
		}
	}

	return tok, string(s.src[start:s.off])
}

func parseInt(lit string) (int64, error) {
	return strconv.ParseInt(lit, 10, 64)
}

func parseFloat(lit string) (float64, error) {
	return strconv.ParseFloat(lit, 64)
}
