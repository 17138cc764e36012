package scanner

import (
	"testing"

	"github.com/mna/kiddou/lang/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scanAll(t *testing.T, src string) ([]token.Token, []token.Value, []string) {
	t.Helper()
	var (
		s    Scanner
		toks []token.Token
		vals []token.Value
		errs []string
		val  token.Value
	)
	s.Init([]byte(src), func(pos token.Position, msg string) {
		errs = append(errs, msg)
	})
	for {
		tok := s.Scan(&val)
		toks = append(toks, tok)
		vals = append(vals, val)
		if tok == token.EOF {
			break
		}
	}
	return toks, vals, errs
}

func TestScanPunctuation(t *testing.T) {
	toks, _, errs := scanAll(t, `( ) { } [ ] + - * / // % ^ < <= > >= ! ? ; . , == != && || = := ->`)
	require.Empty(t, errs)
	want := []token.Token{
		token.LPAREN, token.RPAREN, token.LBRACE, token.RBRACE, token.LBRACKET, token.RBRACKET,
		token.PLUS, token.MINUS, token.STAR, token.SLASH, token.DBLSLASH, token.PERCENT, token.CARET,
		token.LESS, token.LESSEQ, token.GREATER, token.GREATEREQ, token.BANG, token.QUESTION,
		token.SEMI, token.DOT, token.COMMA, token.EQUAL, token.NOTEQUAL, token.AND, token.OR,
		token.ASSIGN, token.REASSIGN, token.ARROW, token.EOF,
	}
	assert.Equal(t, want, toks)
}

func TestScanKeywordsAndIdentifiers(t *testing.T) {
	toks, vals, errs := scanAll(t, `true false undef con run foo_bar _x1`)
	require.Empty(t, errs)
	want := []token.Token{
		token.TRUE, token.FALSE, token.UNDEF, token.CON, token.RUN, token.IDENT, token.IDENT, token.EOF,
	}
	assert.Equal(t, want, toks)
	assert.Equal(t, "foo_bar", vals[5].Raw)
	assert.Equal(t, "_x1", vals[6].Raw)
}

func TestScanNumbers(t *testing.T) {
	toks, vals, errs := scanAll(t, `123 1.5 1E10 1.5E-3 2E`)
	require.Len(t, errs, 1)
	want := []token.Token{token.INT, token.FLOAT, token.FLOAT, token.FLOAT, token.FLOAT, token.EOF}
	assert.Equal(t, want, toks)
	assert.EqualValues(t, 123, vals[0].Int)
	assert.InDelta(t, 1.5, vals[1].Float, 0)
	assert.InDelta(t, 1E10, vals[2].Float, 0)
	assert.InDelta(t, 1.5E-3, vals[3].Float, 0)
	assert.InDelta(t, 2, vals[4].Float, 0) // invalid exponent: treated as if exponent were 0
}

func TestScanString(t *testing.T) {
	toks, vals, errs := scanAll(t, "\"hello\\nworld\" \"a\nb\"")
	require.Empty(t, errs)
	require.Equal(t, token.STRING, toks[0])
	assert.Equal(t, `hello\nworld`, vals[0].Str) // no escape processing
	assert.Equal(t, "a\nb", vals[1].Str)         // literal newline allowed inside
}

func TestScanUnterminatedString(t *testing.T) {
	_, _, errs := scanAll(t, `"abc`)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "unterminated")
}

func TestScanComment(t *testing.T) {
	toks, _, errs := scanAll(t, "con x = 1 # a comment\nrun print(x)")
	require.Empty(t, errs)
	assert.Contains(t, toks, token.RUN)
	assert.NotContains(t, toks, token.ILLEGAL)
}

func TestScanBareAmpersandAndPipe(t *testing.T) {
	_, _, errs := scanAll(t, "&")
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "&&")

	_, _, errs = scanAll(t, "|")
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "||")
}

func TestScanUnknownCharacter(t *testing.T) {
	_, _, errs := scanAll(t, "@")
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "unknown character")
}
