package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenString(t *testing.T) {
	for tok := Token(0); tok < maxToken; tok++ {
		assert.NotEmpty(t, tok.String(), "token %d missing a string form", tok)
	}
}

func TestTokenGoString(t *testing.T) {
	assert.Equal(t, "'+'", PLUS.GoString())
	assert.Equal(t, "identifier", IDENT.GoString())
	assert.Equal(t, "con", CON.GoString())
}

func TestKeywords(t *testing.T) {
	for lit, tok := range Keywords {
		require.Equal(t, lit, tok.String())
	}
}

func TestIsStmtKeyword(t *testing.T) {
	for _, tok := range []Token{CON, RUN, DEF, TYP, ARG, USE} {
		assert.True(t, IsStmtKeyword(tok))
	}
	for _, tok := range []Token{AS, IDENT, PLUS, ARROW, RBRACE} {
		assert.False(t, IsStmtKeyword(tok))
	}
}
