package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMakePosLineCol(t *testing.T) {
	cases := []struct {
		line, col int
	}{
		{1, 1},
		{42, 7},
		{MaxLines, MaxCols},
	}
	for _, c := range cases {
		p := MakePos(c.line, c.col)
		gotLine, gotCol := p.LineCol()
		assert.Equal(t, c.line, gotLine)
		assert.Equal(t, c.col, gotCol)
		assert.False(t, p.Unknown())
	}
}

func TestPosUnknown(t *testing.T) {
	assert.True(t, Pos(0).Unknown())
	assert.True(t, MakePos(0, 3).Unknown())
	assert.True(t, MakePos(3, 0).Unknown())
	assert.False(t, MakePos(3, 3).Unknown())
}

func TestPosString(t *testing.T) {
	assert.Equal(t, "-", Pos(0).String())
	assert.Equal(t, "3:5", MakePos(3, 5).String())
}
