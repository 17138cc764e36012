package parser_test

import (
	"testing"

	"github.com/mna/kiddou/lang/ast"
	"github.com/mna/kiddou/lang/parser"
	"github.com/mna/kiddou/lang/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, err := parser.Parse("test.kdu", []byte(src))
	require.NoError(t, err)
	return prog
}

func TestParseCon(t *testing.T) {
	prog := mustParse(t, `con x = 1`)
	require.Len(t, prog.Stmts, 1)
	stmt, ok := prog.Stmts[0].(*ast.ConStmt)
	require.True(t, ok)
	assert.Equal(t, "x", stmt.Name)
	lit, ok := stmt.Expr.(*ast.LiteralExpr)
	require.True(t, ok)
	assert.Equal(t, token.INT, lit.Tok)
}

func TestParseConRejectsReassign(t *testing.T) {
	_, err := parser.Parse("test.kdu", []byte(`con x := 1`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reassignment not allowed")
}

func TestParseRunDiscard(t *testing.T) {
	prog := mustParse(t, `run print(1)`)
	require.Len(t, prog.Stmts, 1)
	stmt, ok := prog.Stmts[0].(*ast.RunStmt)
	require.True(t, ok)
	assert.Nil(t, stmt.Receiver)
	_, ok = stmt.Expr.(*ast.CallExpr)
	assert.True(t, ok)
}

func TestParseRunDeclareAndReassign(t *testing.T) {
	prog := mustParse(t, "run x = 1\nrun x := 2")
	require.Len(t, prog.Stmts, 2)

	decl := prog.Stmts[0].(*ast.RunStmt)
	assert.False(t, decl.Reassign)
	assert.IsType(t, &ast.VariableExpr{}, decl.Receiver)

	reassign := prog.Stmts[1].(*ast.RunStmt)
	assert.True(t, reassign.Reassign)
}

func TestParseRunIndexReceiverRequiresReassign(t *testing.T) {
	_, err := parser.Parse("test.kdu", []byte(`run xs[0] = 1`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "use ':=' to reassign")
}

func TestParseRunAttributeReceiver(t *testing.T) {
	prog := mustParse(t, `run obj.field := 1`)
	stmt := prog.Stmts[0].(*ast.RunStmt)
	assert.True(t, stmt.Reassign)
	assert.IsType(t, &ast.AttributeExpr{}, stmt.Receiver)
}

func TestParseRunInvalidTarget(t *testing.T) {
	_, err := parser.Parse("test.kdu", []byte(`run 1 = 2`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid assignment target")
}

func TestParsePrecedence(t *testing.T) {
	prog := mustParse(t, `run 1 + 2 * 3`)
	stmt := prog.Stmts[0].(*ast.RunStmt)
	bin := stmt.Expr.(*ast.BinaryExpr)
	assert.Equal(t, token.PLUS, bin.Op)
	rhs := bin.Right.(*ast.BinaryExpr)
	assert.Equal(t, token.STAR, rhs.Op)
}

func TestParsePowerRightAssociative(t *testing.T) {
	prog := mustParse(t, `run 2 ^ 3 ^ 2`)
	stmt := prog.Stmts[0].(*ast.RunStmt)
	bin := stmt.Expr.(*ast.BinaryExpr)
	assert.Equal(t, token.CARET, bin.Op)
	_, ok := bin.Right.(*ast.BinaryExpr)
	assert.True(t, ok, "right operand of ^ should itself be a ^ expression")
}

func TestParseUnaryBindsTighterThanBinary(t *testing.T) {
	prog := mustParse(t, `run -1 + 2`)
	stmt := prog.Stmts[0].(*ast.RunStmt)
	bin := stmt.Expr.(*ast.BinaryExpr)
	assert.Equal(t, token.PLUS, bin.Op)
	_, ok := bin.Left.(*ast.UnaryExpr)
	assert.True(t, ok)
}

func TestParseCallChain(t *testing.T) {
	prog := mustParse(t, `run f(1, 2).attr[0]`)
	stmt := prog.Stmts[0].(*ast.RunStmt)
	idx := stmt.Expr.(*ast.IndexExpr)
	attr := idx.Container.(*ast.AttributeExpr)
	assert.Equal(t, "attr", attr.Name)
	call := attr.Object.(*ast.CallExpr)
	assert.Len(t, call.Args, 2)
}

func TestParseBlockExprNoTail(t *testing.T) {
	prog := mustParse(t, `run { con x = 1 }`)
	stmt := prog.Stmts[0].(*ast.RunStmt)
	block := stmt.Expr.(*ast.BlockExpr)
	assert.Len(t, block.Stmts, 1)
	assert.Nil(t, block.Tail)
}

func TestParseBlockExprWithTail(t *testing.T) {
	prog := mustParse(t, `run { con x = 1 -> x }`)
	stmt := prog.Stmts[0].(*ast.RunStmt)
	block := stmt.Expr.(*ast.BlockExpr)
	assert.Len(t, block.Stmts, 1)
	require.NotNil(t, block.Tail)
	assert.IsType(t, &ast.VariableExpr{}, block.Tail)
}

func TestParseBlockExprEmpty(t *testing.T) {
	prog := mustParse(t, `run {}`)
	stmt := prog.Stmts[0].(*ast.RunStmt)
	block := stmt.Expr.(*ast.BlockExpr)
	assert.Empty(t, block.Stmts)
	assert.Nil(t, block.Tail)
}

func TestParseBlockExprZeroStatementTail(t *testing.T) {
	prog := mustParse(t, `run { 5 }`)
	stmt := prog.Stmts[0].(*ast.RunStmt)
	block := stmt.Expr.(*ast.BlockExpr)
	assert.Empty(t, block.Stmts)
	require.NotNil(t, block.Tail)
	lit, ok := block.Tail.(*ast.LiteralExpr)
	require.True(t, ok)
	assert.Equal(t, token.INT, lit.Tok)
}

func TestParseSequenceExpr(t *testing.T) {
	prog := mustParse(t, `run [1, 2, 3,]`)
	stmt := prog.Stmts[0].(*ast.RunStmt)
	seq := stmt.Expr.(*ast.SequenceExpr)
	assert.Len(t, seq.Elements, 3)
}

func TestParseBraceCannotEncloseSequence(t *testing.T) {
	_, err := parser.Parse("test.kdu", []byte(`run { 1, 2 }`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "closing does not match opening")
}

func TestParseBracketCannotEncloseBlock(t *testing.T) {
	_, err := parser.Parse("test.kdu", []byte(`run [ con x = 1 ]`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "closing does not match opening")
}

func TestParseTooManyArgs(t *testing.T) {
	var src string
	for i := 0; i < 256; i++ {
		if i > 0 {
			src += ", "
		}
		src += "1"
	}
	_, err := parser.Parse("test.kdu", []byte("run f("+src+")"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too many arguments")
}

func TestParseErrorRecoverySynchronizes(t *testing.T) {
	prog, err := parser.Parse("test.kdu", []byte("con = 1\ncon y = 2"))
	require.Error(t, err)
	require.Len(t, prog.Stmts, 2)
	assert.IsType(t, &ast.BadStmt{}, prog.Stmts[0])
	second, ok := prog.Stmts[1].(*ast.ConStmt)
	require.True(t, ok)
	assert.Equal(t, "y", second.Name)
}
