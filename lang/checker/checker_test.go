package checker_test

import (
	"testing"

	"github.com/mna/kiddou/lang/ast"
	"github.com/mna/kiddou/lang/checker"
	"github.com/mna/kiddou/lang/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseAndCheck(t *testing.T, src string) (*ast.Program, error) {
	t.Helper()
	prog, err := parser.Parse("test.kdu", []byte(src))
	require.NoError(t, err)
	return prog, checker.Check("test.kdu", prog)
}

func TestCheckValidProgram(t *testing.T) {
	_, err := parseAndCheck(t, "con x = 1\nrun print(x)")
	assert.NoError(t, err)
}

func TestCheckUndefinedVariable(t *testing.T) {
	_, err := parseAndCheck(t, "run print(y)")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "undefined variable: y")
}

func TestCheckReassignUndefined(t *testing.T) {
	_, err := parseAndCheck(t, "run x := 1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "undefined variable: x")
}

func TestCheckRunDeclareThenReassign(t *testing.T) {
	_, err := parseAndCheck(t, "run x = 1\nrun x := 2")
	assert.NoError(t, err)
}

func TestCheckConRedeclarationSameScopeIsError(t *testing.T) {
	_, err := parseAndCheck(t, "con x = 1\ncon x = 2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already declared in this scope: x")
}

func TestCheckRunDeclareOverConSameScopeIsError(t *testing.T) {
	_, err := parseAndCheck(t, "con x = 1\nrun x = 2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already declared in this scope: x")
}

func TestCheckConShadowInNestedBlockIsAllowed(t *testing.T) {
	_, err := parseAndCheck(t, "con x = 1\nrun { con x = 2 -> x }")
	assert.NoError(t, err)
}

func TestCheckBlockDependentNames(t *testing.T) {
	prog, err := parseAndCheck(t, "con x = 1\ncon y = 2\nrun { -> x }")
	require.NoError(t, err)

	runStmt := prog.Stmts[2].(*ast.RunStmt)
	block := runStmt.Expr.(*ast.BlockExpr)
	assert.Equal(t, map[string]bool{"x": true}, block.DependentNames)
}

func TestCheckBlockDoesNotDependOnLocallyDeclaredNames(t *testing.T) {
	prog, err := parseAndCheck(t, "run { con x = 1 -> x }")
	require.NoError(t, err)

	runStmt := prog.Stmts[0].(*ast.RunStmt)
	block := runStmt.Expr.(*ast.BlockExpr)
	assert.Empty(t, block.DependentNames)
}

func TestCheckNestedBlockPropagatesFreeNames(t *testing.T) {
	prog, err := parseAndCheck(t, "con x = 1\nrun { -> { -> x } }")
	require.NoError(t, err)

	outerRun := prog.Stmts[1].(*ast.RunStmt)
	outerBlock := outerRun.Expr.(*ast.BlockExpr)
	innerBlock := outerBlock.Tail.(*ast.BlockExpr)

	assert.Equal(t, map[string]bool{"x": true}, outerBlock.DependentNames)
	assert.Equal(t, map[string]bool{"x": true}, innerBlock.DependentNames)
}
