/*
File    : relox/parser/parser_test.go
*/
package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relox-lang/relox/ast"
	"github.com/relox-lang/relox/lexer"
)

func parseSource(t *testing.T, src string) []ast.Expr {
	t.Helper()
	tokens, err := lexer.New(src).ScanTokens()
	require.NoError(t, err)
	decls, err := New(tokens).Parse()
	require.NoError(t, err)
	return decls
}

func TestParse_PrecedenceAndAssociativity(t *testing.T) {
	tests := []struct {
		src  string
		dump string
	}{
		{"1 + 2 * 3;", "(PLUS 1 (STAR 2 3))"},
		{"(1+2)*3;", "(STAR (group (PLUS 1 2)) 3)"},
		{"-1;", "(MINUS 1)"},
		{"!!true;", "(BANG (BANG true))"},
		{"1 - 2 - 3;", "(MINUS (MINUS 1 2) 3)"},
		{"1 == 2 == 3;", "(EQUAL (EQUAL 1 2) 3)"},
	}
	for _, tt := range tests {
		decls := parseSource(t, tt.src)
		require.Len(t, decls, 1)
		stmt, ok := decls[0].(*ast.Statement)
		require.True(t, ok)
		assert.Equal(t, tt.dump, ast.Print(stmt.Inner), "source: %s", tt.src)
	}
}

func TestParse_AssignmentIsRightAssociativeAndOnlyValidOnReads(t *testing.T) {
	decls := parseSource(t, "x = y = 1;")
	require.Len(t, decls, 1)
	stmt := decls[0].(*ast.Statement)
	outer, ok := stmt.Inner.(*ast.Assign)
	require.True(t, ok)
	assert.Equal(t, "x", outer.Name.Lexeme)
	inner, ok := outer.Value.(*ast.Assign)
	require.True(t, ok)
	assert.Equal(t, "y", inner.Name.Lexeme)

	tokens, err := lexer.New("1 = 2;").ScanTokens()
	require.NoError(t, err)
	_, err = New(tokens).Parse()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Cannot assign to an rvalue.")
}

func TestParse_TernaryIsRightAssociative(t *testing.T) {
	decls := parseSource(t, "true ? 1 : false ? 2 : 3;")
	require.Len(t, decls, 1)
	stmt := decls[0].(*ast.Statement)
	top, ok := stmt.Inner.(*ast.Ternary)
	require.True(t, ok)
	_, ok = top.Else.(*ast.Ternary)
	assert.True(t, ok, "else branch should itself be a nested ternary")
}

func TestParse_MissingLeftOperand(t *testing.T) {
	tokens, err := lexer.New("== 3;").ScanTokens()
	require.NoError(t, err)
	_, err = New(tokens).Parse()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Binary expression missing left operand.")
}

func TestParse_UnaryMinusIsNotMissingOperand(t *testing.T) {
	decls := parseSource(t, "- 3;")
	require.Len(t, decls, 1)
}

func TestParse_BlockTailExpressionBecomesValue(t *testing.T) {
	decls := parseSource(t, "{ var a = 1; a + 1 }")
	require.Len(t, decls, 1)
	block, ok := decls[0].(*ast.Block)
	require.True(t, ok)
	require.Len(t, block.Items, 2)
	_, isDef := block.Items[0].(*ast.Definition)
	assert.True(t, isDef)
	_, isTailBinary := block.Items[1].(*ast.Binary)
	assert.True(t, isTailBinary, "tail item should be the raw expression, not wrapped in a Statement")
}

func TestParse_UnclosedBlockFails(t *testing.T) {
	tokens, err := lexer.New("{ var a = 1;").ScanTokens()
	require.NoError(t, err)
	_, err = New(tokens).Parse()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Expected '}' token")
}

func TestParse_MissingSemicolonFails(t *testing.T) {
	tokens, err := lexer.New("print 1").ScanTokens()
	require.NoError(t, err)
	_, err = New(tokens).Parse()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Expected ';' after expression.")
}

func TestParse_UnclosedParenFails(t *testing.T) {
	tokens, err := lexer.New("(1 + 2;").ScanTokens()
	require.NoError(t, err)
	_, err = New(tokens).Parse()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Expected a closing ')'")
}

func TestParse_PrimaryFallThrough(t *testing.T) {
	tokens, err := lexer.New(");").ScanTokens()
	require.NoError(t, err)
	_, err = New(tokens).Parse()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not match the primary rule")
}

func TestParse_CommaListIsLeftFolded(t *testing.T) {
	decls := parseSource(t, "1, 2, 3;")
	stmt := decls[0].(*ast.Statement)
	assert.Equal(t, "(COMMA (COMMA 1 2) 3)", ast.Print(stmt.Inner))
}

func TestParse_FiltersCommentTokensItself(t *testing.T) {
	tokens, err := lexer.New("1 + 2; // trailing comment").ScanTokens()
	require.NoError(t, err)
	decls, err := New(tokens).Parse()
	require.NoError(t, err)
	require.Len(t, decls, 1)
}
