/*
File    : relox/interp/interpreter_test.go
*/
package interp

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relox-lang/relox/lexer"
	"github.com/relox-lang/relox/parser"
	"github.com/relox-lang/relox/value"
)

// run lexes, parses, and evaluates src against a fresh Interpreter,
// returning the captured stdout and the pipeline's error (if any).
func run(t *testing.T, src string) (string, error) {
	t.Helper()
	tokens, err := lexer.New(src).ScanTokens()
	require.NoError(t, err)
	decls, err := parser.New(tokens).Parse()
	require.NoError(t, err)

	var out bytes.Buffer
	machine := New()
	machine.SetOutput(&out)
	_, runErr := machine.Run(decls)
	return out.String(), runErr
}

func TestEval_ArithmeticPrecedence(t *testing.T) {
	out, err := run(t, "print 1 + 2 * 3;")
	require.NoError(t, err)
	assert.Equal(t, "7\n", out)
}

func TestEval_StringConcatenation(t *testing.T) {
	out, err := run(t, `print "hi " + "there";`)
	require.NoError(t, err)
	assert.Equal(t, "hi there\n", out)
}

func TestEval_PlusCoercesNonStringOperand(t *testing.T) {
	out, err := run(t, `print "count: " + 3; print 3 + " apples";`)
	require.NoError(t, err)
	assert.Equal(t, "count: 3\n3 apples\n", out)
}

func TestEval_BlockScopingShadowsThenRestores(t *testing.T) {
	out, err := run(t, "var a = 1; { var a = 2; print a; } print a;")
	require.NoError(t, err)
	assert.Equal(t, "2\n1\n", out)
}

func TestEval_DivisionByZero(t *testing.T) {
	_, err := run(t, "print 1 / 0;")
	require.Error(t, err)
	assert.Equal(t, "[line 1] Error : Division by zero is prohibited.", err.Error())
}

func TestEval_TernaryShortCircuitsUnchosenBranch(t *testing.T) {
	out, err := run(t, "print true ? 1 : (0/0);")
	require.NoError(t, err)
	assert.Equal(t, "1\n", out)
}

func TestEval_UndefinedVariableOnAssign(t *testing.T) {
	_, err := run(t, "x = 5;")
	require.Error(t, err)
	assert.Equal(t, "[line 1] Error : Undefined variable 'x'.", err.Error())
}

func TestEval_UndefinedVariableOnRead(t *testing.T) {
	_, err := run(t, "print x;")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Undefined variable 'x'.")
}

func TestEval_ComparisonAndEquality(t *testing.T) {
	out, err := run(t, "print (1 < 2) == true;")
	require.NoError(t, err)
	assert.Equal(t, "true\n", out)
}

func TestEval_UnaryMinusRequiresNumber(t *testing.T) {
	_, err := run(t, `print -"a";`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Expected number as operand to MINUS.")
}

func TestEval_HeterogeneousEqualityNeverFails(t *testing.T) {
	out, err := run(t, `print 1 == "1"; print nil == false; print nil == nil;`)
	require.NoError(t, err)
	assert.Equal(t, "false\nfalse\ntrue\n", out)
}

func TestEval_BlockLeavesNoFramesOnError(t *testing.T) {
	tokens, err := lexer.New("{ var a = 1 / 0; }").ScanTokens()
	require.NoError(t, err)
	decls, err := parser.New(tokens).Parse()
	require.NoError(t, err)

	machine := New()
	before := machine.Env.Depth()
	_, runErr := machine.Run(decls)
	require.Error(t, runErr)
	assert.Equal(t, before, machine.Env.Depth(), "scope frame must be popped even when the block errors")
}

func TestEval_BlockValueIsTailExpression(t *testing.T) {
	tokens, err := lexer.New("{ var a = 1; a + 41 }").ScanTokens()
	require.NoError(t, err)
	decls, err := parser.New(tokens).Parse()
	require.NoError(t, err)

	machine := New()
	result, err := machine.Run(decls)
	require.NoError(t, err)
	assert.Equal(t, value.NumberValue(42), result)
}

func TestEval_EmptyBlockValueIsNil(t *testing.T) {
	tokens, err := lexer.New("{ }").ScanTokens()
	require.NoError(t, err)
	decls, err := parser.New(tokens).Parse()
	require.NoError(t, err)

	result, err := New().Run(decls)
	require.NoError(t, err)
	assert.Equal(t, value.NilValue, result)
}

func TestEval_StringComparisonIsLexicographic(t *testing.T) {
	out, err := run(t, `print "apple" < "banana";`)
	require.NoError(t, err)
	assert.Equal(t, "true\n", out)
}

func TestEval_MismatchedComparisonTypesFail(t *testing.T) {
	_, err := run(t, `print 1 < "1";`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Mismatched types")
}
