/*
File    : relox/interp/interpreter.go

Package interp implements the tree-walking evaluator: a single recursive
function that destructures ast.Expr by type switch (the "visitor"
collapses into one function, per the Design Notes), carrying a
lexically-scoped env.Environment and writing Print side effects to an
io.Writer. Every fallible case returns either a value.Value or a
*diag.Error; the first error short-circuits the remainder of the current
top-level declaration (and, via Run, the remainder of the program).
*/
package interp

import (
	"fmt"
	"io"
	"os"

	"github.com/relox-lang/relox/ast"
	"github.com/relox-lang/relox/diag"
	"github.com/relox-lang/relox/env"
	"github.com/relox-lang/relox/value"
)

// Interpreter walks an AST against a persistent Environment. A REPL
// reuses one Interpreter across iterations; file execution uses a fresh
// one.
type Interpreter struct {
	Env *env.Environment
	Out io.Writer
}

// New creates an Interpreter with a fresh global environment, writing
// Print output to os.Stdout by default.
func New() *Interpreter {
	return &Interpreter{Env: env.New(), Out: os.Stdout}
}

// SetOutput redirects Print side effects to w.
func (in *Interpreter) SetOutput(w io.Writer) { in.Out = w }

// Run evaluates each top-level declaration in order, short-circuiting on
// the first error. It returns the last declaration's value (the
// immediate-result-dump side channel), or the error that stopped
// evaluation.
func (in *Interpreter) Run(decls []ast.Expr) (value.Value, error) {
	last := value.NilValue
	for _, d := range decls {
		v, err := in.Eval(d)
		if err != nil {
			return value.NilValue, err
		}
		last = v
	}
	return last, nil
}

// Eval evaluates a single expression node, dispatching on its concrete
// type.
func (in *Interpreter) Eval(expr ast.Expr) (value.Value, error) {
	switch n := expr.(type) {
	case *ast.Literal:
		return n.Value, nil
	case *ast.Read:
		v, err := in.Env.Lookup(n.Name.Lexeme)
		if err != nil {
			return value.NilValue, diag.New(n.Name.Line, "%s", err.Error())
		}
		return v, nil
	case *ast.Group:
		return in.Eval(n.Inner)
	case *ast.Definition:
		init := value.NilValue
		if n.Value != nil {
			v, err := in.Eval(n.Value)
			if err != nil {
				return value.NilValue, err
			}
			init = v
		}
		in.Env.Define(n.Name.Lexeme, init)
		return value.NilValue, nil
	case *ast.Assign:
		v, err := in.Eval(n.Value)
		if err != nil {
			return value.NilValue, err
		}
		if err := in.Env.Assign(n.Name.Lexeme, v); err != nil {
			return value.NilValue, diag.New(n.Name.Line, "%s", err.Error())
		}
		return v, nil
	case *ast.Statement:
		if _, err := in.Eval(n.Inner); err != nil {
			return value.NilValue, err
		}
		return value.NilValue, nil
	case *ast.Print:
		v, err := in.Eval(n.Value)
		if err != nil {
			return value.NilValue, err
		}
		fmt.Fprintln(in.Out, v.String())
		return value.NilValue, nil
	case *ast.Block:
		return in.evalBlock(n)
	case *ast.Ternary:
		cond, err := in.Eval(n.Cond)
		if err != nil {
			return value.NilValue, err
		}
		if cond.IsTruthy() {
			return in.Eval(n.Then)
		}
		return in.Eval(n.Else)
	case *ast.Unary:
		return in.evalUnary(n)
	case *ast.Binary:
		return in.evalBinary(n)
	default:
		return value.NilValue, diag.New(expr.Line(), "Unhandled expression node.")
	}
}

// evalBlock pushes a new scope, evaluates items in order, and pops the
// scope on every exit path — success or error — so the frame-stack depth
// invariant holds regardless of how evaluation ends.
func (in *Interpreter) evalBlock(n *ast.Block) (value.Value, error) {
	in.Env.PushScope()
	defer in.Env.PopScope()

	last := value.NilValue
	for _, item := range n.Items {
		v, err := in.Eval(item)
		if err != nil {
			return value.NilValue, err
		}
		last = v
	}
	return last, nil
}

func (in *Interpreter) evalUnary(n *ast.Unary) (value.Value, error) {
	operand, err := in.Eval(n.Operand)
	if err != nil {
		return value.NilValue, err
	}
	switch n.Op {
	case ast.OpNeg:
		if operand.Kind != value.Number {
			return value.NilValue, diag.New(n.Ln, "Expected number as operand to MINUS.")
		}
		return value.NumberValue(-operand.Num), nil
	case ast.OpNot:
		return value.BoolValue(!operand.IsTruthy()), nil
	default:
		return value.NilValue, diag.New(n.Ln, "Unhandled unary operator %s.", n.Op)
	}
}

func (in *Interpreter) evalBinary(n *ast.Binary) (value.Value, error) {
	left, err := in.Eval(n.Left)
	if err != nil {
		return value.NilValue, err
	}
	right, err := in.Eval(n.Right)
	if err != nil {
		return value.NilValue, err
	}

	switch n.Op {
	case ast.OpComma:
		return right, nil
	case ast.OpPlus:
		return evalPlus(left, right, n.Ln)
	case ast.OpMinus:
		if left.Kind != value.Number || right.Kind != value.Number {
			return value.NilValue, diag.New(n.Ln, "Expected number operands for MINUS expression.")
		}
		return value.NumberValue(left.Num - right.Num), nil
	case ast.OpStar:
		if left.Kind != value.Number || right.Kind != value.Number {
			return value.NilValue, diag.New(n.Ln, "Expected number operands for STAR expression.")
		}
		return value.NumberValue(left.Num * right.Num), nil
	case ast.OpSlash:
		if left.Kind != value.Number || right.Kind != value.Number {
			return value.NilValue, diag.New(n.Ln, "Expected number operands for SLASH expression.")
		}
		if right.Num == 0.0 {
			return value.NilValue, diag.New(n.Ln, "Division by zero is prohibited.")
		}
		return value.NumberValue(left.Num / right.Num), nil
	case ast.OpGreater, ast.OpGreaterEqual, ast.OpLess, ast.OpLessEqual:
		return evalComparison(n.Op, left, right, n.Ln)
	case ast.OpEqual:
		return value.BoolValue(left.Equal(right)), nil
	case ast.OpBangEqual:
		return value.BoolValue(!left.Equal(right)), nil
	default:
		return value.NilValue, diag.New(n.Ln, "Unhandled binary operator %s.", n.Op)
	}
}

// evalPlus implements the language's one deliberate ambiguity
// resolution: number+number adds; string+anything and number+string
// concatenate using the non-string operand's printable form.
func evalPlus(left, right value.Value, line int) (value.Value, error) {
	switch {
	case left.Kind == value.Number && right.Kind == value.Number:
		return value.NumberValue(left.Num + right.Num), nil
	case left.Kind == value.String:
		return value.StringValue(left.Str + right.String()), nil
	case left.Kind == value.Number && right.Kind == value.String:
		return value.StringValue(left.String() + right.Str), nil
	default:
		return value.NilValue, diag.New(line, "Mismatched types for PLUS expression.")
	}
}

func evalComparison(op ast.BinaryOp, left, right value.Value, line int) (value.Value, error) {
	if left.Kind != right.Kind || (left.Kind != value.Number && left.Kind != value.String) {
		return value.NilValue, diag.New(line, "Mismatched types for %s expression.", op)
	}
	var less, equal bool
	if left.Kind == value.Number {
		less = left.Num < right.Num
		equal = left.Num == right.Num
	} else {
		less = left.Str < right.Str
		equal = left.Str == right.Str
	}
	switch op {
	case ast.OpGreater:
		return value.BoolValue(!less && !equal), nil
	case ast.OpGreaterEqual:
		return value.BoolValue(!less), nil
	case ast.OpLess:
		return value.BoolValue(less), nil
	case ast.OpLessEqual:
		return value.BoolValue(less || equal), nil
	default:
		return value.NilValue, diag.New(line, "Unhandled comparison operator %s.", op)
	}
}
