/*
File    : relox/ast/printer.go

AST-dump support: renders an expression tree as a Lisp-like
S-expression. Works as a type switch over the closed Expr sum rather
than a visitor interface: each case renders its own tag, recursing into
children left to right.
*/
package ast

import "strings"

// Print renders expr as a single-line S-expression: literals print as
// themselves; every other node is "(<tag> <child> <child> …)".
func Print(expr Expr) string {
	var b strings.Builder
	print1(&b, expr)
	return b.String()
}

func print1(b *strings.Builder, expr Expr) {
	switch n := expr.(type) {
	case *Literal:
		b.WriteString(n.Value.Quoted())
	case *Read:
		b.WriteString(n.Name.Lexeme)
	case *Group:
		b.WriteString("(group ")
		print1(b, n.Inner)
		b.WriteString(")")
	case *Unary:
		b.WriteString("(")
		b.WriteString(string(n.Op))
		b.WriteString(" ")
		print1(b, n.Operand)
		b.WriteString(")")
	case *Binary:
		b.WriteString("(")
		b.WriteString(string(n.Op))
		b.WriteString(" ")
		print1(b, n.Left)
		b.WriteString(" ")
		print1(b, n.Right)
		b.WriteString(")")
	case *Ternary:
		b.WriteString("(TERNARY ")
		print1(b, n.Cond)
		b.WriteString(" ")
		print1(b, n.Then)
		b.WriteString(" ")
		print1(b, n.Else)
		b.WriteString(")")
	case *Assign:
		b.WriteString("(ASSIGN ")
		b.WriteString(n.Name.Lexeme)
		b.WriteString(" ")
		print1(b, n.Value)
		b.WriteString(")")
	case *Definition:
		b.WriteString("(VAR ")
		b.WriteString(n.Name.Lexeme)
		if n.Value != nil {
			b.WriteString(" ")
			print1(b, n.Value)
		}
		b.WriteString(")")
	case *Print:
		b.WriteString("(PRINT ")
		print1(b, n.Value)
		b.WriteString(")")
	case *Statement:
		print1(b, n.Inner)
	case *Block:
		b.WriteString("(BLOCK")
		for _, item := range n.Items {
			b.WriteString(" ")
			print1(b, item)
		}
		b.WriteString(")")
	}
}
