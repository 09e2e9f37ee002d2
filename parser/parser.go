/*
File    : relox/parser/parser.go

Package parser implements a recursive-descent parser over a token.Token
stream, producing the ast.Expr sum type. Each grammar rule is a method
consuming a prefix of the remaining tokens and returning the built node;
precedence is encoded by the call order between methods (lowest
precedence calls into the next-highest). There is no panic-mode
recovery: parsing stops at the first *diag.Error.
*/
package parser

import (
	"github.com/relox-lang/relox/ast"
	"github.com/relox-lang/relox/diag"
	"github.com/relox-lang/relox/token"
	"github.com/relox-lang/relox/value"
)

// Parser holds the token stream and the current read position.
type Parser struct {
	tokens []token.Token
	pos    int
}

// New builds a Parser over tokens, filtering out COMMENT tokens so the
// grammar methods never have to account for them — comments are
// filtered before parsing begins, not threaded through every rule.
func New(tokens []token.Token) *Parser {
	filtered := make([]token.Token, 0, len(tokens))
	for _, t := range tokens {
		if t.Kind != token.COMMENT {
			filtered = append(filtered, t)
		}
	}
	return &Parser{tokens: filtered}
}

// Parse consumes the entire token stream, returning the ordered list of
// top-level declarations, or the first error encountered.
func (p *Parser) Parse() ([]ast.Expr, error) {
	var decls []ast.Expr
	for !p.check(token.END) {
		d, err := p.declaration()
		if err != nil {
			return nil, err
		}
		decls = append(decls, d)
	}
	return decls, nil
}

// --- token cursor helpers ---

func (p *Parser) peek() token.Token  { return p.tokens[p.pos] }
func (p *Parser) previous() token.Token { return p.tokens[p.pos-1] }
func (p *Parser) isAtEnd() bool      { return p.peek().Kind == token.END }

func (p *Parser) advance() token.Token {
	if !p.isAtEnd() {
		p.pos++
	}
	return p.previous()
}

func (p *Parser) check(kind token.Kind) bool {
	if p.isAtEnd() && kind != token.END {
		return false
	}
	return p.peek().Kind == kind
}

func (p *Parser) checkAny(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			return true
		}
	}
	return false
}

func (p *Parser) match(kinds ...token.Kind) bool {
	if p.checkAny(kinds...) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) consume(kind token.Kind, message string) (token.Token, error) {
	if p.check(kind) {
		return p.advance(), nil
	}
	return token.Token{}, diag.New(p.peek().Line, "%s", message)
}

func name(t token.Token) ast.Name { return ast.Name{Lexeme: t.Lexeme, Line: t.Line} }

// --- declarations and statements ---

// declaration → definition | statement
func (p *Parser) declaration() (ast.Expr, error) {
	if p.match(token.VAR) {
		return p.definition()
	}
	return p.statement()
}

// definition → "var" IDENTIFIER ( "=" expression )? ";"   ("var" already consumed)
func (p *Parser) definition() (ast.Expr, error) {
	nameTok, err := p.consume(token.IDENTIFIER, "Expected variable name.")
	if err != nil {
		return nil, err
	}
	var init ast.Expr
	if p.match(token.ASSIGN) {
		init, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(token.SEMICOLON, "Expected ';' after expression."); err != nil {
		return nil, err
	}
	return &ast.Definition{Name: name(nameTok), Value: init}, nil
}

// statement → block | print | exprStmt
func (p *Parser) statement() (ast.Expr, error) {
	if p.match(token.LEFT_BRACE) {
		return p.block()
	}
	if p.match(token.PRINT) {
		return p.printStmt()
	}
	return p.exprStmt()
}

// print → "print" expression ";"   ("print" already consumed)
func (p *Parser) printStmt() (ast.Expr, error) {
	line := p.previous().Line
	val, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.SEMICOLON, "Expected ';' after expression."); err != nil {
		return nil, err
	}
	return &ast.Print{Value: val, Ln: line}, nil
}

// exprStmt → expression ";"
func (p *Parser) exprStmt() (ast.Expr, error) {
	line := p.peek().Line
	e, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.SEMICOLON, "Expected ';' after expression."); err != nil {
		return nil, err
	}
	return &ast.Statement{Inner: e, Ln: line}, nil
}

// block → "{" declaration* expression? "}"   ("{" already consumed)
//
// The loop parses full declarations (each consuming its own trailing
// ';') until it meets a bare expression not followed by ';' — the tail
// expression, which becomes the block's value — or the closing '}'.
func (p *Parser) block() (ast.Expr, error) {
	line := p.previous().Line
	var items []ast.Expr
	for !p.check(token.RIGHT_BRACE) && !p.isAtEnd() {
		switch {
		case p.match(token.VAR):
			d, err := p.definition()
			if err != nil {
				return nil, err
			}
			items = append(items, d)
		case p.match(token.PRINT):
			d, err := p.printStmt()
			if err != nil {
				return nil, err
			}
			items = append(items, d)
		case p.match(token.LEFT_BRACE):
			d, err := p.block()
			if err != nil {
				return nil, err
			}
			items = append(items, d)
		default:
			exprLine := p.peek().Line
			e, err := p.expression()
			if err != nil {
				return nil, err
			}
			if p.match(token.SEMICOLON) {
				items = append(items, &ast.Statement{Inner: e, Ln: exprLine})
				continue
			}
			if p.check(token.RIGHT_BRACE) {
				items = append(items, e) // tail expression
			} else {
				return nil, diag.New(p.peek().Line, "Expected ';' after expression.")
			}
		}
	}
	if _, err := p.consume(token.RIGHT_BRACE, "Expected '}' token"); err != nil {
		return nil, err
	}
	return &ast.Block{Items: items, Ln: line}, nil
}

// --- expressions, lowest to highest precedence ---

// expression → list
func (p *Parser) expression() (ast.Expr, error) { return p.list() }

// list → assignment ( "," assignment )*
func (p *Parser) list() (ast.Expr, error) {
	return p.leftAssoc(p.assignment,
		map[token.Kind]ast.BinaryOp{token.COMMA: ast.OpComma},
		token.COMMA)
}

// assignment → ternary ( "=" assignment )?   (right-associative)
func (p *Parser) assignment() (ast.Expr, error) {
	left, err := p.ternary()
	if err != nil {
		return nil, err
	}
	if p.match(token.ASSIGN) {
		eqLine := p.previous().Line
		right, err := p.assignment()
		if err != nil {
			return nil, err
		}
		read, ok := left.(*ast.Read)
		if !ok {
			return nil, diag.New(eqLine, "Cannot assign to an rvalue.")
		}
		return &ast.Assign{Name: read.Name, Value: right}, nil
	}
	return left, nil
}

// ternary → equality ( "?" ternary ":" ternary )?   (right-associative in both branches)
func (p *Parser) ternary() (ast.Expr, error) {
	cond, err := p.equality()
	if err != nil {
		return nil, err
	}
	if p.match(token.QUESTION) {
		then, err := p.ternary()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.COLON, "Expected ':' in ternary expression."); err != nil {
			return nil, err
		}
		els, err := p.ternary()
		if err != nil {
			return nil, err
		}
		return &ast.Ternary{Cond: cond, Then: then, Else: els, Ln: cond.Line()}, nil
	}
	return cond, nil
}

// equality → comparison ( ("!=" | "==") comparison )*
func (p *Parser) equality() (ast.Expr, error) {
	return p.leftAssoc(p.comparison,
		map[token.Kind]ast.BinaryOp{token.BANG_EQUAL: ast.OpBangEqual, token.EQUAL: ast.OpEqual},
		token.BANG_EQUAL, token.EQUAL)
}

// comparison → addition ( (">"|">="|"<"|"<=") addition )*
func (p *Parser) comparison() (ast.Expr, error) {
	return p.leftAssoc(p.addition,
		map[token.Kind]ast.BinaryOp{
			token.GREATER:       ast.OpGreater,
			token.GREATER_EQUAL: ast.OpGreaterEqual,
			token.LESS:          ast.OpLess,
			token.LESS_EQUAL:    ast.OpLessEqual,
		},
		token.GREATER, token.GREATER_EQUAL, token.LESS, token.LESS_EQUAL)
}

// addition → multiplication ( ("-"|"+") multiplication )*
//
// MINUS is excluded from the missing-left-operand check below: a leading
// '-' is a valid unary prefix, handled by the unary rule, not an error.
func (p *Parser) addition() (ast.Expr, error) {
	return p.leftAssoc(p.multiplication,
		map[token.Kind]ast.BinaryOp{token.MINUS: ast.OpMinus, token.PLUS: ast.OpPlus},
		token.PLUS)
}

// multiplication → unary ( ("/"|"*") unary )*
func (p *Parser) multiplication() (ast.Expr, error) {
	return p.leftAssoc(p.unary,
		map[token.Kind]ast.BinaryOp{token.SLASH: ast.OpSlash, token.STAR: ast.OpStar},
		token.SLASH, token.STAR)
}

// leftAssoc implements the shared shape of every left-associative binary
// rule in the grammar: a missing-left-operand check, then a loop that
// repeatedly consumes (op rhs) and wraps the accumulator as the new left
// child. missingCheck lists the operator kinds that indicate a missing
// left operand when seen before any operand has been parsed (excluding
// any operator that also doubles as a valid unary prefix).
func (p *Parser) leftAssoc(higher func() (ast.Expr, error), ops map[token.Kind]ast.BinaryOp, missingCheck ...token.Kind) (ast.Expr, error) {
	if p.checkAny(missingCheck...) {
		return nil, diag.New(p.peek().Line, "Binary expression missing left operand.")
	}
	left, err := higher()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := ops[p.peek().Kind]
		if !ok {
			return left, nil
		}
		opTok := p.advance()
		right, err := higher()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Op: op, Left: left, Right: right, Ln: opTok.Line}
	}
}

// unary → ("!" | "-") unary | primary
func (p *Parser) unary() (ast.Expr, error) {
	if p.match(token.BANG) {
		opTok := p.previous()
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Op: ast.OpNot, Operand: operand, Ln: opTok.Line}, nil
	}
	if p.match(token.MINUS) {
		opTok := p.previous()
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Op: ast.OpNeg, Operand: operand, Ln: opTok.Line}, nil
	}
	return p.primary()
}

// primary → NUMBER | STRING | "true" | "false" | "nil" | IDENTIFIER | "(" expression ")"
func (p *Parser) primary() (ast.Expr, error) {
	tok := p.peek()
	switch tok.Kind {
	case token.NUMBER, token.STRING:
		p.advance()
		return &ast.Literal{Value: tok.Literal, Ln: tok.Line}, nil
	case token.TRUE:
		p.advance()
		return &ast.Literal{Value: value.BoolValue(true), Ln: tok.Line}, nil
	case token.FALSE:
		p.advance()
		return &ast.Literal{Value: value.BoolValue(false), Ln: tok.Line}, nil
	case token.NIL:
		p.advance()
		return &ast.Literal{Value: value.NilValue, Ln: tok.Line}, nil
	case token.IDENTIFIER:
		p.advance()
		return &ast.Read{Name: name(tok)}, nil
	case token.LEFT_PAREN:
		p.advance()
		inner, err := p.expression()
		if err != nil {
			return nil, err
		}
		if !p.match(token.RIGHT_PAREN) {
			return nil, diag.New(tok.Line, "Expected a closing ')' to match '('.")
		}
		return &ast.Group{Inner: inner, Ln: tok.Line}, nil
	default:
		return nil, diag.New(tok.Line, "Token type %s does not match the primary rule.", tok.Kind)
	}
}
