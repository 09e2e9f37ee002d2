/*
File    : relox/lexer/lexer.go

Package lexer performs lexical analysis of relox source code. It scans
the source text byte by byte, classifying the longest token that begins
at the current position from a fixed, ordered priority list, and
produces an ordered token.Token stream terminated by an END token.
*/
package lexer

import (
	"strconv"

	"github.com/relox-lang/relox/diag"
	"github.com/relox-lang/relox/token"
	"github.com/relox-lang/relox/value"
)

// Lexer scans source text into tokens. It maintains the current byte
// position and the current 1-indexed source line for diagnostics.
type Lexer struct {
	src      string
	position int
	line     int
}

// New creates a Lexer ready to tokenize src.
func New(src string) *Lexer {
	return &Lexer{src: src, position: 0, line: 1}
}

// ScanTokens lexes the entire source, returning the ordered token stream
// terminated by an END token, or the first lexical Error encountered.
// Comment tokens are included in the result; filtering them is a
// downstream (parser) concern.
func (l *Lexer) ScanTokens() ([]token.Token, error) {
	var tokens []token.Token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == token.END {
			return tokens, nil
		}
	}
}

func (l *Lexer) atEnd() bool {
	return l.position >= len(l.src)
}

func (l *Lexer) peek() byte {
	if l.atEnd() {
		return 0
	}
	return l.src[l.position]
}

func (l *Lexer) peekAt(offset int) byte {
	idx := l.position + offset
	if idx >= len(l.src) {
		return 0
	}
	return l.src[idx]
}

func (l *Lexer) advance() byte {
	c := l.src[l.position]
	l.position++
	if c == '\n' {
		l.line++
	}
	return c
}

func (l *Lexer) match(c byte) bool {
	if l.atEnd() || l.src[l.position] != c {
		return false
	}
	l.position++
	return true
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlpha(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isAlphaNumeric(c byte) bool { return isAlpha(c) || isDigit(c) }

func isWhitespace(c byte) bool { return c == ' ' || c == '\t' || c == '\r' || c == '\n' }

// isOperatorStart reports whether c could begin a recognized operator or
// punctuation token, used to bound an unrecognized-character run.
func isOperatorStart(c byte) bool {
	switch c {
	case '(', ')', '{', '}', '[', ']', ',', '.', '-', '+', ';', '*', '/',
		'?', ':', '!', '=', '>', '<':
		return true
	default:
		return false
	}
}

// skipWhitespace consumes runs of spaces, tabs, and carriage returns,
// and any newlines, counting every newline toward the line counter so
// that line numbers stay accurate regardless of where whitespace falls.
func (l *Lexer) skipWhitespace() {
	for !l.atEnd() {
		switch l.peek() {
		case ' ', '\t', '\r', '\n':
			l.advance()
		default:
			return
		}
	}
}

// next produces the single next token starting at the current position,
// following a fixed priority order:
//  1. comments (line and block)
//  2. multi-character operators before their single-character prefixes
//  3. single-character punctuation/operators
//  4. reserved words (word-boundary checked)
//  5. identifiers
//  6. string literals
//  7. number literals
//  8. an error run for anything else
func (l *Lexer) next() (token.Token, error) {
	l.skipWhitespace()

	if l.atEnd() {
		return token.New(token.END, "", l.line), nil
	}

	startLine := l.line
	c := l.peek()

	// 1. Comments.
	if c == '/' && l.peekAt(1) == '/' {
		return l.lineComment(startLine)
	}
	if c == '/' && l.peekAt(1) == '*' {
		return l.blockComment(startLine)
	}

	// 6. String literals (checked before punctuation dispatch below so the
	// opening quote is handled in one place).
	if c == '"' {
		return l.stringLiteral(startLine)
	}

	// 7. Number literals.
	if isDigit(c) {
		return l.number(startLine), nil
	}

	// 4/5. Reserved words and identifiers share a scan; the word-boundary
	// requirement is automatically satisfied because isAlphaNumeric
	// consumes the entire maximal identifier run before the keyword
	// table is consulted.
	if isAlpha(c) {
		return l.identifier(startLine), nil
	}

	// 2/3. Operators and punctuation, longest match first.
	if tok, ok := l.operator(startLine); ok {
		return tok, nil
	}

	// 8. Nothing matched: consume the run of characters that match none
	// of the rules above and report them together.
	start := l.position
	for !l.atEnd() && !isWhitespace(l.peek()) && !isAlphaNumeric(l.peek()) &&
		l.peek() != '"' && !isOperatorStart(l.peek()) {
		l.advance()
	}
	if l.position == start {
		l.advance()
	}
	return token.Token{}, diag.New(startLine, "Unexpected character(s): %s", l.src[start:l.position])
}

func (l *Lexer) lineComment(startLine int) (token.Token, error) {
	start := l.position
	for !l.atEnd() && l.peek() != '\n' {
		l.advance()
	}
	return token.New(token.COMMENT, l.src[start:l.position], startLine), nil
}

// blockComment matches non-greedily across newlines, counting every
// newline it consumes so that tokens after the comment carry correct
// line numbers.
func (l *Lexer) blockComment(startLine int) (token.Token, error) {
	start := l.position
	l.advance() // '/'
	l.advance() // '*'
	for {
		if l.atEnd() {
			return token.Token{}, diag.New(startLine, "Unterminated block comment.")
		}
		if l.peek() == '*' && l.peekAt(1) == '/' {
			l.advance()
			l.advance()
			break
		}
		l.advance()
	}
	return token.New(token.COMMENT, l.src[start:l.position], startLine), nil
}

func (l *Lexer) stringLiteral(startLine int) (token.Token, error) {
	l.advance() // opening quote
	start := l.position
	for !l.atEnd() && l.peek() != '"' {
		if l.peek() == '\n' {
			return token.Token{}, diag.New(startLine, "Unterminated string.")
		}
		l.advance()
	}
	if l.atEnd() {
		return token.Token{}, diag.New(startLine, "Unterminated string.")
	}
	str := l.src[start:l.position]
	l.advance() // closing quote
	lexeme := `"` + str + `"`
	return token.WithLiteral(token.STRING, lexeme, startLine, value.StringValue(str)), nil
}

func (l *Lexer) number(startLine int) token.Token {
	start := l.position
	for !l.atEnd() && isDigit(l.peek()) {
		l.advance()
	}
	if l.peek() == '.' && isDigit(l.peekAt(1)) {
		l.advance()
		for !l.atEnd() && isDigit(l.peek()) {
			l.advance()
		}
	}
	lexeme := l.src[start:l.position]
	n, _ := strconv.ParseFloat(lexeme, 64)
	return token.WithLiteral(token.NUMBER, lexeme, startLine, value.NumberValue(n))
}

func (l *Lexer) identifier(startLine int) token.Token {
	start := l.position
	for !l.atEnd() && isAlphaNumeric(l.peek()) {
		l.advance()
	}
	lexeme := l.src[start:l.position]
	kind := token.Lookup(lexeme)
	switch kind {
	case token.TRUE:
		return token.WithLiteral(kind, lexeme, startLine, value.BoolValue(true))
	case token.FALSE:
		return token.WithLiteral(kind, lexeme, startLine, value.BoolValue(false))
	default:
		return token.New(kind, lexeme, startLine)
	}
}

// operator dispatches single- and multi-character punctuation. Each
// two-character case is checked before falling back to its
// single-character prefix, so longer operators always win.
func (l *Lexer) operator(startLine int) (token.Token, bool) {
	c := l.advance()
	switch c {
	case '(':
		return token.New(token.LEFT_PAREN, "(", startLine), true
	case ')':
		return token.New(token.RIGHT_PAREN, ")", startLine), true
	case '{':
		return token.New(token.LEFT_BRACE, "{", startLine), true
	case '}':
		return token.New(token.RIGHT_BRACE, "}", startLine), true
	case '[':
		return token.New(token.LEFT_BRACKET, "[", startLine), true
	case ']':
		return token.New(token.RIGHT_BRACKET, "]", startLine), true
	case ',':
		return token.New(token.COMMA, ",", startLine), true
	case '.':
		return token.New(token.DOT, ".", startLine), true
	case '-':
		return token.New(token.MINUS, "-", startLine), true
	case '+':
		return token.New(token.PLUS, "+", startLine), true
	case ';':
		return token.New(token.SEMICOLON, ";", startLine), true
	case '*':
		return token.New(token.STAR, "*", startLine), true
	case '/':
		return token.New(token.SLASH, "/", startLine), true
	case '?':
		return token.New(token.QUESTION, "?", startLine), true
	case ':':
		return token.New(token.COLON, ":", startLine), true
	case '!':
		if l.match('=') {
			return token.New(token.BANG_EQUAL, "!=", startLine), true
		}
		return token.New(token.BANG, "!", startLine), true
	case '=':
		if l.match('=') {
			return token.New(token.EQUAL, "==", startLine), true
		}
		return token.New(token.ASSIGN, "=", startLine), true
	case '>':
		if l.match('=') {
			return token.New(token.GREATER_EQUAL, ">=", startLine), true
		}
		return token.New(token.GREATER, ">", startLine), true
	case '<':
		if l.match('=') {
			return token.New(token.LESS_EQUAL, "<=", startLine), true
		}
		return token.New(token.LESS, "<", startLine), true
	default:
		l.position-- // put the byte back; caller reports the error
		return token.Token{}, false
	}
}
