package parser

import (
	"fmt"

	"minicc/internal/ast"
	"minicc/internal/token"
)

// Parser is a recursive-descent parser over a scanned token sequence.
// One rule method per grammar rule; all of them share the cursor.
//
//	Program    := Function
//	Function   := "int" Identifier "(" "void" ")" "{" Statement "}"
//	Statement  := "return" Expression ";"
//	Expression := Constant
type Parser struct {
	tokens []token.Token
	pos    int // index of the current token
}

// Error reports a grammar violation. Parsing stops at the first one.
type Error struct {
	Message  string
	Expected token.TokenType
	Got      token.Token
	Line     int
	Column   int
}

func (e *Error) Error() string {
	if e.Line > 0 && e.Column > 0 {
		return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
	}
	return e.Message
}

// New creates a parser for the given tokens
func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse parses a complete program from tokens
func Parse(tokens []token.Token) (*ast.Program, error) {
	return New(tokens).ParseProgram()
}

// curToken returns the token under the cursor, or a synthetic EOF placed just
// after the last token once the sequence is exhausted
func (p *Parser) curToken() token.Token {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	eof := token.Token{Type: token.EOF}
	if n := len(p.tokens); n > 0 {
		last := p.tokens[n-1]
		eof.Line = last.Line
		eof.Column = last.Column + len(last.Literal)
	}
	return eof
}

// nextToken advances the cursor
func (p *Parser) nextToken() {
	p.pos++
}

// expect checks the current token and advances if it matches, else errors.
// Every rule goes through here; it is the only place errors are raised.
func (p *Parser) expect(t token.TokenType) (token.Token, error) {
	tok := p.curToken()
	if tok.Type != t {
		return tok, p.errorf(t, tok, "expected %s, got %s", t, tok)
	}
	p.nextToken()
	return tok, nil
}

func (p *Parser) errorf(expected token.TokenType, got token.Token, format string, args ...interface{}) *Error {
	return &Error{
		Message:  fmt.Sprintf(format, args...),
		Expected: expected,
		Got:      got,
		Line:     got.Line,
		Column:   got.Column,
	}
}

// ParseProgram parses Program := Function and requires all tokens to be consumed
func (p *Parser) ParseProgram() (*ast.Program, error) {
	p.pos = 0

	fn, err := p.parseFunction()
	if err != nil {
		return nil, err
	}

	if p.pos < len(p.tokens) {
		tok := p.curToken()
		return nil, p.errorf(token.EOF, tok, "unexpected %s after end of program", tok)
	}

	return &ast.Program{Function: fn}, nil
}

// parseFunction parses "int" Identifier "(" "void" ")" "{" Statement "}"
func (p *Parser) parseFunction() (*ast.Function, error) {
	intTok, err := p.expect(token.INT)
	if err != nil {
		return nil, err
	}

	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}

	for _, t := range []token.TokenType{token.LPAREN, token.VOID, token.RPAREN, token.LBRACE} {
		if _, err := p.expect(t); err != nil {
			return nil, err
		}
	}

	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}

	return &ast.Function{Token: intTok, Name: name.Literal, Body: body}, nil
}

// parseStatement parses "return" Expression ";"
func (p *Parser) parseStatement() (ast.Statement, error) {
	retTok, err := p.expect(token.RETURN)
	if err != nil {
		return nil, err
	}

	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(token.SEMICOLON); err != nil {
		return nil, err
	}

	return &ast.ReturnStatement{Token: retTok, ReturnValue: value}, nil
}

// parseExpression parses Constant
func (p *Parser) parseExpression() (ast.Expression, error) {
	tok, err := p.expect(token.CONSTANT)
	if err != nil {
		return nil, err
	}
	return &ast.Constant{Token: tok, Value: tok.Value}, nil
}
