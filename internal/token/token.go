package token

import (
	"fmt"
	"strconv"
)

// TokenType is a string alias for token types
// The names double as the spelling used in diagnostics ("expected OpenBrace")
type TokenType string

// Token holds one lexical unit
// For example: Token{Type: CONSTANT, Literal: "2", Value: 2} or Token{Type: LBRACE, Literal: "{"}
type Token struct {
	Type    TokenType
	Literal string
	Value   int32 // only meaningful for CONSTANT
	Line    int
	Column  int
}

const (
	// Special
	EOF TokenType = "EOF" // Never produced by the lexer, reported by the parser when input runs out

	// Identifiers and literals
	IDENT    TokenType = "Identifier" // main, foo_bar
	CONSTANT TokenType = "Constant"   // 0, 42, 2147483647

	// Delimiters
	LPAREN    TokenType = "OpenParen"
	RPAREN    TokenType = "CloseParen"
	LBRACE    TokenType = "OpenBrace"
	RBRACE    TokenType = "CloseBrace"
	SEMICOLON TokenType = "Semicolon"

	// Keywords
	INT    TokenType = "Int"
	VOID   TokenType = "Void"
	RETURN TokenType = "Return"
)

// keywords maps reserved words to their token type
var keywords = map[string]TokenType{
	"int":    INT,
	"void":   VOID,
	"return": RETURN,
}

// LookupIdent checks if an identifier is a keyword
// If "return" is in keywords map, returns RETURN token type
// Otherwise returns IDENT
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// String renders the token the way diagnostics and --lex show it:
// payload-less tokens by type name, Identifier("main"), Constant(2).
func (t Token) String() string {
	switch t.Type {
	case IDENT:
		return fmt.Sprintf("%s(%s)", t.Type, strconv.Quote(t.Literal))
	case CONSTANT:
		return fmt.Sprintf("%s(%d)", t.Type, t.Value)
	default:
		return string(t.Type)
	}
}
