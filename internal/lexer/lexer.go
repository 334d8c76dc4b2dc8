package lexer

import (
	"fmt"
	"strconv"
	"unicode"
	"unicode/utf8"

	"minicc/internal/token"
)

// Lexer holds the state while tokenizing input
// It reads character by character, like a tape reader
type Lexer struct {
	input        string // The source code
	position     int    // Current position in input (points to current char)
	readPosition int    // Current reading position (after current char)
	ch           rune   // Current character under examination
	line         int    // Line of ch, 1-based
	column       int    // Column of ch, 1-based
}

// Error is a fatal scan error. Lexing stops at the first one.
type Error struct {
	Message string
	Line    int
	Column  int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

// New creates a new Lexer for the given input
func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1}
	l.readChar() // Initialize with first character
	return l
}

// Lex scans the whole input. On error no tokens are returned.
func Lex(input string) ([]token.Token, error) {
	l := New(input)
	var tokens []token.Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		if tok.Type == token.EOF {
			return tokens, nil
		}
		tokens = append(tokens, tok)
	}
}

// readChar advances to the next character. Columns count characters, not
// bytes.
func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	l.position = l.readPosition
	// If we've reached the end, set ch to 0 (NUL, signifies EOF)
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.readPosition++
	} else {
		r, width := utf8.DecodeRuneInString(l.input[l.readPosition:])
		l.ch = r
		l.readPosition += width
	}
	l.column++
}

func (l *Lexer) atEnd() bool {
	return l.position >= len(l.input)
}

// NextToken returns the next token from input, or an EOF token once the
// input is exhausted.
func (l *Lexer) NextToken() (token.Token, error) {
	l.skipWhitespace()

	if l.atEnd() {
		return token.Token{Type: token.EOF, Line: l.line, Column: l.column}, nil
	}

	line, column := l.line, l.column
	var tok token.Token

	switch l.ch {
	case '(':
		tok = newToken(token.LPAREN, l.ch)
	case ')':
		tok = newToken(token.RPAREN, l.ch)
	case '{':
		tok = newToken(token.LBRACE, l.ch)
	case '}':
		tok = newToken(token.RBRACE, l.ch)
	case ';':
		tok = newToken(token.SEMICOLON, l.ch)
	default:
		if isLetter(l.ch) {
			tok.Literal = l.readIdentifier()
			tok.Type = token.LookupIdent(tok.Literal)
			tok.Line, tok.Column = line, column
			return tok, nil // Already advanced past identifier
		} else if isDigit(l.ch) {
			return l.readConstant()
		}
		return token.Token{}, l.errorf(line, column, "unknown character %q", l.ch)
	}

	tok.Line, tok.Column = line, column
	l.readChar() // Advance to next character for next call
	return tok, nil
}

// skipWhitespace ignores Unicode white space, which includes the C set of
// spaces, tabs, newlines, carriage returns, vertical tabs and form feeds
func (l *Lexer) skipWhitespace() {
	for !l.atEnd() && unicode.IsSpace(l.ch) {
		l.readChar()
	}
}

// readIdentifier reads an identifier.
// First char is guaranteed to be an ASCII letter/underscore by caller.
// Subsequent chars may be any Unicode letter or digit.
func (l *Lexer) readIdentifier() string {
	position := l.position
	for !l.atEnd() && (unicode.IsLetter(l.ch) || unicode.IsDigit(l.ch) || l.ch == '_') {
		l.readChar()
	}
	return l.input[position:l.position]
}

// readConstant reads a run of ASCII digits. A letter right after the run,
// ASCII or not, means the source holds something like 1foo, which is neither
// a constant nor an identifier.
func (l *Lexer) readConstant() (token.Token, error) {
	line, column, position := l.line, l.column, l.position
	for !l.atEnd() && isDigit(l.ch) {
		l.readChar()
	}
	literal := l.input[position:l.position]
	if !l.atEnd() && unicode.IsLetter(l.ch) {
		return token.Token{}, l.errorf(line, column,
			"invalid constant %q: identifiers can't start with a digit", literal+string(l.ch))
	}
	value, err := strconv.ParseInt(literal, 10, 32)
	if err != nil {
		return token.Token{}, l.errorf(line, column, "integer constant %s out of range for int", literal)
	}
	return token.Token{
		Type:    token.CONSTANT,
		Literal: literal,
		Value:   int32(value),
		Line:    line,
		Column:  column,
	}, nil
}

func (l *Lexer) errorf(line, column int, format string, args ...interface{}) *Error {
	return &Error{Message: fmt.Sprintf(format, args...), Line: line, Column: column}
}

// isLetter checks if ch may start an identifier: an ASCII letter or underscore
func isLetter(ch rune) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

// isDigit checks if ch is 0-9
func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

// newToken is a helper to create single-character tokens
func newToken(tokenType token.TokenType, ch rune) token.Token {
	return token.Token{Type: tokenType, Literal: string(ch)}
}
