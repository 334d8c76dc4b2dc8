package ast

import (
	"bytes"
	"strconv"

	"minicc/internal/token"
)

// Node is the base interface for all AST nodes
// Every node must provide a TokenLiteral (for debugging) and String (for printing)
type Node interface {
	TokenLiteral() string
	String() string
}

// Statement nodes don't produce values
// Examples: return 2;
type Statement interface {
	Node
	statementNode() // Dummy method to distinguish statements from expressions
}

// Expression nodes produce values
// Examples: 2
type Expression interface {
	Node
	expressionNode() // Dummy method to distinguish expressions from statements
}

// Program is the root node of every AST
// A translation unit holds exactly one function
type Program struct {
	Function *Function
}

func (p *Program) TokenLiteral() string {
	if p.Function != nil {
		return p.Function.TokenLiteral()
	}
	return ""
}

// String builds the program back into source code (useful for debugging)
func (p *Program) String() string {
	if p.Function == nil {
		return ""
	}
	return p.Function.String()
}

// Function represents int <name>(void) { <body> }
type Function struct {
	Token token.Token // The 'int' token
	Name  string
	Body  Statement
}

func (f *Function) TokenLiteral() string { return f.Token.Literal }
func (f *Function) String() string {
	var out bytes.Buffer
	out.WriteString("int ")
	out.WriteString(f.Name)
	out.WriteString("(void) {\n")
	if f.Body != nil {
		out.WriteString("    ")
		out.WriteString(f.Body.String())
		out.WriteString("\n")
	}
	out.WriteString("}\n")
	return out.String()
}

// ReturnStatement represents return <expression>;
type ReturnStatement struct {
	Token       token.Token // The 'return' token
	ReturnValue Expression
}

func (rs *ReturnStatement) statementNode()       {}
func (rs *ReturnStatement) TokenLiteral() string { return rs.Token.Literal }
func (rs *ReturnStatement) String() string {
	var out bytes.Buffer
	out.WriteString(rs.TokenLiteral() + " ")
	if rs.ReturnValue != nil {
		out.WriteString(rs.ReturnValue.String())
	}
	out.WriteString(";")
	return out.String()
}

// Constant represents an integer literal like 2 or 42
type Constant struct {
	Token token.Token
	Value int32
}

func (c *Constant) expressionNode()      {}
func (c *Constant) TokenLiteral() string { return c.Token.Literal }
func (c *Constant) String() string       { return strconv.FormatInt(int64(c.Value), 10) }
