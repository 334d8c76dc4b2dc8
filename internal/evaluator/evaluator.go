// Package evaluator computes a program's result directly from the syntactic
// AST, without generating code. It is the oracle the compiled output is
// checked against.
package evaluator

import (
	"fmt"

	"minicc/internal/ast"
)

// Eval returns the value the program's function returns
func Eval(program *ast.Program) int32 {
	return evalStatement(program.Function.Body)
}

// ExitStatus is the status a process reports when main returns v: the low
// eight bits, as the kernel truncates it.
func ExitStatus(v int32) int {
	return int(uint8(v))
}

func evalStatement(stmt ast.Statement) int32 {
	switch s := stmt.(type) {
	case *ast.ReturnStatement:
		return evalExpression(s.ReturnValue)
	default:
		panic(fmt.Sprintf("evaluator: unhandled statement %T", stmt))
	}
}

func evalExpression(expr ast.Expression) int32 {
	switch e := expr.(type) {
	case *ast.Constant:
		return e.Value
	default:
		panic(fmt.Sprintf("evaluator: unhandled expression %T", expr))
	}
}
