// Package compiler runs the lexer, parser, code generator and emitter in
// order, stopping after a chosen stage.
package compiler

import (
	"fmt"

	"minicc/internal/asm"
	"minicc/internal/ast"
	"minicc/internal/codegen"
	"minicc/internal/emit"
	"minicc/internal/lexer"
	"minicc/internal/parser"
	"minicc/internal/token"
)

// Stage names a pipeline stage. Stages are ordered.
type Stage int

const (
	StageLex Stage = iota
	StageParse
	StageCodegen
	StageEmit
)

func (s Stage) String() string {
	switch s {
	case StageLex:
		return "lex"
	case StageParse:
		return "parse"
	case StageCodegen:
		return "codegen"
	case StageEmit:
		return "emit"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

// Result holds each stage's output, filled up to the stop stage
type Result struct {
	Tokens   []token.Token
	Program  *ast.Program
	Assembly *asm.Program
	Text     string
}

// StageError wraps the error of the stage that failed
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Compile runs the pipeline over already preprocessed source up to and
// including stop. Nothing is returned past the failing stage.
func Compile(source string, stop Stage) (*Result, error) {
	res := &Result{}

	tokens, err := lexer.Lex(source)
	if err != nil {
		return nil, &StageError{Stage: StageLex, Err: err}
	}
	res.Tokens = tokens
	if stop == StageLex {
		return res, nil
	}

	program, err := parser.Parse(tokens)
	if err != nil {
		return nil, &StageError{Stage: StageParse, Err: err}
	}
	res.Program = program
	if stop == StageParse {
		return res, nil
	}

	res.Assembly = codegen.GenerateAssembly(program)
	if stop == StageCodegen {
		return res, nil
	}

	res.Text = emit.Emit(res.Assembly)
	return res, nil
}
