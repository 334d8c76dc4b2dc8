// Package asm defines the instruction-level tree the code generator builds
// and the emitter renders.
package asm

import (
	"fmt"
	"strings"
)

// Program mirrors ast.Program one level down
type Program struct {
	Function *Function
}

func (p *Program) String() string {
	if p.Function == nil {
		return "Program()"
	}
	return "Program(" + p.Function.String() + ")"
}

// Function is a named, ordered instruction list. Control flow is sequential.
type Function struct {
	Name         string
	Instructions []Instruction
}

func (f *Function) String() string {
	parts := make([]string, 0, len(f.Instructions))
	for _, in := range f.Instructions {
		parts = append(parts, in.String())
	}
	return fmt.Sprintf("Function{name:%q, instructions:[%s]}", f.Name, strings.Join(parts, ", "))
}

// Instruction is closed over Mov and Ret
type Instruction interface {
	String() string
	instructionNode()
}

// Operand is closed over Register and Imm
type Operand interface {
	String() string
	operandNode()
}

// Mov copies Src into Dst
type Mov struct {
	Src Operand
	Dst Operand
}

func (Mov) instructionNode() {}
func (m Mov) String() string { return fmt.Sprintf("Mov(%s, %s)", m.Src, m.Dst) }

// Ret returns from the current function
type Ret struct{}

func (Ret) instructionNode() {}
func (Ret) String() string   { return "Ret" }

// Register names a machine register
type Register uint8

const (
	AX Register = iota // accumulator, holds the return value
)

func (Register) operandNode() {}
func (r Register) String() string {
	switch r {
	case AX:
		return "AX"
	default:
		return fmt.Sprintf("Register(%d)", uint8(r))
	}
}

// Imm is a 32-bit immediate
type Imm struct {
	Value int32
}

func (Imm) operandNode() {}
func (i Imm) String() string { return fmt.Sprintf("Imm(%d)", i.Value) }
