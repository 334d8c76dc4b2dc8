// Package emit renders an assembly AST as GNU assembler (AT&T syntax) text.
package emit

import (
	"fmt"
	"io"
	"strings"

	"minicc/internal/asm"
)

// stackNote marks the stack as non-executable for the linker
const stackNote = `.section .note.GNU-stack,"",@progbits`

type emitter struct {
	output strings.Builder
}

// Emit renders a program. Rendering is pure: the same tree always yields the
// same text. The text ends with the stack note, without a final newline.
func Emit(program *asm.Program) string {
	e := &emitter{}
	e.emitProgram(program)
	return e.output.String()
}

// Fprint writes the rendering of program to w
func Fprint(w io.Writer, program *asm.Program) error {
	_, err := io.WriteString(w, Emit(program))
	return err
}

// emit adds a line of assembly
func (e *emitter) emit(format string, args ...interface{}) {
	e.output.WriteString(fmt.Sprintf(format, args...))
	e.output.WriteString("\n")
}

func (e *emitter) emitProgram(p *asm.Program) {
	e.emitFunction(p.Function)
	e.output.WriteString(stackNote)
}

func (e *emitter) emitFunction(fn *asm.Function) {
	e.emit("  .globl %s", fn.Name)
	e.emit("%s:", fn.Name)
	for _, in := range fn.Instructions {
		e.emitInstruction(in)
	}
}

func (e *emitter) emitInstruction(in asm.Instruction) {
	switch i := in.(type) {
	case asm.Mov:
		e.emit("   movl %s, %s", operand(i.Src), operand(i.Dst))
	case asm.Ret:
		e.emit("   ret")
	default:
		panic(fmt.Sprintf("emit: unhandled instruction %T", in))
	}
}

func operand(op asm.Operand) string {
	switch o := op.(type) {
	case asm.Register:
		return register(o)
	case asm.Imm:
		return fmt.Sprintf("$%d", o.Value)
	default:
		panic(fmt.Sprintf("emit: unhandled operand %T", op))
	}
}

// register gives the 32-bit name, matching the l-suffixed instructions
func register(r asm.Register) string {
	switch r {
	case asm.AX:
		return "%eax"
	default:
		panic(fmt.Sprintf("emit: unhandled register %s", r))
	}
}
