package codegen

import (
	"fmt"

	"minicc/internal/asm"
	"minicc/internal/ast"
)

// CodeGen lowers a syntactic AST into an assembly AST.
//
// Lowering table:
//
//	Function{name, body}           -> Function{name, lower(body)}
//	Return(Constant(v))            -> Mov{Imm(v), AX}; Ret
//
// AX carries the return value and every function ends with an explicit Ret.
type CodeGen struct {
	instructions []asm.Instruction
}

// New creates a new code generator
func New() *CodeGen {
	return &CodeGen{}
}

// GenerateAssembly lowers program with a fresh generator
func GenerateAssembly(program *ast.Program) *asm.Program {
	return New().Generate(program)
}

// Generate produces the assembly AST for a program. It cannot fail: the
// parser only builds trees this table covers.
func (cg *CodeGen) Generate(program *ast.Program) *asm.Program {
	return &asm.Program{Function: cg.generateFunction(program.Function)}
}

func (cg *CodeGen) generateFunction(fn *ast.Function) *asm.Function {
	cg.instructions = nil
	cg.generateStatement(fn.Body)
	return &asm.Function{Name: fn.Name, Instructions: cg.instructions}
}

// emit appends an instruction to the current function
func (cg *CodeGen) emit(in asm.Instruction) {
	cg.instructions = append(cg.instructions, in)
}

func (cg *CodeGen) generateStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.ReturnStatement:
		cg.emit(asm.Mov{Src: cg.generateOperand(s.ReturnValue), Dst: asm.AX})
		cg.emit(asm.Ret{})
	default:
		panic(fmt.Sprintf("codegen: unhandled statement %T", stmt))
	}
}

func (cg *CodeGen) generateOperand(expr ast.Expression) asm.Operand {
	switch e := expr.(type) {
	case *ast.Constant:
		return asm.Imm{Value: e.Value}
	default:
		panic(fmt.Sprintf("codegen: unhandled expression %T", expr))
	}
}
