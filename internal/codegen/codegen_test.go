package codegen

import (
	"testing"

	"minicc/internal/asm"
	"minicc/internal/ast"
	"minicc/internal/lexer"
	"minicc/internal/parser"
)

func TestGenerateReturnLowersToMovAndRet(t *testing.T) {
	program := generateAssembly(t, "int main(void){return 2;}")

	fn := program.Function
	if fn.Name != "main" {
		t.Fatalf("expected name main, got=%q", fn.Name)
	}
	if len(fn.Instructions) != 2 {
		t.Fatalf("expected 2 instructions, got=%v", fn.Instructions)
	}
	mov, ok := fn.Instructions[0].(asm.Mov)
	if !ok {
		t.Fatalf("expected Mov first, got=%T", fn.Instructions[0])
	}
	if mov.Src != (asm.Imm{Value: 2}) {
		t.Fatalf("expected Imm(2) source, got=%v", mov.Src)
	}
	if mov.Dst != asm.AX {
		t.Fatalf("expected AX destination, got=%v", mov.Dst)
	}
	if _, ok := fn.Instructions[1].(asm.Ret); !ok {
		t.Fatalf("expected Ret second, got=%T", fn.Instructions[1])
	}
}

func TestGenerateCopiesNameAndValue(t *testing.T) {
	tests := []struct {
		name  string
		value int32
	}{
		{"main", 0},
		{"_f1", 2147483647},
		{"neg", -5},
	}
	for _, tt := range tests {
		program := GenerateAssembly(&ast.Program{Function: &ast.Function{
			Name: tt.name,
			Body: &ast.ReturnStatement{ReturnValue: &ast.Constant{Value: tt.value}},
		}})
		if program.Function.Name != tt.name {
			t.Fatalf("name=%q want=%q", program.Function.Name, tt.name)
		}
		mov := program.Function.Instructions[0].(asm.Mov)
		if mov.Src != (asm.Imm{Value: tt.value}) {
			t.Fatalf("src=%v want Imm(%d)", mov.Src, tt.value)
		}
	}
}

func TestGeneratorIsReusable(t *testing.T) {
	cg := New()
	first := cg.Generate(parse(t, "int a(void){return 1;}"))
	second := cg.Generate(parse(t, "int b(void){return 2;}"))
	if len(first.Function.Instructions) != 2 || len(second.Function.Instructions) != 2 {
		t.Fatalf("instructions leaked between runs: %v / %v", first, second)
	}
	if first.String() == second.String() {
		t.Fatalf("expected distinct programs, got %s twice", first)
	}
}

func TestGenerateDoesNotMutateInput(t *testing.T) {
	program := parse(t, "int main(void){return 9;}")
	before := program.String()
	_ = GenerateAssembly(program)
	if program.String() != before {
		t.Fatalf("syntactic AST changed: %q -> %q", before, program.String())
	}
}

func generateAssembly(t *testing.T, input string) *asm.Program {
	t.Helper()
	return New().Generate(parse(t, input))
}

func parse(t *testing.T, input string) *ast.Program {
	t.Helper()
	tokens, err := lexer.Lex(input)
	if err != nil {
		t.Fatalf("lexer error: %v", err)
	}
	program, err := parser.Parse(tokens)
	if err != nil {
		t.Fatalf("parser error: %v", err)
	}
	return program
}
